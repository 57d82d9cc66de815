// Copyright 2024 The bindex Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package binary

import (
	"bytes"
	"testing"
)

func TestExpectBytes(t *testing.T) {
	testCases := []struct {
		want  []byte
		input []byte
		match bool
	}{
		{[]byte("BAI\x01"), []byte("BAI\x01"), true},
		{[]byte("BAI\x01"), []byte("BAI\x01EXTRA"), true},
		{[]byte("BAI\x01"), []byte("BAI\x02"), false},
		{[]byte("BAI\x01"), []byte("BAI"), false},
		{[]byte("BAI\x01"), []byte(""), false},
	}

	for _, tc := range testCases {
		t.Run(string(tc.input), func(t *testing.T) {
			err := ExpectBytes(bytes.NewReader(tc.input), tc.want)
			if err != nil && tc.match {
				t.Fatalf("ExpectBytes returned unexpected error: %v", err)
			} else if err == nil && !tc.match {
				t.Fatalf("ExpectBytes accepted mismatched input %q", tc.input)
			}
		})
	}
}

func TestReadWriteRoundTrip(t *testing.T) {
	var buffer bytes.Buffer
	if err := Write(&buffer, int32(-7)); err != nil {
		t.Fatalf("Write returned unexpected error: %v", err)
	}
	if got, want := buffer.Bytes(), []byte{0xf9, 0xff, 0xff, 0xff}; !bytes.Equal(got, want) {
		t.Fatalf("Wrong encoding: got %v, want %v", got, want)
	}

	var v int32
	if err := Read(&buffer, &v); err != nil {
		t.Fatalf("Read returned unexpected error: %v", err)
	}
	if v != -7 {
		t.Fatalf("Wrong value: got %d, want -7", v)
	}
}
