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

package bai

import (
	"bytes"
	"fmt"
	"io"

	"github.com/genomics-tools/bindex/internal/binary"
)

// span is the byte range one reference's index section occupies inside the
// full index buffer.
type span struct {
	start, stop int
}

// scanOffsets performs one structural pass over data and returns the byte
// offset of every reference's index section plus a final end-of-data
// sentinel (n_ref+1 offsets for n_ref references).  Bin and interval
// contents are skipped, not decoded, so the cost is proportional to the
// number of bins rather than the number of chunks.
func scanOffsets(data []byte) ([]int, error) {
	r := bytes.NewReader(data)

	// The magic bytes are not interpreted here.
	if err := skip(r, 4); err != nil {
		return nil, fmt.Errorf("%w: reading magic: %v", ErrMalformed, err)
	}
	var references int32
	if err := binary.Read(r, &references); err != nil {
		return nil, fmt.Errorf("%w: reading reference count: %v", ErrMalformed, err)
	}
	if references < 0 {
		return nil, fmt.Errorf("%w: invalid reference count (%d)", ErrMalformed, references)
	}

	offsets := make([]int, 0, references+1)
	for i := int32(0); i < references; i++ {
		offsets = append(offsets, len(data)-r.Len())

		var bins int32
		if err := binary.Read(r, &bins); err != nil {
			return nil, fmt.Errorf("%w: reading bin count for reference %d: %v", ErrMalformed, i, err)
		}
		if bins < 0 {
			return nil, fmt.Errorf("%w: invalid bin count (%d) for reference %d", ErrMalformed, bins, i)
		}
		for j := int32(0); j < bins; j++ {
			if err := skip(r, 4); err != nil {
				return nil, fmt.Errorf("%w: reading bin ID: %v", ErrMalformed, err)
			}
			var chunks int32
			if err := binary.Read(r, &chunks); err != nil {
				return nil, fmt.Errorf("%w: reading chunk count: %v", ErrMalformed, err)
			}
			if chunks < 0 {
				return nil, fmt.Errorf("%w: invalid chunk count (%d)", ErrMalformed, chunks)
			}
			// Each chunk is a pair of 8 byte virtual offsets.
			if err := skip(r, int64(chunks)*16); err != nil {
				return nil, fmt.Errorf("%w: reading past chunks: %v", ErrMalformed, err)
			}
		}

		var intervals int32
		if err := binary.Read(r, &intervals); err != nil {
			return nil, fmt.Errorf("%w: reading interval count for reference %d: %v", ErrMalformed, i, err)
		}
		if intervals < 0 {
			return nil, fmt.Errorf("%w: invalid interval count (%d) for reference %d", ErrMalformed, intervals, i)
		}
		if err := skip(r, int64(intervals)*8); err != nil {
			return nil, fmt.Errorf("%w: reading past linear index: %v", ErrMalformed, err)
		}
	}
	offsets = append(offsets, len(data)-r.Len())
	return offsets, nil
}

func skip(r *bytes.Reader, n int64) error {
	_, err := io.CopyN(io.Discard, r, n)
	return err
}
