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

	"github.com/genomics-tools/bindex/internal/bgzf"
	"github.com/genomics-tools/bindex/internal/binary"
)

// bin is one node of the hierarchical spatial index for a reference.
type bin struct {
	id     uint32
	chunks []bgzf.Chunk
}

// referenceIndex is one reference's decoded index section: its bins and the
// linear index, which holds the smallest virtual offset known to contain
// records starting at or after each 16384 base window.
type referenceIndex struct {
	bins      []bin
	intervals []bgzf.Address
}

// decodeReference decodes one reference's index section from the byte span
// located by the structural scan.
func decodeReference(data []byte) (*referenceIndex, error) {
	r := bytes.NewReader(data)

	var binCount int32
	if err := binary.Read(r, &binCount); err != nil {
		return nil, fmt.Errorf("%w: reading bin count: %v", ErrMalformed, err)
	}
	if binCount < 0 {
		return nil, fmt.Errorf("%w: invalid bin count (%d)", ErrMalformed, binCount)
	}

	reference := &referenceIndex{bins: make([]bin, 0, binCount)}
	for i := int32(0); i < binCount; i++ {
		var header struct {
			ID     uint32
			Chunks int32
		}
		if err := binary.Read(r, &header); err != nil {
			return nil, fmt.Errorf("%w: reading bin header: %v", ErrMalformed, err)
		}
		if header.Chunks < 0 {
			return nil, fmt.Errorf("%w: invalid chunk count (%d) in bin %d", ErrMalformed, header.Chunks, header.ID)
		}
		chunks := make([]bgzf.Chunk, header.Chunks)
		if err := binary.Read(r, &chunks); err != nil {
			return nil, fmt.Errorf("%w: reading chunks for bin %d: %v", ErrMalformed, header.ID, err)
		}
		reference.bins = append(reference.bins, bin{id: header.ID, chunks: chunks})
	}

	var intervalCount int32
	if err := binary.Read(r, &intervalCount); err != nil {
		return nil, fmt.Errorf("%w: reading interval count: %v", ErrMalformed, err)
	}
	if intervalCount < 0 {
		return nil, fmt.Errorf("%w: invalid interval count (%d)", ErrMalformed, intervalCount)
	}
	intervals := make([]bgzf.Address, intervalCount)
	if err := binary.Read(r, &intervals); err != nil {
		return nil, fmt.Errorf("%w: reading linear index: %v", ErrMalformed, err)
	}
	reference.intervals = intervals

	if r.Len() != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrMalformed, r.Len())
	}
	return reference, nil
}
