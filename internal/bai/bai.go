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

// Package bai resolves genomic regions to the minimal set of BGZF chunks
// that must be fetched from a coordinate-sorted BAM file, using its BAI
// index.
package bai

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"sync/atomic"

	"github.com/klauspost/compress/gzip"
	"golang.org/x/sync/singleflight"

	"github.com/genomics-tools/bindex/internal/bgzf"
	"github.com/genomics-tools/bindex/internal/genomics"
)

const (
	// This ID is used as a virtual bin ID for (unused) chunk metadata.
	metadataID = 37450

	// The maximum read length as constrained by the size of the level zero bin
	// in the SAM specification, section 5.1.1.
	maximumReadLength = 1 << 29

	// The size of each tiling window from the linear index, as specified in
	// the SAM specification section 5.1.3.
	linearWindowSize = 1 << 14
)

var (
	// ErrMalformed reports index data that is truncated or structurally
	// inconsistent.
	ErrMalformed = errors.New("malformed index")

	// ErrOutOfRange reports a query for a reference sequence the index does
	// not cover.
	ErrOutOfRange = errors.New("reference id out of range")
)

// Index resolves regions against BAI index data held in memory.
//
// The structural scan that locates each reference's index section runs once,
// when the Index is created.  Bin and linear index contents are decoded
// lazily, per reference, on the first query that touches them.  An Index is
// safe for concurrent use.
type Index struct {
	data  []byte
	spans []span

	group      singleflight.Group
	references []atomic.Pointer[referenceIndex]
}

// New returns an Index over data, which must hold a complete BAI index,
// optionally gzip (or BGZF) compressed.
func New(data []byte) (*Index, error) {
	if len(data) >= 2 && data[0] == 0x1f && data[1] == 0x8b {
		inflated, err := inflate(data)
		if err != nil {
			return nil, fmt.Errorf("%w: decompressing: %v", ErrMalformed, err)
		}
		data = inflated
	}

	offsets, err := scanOffsets(data)
	if err != nil {
		return nil, err
	}
	spans := make([]span, len(offsets)-1)
	for i := range spans {
		spans[i] = span{start: offsets[i], stop: offsets[i+1]}
	}
	return &Index{
		data:       data,
		spans:      spans,
		references: make([]atomic.Pointer[referenceIndex], len(spans)),
	}, nil
}

// NumReferences returns the number of reference sequences covered by the
// index.
func (index *Index) NumReferences() int {
	return len(index.spans)
}

// Chunks returns the minimal ordered set of BGZF chunks that must be fetched
// from the data file to cover every record overlapping region.
func (index *Index) Chunks(region genomics.Region) ([]bgzf.Chunk, error) {
	if region.ReferenceID < 0 || int(region.ReferenceID) >= len(index.spans) {
		return nil, fmt.Errorf("%w: reference %d (index covers %d)", ErrOutOfRange, region.ReferenceID, len(index.spans))
	}

	var end uint32
	if region.End != 0 {
		// The extra position matches the window granularity of the linear
		// index; a wrapped value behaves like an unbounded query.
		end = region.End + 1
	}
	bins := binsForRange(region.Start, end)

	reference, err := index.reference(region.ReferenceID)
	if err != nil {
		return nil, err
	}

	var candidates []bgzf.Chunk
	for _, bin := range reference.bins {
		if bin.id == metadataID {
			continue
		}
		if !containsBin(bins, bin.id) {
			continue
		}
		candidates = append(candidates, bin.chunks...)
	}

	var minOffset bgzf.Address
	if i := int(region.Start / linearWindowSize); i < len(reference.intervals) {
		minOffset = reference.intervals[i]
	}
	return bgzf.Coalesce(candidates, minOffset), nil
}

func (index *Index) reference(id int32) (*referenceIndex, error) {
	slot := &index.references[id]
	if reference := slot.Load(); reference != nil {
		return reference, nil
	}

	v, err, _ := index.group.Do(strconv.Itoa(int(id)), func() (interface{}, error) {
		if reference := slot.Load(); reference != nil {
			return reference, nil
		}
		span := index.spans[id]
		reference, err := decodeReference(index.data[span.start:span.stop])
		if err != nil {
			return nil, fmt.Errorf("decoding reference %d: %w", id, err)
		}
		slot.Store(reference)
		return reference, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*referenceIndex), nil
}

func inflate(data []byte) ([]byte, error) {
	gzr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer gzr.Close()
	return io.ReadAll(gzr)
}
