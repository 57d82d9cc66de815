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
	"context"
	"fmt"

	"github.com/genomics-tools/bindex/internal/bgzf"
	"github.com/genomics-tools/bindex/internal/genomics"
)

// ByteSource fetches the entire contents of a remotely stored index.
type ByteSource interface {
	FetchAll(ctx context.Context) ([]byte, error)
}

// SourceFunc adapts a function to the ByteSource interface.
type SourceFunc func(ctx context.Context) ([]byte, error)

// FetchAll calls f(ctx).
func (f SourceFunc) FetchAll(ctx context.Context) ([]byte, error) {
	return f(ctx)
}

// Remote resolves regions against an index that must first be fetched from a
// remote source.  The fetch is issued exactly once, when the Remote is
// created, and its outcome is retained for the lifetime of the Remote: after
// a failed fetch every pending and future query observes the same error.
type Remote struct {
	ready chan struct{}

	// Written once by the fetch goroutine before ready is closed.
	index *Index
	err   error
}

// NewRemote starts fetching the index held by source and returns
// immediately.  The provided context governs only the fetch; queries carry
// their own contexts.
func NewRemote(ctx context.Context, source ByteSource) *Remote {
	remote := &Remote{ready: make(chan struct{})}
	go func() {
		defer close(remote.ready)
		data, err := source.FetchAll(ctx)
		if err != nil {
			remote.err = fmt.Errorf("fetching index: %w", err)
			return
		}
		remote.index, remote.err = New(data)
	}()
	return remote
}

// Chunks waits for the initial fetch to settle, then resolves region against
// the fetched index.  Cancelling ctx abandons the wait, not the fetch.
func (remote *Remote) Chunks(ctx context.Context, region genomics.Region) ([]bgzf.Chunk, error) {
	select {
	case <-remote.ready:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	if remote.err != nil {
		return nil, remote.err
	}
	return remote.index.Chunks(region)
}
