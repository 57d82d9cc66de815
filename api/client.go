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

// Package api serves resolved BGZF chunk lists for BAI indexes hosted on
// local disk or in Google Cloud Storage.
package api

import (
	"context"
	"io"
)

// Client is an interface to the storage engine holding index objects.
type Client interface {
	// NewObjectHandle returns a handle to a specified object in the storage
	// engine.
	NewObjectHandle(bucket, object string) ObjectHandle
}

// ObjectHandle is an interface to a single object in the storage engine.
type ObjectHandle interface {
	// NewRangeReader returns a reader over a byte range of the object.  A
	// length of -1 means to read everything until the end.
	NewRangeReader(ctx context.Context, offset, length int64) (io.ReadCloser, error)
}
