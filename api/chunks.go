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

package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/genomics-tools/bindex/internal/bai"
)

const baiSuffix = ".bai"

var errInvalidID = errors.New("invalid or unspecified ID")

// resolverCache hands out one remote resolver per object ID so that every
// index is fetched at most once per process.  A failed fetch stays failed;
// callers wanting a retry must restart the server.
type resolverCache struct {
	fetch func(ctx context.Context, id string) ([]byte, error)

	mu        sync.Mutex
	resolvers map[string]*bai.Remote
}

func newResolverCache(fetch func(context.Context, string) ([]byte, error)) *resolverCache {
	return &resolverCache{fetch: fetch, resolvers: make(map[string]*bai.Remote)}
}

func (cache *resolverCache) resolver(id string) *bai.Remote {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	if resolver, ok := cache.resolvers[id]; ok {
		return resolver
	}
	// The fetch deliberately outlives the request that triggered it; later
	// requests for the same object share its outcome.
	resolver := bai.NewRemote(context.Background(), bai.SourceFunc(func(ctx context.Context) ([]byte, error) {
		return cache.fetch(ctx, id)
	}))
	cache.resolvers[id] = resolver
	return resolver
}

// NewFileChunksHandler builds a gin handler that resolves regions against
// BAI files stored under directory.  A request for index "NA12878" reads
// the file "NA12878.bai".
func NewFileChunksHandler(directory string) gin.HandlerFunc {
	cache := newResolverCache(func(_ context.Context, id string) ([]byte, error) {
		if id == "" || strings.ContainsAny(id, `/\`) || strings.Contains(id, "..") {
			return nil, errInvalidID
		}
		return os.ReadFile(filepath.Join(directory, id+baiSuffix))
	})
	return handleChunks(cache, func(c *gin.Context) string {
		return c.Param("id")
	})
}

// NewGCSChunksHandler builds a gin handler that resolves regions against
// BAI objects named "bucket/object", read using gcs.  If buckets is
// non-empty, only the listed buckets may be read.
func NewGCSChunksHandler(gcs Client, buckets []string) gin.HandlerFunc {
	whitelist := make(map[string]bool)
	for _, bucket := range buckets {
		whitelist[bucket] = true
	}

	cache := newResolverCache(func(ctx context.Context, id string) ([]byte, error) {
		bucket, object, err := parseID(id)
		if err != nil {
			return nil, err
		}
		if len(whitelist) > 0 && !whitelist[bucket] {
			return nil, fmt.Errorf("%w: bucket %q is not whitelisted", errInvalidID, bucket)
		}
		index, err := gcs.NewObjectHandle(bucket, object).NewRangeReader(ctx, 0, -1)
		if err != nil {
			return nil, err
		}
		defer index.Close()
		return io.ReadAll(index)
	})
	return handleChunks(cache, func(c *gin.Context) string {
		// Wildcard route parameters keep their leading slash.
		return strings.TrimPrefix(c.Param("id"), "/")
	})
}

func parseID(id string) (string, string, error) {
	parts := strings.SplitN(id, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", errInvalidID
	}
	return parts[0], parts[1], nil
}

func handleChunks(cache *resolverCache, id func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		region, err := regionFromQuery(c)
		if err != nil {
			c.String(http.StatusBadRequest, "Error parsing region: %v", err)
			return
		}

		chunks, err := cache.resolver(id(c)).Chunks(c.Request.Context(), region)
		if err != nil {
			c.String(statusForError(err), "Error resolving chunks: %v", err)
			return
		}
		c.JSON(http.StatusOK, NewChunksResponse(chunks))
	}
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, errInvalidID), errors.Is(err, bai.ErrOutOfRange):
		return http.StatusBadRequest
	case errors.Is(err, fs.ErrNotExist):
		return http.StatusNotFound
	case errors.Is(err, bai.ErrMalformed):
		return http.StatusBadGateway
	default:
		return statusForStorageError(err)
	}
}
