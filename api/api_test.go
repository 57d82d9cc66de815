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
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"cloud.google.com/go/storage"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/genomics-tools/bindex/internal/bgzf"
	"github.com/genomics-tools/bindex/internal/binary"
	"github.com/genomics-tools/bindex/internal/genomics"
)

// testIndex holds a single reference with one bin covering the first linear
// window and one chunk at [0x10000, 0x20000].
func testIndex(t *testing.T) []byte {
	t.Helper()

	var buffer bytes.Buffer
	buffer.WriteString("BAI\x01")
	for _, v := range []interface{}{
		int32(1),              // n_ref
		int32(1),              // n_bin
		uint32(4681),          // bin ID
		int32(1),              // n_chunk
		uint64(0x10000),       // chunk start
		uint64(0x20000),       // chunk end
		int32(1),              // n_intv
		uint64(0),             // linear index entry
	} {
		if err := binary.Write(&buffer, v); err != nil {
			t.Fatalf("Failed to write index data: %v", err)
		}
	}
	return buffer.Bytes()
}

const wantChunksBody = `{"chunks":[{"start":"10000","end":"20000"}]}`

func setupFileRouter(t *testing.T) *gin.Engine {
	t.Helper()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "NA12878.bai"), testIndex(t), 0644); err != nil {
		t.Fatalf("Failed to write testdata: %v", err)
	}

	r := gin.Default()
	r.GET("/chunks/:id", NewFileChunksHandler(dir))
	return r
}

func TestFileChunksRoute(t *testing.T) {
	router := setupFileRouter(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/chunks/NA12878?referenceId=0&start=0&end=100", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, wantChunksBody, w.Body.String())
}

func TestFileChunksRoute_Errors(t *testing.T) {
	testCases := []struct {
		name string
		url  string
		code int
	}{
		{"missing referenceId", "/chunks/NA12878?start=0&end=100", http.StatusBadRequest},
		{"bad referenceId", "/chunks/NA12878?referenceId=chr1", http.StatusBadRequest},
		{"bad start", "/chunks/NA12878?referenceId=0&start=x", http.StatusBadRequest},
		{"inverted region", "/chunks/NA12878?referenceId=0&start=100&end=5", http.StatusBadRequest},
		{"reference out of range", "/chunks/NA12878?referenceId=7", http.StatusBadRequest},
		{"unknown index", "/chunks/unknown?referenceId=0", http.StatusNotFound},
		{"path escape", "/chunks/..?referenceId=0", http.StatusBadRequest},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			router := setupFileRouter(t)

			w := httptest.NewRecorder()
			req, _ := http.NewRequest("GET", tc.url, nil)
			router.ServeHTTP(w, req)

			assert.Equal(t, tc.code, w.Code)
		})
	}
}

type fakeClient map[string][]byte

func (c fakeClient) NewObjectHandle(bucket, object string) ObjectHandle {
	return fakeObjectHandle{c, bucket + "/" + object}
}

type fakeObjectHandle struct {
	client fakeClient
	key    string
}

func (h fakeObjectHandle) NewRangeReader(_ context.Context, _, _ int64) (io.ReadCloser, error) {
	data, ok := h.client[h.key]
	if !ok {
		return nil, storage.ErrObjectNotExist
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func TestGCSChunksRoute(t *testing.T) {
	gcs := fakeClient{"genomics-public-data/NA12878.bam.bai": testIndex(t)}

	r := gin.Default()
	r.GET("/chunks/*id", NewGCSChunksHandler(gcs, []string{"genomics-public-data"}))

	testCases := []struct {
		name string
		url  string
		code int
	}{
		{"success", "/chunks/genomics-public-data/NA12878.bam.bai?referenceId=0&start=0&end=100", http.StatusOK},
		{"missing object", "/chunks/genomics-public-data/unknown.bai?referenceId=0", http.StatusNotFound},
		{"bucket not whitelisted", "/chunks/private-bucket/object.bai?referenceId=0", http.StatusBadRequest},
		{"missing object name", "/chunks/genomics-public-data?referenceId=0", http.StatusBadRequest},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest("GET", tc.url, nil)
			r.ServeHTTP(w, req)

			assert.Equal(t, tc.code, w.Code)
			if tc.code == http.StatusOK {
				assert.JSONEq(t, wantChunksBody, w.Body.String())
			}
		})
	}
}

func TestResolverCache_FetchesOnce(t *testing.T) {
	var fetches atomic.Int32
	index := testIndex(t)
	cache := newResolverCache(func(context.Context, string) ([]byte, error) {
		fetches.Add(1)
		return index, nil
	})

	first := cache.resolver("NA12878")
	second := cache.resolver("NA12878")
	assert.Same(t, first, second)

	region := genomics.Region{ReferenceID: 0, Start: 0, End: 100}
	for i := 0; i < 3; i++ {
		chunks, err := first.Chunks(context.Background(), region)
		assert.NoError(t, err)
		assert.Equal(t, []bgzf.Chunk{{Start: 0x10000, End: 0x20000}}, chunks)
	}
	assert.Equal(t, int32(1), fetches.Load())
}

func TestRequestID(t *testing.T) {
	r := gin.Default()
	r.Use(RequestID())
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/ping", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	id := w.Header().Get(RequestIDHeader)
	_, err := uuid.Parse(id)
	assert.NoError(t, err, "header %q should be a UUID", id)
}
