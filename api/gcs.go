package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"cloud.google.com/go/storage"
	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// GCSClient is a Client backed by Google Cloud Storage.
type GCSClient struct {
	*storage.Client
}

// NewObjectHandle returns a handle to a specified object in the storage
// engine.
func (c GCSClient) NewObjectHandle(bucket, object string) ObjectHandle {
	return gcsObjectHandle{c.Bucket(bucket).Object(object)}
}

type gcsObjectHandle struct {
	*storage.ObjectHandle
}

func (h gcsObjectHandle) NewRangeReader(ctx context.Context, offset, length int64) (io.ReadCloser, error) {
	return h.ObjectHandle.NewRangeReader(ctx, offset, length)
}

// NewDefaultClient returns a storage client that uses the application
// default credentials.
func NewDefaultClient(ctx context.Context) (Client, error) {
	return newClientWithOptions(ctx)
}

// NewPublicClient returns a storage client that does not use any form of
// client authorization.  It can only be used to read publicly-readable
// objects.
func NewPublicClient(ctx context.Context) (Client, error) {
	return newClientWithOptions(ctx, option.WithHTTPClient(http.DefaultClient))
}

// NewTokenClient returns a storage client that authorizes every request
// with the provided OAuth2 access token.
func NewTokenClient(ctx context.Context, accessToken string) (Client, error) {
	token := oauth2.Token{
		TokenType:   "Bearer",
		AccessToken: accessToken,
	}
	return newClientWithOptions(ctx, option.WithTokenSource(oauth2.StaticTokenSource(&token)))
}

func newClientWithOptions(ctx context.Context, opts ...option.ClientOption) (Client, error) {
	gcs, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating storage client: %v", err)
	}
	return GCSClient{gcs}, nil
}

// statusForStorageError maps a storage failure onto the HTTP status the
// chunk endpoints report for it.
func statusForStorageError(err error) int {
	if errors.Is(err, storage.ErrObjectNotExist) {
		return http.StatusNotFound
	}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
			return apiErr.Code
		}
	}
	return http.StatusBadGateway
}
