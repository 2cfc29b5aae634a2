// Package storage adapts object storage backends to the two calls the upload pipeline
// needs: put the bytes, then ask for a public URL.
package storage

import (
	"context"
	"io"
)

// ObjectStore is the object storage collaborator.
type ObjectStore interface {
	Upload(ctx context.Context, bucket, path string, r io.Reader, size int64, contentType string) error
	PublicURL(bucket, path string) string
}
