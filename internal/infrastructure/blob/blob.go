// Package blob stores résumé files in object storage.
package blob

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/oksasatya/placement-portal/config"
)

// Store is a key-addressed object store.
type Store interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	// Delete removes key. Deleting a missing key succeeds.
	Delete(ctx context.Context, key string) error
	SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// New builds the backend selected by cfg.BlobBackend. The returned close
// function releases the client.
func New(ctx context.Context, cfg *config.Config) (Store, func() error, error) {
	switch cfg.BlobBackend {
	case "gcs":
		g, err := NewGCS(ctx, cfg.GCSCredentialsJSONPath, cfg.GCSBucket)
		if err != nil {
			return nil, nil, err
		}
		return g, g.Close, nil
	case "s3":
		s, err := NewS3(ctx, S3Options{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
		if err != nil {
			return nil, nil, err
		}
		return s, func() error { return nil }, nil
	case "memory":
		return NewMemory("http://localhost/blobs"), func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("unknown blob backend %q", cfg.BlobBackend)
	}
}
