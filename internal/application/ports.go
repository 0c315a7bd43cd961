package application

import (
	"context"
	"io"
	"time"

	"github.com/oksasatya/placement-portal/internal/domain/entity"
)

// BlobStore holds résumé files. Implemented by internal/infrastructure/blob.
type BlobStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, key string) error
	SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// JobIndex is the full-text index over job postings.
type JobIndex interface {
	Index(ctx context.Context, j entity.Job, company string) error
	Search(ctx context.Context, q string, size int) ([]string, error)
}

// Clock returns the current time. Services default to time.Now.
type Clock func() time.Time
