package blob

import (
	"context"
	"io"
	"time"

	"cloud.google.com/go/storage"

	"github.com/oksasatya/placement-portal/pkg/helpers"
)

// GCS stores objects in one Google Cloud Storage bucket.
type GCS struct {
	client *storage.Client
	bucket string
}

func NewGCS(ctx context.Context, credsPath, bucket string) (*GCS, error) {
	client, err := helpers.NewGCSClient(ctx, credsPath)
	if err != nil {
		return nil, err
	}
	return &GCS{client: client, bucket: bucket}, nil
}

func (g *GCS) Put(ctx context.Context, key string, r io.Reader, _ int64, contentType string) error {
	return helpers.UploadObject(ctx, g.client, g.bucket, key, contentType, r)
}

func (g *GCS) Delete(ctx context.Context, key string) error {
	return helpers.DeleteObject(ctx, g.client, g.bucket, key)
}

func (g *GCS) SignedURL(_ context.Context, key string, ttl time.Duration) (string, error) {
	return helpers.SignedGetURL(g.client, g.bucket, key, ttl)
}

func (g *GCS) Close() error { return g.client.Close() }
