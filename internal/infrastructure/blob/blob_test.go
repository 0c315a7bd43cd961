package blob

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/placement-portal/config"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	m := NewMemory("http://blobs.test")

	require.NoError(t, m.Put(ctx, "resumes/a.pdf", strings.NewReader("%PDF-1.4"), 8, "application/pdf"))
	assert.True(t, m.Has("resumes/a.pdf"))

	u, err := m.SignedURL(ctx, "resumes/a.pdf", time.Minute)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(u, "http://blobs.test/resumes%2Fa.pdf?expires="))

	_, err = m.SignedURL(ctx, "missing", time.Minute)
	assert.Error(t, err)

	require.NoError(t, m.Delete(ctx, "resumes/a.pdf"))
	require.NoError(t, m.Delete(ctx, "resumes/a.pdf"))
	assert.Equal(t, 0, m.Len())
}

func TestMemoryStoreHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, NewMemory("x").Put(ctx, "k", strings.NewReader("x"), 1, "text/plain"))
}

func TestNewSelectsBackend(t *testing.T) {
	s, closeFn, err := New(context.Background(), &config.Config{BlobBackend: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, s)
	assert.NoError(t, closeFn())

	_, _, err = New(context.Background(), &config.Config{BlobBackend: "ftp"})
	assert.EqualError(t, err, `unknown blob backend "ftp"`)
}

func TestS3SignsWithoutNetwork(t *testing.T) {
	s, err := NewS3(context.Background(), S3Options{
		Bucket:    "resumes",
		Region:    "us-east-1",
		Endpoint:  "http://minio.test:9000",
		AccessKey: "minio",
		SecretKey: "minio123",
	})
	require.NoError(t, err)
	u, err := s.SignedURL(context.Background(), "resumes/x.pdf", 10*time.Minute)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(u, "http://minio.test:9000/resumes/resumes/x.pdf?"))
	assert.Contains(t, u, "X-Amz-Expires=600")
}
