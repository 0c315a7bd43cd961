package blob

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"sync"
	"time"
)

type memObject struct {
	data        []byte
	contentType string
}

// Memory keeps objects in process. Signed URLs point at baseURL and are not
// servable; it exists for STORE_DRIVER=memory setups and tests.
type Memory struct {
	mu      sync.RWMutex
	objects map[string]memObject
	baseURL string
}

func NewMemory(baseURL string) *Memory {
	return &Memory{objects: map[string]memObject{}, baseURL: baseURL}
}

func (m *Memory) Put(ctx context.Context, key string, r io.Reader, _ int64, contentType string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = memObject{data: buf.Bytes(), contentType: contentType}
	return nil
}

func (m *Memory) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

func (m *Memory) SignedURL(_ context.Context, key string, ttl time.Duration) (string, error) {
	m.mu.RLock()
	_, ok := m.objects[key]
	m.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("object %q not found", key)
	}
	exp := time.Now().Add(ttl).Unix()
	return fmt.Sprintf("%s/%s?expires=%d", m.baseURL, url.PathEscape(key), exp), nil
}

// Has reports whether key is stored.
func (m *Memory) Has(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.objects[key]
	return ok
}

// Len returns the number of stored objects.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}
