package mocks

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"photoshare/application/ports"
	"photoshare/domain/events"

	"github.com/stretchr/testify/mock"
)

// MockEventPublisher is a testify mock of ports.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, event events.DomainEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventPublisher) PublishBatch(ctx context.Context, batch []events.DomainEvent) error {
	args := m.Called(ctx, batch)
	return args.Error(0)
}

// MockBlobStore is a testify mock of ports.BlobStore
type MockBlobStore struct {
	mock.Mock
}

func (m *MockBlobStore) Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) (ports.Blob, error) {
	args := m.Called(ctx, key, body, size, contentType)
	return args.Get(0).(ports.Blob), args.Error(1)
}

func (m *MockBlobStore) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockBlobStore) KeyFromURL(url string) (string, bool) {
	args := m.Called(url)
	return args.String(0), args.Bool(1)
}

// MemoryBlobStore keeps uploaded objects in a map
type MemoryBlobStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

// NewMemoryBlobStore creates an empty blob store
func NewMemoryBlobStore() *MemoryBlobStore {
	return &MemoryBlobStore{objects: make(map[string][]byte)}
}

const memoryBlobBase = "https://blobs.test/"

func (s *MemoryBlobStore) Upload(_ context.Context, key string, body io.Reader, _ int64, _ string) (ports.Blob, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return ports.Blob{}, fmt.Errorf("read body: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = data
	return ports.Blob{Key: key, URL: memoryBlobBase + key}, nil
}

func (s *MemoryBlobStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

func (s *MemoryBlobStore) KeyFromURL(url string) (string, bool) {
	if !strings.HasPrefix(url, memoryBlobBase) {
		return "", false
	}
	return strings.TrimPrefix(url, memoryBlobBase), true
}

// Keys returns the stored object keys
func (s *MemoryBlobStore) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.objects))
	for k := range s.objects {
		keys = append(keys, k)
	}
	return keys
}
