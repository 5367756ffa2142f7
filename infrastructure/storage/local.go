package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"photoshare/application/ports"

	"go.uber.org/zap"
)

// LocalBlobStore keeps images in a directory that the HTTP server exposes
// under baseURL. Used when no bucket is configured.
type LocalBlobStore struct {
	dir     string
	baseURL string
	logger  *zap.Logger
}

// NewLocalBlobStore creates the directory if needed
func NewLocalBlobStore(dir, baseURL string, logger *zap.Logger) (*LocalBlobStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &LocalBlobStore{dir: dir, baseURL: strings.TrimSuffix(baseURL, "/"), logger: logger}, nil
}

var _ ports.BlobStore = (*LocalBlobStore)(nil)

// Dir is the directory holding the stored files
func (s *LocalBlobStore) Dir() string { return s.dir }

func (s *LocalBlobStore) path(key string) (string, error) {
	clean := filepath.Clean("/" + key)
	if clean == "/" {
		return "", fmt.Errorf("invalid object key %q", key)
	}
	return filepath.Join(s.dir, clean), nil
}

func (s *LocalBlobStore) Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) (ports.Blob, error) {
	p, err := s.path(key)
	if err != nil {
		return ports.Blob{}, err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return ports.Blob{}, fmt.Errorf("failed to create object directory: %w", err)
	}

	f, err := os.Create(p)
	if err != nil {
		return ports.Blob{}, fmt.Errorf("failed to create object: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, body); err != nil {
		return ports.Blob{}, fmt.Errorf("failed to write object: %w", err)
	}
	return ports.Blob{Key: key, URL: s.baseURL + "/" + key}, nil
}

func (s *LocalBlobStore) Delete(ctx context.Context, key string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

func (s *LocalBlobStore) KeyFromURL(url string) (string, bool) {
	return keyUnder(s.baseURL, url)
}
