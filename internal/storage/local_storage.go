package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage implements image storage on the local filesystem. It stands in
// for a cloud bucket in development and small deployments; files are served
// back over the API's /api/uploads route.
type LocalStorage struct {
	baseURL   string // server URL (e.g., "http://localhost:8080")
	uploadDir string // local directory for uploads (e.g., "./uploads")
}

// NewLocalStorage creates a local storage backend rooted at uploadDir.
func NewLocalStorage(baseURL, uploadDir string) (*LocalStorage, error) {
	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &LocalStorage{
		baseURL:   strings.TrimRight(baseURL, "/"),
		uploadDir: uploadDir,
	}, nil
}

func (s *LocalStorage) path(key string) string {
	// Keys are server-generated UUID names; Base strips anything else.
	return filepath.Join(s.uploadDir, filepath.Base(key))
}

func (s *LocalStorage) Save(ctx context.Context, key string, reader io.Reader) error {
	f, err := os.Create(s.path(key))
	if err != nil {
		return fmt.Errorf("failed to create file for key %s: %w", key, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, reader); err != nil {
		return fmt.Errorf("failed to write file for key %s: %w", key, err)
	}
	return nil
}

func (s *LocalStorage) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	f, err := os.Open(s.path(key))
	if err != nil {
		return nil, fmt.Errorf("failed to open file for key %s: %w", key, err)
	}
	return f, nil
}

func (s *LocalStorage) Delete(ctx context.Context, key string) error {
	err := os.Remove(s.path(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file for key %s: %w", key, err)
	}
	return nil
}

func (s *LocalStorage) URL(key string) string {
	if key == "" {
		return ""
	}
	return fmt.Sprintf("%s/api/uploads/%s", s.baseURL, key)
}
