package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// FilesystemStorage writes blobs under a root directory and serves them at
// baseURL/<path>. Good enough for single-node deployments; remote stores
// plug in behind the same interface.
type FilesystemStorage struct {
	root    string
	baseURL string
}

func NewFilesystemStorage(root, baseURL string) (*FilesystemStorage, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage root: %w", err)
	}
	return &FilesystemStorage{
		root:    root,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

func (s *FilesystemStorage) Upload(_ context.Context, path string, r io.Reader) (string, error) {
	clean, err := s.resolve(path)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(clean), 0o755); err != nil {
		return "", fmt.Errorf("failed to create blob directory: %w", err)
	}

	f, err := os.Create(clean)
	if err != nil {
		return "", fmt.Errorf("failed to create blob: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(clean)
		return "", fmt.Errorf("failed to write blob: %w", err)
	}

	return s.baseURL + "/" + strings.TrimLeft(path, "/"), nil
}

func (s *FilesystemStorage) Delete(_ context.Context, path string) error {
	clean, err := s.resolve(path)
	if err != nil {
		return err
	}
	if err := os.Remove(clean); err != nil {
		if os.IsNotExist(err) {
			return ErrBlobNotFound
		}
		return fmt.Errorf("failed to delete blob: %w", err)
	}
	return nil
}

// resolve rejects paths escaping the storage root.
func (s *FilesystemStorage) resolve(path string) (string, error) {
	clean := filepath.Clean("/" + path)
	if clean == "/" || strings.Contains(path, "..") {
		return "", ErrInvalidPath
	}
	return filepath.Join(s.root, clean), nil
}
