// Package fsstore implements blob.Store on the local filesystem.
//
// It exists for tests and single-node local runs; production deployments use
// blob/minio.
package fsstore

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/luminai/askdocs/blob"
)

// Store keeps objects as files under a root directory, one file per key.
type Store struct {
	root string
}

var _ blob.Store = (*Store)(nil)

// NewStore creates a filesystem-backed store rooted at dir.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &Store{root: dir}, nil
}

func (s *Store) objectPath(key string) string {
	return filepath.Join(s.root, filepath.FromSlash(key))
}

// Download copies the object to a temporary file and returns its path.
func (s *Store) Download(ctx context.Context, key string) (string, error) {
	src, err := os.Open(s.objectPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", blob.ErrNotFound, key)
		}
		return "", err
	}
	defer src.Close()

	tmp, err := os.CreateTemp("", "askdocs-blob-*")
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}

	return tmp.Name(), nil
}

// Upload stores the object under the given key.
func (s *Store) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	path := s.objectPath(key)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	dst, err := os.Create(path)
	if err != nil {
		return err
	}

	if _, err := io.Copy(dst, r); err != nil {
		dst.Close()
		return err
	}
	return dst.Close()
}

// Presign returns a file URL. There is no access control on the local
// filesystem, so the TTL is ignored.
func (s *Store) Presign(ctx context.Context, key string, _ time.Duration) (string, error) {
	path := s.objectPath(key)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", blob.ErrNotFound, key)
		}
		return "", err
	}
	return "file://" + path, nil
}
