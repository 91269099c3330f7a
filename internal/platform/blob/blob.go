package blob

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

var ErrNotFound = errors.New("blob not found")

// Store is a write-once byte store. A handle returned by Put must remain
// readable for the lifetime of the row that references it.
type Store interface {
	Put(ctx context.Context, key string, data []byte) (string, error)
	Get(ctx context.Context, handle string) ([]byte, error)
}

// FSStore keeps blobs as files under a root directory. Handles are paths
// relative to the root.
type FSStore struct {
	Root string
}

func NewFSStore(root string) (*FSStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &FSStore{Root: root}, nil
}

func (s *FSStore) Put(_ context.Context, key string, data []byte) (string, error) {
	rel := filepath.Clean(key)
	if strings.HasPrefix(rel, "..") || filepath.IsAbs(rel) {
		return "", errors.New("blob key escapes store root")
	}
	path := filepath.Join(s.Root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return rel, nil
}

func (s *FSStore) Get(_ context.Context, handle string) ([]byte, error) {
	rel := filepath.Clean(handle)
	if strings.HasPrefix(rel, "..") || filepath.IsAbs(rel) {
		return nil, ErrNotFound
	}
	data, err := os.ReadFile(filepath.Join(s.Root, rel))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return data, nil
}
