package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// FSStore writes exports below a local directory
type FSStore struct {
	root string
}

// NewFSStore returns a filesystem archive rooted at root, creating it if needed
func NewFSStore(root string) (*FSStore, error) {
	if root == "" {
		root = "./storage"
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &FSStore{root: root}, nil
}

func (s *FSStore) Driver() string { return "fs" }

// Put writes data atomically; an existing key is overwritten
func (s *FSStore) Put(ctx context.Context, key, contentType string, data []byte) (Object, error) {
	clean, err := sanitizeKey(key)
	if err != nil {
		return Object{}, err
	}
	dataPath := filepath.Join(s.root, filepath.FromSlash(clean))
	if err := os.MkdirAll(filepath.Dir(dataPath), 0o755); err != nil {
		return Object{}, err
	}

	tmp, err := os.CreateTemp(filepath.Dir(dataPath), ".tmp-*")
	if err != nil {
		return Object{}, err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return Object{}, err
	}
	if err := tmp.Close(); err != nil {
		return Object{}, err
	}
	if err := os.Rename(tmp.Name(), dataPath); err != nil {
		return Object{}, fmt.Errorf("storing %s: %w", clean, err)
	}

	return Object{
		Key:       clean,
		Size:      int64(len(data)),
		Driver:    s.Driver(),
		CreatedAt: time.Now().UTC(),
	}, nil
}
