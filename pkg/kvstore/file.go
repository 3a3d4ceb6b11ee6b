package kvstore

import (
	"fmt"
	"os"
	"path/filepath"
)

// fileStore keeps one file per key under a root directory.
type fileStore struct {
	root string
}

// OpenFile opens (creating if needed) a file-backed store rooted at dir.
func OpenFile(dir string) (Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("kvstore/file: mkdir %s: %w", dir, err)
	}
	return &fileStore{root: dir}, nil
}

func (s *fileStore) path(key string) string {
	return filepath.Join(s.root, key+".json")
}

// Put writes atomically: a temp file in the same directory, then rename, so a
// crash mid-write never leaves a truncated value behind.
func (s *fileStore) Put(key string, value []byte) error {
	tmp, err := os.CreateTemp(s.root, key+".*")
	if err != nil {
		return fmt.Errorf("kvstore/file: temp %s: %w", key, err)
	}
	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("kvstore/file: write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("kvstore/file: close %s: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), s.path(key)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("kvstore/file: rename %s: %w", key, err)
	}
	return nil
}

func (s *fileStore) Get(key string) ([]byte, error) {
	data, err := os.ReadFile(s.path(key))
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("kvstore/file: get %s: %w", key, err)
	}
	return data, nil
}

func (s *fileStore) Delete(key string) error {
	err := os.Remove(s.path(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("kvstore/file: delete %s: %w", key, err)
	}
	return nil
}

func (s *fileStore) Close() error { return nil }
