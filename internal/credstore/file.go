package credstore

import (
	"context"
	"os"
	"path/filepath"
	"strings"
)

// FileStore persists the token as the raw contents of a single file.
// A missing file means no token is held.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Get(ctx context.Context) (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		// Missing or unreadable file degrades to anonymous.
		return "", nil
	}
	return strings.TrimSpace(string(data)), nil
}

func (s *FileStore) Set(ctx context.Context, token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(s.path, []byte(token), 0o600)
}

func (s *FileStore) Clear(ctx context.Context) error {
	err := os.Remove(s.path)
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}
