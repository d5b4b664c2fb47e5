package fs

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// DirStore writes exported pages below a root directory.
type DirStore struct {
	fs   FileSystem
	root string
}

func NewDirStore(fs FileSystem, root string) *DirStore {
	return &DirStore{fs: fs, root: root}
}

func (s *DirStore) Root() string {
	return s.root
}

func (s *DirStore) Put(ctx context.Context, key string, data []byte, _ string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path, err := s.path(key)
	if err != nil {
		return err
	}

	if err := s.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", key, err)
	}
	if err := s.fs.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func (s *DirStore) path(key string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(strings.TrimPrefix(key, "/")))
	if clean == "." || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) || filepath.IsAbs(clean) {
		return "", fmt.Errorf("invalid export key %q", key)
	}
	return filepath.Join(s.root, clean), nil
}
