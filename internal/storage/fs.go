package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// FSStore reads objects from files under a root directory.
type FSStore struct {
	root string
}

// NewFS returns a filesystem store rooted at root. The directory must exist.
func NewFS(root string) (*FSStore, error) {
	if root == "" {
		return nil, errors.New("fs root required")
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("fs root %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("fs root %s is not a directory", root)
	}
	return &FSStore{root: root}, nil
}

func (s *FSStore) Driver() Driver { return DriverFilesystem }

// Get opens the file for key.
func (s *FSStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	k, err := CleanKey(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(filepath.Join(s.root, filepath.FromSlash(k)))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, k)
		}
		return nil, err
	}
	return f, nil
}
