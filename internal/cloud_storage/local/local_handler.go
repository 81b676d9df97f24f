package local

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/signpost-app/signpost/internal/cloud_storage/types"
)

// LocalStorage keeps objects under a directory on disk. Used for
// development and tests; production runs against GCS.
type LocalStorage struct {
	Dir string
}

func NewLocalStorage(dir string) (types.ObjectStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &LocalStorage{Dir: dir}, nil
}

func (s *LocalStorage) path(name string) (string, error) {
	cleaned := filepath.Clean(name)
	if strings.HasPrefix(cleaned, "..") || filepath.IsAbs(cleaned) {
		return "", errors.New("invalid object name")
	}
	return filepath.Join(s.Dir, cleaned), nil
}

func (s *LocalStorage) PutObject(ctx context.Context, name string, data []byte) error {
	p, err := s.path(name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	return os.WriteFile(p, data, 0o644)
}

func (s *LocalStorage) GetObject(ctx context.Context, name string) ([]byte, error) {
	p, err := s.path(name)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(p)
}

func (s *LocalStorage) DeleteObject(ctx context.Context, name string) error {
	p, err := s.path(name)
	if err != nil {
		return err
	}
	return os.Remove(p)
}

func (s *LocalStorage) Close() error {
	return nil
}
