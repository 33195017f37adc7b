package storage

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// LocalStore writes photos below dir and serves them under urlPrefix.
type LocalStore struct {
	dir       string
	urlPrefix string
}

func NewLocalStore(dir, urlPrefix string) *LocalStore {
	return &LocalStore{dir: dir, urlPrefix: "/" + strings.Trim(urlPrefix, "/")}
}

// EnsureDir creates the upload directory if it does not exist.
func (s *LocalStore) EnsureDir() error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create upload dir %s: %w", s.dir, err)
	}
	return nil
}

func (s *LocalStore) Save(ctx context.Context, key, _ string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	clean := path.Clean("/" + key)
	target := filepath.Join(s.dir, filepath.FromSlash(clean))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("create photo dir: %w", err)
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return "", fmt.Errorf("write photo: %w", err)
	}
	return s.urlPrefix + clean, nil
}
