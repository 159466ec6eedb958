package local

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/angelmondragon/wardrop-backend/pkg/config"
	"github.com/google/uuid"
)

// ErrInvalidPath is returned for paths that escape the storage root.
var ErrInvalidPath = errors.New("invalid storage path")

// Storage writes uploaded files under a directory served statically by the API.
type Storage struct {
	root   string
	prefix string
}

// New prepares the upload root, creating it when missing.
func New(cfg config.UploadsConfig) (*Storage, error) {
	root := strings.TrimSpace(cfg.Dir)
	if root == "" {
		return nil, fmt.Errorf("upload dir is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %q: %w", root, err)
	}
	prefix := "/" + strings.Trim(cfg.PublicPrefix, "/")
	if prefix == "/" {
		prefix = "/uploads"
	}
	return &Storage{root: root, prefix: prefix}, nil
}

// Root returns the directory files are written to.
func (s *Storage) Root() string {
	return s.root
}

// Save writes data to <folder>/<uuid>.<ext> and returns the public path.
func (s *Storage) Save(ctx context.Context, folder, ext string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	folder = strings.Trim(folder, "/")
	if folder == "" || strings.Contains(folder, "..") {
		return "", ErrInvalidPath
	}
	ext = strings.TrimPrefix(strings.ToLower(ext), ".")
	if ext == "" {
		return "", fmt.Errorf("file extension is required")
	}

	dir := filepath.Join(s.root, filepath.FromSlash(folder))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir %q: %w", dir, err)
	}

	name := fmt.Sprintf("%s.%s", uuid.NewString(), ext)
	full := filepath.Join(dir, name)
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", fmt.Errorf("write %q: %w", full, err)
	}
	return path.Join(s.prefix, folder, name), nil
}

// Delete removes the file behind a public path. Missing files are ignored.
func (s *Storage) Delete(ctx context.Context, publicPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	full, err := s.resolve(publicPath)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove %q: %w", full, err)
	}
	return nil
}

func (s *Storage) resolve(publicPath string) (string, error) {
	clean := path.Clean("/" + strings.TrimSpace(publicPath))
	rel := strings.TrimPrefix(clean, s.prefix)
	if rel == clean || !strings.HasPrefix(rel, "/") || rel == "/" {
		return "", ErrInvalidPath
	}
	full := filepath.Join(s.root, filepath.FromSlash(strings.TrimPrefix(rel, "/")))
	root, err := filepath.Abs(s.root)
	if err != nil {
		return "", err
	}
	abs, err := filepath.Abs(full)
	if err != nil {
		return "", err
	}
	if !strings.HasPrefix(abs, root+string(os.PathSeparator)) {
		return "", ErrInvalidPath
	}
	return full, nil
}
