package local

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/angelmondragon/wardrop-backend/pkg/config"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := New(config.UploadsConfig{Dir: t.TempDir(), PublicPrefix: "/uploads"})
	if err != nil {
		t.Fatalf("new storage: %v", err)
	}
	return s
}

func TestSaveAndDelete(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	public, err := s.Save(ctx, "dresses", ".JPG", []byte("img"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !strings.HasPrefix(public, "/uploads/dresses/") || !strings.HasSuffix(public, ".jpg") {
		t.Fatalf("unexpected public path %s", public)
	}

	full := filepath.Join(s.Root(), "dresses", filepath.Base(public))
	if data, err := os.ReadFile(full); err != nil || string(data) != "img" {
		t.Fatalf("expected file on disk: %v", err)
	}

	if err := s.Delete(ctx, public); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := os.Stat(full); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected file removed, stat err=%v", err)
	}
	if err := s.Delete(ctx, public); err != nil {
		t.Fatalf("deleting a missing file should be a no-op: %v", err)
	}
}

func TestRejectsEscapingPaths(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	if _, err := s.Save(ctx, "../etc", "jpg", []byte("x")); !errors.Is(err, ErrInvalidPath) {
		t.Fatalf("expected invalid path, got %v", err)
	}
	for _, p := range []string{"/uploads/../../secret", "/other/file.jpg", "/uploads"} {
		if err := s.Delete(ctx, p); !errors.Is(err, ErrInvalidPath) {
			t.Fatalf("expected invalid path for %q, got %v", p, err)
		}
	}
}
