package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/angelmondragon/wardrop-backend/pkg/migrate"
)

func readMigration(t *testing.T, suffix string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", "*_"+suffix+".sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no %s migration file found", suffix)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}

func TestMigrationsDirIsValid(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("validate migrations: %v", err)
	}
}

func TestEmbeddedMigrationsMatchDir(t *testing.T) {
	names, err := migrate.EmbeddedFiles()
	if err != nil {
		t.Fatalf("embedded files: %v", err)
	}
	onDisk, err := filepath.Glob(filepath.Join("migrations", "*.sql"))
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(names) != len(onDisk) || len(names) == 0 {
		t.Fatalf("expected %d embedded migrations, got %d", len(onDisk), len(names))
	}
}

func TestBookingsMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "create_bookings")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS bookings",
		"FOREIGN KEY (client_id) REFERENCES clients(id) ON DELETE CASCADE",
		"FOREIGN KEY (dress_id) REFERENCES dresses(id) ON DELETE CASCADE",
		"CHECK (start_date <= end_date)",
		"idx_bookings_dress_range ON bookings (dress_id, start_date, end_date)",
		"DROP TABLE IF EXISTS bookings",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestClothingMigrationGuardsStock(t *testing.T) {
	content := readMigration(t, "create_clothing")
	for _, sub := range []string{
		"CHECK (stock_quantity >= 0)",
		"REFERENCES clothing(id) ON DELETE CASCADE",
	} {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestCreateSQLMigration(t *testing.T) {
	dir := t.TempDir()
	path, err := migrate.CreateSQLMigration(dir, "Add Dress Tags!")
	if err != nil {
		t.Fatalf("create migration: %v", err)
	}
	if !strings.HasSuffix(path, "_add_dress_tags.sql") {
		t.Fatalf("unexpected filename %s", path)
	}
	if err := migrate.ValidateDir(dir); err != nil {
		t.Fatalf("expected generated migration to validate: %v", err)
	}

	if _, err := migrate.CreateSQLMigration(dir, "!!!"); err == nil {
		t.Fatal("expected empty sanitized name to fail")
	}
}

func TestValidateDirRejectsBadFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "001_bad.sql"), []byte("-- +goose Up\n-- +goose Down\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := migrate.ValidateDir(dir); err == nil {
		t.Fatal("expected invalid filename to fail")
	}

	dir = t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "20250101000000_no_down.sql"), []byte("-- +goose Up\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := migrate.ValidateDir(dir); err == nil || !strings.Contains(err.Error(), "Down") {
		t.Fatalf("expected missing down section error, got %v", err)
	}
}
