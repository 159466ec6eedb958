package migrate

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
)

//go:embed migrations/*.sql
var embedded embed.FS

const embeddedDir = "migrations"

// NewEmbedded builds a migrator over the migrations compiled into the binary.
func NewEmbedded(db *sql.DB) (*Migrator, error) {
	sub, err := fs.Sub(embedded, embeddedDir)
	if err != nil {
		return nil, fmt.Errorf("embedded migrations: %w", err)
	}
	return New(db, sub)
}

// EmbeddedFiles lists the embedded migration file names.
func EmbeddedFiles() ([]string, error) {
	entries, err := embedded.ReadDir(embeddedDir)
	if err != nil {
		return nil, fmt.Errorf("read embedded migrations: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names, nil
}
