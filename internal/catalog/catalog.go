// Package catalog provides the SQLite-backed index of the installed
// font set queried by presentation layers.
package catalog

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS font_files (
	path       TEXT PRIMARY KEY,
	family     TEXT NOT NULL,
	type       TEXT NOT NULL,
	size       TEXT NOT NULL,
	status     TEXT NOT NULL DEFAULT 'file',
	checksum   TEXT NOT NULL DEFAULT '',
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_font_files_family ON font_files(family);
`

// DB wraps a sql.DB with catalog-specific operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("catalog: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("catalog: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("catalog: apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Index defines the catalog operations the rest of the application
// depends on. Consumers take this interface rather than *DB to
// facilitate testing with mocks.
type Index interface {
	ReplaceAll(rows []FileRow) error
	Families() ([]string, error)
	FamilyFiles(family string) ([]FileRow, error)
	SearchFamilies(query string) ([]string, error)
	AllChecksums() (map[string]string, error)
	Close() error
}

// Verify *DB satisfies Index at compile time.
var _ Index = (*DB)(nil)
