package catalog

import (
	"fmt"
	"time"
)

// FileRow represents a row in the font_files table.
type FileRow struct {
	Path      string
	Family    string
	Type      string
	Size      string
	Status    string
	Checksum  string
	UpdatedAt time.Time
}

// ReplaceAll swaps the whole catalog for the given snapshot within one
// transaction, so readers never observe a half-updated registry.
func (db *DB) ReplaceAll(rows []FileRow) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("catalog: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	if _, err := tx.Exec(`DELETE FROM font_files`); err != nil {
		return fmt.Errorf("catalog: clear: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO font_files (path, family, type, size, status, checksum, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("catalog: prepare insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now()
	for _, r := range rows {
		at := r.UpdatedAt
		if at.IsZero() {
			at = now
		}
		if _, err := stmt.Exec(r.Path, r.Family, r.Type, r.Size, r.Status, r.Checksum, at); err != nil {
			return fmt.Errorf("catalog: insert %s: %w", r.Path, err)
		}
	}

	return tx.Commit()
}

// Families returns all catalogued family names in lexicographic order.
func (db *DB) Families() ([]string, error) {
	rows, err := db.conn.Query(`SELECT DISTINCT family FROM font_files ORDER BY family`)
	if err != nil {
		return nil, fmt.Errorf("catalog: families: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var f string
		if err := rows.Scan(&f); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// FamilyFiles returns every row for one family, ordered by type then
// size, for per-family presentation.
func (db *DB) FamilyFiles(family string) ([]FileRow, error) {
	rows, err := db.conn.Query(`
		SELECT path, family, type, size, status, checksum, updated_at
		FROM font_files WHERE family = ? ORDER BY type, size
	`, family)
	if err != nil {
		return nil, fmt.Errorf("catalog: family files: %w", err)
	}
	defer rows.Close()

	var out []FileRow
	for rows.Next() {
		var r FileRow
		if err := rows.Scan(&r.Path, &r.Family, &r.Type, &r.Size, &r.Status, &r.Checksum, &r.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// SearchFamilies returns family names containing the query substring.
// Family names are short identifiers, so a LIKE match covers the search
// surface without a full-text index.
func (db *DB) SearchFamilies(query string) ([]string, error) {
	rows, err := db.conn.Query(`
		SELECT DISTINCT family FROM font_files
		WHERE family LIKE '%' || ? || '%' ORDER BY family
	`, query)
	if err != nil {
		return nil, fmt.Errorf("catalog: search: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var f string
		if err := rows.Scan(&f); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// AllChecksums returns path → checksum for every catalogued file, used
// to detect out-of-band changes during a rescan.
func (db *DB) AllChecksums() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT path, checksum FROM font_files`)
	if err != nil {
		return nil, fmt.Errorf("catalog: all checksums: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var p, cs string
		if err := rows.Scan(&p, &cs); err != nil {
			return nil, err
		}
		out[p] = cs
	}
	return out, rows.Err()
}
