// Package testutil provides shared test helpers for setting up engine
// font trees, source repositories and catalog databases.
package testutil

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/quillon/fontgrove/internal/catalog"
	"github.com/quillon/fontgrove/internal/fonts"
)

// TestLogger returns a logger that discards all output.
func TestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestDB creates a temporary SQLite catalog that is automatically cleaned up.
func TestDB(t *testing.T) *catalog.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "fontgrove-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := catalog.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestDatadir creates a temporary engine data directory with the
// fonts/otf and fonts/svg subdirectories and returns its path.
func TestDatadir(t *testing.T) string {
	t.Helper()
	datadir := t.TempDir()
	for _, sub := range []string{"otf", "svg"} {
		if err := os.MkdirAll(filepath.Join(datadir, "fonts", sub), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	return datadir
}

// TestInstalled creates an empty Installed registry over a temporary
// datadir and returns both.
func TestInstalled(t *testing.T) (string, *fonts.Installed) {
	t.Helper()
	datadir := TestDatadir(t)
	installed, err := fonts.NewInstalled(datadir)
	if err != nil {
		t.Fatal(err)
	}
	return datadir, installed
}

// WriteFont creates a dummy font file named <family>-<size>.<type>
// under dir and returns its path.
func WriteFont(t *testing.T, dir, family, size string, ft fonts.Type) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, family+"-"+size+"."+string(ft))
	if err := os.WriteFile(path, []byte("font data "+family+size), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// WriteCompleteFamily creates a full set of files for one family and
// type (all eight sizes plus brace) under dir.
func WriteCompleteFamily(t *testing.T, dir, family string, ft fonts.Type) []string {
	t.Helper()
	var paths []string
	for _, size := range fonts.Sizes {
		paths = append(paths, WriteFont(t, dir, family, size, ft))
	}
	paths = append(paths, WriteFont(t, dir, family, fonts.SizeBrace, ft))
	return paths
}
