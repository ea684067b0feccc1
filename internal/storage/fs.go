package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// FS implements Provider backed by the local file system.
type FS struct {
	root string // absolute path to the font tree root
}

// NewFS creates a new FS provider rooted at the given directory.
// The directory must already exist.
func NewFS(root string) (*FS, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("storage: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("storage: root is not a directory: %s", abs)
	}
	return &FS{root: abs}, nil
}

// Root returns the absolute font tree root.
func (f *FS) Root() string { return f.root }

// safePath resolves a relative path against the root and rejects any
// result that escapes it (directory traversal).
func (f *FS) safePath(rel string) (string, error) {
	if rel == "" {
		return f.root, nil
	}
	cleaned := filepath.Clean(rel)
	if filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("storage: absolute paths not allowed: %s", rel)
	}
	joined := filepath.Join(f.root, cleaned)
	abs, err := filepath.Abs(joined)
	if err != nil {
		return "", fmt.Errorf("storage: resolve path: %w", err)
	}
	if !strings.HasPrefix(abs, f.root+string(os.PathSeparator)) && abs != f.root {
		return "", fmt.Errorf("storage: path escapes font root: %s", rel)
	}
	return abs, nil
}

// Path resolves rel against the root without touching the filesystem.
func (f *FS) Path(rel string) (string, error) {
	return f.safePath(rel)
}

// Symlink creates a symbolic link at rel pointing at src.
// ErrLinksUnsupported is returned when the host cannot create symlinks
// at all, so callers can fall back to copying.
func (f *FS) Symlink(src, rel string) error {
	abs, err := f.safePath(rel)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return fmt.Errorf("storage: mkdir: %w", err)
	}
	if err := os.Symlink(src, abs); err != nil {
		if errors.Is(err, errors.ErrUnsupported) {
			return ErrLinksUnsupported
		}
		return err
	}
	return nil
}

// Copy duplicates src's bytes at rel: tmp file → fsync → rename, so a
// failed copy never leaves a truncated font behind.
func (f *FS) Copy(src, rel string) error {
	abs, err := f.safePath(rel)
	if err != nil {
		return err
	}
	dir := filepath.Dir(abs)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("storage: mkdir: %w", err)
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	tmp, err := os.CreateTemp(dir, ".fontgrove-tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	// Clean up on any failure path.
	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := io.Copy(tmp, in); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, abs); err != nil {
		return err
	}
	success = true
	return nil
}

// Unlink removes the symlink at rel. It refuses to delete anything that
// is not a symlink; real files are never removed through this provider.
func (f *FS) Unlink(rel string) error {
	abs, err := f.safePath(rel)
	if err != nil {
		return err
	}
	info, err := os.Lstat(abs)
	if err != nil {
		return err
	}
	if info.Mode()&os.ModeSymlink == 0 {
		return fmt.Errorf("storage: %s is not a symlink", abs)
	}
	return os.Remove(abs)
}

// ErrLinksUnsupported signals that the host cannot create symbolic
// links at all (a constraint of older Windows versions).
var ErrLinksUnsupported = errors.New("storage: symbolic links unsupported on this host")
