// Package storage defines the font-tree file-system abstraction.
// Every install/remove mutation goes through a Provider rooted at the
// engine's font directory, so targets are validated against escaping it.
package storage

// Provider is the interface for font tree mutations.
type Provider interface {
	// Root returns the absolute font tree root.
	Root() string
	// Path resolves rel against the root, rejecting traversal.
	Path(rel string) (string, error)
	// Symlink links rel (relative to root) to the absolute source path.
	// Returns ErrLinksUnsupported when the host cannot symlink at all.
	Symlink(src, rel string) error
	// Copy atomically duplicates the source file's bytes at rel.
	Copy(src, rel string) error
	// Unlink removes the symlink at rel; it never deletes real files.
	Unlink(rel string) error
}

// Verify *FS satisfies Provider at compile time.
var _ Provider = (*FS)(nil)
