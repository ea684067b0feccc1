package fonts

import (
	"fmt"
	"strings"
)

// FormatError reports a filename that does not follow the
// <family>-<size|brace>.<otf|svg|woff> contract. Tree ingestion swallows
// it (non-font files are expected); direct AddFile calls surface it.
type FormatError struct {
	Path   string
	Reason string
}

func (e *FormatError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("fonts: %s: %s", e.Path, e.Reason)
	}
	return fmt.Sprintf("fonts: %s is not a valid notation font file", e.Path)
}

// MismatchError reports an attempt to add a file of one family into a
// family established under a different name. Always surfaced.
type MismatchError struct {
	Path   string
	Family string // family the file belongs to
	Want   string // family it was added into
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("fonts: %s belongs to family %q, not %q", e.Path, e.Family, e.Want)
}

// PermissionError wraps an OS-level failure during install or removal.
// The first occurrence aborts the remainder of a batch.
type PermissionError struct {
	Op   string // "symlink", "copy" or "unlink"
	Path string
	Err  error
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("fonts: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PermissionError) Unwrap() error { return e.Err }

// RemovalRefusedError reports that removing a family would delete real
// font files rather than symlinks. Removal is all-links-or-nothing; the
// family's on-disk state is untouched when this is returned.
type RemovalRefusedError struct {
	Family string
	Files  []string
}

func (e *RemovalRefusedError) Error() string {
	return fmt.Sprintf("fonts: family %q contains real files, refusing removal:\n%s",
		e.Family, strings.Join(e.Files, "\n"))
}
