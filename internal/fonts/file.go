// Package fonts manages notation-font families for an engraving engine:
// scanning directory trees into registries, reconciling a source repository
// against the installed set, and performing install/remove mutations.
package fonts

import (
	"os"
	"path/filepath"
	"regexp"
)

// Type is a recognised font encoding type.
type Type string

// The three recognised font types. SVG and WOFF share an installation
// directory by convention of the engraving engine.
const (
	TypeOTF  Type = "otf"
	TypeSVG  Type = "svg"
	TypeWOFF Type = "woff"
)

// Types lists all recognised font types in canonical order.
var Types = []Type{TypeOTF, TypeSVG, TypeWOFF}

// SizeBrace is the size key of the oversized brace glyph variant.
const SizeBrace = "brace"

// Sizes is the canonical list of design sizes expected for a complete
// font, in canonical order. The brace variant is tracked separately.
var Sizes = []string{"11", "13", "14", "16", "18", "20", "23", "26"}

// Status describes the physical state of a registered font file.
type Status int

const (
	// StatusFile is a regular file present on disk.
	StatusFile Status = iota
	// StatusMissingFile is a registered path that no longer exists.
	// Files pass an existence check at registration time, so this is
	// only observable after out-of-band filesystem changes.
	StatusMissingFile
	// StatusLink is a symlink whose target exists.
	StatusLink
	// StatusBrokenLink is a symlink whose target is gone.
	StatusBrokenLink
	// StatusMissing means no file is registered for the slot at all.
	StatusMissing
)

// String returns the lowercase name of the status, used in catalog rows
// and API payloads.
func (s Status) String() string {
	switch s {
	case StatusFile:
		return "file"
	case StatusMissingFile:
		return "missing_file"
	case StatusLink:
		return "link"
	case StatusBrokenLink:
		return "broken_link"
	default:
		return "missing"
	}
}

// Usable reports whether the status represents a physically usable file
// (a regular file or a live symlink).
func (s Status) Usable() bool {
	return s == StatusFile || s == StatusLink
}

// File is one physical font file registered in a family.
// It is a plain value; its physical status lives in the owning family's
// status table so that memoization stays visible and explicitly
// invalidatable rather than hidden inside the value.
type File struct {
	Path    string
	Install bool
}

var fileRe = regexp.MustCompile(`^(.*)-(brace|\d\d)\.(otf|svg|woff)$`)

// ParseFilename checks whether path names a notation font file following
// the <family>-<size|brace>.<otf|svg|woff> contract and returns the
// parsed triplet. A non-matching name yields a *FormatError.
func ParseFilename(path string) (family string, t Type, size string, err error) {
	m := fileRe.FindStringSubmatch(filepath.Base(path))
	if m == nil {
		return "", "", "", &FormatError{Path: path}
	}
	return m[1], Type(m[3]), m[2], nil
}

// checkFile validates that path both exists and follows the filename
// contract, mirroring the registration-time existence invariant.
func checkFile(path string) (family string, t Type, size string, err error) {
	if _, err := os.Lstat(path); err != nil {
		return "", "", "", &FormatError{Path: path, Reason: "no such file or link"}
	}
	return ParseFilename(path)
}

// resolveStatus inspects the filesystem for path. Symlink-ness is checked
// before regular-file-ness so a dangling symlink reports BrokenLink, not
// MissingFile.
func resolveStatus(path string) Status {
	info, err := os.Lstat(path)
	if err != nil {
		return StatusMissingFile
	}
	if info.Mode()&os.ModeSymlink != 0 {
		if _, err := os.Stat(path); err != nil {
			return StatusBrokenLink
		}
		return StatusLink
	}
	if info.Mode().IsRegular() {
		return StatusFile
	}
	return StatusMissingFile
}

// typeDirName maps a font type to its installation subdirectory.
func typeDirName(t Type) string {
	if t == TypeOTF {
		return "otf"
	}
	return "svg"
}
