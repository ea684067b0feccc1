// Package vcs discovers which version-control repository owns a file
// path and tracks open editor documents against their repositories.
package vcs

import (
	"os"
	"os/exec"
	"path/filepath"
)

// Outcome tags the result of running the resolver chain for a path.
type Outcome int

const (
	// NotApplicable means no known VCS owns the path.
	NotApplicable Outcome = iota
	// DetectedUnsupported means a VCS marker was found but tracking for
	// that system is not wired up. Kept distinct from NotApplicable so
	// future support can hook in at exactly this point.
	DetectedUnsupported
	// Resolved means a supported VCS owns the path.
	Resolved
)

// Resolution is the outcome of resolving one path.
type Resolution struct {
	VCS     string  `json:"vcs,omitempty"`
	Outcome Outcome `json:"-"`
	Root    string  `json:"root,omitempty"`
	RelPath string  `json:"rel_path,omitempty"`
}

// Resolver determines whether a path lies inside one VCS kind's
// repository.
type Resolver interface {
	// Name returns the VCS kind ("git", "hg", "svn").
	Name() string
	// Supported reports whether document tracking is wired for this kind.
	Supported() bool
	// ExtractVCSPath walks upward from the file's directory looking for
	// the VCS marker. An empty root means the path is not under this VCS.
	ExtractVCSPath(path string) (root, rel string)
}

// markerResolver resolves by walking up for a marker entry (.git, .hg,
// .svn). The .git marker may be a plain file for worktrees/submodules.
type markerResolver struct {
	name      string
	marker    string
	fileOK    bool
	supported bool
}

func (m *markerResolver) Name() string    { return m.name }
func (m *markerResolver) Supported() bool { return m.supported }

func (m *markerResolver) ExtractVCSPath(path string) (string, string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", ""
	}
	current := filepath.Dir(abs)
	for {
		info, err := os.Stat(filepath.Join(current, m.marker))
		if err == nil && (info.IsDir() || (m.fileOK && info.Mode().IsRegular())) {
			rel, err := filepath.Rel(current, abs)
			if err != nil {
				return "", ""
			}
			return current, filepath.ToSlash(rel)
		}
		parent := filepath.Dir(current)
		if parent == current {
			return "", ""
		}
		current = parent
	}
}

// DefaultResolvers returns the resolver chain in resolution order:
// git first, then hg, then svn. Git participates only when the git
// capability is present on the host; hg and svn are detected but
// intentionally unsupported for tracking.
func DefaultResolvers() []Resolver {
	var out []Resolver
	if GitAvailable() {
		out = append(out, &markerResolver{name: "git", marker: ".git", fileOK: true, supported: true})
	}
	out = append(out,
		&markerResolver{name: "hg", marker: ".hg", supported: false},
		&markerResolver{name: "svn", marker: ".svn", supported: false},
	)
	return out
}

// GitAvailable reports whether the git binary can be found on the host.
func GitAvailable() bool {
	_, err := exec.LookPath("git")
	return err == nil
}

// Resolve runs the chain for path, stopping at the first resolver whose
// marker is found. Only one VCS should ever own a given path.
func Resolve(resolvers []Resolver, path string) Resolution {
	for _, r := range resolvers {
		root, rel := r.ExtractVCSPath(path)
		if root == "" {
			continue
		}
		out := Resolution{VCS: r.Name(), Root: root, RelPath: rel}
		if r.Supported() {
			out.Outcome = Resolved
		} else {
			out.Outcome = DetectedUnsupported
		}
		return out
	}
	return Resolution{Outcome: NotApplicable}
}
