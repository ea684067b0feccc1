package fonts

import (
	"io/fs"
	"path/filepath"
	"sort"
)

// Registry owns a set of font families keyed by family name. A plain
// registry has no install or remove capability; that lives on the
// Installed type, which composes a Registry with the engine's font tree.
type Registry struct {
	families map[string]*Family
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	r := &Registry{}
	r.Clear()
	return r
}

// AddFile validates path and adds it to the matching family, creating
// the family on first sight. Parse failures propagate to the caller;
// an existing (type, size) slot is silently overwritten.
func (r *Registry) AddFile(path string) error {
	family, t, size, err := checkFile(path)
	if err != nil {
		return err
	}
	fam, ok := r.families[family]
	if !ok {
		fam = NewFamily(family)
		r.families[family] = fam
	}
	fam.add(t, size, path)
	return nil
}

// AddFamily inserts an already-composed family, overwriting any existing
// family of the same name.
func (r *Registry) AddFamily(fam *Family) {
	r.families[fam.Name()] = fam
}

// AddTree walks root recursively, adding every file that passes the
// filename contract. Non-font files are expected and silently skipped.
func (r *Registry) AddTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable subtree; skip rather than abort the scan.
			return nil
		}
		if d.IsDir() {
			return nil
		}
		_ = r.AddFile(path) // not a font, ignore
		return nil
	})
}

// Families returns all family names in lexicographic order. The ordering
// is load-bearing for deterministic presentation.
func (r *Registry) Families() []string {
	out := make([]string, 0, len(r.families))
	for name := range r.families {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Family returns the named family, or nil when absent.
func (r *Registry) Family(name string) *Family {
	return r.families[name]
}

// Len returns the number of families.
func (r *Registry) Len() int { return len(r.families) }

// Clear drops all families, typically before a fresh scan.
func (r *Registry) Clear() {
	r.families = map[string]*Family{}
}

// drop removes a single family from the registry.
func (r *Registry) drop(name string) {
	delete(r.families, name)
}

// Walk calls fn for every file in every family, families in sorted
// order.
func (r *Registry) Walk(fn func(family *Family, t Type, size string, file *File)) {
	for _, name := range r.Families() {
		fam := r.families[name]
		fam.Walk(func(t Type, size string, file *File) {
			fn(fam, t, size, file)
		})
	}
}
