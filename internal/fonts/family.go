package fonts

import "sort"

// Family is a named group of font files spanning sizes and encoding
// types. All files in one family share the family name derived from
// filename parsing.
//
// Physical statuses are resolved lazily on first query and memoized in
// an explicit table keyed by path. The table is never invalidated
// automatically; callers that mutate the filesystem outside this API
// must re-ingest (or call InvalidateStatus) to observe the change.
type Family struct {
	name     string
	files    map[Type]map[string]*File
	statuses map[string]Status
}

// NewFamily creates an empty family with the given name.
func NewFamily(name string) *Family {
	return &Family{
		name: name,
		files: map[Type]map[string]*File{
			TypeOTF:  {},
			TypeSVG:  {},
			TypeWOFF: {},
		},
		statuses: map[string]Status{},
	}
}

// Name returns the family name.
func (f *Family) Name() string { return f.name }

// AddFile validates path and inserts it into the matching (type, size)
// slot, silently overwriting an existing entry. It fails with a
// *FormatError for invalid names and a *MismatchError when the parsed
// family differs from this family's name.
func (f *Family) AddFile(path string) error {
	family, t, size, err := checkFile(path)
	if err != nil {
		return err
	}
	if family != f.name {
		return &MismatchError{Path: path, Family: family, Want: f.name}
	}
	f.add(t, size, path)
	return nil
}

// add inserts an already-parsed file. Any memoized status for a
// previously registered path in this slot is dropped.
func (f *Family) add(t Type, size, path string) {
	if old, ok := f.files[t][size]; ok {
		delete(f.statuses, old.Path)
	}
	f.files[t][size] = &File{Path: path}
}

// removeSlot drops a (type, size) entry and its memoized status.
func (f *Family) removeSlot(t Type, size string) {
	if old, ok := f.files[t][size]; ok {
		delete(f.statuses, old.Path)
		delete(f.files[t], size)
	}
}

// File returns the registered file for a slot, or nil.
func (f *Family) File(t Type, size string) *File {
	return f.files[t][size]
}

// Status returns the physical status for a (type, size) slot.
// StatusMissing means no file is registered there at all.
func (f *Family) Status(t Type, size string) Status {
	file, ok := f.files[t][size]
	if !ok {
		return StatusMissing
	}
	st, ok := f.statuses[file.Path]
	if !ok {
		st = resolveStatus(file.Path)
		f.statuses[file.Path] = st
	}
	return st
}

// InvalidateStatus drops all memoized statuses so the next query hits
// the filesystem again.
func (f *Family) InvalidateStatus() {
	f.statuses = map[string]Status{}
}

// Sizes returns the registered size keys for a type in sorted order.
func (f *Family) Sizes(t Type) []string {
	out := make([]string, 0, len(f.files[t]))
	for size := range f.files[t] {
		out = append(out, size)
	}
	sort.Strings(out)
	return out
}

// MissingSizes returns the canonical sizes absent for a type, preserving
// canonical order. Empty for a size-complete type.
func (f *Family) MissingSizes(t Type) []string {
	var out []string
	for _, size := range Sizes {
		if _, ok := f.files[t][size]; !ok {
			out = append(out, size)
		}
	}
	return out
}

// HasBrace reports whether the family registers a brace variant for the
// given type.
func (f *Family) HasBrace(t Type) bool {
	_, ok := f.files[t][SizeBrace]
	return ok
}

// IsComplete reports whether the family has every canonical size and a
// brace variant for the given type.
func (f *Family) IsComplete(t Type) bool {
	return f.HasBrace(t) && len(f.MissingSizes(t)) == 0
}

// IsCompleteAll reports completeness across all three types.
func (f *Family) IsCompleteAll() bool {
	for _, t := range Types {
		if !f.IsComplete(t) {
			return false
		}
	}
	return true
}

// FlagAllForInstall marks every file for installation. Used when the
// target registry has no family of this name at all.
func (f *Family) FlagAllForInstall() {
	f.Walk(func(_ Type, _ string, file *File) {
		file.Install = true
	})
}

// FlagForInstall marks for installation every physically usable file
// whose slot in target is not already usable (absent, broken or
// missing).
func (f *Family) FlagForInstall(target *Family) {
	f.Walk(func(t Type, size string, file *File) {
		if f.Status(t, size).Usable() && !target.Status(t, size).Usable() {
			file.Install = true
		}
	})
}

// Walk calls fn for every registered file, types in canonical order,
// sizes in sorted order.
func (f *Family) Walk(fn func(t Type, size string, file *File)) {
	for _, t := range Types {
		for _, size := range f.Sizes(t) {
			fn(t, size, f.files[t][size])
		}
	}
}
