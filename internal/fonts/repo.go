package fonts

// SourceRepo is a registry scanned from an arbitrary directory tree,
// typically a downloaded font distribution. It computes which of its
// files should be installed into a target registry.
type SourceRepo struct {
	*Registry
	root        string
	installable *Registry
}

// NewSourceRepo scans root recursively and returns the populated repo.
func NewSourceRepo(root string) (*SourceRepo, error) {
	r := &SourceRepo{
		Registry:    NewRegistry(),
		root:        root,
		installable: NewRegistry(),
	}
	if err := r.AddTree(root); err != nil {
		return nil, err
	}
	return r, nil
}

// Root returns the scanned directory.
func (r *SourceRepo) Root() string { return r.root }

// FlagForInstall determines which files can be installed into the given
// registry: families absent from installed are flagged wholesale, the
// rest slot by slot. Afterwards the derived installable registry is
// rebuilt from the flagged paths so presentation layers can preview the
// install before any mutation happens. Flagged files are re-ingested by
// path and acquire independent status state.
func (r *SourceRepo) FlagForInstall(installed *Registry) {
	r.installable.Clear()
	// Flags from a previous pass are stale against the new target.
	r.Walk(func(_ *Family, _ Type, _ string, file *File) {
		file.Install = false
	})
	for _, name := range r.Families() {
		repoFam := r.Family(name)
		if target := installed.Family(name); target == nil {
			repoFam.FlagAllForInstall()
		} else {
			repoFam.FlagForInstall(target)
		}
	}
	r.Walk(func(_ *Family, _ Type, _ string, file *File) {
		if file.Install {
			_ = r.installable.AddFile(file.Path) // validated at ingestion
		}
	})
}

// Installable returns the derived registry of files flagged by the last
// FlagForInstall call. It holds no filesystem authority of its own.
func (r *SourceRepo) Installable() *Registry {
	return r.installable
}
