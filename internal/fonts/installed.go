package fonts

import (
	"errors"
	"path/filepath"

	"github.com/quillon/fontgrove/internal/storage"
)

// Installed is the registry of fonts usable by the engraving engine,
// rooted at <datadir>/fonts. It is the single source of truth for what
// is actually installed, and the only registry with install/remove
// capability.
type Installed struct {
	*Registry
	fs storage.Provider
}

// NewInstalled scans the font tree under the given engine data
// directory. The datadir is computed once at startup and passed in.
func NewInstalled(datadir string) (*Installed, error) {
	fs, err := storage.NewFS(filepath.Join(datadir, "fonts"))
	if err != nil {
		return nil, err
	}
	return NewInstalledFS(fs)
}

// NewInstalledFS builds an Installed registry over an existing provider.
func NewInstalledFS(fs storage.Provider) (*Installed, error) {
	inst := &Installed{Registry: NewRegistry(), fs: fs}
	if err := inst.AddTree(fs.Root()); err != nil {
		return nil, err
	}
	return inst, nil
}

// FontRoot returns the absolute root of the engine's font tree.
func (i *Installed) FontRoot() string { return i.fs.Root() }

// FontDir returns the installation directory for a font type. SVG and
// WOFF share a directory by convention of the engine.
func (i *Installed) FontDir(t Type) string {
	return filepath.Join(i.fs.Root(), typeDirName(t))
}

// Reload rescans the font tree from disk, dropping all registered
// families and memoized statuses first.
func (i *Installed) Reload() error {
	i.Clear()
	return i.AddTree(i.fs.Root())
}

// Install places a single font file into the type's directory and
// registers the result. The default mode creates a symlink, falling
// back to copying when the host does not support symbolic links; any
// other OS failure is wrapped in a *PermissionError.
func (i *Installed) Install(t Type, srcPath string, copy bool) error {
	rel := filepath.Join(typeDirName(t), filepath.Base(srcPath))
	if copy {
		if err := i.fs.Copy(srcPath, rel); err != nil {
			return &PermissionError{Op: "copy", Path: srcPath, Err: err}
		}
	} else {
		switch err := i.fs.Symlink(srcPath, rel); {
		case err == nil:
		case errors.Is(err, storage.ErrLinksUnsupported):
			return i.Install(t, srcPath, true)
		default:
			return &PermissionError{Op: "symlink", Path: srcPath, Err: err}
		}
	}
	target, err := i.fs.Path(rel)
	if err != nil {
		return err
	}
	return i.AddFile(target)
}

// InstallFlagged installs every file of a source's installable registry.
// The first OS-level failure aborts the remaining batch; files already
// installed in the batch stay installed. Callers surface the error to
// the user including which file failed.
func (i *Installed) InstallFlagged(installable *Registry, copy bool) (installed int, err error) {
	for _, name := range installable.Families() {
		fam := installable.Family(name)
		var famErr error
		fam.Walk(func(t Type, _ string, file *File) {
			if famErr != nil {
				return
			}
			if famErr = i.Install(t, file.Path, copy); famErr == nil {
				installed++
			}
		})
		if famErr != nil {
			return installed, famErr
		}
	}
	return installed, nil
}

// Remove uninstalls the named families. Removal is link-only: a family
// containing any real file is refused wholesale with a
// *RemovalRefusedError listing the offending paths, leaving its on-disk
// state untouched, and the remaining families in the batch still
// proceed. A *PermissionError during unlinking aborts the whole batch.
// The returned slice names the families fully removed.
func (i *Installed) Remove(names []string) ([]string, error) {
	var removed []string
	var refused []error
	for _, name := range names {
		fam := i.Family(name)
		if fam == nil {
			continue
		}
		var links, files []string
		fam.Walk(func(t Type, size string, file *File) {
			if fam.Status(t, size) == StatusLink || fam.Status(t, size) == StatusBrokenLink {
				links = append(links, file.Path)
			} else {
				files = append(files, file.Path)
			}
		})
		if len(files) > 0 {
			refused = append(refused, &RemovalRefusedError{Family: name, Files: files})
			continue
		}
		for _, link := range links {
			rel, relErr := filepath.Rel(i.fs.Root(), link)
			if relErr != nil {
				return removed, &PermissionError{Op: "unlink", Path: link, Err: relErr}
			}
			if err := i.fs.Unlink(rel); err != nil {
				return removed, &PermissionError{Op: "unlink", Path: link, Err: err}
			}
		}
		i.drop(name)
		removed = append(removed, name)
	}
	return removed, errors.Join(refused...)
}
