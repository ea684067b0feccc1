// Package fontservice coordinates the installed registry, source
// scans, the catalog and change notifications for the API and MCP
// presentation layers.
package fontservice

import (
	"context"
	"log/slog"
	"os"
	"sync"

	"github.com/quillon/fontgrove/internal/apperr"
	"github.com/quillon/fontgrove/internal/catalog"
	"github.com/quillon/fontgrove/internal/fonts"
)

// DefaultBraceFamily is substituted when a family lacks a brace font of
// its own, the engine's stock notation font.
const DefaultBraceFamily = "emmentaler"

// NotifyFunc receives registry change notifications. kind is one of
// "installed", "removed", "rescanned".
type NotifyFunc func(kind, name string)

// TypeSummary describes one encoding type of a family for presentation.
type TypeSummary struct {
	State        string   `json:"state"` // "complete", "partial" or "missing"
	Sizes        []string `json:"sizes"`
	MissingSizes []string `json:"missing_sizes,omitempty"`
	HasBrace     bool     `json:"has_brace"`
}

// FamilySummary is a per-family presentation row.
type FamilySummary struct {
	Name     string                 `json:"name"`
	Complete bool                   `json:"complete"`
	Types    map[string]TypeSummary `json:"types"`
}

// FileDetail describes one physical file of a family.
type FileDetail struct {
	Type   string `json:"type"`
	Size   string `json:"size"`
	Path   string `json:"path"`
	Status string `json:"status"`
}

// FamilyDetail is the full per-family response.
type FamilyDetail struct {
	FamilySummary
	BraceFamily string       `json:"brace_family"`
	Files       []FileDetail `json:"files"`
}

// ScanResult reports the outcome of scanning a source directory.
type ScanResult struct {
	Root        string          `json:"root"`
	Families    []string        `json:"families"`
	Installable []FamilySummary `json:"installable"`
	Flagged     int             `json:"flagged"`
}

// InstallResult reports the outcome of an install batch.
type InstallResult struct {
	Installed int      `json:"installed"`
	Families  []string `json:"families"`
}

// RemoveResult reports the outcome of a removal batch.
type RemoveResult struct {
	Removed []string `json:"removed"`
}

// Service owns the mutable registry state. One mutex serializes
// install/remove/rescan against each other; reads build their snapshots
// under the same lock so no half-updated family is ever observable.
type Service struct {
	mu        sync.Mutex
	installed *fonts.Installed
	source    *fonts.SourceRepo
	db        catalog.Index
	logger    *slog.Logger
	notify    NotifyFunc
}

// NewService creates a font service. notify may be nil.
func NewService(installed *fonts.Installed, db catalog.Index, logger *slog.Logger, notify NotifyFunc) *Service {
	return &Service{installed: installed, db: db, logger: logger, notify: notify}
}

// Families returns presentation summaries for every installed family,
// sorted by name.
func (s *Service) Families(_ context.Context) []FamilySummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return summarize(s.installed.Registry)
}

// FamilyDetail returns the full state of one installed family.
func (s *Service) FamilyDetail(_ context.Context, name string) (*FamilyDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fam := s.installed.Family(name)
	if fam == nil {
		return nil, apperr.ErrNotFound
	}

	detail := &FamilyDetail{
		FamilySummary: summarizeFamily(fam),
		BraceFamily:   braceFamily(fam),
	}
	fam.Walk(func(t fonts.Type, size string, file *fonts.File) {
		detail.Files = append(detail.Files, FileDetail{
			Type:   string(t),
			Size:   size,
			Path:   file.Path,
			Status: fam.Status(t, size).String(),
		})
	})
	return detail, nil
}

// SearchFamilies returns catalogued family names matching the query.
func (s *Service) SearchFamilies(_ context.Context, query string) ([]string, error) {
	return s.db.SearchFamilies(query)
}

// Scan ingests a source directory tree, flags its installable subset
// against the installed registry, and keeps the repo for a subsequent
// Install call.
func (s *Service) Scan(_ context.Context, root string) (*ScanResult, error) {
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return nil, apperr.ErrNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	repo, err := fonts.NewSourceRepo(root)
	if err != nil {
		return nil, err
	}
	repo.FlagForInstall(s.installed.Registry)
	s.source = repo

	flagged := 0
	repo.Installable().Walk(func(_ *fonts.Family, _ fonts.Type, _ string, _ *fonts.File) {
		flagged++
	})

	s.logger.Info("scan: source repository ingested",
		slog.String("root", root),
		slog.Int("families", repo.Len()),
		slog.Int("flagged", flagged))

	return &ScanResult{
		Root:        root,
		Families:    repo.Families(),
		Installable: summarize(repo.Installable()),
		Flagged:     flagged,
	}, nil
}

// Installable returns summaries of the files flagged by the last scan.
func (s *Service) Installable(_ context.Context) ([]FamilySummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.source == nil {
		return nil, apperr.ErrNoScan
	}
	return summarize(s.source.Installable()), nil
}

// Install installs every flagged file of the last scan. The first OS
// failure aborts the remainder of the batch; whatever was installed
// before it stays installed and is reflected in the catalog either way.
func (s *Service) Install(_ context.Context, copy bool) (*InstallResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.source == nil {
		return nil, apperr.ErrNoScan
	}

	families := s.source.Installable().Families()
	installed, err := s.installed.InstallFlagged(s.source.Installable(), copy)

	// Even a failed batch mutated the tree; re-flag and resync so the
	// presentation state matches disk.
	s.source.FlagForInstall(s.installed.Registry)
	s.resync()

	if err != nil {
		return &InstallResult{Installed: installed, Families: families}, err
	}

	s.logger.Info("install: batch complete", slog.Int("files", installed))
	if s.notify != nil {
		for _, name := range families {
			s.notify("installed", name)
		}
	}
	return &InstallResult{Installed: installed, Families: families}, nil
}

// Remove uninstalls the named families (link-only). Refused families
// are reported through the returned error while the rest of the batch
// proceeds.
func (s *Service) Remove(_ context.Context, names []string) (*RemoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed, err := s.installed.Remove(names)
	if len(removed) > 0 {
		if s.source != nil {
			s.source.FlagForInstall(s.installed.Registry)
		}
		s.resync()
		if s.notify != nil {
			for _, name := range removed {
				s.notify("removed", name)
			}
		}
	}
	return &RemoveResult{Removed: removed}, err
}

// Rescan reloads the installed registry from disk and resyncs the
// catalog. Called by the watcher after out-of-band changes.
func (s *Service) Rescan(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.installed.Reload(); err != nil {
		return err
	}
	if s.source != nil {
		s.source.FlagForInstall(s.installed.Registry)
	}
	s.resync()
	if s.notify != nil {
		s.notify("rescanned", "")
	}
	return nil
}

// resync snapshots the installed registry into the catalog. Callers
// hold the lock.
func (s *Service) resync() {
	if err := catalog.Sync(s.db, s.installed, s.logger); err != nil {
		s.logger.Warn("catalog sync failed", slog.String("error", err.Error()))
	}
}

// braceFamily returns the family whose brace font should be used for
// this family: itself when it has an otf brace, the engine default
// otherwise.
func braceFamily(fam *fonts.Family) string {
	if fam.HasBrace(fonts.TypeOTF) {
		return fam.Name()
	}
	return DefaultBraceFamily
}

func summarize(reg *fonts.Registry) []FamilySummary {
	out := make([]FamilySummary, 0, reg.Len())
	for _, name := range reg.Families() {
		out = append(out, summarizeFamily(reg.Family(name)))
	}
	return out
}

func summarizeFamily(fam *fonts.Family) FamilySummary {
	s := FamilySummary{
		Name:     fam.Name(),
		Complete: fam.IsCompleteAll(),
		Types:    make(map[string]TypeSummary, len(fonts.Types)),
	}
	for _, t := range fonts.Types {
		sizes := fam.Sizes(t)
		missing := fam.MissingSizes(t)
		state := "partial"
		switch {
		case len(sizes) == 0:
			state = "missing"
		case len(missing) == 0 && fam.HasBrace(t):
			state = "complete"
		}
		s.Types[string(t)] = TypeSummary{
			State:        state,
			Sizes:        sizes,
			MissingSizes: missing,
			HasBrace:     fam.HasBrace(t),
		}
	}
	return s
}
