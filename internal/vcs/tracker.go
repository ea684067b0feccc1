package vcs

import (
	"sort"
	"sync"
)

// TrackedDocument describes one open document owned by a repository.
type TrackedDocument struct {
	ID      string `json:"id"`
	VCS     string `json:"vcs"`
	Root    string `json:"root"`
	RelPath string `json:"rel_path"`
}

// Tracker maps open documents to the repository that owns them. One
// entry exists per currently open and tracked document; entries are
// created on open/URL-set, removed on close/URL-clear, never persisted.
type Tracker struct {
	mu        sync.Mutex
	resolvers []Resolver
	docs      map[string]Resolution      // doc id → resolution
	repos     map[string]map[string]bool // repo root → set of rel paths
}

// NewTracker creates a tracker using the given resolver chain.
func NewTracker(resolvers []Resolver) *Tracker {
	return &Tracker{
		resolvers: resolvers,
		docs:      map[string]Resolution{},
		repos:     map[string]map[string]bool{},
	}
}

// DocumentOpened resolves path and, when a supported VCS owns it,
// registers the document under the discovered repository. The
// resolution is returned either way so callers can distinguish
// "detected but unsupported" from "not under version control".
func (t *Tracker) DocumentOpened(id, path string) Resolution {
	res := Resolve(t.resolvers, path)
	if res.Outcome != Resolved {
		return res
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.track(id, res)
	return res
}

// DocumentClosed resolves the document's last URL and removes its
// registration.
func (t *Tracker) DocumentClosed(id, path string) Resolution {
	res := Resolve(t.resolvers, path)
	t.mu.Lock()
	defer t.mu.Unlock()
	t.untrack(id)
	return res
}

// DocumentURLChanged untracks the old URL's resolution (if any) and
// tracks the new URL's resolution. Either side may be empty (URL set
// for the first time, URL cleared).
func (t *Tracker) DocumentURLChanged(id, oldPath, newPath string) Resolution {
	t.mu.Lock()
	defer t.mu.Unlock()
	if oldPath != "" {
		t.untrack(id)
	}
	if newPath == "" {
		return Resolution{Outcome: NotApplicable}
	}
	res := Resolve(t.resolvers, newPath)
	if res.Outcome == Resolved {
		t.track(id, res)
	}
	return res
}

// Tracked returns all tracked documents ordered by document id.
func (t *Tracker) Tracked() []TrackedDocument {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]TrackedDocument, 0, len(t.docs))
	for id, res := range t.docs {
		out = append(out, TrackedDocument{ID: id, VCS: res.VCS, Root: res.Root, RelPath: res.RelPath})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// RepoDocuments returns the tracked relative paths under a repository
// root, sorted.
func (t *Tracker) RepoDocuments(root string) []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	set := t.repos[root]
	out := make([]string, 0, len(set))
	for rel := range set {
		out = append(out, rel)
	}
	sort.Strings(out)
	return out
}

// track registers id under res. Callers hold the lock.
func (t *Tracker) track(id string, res Resolution) {
	t.untrack(id)
	t.docs[id] = res
	set := t.repos[res.Root]
	if set == nil {
		set = map[string]bool{}
		t.repos[res.Root] = set
	}
	set[res.RelPath] = true
}

// untrack drops id's registration if present. Callers hold the lock.
func (t *Tracker) untrack(id string) {
	res, ok := t.docs[id]
	if !ok {
		return
	}
	delete(t.docs, id)
	if set := t.repos[res.Root]; set != nil {
		delete(set, res.RelPath)
		if len(set) == 0 {
			delete(t.repos, res.Root)
		}
	}
}
