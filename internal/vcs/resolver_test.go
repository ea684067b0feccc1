package vcs

import (
	"os"
	"path/filepath"
	"testing"
)

// testResolvers returns a full chain regardless of whether git is
// installed on the host.
func testResolvers() []Resolver {
	return []Resolver{
		&markerResolver{name: "git", marker: ".git", fileOK: true, supported: true},
		&markerResolver{name: "hg", marker: ".hg", supported: false},
		&markerResolver{name: "svn", marker: ".svn", supported: false},
	}
}

// makeRepo creates <root>/<marker> and a file at <root>/sub/file.ly,
// returning the file path.
func makeRepo(t *testing.T, marker string) (root, file string) {
	t.Helper()
	root = t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, marker), 0o755); err != nil {
		t.Fatal(err)
	}
	sub := filepath.Join(root, "sub")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	file = filepath.Join(sub, "file.ly")
	if err := os.WriteFile(file, []byte("music"), 0o644); err != nil {
		t.Fatal(err)
	}
	return root, file
}

func TestResolveGit(t *testing.T) {
	root, file := makeRepo(t, ".git")
	res := Resolve(testResolvers(), file)
	if res.Outcome != Resolved || res.VCS != "git" {
		t.Fatalf("outcome = %+v", res)
	}
	if res.Root != root {
		t.Errorf("root = %s, want %s", res.Root, root)
	}
	if res.RelPath != "sub/file.ly" {
		t.Errorf("rel = %s, want sub/file.ly", res.RelPath)
	}
}

func TestResolveGitWorktreeFileMarker(t *testing.T) {
	// .git may be a plain file for worktrees and submodules.
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, ".git"), []byte("gitdir: elsewhere"), 0o644); err != nil {
		t.Fatal(err)
	}
	file := filepath.Join(root, "file.ly")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	res := Resolve(testResolvers(), file)
	if res.Outcome != Resolved || res.Root != root {
		t.Errorf("outcome = %+v", res)
	}
}

func TestResolveNone(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file.ly")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	res := Resolve(testResolvers(), file)
	if res.Outcome != NotApplicable {
		t.Errorf("outcome = %+v, want not applicable", res)
	}
	if res.Root != "" || res.RelPath != "" {
		t.Errorf("expected empty root/rel, got %+v", res)
	}
}

func TestResolveHgDetectedUnsupported(t *testing.T) {
	// Detected-but-unsupported is distinct from not-under-VCS.
	_, file := makeRepo(t, ".hg")
	res := Resolve(testResolvers(), file)
	if res.Outcome != DetectedUnsupported || res.VCS != "hg" {
		t.Errorf("outcome = %+v, want hg detected unsupported", res)
	}
}

func TestResolveSvnDetectedUnsupported(t *testing.T) {
	_, file := makeRepo(t, ".svn")
	res := Resolve(testResolvers(), file)
	if res.Outcome != DetectedUnsupported || res.VCS != "svn" {
		t.Errorf("outcome = %+v, want svn detected unsupported", res)
	}
}

func TestResolveOrderGitWins(t *testing.T) {
	// A path under both markers resolves as git, which comes first.
	root, file := makeRepo(t, ".git")
	if err := os.MkdirAll(filepath.Join(root, ".hg"), 0o755); err != nil {
		t.Fatal(err)
	}
	res := Resolve(testResolvers(), file)
	if res.Outcome != Resolved || res.VCS != "git" {
		t.Errorf("outcome = %+v, want git resolution", res)
	}
}
