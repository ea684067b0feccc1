package fonts

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

// tempInstalled creates an empty Installed registry over a fresh
// datadir with the fonts/otf and fonts/svg layout.
func tempInstalled(t *testing.T) (string, *Installed) {
	t.Helper()
	datadir := t.TempDir()
	for _, sub := range []string{"otf", "svg"} {
		if err := os.MkdirAll(filepath.Join(datadir, "fonts", sub), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	inst, err := NewInstalled(datadir)
	if err != nil {
		t.Fatalf("NewInstalled: %v", err)
	}
	return datadir, inst
}

func symlinksSupported(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	if err := os.Symlink(filepath.Join(dir, "a"), filepath.Join(dir, "b")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}
}

func TestFontDirMapping(t *testing.T) {
	datadir, inst := tempInstalled(t)
	root := filepath.Join(datadir, "fonts")
	if got := inst.FontDir(TypeOTF); got != filepath.Join(root, "otf") {
		t.Errorf("otf dir = %s", got)
	}
	// SVG and WOFF share a directory.
	if got := inst.FontDir(TypeSVG); got != filepath.Join(root, "svg") {
		t.Errorf("svg dir = %s", got)
	}
	if got := inst.FontDir(TypeWOFF); got != filepath.Join(root, "svg") {
		t.Errorf("woff dir = %s", got)
	}
}

func TestInstallSymlink(t *testing.T) {
	symlinksSupported(t)
	srcDir := t.TempDir()
	src := writeFont(t, srcDir, "emmentaler-11.otf")

	_, inst := tempInstalled(t)
	if err := inst.Install(TypeOTF, src, false); err != nil {
		t.Fatalf("Install: %v", err)
	}

	target := filepath.Join(inst.FontDir(TypeOTF), "emmentaler-11.otf")
	info, err := os.Lstat(target)
	if err != nil {
		t.Fatalf("target missing: %v", err)
	}
	if info.Mode()&os.ModeSymlink == 0 {
		t.Error("expected a symlink install")
	}
	fam := inst.Family("emmentaler")
	if fam == nil {
		t.Fatal("installed family not registered")
	}
	if got := fam.Status(TypeOTF, "11"); got != StatusLink {
		t.Errorf("installed status = %v", got)
	}
}

func TestInstallCopy(t *testing.T) {
	srcDir := t.TempDir()
	src := writeFont(t, srcDir, "emmentaler-11.woff")

	_, inst := tempInstalled(t)
	if err := inst.Install(TypeWOFF, src, true); err != nil {
		t.Fatalf("Install copy: %v", err)
	}

	// WOFF files land in the shared svg directory.
	target := filepath.Join(inst.FontDir(TypeWOFF), "emmentaler-11.woff")
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read target: %v", err)
	}
	orig, _ := os.ReadFile(src)
	if string(data) != string(orig) {
		t.Error("copied bytes differ from source")
	}
	if got := inst.Family("emmentaler").Status(TypeWOFF, "11"); got != StatusFile {
		t.Errorf("copied status = %v", got)
	}
}

func TestInstallFlaggedCompleteFamily(t *testing.T) {
	symlinksSupported(t)

	// Source repo with emmentaler-11..26 plus brace (9 files).
	srcRoot := t.TempDir()
	writeFamily(t, srcRoot, "emmentaler", TypeOTF)
	repo, err := NewSourceRepo(srcRoot)
	if err != nil {
		t.Fatal(err)
	}

	_, inst := tempInstalled(t)
	repo.FlagForInstall(inst.Registry)

	n, err := inst.InstallFlagged(repo.Installable(), false)
	if err != nil {
		t.Fatalf("InstallFlagged: %v", err)
	}
	if n != 9 {
		t.Errorf("installed %d files, want 9", n)
	}

	fam := inst.Family("emmentaler")
	if fam == nil {
		t.Fatal("emmentaler not registered after install")
	}
	if !fam.IsComplete(TypeOTF) {
		t.Errorf("installed family incomplete, missing %v", fam.MissingSizes(TypeOTF))
	}
}

func TestInstallRemoveRoundTrip(t *testing.T) {
	symlinksSupported(t)
	srcRoot := t.TempDir()
	writeFamily(t, srcRoot, "emmentaler", TypeOTF)
	repo, err := NewSourceRepo(srcRoot)
	if err != nil {
		t.Fatal(err)
	}

	_, inst := tempInstalled(t)
	before := inst.Families()

	repo.FlagForInstall(inst.Registry)
	if _, err := inst.InstallFlagged(repo.Installable(), false); err != nil {
		t.Fatal(err)
	}

	removed, err := inst.Remove([]string{"emmentaler"})
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if !reflect.DeepEqual(removed, []string{"emmentaler"}) {
		t.Errorf("removed = %v", removed)
	}
	if got := inst.Families(); !reflect.DeepEqual(got, before) {
		t.Errorf("families after round trip = %v, want %v", got, before)
	}
	if _, err := os.Lstat(filepath.Join(inst.FontDir(TypeOTF), "emmentaler-11.otf")); !os.IsNotExist(err) {
		t.Error("link still on disk after removal")
	}
}

func TestRemoveRefusesRealFiles(t *testing.T) {
	symlinksSupported(t)
	_, inst := tempInstalled(t)

	// One real file, one link.
	real := writeFont(t, inst.FontDir(TypeOTF), "emmentaler-11.otf")
	srcDir := t.TempDir()
	src := writeFont(t, srcDir, "emmentaler-13.otf")
	link := filepath.Join(inst.FontDir(TypeOTF), "emmentaler-13.otf")
	if err := os.Symlink(src, link); err != nil {
		t.Fatal(err)
	}
	if err := inst.Reload(); err != nil {
		t.Fatal(err)
	}

	removed, err := inst.Remove([]string{"emmentaler"})
	if len(removed) != 0 {
		t.Errorf("removed = %v, want none", removed)
	}
	var refused *RemovalRefusedError
	if !errors.As(err, &refused) {
		t.Fatalf("expected RemovalRefusedError, got %v", err)
	}
	if !reflect.DeepEqual(refused.Files, []string{real}) {
		t.Errorf("offending files = %v, want [%s]", refused.Files, real)
	}

	// On-disk state completely unchanged, links included.
	if _, statErr := os.Stat(real); statErr != nil {
		t.Error("real file touched by refused removal")
	}
	if _, statErr := os.Lstat(link); statErr != nil {
		t.Error("link removed despite refusal")
	}
	if inst.Family("emmentaler") == nil {
		t.Error("family dropped from registry despite refusal")
	}
}

func TestRemoveBatchProceedsPastRefusal(t *testing.T) {
	symlinksSupported(t)
	_, inst := tempInstalled(t)

	writeFont(t, inst.FontDir(TypeOTF), "gonville-11.otf") // real file, refused

	srcDir := t.TempDir()
	src := writeFont(t, srcDir, "emmentaler-11.otf")
	if err := os.Symlink(src, filepath.Join(inst.FontDir(TypeOTF), "emmentaler-11.otf")); err != nil {
		t.Fatal(err)
	}
	if err := inst.Reload(); err != nil {
		t.Fatal(err)
	}

	removed, err := inst.Remove([]string{"gonville", "emmentaler"})
	if !reflect.DeepEqual(removed, []string{"emmentaler"}) {
		t.Errorf("removed = %v, want [emmentaler]", removed)
	}
	var refused *RemovalRefusedError
	if !errors.As(err, &refused) || refused.Family != "gonville" {
		t.Errorf("expected refusal for gonville, got %v", err)
	}
}

func TestRemoveUnknownFamilyIgnored(t *testing.T) {
	_, inst := tempInstalled(t)
	removed, err := inst.Remove([]string{"nope"})
	if err != nil || len(removed) != 0 {
		t.Errorf("Remove unknown = (%v, %v)", removed, err)
	}
}
