package fontservice

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/quillon/fontgrove/internal/apperr"
	"github.com/quillon/fontgrove/internal/fonts"
	"github.com/quillon/fontgrove/internal/testutil"
)

type event struct{ kind, name string }

func testService(t *testing.T) (*Service, *[]event) {
	t.Helper()
	_, installed := testutil.TestInstalled(t)
	db := testutil.TestDB(t)

	var events []event
	svc := NewService(installed, db, testutil.TestLogger(), func(kind, name string) {
		events = append(events, event{kind, name})
	})
	return svc, &events
}

func symlinksSupported(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	if err := os.Symlink(filepath.Join(dir, "a"), filepath.Join(dir, "b")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}
}

func TestScanInstallComplete(t *testing.T) {
	symlinksSupported(t)
	svc, events := testService(t)
	ctx := context.Background()

	srcRoot := t.TempDir()
	testutil.WriteCompleteFamily(t, srcRoot, "emmentaler", fonts.TypeOTF)

	scan, err := svc.Scan(ctx, srcRoot)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if scan.Flagged != 9 {
		t.Errorf("flagged = %d, want 9", scan.Flagged)
	}
	if !reflect.DeepEqual(scan.Families, []string{"emmentaler"}) {
		t.Errorf("scan families = %v", scan.Families)
	}

	res, err := svc.Install(ctx, false)
	if err != nil {
		t.Fatalf("Install: %v", err)
	}
	if res.Installed != 9 {
		t.Errorf("installed = %d, want 9", res.Installed)
	}

	families := svc.Families(ctx)
	if len(families) != 1 || families[0].Name != "emmentaler" {
		t.Fatalf("families = %+v", families)
	}
	if families[0].Types["otf"].State != "complete" {
		t.Errorf("otf state = %s, want complete", families[0].Types["otf"].State)
	}

	// Catalog reflects the install.
	names, err := svc.SearchFamilies(ctx, "emment")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(names, []string{"emmentaler"}) {
		t.Errorf("search = %v", names)
	}

	if len(*events) == 0 || (*events)[0] != (event{"installed", "emmentaler"}) {
		t.Errorf("events = %v", *events)
	}

	// Nothing left to install against the updated registry.
	installable, err := svc.Installable(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(installable) != 0 {
		t.Errorf("installable after install = %+v", installable)
	}
}

func TestInstallWithoutScan(t *testing.T) {
	svc, _ := testService(t)
	if _, err := svc.Install(context.Background(), false); !errors.Is(err, apperr.ErrNoScan) {
		t.Errorf("err = %v, want ErrNoScan", err)
	}
	if _, err := svc.Installable(context.Background()); !errors.Is(err, apperr.ErrNoScan) {
		t.Errorf("err = %v, want ErrNoScan", err)
	}
}

func TestScanMissingRoot(t *testing.T) {
	svc, _ := testService(t)
	if _, err := svc.Scan(context.Background(), filepath.Join(t.TempDir(), "nope")); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestRemoveRoundTrip(t *testing.T) {
	symlinksSupported(t)
	svc, events := testService(t)
	ctx := context.Background()

	srcRoot := t.TempDir()
	testutil.WriteCompleteFamily(t, srcRoot, "emmentaler", fonts.TypeOTF)
	if _, err := svc.Scan(ctx, srcRoot); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Install(ctx, false); err != nil {
		t.Fatal(err)
	}

	res, err := svc.Remove(ctx, []string{"emmentaler"})
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if !reflect.DeepEqual(res.Removed, []string{"emmentaler"}) {
		t.Errorf("removed = %v", res.Removed)
	}
	if len(svc.Families(ctx)) != 0 {
		t.Error("families not empty after removal")
	}

	last := (*events)[len(*events)-1]
	if last != (event{"removed", "emmentaler"}) {
		t.Errorf("last event = %v", last)
	}
}

func TestRemoveRefusedSurfaced(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()

	// Install by copy: real files, so removal must be refused.
	srcRoot := t.TempDir()
	testutil.WriteFont(t, srcRoot, "emmentaler", "11", fonts.TypeOTF)
	if _, err := svc.Scan(ctx, srcRoot); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Install(ctx, true); err != nil {
		t.Fatal(err)
	}

	res, err := svc.Remove(ctx, []string{"emmentaler"})
	var refused *fonts.RemovalRefusedError
	if !errors.As(err, &refused) {
		t.Fatalf("err = %v, want RemovalRefusedError", err)
	}
	if len(res.Removed) != 0 {
		t.Errorf("removed = %v, want none", res.Removed)
	}
	if len(svc.Families(ctx)) != 1 {
		t.Error("family dropped despite refusal")
	}
}

func TestFamilyDetail(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()

	srcRoot := t.TempDir()
	testutil.WriteFont(t, srcRoot, "gonville", "11", fonts.TypeOTF)
	if _, err := svc.Scan(ctx, srcRoot); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Install(ctx, true); err != nil {
		t.Fatal(err)
	}

	detail, err := svc.FamilyDetail(ctx, "gonville")
	if err != nil {
		t.Fatalf("FamilyDetail: %v", err)
	}
	if len(detail.Files) != 1 || detail.Files[0].Size != "11" {
		t.Errorf("files = %+v", detail.Files)
	}
	// No brace of its own: fall back to the engine default.
	if detail.BraceFamily != DefaultBraceFamily {
		t.Errorf("brace family = %s", detail.BraceFamily)
	}

	if _, err := svc.FamilyDetail(ctx, "nope"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestRescanPicksUpOutOfBandChanges(t *testing.T) {
	svc, events := testService(t)
	ctx := context.Background()

	// Drop a font straight into the installed tree, bypassing the API.
	testutil.WriteFont(t, svc.installed.FontDir(fonts.TypeOTF), "emmentaler", "11", fonts.TypeOTF)
	if len(svc.Families(ctx)) != 0 {
		t.Fatal("out-of-band file visible before rescan")
	}

	if err := svc.Rescan(ctx); err != nil {
		t.Fatalf("Rescan: %v", err)
	}
	if len(svc.Families(ctx)) != 1 {
		t.Error("rescan missed the new family")
	}
	last := (*events)[len(*events)-1]
	if last.kind != "rescanned" {
		t.Errorf("last event = %v", last)
	}
}
