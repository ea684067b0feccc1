package catalog

import (
	"os"
	"reflect"
	"testing"
)

func tempDB(t *testing.T) *DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "fontgrove-catalog-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleRows() []FileRow {
	return []FileRow{
		{Path: "/fonts/otf/emmentaler-11.otf", Family: "emmentaler", Type: "otf", Size: "11", Status: "link", Checksum: "aa"},
		{Path: "/fonts/otf/emmentaler-brace.otf", Family: "emmentaler", Type: "otf", Size: "brace", Status: "link", Checksum: "bb"},
		{Path: "/fonts/otf/gonville-11.otf", Family: "gonville", Type: "otf", Size: "11", Status: "file", Checksum: "cc"},
	}
}

func TestReplaceAllAndFamilies(t *testing.T) {
	db := tempDB(t)
	if err := db.ReplaceAll(sampleRows()); err != nil {
		t.Fatalf("ReplaceAll: %v", err)
	}

	fams, err := db.Families()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(fams, []string{"emmentaler", "gonville"}) {
		t.Errorf("families = %v", fams)
	}

	// A second snapshot fully replaces the first.
	if err := db.ReplaceAll(sampleRows()[2:]); err != nil {
		t.Fatal(err)
	}
	fams, err = db.Families()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(fams, []string{"gonville"}) {
		t.Errorf("families after replace = %v", fams)
	}
}

func TestFamilyFiles(t *testing.T) {
	db := tempDB(t)
	if err := db.ReplaceAll(sampleRows()); err != nil {
		t.Fatal(err)
	}

	rows, err := db.FamilyFiles("emmentaler")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[0].Size != "11" || rows[0].Status != "link" {
		t.Errorf("row 0 = %+v", rows[0])
	}

	rows, err = db.FamilyFiles("nope")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 0 {
		t.Errorf("unknown family rows = %d", len(rows))
	}
}

func TestSearchFamilies(t *testing.T) {
	db := tempDB(t)
	if err := db.ReplaceAll(sampleRows()); err != nil {
		t.Fatal(err)
	}

	got, err := db.SearchFamilies("ville")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, []string{"gonville"}) {
		t.Errorf("search = %v", got)
	}

	got, err = db.SearchFamilies("zzz")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("search zzz = %v", got)
	}
}

func TestAllChecksums(t *testing.T) {
	db := tempDB(t)
	if err := db.ReplaceAll(sampleRows()); err != nil {
		t.Fatal(err)
	}
	cs, err := db.AllChecksums()
	if err != nil {
		t.Fatal(err)
	}
	if len(cs) != 3 || cs["/fonts/otf/gonville-11.otf"] != "cc" {
		t.Errorf("checksums = %v", cs)
	}
}

func TestReplaceAllEmpty(t *testing.T) {
	db := tempDB(t)
	if err := db.ReplaceAll(sampleRows()); err != nil {
		t.Fatal(err)
	}
	if err := db.ReplaceAll(nil); err != nil {
		t.Fatalf("ReplaceAll empty: %v", err)
	}
	fams, err := db.Families()
	if err != nil {
		t.Fatal(err)
	}
	if len(fams) != 0 {
		t.Errorf("families = %v, want none", fams)
	}
}
