package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

type testRec struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (r testRec) RecordID() string { return r.ID }

func newTestCollection(t *testing.T) *Collection[testRec] {
	t.Helper()
	c, err := NewCollection[testRec](t.TempDir(), "records")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	return c
}

func TestLoad_MissingFileIsEmpty(t *testing.T) {
	c := newTestCollection(t)
	records, err := c.Load()
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected empty collection, got %d records", len(records))
	}
}

func TestLoad_CorruptFileReportsErrCorrupt(t *testing.T) {
	c := newTestCollection(t)
	if err := os.WriteFile(c.Path(), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := c.Load(); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("expected ErrCorrupt, got %v", err)
	}
}

func TestUpsert_InsertThenReplace(t *testing.T) {
	c := newTestCollection(t)
	if err := c.Upsert(testRec{ID: "a", Name: "first"}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := c.Upsert(testRec{ID: "b", Name: "second"}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := c.Upsert(testRec{ID: "a", Name: "replaced"}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	records, err := c.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].ID != "a" || records[0].Name != "replaced" {
		t.Fatalf("expected in-place replace preserving order, got %+v", records[0])
	}
}

func TestDelete_RemovesAndReportsMiss(t *testing.T) {
	c := newTestCollection(t)
	if err := c.Save([]testRec{{ID: "a"}, {ID: "b"}}); err != nil {
		t.Fatalf("save: %v", err)
	}

	found, err := c.Delete("a")
	if err != nil || !found {
		t.Fatalf("expected delete hit, got found=%v err=%v", found, err)
	}
	found, err = c.Delete("nope")
	if err != nil || found {
		t.Fatalf("expected delete miss, got found=%v err=%v", found, err)
	}

	records, _ := c.Load()
	if len(records) != 1 || records[0].ID != "b" {
		t.Fatalf("unexpected records after delete: %+v", records)
	}
}

func TestUpdate_ErrorLeavesFileUntouched(t *testing.T) {
	c := newTestCollection(t)
	if err := c.Save([]testRec{{ID: "a"}}); err != nil {
		t.Fatalf("save: %v", err)
	}

	boom := errors.New("boom")
	err := c.Update(func(records []testRec) ([]testRec, error) {
		return nil, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected fn error, got %v", err)
	}

	records, err := c.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected original record to survive, got %+v", records)
	}
}

func TestClear_WritesEmptyArray(t *testing.T) {
	c := newTestCollection(t)
	if err := c.Save([]testRec{{ID: "a"}}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := c.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	data, err := os.ReadFile(c.Path())
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "[]\n" {
		t.Fatalf("expected empty JSON array on disk, got %q", string(data))
	}
}

func TestSave_NoTempFilesLeftBehind(t *testing.T) {
	dir := t.TempDir()
	c, err := NewCollection[testRec](dir, "records")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if err := c.Save([]testRec{{ID: "a"}}); err != nil {
		t.Fatalf("save: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != filepath.Base(c.Path()) {
		t.Fatalf("expected only the collection file, got %v", entries)
	}
}
