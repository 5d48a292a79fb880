package wal

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriter_AppendsRecordsInOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.db")

	w, err := NewWALWriter(path, DefaultOptions())
	if err != nil {
		t.Fatalf("NewWALWriter error: %v", err)
	}

	records := []Record{
		{Op: OpSet, Key: "a", Value: "1"},
		{Op: OpSet, Key: "b", Value: "two words"},
		{Op: OpDel, Key: "a"},
	}
	for _, rec := range records {
		if err := w.WriteRecord(rec); err != nil {
			t.Fatalf("WriteRecord(%+v) error: %v", rec, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile error: %v", err)
	}

	want := "SET a 1\nSET b two words\nDEL a\n"
	if string(data) != want {
		t.Fatalf("log content = %q, want %q", data, want)
	}
}

func TestWriter_SyncEveryWriteIsImmediatelyVisible(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.db")

	opts := DefaultOptions()
	opts.SyncPolicy = SyncEveryWrite

	w, err := NewWALWriter(path, opts)
	if err != nil {
		t.Fatalf("NewWALWriter error: %v", err)
	}
	defer w.Close()

	if err := w.WriteRecord(Record{Op: OpSet, Key: "k", Value: "v"}); err != nil {
		t.Fatalf("WriteRecord error: %v", err)
	}

	// Sem Close: com fsync por escrita o registro já está no arquivo
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile error: %v", err)
	}
	if string(data) != "SET k v\n" {
		t.Fatalf("log content = %q before Close, want %q", data, "SET k v\n")
	}
}

func TestWriter_CloseIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.db")

	w, err := NewWALWriter(path, DefaultOptions())
	if err != nil {
		t.Fatalf("NewWALWriter error: %v", err)
	}

	if err := w.Close(); err != nil {
		t.Fatalf("first Close error: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("second Close error: %v", err)
	}
}

func TestWriter_RejectsWriteAfterClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.db")

	w, err := NewWALWriter(path, DefaultOptions())
	if err != nil {
		t.Fatalf("NewWALWriter error: %v", err)
	}
	w.Close()

	if err := w.WriteRecord(Record{Op: OpSet, Key: "k", Value: "v"}); err == nil {
		t.Fatalf("WriteRecord after Close should fail")
	}
}

func TestWriter_PathAccessor(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.db")

	w, err := NewWALWriter(path, DefaultOptions())
	if err != nil {
		t.Fatalf("NewWALWriter error: %v", err)
	}
	defer w.Close()

	if w.Path() != path {
		t.Fatalf("Path() = %q, want %q", w.Path(), path)
	}
}
