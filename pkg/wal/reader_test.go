package wal

import (
	"io"
	"os"
	"path/filepath"
	"testing"
)

func writeLog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.db")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}
	return path
}

func readAll(t *testing.T, path string) ([]Record, int) {
	t.Helper()
	r, err := NewWALReader(path)
	if err != nil {
		t.Fatalf("NewWALReader error: %v", err)
	}
	defer r.Close()

	var records []Record
	for {
		rec, err := r.ReadRecord()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("ReadRecord error: %v", err)
		}
		records = append(records, rec)
	}
	return records, r.Skipped()
}

func TestReader_ReadsRecordsInFileOrder(t *testing.T) {
	path := writeLog(t, "SET a 1\nSET b 2\nDEL a\nEXPIRE b 123456\nPERSIST b\n")

	records, skipped := readAll(t, path)

	if len(records) != 5 {
		t.Fatalf("got %d records, want 5", len(records))
	}
	if skipped != 0 {
		t.Fatalf("skipped = %d, want 0", skipped)
	}

	want := []Record{
		{Op: OpSet, Key: "a", Value: "1"},
		{Op: OpSet, Key: "b", Value: "2"},
		{Op: OpDel, Key: "a"},
		{Op: OpExpire, Key: "b", Expire: 123456},
		{Op: OpPersist, Key: "b"},
	}
	for i, rec := range want {
		if records[i] != rec {
			t.Fatalf("records[%d] = %+v, want %+v", i, records[i], rec)
		}
	}
}

func TestReader_SkipsEmptyLines(t *testing.T) {
	path := writeLog(t, "SET a 1\n\n\nSET b 2\n")

	records, _ := readAll(t, path)
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
}

func TestReader_SkipsMalformedAndUnknown(t *testing.T) {
	path := writeLog(t, "SET a 1\nFROB x y\nSET onlykey\nEXPIRE k nan\nSET b 2\n")

	records, skipped := readAll(t, path)
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2 (%v)", len(records), records)
	}
	if skipped != 3 {
		t.Fatalf("skipped = %d, want 3", skipped)
	}
	if records[1].Key != "b" {
		t.Fatalf("records[1].Key = %q, want b", records[1].Key)
	}
}

func TestReader_SkipsTornTail(t *testing.T) {
	// Última linha sem \n simula um crash no meio do append: o
	// registro rasgado não pode entrar no estado reconstruído
	path := writeLog(t, "SET a 1\nSET b 2\nSET c 3")

	records, skipped := readAll(t, path)
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if skipped != 1 {
		t.Fatalf("skipped = %d, want 1", skipped)
	}
}

func TestReader_TruncatedLastByte(t *testing.T) {
	// Corta o \n final: o último registro vira cauda rasgada e o
	// estado recuperado é o log menos no máximo um registro
	path := writeLog(t, "SET a 1\nSET b 2\n")

	data, _ := os.ReadFile(path)
	if err := os.WriteFile(path, data[:len(data)-1], 0644); err != nil {
		t.Fatalf("truncate error: %v", err)
	}

	records, _ := readAll(t, path)
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if records[0].Key != "a" {
		t.Fatalf("records[0].Key = %q, want a", records[0].Key)
	}
}

func TestReader_MissingFile(t *testing.T) {
	_, err := NewWALReader(filepath.Join(t.TempDir(), "nope.db"))
	if !os.IsNotExist(err) {
		t.Fatalf("err = %v, want os.IsNotExist", err)
	}
}

func TestReader_EmptyFile(t *testing.T) {
	path := writeLog(t, "")

	records, skipped := readAll(t, path)
	if len(records) != 0 || skipped != 0 {
		t.Fatalf("got %d records, %d skipped, want 0/0", len(records), skipped)
	}
}
