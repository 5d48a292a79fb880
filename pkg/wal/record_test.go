package wal

import "testing"

func TestRecord_EncodeDecodeRoundTrip(t *testing.T) {
	records := []Record{
		{Op: OpSet, Key: "name", Value: "Alice"},
		{Op: OpSet, Key: "greeting", Value: "hello world with spaces"},
		{Op: OpSet, Key: "k", Value: ""},
		{Op: OpDel, Key: "name"},
		{Op: OpExpire, Key: "session", Expire: 1712345678901},
		{Op: OpPersist, Key: "session"},
	}

	for _, rec := range records {
		line, err := rec.Encode()
		if err != nil {
			t.Fatalf("Encode(%+v) error: %v", rec, err)
		}

		got, err := Decode(line)
		if err != nil {
			t.Fatalf("Decode(%q) error: %v", line, err)
		}
		if got != rec {
			t.Fatalf("round trip mismatch.\nEncoded: %q\nExpected: %+v\nGot: %+v", line, rec, got)
		}
	}
}

func TestRecord_ValueWithSpacesSurvives(t *testing.T) {
	// O split do Decode é em no máximo três campos: o valor carrega
	// espaços internos verbatim
	rec, err := Decode("SET quote to be or not to be")
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if rec.Key != "quote" || rec.Value != "to be or not to be" {
		t.Fatalf("got key=%q value=%q", rec.Key, rec.Value)
	}
}

func TestRecord_DecodeFloatExpiry(t *testing.T) {
	rec, err := Decode("EXPIRE k 1712345678901.5")
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if rec.Expire != 1712345678901 {
		t.Fatalf("Expire = %d, want 1712345678901", rec.Expire)
	}
}

func TestRecord_DecodeToleratesExtraFields(t *testing.T) {
	// DEL/PERSIST com campos extras: o resto é ignorado
	rec, err := Decode("DEL a b")
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if rec.Op != OpDel || rec.Key != "a" {
		t.Fatalf("got %+v, want DEL a", rec)
	}
}

func TestRecord_DecodeMalformed(t *testing.T) {
	malformed := []string{
		"SET onlykey",      // SET sem valor
		"EXPIRE k",         // EXPIRE sem timestamp
		"EXPIRE k notanum", // timestamp não numérico
		"DEL",              // DEL sem chave
		"PERSIST",          // PERSIST sem chave
		"FROB k v",         // opcode desconhecido
		"",                 // linha vazia
	}

	for _, line := range malformed {
		if _, err := Decode(line); err == nil {
			t.Errorf("Decode(%q) should fail", line)
		}
	}
}

func TestRecord_EncodeRejectsEmptyKey(t *testing.T) {
	if _, err := (Record{Op: OpSet, Key: "", Value: "v"}).Encode(); err == nil {
		t.Fatalf("Encode with empty key should fail")
	}
}
