package storage

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bobboyms/kvstore/pkg/types"
)

// GenerateTxnID gera um identificador de transação.
func GenerateTxnID() string {
	// NewV7 gera um UUID baseado no tempo atual + aleatoriedade segura
	id, err := uuid.NewV7()
	if err != nil {
		panic(err) // Em caso improvável de erro no gerador de entropia
	}
	return id.String()
}

// txnEntry is a staged mutation. A tombstone marks deletion.
type txnEntry struct {
	key       string
	value     string
	tombstone bool
}

// TxnManager routes mutations either directly (autocommit) or via a
// staged buffer (explicit transaction). State machine:
//
//	Autocommit --begin--> InTxn --commit/abort--> Autocommit
//
// Re-begin inside a transaction discards the previous buffer.
// commit/abort in autocommit are no-ops.
//
// The buffer preserves first-write insertion order; re-staging a key
// updates its slot in place. Keys are unique within the buffer, so
// any deterministic order would do; commit emits one WAL record per
// key, at the position of that key's first write, carrying its last
// staged value.
type TxnManager struct {
	engine *Engine
	active bool
	id     string
	buffer []txnEntry
	pos    map[string]int // key → slot no buffer
}

func newTxnManager(engine *Engine) *TxnManager {
	return &TxnManager{
		engine: engine,
		pos:    make(map[string]int),
	}
}

// Begin starts (or restarts) a transaction with a fresh buffer
func (t *TxnManager) Begin() {
	t.active = true
	t.reset()
	t.id = GenerateTxnID()
	t.engine.logger.Debug("transaction begin", zap.String("txn", t.id))
}

// Active reports whether a transaction is open
func (t *TxnManager) Active() bool {
	return t.active
}

// Read resolves a key through the buffer first (read-your-writes),
// falling back to the index. A buffered tombstone reads as absent.
// No TTL gate here: visibility rules belong to the caller.
func (t *TxnManager) Read(key string) (string, bool) {
	if t.active {
		if i, ok := t.pos[key]; ok {
			e := t.buffer[i]
			if e.tombstone {
				return "", false
			}
			return e.value, true
		}
	}
	return t.engine.index.Get(types.StringKey(key))
}

// Write stages the mutation in InTxn, or applies and logs it
// immediately in autocommit.
func (t *TxnManager) Write(key, value string) error {
	if t.active {
		t.stage(txnEntry{key: key, value: value})
		return nil
	}
	return t.engine.applySet(key, value)
}

// Delete returns 1 and stages/applies a tombstone iff the key is
// currently readable (buffer or index; presence check only, the TTL
// gate intentionally does not apply here). Returns 0 otherwise.
func (t *TxnManager) Delete(key string) (int, error) {
	if _, ok := t.Read(key); !ok {
		return 0, nil
	}

	if t.active {
		t.stage(txnEntry{key: key, tombstone: true})
		return 1, nil
	}

	if err := t.engine.applyDel(key); err != nil {
		return 0, err
	}
	return 1, nil
}

// Commit applies the buffer in insertion order, logging one WAL
// record per entry. A crash (or WAL failure) midway leaves exactly
// the durable prefix applied; replay restores that prefix.
func (t *TxnManager) Commit() error {
	if !t.active {
		return nil
	}

	for _, e := range t.buffer {
		var err error
		if e.tombstone {
			err = t.engine.applyDel(e.key)
		} else {
			err = t.engine.applySet(e.key, e.value)
		}
		if err != nil {
			// Prefixo já aplicado e durável; o resto do buffer é descartado
			t.engine.logger.Error("transaction commit interrupted",
				zap.String("txn", t.id), zap.Error(err))
			t.active = false
			t.reset()
			return err
		}
	}

	t.engine.logger.Debug("transaction committed",
		zap.String("txn", t.id), zap.Int("ops", len(t.buffer)))
	t.engine.stats.TxnsCommitted.Add(1)
	t.active = false
	t.reset()
	return nil
}

// Abort discards the buffer with no WAL effect
func (t *TxnManager) Abort() {
	if !t.active {
		return
	}
	t.engine.logger.Debug("transaction aborted", zap.String("txn", t.id))
	t.engine.stats.TxnsAborted.Add(1)
	t.active = false
	t.reset()
}

// stage upserts the entry, keeping first-write order for existing keys
func (t *TxnManager) stage(e txnEntry) {
	if i, ok := t.pos[e.key]; ok {
		t.buffer[i] = e
		return
	}
	t.pos[e.key] = len(t.buffer)
	t.buffer = append(t.buffer, e)
}

func (t *TxnManager) reset() {
	t.buffer = t.buffer[:0]
	clear(t.pos)
}
