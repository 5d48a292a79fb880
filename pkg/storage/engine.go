package storage

import (
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/bobboyms/kvstore/pkg/btree"
	"github.com/bobboyms/kvstore/pkg/errors"
	"github.com/bobboyms/kvstore/pkg/query"
	"github.com/bobboyms/kvstore/pkg/ttl"
	"github.com/bobboyms/kvstore/pkg/types"
	"github.com/bobboyms/kvstore/pkg/wal"
)

// Engine é o storage engine: índice ordenado em memória + WAL durável
// + TTLs absolutos + transação single-writer.
//
// O índice é a fonte de verdade das leituras; o WAL é a fonte de
// verdade do recovery. Ordem de escrita: registro no WAL (flush +
// fsync) ANTES de tocar o índice. Um mutation confirmado é sempre
// reconstruível pelo replay.
//
// O Engine não tem controle de concorrência próprio: o modelo é
// single-writer estritamente serial (um comando de cada vez, fsync
// incluso). É essa suposição que dispensa locks entre índice, TTL e
// buffer de transação.
type Engine struct {
	index  *btree.BPlusTree
	ttl    *ttl.Manager
	wal    *wal.WALWriter
	txn    *TxnManager
	stats  *Stats
	logger *zap.Logger
	closed bool
}

// Open cria (ou reabre) o engine no caminho configurado.
//
// Recovery Strategy (Replay): o índice e o mapa de TTL começam vazios
// e são reconstruídos re-aplicando todo o log, em ordem de arquivo,
// antes de qualquer comando ser aceito.
func Open(opts Options) (*Engine, error) {
	if opts.Path == "" {
		return nil, fmt.Errorf("storage path não configurado")
	}
	if opts.Degree < 2 {
		opts.Degree = DefaultOptions(opts.Path).Degree
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	walOpts := wal.DefaultOptions()
	walOpts.SyncPolicy = opts.SyncPolicy

	// Abrir o writer primeiro garante que o arquivo existe (vazio no
	// primeiro uso), então o replay nunca falha por arquivo ausente.
	writer, err := wal.NewWALWriter(opts.Path, walOpts)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		index:  btree.NewTree(opts.Degree),
		ttl:    ttl.NewManager(opts.Clock),
		wal:    writer,
		stats:  &Stats{StartTime: time.Now()},
		logger: logger,
	}
	e.txn = newTxnManager(e)

	if err := e.replay(opts.Path); err != nil {
		writer.Close()
		return nil, fmt.Errorf("replay do WAL falhou: %w", err)
	}

	return e, nil
}

// replay reconstrói índice + TTL aplicando o log em ordem.
// Last-writer-wins produz naturalmente o estado final correto.
func (e *Engine) replay(path string) error {
	reader, err := wal.NewWALReader(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer reader.Close()

	for {
		rec, err := reader.ReadRecord()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		switch rec.Op {
		case wal.OpSet:
			e.index.Set(types.StringKey(rec.Key), rec.Value)
		case wal.OpDel:
			e.index.Delete(types.StringKey(rec.Key))
			e.ttl.Delete(rec.Key)
		case wal.OpExpire:
			e.ttl.ReplaySet(rec.Key, rec.Expire)
		case wal.OpPersist:
			e.ttl.Delete(rec.Key)
		}
		e.stats.ReplayApplied++
	}

	e.stats.ReplaySkipped = int64(reader.Skipped())
	e.logger.Info("wal replay concluído",
		zap.Int64("applied", e.stats.ReplayApplied),
		zap.Int64("skipped", e.stats.ReplaySkipped))
	return nil
}

// === Caminho de escrita (usado pelo TxnManager em autocommit e no commit) ===

// applySet: registro no WAL primeiro, índice depois.
// Se o fsync falhar o índice não é tocado e o ack é negado ao cliente.
func (e *Engine) applySet(key, value string) error {
	rec := wal.Record{Op: wal.OpSet, Key: key, Value: value}
	if err := e.wal.WriteRecord(rec); err != nil {
		e.logger.Error("wal append falhou", zap.String("op", wal.OpSet), zap.Error(err))
		return &errors.WALAppendError{Op: wal.OpSet, Err: err}
	}

	e.index.Set(types.StringKey(key), value)
	e.stats.TotalWrites.Add(1)
	return nil
}

func (e *Engine) applyDel(key string) error {
	rec := wal.Record{Op: wal.OpDel, Key: key}
	if err := e.wal.WriteRecord(rec); err != nil {
		e.logger.Error("wal append falhou", zap.String("op", wal.OpDel), zap.Error(err))
		return &errors.WALAppendError{Op: wal.OpDel, Err: err}
	}

	e.index.Delete(types.StringKey(key))
	e.ttl.Delete(key)
	e.stats.TotalDeletes.Add(1)
	return nil
}

// === API pública (operações do protocolo) ===

// Get retorna o valor visível da chave: buffer da transação primeiro,
// senão índice, sempre atrás do gate de TTL.
func (e *Engine) Get(key string) (string, bool) {
	e.stats.TotalReads.Add(1)

	value, ok := e.txn.Read(key)
	if !ok {
		return "", false
	}
	if e.ttl.IsExpired(key) {
		// A entrada física pode continuar no índice; expirada = invisível
		e.stats.ExpiredReads.Add(1)
		return "", false
	}
	return value, true
}

// Exists: 1/0 do protocolo, com o mesmo gate de visibilidade do Get
func (e *Engine) Exists(key string) bool {
	_, ok := e.Get(key)
	return ok
}

// Set estabelece o binding chave → valor (bufferizado em transação,
// durável imediatamente em autocommit).
func (e *Engine) Set(key, value string) error {
	if e.closed {
		return &errors.ClosedError{}
	}
	if key == "" {
		return &errors.EmptyKeyError{}
	}
	return e.txn.Write(key, value)
}

// Del remove a chave. Retorna 1 se ela era legível (sem gate de TTL,
// igual ao presence check do Expire), 0 se ausente.
func (e *Engine) Del(key string) (int, error) {
	if e.closed {
		return 0, &errors.ClosedError{}
	}
	return e.txn.Delete(key)
}

// Begin abre (ou reinicia) uma transação
func (e *Engine) Begin() {
	e.txn.Begin()
}

// Commit aplica o buffer da transação; no-op em autocommit
func (e *Engine) Commit() error {
	if e.closed {
		return &errors.ClosedError{}
	}
	return e.txn.Commit()
}

// Abort descarta o buffer da transação; no-op em autocommit
func (e *Engine) Abort() {
	e.txn.Abort()
}

// Expire instala um TTL relativo (ms) na chave.
//
// Retorna 1 se a chave é legível (buffer ou índice, sem gate de TTL:
// re-EXPIRE de uma chave expirada mas ainda presente a revive), 0 se
// ausente. TTL é transaction-unaware: o mapa e o WAL são atualizados
// imediatamente, mesmo dentro de BEGIN/COMMIT.
func (e *Engine) Expire(key string, ms int64) (int, error) {
	if e.closed {
		return 0, &errors.ClosedError{}
	}

	if _, ok := e.txn.Read(key); !ok {
		return 0, nil
	}

	// O timestamp absoluto retornado é o que vai para o log, então o
	// replay é independente do instante do boot.
	expiryTS := e.ttl.Set(key, ms)

	rec := wal.Record{Op: wal.OpExpire, Key: key, Expire: expiryTS}
	if err := e.wal.WriteRecord(rec); err != nil {
		// Desfaz a entrada não-logada para não divergir do log
		e.ttl.Delete(key)
		e.logger.Error("wal append falhou", zap.String("op", wal.OpExpire), zap.Error(err))
		return 0, &errors.WALAppendError{Op: wal.OpExpire, Err: err}
	}
	return 1, nil
}

// TTL devolve a semântica do comando TTL:
//
//	-2  chave ausente do índice ou expirada
//	-1  chave presente sem TTL
//	 n  ms restantes (clampado em 0)
//
// Consulta o índice diretamente: chaves só bufferizadas respondem -2.
func (e *Engine) TTL(key string) int64 {
	if _, ok := e.index.Get(types.StringKey(key)); !ok {
		return -2
	}
	if e.ttl.IsExpired(key) {
		return -2
	}
	remaining, ok := e.ttl.Remaining(key)
	if !ok {
		return -1
	}
	return remaining
}

// Persist remove o TTL da chave. Retorna 1 e loga PERSIST se havia
// TTL, 0 caso contrário. Também transaction-unaware.
func (e *Engine) Persist(key string) (int, error) {
	if e.closed {
		return 0, &errors.ClosedError{}
	}

	if e.ttl.Persist(key) == 0 {
		return 0, nil
	}

	rec := wal.Record{Op: wal.OpPersist, Key: key}
	if err := e.wal.WriteRecord(rec); err != nil {
		e.logger.Error("wal append falhou", zap.String("op", wal.OpPersist), zap.Error(err))
		return 0, &errors.WALAppendError{Op: wal.OpPersist, Err: err}
	}
	return 1, nil
}

// Range retorna as chaves em [start, end] em ordem crescente, pulando
// expiradas. String vazia = ilimitado naquele lado. Bounds inclusivos.
//
// O scan anda pelas folhas encadeadas da árvore via cursor; não
// enxerga o buffer de transação (igual ao TTL: consulta o índice).
func (e *Engine) Range(start, end string) []string {
	kr := query.Between(boundKey(start), boundKey(end))

	keys := []string{}
	c := &Cursor{tree: e.index}
	defer c.Close()

	c.Seek(kr.StartKey())
	for c.Valid() {
		key := c.Key()

		if !kr.ShouldContinue(key) {
			break
		}

		if kr.Matches(key) {
			k := key.(types.StringKey).String()
			if !e.ttl.IsExpired(k) {
				keys = append(keys, k)
			}
		}
		c.Next()
	}

	return keys
}

// boundKey converte o bound do protocolo ("" = sem limite) para chave
func boundKey(s string) types.Comparable {
	if s == "" {
		return nil
	}
	return types.StringKey(s)
}

// Stats retorna os contadores do engine
func (e *Engine) Stats() *Stats {
	return e.stats
}

// Close dá flush e fecha o WAL. O engine não aceita mais mutações.
func (e *Engine) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true
	return e.wal.Close()
}
