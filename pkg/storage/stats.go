package storage

import (
	"sync/atomic"
	"time"
)

// Stats mantém contadores de operação do engine.
// Leitura via atomics para não interferir no caminho quente.
type Stats struct {
	StartTime      time.Time
	TotalReads     atomic.Int64
	TotalWrites    atomic.Int64
	TotalDeletes   atomic.Int64
	ExpiredReads   atomic.Int64 // leituras bloqueadas pelo gate de TTL
	ReplayApplied  int64        // registros aplicados no boot
	ReplaySkipped  int64        // linhas descartadas no boot
	TxnsCommitted  atomic.Int64
	TxnsAborted    atomic.Int64
}
