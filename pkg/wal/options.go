package wal

import "time"

// SyncPolicy define a estratégia de durabilidade
type SyncPolicy int

const (
	// SyncEveryWrite chama fsync() após cada escrita.
	// Mais seguro, menor performance.
	SyncEveryWrite SyncPolicy = iota

	// SyncInterval chama fsync() periodicamente (background).
	// Balanceado.
	SyncInterval

	// SyncBatch chama fsync() quando os bytes escritos desde o último
	// sync atingem SyncBatchBytes.
	// Alta performance.
	SyncBatch
)

// Options configura o WAL Writer
type Options struct {
	// Tamanho do buffer em memória antes de flush para o SO (bufio)
	BufferSize int

	// Política de Sync
	SyncPolicy SyncPolicy

	// Intervalo para SyncInterval
	SyncIntervalDuration time.Duration

	// Tamanho acumulado em bytes para disparar Sync (apenas SyncBatch)
	SyncBatchBytes int64
}

// DefaultOptions retorna uma configuração segura.
// O storage engine substitui a SyncPolicy pela das suas próprias
// Options, cujo default também é SyncEveryWrite: nesse modo um mutation
// só é confirmado depois do fsync do seu registro.
func DefaultOptions() Options {
	return Options{
		BufferSize:           64 * 1024, // 64KB bufio buffer
		SyncPolicy:           SyncEveryWrite,
		SyncIntervalDuration: 200 * time.Millisecond,
		SyncBatchBytes:       1 * 1024 * 1024, // 1MB
	}
}
