package storage

import (
	"go.uber.org/zap"

	"github.com/bobboyms/kvstore/pkg/ttl"
	"github.com/bobboyms/kvstore/pkg/wal"
)

// Options configura o Engine
type Options struct {
	// Caminho do arquivo de log (WAL). Criado vazio no primeiro uso.
	Path string

	// Grau mínimo da B+ Tree do índice
	Degree int

	// Política de sync do WAL. O default (SyncEveryWrite) é o único
	// modo que garante durability-before-ack; os outros existem para
	// cargas onde perder a cauda do log é aceitável.
	SyncPolicy wal.SyncPolicy

	// Fonte de tempo para o subsistema de TTL (nil = relógio do sistema)
	Clock ttl.Clock

	// Logger estruturado (nil = no-op)
	Logger *zap.Logger
}

// DefaultOptions retorna uma configuração segura
func DefaultOptions(path string) Options {
	return Options{
		Path:       path,
		Degree:     32,
		SyncPolicy: wal.SyncEveryWrite,
	}
}
