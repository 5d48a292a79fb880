// Package jsonlog is a minimal append-only JSON-log store: the same
// log-then-index design as the main engine, degenerate case: one
// JSON object per line, no TTL, no transactions, rebuild on open.
package jsonlog

import (
	"bufio"
	"fmt"
	"os"
	"sync"

	"github.com/goccy/go-json"
	"github.com/puzpuzpuz/xsync/v3"
)

// record é a forma em disco: value null marca tombstone
type record struct {
	Key   string  `json:"key"`
	Value *string `json:"value"`
}

// Store mantém um índice em memória reconstruído do arquivo de log.
// O índice é um xsync.Map: leituras concorrentes são seguras; appends
// no arquivo são serializados pelo mutex.
type Store struct {
	mu      sync.Mutex
	path    string
	data    *xsync.MapOf[string, string]
	skipped int // linhas corruptas descartadas no rebuild
}

// New abre (ou cria) o store e reconstrói o índice do log
func New(path string) (*Store, error) {
	s := &Store{
		path: path,
		data: xsync.NewMapOf[string, string](),
	}

	if err := s.rebuild(); err != nil {
		return nil, err
	}
	return s, nil
}

// rebuild re-aplica o log linha a linha; linhas corruptas são puladas
func (s *Store) rebuild() error {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var rec record
		if err := json.Unmarshal(line, &rec); err != nil {
			s.skipped++
			continue
		}
		if rec.Key == "" {
			s.skipped++
			continue
		}

		if rec.Value != nil {
			s.data.Store(rec.Key, *rec.Value)
		} else {
			s.data.Delete(rec.Key)
		}
	}
	return scanner.Err()
}

// Set grava o par no log e atualiza o índice
func (s *Store) Set(key, value string) error {
	if key == "" {
		return fmt.Errorf("key cannot be empty")
	}

	if err := s.append(record{Key: key, Value: &value}); err != nil {
		return err
	}

	s.data.Store(key, value)
	return nil
}

// Get retorna o valor da chave, se presente
func (s *Store) Get(key string) (string, bool) {
	return s.data.Load(key)
}

// Delete grava um tombstone (value null) e remove do índice.
// Retorna false sem efeito se a chave não existe.
func (s *Store) Delete(key string) (bool, error) {
	if _, ok := s.data.Load(key); !ok {
		return false, nil
	}

	if err := s.append(record{Key: key, Value: nil}); err != nil {
		return false, err
	}

	s.data.Delete(key)
	return true, nil
}

// Keys retorna as chaves atualmente no store (sem ordem definida)
func (s *Store) Keys() []string {
	keys := make([]string, 0, s.data.Size())
	s.data.Range(func(key string, _ string) bool {
		keys = append(keys, key)
		return true
	})
	return keys
}

// Skipped retorna quantas linhas corruptas o rebuild descartou
func (s *Store) Skipped() int {
	return s.skipped
}

// ClearStorage apaga o arquivo e o índice (uso em testes)
func (s *Store) ClearStorage() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	s.data.Clear()
	return nil
}

// append abre o arquivo em modo append por chamada (o engine principal
// mantém o WAL aberto) e não faz fsync: este store não promete
// durability-before-ack
func (s *Store) append(rec record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.Write(append(payload, '\n')); err != nil {
		return err
	}
	return nil
}
