// Package inmem provides an in-process Store used by tests and the daemon.
package inmem

import (
	"context"
	"sync"

	"xdao.co/names/store"
)

type entry struct {
	rec []byte
	seq uint64
}

// Store keeps records in memory, guarded by a mutex, and enforces the
// greater-sequence write rule.
type Store struct {
	mu   sync.Mutex
	recs map[string]entry
}

func New() *Store {
	return &Store{recs: make(map[string]entry)}
}

func (s *Store) Get(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.recs[name]
	if !ok {
		return nil, store.ErrNotFound
	}
	return append([]byte(nil), e.rec...), nil
}

func (s *Store) Put(ctx context.Context, name string, rec []byte, seq uint64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur, ok := s.recs[name]; ok && seq <= cur.seq {
		return store.ErrConflict
	}
	s.recs[name] = entry{rec: append([]byte(nil), rec...), seq: seq}
	return nil
}

// Has reports whether a record is published under name.
func (s *Store) Has(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.recs[name]
	return ok
}
