// Package fsstore provides a local filesystem-backed Store, giving the
// daemon durable records across restarts.
package fsstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"xdao.co/names/record"
	"xdao.co/names/store"
)

// Store keeps one file per name under a sharded directory layout. Writes go
// through a temp file and rename so a crash never leaves a half-written
// record, and the greater-sequence rule is checked against the envelope
// already on disk.
type Store struct {
	root string

	// mu serializes the read-compare-write cycle in Put. The files
	// themselves are only ever replaced atomically.
	mu sync.Mutex
}

// New constructs a Store rooted at root. The directory is created if needed.
func New(root string) (*Store, error) {
	if root == "" {
		return nil, errors.New("fsstore: root directory is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &Store{root: root}, nil
}

func (s *Store) Get(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := os.ReadFile(s.pathFor(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

func (s *Store) Put(ctx context.Context, name string, rec []byte, seq uint64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.pathFor(name)
	if cur, err := os.ReadFile(path); err == nil {
		env, derr := record.Decode(cur)
		// An undecodable file on disk blocks writes rather than being
		// silently replaced.
		if derr != nil {
			return derr
		}
		if seq <= env.Record.Sequence {
			return store.ErrConflict
		}
	} else if !os.IsNotExist(err) {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return writeAtomic(path, rec)
}

// Has reports whether a record is published under name.
func (s *Store) Has(name string) bool {
	_, err := os.Stat(s.pathFor(name))
	return err == nil
}

// pathFor shards on the tail of the name: base36 names share a fixed prefix,
// so leading characters would put everything in one directory.
func (s *Store) pathFor(name string) string {
	if len(name) < 2 {
		return filepath.Join(s.root, name)
	}
	return filepath.Join(s.root, name[len(name)-2:], name)
}

func writeAtomic(path string, b []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".put-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
