// Package kvstore provides the durable key-value blobs backing the catalog
// and the transaction ledger. Each key maps to one opaque JSON document,
// mirroring a browser local-storage entry.
package kvstore

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// PersistenceError reports a durable-storage read or write failure.
type PersistenceError struct {
	Key string
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("kvstore: %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Store is a durable key-value blob store. Get reports ok=false for a key
// that has never been written; that is not an error.
type Store interface {
	Get(key string) (data []byte, ok bool, err error)
	Set(key string, data []byte) error
}

// FileStore keeps one file per key under a data directory. Writes go
// through a temp file and rename so a crash never leaves a torn blob.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

// NewFileStore creates the data directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &PersistenceError{Key: dir, Op: "mkdir", Err: err}
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// Get reads the blob stored under key.
func (s *FileStore) Get(key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, &PersistenceError{Key: key, Op: "read", Err: err}
	}
	return b, true, nil
}

// Set replaces the blob stored under key.
func (s *FileStore) Set(key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tmp, err := os.CreateTemp(s.dir, key+".*.tmp")
	if err != nil {
		return &PersistenceError{Key: key, Op: "write", Err: err}
	}
	name := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(name)
		return &PersistenceError{Key: key, Op: "write", Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(name)
		return &PersistenceError{Key: key, Op: "write", Err: err}
	}
	if err := os.Rename(name, s.path(key)); err != nil {
		os.Remove(name)
		return &PersistenceError{Key: key, Op: "write", Err: err}
	}
	return nil
}

// MemStore is an in-memory Store for tests and ephemeral runs.
type MemStore struct {
	mu sync.RWMutex
	m  map[string][]byte
}

// NewMemStore returns an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{m: make(map[string][]byte)}
}

// Get returns the stored blob, if any.
func (s *MemStore) Get(key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.m[key]
	if !ok {
		return nil, false, nil
	}
	cp := make([]byte, len(b))
	copy(cp, b)
	return cp, true, nil
}

// Set stores a copy of data under key.
func (s *MemStore) Set(key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]byte, len(data))
	copy(cp, data)
	s.m[key] = cp
	return nil
}
