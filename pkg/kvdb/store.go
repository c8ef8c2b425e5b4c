// Copyright 2026 RGB Protocol
//
// Embedded key-value store adapter over cometbft-db

// Package kvdb adapts CometBFT's embedded key-value engine
// (github.com/cometbft/cometbft-db) into the generic, prefix-scannable
// store the stash persists through. The fungible asset cache does not use
// it; it persists to a file of its own.
package kvdb

import (
	"bytes"

	dbm "github.com/cometbft/cometbft-db"
)

// Store wraps a dbm.DB with the prefix-scan and durable-write operations
// the stash and cache layers need on top of plain Get/Set.
type Store struct {
	db dbm.DB
}

// NewMemStore opens an in-memory store, used by tests. cmd/stashd always
// opens a goleveldb-backed store.
func NewMemStore() *Store {
	return &Store{db: dbm.NewMemDB()}
}

// NewGoLevelStore opens (creating if absent) a goleveldb-backed store
// rooted at dir/name.db.
func NewGoLevelStore(name, dir string) (*Store, error) {
	db, err := dbm.NewGoLevelDB(name, dir)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Get returns the value stored at key, or nil if absent.
func (s *Store) Get(key []byte) ([]byte, error) {
	return s.db.Get(key)
}

// Has reports whether key is present.
func (s *Store) Has(key []byte) (bool, error) {
	return s.db.Has(key)
}

// Set durably writes key/value. The stash's content-addressed tables
// need every accepted write to survive a crash before the reply saying
// so goes out, so this always synchronizes to disk rather than buffering.
func (s *Store) Set(key, value []byte) error {
	return s.db.SetSync(key, value)
}

// Delete durably removes key.
func (s *Store) Delete(key []byte) error {
	return s.db.DeleteSync(key)
}

// IteratePrefix calls fn once per key/value pair whose key starts with
// prefix, in ascending key order, stopping early if fn returns an error.
// This is what ListSchemata/ListGeneses and reverse-index lookups walk.
func (s *Store) IteratePrefix(prefix []byte, fn func(key, value []byte) error) error {
	end := prefixUpperBound(prefix)
	it, err := s.db.Iterator(prefix, end)
	if err != nil {
		return err
	}
	defer it.Close()

	for ; it.Valid(); it.Next() {
		if err := fn(append([]byte(nil), it.Key()...), append([]byte(nil), it.Value()...)); err != nil {
			return err
		}
	}
	return it.Error()
}

// prefixUpperBound returns the smallest key that sorts after every key
// beginning with prefix, for use as an Iterator's exclusive end bound. A
// prefix of all-0xFF bytes has no such bound, in which case a nil end
// (meaning "no upper bound") is returned.
func prefixUpperBound(prefix []byte) []byte {
	end := append([]byte(nil), prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] != 0xFF {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}

// HasPrefix reports whether key begins with prefix, a small readability
// helper callers use when filtering iterator output further.
func HasPrefix(key, prefix []byte) bool {
	return bytes.HasPrefix(key, prefix)
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
