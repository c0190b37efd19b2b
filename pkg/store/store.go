// Package store implements the generic key-value Store interface and its
// interchangeable backends: an in-memory map, LevelDB, BoltDB, and a
// write-buffering overlay used to build nested transactions.
package store

import "github.com/clarity-vm/context/pkg/clarityerr"

// KeyValue is one key/value record. Seek does not use it: it passes each
// key and value to its callback as separate arguments.
type KeyValue struct {
	Key   []byte
	Value []byte
}

// Store is the minimal persistence contract the rest of this module is
// built on: a flat byte-keyed store with prefix iteration. The contract
// database layers its typed accessors and nested transactions on top.
type Store interface {
	Get(key []byte) ([]byte, error)
	Put(key, value []byte) error
	Delete(key []byte) error
	// Seek calls fn for every key with the given prefix, in ascending key
	// order, stopping early if fn returns false.
	Seek(prefix []byte, fn func(k, v []byte) bool)
	Close() error
}

// ErrKeyNotFound is returned by Get when the key is absent. Re-exported
// from clarityerr so callers checking storage misses don't need to import
// both packages.
var ErrKeyNotFound = clarityerr.ErrKeyNotFound
