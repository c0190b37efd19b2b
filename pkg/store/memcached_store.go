package store

import (
	"sort"
	"sync"
)

type memEntry struct {
	value   []byte
	deleted bool
}

// MemCachedStore wraps any Store with an in-memory write buffer, persisting
// into the wrapped Store only on Persist. Layers nest: wrapping one
// MemCachedStore in another gives one transaction frame per layer, which is
// how the contract database implements nested begin/commit/roll_back.
type MemCachedStore struct {
	mu      sync.Mutex
	lower   Store
	pending map[string]*memEntry
}

// NewMemCachedStore wraps lower with a fresh, empty write buffer.
func NewMemCachedStore(lower Store) *MemCachedStore {
	return &MemCachedStore{
		lower:   lower,
		pending: make(map[string]*memEntry),
	}
}

func (s *MemCachedStore) Get(key []byte) ([]byte, error) {
	s.mu.Lock()
	e, ok := s.pending[string(key)]
	s.mu.Unlock()
	if ok {
		if e.deleted {
			return nil, ErrKeyNotFound
		}
		out := make([]byte, len(e.value))
		copy(out, e.value)
		return out, nil
	}
	return s.lower.Get(key)
}

func (s *MemCachedStore) Put(key, value []byte) error {
	cp := make([]byte, len(value))
	copy(cp, value)
	s.mu.Lock()
	s.pending[string(key)] = &memEntry{value: cp}
	s.mu.Unlock()
	return nil
}

func (s *MemCachedStore) Delete(key []byte) error {
	s.mu.Lock()
	s.pending[string(key)] = &memEntry{deleted: true}
	s.mu.Unlock()
	return nil
}

// Seek merges the pending overlay with the lower store in ascending key
// order, letting pending entries (including tombstones) shadow the lower
// store's values.
func (s *MemCachedStore) Seek(prefix []byte, fn func(k, v []byte) bool) {
	s.mu.Lock()
	seen := make(map[string]bool, len(s.pending))
	type kv struct {
		k, v []byte
	}
	var pendingHits []kv
	for k, e := range s.pending {
		if len(k) >= len(prefix) && k[:len(prefix)] == string(prefix) {
			seen[k] = true
			if !e.deleted {
				pendingHits = append(pendingHits, kv{[]byte(k), e.value})
			}
		}
	}
	s.mu.Unlock()
	sort.Slice(pendingHits, func(i, j int) bool {
		return string(pendingHits[i].k) < string(pendingHits[j].k)
	})

	i := 0
	stopped := false
	s.lower.Seek(prefix, func(k, v []byte) bool {
		if seen[string(k)] {
			return true // shadowed by a pending value or tombstone
		}
		for i < len(pendingHits) && string(pendingHits[i].k) < string(k) {
			if !fn(pendingHits[i].k, pendingHits[i].v) {
				stopped = true
				return false
			}
			i++
		}
		if !fn(k, v) {
			stopped = true
			return false
		}
		return true
	})
	if stopped {
		return
	}
	for ; i < len(pendingHits); i++ {
		if !fn(pendingHits[i].k, pendingHits[i].v) {
			return
		}
	}
}

// Persist flushes every pending write (and tombstone) into the wrapped
// lower store and clears the overlay, returning the number of keys
// written or deleted.
func (s *MemCachedStore) Persist() (int, error) {
	s.mu.Lock()
	pending := s.pending
	s.pending = make(map[string]*memEntry)
	s.mu.Unlock()

	n := 0
	for k, e := range pending {
		var err error
		if e.deleted {
			err = s.lower.Delete([]byte(k))
		} else {
			err = s.lower.Put([]byte(k), e.value)
		}
		if err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// Discard drops every pending write without touching the lower store —
// the overlay-layer equivalent of GlobalContext.RollBack.
func (s *MemCachedStore) Discard() {
	s.mu.Lock()
	s.pending = make(map[string]*memEntry)
	s.mu.Unlock()
}

func (s *MemCachedStore) Close() error {
	return s.lower.Close()
}
