package contractctx

import (
	lru "github.com/hashicorp/golang-lru"

	"github.com/clarity-vm/context/pkg/clarity"
)

// DefaultCacheSize bounds the number of StoredContracts kept warm in front
// of the database.
const DefaultCacheSize = 256

// Cache is a small LRU of contracts committed at top level.
// claritydb.Database.GetContract consults it last, after the open frame
// overlays and the committed contract map.
type Cache struct {
	lru *lru.Cache
}

// NewCache builds a Cache with the default capacity.
func NewCache() *Cache {
	c, err := lru.New(DefaultCacheSize)
	if err != nil {
		// Only returns an error for a non-positive size, which
		// DefaultCacheSize never is.
		panic(err)
	}
	return &Cache{lru: c}
}

// Get returns the cached StoredContract for name, if present.
func (c *Cache) Get(name clarity.ContractName) (*StoredContract, bool) {
	v, ok := c.lru.Get(name)
	if !ok {
		return nil, false
	}
	return v.(*StoredContract), true
}

// Put inserts or refreshes the cached entry for name.
func (c *Cache) Put(name clarity.ContractName, sc *StoredContract) {
	c.lru.Add(name, sc)
}

// Invalidate drops name from the cache, used after InsertContract so stale
// reads cannot follow a contract update within the same process.
func (c *Cache) Invalidate(name clarity.ContractName) {
	c.lru.Remove(name)
}
