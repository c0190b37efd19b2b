// Package config holds the small configuration surface used to select and
// open a persistence backend and to build the diagnostic logger.
package config

import "github.com/clarity-vm/context/pkg/store"

// StoreType names which Store backend to open.
type StoreType string

const (
	// MemoryStoreType selects store.MemoryStore (no persistence).
	MemoryStoreType StoreType = "memory"
	// LevelDBStoreType selects store.LevelDBStore.
	LevelDBStoreType StoreType = "leveldb"
	// BoltDBStoreType selects store.BoltDBStore.
	BoltDBStoreType StoreType = "boltdb"
)

// StoreConfig selects and parameterizes one Store backend.
type StoreConfig struct {
	Type           StoreType
	LevelDBOptions store.LevelDBOptions
	BoltDBOptions  store.BoltDBOptions
}

// NewStore opens the Store backend named by cfg.Type.
func NewStore(cfg StoreConfig) (store.Store, error) {
	switch cfg.Type {
	case "", MemoryStoreType:
		return store.NewMemoryStore(), nil
	case LevelDBStoreType:
		return store.NewLevelDBStore(cfg.LevelDBOptions)
	case BoltDBStoreType:
		return store.NewBoltDBStore(cfg.BoltDBOptions)
	default:
		return nil, errUnknownStoreType(cfg.Type)
	}
}

type errUnknownStoreType StoreType

func (e errUnknownStoreType) Error() string {
	return "unknown store type: " + string(e)
}
