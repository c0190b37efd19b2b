// Package claritydb implements the contract database: a thin typed layer
// over a generic store.Store providing nested begin/commit/roll_back framing,
// contract storage, and contract data-variable storage. Each Begin pushes a
// fresh write-buffering overlay over the current view; Commit persists one
// overlay into its parent (or, at the outermost frame, through to the
// backing store), and RollBack discards it.
package claritydb

import (
	"sync"

	"go.uber.org/zap"

	"github.com/clarity-vm/context/pkg/clarity"
	"github.com/clarity-vm/context/pkg/clarityerr"
	"github.com/clarity-vm/context/pkg/contractctx"
	"github.com/clarity-vm/context/pkg/store"
)

const (
	contractKeyPrefix = "contract:"
	variableKeyPrefix = "var:"
)

// Database is a store.Store-backed, nested-transaction key-value database
// with first-class contract storage.
type Database struct {
	mu sync.Mutex

	baseStore store.Store
	rootKV    *store.MemCachedStore // persistent view, always wraps baseStore
	kv        []*store.MemCachedStore

	committed map[clarity.ContractName]*contractctx.StoredContract
	contracts []map[clarity.ContractName]*contractctx.StoredContract

	cache  *contractctx.Cache
	logger *zap.SugaredLogger
}

// New wraps s in a Database with no open frames.
func New(s store.Store, logger *zap.SugaredLogger) *Database {
	return &Database{
		baseStore: s,
		rootKV:    store.NewMemCachedStore(s),
		committed: make(map[clarity.ContractName]*contractctx.StoredContract),
		cache:     contractctx.NewCache(),
		logger:    logger,
	}
}

// MemoryDB returns a Database over a fresh in-memory store, the factory used
// throughout tests.
func MemoryDB() *Database {
	return New(store.NewMemoryStore(), nil)
}

func (d *Database) logf(format string, args ...interface{}) {
	if d.logger != nil {
		d.logger.Debugf(format, args...)
	}
}

func (d *Database) currentKV() *store.MemCachedStore {
	if len(d.kv) == 0 {
		return d.rootKV
	}
	return d.kv[len(d.kv)-1]
}

// Begin opens a new nested frame: a fresh MemCachedStore layer over the
// current view, and a fresh contract overlay map.
func (d *Database) Begin() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.kv = append(d.kv, store.NewMemCachedStore(d.currentKV()))
	d.contracts = append(d.contracts, make(map[clarity.ContractName]*contractctx.StoredContract))
	d.logf("db: begin, depth=%d", len(d.kv))
}

// Commit closes the innermost open frame, merging its writes into the
// parent view (or, if this was the outermost frame, flushing through to the
// real backing store for durability).
func (d *Database) Commit() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.kv) == 0 {
		clarityerr.Fatal("claritydb: commit with no open frame")
	}
	topKV := d.kv[len(d.kv)-1]
	d.kv = d.kv[:len(d.kv)-1]
	topContracts := d.contracts[len(d.contracts)-1]
	d.contracts = d.contracts[:len(d.contracts)-1]

	if _, err := topKV.Persist(); err != nil {
		return err
	}

	dst := d.committed
	atTopLevel := len(d.contracts) == 0
	if !atTopLevel {
		dst = d.contracts[len(d.contracts)-1]
	}
	for name, sc := range topContracts {
		dst[name] = sc
		// Only warm the cache once a contract has bubbled all the way to
		// the outermost frame — caching it while merged into a still-open
		// parent would survive that parent's later RollBack, since the
		// cache has no notion of transactional nesting.
		if atTopLevel {
			d.cache.Put(name, sc)
		}
	}

	if len(d.kv) == 0 {
		if _, err := d.rootKV.Persist(); err != nil {
			return err
		}
	}
	d.logf("db: commit, depth=%d", len(d.kv))
	return nil
}

// RollBack discards the innermost open frame's writes entirely.
func (d *Database) RollBack() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.kv) == 0 {
		clarityerr.Fatal("claritydb: roll_back with no open frame")
	}
	d.kv = d.kv[:len(d.kv)-1]
	d.contracts = d.contracts[:len(d.contracts)-1]
	d.logf("db: roll_back, depth=%d", len(d.kv))
}

// GetContract looks up name, searching open frame overlays from innermost
// to outermost, then the committed state, then the warm cache.
func (d *Database) GetContract(name clarity.ContractName) (*contractctx.StoredContract, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i := len(d.contracts) - 1; i >= 0; i-- {
		if sc, ok := d.contracts[i][name]; ok {
			return sc, nil
		}
	}
	if sc, ok := d.committed[name]; ok {
		return sc, nil
	}
	if sc, ok := d.cache.Get(name); ok {
		return sc, nil
	}
	return nil, clarityerr.ErrContractNotFound
}

// InsertContract stores sc, writing it into the innermost open frame's
// overlay if one is open (so it respects the surrounding
// begin/commit/roll_back bracket), or directly into committed state
// otherwise. It also persists the contract's name and source text through
// the byte-level Store stack, so the source (though not the in-process
// DefinedFunction closures it was built from) survives a process restart
// against a durable backend.
func (d *Database) InsertContract(name clarity.ContractName, sc *contractctx.StoredContract) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.currentKV().Put(contractSourceKey(name), []byte(sc.Source)); err != nil {
		return err
	}

	if len(d.contracts) > 0 {
		d.contracts[len(d.contracts)-1][name] = sc
	} else {
		d.committed[name] = sc
	}
	d.cache.Invalidate(name)
	return nil
}

// SetVariable writes a contract data variable through the current frame's
// overlay, so the write commits or rolls back with the surrounding frame.
func (d *Database) SetVariable(contract clarity.ContractName, name clarity.ClarityName, v clarity.Value) error {
	raw, err := clarity.Serialize(v)
	if err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.currentKV().Put(variableKey(contract, name), raw)
}

// GetVariable reads a contract data variable through the current frame's
// view (innermost overlay first, then its parents, then the backing store).
// Returns ErrKeyNotFound if the variable has never been set.
func (d *Database) GetVariable(contract clarity.ContractName, name clarity.ClarityName) (clarity.Value, error) {
	d.mu.Lock()
	raw, err := d.currentKV().Get(variableKey(contract, name))
	d.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return clarity.Deserialize(raw)
}

func contractSourceKey(name clarity.ContractName) []byte {
	return []byte(contractKeyPrefix + string(name))
}

func variableKey(contract clarity.ContractName, name clarity.ClarityName) []byte {
	return []byte(variableKeyPrefix + string(contract) + ":" + string(name))
}
