package store

import (
	"bytes"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// LevelDBOptions configures LevelDBStore.
type LevelDBOptions struct {
	DataDirectoryPath string
}

// LevelDBStore is a durable Store backed by
// github.com/syndtr/goleveldb/leveldb.
type LevelDBStore struct {
	db *leveldb.DB
}

// NewLevelDBStore opens (creating if absent) a LevelDB database at the
// configured path.
func NewLevelDBStore(opts LevelDBOptions) (*LevelDBStore, error) {
	db, err := leveldb.OpenFile(opts.DataDirectoryPath, nil)
	if err != nil {
		return nil, err
	}
	return &LevelDBStore{db: db}, nil
}

func (s *LevelDBStore) Get(key []byte) ([]byte, error) {
	v, err := s.db.Get(key, nil)
	if err == leveldb.ErrNotFound {
		return nil, ErrKeyNotFound
	}
	return v, err
}

func (s *LevelDBStore) Put(key, value []byte) error {
	return s.db.Put(key, value, nil)
}

func (s *LevelDBStore) Delete(key []byte) error {
	return s.db.Delete(key, nil)
}

func (s *LevelDBStore) Seek(prefix []byte, fn func(k, v []byte) bool) {
	iter := s.db.NewIterator(util.BytesPrefix(prefix), nil)
	defer iter.Release()
	for iter.Next() {
		k := bytes.Clone(iter.Key())
		v := bytes.Clone(iter.Value())
		if !fn(k, v) {
			break
		}
	}
}

func (s *LevelDBStore) Close() error {
	return s.db.Close()
}
