package store

import (
	"bytes"

	bolt "go.etcd.io/bbolt"
)

// BoltDBOptions configures BoltDBStore.
type BoltDBOptions struct {
	FilePath string
}

var bucket = []byte("clarity")

// BoltDBStore is a second durable Store backend, built on go.etcd.io/bbolt
// and selectable in place of LevelDBStore via config.StoreConfig.
type BoltDBStore struct {
	db *bolt.DB
}

// NewBoltDBStore opens (creating if absent) a BoltDB database at the
// configured path, with the single bucket this store uses already created.
func NewBoltDBStore(opts BoltDBOptions) (*BoltDBStore, error) {
	db, err := bolt.Open(opts.FilePath, 0600, nil)
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &BoltDBStore{db: db}, nil
}

func (s *BoltDBStore) Get(key []byte) ([]byte, error) {
	var out []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucket).Get(key)
		if v == nil {
			return ErrKeyNotFound
		}
		out = bytes.Clone(v)
		return nil
	})
	return out, err
}

func (s *BoltDBStore) Put(key, value []byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucket).Put(key, value)
	})
}

func (s *BoltDBStore) Delete(key []byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucket).Delete(key)
	})
}

func (s *BoltDBStore) Seek(prefix []byte, fn func(k, v []byte) bool) {
	_ = s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucket).Cursor()
		for k, v := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
			if !fn(bytes.Clone(k), bytes.Clone(v)) {
				break
			}
		}
		return nil
	})
}

func (s *BoltDBStore) Close() error {
	return s.db.Close()
}
