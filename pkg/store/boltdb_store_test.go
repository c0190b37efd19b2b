package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func newBoltDBForTesting(t *testing.T) *BoltDBStore {
	dir, err := os.MkdirTemp("", "claritydb-bolt")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })

	db, err := NewBoltDBStore(BoltDBOptions{FilePath: filepath.Join(dir, "test.db")})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestBoltDBStorePutGet(t *testing.T) {
	db := newBoltDBForTesting(t)
	require.NoError(t, db.Put([]byte("k"), []byte("v")))
	v, err := db.Get([]byte("k"))
	require.NoError(t, err)
	require.Equal(t, []byte("v"), v)
}

func TestBoltDBStoreGetNonExistent(t *testing.T) {
	db := newBoltDBForTesting(t)
	_, err := db.Get([]byte("missing"))
	require.ErrorIs(t, err, ErrKeyNotFound)
}

func TestBoltDBStoreSeek(t *testing.T) {
	db := newBoltDBForTesting(t)
	require.NoError(t, db.Put([]byte("a/1"), []byte("1")))
	require.NoError(t, db.Put([]byte("a/2"), []byte("2")))
	require.NoError(t, db.Put([]byte("b/1"), []byte("x")))

	var got []string
	db.Seek([]byte("a/"), func(k, v []byte) bool {
		got = append(got, string(k))
		return true
	})
	require.Equal(t, []string{"a/1", "a/2"}, got)
}
