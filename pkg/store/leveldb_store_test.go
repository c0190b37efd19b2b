package store

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func newLevelDBForTesting(t *testing.T) *LevelDBStore {
	dir, err := os.MkdirTemp("", "claritydb-leveldb")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })

	db, err := NewLevelDBStore(LevelDBOptions{DataDirectoryPath: dir})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestLevelDBStorePutGet(t *testing.T) {
	db := newLevelDBForTesting(t)
	require.NoError(t, db.Put([]byte("k"), []byte("v")))
	v, err := db.Get([]byte("k"))
	require.NoError(t, err)
	require.Equal(t, []byte("v"), v)
}

func TestLevelDBStoreGetNonExistent(t *testing.T) {
	db := newLevelDBForTesting(t)
	_, err := db.Get([]byte("missing"))
	require.ErrorIs(t, err, ErrKeyNotFound)
}

func TestLevelDBStoreSeek(t *testing.T) {
	db := newLevelDBForTesting(t)
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
