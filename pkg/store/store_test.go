package store

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/clarity-vm/context/internal/random"
)

func TestMemoryStoreGetNonExistent(t *testing.T) {
	s := NewMemoryStore()
	_, err := s.Get([]byte("missing"))
	require.ErrorIs(t, err, ErrKeyNotFound)
}

func TestMemoryStorePutGetDelete(t *testing.T) {
	s := NewMemoryStore()
	require.NoError(t, s.Put([]byte("k"), []byte("v")))
	v, err := s.Get([]byte("k"))
	require.NoError(t, err)
	require.Equal(t, []byte("v"), v)

	require.NoError(t, s.Delete([]byte("k")))
	_, err = s.Get([]byte("k"))
	require.ErrorIs(t, err, ErrKeyNotFound)
}

func TestMemoryStoreSeekPrefixOrder(t *testing.T) {
	s := NewMemoryStore()
	require.NoError(t, s.Put([]byte("a/2"), []byte("2")))
	require.NoError(t, s.Put([]byte("a/1"), []byte("1")))
	require.NoError(t, s.Put([]byte("b/1"), []byte("x")))

	var got []string
	s.Seek([]byte("a/"), func(k, v []byte) bool {
		got = append(got, string(k))
		return true
	})
	require.Equal(t, []string{"a/1", "a/2"}, got)
}

func TestMemCachedStoreOverlayShadowsLower(t *testing.T) {
	lower := NewMemoryStore()
	require.NoError(t, lower.Put([]byte("k"), []byte("base")))

	cached := NewMemCachedStore(lower)
	v, err := cached.Get([]byte("k"))
	require.NoError(t, err)
	require.Equal(t, []byte("base"), v)

	require.NoError(t, cached.Put([]byte("k"), []byte("overlay")))
	v, err = cached.Get([]byte("k"))
	require.NoError(t, err)
	require.Equal(t, []byte("overlay"), v)

	// Lower store is untouched until Persist.
	v, err = lower.Get([]byte("k"))
	require.NoError(t, err)
	require.Equal(t, []byte("base"), v)
}

func TestMemCachedStorePersist(t *testing.T) {
	lower := NewMemoryStore()
	cached := NewMemCachedStore(lower)
	require.NoError(t, cached.Put([]byte("k"), []byte("v")))

	n, err := cached.Persist()
	require.NoError(t, err)
	require.Equal(t, 1, n)

	v, err := lower.Get([]byte("k"))
	require.NoError(t, err)
	require.Equal(t, []byte("v"), v)
}

func TestMemCachedStoreSeekMergedOrder(t *testing.T) {
	lower := NewMemoryStore()
	require.NoError(t, lower.Put([]byte("a/1"), []byte("lower")))
	require.NoError(t, lower.Put([]byte("a/3"), []byte("lower")))
	cached := NewMemCachedStore(lower)
	require.NoError(t, cached.Put([]byte("a/2"), []byte("overlay")))
	require.NoError(t, cached.Put([]byte("a/4"), []byte("overlay")))

	var got []string
	cached.Seek([]byte("a/"), func(k, v []byte) bool {
		got = append(got, string(k))
		return true
	})
	require.Equal(t, []string{"a/1", "a/2", "a/3", "a/4"}, got)
}

func TestMemCachedStorePersistManyKeys(t *testing.T) {
	lower := NewMemoryStore()
	cached := NewMemCachedStore(lower)

	keys := make([][]byte, 20)
	for i := range keys {
		keys[i] = random.Bytes(16)
		require.NoError(t, cached.Put(keys[i], random.Bytes(32)))
	}

	n, err := cached.Persist()
	require.NoError(t, err)
	require.Equal(t, len(keys), n)
	for _, k := range keys {
		_, err := lower.Get(k)
		require.NoError(t, err)
	}
}

func TestMemCachedStoreDiscard(t *testing.T) {
	lower := NewMemoryStore()
	require.NoError(t, lower.Put([]byte("k"), []byte("base")))
	cached := NewMemCachedStore(lower)
	require.NoError(t, cached.Put([]byte("k"), []byte("overlay")))
	require.NoError(t, cached.Delete([]byte("other")))

	cached.Discard()

	v, err := cached.Get([]byte("k"))
	require.NoError(t, err)
	require.Equal(t, []byte("base"), v)
}

func TestMemCachedStoreNestedLayers(t *testing.T) {
	lower := NewMemoryStore()
	layer1 := NewMemCachedStore(lower)
	require.NoError(t, layer1.Put([]byte("k"), []byte("v1")))

	layer2 := NewMemCachedStore(layer1)
	v, err := layer2.Get([]byte("k"))
	require.NoError(t, err)
	require.Equal(t, []byte("v1"), v)

	require.NoError(t, layer2.Put([]byte("k"), []byte("v2")))
	n, err := layer2.Persist()
	require.NoError(t, err)
	require.Equal(t, 1, n)

	v, err = layer1.Get([]byte("k"))
	require.NoError(t, err)
	require.Equal(t, []byte("v2"), v)

	_, err = lower.Get([]byte("k"))
	require.ErrorIs(t, err, ErrKeyNotFound)
}

func TestMemCachedStoreDeleteShadowsLower(t *testing.T) {
	lower := NewMemoryStore()
	require.NoError(t, lower.Put([]byte("k"), []byte("base")))
	cached := NewMemCachedStore(lower)
	require.NoError(t, cached.Delete([]byte("k")))

	_, err := cached.Get([]byte("k"))
	require.ErrorIs(t, err, ErrKeyNotFound)

	var got []string
	cached.Seek([]byte("k"), func(k, v []byte) bool {
		got = append(got, string(k))
		return true
	})
	require.Empty(t, got)
}
