package index

import (
	"bytes"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ownkv/ownkv-go/identity"
)

// runIndexTests exercises the Index contract against a backend
// constructor. Both backends must satisfy every property here.
func runIndexTests(t *testing.T, newIndex func(t *testing.T) Index) {
	t.Run("PutGet", func(t *testing.T) {
		idx := newIndex(t)
		owner := identity.Generate().PublicKey()

		require.NoError(t, idx.Put(owner, "test/data.txt", []byte("hello")))

		v, ok, err := idx.Get(owner, "test/data.txt")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, []byte("hello"), v)
	})

	t.Run("GetAbsent", func(t *testing.T) {
		idx := newIndex(t)
		owner := identity.Generate().PublicKey()

		v, ok, err := idx.Get(owner, "missing")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Empty(t, v)
	})

	t.Run("EmptyValue", func(t *testing.T) {
		idx := newIndex(t)
		owner := identity.Generate().PublicKey()

		require.NoError(t, idx.Put(owner, "empty", nil))

		v, ok, err := idx.Get(owner, "empty")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Empty(t, v)
	})

	t.Run("EmptyPath", func(t *testing.T) {
		idx := newIndex(t)
		owner := identity.Generate().PublicKey()

		require.NoError(t, idx.Put(owner, "", []byte("root")))

		v, ok, err := idx.Get(owner, "")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, []byte("root"), v)
	})

	t.Run("Overwrite", func(t *testing.T) {
		idx := newIndex(t)
		owner := identity.Generate().PublicKey()

		require.NoError(t, idx.Put(owner, "p", []byte("v1")))
		require.NoError(t, idx.Put(owner, "p", []byte("v2")))

		v, ok, err := idx.Get(owner, "p")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, []byte("v2"), v)
	})

	t.Run("DeleteIdempotent", func(t *testing.T) {
		idx := newIndex(t)
		owner := identity.Generate().PublicKey()

		require.NoError(t, idx.Put(owner, "p", []byte("v")))

		removed, err := idx.Delete(owner, "p")
		require.NoError(t, err)
		assert.True(t, removed)

		removed, err = idx.Delete(owner, "p")
		require.NoError(t, err)
		assert.False(t, removed)

		_, ok, err := idx.Get(owner, "p")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("DeleteAbsent", func(t *testing.T) {
		idx := newIndex(t)
		owner := identity.Generate().PublicKey()

		removed, err := idx.Delete(owner, "never-existed")
		require.NoError(t, err)
		assert.False(t, removed)
	})

	t.Run("ListPrefix", func(t *testing.T) {
		idx := newIndex(t)
		owner := identity.Generate().PublicKey()

		require.NoError(t, idx.Put(owner, "app/a", []byte{1}))
		require.NoError(t, idx.Put(owner, "app/b", []byte{2}))
		require.NoError(t, idx.Put(owner, "other/c", []byte{3}))

		paths, err := idx.List(owner, "app/")
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"app/a", "app/b"}, paths)
	})

	t.Run("ListNotHierarchical", func(t *testing.T) {
		idx := newIndex(t)
		owner := identity.Generate().PublicKey()

		// A plain byte-wise prefix scan: "a/" matches nested paths and
		// paths that merely extend the prefix text.
		require.NoError(t, idx.Put(owner, "a/b", nil))
		require.NoError(t, idx.Put(owner, "a/bc", nil))
		require.NoError(t, idx.Put(owner, "a/b/c/d", nil))
		require.NoError(t, idx.Put(owner, "b/a", nil))

		paths, err := idx.List(owner, "a/")
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"a/b", "a/bc", "a/b/c/d"}, paths)
	})

	t.Run("ListEmptyPrefix", func(t *testing.T) {
		idx := newIndex(t)
		owner := identity.Generate().PublicKey()

		require.NoError(t, idx.Put(owner, "x", nil))
		require.NoError(t, idx.Put(owner, "y", nil))

		paths, err := idx.List(owner, "")
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"x", "y"}, paths)
	})

	t.Run("ListNoMatches", func(t *testing.T) {
		idx := newIndex(t)
		owner := identity.Generate().PublicKey()

		paths, err := idx.List(owner, "anything/")
		require.NoError(t, err)
		assert.Empty(t, paths)
	})

	t.Run("OwnerIsolation", func(t *testing.T) {
		idx := newIndex(t)
		ownerA := identity.Generate().PublicKey()
		ownerB := identity.Generate().PublicKey()

		require.NoError(t, idx.Put(ownerA, "p", []byte("a-data")))

		_, ok, err := idx.Get(ownerB, "p")
		require.NoError(t, err)
		assert.False(t, ok)

		paths, err := idx.List(ownerB, "")
		require.NoError(t, err)
		assert.Empty(t, paths)
	})

	t.Run("ConcurrentPuts", func(t *testing.T) {
		idx := newIndex(t)
		owner := identity.Generate().PublicKey()

		const n = 64
		var wg sync.WaitGroup
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				path := fmt.Sprintf("concurrent/%d", i)
				assert.NoError(t, idx.Put(owner, path, []byte(path)))
			}(i)
		}
		wg.Wait()

		for i := 0; i < n; i++ {
			path := fmt.Sprintf("concurrent/%d", i)
			v, ok, err := idx.Get(owner, path)
			require.NoError(t, err)
			require.True(t, ok, "lost update for %s", path)
			assert.Equal(t, []byte(path), v)
		}
	})

	t.Run("ConcurrentPutDelete", func(t *testing.T) {
		idx := newIndex(t)
		owner := identity.Generate().PublicKey()
		payload := bytes.Repeat([]byte{0xAB}, 64)

		var wg sync.WaitGroup
		for i := 0; i < 32; i++ {
			wg.Add(2)
			go func() {
				defer wg.Done()
				assert.NoError(t, idx.Put(owner, "contended", payload))
			}()
			go func() {
				defer wg.Done()
				_, err := idx.Delete(owner, "contended")
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		// Whatever interleaving won, the entry is either absent or intact.
		v, ok, err := idx.Get(owner, "contended")
		require.NoError(t, err)
		if ok {
			assert.Equal(t, payload, v)
		}
	})
}
