package dictof

import (
	"runtime"
	"sync"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

func TestSyncDictOf_StructSize(t *testing.T) {
	size := unsafe.Sizeof(SyncDictOf[String, int]{})
	t.Log("SyncDictOf size:", size)
	require.Zero(t, size%CacheLineSize, "SyncDictOf doesn't meet CacheLineSize")
}

func TestSyncDictOf_BasicOperations(t *testing.T) {
	var m SyncDictOf[String, int]
	require.True(t, m.IsZero())
	_, ok, err := m.TryGet("a")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, m.Add("a", 1))
	require.ErrorIs(t, m.Add("a", 2), ErrDuplicateKey)
	require.NoError(t, m.Set("a", 3))
	v, err := m.Get("a")
	require.NoError(t, err)
	require.Equal(t, 3, v)

	found, err := m.ContainsKey("a")
	require.NoError(t, err)
	require.True(t, found)
	_, err = m.Get("b")
	require.ErrorIs(t, err, ErrKeyNotFound)

	require.Equal(t, 1, m.Size())
	require.Equal(t, "DictOf[a:3]", m.String())
	m.Clear()
	require.True(t, m.IsZero())
}

func TestSyncDictOf_NilKey(t *testing.T) {
	m := NewSyncDictOf[*ptrKey, int]()
	require.ErrorIs(t, m.Set(nil, 1), ErrInvalidKey)
	var zero SyncDictOf[*ptrKey, int]
	_, _, err := zero.TryGet(nil)
	require.ErrorIs(t, err, ErrInvalidKey)
}

func TestSyncDictOf_ConcurrentCompute(t *testing.T) {
	const keys = 1000
	m := NewSyncDictOf[Int, int]()
	workers := max(2, runtime.GOMAXPROCS(0))

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := 0; i < keys; i++ {
				_, err := m.Compute(Int(i), func(old int, _ bool) int { return old + 1 })
				if err != nil {
					t.Error(err)
					return
				}
			}
		}()
	}
	wg.Wait()

	require.Equal(t, keys, m.Size())
	for k, v := range m.All() {
		require.Equal(t, workers, v, "key %d", k)
	}
	require.Greater(t, m.Stats().TotalGrowths, uint32(0))
}

func TestSyncDictOf_ConcurrentReadersAndWriters(t *testing.T) {
	m := NewSyncDictOf[Int, int]()
	n := runtime.GOMAXPROCS(0)
	var wg sync.WaitGroup
	wg.Add(n * 2)
	for g := 0; g < n; g++ {
		go func(base int) {
			defer wg.Done()
			for i := 0; i < 2000; i++ {
				_ = m.Set(Int(base*10000+i), i)
			}
		}(g)
		go func(base int) {
			defer wg.Done()
			for i := 0; i < 2000; i++ {
				if v, ok, _ := m.TryGet(Int(base*10000 + i)); ok && v != i {
					t.Errorf("key %d: got %d", base*10000+i, v)
					return
				}
			}
		}(g)
	}
	wg.Wait()
	require.Equal(t, n*2000, m.Size())
}

func TestSyncDictOf_IterateWhileWriting(t *testing.T) {
	m := NewSyncDictOf[Int, int]()
	for i := 0; i < 10; i++ {
		require.NoError(t, m.Add(Int(i), i))
	}
	// yield runs outside the lock, so writes from it must not deadlock.
	for k, v := range m.All() {
		require.NoError(t, m.Set(k+100, v))
	}
	require.Equal(t, 20, m.Size())

	var keys, values int
	for range m.Keys() {
		keys++
	}
	for range m.Values() {
		values++
	}
	require.Equal(t, 20, keys)
	require.Equal(t, 20, values)
}
