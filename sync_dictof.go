package dictof

import (
	"iter"
	"sync"
	"unsafe"
)

// SyncDictOf is a DictOf guarded by a read-write mutex, for callers that
// share one table between goroutines.
//
// Writers (Add, Set, Compute, Clear) hold the write lock, so a resize
// triggered by an insertion is never observed half done. Lookups hold the
// read lock. The iterators copy the entries under the read lock and yield
// from the copy, so yield may call back into the SyncDictOf.
//
// The zero value is ready to use. A SyncDictOf must not be copied after
// first use.
type SyncDictOf[K Hashable[K], V any] struct {
	//lint:ignore U1000 prevents false sharing
	pad [(CacheLineSize - unsafe.Sizeof(struct {
		mu   sync.RWMutex
		dict unsafe.Pointer
	}{})%CacheLineSize) % CacheLineSize]byte

	mu   sync.RWMutex
	dict *DictOf[K, V]
}

// NewSyncDictOf creates a SyncDictOf whose underlying DictOf is configured
// with options.
func NewSyncDictOf[K Hashable[K], V any](
	options ...func(*DictConfig),
) *SyncDictOf[K, V] {
	return &SyncDictOf[K, V]{dict: NewDictOf[K, V](options...)}
}

// writable returns the underlying DictOf, creating it on first use.
// Callers must hold the write lock.
func (s *SyncDictOf[K, V]) writable() *DictOf[K, V] {
	if s.dict == nil {
		s.dict = NewDictOf[K, V]()
	}
	return s.dict
}

// readable returns the underlying DictOf, or an empty one if none exists yet.
// Callers must hold the read lock.
func (s *SyncDictOf[K, V]) readable() *DictOf[K, V] {
	if s.dict == nil {
		return &DictOf[K, V]{}
	}
	return s.dict
}

// Add inserts a new key-value pair, see DictOf.Add.
func (s *SyncDictOf[K, V]) Add(key K, value V) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writable().Add(key, value)
}

// Set stores or replaces the value under key, see DictOf.Set.
func (s *SyncDictOf[K, V]) Set(key K, value V) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writable().Set(key, value)
}

// Compute atomically replaces the value under key with fn(old, loaded).
// fn runs with the write lock held and must not call back into s.
func (s *SyncDictOf[K, V]) Compute(
	key K,
	fn func(old V, loaded bool) V,
) (V, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writable().Compute(key, fn)
}

// TryGet returns the value stored under key and whether it was found.
func (s *SyncDictOf[K, V]) TryGet(key K) (V, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.readable().TryGet(key)
}

// Get returns the value stored under key, or ErrKeyNotFound.
func (s *SyncDictOf[K, V]) Get(key K) (V, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.readable().Get(key)
}

// ContainsKey reports whether an equal key is stored.
func (s *SyncDictOf[K, V]) ContainsKey(key K) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.readable().ContainsKey(key)
}

// Size returns the number of distinct keys stored.
func (s *SyncDictOf[K, V]) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.readable().Size()
}

// IsZero reports whether the SyncDictOf is empty.
func (s *SyncDictOf[K, V]) IsZero() bool {
	return s.Size() == 0
}

// Clear removes all entries.
func (s *SyncDictOf[K, V]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writable().Clear()
}

// Stats returns statistics for the underlying DictOf.
func (s *SyncDictOf[K, V]) Stats() *DictStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.readable().Stats()
}

func (s *SyncDictOf[K, V]) snapshot() []EntryOf[K, V] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d := s.readable()
	entries := make([]EntryOf[K, V], 0, d.Size())
	d.RangeEntry(func(e *EntryOf[K, V]) bool {
		entries = append(entries, *e)
		return true
	})
	return entries
}

// Range calls yield for each key-value pair of a snapshot taken when Range
// starts, until yield returns false.
func (s *SyncDictOf[K, V]) Range(yield func(key K, value V) bool) {
	for _, e := range s.snapshot() {
		if !yield(e.Key, e.Value) {
			return
		}
	}
}

// All returns an iterator over a snapshot of all key-value pairs.
func (s *SyncDictOf[K, V]) All() iter.Seq2[K, V] {
	return s.Range
}

// Keys returns an iterator over a snapshot of all keys.
func (s *SyncDictOf[K, V]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		for _, e := range s.snapshot() {
			if !yield(e.Key) {
				return
			}
		}
	}
}

// Values returns an iterator over a snapshot of all values.
func (s *SyncDictOf[K, V]) Values() iter.Seq[V] {
	return func(yield func(V) bool) {
		for _, e := range s.snapshot() {
			if !yield(e.Value) {
				return
			}
		}
	}
}

// String implement the formatting output interface fmt.Stringer
func (s *SyncDictOf[K, V]) String() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.readable().String()
}
