package dictof

// EntryOf is a key-value pair stored in a DictOf.
type EntryOf[K Hashable[K], V any] struct {
	Key   K
	Value V
}

// chain holds the entries of one bucket, head first.
type chain[K Hashable[K], V any] []EntryOf[K, V]

// find returns the position of the first entry whose key equals key,
// or -1 when the chain holds no such entry.
func (c chain[K, V]) find(key K) int {
	for i := range c {
		if c[i].Key.Equal(key) {
			return i
		}
	}
	return -1
}

// push appends an entry at the tail of the chain.
func (c chain[K, V]) push(key K, value V) chain[K, V] {
	return append(c, EntryOf[K, V]{Key: key, Value: value})
}
