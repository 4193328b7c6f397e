package dictof

import (
	"encoding/json"
	"fmt"
	"iter"
	"math"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// DictOf is a generic dictionary built on a hash table with separate
// chaining. Keys supply their own hash code and equality through the
// Hashable interface; no hasher or comparer is injected.
//
// The bucket count always comes from a fixed ascending schedule of primes,
// starting at 5. When an insertion makes the entry count exceed the bucket
// count, the table is rebuilt at the next schedule size and every entry is
// moved once into its new bucket. The table never shrinks; once the schedule
// is exhausted, chains simply grow longer.
//
// Key features:
//   - Zero-value usability: a declared DictOf is ready to use
//   - Nil keys are rejected with ErrInvalidKey before any mutation
//   - Deterministic enumeration: bucket order, then chain order
//   - Iterator methods (All, Keys, Values) for range-over-func
//
// DictOf is not safe for concurrent use. Serialize access externally, or use
// SyncDictOf.
//
// A DictOf must not be copied after first use.
type DictOf[K Hashable[K], V any] struct {
	_ noCopy

	buckets      []chain[K, V]
	count        int
	sizeIndex    int
	schedule     []int
	totalGrowths uint32
	log          logrus.FieldLogger
}

// NewDictOf creates a new DictOf instance. Direct initialization is also
// supported.
//
// Parameters:
//   - WithPresize option for initial capacity
//   - WithLogger option for growth logging
func NewDictOf[K Hashable[K], V any](
	options ...func(*DictConfig),
) *DictOf[K, V] {
	d := &DictOf[K, V]{}
	d.Init(options...)
	return d
}

// DictConfig defines configurable DictOf options.
type DictConfig struct {
	sizeHint int
	logger   logrus.FieldLogger
	schedule []int
}

// WithPresize configures a new DictOf with enough buckets to hold sizeHint
// entries before its first resize. Zero or negative hints are ignored.
func WithPresize(sizeHint int) func(*DictConfig) {
	return func(c *DictConfig) {
		c.sizeHint = sizeHint
	}
}

// WithLogger sets the logger that receives table growth events at debug
// level. Defaults to the logrus standard logger.
func WithLogger(logger logrus.FieldLogger) func(*DictConfig) {
	return func(c *DictConfig) {
		c.logger = logger
	}
}

// withSchedule replaces the size schedule; it must be ascending and
// non-empty.
func withSchedule(sizes ...int) func(*DictConfig) {
	return func(c *DictConfig) {
		c.schedule = sizes
	}
}

// Init initializes the DictOf with the given options.
//
// Notes:
//   - Calling Init on a DictOf that already holds entries discards them.
//   - If Init is never called, the first write uses the default configuration.
func (d *DictOf[K, V]) Init(options ...func(*DictConfig)) {
	c := &DictConfig{}
	for _, o := range options {
		o(c)
	}

	d.schedule = sizeSchedule[:]
	if len(c.schedule) > 0 {
		d.schedule = c.schedule
	}
	d.log = c.logger
	if d.log == nil {
		d.log = logrus.StandardLogger()
	}
	d.sizeIndex = 0
	if c.sizeHint > 0 {
		d.sizeIndex = scheduleIndexFor(d.schedule, c.sizeHint)
	}
	d.buckets = make([]chain[K, V], d.schedule[d.sizeIndex])
	d.count = 0
	d.totalGrowths = 0
}

func (d *DictOf[K, V]) lazyInit() {
	if d.buckets == nil {
		d.Init()
	}
}

// locate returns the bucket of key and the key's position in that bucket's
// chain, or -1 if no equal key is stored.
func (d *DictOf[K, V]) locate(key K) (bidx, pos int) {
	if len(d.buckets) == 0 {
		return 0, -1
	}
	bidx = bucketIndex(key.Hash(), len(d.buckets))
	return bidx, d.buckets[bidx].find(key)
}

// insert adds a new entry to bucket bidx and grows the table if the entry
// count now exceeds the bucket count.
func (d *DictOf[K, V]) insert(bidx int, key K, value V) {
	d.buckets[bidx] = d.buckets[bidx].push(key, value)
	d.count++
	if d.count > len(d.buckets) && d.sizeIndex+1 < len(d.schedule) {
		d.grow()
	}
}

// grow rebuilds the table at the next schedule size. Entries are visited in
// bucket order, head to tail, and appended to their new chains, so entries
// that share a new bucket keep their previous relative order.
func (d *DictOf[K, V]) grow() {
	oldLen := len(d.buckets)
	d.sizeIndex++
	newLen := d.schedule[d.sizeIndex]
	buckets := make([]chain[K, V], newLen)
	for _, c := range d.buckets {
		for _, e := range c {
			i := bucketIndex(e.Key.Hash(), newLen)
			buckets[i] = append(buckets[i], e)
		}
	}
	d.buckets = buckets
	d.totalGrowths++
	d.log.WithFields(logrus.Fields{
		"from":  oldLen,
		"to":    newLen,
		"size":  d.count,
		"index": d.sizeIndex,
	}).Debug("dictof: table grown")
}

// Add inserts a new key-value pair. It fails with ErrDuplicateKey if an equal
// key is already stored, leaving the table unchanged.
func (d *DictOf[K, V]) Add(key K, value V) error {
	if isNilKey(key) {
		return errors.Wrap(ErrInvalidKey, "add")
	}
	d.lazyInit()
	bidx, pos := d.locate(key)
	if pos >= 0 {
		return errors.Wrapf(ErrDuplicateKey, "add %v", key)
	}
	d.insert(bidx, key, value)
	return nil
}

// Set stores value under key. An existing value is replaced in place without
// changing the entry count; otherwise Set behaves like Add.
func (d *DictOf[K, V]) Set(key K, value V) error {
	if isNilKey(key) {
		return errors.Wrap(ErrInvalidKey, "set")
	}
	d.lazyInit()
	bidx, pos := d.locate(key)
	if pos >= 0 {
		d.buckets[bidx][pos].Value = value
		return nil
	}
	d.insert(bidx, key, value)
	return nil
}

// TryGet returns the value stored under key and whether it was found.
// An absent key yields the zero value, false and a nil error.
func (d *DictOf[K, V]) TryGet(key K) (value V, ok bool, err error) {
	if isNilKey(key) {
		return value, false, errors.Wrap(ErrInvalidKey, "get")
	}
	bidx, pos := d.locate(key)
	if pos < 0 {
		return value, false, nil
	}
	return d.buckets[bidx][pos].Value, true, nil
}

// Get returns the value stored under key, or ErrKeyNotFound.
func (d *DictOf[K, V]) Get(key K) (V, error) {
	value, ok, err := d.TryGet(key)
	if err != nil {
		return value, err
	}
	if !ok {
		return value, errors.Wrapf(ErrKeyNotFound, "get %v", key)
	}
	return value, nil
}

// ContainsKey reports whether an equal key is stored.
func (d *DictOf[K, V]) ContainsKey(key K) (bool, error) {
	if isNilKey(key) {
		return false, errors.Wrap(ErrInvalidKey, "contains")
	}
	_, pos := d.locate(key)
	return pos >= 0, nil
}

// Compute stores fn(old, loaded) under key and returns it. old is the current
// value and loaded reports whether the key was present. A new key is inserted
// exactly as Add would.
//
// fn may modify d. The key is located again after fn returns, so the result
// lands in the right bucket even if fn grew the table or stored key itself.
func (d *DictOf[K, V]) Compute(
	key K,
	fn func(old V, loaded bool) V,
) (V, error) {
	if isNilKey(key) {
		var zero V
		return zero, errors.Wrap(ErrInvalidKey, "compute")
	}
	d.lazyInit()
	var old V
	bidx, pos := d.locate(key)
	loaded := pos >= 0
	if loaded {
		old = d.buckets[bidx][pos].Value
	}
	value := fn(old, loaded)

	bidx, pos = d.locate(key)
	if pos >= 0 {
		d.buckets[bidx][pos].Value = value
		return value, nil
	}
	d.insert(bidx, key, value)
	return value, nil
}

// Size returns the number of distinct keys stored. This is an O(1) operation.
func (d *DictOf[K, V]) Size() int {
	return d.count
}

// IsZero reports whether the DictOf is empty.
func (d *DictOf[K, V]) IsZero() bool {
	return d.count == 0
}

// BucketCount returns the current number of buckets.
func (d *DictOf[K, V]) BucketCount() int {
	if d.buckets == nil {
		return initialTableLen
	}
	return len(d.buckets)
}

// Clear removes all entries. The bucket count is kept, since the table never
// shrinks.
func (d *DictOf[K, V]) Clear() {
	clear(d.buckets)
	d.count = 0
}

// RangeEntry iterates over all entries in bucket order, then chain order.
//
// Notes:
//   - Never modify the Key or Value in an Entry under any circumstances.
//   - Writes to the DictOf during iteration may cause entries to be
//     skipped or visited twice.
func (d *DictOf[K, V]) RangeEntry(yield func(e *EntryOf[K, V]) bool) {
	buckets := d.buckets
	for i := range buckets {
		c := buckets[i]
		for j := range c {
			if !yield(&c[j]) {
				return
			}
		}
	}
}

// Range calls yield for each key-value pair until yield returns false.
func (d *DictOf[K, V]) Range(yield func(key K, value V) bool) {
	d.RangeEntry(func(e *EntryOf[K, V]) bool {
		return yield(e.Key, e.Value)
	})
}

// All returns a restartable iterator over all key-value pairs.
func (d *DictOf[K, V]) All() iter.Seq2[K, V] {
	return d.Range
}

// Keys returns a restartable iterator over all keys.
func (d *DictOf[K, V]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		d.RangeEntry(func(e *EntryOf[K, V]) bool {
			return yield(e.Key)
		})
	}
}

// Values returns a restartable iterator over all values.
func (d *DictOf[K, V]) Values() iter.Seq[V] {
	return func(yield func(V) bool) {
		d.RangeEntry(func(e *EntryOf[K, V]) bool {
			return yield(e.Value)
		})
	}
}

// String implement the formatting output interface fmt.Stringer
func (d *DictOf[K, V]) String() string {
	const limit = 1024
	var sb strings.Builder
	sb.WriteString("DictOf[")
	n := 0
	d.RangeEntry(func(e *EntryOf[K, V]) bool {
		if n > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%v:%v", e.Key, e.Value)
		n++
		return n < limit
	})
	sb.WriteByte(']')
	return sb.String()
}

var (
	jsonMarshal   func(v any) ([]byte, error)
	jsonUnmarshal func(data []byte, v any) error
)

// SetDefaultJSONMarshal sets the default JSON serialization and
// deserialization functions. If not set, the standard library is used.
func SetDefaultJSONMarshal(
	marshal func(v any) ([]byte, error),
	unmarshal func(data []byte, v any) error,
) {
	jsonMarshal, jsonUnmarshal = marshal, unmarshal
}

type jsonEntry[K, V any] struct {
	Key   K `json:"key"`
	Value V `json:"value"`
}

// MarshalJSON encodes the DictOf as an array of {"key", "value"} objects in
// enumeration order.
func (d *DictOf[K, V]) MarshalJSON() ([]byte, error) {
	a := make([]jsonEntry[K, V], 0, d.count)
	d.RangeEntry(func(e *EntryOf[K, V]) bool {
		a = append(a, jsonEntry[K, V]{Key: e.Key, Value: e.Value})
		return true
	})
	if jsonMarshal != nil {
		return jsonMarshal(a)
	}
	return json.Marshal(a)
}

// UnmarshalJSON decodes an array produced by MarshalJSON and stores every
// pair with Set semantics. Existing entries are kept. Every key is checked
// before the first pair is stored, so an invalid key leaves d unchanged.
func (d *DictOf[K, V]) UnmarshalJSON(data []byte) error {
	var a []jsonEntry[K, V]
	if jsonUnmarshal != nil {
		if err := jsonUnmarshal(data, &a); err != nil {
			return err
		}
	} else {
		if err := json.Unmarshal(data, &a); err != nil {
			return err
		}
	}
	for i, e := range a {
		if isNilKey(e.Key) {
			return errors.Wrapf(ErrInvalidKey, "unmarshal: entry %d", i)
		}
	}
	for _, e := range a {
		if err := d.Set(e.Key, e.Value); err != nil {
			return err
		}
	}
	return nil
}

// Stats returns statistics for the DictOf. It's an O(N) operation,
// so it should be used only for diagnostics or debugging purposes.
func (d *DictOf[K, V]) Stats() *DictStats {
	stats := &DictStats{
		Buckets:      d.BucketCount(),
		SizeIndex:    d.sizeIndex,
		Size:         d.count,
		TotalGrowths: d.totalGrowths,
		MinEntries:   math.MaxInt,
	}
	if d.buckets == nil {
		stats.EmptyBuckets = stats.Buckets
		stats.MinEntries = 0
		return stats
	}
	for _, c := range d.buckets {
		n := len(c)
		if n == 0 {
			stats.EmptyBuckets++
		}
		stats.MinEntries = min(stats.MinEntries, n)
		stats.MaxEntries = max(stats.MaxEntries, n)
	}
	stats.LoadFactor = float64(d.count) / float64(len(d.buckets))
	return stats
}

// DictStats is DictOf statistics.
//
// Warning: statistics are intended for diagnostics, not for production
// logic. Fields may change between minor releases.
type DictStats struct {
	// Buckets is the current bucket count, always a schedule entry.
	Buckets int `json:"buckets"`
	// SizeIndex is the position of Buckets in the size schedule.
	SizeIndex int `json:"size_index"`
	// EmptyBuckets is the number of buckets holding no entries.
	EmptyBuckets int `json:"empty_buckets"`
	// Size is the number of stored entries.
	Size int `json:"size"`
	// MinEntries is the length of the shortest chain.
	MinEntries int `json:"min_entries"`
	// MaxEntries is the length of the longest chain.
	MaxEntries int `json:"max_entries"`
	// LoadFactor is Size divided by Buckets.
	LoadFactor float64 `json:"load_factor"`
	// TotalGrowths is the number of times the table grew.
	TotalGrowths uint32 `json:"total_growths"`
}

// ToString returns string representation of dict stats.
func (s *DictStats) ToString() string {
	var sb strings.Builder
	sb.WriteString("DictStats{\n")
	sb.WriteString(fmt.Sprintf("Buckets:      %d\n", s.Buckets))
	sb.WriteString(fmt.Sprintf("SizeIndex:    %d\n", s.SizeIndex))
	sb.WriteString(fmt.Sprintf("EmptyBuckets: %d\n", s.EmptyBuckets))
	sb.WriteString(fmt.Sprintf("Size:         %d\n", s.Size))
	sb.WriteString(fmt.Sprintf("MinEntries:   %d\n", s.MinEntries))
	sb.WriteString(fmt.Sprintf("MaxEntries:   %d\n", s.MaxEntries))
	sb.WriteString(fmt.Sprintf("LoadFactor:   %.3f\n", s.LoadFactor))
	sb.WriteString(fmt.Sprintf("TotalGrowths: %d\n", s.TotalGrowths))
	sb.WriteString("}\n")
	return sb.String()
}

// noCopy may be added to structs which must not be copied
// after the first use. See go vet's copylocks check.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}
