package dictof

import (
	"fmt"
	"hash/maphash"
	"reflect"

	"github.com/cespare/xxhash/v2"
)

// Hashable is the capability a DictOf key must provide: a hash code and an
// equality relation consistent with it (equal keys must hash equally).
//
// The hash may be any int, negative values included; DictOf masks off the
// sign bit before choosing a bucket.
type Hashable[K any] interface {
	Hash() int
	Equal(other K) bool
}

// String is a string key hashed with xxhash.
type String string

func (s String) Hash() int           { return int(xxhash.Sum64String(string(s))) }
func (s String) Equal(o String) bool { return s == o }

// Int is an integer key whose hash code is the integer itself.
type Int int

func (i Int) Hash() int        { return int(i) }
func (i Int) Equal(o Int) bool { return i == o }

var comparableSeed = maphash.MakeSeed()

// Comparable adapts any comparable value into a key. It hashes with
// maphash.Comparable under a process-wide seed and compares with ==.
//
// When T is an interface type the dynamic value must be comparable too.
// A key holding a slice, map or func is rejected as invalid.
type Comparable[T comparable] struct {
	Value T `json:"value"`
}

// Of wraps v into a Comparable key.
func Of[T comparable](v T) Comparable[T] {
	return Comparable[T]{Value: v}
}

func (c Comparable[T]) Hash() int {
	return int(maphash.Comparable(comparableSeed, c.Value))
}

func (c Comparable[T]) Equal(o Comparable[T]) bool { return c.Value == o.Value }

// IsNil reports whether the wrapped value is nil, which makes the key invalid.
func (c Comparable[T]) IsNil() bool { return isNilValue(any(c.Value)) }

func (c Comparable[T]) String() string { return fmt.Sprint(c.Value) }

// hashable reports whether the wrapped value can be hashed and compared
// without panicking.
func (c Comparable[T]) hashable() bool {
	v := reflect.ValueOf(any(c.Value))
	return !v.IsValid() || v.Comparable()
}

// nilChecker is implemented by key types that wrap a possibly-nil value.
type nilChecker interface {
	IsNil() bool
}

type hashableChecker interface {
	hashable() bool
}

// isNilKey reports whether key is unusable: a nil interface, a nil pointer,
// map, slice, func or chan, a wrapper whose IsNil says so, or a wrapper
// around a value that is not comparable.
func isNilKey[K any](key K) bool {
	a := any(key)
	if isNilValue(a) {
		return true
	}
	if nc, ok := a.(nilChecker); ok && nc.IsNil() {
		return true
	}
	if hc, ok := a.(hashableChecker); ok && !hc.hashable() {
		return true
	}
	return false
}

func isNilValue(a any) bool {
	if a == nil {
		return true
	}
	v := reflect.ValueOf(a)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func,
		reflect.Chan, reflect.Interface, reflect.UnsafePointer:
		return v.IsNil()
	}
	return false
}
