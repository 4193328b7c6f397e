package dictof

import (
	"testing"

	"github.com/cespare/xxhash/v2"
	"github.com/stretchr/testify/require"
)

func TestString_Hash(t *testing.T) {
	require.Equal(t, int(xxhash.Sum64String("hello")), String("hello").Hash())
	require.Equal(t, String("a").Hash(), String("a").Hash())
	require.True(t, String("a").Equal("a"))
	require.False(t, String("a").Equal("b"))
}

func TestInt_HashIsIdentity(t *testing.T) {
	for _, i := range []int{0, 1, -1, 6, 1 << 20} {
		require.Equal(t, i, Int(i).Hash())
	}
	require.True(t, Int(3).Equal(3))
	require.False(t, Int(3).Equal(4))
}

func TestComparable(t *testing.T) {
	type point struct{ X, Y int }
	a, b := Of(point{1, 2}), Of(point{1, 2})
	require.True(t, a.Equal(b))
	require.Equal(t, a.Hash(), b.Hash())
	require.False(t, a.Equal(Of(point{2, 1})))
	require.False(t, a.IsNil())
	require.Equal(t, "{1 2}", a.String())

	d := NewDictOf[Comparable[point], string]()
	require.NoError(t, d.Add(a, "a"))
	require.ErrorIs(t, d.Add(b, "b"), ErrDuplicateKey)
}

func TestIsNilKey(t *testing.T) {
	var p *ptrKey
	require.True(t, isNilKey(p))
	require.False(t, isNilKey(&ptrKey{}))

	var i ifaceKey
	require.True(t, isNilKey(i))
	require.False(t, isNilKey[ifaceKey](namedKey("")))

	require.False(t, isNilKey(Int(0)))
	require.False(t, isNilKey(String("")))
	require.True(t, isNilKey(Of[any](nil)))
	require.True(t, isNilKey(Of[*int](nil)))
	require.False(t, isNilKey(Of(0)))
}

func TestComparable_NonComparableValue(t *testing.T) {
	require.True(t, isNilKey(Of[any]([]int{1})))
	require.True(t, isNilKey(Of[any](map[string]int{})))
	require.True(t, isNilKey(Of[any](struct{ s []int }{})))
	require.False(t, isNilKey(Of[any](1)))
	require.False(t, isNilKey(Of[any]("x")))

	d := NewDictOf[Comparable[any], int]()
	bad := Of[any]([]int{1})
	require.ErrorIs(t, d.Add(bad, 1), ErrInvalidKey)
	require.ErrorIs(t, d.Set(bad, 1), ErrInvalidKey)
	_, _, err := d.TryGet(bad)
	require.ErrorIs(t, err, ErrInvalidKey)
	_, err = d.ContainsKey(bad)
	require.ErrorIs(t, err, ErrInvalidKey)
	require.Zero(t, d.Size())

	require.NoError(t, d.Add(Of[any](1), 1))
	got, err := d.Get(Of[any](1))
	require.NoError(t, err)
	require.Equal(t, 1, got)
}
