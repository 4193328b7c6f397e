package dictof

import (
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSizeSchedule(t *testing.T) {
	require.Equal(t, initialTableLen, sizeSchedule[0])
	require.Equal(t, 11, sizeSchedule[1])
	for i := 1; i < len(sizeSchedule); i++ {
		prev, cur := sizeSchedule[i-1], sizeSchedule[i]
		require.Greater(t, cur, prev)
		require.GreaterOrEqual(t, cur, 2*prev, "entry %d is not a doubling", i)
		require.Less(t, cur, 2*prev+64, "entry %d overshoots a doubling", i)
	}
	for _, n := range sizeSchedule {
		require.True(t, big.NewInt(int64(n)).ProbablyPrime(20), "%d is not prime", n)
	}
}

func TestScheduleIndexFor(t *testing.T) {
	s := sizeSchedule[:]
	require.Equal(t, 0, scheduleIndexFor(s, 1))
	require.Equal(t, 0, scheduleIndexFor(s, 5))
	require.Equal(t, 1, scheduleIndexFor(s, 6))
	require.Equal(t, 1, scheduleIndexFor(s, 11))
	require.Equal(t, 5, scheduleIndexFor(s, 100))
	require.Equal(t, len(s)-1, scheduleIndexFor(s, sizeSchedule[len(s)-1]+1))
	require.Equal(t, 1, scheduleIndexFor([]int{5, 11}, 1000))
}

func TestBucketIndex(t *testing.T) {
	require.Equal(t, 1, bucketIndex(1, 5))
	require.Equal(t, 0, bucketIndex(5, 5))
	require.Equal(t, 6, bucketIndex(6, 11))
	for _, h := range []int{-1, -5, -123456789, math.MinInt} {
		i := bucketIndex(h, 11)
		require.GreaterOrEqual(t, i, 0)
		require.Less(t, i, 11)
	}
}
