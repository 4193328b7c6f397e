package dictof

import "math"

// sizeSchedule lists the bucket counts a DictOf moves through as it grows.
// Each entry is a prime roughly twice the previous one. The last entry is a
// ceiling: once reached the table stops growing and chains get longer.
var sizeSchedule = [...]int{
	5, 11, 23, 47, 97, 197, 397, 797, 1597, 3203, 6421, 12853, 25717,
	51437, 102877, 205759, 411527, 823117, 1646237, 3292489, 6584983,
	13169977, 26339969, 52679969, 105359939, 210719881, 421439783,
	842879579, 1685759167,
}

// initialTableLen is the bucket count of a table created without a size hint.
const initialTableLen = 5

// scheduleIndexFor returns the smallest schedule position whose bucket count
// can hold sizeHint entries without triggering a resize. Hints beyond the
// ceiling map to the last position.
func scheduleIndexFor(schedule []int, sizeHint int) int {
	for i, n := range schedule {
		if n >= sizeHint {
			return i
		}
	}
	return len(schedule) - 1
}

// bucketIndex maps a hash to a bucket. The sign bit is masked off first so
// negative hashes still land in range.
//
//go:nosplit
func bucketIndex(hash, tableLen int) int {
	return (hash & math.MaxInt) % tableLen
}
