// Package split partitions feature-matrix rows for training and evaluation.
package split

import (
	"math/rand"
	"sort"
)

// TrainTest partitions row indices [0, n) into a training and a test set.
// A row lands in the training set when the seeded generator draws below
// fraction, so a given (n, fraction, seed) always yields the same partition.
func TrainTest(n int, fraction float64, seed int64) (train, test []int) {
	rng := rand.New(rand.NewSource(seed))
	for i := 0; i < n; i++ {
		if rng.Float64() < fraction {
			train = append(train, i)
		} else {
			test = append(test, i)
		}
	}
	return train, test
}

// Downsample balances the two label classes by discarding rows of the
// majority class at random until both classes have equal counts. The
// returned indices are sorted.
func Downsample(indices []int, labels []uint8, seed int64) []int {
	var liberal, conservative []int
	for _, index := range indices {
		if labels[index] == 0 {
			liberal = append(liberal, index)
		} else {
			conservative = append(conservative, index)
		}
	}

	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(liberal), func(i, j int) {
		liberal[i], liberal[j] = liberal[j], liberal[i]
	})
	rng.Shuffle(len(conservative), func(i, j int) {
		conservative[i], conservative[j] = conservative[j], conservative[i]
	})

	size := len(liberal)
	if len(conservative) < size {
		size = len(conservative)
	}

	balanced := make([]int, 0, 2*size)
	balanced = append(balanced, liberal[:size]...)
	balanced = append(balanced, conservative[:size]...)
	sort.Ints(balanced)
	return balanced
}
