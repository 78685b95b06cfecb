package split_test

import (
	"testing"

	"github.com/scotuslab/leanings/pkg/split"
	"github.com/stretchr/testify/require"
)

func TestTrainTestReproducible(t *testing.T) {
	trainA, testA := split.TrainTest(1000, 0.7, 100)
	trainB, testB := split.TrainTest(1000, 0.7, 100)

	require.Equal(t, trainA, trainB)
	require.Equal(t, testA, testB)
}

func TestTrainTestSeedChangesPartition(t *testing.T) {
	trainA, _ := split.TrainTest(1000, 0.7, 100)
	trainB, _ := split.TrainTest(1000, 0.7, 101)

	require.NotEqual(t, trainA, trainB)
}

func TestTrainTestPartitions(t *testing.T) {
	n := 500
	train, test := split.TrainTest(n, 0.7, 42)

	require.Equal(t, n, len(train)+len(test))

	seen := make(map[int]bool, n)
	for _, index := range append(append([]int{}, train...), test...) {
		require.False(t, seen[index], "index %d assigned twice", index)
		require.GreaterOrEqual(t, index, 0)
		require.Less(t, index, n)
		seen[index] = true
	}

	// The split should land near the requested fraction.
	require.InDelta(t, 0.7, float64(len(train))/float64(n), 0.1)
}

func TestTrainTestExtremeFractions(t *testing.T) {
	train, test := split.TrainTest(100, 0, 7)
	require.Empty(t, train)
	require.Len(t, test, 100)

	train, test = split.TrainTest(100, 1, 7)
	require.Len(t, train, 100)
	require.Empty(t, test)
}

func TestDownsampleEqualCounts(t *testing.T) {
	labels := make([]uint8, 100)
	var indices []int
	for i := range labels {
		if i < 30 {
			labels[i] = 1
		}
		indices = append(indices, i)
	}

	balanced := split.Downsample(indices, labels, 100)
	require.Len(t, balanced, 60)

	counts := map[uint8]int{}
	for _, index := range balanced {
		counts[labels[index]]++
	}
	require.Equal(t, counts[0], counts[1])
}

func TestDownsampleReproducible(t *testing.T) {
	labels := make([]uint8, 200)
	var indices []int
	for i := range labels {
		labels[i] = uint8(i % 2)
		indices = append(indices, i)
	}

	first := split.Downsample(indices, labels, 9)
	second := split.Downsample(indices, labels, 9)
	require.Equal(t, first, second)
}

func TestDownsampleSubsetOnly(t *testing.T) {
	labels := []uint8{0, 0, 1, 1, 0, 1}
	indices := []int{0, 2, 4}

	balanced := split.Downsample(indices, labels, 3)
	for _, index := range balanced {
		require.Contains(t, indices, index)
	}
}
