package logit_test

import (
	"testing"

	"github.com/scotuslab/leanings/pkg/logit"
	"github.com/stretchr/testify/require"
)

func TestEvaluate(t *testing.T) {
	probabilities := []float64{0.9, 0.8, 0.2, 0.1, 0.6, 0.4}
	labels := []float64{1, 0, 0, 1, 1, 0}

	confusion := logit.Evaluate(probabilities, labels)

	require.Equal(t, 2, confusion.TruePositive)
	require.Equal(t, 2, confusion.TrueNegative)
	require.Equal(t, 1, confusion.FalsePositive)
	require.Equal(t, 1, confusion.FalseNegative)
	require.Equal(t, 6, confusion.Total())
	require.InDelta(t, 4.0/6.0, confusion.Accuracy(), 1e-12)
}

func TestEvaluateEmpty(t *testing.T) {
	confusion := logit.Evaluate(nil, nil)
	require.Zero(t, confusion.Total())
	require.Zero(t, confusion.Accuracy())
}

func TestEvaluateThresholdBoundary(t *testing.T) {
	// Exactly 0.5 is not above the threshold and classifies negative.
	confusion := logit.Evaluate([]float64{0.5}, []float64{0})
	require.Equal(t, 1, confusion.TrueNegative)
}
