package logit_test

import (
	"testing"

	"github.com/scotuslab/leanings/pkg/logit"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// trainingData builds rows whose single feature mostly determines the label:
// cells holding 1 lean toward label 1, cells holding 2 toward label 0.
func trainingData() (*mat.Dense, []float64) {
	var cells []float64
	var labels []float64
	add := func(cell, label float64, count int) {
		for i := 0; i < count; i++ {
			cells = append(cells, cell)
			labels = append(labels, label)
		}
	}

	add(1, 1, 18)
	add(1, 0, 2)
	add(2, 1, 2)
	add(2, 0, 18)

	return mat.NewDense(len(cells), 1, cells), labels
}

func TestFitRecoversDirection(t *testing.T) {
	x, y := trainingData()

	model, err := logit.Fit(x, y)
	require.NoError(t, err)
	require.True(t, model.Converged)
	require.Len(t, model.Coefficients, 1)

	// Cells holding 1 predict the positive class, cells holding 2 the
	// negative class.
	require.Greater(t, model.Probability([]float64{1}), 0.7)
	require.Less(t, model.Probability([]float64{2}), 0.3)
}

func TestFitDimensionMismatch(t *testing.T) {
	x := mat.NewDense(4, 1, []float64{1, 2, 1, 2})

	_, err := logit.Fit(x, []float64{1, 0})
	require.ErrorIs(t, err, logit.ErrDimensions)
}

func TestFitTooFewRows(t *testing.T) {
	x := mat.NewDense(2, 2, []float64{1, 2, 2, 1})

	_, err := logit.Fit(x, []float64{1, 0})
	require.ErrorIs(t, err, logit.ErrDimensions)
}

func TestProbabilityBounds(t *testing.T) {
	model := &logit.Model{Intercept: 0.5, Coefficients: []float64{-1.2, 0.7}}

	inputs := [][]float64{
		{0, 0}, {1, 2}, {2, 1}, {2, 2}, {100, -100},
	}
	for _, input := range inputs {
		probability := model.Probability(input)
		require.Greater(t, probability, 0.0)
		require.Less(t, probability, 1.0)
	}
}

func TestPredictMatchesProbability(t *testing.T) {
	model := &logit.Model{Intercept: -0.3, Coefficients: []float64{0.8}}

	x := mat.NewDense(3, 1, []float64{0, 1, 2})
	probabilities, err := model.Predict(x)
	require.NoError(t, err)
	require.Len(t, probabilities, 3)

	for i, cell := range []float64{0, 1, 2} {
		require.InDelta(t, model.Probability([]float64{cell}), probabilities[i], 1e-12)
	}
}

func TestPredictDimensionMismatch(t *testing.T) {
	model := &logit.Model{Coefficients: []float64{0.8}}

	x := mat.NewDense(2, 2, []float64{0, 1, 2, 0})
	_, err := model.Predict(x)
	require.ErrorIs(t, err, logit.ErrDimensions)
}

func TestDeviance(t *testing.T) {
	model := &logit.Model{LogLikelihood: -42.5}
	require.InDelta(t, 85.0, model.Deviance(), 1e-12)
}

func TestFitAccuracyOnInformativeData(t *testing.T) {
	x, y := trainingData()

	model, err := logit.Fit(x, y)
	require.NoError(t, err)

	probabilities, err := model.Predict(x)
	require.NoError(t, err)
	confusion := logit.Evaluate(probabilities, y)

	// 36 of the 40 rows are consistent with their cell's direction.
	require.InDelta(t, 0.9, confusion.Accuracy(), 1e-12)
}
