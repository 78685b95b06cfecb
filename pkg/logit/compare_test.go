package logit_test

import (
	"testing"

	"github.com/scotuslab/leanings/pkg/logit"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestCompareNestedKnownValues(t *testing.T) {
	// A statistic of 3.841 on one degree of freedom sits at the 5% point
	// of the chi-squared distribution.
	reduced := &logit.Model{Coefficients: []float64{0}, LogLikelihood: -110}
	full := &logit.Model{Coefficients: []float64{0, 0}, LogLikelihood: -110 + 3.841/2}

	ratio, err := logit.CompareNested(reduced, full)
	require.NoError(t, err)
	require.Equal(t, 1, ratio.DegreesOfFreedom)
	require.InDelta(t, 3.841, ratio.Statistic, 1e-9)
	require.InDelta(t, 0.05, ratio.PValue, 1e-3)
}

func TestCompareNestedNoImprovement(t *testing.T) {
	reduced := &logit.Model{Coefficients: []float64{0}, LogLikelihood: -100}
	full := &logit.Model{Coefficients: []float64{0, 0}, LogLikelihood: -100}

	ratio, err := logit.CompareNested(reduced, full)
	require.NoError(t, err)
	require.Zero(t, ratio.Statistic)
	require.InDelta(t, 1.0, ratio.PValue, 1e-12)
}

func TestCompareNotNested(t *testing.T) {
	reduced := &logit.Model{Coefficients: []float64{0, 0}}
	full := &logit.Model{Coefficients: []float64{0}}

	_, err := logit.CompareNested(reduced, full)
	require.ErrorIs(t, err, logit.ErrNotNested)
}

func TestCompareFittedNestedModels(t *testing.T) {
	// The second column determines the label; the first is uninformative.
	// Adding the informative column must improve the likelihood sharply.
	var cells []float64
	var labels []float64
	for i := 0; i < 40; i++ {
		noise := float64(1 + i%2)
		informative := float64(1 + (i/20)%2)
		label := 0.0
		if informative == 1 {
			label = 1
		}
		// A few contrary rows prevent perfect separation.
		if i%10 == 0 {
			label = 1 - label
		}
		cells = append(cells, noise, informative)
		labels = append(labels, label)
	}
	x := mat.NewDense(40, 2, cells)

	reducedX := mat.NewDense(40, 1, nil)
	for i := 0; i < 40; i++ {
		reducedX.Set(i, 0, x.At(i, 0))
	}

	reduced, err := logit.Fit(reducedX, labels)
	require.NoError(t, err)
	full, err := logit.Fit(x, labels)
	require.NoError(t, err)

	ratio, err := logit.CompareNested(reduced, full)
	require.NoError(t, err)
	require.Equal(t, 1, ratio.DegreesOfFreedom)
	require.Greater(t, ratio.Statistic, 10.0)
	require.Less(t, ratio.PValue, 0.01)
}
