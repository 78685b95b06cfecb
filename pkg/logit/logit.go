// Package logit fits and evaluates binomial regressions over the feature
// matrix.
package logit

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

const (
	maxIterations = 25
	tolerance     = 1e-8

	// weightFloor keeps the working weights away from zero when fitted
	// probabilities saturate.
	weightFloor = 1e-10
)

var (
	ErrDimensions = errors.New("mismatched dimensions")
	ErrSingular   = errors.New("singular weighted design matrix")
)

// Model is a fitted binomial regression. Coefficients are ordered as the
// design-matrix columns were; the intercept is kept separately.
type Model struct {
	Intercept     float64
	Coefficients  []float64
	LogLikelihood float64
	Iterations    int
	Converged     bool
}

// Fit estimates a logistic regression of y on x by iteratively reweighted
// least squares. Labels must be 0 or 1. An intercept is always included.
func Fit(x *mat.Dense, y []float64) (*Model, error) {
	n, p := x.Dims()
	if len(y) != n {
		return nil, fmt.Errorf("%w: %d rows but %d labels", ErrDimensions, n, len(y))
	}
	if n <= p+1 {
		return nil, fmt.Errorf("%w: %d rows cannot identify %d parameters", ErrDimensions, n, p+1)
	}

	design := mat.NewDense(n, p+1, nil)
	for i := 0; i < n; i++ {
		design.Set(i, 0, 1)
		for j := 0; j < p; j++ {
			design.Set(i, j+1, x.At(i, j))
		}
	}

	beta := make([]float64, p+1)
	iterations := 0
	converged := false
	for iteration := 1; iteration <= maxIterations; iteration++ {
		iterations = iteration

		// Working response and weights for the current estimate.
		normal := mat.NewDense(p+1, p+1, nil)
		moment := mat.NewVecDense(p+1, nil)
		for i := 0; i < n; i++ {
			eta := 0.0
			for j := 0; j <= p; j++ {
				eta += design.At(i, j) * beta[j]
			}
			mu := sigmoid(eta)
			weight := mu * (1 - mu)
			if weight < weightFloor {
				weight = weightFloor
			}
			z := eta + (y[i]-mu)/weight

			for j := 0; j <= p; j++ {
				xij := design.At(i, j)
				moment.SetVec(j, moment.AtVec(j)+weight*xij*z)
				for k := j; k <= p; k++ {
					value := normal.At(j, k) + weight*xij*design.At(i, k)
					normal.Set(j, k, value)
					normal.Set(k, j, value)
				}
			}
		}

		var next mat.VecDense
		if err := next.SolveVec(normal, moment); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSingular, err)
		}

		delta := 0.0
		for j := 0; j <= p; j++ {
			step := math.Abs(next.AtVec(j) - beta[j])
			if step > delta {
				delta = step
			}
			beta[j] = next.AtVec(j)
		}
		if delta < tolerance {
			converged = true
			break
		}
	}

	return &Model{
		Intercept:     beta[0],
		Coefficients:  append([]float64(nil), beta[1:]...),
		LogLikelihood: logLikelihood(design, beta, y),
		Iterations:    iterations,
		Converged:     converged,
	}, nil
}

// Probability returns the predicted probability of the positive class for a
// single feature vector, ordered as the training columns were.
func (m *Model) Probability(features []float64) float64 {
	eta := m.Intercept
	for j, value := range features {
		eta += m.Coefficients[j] * value
	}
	return sigmoid(eta)
}

// Predict scores every row of x.
func (m *Model) Predict(x *mat.Dense) ([]float64, error) {
	n, p := x.Dims()
	if p != len(m.Coefficients) {
		return nil, fmt.Errorf("%w: model has %d coefficients but input has %d columns",
			ErrDimensions, len(m.Coefficients), p)
	}

	probabilities := make([]float64, n)
	for i := 0; i < n; i++ {
		eta := m.Intercept
		for j := 0; j < p; j++ {
			eta += m.Coefficients[j] * x.At(i, j)
		}
		probabilities[i] = sigmoid(eta)
	}
	return probabilities, nil
}

// Deviance is -2 times the model log-likelihood.
func (m *Model) Deviance() float64 {
	return -2 * m.LogLikelihood
}

func sigmoid(eta float64) float64 {
	return 1 / (1 + math.Exp(-eta))
}

func logLikelihood(design *mat.Dense, beta []float64, y []float64) float64 {
	n, p := design.Dims()
	total := 0.0
	for i := 0; i < n; i++ {
		eta := 0.0
		for j := 0; j < p; j++ {
			eta += design.At(i, j) * beta[j]
		}
		mu := sigmoid(eta)
		if mu < weightFloor {
			mu = weightFloor
		}
		if mu > 1-weightFloor {
			mu = 1 - weightFloor
		}
		total += y[i]*math.Log(mu) + (1-y[i])*math.Log(1-mu)
	}
	return total
}
