package logit

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/stat/distuv"
)

var ErrNotNested = errors.New("models are not nested")

// LikelihoodRatio is the result of a chi-squared test between two nested
// models.
type LikelihoodRatio struct {
	Statistic        float64
	DegreesOfFreedom int
	PValue           float64
}

// CompareNested tests whether a full model improves on a reduced model
// nested within it. The statistic is twice the log-likelihood gap,
// chi-squared distributed with degrees of freedom equal to the difference in
// parameter counts.
func CompareNested(reduced, full *Model) (LikelihoodRatio, error) {
	degrees := len(full.Coefficients) - len(reduced.Coefficients)
	if degrees <= 0 {
		return LikelihoodRatio{}, fmt.Errorf("%w: reduced model has %d coefficients, full has %d",
			ErrNotNested, len(reduced.Coefficients), len(full.Coefficients))
	}

	statistic := 2 * (full.LogLikelihood - reduced.LogLikelihood)
	if statistic < 0 {
		statistic = 0
	}

	distribution := distuv.ChiSquared{K: float64(degrees)}
	return LikelihoodRatio{
		Statistic:        statistic,
		DegreesOfFreedom: degrees,
		PValue:           distribution.Survival(statistic),
	}, nil
}
