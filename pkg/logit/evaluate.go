package logit

// ClassifyThreshold is the probability above which a prediction counts as
// the positive class.
const ClassifyThreshold = 0.5

// Confusion tallies thresholded classifications against labels.
type Confusion struct {
	TruePositive  int
	TrueNegative  int
	FalsePositive int
	FalseNegative int
}

// Evaluate classifies each predicted probability at the 0.5 threshold and
// tallies it against the corresponding label.
func Evaluate(probabilities, y []float64) Confusion {
	var confusion Confusion
	for i, probability := range probabilities {
		predicted := probability > ClassifyThreshold
		actual := y[i] > ClassifyThreshold
		switch {
		case predicted && actual:
			confusion.TruePositive++
		case !predicted && !actual:
			confusion.TrueNegative++
		case predicted && !actual:
			confusion.FalsePositive++
		default:
			confusion.FalseNegative++
		}
	}
	return confusion
}

// Total is the number of evaluated rows.
func (c Confusion) Total() int {
	return c.TruePositive + c.TrueNegative + c.FalsePositive + c.FalseNegative
}

// Accuracy is the fraction of rows where the thresholded prediction matches
// the label.
func (c Confusion) Accuracy() float64 {
	total := c.Total()
	if total == 0 {
		return 0
	}
	return float64(c.TruePositive+c.TrueNegative) / float64(total)
}
