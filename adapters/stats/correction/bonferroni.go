package correction

import (
	"math"

	"gocontab/domain/stats"

	mstats "github.com/montanaflynn/stats"
)

// Precision is the number of decimals kept on adjusted p-values
const Precision = 4

// Bonferroni returns min(1, p*n) for every p-value, n being the number of tests.
// An empty input yields an empty output.
func Bonferroni(pValues []float64) []float64 {
	n := float64(len(pValues))
	adjusted := make([]float64, len(pValues))
	for i, p := range pValues {
		adjusted[i] = math.Min(1.0, p*n)
	}
	return adjusted
}

// Round rounds half away from zero to the given number of decimals
func Round(v float64, places int) float64 {
	rounded, err := mstats.Round(v, places)
	if err != nil {
		return v
	}
	return rounded
}

// AdjustRounded applies Bonferroni and rounds every value to Precision decimals
func AdjustRounded(pValues []float64) []float64 {
	adjusted := Bonferroni(pValues)
	for i, v := range adjusted {
		adjusted[i] = Round(v, Precision)
	}
	return adjusted
}

// Classify maps an adjusted p-value to its significance code; first match wins
func Classify(adjusted float64) stats.SignificanceCode {
	switch {
	case adjusted < 0.001:
		return stats.SignifHighly
	case adjusted < 0.01:
		return stats.SignifVery
	case adjusted < 0.05:
		return stats.SignifSome
	default:
		return stats.SignifNone
	}
}

// Correct adjusts the complete collection of outcomes and classifies each one.
// It must only be called once every level's outcome exists.
func Correct(outcomes []stats.TestOutcome) []stats.CorrectedOutcome {
	pValues := make([]float64, len(outcomes))
	for i, o := range outcomes {
		pValues[i] = o.PValue
	}

	adjusted := AdjustRounded(pValues)
	corrected := make([]stats.CorrectedOutcome, len(outcomes))
	for i, o := range outcomes {
		corrected[i] = stats.CorrectedOutcome{
			TestOutcome:      o,
			AdjustedPValue:   adjusted[i],
			SignificanceCode: Classify(adjusted[i]),
		}
	}
	return corrected
}
