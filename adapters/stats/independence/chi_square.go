package independence

import (
	"math"

	"gocontab/domain/contingency"
	"gocontab/domain/stats"

	"gonum.org/v1/gonum/stat/distuv"
)

// ChiSquareTest is Pearson's chi-square test of independence.
// 2x2 tables get Yates' continuity correction.
type ChiSquareTest struct{}

// NewChiSquareTest creates a new chi-square test
func NewChiSquareTest() *ChiSquareTest {
	return &ChiSquareTest{}
}

// Analyze computes the statistic against the supplied expected frequencies.
// Expected values must all be positive; the selector guarantees that.
func (t *ChiSquareTest) Analyze(table contingency.Table, expected [][]float64) stats.TestOutcome {
	rows, cols := table.Shape()
	df := (rows - 1) * (cols - 1)
	yates := table.Is2x2()

	chiSq := 0.0
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			observed := float64(table.Cell(i, j))
			exp := expected[i][j]
			if yates {
				observed = yatesAdjust(observed, exp)
			}
			chiSq += (observed - exp) * (observed - exp) / exp
		}
	}

	return stats.NewChiSquareOutcome(table.Level, chiSq, df, chiSquarePValue(chiSq, df), yates)
}

// yatesAdjust moves the observed count toward the expected count by at most 0.5
func yatesAdjust(observed, expected float64) float64 {
	diff := expected - observed
	magnitude := math.Min(0.5, math.Abs(diff))
	if diff < 0 {
		return observed - magnitude
	}
	return observed + magnitude
}

// chiSquarePValue is the upper tail of the chi-squared distribution
func chiSquarePValue(chiSq float64, df int) float64 {
	if df <= 0 {
		return 1.0
	}
	chiDist := distuv.ChiSquared{K: float64(df)}
	return chiDist.Survival(chiSq)
}
