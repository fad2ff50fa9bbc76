package independence

import (
	"fmt"
	"math"

	"gocontab/domain/contingency"
	"gocontab/domain/core"
	"gocontab/domain/stats"

	"gonum.org/v1/gonum/stat/combin"
)

// relativeTolerance absorbs floating point noise when comparing table probabilities
const relativeTolerance = 1 + 1e-7

// FisherExactTest is the two-sided Fisher exact test for 2x2 tables
type FisherExactTest struct{}

// NewFisherExactTest creates a new exact test
func NewFisherExactTest() *FisherExactTest {
	return &FisherExactTest{}
}

// Analyze returns the two-sided exact p-value and the sample odds ratio.
// The confidence interval of the odds ratio is left unset.
func (t *FisherExactTest) Analyze(table contingency.Table) (stats.TestOutcome, error) {
	if !table.Is2x2() {
		r, c := table.Shape()
		return stats.TestOutcome{}, fmt.Errorf("%w: exact test needs 2x2, got %dx%d", core.ErrUnsupportedShape, r, c)
	}

	a, b := table.Cell(0, 0), table.Cell(0, 1)
	c, d := table.Cell(1, 0), table.Cell(1, 1)

	return stats.NewExactOutcome(table.Level, fisherPValue(a, b, c, d), oddsRatio(a, b, c, d)), nil
}

// oddsRatio is (a*d)/(b*c), infinite when the denominator is zero
func oddsRatio(a, b, c, d int64) float64 {
	if b == 0 || c == 0 {
		return math.Inf(1)
	}
	return float64(a) * float64(d) / (float64(b) * float64(c))
}

// fisherPValue sums the hypergeometric probabilities of every table with the
// observed margins that is no more likely than the observed one.
func fisherPValue(a, b, c, d int64) float64 {
	row1 := a + b
	col1 := a + c
	n := a + b + c + d

	lo := max(0, row1+col1-n)
	hi := min(row1, col1)

	// Tables are ranked on the numerator alone since log C(n, row1) is shared.
	// The tolerance is relative; once n reaches the 1e8 range the lgamma error
	// of the numerators is of the same order, so near-ties there may be misranked.
	logDenom := combin.LogGeneralizedBinomial(float64(n), float64(row1))
	threshold := hypergeomLogNumerator(a, n, row1, col1) + math.Log(relativeTolerance)

	p := 0.0
	for x := lo; x <= hi; x++ {
		ln := hypergeomLogNumerator(x, n, row1, col1)
		if ln <= threshold {
			p += math.Exp(ln - logDenom)
		}
	}
	return math.Min(1.0, p)
}

// hypergeomLogNumerator is log C(col1, x) + log C(n-col1, row1-x), the
// unnormalised log probability of x successes among row1 draws from n items
// containing col1 successes.
func hypergeomLogNumerator(x, n, row1, col1 int64) float64 {
	return combin.LogGeneralizedBinomial(float64(col1), float64(x)) +
		combin.LogGeneralizedBinomial(float64(n-col1), float64(row1-x))
}
