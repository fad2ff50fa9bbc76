package independence

import (
	"context"

	"gocontab/domain/contingency"
	"gocontab/domain/stats"
)

// MinExpectedFrequency is the smallest expected cell count for which the
// chi-square approximation is used; any cell below it selects the exact test.
const MinExpectedFrequency = 5.0

// Selector chooses and runs the independence test for one contingency table
type Selector struct {
	chiSquare *ChiSquareTest
	exact     *FisherExactTest
	threshold float64
}

// NewSelector creates a selector with the standard expected-frequency threshold
func NewSelector() *Selector {
	return &Selector{
		chiSquare: NewChiSquareTest(),
		exact:     NewFisherExactTest(),
		threshold: MinExpectedFrequency,
	}
}

// ExpectedFrequencies returns rowSum[i]*colSum[j]/total for every cell.
// Tables with a zero margin fail with ErrDegenerateTable.
func ExpectedFrequencies(table contingency.Table) ([][]float64, error) {
	if err := table.CheckMargins(); err != nil {
		return nil, err
	}

	rowSums := table.RowSums()
	colSums := table.ColSums()
	total := float64(table.Total())

	expected := make([][]float64, len(rowSums))
	for i := range rowSums {
		expected[i] = make([]float64, len(colSums))
		for j := range colSums {
			expected[i][j] = float64(rowSums[i]) * float64(colSums[j]) / total
		}
	}
	return expected, nil
}

// Choose returns the test kind for a table given its expected frequencies
func (s *Selector) Choose(expected [][]float64) stats.TestKind {
	for _, row := range expected {
		for _, e := range row {
			if e < s.threshold {
				return stats.TestExact
			}
		}
	}
	return stats.TestChiSquare
}

// Run selects and executes the appropriate test for the table
func (s *Selector) Run(ctx context.Context, table contingency.Table) (stats.TestOutcome, error) {
	if err := ctx.Err(); err != nil {
		return stats.TestOutcome{}, err
	}

	expected, err := ExpectedFrequencies(table)
	if err != nil {
		return stats.TestOutcome{}, err
	}

	if s.Choose(expected) == stats.TestExact {
		return s.exact.Analyze(table)
	}
	return s.chiSquare.Analyze(table, expected), nil
}
