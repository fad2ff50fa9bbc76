package results

import (
	"testing"

	"gocontab/domain/contingency"
	"gocontab/domain/stats"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func corrected(o stats.TestOutcome, adj float64, code stats.SignificanceCode) stats.CorrectedOutcome {
	return stats.CorrectedOutcome{TestOutcome: o, AdjustedPValue: adj, SignificanceCode: code}
}

func TestSchema_DependsOnKindsPresent(t *testing.T) {
	chi := corrected(stats.NewChiSquareOutcome("A", 9.4, 1, 0.002, true), 0.0065, stats.SignifVery)
	exact := corrected(stats.NewExactOutcome("C", 1.0, 0), 1.0, stats.SignifNone)

	assert.Equal(t,
		[]Column{ColumnLevel, ColumnTest, ColumnPValue, ColumnAdjusted, ColumnChiSquare, ColumnDF, ColumnSignif},
		Schema([]stats.CorrectedOutcome{chi}))
	assert.Equal(t,
		[]Column{ColumnLevel, ColumnTest, ColumnPValue, ColumnAdjusted, ColumnSignif, ColumnConfInt, ColumnOddsRatio},
		Schema([]stats.CorrectedOutcome{exact}))
	assert.Equal(t,
		[]Column{ColumnLevel, ColumnTest, ColumnPValue, ColumnAdjusted, ColumnChiSquare, ColumnDF, ColumnSignif, ColumnConfInt, ColumnOddsRatio},
		Schema([]stats.CorrectedOutcome{chi, exact}))
	assert.Equal(t,
		[]Column{ColumnLevel, ColumnTest, ColumnPValue, ColumnAdjusted, ColumnSignif},
		Schema(nil))
}

func TestAssemble_MixedRowsLeaveOtherKindEmpty(t *testing.T) {
	rows := []stats.CorrectedOutcome{
		corrected(stats.NewChiSquareOutcome("A", 9.4, 1, 0.002, true), 0.0065, stats.SignifVery),
		corrected(stats.NewExactOutcome("C", 1.0, 0.5), 1.0, stats.SignifNone),
	}
	table := Assemble("Vertebrate", rows)

	assert.Equal(t,
		[]string{"Vertebrate", "Test", "p-value", "Adjusted p-value", "Chi square", "df", "Signif", "conf_int", "odds_ratio"},
		table.Header())
	assert.True(t, table.Has(ColumnOddsRatio))

	values := table.Values()
	require.Len(t, values, 2)
	assert.Equal(t, []any{"A", "Chi-squared", 0.002, 0.0065, 9.4, 1, "**", nil, nil}, values[0])
	assert.Equal(t, []any{"C", "Fisher", 1.0, 1.0, nil, nil, "NS", nil, 0.5}, values[1])
}

func TestCombine_SeparatesTablesWithBlankRows(t *testing.T) {
	tables := []contingency.Table{
		{Level: "A", Rows: []contingency.Row{{Label: "A", Counts: []int64{20, 10}}, {Label: "Non-A", Counts: []int64{4, 17}}}},
		{Level: "B", Rows: []contingency.Row{{Label: "B", Counts: []int64{4, 16}}, {Label: "Non-B", Counts: []int64{20, 11}}}},
	}

	combined := Combine("Vertebrate", []string{"Negative", "Positive"}, tables)

	assert.Equal(t, []string{"Vertebrate", "Negative", "Positive"}, combined.Header)
	require.Len(t, combined.Rows, 5)
	assert.Equal(t, []any{"A", int64(20), int64(10)}, combined.Rows[0])
	assert.Equal(t, []any{"", "", ""}, combined.Rows[2])
	assert.Equal(t, []any{"Non-B", int64(20), int64(11)}, combined.Rows[4])
}

func TestCombine_Empty(t *testing.T) {
	combined := Combine("V", []string{"N", "P"}, nil)
	assert.Empty(t, combined.Rows)
	assert.Len(t, combined.Header, 3)
}
