package independence

import (
	"context"
	"math"
	"testing"

	"gocontab/domain/contingency"
	"gocontab/domain/core"
	"gocontab/domain/stats"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func table2x2(level string, a, b, c, d int64) contingency.Table {
	return contingency.Table{
		Level:    level,
		Variable: "Group",
		Outcomes: []string{"Negative", "Positive"},
		Rows: []contingency.Row{
			{Label: level, Counts: []int64{a, b}},
			{Label: "Non-" + level, Counts: []int64{c, d}},
		},
	}
}

func TestExpectedFrequencies(t *testing.T) {
	expected, err := ExpectedFrequencies(table2x2("A", 20, 10, 4, 17))
	require.NoError(t, err)

	assert.InDelta(t, 30.0*24.0/51.0, expected[0][0], 1e-12)
	assert.InDelta(t, 30.0*27.0/51.0, expected[0][1], 1e-12)
	assert.InDelta(t, 21.0*24.0/51.0, expected[1][0], 1e-12)
	assert.InDelta(t, 21.0*27.0/51.0, expected[1][1], 1e-12)
}

func TestExpectedFrequencies_DegenerateTable(t *testing.T) {
	_, err := ExpectedFrequencies(table2x2("Z", 0, 0, 5, 7))
	assert.ErrorIs(t, err, core.ErrDegenerateTable)

	_, err = ExpectedFrequencies(table2x2("Z", 3, 0, 5, 0))
	assert.ErrorIs(t, err, core.ErrDegenerateTable)
}

func TestSelector_ThresholdIsStrict(t *testing.T) {
	s := NewSelector()

	assert.Equal(t, stats.TestChiSquare, s.Choose([][]float64{{5, 5}, {5, 5}}))
	assert.Equal(t, stats.TestExact, s.Choose([][]float64{{5, 4.999}, {5, 5}}))
}

func TestSelector_ChiSquareWithYates(t *testing.T) {
	outcome, err := NewSelector().Run(context.Background(), table2x2("A", 20, 10, 4, 17))
	require.NoError(t, err)

	assert.Equal(t, stats.TestChiSquare, outcome.Kind)
	require.NotNil(t, outcome.ChiSquare)
	assert.Nil(t, outcome.Exact)
	assert.True(t, outcome.YatesApplied())
	assert.Equal(t, 1, outcome.ChiSquare.DegreesOfFreedom)
	assert.InDelta(t, 9.413244047619049, outcome.ChiSquare.Statistic, 1e-9)
	assert.InDelta(t, 0.002154237595696192, outcome.PValue, 1e-9)
}

func TestSelector_ChiSquareKnownValues(t *testing.T) {
	cases := []struct {
		a, b, c, d int64
		stat, p    float64
	}{
		{4, 16, 20, 11, 7.965608198924731, 0.004767446933418239},
		{12, 8, 5, 15, 3.6828644501278776, 0.05497432872169443},
	}
	for _, tc := range cases {
		outcome, err := NewSelector().Run(context.Background(), table2x2("L", tc.a, tc.b, tc.c, tc.d))
		require.NoError(t, err)
		assert.Equal(t, stats.TestChiSquare, outcome.Kind)
		assert.InDelta(t, tc.stat, outcome.ChiSquare.Statistic, 1e-9)
		assert.InDelta(t, tc.p, outcome.PValue, 1e-9)
	}
}

func TestSelector_ExactForSmallExpected(t *testing.T) {
	cases := []struct {
		a, b, c, d int64
		p, odds    float64
	}{
		{8, 2, 1, 5, 0.03496503496503496, 20.0},
		{6, 2, 1, 4, 0.10256410256410256, 12.0},
		{3, 1, 1, 3, 0.4857142857142857, 9.0},
	}
	for _, tc := range cases {
		outcome, err := NewSelector().Run(context.Background(), table2x2("L", tc.a, tc.b, tc.c, tc.d))
		require.NoError(t, err)
		assert.Equal(t, stats.TestExact, outcome.Kind)
		assert.False(t, outcome.YatesApplied())
		require.NotNil(t, outcome.Exact)
		assert.Nil(t, outcome.ChiSquare)
		assert.InDelta(t, tc.p, outcome.PValue, 1e-9)
		assert.InDelta(t, tc.odds, outcome.Exact.OddsRatio, 1e-12)
		assert.Nil(t, outcome.Exact.ConfidenceInterval)
	}
}

func TestSelector_ExactInfiniteOddsRatio(t *testing.T) {
	outcome, err := NewSelector().Run(context.Background(), table2x2("C", 0, 1, 24, 26))
	require.NoError(t, err)

	assert.Equal(t, stats.TestExact, outcome.Kind)
	assert.InDelta(t, 1.0, outcome.PValue, 1e-9)
	assert.Equal(t, 0.0, outcome.Exact.OddsRatio)

	outcome, err = NewSelector().Run(context.Background(), table2x2("D", 3, 0, 1, 4))
	require.NoError(t, err)
	assert.True(t, math.IsInf(outcome.Exact.OddsRatio, 1))
}

func TestSelector_LargerTablesSkipYates(t *testing.T) {
	tbl := contingency.Table{
		Level:    "A",
		Outcomes: []string{"x", "y", "z"},
		Rows: []contingency.Row{
			{Label: "A", Counts: []int64{20, 30, 25}},
			{Label: "Non-A", Counts: []int64{25, 20, 30}},
		},
	}
	outcome, err := NewSelector().Run(context.Background(), tbl)
	require.NoError(t, err)

	assert.Equal(t, stats.TestChiSquare, outcome.Kind)
	assert.False(t, outcome.YatesApplied())
	assert.Equal(t, 2, outcome.ChiSquare.DegreesOfFreedom)
}

func TestFisher_RejectsNon2x2(t *testing.T) {
	tbl := contingency.Table{
		Level: "A",
		Rows: []contingency.Row{
			{Label: "A", Counts: []int64{1, 2, 3}},
			{Label: "Non-A", Counts: []int64{1, 2, 3}},
		},
	}
	_, err := NewFisherExactTest().Analyze(tbl)
	assert.ErrorIs(t, err, core.ErrUnsupportedShape)
}

func TestSelector_Deterministic(t *testing.T) {
	s := NewSelector()
	tbl := table2x2("B", 4, 16, 20, 11)

	first, err := s.Run(context.Background(), tbl)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := s.Run(context.Background(), tbl)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestSelector_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewSelector().Run(ctx, table2x2("A", 20, 10, 4, 17))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFisherPValue_MirroredTablesTie(t *testing.T) {
	// With row1 = col1 = n/2 the pmf is symmetric, so mirrored tables tie and share a p-value
	cases := []struct{ m, d int64 }{{10, 3}, {500, 20}, {50000, 150}}
	for _, tc := range cases {
		low := fisherPValue(tc.m-tc.d, tc.m+tc.d, tc.m+tc.d, tc.m-tc.d)
		high := fisherPValue(tc.m+tc.d, tc.m-tc.d, tc.m-tc.d, tc.m+tc.d)
		assert.InDelta(t, low, high, 1e-9, "m=%d", tc.m)
		assert.Greater(t, low, 0.0)
		assert.Less(t, low, 1.0)
	}
	assert.InDelta(t, 0.4857142857142857, fisherPValue(3, 1, 1, 3), 1e-12)
}
