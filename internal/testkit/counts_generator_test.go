package testkit

import (
	"testing"

	"gocontab/domain/contingency"
	"gocontab/domain/dataset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountsGenerator_Deterministic(t *testing.T) {
	a := NewCountsGenerator(DefaultCountsConfig()).Generate()
	b := NewCountsGenerator(DefaultCountsConfig()).Generate()
	assert.Equal(t, a, b)
}

func TestCountsGenerator_Shape(t *testing.T) {
	cfg := DefaultCountsConfig()
	cfg.Levels = 9
	cfg.RowsPerLevel = 3
	ds := NewCountsGenerator(cfg).Generate()

	assert.Equal(t, []string{"Level", "Negative", "Positive"}, ds.Headers)
	assert.Equal(t, 27, ds.NumRows())

	levels, err := contingency.Levels(ds, 0)
	require.NoError(t, err)
	require.Len(t, levels, 9)
	for i, l := range levels {
		assert.Equal(t, LevelName(i), l)
	}
}

func TestCountsGenerator_CountsParse(t *testing.T) {
	ds := NewCountsGenerator(DefaultCountsConfig()).Generate()
	for _, idx := range []int{1, 2} {
		counts, err := ds.Counts(idx)
		require.NoError(t, err)
		for _, c := range counts {
			assert.GreaterOrEqual(t, c, int64(0))
			assert.LessOrEqual(t, c, int64(60))
		}
	}

	tables, err := contingency.BuildTables(ds, dataset.Selection{Categorical: "1", Numeric1: "2", Numeric2: "3"})
	require.NoError(t, err)
	assert.Len(t, tables, 6)
}
