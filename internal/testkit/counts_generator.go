package testkit

import (
	"fmt"
	"math/rand"
	"slices"
	"strconv"
	"strings"

	"gocontab/domain/dataset"
)

// CountsGeneratorConfig configures the synthetic count data generator
type CountsGeneratorConfig struct {
	Variable     string   `json:"variable"`
	Outcomes     []string `json:"outcomes"`
	Levels       int      `json:"levels"`
	RowsPerLevel int      `json:"rows_per_level"`
	MaxCount     int      `json:"max_count"`
	// EffectLevels get their second outcome inflated by EffectSize
	EffectLevels []int   `json:"effect_levels"`
	EffectSize   float64 `json:"effect_size"`
	Seed         int64   `json:"seed"`
}

// DefaultCountsConfig returns a small table with one strongly associated level
func DefaultCountsConfig() CountsGeneratorConfig {
	return CountsGeneratorConfig{
		Variable:     "Level",
		Outcomes:     []string{"Negative", "Positive"},
		Levels:       6,
		RowsPerLevel: 4,
		MaxCount:     20,
		EffectLevels: []int{0},
		EffectSize:   3.0,
		Seed:         42,
	}
}

// CountsGenerator produces deterministic datasets of per-row outcome counts
type CountsGenerator struct {
	config CountsGeneratorConfig
	rng    *rand.Rand
}

// NewCountsGenerator creates a generator seeded from config
func NewCountsGenerator(config CountsGeneratorConfig) *CountsGenerator {
	return &CountsGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// LevelName is the label of the i-th generated level
func LevelName(i int) string {
	return fmt.Sprintf("L%02d", i)
}

// Generate builds a dataset whose rows are shuffled across levels
func (g *CountsGenerator) Generate() *dataset.Dataset {
	headers := append([]string{g.config.Variable}, g.config.Outcomes...)

	effect := make(map[int]bool, len(g.config.EffectLevels))
	for _, l := range g.config.EffectLevels {
		effect[l] = true
	}

	var rows [][]string
	for level := 0; level < g.config.Levels; level++ {
		for r := 0; r < g.config.RowsPerLevel; r++ {
			row := []string{LevelName(level)}
			for o := range g.config.Outcomes {
				count := g.randomCount()
				if effect[level] && o == len(g.config.Outcomes)-1 {
					count = int(float64(count) * g.config.EffectSize)
				}
				row = append(row, strconv.Itoa(count))
			}
			rows = append(rows, row)
		}
	}

	// Interleave levels but keep first appearance order L00, L01, ...
	g.rng.Shuffle(len(rows), func(i, j int) {
		rows[i], rows[j] = rows[j], rows[i]
	})
	rows = firstOfEachLevelUpFront(rows, g.config.Levels)

	return dataset.NewDataset("synthetic", headers, rows)
}

// randomCount is skewed toward small counts so some levels trip the exact test
func (g *CountsGenerator) randomCount() int {
	weights := []float64{0.15, 0.35, 0.5}
	bands := [][2]int{{0, 2}, {3, g.config.MaxCount / 2}, {g.config.MaxCount / 2, g.config.MaxCount}}

	r := g.rng.Float64()
	cumulative := 0.0
	for i, weight := range weights {
		cumulative += weight
		if r <= cumulative {
			lo, hi := bands[i][0], bands[i][1]
			if hi <= lo {
				return lo
			}
			return lo + g.rng.Intn(hi-lo+1)
		}
	}
	return g.config.MaxCount
}

// firstOfEachLevelUpFront moves one row of every level to the front in level order
func firstOfEachLevelUpFront(rows [][]string, levels int) [][]string {
	seen := make(map[string]bool, levels)
	head := make([][]string, 0, levels)
	tail := make([][]string, 0, len(rows))
	for _, row := range rows {
		if !seen[row[0]] {
			seen[row[0]] = true
			head = append(head, row)
			continue
		}
		tail = append(tail, row)
	}
	slices.SortFunc(head, func(a, b []string) int {
		return strings.Compare(a[0], b[0])
	})
	return append(head, tail...)
}
