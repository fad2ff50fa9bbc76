package stats

import (
	"math"

	"gocontab/domain/contingency"
)

// ============================================================================
// TEST OUTCOMES
// ============================================================================

// TestKind tags which independence test produced an outcome
type TestKind string

const (
	TestChiSquare TestKind = "Chi-squared"
	TestExact     TestKind = "Fisher"
)

// ChiSquareResult holds the chi-square specific fields of an outcome
type ChiSquareResult struct {
	Statistic        float64 `json:"statistic"`
	DegreesOfFreedom int     `json:"degrees_of_freedom"`
	YatesApplied     bool    `json:"yates_applied"`
}

// ExactResult holds the Fisher exact specific fields of an outcome.
// ConfidenceInterval is never computed and stays nil.
type ExactResult struct {
	OddsRatio          float64     `json:"odds_ratio"`
	ConfidenceInterval *[2]float64 `json:"confidence_interval,omitempty"`
}

// TestOutcome is the result of the independence test for one level.
// Exactly one of ChiSquare / Exact is set, matching Kind.
type TestOutcome struct {
	Level     string           `json:"level"`
	Kind      TestKind         `json:"kind"`
	PValue    float64          `json:"p_value"`
	ChiSquare *ChiSquareResult `json:"chi_square,omitempty"`
	Exact     *ExactResult     `json:"exact,omitempty"`
}

// NewChiSquareOutcome builds a chi-square tagged outcome
func NewChiSquareOutcome(level string, statistic float64, df int, pValue float64, yates bool) TestOutcome {
	return TestOutcome{
		Level:  level,
		Kind:   TestChiSquare,
		PValue: pValue,
		ChiSquare: &ChiSquareResult{
			Statistic:        statistic,
			DegreesOfFreedom: df,
			YatesApplied:     yates,
		},
	}
}

// NewExactOutcome builds an exact-test tagged outcome
func NewExactOutcome(level string, pValue, oddsRatio float64) TestOutcome {
	return TestOutcome{
		Level:  level,
		Kind:   TestExact,
		PValue: pValue,
		Exact:  &ExactResult{OddsRatio: oddsRatio},
	}
}

// YatesApplied reports whether a continuity correction was used
func (o TestOutcome) YatesApplied() bool {
	return o.ChiSquare != nil && o.ChiSquare.YatesApplied
}

// SignificanceCode is the star notation of an adjusted p-value
type SignificanceCode string

const (
	SignifHighly SignificanceCode = "***"
	SignifVery   SignificanceCode = "**"
	SignifSome   SignificanceCode = "*"
	SignifNone   SignificanceCode = "NS"
)

// SignifLegend explains the significance codes next to printed results
const SignifLegend = "*** = p<0.001; ** = p<0.01; * = p<0.05; NS = not significant"

// CorrectedOutcome is a TestOutcome after family-wise correction and classification
type CorrectedOutcome struct {
	TestOutcome
	AdjustedPValue   float64          `json:"adjusted_p_value"`
	SignificanceCode SignificanceCode `json:"signif"`
}

// LevelResult pairs a level's table with its outcome; Err is set when the level was skipped
type LevelResult struct {
	Table   contingency.Table
	Outcome TestOutcome
	Err     error
}

// Skipped reports whether the level was excluded from the analysis
func (r LevelResult) Skipped() bool {
	return r.Err != nil
}

// NonFiniteText returns the written form of an infinite or NaN statistic.
// An odds ratio with an empty off-diagonal is +Inf and is written "inf".
func NonFiniteText(v float64) (string, bool) {
	switch {
	case math.IsInf(v, 1):
		return "inf", true
	case math.IsInf(v, -1):
		return "-inf", true
	case math.IsNaN(v):
		return "nan", true
	}
	return "", false
}
