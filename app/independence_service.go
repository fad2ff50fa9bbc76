package app

import (
	"context"
	"fmt"
	"time"

	"gocontab/adapters/stats/correction"
	"gocontab/adapters/stats/independence"
	"gocontab/domain/contingency"
	"gocontab/domain/core"
	"gocontab/domain/dataset"
	"gocontab/domain/results"
	"gocontab/domain/stats"
	"gocontab/internal"
	"gocontab/ports"

	"golang.org/x/sync/errgroup"
)

// IndependenceService runs the one-vs-rest independence analysis for every level
// of a categorical variable as a two-phase pipeline: a per-level map (table + test),
// then, after a barrier, the family-wise correction and result assembly.
type IndependenceService struct {
	selector *independence.Selector
	logger   *internal.Logger
	workers  int
}

// AnalysisRequest defines the inputs of one analysis
type AnalysisRequest struct {
	Dataset   *dataset.Dataset
	Selection dataset.Selection
	RunID     core.RunID // optional, generated if empty
}

// Analysis is the complete output of one analysis
type Analysis struct {
	RunID       core.RunID            `json:"run_id"`
	Results     results.ResultsTable  `json:"results"`
	Contingency results.CombinedTable `json:"contingency"`
	Skipped     []ports.SkippedLevel  `json:"skipped,omitempty"`
	LevelsSeen  int                   `json:"levels_seen"`
	RuntimeMs   int64                 `json:"runtime_ms"`
}

// NewIndependenceService creates the service; workers <= 0 means sequential
func NewIndependenceService(logger *internal.Logger, workers int) *IndependenceService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	if workers <= 0 {
		workers = 1
	}
	return &IndependenceService{
		selector: independence.NewSelector(),
		logger:   logger,
		workers:  workers,
	}
}

// Analyze validates the selection, tests every level and corrects the p-values.
// Validation failures abort before any test runs. Degenerate levels are skipped.
func (s *IndependenceService) Analyze(ctx context.Context, req AnalysisRequest) (*Analysis, error) {
	startTime := time.Now()

	runID := req.RunID
	if runID == "" {
		runID = core.NewRunID()
	}
	if req.Dataset == nil {
		return nil, core.NewValidationError("dataset", "no dataset supplied")
	}

	input, err := contingency.Prepare(req.Dataset, req.Selection)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("run %s: %d levels of %q against %v", runID, len(input.Levels), input.Variable, input.Outcomes)

	levelResults, err := s.testLevels(ctx, input)
	if err != nil {
		return nil, err
	}

	// Barrier passed: every level has an outcome or a skip reason.
	analysis := s.assemble(input, levelResults)
	analysis.RunID = runID
	analysis.RuntimeMs = time.Since(startTime).Milliseconds()

	s.logger.Info("run %s: tested %d of %d levels of %q in %dms",
		runID, len(analysis.Results.Rows), analysis.LevelsSeen, input.Variable, analysis.RuntimeMs)
	return analysis, nil
}

// testLevels is phase 1. Each worker writes only its own slot, so results keep level order.
func (s *IndependenceService) testLevels(ctx context.Context, input *contingency.Input) ([]stats.LevelResult, error) {
	levelResults := make([]stats.LevelResult, len(input.Levels))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i, level := range input.Levels {
		g.Go(func() error {
			table := input.Build(level)
			outcome, err := s.selector.Run(gctx, table)
			if err != nil {
				if core.IsDegenerateTableError(err) {
					levelResults[i] = stats.LevelResult{Table: table, Err: err}
					return nil
				}
				return fmt.Errorf("level %q: %w", level, err)
			}
			s.logger.Trace("level %q: %s p=%g", level, outcome.Kind, outcome.PValue)
			levelResults[i] = stats.LevelResult{Table: table, Outcome: outcome}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return levelResults, nil
}

// assemble is phase 2: correction, classification and output tables
func (s *IndependenceService) assemble(input *contingency.Input, levelResults []stats.LevelResult) *Analysis {
	var outcomes []stats.TestOutcome
	var tables []contingency.Table
	var skipped []ports.SkippedLevel

	for _, r := range levelResults {
		if r.Skipped() {
			s.logger.Warn("skipping level %q: %v", r.Table.Level, r.Err)
			skipped = append(skipped, ports.SkippedLevel{Level: r.Table.Level, Reason: r.Err.Error()})
			continue
		}
		outcomes = append(outcomes, r.Outcome)
		tables = append(tables, r.Table)
	}

	if len(outcomes) == 0 {
		s.logger.Warn("no level of %q could be tested", input.Variable)
	}

	corrected := correction.Correct(outcomes)
	return &Analysis{
		Results:     results.Assemble(input.Variable, corrected),
		Contingency: results.Combine(input.Variable, input.Outcomes, tables),
		Skipped:     skipped,
		LevelsSeen:  len(input.Levels),
	}
}
