package app

import (
	"context"

	"gocontab/domain/core"
	"gocontab/domain/dataset"
	"gocontab/domain/stats"
	"gocontab/internal/errors"
	"gocontab/ports"
)

// RunService wires the reader, the analysis and the output collaborators together
type RunService struct {
	reader   ports.DatasetReader
	writer   ports.TableWriter
	reporter ports.Reporter
	analysis *IndependenceService
}

// RunRequest describes one end-to-end run
type RunRequest struct {
	Source          string
	Selection       dataset.Selection
	ResultsPath     string
	ContingencyPath string
}

// NewRunService creates a run service; reporter may be nil
func NewRunService(reader ports.DatasetReader, writer ports.TableWriter, reporter ports.Reporter, analysis *IndependenceService) *RunService {
	return &RunService{
		reader:   reader,
		writer:   writer,
		reporter: reporter,
		analysis: analysis,
	}
}

// Execute reads the dataset, analyses it, reports the results and writes both workbooks
func (s *RunService) Execute(ctx context.Context, req RunRequest) (*Analysis, error) {
	ds, err := s.reader.ReadDataset(ctx)
	if err != nil {
		return nil, errors.WithCode(errors.CodeIOError, errors.Wrapf(err, "failed to read %s", req.Source))
	}

	analysis, err := s.analysis.Analyze(ctx, AnalysisRequest{Dataset: ds, Selection: req.Selection})
	if err != nil {
		code := errors.CodeInternalError
		if core.IsValidationError(err) {
			code = errors.CodeValidationError
		}
		return nil, errors.WithCode(code, errors.Wrap(err, "analysis failed"))
	}

	if s.reporter != nil {
		report := ports.AnalysisReport{
			RunID:    analysis.RunID.String(),
			Source:   req.Source,
			Results:  analysis.Results,
			Skipped:  analysis.Skipped,
			Legend:   stats.SignifLegend,
			Duration: analysis.RuntimeMs,
		}
		if err := s.reporter.Report(report); err != nil {
			return nil, errors.Wrap(err, "failed to report results")
		}
	}

	if err := s.writer.WriteResults(ctx, req.ResultsPath, analysis.Results); err != nil {
		return nil, errors.WithCode(errors.CodeIOError, errors.Wrapf(err, "failed to write %s", req.ResultsPath))
	}
	if err := s.writer.WriteContingency(ctx, req.ContingencyPath, analysis.Contingency); err != nil {
		return nil, errors.WithCode(errors.CodeIOError, errors.Wrapf(err, "failed to write %s", req.ContingencyPath))
	}
	return analysis, nil
}
