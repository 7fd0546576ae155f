package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"

	"perfeq.dev/pkg/perfeq/internal/adapter"
	"perfeq.dev/pkg/perfeq/internal/controller"
	m "perfeq.dev/pkg/perfeq/internal/model"
)

// ErrNoSources is returned when the given paths contain no analyzable file.
var ErrNoSources = errors.New("no Python or C source files found")

// AnalyzeArgs contains the arguments of an analysis run.
type AnalyzeArgs struct {
	Paths   []m.Path
	Exclude []string
	Reports m.Path
	Threads int
}

// Workflow runs a complete analysis: discovery, tools, decoding, metrics
// and presentation.
type Workflow interface {
	Analyze(ctx context.Context, args AnalyzeArgs) ([]m.AnalysisResult, error)
	View(ctx context.Context, report m.Path) error
}

type workflow struct {
	adapter.SourceFSAdapter
	adapter.ReportStore
	controller.UI
	Orchestrator
	Decoder
}

// NewWorkflow creates a new Workflow instance with the provided dependencies.
func NewWorkflow(
	fsAdapter adapter.SourceFSAdapter,
	reportStore adapter.ReportStore,
	ui controller.UI,
	orchestrator Orchestrator,
	decoder Decoder,
) Workflow {
	return &workflow{
		SourceFSAdapter: fsAdapter,
		ReportStore:     reportStore,
		UI:              ui,
		Orchestrator:    orchestrator,
		Decoder:         decoder,
	}
}

// Analyze runs the whole pipeline. A single unit is reported on the
// console; several units are saved as CSV under args.Reports and
// summarized. Only discovery errors abort the run.
func (w *workflow) Analyze(ctx context.Context, args AnalyzeArgs) ([]m.AnalysisResult, error) {
	units, err := w.Get(ctx, args.Paths, args.Exclude...)
	if err != nil {
		slog.Error("Failed to discover sources", "paths", args.Paths, "error", err)
		return nil, fmt.Errorf("get sources: %w", err)
	}

	if len(units) == 0 {
		return nil, ErrNoSources
	}

	threads := args.Threads
	if threads <= 0 {
		threads = runtime.NumCPU()
	}

	results, err := w.analyzeUnits(ctx, units, threads)
	if err != nil {
		return nil, err
	}

	if err := w.present(ctx, args.Reports, results); err != nil {
		return results, err
	}

	return results, nil
}

func (w *workflow) analyzeUnits(ctx context.Context, units []m.SourceUnit, threads int) ([]m.AnalysisResult, error) {
	w.DisplayRunInfo(ctx, len(units), threads)

	if err := w.Start(ctx, len(units)); err != nil {
		slog.Error("Failed to start UI", "error", err)
		return nil, err
	}

	collected, err := w.Orchestrator.Analyze(ctx, units, threads, func(unit m.SourceUnit, raw m.RawToolOutput) {
		w.DisplayUnitAnalyzed(ctx, unit, raw)
	})

	w.Close(ctx)

	if err != nil {
		slog.Error("Failed to run tools", "error", err)
		return nil, fmt.Errorf("run tools: %w", err)
	}

	decoded, err := w.Decode(ctx, collected.Raw)
	if err != nil {
		slog.Error("Failed to decode tool output", "error", err)
		return nil, fmt.Errorf("decode: %w", err)
	}

	results := make([]m.AnalysisResult, 0, len(units))

	for _, unit := range units {
		counts, ok := collected.Counts[unit.Path]
		if !ok {
			continue
		}

		results = append(results, NewAnalysisResult(unit, counts, decoded[unit.Path]))
	}

	return results, nil
}

func (w *workflow) present(ctx context.Context, reports m.Path, results []m.AnalysisResult) error {
	if len(results) == 1 {
		return w.DisplayResult(ctx, results[0])
	}

	reportPath, err := w.SaveResults(reports, results)
	if err != nil {
		slog.Error("Failed to save report", "dir", reports, "error", err)
		return fmt.Errorf("save report: %w", err)
	}

	return w.DisplaySummary(ctx, results, reportPath)
}

// View displays a report saved by a previous multi-file run.
func (w *workflow) View(ctx context.Context, report m.Path) error {
	rows, err := w.LoadResults(report)
	if err != nil {
		slog.Error("Failed to load report", "path", report, "error", err)
		return fmt.Errorf("load report: %w", err)
	}

	return w.DisplayReport(ctx, rows)
}
