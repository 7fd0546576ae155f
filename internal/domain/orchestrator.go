package domain

import (
	"context"
	"log/slog"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"perfeq.dev/pkg/perfeq/internal/adapter"
	m "perfeq.dev/pkg/perfeq/internal/model"
)

// Collected holds what the orchestrator gathered for every analyzed unit.
type Collected struct {
	Counts map[m.Path]m.StructuralCount
	Raw    map[m.Path]m.RawToolOutput
}

// UnitDoneFunc is called from worker goroutines each time the tools of a
// unit finished. It must be safe for concurrent use.
type UnitDoneFunc func(unit m.SourceUnit, raw m.RawToolOutput)

// Orchestrator runs the structural counter and the external tools for every
// unit of a run.
type Orchestrator interface {
	Analyze(ctx context.Context, units []m.SourceUnit, threads int, onDone UnitDoneFunc) (Collected, error)
}

type orchestrator struct {
	toolAdapter adapter.ToolRunnerAdapter
}

// NewOrchestrator constructs an Orchestrator backed by the provided tool
// runner adapter.
func NewOrchestrator(toolAdapter adapter.ToolRunnerAdapter) Orchestrator {
	return &orchestrator{
		toolAdapter: toolAdapter,
	}
}

// Analyze counts every unit sequentially, then runs the tools on a pool of
// threads workers (the number of CPUs when threads <= 0). It returns only
// once every scheduled unit has finished. Units of unknown language are
// skipped.
func (o *orchestrator) Analyze(ctx context.Context, units []m.SourceUnit, threads int, onDone UnitDoneFunc) (Collected, error) {
	collected := Collected{
		Counts: make(map[m.Path]m.StructuralCount, len(units)),
		Raw:    make(map[m.Path]m.RawToolOutput, len(units)),
	}

	known := make([]m.SourceUnit, 0, len(units))

	for _, unit := range units {
		if !unit.Language.Known() {
			slog.Debug("Skipping unit of unknown language", "path", unit.Path)
			continue
		}

		collected.Counts[unit.Path] = CountStructure(unit)
		known = append(known, unit)
	}

	if threads <= 0 {
		threads = runtime.NumCPU()
	}

	slog.Debug("Running tools", "units", len(known), "threads", threads)

	var (
		rawMutex sync.Mutex
		group    errgroup.Group
	)

	group.SetLimit(threads)

	for _, unit := range known {
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			raw := o.toolAdapter.RunTools(ctx, unit.Path, unit.Language)
			for _, failure := range raw.Failures {
				slog.Warn("Tool output omitted", "path", unit.Path, "command", failure.Command, "error", failure.Err)
			}

			rawMutex.Lock()

			collected.Raw[unit.Path] = raw

			rawMutex.Unlock()

			if onDone != nil {
				onDone(unit, raw)
			}

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return Collected{}, err
	}

	return collected, nil
}
