// Package controller provides output adapters for displaying analysis results.
package controller

import (
	"context"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	m "perfeq.dev/pkg/perfeq/internal/model"
)

// UI defines the interface for reporting the progress and results of a run.
// Implementations can use different output methods (plain text, progress
// bars, etc). DisplayUnitAnalyzed is called from worker goroutines.
type UI interface {
	Start(ctx context.Context, total int) error
	Close(ctx context.Context)
	DisplayRunInfo(ctx context.Context, units int, threads int)
	DisplayUnitAnalyzed(ctx context.Context, unit m.SourceUnit, raw m.RawToolOutput)
	DisplayResult(ctx context.Context, result m.AnalysisResult) error
	DisplaySummary(ctx context.Context, results []m.AnalysisResult, reportPath m.Path) error
	DisplayReport(ctx context.Context, rows []m.ReportRow) error
}

// NewUI returns the UI for the command's output. Progress bars, styled
// headings and the pager are only used on terminals.
func NewUI(cmd *cobra.Command, tty bool) UI {
	if tty {
		return NewTUI(cmd)
	}

	return NewSimpleUI(cmd, false)
}

// IsTTY reports whether f is attached to a terminal.
func IsTTY(f *os.File) bool {
	if f == nil {
		return false
	}

	fd := f.Fd()

	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
