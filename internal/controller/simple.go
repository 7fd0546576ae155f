package controller

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"perfeq.dev/pkg/perfeq/internal/adapter"
	m "perfeq.dev/pkg/perfeq/internal/model"
)

var headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))

// SimpleUI implements UI using cobra Command's output streams.
type SimpleUI struct {
	cmd         *cobra.Command
	interactive bool

	mu  sync.Mutex
	bar *progressbar.ProgressBar
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command, interactive bool) *SimpleUI {
	return &SimpleUI{cmd: cmd, interactive: interactive}
}

// Start shows a progress bar over total units on interactive terminals.
func (s *SimpleUI) Start(ctx context.Context, total int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if !s.interactive || total == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(s.cmd.ErrOrStderr()),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowBytes(false),
		progressbar.OptionSetWidth(18),
		progressbar.OptionSetDescription("Analyzing"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	return nil
}

// Close finishes the progress bar.
func (s *SimpleUI) Close(_ context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.bar != nil {
		_ = s.bar.Finish()
		s.bar = nil
	}
}

// DisplayRunInfo shows how many units are analyzed and with how many workers.
func (s *SimpleUI) DisplayRunInfo(ctx context.Context, units int, threads int) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.errorf("Analyzing %d file(s) with %d worker(s)\n", units, threads)
}

// DisplayUnitAnalyzed advances the progress bar and reports tool failures.
func (s *SimpleUI) DisplayUnitAnalyzed(ctx context.Context, unit m.SourceUnit, raw m.RawToolOutput) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, failure := range raw.Failures {
		s.errorf("%s: %s: %v\n", unit.Path, failure.Command, failure.Err)
	}

	if s.bar != nil {
		_ = s.bar.Add(1)
	}
}

// DisplayResult prints the warnings and metrics of a single unit.
func (s *SimpleUI) DisplayResult(ctx context.Context, result m.AnalysisResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.printf("%s", s.renderResult(result))

	return nil
}

func (s *SimpleUI) renderResult(result m.AnalysisResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n\n", s.heading("Warnings:"))

	for _, warning := range result.Warnings {
		fmt.Fprintf(&b, "[%d] - %s\n", warning.Line, warning.Message)
	}

	fmt.Fprintf(&b, "\n\n%s\n\n", s.heading("Metrics:"))
	fmt.Fprintf(&b, "Warnings per lines of code (WPL) - %s%%\n\n", adapter.FormatPercent(result.Metrics.WarningsPerLine))
	fmt.Fprintf(&b, "Variable Warnings per number of variables (VWPV) - %s%%\n\n", adapter.FormatPercent(result.Metrics.VariableWarningRate))
	fmt.Fprintf(&b, "Function Warnings per number of functions (FWPF) - %s%%\n\n", adapter.FormatPercent(result.Metrics.FunctionWarningRate))
	fmt.Fprintf(&b, "Formatting warnings per lines of code (FWPL) - %s%%\n", adapter.FormatPercent(result.Metrics.FormattingWarningRate))

	if !result.Counts.Available() {
		fmt.Fprintf(&b, "\nStructure of %s could not be counted; VWPV and FWPF are reported as 0%%.\n", result.Path)
	}

	return b.String()
}

// DisplaySummary prints one table row per unit and where the CSV was saved.
func (s *SimpleUI) DisplaySummary(ctx context.Context, results []m.AnalysisResult, reportPath m.Path) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	rows := formatRows(results)

	s.printf("\n%s", renderSummaryTable(rows))

	if reportPath != "" {
		s.printf("\nReport saved to %s\n", reportPath)
	}

	return nil
}

// DisplayReport prints a stored report.
func (s *SimpleUI) DisplayReport(ctx context.Context, rows []m.ReportRow) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.printf("%s", renderSummaryTable(rows))

	return nil
}

func formatRows(results []m.AnalysisResult) []m.ReportRow {
	rows := make([]m.ReportRow, 0, len(results))
	for _, result := range results {
		rows = append(rows, adapter.FormatRow(result))
	}

	return rows
}

func renderSummaryTable(rows []m.ReportRow) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Path", "LOC", "Warnings", "WPL %", "VWPV %", "FWPF %", "FWPL %"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
	})

	totalWarnings := 0

	for _, row := range rows {
		table.Append([]string{row.CodeID, row.LOC, row.Warnings, row.WPL, row.VWPV, row.FWPF, row.FWPL})

		if n, err := strconv.Atoi(row.Warnings); err == nil {
			totalWarnings += n
		}
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total Files %d", len(rows)),
		"",
		strconv.Itoa(totalWarnings),
		"", "", "", "",
	})

	table.Render()

	return tableBuffer.String()
}

func (s *SimpleUI) heading(text string) string {
	if !s.interactive {
		return text
	}

	return headingStyle.Render(text)
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}

func (s *SimpleUI) errorf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.ErrOrStderr(), format, args...)
}
