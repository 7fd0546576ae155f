package controller

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	m "perfeq.dev/pkg/perfeq/internal/model"
)

// pagerChromeLines is the number of lines the pager draws around the content.
const pagerChromeLines = 3

// TUI implements UI for interactive terminals. Progress is reported like
// SimpleUI; results that do not fit the terminal are shown in a pager.
type TUI struct {
	*SimpleUI
	output io.Writer
}

// NewTUI creates a new TUI writing to the command's output.
func NewTUI(cmd *cobra.Command) *TUI {
	return &TUI{
		SimpleUI: NewSimpleUI(cmd, true),
		output:   cmd.OutOrStdout(),
	}
}

// DisplayResult shows the warnings and metrics of a single unit.
func (p *TUI) DisplayResult(ctx context.Context, result m.AnalysisResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return p.page(ctx, string(result.Path), p.renderResult(result), "")
}

// DisplaySummary shows the summary table of a multi-file run.
func (p *TUI) DisplaySummary(ctx context.Context, results []m.AnalysisResult, reportPath m.Path) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	status := ""
	if reportPath != "" {
		status = fmt.Sprintf("Report saved to %s", reportPath)
	}

	return p.page(ctx, "Summary", renderSummaryTable(formatRows(results)), status)
}

// DisplayReport shows a stored report.
func (p *TUI) DisplayReport(ctx context.Context, rows []m.ReportRow) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return p.page(ctx, "Report", renderSummaryTable(rows), "")
}

// page prints content directly when it fits the terminal and opens a pager
// otherwise. The status line is printed after the pager exits so it stays
// on screen.
func (p *TUI) page(ctx context.Context, title, content, status string) error {
	width, height := terminalSize(p.output)
	model := newReportPager(title, content, width, height)

	if !model.needsPagination() {
		p.printf("%s", content)
	} else {
		program := tea.NewProgram(model, tea.WithOutput(p.output), tea.WithAltScreen(), tea.WithContext(ctx))
		if _, err := program.Run(); err != nil {
			return err
		}
	}

	if status != "" {
		p.printf("\n%s\n", status)
	}

	return nil
}

func terminalSize(output io.Writer) (int, int) {
	f, ok := output.(*os.File)
	if !ok {
		return 0, 0
	}

	width, height, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0, 0
	}

	return width, height
}

// reportPager is a scrollable view over rendered output.
type reportPager struct {
	title    string
	lines    int
	height   int
	viewport viewport.Model
}

func newReportPager(title, content string, width, height int) reportPager {
	vp := viewport.New(width, max(height-pagerChromeLines, 1))
	vp.SetContent(content)

	return reportPager{
		title:    title,
		lines:    strings.Count(content, "\n"),
		height:   height,
		viewport: vp,
	}
}

// needsPagination reports whether the content is taller than the terminal.
// An unknown terminal height never paginates.
func (rp reportPager) needsPagination() bool {
	if rp.height <= 0 {
		return false
	}

	return rp.lines+pagerChromeLines > rp.height
}

func (rp reportPager) Init() tea.Cmd {
	return nil
}

func (rp reportPager) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		rp.height = msg.Height
		rp.viewport.Width = msg.Width
		rp.viewport.Height = max(msg.Height-pagerChromeLines, 1)

		return rp, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return rp, tea.Quit
		}
	}

	var cmd tea.Cmd

	rp.viewport, cmd = rp.viewport.Update(msg)

	return rp, cmd
}

func (rp reportPager) View() string {
	var b strings.Builder

	b.WriteString(headingStyle.Render(rp.title))
	b.WriteString("\n")
	b.WriteString(rp.viewport.View())
	b.WriteString("\n")
	fmt.Fprintf(&b, "%3.0f%%  ↑/↓ pgup/pgdn scroll • q quit", rp.viewport.ScrollPercent()*100)

	return b.String()
}
