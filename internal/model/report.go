package model

// ToolOutput is the text captured from one tool invocation.
type ToolOutput struct {
	Command  string
	Language Language
	Success  bool
	Text     string
}

// ToolFailure records a command that could not be executed at all.
type ToolFailure struct {
	Command string
	Err     error
}

// RawToolOutput holds the ordered tool outputs of a unit.
type RawToolOutput struct {
	Outputs  []ToolOutput
	Failures []ToolFailure
}

// Metrics holds the normalized quality ratios of a unit. Values are plain
// ratios, not percentages.
type Metrics struct {
	WarningsPerLine       float64
	VariableWarningRate   float64
	FunctionWarningRate   float64
	FormattingWarningRate float64
}

// AnalysisResult aggregates everything known about one unit after a run.
type AnalysisResult struct {
	Path        Path
	Warnings    []WarningRecord
	LinesOfCode int
	Counts      StructuralCount
	Tally       CategoryTally
	Metrics     Metrics
}

// ReportRow is one CSV row as stored on disk. Ratio columns are percentages
// already formatted with two decimals.
type ReportRow struct {
	CodeID             string
	LOC                string
	Warnings           string
	WPL                string
	VariableWarnings   string
	Variables          string
	VWPV               string
	FunctionWarnings   string
	Functions          string
	FWPF               string
	FormattingWarnings string
	FWPL               string
}

// Fields returns the row in column order.
func (r ReportRow) Fields() []string {
	return []string{
		r.CodeID, r.LOC, r.Warnings, r.WPL,
		r.VariableWarnings, r.Variables, r.VWPV,
		r.FunctionWarnings, r.Functions, r.FWPF,
		r.FormattingWarnings, r.FWPL,
	}
}
