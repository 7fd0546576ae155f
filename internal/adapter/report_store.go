package adapter

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	m "perfeq.dev/pkg/perfeq/internal/model"
)

// ReportFileName is the name of the CSV written for multi-file runs.
const ReportFileName = "perfeq_output.csv"

// NotAvailable is written in place of a structural count that could not be
// computed.
const NotAvailable = "n/a"

// ReportHeader lists the CSV columns in order.
var ReportHeader = []string{
	"code_id", "LOC", "warnings_qty", "WPL",
	"variable_warnings_qty", "variables_qty", "VWPV",
	"function_warnings_qty", "functions_qty", "FWPF",
	"formatting_warnings_qty", "FWPL",
}

// ErrMalformedReport is returned when a stored report cannot be parsed.
var ErrMalformedReport = errors.New("malformed report")

// ReportStore persists analysis results as CSV.
type ReportStore interface {
	SaveResults(dir m.Path, results []m.AnalysisResult) (m.Path, error)
	LoadResults(path m.Path) ([]m.ReportRow, error)
}

type csvReportStore struct{}

// NewReportStore creates a CSV backed ReportStore.
func NewReportStore() ReportStore {
	return &csvReportStore{}
}

// SaveResults writes one row per result to dir/perfeq_output.csv, creating
// dir when needed, and returns the file path.
func (s *csvReportStore) SaveResults(dir m.Path, results []m.AnalysisResult) (m.Path, error) {
	if err := os.MkdirAll(string(dir), 0o750); err != nil {
		return "", fmt.Errorf("create reports dir: %w", err)
	}

	path := filepath.Join(string(dir), ReportFileName)

	// #nosec G304 - the reports directory is chosen by the user
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create report: %w", err)
	}

	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			slog.Error("Failed to close report", "path", path, "error", closeErr)
		}
	}()

	if err := WriteResults(file, results); err != nil {
		return "", err
	}

	slog.Info("Saved report", "path", path, "rows", len(results))

	return m.Path(path), nil
}

// WriteResults writes the CSV header and one row per result to w.
func WriteResults(w io.Writer, results []m.AnalysisResult) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(ReportHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, result := range results {
		if err := writer.Write(FormatRow(result).Fields()); err != nil {
			return fmt.Errorf("write row %s: %w", result.Path, err)
		}
	}

	writer.Flush()

	return writer.Error()
}

// FormatRow renders a result into its CSV representation.
func FormatRow(result m.AnalysisResult) m.ReportRow {
	variables := NotAvailable
	functions := NotAvailable

	if result.Counts.Available() {
		variables = strconv.Itoa(result.Counts.Variables)
		functions = strconv.Itoa(result.Counts.Functions)
	}

	return m.ReportRow{
		CodeID:             string(result.Path),
		LOC:                strconv.Itoa(result.LinesOfCode),
		Warnings:           strconv.Itoa(len(result.Warnings)),
		WPL:                FormatPercent(result.Metrics.WarningsPerLine),
		VariableWarnings:   strconv.Itoa(result.Tally.Variable),
		Variables:          variables,
		VWPV:               FormatPercent(result.Metrics.VariableWarningRate),
		FunctionWarnings:   strconv.Itoa(result.Tally.Function),
		Functions:          functions,
		FWPF:               FormatPercent(result.Metrics.FunctionWarningRate),
		FormattingWarnings: strconv.Itoa(result.Tally.Formatting),
		FWPL:               FormatPercent(result.Metrics.FormattingWarningRate),
	}
}

// FormatPercent renders a ratio as a percentage with two decimals.
func FormatPercent(ratio float64) string {
	return strconv.FormatFloat(ratio*100, 'f', 2, 64)
}

// LoadResults reads a CSV report written by SaveResults.
func (s *csvReportStore) LoadResults(path m.Path) ([]m.ReportRow, error) {
	// #nosec G304 - the report path is chosen by the user
	file, err := os.Open(string(path))
	if err != nil {
		return nil, fmt.Errorf("open report: %w", err)
	}

	defer func() { _ = file.Close() }()

	return ReadResults(file)
}

// ReadResults parses a CSV report.
func ReadResults(r io.Reader) ([]m.ReportRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(ReportHeader)

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedReport, err)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("%w: missing header", ErrMalformedReport)
	}

	if records[0][0] != ReportHeader[0] {
		return nil, fmt.Errorf("%w: unexpected header %q", ErrMalformedReport, records[0][0])
	}

	rows := make([]m.ReportRow, 0, len(records)-1)

	for _, record := range records[1:] {
		rows = append(rows, m.ReportRow{
			CodeID:             record[0],
			LOC:                record[1],
			Warnings:           record[2],
			WPL:                record[3],
			VariableWarnings:   record[4],
			Variables:          record[5],
			VWPV:               record[6],
			FunctionWarnings:   record[7],
			Functions:          record[8],
			FWPF:               record[9],
			FormattingWarnings: record[10],
			FWPL:               record[11],
		})
	}

	return rows, nil
}
