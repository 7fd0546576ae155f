package domain

import m "perfeq.dev/pkg/perfeq/internal/model"

// MetricsInput collects the counts the quality ratios are computed from.
type MetricsInput struct {
	Warnings           int
	Lines              int
	VariableWarnings   int
	Variables          int
	FunctionWarnings   int
	Functions          int
	FormattingWarnings int
}

// CalculateMetrics computes the four quality ratios. A ratio whose
// denominator is zero or negative (an unavailable structural count) is 0.
func CalculateMetrics(in MetricsInput) m.Metrics {
	return m.Metrics{
		WarningsPerLine:       ratio(in.Warnings, in.Lines),
		VariableWarningRate:   ratio(in.VariableWarnings, in.Variables),
		FunctionWarningRate:   ratio(in.FunctionWarnings, in.Functions),
		FormattingWarningRate: ratio(in.FormattingWarnings, in.Lines),
	}
}

func ratio(numerator, denominator int) float64 {
	if denominator <= 0 {
		return 0
	}

	return float64(numerator) / float64(denominator)
}

// NewAnalysisResult assembles the result of one unit from its structural
// count and decoded warnings.
func NewAnalysisResult(unit m.SourceUnit, counts m.StructuralCount, decoded m.DecodedUnit) m.AnalysisResult {
	lines := unit.Lines()

	return m.AnalysisResult{
		Path:        unit.Path,
		Warnings:    decoded.Warnings,
		LinesOfCode: lines,
		Counts:      counts,
		Tally:       decoded.Tally,
		Metrics: CalculateMetrics(MetricsInput{
			Warnings:           len(decoded.Warnings),
			Lines:              lines,
			VariableWarnings:   decoded.Tally.Variable,
			Variables:          counts.Variables,
			FunctionWarnings:   decoded.Tally.Function,
			Functions:          counts.Functions,
			FormattingWarnings: decoded.Tally.Formatting,
		}),
	}
}
