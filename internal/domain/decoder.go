package domain

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	m "perfeq.dev/pkg/perfeq/internal/model"
)

// Markers of the decorative lines pylint prints around its report.
const (
	pylintModuleDivider = "************* Module"
	pylintRuleDivider   = "-----------------------------------"
	pylintScoreDivider  = "Your code has been rated at"
)

const provenanceSeparator = ";"

// Decoder turns raw tool outputs into classified warnings.
type Decoder interface {
	Decode(ctx context.Context, raw map[m.Path]m.RawToolOutput) (map[m.Path]m.DecodedUnit, error)
}

// verdict is what a stage decides about a line.
type verdict int

const (
	// unclaimed lines are passed to the next stage.
	unclaimed verdict = iota
	// classified lines produce a warning.
	classified
	// discarded lines are recognized as noise and dropped.
	discarded
)

// decodeStage recognizes one upstream tool format.
type decodeStage struct {
	name    string
	detect  func(payload string) bool
	extract func(payload string) (m.WarningRecord, verdict)
}

// decodeLine is one normalized output line tagged as "<unit>;<tool line>".
type decodeLine struct {
	Unit m.Path
	Text string
}

// Payload returns the line as the tool printed it.
func (l decodeLine) Payload() string {
	return strings.TrimPrefix(l.Text, string(l.Unit)+provenanceSeparator)
}

type decoder struct {
	stages  []decodeStage
	workers int
}

// NewDecoder constructs a Decoder for naming-check, cpplint and pylint
// output. Units are decoded concurrently by at most workers goroutines;
// workers <= 0 means no limit.
func NewDecoder(workers int) Decoder {
	return &decoder{
		stages:  defaultStages(),
		workers: workers,
	}
}

func defaultStages() []decodeStage {
	return []decodeStage{
		{name: "naming-check", detect: isNamingCheckLine, extract: extractNamingCheck},
		{name: "cpplint", detect: isCpplintLine, extract: extractCpplint},
		{name: "pylint", detect: isPylintLine, extract: extractPylint},
	}
}

func (d *decoder) Decode(ctx context.Context, raw map[m.Path]m.RawToolOutput) (map[m.Path]m.DecodedUnit, error) {
	decoded := make(map[m.Path]m.DecodedUnit, len(raw))

	var (
		mu    sync.Mutex
		group errgroup.Group
	)

	if d.workers > 0 {
		group.SetLimit(d.workers)
	}

	for path, output := range raw {
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			unit := d.decodeUnit(path, output)

			mu.Lock()
			decoded[path] = unit
			mu.Unlock()

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	return decoded, nil
}

func (d *decoder) decodeUnit(path m.Path, output m.RawToolOutput) m.DecodedUnit {
	var unit m.DecodedUnit

	lines := normalize(path, output)

	for _, stage := range d.stages {
		lines = d.runStage(stage, lines, &unit)
	}

	for _, line := range lines {
		slog.Debug("Dropping unrecognized tool output", "line", line.Text)
	}

	unit.Sort()

	return unit
}

// runStage classifies the lines the stage claims and returns the rest.
func (d *decoder) runStage(stage decodeStage, lines []decodeLine, unit *m.DecodedUnit) []decodeLine {
	rest := make([]decodeLine, 0, len(lines))

	for _, line := range lines {
		payload := line.Payload()
		if !stage.detect(payload) {
			rest = append(rest, line)
			continue
		}

		record, result := stage.extract(payload)

		switch result {
		case classified:
			unit.Add(record)
		case discarded:
			slog.Debug("Discarding tool output", "stage", stage.name, "line", line.Text)
		case unclaimed:
			rest = append(rest, line)
		}
	}

	return rest
}

// normalize splits the unit's tool outputs into lines, drops blank lines and
// pylint dividers, and tags each line with the unit it belongs to.
func normalize(path m.Path, output m.RawToolOutput) []decodeLine {
	var lines []decodeLine

	for _, block := range output.Outputs {
		for _, line := range strings.Split(block.Text, "\n") {
			line = strings.TrimRight(line, "\r")
			if line == "" || isDividerLine(line) {
				continue
			}

			lines = append(lines, decodeLine{
				Unit: path,
				Text: string(path) + provenanceSeparator + line,
			})
		}
	}

	return lines
}

func isDividerLine(line string) bool {
	return strings.Contains(line, pylintModuleDivider) ||
		strings.Contains(line, pylintRuleDivider) ||
		strings.Contains(line, pylintScoreDivider)
}

// naming-check: "WARN: [12] Variables should be in snake_case: userName"

const namingCheckMarker = "WARN:"

func isNamingCheckLine(payload string) bool {
	return strings.Contains(payload, namingCheckMarker)
}

func extractNamingCheck(payload string) (m.WarningRecord, verdict) {
	_, rest, ok := strings.Cut(payload, namingCheckMarker)
	if !ok {
		return m.WarningRecord{}, unclaimed
	}

	lineField, message, ok := strings.Cut(rest, "]")
	if !ok {
		return m.WarningRecord{}, unclaimed
	}

	line, ok := parseLineNumber(strings.ReplaceAll(lineField, "[", ""))
	if !ok {
		return m.WarningRecord{}, unclaimed
	}

	message = strings.TrimSpace(message)

	category := m.CategoryVariable
	if strings.Contains(message, "Functions") {
		category = m.CategoryFunction
	}

	return m.WarningRecord{Message: message, Line: line, Category: category}, classified
}

// cpplint: "src/main.c:12:  Missing space before {  [whitespace/braces] [5]"

const (
	cpplintMarker      = ".c"
	encodingErrorToken = "UnicodeDecodeError"
)

func isCpplintLine(payload string) bool {
	return strings.Contains(payload, cpplintMarker)
}

func extractCpplint(payload string) (m.WarningRecord, verdict) {
	if strings.Contains(payload, encodingErrorToken) {
		return m.WarningRecord{}, discarded
	}

	_, rest, ok := strings.Cut(payload, ":")
	if !ok {
		return m.WarningRecord{}, discarded
	}

	lineField, message, ok := strings.Cut(rest, ":")
	if !ok {
		return m.WarningRecord{}, discarded
	}

	line, ok := parseLineNumber(lineField)
	if !ok {
		return m.WarningRecord{}, discarded
	}

	return m.WarningRecord{
		Message:  strings.TrimSpace(message),
		Line:     line,
		Category: m.CategoryFormatting,
	}, classified
}

// pylint: "app.py:3:0: C0103: Constant name "userName" doesn't conform to UPPER_CASE naming style (invalid-name)"

const pylintMarker = ".py:"

// pylintKeywords is searched in order; the first keyword found wins.
var pylintKeywords = []struct {
	keyword  string
	category m.Category
}{
	{keyword: "Function", category: m.CategoryFunction},
	{keyword: "Constant", category: m.CategoryVariable},
	{keyword: "Variable", category: m.CategoryVariable},
}

func isPylintLine(payload string) bool {
	return strings.Contains(payload, pylintMarker)
}

func extractPylint(payload string) (m.WarningRecord, verdict) {
	_, rest, ok := strings.Cut(payload, pylintMarker)
	if !ok {
		return m.WarningRecord{}, discarded
	}

	lineField, rest, ok := strings.Cut(rest, ":")
	if !ok {
		return m.WarningRecord{}, discarded
	}

	line, ok := parseLineNumber(lineField)
	if !ok {
		return m.WarningRecord{}, discarded
	}

	fields := strings.SplitN(rest, ":", 3)
	if len(fields) < 3 {
		return m.WarningRecord{}, discarded
	}

	message := strings.TrimSpace(fields[2])

	return m.WarningRecord{
		Message:  message,
		Line:     line,
		Category: pylintCategory(message),
	}, classified
}

func pylintCategory(message string) m.Category {
	for _, candidate := range pylintKeywords {
		if strings.Contains(message, candidate.keyword) {
			return candidate.category
		}
	}

	return m.CategoryFormatting
}

func parseLineNumber(field string) (int, bool) {
	line, err := strconv.Atoi(strings.TrimSpace(field))
	// Line 0 is kept: cpplint reports file-level findings there.
	if err != nil || line < 0 {
		return 0, false
	}

	return line, true
}
