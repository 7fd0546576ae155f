package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCountLines(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"empty", "", 0},
		{"single line without break", "x = 1", 1},
		{"single line with break", "x = 1\n", 1},
		{"blank lines count", "a\n\n\nb\n", 4},
		{"only a break", "\n", 1},
		{"crlf", "a\r\nb\r\n", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CountLines(tt.text))
		})
	}
}

func TestLanguageFromPath(t *testing.T) {
	assert.Equal(t, LanguagePython, LanguageFromPath("pkg/app.py"))
	assert.Equal(t, LanguageC, LanguageFromPath("src/main.c"))
	assert.Equal(t, LanguageC, LanguageFromPath("LEGACY.C"))
	assert.Equal(t, LanguageUnknown, LanguageFromPath("main.h"))
	assert.Equal(t, LanguageUnknown, LanguageFromPath("README"))
	assert.False(t, LanguageUnknown.Known())
	assert.True(t, LanguagePython.Known())
}

func TestStructuralCountAvailable(t *testing.T) {
	assert.True(t, StructuralCount{}.Available())
	assert.False(t, UnavailableCount.Available())
}

func TestDecodedUnitAddKeepsTallyInStep(t *testing.T) {
	var unit DecodedUnit

	unit.Add(WarningRecord{Line: 9, Category: CategoryFormatting, Message: "late"})
	unit.Add(WarningRecord{Line: 2, Category: CategoryFunction, Message: "early"})
	unit.Add(WarningRecord{Line: 9, Category: CategoryVariable, Message: "late too"})

	assert.Equal(t, CategoryTally{Variable: 1, Function: 1, Formatting: 1}, unit.Tally)
	assert.Equal(t, len(unit.Warnings), unit.Tally.Total())

	unit.Sort()

	assert.Equal(t, []string{"early", "late", "late too"}, []string{
		unit.Warnings[0].Message, unit.Warnings[1].Message, unit.Warnings[2].Message,
	})
}

func TestCategoryString(t *testing.T) {
	assert.Equal(t, "variable", CategoryVariable.String())
	assert.Equal(t, "function", CategoryFunction.String())
	assert.Equal(t, "formatting", CategoryFormatting.String())
	assert.Equal(t, "unknown", Category(42).String())
}

func TestReportRowFields(t *testing.T) {
	row := ReportRow{
		CodeID: "a.py", LOC: "10", Warnings: "2", WPL: "20.00",
		VariableWarnings: "1", Variables: "4", VWPV: "25.00",
		FunctionWarnings: "1", Functions: "n/a", FWPF: "0.00",
		FormattingWarnings: "0", FWPL: "0.00",
	}

	assert.Equal(t, []string{
		"a.py", "10", "2", "20.00", "1", "4", "25.00", "1", "n/a", "0.00", "0", "0.00",
	}, row.Fields())
}
