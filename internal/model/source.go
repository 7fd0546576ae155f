// Package model defines the data structures for source quality analysis.
package model

import (
	"path/filepath"
	"strings"
)

// Path represents a file system path.
type Path string

// Language identifies the tool chain and structural counter used for a file.
type Language string

const (
	// LanguageUnknown marks files that are not analyzed.
	LanguageUnknown Language = ""
	// LanguagePython is parsed into a syntax tree by the structural counter.
	// Its tools always report diagnostics on stdout.
	LanguagePython Language = "python"
	// LanguageC is counted with line-oriented heuristics only.
	LanguageC Language = "c"
)

// LanguageFromPath detects the language of a file from its extension.
func LanguageFromPath(path Path) Language {
	switch strings.ToLower(filepath.Ext(string(path))) {
	case ".py":
		return LanguagePython
	case ".c":
		return LanguageC
	default:
		return LanguageUnknown
	}
}

// Known reports whether the language has a counter and a tool chain.
func (l Language) Known() bool {
	return l == LanguagePython || l == LanguageC
}

// SourceUnit is one file under analysis. It is not modified after discovery.
type SourceUnit struct {
	Path     Path
	Text     string
	Language Language
}

// Lines returns the number of lines in the unit's text.
func (s SourceUnit) Lines() int {
	return CountLines(s.Text)
}

// CountLines counts lines the way a line splitter would: a trailing line
// break does not open a new line and empty text has no lines.
func CountLines(text string) int {
	if text == "" {
		return 0
	}

	n := strings.Count(text, "\n")
	if !strings.HasSuffix(text, "\n") {
		n++
	}

	return n
}

// StructuralCount holds the heuristic declaration counts of a unit.
// Negative values mean the counter could not produce a count.
type StructuralCount struct {
	Variables int
	Functions int
}

// UnavailableCount is returned when every counting strategy failed.
var UnavailableCount = StructuralCount{Variables: -1, Functions: -1}

// Available reports whether both counts can be used as ratio denominators.
func (c StructuralCount) Available() bool {
	return c.Variables >= 0 && c.Functions >= 0
}
