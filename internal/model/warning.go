package model

import "sort"

// Category classifies a diagnostic by the code element it refers to.
type Category int

const (
	// CategoryVariable covers variable and constant naming diagnostics.
	CategoryVariable Category = iota
	// CategoryFunction covers function naming diagnostics.
	CategoryFunction
	// CategoryFormatting is the catch-all for style and layout diagnostics.
	CategoryFormatting
)

// String returns the category label.
func (c Category) String() string {
	switch c {
	case CategoryVariable:
		return "variable"
	case CategoryFunction:
		return "function"
	case CategoryFormatting:
		return "formatting"
	default:
		return "unknown"
	}
}

// WarningRecord is one classified diagnostic.
type WarningRecord struct {
	Message  string
	Line     int
	Category Category
}

// CategoryTally counts the warnings of a unit by category.
type CategoryTally struct {
	Variable   int
	Function   int
	Formatting int
}

// Add increments the slot of the given category.
func (t *CategoryTally) Add(category Category) {
	switch category {
	case CategoryVariable:
		t.Variable++
	case CategoryFunction:
		t.Function++
	case CategoryFormatting:
		t.Formatting++
	}
}

// Total returns the number of counted warnings.
func (t CategoryTally) Total() int {
	return t.Variable + t.Function + t.Formatting
}

// DecodedUnit is the decoder output for one unit. Warnings and Tally only
// change together through Add.
type DecodedUnit struct {
	Warnings []WarningRecord
	Tally    CategoryTally
}

// Add records a warning and counts it.
func (d *DecodedUnit) Add(record WarningRecord) {
	d.Warnings = append(d.Warnings, record)
	d.Tally.Add(record.Category)
}

// Sort orders the warnings by line, keeping insertion order for equal lines.
func (d *DecodedUnit) Sort() {
	sort.SliceStable(d.Warnings, func(i, j int) bool {
		return d.Warnings[i].Line < d.Warnings[j].Line
	})
}
