package domain

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strings"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	m "perfeq.dev/pkg/perfeq/internal/model"
)

var (
	pythonDefPattern    = regexp.MustCompile(`(?m)^[ \t]*def[ \t]+[A-Za-z_]\w*[ \t]*\(`)
	pythonAssignPattern = regexp.MustCompile(`(?m)^[A-Za-z_]\w*[ \t]*=(?:[^=]|$)`)

	cFunctionPattern = regexp.MustCompile(`^[\w\s*]+[\w*]+\s*\([\w\s,]*\)\s*[{;]?$`)
	cVariablePattern = regexp.MustCompile(`^([a-zA-Z_]\w*)\s+([a-zA-Z_]\w*(?:\s*,\s*[a-zA-Z_]\w*)*)\s*[;=]`)
	cStructPattern   = regexp.MustCompile(`^(?:typedef\s+)?struct\b`)
)

var errInvalidEncoding = errors.New("source is not valid UTF-8")

// CountStructure returns the number of variable declarations and function
// definitions in the unit. Python sources are walked as a syntax tree and
// fall back to regular expressions when the tree has errors; C sources are
// matched line by line. The result is UnavailableCount when every strategy
// failed.
func CountStructure(unit m.SourceUnit) m.StructuralCount {
	switch unit.Language {
	case m.LanguagePython:
		return countPython(unit)
	case m.LanguageC:
		return countC(unit.Text)
	default:
		return m.StructuralCount{}
	}
}

func countPython(unit m.SourceUnit) m.StructuralCount {
	count, err := countPythonTree([]byte(unit.Text))
	if err == nil {
		return count
	}

	slog.Debug("Python syntax tree unusable, falling back to patterns", "path", unit.Path, "error", err)

	count, err = countPythonPatterns(unit.Text)
	if err != nil {
		slog.Warn("Failed to count Python structure", "path", unit.Path, "error", err)
		return m.UnavailableCount
	}

	return count
}

var errSyntax = errors.New("syntax error")

func countPythonTree(source []byte) (m.StructuralCount, error) {
	parser := sitter.NewParser()
	defer parser.Close()

	parser.SetLanguage(python.GetLanguage())

	tree, err := parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return m.StructuralCount{}, err
	}

	defer tree.Close()

	root := tree.RootNode()
	if root == nil || root.HasError() {
		return m.StructuralCount{}, errSyntax
	}

	var count m.StructuralCount

	walkPythonNode(root, &count)

	return count, nil
}

func walkPythonNode(node *sitter.Node, count *m.StructuralCount) {
	switch node.Type() {
	case "assignment":
		// x: int = 1 is an annotation, not an assignment target.
		if node.ChildByFieldName("type") == nil {
			count.Variables++
		}
	case "function_definition":
		// Coroutines are not counted.
		if first := node.Child(0); first == nil || first.Type() != "async" {
			count.Functions++
		}
	}

	for i := 0; i < int(node.NamedChildCount()); i++ {
		walkPythonNode(node.NamedChild(i), count)
	}
}

func countPythonPatterns(text string) (m.StructuralCount, error) {
	if !utf8.ValidString(text) {
		return m.StructuralCount{}, errInvalidEncoding
	}

	return m.StructuralCount{
		Variables: len(pythonAssignPattern.FindAllStringIndex(text, -1)),
		Functions: len(pythonDefPattern.FindAllStringIndex(text, -1)),
	}, nil
}

func countC(text string) m.StructuralCount {
	var count m.StructuralCount

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)

		if cFunctionPattern.MatchString(line) {
			count.Functions++
			continue
		}

		if match := cVariablePattern.FindStringSubmatch(line); match != nil && match[1] != "struct" {
			count.Variables += countIdentifiers(match[2])
			continue
		}

		if cStructPattern.MatchString(line) {
			count.Variables++
		}
	}

	return count
}

func countIdentifiers(list string) int {
	n := 0

	for _, name := range strings.Split(list, ",") {
		if strings.TrimSpace(name) != "" {
			n++
		}
	}

	return n
}
