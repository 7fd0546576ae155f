package adapter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	m "perfeq.dev/pkg/perfeq/internal/model"
)

// PathPlaceholder is replaced by the analyzed file in a command template.
// Templates without it get the file appended as the last argument.
const PathPlaceholder = "{path}"

// ErrEmptyCommand is returned for a blank command template.
var ErrEmptyCommand = errors.New("empty command template")

// ToolCommands maps a language to the ordered command templates run for it.
type ToolCommands map[m.Language][]string

// ToolRunnerAdapter abstracts running the external analysis tools.
type ToolRunnerAdapter interface {
	// RunTools runs every command configured for the language against the
	// file. Commands that cannot be started are reported in Failures and do
	// not stop the remaining ones.
	RunTools(ctx context.Context, path m.Path, language m.Language) m.RawToolOutput
}

// ToolRun is the captured result of one executed command.
type ToolRun struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// LocalToolRunnerAdapter provides a concrete implementation using os/exec.
type LocalToolRunnerAdapter struct {
	commands ToolCommands
	timeout  time.Duration
}

// NewLocalToolRunnerAdapter constructs a LocalToolRunnerAdapter. A zero
// timeout lets tools run until they exit.
func NewLocalToolRunnerAdapter(commands ToolCommands, timeout time.Duration) *LocalToolRunnerAdapter {
	return &LocalToolRunnerAdapter{
		commands: commands,
		timeout:  timeout,
	}
}

// RunTools runs the configured commands in order.
//
// Python tools print their diagnostics on stdout whatever the exit status, so
// stdout is kept for them; for other languages stdout is kept on success and
// stderr on failure.
func (a *LocalToolRunnerAdapter) RunTools(ctx context.Context, path m.Path, language m.Language) m.RawToolOutput {
	var raw m.RawToolOutput

	for _, command := range a.commands[language] {
		run, err := a.RunCommand(ctx, command, path)
		if err != nil {
			slog.Error("Failed to run tool", "command", command, "path", path, "error", err)
			raw.Failures = append(raw.Failures, m.ToolFailure{Command: command, Err: err})

			continue
		}

		success := run.ExitCode == 0

		text := run.Stderr
		if success || language == m.LanguagePython {
			text = run.Stdout
		}

		raw.Outputs = append(raw.Outputs, m.ToolOutput{
			Command:  command,
			Language: language,
			Success:  success,
			Text:     text,
		})
	}

	return raw
}

// RunCommand executes one command template against path. A non-zero exit
// status is not an error; failing to start the process is.
func (a *LocalToolRunnerAdapter) RunCommand(ctx context.Context, template string, path m.Path) (ToolRun, error) {
	args := ExpandCommand(template, path)
	if len(args) == 0 {
		return ToolRun{}, ErrEmptyCommand
	}

	if a.timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	// #nosec G204 - commands come from the user's own configuration
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)

	var stdout, stderr bytes.Buffer

	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	run := ToolRun{
		Stdout: decodeOutput(stdout.Bytes()),
		Stderr: decodeOutput(stderr.Bytes()),
	}

	if err == nil {
		return run, nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return run, fmt.Errorf("run %q: %w", template, ctxErr)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		run.ExitCode = exitErr.ExitCode()
		return run, nil
	}

	return run, fmt.Errorf("run %q: %w", template, err)
}

// ExpandCommand splits a command template into arguments and substitutes the
// file path.
func ExpandCommand(template string, path m.Path) []string {
	fields := strings.Fields(template)
	if len(fields) == 0 {
		return nil
	}

	substituted := false

	for i, field := range fields {
		if strings.Contains(field, PathPlaceholder) {
			fields[i] = strings.ReplaceAll(field, PathPlaceholder, string(path))
			substituted = true
		}
	}

	if !substituted {
		fields = append(fields, string(path))
	}

	return fields
}

// decodeOutput converts tool output to UTF-8, replacing undecodable bytes.
func decodeOutput(data []byte) string {
	text, _, err := transform.Bytes(unicode.UTF8.NewDecoder(), data)
	if err != nil {
		return strings.ToValidUTF8(string(data), "�")
	}

	return string(text)
}
