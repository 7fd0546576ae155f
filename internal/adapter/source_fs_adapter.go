// Package adapter contains UI and infrastructure adapters for the perfeq CLI.
package adapter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"

	m "perfeq.dev/pkg/perfeq/internal/model"
)

const recursiveSuffix = "/..."

// SourceFSAdapter abstracts filesystem-specific operations that the domain layer
// relies on when collecting the files of a run. It hides direct `os` access so
// the workflow logic can be tested without touching the disk.
type SourceFSAdapter interface {
	// Get resolves the provided paths into source units. A path is either a
	// file, a directory (its direct children) or a directory followed by
	// "/..." (recursive). Files whose extension has no analyzer and files
	// matching an exclude pattern (gitignore syntax) are left out.
	Get(ctx context.Context, paths []m.Path, exclude ...string) ([]m.SourceUnit, error)

	// ReadFile loads a file from disk and returns its contents.
	ReadFile(ctx context.Context, path m.Path) ([]byte, error)

	// FileInfo returns metadata for a path so callers can check existence or
	// distinguish between files and directories.
	FileInfo(ctx context.Context, path m.Path) (os.FileInfo, error)
}

// LocalSourceFSAdapter is the os-backed SourceFSAdapter.
type LocalSourceFSAdapter struct{}

// NewLocalSourceFSAdapter constructs a LocalSourceFSAdapter instance ready to
// be wired into the workflow.
func NewLocalSourceFSAdapter() *LocalSourceFSAdapter {
	return &LocalSourceFSAdapter{}
}

// Get walks the provided roots and reads every analyzable file.
//
// A root that does not exist or cannot be accessed fails the call. Files
// inside a directory that cannot be read are logged and skipped.
func (a *LocalSourceFSAdapter) Get(ctx context.Context, paths []m.Path, exclude ...string) ([]m.SourceUnit, error) {
	if len(paths) == 0 {
		paths = []m.Path{"."}
	}

	matcher := ignore.CompileIgnoreLines(exclude...)
	seen := make(map[m.Path]bool)

	var units []m.SourceUnit

	for _, root := range paths {
		found, err := a.collect(ctx, root, matcher)
		if err != nil {
			return nil, err
		}

		for _, unit := range found {
			if seen[unit.Path] {
				continue
			}

			seen[unit.Path] = true
			units = append(units, unit)
		}
	}

	sort.SliceStable(units, func(i, j int) bool {
		return units[i].Path < units[j].Path
	})

	return units, nil
}

func (a *LocalSourceFSAdapter) collect(ctx context.Context, root m.Path, matcher *ignore.GitIgnore) ([]m.SourceUnit, error) {
	rootStr, recursive := splitRecursive(string(root))

	info, err := a.FileInfo(ctx, m.Path(rootStr))
	if err != nil {
		return nil, fmt.Errorf("access %s: %w", rootStr, err)
	}

	if !info.IsDir() {
		// An explicitly named file is read even if its siblings would be
		// filtered, but it still needs an analyzer.
		if !m.LanguageFromPath(m.Path(rootStr)).Known() {
			return nil, nil
		}

		unit, err := a.readUnit(ctx, m.Path(rootStr))
		if err != nil {
			return nil, err
		}

		return []m.SourceUnit{unit}, nil
	}

	var units []m.SourceUnit

	err = filepath.Walk(rootStr, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if path == rootStr {
				return err
			}

			slog.Warn("Skipping unreadable path", "path", path, "error", err)

			return nil
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		rel, relErr := filepath.Rel(rootStr, path)
		if relErr != nil {
			rel = path
		}

		if info.IsDir() {
			if path == rootStr {
				return nil
			}

			if !recursive || matcher.MatchesPath(rel+"/") {
				return filepath.SkipDir
			}

			return nil
		}

		if !m.LanguageFromPath(m.Path(path)).Known() || matcher.MatchesPath(rel) {
			return nil
		}

		unit, readErr := a.readUnit(ctx, m.Path(path))
		if readErr != nil {
			slog.Warn("Skipping unreadable file", "path", path, "error", readErr)
			return nil
		}

		units = append(units, unit)

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", rootStr, err)
	}

	return units, nil
}

func (a *LocalSourceFSAdapter) readUnit(ctx context.Context, path m.Path) (m.SourceUnit, error) {
	content, err := a.ReadFile(ctx, path)
	if err != nil {
		return m.SourceUnit{}, fmt.Errorf("read %s: %w", path, err)
	}

	return m.SourceUnit{
		Path:     path,
		Text:     string(content),
		Language: m.LanguageFromPath(path),
	}, nil
}

// ReadFile loads file contents from disk.
func (a *LocalSourceFSAdapter) ReadFile(_ context.Context, path m.Path) ([]byte, error) {
	// #nosec G304 - reading user-selected sources is the purpose of the tool
	return os.ReadFile(string(path))
}

// FileInfo returns os.FileInfo metadata for the given path.
func (a *LocalSourceFSAdapter) FileInfo(_ context.Context, path m.Path) (os.FileInfo, error) {
	return os.Stat(string(path))
}

// splitRecursive strips a trailing "/..." and reports whether it was present.
func splitRecursive(root string) (string, bool) {
	if root == "..." {
		return ".", true
	}

	if strings.HasSuffix(root, recursiveSuffix) {
		trimmed := strings.TrimSuffix(root, recursiveSuffix)
		if trimmed == "" {
			trimmed = "/"
		}

		return trimmed, true
	}

	return root, false
}
