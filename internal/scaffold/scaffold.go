// Package scaffold materializes the workspace skeleton: the directory
// tree, the Python package marker files, and the seed-once environment
// configuration. Every operation here is safe to repeat.
package scaffold

import (
	"fmt"
	"os"
	"path/filepath"
)

// Entry records one materialized path and whether it already existed
// before this run, so the caller can report creations versus no-ops.
type Entry struct {
	// Path is relative to the workspace root, as given in the plan.
	Path string
	// Existed is true when the path was already present.
	Existed bool
}

// EnsureDirectories creates each directory (and missing ancestors) under
// root. Existing directories are left untouched.
func EnsureDirectories(root string, dirs []string) ([]Entry, error) {
	entries := make([]Entry, 0, len(dirs))
	for _, dir := range dirs {
		abs := filepath.Join(root, dir)

		existed := false
		if info, err := os.Stat(abs); err == nil && info.IsDir() {
			existed = true
		}

		if err := os.MkdirAll(abs, 0o755); err != nil {
			return entries, fmt.Errorf("failed to create %s: %w", dir, err)
		}
		entries = append(entries, Entry{Path: dir, Existed: existed})
	}
	return entries, nil
}

// EnsureMarkerFiles creates each marker file empty under root. A marker
// that already exists is truncated, which is observably a no-op because
// markers never carry content.
func EnsureMarkerFiles(root string, files []string) ([]Entry, error) {
	entries := make([]Entry, 0, len(files))
	for _, file := range files {
		abs := filepath.Join(root, file)

		existed := false
		if _, err := os.Stat(abs); err == nil {
			existed = true
		}

		if err := os.WriteFile(abs, nil, 0o644); err != nil {
			return entries, fmt.Errorf("failed to create %s: %w", file, err)
		}
		entries = append(entries, Entry{Path: file, Existed: existed})
	}
	return entries, nil
}

// SeedStatus reports the outcome of the configuration seed step.
type SeedStatus string

const (
	// Seeded means the live file was created from the template.
	Seeded SeedStatus = "seeded"
	// SkippedLiveExists means the live file was already present and was
	// left untouched.
	SkippedLiveExists SeedStatus = "live-exists"
	// SkippedNoTemplate means the template itself was absent.
	SkippedNoTemplate SeedStatus = "no-template"
)

// SeedEnv copies template to live inside root, once. The live file is
// never overwritten: given it exists with any content, that content
// survives every future run.
func SeedEnv(root, template, live string) (SeedStatus, error) {
	templatePath := filepath.Join(root, template)
	livePath := filepath.Join(root, live)

	if _, err := os.Stat(templatePath); err != nil {
		if os.IsNotExist(err) {
			return SkippedNoTemplate, nil
		}
		return SkippedNoTemplate, fmt.Errorf("failed to stat %s: %w", template, err)
	}

	if _, err := os.Stat(livePath); err == nil {
		return SkippedLiveExists, nil
	}

	data, err := os.ReadFile(templatePath)
	if err != nil {
		return SkippedNoTemplate, fmt.Errorf("failed to read %s: %w", template, err)
	}
	if err := os.WriteFile(livePath, data, 0o600); err != nil {
		return SkippedNoTemplate, fmt.Errorf("failed to write %s: %w", live, err)
	}
	return Seeded, nil
}
