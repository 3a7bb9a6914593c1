// Copyright (c) 2025 Antti Kivi
// SPDX-License-Identifier: MIT

package conf

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// commentKey is the sentinel key under which comment and blank lines are
// stored, so they pass through serialization verbatim (spec.md §4.5
// "keys starting with `comment` are pass-through lines").
const commentKey = "comment"

// Parse reads path and returns the [Tree] it describes, recursively parsing
// any "include" directives relative to path's directory.
func Parse(path string) (*Tree, error) {
	return parseFile(path, false, make(map[string]bool))
}

// ParseOrCreate behaves like [Parse], except that a missing file at path is
// created empty rather than treated as an error (spec.md §4.5 "parse ...
// creating the file if configured to do so").
func ParseOrCreate(path string) (*Tree, error) {
	return parseFile(path, true, make(map[string]bool))
}

func parseFile(path string, create bool, visited map[string]bool) (*Tree, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("conf: resolve path %s: %w", path, err)
	}

	if visited[abs] {
		return nil, fmt.Errorf("conf: include cycle at %s", path)
	}

	visited[abs] = true

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) && create {
			if err := os.WriteFile(path, nil, 0o644); err != nil { //nolint:gosec // config files are not secrets
				return nil, fmt.Errorf("conf: create %s: %w", path, err)
			}

			return &Tree{Path: path}, nil
		}

		return nil, fmt.Errorf("conf: open %s: %w", path, err)
	}
	defer f.Close()

	t := &Tree{Path: path}

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if err := parseLine(scanner.Text(), t, filepath.Dir(path), visited); err != nil {
			return nil, err
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("conf: read %s: %w", path, err)
	}

	return t, nil
}

func parseLine(raw string, t *Tree, dir string, visited map[string]bool) error {
	trimmed := strings.TrimSpace(raw)

	switch {
	case trimmed == "" || strings.HasPrefix(trimmed, "#"):
		t.entries = append(t.entries, entry{key: commentKey, value: raw})

		return nil
	case strings.HasPrefix(trimmed, "include "):
		incPath := strings.TrimSpace(strings.TrimPrefix(trimmed, "include "))
		if !filepath.IsAbs(incPath) {
			incPath = filepath.Join(dir, incPath)
		}

		sub, err := parseFile(incPath, false, visited)
		if err != nil {
			return fmt.Errorf("conf: include %s: %w", incPath, err)
		}

		return t.AddInclude(incPath, sub)
	default:
		if idx := strings.IndexByte(trimmed, '='); idx >= 0 {
			key := strings.TrimSpace(trimmed[:idx])
			value := strings.TrimSpace(trimmed[idx+1:])

			return t.Add(key, value)
		}

		return t.AddBare(trimmed)
	}
}

// Flush serializes t to its originating Path, per the rules of spec.md
// §4.5: comment/blank lines pass through verbatim, empty-value keys are
// written bare, multi-valued keys are emitted once per value, and includes
// follow the regular keys as "include PATH" lines.
func (t *Tree) Flush() error {
	if t.Path == "" {
		return fmt.Errorf("conf: tree has no originating path")
	}

	return t.WriteTo(t.Path)
}

// WriteTo serializes t to path, independent of t.Path.
func (t *Tree) WriteTo(path string) error {
	var b strings.Builder

	for _, e := range t.entries {
		switch {
		case e.key == commentKey:
			b.WriteString(e.value)
			b.WriteByte('\n')
		case e.bare:
			b.WriteString(e.key)
			b.WriteByte('\n')
		default:
			b.WriteString(e.key)
			b.WriteByte('=')
			b.WriteString(e.value)
			b.WriteByte('\n')
		}
	}

	for _, p := range t.includePaths {
		b.WriteString("include ")
		b.WriteString(p)
		b.WriteByte('\n')
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil { //nolint:gosec // config files are not secrets
		return fmt.Errorf("conf: write %s: %w", path, err)
	}

	return nil
}
