// Copyright (c) 2025 Antti Kivi
// SPDX-License-Identifier: MIT

// Package conf implements the hierarchical configuration-file format Core
// Lightning itself reads and writes (spec.md §4.5): key=value and bare-key
// lines, #-prefixed comments preserved verbatim, and recursive "include
// PATH" directives.
package conf

import (
	"errors"
	"fmt"
)

// Errors returned while manipulating a [Tree]. They fall into the two
// categories spec.md §4.5 distinguishes: structural/I/O failures and
// semantic ones such as a duplicate entry.
var (
	// ErrDuplicateValue is returned by [Tree.Add] when the exact (key, value)
	// pair already exists in this tree (not counting includes).
	ErrDuplicateValue = errors.New("conf: duplicate key/value pair")

	// ErrAmbiguousKey is returned by [Tree.Get] when key resolves to more
	// than one value across the tree and its includes.
	ErrAmbiguousKey = errors.New("conf: key has multiple values")

	// ErrKeyNotFound is returned by [Tree.Get] when key has no value
	// anywhere in the tree or its includes.
	ErrKeyNotFound = errors.New("conf: key not found")

	// ErrDuplicateInclude is returned by [Tree.AddInclude] when path is
	// already included.
	ErrDuplicateInclude = errors.New("conf: duplicate include path")
)

// entry is one key/value pair as it appeared on a line, preserved in
// insertion order so re-serialization is stable.
type entry struct {
	key   string
	value string // empty for a bare key
	bare  bool
}

// Tree is one configuration file's parsed contents: its own key/value pairs
// plus the subtrees reached through "include" lines. Lookups that traverse
// includes do so depth-first, matching spec.md §4.5's get_all ordering.
type Tree struct {
	// Path is the file this tree was parsed from, or will be written to by
	// [Tree.Flush]. Empty for a tree built only in memory.
	Path string

	entries  []entry
	includes []*Tree
	// includePaths tracks the literal path of each entry in includes, for
	// duplicate detection and for [Tree.RemoveInclude].
	includePaths []string
}

// New returns an empty tree not yet associated with a file.
func New() *Tree {
	return &Tree{}
}

// Add appends a (key, value) pair to t. It fails if the exact pair already
// exists directly in t (duplicates across includes are permitted, matching
// the source format's "same key, different file" use case for per-host
// overrides).
func (t *Tree) Add(key, value string) error {
	for _, e := range t.entries {
		if !e.bare && e.key == key && e.value == value {
			return fmt.Errorf("%w: %s=%s", ErrDuplicateValue, key, value)
		}
	}

	t.entries = append(t.entries, entry{key: key, value: value})

	return nil
}

// AddBare appends a valueless "key" line to t, failing if the bare key
// already exists directly in t.
func (t *Tree) AddBare(key string) error {
	for _, e := range t.entries {
		if e.bare && e.key == key {
			return fmt.Errorf("%w: %s", ErrDuplicateValue, key)
		}
	}

	t.entries = append(t.entries, entry{key: key, bare: true})

	return nil
}

// Get returns the single value stored for key across t and its includes. It
// fails with [ErrAmbiguousKey] if more than one value exists, and
// [ErrKeyNotFound] if none does.
func (t *Tree) Get(key string) (string, error) {
	values := t.GetAll(key)

	switch len(values) {
	case 0:
		return "", fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	case 1:
		return values[0], nil
	default:
		return "", fmt.Errorf("%w: %s", ErrAmbiguousKey, key)
	}
}

// GetAll returns every value stored for key in t, then depth-first in each
// include in the order they were added (spec.md §4.5).
func (t *Tree) GetAll(key string) []string {
	var values []string

	for _, e := range t.entries {
		if !e.bare && e.key == key {
			values = append(values, e.value)
		}
	}

	for _, sub := range t.includes {
		values = append(values, sub.GetAll(key)...)
	}

	return values
}

// Has reports whether key appears, bare or with a value, directly in t (not
// counting includes).
func (t *Tree) Has(key string) bool {
	for _, e := range t.entries {
		if e.key == key {
			return true
		}
	}

	return false
}

// Remove deletes matching entries for key from t directly (not from
// includes). If value is nil, every entry for key is removed; otherwise only
// the entry whose value equals *value is removed.
func (t *Tree) Remove(key string, value *string) {
	out := t.entries[:0]

	for _, e := range t.entries {
		if e.key != key {
			out = append(out, e)

			continue
		}

		if value != nil && (e.bare || e.value != *value) {
			out = append(out, e)
		}
	}

	t.entries = out
}

// AddInclude attaches sub as an included subtree reached from path. It fails
// if path is already included.
func (t *Tree) AddInclude(path string, sub *Tree) error {
	for _, p := range t.includePaths {
		if p == path {
			return fmt.Errorf("%w: %s", ErrDuplicateInclude, path)
		}
	}

	t.includes = append(t.includes, sub)
	t.includePaths = append(t.includePaths, path)

	return nil
}

// RemoveInclude detaches the subtree reached from path, if any.
func (t *Tree) RemoveInclude(path string) {
	for i, p := range t.includePaths {
		if p == path {
			t.includes = append(t.includes[:i], t.includes[i+1:]...)
			t.includePaths = append(t.includePaths[:i], t.includePaths[i+1:]...)

			return
		}
	}
}

// Includes returns the paths of t's direct includes, in insertion order.
func (t *Tree) Includes() []string {
	out := make([]string, len(t.includePaths))
	copy(out, t.includePaths)

	return out
}
