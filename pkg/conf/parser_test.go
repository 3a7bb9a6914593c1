// Copyright (c) 2025 Antti Kivi
// SPDX-License-Identifier: MIT

package conf_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/anttikivi/cln/pkg/conf"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}

	return path
}

func TestParseKeyValueAndBareAndComments(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "config", "# a top comment\n\nnetwork=bitcoin\nfee-base=1\nalways-use-proxy\n")

	tree, err := conf.Parse(path)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	network, err := tree.Get("network")
	if err != nil || network != "bitcoin" {
		t.Fatalf("network = %q, %v, want bitcoin, nil", network, err)
	}

	if !tree.Has("always-use-proxy") {
		t.Fatal("expected bare key always-use-proxy to be present")
	}
}

func TestParseMultiValuedKey(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "config", "addr=1.2.3.4\naddr=5.6.7.8\n")

	tree, err := conf.Parse(path)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	values := tree.GetAll("addr")
	if len(values) != 2 || values[0] != "1.2.3.4" || values[1] != "5.6.7.8" {
		t.Fatalf("values = %v, want [1.2.3.4 5.6.7.8]", values)
	}

	if _, err := tree.Get("addr"); err == nil {
		t.Fatal("Get on a multi-valued key should fail")
	}
}

func TestParseIncludeIsDepthFirst(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "included.conf", "network=signet\n")
	path := writeFile(t, dir, "config", "network=bitcoin\ninclude included.conf\n")

	tree, err := conf.Parse(path)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	values := tree.GetAll("network")
	if len(values) != 2 || values[0] != "bitcoin" || values[1] != "signet" {
		t.Fatalf("values = %v, want [bitcoin signet]", values)
	}

	includes := tree.Includes()
	if len(includes) != 1 {
		t.Fatalf("includes = %v, want exactly one", includes)
	}
}

func TestParseDuplicateIncludeRejected(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "included.conf", "network=signet\n")
	path := writeFile(t, dir, "config",
		"include included.conf\ninclude included.conf\n")

	if _, err := conf.Parse(path); err == nil {
		t.Fatal("expected duplicate include to be rejected")
	}
}

func TestParseRejectsDuplicateDirectEntry(t *testing.T) {
	t.Parallel()

	tree := conf.New()

	if err := tree.Add("network", "bitcoin"); err != nil {
		t.Fatalf("Add: %v", err)
	}

	if err := tree.Add("network", "bitcoin"); err == nil {
		t.Fatal("expected exact duplicate key/value pair to be rejected")
	}

	// The same key with a different value is a legitimate multi-value entry.
	if err := tree.Add("network", "signet"); err != nil {
		t.Fatalf("Add with distinct value: %v", err)
	}
}

func TestFlushRoundTripsEntriesAndComments(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "config", "# keep me\nnetwork=bitcoin\n\nalways-use-proxy\n")

	tree, err := conf.Parse(path)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if err := tree.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	want := "# keep me\nnetwork=bitcoin\n\nalways-use-proxy\n"
	if string(raw) != want {
		t.Fatalf("round-tripped content = %q, want %q", raw, want)
	}
}

func TestFlushWritesIncludesAfterRegularKeys(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "config")

	tree := conf.New()
	tree.Path = path

	if err := tree.Add("network", "bitcoin"); err != nil {
		t.Fatalf("Add: %v", err)
	}

	if err := tree.AddInclude("extra.conf", conf.New()); err != nil {
		t.Fatalf("AddInclude: %v", err)
	}

	if err := tree.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	want := "network=bitcoin\ninclude extra.conf\n"
	if string(raw) != want {
		t.Fatalf("content = %q, want %q", raw, want)
	}
}

func TestParseOrCreateMakesMissingFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "config")

	tree, err := conf.ParseOrCreate(path)
	if err != nil {
		t.Fatalf("ParseOrCreate: %v", err)
	}

	if tree.Has("anything") {
		t.Fatal("freshly created tree should be empty")
	}

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected file to be created: %v", err)
	}
}

func TestParseMissingFileWithoutCreateFails(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "config")

	if _, err := conf.Parse(path); err == nil {
		t.Fatal("expected error for missing file without ParseOrCreate")
	}
}
