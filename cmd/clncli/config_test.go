package clncli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestResolveConfigFileFindsCurrentDirectory(t *testing.T) {
	dir := t.TempDir()

	if err := os.WriteFile(filepath.Join(dir, "clncli.toml"), []byte("socket = \"/tmp/sock\"\n"), 0o600); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd() failed: %v", err)
	}

	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir() failed: %v", err)
	}

	t.Cleanup(func() { _ = os.Chdir(wd) })

	vpr := viper.New()
	setDefaults(vpr)

	found, err := resolveConfigFile(vpr)
	if err != nil {
		t.Fatalf("resolveConfigFile() failed: %v", err)
	}

	if !found {
		t.Fatal("resolveConfigFile() did not find the fixture in the current directory")
	}

	if got := vpr.GetString(KeySocket); got != "/tmp/sock" {
		t.Errorf("socket = %q, want %q", got, "/tmp/sock")
	}
}

func TestResolveConfigFileExplicitFlagWins(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.toml")

	if err := os.WriteFile(path, []byte("timeout = \"5s\"\n"), 0o600); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	vpr := viper.New()
	setDefaults(vpr)
	vpr.Set(KeyConfigFile, path)

	found, err := resolveConfigFile(vpr)
	if err != nil {
		t.Fatalf("resolveConfigFile() failed: %v", err)
	}

	if !found {
		t.Fatal("resolveConfigFile() did not find the explicitly configured file")
	}

	if got := vpr.GetDuration(KeyTimeout); got != 5*time.Second {
		t.Errorf("timeout = %v, want %v", got, 5*time.Second)
	}
}

func TestResolveConfigFileNoneFound(t *testing.T) {
	dir := t.TempDir()

	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd() failed: %v", err)
	}

	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir() failed: %v", err)
	}

	t.Cleanup(func() { _ = os.Chdir(wd) })

	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)

	vpr := viper.New()
	setDefaults(vpr)

	found, err := resolveConfigFile(vpr)
	if err != nil {
		t.Fatalf("resolveConfigFile() failed: %v", err)
	}

	if found {
		t.Fatal("resolveConfigFile() unexpectedly found a config file")
	}
}

func TestParseConfigAppliesDefaults(t *testing.T) {
	vpr := viper.New()
	setDefaults(vpr)

	cfg, err := parseConfig(vpr)
	if err != nil {
		t.Fatalf("parseConfig() failed: %v", err)
	}

	if cfg.SocketPath != DefaultSocketPath {
		t.Errorf("SocketPath = %q, want %q", cfg.SocketPath, DefaultSocketPath)
	}

	if cfg.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", cfg.Timeout, DefaultTimeout)
	}
}
