// Copyright (c) 2025 Antti Kivi
// SPDX-License-Identifier: MIT

package clncli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/anttikivi/cln/internal/constants"
	"github.com/anttikivi/cln/internal/exit"
	"github.com/anttikivi/cln/internal/ui"
	"github.com/mitchellh/mapstructure"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// contextKey namespaces values stored on a [context.Context] by this
// package, mirroring the teacher's pattern of a small unexported key type
// per package instead of bare strings.
type contextKey string

const (
	configContextKey  contextKey = "config"
	printerContextKey contextKey = "printer"
)

// CLIConfig is the resolved configuration for a clncli run, unmarshaled from
// viper after flags, environment variables, and an optional TOML dotfile
// have all been merged.
type CLIConfig struct {
	// SocketPath is the path of the daemon's UNIX domain socket.
	SocketPath string `mapstructure:"socket"`

	// Timeout bounds a single RPC round trip. Zero disables the timeout.
	Timeout time.Duration `mapstructure:"timeout"`

	// ConfigFile is the path to the resolved clncli config file, if any was
	// found.
	ConfigFile string `mapstructure:"config-file"`

	// UseColor tells whether command output should use ANSI colors.
	UseColor bool `mapstructure:"color"`

	// Verbose tells whether to print extra diagnostic output.
	Verbose bool `mapstructure:"verbose"`

	// Quiet tells whether to suppress non-essential output.
	Quiet bool `mapstructure:"quiet"`
}

// Configuration keys, matching the flag names with "-" in place of "_" so
// viper's environment-variable replacer produces natural names.
const (
	KeySocket     = "socket"
	KeyTimeout    = "timeout"
	KeyConfigFile = "config-file"
	KeyColor      = "color"
	KeyVerbose    = "verbose"
	KeyQuiet      = "quiet"
)

const (
	// DefaultSocketPath is the conventional location of lightningd's UNIX
	// socket inside its default lightning-dir.
	DefaultSocketPath = "$HOME/.lightning/bitcoin/lightning-rpc"

	// DefaultTimeout is the default RPC round-trip timeout.
	DefaultTimeout = 30 * time.Second
)

// envReplacer turns a dotted/hyphenated config key into the form viper's
// environment-variable binding expects, matching the teacher's
// config.EnvReplacer.
//
//nolint:gochecknoglobals // shared within the process, used like a constant
var envReplacer = strings.NewReplacer("-", "_", ".", "_")

var errConfigType = errors.New("clncli: invalid config value type")

// initConfig binds flags and environment variables to vpr and locates the
// optional dotfile, mirroring internal/config.Init's flag/env/file layering.
func initConfig(vpr *viper.Viper, cmd *cobra.Command) error {
	setDefaults(vpr)

	vpr.SetEnvPrefix(strings.ToLower(constants.CommandName))
	vpr.SetEnvKeyReplacer(envReplacer)
	vpr.AutomaticEnv()

	if _, err := resolveConfigFile(vpr); err != nil {
		return exit.New(exit.InvalidConfig, fmt.Errorf("%w", err))
	}

	return nil
}

// parseConfig decodes vpr's merged settings into a [CLIConfig].
func parseConfig(vpr *viper.Viper) (*CLIConfig, error) {
	var cfg CLIConfig

	decodeHook := viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.TextUnmarshallerHookFunc(),
		),
	)

	if err := vpr.Unmarshal(&cfg, decodeHook); err != nil {
		return nil, exit.New(
			exit.InvalidConfig,
			fmt.Errorf("%w: failed to decode the resolved configuration: %w", errConfigType, err),
		)
	}

	if fileFound(vpr) && cfg.ConfigFile == "" {
		cfg.ConfigFile = vpr.ConfigFileUsed()
	}

	return &cfg, nil
}

func setDefaults(vpr *viper.Viper) {
	vpr.SetDefault(KeySocket, DefaultSocketPath)
	vpr.SetDefault(KeyTimeout, DefaultTimeout)
	vpr.SetDefault(KeyConfigFile, "")
	vpr.SetDefault(KeyColor, true)
	vpr.SetDefault(KeyVerbose, false)
	vpr.SetDefault(KeyQuiet, false)
}

func fileFound(vpr *viper.Viper) bool {
	return vpr.ConfigFileUsed() != ""
}

// resolveConfigFile looks up clncli's TOML dotfile in the locations the
// teacher's internal/config/file.go searches: an explicit flag/env value
// first, then the current directory, then $XDG_CONFIG_HOME, then $HOME.
func resolveConfigFile(vpr *viper.Viper) (bool, error) {
	vpr.SetConfigType("toml")

	names := []string{
		strings.ToLower(constants.CommandName),
		"." + strings.ToLower(constants.CommandName),
	}

	configFile := vpr.GetString(KeyConfigFile)
	if configFile != "" {
		vpr.SetConfigFile(configFile)

		return readConfig(vpr)
	}

	for _, dir := range []string{
		".",
		filepath.Join(os.ExpandEnv("${XDG_CONFIG_HOME}"), strings.ToLower(constants.CommandName)),
		os.ExpandEnv("$HOME"),
	} {
		if dir == "" || dir == strings.TrimSuffix(filepath.Join("", strings.ToLower(constants.CommandName)), "") {
			continue
		}

		found, err := tryConfigDir(vpr, dir, names)
		if err != nil {
			return found, err
		}

		if found {
			return true, nil
		}
	}

	return false, nil
}

func tryConfigDir(vpr *viper.Viper, dir string, names []string) (bool, error) {
	vpr.AddConfigPath(dir)

	for _, name := range names {
		vpr.SetConfigName(name)

		found, err := readConfig(vpr)
		if err != nil {
			return found, err
		}

		if found {
			return true, nil
		}
	}

	return false, nil
}

func readConfig(vpr *viper.Viper) (bool, error) {
	if err := vpr.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return false, nil
		}

		return false, exit.New(exit.InvalidConfig, fmt.Errorf("failed to read the clncli config file: %w", err))
	}

	return true, nil
}

// decodeTOMLFile is used by commands that need the raw parsed config map
// directly (rather than through viper), mirroring
// internal/config.fixKeys's direct use of pelletier/go-toml/v2 on the same
// file viper already located.
func decodeTOMLFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var m map[string]any
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse %s as TOML: %w", path, err)
	}

	return m, nil
}

func fromContext(cmd *cobra.Command) (*CLIConfig, *ui.Printer) {
	cfg, _ := cmd.Context().Value(configContextKey).(*CLIConfig)
	p, _ := cmd.Context().Value(printerContextKey).(*ui.Printer)

	if p == nil {
		p = ui.NewPrinter(false, false)
	}

	return cfg, p
}
