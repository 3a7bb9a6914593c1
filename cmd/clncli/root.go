// Copyright (c) 2025 Antti Kivi
// SPDX-License-Identifier: MIT

// Package clncli implements the command-line client for talking to a running
// Core Lightning daemon over its UNIX socket, inspecting a gossip_store file,
// and editing a lightningd-style config file.
package clncli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/anttikivi/cln/internal/build"
	"github.com/anttikivi/cln/internal/constants"
	"github.com/anttikivi/cln/internal/exit"
	"github.com/anttikivi/cln/internal/logging"
	"github.com/anttikivi/cln/internal/semver"
	"github.com/anttikivi/cln/internal/ui"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// helpDescription is the description printed when the root command is run
// with `--help`.
//
//nolint:gochecknoglobals // Easier to keep here instead of inlining.
var helpDescription = constants.Name + ` talks to a running Core Lightning daemon over its UNIX socket, ` +
	`decodes a gossip_store file, and reads or edits a lightningd-style config file. Call one of the ` +
	`subcommands for more information.`

// Run runs clncli with the version number set by the build script. It
// returns the process exit code.
func Run() exit.Code {
	defer logging.HandlePanic()

	v := build.Version
	if semver.IsValid(v) {
		if parsed, ok := semver.Parse(v); ok {
			v = parsed.String()
		}
	}

	return run(v)
}

// RunAs runs clncli with an explicit version string, used by `go build`
// invocations that don't receive a version from the build script.
func RunAs(v string) exit.Code {
	defer logging.HandlePanic()

	return run(v)
}

func run(v string) exit.Code {
	if v == "" {
		v = "unknown"
	}

	vpr := viper.New()

	cmd, err := newRootCommand(vpr, v)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)

		var exitErr *exit.Error
		if errors.As(err, &exitErr) {
			return exitErr.Code
		}

		return exit.Failure
	}

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "clncli: %v\n", err)

		var exitErr *exit.Error
		if errors.As(err, &exitErr) {
			return exitErr.Code
		}

		return exit.Failure
	}

	return exit.Success
}

func newRootCommand(vpr *viper.Viper, v string) (*cobra.Command, error) {
	cobra.EnableTraverseRunHooks = true

	cmd := &cobra.Command{ //nolint:exhaustruct // we want the default values
		Use:               constants.CommandName + " command [flags]",
		Short:             constants.Name + " talks to a Core Lightning daemon",
		Long:              helpDescription,
		Version:           v,
		PersistentPreRunE: persistentPreRun(vpr),
		RunE:              runHelp,
		SilenceErrors:     true,
		SilenceUsage:      true,
	}

	cmd.SetVersionTemplate(versionTemplate(v) + "\n")

	if err := addPersistentFlags(cmd, vpr); err != nil {
		return nil, exit.New(exit.InvalidConfig, err)
	}

	cmd.AddCommand(newCallCommand())
	cmd.AddCommand(newGossipCommand())
	cmd.AddCommand(newConfCommand())
	cmd.AddCommand(newVersionCommand(v))

	return cmd, nil
}

func addPersistentFlags(cmd *cobra.Command, vpr *viper.Viper) error {
	cmd.PersistentFlags().String("socket", DefaultSocketPath, "path to the daemon's UNIX domain socket")
	cmd.PersistentFlags().Duration("timeout", DefaultTimeout, "timeout for a single RPC round trip, 0 to disable")
	cmd.PersistentFlags().StringP("config-file", "c", "", "path to the clncli config file")
	cmd.PersistentFlags().Bool("color", !color.NoColor, "use colors in the command-line output")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "print more verbose diagnostic output")
	cmd.PersistentFlags().BoolP("quiet", "q", false, "suppress non-essential output")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	for _, b := range []struct{ key, flag string }{
		{KeySocket, "socket"},
		{KeyTimeout, "timeout"},
		{KeyConfigFile, "config-file"},
		{KeyColor, "color"},
		{KeyVerbose, "verbose"},
		{KeyQuiet, "quiet"},
	} {
		if err := vpr.BindPFlag(b.key, cmd.PersistentFlags().Lookup(b.flag)); err != nil {
			return fmt.Errorf("failed to bind the flag %q to config %q: %w", b.flag, b.key, err)
		}
	}

	return nil
}

func runHelp(cmd *cobra.Command, _ []string) error {
	if err := cmd.Help(); err != nil {
		return exit.New(exit.CommandRunFailure, fmt.Errorf("failed to print the command help: %w", err))
	}

	return nil
}

func persistentPreRun(vpr *viper.Viper) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		if isFastInit(cmd) {
			logging.FastInit()

			return nil
		}

		if err := initConfig(vpr, cmd); err != nil {
			return fmt.Errorf("%w", err)
		}

		cfg, err := parseConfig(vpr)
		if err != nil {
			return fmt.Errorf("%w", err)
		}

		if !cfg.UseColor {
			color.NoColor = true
		}

		if err := logging.Init(&logging.Config{
			File:     logging.DefaultFile,
			Format:   logging.DefaultFormat,
			Level:    logging.DefaultLevel,
			Output:   logging.OutputNone,
			Rotate:   logging.DefaultRotate,
			UseColor: cfg.UseColor,
		}); err != nil {
			return exit.New(exit.InvalidConfig, fmt.Errorf("failed to initialize logging: %w", err))
		}

		slog.Debug("resolved clncli configuration", "config", cfg)

		if cfg.ConfigFile != "" {
			if raw, err := decodeTOMLFile(cfg.ConfigFile); err != nil {
				slog.Warn("failed to re-read the config file for diagnostics", "path", cfg.ConfigFile, "error", err)
			} else {
				slog.Debug("raw config file contents", "path", cfg.ConfigFile, "contents", raw)
			}
		}

		p := ui.NewPrinter(cfg.Verbose, cfg.Quiet)

		ctx := context.WithValue(cmd.Context(), configContextKey, cfg)
		ctx = context.WithValue(ctx, printerContextKey, p)
		cmd.SetContext(ctx)

		return nil
	}
}

// isFastInit reports whether cmd should skip config resolution and logging
// init, matching the teacher's "cmd_fast_init" annotation convention.
func isFastInit(cmd *cobra.Command) bool {
	if cmd.Annotations == nil {
		return false
	}

	return cmd.Annotations["cmd_fast_init"] == "true"
}

func versionTemplate(v string) string {
	s := "build"
	if semver.IsValid(v) {
		s = "version"
	}

	return fmt.Sprintf("%s %s %s", constants.CommandName, s, v)
}
