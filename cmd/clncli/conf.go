// Copyright (c) 2025 Antti Kivi
// SPDX-License-Identifier: MIT

package clncli

import (
	"fmt"

	"github.com/anttikivi/cln/internal/exit"
	"github.com/anttikivi/cln/internal/ui"
	"github.com/anttikivi/cln/pkg/conf"
	"github.com/spf13/cobra"
)

func newConfCommand() *cobra.Command {
	//nolint:exhaustruct // we want the default values
	cmd := &cobra.Command{
		Use:   "conf",
		Short: "Read or edit a lightningd-style config file",
	}

	cmd.AddCommand(newConfGetCommand())
	cmd.AddCommand(newConfSetCommand())

	return cmd
}

func newConfGetCommand() *cobra.Command {
	//nolint:exhaustruct // we want the default values
	return &cobra.Command{
		Use:   "get <path> <key>",
		Short: "Print every value of key in the config file and its includes",
		Args:  cobra.ExactArgs(2),
		RunE:  runConfGet,
	}
}

func newConfSetCommand() *cobra.Command {
	//nolint:exhaustruct // we want the default values
	cmd := &cobra.Command{
		Use:   "set <path> <key> <value>",
		Short: "Append key=value to the config file and write it back",
		Args:  cobra.ExactArgs(3),
		RunE:  runConfSet,
	}

	cmd.Flags().Bool("bare", false, "add key as a bare, valueless entry instead (ignores <value>)")

	return cmd
}

func runConfGet(cmd *cobra.Command, args []string) error {
	_, p := fromContext(cmd)

	path, key := args[0], args[1]

	tree, err := conf.Parse(path)
	if err != nil {
		ui.Errorf(p, "failed to parse %s: %v\n", path, err)

		return exit.New(exit.CommandRunFailure, err)
	}

	values := tree.GetAll(key)
	if len(values) == 0 {
		ui.Warnf(p, "%s: no value for %q\n", path, key)

		return nil
	}

	for _, v := range values {
		ui.Printf(p, "%s\n", v)
	}

	return nil
}

func runConfSet(cmd *cobra.Command, args []string) error {
	_, p := fromContext(cmd)

	path, key, value := args[0], args[1], args[2]

	bare, err := cmd.Flags().GetBool("bare")
	if err != nil {
		return exit.New(exit.CommandRunFailure, fmt.Errorf("failed to read the \"bare\" flag: %w", err))
	}

	tree, err := conf.ParseOrCreate(path)
	if err != nil {
		ui.Errorf(p, "failed to parse %s: %v\n", path, err)

		return exit.New(exit.CommandRunFailure, err)
	}

	if bare {
		err = tree.AddBare(key)
	} else {
		err = tree.Add(key, value)
	}

	if err != nil {
		ui.Errorf(p, "failed to add entry: %v\n", err)

		return exit.New(exit.CommandRunFailure, err)
	}

	if err := tree.Flush(); err != nil {
		ui.Errorf(p, "failed to write %s: %v\n", path, err)

		return exit.New(exit.CommandRunFailure, err)
	}

	ui.Successln(p, "updated", path)

	return nil
}
