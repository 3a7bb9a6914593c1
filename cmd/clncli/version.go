// Copyright (c) 2025 Antti Kivi
// SPDX-License-Identifier: MIT

package clncli

import (
	"fmt"

	"github.com/anttikivi/cln/internal/constants"
	"github.com/spf13/cobra"
)

func newVersionCommand(v string) *cobra.Command {
	s := versionTemplate(v)

	return &cobra.Command{ //nolint:exhaustruct // we want the default values
		Use:   "version",
		Short: "Print the version information of " + constants.Name,
		Annotations: map[string]string{
			"cmd_fast_init": "true",
		},
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), s)
		},
		SilenceErrors: true,
	}
}
