// Copyright (c) 2025 Antti Kivi
// SPDX-License-Identifier: MIT

package clncli

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/anttikivi/cln/internal/exit"
	"github.com/anttikivi/cln/internal/ui"
	"github.com/anttikivi/cln/pkg/lnsocket"
	"github.com/spf13/cobra"
)

func newCallCommand() *cobra.Command {
	//nolint:exhaustruct // we want the default values
	cmd := &cobra.Command{
		Use:   "call <method> [params-json]",
		Short: "Call an RPC method on the daemon's UNIX socket",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  runCall,
	}

	return cmd
}

func runCall(cmd *cobra.Command, args []string) error {
	cfg, p := fromContext(cmd)

	method := args[0]

	var params any

	if len(args) == 2 {
		if err := json.Unmarshal([]byte(args[1]), &params); err != nil {
			return exit.New(exit.InvalidConfig, fmt.Errorf("params is not valid JSON: %w", err))
		}
	}

	client := lnsocket.New(cfg.SocketPath)
	client.SetTimeout(cfg.Timeout)

	var result json.RawMessage

	if err := client.SendRequest(cmd.Context(), method, params, &result); err != nil {
		ui.Errorf(p, "call failed: %v\n", err)

		return exit.New(exit.CommandRunFailure, err)
	}

	pretty, err := indentJSON(result)
	if err != nil {
		return exit.New(exit.CommandRunFailure, fmt.Errorf("failed to format the response: %w", err))
	}

	ui.Printf(p, "%s\n", pretty)

	return nil
}

func indentJSON(raw json.RawMessage) (string, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return "", fmt.Errorf("%w", err)
	}

	return buf.String(), nil
}
