// Copyright (c) 2025 Antti Kivi
// SPDX-License-Identifier: MIT

// Command clnplugin-example is a minimal Core Lightning plugin demonstrating
// pkg/plugin: one RPC method, one hook, one notification subscription, and
// an option, wired the way a real plugin built on this runtime would be.
package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/anttikivi/cln/internal/logging"
	"github.com/anttikivi/cln/pkg/jlog"
	"github.com/anttikivi/cln/pkg/plugin"
)

// state is this plugin's user state, carried through every handler.
type state struct {
	greetings int
}

func main() {
	p := plugin.New(state{})

	p.RegisterOption(plugin.Option{
		Name:        "greeting",
		Type:        plugin.FlagString,
		Default:     "hello",
		Description: "word used to greet the caller of the \"greet\" method",
	})

	p.RegisterMethod(plugin.MethodDescriptor{
		Name:        "greet",
		Usage:       "name",
		Description: "Greet name using the configured greeting option",
	}, greet)

	p.RegisterHook(plugin.HookDescriptor{
		Name: "peer_connected",
	}, allowPeer)

	p.RegisterNotification("shutdown", onShutdown)

	slog.SetDefault(slog.New(jlog.NewHandler(p)))

	if logFile := os.Getenv("CLN_PLUGIN_LOG_FILE"); logFile != "" {
		if err := attachLocalLog(p, logFile); err != nil {
			fmt.Fprintf(os.Stderr, "clnplugin-example: failed to attach local log: %v\n", err)
		}
	}

	if err := p.Serve(); err != nil {
		fmt.Fprintf(os.Stderr, "clnplugin-example: %v\n", err)
		os.Exit(1)
	}
}

// attachLocalLog gives the runtime its own on-disk diagnostic logger,
// additive to the outbound "log" notifications installed as the slog
// default above (spec.md §4.3.6's primary channel).
func attachLocalLog(p *plugin.Plugin[state], file string) error {
	cfg := &logging.Config{
		File:     file,
		Format:   logging.FormatText,
		Level:    logging.DefaultLevel,
		Output:   logging.OutputFile,
		Rotate:   logging.DefaultRotate,
		UseColor: false,
	}

	w, err := logging.Writer(cfg.Output, cfg.File, cfg.Rotate)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", file, err)
	}

	h, err := logging.Handler(w, cfg)
	if err != nil {
		return fmt.Errorf("failed to build the log handler: %w", err)
	}

	p.SetLogger(slog.New(h))

	return nil
}

func greet(p *plugin.Plugin[state], params json.RawMessage) (any, error) {
	var args struct {
		Name string `json:"name"`
	}

	if len(params) > 0 {
		if err := json.Unmarshal(params, &args); err != nil {
			// Lightning clients also call methods with positional array
			// params; fall back to that shape.
			var positional []string
			if err := json.Unmarshal(params, &positional); err == nil && len(positional) > 0 {
				args.Name = positional[0]
			}
		}
	}

	if args.Name == "" {
		args.Name = "world"
	}

	greeting, _ := p.GetOpt("greeting")

	s := p.UserState()
	s.greetings++

	slog.Info("greeted a caller", "name", args.Name, "total", s.greetings)

	return map[string]any{
		"greeting": fmt.Sprintf("%v, %s!", greeting, args.Name),
	}, nil
}

func allowPeer(_ *plugin.Plugin[state], _ json.RawMessage) (any, error) {
	return map[string]string{"result": "continue"}, nil
}

func onShutdown(p *plugin.Plugin[state], _ json.RawMessage) error {
	p.Stop()

	return nil
}
