// Copyright (c) 2025 Antti Kivi
// SPDX-License-Identifier: MIT

package plugin

import (
	"encoding/json"
	"fmt"
)

// LogLevel is one of the four levels the "log" notification accepts
// (spec.md §4.3.6).
type LogLevel string

// The log levels recognized by the daemon.
const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// MethodLog is the outbound notification method used for structured logging.
const MethodLog = "log"

// logParams is the wire shape of a "log" notification's parameters.
type logParams struct {
	Level   LogLevel       `json:"level"`
	Message string         `json:"message"`
	Fields  map[string]any `json:"fields,omitempty"`
}

// Log emits a "log" outbound notification using the same serializer and
// stdout writer as responses, under the same framing (spec.md §4.3.6). It is
// safe to call from any method, hook, or notification handler; because the
// runtime is single-threaded, no locking beyond the frame writer's own
// exclusion is required.
func (p *Plugin[T]) Log(level LogLevel, message string, fields map[string]any) error {
	if p.writer == nil {
		return nil // Serve hasn't started yet; nowhere to write to.
	}

	req, err := newLogNotification(level, message, fields)
	if err != nil {
		return err
	}

	data, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("plugin: marshal log notification: %w", err)
	}

	return p.writer.write(data)
}

// Notify implements the jlog.Sink interface (package
// github.com/anttikivi/cln/pkg/jlog) so a [Plugin] can be used directly as
// the sink of an [slog.Handler] built with jlog.NewHandler, without pkg/jlog
// needing to import pkg/plugin.
func (p *Plugin[T]) Notify(level string, message string, fields map[string]any) error {
	return p.Log(LogLevel(level), message, fields)
}

func newLogNotification(level LogLevel, message string, fields map[string]any) (any, error) {
	params := logParams{Level: level, Message: message, Fields: fields}

	raw, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("plugin: marshal log params: %w", err)
	}

	return &rawNotification{Method: MethodLog, Params: raw}, nil
}

// rawNotification is a minimal JSON-RPC notification envelope used only for
// outbound frames the runtime itself originates (as opposed to responses to
// inbound calls, which go through [jrpc2.Response]).
type rawNotification struct {
	Method string          `json:"method"`
	Params json.RawMessage `json:"params,omitempty"`
}

// MarshalJSON implements [json.Marshaler], always emitting jsonrpc="2.0" and
// omitting the id field entirely, matching spec.md §3/§6.
func (n *rawNotification) MarshalJSON() ([]byte, error) {
	type wire struct {
		JSONRCP string          `json:"jsonrpc"`
		Method  string          `json:"method"`
		Params  json.RawMessage `json:"params,omitempty"`
	}

	data, err := json.Marshal(wire{JSONRCP: "2.0", Method: n.Method, Params: n.Params})
	if err != nil {
		return nil, fmt.Errorf("plugin: marshal notification: %w", err)
	}

	return data, nil
}
