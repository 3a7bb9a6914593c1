// Copyright (c) 2025 Antti Kivi
// SPDX-License-Identifier: MIT

// Package harness spawns a plugin executable and drives it over its stdio
// exactly as a real daemon would (spec.md §4.3.4/§6, "input delimited by
// \n\n"), for end-to-end tests of the getmanifest/init handshake and of
// individual RPC methods, hooks, and notifications. Launching the daemon
// itself is out of scope (spec.md §6 Non-goals); this harness only ever
// launches the plugin side of the conversation.
package harness

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/exec"
	"sync"
	"time"

	"github.com/anttikivi/cln/pkg/jrpc2"
)

// frameDelimiter mirrors pkg/plugin's own inbound/outbound framing so the
// harness speaks the same wire shape as a real daemon.
var frameDelimiter = []byte("\n\n")

// Plugin manages one running plugin subprocess, feeding it framed JSON-RPC
// requests on stdin and decoding framed responses/notifications off stdout.
type Plugin struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout *bufio.Reader
	stderr *bytes.Buffer

	mu  sync.Mutex
	buf bytes.Buffer
}

// Start launches the executable at path with args, connecting pipes to its
// stdin/stdout/stderr. The caller must call [Plugin.Close] once done.
func Start(ctx context.Context, path string, args ...string) (*Plugin, error) {
	cmd := exec.CommandContext(ctx, path, args...)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("harness: failed to open stdin pipe: %w", err)
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("harness: failed to open stdout pipe: %w", err)
	}

	var stderr bytes.Buffer

	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("harness: failed to start %s: %w", path, err)
	}

	return &Plugin{
		cmd:    cmd,
		stdin:  stdin,
		stdout: bufio.NewReaderSize(stdout, 64*1024),
		stderr: &stderr,
	}, nil
}

// Close stops the subprocess, closing its stdin first so a well-behaved
// plugin exits on its own before the grace period elapses.
func (p *Plugin) Close() error {
	_ = p.stdin.Close()

	done := make(chan error, 1)

	go func() { done <- p.cmd.Wait() }()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("harness: plugin exited with error: %w", err)
		}

		return nil
	case <-time.After(2 * time.Second):
		_ = p.cmd.Process.Kill()

		return fmt.Errorf("harness: %w", <-done)
	}
}

// Stderr returns everything the subprocess has written to stderr so far.
func (p *Plugin) Stderr() string {
	return p.stderr.String()
}

// Call sends a request with method and params and blocks for the matching
// response, skipping over any notifications the plugin emits first (a log
// notification commonly precedes a response to the call that triggered it).
func (p *Plugin) Call(method string, params any, id jrpc2.ID) (*jrpc2.Response, error) {
	req, err := jrpc2.NewRequest(method, params, id)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	if err := p.send(req); err != nil {
		return nil, err
	}

	for {
		payload, err := p.nextFrame()
		if err != nil {
			return nil, err
		}

		var probe struct {
			ID json.RawMessage `json:"id"`
		}

		if err := json.Unmarshal(payload, &probe); err != nil {
			return nil, fmt.Errorf("harness: malformed frame from plugin: %w", err)
		}

		if probe.ID == nil {
			continue // a notification, not the response we're waiting for
		}

		var resp jrpc2.Response
		if err := json.Unmarshal(payload, &resp); err != nil {
			return nil, fmt.Errorf("harness: failed to decode response: %w", err)
		}

		return &resp, nil
	}
}

// Notify sends a fire-and-forget notification to the plugin.
func (p *Plugin) Notify(method string, params any) error {
	req, err := jrpc2.NewNotification(method, params)
	if err != nil {
		return fmt.Errorf("%w", err)
	}

	return p.send(req)
}

// NextNotification blocks for the next outbound notification the plugin
// sends (for example a "log" record), decoding its raw method and params.
func (p *Plugin) NextNotification() (method string, params json.RawMessage, err error) {
	payload, err := p.nextFrame()
	if err != nil {
		return "", nil, err
	}

	var n struct {
		Method string          `json:"method"`
		Params json.RawMessage `json:"params"`
	}

	if err := json.Unmarshal(payload, &n); err != nil {
		return "", nil, fmt.Errorf("harness: malformed notification frame: %w", err)
	}

	return n.Method, n.Params, nil
}

func (p *Plugin) send(req *jrpc2.Request) error {
	data, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("harness: failed to marshal request: %w", err)
	}

	if _, err := p.stdin.Write(data); err != nil {
		return fmt.Errorf("harness: failed to write request: %w", err)
	}

	if _, err := p.stdin.Write(frameDelimiter); err != nil {
		return fmt.Errorf("harness: failed to write frame delimiter: %w", err)
	}

	return nil
}

// nextFrame reads one \n\n-delimited message from the plugin's stdout,
// matching pkg/plugin's own frameReader algorithm.
func (p *Plugin) nextFrame() ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for {
		if idx := bytes.Index(p.buf.Bytes(), frameDelimiter); idx >= 0 {
			payload := make([]byte, idx)
			copy(payload, p.buf.Bytes()[:idx])
			p.buf.Next(idx + len(frameDelimiter))

			payload = bytes.TrimSpace(payload)
			if len(payload) == 0 {
				continue
			}

			return payload, nil
		}

		chunk := make([]byte, 4096)

		n, err := p.stdout.Read(chunk)
		if n > 0 {
			p.buf.Write(chunk[:n])
		}

		if err != nil {
			return nil, fmt.Errorf("harness: failed to read from plugin stdout: %w", err)
		}
	}
}
