// Copyright (c) 2025 Antti Kivi
// SPDX-License-Identifier: MIT

// Package plugin implements the Core Lightning plugin runtime of spec.md
// §4.3: the getmanifest/init handshake, the method/hook/notification
// registries, the single-threaded cooperative stdio event loop, and
// structured logging emitted as outbound "log" notifications.
//
// The runtime is generic over a user state type T (spec.md's "late-bound
// generic plugin state"), carried through to every handler so a plugin can
// keep its own mutable state without global variables.
package plugin

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/anttikivi/cln/pkg/jrpc2"
)

// MethodFunc is the handler signature for a registered method or hook: given
// the plugin and the raw request params, it returns a JSON-encodable result
// or an error. A plain error is reported to the caller as an internal-error
// response; return *[jrpc2.Error] to control the code and data precisely.
type MethodFunc[T any] func(p *Plugin[T], params json.RawMessage) (any, error)

// NotificationFunc is the handler signature for an inbound notification. It
// returns no value to the daemon; a returned error is logged locally and
// discarded, per spec.md §4.3.5.
type NotificationFunc[T any] func(p *Plugin[T], params json.RawMessage) error

// methodEntry pairs a [MethodDescriptor] with its handler, matching the
// "tagged handler" design of spec.md §9: a (descriptor, function) pair rather
// than a trait object.
type methodEntry[T any] struct {
	desc MethodDescriptor
	fn   MethodFunc[T]
}

type hookEntry[T any] struct {
	desc HookDescriptor
	fn   MethodFunc[T]
}

type notificationEntry[T any] struct {
	event string
	fn    NotificationFunc[T]
}

// Plugin is a Core Lightning plugin runtime instance. Create one with [New],
// register methods/hooks/notifications/options before calling [Plugin.Serve],
// then run [Plugin.Serve] from main().
type Plugin[T any] struct {
	// Dynamic declares whether the daemon may load/unload this plugin without
	// restarting (spec.md §3).
	Dynamic bool

	// OnInit, if set, is invoked once "init" parameters have been parsed and
	// options stored; its return value (or error) becomes the init response.
	OnInit func(p *Plugin[T]) (any, error)

	state   T
	runtime State
	config  Configuration

	methods       map[string]*methodEntry[T]
	hooks         map[string]*hookEntry[T]
	notifications map[string]*notificationEntry[T]
	options       map[string]*Option

	stopping bool

	reader *frameReader
	writer *frameWriter
	logger *slog.Logger
}

// New creates a plugin runtime carrying initial as its user state.
func New[T any](initial T) *Plugin[T] {
	return &Plugin[T]{
		state:         initial,
		runtime:       PreManifest,
		methods:       make(map[string]*methodEntry[T]),
		hooks:         make(map[string]*hookEntry[T]),
		notifications: make(map[string]*notificationEntry[T]),
		options:       make(map[string]*Option),
		logger:        slog.Default(),
	}
}

// State returns the plugin's current handshake state.
func (p *Plugin[T]) State() State { return p.runtime }

// Config returns the configuration received at "init". Its zero value is
// returned before "init" completes.
func (p *Plugin[T]) Config() Configuration { return p.config }

// UserState returns the mutable state carried through to every handler.
func (p *Plugin[T]) UserState() *T { return &p.state }

// SetLogger overrides the [*slog.Logger] used for the runtime's own local
// diagnostics (distinct from the outbound "log" notifications emitted via
// [Plugin.Log]).
func (p *Plugin[T]) SetLogger(l *slog.Logger) { p.logger = l }

// RegisterMethod adds a method handler. Registries are frozen-by-convention
// once Serving begins (spec.md §5): callers register every method, hook,
// notification and option before [Plugin.Serve], and the runtime itself never
// calls Register*.
func (p *Plugin[T]) RegisterMethod(desc MethodDescriptor, fn MethodFunc[T]) {
	p.methods[desc.Name] = &methodEntry[T]{desc: desc, fn: fn}
}

// RegisterHook adds a hook handler.
func (p *Plugin[T]) RegisterHook(desc HookDescriptor, fn MethodFunc[T]) {
	p.hooks[desc.Name] = &hookEntry[T]{desc: desc, fn: fn}
}

// RegisterNotification subscribes to event, an inbound fire-and-forget
// notification the daemon may send.
func (p *Plugin[T]) RegisterNotification(event string, fn NotificationFunc[T]) {
	p.notifications[event] = &notificationEntry[T]{event: event, fn: fn}
}

// RegisterOption adds a plugin option descriptor. Its Value starts out equal
// to Default and is overwritten during "init" if the daemon supplied a value
// for this option's name.
func (p *Plugin[T]) RegisterOption(opt Option) {
	opt.Value = opt.Default
	o := opt
	p.options[opt.Name] = &o
}

// GetOpt returns the current value of a registered option and whether it was
// found.
func (p *Plugin[T]) GetOpt(name string) (any, bool) {
	o, ok := p.options[name]
	if !ok {
		return nil, false
	}

	return o.Value, true
}

// Stop requests that the event loop exit cleanly after the current frame
// finishes processing. Handlers for a terminal notification (conventionally
// "shutdown") call this to elect process exit, per spec.md §4.3.3.
func (p *Plugin[T]) Stop() { p.stopping = true }

// Serve runs the plugin's stdio event loop until stdin reaches end-of-stream
// or a handler calls [Plugin.Stop]. If the "init" call fails, Serve sends the
// error response and then returns an error, so the process can exit nonzero.
// Malformed inbound frames in the Serving
// state are logged and dropped rather than propagated, per spec.md §7; the
// plugin never panics on malformed input once past the handshake.
func (p *Plugin[T]) Serve() error {
	return p.ServeIO(os.Stdin, os.Stdout)
}

// ServeIO is [Plugin.Serve] with explicit stdio streams, primarily useful for
// tests and for embedding a plugin runtime inside another process.
func (p *Plugin[T]) ServeIO(in io.Reader, out io.Writer) error {
	p.reader = newFrameReader(in)
	p.writer = newFrameWriter(out)

	for {
		if p.stopping {
			p.runtime = Stopped

			return nil
		}

		payload, err := p.reader.next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				p.runtime = Stopped

				return nil
			}

			return fmt.Errorf("plugin: %w", err)
		}

		var req jrpc2.Request

		if err := json.Unmarshal(payload, &req); err != nil {
			p.logger.Warn("dropping malformed inbound frame", "error", err)

			continue
		}

		p.dispatch(&req)

		if req.Method == MethodInit && !req.IsNotification() && p.runtime == PreInit {
			p.runtime = Stopped

			return errors.New("plugin: init handshake failed")
		}
	}
}

// dispatch implements the per-message rules of spec.md §4.3.5.
func (p *Plugin[T]) dispatch(req *jrpc2.Request) {
	if req.IsNotification() {
		p.dispatchNotification(req)

		return
	}

	resp, err := p.dispatchCall(req)
	if err != nil {
		p.logger.Error("failed to build response", "method", req.Method, "error", err)

		return
	}

	data, err := json.Marshal(resp)
	if err != nil {
		p.logger.Error("failed to marshal response", "method", req.Method, "error", err)

		return
	}

	if err := p.writer.write(data); err != nil {
		p.logger.Error("failed to write response", "method", req.Method, "error", err)
	}
}

func (p *Plugin[T]) dispatchCall(req *jrpc2.Request) (*jrpc2.Response, error) {
	switch p.runtime {
	case PreManifest:
		if req.Method == MethodGetManifest {
			result, err := p.handleGetManifest(req.Params)
			if err != nil {
				return jrpc2.NewErrorResponse(req.ID, asRPCError(err)), nil
			}

			p.runtime = PreInit

			return jrpc2.NewResultResponse(req.ID, result)
		}

		return jrpc2.NewErrorResponse(req.ID, notFoundError(req.Method)), nil
	case PreInit:
		if req.Method == MethodInit {
			result, err := p.handleInit(req.Params)
			if err != nil {
				return jrpc2.NewErrorResponse(req.ID, asRPCError(err)), nil
			}

			p.runtime = Serving

			return jrpc2.NewResultResponse(req.ID, result)
		}

		return jrpc2.NewErrorResponse(req.ID, notFoundError(req.Method)), nil
	case Serving:
		return p.dispatchServing(req)
	default:
		return jrpc2.NewErrorResponse(req.ID, notFoundError(req.Method)), nil
	}
}

func (p *Plugin[T]) dispatchServing(req *jrpc2.Request) (*jrpc2.Response, error) {
	if m, ok := p.methods[req.Method]; ok {
		result, err := m.fn(p, req.Params)
		if err != nil {
			return jrpc2.NewErrorResponse(req.ID, asRPCError(err)), nil
		}

		return jrpc2.NewResultResponse(req.ID, result)
	}

	if h, ok := p.hooks[req.Method]; ok {
		result, err := h.fn(p, req.Params)
		if err != nil {
			return jrpc2.NewErrorResponse(req.ID, asRPCError(err)), nil
		}

		return jrpc2.NewResultResponse(req.ID, result)
	}

	return jrpc2.NewErrorResponse(req.ID, notFoundError(req.Method)), nil
}

func (p *Plugin[T]) dispatchNotification(req *jrpc2.Request) {
	n, ok := p.notifications[req.Method]
	if !ok {
		return // silently ignored, per spec.md §4.3.5
	}

	if err := n.fn(p, req.Params); err != nil {
		p.logger.Warn("notification handler failed", "event", req.Method, "error", err)
	}
}

// notFoundError builds the "{code:-1, message:\"callback for … not
// found\"}" response mandated by spec.md §4.3.5 and §8's testable
// properties, used uniformly across every handshake state.
func notFoundError(method string) *jrpc2.Error {
	return &jrpc2.Error{
		Code:    jrpc2.CodeUncategorized,
		Message: fmt.Sprintf("callback for %s not found", method),
	}
}

// asRPCError converts a handler error into a wire [*jrpc2.Error], preserving
// code and message when the handler already returned one.
func asRPCError(err error) *jrpc2.Error {
	var rpcErr *jrpc2.Error
	if errors.As(err, &rpcErr) {
		return rpcErr
	}

	return &jrpc2.Error{Code: jrpc2.CodeInternalError, Message: err.Error()}
}

// Standard RPP method names, per spec.md §4.3.1 and §6.
const (
	MethodGetManifest = "getmanifest"
	MethodInit        = "init"
)
