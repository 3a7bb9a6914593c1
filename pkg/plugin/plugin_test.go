// Copyright (c) 2025 Antti Kivi
// SPDX-License-Identifier: MIT

package plugin_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/anttikivi/cln/pkg/jrpc2"
	"github.com/anttikivi/cln/pkg/plugin"
)

type state struct {
	notified bool
}

// script is a tiny fixture that feeds framed requests to a plugin and
// collects the framed responses it writes back.
type script struct {
	t   *testing.T
	in  bytes.Buffer
	out bytes.Buffer
}

func newScript(t *testing.T) *script {
	t.Helper()

	return &script{t: t}
}

func (s *script) send(id any, method string, params any) {
	s.t.Helper()

	raw, err := json.Marshal(params)
	if err != nil {
		s.t.Fatalf("marshal params: %v", err)
	}

	obj := map[string]any{"jsonrpc": "2.0", "method": method, "params": json.RawMessage(raw)}
	if id != nil {
		obj["id"] = id
	}

	data, err := json.Marshal(obj)
	if err != nil {
		s.t.Fatalf("marshal request: %v", err)
	}

	s.in.Write(data)
	s.in.WriteString("\n\n")
}

// responses splits the recorded output into individual frames.
func (s *script) responses() []jrpc2.Response {
	s.t.Helper()

	parts := strings.Split(strings.TrimSpace(s.out.String()), "\n\n")

	var out []jrpc2.Response

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		var r jrpc2.Response
		if err := json.Unmarshal([]byte(part), &r); err != nil {
			s.t.Fatalf("unmarshal response %q: %v", part, err)
		}

		out = append(out, r)
	}

	return out
}

func newTestPlugin() *plugin.Plugin[*state] {
	p := plugin.New(&state{})
	p.Dynamic = true

	p.RegisterOption(plugin.Option{Name: "foo", Type: plugin.FlagInt, Default: int64(3)})

	p.RegisterMethod(plugin.MethodDescriptor{Name: "hello"}, func(p *plugin.Plugin[*state], _ json.RawMessage) (any, error) {
		return map[string]string{"language": "go"}, nil
	})

	p.RegisterNotification("rpc_command", func(p *plugin.Plugin[*state], _ json.RawMessage) error {
		(*p.UserState()).notified = true

		return nil
	})

	p.RegisterNotification("shutdown", func(p *plugin.Plugin[*state], _ json.RawMessage) error {
		p.Stop()

		return nil
	})

	p.OnInit = func(p *plugin.Plugin[*state]) (any, error) {
		return map[string]string{"greeting": "hi"}, nil
	}

	return p
}

func TestHandshakeScenarios(t *testing.T) {
	t.Parallel()

	p := newTestPlugin()
	s := newScript(t)

	s.send(1, "getmanifest", map[string]any{})
	s.send(2, "init", map[string]any{
		"options":       map[string]any{"foo": 7},
		"configuration": map[string]any{"lightning-dir": "/tmp", "rpc-file": "lightning-rpc", "network": "regtest"},
	})
	s.send(3, "hello", map[string]any{})
	s.send(4, "nope", map[string]any{})
	s.send(nil, "rpc_command", map[string]any{})
	s.send(nil, "shutdown", map[string]any{})

	if err := p.ServeIO(&s.in, &s.out); err != nil {
		t.Fatalf("ServeIO: %v", err)
	}

	resps := s.responses()
	if len(resps) != 4 {
		t.Fatalf("got %d responses, want 4 (one per id-bearing request): %+v", len(resps), resps)
	}

	// 1. getmanifest
	var manifest plugin.ManifestResult

	if err := resps[0].Extract(&manifest); err != nil {
		t.Fatalf("getmanifest result: %v", err)
	}

	if manifest.Dynamic != true {
		t.Fatalf("dynamic = %v, want true", manifest.Dynamic)
	}

	if len(manifest.RPCMethods) != 1 || manifest.RPCMethods[0].Name != "hello" {
		t.Fatalf("rpcmethods = %+v, want exactly [hello]", manifest.RPCMethods)
	}

	// 2. init
	var initResult map[string]string

	if err := resps[1].Extract(&initResult); err != nil {
		t.Fatalf("init result: %v", err)
	}

	if initResult["greeting"] != "hi" {
		t.Fatalf("init result = %+v, want greeting=hi", initResult)
	}

	if v, ok := p.GetOpt("foo"); !ok || v != int64(7) {
		t.Fatalf("GetOpt(foo) = %v, %v, want 7, true", v, ok)
	}

	// 3. hello
	var helloResult map[string]string

	if err := resps[2].Extract(&helloResult); err != nil {
		t.Fatalf("hello result: %v", err)
	}

	if helloResult["language"] == "" {
		t.Fatal("hello result missing language")
	}

	// 4. unknown method
	err := resps[3].Extract(nil)

	var rpcErr *jrpc2.RPCError
	if !asRPCError(err, &rpcErr) {
		t.Fatalf("nope result err = %v, want *RPCError", err)
	}

	if rpcErr.Err.Code != jrpc2.CodeUncategorized {
		t.Fatalf("nope error code = %d, want %d", rpcErr.Err.Code, jrpc2.CodeUncategorized)
	}

	// Notification dispatched.
	if !(*p.UserState()).notified {
		t.Fatal("rpc_command notification was not dispatched")
	}

	if p.State() != plugin.Stopped {
		t.Fatalf("state = %v, want Stopped after shutdown notification", p.State())
	}
}

func TestUnknownMethodBeforeInit(t *testing.T) {
	t.Parallel()

	p := newTestPlugin()
	s := newScript(t)
	s.send(1, "hello", map[string]any{})

	if err := p.ServeIO(&s.in, &s.out); err != nil {
		t.Fatalf("ServeIO: %v", err)
	}

	resps := s.responses()
	if len(resps) != 1 {
		t.Fatalf("got %d responses, want 1", len(resps))
	}

	var rpcErr *jrpc2.RPCError
	if !asRPCError(resps[0].Extract(nil), &rpcErr) {
		t.Fatal("expected an RPC error before the handshake completes")
	}

	if rpcErr.Err.Code != jrpc2.CodeUncategorized {
		t.Fatalf("code = %d, want %d", rpcErr.Err.Code, jrpc2.CodeUncategorized)
	}
}

func TestNotificationHandlerFailureProducesNoFrame(t *testing.T) {
	t.Parallel()

	p := plugin.New(&state{})
	p.RegisterNotification("rpc_command", func(p *plugin.Plugin[*state], _ json.RawMessage) error {
		return fmt.Errorf("boom")
	})
	p.RegisterMethod(plugin.MethodDescriptor{Name: "hello"}, func(p *plugin.Plugin[*state], _ json.RawMessage) (any, error) {
		return map[string]string{"ok": "yes"}, nil
	})

	s := newScript(t)
	s.send(1, "getmanifest", map[string]any{})
	s.send(2, "init", map[string]any{"configuration": map[string]any{}})
	s.send(nil, "rpc_command", map[string]any{})
	s.send(3, "hello", map[string]any{}) // a call after the failed notification should still be served

	if err := p.ServeIO(&s.in, &s.out); err != nil {
		t.Fatalf("ServeIO: %v", err)
	}

	resps := s.responses()
	if len(resps) != 3 {
		t.Fatalf("got %d responses, want 3 (no frame for the failed notification)", len(resps))
	}

	if err := resps[2].Extract(nil); err != nil {
		t.Fatalf("hello call after failed notification: %v", err)
	}
}

func asRPCError(err error, target **jrpc2.RPCError) bool {
	for err != nil {
		if rpcErr, ok := err.(*jrpc2.RPCError); ok { //nolint:errorlint // test helper, simple type switch is clearer
			*target = rpcErr

			return true
		}

		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}

		err = u.Unwrap()
	}

	return false
}
