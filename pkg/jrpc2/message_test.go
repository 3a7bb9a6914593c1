// Copyright (c) 2025 Antti Kivi
// SPDX-License-Identifier: MIT

package jrpc2_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/anttikivi/cln/pkg/jrpc2"
)

func TestRequestRoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		id   jrpc2.ID
	}{
		{name: "string id", id: jrpc2.NewStringID("abc")},
		{name: "int id", id: jrpc2.NewIntID(42)},
		{name: "notification", id: jrpc2.ID{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req, err := jrpc2.NewRequest("getinfo", map[string]int{"x": 1}, tt.id)
			if err != nil {
				t.Fatalf("NewRequest: %v", err)
			}

			data, err := json.Marshal(req)
			if err != nil {
				t.Fatalf("Marshal: %v", err)
			}

			var decoded map[string]any
			if err := json.Unmarshal(data, &decoded); err != nil {
				t.Fatalf("Unmarshal into map: %v", err)
			}

			if decoded["jsonrpc"] != "2.0" {
				t.Fatalf("jsonrpc = %v, want 2.0", decoded["jsonrpc"])
			}

			if _, hasID := decoded["id"]; hasID != !tt.id.IsZero() {
				t.Fatalf("id presence = %v, want %v", hasID, !tt.id.IsZero())
			}

			var got jrpc2.Request
			if err := json.Unmarshal(data, &got); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}

			if got.Method != req.Method {
				t.Fatalf("method = %q, want %q", got.Method, req.Method)
			}

			if !got.ID.Equal(tt.id) {
				t.Fatalf("id = %v, want %v", got.ID, tt.id)
			}

			if got.IsNotification() != tt.id.IsZero() {
				t.Fatalf("IsNotification = %v, want %v", got.IsNotification(), tt.id.IsZero())
			}
		})
	}
}

func TestRequestRejectsVersionMismatch(t *testing.T) {
	t.Parallel()

	var r jrpc2.Request

	err := json.Unmarshal([]byte(`{"jsonrpc":"1.1","method":"x","id":1}`), &r)
	if !errors.Is(err, jrpc2.ErrVersionMismatch) {
		t.Fatalf("err = %v, want ErrVersionMismatch", err)
	}
}

func TestResponseExtract(t *testing.T) {
	t.Parallel()

	t.Run("result only", func(t *testing.T) {
		t.Parallel()

		resp, err := jrpc2.NewResultResponse(jrpc2.NewIntID(1), map[string]int{"x": 7})
		if err != nil {
			t.Fatalf("NewResultResponse: %v", err)
		}

		var out map[string]int

		if err := resp.Extract(&out); err != nil {
			t.Fatalf("Extract: %v", err)
		}

		if out["x"] != 7 {
			t.Fatalf("out[x] = %d, want 7", out["x"])
		}
	})

	t.Run("error only", func(t *testing.T) {
		t.Parallel()

		resp := jrpc2.NewErrorResponse(jrpc2.NewIntID(1), &jrpc2.Error{Code: -1, Message: "boom"})

		var rpcErr *jrpc2.RPCError

		err := resp.Extract(nil)
		if !errors.As(err, &rpcErr) {
			t.Fatalf("err = %v, want *RPCError", err)
		}

		if rpcErr.Err.Code != -1 {
			t.Fatalf("code = %d, want -1", rpcErr.Err.Code)
		}
	})

	t.Run("neither", func(t *testing.T) {
		t.Parallel()

		resp := &jrpc2.Response{ID: jrpc2.NewIntID(1), JSONRCP: jrpc2.Version}

		if err := resp.Extract(nil); !errors.Is(err, jrpc2.ErrNoErrorOrResult) {
			t.Fatalf("err = %v, want ErrNoErrorOrResult", err)
		}
	})

	t.Run("both prefers error", func(t *testing.T) {
		t.Parallel()

		resp := &jrpc2.Response{
			ID:      jrpc2.NewIntID(1),
			JSONRCP: jrpc2.Version,
			Result:  json.RawMessage(`{}`),
			Error:   &jrpc2.Error{Code: -2, Message: "both"},
		}

		var rpcErr *jrpc2.RPCError
		if err := resp.Extract(nil); !errors.As(err, &rpcErr) {
			t.Fatalf("err = %v, want *RPCError", err)
		}
	})
}

func TestResponseUnmarshalRejectsVersionMismatch(t *testing.T) {
	t.Parallel()

	var r jrpc2.Response

	err := json.Unmarshal([]byte(`{"jsonrpc":"1.1","id":1,"result":{}}`), &r)
	if !errors.Is(err, jrpc2.ErrVersionMismatch) {
		t.Fatalf("err = %v, want ErrVersionMismatch", err)
	}
}

func TestIDEqual(t *testing.T) {
	t.Parallel()

	if !jrpc2.NewIntID(1).Equal(jrpc2.NewIntID(1)) {
		t.Fatal("equal ints should be Equal")
	}

	if jrpc2.NewIntID(1).Equal(jrpc2.NewStringID("1")) {
		t.Fatal("int id should not equal string id with the same text")
	}

	if !(jrpc2.ID{}).Equal(jrpc2.ID{}) {
		t.Fatal("zero ids should be Equal")
	}
}
