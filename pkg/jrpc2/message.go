// Copyright (c) 2025 Antti Kivi
// SPDX-License-Identifier: MIT

// Package jrpc2 implements the JSON-RPC 2.0 dialect spoken by Core Lightning:
// request and response framing, identifier polymorphism, and the structured
// error taxonomy shared by the socket client and the plugin runtime.
package jrpc2

import (
	"encoding/json"
	"fmt"
	"log/slog"
)

// Version is the only accepted value of the "jsonrpc" field.
const Version = "2.0"

// ID is the JSON-RPC request identifier. It is either a string, an unsigned
// integer, or absent (nil), which marks a notification. Two ids compare equal
// with [ID.Equal] using structural equality, matching the spec's requirement
// that id comparison not depend on the underlying Go representation used to
// construct it.
type ID struct {
	value any // nil, string, or uint64
}

// NewStringID returns an [ID] carrying a string value.
func NewStringID(s string) ID { return ID{value: s} }

// NewIntID returns an [ID] carrying an unsigned integer value.
func NewIntID(n uint64) ID { return ID{value: n} }

// IsZero reports whether id is absent, i.e. the request is a notification.
func (id ID) IsZero() bool { return id.value == nil }

// String returns a human-readable rendering of the id, used for log output
// and error messages. It never returns quoted JSON.
func (id ID) String() string {
	switch v := id.value.(type) {
	case nil:
		return "<none>"
	case string:
		return v
	case uint64:
		return fmt.Sprintf("%d", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Equal reports whether id and other identify the same request.
func (id ID) Equal(other ID) bool {
	switch a := id.value.(type) {
	case nil:
		return other.value == nil
	case string:
		b, ok := other.value.(string)
		return ok && a == b
	case uint64:
		b, ok := other.value.(uint64)
		return ok && a == b
	default:
		return false
	}
}

// MarshalJSON implements [json.Marshaler]. An absent id marshals as JSON
// null; callers that want the field omitted entirely must rely on
// [Request.MarshalJSON], which drops the field when the id is absent.
func (id ID) MarshalJSON() ([]byte, error) {
	switch v := id.value.(type) {
	case nil:
		return []byte("null"), nil
	case string:
		return json.Marshal(v)
	case uint64:
		return json.Marshal(v)
	default:
		return nil, fmt.Errorf("jrpc2: invalid id type %T", v)
	}
}

// UnmarshalJSON implements [json.Unmarshaler]. It accepts a JSON string, a
// JSON number (decoded as an unsigned integer), or null.
func (id *ID) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("jrpc2: decode id: %w", err)
	}

	switch v := raw.(type) {
	case nil:
		id.value = nil
	case string:
		id.value = v
	case float64:
		if v < 0 || v != float64(uint64(v)) {
			return fmt.Errorf("%w: id %v is not a non-negative integer", ErrJSON, v)
		}

		id.value = uint64(v)
	default:
		return fmt.Errorf("%w: id has unsupported type %T", ErrJSON, v)
	}

	return nil
}

// LogValue implements [slog.LogValuer].
func (id ID) LogValue() slog.Value {
	if id.IsZero() {
		return slog.StringValue("<none>")
	}

	switch v := id.value.(type) {
	case uint64:
		return slog.Uint64Value(v)
	case string:
		return slog.StringValue(v)
	default:
		return slog.AnyValue(v)
	}
}

// Request is a JSON-RPC 2.0 request or notification object.
type Request struct {
	Method string          `json:"method"`
	Params json.RawMessage `json:"params,omitempty"`
	ID     ID              `json:"-"`

	// hasID tracks whether ID should be serialized; a notification has no id
	// field at all, which differs from an id that unmarshals to JSON null.
	hasID bool
}

// NewRequest builds a request carrying id. Pass a zero [ID] (or use
// [NewNotification]) to build a notification.
func NewRequest(method string, params any, id ID) (*Request, error) {
	raw, err := encodeParams(params)
	if err != nil {
		return nil, err
	}

	return &Request{Method: method, Params: raw, ID: id, hasID: !id.IsZero()}, nil
}

// NewNotification builds a request with no id.
func NewNotification(method string, params any) (*Request, error) {
	raw, err := encodeParams(params)
	if err != nil {
		return nil, err
	}

	return &Request{Method: method, Params: raw}, nil
}

// IsNotification reports whether r carries no id.
func (r *Request) IsNotification() bool { return !r.hasID }

// wireRequest is the JSON shape of a [Request], used only for (de)serializing.
type wireRequest struct {
	JSONRCP string          `json:"jsonrpc"`
	ID      *ID             `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// MarshalJSON implements [json.Marshaler]. The "jsonrpc" field is always the
// literal "2.0"; the "id" field is omitted entirely for notifications.
func (r *Request) MarshalJSON() ([]byte, error) {
	w := wireRequest{JSONRCP: Version, Method: r.Method, Params: r.Params}
	if r.hasID {
		w.ID = &r.ID
	}

	data, err := json.Marshal(w)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrJSON, err)
	}

	return data, nil
}

// UnmarshalJSON implements [json.Unmarshaler]. A non-"2.0" explicit jsonrpc
// value fails with [ErrVersionMismatch].
func (r *Request) UnmarshalJSON(data []byte) error {
	var w wireRequest
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("%w: %w", ErrJSON, err)
	}

	if w.JSONRCP != "" && w.JSONRCP != Version {
		return fmt.Errorf("%w: got %q", ErrVersionMismatch, w.JSONRCP)
	}

	r.Method = w.Method
	r.Params = w.Params

	if w.ID != nil {
		r.ID = *w.ID
		r.hasID = true
	} else {
		r.ID = ID{}
		r.hasID = false
	}

	return nil
}

// Response is a JSON-RPC 2.0 response object.
type Response struct {
	ID      ID
	Result  json.RawMessage
	Error   *Error
	JSONRCP string // as received; empty if the field was absent
}

// wireResponse mirrors the wire shape of [Response].
type wireResponse struct {
	JSONRCP string          `json:"jsonrpc,omitempty"`
	ID      ID              `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
}

// NewResultResponse builds a successful response echoing id.
func NewResultResponse(id ID, result any) (*Response, error) {
	raw, err := encodeParams(result)
	if err != nil {
		return nil, err
	}

	return &Response{ID: id, Result: raw, JSONRCP: Version}, nil
}

// NewErrorResponse builds a failing response echoing id.
func NewErrorResponse(id ID, rpcErr *Error) *Response {
	return &Response{ID: id, Error: rpcErr, JSONRCP: Version}
}

// MarshalJSON implements [json.Marshaler].
func (r *Response) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(wireResponse{
		JSONRCP: Version,
		ID:      r.ID,
		Result:  r.Result,
		Error:   r.Error,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrJSON, err)
	}

	return data, nil
}

// UnmarshalJSON implements [json.Unmarshaler]. It rejects a non-"2.0"
// explicit jsonrpc value but does not enforce the result/error invariant;
// callers check that with [Response.Extract].
func (r *Response) UnmarshalJSON(data []byte) error {
	var w wireResponse
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("%w: %w", ErrJSON, err)
	}

	if w.JSONRCP != "" && w.JSONRCP != Version {
		return fmt.Errorf("%w: got %q", ErrVersionMismatch, w.JSONRCP)
	}

	r.ID = w.ID
	r.Result = w.Result
	r.Error = w.Error
	r.JSONRCP = w.JSONRCP

	return nil
}

// Extract applies the response extraction laws from spec.md §8:
//
//	(result, no error)  -> result, nil
//	(no result, error)  -> nil, Rpc(error)
//	(no result, no err) -> nil, ErrNoErrorOrResult
//	(result, error)     -> nil, Rpc(error) (error takes precedence)
//
// On success it unmarshals Result into out (a pointer), otherwise out is left
// untouched.
func (r *Response) Extract(out any) error {
	if r.Error != nil {
		return &RPCError{Err: r.Error}
	}

	if r.Result == nil {
		return ErrNoErrorOrResult
	}

	if out == nil {
		return nil
	}

	if err := json.Unmarshal(r.Result, out); err != nil {
		return fmt.Errorf("%w: %w", ErrJSON, err)
	}

	return nil
}

// LogValue implements [slog.LogValuer] for [Request].
func (r *Request) LogValue() slog.Value {
	attrs := []slog.Attr{slog.String("method", r.Method)}
	if r.hasID {
		attrs = append(attrs, slog.Attr{Key: "id", Value: r.ID.LogValue()})
	}

	if r.Params != nil {
		attrs = append(attrs, slog.String("params", string(r.Params)))
	}

	return slog.GroupValue(attrs...)
}

// LogValue implements [slog.LogValuer] for [Response].
func (r *Response) LogValue() slog.Value {
	attrs := []slog.Attr{{Key: "id", Value: r.ID.LogValue()}}
	if r.Result != nil {
		attrs = append(attrs, slog.String("result", string(r.Result)))
	}

	if r.Error != nil {
		attrs = append(attrs, slog.Any("error", r.Error))
	}

	return slog.GroupValue(attrs...)
}

func encodeParams(v any) (json.RawMessage, error) {
	if v == nil {
		return nil, nil
	}

	if raw, ok := v.(json.RawMessage); ok {
		return raw, nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrJSON, err)
	}

	return data, nil
}
