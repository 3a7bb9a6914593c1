// Copyright (c) 2025 Antti Kivi
// SPDX-License-Identifier: MIT

// Package lnsocket implements the socket client of spec.md §4.2: a thin,
// connection-per-call JSON-RPC 2.0 client over a UNIX domain socket. It
// offers a blocking [Client] and a cooperative-suspension [AsyncClient] with
// identical semantics, matching the two flavors the spec requires.
package lnsocket

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/anttikivi/cln/pkg/jrpc2"
	"github.com/google/uuid"
)

// Client is the blocking socket client. Each call to [Client.SendRequest]
// opens a fresh UNIX stream; connections are never reused, so there is no
// correlation table and no shared mutable state between concurrent callers
// beyond the (immutable) socket path and timeout.
type Client struct {
	// SocketPath is the filesystem path of the daemon's UNIX domain socket.
	SocketPath string

	// Timeout, if non-zero, bounds both the write of the request and the
	// read of the response. Exceeding it fails with a timeout [jrpc2.IOError].
	Timeout time.Duration
}

// New returns a [Client] targeting path with no timeout configured.
func New(path string) *Client {
	return &Client{SocketPath: path}
}

// SetTimeout sets the read/write deadline used by subsequent calls.
func (c *Client) SetTimeout(d time.Duration) {
	c.Timeout = d
}

// SendRequest calls method with params over a fresh connection to
// c.SocketPath and decodes the result into out (which may be nil to discard
// the result). The id sent with the request is a random synthetic string;
// callers that need to correlate with the daemon's own logs should use
// [Client.SendRequestWithID] instead.
func (c *Client) SendRequest(ctx context.Context, method string, params any, out any) error {
	return c.SendRequestWithID(ctx, method, params, jrpc2.NewStringID(uuid.NewString()), out)
}

// SendRequestWithID is [Client.SendRequest] with an explicit request id. The
// daemon echoes back whatever id it was given; a mismatch fails with
// [jrpc2.ErrNonceMismatch].
func (c *Client) SendRequestWithID(ctx context.Context, method string, params any, id jrpc2.ID, out any) error {
	req, err := jrpc2.NewRequest(method, params, id)
	if err != nil {
		return err
	}

	resp, err := c.roundTrip(ctx, req)
	if err != nil {
		return err
	}

	if !resp.ID.Equal(id) {
		return fmt.Errorf("%w: sent %s, got %s", jrpc2.ErrNonceMismatch, id, resp.ID)
	}

	return resp.Extract(out)
}

// roundTrip owns one connection end to end: dial, set deadlines, write the
// full request, then read exactly one JSON value from the reply stream.
// Trailing bytes after that value are ignored, matching spec.md §4.2.
func (c *Client) roundTrip(ctx context.Context, req *jrpc2.Request) (*jrpc2.Response, error) {
	dialer := net.Dialer{}

	conn, err := dialer.DialContext(ctx, "unix", c.SocketPath)
	if err != nil {
		return nil, jrpc2.NewIOError(err, false)
	}
	defer conn.Close()

	if c.Timeout > 0 {
		deadline := time.Now().Add(c.Timeout)
		if err := conn.SetDeadline(deadline); err != nil {
			return nil, jrpc2.NewIOError(err, false)
		}
	}

	data, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", jrpc2.ErrJSON, err)
	}

	if _, err := conn.Write(data); err != nil {
		return nil, wrapIOError(err)
	}

	if tc, ok := conn.(*net.UnixConn); ok {
		_ = tc.CloseWrite()
	}

	dec := json.NewDecoder(bufio.NewReader(conn))

	var resp jrpc2.Response
	if err := dec.Decode(&resp); err != nil {
		if errors.Is(err, jrpc2.ErrVersionMismatch) {
			return nil, err
		}

		return nil, wrapIOError(err)
	}

	return &resp, nil
}

func wrapIOError(err error) error {
	type timeouter interface{ Timeout() bool }

	timeout := false
	if te, ok := err.(timeouter); ok { //nolint:errorlint // net errors implement Timeout() directly.
		timeout = te.Timeout()
	}

	return jrpc2.NewIOError(err, timeout)
}
