// Copyright (c) 2025 Antti Kivi
// SPDX-License-Identifier: MIT

package lnsocket

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrClosed is returned by [AsyncClient.SendRequest] once the runner has
// been stopped with [AsyncClient.Close].
var ErrClosed = errors.New("lnsocket: async client closed")

// AsyncClient offers the same contract as [Client] but scheduled under a
// single goroutine acting as a cooperative task runner: calls are enqueued
// and executed one at a time in submission order, which is the closest
// idiomatic Go rendition of the "single-threaded cooperative task runner"
// described in spec.md §4.2 (Go has no stackless coroutines to suspend a call
// mid-flight, so the runner instead serializes whole round trips). The
// semantics — one connection per call, no shared correlation table — are
// unchanged from [Client].
type AsyncClient struct {
	client *Client
	jobs   chan job
	closed chan struct{}
}

type job struct {
	ctx    context.Context //nolint:containedctx // the job is a one-shot message, not a stored context.
	method string
	params any
	out    any
	result chan error
}

// NewAsync starts the cooperative runner for path and returns the client.
// Call [AsyncClient.Close] to stop the runner goroutine.
func NewAsync(path string) *AsyncClient {
	ac := &AsyncClient{
		client: New(path),
		jobs:   make(chan job),
		closed: make(chan struct{}),
	}

	go ac.run()

	return ac
}

// SetTimeout configures the read/write timeout used by subsequent calls.
func (ac *AsyncClient) SetTimeout(d time.Duration) {
	ac.client.SetTimeout(d)
}

func (ac *AsyncClient) run() {
	for {
		select {
		case j := <-ac.jobs:
			j.result <- ac.client.SendRequest(j.ctx, j.method, j.params, j.out)
		case <-ac.closed:
			return
		}
	}
}

// SendRequest suspends the caller's goroutine (via a blocking channel
// receive) while the runner goroutine performs the round trip, then resumes
// with the result. Concurrent callers are served strictly in the order they
// submit, exactly as a cooperative scheduler would interleave suspension
// points.
func (ac *AsyncClient) SendRequest(ctx context.Context, method string, params any, out any) error {
	j := job{ctx: ctx, method: method, params: params, out: out, result: make(chan error, 1)}

	select {
	case ac.jobs <- j:
	case <-ctx.Done():
		return fmt.Errorf("lnsocket: %w", ctx.Err())
	case <-ac.closed:
		return ErrClosed
	}

	select {
	case err := <-j.result:
		return err
	case <-ctx.Done():
		return fmt.Errorf("lnsocket: %w", ctx.Err())
	}
}

// Close stops the runner goroutine. Safe to call once.
func (ac *AsyncClient) Close() {
	close(ac.closed)
}
