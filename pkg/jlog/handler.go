// Copyright (c) 2025 Antti Kivi
// SPDX-License-Identifier: MIT

// Package jlog adapts Go's log/slog to the Core Lightning plugin wire
// protocol: it redirects slog records into outbound "log" notifications
// (spec.md §4.3.6) instead of writing them to a local stream.
package jlog

import (
	"context"
	"log/slog"
	"strconv"
)

// Sink is anything that can emit a structured log notification. [pkg/
// plugin.Plugin] implements it directly.
type Sink interface {
	Notify(level string, message string, fields map[string]any) error
}

// Handler is an [slog.Handler] that redirects log records to a [Sink] as
// "log" notifications rather than to a local writer.
type Handler struct {
	sink   Sink
	name   string
	attrs  []slog.Attr
	groups []string
}

var levelNames = map[slog.Level]string{ //nolint:gochecknoglobals // Lookup table, used like a constant.
	slog.LevelDebug - 4: "debug", // trace -> debug, per spec.md §4.3.6
	slog.LevelDebug:     "debug",
	slog.LevelInfo:      "info",
	slog.LevelWarn:      "warn",
	slog.LevelError:     "error",
}

// NewHandler returns a [Handler] that sends every record to sink.
func NewHandler(sink Sink) *Handler {
	return &Handler{sink: sink}
}

// Enabled reports true for every level. The handler applies no level floor of
// its own, and no environment variable configures one.
func (h *Handler) Enabled(_ context.Context, _ slog.Level) bool { return true }

// Handle implements [slog.Handler].
func (h *Handler) Handle(_ context.Context, r slog.Record) error { //nolint:gocritic // implements interface
	fields := make(map[string]any, r.NumAttrs()+len(h.attrs))

	for i, attr := range h.attrs {
		h.flatten(fields, i, "", attr)
	}

	i := len(h.attrs)
	r.Attrs(func(attr slog.Attr) bool {
		h.flatten(fields, i, "", attr)
		i++

		return true
	})

	if len(fields) == 0 {
		fields = nil
	}

	return h.sink.Notify(toLevel(r.Level), r.Message, fields) //nolint:wrapcheck // caller attaches its own context
}

// WithAttrs implements [slog.Handler].
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	next = append(next, h.attrs...)
	next = append(next, attrs...)

	return &Handler{sink: h.sink, name: h.name, attrs: next, groups: h.groups}
}

// WithGroup implements [slog.Handler].
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	groups := make([]string, 0, len(h.groups)+1)
	groups = append(groups, h.groups...)
	groups = append(groups, name)

	return &Handler{sink: h.sink, name: h.name, attrs: h.attrs, groups: groups}
}

// flatten writes attr (and, recursively, the members of a group attr) into
// fields using a dotted key built from the handler's groups, prefix, and the
// attribute's own key. An attribute with an empty key but a non-zero value
// is keyed by its position, mirroring the teacher's HCLogHandler behavior for
// unlabeled attrs.
func (h *Handler) flatten(fields map[string]any, pos int, prefix string, attr slog.Attr) {
	val := attr.Value.Resolve()

	full := prefix
	if len(h.groups) > 0 && prefix == "" {
		for _, g := range h.groups {
			full += g + "."
		}
	}

	if val.Kind() == slog.KindGroup {
		groupPrefix := full
		if attr.Key != "" {
			groupPrefix += attr.Key + "."
		}

		for i, sub := range val.Group() {
			h.flatten(fields, i, groupPrefix, sub)
		}

		return
	}

	key := attr.Key
	if key == "" {
		if attr.Value.Equal(slog.Value{}) {
			return
		}

		key = strconv.Itoa(pos)
	}

	fields[full+key] = val.Any()
}

func toLevel(l slog.Level) string {
	if name, ok := levelNames[l]; ok {
		return name
	}

	switch {
	case l < slog.LevelInfo:
		return "debug"
	case l < slog.LevelWarn:
		return "info"
	case l < slog.LevelError:
		return "warn"
	default:
		return "error"
	}
}
