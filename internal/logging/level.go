// Copyright (c) 2025 Antti Kivi
// SPDX-License-Identifier: MIT

package logging

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Level is the importance or severity of a log event. It is restricted to
// the four levels the Core Lightning wire protocol's "log" notification
// accepts (spec.md §4.3.6); unlike the CLI-local logger, a plugin's outbound
// log stream has no notion of turning logging off or of fractional levels.
//
// Level converts directly to [slog.Level] for use with the standard library
// logger.
//
//nolint:recvcheck // Unmarshaling functions expect a pointer receiver but the [fmt.Stringer] implementation expects a value receiver.
type Level slog.Level

// Names for the four recognized levels. Level numbers match [slog.Level].
const (
	LevelDebug Level = Level(slog.LevelDebug)
	LevelInfo  Level = Level(slog.LevelInfo)
	LevelWarn  Level = Level(slog.LevelWarn)
	LevelError Level = Level(slog.LevelError)
)

var errUnknownLevel = errors.New("unknown log level")

// MarshalJSON implements [encoding/json.Marshaler] by quoting the output of
// [Level.String].
func (l Level) MarshalJSON() ([]byte, error) {
	return []byte(`"` + l.String() + `"`), nil
}

// MarshalText implements [encoding.TextMarshaler] by calling [Level.String].
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// String returns the uppercased name of the level.
func (l Level) String() string {
	switch {
	case l <= LevelDebug:
		return "DEBUG"
	case l <= LevelInfo:
		return "INFO"
	case l <= LevelWarn:
		return "WARN"
	default:
		return "ERROR"
	}
}

// UnmarshalJSON implements [encoding/json.Unmarshaler]. It accepts any string
// produced by [Level.MarshalJSON], ignoring case.
func (l *Level) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)

	return l.unmarshal(s)
}

// UnmarshalText implements [encoding.TextUnmarshaler]. It accepts any string
// produced by [Level.MarshalText], ignoring case.
func (l *Level) UnmarshalText(text []byte) error {
	return l.unmarshal(string(text))
}

func (l *Level) unmarshal(s string) error {
	switch strings.ToUpper(s) {
	case "DEBUG":
		*l = LevelDebug
	case "INFO":
		*l = LevelInfo
	case "WARN":
		*l = LevelWarn
	case "ERROR":
		*l = LevelError
	default:
		return fmt.Errorf("level string %q: %w", s, errUnknownLevel)
	}

	return nil
}
