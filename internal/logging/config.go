// Copyright (c) 2025 Antti Kivi
// SPDX-License-Identifier: MIT

package logging

import (
	"strings"

	"github.com/anttikivi/cln/internal/constants"
)

// Config is the resolved logging configuration for a cln command. cmd/clncli
// fills it from this package's defaults rather than from viper.
type Config struct {
	File     string
	Format   Format
	Level    Level
	Output   Output
	Rotate   bool
	UseColor bool
}

const (
	// DefaultFormat is the default value for the `log.format` value: text,
	// since clncli is an interactive terminal client rather than a daemon.
	DefaultFormat = FormatText

	// DefaultLevel is the default config value for the logging level.
	DefaultLevel = LevelInfo

	// DefaultOutput is the default config value for the logging output.
	DefaultOutput = OutputStderr

	// DefaultRotate is the default value for whether to enable the built-in log
	// rotation.
	DefaultRotate = true

	// KeyFile is the config key for the log file path if log destination is
	// set to a file.
	KeyFile = "log.file"

	// KeyFormat is the config key for the log format value.
	KeyFormat = "log.format"

	// KeyLevel is the config key for the log level value.
	KeyLevel = "log.level"

	// KeyOutput is the config key for the log output value. If it is set to
	// `file`, `log.file` must also be set.
	KeyOutput = "log.output"

	// KeyRotate is the config key for the log rotation value.
	KeyRotate = "log.rotate"
)

// DefaultFile is the name for the default file for logging output, used only
// when `log.output` is set to `file`.
//
//nolint:gochecknoglobals // Used like a constant.
var DefaultFile = strings.ToLower(constants.Name) + ".log"
