// Copyright (c) 2025 Antti Kivi
// SPDX-License-Identifier: MIT

package plugin

import "errors"

// Errors returned while processing the handshake. The plugin may panic on
// these during startup (spec.md §7 "the plugin may panic during handshake on
// irrecoverable configuration"); [Plugin.Serve] itself never panics, leaving
// that choice to main().
var (
	errInvalidInit        = errors.New("plugin: invalid init payload")
	errInvalidOptionValue = errors.New("plugin: invalid option value")
)
