// Copyright (c) 2025 Antti Kivi
// SPDX-License-Identifier: MIT

package constants

const (
	// CommandName is the name of the executable.
	CommandName = "clncli"

	// HelpLineLen is the maximum length of the help lines printed.
	HelpLineLen = 80

	// URL where bugs should be reported to.
	IssuesURL = "https://github.com/anttikivi/cln/issues"

	// Name of the program as opposed to the executable name.
	Name = "cln"
)
