// Copyright (c) 2025 Antti Kivi
// SPDX-License-Identifier: MIT

// Package semver canonicalizes loosely-formed version strings — as embedded
// in a build tag, a git describe output, or a release asset name — into
// semantic-version form, for `clncli version`.
package semver

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Version is a parsed semantic version, without its build metadata (which
// [Version.String] never reproduces, matching the `go version`-style
// convention of dropping it on display).
type Version struct {
	Major      int
	Minor      int
	Patch      int
	Prerelease string // empty if none
}

var pattern = regexp.MustCompile(
	`^(\d+)\.(\d+)\.(\d+)(?:-([0-9A-Za-z-]+(?:\.[0-9A-Za-z-]+)*))?(?:\+([0-9A-Za-z-]+(?:\.[0-9A-Za-z-]+)*))?$`,
)

// IsValid reports whether s contains a valid semantic version, once any
// non-numeric prefix (a "v", a program name, ...) is stripped.
func IsValid(s string) bool {
	_, ok := Parse(s)

	return ok
}

// Parse extracts the semantic version embedded in s, stripping any leading
// non-digit prefix first (so "v1.2.3" and "myapp1.2.3" both parse the same
// as "1.2.3"). It reports false if no valid version follows the prefix.
func Parse(s string) (Version, bool) {
	s = stripPrefix(s)
	if s == "" {
		return Version{}, false
	}

	m := pattern.FindStringSubmatch(s)
	if m == nil {
		return Version{}, false
	}

	major, err := strconv.Atoi(m[1])
	if err != nil {
		return Version{}, false
	}

	minor, err := strconv.Atoi(m[2])
	if err != nil {
		return Version{}, false
	}

	patch, err := strconv.Atoi(m[3])
	if err != nil {
		return Version{}, false
	}

	return Version{Major: major, Minor: minor, Patch: patch, Prerelease: m[4]}, true
}

// String renders v as "major.minor.patch" with an optional "-prerelease"
// suffix. Build metadata is never part of the result.
func (v Version) String() string {
	s := fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	if v.Prerelease != "" {
		s += "-" + v.Prerelease
	}

	return s
}

func stripPrefix(s string) string {
	i := strings.IndexFunc(s, func(r rune) bool { return r >= '0' && r <= '9' })
	if i < 0 {
		return ""
	}

	return s[i:]
}
