// Copyright (c) 2025 Antti Kivi
// SPDX-License-Identifier: MIT

package main

import (
	"os"

	"github.com/anttikivi/cln/cmd/clncli"
)

func main() {
	code := int(clncli.Run())
	os.Exit(code)
}
