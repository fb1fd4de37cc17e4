// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"slices"
	"strings"
)

// Result represents the outcome of one command of the chain.
type Result struct {
	Label    string   // Command line as written, for diagnostics
	Line     int      // Line of the command in the file
	Dir      string   // Effective working directory
	Argv     []string // Arguments passed to the program
	RawCode  int      // Status reported by the program
	ExitCode int      // Status after @retmap and @outfile handling
	Error    error    // Error, if any
}

// Results is a slice of Result pointers, one per command that was attempted.
type Results []*Result

func newResult(line int, dir string, argv []string) *Result {
	return &Result{
		Label: strings.Join(argv, " "),
		Line:  line,
		Dir:   dir,
		Argv:  argv,
	}
}

// HasError reports whether any command failed.
func (r Results) HasError() bool {
	for v := range slices.Values(r) {
		if v.Error != nil || v.ExitCode != 0 {
			return true
		}
	}

	return false
}

// ExitCode is the status of the last attempted command, or 0 when nothing ran.
func (r Results) ExitCode() int {
	if len(r) == 0 {
		return 0
	}

	return r[len(r)-1].ExitCode
}

// Err returns the error of the last attempted command.
func (r Results) Err() error {
	if len(r) == 0 {
		return nil
	}

	return r[len(r)-1].Error
}
