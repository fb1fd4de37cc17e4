// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package config

import (
	_ "embed"
	"strings"
)

const placeholder = "# GENERATE THESE ARGUMENTS"

//go:embed bash_completion.sh
var bashCompletionTemplate string

// Flags are the options completed as whole words.
var Flags = []string{FlagPrint, FlagAdd, FlagNoEnv, FlagPlan}

// Args are the options completed with a value.
var Args = []string{ArgSelect, ArgReject}

// BashCompletion returns the bash completion script.
func BashCompletion() string {
	return generateCompletion(bashCompletionTemplate)
}

// generateCompletion replaces the line after the placeholder comment with
// the option list, keeping the indentation of the placeholder.
func generateCompletion(template string) string {
	lines := strings.Split(strings.TrimRight(template, "\n"), "\n")
	out := make([]string, 0, len(lines))
	next := ""
	pending := false

	for _, line := range lines {
		if pos := strings.Index(line, placeholder); pos >= 0 {
			indent := line[:pos]
			next = indent + "OPTS=(" + strings.Join(Flags, " ") + " " + strings.Join(Args, " ") + ")"
			pending = true

			out = append(out, indent+"# Generated arguments:")

			continue
		}

		if pending {
			out = append(out, next)
			pending = false

			continue
		}

		out = append(out, line)
	}

	if pending {
		out = append(out, next)
	}

	return strings.Join(out, "\n")
}
