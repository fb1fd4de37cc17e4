// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package override replaces the overridable arguments of a plan with the
// arguments given on the command line.
package override

import (
	"slices"

	"github.com/matt-FFFFFF/upbuild/internal/cmdfile"
)

// TruncateMarker on its own drops every overridable argument.
// Followed by more arguments it replaces them.
const TruncateMarker = "---"

// Mode says how the overridable arguments are treated.
type Mode int

const (
	// Keep leaves the arguments from the file untouched.
	Keep Mode = iota
	// Replace swaps the overridable arguments for Override.Args.
	Replace
	// Truncate removes the overridable arguments.
	Truncate
)

func (m Mode) String() string {
	switch m {
	case Keep:
		return "keep"
	case Replace:
		return "replace"
	case Truncate:
		return "truncate"
	}

	return "unknown"
}

// Override is the parsed form of the trailing command line arguments.
type Override struct {
	Mode Mode
	Args []string
}

// Parse interprets the arguments remaining after the --ub-* options.
//
//	(none)        keep the file's arguments
//	--- [args]    truncate, or replace with args
//	-- [args]     keep, or replace with args taken literally
//	args          replace with args
func Parse(args []string) Override {
	if len(args) == 0 {
		return Override{Mode: Keep}
	}

	switch args[0] {
	case TruncateMarker:
		if len(args) == 1 {
			return Override{Mode: Truncate}
		}

		return Override{Mode: Replace, Args: slices.Clone(args[1:])}

	case cmdfile.MandatorySeparator:
		if len(args) == 1 {
			return Override{Mode: Keep}
		}

		return Override{Mode: Replace, Args: slices.Clone(args[1:])}
	}

	return Override{Mode: Replace, Args: slices.Clone(args)}
}

// Apply returns copies of cmds with the override applied. Only commands that
// declared a "--" split are changed; the input is never modified.
func (o Override) Apply(cmds []*cmdfile.Command) []*cmdfile.Command {
	out := make([]*cmdfile.Command, 0, len(cmds))

	for _, c := range cmds {
		n := c.Clone()

		if n.HasOverridable {
			switch o.Mode {
			case Replace:
				n.Overridable = slices.Clone(o.Args)
			case Truncate:
				n.Overridable = nil
			}
		}

		out = append(out, n)
	}

	return out
}
