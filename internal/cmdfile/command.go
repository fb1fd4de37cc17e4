// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package cmdfile

import (
	"maps"
	"path/filepath"
	"slices"
)

// Recognised directive names.
const (
	DirectiveDisable = "disable"
	DirectiveManual  = "manual"
	DirectiveTags    = "tags"
	DirectiveCd      = "cd"
	DirectiveMkdir   = "mkdir"
	DirectiveOutfile = "outfile"
	DirectiveRetmap  = "retmap"
	DirectiveEnv     = "env"
)

// Command is one compiled unit of a Plan.
type Command struct {
	// Mandatory arguments are never replaced.
	Mandatory []string
	// Overridable arguments follow the "--" line and may be replaced from the command line.
	Overridable []string
	// HasOverridable reports whether the file declared a "--" split for this command.
	HasOverridable bool
	// Directives holds every directive seen, the last occurrence of a name wins.
	Directives map[string]Directive

	Disabled bool
	Manual   bool
	Tags     []string
	Cd       string
	Mkdir    string
	Outfile  string
	Retmap   map[int]int
	// Env lists dotenv files applying only to this command, in file order.
	Env []string
	// Line is where the command starts in the file.
	Line int
}

func newCommand(line int) *Command {
	return &Command{
		Directives: make(map[string]Directive),
		Line:       line,
	}
}

// Argv returns the mandatory arguments followed by the overridable ones.
func (c *Command) Argv() []string {
	return slices.Concat(c.Mandatory, c.Overridable)
}

// Program returns the first argument, or "" for an empty command.
func (c *Command) Program() string {
	if argv := c.Argv(); len(argv) > 0 {
		return argv[0]
	}

	return ""
}

// MapCode translates an exit status through @retmap.
// Codes without an entry pass through unchanged.
func (c *Command) MapCode(code int) int {
	if mapped, ok := c.Retmap[code]; ok {
		return mapped
	}

	return code
}

// HasTag reports whether tag was listed in @tags.
func (c *Command) HasTag(tag string) bool {
	return slices.Contains(c.Tags, tag)
}

// WorkDir returns the directory the command runs in: @cd resolved against base,
// or base itself.
func (c *Command) WorkDir(base string) string {
	return Resolve(base, c.Cd)
}

// Resolve joins p onto base unless p is absolute. An empty p yields base.
func Resolve(base, p string) string {
	switch {
	case p == "":
		return filepath.Clean(base)
	case filepath.IsAbs(p):
		return filepath.Clean(p)
	default:
		return filepath.Join(base, p)
	}
}

// Clone returns a deep copy of c.
func (c *Command) Clone() *Command {
	n := *c
	n.Mandatory = slices.Clone(c.Mandatory)
	n.Overridable = slices.Clone(c.Overridable)
	n.Directives = maps.Clone(c.Directives)
	n.Tags = slices.Clone(c.Tags)
	n.Retmap = maps.Clone(c.Retmap)
	n.Env = slices.Clone(c.Env)

	return &n
}

// Header holds settings that apply to every command of a file.
type Header struct {
	// Env lists dotenv files, in file order.
	Env []string
}

// Plan is the ordered chain of commands compiled from one file.
type Plan struct {
	Header   Header
	Commands []*Command
}

// Tags returns every tag used in the plan, sorted and without duplicates.
func (p *Plan) Tags() []string {
	var all []string
	for _, c := range p.Commands {
		all = append(all, c.Tags...)
	}

	slices.Sort(all)

	return slices.Compact(all)
}
