// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package plandump renders a resolved plan as YAML for --ub-plan.
package plandump

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/goccy/go-yaml"
	"github.com/matt-FFFFFF/upbuild/internal/cmdfile"
	"github.com/matt-FFFFFF/upbuild/internal/locate"
	"github.com/matt-FFFFFF/upbuild/internal/override"
	"github.com/matt-FFFFFF/upbuild/internal/tags"
)

// ErrWrite is returned when the document cannot be rendered or written.
var ErrWrite = errors.New("unable to write plan")

// Document is the YAML form of a plan after override and tag filtering.
type Document struct {
	File     string    `yaml:"file"`
	Dir      string    `yaml:"dir"`
	Start    string    `yaml:"start"`
	Env      []string  `yaml:"env,omitempty"`
	Override string    `yaml:"override"`
	Args     []string  `yaml:"args,omitempty"`
	Select   []string  `yaml:"select,omitempty"`
	Reject   []string  `yaml:"reject,omitempty"`
	Commands []Command `yaml:"commands"`
}

// Command is one eligible command.
type Command struct {
	Line      int         `yaml:"line"`
	Argv      []string    `yaml:"argv"`
	Dir       string      `yaml:"dir"`
	Tags      []string    `yaml:"tags,omitempty"`
	Manual    bool        `yaml:"manual,omitempty"`
	Recursive bool        `yaml:"recursive,omitempty"`
	Mkdir     string      `yaml:"mkdir,omitempty"`
	Outfile   string      `yaml:"outfile,omitempty"`
	Retmap    map[int]int `yaml:"retmap,omitempty"`
	Env       []string    `yaml:"env,omitempty"`
	// Directives lists every directive as written, unknown ones included.
	Directives []string `yaml:"directives,omitempty"`
}

// Build describes cmds, the commands that would run for the located file.
func Build(res *locate.Result, header cmdfile.Header, o override.Override, sets tags.Sets, cmds []*cmdfile.Command) Document {
	doc := Document{
		File:     res.Path,
		Dir:      res.Dir,
		Start:    res.Start,
		Env:      header.Env,
		Override: o.Mode.String(),
		Args:     o.Args,
		Select:   sets.Selected(),
		Reject:   sets.Rejected(),
		Commands: make([]Command, 0, len(cmds)),
	}

	for _, c := range cmds {
		doc.Commands = append(doc.Commands, Command{
			Line:       c.Line,
			Argv:       c.Argv(),
			Dir:        c.WorkDir(res.Dir),
			Tags:       c.Tags,
			Manual:     c.Manual,
			Recursive:  locate.IsRecursive(c.Program()),
			Mkdir:      mkdir(res.Dir, c.Mkdir),
			Outfile:    c.Outfile,
			Retmap:     c.Retmap,
			Env:        c.Env,
			Directives: directives(c),
		})
	}

	return doc
}

func directives(c *cmdfile.Command) []string {
	var out []string

	for _, name := range slices.Sorted(maps.Keys(c.Directives)) {
		out = append(out, c.Directives[name].String())
	}

	return out
}

func mkdir(dir, p string) string {
	if p == "" {
		return ""
	}

	return cmdfile.Resolve(dir, p)
}

// Write renders doc to w.
func Write(w io.Writer, doc Document) error {
	b, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}

	if _, err := w.Write(b); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}

	return nil
}
