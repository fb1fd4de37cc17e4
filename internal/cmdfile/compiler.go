// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package cmdfile

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
)

var (
	// ErrCompile wraps every problem found while compiling a file.
	ErrCompile = errors.New("invalid command file")
	// ErrNoCommands is returned for a file without any command.
	ErrNoCommands = errors.New("no commands in file")
	// ErrEmptyCommand is returned when a command in the chain has no arguments.
	ErrEmptyCommand = errors.New("empty command")
	// ErrHeaderSeparator is returned for a header separator after the first command started.
	ErrHeaderSeparator = errors.New("header separator not allowed here")
)

type headerState int

const (
	headerUnknown headerState = iota
	headerOpen
	headerClosed
)

type compiler struct {
	plan      *Plan
	current   *Command
	overrides bool // past the "--" of the current command
	header    headerState
	errs      *multierror.Error
}

// Compile groups tokens into a Plan.
//
// Arguments before the first "--" of a command are mandatory, after it overridable.
// A second "--" in the same command is kept as a literal overridable argument.
// Directives attach to the current command wherever they appear in it, except
// @env lines before the first command, which form the file header.
//
// Every problem in the file is reported in one error wrapping ErrCompile.
func Compile(tokens []Token) (*Plan, error) {
	c := &compiler{plan: &Plan{}}

	for _, tok := range tokens {
		c.token(tok)
	}

	c.closeCommand(lastLine(tokens))

	if len(c.plan.Commands) == 0 && c.errs == nil {
		c.fail(ErrNoCommands)
	}

	if c.errs != nil {
		c.errs.ErrorFormat = listFormat

		return nil, fmt.Errorf("%w: %w", ErrCompile, c.errs)
	}

	return c.plan, nil
}

func (c *compiler) token(tok Token) {
	switch tok.Kind {
	case TokenHeaderSeparator:
		if c.header == headerClosed {
			c.fail(fmt.Errorf("line %d: %w", tok.Line, ErrHeaderSeparator))
		}

		c.header = headerClosed

	case TokenDirective:
		if tok.Directive.Name == DirectiveEnv && c.header != headerClosed && c.current == nil {
			c.header = headerOpen
			c.plan.Header.Env = append(c.plan.Header.Env, tok.Directive.Value)

			return
		}

		c.header = headerClosed
		c.directive(c.command(tok.Line), tok)

	case TokenMandatorySeparator:
		c.header = headerClosed
		cmd := c.command(tok.Line)

		if c.overrides {
			cmd.Overridable = append(cmd.Overridable, tok.Text)
			return
		}

		c.overrides = true
		cmd.HasOverridable = true

	case TokenChainSeparator:
		c.header = headerClosed
		if c.current == nil {
			c.fail(fmt.Errorf("line %d: %w before %q", tok.Line, ErrEmptyCommand, ChainSeparator))
			return
		}

		c.closeCommand(tok.Line)

	case TokenArg:
		c.header = headerClosed
		cmd := c.command(tok.Line)

		if c.overrides {
			cmd.Overridable = append(cmd.Overridable, tok.Text)
		} else {
			cmd.Mandatory = append(cmd.Mandatory, tok.Text)
		}
	}
}

// command returns the command being accumulated, starting one if needed.
func (c *compiler) command(line int) *Command {
	if c.current == nil {
		c.current = newCommand(line)
		c.overrides = false
	}

	return c.current
}

func (c *compiler) closeCommand(line int) {
	cmd := c.current
	c.current = nil
	c.overrides = false

	if cmd == nil {
		if len(c.plan.Commands) > 0 {
			c.fail(fmt.Errorf("line %d: %w after %q", line, ErrEmptyCommand, ChainSeparator))
		}

		return
	}

	if len(cmd.Mandatory) == 0 && len(cmd.Overridable) == 0 {
		c.fail(fmt.Errorf("line %d: %w", cmd.Line, ErrEmptyCommand))
		return
	}

	c.plan.Commands = append(c.plan.Commands, cmd)
}

func (c *compiler) directive(cmd *Command, tok Token) {
	d := tok.Directive
	cmd.Directives[d.Name] = d

	switch d.Name {
	case DirectiveDisable:
		cmd.Disabled = true
	case DirectiveManual:
		cmd.Manual = true
	case DirectiveTags:
		cmd.Tags = splitTags(d.Value)
	case DirectiveCd:
		cmd.Cd = d.Value
	case DirectiveMkdir:
		cmd.Mkdir = d.Value
	case DirectiveOutfile:
		cmd.Outfile = d.Value
	case DirectiveEnv:
		if d.Value != "" {
			cmd.Env = append(cmd.Env, d.Value)
		}
	case DirectiveRetmap:
		m, err := ParseRetmap(d.Value)
		if err != nil {
			c.fail(fmt.Errorf("line %d: %w", tok.Line, err))
			return
		}

		cmd.Retmap = m
	}
}

func (c *compiler) fail(err error) {
	c.errs = multierror.Append(c.errs, err)
}

// listFormat renders every problem on a single line.
func listFormat(errs []error) string {
	msgs := make([]string, 0, len(errs))
	for _, err := range errs {
		msgs = append(msgs, err.Error())
	}

	return strings.Join(msgs, "; ")
}

func splitTags(v string) []string {
	var tags []string

	for t := range strings.SplitSeq(v, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}

	return tags
}

func lastLine(tokens []Token) int {
	if len(tokens) == 0 {
		return 0
	}

	return tokens[len(tokens)-1].Line
}
