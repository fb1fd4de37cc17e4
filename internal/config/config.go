// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package config

import (
	"strings"

	"github.com/matt-FFFFFF/upbuild/internal/tags"
)

// Option names.
const (
	FlagPrint              = "--ub-print"
	FlagAdd                = "--ub-add"
	FlagNoEnv              = "--ub-no-env"
	FlagPlan               = "--ub-plan"
	FlagCompletionListTags = "--ub-completion-list-tags"
	FlagCompletion         = "--ub-completion"
	ArgSelect              = "--ub-select="
	ArgReject              = "--ub-reject="
)

// Completion is a shell completion request.
type Completion int

const (
	// CompletionNone runs the build.
	CompletionNone Completion = iota
	// CompletionTags prints the tags of the command file.
	CompletionTags
	// CompletionScript prints the bash completion script.
	CompletionScript
)

// Config holds the parsed options.
type Config struct {
	Print      bool
	Add        bool
	SkipEnv    bool
	Plan       bool
	Completion Completion
	// Tags keeps the --ub-select and --ub-reject options in command line order.
	Tags tags.Selection
	// Args are the remaining arguments, the override payload.
	Args []string
}

// Default returns the configuration of a bare invocation.
func Default() *Config {
	return &Config{Args: []string{}}
}

// Parse reads the options from argv, where argv[0] is the program name.
// It never fails: an unknown or malformed option ends the option list.
func Parse(argv []string) *Config {
	cfg := Default()

	if len(argv) == 0 {
		return cfg
	}

	rest := argv[1:]

	i := 0

Loop:
	for ; i < len(rest); i++ {
		arg := rest[i]

		switch arg {
		case FlagPrint:
			cfg.Print = true
		case FlagAdd:
			cfg.Add = true
		case FlagNoEnv:
			cfg.SkipEnv = true
		case FlagPlan:
			cfg.Plan = true
		case FlagCompletionListTags:
			cfg.Completion = CompletionTags
		case FlagCompletion:
			cfg.Completion = CompletionScript
		default:
			if !cfg.tag(arg) {
				break Loop
			}
		}
	}

	cfg.Args = append([]string{}, rest[i:]...)

	return cfg
}

// tag records a --ub-select=TAG or --ub-reject=TAG option.
// It reports false for anything else, including an empty TAG.
func (c *Config) tag(arg string) bool {
	var (
		kind  tags.Kind
		value string
	)

	switch {
	case strings.HasPrefix(arg, ArgSelect):
		kind, value = tags.Select, strings.TrimPrefix(arg, ArgSelect)
	case strings.HasPrefix(arg, ArgReject):
		kind, value = tags.Reject, strings.TrimPrefix(arg, ArgReject)
	default:
		return false
	}

	if value == "" {
		return false
	}

	c.Tags.Add(kind, value)

	return true
}
