// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package tags decides which commands of a plan run for a given
// --ub-select / --ub-reject selection.
package tags

import (
	"maps"
	"slices"

	"github.com/matt-FFFFFF/upbuild/internal/cmdfile"
)

// Kind says whether a tag was selected or rejected.
type Kind int

const (
	// Select includes commands carrying the tag.
	Select Kind = iota
	// Reject excludes commands carrying the tag.
	Reject
)

func (k Kind) String() string {
	if k == Reject {
		return "reject"
	}

	return "select"
}

// Entry is one tag option from the command line.
type Entry struct {
	Kind Kind
	Tag  string
}

// Selection is the ordered list of tag options. Later entries for the same
// tag override earlier ones.
type Selection []Entry

// Add appends an entry.
func (s *Selection) Add(kind Kind, tag string) {
	*s = append(*s, Entry{Kind: kind, Tag: tag})
}

// Sets folds the selection into its final select and reject sets.
// A tag ends up in exactly one of them.
type Sets struct {
	Select map[string]struct{}
	Reject map[string]struct{}
}

// Resolve folds the ordered entries, the last entry for a tag wins.
func (s Selection) Resolve() Sets {
	final := make(map[string]Kind, len(s))
	for _, e := range s {
		final[e.Tag] = e.Kind
	}

	sets := Sets{
		Select: make(map[string]struct{}),
		Reject: make(map[string]struct{}),
	}

	for tag, kind := range final {
		if kind == Reject {
			sets.Reject[tag] = struct{}{}
		} else {
			sets.Select[tag] = struct{}{}
		}
	}

	return sets
}

// Selected returns the sorted select tags.
func (s Sets) Selected() []string {
	return slices.Sorted(maps.Keys(s.Select))
}

// Rejected returns the sorted reject tags.
func (s Sets) Rejected() []string {
	return slices.Sorted(maps.Keys(s.Reject))
}

// Eligible reports whether cmd runs under the selection.
//
// Disabled commands never run and a rejected tag always excludes.
// Without select tags every command that is not @manual runs; with select
// tags a command runs only if it carries one of them.
func (s Sets) Eligible(cmd *cmdfile.Command) bool {
	if cmd.Disabled {
		return false
	}

	if intersects(cmd.Tags, s.Reject) {
		return false
	}

	if len(s.Select) == 0 {
		return !cmd.Manual
	}

	return intersects(cmd.Tags, s.Select)
}

// Filter returns the eligible commands, in order.
func (s Selection) Filter(cmds []*cmdfile.Command) []*cmdfile.Command {
	sets := s.Resolve()
	out := make([]*cmdfile.Command, 0, len(cmds))

	for _, c := range cmds {
		if sets.Eligible(c) {
			out = append(out, c)
		}
	}

	return out
}

func intersects(tags []string, set map[string]struct{}) bool {
	for _, t := range tags {
		if _, ok := set[t]; ok {
			return true
		}
	}

	return false
}
