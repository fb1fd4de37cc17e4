// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package override

import (
	"strings"
	"testing"

	"github.com/matt-FFFFFF/upbuild/internal/cmdfile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want Override
	}{
		{name: "none", args: nil, want: Override{Mode: Keep}},
		{name: "truncate", args: []string{"---"}, want: Override{Mode: Truncate}},
		{name: "truncate then args", args: []string{"---", "a", "b"}, want: Override{Mode: Replace, Args: []string{"a", "b"}}},
		{name: "lone separator", args: []string{"--"}, want: Override{Mode: Keep}},
		{name: "separator then args", args: []string{"--", "--ub-print", "x"}, want: Override{Mode: Replace, Args: []string{"--ub-print", "x"}}},
		{name: "plain args", args: []string{"clean", "all"}, want: Override{Mode: Replace, Args: []string{"clean", "all"}}},
		{name: "marker not first", args: []string{"a", "---"}, want: Override{Mode: Replace, Args: []string{"a", "---"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.args))
		})
	}
}

func TestParse_DoesNotAlias(t *testing.T) {
	args := []string{"a", "b"}
	o := Parse(args)
	args[0] = "changed"

	assert.Equal(t, []string{"a", "b"}, o.Args)
}

const file = `make
-j8
--
test
&&
echo
done
&&
make
--
`

func plan(t *testing.T) *cmdfile.Plan {
	t.Helper()

	p, err := cmdfile.Parse(strings.NewReader(file))
	require.NoError(t, err)

	return p
}

func argvs(cmds []*cmdfile.Command) [][]string {
	out := make([][]string, 0, len(cmds))
	for _, c := range cmds {
		out = append(out, c.Argv())
	}

	return out
}

func TestApply(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want [][]string
	}{
		{
			name: "keep",
			want: [][]string{{"make", "-j8", "test"}, {"echo", "done"}, {"make"}},
		},
		{
			name: "replace",
			args: []string{"clean"},
			want: [][]string{{"make", "-j8", "clean"}, {"echo", "done"}, {"make", "clean"}},
		},
		{
			name: "truncate",
			args: []string{"---"},
			want: [][]string{{"make", "-j8"}, {"echo", "done"}, {"make"}},
		},
		{
			name: "literal",
			args: []string{"--", "---"},
			want: [][]string{{"make", "-j8", "---"}, {"echo", "done"}, {"make", "---"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := plan(t)
			got := Parse(tt.args).Apply(p.Commands)

			assert.Equal(t, tt.want, argvs(got))
			assert.Equal(t, []string{"test"}, p.Commands[0].Overridable, "plan must not change")
		})
	}
}

func TestMode_String(t *testing.T) {
	assert.Equal(t, "keep", Keep.String())
	assert.Equal(t, "replace", Replace.String())
	assert.Equal(t, "truncate", Truncate.String())
	assert.Equal(t, "unknown", Mode(42).String())
}
