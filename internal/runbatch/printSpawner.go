// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

var _ Spawner = (*PrintSpawner)(nil)

// ErrQuote is returned when an argument cannot be rendered for the shell.
var ErrQuote = errors.New("unable to quote argument")

// PrintSpawner writes each command as one shell-quoted line instead of running it.
type PrintSpawner struct {
	Out io.Writer
}

// Spawn implements Spawner. It always reports success.
func (p *PrintSpawner) Spawn(_ context.Context, req SpawnRequest) (int, error) {
	line, err := Render(req.Argv)
	if err != nil {
		return ExitFailure, err
	}

	if _, err := fmt.Fprintln(p.Out, line); err != nil {
		return ExitFailure, err
	}

	return 0, nil
}

// Render quotes every argument so the line can be pasted into bash.
func Render(argv []string) (string, error) {
	parts := make([]string, 0, len(argv))

	for _, a := range argv {
		q, err := syntax.Quote(a, syntax.LangBash)
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrQuote, err)
		}

		parts = append(parts, q)
	}

	return strings.Join(parts, " "), nil
}
