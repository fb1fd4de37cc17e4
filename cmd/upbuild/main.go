// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package main contains the upbuild command-line interface (CLI).
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/matt-FFFFFF/upbuild"
	"github.com/matt-FFFFFF/upbuild/cmd/upbuild/run"
	"github.com/matt-FFFFFF/upbuild/internal/ctxlog"
	"github.com/matt-FFFFFF/upbuild/internal/signalbroker"
	"github.com/urfave/cli/v3"
)

// rootCmd is the root command for the CLI.
// Flag parsing is left to the action because --ub-* options are only
// recognised before the first other argument.
var rootCmd = &cli.Command{
	Writer:    os.Stdout,
	ErrWriter: os.Stderr,
	Name:      "upbuild",
	Description: `upbuild runs the build described by the nearest .upbuild file,
searching the current directory and then each parent in turn.

The file lists one argument per line. Commands are chained with "&&" lines and
stop at the first failure. Arguments after a "--" line are replaced by the
arguments given on the command line.`,
	Usage:           "upbuild [--ub-print] [--ub-select=TAG] [--ub-reject=TAG] [-- | ---] [args...]",
	Copyright:       "Copyright (c) matt-FFFFFF 2025. All rights reserved.",
	SkipFlagParsing: true,
	HideHelp:        true,
	HideHelpCommand: true,
	HideVersion:     true,
	Action:          run.Action,
	// Exit codes are handled in main.
	ExitErrHandler: func(context.Context, *cli.Command, error) {},
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	ctx = ctxlog.New(ctx, ctxlog.DefaultLogger)

	sigCh := signalbroker.New(ctx)

	go signalbroker.Watch(ctx, sigCh, cancel)

	rootCmd.Version = fmt.Sprintf("%s (commit: %s)", upbuild.Version, upbuild.Commit)
	ctxlog.Debug(ctx, "starting", "version", rootCmd.Version)

	err := rootCmd.Run(ctx, os.Args)

	cancel()

	os.Exit(exitCode(ctx, err))
}

func exitCode(ctx context.Context, err error) int {
	if err == nil {
		return 0
	}

	var ec cli.ExitCoder
	if errors.As(err, &ec) {
		return ec.ExitCode()
	}

	ctxlog.Error(ctx, "command execution failed", "error", err)
	fmt.Fprintf(os.Stderr, "upbuild: %v\n", err) //nolint:errcheck

	return 1
}
