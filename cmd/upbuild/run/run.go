// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package run wires the command line to discovery, compilation and execution.
package run

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/matt-FFFFFF/upbuild/internal/cmdfile"
	"github.com/matt-FFFFFF/upbuild/internal/config"
	"github.com/matt-FFFFFF/upbuild/internal/ctxlog"
	"github.com/matt-FFFFFF/upbuild/internal/locate"
	"github.com/matt-FFFFFF/upbuild/internal/override"
	"github.com/matt-FFFFFF/upbuild/internal/plandump"
	"github.com/matt-FFFFFF/upbuild/internal/runbatch"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v3"
)

const (
	cliExitStr = ""
	maxStatus  = 255
)

// ErrStatusRange is reported when a status cannot be used as a process exit code.
var ErrStatusRange = errors.New("unable to return process status")

// Runner holds the process resources used by an invocation, so that tests can
// replace them.
type Runner struct {
	Fs         afero.Fs
	Stdout     io.Writer
	Stderr     io.Writer
	Getwd      func() (string, error)
	Getenv     func(string) string
	Environ    func() []string
	Executable func() (string, error)
	// Spawner runs the commands, an OSSpawner when nil.
	// --ub-print always uses a PrintSpawner.
	Spawner runbatch.Spawner
}

// New returns a Runner for the current process.
func New(stdout, stderr io.Writer) *Runner {
	return &Runner{
		Fs:         locate.FsFactory(),
		Stdout:     stdout,
		Stderr:     stderr,
		Getwd:      os.Getwd,
		Getenv:     os.Getenv,
		Environ:    os.Environ,
		Executable: os.Executable,
	}
}

// Action is the action of the root command.
func Action(ctx context.Context, cmd *cli.Command) error {
	argv := slices.Concat([]string{argv0()}, cmd.Args().Slice())

	return New(cmd.Root().Writer, cmd.Root().ErrWriter).Run(ctx, argv)
}

func argv0() string {
	if len(os.Args) > 0 {
		return os.Args[0]
	}

	return locate.ToolName
}

// Run performs one invocation. argv[0] is the program name.
// A failed build is returned as a cli.ExitCoder carrying the status.
func (r *Runner) Run(ctx context.Context, argv []string) error {
	logger := ctxlog.Logger(ctx).With("command", "run")
	cfg := config.Parse(argv)

	logger.Debug("parsed options", "print", cfg.Print, "add", cfg.Add, "skipEnv", cfg.SkipEnv, "args", cfg.Args)

	if cfg.Completion == config.CompletionScript {
		fmt.Fprintln(r.Stdout, config.BashCompletion()) //nolint:errcheck
		return nil
	}

	wd, err := r.Getwd()
	if err != nil {
		return r.fail(err)
	}

	if cfg.Add {
		path := filepath.Join(wd, locate.FileName)
		logger.Debug("appending command", "file", path, "args", cfg.Args)

		if err := cmdfile.Append(r.Fs, path, cfg.Args); err != nil {
			return r.fail(err)
		}

		return nil
	}

	loc := &locate.Locator{Fs: r.Fs, Floor: r.Getenv(locate.SearchAboveEnv)}

	found, err := loc.Find(wd)
	if err != nil {
		return r.fail(err)
	}

	logger.Debug("found command file", "path", found.Path, "depth", found.Depth)

	plan, err := cmdfile.Load(r.Fs, found.Path)
	if err != nil {
		return r.fail(err)
	}

	if cfg.Completion == config.CompletionTags {
		for _, t := range plan.Tags() {
			fmt.Fprintln(r.Stdout, t) //nolint:errcheck
		}

		return nil
	}

	o := override.Parse(cfg.Args)
	sets := cfg.Tags.Resolve()
	cmds := cfg.Tags.Filter(o.Apply(plan.Commands))

	logger.Debug("resolved plan", "override", o.Mode.String(), "commands", len(cmds), "of", len(plan.Commands))

	if cfg.Plan {
		if err := plandump.Write(r.Stdout, plandump.Build(found, plan.Header, o, sets, cmds)); err != nil {
			return r.fail(err)
		}

		return nil
	}

	exec := &runbatch.Executor{
		Spawner:   r.spawner(ctx, cfg),
		Fs:        r.Fs,
		Out:       r.Stdout,
		ErrOut:    r.Stderr,
		PrintOnly: cfg.Print,
		SkipEnv:   cfg.SkipEnv,
		Environ:   r.Environ(),
	}

	results := exec.Run(ctx, runbatch.Job{
		Dir:       found.Dir,
		Start:     found.Start,
		HeaderEnv: plan.Header.Env,
		Commands:  cmds,
	})

	if !results.HasError() {
		return nil
	}

	code := results.ExitCode()
	logger.Info("build failed", "exitCode", code, "error", results.Err())

	return r.status(code)
}

func (r *Runner) spawner(ctx context.Context, cfg *config.Config) runbatch.Spawner {
	if cfg.Print {
		return &runbatch.PrintSpawner{Out: r.Stdout}
	}

	if r.Spawner != nil {
		return r.Spawner
	}

	self, err := r.Executable()
	if err != nil {
		ctxlog.Warn(ctx, "unable to find own executable, nested invocations use PATH", "error", err)
		self = ""
	}

	return runbatch.NewOSSpawner(self)
}

// fail reports err and returns the generic failure status.
func (r *Runner) fail(err error) error {
	fmt.Fprintf(r.Stderr, "upbuild: %v\n", err) //nolint:errcheck

	return cli.Exit(cliExitStr, runbatch.ExitFailure)
}

// status converts a command status to the process exit status.
func (r *Runner) status(code int) error {
	if code < 0 || code > maxStatus {
		fmt.Fprintf(r.Stderr, "upbuild: %v %d\n", ErrStatusRange, code) //nolint:errcheck

		code = runbatch.ExitFailure
	}

	return cli.Exit(cliExitStr, code)
}
