// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/matt-FFFFFF/upbuild/internal/cmdfile"
	"github.com/matt-FFFFFF/upbuild/internal/ctxlog"
	"github.com/matt-FFFFFF/upbuild/internal/envfile"
	"github.com/matt-FFFFFF/upbuild/internal/locate"
	"github.com/spf13/afero"
)

const sevenFiveFive = 0o755

// Job is one plan ready to run.
type Job struct {
	// Dir is the directory holding the command file.
	Dir string
	// Start is the directory the tool was started in.
	Start string
	// HeaderEnv lists the dotenv files applying to every command.
	HeaderEnv []string
	// Commands are the eligible commands, overrides already applied.
	Commands []*cmdfile.Command
}

// Executor runs the commands of a Job as a chain.
type Executor struct {
	Spawner Spawner
	Fs      afero.Fs
	// Out receives directory notices and @outfile contents.
	Out io.Writer
	// ErrOut receives diagnostics about failed steps.
	ErrOut io.Writer
	// PrintOnly skips notices, @mkdir, @env and @outfile.
	PrintOnly bool
	// SkipEnv ignores every @env directive.
	SkipEnv bool
	// Environ is the environment the children inherit, os.Environ() when nil.
	Environ []string
}

// Run executes the commands in order and stops at the first non-zero status.
// The returned Results hold one entry per attempted command; the status of
// the last one is the status of the whole chain.
func (e *Executor) Run(ctx context.Context, job Job) Results {
	logger := ctxlog.Logger(ctx).With("runnableType", "Executor")
	results := make(Results, 0, len(job.Commands))

	lastDir := job.Start
	if job.Dir != job.Start {
		e.entering(job.Dir)
		lastDir = job.Dir
	}

	for cmd := range slices.Values(job.Commands) {
		if ctx.Err() != nil {
			res := newResult(cmd.Line, job.Dir, cmd.Argv())
			res.ExitCode = ExitFailure
			res.Error = fmt.Errorf("%w: %w", ErrCancelled, ctx.Err())
			results = append(results, res)

			break
		}

		res := e.step(ctx, job, cmd, &lastDir)
		results = append(results, res)

		logger.Debug("command finished", "label", res.Label, "exitCode", res.ExitCode, "error", res.Error)

		if res.ExitCode != 0 {
			break
		}
	}

	return results
}

func (e *Executor) step(ctx context.Context, job Job, cmd *cmdfile.Command, lastDir *string) *Result {
	dir := cmd.WorkDir(job.Dir)
	argv := cmd.Argv()
	res := newResult(cmd.Line, dir, argv)

	if cmd.Mkdir != "" && !e.PrintOnly {
		target := cmdfile.Resolve(job.Dir, cmd.Mkdir)
		if err := e.mkdir(target); err != nil {
			e.diag("Failed to create directory %s", target)

			res.ExitCode = ExitFailure
			res.Error = fmt.Errorf("%w: %w", ErrDirectoryCreate, err)

			return res
		}
	}

	if dir != *lastDir {
		e.entering(dir)
		*lastDir = dir
	}

	if len(argv) == 0 {
		e.diag("upbuild: %v (line %d)", ErrEmptyArgv, cmd.Line)

		res.ExitCode = ExitSpawnFailure
		res.Error = ErrEmptyArgv

		return res
	}

	env, err := e.environ(job, cmd)
	if err != nil {
		e.diag("upbuild: %v", err)

		res.ExitCode = ExitSpawnFailure
		res.Error = err

		return res
	}

	recursive := locate.IsRecursive(argv[0])
	if recursive {
		env = envfile.Apply(env, map[string]string{locate.SearchAboveEnv: job.Dir})
	} else {
		env = envfile.Unset(env, locate.SearchAboveEnv)
	}

	code, err := e.Spawner.Spawn(ctx, SpawnRequest{
		Argv:      argv,
		Dir:       dir,
		Env:       env,
		Recursive: recursive,
	})
	if err != nil {
		e.diag("upbuild: %v", err)

		res.RawCode = code
		res.ExitCode = code
		res.Error = err

		return res
	}

	res.RawCode = code
	res.ExitCode = cmd.MapCode(code)

	if cmd.Outfile != "" && !e.PrintOnly {
		if err := e.showOutfile(cmdfile.Resolve(dir, cmd.Outfile)); err != nil {
			e.diag("Unable to read @outfile=%s", cmd.Outfile)

			res.Error = fmt.Errorf("%w: %w", ErrOutfileRead, err)
			if res.ExitCode == 0 {
				res.ExitCode = ExitFailure
			}
		}
	}

	return res
}

func (e *Executor) mkdir(path string) error {
	info, err := e.Fs.Stat(path)

	switch {
	case err == nil && info.IsDir():
		return nil
	case err == nil:
		return fmt.Errorf("%q exists and is not a directory", path)
	case !errors.Is(err, os.ErrNotExist):
		return err
	}

	return e.Fs.MkdirAll(path, sevenFiveFive)
}

func (e *Executor) environ(job Job, cmd *cmdfile.Command) ([]string, error) {
	env := e.Environ
	if env == nil {
		env = os.Environ()
	}

	if e.SkipEnv || e.PrintOnly {
		return slices.Clone(env), nil
	}

	files := slices.Concat(job.HeaderEnv, cmd.Env)
	if len(files) == 0 {
		return slices.Clone(env), nil
	}

	vars, err := envfile.Load(e.Fs, job.Dir, files)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEnvFile, err)
	}

	return envfile.Apply(env, vars), nil
}

func (e *Executor) showOutfile(path string) error {
	f, err := e.Fs.Open(path)
	if err != nil {
		return err
	}
	defer f.Close() //nolint:errcheck

	_, err = io.Copy(e.Out, f)

	return err
}

func (e *Executor) entering(dir string) {
	if e.PrintOnly {
		return
	}

	fmt.Fprintf(e.Out, "upbuild: Entering directory `%s'\n", dir) //nolint:errcheck
}

func (e *Executor) diag(format string, args ...any) {
	fmt.Fprintf(e.ErrOut, format+"\n", args...) //nolint:errcheck
}
