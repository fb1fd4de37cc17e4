// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/matt-FFFFFF/upbuild/internal/ctxlog"
	"github.com/matt-FFFFFF/upbuild/internal/envfile"
	"github.com/matt-FFFFFF/upbuild/internal/signalbroker"
)

var _ Spawner = (*OSSpawner)(nil)

const pwdEnv = "PWD"

var (
	// ErrSignalReceived is logged when a signal is passed on to the child.
	ErrSignalReceived = errors.New("signal received")
	// ErrDuplicateSignalReceived is logged when a second signal of a kind forces termination.
	ErrDuplicateSignalReceived = errors.New("duplicate signal received, process forcefully terminated")
)

// OSSpawner runs programs as child processes sharing the tool's standard streams.
type OSSpawner struct {
	Stdin  *os.File
	Stdout *os.File
	Stderr *os.File
	// Self is the path of the running executable, used for recursive commands
	// so that every level runs the same build of the tool.
	Self  string
	sigCh chan os.Signal // Channel to receive signals, allows mocking in test.
}

// NewOSSpawner returns a spawner on the process's own standard streams.
func NewOSSpawner(self string) *OSSpawner {
	return &OSSpawner{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Self:   self,
	}
}

// Spawn implements Spawner.
//
// The first signal of a kind is passed on to the child and the tool keeps
// waiting for it. A second signal of the same kind, or the end of ctx, kills
// the child.
func (s *OSSpawner) Spawn(ctx context.Context, req SpawnRequest) (int, error) {
	logger := ctxlog.Logger(ctx).With("runnableType", "OSSpawner")

	if len(req.Argv) == 0 {
		return ExitSpawnFailure, ErrEmptyArgv
	}

	path, err := s.program(req)
	if err != nil {
		return ExitSpawnFailure, fmt.Errorf("%w: %w", ErrSpawn, err)
	}

	logger.Debug("command info", "path", path, "cwd", req.Dir, "args", req.Argv)

	sigCh := s.sigCh
	if sigCh == nil {
		sigCh = signalbroker.New(ctx)
		defer signalbroker.Stop(sigCh)
	}

	ps, err := os.StartProcess(path, req.Argv, &os.ProcAttr{
		Dir:   req.Dir,
		Env:   childEnv(req),
		Files: []*os.File{s.stream(s.Stdin, os.Stdin), s.stream(s.Stdout, os.Stdout), s.stream(s.Stderr, os.Stderr)},
	})
	if err != nil {
		return ExitSpawnFailure, fmt.Errorf("%w: %w", ErrSpawn, err)
	}

	logger.Debug("process started", "pid", ps.Pid)

	done := make(chan struct{})

	var wg sync.WaitGroup

	wg.Add(1)

	// watchdog for process signals and context cancellation
	go func() {
		defer wg.Done()

		signalCount := make(map[os.Signal]struct{})

		for {
			select {
			case sig := <-sigCh:
				if _, ok := signalCount[sig]; ok {
					logger.Info("received duplicate signal, killing process", "signal", sig.String(), "error", ErrDuplicateSignalReceived)
					killPs(ctx, ps)

					return
				}

				signalCount[sig] = struct{}{}

				logger.Info("received signal", "signal", sig.String(), "error", ErrSignalReceived)

				if err := ps.Signal(sig); err != nil {
					logger.Info("failed to send signal", "signal", sig.String(), "error", err)
				}

			case <-ctx.Done():
				logger.Info("context done, killing process")
				killPs(ctx, ps)

				return

			case <-done:
				return
			}
		}
	}()

	state, err := ps.Wait()

	close(done)
	wg.Wait()

	if err != nil {
		return ExitFailure, fmt.Errorf("%w: %w", ErrSpawn, err)
	}

	code := exitStatus(state)
	logger.Debug("process finished", "exitCode", code)

	return code, nil
}

func (s *OSSpawner) program(req SpawnRequest) (string, error) {
	if req.Recursive && s.Self != "" {
		return s.Self, nil
	}

	return LookPath(req.Argv[0], req.Dir, pathFromEnv(req.Env))
}

// childEnv sets PWD to the working directory of the child, as os/exec does.
func childEnv(req SpawnRequest) []string {
	env := req.Env
	if env == nil {
		env = os.Environ()
	}

	if req.Dir == "" || !filepath.IsAbs(req.Dir) {
		return env
	}

	return envfile.Apply(env, map[string]string{pwdEnv: req.Dir})
}

func (s *OSSpawner) stream(f, fallback *os.File) *os.File {
	if f == nil {
		return fallback
	}

	return f
}

// exitStatus maps a finished process to a shell style status: the exit code,
// or 128 plus the signal number for a process killed by a signal.
func exitStatus(state *os.ProcessState) int {
	if ws, ok := state.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return ExitSignalBase + int(ws.Signal())
	}

	if code := state.ExitCode(); code >= 0 {
		return code
	}

	return ExitFailure
}

// killPs kills the process.
func killPs(ctx context.Context, ps *os.Process) {
	if err := ps.Kill(); err != nil {
		if errors.Is(err, os.ErrProcessDone) {
			ctxlog.Logger(ctx).Debug("process already done", "pid", ps.Pid)
			return
		}

		ctxlog.Logger(ctx).Error("process kill error", "pid", ps.Pid, "error", err)
	}

	ctxlog.Logger(ctx).Info("process killed", "pid", ps.Pid)
}
