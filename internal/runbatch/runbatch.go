// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"context"
	"errors"
)

const (
	// ExitFailure is the status for failures of the tool itself.
	ExitFailure = 1
	// ExitSpawnFailure is the status when a program cannot be started.
	ExitSpawnFailure = 127
	// ExitSignalBase is added to the signal number of a child killed by a signal.
	ExitSignalBase = 128
)

var (
	// ErrSpawn is returned when a program cannot be started.
	ErrSpawn = errors.New("unable to run command")
	// ErrEmptyArgv is returned for a command left without arguments.
	ErrEmptyArgv = errors.New("command has no arguments")
	// ErrDirectoryCreate is returned when @mkdir fails.
	ErrDirectoryCreate = errors.New("failed to create directory")
	// ErrOutfileRead is returned when the @outfile cannot be displayed.
	ErrOutfileRead = errors.New("unable to read @outfile")
	// ErrEnvFile is returned when a dotenv file of the command cannot be loaded.
	ErrEnvFile = errors.New("unable to load env files")
	// ErrCancelled is returned when the context ends before a command starts.
	ErrCancelled = errors.New("execution cancelled")
)

// SpawnRequest describes one process to start.
type SpawnRequest struct {
	// Argv is the full command line, Argv[0] is the program.
	Argv []string
	// Dir is the working directory.
	Dir string
	// Env is the complete environment of the child.
	Env []string
	// Recursive is set when the program is this tool itself.
	Recursive bool
}

// Spawner starts a program and waits for it.
type Spawner interface {
	// Spawn returns the exit status of the program. A non-nil error means the
	// program could not be run at all, the status is then the one to report.
	Spawn(ctx context.Context, req SpawnRequest) (int, error)
}
