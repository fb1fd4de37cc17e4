// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package runbatch runs the commands of a plan one after another, the way a
// shell runs a chain joined by "&&".
//
// The Executor owns the chain policy: directory creation and change notices,
// exit status mapping, @outfile display and stopping at the first failure.
// Starting processes is delegated to a Spawner, either an OSSpawner that runs
// the program or a PrintSpawner that only renders the command line.
package runbatch
