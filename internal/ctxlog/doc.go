// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package ctxlog carries a slog.Logger through a context.Context.
//
// The default logger writes human readable records to standard error so that
// standard output stays reserved for the output of the commands being run.
// The level is taken from the <EXECUTABLE>_LOG_LEVEL environment variable,
// e.g. UPBUILD_LOG_LEVEL=DEBUG.
package ctxlog
