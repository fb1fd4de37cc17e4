// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package color decorates diagnostic text with ANSI colour codes.
//
// Colour is only emitted when standard error is a terminal, unless overridden
// by the NO_COLOR or FORCE_COLOR environment variables.
package color
