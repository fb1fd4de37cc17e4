// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package config parses the leading --ub-* options of the command line.
//
// Options are only recognised before the first other argument. Everything
// from that argument on is left for the override engine, including a "--"
// which the override engine strips itself.
package config
