// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// ErrNotInPath is returned when a program is not found in any PATH entry.
var ErrNotInPath = errors.New("executable file not found in PATH")

// LookPath finds the executable for program.
//
// A program containing a path separator is taken relative to dir. Otherwise
// each entry of path is searched in turn; relative entries are also resolved
// against dir because that is where the child starts.
func LookPath(program, dir, path string) (string, error) {
	if strings.ContainsRune(program, '/') || strings.ContainsRune(program, filepath.Separator) {
		candidate := program
		if !filepath.IsAbs(candidate) {
			candidate = filepath.Join(dir, candidate)
		}

		if err := executable(candidate); err != nil {
			return "", fmt.Errorf("%q: %w", program, err)
		}

		return candidate, nil
	}

	for _, p := range filepath.SplitList(path) {
		if p == "" {
			p = "."
		}

		if !filepath.IsAbs(p) {
			p = filepath.Join(dir, p)
		}

		for _, name := range candidates(program) {
			candidate := filepath.Join(p, name)
			if executable(candidate) == nil {
				return candidate, nil
			}
		}
	}

	return "", fmt.Errorf("%q: %w", program, ErrNotInPath)
}

func executable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	if info.IsDir() {
		return fmt.Errorf("%q is a directory", path)
	}

	// check if the command is executable if not Windows
	if runtime.GOOS != "windows" && info.Mode()&0o111 == 0 {
		return fmt.Errorf("%q: %w", path, os.ErrPermission)
	}

	return nil
}

func candidates(program string) []string {
	if runtime.GOOS != "windows" || filepath.Ext(program) != "" {
		return []string{program}
	}

	exts := filepath.SplitList(os.Getenv("PATHEXT"))
	if len(exts) == 0 {
		exts = []string{".com", ".exe", ".bat", ".cmd"}
	}

	out := make([]string, 0, len(exts))
	for _, e := range exts {
		out = append(out, program+strings.ToLower(e))
	}

	return out
}

func pathFromEnv(env []string) string {
	path := ""

	for _, kv := range env {
		if k, v, ok := strings.Cut(kv, "="); ok && strings.EqualFold(k, "PATH") {
			path = v
		}
	}

	return path
}
