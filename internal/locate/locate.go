// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package locate finds the command file by searching upward from a directory.
package locate

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

const (
	// FileName is the name of the command file.
	FileName = ".upbuild"
	// ToolName is the program name that marks a command as a recursive invocation.
	ToolName = "upbuild"
	// SearchAboveEnv names the directory a nested invocation must search above.
	SearchAboveEnv = "UPBUILD_SEARCH_ABOVE"
	// MaxDepth bounds the number of directories visited.
	MaxDepth = 128
)

var (
	// ErrNotFound is returned when no command file exists up to the root.
	ErrNotFound = errors.New("no " + FileName + " file found")
	// ErrInvalidDir is returned when the start of the search is not a directory.
	ErrInvalidDir = errors.New("not a directory")
)

// Result describes a located command file.
type Result struct {
	// Path is the command file.
	Path string
	// Dir is the directory holding the command file.
	Dir string
	// Start is the directory the search started from.
	Start string
	// Depth is the number of levels between Start and Dir, or -1 when Start
	// is not below Dir.
	Depth int
}

// Locator searches for command files.
type Locator struct {
	Fs afero.Fs
	// Floor is the directory a nested invocation resumes above. When the start
	// is at or below Floor the search begins at the parent of Floor.
	Floor string
}

// New returns a Locator on the filesystem from FsFactory.
func New(floor string) *Locator {
	return &Locator{Fs: FsFactory(), Floor: floor}
}

// Find looks for the command file in start, then each parent in turn.
func (l *Locator) Find(start string) (*Result, error) {
	start, err := filepath.Abs(start)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrInvalidDir, start, err)
	}

	if ok, _ := afero.IsDir(l.Fs, start); !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDir, start)
	}

	curr := start

	if l.Floor != "" {
		floor, err := filepath.Abs(l.Floor)
		if err == nil && within(l.physical(floor), l.physical(start)) {
			parent := filepath.Dir(floor)
			if parent == floor {
				return nil, fmt.Errorf("%w above %q", ErrNotFound, floor)
			}

			curr = parent
		}
	}

	for range MaxDepth {
		candidate := filepath.Join(curr, FileName)
		if l.readable(candidate) {
			return &Result{
				Path:  candidate,
				Dir:   curr,
				Start: start,
				Depth: depth(curr, start),
			}, nil
		}

		parent := filepath.Dir(curr)
		if parent == curr {
			break
		}

		curr = parent
	}

	return nil, fmt.Errorf("%w from %q", ErrNotFound, start)
}

func (l *Locator) readable(path string) bool {
	info, err := l.Fs.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}

	f, err := l.Fs.Open(path)
	if err != nil {
		return false
	}

	_ = f.Close()

	return true
}

// physical resolves symbolic links in p on the OS filesystem. The floor comes
// from the parent's logical working directory while a child may only know
// the physical one.
func (l *Locator) physical(p string) string {
	if _, ok := l.Fs.(*afero.OsFs); !ok {
		return p
	}

	if resolved, err := filepath.EvalSymlinks(p); err == nil {
		return resolved
	}

	return p
}

// IsRecursive reports whether program is a nested invocation of this tool.
// Only the literal name counts, a path to the binary does not.
func IsRecursive(program string) bool {
	return program == ToolName
}

// within reports whether p is dir or below it.
func within(dir, p string) bool {
	rel, err := filepath.Rel(dir, p)
	if err != nil {
		return false
	}

	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

func depth(dir, start string) int {
	rel, err := filepath.Rel(dir, start)
	if err != nil || !within(dir, start) {
		return -1
	}

	if rel == "." {
		return 0
	}

	return len(strings.Split(rel, string(filepath.Separator)))
}
