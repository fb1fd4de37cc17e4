// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package cmdfile

import (
	"fmt"
	"io"

	"github.com/spf13/afero"
)

// Parse tokenizes and compiles everything read from r.
func Parse(r io.Reader) (*Plan, error) {
	tokens, err := ReadTokens(r)
	if err != nil {
		return nil, err
	}

	return Compile(tokens)
}

// Load reads and compiles the command file at path.
func Load(fs afero.Fs, path string) (*Plan, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadCommandFile, err)
	}
	defer f.Close() //nolint:errcheck

	return Parse(f)
}
