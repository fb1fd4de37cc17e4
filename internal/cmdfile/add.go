// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package cmdfile

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/afero"
)

// ErrAppend is returned when a command cannot be appended to a file.
var ErrAppend = errors.New("unable to add command")

const sixFourFour = 0o644

// Append writes args as a new command at the end of the file at path, one
// argument per line, creating the file if needed. A "&&" line is written
// first when the file already has content. Empty args is a no-op.
func Append(fs afero.Fs, path string, args []string) error {
	if len(args) == 0 {
		return nil
	}

	f, err := fs.OpenFile(path, os.O_CREATE|os.O_WRONLY, sixFourFour)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrAppend, err)
	}
	defer f.Close() //nolint:errcheck

	pos, err := f.Seek(0, io.SeekEnd)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrAppend, err)
	}

	var sb strings.Builder
	if pos != 0 {
		sb.WriteString(ChainSeparator + "\n")
	}

	for _, a := range args {
		sb.WriteString(a)
		sb.WriteString("\n")
	}

	if _, err := f.WriteString(sb.String()); err != nil {
		return fmt.Errorf("%w: %w", ErrAppend, err)
	}

	return nil
}
