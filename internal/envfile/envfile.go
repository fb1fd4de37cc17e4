// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package envfile loads the dotenv files named by @env directives and
// layers them onto a process environment.
package envfile

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/joho/godotenv"
	"github.com/matt-FFFFFF/upbuild/internal/cmdfile"
	"github.com/spf13/afero"
)

// ErrLoad is returned when a dotenv file cannot be read or parsed.
var ErrLoad = errors.New("unable to load env file")

// Load reads files in order, resolved against dir. Later files override
// earlier ones.
func Load(fs afero.Fs, dir string, files []string) (map[string]string, error) {
	vars := make(map[string]string)

	for _, name := range files {
		path := cmdfile.Resolve(dir, name)

		f, err := fs.Open(path)
		if err != nil {
			return nil, fmt.Errorf("%w %q: %w", ErrLoad, path, err)
		}

		parsed, err := godotenv.Parse(f)
		_ = f.Close()

		if err != nil {
			return nil, fmt.Errorf("%w %q: %w", ErrLoad, path, err)
		}

		maps.Copy(vars, parsed)
	}

	return vars, nil
}

// Apply returns environ with vars set. Existing entries are replaced in place,
// new ones are appended in key order.
func Apply(environ []string, vars map[string]string) []string {
	out := make([]string, 0, len(environ)+len(vars))
	seen := make(map[string]struct{}, len(vars))

	for _, kv := range environ {
		k, _, _ := strings.Cut(kv, "=")
		if v, ok := vars[k]; ok {
			if _, dup := seen[k]; dup {
				continue
			}

			seen[k] = struct{}{}
			out = append(out, k+"="+v)

			continue
		}

		out = append(out, kv)
	}

	for _, k := range slices.Sorted(maps.Keys(vars)) {
		if _, ok := seen[k]; !ok {
			out = append(out, k+"="+vars[k])
		}
	}

	return out
}

// Unset returns environ without any entry for key.
func Unset(environ []string, key string) []string {
	return slices.DeleteFunc(slices.Clone(environ), func(kv string) bool {
		k, _, _ := strings.Cut(kv, "=")
		return k == key
	})
}
