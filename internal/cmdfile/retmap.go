// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package cmdfile

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const retmapArrow = "=>"

// ErrInvalidRetmap is returned for an @retmap value that is not a list of "from=>to" pairs.
var ErrInvalidRetmap = errors.New("unable to parse retmap")

// ParseRetmap parses "0=>1,1=>0". Later entries for the same code win.
func ParseRetmap(def string) (map[int]int, error) {
	m := make(map[int]int)

	for entry := range strings.SplitSeq(def, ",") {
		from, to, ok := strings.Cut(entry, retmapArrow)
		if !ok {
			return nil, fmt.Errorf("%w from %q: entry %q has no %q", ErrInvalidRetmap, def, entry, retmapArrow)
		}

		a, err := strconv.Atoi(strings.TrimSpace(from))
		if err != nil {
			return nil, fmt.Errorf("%w from %q: %w", ErrInvalidRetmap, def, err)
		}

		b, err := strconv.Atoi(strings.TrimSpace(to))
		if err != nil {
			return nil, fmt.Errorf("%w from %q: %w", ErrInvalidRetmap, def, err)
		}

		m[a] = b
	}

	return m, nil
}
