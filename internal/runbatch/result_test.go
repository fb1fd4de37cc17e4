// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResults(t *testing.T) {
	var empty Results

	assert.False(t, empty.HasError())
	assert.Equal(t, 0, empty.ExitCode())
	assert.NoError(t, empty.Err())

	boom := errors.New("boom")
	r := Results{
		newResult(1, "/src", []string{"make", "all"}),
		{Label: "b", ExitCode: 2, Error: boom},
	}

	assert.Equal(t, "make all", r[0].Label)
	assert.True(t, r.HasError())
	assert.Equal(t, 2, r.ExitCode())
	assert.ErrorIs(t, r.Err(), boom)

	assert.True(t, Results{{ExitCode: 0, Error: boom}}.HasError())
	assert.True(t, Results{{ExitCode: 1}}.HasError())
	assert.False(t, Results{{}}.HasError())
}
