// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package envfile

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/repo/.env", []byte("# comment\nA=1\nB=\"two words\"\n"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/repo/sub/.env", []byte("export B=override\nC=3\n"), 0o644))

	vars, err := Load(fs, "/repo", []string{".env", "sub/.env"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"A": "1", "B": "override", "C": "3"}, vars)

	vars, err = Load(fs, "/elsewhere", []string{"/repo/.env"})
	require.NoError(t, err)
	assert.Equal(t, "two words", vars["B"])

	vars, err = Load(fs, "/repo", nil)
	require.NoError(t, err)
	assert.Empty(t, vars)
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(afero.NewMemMapFs(), "/repo", []string{".env"})
	assert.ErrorIs(t, err, ErrLoad)
}

func TestApply(t *testing.T) {
	environ := []string{"PATH=/bin", "A=old", "HOME=/root"}

	got := Apply(environ, map[string]string{"A": "new", "Z": "z", "M": "m"})
	assert.Equal(t, []string{"PATH=/bin", "A=new", "HOME=/root", "M=m", "Z=z"}, got)
	assert.Equal(t, "A=old", environ[1], "input must not change")

	assert.Equal(t, environ, Apply(environ, nil))
}

func TestUnset(t *testing.T) {
	environ := []string{"A=1", "UPBUILD_SEARCH_ABOVE=/x", "B=2"}

	assert.Equal(t, []string{"A=1", "B=2"}, Unset(environ, "UPBUILD_SEARCH_ABOVE"))
	assert.Len(t, environ, 3)
}
