// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package cmdfile

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppend(t *testing.T) {
	fs := afero.NewMemMapFs()
	path := "/work/.upbuild"
	require.NoError(t, fs.MkdirAll("/work", 0o755))

	require.NoError(t, Append(fs, path, nil))
	exists, err := afero.Exists(fs, path)
	require.NoError(t, err)
	assert.False(t, exists, "nothing to add must not create the file")

	require.NoError(t, Append(fs, path, []string{"make", "-j8"}))
	content, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	assert.Equal(t, "make\n-j8\n", string(content))

	require.NoError(t, Append(fs, path, []string{"make", "install"}))
	content, err = afero.ReadFile(fs, path)
	require.NoError(t, err)
	assert.Equal(t, "make\n-j8\n&&\nmake\ninstall\n", string(content))

	plan, err := Load(fs, path)
	require.NoError(t, err)
	assert.Len(t, plan.Commands, 2)
}

func TestAppend_Error(t *testing.T) {
	fs := afero.NewReadOnlyFs(afero.NewMemMapFs())

	err := Append(fs, "/work/.upbuild", []string{"make"})
	assert.ErrorIs(t, err, ErrAppend)
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(afero.NewMemMapFs(), "/nope/.upbuild")
	require.ErrorIs(t, err, ErrReadCommandFile)
	assert.NotContains(t, err.Error(), "\n")
}
