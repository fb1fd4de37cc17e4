// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package run

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/matt-FFFFFF/upbuild/internal/cmdfile"
	"github.com/matt-FFFFFF/upbuild/internal/locate"
	"github.com/matt-FFFFFF/upbuild/internal/plandump"
	"github.com/matt-FFFFFF/upbuild/internal/runbatch"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
	"go.uber.org/goleak"
)

type recordingSpawner struct {
	requests []runbatch.SpawnRequest
	codes    []int
}

func (s *recordingSpawner) Spawn(_ context.Context, req runbatch.SpawnRequest) (int, error) {
	s.requests = append(s.requests, req)

	if len(s.codes) == 0 {
		return 0, nil
	}

	code := s.codes[0]
	s.codes = s.codes[1:]

	return code, nil
}

func (s *recordingSpawner) argvs() [][]string {
	out := make([][]string, 0, len(s.requests))
	for _, r := range s.requests {
		out = append(out, r.Argv)
	}

	return out
}

type testRunner struct {
	*Runner
	stdout  *bytes.Buffer
	stderr  *bytes.Buffer
	spawner *recordingSpawner
	env     map[string]string
}

const buildFile = `make
@tags=host
-j8
--
tests
&&
make
@tags=target
cross
&&
make
@manual
@tags=release
install
&&
upbuild
`

func newTestRunner(t *testing.T, wd string, files map[string]string) *testRunner {
	t.Helper()

	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll(wd, 0o755))

	for path, content := range files {
		require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
	}

	tr := &testRunner{
		stdout:  &bytes.Buffer{},
		stderr:  &bytes.Buffer{},
		spawner: &recordingSpawner{},
		env:     map[string]string{},
	}

	tr.Runner = &Runner{
		Fs:         fs,
		Stdout:     tr.stdout,
		Stderr:     tr.stderr,
		Getwd:      func() (string, error) { return wd, nil },
		Getenv:     func(k string) string { return tr.env[k] },
		Environ:    func() []string { return []string{"PATH=/bin"} },
		Executable: func() (string, error) { return "/opt/bin/upbuild", nil },
		Spawner:    tr.spawner,
	}

	return tr
}

func exitStatus(t *testing.T, err error) int {
	t.Helper()

	if err == nil {
		return 0
	}

	var ec cli.ExitCoder
	require.ErrorAs(t, err, &ec)

	return ec.ExitCode()
}

func TestRun_Build(t *testing.T) {
	defer goleak.VerifyNone(t)

	tr := newTestRunner(t, "/src/pkg", map[string]string{"/src/.upbuild": buildFile})

	err := tr.Run(context.Background(), []string{"upbuild"})
	require.NoError(t, err)

	assert.Equal(t, [][]string{
		{"make", "-j8", "tests"},
		{"make", "cross"},
		{"upbuild"},
	}, tr.spawner.argvs())
	assert.Equal(t, "upbuild: Entering directory `/src'\n", tr.stdout.String())
	assert.Contains(t, tr.spawner.requests[2].Env, locate.SearchAboveEnv+"=/src")
}

func TestRun_OverrideAndTags(t *testing.T) {
	tr := newTestRunner(t, "/src", map[string]string{"/src/.upbuild": buildFile})

	err := tr.Run(context.Background(), []string{"upbuild", "--ub-select=host", "--ub-select=release", "clean"})
	require.NoError(t, err)

	assert.Equal(t, [][]string{
		{"make", "-j8", "clean"},
		{"make", "install"},
	}, tr.spawner.argvs())
	assert.Empty(t, tr.stdout.String())
}

func TestRun_Truncate(t *testing.T) {
	tr := newTestRunner(t, "/src", map[string]string{"/src/.upbuild": buildFile})

	err := tr.Run(context.Background(), []string{"upbuild", "--ub-reject=target", "---"})
	require.NoError(t, err)

	assert.Equal(t, [][]string{{"make", "-j8"}, {"upbuild"}}, tr.spawner.argvs())
}

func TestRun_FailureStatus(t *testing.T) {
	tr := newTestRunner(t, "/src", map[string]string{"/src/.upbuild": buildFile})
	tr.spawner.codes = []int{0, 4}

	err := tr.Run(context.Background(), []string{"upbuild"})
	assert.Equal(t, 4, exitStatus(t, err))
	assert.Len(t, tr.spawner.requests, 2)
}

func TestRun_StatusOutOfRange(t *testing.T) {
	tr := newTestRunner(t, "/src", map[string]string{"/src/.upbuild": "tool\n"})
	tr.spawner.codes = []int{300}

	err := tr.Run(context.Background(), []string{"upbuild"})
	assert.Equal(t, 1, exitStatus(t, err))
	assert.Contains(t, tr.stderr.String(), ErrStatusRange.Error()+" 300")
}

func TestRun_NotFound(t *testing.T) {
	tr := newTestRunner(t, "/src", nil)

	err := tr.Run(context.Background(), []string{"upbuild"})
	assert.Equal(t, 1, exitStatus(t, err))
	assert.Contains(t, tr.stderr.String(), locate.ErrNotFound.Error())
	assert.Empty(t, tr.spawner.requests)
}

func TestRun_InvalidFile(t *testing.T) {
	tr := newTestRunner(t, "/src", map[string]string{"/src/.upbuild": "make\n@retmap=x\n"})

	err := tr.Run(context.Background(), []string{"upbuild"})
	assert.Equal(t, 1, exitStatus(t, err))
	assert.Contains(t, tr.stderr.String(), "unable to parse retmap")
	assert.Empty(t, tr.spawner.requests)
}

func TestRun_DiagnosticIsOneLine(t *testing.T) {
	defer goleak.VerifyNone(t)

	tests := []struct {
		name    string
		file    string
		real    bool
		status  int
		message string
	}{
		{
			name:    "missing program",
			file:    "upbuild-test-no-such-program\n",
			real:    true,
			status:  runbatch.ExitSpawnFailure,
			message: runbatch.ErrNotInPath.Error(),
		},
		{
			name:    "unreadable line",
			file:    strings.Repeat("x", 2<<20) + "\n",
			status:  runbatch.ExitFailure,
			message: cmdfile.ErrReadCommandFile.Error(),
		},
		{
			name:    "several problems",
			file:    "make\n@retmap=nope\n&&\n&&\nmake\n",
			status:  runbatch.ExitFailure,
			message: cmdfile.ErrEmptyCommand.Error(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := newTestRunner(t, "/src", map[string]string{"/src/.upbuild": tt.file})
			if tt.real {
				tr.Runner.Spawner = nil
			}

			err := tr.Run(context.Background(), []string{"upbuild"})
			assert.Equal(t, tt.status, exitStatus(t, err))
			assert.Contains(t, tr.stderr.String(), tt.message)
			assert.True(t, strings.HasPrefix(tr.stderr.String(), "upbuild: "))
			assert.Equal(t, 1, strings.Count(tr.stderr.String(), "\n"), tr.stderr.String())
		})
	}
}

func TestRun_GetwdFails(t *testing.T) {
	tr := newTestRunner(t, "/src", nil)
	tr.Getwd = func() (string, error) { return "", errors.New("gone") }

	err := tr.Run(context.Background(), []string{"upbuild"})
	assert.Equal(t, 1, exitStatus(t, err))
	assert.Equal(t, "upbuild: gone\n", tr.stderr.String())
}

func TestRun_NestedInvocation(t *testing.T) {
	tr := newTestRunner(t, "/src/lib", map[string]string{
		"/src/.upbuild":     "make\nall\n",
		"/src/lib/.upbuild": "make\nlib\n&&\nupbuild\n",
	})
	tr.env[locate.SearchAboveEnv] = "/src/lib"

	err := tr.Run(context.Background(), []string{"/opt/bin/upbuild"})
	require.NoError(t, err)

	assert.Equal(t, [][]string{{"make", "all"}}, tr.spawner.argvs())
	assert.Equal(t, "upbuild: Entering directory `/src'\n", tr.stdout.String())
	assert.NotContains(t, tr.spawner.requests[0].Env, locate.SearchAboveEnv+"=/src/lib")
}

func TestRun_Print(t *testing.T) {
	tr := newTestRunner(t, "/src/pkg", map[string]string{"/src/.upbuild": buildFile})

	err := tr.Run(context.Background(), []string{"upbuild", "--ub-print", "two words"})
	require.NoError(t, err)

	assert.Equal(t, "make -j8 'two words'\nmake cross\nupbuild\n", tr.stdout.String())
	assert.Empty(t, tr.spawner.requests)
}

func TestRun_Add(t *testing.T) {
	tr := newTestRunner(t, "/work", nil)

	require.NoError(t, tr.Run(context.Background(), []string{"upbuild", "--ub-add", "make", "-j8"}))
	require.NoError(t, tr.Run(context.Background(), []string{"upbuild", "--ub-add", "make", "install"}))

	content, err := afero.ReadFile(tr.Fs, "/work/.upbuild")
	require.NoError(t, err)
	assert.Equal(t, "make\n-j8\n&&\nmake\ninstall\n", string(content))
	assert.Empty(t, tr.spawner.requests)
}

func TestRun_CompletionListTags(t *testing.T) {
	tr := newTestRunner(t, "/src", map[string]string{"/src/.upbuild": buildFile})

	require.NoError(t, tr.Run(context.Background(), []string{"upbuild", "--ub-completion-list-tags"}))
	assert.Equal(t, "host\nrelease\ntarget\n", tr.stdout.String())
	assert.Empty(t, tr.spawner.requests)
}

func TestRun_CompletionScript(t *testing.T) {
	tr := newTestRunner(t, "/nowhere", nil)

	require.NoError(t, tr.Run(context.Background(), []string{"upbuild", "--ub-completion"}))
	assert.Contains(t, tr.stdout.String(), "OPTS=(--ub-print --ub-add --ub-no-env --ub-plan --ub-select= --ub-reject=)")
}

func TestRun_Plan(t *testing.T) {
	tr := newTestRunner(t, "/src/pkg", map[string]string{"/src/.upbuild": buildFile})

	require.NoError(t, tr.Run(context.Background(), []string{"upbuild", "--ub-plan", "--ub-select=target"}))
	assert.Empty(t, tr.spawner.requests)

	var doc plandump.Document
	require.NoError(t, yaml.Unmarshal(tr.stdout.Bytes(), &doc))

	assert.Equal(t, "/src/.upbuild", doc.File)
	assert.Equal(t, "/src/pkg", doc.Start)
	assert.Equal(t, "keep", doc.Override)
	assert.Equal(t, []string{"target"}, doc.Select)
	assert.Empty(t, doc.Reject)
	require.Len(t, doc.Commands, 1)
	assert.Equal(t, []string{"make", "cross"}, doc.Commands[0].Argv)
}
