package discovery

import (
	"context"
	stderrors "errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lambdageek/mcp-server-dunnet/internal/errors"
)

func writeFakeEmacs(t *testing.T, dir string) string {
	t.Helper()

	path := filepath.Join(dir, "emacs")
	script := "#!/bin/sh\necho 'GNU Emacs 29.4'\necho 'Copyright (C) 2024 Free Software Foundation, Inc.'\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))

	return path
}

func notFound(string) (string, error) {
	return "", exec.ErrNotFound
}

func TestDiscoverExplicitPath(t *testing.T) {
	path := writeFakeEmacs(t, t.TempDir())

	got, err := NewDiscoverer(&Config{EmacsPath: path}).Discover(context.Background())

	require.NoError(t, err)
	require.Equal(t, path, got)
}

func TestDiscoverExplicitPathMissing(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "emacs")

	_, err := NewDiscoverer(&Config{EmacsPath: missing, SkipVersionCheck: true}).Discover(context.Background())

	notFoundErr, ok := stderrors.AsType[*errors.ExecutableNotFoundError](err)
	require.True(t, ok)
	require.Equal(t, []string{missing}, notFoundErr.SearchedPaths)
}

func TestDiscoverExplicitPathNotExecutable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "emacs")
	require.NoError(t, os.WriteFile(path, []byte("not a program"), 0o644))

	_, err := NewDiscoverer(&Config{EmacsPath: path, SkipVersionCheck: true}).Discover(context.Background())

	require.Error(t, err)
}

func TestDiscoverFromEnvironment(t *testing.T) {
	path := writeFakeEmacs(t, t.TempDir())
	t.Setenv(EnvEmacsPath, path)

	got, err := NewDiscoverer(&Config{SkipVersionCheck: true, lookPath: notFound}).Discover(context.Background())

	require.NoError(t, err)
	require.Equal(t, path, got)
}

func TestDiscoverFromPath(t *testing.T) {
	t.Setenv(EnvEmacsPath, "")

	cfg := &Config{
		SkipVersionCheck: true,
		lookPath: func(name string) (string, error) {
			require.Equal(t, "emacs", name)

			return "/somewhere/bin/emacs", nil
		},
	}

	got, err := NewDiscoverer(cfg).Discover(context.Background())

	require.NoError(t, err)
	require.Equal(t, "/somewhere/bin/emacs", got)
}

func TestDiscoverFromCommonPaths(t *testing.T) {
	t.Setenv(EnvEmacsPath, "")

	dir := t.TempDir()
	path := writeFakeEmacs(t, dir)

	cfg := &Config{
		SkipVersionCheck: true,
		lookPath:         notFound,
		commonPaths:      []string{filepath.Join(dir, "missing"), path},
	}

	got, err := NewDiscoverer(cfg).Discover(context.Background())

	require.NoError(t, err)
	require.Equal(t, path, got)
}

func TestDiscoverNotFoundListsSearchedPaths(t *testing.T) {
	t.Setenv(EnvEmacsPath, "")

	missing := filepath.Join(t.TempDir(), "emacs")
	cfg := &Config{
		SkipVersionCheck: true,
		lookPath:         notFound,
		commonPaths:      []string{missing},
	}

	_, err := NewDiscoverer(cfg).Discover(context.Background())

	notFoundErr, ok := stderrors.AsType[*errors.ExecutableNotFoundError](err)
	require.True(t, ok)
	require.Equal(t, []string{"$PATH", missing}, notFoundErr.SearchedPaths)
}

func TestProbeVersion(t *testing.T) {
	path := writeFakeEmacs(t, t.TempDir())

	version, ok := probeVersion(context.Background(), path)

	require.True(t, ok)
	require.Equal(t, "29.4", version)
}

func TestParseVersion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		output string
		want   string
		ok     bool
	}{
		{name: "release", output: "GNU Emacs 29.1\nCopyright", want: "29.1", ok: true},
		{name: "three part", output: "GNU Emacs 28.2.50\n", want: "28.2.50", ok: true},
		{name: "garbage", output: "zsh: command not found", ok: false},
		{name: "empty", output: "", ok: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, ok := ParseVersion(tc.output)
			require.Equal(t, tc.ok, ok)
			require.Equal(t, tc.want, got)
		})
	}
}
