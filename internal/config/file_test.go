package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lambdageek/mcp-server-dunnet/internal/errors"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadExplicitFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "dunnet.yaml", `
emacs_path: /usr/local/bin/emacs
args: ["-Q", "-batch", "-l", "dunnet"]
env:
  LANG: C.UTF-8
queue_size: 10
log_level: debug
log_format: json
`)

	f, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "/usr/local/bin/emacs", f.EmacsPath)
	require.Equal(t, []string{"-Q", "-batch", "-l", "dunnet"}, f.Args)
	require.Equal(t, map[string]string{"LANG": "C.UTF-8"}, f.Env)
	require.Equal(t, 10, f.QueueSize)
	require.Equal(t, "debug", f.LogLevel)
	require.Equal(t, "json", f.LogFormat)
}

func TestLoadExplicitMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))

	var cfgErr *errors.ConfigError

	require.ErrorAs(t, err, &cfgErr)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bad.yaml", "args: [unterminated\n")

	_, err := Load(path)

	var cfgErr *errors.ConfigError

	require.ErrorAs(t, err, &cfgErr)
	require.Equal(t, path, cfgErr.Path)
}

func TestLoadLayeredLaterWins(t *testing.T) {
	dir := t.TempDir()
	user := writeFile(t, dir, "user.yaml", `
emacs_path: /usr/bin/emacs
queue_size: 50
env:
  A: "1"
  B: "1"
`)
	project := writeFile(t, dir, "project.yaml", `
emacs_path: /opt/emacs
env:
  B: "2"
`)

	f, err := loadLayered(user, filepath.Join(dir, "missing.yaml"), project)
	require.NoError(t, err)
	require.Equal(t, "/opt/emacs", f.EmacsPath)
	require.Equal(t, 50, f.QueueSize)
	require.Equal(t, map[string]string{"A": "1", "B": "2"}, f.Env)
}

func TestFileApply(t *testing.T) {
	o := &Options{
		EmacsPath: "/from/flags",
		Cwd:       "/work",
		Env:       map[string]string{"A": "flag"},
	}
	f := &File{
		EmacsPath: "/from/file",
		Args:      []string{"-batch"},
		Env:       map[string]string{"B": "file"},
		QueueSize: 7,
	}

	f.Apply(o)

	require.Equal(t, "/from/file", o.EmacsPath)
	require.Equal(t, "/work", o.Cwd)
	require.Equal(t, []string{"-batch"}, o.Args)
	require.Equal(t, map[string]string{"A": "flag", "B": "file"}, o.Env)
	require.Equal(t, 7, o.QueueSize)
}
