package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execRoot(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	// nil args make cobra fall back to os.Args
	cmd.SetArgs(append([]string{}, args...))
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)

	err := cmd.Execute()
	return out.String(), err
}

func TestRoot_MissingFilename(t *testing.T) {
	_, err := execRoot(t, "")
	require.ErrorIs(t, err, errNoFilename)
	assert.Equal(t, "must supply a database filename", err.Error())
}

func TestRoot_TooManyArgs(t *testing.T) {
	_, err := execRoot(t, "", "a.db", "b.db")
	require.Error(t, err)
}

func TestRoot_RunsScriptAndPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.db")

	out, err := execRoot(t, "insert 1 wen zhao@wen.com\n.exit\n", path)
	require.NoError(t, err)
	assert.Equal(t, "db > Executed.\ndb > ", out)

	out, err = execRoot(t, "select\n", path)
	require.NoError(t, err)
	assert.Equal(t, "db > 1 wen zhao@wen.com\nExecuted.\ndb > ", out)
}

func TestRoot_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "pagedb.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("repl:\n  prompt: \"sql> \"\n"), 0o644))

	out, err := execRoot(t, "select\n", filepath.Join(dir, "users.db"), "--config", cfgPath)
	require.NoError(t, err)
	assert.Equal(t, "sql> Executed.\nsql> ", out)
}

func TestRoot_BadLogLevel(t *testing.T) {
	_, err := execRoot(t, "", filepath.Join(t.TempDir(), "users.db"), "--log-level", "loud")
	require.Error(t, err)
}
