package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lopeshyago/fusionbackapp/pkg/config"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCommand()
	out := &bytes.Buffer{}
	root.SetOut(out)
	root.SetErr(out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestValidateEmbedded(t *testing.T) {
	out, err := runCommand(t, "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "passed")
}

func TestCreateWritesFile(t *testing.T) {
	dir := t.TempDir()
	out, err := runCommand(t, "create", "Add Notes Column", "--dir", dir)
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	if !strings.HasSuffix(entries[0].Name(), "_add_notes_column.sql") {
		t.Fatalf("unexpected migration file %q", entries[0].Name())
	}
	assert.Contains(t, out, filepath.Join(dir, entries[0].Name()))
}

func TestCreateRequiresName(t *testing.T) {
	_, err := runCommand(t, "create")
	require.Error(t, err)
}

func TestUpThenStatus(t *testing.T) {
	t.Setenv(config.EnvDBPath, filepath.Join(t.TempDir(), "fusion.db"))
	t.Setenv(config.EnvJWTSecret, "secret")
	t.Setenv(config.EnvRedisURL, "")

	out, err := runCommand(t, "up")
	require.NoError(t, err)
	assert.Contains(t, out, "applied")

	out, err = runCommand(t, "up")
	require.NoError(t, err)
	assert.Contains(t, out, "schema up to date")

	out, err = runCommand(t, "status")
	require.NoError(t, err)
	assert.NotContains(t, out, "pending")
}
