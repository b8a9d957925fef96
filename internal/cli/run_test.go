package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureOutput(cmd *cobra.Command) *bytes.Buffer {
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	return &buf
}

func TestRunCommand_Success(t *testing.T) {
	path := writeScenario(t, t.TempDir(), "basic.yaml", validScenarioYAML)

	cmd := NewRootCommand()
	out := captureOutput(cmd)
	cmd.SetArgs([]string{"run", path})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "✓ basic (2 steps)")
	assert.Contains(t, out.String(), "alloc_array")
	assert.Contains(t, out.String(), "array#1")
}

func TestRunCommand_JSONFormat(t *testing.T) {
	path := writeScenario(t, t.TempDir(), "basic.yaml", validScenarioYAML)

	cmd := NewRootCommand()
	out := captureOutput(cmd)
	cmd.SetArgs([]string{"--format", "json", "run", path})

	require.NoError(t, cmd.Execute())

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestRunCommand_FailedAssertion(t *testing.T) {
	path := writeScenario(t, t.TempDir(), "wrong.yaml", `name: wrong
description: Asserts a value that was never written.
steps:
  - op: alloc_array
    name: a
    size: 2
assertions:
  - object: a
    index: 0
    equals: { int: 99 }
`)

	cmd := NewRootCommand()
	captureOutput(cmd)
	cmd.SetArgs([]string{"run", path})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestRunCommand_MissingScenario(t *testing.T) {
	cmd := NewRootCommand()
	captureOutput(cmd)
	cmd.SetArgs([]string{"run", filepath.Join(t.TempDir(), "nope.yaml")})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRunCommand_InvalidScenarioRejectedBeforeExecution(t *testing.T) {
	path := writeScenario(t, t.TempDir(), "bad.yaml", `name: bad
description: Schema violation caught before the runner starts.
steps:
  - op: teleport
`)

	cmd := NewRootCommand()
	captureOutput(cmd)
	cmd.SetArgs([]string{"run", path})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestRunCommand_JournalsSession(t *testing.T) {
	dir := t.TempDir()
	path := writeScenario(t, dir, "basic.yaml", validScenarioYAML)
	db := filepath.Join(dir, "quill.db")

	cmd := NewRootCommand()
	out := captureOutput(cmd)
	cmd.SetArgs([]string{"run", "--db", db, path})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "session: ")
	assert.FileExists(t, db)
}
