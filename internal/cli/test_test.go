package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTestCommand_AllPass(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "one.yaml", validScenarioYAML)
	writeScenario(t, dir, "two.yaml", `name: two
description: Save and restore leave no open checkpoints.
steps:
  - op: save
    name: cp
  - op: restore
    token: cp
assertions:
  - depth: 0
`)

	cmd := NewRootCommand()
	out := captureOutput(cmd)
	cmd.SetArgs([]string{"test", dir})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "2 passed, 0 failed, 2 total")
}

func TestTestCommand_ReportsFailures(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "good.yaml", validScenarioYAML)
	writeScenario(t, dir, "flaky.yaml", `name: flaky
description: Expects success from an out-of-bounds read.
steps:
  - op: alloc_array
    name: a
    size: 1
  - op: get
    object: a
    index: 9
`)

	cmd := NewRootCommand()
	out := captureOutput(cmd)
	cmd.SetArgs([]string{"test", dir})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out.String(), "1 passed, 1 failed, 2 total")
	assert.Contains(t, out.String(), "✗ flaky")
}

func TestTestCommand_JSONSummary(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "one.yaml", validScenarioYAML)

	cmd := NewRootCommand()
	out := captureOutput(cmd)
	cmd.SetArgs([]string{"--format", "json", "test", dir})

	require.NoError(t, cmd.Execute())

	var resp struct {
		Status string      `json:"status"`
		Data   TestSummary `json:"data"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 1, resp.Data.Total)
	assert.Equal(t, 1, resp.Data.Passed)
}

func TestTestCommand_EmptyDirectory(t *testing.T) {
	cmd := NewRootCommand()
	captureOutput(cmd)
	cmd.SetArgs([]string{"test", t.TempDir()})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
