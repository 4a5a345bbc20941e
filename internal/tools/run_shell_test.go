package tools

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runShellInput(t *testing.T, params map[string]string) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(params)
	require.NoError(t, err)
	return data
}

func TestRunShell_Stdout(t *testing.T) {
	out, err := NewRunShellTool().Execute(context.Background(),
		runShellInput(t, map[string]string{"command": "echo hello"}))
	require.NoError(t, err)
	assert.Equal(t, "hello\n", out)
}

func TestRunShell_StderrSection(t *testing.T) {
	out, err := NewRunShellTool().Execute(context.Background(),
		runShellInput(t, map[string]string{"command": "echo oops 1>&2"}))
	require.NoError(t, err)
	assert.Contains(t, out, "[stderr]\noops\n")
}

func TestRunShell_ExitCodeSection(t *testing.T) {
	out, err := NewRunShellTool().Execute(context.Background(),
		runShellInput(t, map[string]string{"command": "exit 3"}))
	require.NoError(t, err)
	assert.Contains(t, out, "[exit code: 3]")
}

func TestRunShell_NoOutput(t *testing.T) {
	out, err := NewRunShellTool().Execute(context.Background(),
		runShellInput(t, map[string]string{"command": "true"}))
	require.NoError(t, err)
	assert.Equal(t, "(no output)", out)
}

func TestRunShell_WorkingDirectory(t *testing.T) {
	dir := t.TempDir()

	out, err := NewRunShellTool().Execute(context.Background(),
		runShellInput(t, map[string]string{"command": "pwd", "working_directory": dir}))
	require.NoError(t, err)
	assert.Contains(t, out, dir)
}

func TestRunShell_MissingCommand(t *testing.T) {
	_, err := NewRunShellTool().Execute(context.Background(), json.RawMessage(`{}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "command is required")
}

func TestRunShell_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRunShellTool().Execute(ctx,
		runShellInput(t, map[string]string{"command": "sleep 5"}))
	assert.Error(t, err)
}

func TestRunShell_RequiresConfirmation(t *testing.T) {
	assert.True(t, NewRunShellTool().RequiresConfirmation())
}
