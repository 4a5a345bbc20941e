package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

const (
	shellTimeout        = 30 * time.Second
	maxShellOutputBytes = 64 * 1024
)

type runShellParams struct {
	Command          string `json:"command" jsonschema:"description=The shell command to execute (passed to /bin/sh -c)."`
	WorkingDirectory string `json:"working_directory,omitempty" jsonschema:"description=Optional working directory for the command. Defaults to the current directory."`
}

// RunShellTool runs a shell command and returns its combined output.
type RunShellTool struct {
	schema json.RawMessage
}

// NewRunShellTool creates the run_shell tool.
func NewRunShellTool() *RunShellTool {
	return &RunShellTool{schema: reflectSchema(&runShellParams{})}
}

func (t *RunShellTool) Name() string { return "run_shell" }

func (t *RunShellTool) Description() string {
	return "Run a shell command and return its stdout and stderr. " +
		"Use for system tasks like listing files, checking disk usage, " +
		"running scripts, git commands, etc. " +
		"Commands time out after 30 seconds."
}

func (t *RunShellTool) InputSchema() json.RawMessage { return t.schema }

func (t *RunShellTool) RequiresConfirmation() bool { return true }

func (t *RunShellTool) Execute(ctx context.Context, input json.RawMessage) (string, error) {
	var p runShellParams
	if err := json.Unmarshal(input, &p); err != nil {
		return "", fmt.Errorf("invalid input: %w", err)
	}
	if p.Command == "" {
		return "", errors.New("command is required")
	}

	runCtx, cancel := context.WithTimeout(ctx, shellTimeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, "sh", "-c", p.Command)
	cmd.Dir = p.WorkingDirectory

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		return "", fmt.Errorf("command timed out after %s", shellTimeout)
	}

	exitCode := 0
	if runErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(runErr, &exitErr) {
			return "", runErr
		}
		exitCode = exitErr.ExitCode()
	}

	var parts []string
	if stdout.Len() > 0 {
		parts = append(parts, stdout.String())
	}
	if stderr.Len() > 0 {
		parts = append(parts, "[stderr]\n"+stderr.String())
	}
	if exitCode != 0 {
		parts = append(parts, fmt.Sprintf("[exit code: %d]", exitCode))
	}

	output := strings.Join(parts, "\n")
	if output == "" {
		output = "(no output)"
	}
	if len(output) > maxShellOutputBytes {
		output = output[:maxShellOutputBytes] + fmt.Sprintf("\n... (truncated at %d bytes)", maxShellOutputBytes)
	}
	return output, nil
}
