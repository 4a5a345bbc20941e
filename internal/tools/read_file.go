package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// maxReadFileBytes caps how much file content can be handed to the model.
const maxReadFileBytes = 256 * 1024

type readFileParams struct {
	Path string `json:"path" jsonschema:"description=Absolute or relative path to the file to read."`
}

// ReadFileTool reads a local text file and returns its contents.
type ReadFileTool struct {
	schema json.RawMessage
}

// NewReadFileTool creates the read_file tool.
func NewReadFileTool() *ReadFileTool {
	return &ReadFileTool{schema: reflectSchema(&readFileParams{})}
}

func (t *ReadFileTool) Name() string { return "read_file" }

func (t *ReadFileTool) Description() string {
	return "Read the contents of a local file. Returns the text content."
}

func (t *ReadFileTool) InputSchema() json.RawMessage { return t.schema }

func (t *ReadFileTool) RequiresConfirmation() bool { return true }

func (t *ReadFileTool) Execute(ctx context.Context, input json.RawMessage) (string, error) {
	var p readFileParams
	if err := json.Unmarshal(input, &p); err != nil {
		return "", fmt.Errorf("invalid input: %w", err)
	}
	if p.Path == "" {
		return "", errors.New("path is required")
	}

	path, err := filepath.Abs(expandHome(p.Path))
	if err != nil {
		return "", err
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("file not found: %s", path)
		}
		return "", err
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("not a regular file: %s", path)
	}
	if info.Size() > maxReadFileBytes {
		return "", fmt.Errorf("file too large (%d bytes, limit %d)", info.Size(), maxReadFileBytes)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("file is not valid UTF-8: %s", path)
	}
	return string(data), nil
}

// expandHome resolves a leading ~ to the user's home directory.
func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
		}
	}
	return path
}
