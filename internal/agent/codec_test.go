package agent

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soymode/jarvis/internal/domain"
	"github.com/soymode/jarvis/internal/llm"
)

func TestEncodeHistory_PlainTurns(t *testing.T) {
	history := []domain.Message{
		{Role: domain.RoleUser, Content: "hello"},
		{Role: domain.RoleAssistant, Content: "hi there"},
	}

	wire := EncodeHistory(history)
	require.Len(t, wire, 2)

	assert.Equal(t, llm.RoleUser, wire[0].Role)
	require.Len(t, wire[0].Content, 1)
	assert.Equal(t, llm.TextBlock("hello"), wire[0].Content[0])

	assert.Equal(t, llm.RoleAssistant, wire[1].Role)
	assert.Equal(t, llm.TextBlock("hi there"), wire[1].Content[0])
}

func TestEncodeHistory_ToolCallTurn(t *testing.T) {
	input := json.RawMessage(`{"command":"ls /tmp"}`)
	history := []domain.Message{
		{
			Role:    domain.RoleAssistant,
			Content: "Let me check.",
			ToolCalls: []domain.ToolCall{
				{ID: "toolu_01", Name: "run_shell", Input: input},
				{ID: "toolu_02", Name: "read_file", Input: json.RawMessage(`{"path":"/etc/hosts"}`)},
			},
		},
	}

	wire := EncodeHistory(history)
	require.Len(t, wire, 1)
	require.Len(t, wire[0].Content, 3)

	// Text block first, then tool_use blocks in stored order.
	assert.Equal(t, "text", wire[0].Content[0].Type)
	assert.Equal(t, "Let me check.", wire[0].Content[0].Text)

	assert.Equal(t, "tool_use", wire[0].Content[1].Type)
	assert.Equal(t, "toolu_01", wire[0].Content[1].ID)
	assert.Equal(t, "run_shell", wire[0].Content[1].Name)
	assert.Equal(t, input, wire[0].Content[1].Input)

	assert.Equal(t, "toolu_02", wire[0].Content[2].ID)
}

func TestEncodeHistory_ToolCallTurnWithoutText(t *testing.T) {
	history := []domain.Message{
		{
			Role:      domain.RoleAssistant,
			ToolCalls: []domain.ToolCall{{ID: "toolu_01", Name: "run_shell", Input: json.RawMessage(`{}`)}},
		},
	}

	wire := EncodeHistory(history)
	require.Len(t, wire, 1)
	require.Len(t, wire[0].Content, 1)
	assert.Equal(t, "tool_use", wire[0].Content[0].Type)
}

func TestEncodeHistory_ToolResultTurn(t *testing.T) {
	history := []domain.Message{
		{
			Role: domain.RoleUser,
			ToolResults: []domain.ToolResult{
				{CallID: "toolu_01", Output: "file1\nfile2"},
				{CallID: "toolu_02", Output: "Error: file not found", IsError: true},
			},
		},
	}

	wire := EncodeHistory(history)
	require.Len(t, wire, 1)
	assert.Equal(t, llm.RoleUser, wire[0].Role)
	require.Len(t, wire[0].Content, 2)

	assert.Equal(t, "tool_result", wire[0].Content[0].Type)
	assert.Equal(t, "toolu_01", wire[0].Content[0].ToolUseID)
	assert.Equal(t, "file1\nfile2", wire[0].Content[0].Content)
	assert.False(t, wire[0].Content[0].IsError)

	assert.Equal(t, "toolu_02", wire[0].Content[1].ToolUseID)
	assert.True(t, wire[0].Content[1].IsError)
}

func TestEncodeHistory_ResultTurnCarriesNoTextBlock(t *testing.T) {
	// Even an empty stored turn maps to result blocks only.
	history := []domain.Message{
		{
			Role:        domain.RoleUser,
			Content:     "",
			ToolResults: []domain.ToolResult{{CallID: "toolu_01", Output: "ok"}},
		},
	}

	wire := EncodeHistory(history)
	require.Len(t, wire[0].Content, 1)
	assert.Equal(t, "tool_result", wire[0].Content[0].Type)
}

func TestEncodeHistory_Deterministic(t *testing.T) {
	history := []domain.Message{
		{Role: domain.RoleUser, Content: "list files"},
		{
			Role:      domain.RoleAssistant,
			Content:   "Checking.",
			ToolCalls: []domain.ToolCall{{ID: "toolu_01", Name: "run_shell", Input: json.RawMessage(`{"command":"ls"}`)}},
		},
		{
			Role:        domain.RoleUser,
			ToolResults: []domain.ToolResult{{CallID: "toolu_01", Output: "a.txt"}},
		},
		{Role: domain.RoleAssistant, Content: "Here you go: a.txt"},
	}

	first := EncodeHistory(history)
	second := EncodeHistory(history)
	assert.Equal(t, first, second)
}

func TestEncodeHistory_Empty(t *testing.T) {
	assert.Empty(t, EncodeHistory(nil))
}
