// Package llm defines the completion-service client interface and the wire
// types the service expects: ordered messages whose content is a sequence of
// text, tool_use, and tool_result blocks.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Role constants for wire messages.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Stop reasons reported by the completion service. StopToolUse is the
// authoritative signal that the model is requesting tool execution.
const (
	StopEndTurn   = "end_turn"
	StopToolUse   = "tool_use"
	StopMaxTokens = "max_tokens"
)

// ContentBlock is one element of a wire message: plain text, a tool
// invocation, or a tool result. Exactly one shape is populated per block,
// selected by Type.
type ContentBlock struct {
	Type string `json:"type"` // "text" | "tool_use" | "tool_result"

	// text
	Text string `json:"text,omitempty"`

	// tool_use
	ID    string          `json:"id,omitempty"`
	Name  string          `json:"name,omitempty"`
	Input json.RawMessage `json:"input,omitempty"`

	// tool_result
	ToolUseID string `json:"tool_use_id,omitempty"`
	Content   string `json:"content,omitempty"`
	IsError   bool   `json:"is_error,omitempty"`
}

// TextBlock builds a plain text content block.
func TextBlock(text string) ContentBlock {
	return ContentBlock{Type: "text", Text: text}
}

// ToolUseBlock builds a tool invocation block. The input is the raw JSON
// object the service produced, echoed back unchanged.
func ToolUseBlock(id, name string, input json.RawMessage) ContentBlock {
	return ContentBlock{Type: "tool_use", ID: id, Name: name, Input: input}
}

// ToolResultBlock builds a tool result block answering the given call id.
func ToolResultBlock(callID, output string, isError bool) ContentBlock {
	return ContentBlock{Type: "tool_result", ToolUseID: callID, Content: output, IsError: isError}
}

// Message is a single wire-format turn.
type Message struct {
	Role    string         `json:"role"`
	Content []ContentBlock `json:"content"`
}

// ToolDefinition describes a tool the model can invoke. InputSchema is a
// pre-marshaled JSON Schema object.
type ToolDefinition struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"input_schema"`
}

// CompletionRequest is the input to a Complete call.
type CompletionRequest struct {
	Model       string
	System      string
	Messages    []Message
	Tools       []ToolDefinition
	MaxTokens   int
	Temperature *float64
}

// ToolCall is a model request to invoke a tool.
type ToolCall struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Input json.RawMessage `json:"input"`
}

// Usage tracks token consumption.
type Usage struct {
	InputTokens  int `json:"inputTokens"`
	OutputTokens int `json:"outputTokens"`
}

// CompletionResponse is the result of a completion. Text carries the
// response's text segments joined with newlines, in the order the service
// returned them; ToolCalls preserves the service's ordering likewise.
type CompletionResponse struct {
	Text       string        `json:"text"`
	ToolCalls  []ToolCall    `json:"toolCalls,omitempty"`
	StopReason string        `json:"stopReason,omitempty"`
	Model      string        `json:"model,omitempty"`
	Usage      Usage         `json:"usage"`
	Duration   time.Duration `json:"duration,omitempty"`
}

// Client is the interface the agent loop calls.
type Client interface {
	// Complete sends a request and returns the full response.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)

	// Name returns the provider name (e.g., "anthropic").
	Name() string
}

// ProviderError is a non-success reply from the completion service.
type ProviderError struct {
	Provider string
	Code     int
	Message  string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s API error (%d): %s", e.Provider, e.Code, e.Message)
}
