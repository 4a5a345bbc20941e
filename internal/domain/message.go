// Package domain holds the conversation data model shared by the store, the
// agent loop, and the CLI.
package domain

import (
	"encoding/json"
	"time"
)

// Role constants for conversation turns.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// MessageKind classifies a turn's payload shape.
type MessageKind int

const (
	// KindText is an ordinary user or assistant turn carrying plain text.
	KindText MessageKind = iota
	// KindToolCalls is an assistant turn carrying tool invocations
	// (plus optional accompanying text).
	KindToolCalls
	// KindToolResults is a user-role turn carrying tool results and no
	// free text.
	KindToolResults
)

// Message is a single turn in a conversation's ordered history.
type Message struct {
	Role        string       `json:"role"`
	Content     string       `json:"content"`
	ToolCalls   []ToolCall   `json:"toolCalls,omitempty"`
	ToolResults []ToolResult `json:"toolResults,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
}

// Kind returns the payload shape of the message. A turn carries at most one
// of tool calls or tool results; results win if both are somehow set so the
// codec never drops a result block.
func (m Message) Kind() MessageKind {
	switch {
	case len(m.ToolResults) > 0:
		return KindToolResults
	case len(m.ToolCalls) > 0:
		return KindToolCalls
	default:
		return KindText
	}
}

// ToolCall is a model-issued request to run a named tool. The ID is generated
// by the completion service and must be echoed back unchanged in the matching
// result.
type ToolCall struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Input json.RawMessage `json:"input"`
}

// ToolResult is the outcome of executing one ToolCall, matched by CallID.
type ToolResult struct {
	CallID  string `json:"callId"`
	Output  string `json:"output"`
	IsError bool   `json:"isError,omitempty"`
}
