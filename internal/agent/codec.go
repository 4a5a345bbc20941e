package agent

import (
	"github.com/soymode/jarvis/internal/domain"
	"github.com/soymode/jarvis/internal/llm"
)

// EncodeHistory converts stored turns into the wire-format sequence the
// completion service expects. It is a pure function of its input — no I/O, no
// state — so the loop can rebuild wire history from scratch every round
// instead of patching it incrementally.
func EncodeHistory(history []domain.Message) []llm.Message {
	wire := make([]llm.Message, 0, len(history))
	for _, msg := range history {
		switch msg.Kind() {
		case domain.KindToolResults:
			// One tool_result block per result, no text block even when
			// the stored turn is empty.
			blocks := make([]llm.ContentBlock, 0, len(msg.ToolResults))
			for _, tr := range msg.ToolResults {
				blocks = append(blocks, llm.ToolResultBlock(tr.CallID, tr.Output, tr.IsError))
			}
			wire = append(wire, llm.Message{Role: llm.RoleUser, Content: blocks})

		case domain.KindToolCalls:
			blocks := make([]llm.ContentBlock, 0, len(msg.ToolCalls)+1)
			if msg.Content != "" {
				blocks = append(blocks, llm.TextBlock(msg.Content))
			}
			for _, tc := range msg.ToolCalls {
				blocks = append(blocks, llm.ToolUseBlock(tc.ID, tc.Name, tc.Input))
			}
			wire = append(wire, llm.Message{Role: llm.RoleAssistant, Content: blocks})

		case domain.KindText:
			wire = append(wire, llm.Message{
				Role:    msg.Role,
				Content: []llm.ContentBlock{llm.TextBlock(msg.Content)},
			})
		}
	}
	return wire
}
