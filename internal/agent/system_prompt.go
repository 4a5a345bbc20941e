package agent

import (
	"fmt"
	"strings"
	"time"
)

const personaPrompt = `You are Jarvis, a personal AI assistant. You are helpful, direct, and efficient.

Guidelines:
- Be concise. Don't pad responses with filler.
- When you need to take an action (read a file, run a command, etc.), use the available tools rather than asking the user to do it.
- Always explain what you're about to do before doing it.
- If a tool call could have side effects, propose the action and wait for confirmation.`

// PromptConfig controls system prompt generation.
type PromptConfig struct {
	ExtraPrompt string
	Now         time.Time // zero means time.Now
}

// BuildSystemPrompt constructs the fixed system prompt for the model.
func BuildSystemPrompt(cfg PromptConfig) string {
	now := cfg.Now
	if now.IsZero() {
		now = time.Now()
	}

	var b strings.Builder
	b.WriteString(personaPrompt)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Current date: %s\n", now.Format("2006-01-02"))

	if cfg.ExtraPrompt != "" {
		b.WriteString("\n")
		b.WriteString(cfg.ExtraPrompt)
		b.WriteString("\n")
	}
	return b.String()
}
