// Package agent implements the conversation loop: it rebuilds wire history
// from the store, calls the completion service, executes requested tools
// under the confirmation policy, and folds results back into history until
// the model produces a final answer.
package agent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/soymode/jarvis/internal/domain"
	"github.com/soymode/jarvis/internal/llm"
	"github.com/soymode/jarvis/internal/logging"
	"github.com/soymode/jarvis/internal/tools"
)

// ErrToolRoundsExceeded is returned by Chat when the configured round limit
// is reached while the model is still requesting tools.
var ErrToolRoundsExceeded = errors.New("tool round limit exceeded")

const defaultMaxTokens = 4096

// Config controls the agent loop.
type Config struct {
	Model       string
	MaxTokens   int
	Temperature *float64
	ExtraPrompt string

	// MaxToolRounds bounds how many tool-execution rounds a single Chat
	// call may perform. Zero means unbounded.
	MaxToolRounds int
}

// Agent drives conversations against the completion service.
type Agent struct {
	cfg    Config
	client llm.Client
	store  ConversationStore
	tools  *tools.Registry
	exec   *Executor
	log    *logging.Logger
}

// New creates an agent.
func New(cfg Config, client llm.Client, store ConversationStore, reg *tools.Registry, exec *Executor, log *logging.Logger) *Agent {
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = defaultMaxTokens
	}
	return &Agent{
		cfg:    cfg,
		client: client,
		store:  store,
		tools:  reg,
		exec:   exec,
		log:    log.Sub("agent"),
	}
}

// Chat appends userText to the conversation, runs the model/tool loop, and
// returns the final assistant text.
//
// A completion-service failure propagates to the caller: the user turn (and
// any fully completed tool rounds) stay persisted, but no assistant turn is
// recorded for the failed round. Chat is not transactional across that
// boundary; the next call rebuilds from whatever history was durably
// appended.
func (a *Agent) Chat(ctx context.Context, conversationID, userText string, confirm ConfirmFunc) (string, error) {
	start := time.Now()

	if err := a.store.AddMessage(conversationID, domain.Message{
		Role:    domain.RoleUser,
		Content: userText,
	}); err != nil {
		return "", fmt.Errorf("recording user turn: %w", err)
	}

	system := BuildSystemPrompt(PromptConfig{ExtraPrompt: a.cfg.ExtraPrompt})
	defs := a.tools.Definitions()

	for round := 0; ; round++ {
		history, err := a.store.GetMessages(conversationID)
		if err != nil {
			return "", fmt.Errorf("loading history: %w", err)
		}

		resp, err := a.client.Complete(ctx, llm.CompletionRequest{
			Model:       a.cfg.Model,
			System:      system,
			Messages:    EncodeHistory(history),
			Tools:       defs,
			MaxTokens:   a.cfg.MaxTokens,
			Temperature: a.cfg.Temperature,
		})
		if err != nil {
			return "", fmt.Errorf("completion: %w", err)
		}

		calls := make([]domain.ToolCall, 0, len(resp.ToolCalls))
		for _, tc := range resp.ToolCalls {
			calls = append(calls, domain.ToolCall{ID: tc.ID, Name: tc.Name, Input: tc.Input})
		}

		if err := a.store.AddMessage(conversationID, domain.Message{
			Role:      domain.RoleAssistant,
			Content:   resp.Text,
			ToolCalls: calls,
		}); err != nil {
			return "", fmt.Errorf("recording assistant turn: %w", err)
		}

		// A response that does not request tool use ends the loop. An
		// empty call list ends it too, even when stop_reason says
		// otherwise, so a malformed response cannot spin forever.
		if resp.StopReason != llm.StopToolUse || len(calls) == 0 {
			a.log.Info().
				Str("conversation", conversationID).
				Str("stopReason", resp.StopReason).
				Int("rounds", round).
				Int("inputTokens", resp.Usage.InputTokens).
				Int("outputTokens", resp.Usage.OutputTokens).
				Dur("duration", time.Since(start)).
				Msg("response generated")
			return resp.Text, nil
		}

		a.log.Info().Int("toolCalls", len(calls)).Int("round", round).Msg("executing tool calls")
		results := a.exec.ExecuteBatch(ctx, calls, confirm)

		if err := a.store.AddMessage(conversationID, domain.Message{
			Role:        domain.RoleUser,
			ToolResults: results,
		}); err != nil {
			return "", fmt.Errorf("recording tool results: %w", err)
		}

		// The results turn is persisted before the limit check so every
		// tool-call turn keeps its matching results turn.
		if a.cfg.MaxToolRounds > 0 && round+1 >= a.cfg.MaxToolRounds {
			return "", fmt.Errorf("%w after %d rounds", ErrToolRoundsExceeded, a.cfg.MaxToolRounds)
		}
	}
}
