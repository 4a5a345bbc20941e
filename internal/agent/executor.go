package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/soymode/jarvis/internal/domain"
	"github.com/soymode/jarvis/internal/logging"
	"github.com/soymode/jarvis/internal/tools"
)

// ConfirmFunc decides whether a proposed tool invocation may run. It is
// invoked synchronously, once per confirmation-gated call.
type ConfirmFunc func(call domain.ToolCall) bool

// Executor resolves tool invocations against the registry, applies the
// confirmation policy, and normalizes every outcome into a ToolResult.
type Executor struct {
	tools      *tools.Registry
	unattended bool
	log        *logging.Logger
}

// NewExecutor creates an executor. When unattended is true, a
// confirmation-gated tool may run without a ConfirmFunc; otherwise such a
// call produces an error result instead of executing.
func NewExecutor(reg *tools.Registry, unattended bool, log *logging.Logger) *Executor {
	return &Executor{tools: reg, unattended: unattended, log: log.Sub("executor")}
}

// ExecuteBatch handles each invocation independently and returns exactly one
// result per call, in input order. Faults, denials, and unknown tools become
// error results; nothing escapes this boundary, and one call's failure never
// aborts its siblings.
func (e *Executor) ExecuteBatch(ctx context.Context, calls []domain.ToolCall, confirm ConfirmFunc) []domain.ToolResult {
	results := make([]domain.ToolResult, 0, len(calls))
	for _, call := range calls {
		results = append(results, e.execute(ctx, call, confirm))
	}
	return results
}

func (e *Executor) execute(ctx context.Context, call domain.ToolCall, confirm ConfirmFunc) domain.ToolResult {
	tool, ok := e.tools.Get(call.Name)
	if !ok {
		return domain.ToolResult{
			CallID:  call.ID,
			Output:  fmt.Sprintf("Error: unknown tool %q", call.Name),
			IsError: true,
		}
	}

	if tool.RequiresConfirmation() {
		switch {
		case confirm != nil:
			if !confirm(call) {
				e.log.Info().Str("tool", call.Name).Str("callId", call.ID).Msg("action denied by user")
				return domain.ToolResult{
					CallID:  call.ID,
					Output:  "Action was denied by user.",
					IsError: true,
				}
			}
		case !e.unattended:
			return domain.ToolResult{
				CallID:  call.ID,
				Output:  fmt.Sprintf("Error: %s requires confirmation but no confirmation policy is available", call.Name),
				IsError: true,
			}
		}
	}

	e.log.Debug().Str("tool", call.Name).Str("callId", call.ID).Msg("executing tool")
	output, err := runTool(ctx, tool, call.Input)
	if err != nil {
		e.log.Warn().Str("tool", call.Name).Err(err).Msg("tool execution failed")
		return domain.ToolResult{
			CallID:  call.ID,
			Output:  fmt.Sprintf("Error executing %s: %s", call.Name, err),
			IsError: true,
		}
	}

	return domain.ToolResult{CallID: call.ID, Output: output}
}

// runTool invokes the capability, converting panics into errors so one bad
// tool cannot take down the conversation.
func runTool(ctx context.Context, tool tools.Tool, input json.RawMessage) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return tool.Execute(ctx, input)
}
