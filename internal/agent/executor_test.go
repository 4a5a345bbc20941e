package agent

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soymode/jarvis/internal/domain"
	"github.com/soymode/jarvis/internal/logging"
	"github.com/soymode/jarvis/internal/tools"
)

// spyTool is a scriptable tool that counts Execute calls.
type spyTool struct {
	name     string
	gated    bool
	output   string
	err      error
	panics   bool
	executed int
}

func (s *spyTool) Name() string                 { return s.name }
func (s *spyTool) Description() string          { return "test tool" }
func (s *spyTool) InputSchema() json.RawMessage { return json.RawMessage(`{"type":"object"}`) }
func (s *spyTool) RequiresConfirmation() bool   { return s.gated }

func (s *spyTool) Execute(_ context.Context, _ json.RawMessage) (string, error) {
	s.executed++
	if s.panics {
		panic("boom")
	}
	return s.output, s.err
}

func testExecutor(t *testing.T, unattended bool, ts ...tools.Tool) *Executor {
	t.Helper()
	return NewExecutor(tools.NewRegistry(ts...), unattended, logging.New(io.Discard, "silent"))
}

func allowAll(domain.ToolCall) bool { return true }
func denyAll(domain.ToolCall) bool  { return false }

func TestExecuteBatch_OneResultPerCallInOrder(t *testing.T) {
	a := &spyTool{name: "alpha", output: "A"}
	b := &spyTool{name: "beta", output: "B"}
	exec := testExecutor(t, false, a, b)

	calls := []domain.ToolCall{
		{ID: "c1", Name: "beta", Input: json.RawMessage(`{}`)},
		{ID: "c2", Name: "alpha", Input: json.RawMessage(`{}`)},
		{ID: "c3", Name: "beta", Input: json.RawMessage(`{}`)},
	}

	results := exec.ExecuteBatch(context.Background(), calls, allowAll)
	require.Len(t, results, 3)

	assert.Equal(t, "c1", results[0].CallID)
	assert.Equal(t, "B", results[0].Output)
	assert.Equal(t, "c2", results[1].CallID)
	assert.Equal(t, "A", results[1].Output)
	assert.Equal(t, "c3", results[2].CallID)
	for _, r := range results {
		assert.False(t, r.IsError)
	}
}

func TestExecuteBatch_UnknownTool(t *testing.T) {
	confirmed := 0
	spy := func(domain.ToolCall) bool { confirmed++; return true }
	exec := testExecutor(t, false)

	results := exec.ExecuteBatch(context.Background(), []domain.ToolCall{
		{ID: "c1", Name: "no_such_tool", Input: json.RawMessage(`{}`)},
	}, spy)

	require.Len(t, results, 1)
	assert.True(t, results[0].IsError)
	assert.Contains(t, results[0].Output, `unknown tool "no_such_tool"`)
	assert.Zero(t, confirmed, "unknown tools must not reach the confirmation policy")
}

func TestExecuteBatch_Denial(t *testing.T) {
	tool := &spyTool{name: "gated", gated: true, output: "should not run"}
	exec := testExecutor(t, false, tool)

	results := exec.ExecuteBatch(context.Background(), []domain.ToolCall{
		{ID: "c1", Name: "gated", Input: json.RawMessage(`{}`)},
	}, denyAll)

	require.Len(t, results, 1)
	assert.Equal(t, "Action was denied by user.", results[0].Output)
	assert.True(t, results[0].IsError)
	assert.Zero(t, tool.executed, "denied tool must not execute")
}

func TestExecuteBatch_UngatedSkipsConfirmation(t *testing.T) {
	tool := &spyTool{name: "free", output: "ran"}
	exec := testExecutor(t, false, tool)

	// denyAll would refuse if asked; an ungated tool is never asked.
	results := exec.ExecuteBatch(context.Background(), []domain.ToolCall{
		{ID: "c1", Name: "free", Input: json.RawMessage(`{}`)},
	}, denyAll)

	require.Len(t, results, 1)
	assert.Equal(t, "ran", results[0].Output)
	assert.Equal(t, 1, tool.executed)
}

func TestExecuteBatch_NilConfirmAttended(t *testing.T) {
	tool := &spyTool{name: "gated", gated: true}
	exec := testExecutor(t, false, tool)

	results := exec.ExecuteBatch(context.Background(), []domain.ToolCall{
		{ID: "c1", Name: "gated", Input: json.RawMessage(`{}`)},
	}, nil)

	require.Len(t, results, 1)
	assert.True(t, results[0].IsError)
	assert.Contains(t, results[0].Output, "requires confirmation")
	assert.Zero(t, tool.executed)
}

func TestExecuteBatch_NilConfirmUnattended(t *testing.T) {
	tool := &spyTool{name: "gated", gated: true, output: "done"}
	exec := testExecutor(t, true, tool)

	results := exec.ExecuteBatch(context.Background(), []domain.ToolCall{
		{ID: "c1", Name: "gated", Input: json.RawMessage(`{}`)},
	}, nil)

	require.Len(t, results, 1)
	assert.Equal(t, "done", results[0].Output)
	assert.False(t, results[0].IsError)
}

func TestExecuteBatch_ExecutionFault(t *testing.T) {
	tool := &spyTool{name: "flaky", err: errors.New("disk on fire")}
	exec := testExecutor(t, false, tool)

	results := exec.ExecuteBatch(context.Background(), []domain.ToolCall{
		{ID: "c1", Name: "flaky", Input: json.RawMessage(`{}`)},
	}, allowAll)

	require.Len(t, results, 1)
	assert.True(t, results[0].IsError)
	assert.Equal(t, "Error executing flaky: disk on fire", results[0].Output)
}

func TestExecuteBatch_PanicRecovered(t *testing.T) {
	tool := &spyTool{name: "bomb", panics: true}
	exec := testExecutor(t, false, tool)

	results := exec.ExecuteBatch(context.Background(), []domain.ToolCall{
		{ID: "c1", Name: "bomb", Input: json.RawMessage(`{}`)},
		{ID: "c2", Name: "bomb", Input: json.RawMessage(`{}`)},
	}, allowAll)

	require.Len(t, results, 2)
	assert.True(t, results[0].IsError)
	assert.Contains(t, results[0].Output, "panic: boom")
	assert.True(t, results[1].IsError, "a panicking call must not abort its siblings")
}

func TestExecuteBatch_FaultDoesNotAbortBatch(t *testing.T) {
	bad := &spyTool{name: "bad", err: errors.New("nope")}
	good := &spyTool{name: "good", output: "fine"}
	exec := testExecutor(t, false, bad, good)

	results := exec.ExecuteBatch(context.Background(), []domain.ToolCall{
		{ID: "c1", Name: "bad", Input: json.RawMessage(`{}`)},
		{ID: "c2", Name: "good", Input: json.RawMessage(`{}`)},
	}, allowAll)

	require.Len(t, results, 2)
	assert.True(t, results[0].IsError)
	assert.False(t, results[1].IsError)
	assert.Equal(t, "fine", results[1].Output)
}

func TestExecuteBatch_Empty(t *testing.T) {
	exec := testExecutor(t, false)
	assert.Empty(t, exec.ExecuteBatch(context.Background(), nil, allowAll))
}
