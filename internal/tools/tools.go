// Package tools provides the agent's executable capabilities and their
// registry. The registry is populated once at startup from an explicit list
// and is read-only afterwards; there is no runtime discovery.
package tools

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/invopop/jsonschema"

	"github.com/soymode/jarvis/internal/llm"
)

// Tool is a capability the agent can invoke during a conversation.
type Tool interface {
	// Name returns the tool's unique identifier.
	Name() string

	// Description returns a one-line description shown to the model.
	Description() string

	// InputSchema returns the JSON Schema for the tool's input parameters.
	InputSchema() json.RawMessage

	// RequiresConfirmation reports whether a human must approve each
	// invocation before it runs.
	RequiresConfirmation() bool

	// Execute runs the tool with the given JSON input object and returns a
	// text result.
	Execute(ctx context.Context, input json.RawMessage) (string, error)
}

// Registry maps tool names to capabilities.
type Registry struct {
	tools map[string]Tool
}

// NewRegistry creates a registry holding the given tools.
func NewRegistry(ts ...Tool) *Registry {
	r := &Registry{tools: make(map[string]Tool, len(ts))}
	for _, t := range ts {
		r.Register(t)
	}
	return r
}

// Default returns a registry with every built-in tool registered.
func Default() *Registry {
	return NewRegistry(
		NewReadFileTool(),
		NewRunShellTool(),
	)
}

// Register adds a tool. A later registration with the same name wins.
func (r *Registry) Register(t Tool) {
	r.tools[t.Name()] = t
}

// Get returns a tool by name.
func (r *Registry) Get(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// All returns every registered tool, sorted by name.
func (r *Registry) All() []Tool {
	ts := make([]Tool, 0, len(r.tools))
	for _, t := range r.tools {
		ts = append(ts, t)
	}
	sort.Slice(ts, func(i, j int) bool { return ts[i].Name() < ts[j].Name() })
	return ts
}

// Definitions returns wire-ready tool definitions for all registered tools,
// sorted by name so the request body is stable across runs.
func (r *Registry) Definitions() []llm.ToolDefinition {
	all := r.All()
	defs := make([]llm.ToolDefinition, 0, len(all))
	for _, t := range all {
		defs = append(defs, llm.ToolDefinition{
			Name:        t.Name(),
			Description: t.Description(),
			InputSchema: t.InputSchema(),
		})
	}
	return defs
}

// reflectSchema builds a JSON Schema for a tool's parameter struct. Parameter
// structs are static, so a reflection failure is a programming error.
func reflectSchema(v any) json.RawMessage {
	r := &jsonschema.Reflector{
		DoNotReference:            true,
		ExpandedStruct:            true,
		AllowAdditionalProperties: true,
	}
	s := r.Reflect(v)
	s.Version = ""
	data, err := json.Marshal(s)
	if err != nil {
		panic(err)
	}
	return data
}
