// Package tools defines the capabilities advertised to the completion
// service and the registry that dispatches their invocations.
package tools

import (
	"context"
	"fmt"

	"github.com/studyhall-labs/studyhall-cli/internal/core/domain"
	"github.com/studyhall-labs/studyhall-cli/internal/core/ports/driven"
)

// Tool is a callable capability the model may invoke by name.
type Tool interface {
	// Definition returns the machine-readable capability schema.
	Definition() driven.ToolDefinition

	// Execute runs the tool with the model-provided arguments and
	// returns its textual result. Malformed arguments return an error,
	// which aborts the query.
	Execute(ctx context.Context, input map[string]any) (string, error)
}

// SourceRecorder is implemented by tools that track the citations of
// their last execution in a transient slot, read and cleared by the
// orchestrator after the tool round.
type SourceRecorder interface {
	// LastSources returns the citations recorded by the last execution.
	LastSources() []domain.Source

	// ResetSources clears the recorded citations.
	ResetSources()
}

// Registry maps tool names to tools. Lookup is explicit: executing an
// unregistered name fails with domain.ErrUnknownTool rather than
// guessing intent.
type Registry struct {
	order []string
	tools map[string]Tool
}

// NewRegistry creates an empty tool registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// Register adds a tool. Duplicate names are rejected.
func (r *Registry) Register(tool Tool) error {
	name := tool.Definition().Name
	if name == "" {
		return fmt.Errorf("register tool: %w: empty name", domain.ErrInvalidInput)
	}
	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("register tool %q: already registered", name)
	}
	r.tools[name] = tool
	r.order = append(r.order, name)
	return nil
}

// Definitions returns all tool schemas in registration order.
func (r *Registry) Definitions() []driven.ToolDefinition {
	defs := make([]driven.ToolDefinition, 0, len(r.order))
	for _, name := range r.order {
		defs = append(defs, r.tools[name].Definition())
	}
	return defs
}

// Execute dispatches an invocation to the named tool.
func (r *Registry) Execute(ctx context.Context, name string, input map[string]any) (string, error) {
	tool, ok := r.tools[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", domain.ErrUnknownTool, name)
	}
	return tool.Execute(ctx, input)
}

// LastSources returns the citations recorded by the most recent tool
// execution, from the first tool that holds any.
func (r *Registry) LastSources() []domain.Source {
	for _, name := range r.order {
		if recorder, ok := r.tools[name].(SourceRecorder); ok {
			if sources := recorder.LastSources(); len(sources) > 0 {
				return sources
			}
		}
	}
	return nil
}

// ResetSources clears recorded citations on every tool.
func (r *Registry) ResetSources() {
	for _, name := range r.order {
		if recorder, ok := r.tools[name].(SourceRecorder); ok {
			recorder.ResetSources()
		}
	}
}
