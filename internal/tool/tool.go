// Package tool defines the Tool interface, the tool registry, and the
// fantasy football tools exposed to the model.
package tool

import (
	"context"

	"fantasy-advisor/internal/provider"
)

// Tool defines the interface for tools the model can call.
// Each tool has a name, description, parameter schema, and an Execute method.
type Tool interface {
	// Name returns the unique identifier for this tool.
	Name() string

	// Description returns a human-readable description of what the tool does.
	Description() string

	// Parameters returns a JSON Schema object describing the tool's input parameters.
	Parameters() map[string]interface{}

	// Execute runs the tool with the provided arguments and returns the result.
	// Domain failures are reported inside the result, not as an error.
	Execute(ctx context.Context, args map[string]interface{}) (*provider.ToolResult, error)
}

// ToDefinition converts a Tool to a ToolDefinition for use in LLM requests.
func ToDefinition(t Tool) provider.ToolDefinition {
	return provider.ToolDefinition{
		Name:        t.Name(),
		Description: t.Description(),
		Parameters:  t.Parameters(),
	}
}
