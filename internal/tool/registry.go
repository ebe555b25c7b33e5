package tool

import (
	"fmt"
	"sync"

	"fantasy-advisor/internal/provider"
)

// DuplicateToolError is returned when a tool name is registered twice.
type DuplicateToolError struct {
	Name string
}

func (e *DuplicateToolError) Error() string {
	return fmt.Sprintf("tool %q is already registered", e.Name)
}

// Registry holds the tools available to one agent run. Registration
// order is preserved so the schema presented to the model is stable
// across runs.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
	order []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// Register adds a tool. Registering a name twice is a configuration
// bug and returns a DuplicateToolError.
func (r *Registry) Register(t Tool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := t.Name()
	if _, exists := r.tools[name]; exists {
		return &DuplicateToolError{Name: name}
	}
	r.tools[name] = t
	r.order = append(r.order, name)
	return nil
}

// Get returns the named tool, or false when it is not registered.
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tools[name]
	return t, ok
}

// Names returns the registered tool names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.order)
}

// Definitions returns the tool schema in registration order, ready to
// attach to an LLM request.
func (r *Registry) Definitions() []provider.ToolDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	defs := make([]provider.ToolDefinition, 0, len(r.order))
	for _, name := range r.order {
		defs = append(defs, ToDefinition(r.tools[name]))
	}
	return defs
}
