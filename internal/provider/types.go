// Package provider defines the LLM provider abstraction and core data types.
package provider

// Message represents a single turn in a conversation transcript.
// The Role field tags the turn kind: "user", "assistant", "system", or
// "tool". Assistant turns may carry ToolCalls; tool turns carry the
// ToolCallID they answer.
type Message struct {
	Role       string     `json:"role"`
	Content    string     `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
	ToolName   string     `json:"tool_name,omitempty"`
}

// ToolCall represents a request from the LLM to execute a tool.
type ToolCall struct {
	ID        string                 `json:"id"`
	Name      string                 `json:"name"`
	Arguments map[string]interface{} `json:"arguments"`
}

// ToolResult represents the result of executing a tool call.
// RequestID ties the result back to the ToolCall that produced it.
type ToolResult struct {
	RequestID string `json:"request_id"`
	Success   bool   `json:"success"`
	Output    string `json:"output"`
	Error     string `json:"error,omitempty"`
}

// Text returns the string that should be fed back to the model for this
// result: the output on success, or an error marker otherwise.
func (r *ToolResult) Text() string {
	if r.Success {
		return r.Output
	}
	return "error: " + r.Error
}

// LLMResponse represents a normalized response from an LLM provider.
// Exactly one of Text or ToolCalls is meaningful: a response with tool
// calls is a request for more data, a response without them is final.
type LLMResponse struct {
	Text      string     `json:"text"`
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
}

// HasToolCalls returns true if the response contains tool calls.
func (r *LLMResponse) HasToolCalls() bool {
	return len(r.ToolCalls) > 0
}

// ToolDefinition describes a tool that can be offered to the LLM.
type ToolDefinition struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Parameters  map[string]interface{} `json:"parameters"`
}

// GenerateRequest represents a request to generate a response from an LLM.
type GenerateRequest struct {
	Messages     []Message        `json:"messages"`
	Tools        []ToolDefinition `json:"tools,omitempty"`
	SystemPrompt string           `json:"system_prompt,omitempty"`
}
