package agent

import (
	"sync"

	"fantasy-advisor/internal/provider"
)

// Transcript maintains the ordered message history for one
// conversation. It is safe for concurrent use.
type Transcript struct {
	mu       sync.RWMutex
	messages []provider.Message
}

// NewTranscript creates an empty transcript.
func NewTranscript() *Transcript {
	return &Transcript{messages: make([]provider.Message, 0)}
}

// AddUser appends a user message.
func (t *Transcript) AddUser(content string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.messages = append(t.messages, provider.Message{Role: "user", Content: content})
}

// AddAssistantText appends a plain assistant answer.
func (t *Transcript) AddAssistantText(content string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.messages = append(t.messages, provider.Message{Role: "assistant", Content: content})
}

// AddAssistantToolCalls appends an assistant message carrying tool
// calls. It must precede the matching tool results in the transcript.
func (t *Transcript) AddAssistantToolCalls(content string, toolCalls []provider.ToolCall) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.messages = append(t.messages, provider.Message{
		Role:      "assistant",
		Content:   content,
		ToolCalls: toolCalls,
	})
}

// AddToolResults appends one tool message per result, preserving the
// order the calls were requested in. Each result carries the request
// ID it answers.
func (t *Transcript) AddToolResults(calls []provider.ToolCall, results []provider.ToolResult) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i, result := range results {
		name := ""
		if i < len(calls) {
			name = calls[i].Name
		}
		t.messages = append(t.messages, provider.Message{
			Role:       "tool",
			Content:    result.Text(),
			ToolCallID: result.RequestID,
			ToolName:   name,
		})
	}
}

// Messages returns a copy of the transcript.
func (t *Transcript) Messages() []provider.Message {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]provider.Message, len(t.messages))
	copy(out, t.messages)
	return out
}

// Len returns the number of messages.
func (t *Transcript) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return len(t.messages)
}

// Clear removes all messages.
func (t *Transcript) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.messages = t.messages[:0]
}
