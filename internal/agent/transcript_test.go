package agent

import (
	"testing"

	"fantasy-advisor/internal/provider"
)

func TestTranscriptOrdering(t *testing.T) {
	tr := NewTranscript()
	tr.AddUser("question")
	tr.AddAssistantToolCalls("thinking", []provider.ToolCall{
		{ID: "call_1", Name: "get_waiver_wire"},
	})
	tr.AddToolResults(
		[]provider.ToolCall{{ID: "call_1", Name: "get_waiver_wire"}},
		[]provider.ToolResult{{RequestID: "call_1", Success: true, Output: "data"}},
	)
	tr.AddAssistantText("answer")

	messages := tr.Messages()
	wantRoles := []string{"user", "assistant", "tool", "assistant"}
	if len(messages) != len(wantRoles) {
		t.Fatalf("expected %d messages, got %d", len(wantRoles), len(messages))
	}
	for i, role := range wantRoles {
		if messages[i].Role != role {
			t.Errorf("message %d: expected role %q, got %q", i, role, messages[i].Role)
		}
	}

	toolMsg := messages[2]
	if toolMsg.ToolCallID != "call_1" || toolMsg.ToolName != "get_waiver_wire" {
		t.Errorf("tool message missing call linkage: %+v", toolMsg)
	}
	if toolMsg.Content != "data" {
		t.Errorf("expected output as content, got %q", toolMsg.Content)
	}
}

func TestTranscriptFailedResultRendersErrorText(t *testing.T) {
	tr := NewTranscript()
	tr.AddToolResults(
		[]provider.ToolCall{{ID: "call_1", Name: "get_team_details"}},
		[]provider.ToolResult{{RequestID: "call_1", Success: false, Error: "team with ID '99' not found"}},
	)

	messages := tr.Messages()
	if len(messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(messages))
	}
	if messages[0].Content != "error: team with ID '99' not found" {
		t.Errorf("unexpected error rendering: %q", messages[0].Content)
	}
}

func TestTranscriptMessagesReturnsCopy(t *testing.T) {
	tr := NewTranscript()
	tr.AddUser("original")

	messages := tr.Messages()
	messages[0].Content = "mutated"

	if tr.Messages()[0].Content != "original" {
		t.Error("external mutation leaked into the transcript")
	}
}

func TestTranscriptClear(t *testing.T) {
	tr := NewTranscript()
	tr.AddUser("one")
	tr.AddAssistantText("two")
	if tr.Len() != 2 {
		t.Fatalf("expected 2 messages, got %d", tr.Len())
	}

	tr.Clear()
	if tr.Len() != 0 {
		t.Errorf("expected empty transcript after Clear, got %d", tr.Len())
	}
}
