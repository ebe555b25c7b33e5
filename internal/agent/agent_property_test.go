package agent

import (
	"context"
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"fantasy-advisor/internal/provider"
	"fantasy-advisor/internal/tool"
)

// Property 1: Every Tool Call Is Answered Exactly Once, In Order
// For any batch of tool calls the model requests, the next submission
// SHALL contain exactly one tool result per call, carrying the same
// request IDs in the same order, before any further model output.

// genToolBatch generates a batch of 1 to 8 tool calls with unique IDs.
// Roughly half the calls name a registered tool; the rest are unknown.
func genToolBatch() gopter.Gen {
	return gen.SliceOfN(8, gen.IntRange(0, 1)).Map(func(knowns []int) []provider.ToolCall {
		calls := make([]provider.ToolCall, 0, len(knowns))
		for i, known := range knowns {
			name := "registered"
			if known == 0 {
				name = fmt.Sprintf("unknown_%d", i)
			}
			calls = append(calls, provider.ToolCall{
				ID:        fmt.Sprintf("call_%d", i),
				Name:      name,
				Arguments: map[string]interface{}{},
			})
		}
		return calls
	}).SuchThat(func(calls []provider.ToolCall) bool {
		return len(calls) > 0
	})
}

func TestProperty_EveryToolCallAnsweredInOrder(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("one result per call, matching IDs, in request order", prop.ForAll(
		func(calls []provider.ToolCall) bool {
			registered := &mockTool{name: "registered"}
			mock := &mockLLMProvider{
				responses: []provider.LLMResponse{
					{ToolCalls: calls},
					{Text: "final"},
				},
			}
			registry := tool.NewRegistry()
			if err := registry.Register(registered); err != nil {
				return false
			}
			a := New(Config{Provider: mock, Tools: registry})

			if _, err := a.Run(context.Background(), "question", NewTranscript()); err != nil {
				return false
			}
			if len(mock.requests) != 2 {
				return false
			}

			var resultIDs []string
			for _, msg := range mock.requests[1].Messages {
				if msg.Role == "tool" {
					resultIDs = append(resultIDs, msg.ToolCallID)
				}
			}

			if len(resultIDs) != len(calls) {
				return false
			}
			for i, call := range calls {
				if resultIDs[i] != call.ID {
					return false
				}
			}
			return true
		},
		genToolBatch(),
	))

	properties.TestingRun(t)
}

// Property 2: The Turn Bound Holds
// For any configured turn bound and a model that never stops
// requesting tools, the run SHALL make exactly that many model calls
// and fail with ErrMaxTurnsExceeded.

func TestProperty_TurnBoundHolds(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("a looping model makes exactly maxTurns calls", prop.ForAll(
		func(maxTurns int) bool {
			loop := &mockTool{name: "loop"}
			var responses []provider.LLMResponse
			for i := 0; i < maxTurns+5; i++ {
				responses = append(responses, provider.LLMResponse{
					ToolCalls: []provider.ToolCall{{
						ID:        fmt.Sprintf("call_%d", i),
						Name:      "loop",
						Arguments: map[string]interface{}{},
					}},
				})
			}
			mock := &mockLLMProvider{responses: responses}
			registry := tool.NewRegistry()
			if err := registry.Register(loop); err != nil {
				return false
			}
			a := New(Config{Provider: mock, Tools: registry, MaxTurns: maxTurns})

			_, err := a.Run(context.Background(), "question", NewTranscript())
			return err != nil && mock.callCount == maxTurns
		},
		gen.IntRange(1, 12),
	))

	properties.TestingRun(t)
}

// Property 3: Transcript Alternation Is Preserved
// After any completed run, every tool message in the transcript SHALL
// be preceded by an assistant message whose tool calls include the
// result's request ID.

func TestProperty_TranscriptToolResultsFollowTheirRequests(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("tool messages answer the nearest preceding assistant request", prop.ForAll(
		func(calls []provider.ToolCall) bool {
			registered := &mockTool{name: "registered"}
			mock := &mockLLMProvider{
				responses: []provider.LLMResponse{
					{ToolCalls: calls},
					{Text: "final"},
				},
			}
			registry := tool.NewRegistry()
			if err := registry.Register(registered); err != nil {
				return false
			}
			a := New(Config{Provider: mock, Tools: registry})

			transcript := NewTranscript()
			if _, err := a.Run(context.Background(), "question", transcript); err != nil {
				return false
			}

			pending := map[string]bool{}
			for _, msg := range transcript.Messages() {
				switch msg.Role {
				case "assistant":
					for _, tc := range msg.ToolCalls {
						pending[tc.ID] = true
					}
				case "tool":
					if !pending[msg.ToolCallID] {
						return false
					}
					delete(pending, msg.ToolCallID)
				}
			}
			return len(pending) == 0
		},
		genToolBatch(),
	))

	properties.TestingRun(t)
}
