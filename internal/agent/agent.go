// Package agent implements the tool-calling conversation loop that
// turns a roster question into a final answer.
package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"fantasy-advisor/internal/provider"
	"fantasy-advisor/internal/retry"
	"fantasy-advisor/internal/tool"
)

// DefaultMaxTurns bounds how many model round trips one question may
// take before the run is abandoned.
const DefaultMaxTurns = 8

var (
	// ErrMaxTurnsExceeded is returned when the loop reaches the turn
	// bound without a final answer.
	ErrMaxTurnsExceeded = errors.New("max turns exceeded")
	// ErrCancelled is returned when the context is cancelled at a
	// suspension point between model calls and tool batches.
	ErrCancelled = errors.New("run cancelled")
)

// State is the loop's position between suspension points.
type State int

const (
	// StateAwaitingModel means a request is about to be, or is being,
	// submitted to the model.
	StateAwaitingModel State = iota
	// StateExecutingTools means a batch of requested tools is running.
	StateExecutingTools
	// StateAnswered means the model produced a final text answer.
	StateAnswered
)

func (s State) String() string {
	switch s {
	case StateAwaitingModel:
		return "awaiting_model"
	case StateExecutingTools:
		return "executing_tools"
	case StateAnswered:
		return "answered"
	default:
		return "unknown"
	}
}

// Config holds everything an Agent needs to run.
type Config struct {
	Provider     provider.LLMProvider
	Tools        *tool.Registry
	SystemPrompt string
	// MaxTurns bounds model round trips. Zero means DefaultMaxTurns.
	MaxTurns int
	// RetryPolicy wraps every model call. Zero value disables retries.
	RetryPolicy retry.Policy
	// Retryable classifies transient provider errors. Nil retries nothing.
	Retryable retry.Classifier
	// OnToolCall, if set, observes each tool call before it executes.
	OnToolCall func(call provider.ToolCall)
	// OnToolResult, if set, observes each tool result.
	OnToolResult func(call provider.ToolCall, result provider.ToolResult)
}

// Result is the outcome of one completed run.
type Result struct {
	Answer        string
	ToolCallsMade []provider.ToolCall
	Turns         int
}

// Agent drives the model / tool loop over a transcript.
type Agent struct {
	provider     provider.LLMProvider
	tools        *tool.Registry
	systemPrompt string
	maxTurns     int
	policy       retry.Policy
	retryable    retry.Classifier
	onToolCall   func(provider.ToolCall)
	onToolResult func(provider.ToolCall, provider.ToolResult)
}

// New creates an Agent from the configuration.
func New(cfg Config) *Agent {
	maxTurns := cfg.MaxTurns
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}
	tools := cfg.Tools
	if tools == nil {
		tools = tool.NewRegistry()
	}
	retryable := cfg.Retryable
	if retryable == nil {
		retryable = func(error) bool { return false }
	}

	return &Agent{
		provider:     cfg.Provider,
		tools:        tools,
		systemPrompt: cfg.SystemPrompt,
		maxTurns:     maxTurns,
		policy:       cfg.RetryPolicy,
		retryable:    retryable,
		onToolCall:   cfg.OnToolCall,
		onToolResult: cfg.OnToolResult,
	}
}

// BuildRequest assembles the exact request the next model call will
// submit: transcript messages, the tool schema in registration order,
// and the system prompt. Debug output and real runs both go through
// here, so what an operator inspects is what the model receives.
func (a *Agent) BuildRequest(transcript *Transcript) provider.GenerateRequest {
	return provider.GenerateRequest{
		Messages:     transcript.Messages(),
		Tools:        a.tools.Definitions(),
		SystemPrompt: a.systemPrompt,
	}
}

// Run submits the input and loops until the model answers without
// requesting tools, the turn bound is hit, or the context is
// cancelled. Every requested tool call receives exactly one result,
// in request order, before the transcript is resubmitted.
func (a *Agent) Run(ctx context.Context, input string, transcript *Transcript) (*Result, error) {
	transcript.AddUser(input)

	allToolCalls := make([]provider.ToolCall, 0)

	for turn := 1; turn <= a.maxTurns; turn++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCancelled, err)
		}

		resp, err := a.generate(ctx, a.BuildRequest(transcript))
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("%w: %v", ErrCancelled, ctx.Err())
			}
			return nil, fmt.Errorf("model call failed: %w", err)
		}

		if !resp.HasToolCalls() {
			transcript.AddAssistantText(resp.Text)
			slog.Debug("run answered", "turns", turn, "tool_calls", len(allToolCalls), "state", StateAnswered)
			return &Result{
				Answer:        resp.Text,
				ToolCallsMade: allToolCalls,
				Turns:         turn,
			}, nil
		}

		// The assistant message must precede its tool results in the
		// transcript or the next submission is rejected upstream.
		transcript.AddAssistantToolCalls(resp.Text, resp.ToolCalls)

		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCancelled, err)
		}

		slog.Debug("executing tool batch", "turn", turn, "calls", len(resp.ToolCalls), "state", StateExecutingTools)
		results := make([]provider.ToolResult, 0, len(resp.ToolCalls))
		for _, tc := range resp.ToolCalls {
			allToolCalls = append(allToolCalls, tc)
			if a.onToolCall != nil {
				a.onToolCall(tc)
			}

			result := a.executeTool(ctx, tc)
			results = append(results, result)
			if a.onToolResult != nil {
				a.onToolResult(tc, result)
			}
		}
		transcript.AddToolResults(resp.ToolCalls, results)
	}

	return nil, fmt.Errorf("%w: no final answer after %d turns", ErrMaxTurnsExceeded, a.maxTurns)
}

// generate calls the provider under the retry policy.
func (a *Agent) generate(ctx context.Context, req provider.GenerateRequest) (*provider.LLMResponse, error) {
	var resp *provider.LLMResponse
	op := func() error {
		var err error
		resp, err = a.provider.Generate(ctx, req)
		return err
	}
	if err := a.policy.Do(ctx, op, a.retryable); err != nil {
		return nil, err
	}
	return resp, nil
}

// executeTool dispatches one tool call. Failures never escape the
// loop: an unknown tool, bad arguments, or an execution error all
// become the result text the model sees next turn.
func (a *Agent) executeTool(ctx context.Context, tc provider.ToolCall) provider.ToolResult {
	t, exists := a.tools.Get(tc.Name)
	if !exists {
		return provider.ToolResult{
			RequestID: tc.ID,
			Success:   false,
			Error:     fmt.Sprintf("unknown tool '%s'", tc.Name),
		}
	}

	result, err := t.Execute(ctx, tc.Arguments)
	if err != nil {
		return provider.ToolResult{
			RequestID: tc.ID,
			Success:   false,
			Error:     fmt.Sprintf("tool execution failed: %v", err),
		}
	}

	out := *result
	out.RequestID = tc.ID
	return out
}
