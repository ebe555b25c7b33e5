package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"
)

const (
	// DefaultOpenAIModel is the model used when none is configured.
	DefaultOpenAIModel = "gpt-4o"
	// DefaultMaxTokens bounds the size of a single model response.
	DefaultMaxTokens = 4096
)

// OpenAIProvider implements LLMProvider for OpenAI's chat completions API.
type OpenAIProvider struct {
	client *openai.Client
	model  string
}

// OpenAIOption is a functional option for configuring OpenAIProvider.
type OpenAIOption func(*openAIConfig)

type openAIConfig struct {
	model   string
	baseURL string
}

// WithModel sets the OpenAI model to use.
func WithModel(model string) OpenAIOption {
	return func(c *openAIConfig) {
		c.model = model
	}
}

// WithBaseURL sets a custom API base URL (useful for testing).
func WithBaseURL(url string) OpenAIOption {
	return func(c *openAIConfig) {
		c.baseURL = url
	}
}

// NewOpenAIProvider creates a new OpenAIProvider with the given API key.
func NewOpenAIProvider(apiKey string, opts ...OpenAIOption) (*OpenAIProvider, error) {
	if apiKey == "" {
		return nil, errors.New("OpenAI API key cannot be empty")
	}

	cfg := &openAIConfig{model: DefaultOpenAIModel}
	for _, opt := range opts {
		opt(cfg)
	}

	clientCfg := openai.DefaultConfig(apiKey)
	if cfg.baseURL != "" {
		clientCfg.BaseURL = cfg.baseURL
	}

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.model,
	}, nil
}

// Name returns the provider name.
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// Generate sends a request to OpenAI and returns the normalized response.
func (p *OpenAIProvider) Generate(ctx context.Context, req GenerateRequest) (*LLMResponse, error) {
	chatReq := p.buildRequest(req)

	resp, err := p.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return nil, fmt.Errorf("openai: chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, errors.New("openai: response contained no choices")
	}

	slog.Info("received model response",
		"model", resp.Model,
		"finish_reason", resp.Choices[0].FinishReason,
		"input_tokens", resp.Usage.PromptTokens,
		"output_tokens", resp.Usage.CompletionTokens,
	)

	return p.parseResponse(resp.Choices[0].Message), nil
}

// buildRequest converts a GenerateRequest to OpenAI's chat format.
func (p *OpenAIProvider) buildRequest(req GenerateRequest) openai.ChatCompletionRequest {
	chatReq := openai.ChatCompletionRequest{
		Model:     p.model,
		MaxTokens: DefaultMaxTokens,
		Messages:  make([]openai.ChatCompletionMessage, 0, len(req.Messages)+1),
	}

	if req.SystemPrompt != "" {
		chatReq.Messages = append(chatReq.Messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.SystemPrompt,
		})
	}

	for _, msg := range req.Messages {
		chatReq.Messages = append(chatReq.Messages, convertMessage(msg))
	}

	for _, tool := range req.Tools {
		chatReq.Tools = append(chatReq.Tools, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        tool.Name,
				Description: tool.Description,
				Parameters:  tool.Parameters,
			},
		})
	}

	return chatReq
}

// convertMessage converts a Message to OpenAI's message format.
func convertMessage(msg Message) openai.ChatCompletionMessage {
	// Tool result messages carry the call ID they answer.
	if msg.ToolCallID != "" {
		return openai.ChatCompletionMessage{
			Role:       openai.ChatMessageRoleTool,
			Content:    msg.Content,
			ToolCallID: msg.ToolCallID,
			Name:       msg.ToolName,
		}
	}

	cm := openai.ChatCompletionMessage{
		Role:    msg.Role,
		Content: msg.Content,
	}

	// Assistant messages may carry the tool calls they issued.
	for _, tc := range msg.ToolCalls {
		args, err := json.Marshal(tc.Arguments)
		if err != nil {
			args = []byte("{}")
		}
		cm.ToolCalls = append(cm.ToolCalls, openai.ToolCall{
			ID:   tc.ID,
			Type: openai.ToolTypeFunction,
			Function: openai.FunctionCall{
				Name:      tc.Name,
				Arguments: string(args),
			},
		})
	}

	return cm
}

// parseResponse normalizes an OpenAI assistant message into an LLMResponse.
// Tool-call arguments arrive as a JSON string and are decoded here; a
// malformed argument payload becomes an empty argument map so the call
// can still be dispatched and answered with a validation error.
func (p *OpenAIProvider) parseResponse(msg openai.ChatCompletionMessage) *LLMResponse {
	resp := &LLMResponse{
		Text:      msg.Content,
		ToolCalls: make([]ToolCall, 0, len(msg.ToolCalls)),
	}

	for _, tc := range msg.ToolCalls {
		args := map[string]interface{}{}
		if tc.Function.Arguments != "" {
			if err := json.Unmarshal([]byte(tc.Function.Arguments), &args); err != nil {
				slog.Warn("unparseable tool call arguments",
					"tool", tc.Function.Name, "error", err)
				args = map[string]interface{}{}
			}
		}

		id := tc.ID
		if id == "" {
			// Some OpenAI-compatible backends omit call IDs; the
			// transcript invariant needs one to match results.
			id = "call_" + uuid.NewString()
		}

		resp.ToolCalls = append(resp.ToolCalls, ToolCall{
			ID:        id,
			Name:      tc.Function.Name,
			Arguments: args,
		})
	}

	return resp
}

// IsRetryable reports whether an error from Generate is a transient
// failure worth retrying: rate limits, server errors, and network
// timeouts. Authentication and bad-request failures are terminal.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusRequestTimeout, http.StatusTooManyRequests:
			return true
		}
		return apiErr.HTTPStatusCode >= http.StatusInternalServerError
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode >= http.StatusInternalServerError ||
			reqErr.HTTPStatusCode == http.StatusTooManyRequests
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}

	return false
}
