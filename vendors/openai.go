package vendors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"
	"github.com/xiaoyuanzhu-com/claude-sessions/config"
	"github.com/xiaoyuanzhu-com/claude-sessions/log"
)

// OpenAIClient wraps the OpenAI client for an OpenAI-compatible endpoint
// (LM Studio, Ollama, llama.cpp server, ...).
type OpenAIClient struct {
	client  *openai.Client
	model   string
	baseURL string
}

// CompletionOptions holds options for completions
type CompletionOptions struct {
	SystemPrompt string
	Prompt       string
	MaxTokens    int
	Temperature  float32
}

// CompletionResponse represents a completion response
type CompletionResponse struct {
	Content string
	// ReasoningContent is filled by reasoning models that put their answer
	// (or their thinking) in a separate field.
	ReasoningContent string
	FinishReason     string
	Usage            struct {
		PromptTokens     int
		CompletionTokens int
		TotalTokens      int
	}
}

// ErrNoChoices is returned when the endpoint answers without any choice.
var ErrNoChoices = errors.New("completion response has no choices")

// NewOpenAIClient creates a client for the endpoint described by cfg.
// Requests are single attempts bounded by cfg.Timeout.
func NewOpenAIClient(cfg config.TitlerConfig) *OpenAIClient {
	apiKey := cfg.APIKey
	if apiKey == "" {
		// Local servers ignore the key but the header must be present
		apiKey = "local"
	}

	clientConfig := openai.DefaultConfig(apiKey)
	if cfg.EndpointURL != "" {
		clientConfig.BaseURL = strings.TrimRight(cfg.EndpointURL, "/")
	}
	clientConfig.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	return &OpenAIClient{
		client:  openai.NewClientWithConfig(clientConfig),
		model:   cfg.ModelID,
		baseURL: clientConfig.BaseURL,
	}
}

// Model returns the model id sent with every request.
func (o *OpenAIClient) Model() string {
	return o.model
}

// Complete performs a chat completion
func (o *OpenAIClient) Complete(ctx context.Context, opts CompletionOptions) (*CompletionResponse, error) {
	var messages []openai.ChatCompletionMessage

	if opts.SystemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: opts.SystemPrompt,
		})
	}

	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: opts.Prompt,
	})

	req := openai.ChatCompletionRequest{
		Model:       o.model,
		Messages:    messages,
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
	}

	log.Debug().
		Str("model", o.model).
		Str("baseURL", o.baseURL).
		Int("promptChars", len(opts.Prompt)).
		Int("maxTokens", opts.MaxTokens).
		Float32("temperature", opts.Temperature).
		Msg("openai request")

	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, ErrNoChoices
	}

	choice := resp.Choices[0]
	out := &CompletionResponse{
		Content:          choice.Message.Content,
		ReasoningContent: choice.Message.ReasoningContent,
		FinishReason:     string(choice.FinishReason),
	}
	out.Usage.PromptTokens = resp.Usage.PromptTokens
	out.Usage.CompletionTokens = resp.Usage.CompletionTokens
	out.Usage.TotalTokens = resp.Usage.TotalTokens

	log.Debug().
		Str("finishReason", out.FinishReason).
		Str("content", out.Content).
		Int("promptTokens", out.Usage.PromptTokens).
		Int("completionTokens", out.Usage.CompletionTokens).
		Msg("openai response")

	return out, nil
}

// StatusCode extracts the HTTP status from an endpoint error, or 0 when the
// request never got a response.
func StatusCode(err error) int {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	return 0
}
