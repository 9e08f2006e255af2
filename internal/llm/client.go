// Package llm talks to the Groq chat-completion API and recovers JSON
// payloads from whatever the model actually returns.
package llm

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

const (
	DefaultBaseURL = "https://api.groq.com/openai/v1"
	DefaultModel   = "llama-3.3-70b-versatile"
)

// CompletionOptions are the per-call knobs the exam service tunes.
type CompletionOptions struct {
	Temperature float32
	MaxTokens   int
}

// Client is a thin wrapper over the OpenAI-compatible Groq endpoint.
type Client struct {
	api   *openai.Client
	model string
}

// NewClient builds a client for the given key. Empty baseURL and model
// fall back to the Groq defaults.
func NewClient(apiKey, baseURL, model string) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	cfg.BaseURL = baseURL
	if model == "" {
		model = DefaultModel
	}
	return &Client{api: openai.NewClientWithConfig(cfg), model: model}
}

// Complete sends a single-message prompt and returns the raw text of the
// first choice.
func (c *Client) Complete(ctx context.Context, prompt string, opts CompletionOptions) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion: no choices in response")
	}
	return resp.Choices[0].Message.Content, nil
}
