package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/bryanwahyu/supplychain-insight/internal/domain/ai"
	"github.com/bryanwahyu/supplychain-insight/internal/infra/ai/prompt"
)

const maxTokens = 2048

// Client talks to an OpenAI-compatible chat completion endpoint. BaseURL may
// point at a gateway that serves the non-OpenAI model ids.
type Client struct {
	*openai.Client
	MaxTokens int
}

func NewClient(apiKey, baseURL string) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	return &Client{Client: openai.NewClientWithConfig(cfg), MaxTokens: maxTokens}
}

func (c *Client) Complete(ctx context.Context, model, userPrompt string) (string, error) {
	if model == "" {
		model = ai.DefaultModel
	}
	limit := c.MaxTokens
	if limit <= 0 {
		limit = maxTokens
	}
	req := openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt.SystemPrompt()},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
	}
	// For reasoning models (o1/o3/o4/gpt-5*) use MaxCompletionTokens instead of MaxTokens
	if strings.HasPrefix(model, "o1") || strings.HasPrefix(model, "o3") || strings.HasPrefix(model, "o4") || strings.HasPrefix(model, "gpt-5") {
		req.MaxCompletionTokens = limit
	} else {
		req.MaxTokens = limit
	}

	resp, err := c.CreateChatCompletion(ctx, req)
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusTooManyRequests {
			return "", fmt.Errorf("%w: %w: %w", ai.ErrCompletion, ai.ErrQuotaExceeded, err)
		}
		return "", fmt.Errorf("%w: failed to create chat completion: %w", ai.ErrCompletion, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: empty response from model %s", ai.ErrCompletion, model)
	}
	return resp.Choices[0].Message.Content, nil
}
