package narrative

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

// OpenAICompleter sends prompts to the chat completions API.
type OpenAICompleter struct {
	client    *openai.Client
	model     string
	maxTokens int
}

// NewOpenAICompleter returns nil when apiKey is empty so that New falls back
// to templates.
func NewOpenAICompleter(apiKey, baseURL, model string) *OpenAICompleter {
	if apiKey == "" {
		return nil
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAICompleter{
		client:    openai.NewClientWithConfig(cfg),
		model:     model,
		maxTokens: 3000,
	}
}

func (c *OpenAICompleter) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		Temperature: 0.4,
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion: no choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}
