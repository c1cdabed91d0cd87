package ai

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

const openaiMaxTokens = 1024

// OpenAIClient is the remote-API backend. Availability is a pure
// configuration check: the key either exists or it does not, no network
// round trip.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

// NewOpenAIClient builds the remote backend. An empty apiKey yields a
// client that reports itself unavailable. baseURL is only set in tests.
func NewOpenAIClient(apiKey, model, baseURL string) *OpenAIClient {
	c := &OpenAIClient{model: model}
	if apiKey == "" {
		return c
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	c.client = openai.NewClientWithConfig(cfg)
	return c
}

func (c *OpenAIClient) Kind() Kind { return KindOpenAI }

func (c *OpenAIClient) Available(ctx context.Context) bool {
	return c.client != nil
}

func (c *OpenAIClient) Analyze(ctx context.Context, content string) (Fields, error) {
	if c.client == nil {
		return Fields{}, fmt.Errorf("openai: no api key configured")
	}

	model := c.model
	if model == "" {
		model = "gpt-4o-mini"
	}
	req := openai.ChatCompletionRequest{
		Model:       model,
		Temperature: 0.3,
		MaxTokens:   openaiMaxTokens,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(content)},
		},
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return Fields{}, fmt.Errorf("openai: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Fields{}, ErrEmptyResponse
	}

	return ParseFields(resp.Choices[0].Message.Content)
}
