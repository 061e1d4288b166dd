package aiclient

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIGenerator calls an OpenAI-compatible chat completion endpoint.
type OpenAIGenerator struct {
	api   *openai.Client
	model string
}

// NewOpenAIGenerator creates a generator. baseURL overrides the endpoint for
// OpenAI-compatible providers; an empty model uses DefaultOpenAIModel.
func NewOpenAIGenerator(apiKey, model, baseURL string) (*OpenAIGenerator, error) {
	if apiKey == "" {
		return nil, errors.New("OPENAI_API_KEY is not set")
	}
	if model == "" {
		model = DefaultOpenAIModel
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIGenerator{api: openai.NewClientWithConfig(cfg), model: model}, nil
}

func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       g.model,
		Temperature: 0.1,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai api error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}

// NewOpenAIClient returns a Classifier backed by an OpenAI-compatible API.
func NewOpenAIClient(apiKey, model, baseURL string, opts ...Option) (*Client, error) {
	gen, err := NewOpenAIGenerator(apiKey, model, baseURL)
	if err != nil {
		return nil, err
	}
	return NewClient(ProviderOpenAI, gen, opts...), nil
}
