package aiclient

import (
	"context"
	"fmt"
	"time"

	"fjacquet/statement-sorter/internal/logging"
	"fjacquet/statement-sorter/internal/sorterror"
)

// Settings selects and tunes a provider.
type Settings struct {
	Provider     string
	Model        string
	APIKey       string
	BaseURL      string
	Timeout      time.Duration
	Delay        time.Duration
	ExcerptChars int
}

// New builds the throttled Classifier described by s.
func New(ctx context.Context, s Settings, logger logging.Logger) (*Throttled, error) {
	opts := []Option{
		WithTimeout(s.Timeout),
		WithExcerptChars(s.ExcerptChars),
		WithLogger(logger),
	}

	var (
		client *Client
		err    error
	)
	switch s.Provider {
	case ProviderGemini, "":
		client, err = NewGeminiClient(ctx, s.APIKey, s.Model, opts...)
	case ProviderOpenAI:
		client, err = NewOpenAIClient(s.APIKey, s.Model, s.BaseURL, opts...)
	default:
		return nil, &sorterror.ConfigError{Key: "ai.provider", Reason: fmt.Sprintf("unknown provider %q", s.Provider)}
	}
	if err != nil {
		return nil, err
	}
	return NewThrottled(client, s.Delay), nil
}
