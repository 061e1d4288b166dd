// Package aiclient adapts language-model providers to the classifier contract
// used by the organizer and the renamer. Any provider failure surfaces as a
// *sorterror.ClassifierError, which callers treat as not-found.
package aiclient

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"fjacquet/statement-sorter/internal/logging"
	"fjacquet/statement-sorter/internal/sorterror"
)

// Supported providers
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Default models per provider
const (
	DefaultGeminiModel = "gemini-2.0-flash"
	DefaultOpenAIModel = "gpt-4o-mini"
)

// Defaults applied when options are left at zero.
const (
	DefaultTimeout      = 30 * time.Second
	DefaultExcerptChars = 1500
	DefaultDelay        = time.Second
)

// ErrEmptyResponse is returned when the provider answers with no text.
var ErrEmptyResponse = errors.New("empty response from provider")

// Statement is the classifier's reading of a bank statement. Month and Year
// are always valid when returned without error; Bank and Account may be empty.
type Statement struct {
	Bank    string `json:"bank,omitempty"`
	Account string `json:"account,omitempty"`
	Month   string `json:"month"`
	Year    string `json:"year"`
}

// Suggestion is the classifier's proposal for a generic document.
type Suggestion struct {
	SuggestedName string `json:"suggested_name"`
	Category      string `json:"category"`
	Date          string `json:"date,omitempty"` // YYYY-MM-DD or empty
}

// Classifier is the external classifier contract.
type Classifier interface {
	ClassifyStatement(ctx context.Context, filename, excerpt string) (Statement, error)
	SuggestName(ctx context.Context, filename, excerpt string) (Suggestion, error)
}

// Generator sends one prompt to a model and returns its text answer.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Client implements Classifier on top of a Generator.
type Client struct {
	provider     string
	gen          Generator
	timeout      time.Duration
	excerptChars int
	logger       logging.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout bounds each provider call.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithExcerptChars bounds the excerpt embedded in the prompt.
func WithExcerptChars(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.excerptChars = n
		}
	}
}

// WithLogger sets the client logger.
func WithLogger(l logging.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient wraps gen as a Classifier reporting errors under provider.
func NewClient(provider string, gen Generator, opts ...Option) *Client {
	c := &Client{
		provider:     provider,
		gen:          gen,
		timeout:      DefaultTimeout,
		excerptChars: DefaultExcerptChars,
		logger:       logging.GetLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Provider returns the provider name.
func (c *Client) Provider() string {
	return c.provider
}

func (c *Client) ClassifyStatement(ctx context.Context, filename, excerpt string) (Statement, error) {
	text, err := c.generate(ctx, StatementPrompt(filename, clip(excerpt, c.excerptChars)))
	if err != nil {
		return Statement{}, err
	}
	st, err := ParseStatement(text)
	if err != nil {
		return Statement{}, &sorterror.ClassifierError{Provider: c.provider, Err: err}
	}
	return st, nil
}

func (c *Client) SuggestName(ctx context.Context, filename, excerpt string) (Suggestion, error) {
	text, err := c.generate(ctx, SuggestionPrompt(filename, clip(excerpt, c.excerptChars)))
	if err != nil {
		return Suggestion{}, err
	}
	s, err := ParseSuggestion(text)
	if err != nil {
		return Suggestion{}, &sorterror.ClassifierError{Provider: c.provider, Err: err}
	}
	return s, nil
}

// Close releases the underlying provider client when it holds resources.
func (c *Client) Close() error {
	if closer, ok := c.gen.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	text, err := c.gen.Generate(ctx, prompt)
	duration := time.Since(start).Milliseconds()
	if err != nil {
		c.logger.WithError(err).Warn("Classifier request failed",
			logging.Field{Key: logging.FieldProvider, Value: c.provider},
			logging.Field{Key: logging.FieldDuration, Value: duration})
		return "", &sorterror.ClassifierError{Provider: c.provider, Err: err}
	}
	if strings.TrimSpace(text) == "" {
		return "", &sorterror.ClassifierError{Provider: c.provider, Err: ErrEmptyResponse}
	}

	c.logger.Debug("Classifier response received",
		logging.Field{Key: logging.FieldProvider, Value: c.provider},
		logging.Field{Key: logging.FieldDuration, Value: duration})
	return text, nil
}

func clip(s string, maxChars int) string {
	if utf8.RuneCountInString(s) <= maxChars {
		return s
	}
	return string([]rune(s)[:maxChars])
}
