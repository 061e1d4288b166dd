package aiclient

import (
	"context"
	"io"
	"time"

	"fjacquet/statement-sorter/internal/sorterror"

	"golang.org/x/time/rate"
)

// Throttled enforces a minimum delay between calls to the wrapped Classifier.
// The wait blocks the caller and honors context cancellation.
type Throttled struct {
	inner    Classifier
	provider string
	limiter  *rate.Limiter
}

// NewThrottled wraps c so that consecutive calls are at least delay apart.
// A zero delay uses DefaultDelay.
func NewThrottled(c Classifier, delay time.Duration) *Throttled {
	if delay <= 0 {
		delay = DefaultDelay
	}
	provider := "classifier"
	if p, ok := c.(interface{ Provider() string }); ok {
		provider = p.Provider()
	}
	return &Throttled{
		inner:    c,
		provider: provider,
		limiter:  rate.NewLimiter(rate.Every(delay), 1),
	}
}

// Provider returns the wrapped classifier's provider name.
func (t *Throttled) Provider() string {
	return t.provider
}

func (t *Throttled) ClassifyStatement(ctx context.Context, filename, excerpt string) (Statement, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return Statement{}, &sorterror.ClassifierError{Provider: t.provider, Err: err}
	}
	return t.inner.ClassifyStatement(ctx, filename, excerpt)
}

func (t *Throttled) SuggestName(ctx context.Context, filename, excerpt string) (Suggestion, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return Suggestion{}, &sorterror.ClassifierError{Provider: t.provider, Err: err}
	}
	return t.inner.SuggestName(ctx, filename, excerpt)
}

func (t *Throttled) Close() error {
	if closer, ok := t.inner.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
