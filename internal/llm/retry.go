package llm

import (
	"context"
	"strings"
	"time"
)

// Policy describes how an external call is retried. It replaces ad hoc
// nested error handling with a single object wrapping every model call site.
type Policy struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int
	// Backoff holds the delay before each retry. If retries outnumber
	// entries, the last entry repeats.
	Backoff []time.Duration
	// Retryable decides whether an error is worth retrying. A nil predicate
	// retries everything.
	Retryable func(error) bool

	// sleep allows tests to intercept delays.
	sleep func(ctx context.Context, d time.Duration) error
}

// DefaultPolicy retries rate-limit-shaped failures up to three times after
// the initial attempt, sleeping 2s, 4s, then 8s before each retry; other
// failures propagate immediately.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 4,
		Backoff:     []time.Duration{2 * time.Second, 4 * time.Second, 8 * time.Second},
		Retryable:   IsRateLimited,
	}
}

// Do runs op until it succeeds, the error is not retryable, attempts are
// exhausted, or the context is canceled.
func (p Policy) Do(ctx context.Context, op func(ctx context.Context) (string, error)) (string, error) {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			if err := p.wait(ctx, attempt-1); err != nil {
				return "", err
			}
		}

		result, err := op(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if p.Retryable != nil && !p.Retryable(err) {
			return "", err
		}
	}
	return "", lastErr
}

// wait sleeps for the backoff delay of the given retry index.
func (p Policy) wait(ctx context.Context, retry int) error {
	if len(p.Backoff) == 0 {
		return ctx.Err()
	}
	if retry >= len(p.Backoff) {
		retry = len(p.Backoff) - 1
	}

	if p.sleep != nil {
		return p.sleep(ctx, p.Backoff[retry])
	}

	timer := time.NewTimer(p.Backoff[retry])
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// IsRateLimited reports whether an error looks like a provider rate limit.
func IsRateLimited(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{"429", "rate limit", "quota", "resource exhausted", "resource_exhausted"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
