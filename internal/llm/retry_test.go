package llm

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPolicy(delays *[]time.Duration) Policy {
	p := DefaultPolicy()
	p.sleep = func(_ context.Context, d time.Duration) error {
		*delays = append(*delays, d)
		return nil
	}
	return p
}

func TestDefaultPolicy_OneDelayPerRetry(t *testing.T) {
	p := DefaultPolicy()
	assert.Equal(t, p.MaxAttempts-1, len(p.Backoff))
}

func TestPolicy_SucceedsFirstAttempt(t *testing.T) {
	var delays []time.Duration
	p := testPolicy(&delays)

	result, err := p.Do(context.Background(), func(context.Context) (string, error) {
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Empty(t, delays)
}

func TestPolicy_RetriesRateLimitWithBackoff(t *testing.T) {
	var delays []time.Duration
	p := testPolicy(&delays)

	calls := 0
	result, err := p.Do(context.Background(), func(context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", fmt.Errorf("got HTTP 429 from upstream")
		}
		return "recovered", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "recovered", result)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second}, delays)
}

func TestPolicy_ExhaustsAttempts(t *testing.T) {
	var delays []time.Duration
	p := testPolicy(&delays)

	calls := 0
	_, err := p.Do(context.Background(), func(context.Context) (string, error) {
		calls++
		return "", fmt.Errorf("quota exceeded")
	})

	assert.Error(t, err)
	assert.Equal(t, 4, calls)
	assert.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second, 8 * time.Second}, delays)
}

func TestPolicy_NonRetryableFailsImmediately(t *testing.T) {
	var delays []time.Duration
	p := testPolicy(&delays)

	calls := 0
	_, err := p.Do(context.Background(), func(context.Context) (string, error) {
		calls++
		return "", fmt.Errorf("invalid request")
	})

	assert.Error(t, err)
	assert.Equal(t, 1, calls, "non-rate-limit errors are not retried")
	assert.Empty(t, delays)
}

func TestPolicy_ContextCanceledDuringBackoff(t *testing.T) {
	p := DefaultPolicy()
	p.sleep = func(ctx context.Context, _ time.Duration) error {
		return context.Canceled
	}

	_, err := p.Do(context.Background(), func(context.Context) (string, error) {
		return "", fmt.Errorf("rate limit hit")
	})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestIsRateLimited(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"http 429", fmt.Errorf("server returned 429"), true},
		{"rate limit text", fmt.Errorf("Rate Limit exceeded"), true},
		{"quota", fmt.Errorf("insufficient quota"), true},
		{"resource exhausted", fmt.Errorf("rpc error: RESOURCE_EXHAUSTED"), true},
		{"other error", fmt.Errorf("connection refused"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsRateLimited(tt.err))
		})
	}
}

func TestCleanJSONBlock(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain json", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding whitespace", "  {\"a\":1}  ", `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanJSONBlock(tt.input))
		})
	}
}
