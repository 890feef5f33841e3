package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetry() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: time.Millisecond,
		MaxWait:     10 * time.Millisecond,
		Multiplier:  2,
	}
}

func down() MockResponse {
	return MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}}
}

func TestRetry_Recovers(t *testing.T) {
	mock := NewMockProvider(down(), MockText("ok"))
	p := WithRetry(mock, fastRetry())

	resp, err := p.Generate(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Text)
	assert.Equal(t, 2, mock.CallCount())
	assert.Equal(t, "mock", p.ModelID())
}

func TestRetry_GivesUpAfterMaxAttempts(t *testing.T) {
	mock := NewMockProvider(down(), down(), down(), MockText("never reached"))
	p := WithRetry(mock, fastRetry())

	_, err := p.Generate(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	require.ErrorAs(t, err, &unavail)
	assert.Equal(t, 3, mock.CallCount())
}

func TestRetry_ZeroAttemptsMeansOne(t *testing.T) {
	mock := NewMockProvider(down(), MockText("ok"))
	p := WithRetry(mock, RetryConfig{})

	_, err := p.Generate(context.Background(), Request{})
	require.Error(t, err)
	assert.Equal(t, 1, mock.CallCount())
}

func TestRetry_NotRetried(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"truncated", &ErrMaxTokensExceeded{Content: `{"correct":`}},
		{"unauthorized", &ErrProviderUnavailable{Status: 401, Err: errors.New("bad key")}},
		{"unknown model", &ErrProviderUnavailable{Status: 404, Err: errors.New("no such model")}},
		{"canceled", context.Canceled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewMockProvider(MockResponse{Err: tt.err}, MockText("ok"))
			p := WithRetry(mock, fastRetry())

			_, err := p.Generate(context.Background(), Request{})
			assert.ErrorIs(t, err, tt.err)
			assert.Equal(t, 1, mock.CallCount())
		})
	}
}

func TestRetry_InvalidReplyRetriedOnce(t *testing.T) {
	invalid := MockResponse{Err: &ErrInvalidResponse{Content: "yes", Err: errors.New("not JSON")}}
	mock := NewMockProvider(invalid, invalid, MockText(`{"correct":true,"reason":"ok"}`))
	p := WithRetry(mock, fastRetry())

	_, err := p.Generate(context.Background(), Request{})
	var got *ErrInvalidResponse
	require.ErrorAs(t, err, &got)
	assert.Equal(t, 2, mock.CallCount())
}

func TestRetry_StopsWhenContextDone(t *testing.T) {
	mock := NewMockProvider(down(), MockText("ok"))
	p := WithRetry(mock, RetryConfig{MaxAttempts: 3, InitialWait: time.Hour, MaxWait: time.Hour, Multiplier: 1})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := p.Generate(ctx, Request{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, mock.CallCount())
}

func TestRetry_HonorsRetryAfter(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrRateLimit{RetryAfter: 30 * time.Millisecond, Err: errors.New("429")}},
		MockText("ok"),
	)
	p := WithRetry(mock, fastRetry())

	start := time.Now()
	_, err := p.Generate(context.Background(), Request{})
	require.NoError(t, err)
	assert.True(t, time.Since(start) >= 30*time.Millisecond, "returned before Retry-After")
}

func TestRetryConfig_Delay(t *testing.T) {
	cfg := RetryConfig{InitialWait: time.Second, MaxWait: 5 * time.Second, Multiplier: 2}
	plain := errors.New("down")

	within := func(d, lo, hi time.Duration) bool { return d >= lo && d <= hi }
	for range 20 {
		d := cfg.delay(0, plain)
		assert.True(t, within(d, 800*time.Millisecond, 1200*time.Millisecond), "attempt 0: %s", d)

		d = cfg.delay(2, plain)
		assert.True(t, within(d, 3200*time.Millisecond, 4800*time.Millisecond), "attempt 2: %s", d)

		d = cfg.delay(10, plain)
		assert.True(t, within(d, 4*time.Second, 6*time.Second), "attempt 10: %s", d)
	}

	assert.Equal(t, 7*time.Second, cfg.delay(0, &ErrRateLimit{RetryAfter: 7 * time.Second}))
}
