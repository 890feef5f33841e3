package llm

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"time"
)

type retryProvider struct {
	inner Provider
	cfg   RetryConfig
}

// WithRetry retries transient failures of p with jittered exponential
// backoff. Invalid replies get a single retry; cancellations, client
// errors and truncations are returned at once.
func WithRetry(p Provider, cfg RetryConfig) Provider {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &retryProvider{inner: p, cfg: cfg}
}

func (r *retryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	retriedInvalid := false
	var err error
	for attempt := 0; attempt < r.cfg.MaxAttempts; attempt++ {
		var resp *Response
		resp, err = r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}

		switch classify(err) {
		case retryNever:
			return nil, err
		case retryOnce:
			if retriedInvalid {
				return nil, err
			}
			retriedInvalid = true
		}
		if attempt == r.cfg.MaxAttempts-1 {
			break
		}

		wait := r.cfg.delay(attempt, err)
		slog.Debug("retrying llm request", "attempt", attempt+1, "wait", wait, "error", err)
		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, ctx.Err()
		case <-t.C:
		}
	}
	return nil, err
}

func (r *retryProvider) ModelID() string {
	return r.inner.ModelID()
}

// delay is the wait before retry number attempt+1: the vendor's
// Retry-After when given, else InitialWait*Multiplier^attempt capped at
// MaxWait, with ±20% jitter.
func (c RetryConfig) delay(attempt int, err error) time.Duration {
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}

	wait := float64(c.InitialWait)
	for range attempt {
		wait *= c.Multiplier
		if wait >= float64(c.MaxWait) {
			break
		}
	}
	if c.MaxWait > 0 && wait > float64(c.MaxWait) {
		wait = float64(c.MaxWait)
	}
	wait *= 0.8 + 0.4*rand.Float64()
	return time.Duration(wait)
}
