package llm

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrRateLimit is a 429 from the vendor. RetryAfter is zero when the
// vendor gave no hint.
type ErrRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited, retry after %s: %v", e.RetryAfter, e.Err)
	}
	return fmt.Sprintf("rate limited: %v", e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrInvalidResponse is a reply that is empty, not JSON, or does not match
// the requested schema.
type ErrInvalidResponse struct {
	Content string
	Err     error
}

func (e *ErrInvalidResponse) Error() string {
	return fmt.Sprintf("invalid model reply: %v", e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// ErrProviderUnavailable covers transport failures and non-429 API errors.
// Status is the HTTP status when one was received.
type ErrProviderUnavailable struct {
	Status int
	Err    error
}

func (e *ErrProviderUnavailable) Error() string {
	switch {
	case e.Err == nil:
		return "model provider unavailable"
	case e.Status > 0:
		return fmt.Sprintf("model provider unavailable (HTTP %d): %v", e.Status, e.Err)
	default:
		return fmt.Sprintf("model provider unavailable: %v", e.Err)
	}
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }

// ErrMaxTokensExceeded is a structured reply cut off by the token limit.
type ErrMaxTokensExceeded struct {
	Content string
}

func (e *ErrMaxTokensExceeded) Error() string {
	return "model reply truncated at max tokens"
}

// retryClass says how the retry loop treats an error.
type retryClass int

const (
	retryNever retryClass = iota
	retryOnce
	retryAlways
)

func classify(err error) retryClass {
	var (
		maxTok  *ErrMaxTokensExceeded
		invalid *ErrInvalidResponse
		unavail *ErrProviderUnavailable
	)
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return retryNever
	case errors.As(err, &maxTok):
		return retryNever
	case errors.As(err, &invalid):
		return retryOnce
	case errors.As(err, &unavail) && unavail.Status >= 400 && unavail.Status < 500:
		// Bad key, bad model name or a malformed request will not improve.
		return retryNever
	default:
		return retryAlways
	}
}
