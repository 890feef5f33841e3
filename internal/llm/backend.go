package llm

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

const defaultMaxTokens = 256

// backend is the vendor-specific half of a provider. send performs one API
// call and maps the vendor reply; it does no validation.
type backend interface {
	send(ctx context.Context, req Request) (*Response, error)
	model() string
}

// vendorProvider turns a backend into a Provider. It fills request
// defaults, rejects truncated structured replies and validates them
// against the request schema.
type vendorProvider struct {
	b backend
}

func (p *vendorProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	if req.MaxTokens <= 0 {
		req.MaxTokens = defaultMaxTokens
	}

	resp, err := p.b.send(ctx, req)
	if err != nil {
		return nil, err
	}
	if resp.Model == "" {
		resp.Model = p.b.model()
	}
	if req.Schema == nil {
		return resp, nil
	}

	if resp.Stop == StopMaxTokens {
		return nil, &ErrMaxTokensExceeded{Content: resp.Text}
	}
	resp.Text = extractJSON(resp.Text)
	if err := validateResponse(req.Schema, resp.Text); err != nil {
		return nil, err
	}
	return resp, nil
}

func (p *vendorProvider) ModelID() string {
	return p.b.model()
}

// classifyStatus wraps a vendor API error in the typed error for its HTTP
// status. Anything that is not a rate limit counts as unavailability.
func classifyStatus(status int, header http.Header, err error) error {
	if status == http.StatusTooManyRequests {
		return &ErrRateLimit{RetryAfter: retryAfter(header), Err: err}
	}
	return &ErrProviderUnavailable{Status: status, Err: err}
}

// retryAfter parses a Retry-After header given in seconds.
func retryAfter(h http.Header) time.Duration {
	if h == nil {
		return 0
	}
	secs, err := strconv.Atoi(h.Get("Retry-After"))
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

// resolveModel maps an alias such as "claude-haiku" to a vendor model ID.
// Unknown names pass through so full IDs can be configured directly.
func resolveModel(name string, aliases map[string]string) string {
	if id, ok := aliases[name]; ok {
		return id
	}
	return name
}

func requireKey(vendor, key string) error {
	if key == "" {
		return fmt.Errorf("%s API key is required", vendor)
	}
	return nil
}
