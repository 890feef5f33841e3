package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/abhisek/studybuddy/internal/store"
)

// EventRecorder persists LLM request events. store.EventRepo satisfies it.
type EventRecorder interface {
	AppendLLMRequest(ctx context.Context, data store.LLMRequestEventData) error
}

type loggingProvider struct {
	inner    Provider
	provider string
	rec      EventRecorder
}

// WithLogging records every request made through p, tagged with the
// purpose and session carried by the context. Recording failures are
// logged and never fail the request.
func WithLogging(p Provider, name string, rec EventRecorder) Provider {
	return &loggingProvider{inner: p, provider: name, rec: rec}
}

func (l *loggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)

	ev := store.LLMRequestEventData{
		SessionID:   SessionFrom(ctx),
		Provider:    l.provider,
		Model:       l.inner.ModelID(),
		Purpose:     PurposeFrom(ctx),
		LatencyMs:   time.Since(start).Milliseconds(),
		Success:     err == nil,
		RequestBody: transcript(req),
	}
	if resp != nil {
		ev.Model = resp.Model
		ev.InputTokens = resp.Usage.InputTokens
		ev.OutputTokens = resp.Usage.OutputTokens
		ev.ResponseBody = resp.Text
	}
	if err != nil {
		ev.ErrorMessage = err.Error()
	}

	slog.Debug("llm request", "provider", ev.Provider, "model", ev.Model, "purpose", ev.Purpose,
		"latency_ms", ev.LatencyMs, "tokens", ev.InputTokens+ev.OutputTokens, "success", ev.Success)
	if recErr := l.rec.AppendLLMRequest(ctx, ev); recErr != nil {
		slog.Warn("failed to record llm request", "purpose", ev.Purpose, "error", recErr)
	}
	return resp, err
}

func (l *loggingProvider) ModelID() string {
	return l.inner.ModelID()
}

// transcript renders req as "[role]\ncontent" blocks for the journal.
func transcript(req Request) string {
	var b strings.Builder
	block := func(label, body string) {
		fmt.Fprintf(&b, "[%s]\n%s\n\n", label, body)
	}
	if req.System != "" {
		block("system", req.System)
	}
	for _, m := range req.Messages {
		block(string(m.Role), m.Content)
	}
	if req.Schema != nil {
		if def, err := json.Marshal(req.Schema.Definition); err == nil {
			block("schema: "+req.Schema.Name, string(def))
		}
	}
	return b.String()
}
