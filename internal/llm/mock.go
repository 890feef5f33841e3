package llm

import (
	"context"
	"sync"
)

// MockResponse is one canned reply. A non-nil Err is returned instead of
// a Response.
type MockResponse struct {
	Text  string
	Usage Usage
	Err   error
}

// MockText is a canned plain-text reply.
func MockText(text string) MockResponse {
	return MockResponse{Text: text}
}

// MockProvider replays canned replies in order and records every request.
// Once the queue is empty it fails with ErrProviderUnavailable.
type MockProvider struct {
	mu      sync.Mutex
	replies []MockResponse
	Calls   []Request
}

func NewMockProvider(replies ...MockResponse) *MockProvider {
	return &MockProvider{replies: replies}
}

func (m *MockProvider) Generate(_ context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, req)
	if len(m.replies) == 0 {
		return nil, &ErrProviderUnavailable{}
	}
	next := m.replies[0]
	m.replies = m.replies[1:]
	if next.Err != nil {
		return nil, next.Err
	}
	return &Response{Text: next.Text, Usage: next.Usage, Model: "mock", Stop: StopEnd}, nil
}

func (m *MockProvider) ModelID() string { return "mock" }

// AddResponse queues another reply.
func (m *MockProvider) AddResponse(r MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.replies = append(m.replies, r)
}

// CallCount is the number of Generate calls so far.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
