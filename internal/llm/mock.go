package llm

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MockClient implements Client for testing and for running the service
// without provider credentials. Responses are scripted per call; when the
// script runs out the last entry repeats.
type MockClient struct {
	model     string
	responses []*ChatResponse
	err       error
	delay     time.Duration

	mu       sync.Mutex
	calls    int
	requests []*ChatRequest
}

// NewMockClient returns a mock that answers every call with content.
func NewMockClient(model, content string) *MockClient {
	return &MockClient{
		model: model,
		responses: []*ChatResponse{{
			ID:      "mock-response-id",
			Model:   model,
			Content: content,
			Usage:   Usage{PromptTokens: 100, CompletionTokens: 50, TotalTokens: 150},
		}},
	}
}

// NewFailingMockClient returns a mock whose every call fails with err.
func NewFailingMockClient(model string, err error) *MockClient {
	return &MockClient{model: model, err: err}
}

// WithResponses replaces the scripted responses.
func (m *MockClient) WithResponses(responses ...*ChatResponse) *MockClient {
	m.responses = responses
	return m
}

// WithDelay makes every call sleep first, to simulate provider latency.
func (m *MockClient) WithDelay(d time.Duration) *MockClient {
	m.delay = d
	return m
}

// Chat returns the next scripted response.
func (m *MockClient) Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("request cannot be nil")
	}
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, req)
	m.calls++

	if m.err != nil {
		return nil, m.err
	}
	if len(m.responses) == 0 {
		return nil, fmt.Errorf("mock client has no scripted responses")
	}
	idx := m.calls - 1
	if idx >= len(m.responses) {
		idx = len(m.responses) - 1
	}
	return m.responses[idx], nil
}

// Model returns the mock model name.
func (m *MockClient) Model() string {
	return m.model
}

// Calls reports how many times Chat was invoked.
func (m *MockClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// LastRequest returns the most recent request, or nil.
func (m *MockClient) LastRequest() *ChatRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.requests) == 0 {
		return nil
	}
	return m.requests[len(m.requests)-1]
}

var _ Client = (*MockClient)(nil)
