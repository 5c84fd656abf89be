package provider

import (
	"context"
	"sync"
)

// MockProvider is a scripted transport for testing. Responses and Errors are
// consumed in call order; once exhausted, the last entry repeats. Safe for
// concurrent use.
type MockProvider struct {
	mu          sync.Mutex
	Responses   []string
	Errors      []error
	Respond     func(req ChatRequest) (string, error) // Overrides the scripts when set
	callCount   int
	lastRequest *ChatRequest
}

// NewMockProvider creates a mock that answers calls with responses in order.
func NewMockProvider(responses ...string) *MockProvider {
	return &MockProvider{Responses: responses}
}

// Complete returns the next scripted response or error.
func (m *MockProvider) Complete(ctx context.Context, req ChatRequest) (string, error) {
	m.mu.Lock()
	n := m.callCount
	m.callCount++
	m.lastRequest = &req
	respond := m.Respond
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if respond != nil {
		return respond(req)
	}

	if err := pick(m.Errors, n); err != nil {
		return "", err
	}
	return pick(m.Responses, n), nil
}

func pick[T any](script []T, n int) T {
	var zero T
	if len(script) == 0 {
		return zero
	}
	if n >= len(script) {
		n = len(script) - 1
	}
	return script[n]
}

// CallCount returns the number of calls made.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// LastRequest returns the most recent request, or nil.
func (m *MockProvider) LastRequest() *ChatRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastRequest
}

// Reset resets the call count and last request.
func (m *MockProvider) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.lastRequest = nil
}

// Verify MockProvider implements Transport
var _ Transport = (*MockProvider)(nil)
