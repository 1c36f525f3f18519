package mock

import (
	"context"
	"sync"

	"github.com/casaseek/casaseek/ai"
)

// MockCompleter is a test double for ai.Completer.
// It allows custom behavior injection via function fields.
type MockCompleter struct {
	// BackendName is returned by Name. Defaults to "mock".
	BackendName string

	// CompleteFunc is called by Complete if set.
	// If nil, Complete returns Response.
	CompleteFunc func(ctx context.Context, req ai.Request) (string, error)

	// Response is the canned completion returned when CompleteFunc is nil.
	Response string

	mu        sync.Mutex
	callCount int
	requests  []ai.Request
}

// NewMockCompleter creates a mock completer returning the given canned
// response.
func NewMockCompleter(name, response string) *MockCompleter {
	return &MockCompleter{BackendName: name, Response: response}
}

// Name returns the configured backend name.
func (m *MockCompleter) Name() string {
	if m.BackendName == "" {
		return "mock"
	}
	return m.BackendName
}

// Complete records the request and returns the injected or canned response.
func (m *MockCompleter) Complete(ctx context.Context, req ai.Request) (string, error) {
	m.mu.Lock()
	m.callCount++
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, req)
	}
	return m.Response, nil
}

// CallCount returns the number of Complete calls.
func (m *MockCompleter) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// LastRequest returns the most recent request, or a zero Request when no
// call has been made.
func (m *MockCompleter) LastRequest() ai.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.requests) == 0 {
		return ai.Request{}
	}
	return m.requests[len(m.requests)-1]
}

// Reset clears recorded calls and injected behavior.
func (m *MockCompleter) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.requests = nil
	m.CompleteFunc = nil
}
