package llm

import (
	"context"
	"fmt"
	"sync"
)

// Mock is a deterministic Client for tests and offline runs. Responses can
// be queued per call; when the queue is empty a canned echo is returned.
type Mock struct {
	mu        sync.Mutex
	model     string
	queued    []string
	failNext  error
	CallCount int
	// Prompts records every prompt received, in order.
	Prompts []string
}

// NewMock creates a mock engine.
func NewMock(model string) *Mock {
	return &Mock{model: model}
}

// QueueResponse appends a response to return on an upcoming call.
func (m *Mock) QueueResponse(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queued = append(m.queued, text)
}

// FailNext makes the next Complete call return err.
func (m *Mock) FailNext(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failNext = err
}

func (m *Mock) Complete(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CallCount++
	m.Prompts = append(m.Prompts, prompt)
	if m.failNext != nil {
		err := m.failNext
		m.failNext = nil
		return "", err
	}
	if len(m.queued) > 0 {
		resp := m.queued[0]
		m.queued = m.queued[1:]
		return resp, nil
	}
	return fmt.Sprintf("Mock response from %s (%d bytes of prompt)", m.model, len(prompt)), nil
}
