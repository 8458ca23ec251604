package merchant

import (
	"context"
	"sync"
)

// MockClassifier is a mock Classifier for testing.
type MockClassifier struct {
	mu sync.Mutex

	// ClassifyFunc overrides the default behavior.
	ClassifyFunc func(ctx context.Context, system string, history []Turn) (Decision, error)

	// Decision is returned when ClassifyFunc is nil.
	Decision Decision

	// Captured calls for assertions.
	Calls   int
	Systems []string
}

// Classify implements Classifier.
func (m *MockClassifier) Classify(ctx context.Context, system string, history []Turn) (Decision, error) {
	m.mu.Lock()
	m.Calls++
	m.Systems = append(m.Systems, system)
	m.mu.Unlock()

	if m.ClassifyFunc != nil {
		return m.ClassifyFunc(ctx, system, history)
	}
	return m.Decision, nil
}

// MockResponder is a mock Responder for testing.
type MockResponder struct {
	mu sync.Mutex

	// ReplyFunc overrides the default behavior.
	ReplyFunc func(ctx context.Context, system string, history []Turn) (string, error)

	// Text is returned when ReplyFunc is nil.
	Text string

	// Captured calls for assertions.
	Calls   int
	Systems []string
}

// Reply implements Responder.
func (m *MockResponder) Reply(ctx context.Context, system string, history []Turn) (string, error) {
	m.mu.Lock()
	m.Calls++
	m.Systems = append(m.Systems, system)
	m.mu.Unlock()

	if m.ReplyFunc != nil {
		return m.ReplyFunc(ctx, system, history)
	}
	if m.Text == "" {
		return "As you wish.", nil
	}
	return m.Text, nil
}

// Ensure mocks implement the provider roles.
var (
	_ Classifier = (*MockClassifier)(nil)
	_ Responder  = (*MockResponder)(nil)
)
