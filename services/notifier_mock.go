package services

import (
	"context"
	"sync"

	"github.com/segmentio/kafka-go"
)

// MockMessageWriter is a mock implementation of MessageWriter for testing
type MockMessageWriter struct {
	mu       sync.Mutex
	messages []kafka.Message
	failWith error
}

// NewMockMessageWriter creates a new mock message writer
func NewMockMessageWriter() *MockMessageWriter {
	return &MockMessageWriter{}
}

// FailWith makes every subsequent write return err (nil restores success)
func (m *MockMessageWriter) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failWith = err
}

// WriteMessages records the messages instead of publishing them
func (m *MockMessageWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	m.messages = append(m.messages, msgs...)
	return nil
}

// Close is a no-op for the mock
func (m *MockMessageWriter) Close() error {
	return nil
}

// Messages returns a copy of everything written so far
func (m *MockMessageWriter) Messages() []kafka.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]kafka.Message, len(m.messages))
	copy(out, m.messages)
	return out
}
