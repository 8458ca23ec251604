package voice

import (
	"context"
	"sync"
)

// MockTranscriber is a test double for Transcriber.
type MockTranscriber struct {
	// TranscribeFunc, if set, overrides the default behavior.
	TranscribeFunc func(ctx context.Context, path string) (string, error)

	// Text is returned when TranscribeFunc is nil.
	Text string

	mu    sync.Mutex
	paths []string
}

// Transcribe records the call and returns the configured text.
func (m *MockTranscriber) Transcribe(ctx context.Context, path string) (string, error) {
	m.mu.Lock()
	m.paths = append(m.paths, path)
	m.mu.Unlock()

	if m.TranscribeFunc != nil {
		return m.TranscribeFunc(ctx, path)
	}
	return m.Text, nil
}

// Paths returns a snapshot of every path transcribed so far.
func (m *MockTranscriber) Paths() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.paths))
	copy(out, m.paths)
	return out
}

// MockSynthesizer is a test double for Synthesizer.
type MockSynthesizer struct {
	// SynthesizeFunc, if set, overrides the default behavior.
	SynthesizeFunc func(ctx context.Context, text string) (*AudioResult, error)

	mu     sync.Mutex
	texts  []string
	closed bool
}

// Synthesize records the call and returns a small fake MP3 buffer.
func (m *MockSynthesizer) Synthesize(ctx context.Context, text string) (*AudioResult, error) {
	m.mu.Lock()
	m.texts = append(m.texts, text)
	m.mu.Unlock()

	if m.SynthesizeFunc != nil {
		return m.SynthesizeFunc(ctx, text)
	}
	return &AudioResult{
		Audio:     []byte("fake-mp3"),
		Format:    "mp3",
		CharCount: len(text),
	}, nil
}

// Close marks the synthesizer closed.
func (m *MockSynthesizer) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Closed reports whether Close was called.
func (m *MockSynthesizer) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Texts returns a snapshot of every text synthesized so far.
func (m *MockSynthesizer) Texts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.texts))
	copy(out, m.texts)
	return out
}

// Verify mocks implement their interfaces at compile time.
var (
	_ Transcriber = (*MockTranscriber)(nil)
	_ Synthesizer = (*MockSynthesizer)(nil)
)
