package voice

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/tavernworks/go-merchant/pkg/audioio"
)

// Recorder captures a fixed window of microphone audio.
// Only one recording may be active at a time.
type Recorder struct {
	src      audioio.Source
	duration time.Duration
	logger   *slog.Logger

	mu     sync.Mutex
	active bool
}

// NewRecorder creates a recorder that captures duration of audio per call.
func NewRecorder(src audioio.Source, duration time.Duration, logger *slog.Logger) (*Recorder, error) {
	if src == nil {
		return nil, ErrNoSource
	}
	if duration <= 0 {
		duration = 4 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Recorder{
		src:      src,
		duration: duration,
		logger:   logger.With("component", "voice.recorder"),
	}, nil
}

// Duration returns the capture window length.
func (r *Recorder) Duration() time.Duration {
	return r.duration
}

// Record captures one window of audio and returns the raw samples.
// A second concurrent call fails with a RecordingError.
func (r *Recorder) Record(ctx context.Context) ([]int16, error) {
	r.mu.Lock()
	if r.active {
		r.mu.Unlock()
		return nil, &RecordingError{Reason: "recorder already active"}
	}
	r.active = true
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		r.active = false
		r.mu.Unlock()
	}()

	r.logger.Debug("recording", "seconds", r.duration.Seconds())

	samples, err := audioio.Capture(ctx, r.src, r.duration)
	if err != nil {
		return nil, &RecordingError{Reason: "capture", Err: err}
	}
	return samples, nil
}

// Config returns the audio configuration of the underlying source.
func (r *Recorder) Config() audioio.Config {
	return r.src.Config()
}

// Close releases the underlying audio source.
func (r *Recorder) Close() error {
	return r.src.Close()
}
