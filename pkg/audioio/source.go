package audioio

import (
	"context"
	"errors"
	"io"
	"time"
)

// AudioChunk represents a chunk of audio data.
type AudioChunk struct {
	// Samples contains PCM16 audio samples (little-endian).
	Samples []int16

	// SampleRate is the sample rate of this chunk.
	SampleRate int

	// Channels is the number of channels in this chunk.
	Channels int
}

// Bytes returns the raw bytes of the audio chunk.
func (c *AudioChunk) Bytes() []byte {
	buf := make([]byte, len(c.Samples)*2)
	for i, s := range c.Samples {
		buf[i*2] = byte(s)
		buf[i*2+1] = byte(s >> 8)
	}
	return buf
}

// FromBytes populates the chunk from raw PCM16 bytes.
func (c *AudioChunk) FromBytes(data []byte, sampleRate, channels int) {
	c.SampleRate = sampleRate
	c.Channels = channels
	c.Samples = make([]int16, len(data)/2)
	for i := range c.Samples {
		c.Samples[i] = int16(data[i*2]) | int16(data[i*2+1])<<8
	}
}

// Duration returns the duration of this audio chunk.
func (c *AudioChunk) Duration() float64 {
	if c.SampleRate == 0 || c.Channels == 0 {
		return 0
	}
	return float64(len(c.Samples)) / float64(c.SampleRate*c.Channels)
}

// Source captures audio from a microphone or other input device.
type Source interface {
	// Start begins audio capture.
	// After calling Start, audio chunks are available via Read.
	Start(ctx context.Context) error

	// Stop halts audio capture.
	// It is safe to call Stop multiple times.
	Stop() error

	// Read reads the next audio chunk, blocking if necessary.
	// Returns io.EOF when the source is stopped.
	Read(ctx context.Context) (AudioChunk, error)

	// Config returns the current audio configuration.
	Config() Config

	// Name returns the backend name (e.g., "exec", "mock").
	Name() string

	// Close releases all resources.
	// After Close, the source cannot be restarted.
	io.Closer
}

// Capture starts the source, reads for the given duration, and returns all
// samples as one contiguous buffer. The source is stopped before Capture
// returns.
func Capture(ctx context.Context, src Source, duration time.Duration) ([]int16, error) {
	if err := src.Start(ctx); err != nil {
		return nil, err
	}
	defer src.Stop()

	want := int(float64(src.Config().SampleRate) * duration.Seconds() * float64(src.Config().Channels))
	samples := make([]int16, 0, want)

	deadline := time.Now().Add(duration)
	for len(samples) < want {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			break
		}

		readCtx, cancel := context.WithTimeout(ctx, remaining)
		chunk, err := src.Read(readCtx)
		cancel()
		if err != nil {
			if err == io.EOF {
				break
			}
			if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
				break
			}
			return nil, err
		}
		samples = append(samples, chunk.Samples...)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(samples) > want {
		samples = samples[:want]
	}
	return samples, nil
}
