package audioio

import (
	"bytes"
	"context"
	"encoding/binary"
	"log/slog"
	"testing"
	"time"
)

func TestChunkBytesRoundTrip(t *testing.T) {
	original := AudioChunk{
		Samples:    []int16{0, 1, -1, 32767, -32768, 1234},
		SampleRate: 16000,
		Channels:   1,
	}

	var decoded AudioChunk
	decoded.FromBytes(original.Bytes(), 16000, 1)

	if len(decoded.Samples) != len(original.Samples) {
		t.Fatalf("sample count = %d, want %d", len(decoded.Samples), len(original.Samples))
	}
	for i := range original.Samples {
		if decoded.Samples[i] != original.Samples[i] {
			t.Errorf("sample %d = %d, want %d", i, decoded.Samples[i], original.Samples[i])
		}
	}
}

func TestChunkDuration(t *testing.T) {
	chunk := AudioChunk{
		Samples:    make([]int16, 16000),
		SampleRate: 16000,
		Channels:   1,
	}
	if got := chunk.Duration(); got != 1.0 {
		t.Errorf("duration = %v, want 1.0", got)
	}

	empty := AudioChunk{}
	if got := empty.Duration(); got != 0 {
		t.Errorf("empty duration = %v, want 0", got)
	}
}

func TestMockSourceCapture(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Backend = BackendMock
	cfg.BufferDuration = 5 * time.Millisecond

	src := NewMockSource(cfg, nil, WithSineWave(440, 0.5))
	defer src.Close()

	samples, err := Capture(context.Background(), src, 50*time.Millisecond)
	if err != nil {
		t.Fatalf("capture: %v", err)
	}
	if len(samples) == 0 {
		t.Fatal("captured no samples")
	}

	var peak int16
	for _, s := range samples {
		if s > peak {
			peak = s
		}
	}
	if peak == 0 {
		t.Error("sine wave produced silence")
	}
}

func TestMockSourceReadAfterStop(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Backend = BackendMock
	cfg.BufferDuration = 5 * time.Millisecond

	src := NewMockSource(cfg, nil)
	if err := src.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	src.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	for {
		if _, err := src.Read(ctx); err != nil {
			// Drains buffered chunks, then reports end of stream.
			return
		}
	}
}

func TestCaptureHonorsCancel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Backend = BackendMock
	cfg.BufferDuration = 5 * time.Millisecond

	src := NewMockSource(cfg, nil)
	defer src.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Capture(ctx, src, time.Second); err == nil {
		t.Fatal("expected context error")
	}
}

func TestEncodeWAVHeader(t *testing.T) {
	samples := []int16{0, 100, -100, 200}
	data, err := EncodeWAV(samples, 16000, 1)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	if len(data) != 44+len(samples)*2 {
		t.Fatalf("length = %d, want %d", len(data), 44+len(samples)*2)
	}
	if !bytes.Equal(data[0:4], []byte("RIFF")) {
		t.Errorf("missing RIFF marker: %q", data[0:4])
	}
	if !bytes.Equal(data[8:12], []byte("WAVE")) {
		t.Errorf("missing WAVE marker: %q", data[8:12])
	}
	if !bytes.Equal(data[36:40], []byte("data")) {
		t.Errorf("missing data marker: %q", data[36:40])
	}

	if rate := binary.LittleEndian.Uint32(data[24:28]); rate != 16000 {
		t.Errorf("sample rate = %d, want 16000", rate)
	}
	if channels := binary.LittleEndian.Uint16(data[22:24]); channels != 1 {
		t.Errorf("channels = %d, want 1", channels)
	}
	if bits := binary.LittleEndian.Uint16(data[34:36]); bits != 16 {
		t.Errorf("bits per sample = %d, want 16", bits)
	}
	if size := binary.LittleEndian.Uint32(data[40:44]); size != uint32(len(samples)*2) {
		t.Errorf("data size = %d, want %d", size, len(samples)*2)
	}
}

func TestEncodeWAVRejectsBadConfig(t *testing.T) {
	if _, err := EncodeWAV(nil, 0, 1); err == nil {
		t.Error("zero sample rate accepted")
	}
	if _, err := EncodeWAV(nil, 16000, 0); err == nil {
		t.Error("zero channels accepted")
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
	if got := cfg.BufferSize(); got != 320 {
		t.Errorf("buffer size = %d, want 320", got)
	}

	bad := cfg
	bad.SampleRate = -1
	if err := bad.Validate(); err == nil {
		t.Error("negative sample rate accepted")
	}
}

func TestMockPlayerRecordsPlays(t *testing.T) {
	p := &MockPlayer{}
	if err := p.Play(context.Background(), "/tmp/a.wav"); err != nil {
		t.Fatalf("play: %v", err)
	}
	if err := p.Play(context.Background(), "/tmp/b.mp3"); err != nil {
		t.Fatalf("play: %v", err)
	}

	played := p.Played()
	if len(played) != 2 || played[0] != "/tmp/a.wav" || played[1] != "/tmp/b.mp3" {
		t.Errorf("played = %v", played)
	}
}

func TestCaptureLoopDropsWhenBufferFull(t *testing.T) {
	cfg := DefaultConfig()
	s := &ExecSource{cfg: cfg, logger: slog.Default()}
	streamCh := make(chan AudioChunk, 10)
	done := make(chan struct{})

	// Forty chunks of audio with nobody reading streamCh; the loop must
	// drop the overflow and exit instead of blocking on the send forever.
	data := make([]byte, cfg.BufferBytes()*40)
	go s.captureLoop(bytes.NewReader(data), streamCh, done)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("capture loop blocked with a full buffer")
	}
	if got := len(streamCh); got != 10 {
		t.Errorf("buffered chunks = %d, want 10", got)
	}
	if _, ok := <-streamCh; !ok {
		t.Error("stream closed before draining buffered chunks")
	}
}
