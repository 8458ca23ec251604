package audioio

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"runtime"
	"strconv"
	"sync"
)

// ExecSource captures audio through an external recorder process, reading
// raw little-endian PCM16 from its stdout.
type ExecSource struct {
	cfg    Config
	logger *slog.Logger

	mu       sync.Mutex
	running  bool
	closed   bool
	streamCh chan AudioChunk
	cmd      *exec.Cmd
	cancel   context.CancelFunc
	done     chan struct{}
}

// newExecSource creates a recorder-backed audio source.
func newExecSource(cfg Config, logger *slog.Logger) (*ExecSource, error) {
	if _, _, err := recorderCommand(cfg); err != nil {
		return nil, err
	}

	s := &ExecSource{
		cfg:    cfg,
		logger: logger,
	}

	logger.Info("exec audio source created",
		"device", cfg.Device,
		"sample_rate", cfg.SampleRate,
		"channels", cfg.Channels,
	)

	return s, nil
}

// recorderCommand picks a recorder binary for the platform.
func recorderCommand(cfg Config) (string, []string, error) {
	device := cfg.Device
	if device == "" {
		device = "default"
	}

	if runtime.GOOS == "darwin" {
		if _, err := exec.LookPath("sox"); err == nil {
			return "sox", []string{
				"-q", "-d",
				"-t", "raw", "-b", "16", "-e", "signed-integer", "-L",
				"-r", strconv.Itoa(cfg.SampleRate),
				"-c", strconv.Itoa(cfg.Channels),
				"-",
			}, nil
		}
		return "", nil, fmt.Errorf("audioio: sox not found (brew install sox)")
	}

	if _, err := exec.LookPath("arecord"); err == nil {
		return "arecord", []string{
			"-q",
			"-D", device,
			"-f", "S16_LE",
			"-r", strconv.Itoa(cfg.SampleRate),
			"-c", strconv.Itoa(cfg.Channels),
			"-t", "raw",
		}, nil
	}
	return "", nil, fmt.Errorf("audioio: arecord not found")
}

// Start launches the recorder process.
func (s *ExecSource) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return io.ErrClosedPipe
	}
	if s.running {
		return nil
	}

	name, args, err := recorderCommand(s.cfg)
	if err != nil {
		return err
	}

	cmdCtx, cancel := context.WithCancel(ctx)
	cmd := exec.CommandContext(cmdCtx, name, args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return fmt.Errorf("audioio: stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		cancel()
		return fmt.Errorf("audioio: start %s: %w", name, err)
	}

	s.running = true
	s.cmd = cmd
	s.cancel = cancel
	s.streamCh = make(chan AudioChunk, 10)
	s.done = make(chan struct{})

	go s.captureLoop(stdout, s.streamCh, s.done)

	s.logger.Info("audio capture started", "recorder", name)
	return nil
}

func (s *ExecSource) captureLoop(stdout io.Reader, streamCh chan AudioChunk, done chan struct{}) {
	// done tells Stop the stdout pipe is no longer being read, so cmd.Wait
	// is safe to call.
	defer close(done)
	defer close(streamCh)

	buf := make([]byte, s.cfg.BufferBytes())
	for {
		n, err := io.ReadFull(stdout, buf)
		if n > 0 {
			var chunk AudioChunk
			chunk.FromBytes(buf[:n-n%2], s.cfg.SampleRate, s.cfg.Channels)
			select {
			case streamCh <- chunk:
			default:
				// No reader keeping up, drop rather than block
				s.logger.Debug("exec source: buffer full, dropping chunk")
			}
		}
		if err != nil {
			if err != io.EOF && err != io.ErrUnexpectedEOF {
				s.logger.Debug("recorder read ended", "error", err)
			}
			return
		}
	}
}

// Stop terminates the recorder process.
func (s *ExecSource) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}
	s.running = false

	s.cancel()
	<-s.done
	s.cmd.Wait()
	s.cmd = nil
	s.cancel = nil
	s.done = nil

	s.logger.Info("audio capture stopped")
	return nil
}

// Read reads the next audio chunk.
func (s *ExecSource) Read(ctx context.Context) (AudioChunk, error) {
	s.mu.Lock()
	ch := s.streamCh
	s.mu.Unlock()

	if ch == nil {
		return AudioChunk{}, io.EOF
	}

	select {
	case <-ctx.Done():
		return AudioChunk{}, ctx.Err()
	case chunk, ok := <-ch:
		if !ok {
			return AudioChunk{}, io.EOF
		}
		return chunk, nil
	}
}

// Config returns the audio configuration.
func (s *ExecSource) Config() Config {
	return s.cfg
}

// Name returns "exec".
func (s *ExecSource) Name() string {
	return "exec"
}

// Close releases resources.
func (s *ExecSource) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	s.Stop()
	return nil
}

// Ensure ExecSource implements Source.
var _ Source = (*ExecSource)(nil)
