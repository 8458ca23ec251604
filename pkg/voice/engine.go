package voice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/tavernworks/go-merchant/pkg/audioio"
)

// Engine ties recording, transcription, and synthesis together and owns the
// temporary audio files passed between the stages.
type Engine struct {
	recorder    *Recorder
	transcriber Transcriber
	synth       Synthesizer
	tempDir     string
	logger      *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithTempDir overrides the directory used for intermediate audio files.
func WithTempDir(dir string) EngineOption {
	return func(e *Engine) {
		e.tempDir = dir
	}
}

// WithEngineLogger sets the structured logger.
func WithEngineLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// NewEngine creates a voice engine. All three stages are required.
func NewEngine(recorder *Recorder, transcriber Transcriber, synth Synthesizer, opts ...EngineOption) (*Engine, error) {
	if recorder == nil {
		return nil, errors.New("voice: recorder required")
	}
	if transcriber == nil {
		return nil, errors.New("voice: transcriber required")
	}
	if synth == nil {
		return nil, errors.New("voice: synthesizer required")
	}

	e := &Engine{
		recorder:    recorder,
		transcriber: transcriber,
		synth:       synth,
		tempDir:     filepath.Join(os.TempDir(), "go-merchant-voice"),
		logger:      slog.Default().With("component", "voice.engine"),
	}
	for _, opt := range opts {
		opt(e)
	}

	if err := os.MkdirAll(e.tempDir, 0o755); err != nil {
		return nil, fmt.Errorf("voice: create temp dir: %w", err)
	}

	return e, nil
}

// Recorder returns the capture stage.
func (e *Engine) Recorder() *Recorder {
	return e.recorder
}

// RecordAndTranscribe captures one window of audio and returns the
// recognized text. The intermediate WAV file is removed before returning.
func (e *Engine) RecordAndTranscribe(ctx context.Context) (string, error) {
	samples, err := e.recorder.Record(ctx)
	if err != nil {
		return "", err
	}

	cfg := e.recorder.Config()
	path := e.tempPath("wav")
	if err := audioio.WriteWAVFile(path, samples, cfg.SampleRate, cfg.Channels); err != nil {
		return "", fmt.Errorf("voice: write capture: %w", err)
	}
	defer os.Remove(path)

	text, err := e.transcriber.Transcribe(ctx, path)
	if err != nil {
		return "", err
	}

	e.logger.Debug("utterance transcribed", "chars", len(text))
	return text, nil
}

// Speak synthesizes text and writes the audio to a temp file, returning its
// path. The caller is responsible for playback; Cleanup removes the file.
func (e *Engine) Speak(ctx context.Context, text string) (string, error) {
	result, err := e.synth.Synthesize(ctx, text)
	if err != nil {
		return "", err
	}

	path := e.tempPath(result.Format)
	if err := os.WriteFile(path, result.Audio, 0o644); err != nil {
		return "", fmt.Errorf("voice: write audio: %w", err)
	}

	e.logger.Debug("speech ready", "path", path, "bytes", len(result.Audio))
	return path, nil
}

// Cleanup removes every temp audio file the engine has produced and closes
// the synthesizer.
func (e *Engine) Cleanup() error {
	var firstErr error

	for _, pattern := range []string{"*.wav", "*.mp3"} {
		matches, err := filepath.Glob(filepath.Join(e.tempDir, pattern))
		if err != nil {
			continue
		}
		for _, m := range matches {
			if err := os.Remove(m); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}

	if err := e.synth.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// tempPath returns a unique file path inside the engine's temp dir.
func (e *Engine) tempPath(ext string) string {
	return filepath.Join(e.tempDir, fmt.Sprintf("%s.%s", uuid.NewString(), ext))
}
