package voice

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/tavernworks/go-merchant/pkg/audioio"
)

func testRecorder(t *testing.T) *Recorder {
	t.Helper()

	cfg := audioio.DefaultConfig()
	cfg.Backend = audioio.BackendMock
	cfg.BufferDuration = 5 * time.Millisecond

	src := audioio.NewMockSource(cfg, nil, audioio.WithSineWave(440, 0.3))
	t.Cleanup(func() { src.Close() })

	rec, err := NewRecorder(src, 30*time.Millisecond, nil)
	if err != nil {
		t.Fatalf("new recorder: %v", err)
	}
	return rec
}

func testEngine(t *testing.T, transcriber Transcriber, synth Synthesizer) *Engine {
	t.Helper()

	e, err := NewEngine(testRecorder(t), transcriber, synth, WithTempDir(t.TempDir()))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return e
}

func TestRecordAndTranscribe(t *testing.T) {
	transcriber := &MockTranscriber{Text: "two heal potions please"}
	synth := &MockSynthesizer{}
	e := testEngine(t, transcriber, synth)

	text, err := e.RecordAndTranscribe(context.Background())
	if err != nil {
		t.Fatalf("record and transcribe: %v", err)
	}
	if text != "two heal potions please" {
		t.Errorf("text = %q", text)
	}

	paths := transcriber.Paths()
	if len(paths) != 1 {
		t.Fatalf("transcriber called %d times", len(paths))
	}
	if filepath.Ext(paths[0]) != ".wav" {
		t.Errorf("transcriber got %q, want a .wav path", paths[0])
	}
	if _, err := os.Stat(paths[0]); !os.IsNotExist(err) {
		t.Errorf("capture file %s not removed", paths[0])
	}
}

func TestRecordAndTranscribeWritesValidWAV(t *testing.T) {
	transcriber := &MockTranscriber{
		TranscribeFunc: func(ctx context.Context, path string) (string, error) {
			data, err := os.ReadFile(path)
			if err != nil {
				return "", err
			}
			if len(data) < 44 || string(data[0:4]) != "RIFF" {
				return "", errors.New("not a WAV file")
			}
			return "ok", nil
		},
	}
	e := testEngine(t, transcriber, &MockSynthesizer{})

	if _, err := e.RecordAndTranscribe(context.Background()); err != nil {
		t.Fatalf("record and transcribe: %v", err)
	}
}

func TestSpeakWritesAudioFile(t *testing.T) {
	synth := &MockSynthesizer{}
	e := testEngine(t, &MockTranscriber{}, synth)

	path, err := e.Speak(context.Background(), "Welcome, traveler!")
	if err != nil {
		t.Fatalf("speak: %v", err)
	}
	if filepath.Ext(path) != ".mp3" {
		t.Errorf("path = %q, want .mp3", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read audio: %v", err)
	}
	if string(data) != "fake-mp3" {
		t.Errorf("audio = %q", data)
	}

	texts := synth.Texts()
	if len(texts) != 1 || texts[0] != "Welcome, traveler!" {
		t.Errorf("synthesized texts = %v", texts)
	}
}

func TestSpeakPropagatesSynthError(t *testing.T) {
	synth := &MockSynthesizer{
		SynthesizeFunc: func(ctx context.Context, text string) (*AudioResult, error) {
			return nil, &APIError{StatusCode: 500, Message: "boom", Provider: "test"}
		},
	}
	e := testEngine(t, &MockTranscriber{}, synth)

	_, err := e.Speak(context.Background(), "hello")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want APIError", err)
	}
}

func TestCleanupRemovesTempAudio(t *testing.T) {
	synth := &MockSynthesizer{}
	e := testEngine(t, &MockTranscriber{}, synth)

	path, err := e.Speak(context.Background(), "hello")
	if err != nil {
		t.Fatalf("speak: %v", err)
	}

	if err := e.Cleanup(); err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("temp audio %s survived cleanup", path)
	}
	if !synth.Closed() {
		t.Error("synthesizer not closed")
	}
}

func TestRecorderRejectsConcurrentRecord(t *testing.T) {
	rec := testRecorder(t)

	var wg sync.WaitGroup
	errCh := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := rec.Record(context.Background())
			errCh <- err
		}()
	}
	wg.Wait()
	close(errCh)

	var failures int
	for err := range errCh {
		if err != nil {
			var recErr *RecordingError
			if !errors.As(err, &recErr) {
				t.Errorf("unexpected error type: %v", err)
			}
			failures++
		}
	}
	// Both may succeed if the goroutines never overlap, but at most one
	// failure is allowed and it must be a RecordingError.
	if failures > 1 {
		t.Errorf("%d recordings failed", failures)
	}
}

func TestNewSynthesizerFactory(t *testing.T) {
	s, err := NewSynthesizer(SynthOpenAI, WithAPIKey("key"))
	if err != nil {
		t.Fatalf("openai synth: %v", err)
	}
	s.Close()

	s, err = NewSynthesizer("legacy", WithAPIKey("key"))
	if err != nil {
		t.Fatalf("legacy synth: %v", err)
	}
	s.Close()

	if _, err := NewSynthesizer(SynthElevenLabs, WithAPIKey("key")); !errors.Is(err, ErrNoVoiceID) {
		t.Errorf("elevenlabs without voice = %v, want ErrNoVoiceID", err)
	}
	if _, err := NewSynthesizer(SynthElevenLabs, WithAPIKey("key"), WithVoice("v1")); err != nil {
		t.Errorf("elevenlabs with voice: %v", err)
	}

	if _, err := NewSynthesizer("nonsense"); !errors.Is(err, ErrUnknownSynth) {
		t.Errorf("unknown kind = %v, want ErrUnknownSynth", err)
	}
	if _, err := NewSynthesizer(SynthOpenAI); !errors.Is(err, ErrNoAPIKey) {
		t.Errorf("missing key = %v, want ErrNoAPIKey", err)
	}
}

func TestProviderErrorUnwrap(t *testing.T) {
	inner := errors.New("inner")
	wrapped := WrapError("test", inner)
	if !errors.Is(wrapped, inner) {
		t.Error("wrapped error lost the cause")
	}
	if !strings.Contains(wrapped.Error(), "test") {
		t.Errorf("message = %q", wrapped.Error())
	}

	if WrapError("test", nil) != nil {
		t.Error("wrapping nil should return nil")
	}
}
