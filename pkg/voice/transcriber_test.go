package voice

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func writeTempAudio(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "utterance.wav")
	if err := os.WriteFile(path, []byte("RIFF....WAVE"), 0o644); err != nil {
		t.Fatalf("write temp audio: %v", err)
	}
	return path
}

func TestOpenAITranscriber(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/audio/transcriptions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("auth header = %q", got)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if model := r.FormValue("model"); model != "whisper-1" {
			t.Errorf("model = %q", model)
		}
		if _, _, err := r.FormFile("file"); err != nil {
			t.Errorf("missing file part: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"text": "  I want a steel sword  "}`))
	}))
	defer srv.Close()

	tr, err := NewOpenAITranscriber(WithAPIKey("test-key"), WithBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("new transcriber: %v", err)
	}

	text, err := tr.Transcribe(context.Background(), writeTempAudio(t))
	if err != nil {
		t.Fatalf("transcribe: %v", err)
	}
	if text != "I want a steel sword" {
		t.Errorf("text = %q", text)
	}
}

func TestOpenAITranscriberRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, `{"error":{"message":"overloaded"}}`, http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"text": "hello"}`))
	}))
	defer srv.Close()

	tr, err := NewOpenAITranscriber(
		WithAPIKey("test-key"),
		WithBaseURL(srv.URL),
		WithRetry(2, time.Millisecond),
	)
	if err != nil {
		t.Fatalf("new transcriber: %v", err)
	}

	text, err := tr.Transcribe(context.Background(), writeTempAudio(t))
	if err != nil {
		t.Fatalf("transcribe: %v", err)
	}
	if text != "hello" {
		t.Errorf("text = %q", text)
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("server saw %d calls, want 2", got)
	}
}

func TestOpenAITranscriberSurfacesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"invalid api key"}}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	tr, err := NewOpenAITranscriber(WithAPIKey("bad-key"), WithBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("new transcriber: %v", err)
	}

	_, err = tr.Transcribe(context.Background(), writeTempAudio(t))
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want APIError", err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d", apiErr.StatusCode)
	}
	if apiErr.IsRetryable() {
		t.Error("401 should not be retryable")
	}
}

func TestOpenAISpeechSynthesize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/audio/speech" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Write([]byte("mp3-bytes"))
	}))
	defer srv.Close()

	s, err := NewOpenAISpeech(WithAPIKey("test-key"), WithBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("new speech: %v", err)
	}
	defer s.Close()

	result, err := s.Synthesize(context.Background(), "Welcome!")
	if err != nil {
		t.Fatalf("synthesize: %v", err)
	}
	if string(result.Audio) != "mp3-bytes" {
		t.Errorf("audio = %q", result.Audio)
	}
	if result.Format != "mp3" {
		t.Errorf("format = %q", result.Format)
	}
	if result.CharCount != len("Welcome!") {
		t.Errorf("char count = %d", result.CharCount)
	}
}

func TestSynthesizeRejectsEmptyText(t *testing.T) {
	s, err := NewOpenAISpeech(WithAPIKey("test-key"))
	if err != nil {
		t.Fatalf("new speech: %v", err)
	}
	defer s.Close()

	if _, err := s.Synthesize(context.Background(), "  \n"); !errors.Is(err, ErrEmptyText) {
		t.Errorf("err = %v, want ErrEmptyText", err)
	}
}

func TestElevenLabsSynthesize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/text-to-speech/voice-123" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("xi-api-key"); got != "el-key" {
			t.Errorf("api key header = %q", got)
		}
		w.Write([]byte("el-mp3"))
	}))
	defer srv.Close()

	s, err := NewElevenLabs(WithAPIKey("el-key"), WithVoice("voice-123"), WithBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("new elevenlabs: %v", err)
	}
	defer s.Close()

	result, err := s.Synthesize(context.Background(), "Greetings")
	if err != nil {
		t.Fatalf("synthesize: %v", err)
	}
	if string(result.Audio) != "el-mp3" {
		t.Errorf("audio = %q", result.Audio)
	}
}
