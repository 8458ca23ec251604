package voice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	openAITranscriptionURL = "https://api.openai.com/v1/audio/transcriptions"
	providerWhisper        = "whisper"
)

// OpenAITranscriber transcribes audio through OpenAI's transcription endpoint.
type OpenAITranscriber struct {
	config *Config
	client *http.Client
	logger *slog.Logger
	url    string
}

// NewOpenAITranscriber creates a transcriber backed by the Whisper API.
func NewOpenAITranscriber(opts ...Option) (*OpenAITranscriber, error) {
	cfg := DefaultConfig()
	cfg.Model = "whisper-1"
	cfg.Apply(opts...)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	url := openAITranscriptionURL
	if cfg.BaseURL != "" {
		url = strings.TrimSuffix(cfg.BaseURL, "/") + "/audio/transcriptions"
	}

	return &OpenAITranscriber{
		config: cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: cfg.Logger.With("component", "voice.transcriber"),
		url:    url,
	}, nil
}

// Transcribe uploads the audio file and returns the recognized text.
func (t *OpenAITranscriber) Transcribe(ctx context.Context, path string) (string, error) {
	audio, err := os.ReadFile(path)
	if err != nil {
		return "", WrapError(providerWhisper, fmt.Errorf("read audio: %w", err))
	}

	body, contentType, err := t.buildForm(filepath.Base(path), audio)
	if err != nil {
		return "", WrapError(providerWhisper, err)
	}

	start := time.Now()
	resp, err := t.doWithRetry(ctx, body, contentType)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", t.parseError(resp)
	}

	var result struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", WrapError(providerWhisper, fmt.Errorf("decode response: %w", err))
	}

	text := strings.TrimSpace(result.Text)
	t.logger.Debug("transcribed audio",
		"bytes", len(audio),
		"chars", len(text),
		"latency_ms", time.Since(start).Milliseconds(),
	)

	return text, nil
}

// buildForm assembles the multipart upload body.
func (t *OpenAITranscriber) buildForm(filename string, audio []byte) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return nil, "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return nil, "", fmt.Errorf("write audio: %w", err)
	}
	if err := w.WriteField("model", t.config.Model); err != nil {
		return nil, "", fmt.Errorf("write model field: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close form: %w", err)
	}

	return buf.Bytes(), w.FormDataContentType(), nil
}

// doWithRetry performs the request with retry logic.
func (t *OpenAITranscriber) doWithRetry(ctx context.Context, body []byte, contentType string) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt <= t.config.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(t.config.RetryDelay * time.Duration(attempt)):
			}
		}

		req, err := http.NewRequestWithContext(ctx, "POST", t.url, bytes.NewReader(body))
		if err != nil {
			return nil, WrapError(providerWhisper, fmt.Errorf("create request: %w", err))
		}
		req.Header.Set("Authorization", "Bearer "+t.config.APIKey)
		req.Header.Set("Content-Type", contentType)

		resp, err := t.client.Do(req)
		if err != nil {
			lastErr = WrapError(providerWhisper, err)
			continue
		}

		if resp.StatusCode == 429 || resp.StatusCode >= 500 {
			lastErr = t.parseError(resp)
			t.logger.Warn("retrying transcription",
				"attempt", attempt+1,
				"status", resp.StatusCode,
			)
			continue
		}

		return resp, nil
	}

	return nil, lastErr
}

// parseError reads and parses an error response.
func (t *OpenAITranscriber) parseError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	var errResp struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}

	message := string(body)
	if json.Unmarshal(body, &errResp) == nil && errResp.Error.Message != "" {
		message = errResp.Error.Message
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    message,
		Provider:   providerWhisper,
	}
}

// Verify OpenAITranscriber implements Transcriber at compile time.
var _ Transcriber = (*OpenAITranscriber)(nil)
