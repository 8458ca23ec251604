package voice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	openAISpeechURL = "https://api.openai.com/v1/audio/speech"
	providerSpeech  = "openai"
)

// OpenAI voice options
const (
	VoiceAlloy   = "alloy"   // Neutral voice
	VoiceEcho    = "echo"    // Male voice
	VoiceNova    = "nova"    // Female voice
	VoiceShimmer = "shimmer" // Soft female voice
)

// OpenAISpeech implements Synthesizer for OpenAI TTS.
type OpenAISpeech struct {
	config *Config
	client *http.Client
	logger *slog.Logger
	url    string
}

// NewOpenAISpeech creates an OpenAI TTS synthesizer.
func NewOpenAISpeech(opts ...Option) (*OpenAISpeech, error) {
	cfg := DefaultConfig()
	cfg.Model = "tts-1"
	cfg.Voice = VoiceNova
	cfg.Apply(opts...)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Voice == "" {
		cfg.Voice = VoiceNova
	}

	url := openAISpeechURL
	if cfg.BaseURL != "" {
		url = strings.TrimSuffix(cfg.BaseURL, "/") + "/audio/speech"
	}

	return &OpenAISpeech{
		config: cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: cfg.Logger.With("component", "voice.openai"),
		url:    url,
	}, nil
}

// Synthesize converts text to MP3 audio.
func (o *OpenAISpeech) Synthesize(ctx context.Context, text string) (*AudioResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}
	start := time.Now()

	payload := map[string]interface{}{
		"model": o.config.Model,
		"voice": o.config.Voice,
		"input": text,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, WrapError(providerSpeech, fmt.Errorf("marshal payload: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, "POST", o.url, bytes.NewReader(body))
	if err != nil {
		return nil, WrapError(providerSpeech, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Authorization", "Bearer "+o.config.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, WrapError(providerSpeech, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, parseSynthError(providerSpeech, resp)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, WrapError(providerSpeech, fmt.Errorf("read response: %w", err))
	}

	latency := time.Since(start)
	o.logger.Debug("synthesized audio",
		"chars", len(text),
		"bytes", len(audio),
		"latency_ms", latency.Milliseconds(),
		"voice", o.config.Voice,
	)

	return &AudioResult{
		Audio:     audio,
		Format:    "mp3",
		CharCount: len(text),
		Latency:   latency,
	}, nil
}

// Close releases resources.
func (o *OpenAISpeech) Close() error {
	o.client.CloseIdleConnections()
	return nil
}

// parseSynthError reads and parses an error response.
func parseSynthError(provider string, resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

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
		Provider:   provider,
	}
}

// Verify OpenAISpeech implements Synthesizer at compile time.
var _ Synthesizer = (*OpenAISpeech)(nil)
