// Package config provides environment configuration helpers for go-merchant commands.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Defaults used when the corresponding environment variable is unset.
const (
	DefaultChatModel          = "gpt-4o-mini"
	DefaultTranscriptionModel = "whisper-1"
	DefaultTTSModel           = "tts-1"
	DefaultTTSVoice           = "nova"
	DefaultRecordSeconds      = 4.0
	DefaultDashboardPort      = "8090"
)

// OpenAIAPIKey returns the OpenAI API key from OPENAI_API_KEY.
// Exits with a usage hint if not set.
func OpenAIAPIKey() string {
	key := os.Getenv("OPENAI_API_KEY")
	if key == "" {
		fmt.Fprintln(os.Stderr, "Error: OPENAI_API_KEY environment variable is required")
		fmt.Fprintln(os.Stderr, "Usage: OPENAI_API_KEY=sk-... go run ./cmd/shop")
		os.Exit(1)
	}
	return key
}

// ChatModel returns the chat model from OPENAI_CHAT_MODEL or the default.
func ChatModel() string {
	if m := os.Getenv("OPENAI_CHAT_MODEL"); m != "" {
		return m
	}
	return DefaultChatModel
}

// TranscriptionModel returns the model from OPENAI_TRANSCRIPTION_MODEL or the default.
func TranscriptionModel() string {
	if m := os.Getenv("OPENAI_TRANSCRIPTION_MODEL"); m != "" {
		return m
	}
	return DefaultTranscriptionModel
}

// TTSModel returns the synthesis backend from TTS_MODEL or "legacy".
// Supported values: "legacy" (OpenAI speech endpoint), "elevenlabs".
func TTSModel() string {
	if m := os.Getenv("TTS_MODEL"); m != "" {
		return m
	}
	return "legacy"
}

// TTSVoice returns the voice from OPENAI_TTS_VOICE or the default.
func TTSVoice() string {
	if v := os.Getenv("OPENAI_TTS_VOICE"); v != "" {
		return v
	}
	return DefaultTTSVoice
}

// ElevenLabsAPIKey returns the ElevenLabs API key from ELEVENLABS_API_KEY.
// May be empty; the ElevenLabs synthesizer validates it.
func ElevenLabsAPIKey() string {
	return os.Getenv("ELEVENLABS_API_KEY")
}

// ElevenLabsVoiceID returns the voice ID from ELEVENLABS_VOICE_ID.
func ElevenLabsVoiceID() string {
	return os.Getenv("ELEVENLABS_VOICE_ID")
}

// RecordSeconds returns the capture duration from VOICE_RECORD_SECONDS or the default.
func RecordSeconds() float64 {
	if raw := os.Getenv("VOICE_RECORD_SECONDS"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil && v > 0 {
			return v
		}
	}
	return DefaultRecordSeconds
}

// DashboardPort returns the dashboard port from DASHBOARD_PORT or the default.
func DashboardPort() string {
	if p := os.Getenv("DASHBOARD_PORT"); p != "" {
		return p
	}
	return DefaultDashboardPort
}
