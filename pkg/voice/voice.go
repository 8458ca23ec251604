// Package voice provides the capture, transcription, and synthesis stages of
// the merchant's voice loop.
//
// The package splits the loop into three swappable pieces: a Recorder that
// captures a fixed window of microphone audio, a Transcriber that turns a WAV
// file into text, and a Synthesizer that turns reply text into an audio file.
// Engine ties the three together and owns the temp files in between.
//
// Example usage:
//
//	transcriber, _ := voice.NewOpenAITranscriber(voice.WithAPIKey(key))
//	synth, _ := voice.NewSynthesizer(voice.SynthOpenAI, voice.WithAPIKey(key))
//	engine, _ := voice.NewEngine(recorder, transcriber, synth)
//	defer engine.Cleanup()
//
//	text, _ := engine.RecordAndTranscribe(ctx)
//	path, _ := engine.Speak(ctx, "Welcome, traveler!")
package voice

import (
	"context"
	"time"
)

// Transcriber converts a recorded WAV file into text.
type Transcriber interface {
	// Transcribe returns the recognized text for the audio file at path.
	// An empty string with a nil error means nothing intelligible was heard.
	Transcribe(ctx context.Context, path string) (string, error)
}

// Synthesizer converts text into playable audio.
type Synthesizer interface {
	// Synthesize converts text to audio, returning the complete audio buffer.
	Synthesize(ctx context.Context, text string) (*AudioResult, error)

	// Close releases any resources held by the provider.
	Close() error
}

// AudioResult represents a complete synthesis result.
type AudioResult struct {
	// Audio contains the raw audio data in the specified format.
	Audio []byte

	// Format is the file extension for the audio encoding (e.g. "mp3").
	Format string

	// CharCount is the number of characters synthesized.
	CharCount int

	// Latency is the time the provider took to respond.
	Latency time.Duration
}
