package voice

import "fmt"

// SynthKind identifies a synthesizer backend.
type SynthKind string

const (
	// SynthOpenAI uses OpenAI's TTS endpoint.
	SynthOpenAI SynthKind = "openai"
	// SynthElevenLabs uses the ElevenLabs TTS API.
	SynthElevenLabs SynthKind = "elevenlabs"
)

// NewSynthesizer creates a synthesizer of the given kind.
func NewSynthesizer(kind SynthKind, opts ...Option) (Synthesizer, error) {
	switch kind {
	case SynthOpenAI, "", "legacy":
		return NewOpenAISpeech(opts...)
	case SynthElevenLabs:
		return NewElevenLabs(opts...)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSynth, kind)
	}
}
