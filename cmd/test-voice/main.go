// Command test-voice exercises the capture, transcription, and synthesis
// stages in isolation. Run it to verify the microphone and API keys before
// opening the shop.
//
// Usage:
//
//	OPENAI_API_KEY=sk-... go run ./cmd/test-voice
//	go run ./cmd/test-voice -mock -seconds 2
//
// Environment variables:
//
//	OPENAI_API_KEY      - transcription and default TTS
//	TTS_MODEL           - "legacy" (default) or "elevenlabs"
//	ELEVENLABS_API_KEY  - for the elevenlabs backend
//	ELEVENLABS_VOICE_ID - for the elevenlabs backend
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/tavernworks/go-merchant/internal/config"
	"github.com/tavernworks/go-merchant/internal/log"
	"github.com/tavernworks/go-merchant/pkg/audioio"
	"github.com/tavernworks/go-merchant/pkg/voice"
)

func main() {
	godotenv.Load()

	mock := flag.Bool("mock", false, "use mock audio and speech services")
	seconds := flag.Float64("seconds", config.RecordSeconds(), "capture window in seconds")
	say := flag.String("say", "The forge is hot and the prices are fair.", "text to synthesize")
	flag.Parse()

	log.Init("debug")

	srcCfg := audioio.DefaultConfig()
	if *mock {
		srcCfg.Backend = audioio.BackendMock
	}
	src, err := audioio.NewSource(srcCfg, nil)
	if err != nil {
		fail("audio source", err)
	}

	recorder, err := voice.NewRecorder(src, time.Duration(*seconds*float64(time.Second)), nil)
	if err != nil {
		fail("recorder", err)
	}

	var (
		transcriber voice.Transcriber
		synth       voice.Synthesizer
		player      audioio.Player
	)
	if *mock {
		transcriber = &voice.MockTranscriber{Text: "(mock transcript)"}
		synth = &voice.MockSynthesizer{}
		player = &audioio.MockPlayer{}
	} else {
		transcriber, err = voice.NewOpenAITranscriber(
			voice.WithAPIKey(config.OpenAIAPIKey()),
			voice.WithModel(config.TranscriptionModel()),
		)
		if err != nil {
			fail("transcriber", err)
		}
		kind := voice.SynthOpenAI
		opts := []voice.Option{voice.WithAPIKey(config.OpenAIAPIKey()), voice.WithVoice(config.TTSVoice())}
		if config.TTSModel() == "elevenlabs" {
			kind = voice.SynthElevenLabs
			opts = []voice.Option{voice.WithAPIKey(config.ElevenLabsAPIKey()), voice.WithVoice(config.ElevenLabsVoiceID())}
		}
		synth, err = voice.NewSynthesizer(kind, opts...)
		if err != nil {
			fail("synthesizer", err)
		}
		player = audioio.NewExecPlayer(nil)
	}

	engine, err := voice.NewEngine(recorder, transcriber, synth)
	if err != nil {
		fail("engine", err)
	}
	defer engine.Cleanup()

	ctx := context.Background()

	fmt.Printf("🎤 Recording %.1fs...\n", *seconds)
	start := time.Now()
	text, err := engine.RecordAndTranscribe(ctx)
	if err != nil {
		fail("record and transcribe", err)
	}
	fmt.Printf("   Transcript (%.1fs): %q\n", time.Since(start).Seconds(), text)

	fmt.Printf("🔊 Synthesizing: %q\n", *say)
	start = time.Now()
	path, err := engine.Speak(ctx, *say)
	if err != nil {
		fail("synthesize", err)
	}
	fmt.Printf("   Audio ready (%.1fs): %s\n", time.Since(start).Seconds(), path)

	if err := player.Play(ctx, path); err != nil {
		fail("playback", err)
	}
	fmt.Println("✅ Voice pipeline OK")
}

func fail(stage string, err error) {
	fmt.Fprintf(os.Stderr, "❌ %s: %v\n", stage, err)
	os.Exit(1)
}
