// Command shop runs the voice-driven merchant stall.
//
// It wires the full loop: microphone capture, transcription, intent
// classification, reply generation, speech synthesis, and the per-frame
// channel controller that owns the purchase bridge. A small HTTP dashboard
// exposes the channel state, log, and catalog.
//
// Usage:
//
//	OPENAI_API_KEY=sk-... go run ./cmd/shop
//	go run ./cmd/shop -mock            # no API keys, no microphone
//	go run ./cmd/shop -name Arden -seconds 3
//
// Controls (stdin): t = talk, r = reset conversation, q = quit.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/tavernworks/go-merchant/internal/config"
	"github.com/tavernworks/go-merchant/internal/log"
	"github.com/tavernworks/go-merchant/pkg/audioio"
	"github.com/tavernworks/go-merchant/pkg/bridge"
	"github.com/tavernworks/go-merchant/pkg/channel"
	"github.com/tavernworks/go-merchant/pkg/merchant"
	"github.com/tavernworks/go-merchant/pkg/shop"
	"github.com/tavernworks/go-merchant/pkg/voice"
	"github.com/tavernworks/go-merchant/pkg/web"
)

const frameRate = 30

func main() {
	godotenv.Load()

	mock := flag.Bool("mock", false, "run with mock audio and language services")
	name := flag.String("name", "traveler", "visitor name the merchant addresses")
	seconds := flag.Float64("seconds", config.RecordSeconds(), "capture window in seconds")
	dashboard := flag.Bool("dashboard", true, "serve the status dashboard")
	level := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()

	log.Init(*level)
	logger := log.L()

	store := shop.New(shop.DefaultCatalog(), shop.DefaultStock(), shop.NewPlayer(*name, 100))
	br := bridge.New()

	assistant, err := buildAssistant(store, br, *name, *mock)
	if err != nil {
		logger.Error("assistant setup failed", "error", err)
		os.Exit(1)
	}

	// A failed voice setup still opens the stall; the channel reports the
	// error state and the dashboard stays usable.
	engine, player, err := buildVoice(*seconds, *mock)
	if err != nil {
		logger.Error("voice setup failed", "error", err)
		engine = nil
	}

	controller := channel.NewController(engine, assistant, br, store, player)
	defer controller.Shutdown()

	var server *web.Server
	if *dashboard {
		server = web.NewServer(config.DashboardPort(), controller, store)
		server.StartAsync()
		defer server.Shutdown()
	}

	fmt.Printf("🏪 Merchant stall open. Visitor: %s. Gold: %d\n", *name, store.Player.Gold)
	fmt.Println("   t = talk, r = reset, q = quit")

	commands := readCommands()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(time.Second / frameRate)
	defer ticker.Stop()

	cursor := 0
	for {
		select {
		case <-ticker.C:
			controller.Update()
			cursor = printNewLines(controller, cursor)

		case cmd := <-commands:
			switch cmd {
			case "t":
				controller.StartInteraction()
			case "r":
				controller.ResetConversation()
				cursor = printNewLines(controller, 0)
			case "q":
				logger.Info("goodbye")
				return
			}

		case <-sig:
			logger.Info("shutting down")
			return
		}
	}
}

// buildAssistant wires the orchestrator with real or mock language services.
func buildAssistant(store *shop.Shop, br *bridge.Bridge, name string, mock bool) (*merchant.Assistant, error) {
	purchase := func(rawName string) (shop.PurchaseOutcome, error) {
		return br.Submit(rawName)
	}

	if mock {
		return merchant.NewAssistant(store.Catalog, purchase,
			merchant.WithClassifier(&merchant.MockClassifier{}),
			merchant.WithResponder(&merchant.MockResponder{Text: "A pleasure to chat, friend."}),
			merchant.WithVisitorName(name),
		)
	}

	chat, err := merchant.NewOpenAIChat(
		merchant.WithAPIKey(config.OpenAIAPIKey()),
		merchant.WithModel(config.ChatModel()),
	)
	if err != nil {
		return nil, err
	}

	return merchant.NewAssistant(store.Catalog, purchase,
		merchant.WithClassifier(chat),
		merchant.WithResponder(chat),
		merchant.WithVisitorName(name),
	)
}

// buildVoice wires capture, transcription, and synthesis.
func buildVoice(seconds float64, mock bool) (*voice.Engine, audioio.Player, error) {
	srcCfg := audioio.DefaultConfig()
	if mock {
		srcCfg.Backend = audioio.BackendMock
	}

	src, err := audioio.NewSource(srcCfg, nil)
	if err != nil {
		return nil, nil, err
	}

	duration := time.Duration(seconds * float64(time.Second))
	recorder, err := voice.NewRecorder(src, duration, nil)
	if err != nil {
		return nil, nil, err
	}

	if mock {
		engine, err := voice.NewEngine(recorder, &voice.MockTranscriber{Text: "just browsing"}, &voice.MockSynthesizer{})
		return engine, &audioio.MockPlayer{}, err
	}

	transcriber, err := voice.NewOpenAITranscriber(
		voice.WithAPIKey(config.OpenAIAPIKey()),
		voice.WithModel(config.TranscriptionModel()),
	)
	if err != nil {
		return nil, nil, err
	}

	synth, err := buildSynthesizer()
	if err != nil {
		return nil, nil, err
	}

	engine, err := voice.NewEngine(recorder, transcriber, synth)
	return engine, audioio.NewExecPlayer(nil), err
}

// buildSynthesizer picks the TTS backend from the environment.
func buildSynthesizer() (voice.Synthesizer, error) {
	if config.TTSModel() == "elevenlabs" {
		return voice.NewSynthesizer(voice.SynthElevenLabs,
			voice.WithAPIKey(config.ElevenLabsAPIKey()),
			voice.WithVoice(config.ElevenLabsVoiceID()),
		)
	}
	return voice.NewSynthesizer(voice.SynthOpenAI,
		voice.WithAPIKey(config.OpenAIAPIKey()),
		voice.WithVoice(config.TTSVoice()),
	)
}

// readCommands forwards trimmed stdin lines to a channel.
func readCommands() <-chan string {
	out := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			cmd := strings.ToLower(strings.TrimSpace(scanner.Text()))
			if cmd != "" {
				out <- cmd
			}
		}
	}()
	return out
}

// printNewLines echoes log lines added since the last frame.
func printNewLines(c *channel.Controller, cursor int) int {
	lines, next := c.LogSince(cursor)
	for _, e := range lines {
		fmt.Printf("%s: %s\n", e.Speaker, e.Text)
	}
	return next
}
