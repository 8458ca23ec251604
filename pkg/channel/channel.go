// Package channel drives the voice interaction from the scene's frame loop.
//
// The Controller owns a single background task slot for the voice pipeline
// and a small visible state machine (idle/recording/error). The surrounding
// scene calls Update every frame: the controller drains pending purchase
// requests so the main loop stays the only mutator of shop state, then polls
// the background task for completion and updates the scrollback log.
package channel

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/tavernworks/go-merchant/pkg/audioio"
	"github.com/tavernworks/go-merchant/pkg/bridge"
	"github.com/tavernworks/go-merchant/pkg/merchant"
	"github.com/tavernworks/go-merchant/pkg/shop"
	"github.com/tavernworks/go-merchant/pkg/voice"
)

const (
	speakerSystem  = "System"
	speakerVisitor = "You"

	statusIdle      = "Idle"
	statusListening = "Listening..."

	// maxLogLines bounds the scrollback log.
	maxLogLines = 10
)

// Entry is one scrollback log line.
type Entry struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
}

// taskResult is the single value a pipeline run produces.
type taskResult struct {
	transcript string
	reply      *merchant.Result
	audioPath  string
	err        error

	// silence marks an empty transcript, which is not a fault at all.
	silence bool

	// fatal marks a fault the state machine must not recover from on its
	// own. Per-interaction service errors go back to Idle; only a panicked
	// pipeline parks the channel in Error until a reset.
	fatal bool
}

// Controller coordinates the voice pipeline with the frame loop.
type Controller struct {
	engine    *voice.Engine
	assistant *merchant.Assistant
	bridge    *bridge.Bridge
	store     *shop.Shop
	player    audioio.Player
	logger    *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	taskCh chan *taskResult

	mu      sync.Mutex
	state   State
	status  string
	lines   []Entry
	total   int
	taskUp  bool
	discard bool
	closed  bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// NewController creates the channel controller and emits the greeting.
//
// A nil engine marks a failed voice setup: the controller starts in the
// Error state and stays there until the services are available, but the
// scene can still render its log.
func NewController(engine *voice.Engine, assistant *merchant.Assistant, br *bridge.Bridge, store *shop.Shop, player audioio.Player, opts ...Option) *Controller {
	ctx, cancel := context.WithCancel(context.Background())

	c := &Controller{
		engine:    engine,
		assistant: assistant,
		bridge:    br,
		store:     store,
		player:    player,
		logger:    slog.Default().With("component", "channel"),
		ctx:       ctx,
		cancel:    cancel,
		taskCh:    make(chan *taskResult, 1),
		state:     StateIdle,
		status:    statusIdle,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.appendLine(merchant.Persona, fmt.Sprintf("Welcome, %s! Tell me what you need or feel free to chat.", assistant.Visitor()))

	if engine == nil {
		c.state = StateError
		c.status = "Voice setup failed"
		c.appendLine(speakerSystem, "Voice setup failed")
		c.logger.Error("voice services unavailable, channel starts in error state")
	}

	return c
}

// StartInteraction triggers one capture-and-respond task.
//
// Triggering while a task is outstanding, while in Error, or after shutdown
// is a silent no-op: double-trigger is an expected race with input polling.
func (c *Controller) StartInteraction() {
	c.mu.Lock()
	if c.closed || c.taskUp || c.state != StateIdle {
		c.logger.Debug("interaction ignored", "state", c.state.String(), "task_up", c.taskUp)
		c.mu.Unlock()
		return
	}
	c.state = StateRecording
	c.status = statusListening
	c.taskUp = true
	ctx := c.ctx
	c.mu.Unlock()

	go c.runPipeline(ctx)
}

// runPipeline executes the capture, transcribe, respond, synthesize sequence
// on the background worker. Every failure is converted into the result value;
// nothing propagates as an unhandled fault.
func (c *Controller) runPipeline(ctx context.Context) {
	res := &taskResult{}
	defer func() {
		if r := recover(); r != nil {
			// Keep whatever the run produced so far; an executed trade
			// must still be reported.
			res.err = fmt.Errorf("channel: pipeline panic: %v", r)
			res.fatal = true
		}
		c.taskCh <- res
	}()

	heard, err := c.engine.RecordAndTranscribe(ctx)
	if err != nil {
		res.err = err
		return
	}
	if strings.TrimSpace(heard) == "" {
		res.silence = true
		return
	}
	res.transcript = heard

	reply, err := c.assistant.Process(ctx, heard, c.assistant.SessionID())
	// A failed reply can still carry an executed trade. Keep it.
	res.reply = reply
	if err != nil {
		res.err = err
		return
	}

	if reply.Text != "" {
		path, synthErr := c.engine.Speak(ctx, reply.Text)
		if synthErr != nil {
			// The text reply stands, only playback is skipped.
			c.logger.Warn("synthesis failed, skipping playback", "error", synthErr)
		} else {
			res.audioPath = path
		}
	}
}

// Update must be called once per frame before reading state. It drains all
// queued purchase requests, then polls the background task for completion.
func (c *Controller) Update() {
	for c.bridge.DrainOne(c.resolvePurchase) {
	}

	select {
	case res := <-c.taskCh:
		c.finish(res)
	default:
	}
}

// resolvePurchase runs on the frame loop, the only goroutine allowed to
// mutate gold, stock, and inventory.
func (c *Controller) resolvePurchase(rawName string) shop.PurchaseOutcome {
	return c.store.Resolve(rawName)
}

// finish applies a completed task to the log and state machine.
func (c *Controller) finish(res *taskResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.taskUp = false
	if c.closed || c.discard {
		// A reset or shutdown happened mid-task; the result is stale.
		c.discard = false
		c.logger.Debug("discarding stale task result")
		return
	}

	if res.transcript != "" {
		c.appendLineLocked(speakerVisitor, res.transcript)
	}
	if res.reply != nil && res.reply.Trade != nil {
		// The trade already happened; report it even if narration failed.
		c.appendLineLocked(speakerSystem, res.reply.Trade.Message)
	}

	switch {
	case res.silence:
		c.appendLineLocked(speakerSystem, "I could not hear you.")
		c.state = StateIdle
		c.status = statusIdle

	case res.err != nil:
		c.logger.Error("interaction failed", "error", res.err)
		c.appendLineLocked(speakerSystem, fmt.Sprintf("Voice error: %v", res.err))
		if res.fatal {
			c.state = StateError
			c.status = "Error"
		} else {
			// A per-interaction failure is not terminal; the visitor can
			// simply try again.
			c.state = StateIdle
			c.status = statusIdle
		}

	default:
		if res.reply != nil && res.reply.Text != "" {
			c.appendLineLocked(merchant.Persona, res.reply.Text)
		}
		c.state = StateIdle
		c.status = statusIdle
		if res.audioPath != "" && c.player != nil {
			go c.play(res.audioPath)
		}
	}
}

// play runs playback off the frame loop.
func (c *Controller) play(path string) {
	if err := c.player.Play(c.ctx, path); err != nil && c.ctx.Err() == nil {
		c.logger.Warn("playback failed", "path", path, "error", err)
	}
}

// ResetConversation clears the session history and the log, re-emits a
// greeting, and returns the channel to Idle.
func (c *Controller) ResetConversation() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	// Throw away any in-flight task's result.
	select {
	case <-c.taskCh:
		c.taskUp = false
	default:
	}
	if c.taskUp {
		c.discard = true
	}

	c.assistant.ResetConversation(c.assistant.SessionID())
	c.lines = nil
	c.total = 0
	c.appendLineLocked(merchant.Persona, "Let's start over. How can I help?")

	if c.engine == nil {
		c.state = StateError
		c.status = "Voice setup failed"
		return
	}
	c.state = StateIdle
	c.status = statusIdle
	c.logger.Info("conversation reset")
}

// Shutdown cancels any outstanding task (best-effort, non-blocking), releases
// the voice services, and deletes temporary audio artifacts. A task that is
// already running completes in the background and its result is discarded.
func (c *Controller) Shutdown() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	c.cancel()

	var err error
	if c.engine != nil {
		err = c.engine.Cleanup()
		if closeErr := c.engine.Recorder().Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}
	c.logger.Info("channel shut down")
	return err
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Status returns the current status string.
func (c *Controller) Status() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Log returns a snapshot of the scrollback log, oldest first.
func (c *Controller) Log() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Entry, len(c.lines))
	copy(out, c.lines)
	return out
}

// LogSince returns the lines appended after the given cursor, plus the new
// cursor. A stale cursor (from before a reset) yields the whole visible log.
func (c *Controller) LogSince(cursor int) ([]Entry, int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if cursor > c.total || cursor < 0 {
		cursor = 0
	}
	missed := c.total - cursor
	if missed > len(c.lines) {
		missed = len(c.lines)
	}
	out := make([]Entry, missed)
	copy(out, c.lines[len(c.lines)-missed:])
	return out, c.total
}

func (c *Controller) appendLine(speaker, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.appendLineLocked(speaker, text)
}

func (c *Controller) appendLineLocked(speaker, text string) {
	c.lines = append(c.lines, Entry{Speaker: speaker, Text: text})
	c.total++
	if len(c.lines) > maxLogLines {
		c.lines = c.lines[len(c.lines)-maxLogLines:]
	}
}
