package audioio

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
)

// Player plays an audio file through the speakers.
type Player interface {
	// Play plays the file at path, blocking until playback finishes or the
	// context is cancelled.
	Play(ctx context.Context, path string) error
}

// ExecPlayer plays audio through an external player process.
type ExecPlayer struct {
	logger *slog.Logger

	mu      sync.Mutex
	playing bool
}

// NewExecPlayer creates a player that shells out to the platform's audio
// player (afplay on macOS, aplay/mpg123/ffplay on Linux).
func NewExecPlayer(logger *slog.Logger) *ExecPlayer {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExecPlayer{logger: logger}
}

// Play runs the platform player and waits for it to exit.
func (p *ExecPlayer) Play(ctx context.Context, path string) error {
	name, args, err := playerCommand(path)
	if err != nil {
		return err
	}

	p.mu.Lock()
	p.playing = true
	p.mu.Unlock()
	defer func() {
		p.mu.Lock()
		p.playing = false
		p.mu.Unlock()
	}()

	p.logger.Debug("playing audio", "path", path, "player", name)

	cmd := exec.CommandContext(ctx, name, args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("audioio: %s failed: %w: %s", name, err, strings.TrimSpace(string(out)))
	}
	return nil
}

// IsPlaying reports whether a playback command is currently running.
func (p *ExecPlayer) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

// playerCommand picks a player binary for the file type and platform.
func playerCommand(path string) (string, []string, error) {
	ext := strings.ToLower(filepath.Ext(path))

	if runtime.GOOS == "darwin" {
		return "afplay", []string{path}, nil
	}

	switch ext {
	case ".wav":
		if _, err := exec.LookPath("aplay"); err == nil {
			return "aplay", []string{"-q", path}, nil
		}
	case ".mp3":
		if _, err := exec.LookPath("mpg123"); err == nil {
			return "mpg123", []string{"-q", path}, nil
		}
	}
	if _, err := exec.LookPath("ffplay"); err == nil {
		return "ffplay", []string{"-nodisp", "-autoexit", "-loglevel", "quiet", path}, nil
	}

	return "", nil, fmt.Errorf("audioio: no audio player found for %s (tried aplay, mpg123, ffplay)", ext)
}

// Ensure ExecPlayer implements Player.
var _ Player = (*ExecPlayer)(nil)
