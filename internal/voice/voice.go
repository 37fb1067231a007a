// Package voice wraps speech capture and playback behind a simple
// capability-gated adapter. When the platform lacks recognition the
// capture path does not exist at all; when it lacks synthesis, playback
// is silently skipped.
package voice

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"sync"

	"github.com/gbyperovo-dot/dental-clinic-bot/internal/config"
	"github.com/gbyperovo-dot/dental-clinic-bot/internal/markdown"
)

// State is the capture state machine: Idle --Start--> Listening
// --(result | error | stop)--> Idle.
type State int

const (
	Idle State = iota
	Listening
)

// Recognizer captures one utterance and returns its transcript.
// An empty transcript with a nil error means no speech was recognized.
type Recognizer interface {
	Listen(ctx context.Context) (string, error)
	Close() error
}

// Speaker plays back text. Implementations strip markup themselves and
// return immediately; overlapping calls are left to the platform.
type Speaker interface {
	Speak(text string)
}

// IO is the resolved voice capability for this process.
// Recognizer is nil when capture is unavailable.
type IO struct {
	recognizer Recognizer
	speaker    Speaker
	log        *slog.Logger

	mu    sync.Mutex
	state State
}

// Detect resolves the voice capability once at startup. Capture needs
// both speech credentials and a recorder binary on PATH; playback needs
// a synthesis binary. Neither absence is an error.
func Detect(ctx context.Context, cfg config.Config, logger *slog.Logger) *IO {
	if logger == nil {
		logger = slog.Default()
	}
	io := &IO{speaker: detectSpeaker(logger), log: logger}

	rec, err := newGoogleRecognizer(ctx, cfg, logger)
	if err != nil {
		logger.Info("speech capture unavailable", "reason", err)
		return io
	}
	io.recognizer = rec
	return io
}

// CanListen reports whether a capture path exists.
func (v *IO) CanListen() bool { return v.recognizer != nil }

// State returns the current capture state.
func (v *IO) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Capture runs one Idle -> Listening -> Idle cycle and returns the
// trimmed transcript. It fails when capture is unavailable or already
// running; recognition errors also reset the state to Idle.
func (v *IO) Capture(ctx context.Context) (string, error) {
	if v.recognizer == nil {
		return "", fmt.Errorf("speech capture unavailable")
	}

	v.mu.Lock()
	if v.state == Listening {
		v.mu.Unlock()
		return "", fmt.Errorf("already listening")
	}
	v.state = Listening
	v.mu.Unlock()

	defer func() {
		v.mu.Lock()
		v.state = Idle
		v.mu.Unlock()
	}()

	return v.recognizer.Listen(ctx)
}

// Speak plays back text when synthesis exists, otherwise does nothing.
func (v *IO) Speak(text string) {
	if v.speaker == nil {
		return
	}
	v.speaker.Speak(text)
}

// Close releases the recognizer, if any.
func (v *IO) Close() error {
	if v.recognizer == nil {
		return nil
	}
	return v.recognizer.Close()
}

// detectSpeaker probes for a synthesis binary. Nil means playback is
// skipped.
func detectSpeaker(logger *slog.Logger) Speaker {
	for _, candidate := range [][]string{
		{"say"},
		{"espeak"},
		{"spd-say"},
	} {
		if path, err := exec.LookPath(candidate[0]); err == nil {
			return &execSpeaker{bin: path, log: logger}
		}
	}
	return nil
}

// execSpeaker shells out to a local text-to-speech binary.
type execSpeaker struct {
	bin string
	log *slog.Logger
}

// Speak strips markup and starts the synthesis process without waiting
// for it.
func (s *execSpeaker) Speak(text string) {
	plain := markdown.Strip(text)
	if plain == "" {
		return
	}
	cmd := exec.Command(s.bin, plain)
	if err := cmd.Start(); err != nil {
		s.log.Warn("speech synthesis failed", "error", err)
		return
	}
	go func() { _ = cmd.Wait() }()
}
