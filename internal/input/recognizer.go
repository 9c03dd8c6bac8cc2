package input

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/voxhire/voxhire/internal/domain"
)

// Transcriber converts a recorded audio clip into text. The collaborator's
// transcribe call implements this.
type Transcriber interface {
	Transcribe(ctx context.Context, clip []byte) (string, error)
}

// Events receives the output of a recognition session. Partials only update
// a live preview and are never auto-submitted; the final transcript is
// delivered once per activation, on natural pause or stop.
type Events struct {
	// OnPartial receives interim transcripts of the clip recorded so far,
	// periodically while listening. Best-effort: failed interim passes are
	// dropped without an event.
	OnPartial func(text string)
	OnFinal   func(text string)
	// OnError receives only surfaced errors: permission denials and
	// generic recognition failures. Transient network errors are dropped.
	OnError func(err error)
}

// partialCapture is the optional capability of a Capture to expose the
// clip recorded so far without stopping the device. Captures that have it
// drive the interim preview.
type partialCapture interface {
	Snapshot() ([]byte, error)
}

// Recognizer is a restartable, non-continuous speech capture session.
// Starting while listening is a no-op; stopping while idle is a no-op.
// A permission denial disables the recognizer until Reset.
type Recognizer struct {
	capture         Capture
	transcriber     Transcriber
	events          Events
	logger          *slog.Logger
	partialInterval time.Duration

	mu           sync.Mutex
	listening    bool
	disabled     bool
	stopPartials chan struct{}
}

// NewRecognizer wires a capture device to a transcriber.
func NewRecognizer(capture Capture, transcriber Transcriber, events Events, logger *slog.Logger) *Recognizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recognizer{
		capture:         capture,
		transcriber:     transcriber,
		events:          events,
		logger:          logger,
		partialInterval: 2 * time.Second,
	}
}

// Listening reports whether a capture session is active.
func (r *Recognizer) Listening() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.listening
}

// Disabled reports whether capture was disabled by a permission denial.
func (r *Recognizer) Disabled() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.disabled
}

// Reset re-enables capture after a permission denial was resolved.
func (r *Recognizer) Reset() {
	r.mu.Lock()
	r.disabled = false
	r.mu.Unlock()
}

// Start acquires the microphone and begins a capture session. It is
// idempotent: starting while already listening does nothing.
func (r *Recognizer) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.listening || r.disabled {
		r.mu.Unlock()
		return nil
	}
	r.listening = true
	r.mu.Unlock()

	if err := r.capture.Start(ctx); err != nil {
		r.mu.Lock()
		r.listening = false
		r.mu.Unlock()
		r.dispatch(err)
		return err
	}

	if pc, ok := r.capture.(partialCapture); ok && r.events.OnPartial != nil {
		stop := make(chan struct{})
		r.mu.Lock()
		r.stopPartials = stop
		r.mu.Unlock()
		go r.streamPartials(ctx, pc, stop)
	}
	return nil
}

// streamPartials transcribes snapshots of the in-flight clip on a timer and
// feeds them to OnPartial until the activation stops. Previews that miss the
// stop are dropped so nothing trails the final transcript.
func (r *Recognizer) streamPartials(ctx context.Context, pc partialCapture, stop <-chan struct{}) {
	ticker := time.NewTicker(r.partialInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		clip, err := pc.Snapshot()
		if err != nil || len(clip) == 0 {
			continue
		}
		text, err := r.transcriber.Transcribe(ctx, clip)
		if err != nil {
			r.logger.Debug("interim transcription failed",
				slog.String("error", err.Error()))
			continue
		}

		select {
		case <-stop:
			return
		default:
		}
		if text != "" {
			r.events.OnPartial(text)
		}
	}
}

// Stop ends the capture session, releases the microphone immediately, and
// transcribes the recorded clip. It is idempotent: stopping while not
// listening does nothing.
func (r *Recognizer) Stop(ctx context.Context) {
	r.mu.Lock()
	if !r.listening {
		r.mu.Unlock()
		return
	}
	r.listening = false
	stop := r.stopPartials
	r.stopPartials = nil
	r.mu.Unlock()

	// End the preview loop before the final transcript is produced.
	if stop != nil {
		close(stop)
	}

	clip, err := r.capture.Stop()
	if err != nil {
		r.dispatch(err)
		return
	}
	if len(clip) == 0 {
		return
	}

	text, err := r.transcriber.Transcribe(ctx, clip)
	if err != nil {
		r.dispatch(err)
		return
	}
	if r.events.OnFinal != nil {
		r.events.OnFinal(text)
	}
}

// dispatch classifies a recognition error. Permission denials disable the
// recognizer and surface; network errors are transient and dropped;
// anything else surfaces as a generic recognition error.
func (r *Recognizer) dispatch(err error) {
	switch {
	case domain.IsPermissionError(err):
		r.mu.Lock()
		r.disabled = true
		r.mu.Unlock()
		r.logger.Warn("microphone permission denied; capture disabled")
		if r.events.OnError != nil {
			r.events.OnError(err)
		}
	case isNetworkError(err):
		r.logger.Debug("transient recognition network error ignored",
			slog.String("error", err.Error()))
	default:
		r.logger.Warn("recognition error", slog.String("error", err.Error()))
		if r.events.OnError != nil {
			r.events.OnError(err)
		}
	}
}

func isNetworkError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var ce *domain.CollaboratorError
	if errors.As(err, &ce) && ce.StatusCode == 0 {
		// A collaborator failure with no status code never reached the
		// server: transport-level, treat as transient.
		return true
	}
	return strings.Contains(err.Error(), "connection refused")
}
