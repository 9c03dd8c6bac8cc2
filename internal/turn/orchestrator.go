package turn

import (
	"context"
	"log/slog"
	"sync"

	"github.com/voxhire/voxhire/internal/domain"
	"github.com/voxhire/voxhire/internal/input"
	"github.com/voxhire/voxhire/internal/interview"
)

// Collaborator is the remote question-generation and scoring service.
// All methods are request/response; a non-2xx reply surfaces as
// *domain.CollaboratorError.
type Collaborator interface {
	StartSession(ctx context.Context, questionCount int) (welcome string, err error)
	NextQuestion(ctx context.Context, history []domain.Message, answer string, index int, candidate domain.Candidate) (string, error)
	Feedback(ctx context.Context, history []domain.Message) (string, error)
	Analytics(ctx context.Context, history []domain.Message) (*domain.Dashboard, map[string]float64, error)
}

// Narrator renders text as audible speech. Speak blocks until whichever
// playback tier produced output has finished, and returns exactly once.
type Narrator interface {
	// Unlock primes the audio output so autonomous playback is not
	// blocked. It runs once, on the user's explicit start action.
	Unlock(ctx context.Context) error
	// Speak narrates text, cancelling any in-flight utterance first.
	Speak(ctx context.Context, text string) error
	// Cancel stops any in-flight utterance.
	Cancel()
}

// Orchestrator wires the conversation state machine, the collaborator, and
// the playback pipeline together under the turn gate.
type Orchestrator struct {
	conv     *interview.Conversation
	collab   Collaborator
	narrator Narrator
	gate     Gate
	logger   *slog.Logger

	unlockOnce sync.Once
}

// New creates an orchestrator. The conversation starts in Setup.
func New(collab Collaborator, narrator Narrator, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		conv:     interview.New(),
		collab:   collab,
		narrator: narrator,
		logger:   logger,
	}
}

// Conversation exposes the state machine for display snapshots.
func (o *Orchestrator) Conversation() *interview.Conversation { return o.conv }

// Busy reports whether a turn is in flight.
func (o *Orchestrator) Busy() bool { return o.gate.Busy() }

// settle is the single authoritative "turn completed" transition. Every
// exit path of every gated operation routes through it; it releases the
// gate exactly once per turn.
func (o *Orchestrator) settle(once *sync.Once, err error) {
	once.Do(func() {
		if err != nil {
			o.logger.Warn("turn settled with error", slog.String("error", err.Error()))
		}
		o.gate.release()
	})
}

// Start runs the user's explicit start-interview action: it unlocks the
// audio output, obtains the welcome and first question from the
// collaborator, moves the conversation to Active, and narrates the opening.
// On collaborator failure the conversation stays in Setup and the error is
// surfaced.
func (o *Orchestrator) Start(ctx context.Context, candidate domain.Candidate, questionCount int) (err error) {
	if !o.gate.TryAcquire() {
		return domain.ErrGateBusy
	}
	var once sync.Once
	defer func() { o.settle(&once, err) }()

	// The start gesture is the one moment user intent is explicit, so the
	// audio unlock must happen here, before the first tier-2 attempt.
	o.unlockOnce.Do(func() {
		if uerr := o.narrator.Unlock(ctx); uerr != nil {
			o.logger.Warn("audio unlock failed", slog.String("error", uerr.Error()))
		}
	})

	welcome, err := o.collab.StartSession(ctx, questionCount)
	if err != nil {
		return err
	}
	first, err := o.collab.NextQuestion(ctx, nil, "", 1, candidate)
	if err != nil {
		return err
	}

	opening, err := o.conv.Begin(candidate, questionCount, welcome, first)
	if err != nil {
		return err
	}

	return o.narrate(ctx, opening)
}

// Submit runs one full turn: normalize -> gate -> append user message ->
// append placeholder -> collaborator call -> replace placeholder -> narrate.
// The gate spans both the network leg and the playback leg; it is released
// by settle only after narration concludes.
//
// Empty input and a busy gate are rejected before any state changes.
// A collaborator failure degrades the placeholder to the fixed apology and
// returns nil: the session stays active.
func (o *Orchestrator) Submit(ctx context.Context, raw string) (err error) {
	text, nerr := input.Normalize(raw)
	if nerr != nil {
		return nerr
	}
	if !o.gate.TryAcquire() {
		return domain.ErrGateBusy
	}
	var once sync.Once
	defer func() { o.settle(&once, err) }()

	if _, err = o.conv.AppendUser(text); err != nil {
		return err
	}
	placeholder, err := o.conv.AppendPlaceholder()
	if err != nil {
		return err
	}

	history := o.conv.Messages()
	// The opening question already went out as number 1, and QuestionNumber
	// counts only resolved follow-ups, so the wire index skips the opening.
	index := o.conv.Session().QuestionNumber + 2

	question, qerr := o.collab.NextQuestion(ctx, history, text, index, o.conv.Session().Candidate)

	var msg domain.Message
	if qerr != nil {
		o.logger.Warn("question generation failed",
			slog.Int("index", index),
			slog.String("error", qerr.Error()))
		if msg, err = o.conv.FailPlaceholder(placeholder.ID); err != nil {
			return err
		}
	} else {
		if msg, err = o.conv.ResolvePlaceholder(placeholder.ID, question); err != nil {
			return err
		}
	}

	// Append first, then narrate: the transcript must already show the new
	// question when narration begins.
	return o.narrate(ctx, msg)
}

// End finishes the session: Active -> Ending, feedback and analytics calls,
// then Feedback. An analytics failure still reaches Feedback using the
// feedback call's result alone; a feedback failure degrades to best-effort
// content.
func (o *Orchestrator) End(ctx context.Context) (err error) {
	if !o.gate.TryAcquire() {
		return domain.ErrGateBusy
	}
	var once sync.Once
	defer func() { o.settle(&once, err) }()

	o.narrator.Cancel()

	if err = o.conv.BeginEnding(); err != nil {
		return err
	}

	history := o.conv.Messages()
	report := &domain.Report{}

	feedback, ferr := o.collab.Feedback(ctx, history)
	if ferr != nil {
		o.logger.Warn("feedback call failed", slog.String("error", ferr.Error()))
		feedback = "Interview completed. Feedback is temporarily unavailable."
	}
	report.Feedback = feedback

	dashboard, difficulty, aerr := o.collab.Analytics(ctx, history)
	if aerr != nil {
		o.logger.Warn("analytics call failed", slog.String("error", aerr.Error()))
	} else {
		report.Dashboard = dashboard
		report.DifficultyScores = difficulty
	}

	return o.conv.CompleteFeedback(report)
}

// Restart cancels narration and returns the conversation to Setup.
func (o *Orchestrator) Restart() {
	o.narrator.Cancel()
	o.conv.Restart()
}

// narrate hands a message to the playback pipeline at most once per message
// ID and blocks until playback settles. Tier failures cascade inside the
// pipeline; only total exhaustion comes back here, and the gate is released
// by settle regardless.
func (o *Orchestrator) narrate(ctx context.Context, msg domain.Message) error {
	if !o.conv.MarkNarrated(msg.ID) {
		return nil
	}
	if err := o.narrator.Speak(ctx, msg.Text); err != nil {
		o.logger.Error("narration failed",
			slog.String("message_id", msg.ID),
			slog.String("error", err.Error()))
		return err
	}
	return nil
}
