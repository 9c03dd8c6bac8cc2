package playback

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/voxhire/voxhire/internal/audio"
	"github.com/voxhire/voxhire/internal/domain"
)

// Option configures the pipeline.
type Option func(*Pipeline)

// WithFFPlayPath overrides the player binary.
func WithFFPlayPath(path string) Option {
	return func(p *Pipeline) { p.ffplayPath = path }
}

// WithCache attaches a synthesis cache to the remote tier.
func WithCache(cache Cache) Option {
	return func(p *Pipeline) { p.cache = cache }
}

// WithTiers replaces the tier chain. Tests use this to observe the cascade.
func WithTiers(tiers ...Tier) Option {
	return func(p *Pipeline) { p.tiers = tiers }
}

// Pipeline renders text as spoken audio with graceful degradation across an
// ordered tier chain, guaranteeing a single completion/failure signal per
// utterance.
type Pipeline struct {
	tiers      []Tier
	runner     *runner
	logger     *slog.Logger
	cache      Cache
	ffplayPath string

	mu        sync.Mutex
	cancelCur context.CancelFunc
}

// New builds the standard four-tier chain: remote synthesis, native element
// playback, raw decode, offline local synthesis.
func New(synth Synthesizer, logger *slog.Logger, opts ...Option) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Pipeline{
		runner: &runner{},
		logger: logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.tiers == nil {
		element := newElementPlayer(p.runner, p.ffplayPath)
		raw := newRawPCMPlayer(p.runner, p.ffplayPath)
		offline := newOfflineSynth(p.runner)
		p.tiers = []Tier{
			&remoteTier{synth: synth, cache: p.cache, logger: logger},
			&elementTier{player: element},
			&rawDecodeTier{player: raw},
			&offlineTier{synth: offline},
		}
	}
	return p
}

// Unlock primes the audio output with a short burst of silence so the first
// autonomous playback of the session is not blocked by the platform. It
// runs on the user's explicit start gesture, before any element attempt.
func (p *Pipeline) Unlock(ctx context.Context) error {
	player := newElementPlayer(p.runner, p.ffplayPath)
	if err := player.play(ctx, audio.SilentWAV(1)); err != nil {
		return fmt.Errorf("audio unlock: %w", err)
	}
	return nil
}

// Speak narrates text and blocks until whichever tier produced audible
// output has finished. Any in-flight utterance is cancelled first. Tier
// failures cascade in fixed order, each tier attempted exactly once; only
// total exhaustion returns an error, as *domain.PlaybackError.
func (p *Pipeline) Speak(ctx context.Context, text string) error {
	ctx = p.begin(ctx)
	defer p.finish()

	utt := &utterance{Text: text}
	var tierErrs []error

	for _, tier := range p.tiers {
		played, err := tier.Attempt(ctx, utt)
		if err != nil {
			if ctx.Err() != nil {
				// Cancelled by a newer utterance; settle quietly.
				return ctx.Err()
			}
			p.logger.Debug("playback tier failed",
				slog.String("tier", tier.Name()),
				slog.String("error", err.Error()))
			tierErrs = append(tierErrs, fmt.Errorf("%s: %w", tier.Name(), err))
			continue
		}
		if played {
			p.logger.Debug("playback complete", slog.String("tier", tier.Name()))
			return nil
		}
	}

	return &domain.PlaybackError{TierErrors: tierErrs}
}

// Cancel stops any in-flight utterance.
func (p *Pipeline) Cancel() {
	p.mu.Lock()
	cancel := p.cancelCur
	p.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	p.runner.cancel()
}

// begin cancels the previous utterance and registers the new one. At most
// one utterance is active at any time.
func (p *Pipeline) begin(ctx context.Context) context.Context {
	p.mu.Lock()
	prev := p.cancelCur
	p.mu.Unlock()
	if prev != nil {
		prev()
	}
	p.runner.cancel()

	ctx, cancel := context.WithCancel(ctx)
	p.mu.Lock()
	p.cancelCur = cancel
	p.mu.Unlock()
	return ctx
}

func (p *Pipeline) finish() {
	p.mu.Lock()
	if p.cancelCur != nil {
		p.cancelCur()
		p.cancelCur = nil
	}
	p.mu.Unlock()
}
