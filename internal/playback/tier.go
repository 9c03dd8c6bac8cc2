// Package playback renders text as spoken audio through a fixed fallback
// chain: remote synthesis, native player, raw PCM decode, offline local
// synthesis. First success wins; every failure cascades to the next tier.
package playback

import (
	"context"
	"errors"
)

// utterance is the shared state threaded through the tier chain. The remote
// tier fills Audio; the playing tiers consume it.
type utterance struct {
	Text        string
	Audio       []byte
	ContentType string
}

// errNoAudio makes the byte-playing tiers cascade when the remote tier
// produced nothing to play.
var errNoAudio = errors.New("no synthesized audio available")

// Tier is one strategy in the fallback chain.
//
// Attempt returns played=true when the tier produced audible output and the
// chain should settle. A tier that only prepares state (remote synthesis)
// returns played=false with a nil error so the chain continues. Any error
// cascades to the next tier; each tier is attempted at most once per
// utterance.
type Tier interface {
	Name() string
	Attempt(ctx context.Context, utt *utterance) (played bool, err error)
}
