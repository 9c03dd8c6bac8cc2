package playback

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"

	"github.com/voxhire/voxhire/internal/audio"
)

// Synthesizer requests synthesized audio bytes for a text from the remote
// voice-synthesis collaborator. An empty payload or non-audio content type
// signals "fall back".
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) (data []byte, contentType string, err error)
}

// Cache stores synthesized audio keyed by text so repeated prompts (the
// fixed welcome line) skip the remote call. Best-effort: errors degrade to
// a miss.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, contentType string, ok bool)
	Put(ctx context.Context, key string, data []byte, contentType string) error
}

// cacheKey derives the cache key for an utterance text.
func cacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// remoteTier fetches synthesized audio from the collaborator. It never
// produces audible output itself; success only means the byte-playing tiers
// have something to play.
type remoteTier struct {
	synth  Synthesizer
	cache  Cache
	logger *slog.Logger
}

func (t *remoteTier) Name() string { return "remote-synthesis" }

func (t *remoteTier) Attempt(ctx context.Context, utt *utterance) (bool, error) {
	key := cacheKey(utt.Text)
	if t.cache != nil {
		if data, contentType, ok := t.cache.Get(ctx, key); ok {
			utt.Audio = data
			utt.ContentType = contentType
			return false, nil
		}
	}

	data, contentType, err := t.synth.Synthesize(ctx, utt.Text)
	if err != nil {
		return false, err
	}
	if len(data) == 0 {
		return false, fmt.Errorf("synthesis returned empty payload")
	}
	if !strings.HasPrefix(contentType, "audio/") {
		return false, fmt.Errorf("synthesis returned non-audio content type %q", contentType)
	}

	utt.Audio = data
	utt.ContentType = contentType

	if t.cache != nil {
		if err := t.cache.Put(ctx, key, data, contentType); err != nil {
			t.logger.Debug("synthesis cache write failed", slog.String("error", err.Error()))
		}
	}
	return false, nil
}

// elementTier plays the fetched container bytes through the native player.
type elementTier struct {
	player *elementPlayer
}

func (t *elementTier) Name() string { return "native-element" }

func (t *elementTier) Attempt(ctx context.Context, utt *utterance) (bool, error) {
	if len(utt.Audio) == 0 {
		return false, errNoAudio
	}
	if err := t.player.play(ctx, utt.Audio); err != nil {
		return false, err
	}
	return true, nil
}

// rawDecodeTier decodes the same bytes into raw sample frames and plays
// them directly, bypassing the container abstraction.
type rawDecodeTier struct {
	player *rawPCMPlayer
}

func (t *rawDecodeTier) Name() string { return "raw-decode" }

func (t *rawDecodeTier) Attempt(ctx context.Context, utt *utterance) (bool, error) {
	if len(utt.Audio) == 0 {
		return false, errNoAudio
	}
	pcm, params, err := audio.DecodeWAV(utt.Audio)
	if err != nil {
		return false, fmt.Errorf("decode: %w", err)
	}
	if err := t.player.play(ctx, pcm, params); err != nil {
		return false, err
	}
	return true, nil
}

// offlineTier speaks the text with the local synthesizer, independent of
// the remote service. It is the last resort and takes no audio bytes.
type offlineTier struct {
	synth *offlineSynth
}

func (t *offlineTier) Name() string { return "offline-synthesis" }

func (t *offlineTier) Attempt(ctx context.Context, utt *utterance) (bool, error) {
	if err := t.synth.speak(ctx, utt.Text); err != nil {
		return false, err
	}
	return true, nil
}
