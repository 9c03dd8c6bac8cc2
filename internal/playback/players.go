package playback

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
	"sync"

	"github.com/voxhire/voxhire/internal/audio"
)

// runner executes one player or synthesizer process at a time and lets the
// pipeline kill whatever is in flight. At most one utterance is audible at
// any moment.
type runner struct {
	mu  sync.Mutex
	cmd *exec.Cmd
}

func (r *runner) run(ctx context.Context, cmd *exec.Cmd) error {
	r.mu.Lock()
	r.cmd = cmd
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		r.cmd = nil
		r.mu.Unlock()
	}()

	stderr := &bytes.Buffer{}
	cmd.Stderr = stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if stderr.Len() > 0 {
			return fmt.Errorf("%w: %s", err, strings.TrimSpace(stderr.String()))
		}
		return err
	}
	return nil
}

// cancel kills the in-flight process, if any.
func (r *runner) cancel() {
	r.mu.Lock()
	cmd := r.cmd
	r.mu.Unlock()
	if cmd != nil && cmd.Process != nil {
		_ = cmd.Process.Kill()
	}
}

// elementPlayer plays a complete audio container (WAV) through the platform
// player process, the closest native equivalent of handing a source to a
// standard audio element.
type elementPlayer struct {
	r          *runner
	ffplayPath string
}

func newElementPlayer(r *runner, ffplayPath string) *elementPlayer {
	if ffplayPath == "" {
		ffplayPath = "ffplay"
	}
	return &elementPlayer{r: r, ffplayPath: ffplayPath}
}

func (p *elementPlayer) play(ctx context.Context, container []byte) error {
	cmd := exec.CommandContext(ctx, p.ffplayPath,
		"-autoexit", "-nodisp", "-loglevel", "error", "-i", "-")
	cmd.Stdin = bytes.NewReader(container)
	return p.r.run(ctx, cmd)
}

// rawPCMPlayer bypasses the container path: it is handed already-decoded
// sample frames and their format explicitly.
type rawPCMPlayer struct {
	r          *runner
	ffplayPath string
}

func newRawPCMPlayer(r *runner, ffplayPath string) *rawPCMPlayer {
	if ffplayPath == "" {
		ffplayPath = "ffplay"
	}
	return &rawPCMPlayer{r: r, ffplayPath: ffplayPath}
}

func (p *rawPCMPlayer) play(ctx context.Context, pcm []byte, params audio.PCMParams) error {
	if params.BitsPerSample != 16 {
		return fmt.Errorf("unsupported sample width %d", params.BitsPerSample)
	}
	cmd := exec.CommandContext(ctx, p.ffplayPath,
		"-autoexit", "-nodisp", "-loglevel", "error",
		"-f", "s16le",
		"-ar", strconv.Itoa(params.SampleRate),
		"-ac", strconv.Itoa(params.Channels),
		"-i", "-")
	cmd.Stdin = bytes.NewReader(pcm)
	return p.r.run(ctx, cmd)
}

// offlineSynth speaks text through the platform speech synthesizer,
// independent of the remote service. Rate is pinned to roughly 0.9x the
// default speaking rate, en-US voice.
type offlineSynth struct {
	r *runner
}

func newOfflineSynth(r *runner) *offlineSynth {
	return &offlineSynth{r: r}
}

func (s *offlineSynth) speak(ctx context.Context, text string) error {
	var cmd *exec.Cmd
	if runtime.GOOS == "darwin" {
		// say defaults to ~175 wpm.
		cmd = exec.CommandContext(ctx, "say", "-r", "160", text)
	} else {
		// espeak defaults to 175 wpm.
		cmd = exec.CommandContext(ctx, "espeak", "-v", "en-us", "-s", "160", text)
	}
	return s.r.run(ctx, cmd)
}
