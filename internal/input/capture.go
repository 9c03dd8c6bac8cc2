package input

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"sync"
	"syscall"

	"github.com/voxhire/voxhire/internal/audio"
	"github.com/voxhire/voxhire/internal/domain"
)

// Capture records audio from the default microphone. The device is held
// exclusively from Start until Stop; Stop releases it immediately and
// returns whatever was recorded.
type Capture interface {
	Start(ctx context.Context) error
	Stop() ([]byte, error)
}

// micCapture records a WAV clip by running the platform recorder process
// (sox's rec on darwin, arecord elsewhere) with stdout piped into memory.
type micCapture struct {
	mu   sync.Mutex
	cmd  *exec.Cmd
	buf  *clipBuffer
	errc chan error
}

// clipBuffer is written by the recorder's stdout copier and read by
// Snapshot while the recording is still running.
type clipBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *clipBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *clipBuffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]byte(nil), b.buf.Bytes()...)
}

// NewMicCapture returns the platform microphone capture.
func NewMicCapture() Capture {
	return &micCapture{}
}

func recorderCommand(ctx context.Context) *exec.Cmd {
	if runtime.GOOS == "darwin" {
		// 16 kHz mono 16-bit WAV to stdout.
		return exec.CommandContext(ctx, "rec", "-q", "-t", "wav", "-r", "16000", "-c", "1", "-b", "16", "-")
	}
	return exec.CommandContext(ctx, "arecord", "-q", "-f", "S16_LE", "-r", "16000", "-c", "1", "-t", "wav", "-")
}

func (m *micCapture) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cmd != nil {
		return nil
	}

	cmd := recorderCommand(ctx)
	buf := &clipBuffer{}
	stderr := &bytes.Buffer{}
	cmd.Stdout = buf
	cmd.Stderr = stderr

	if err := cmd.Start(); err != nil {
		return classifyDeviceError(err, stderr.String())
	}

	errc := make(chan error, 1)
	go func() {
		err := cmd.Wait()
		if err != nil && stderr.Len() > 0 {
			err = fmt.Errorf("%w: %s", err, strings.TrimSpace(stderr.String()))
		}
		errc <- err
	}()

	m.cmd = cmd
	m.buf = buf
	m.errc = errc
	return nil
}

func (m *micCapture) Stop() ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cmd == nil {
		return nil, nil
	}
	cmd, buf, errc := m.cmd, m.buf, m.errc
	m.cmd, m.buf, m.errc = nil, nil, nil

	// SIGINT lets the recorder finalize the WAV header before exiting.
	_ = cmd.Process.Signal(syscall.SIGINT)
	err := <-errc

	clip := buf.Bytes()
	if len(clip) == 0 && err != nil {
		return nil, classifyDeviceError(err, err.Error())
	}
	return clip, nil
}

// wavHeaderSize is the fixed header both recorders emit before the frames.
const wavHeaderSize = 44

// Snapshot returns the clip recorded so far as a well-formed WAV without
// stopping the device. The recorder streams to a pipe, so its own header
// carries placeholder sizes; the frames are rewrapped with real ones.
func (m *micCapture) Snapshot() ([]byte, error) {
	m.mu.Lock()
	buf := m.buf
	m.mu.Unlock()

	if buf == nil {
		return nil, nil
	}
	data := buf.Bytes()
	if len(data) <= wavHeaderSize {
		return nil, nil
	}
	return audio.EncodeWAV(data[wavHeaderSize:], audio.PCMParams{
		BitsPerSample: 16,
		SampleRate:    16000,
		Channels:      1,
	}), nil
}

// classifyDeviceError maps recorder failures onto the error taxonomy:
// permission problems disable the control, everything else is generic.
func classifyDeviceError(err error, detail string) error {
	lower := strings.ToLower(detail)
	if strings.Contains(lower, "permission") || strings.Contains(lower, "denied") || strings.Contains(lower, "busy") {
		return &domain.PermissionError{Device: "microphone", Err: err}
	}
	if execErr, ok := err.(*exec.Error); ok && execErr.Err == exec.ErrNotFound {
		return fmt.Errorf("no recorder available: %w", err)
	}
	return err
}
