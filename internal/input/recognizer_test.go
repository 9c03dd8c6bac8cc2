package input

import (
	"context"
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/voxhire/voxhire/internal/domain"
)

type fakeCapture struct {
	mu       sync.Mutex
	started  int
	stopped  int
	clip     []byte
	startErr error
	stopErr  error
}

func (f *fakeCapture) Start(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.startErr != nil {
		return f.startErr
	}
	f.started++
	return nil
}

func (f *fakeCapture) Stop() ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped++
	return f.clip, f.stopErr
}

type fakeTranscriber struct {
	text string
	err  error
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, clip []byte) (string, error) {
	return f.text, f.err
}

// fakePartialCapture adds snapshot support so the interim preview loop runs.
type fakePartialCapture struct {
	fakeCapture
	snapshot []byte
}

func (f *fakePartialCapture) Snapshot() ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshot, nil
}

type eventLog struct {
	mu       sync.Mutex
	partials []string
	finals   []string
	errs     []error
}

func (e *eventLog) events() Events {
	return Events{
		OnPartial: func(text string) {
			e.mu.Lock()
			e.partials = append(e.partials, text)
			e.mu.Unlock()
		},
		OnFinal: func(text string) {
			e.mu.Lock()
			e.finals = append(e.finals, text)
			e.mu.Unlock()
		},
		OnError: func(err error) {
			e.mu.Lock()
			e.errs = append(e.errs, err)
			e.mu.Unlock()
		},
	}
}

func (e *eventLog) partialCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.partials)
}

func (e *eventLog) errCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.errs)
}

func TestRecognizerSession(t *testing.T) {
	t.Run("final transcript delivered once per activation", func(t *testing.T) {
		capture := &fakeCapture{clip: []byte("wav")}
		log := &eventLog{}
		r := NewRecognizer(capture, &fakeTranscriber{text: "spoken answer"}, log.events(), nil)

		ctx := context.Background()
		if err := r.Start(ctx); err != nil {
			t.Fatalf("Start() error = %v", err)
		}
		if !r.Listening() {
			t.Error("should be listening after start")
		}

		r.Stop(ctx)
		if r.Listening() {
			t.Error("should not be listening after stop")
		}
		if len(log.finals) != 1 || log.finals[0] != "spoken answer" {
			t.Errorf("finals = %v, want one transcript", log.finals)
		}
	})

	t.Run("start while listening is a no-op", func(t *testing.T) {
		capture := &fakeCapture{clip: []byte("wav")}
		r := NewRecognizer(capture, &fakeTranscriber{text: "x"}, Events{}, nil)

		ctx := context.Background()
		r.Start(ctx)
		r.Start(ctx)
		if capture.started != 1 {
			t.Errorf("capture starts = %d, want 1", capture.started)
		}
	})

	t.Run("stop while idle is a no-op", func(t *testing.T) {
		capture := &fakeCapture{}
		r := NewRecognizer(capture, &fakeTranscriber{}, Events{}, nil)

		r.Stop(context.Background())
		if capture.stopped != 0 {
			t.Errorf("capture stops = %d, want 0", capture.stopped)
		}
	})

	t.Run("empty clip produces no final", func(t *testing.T) {
		capture := &fakeCapture{clip: nil}
		log := &eventLog{}
		r := NewRecognizer(capture, &fakeTranscriber{text: "ghost"}, log.events(), nil)

		ctx := context.Background()
		r.Start(ctx)
		r.Stop(ctx)
		if len(log.finals) != 0 {
			t.Errorf("finals = %v, want none for empty clip", log.finals)
		}
	})
}

func TestRecognizerPartials(t *testing.T) {
	t.Run("interim previews stream while listening", func(t *testing.T) {
		capture := &fakePartialCapture{
			fakeCapture: fakeCapture{clip: []byte("wav")},
			snapshot:    []byte("wav-so-far"),
		}
		log := &eventLog{}
		r := NewRecognizer(capture, &fakeTranscriber{text: "spoken ans"}, log.events(), nil)
		r.partialInterval = time.Millisecond

		ctx := context.Background()
		if err := r.Start(ctx); err != nil {
			t.Fatalf("Start() error = %v", err)
		}

		deadline := time.Now().Add(time.Second)
		for log.partialCount() == 0 {
			if time.Now().After(deadline) {
				t.Fatal("no interim preview delivered")
			}
			time.Sleep(time.Millisecond)
		}
		r.Stop(ctx)

		log.mu.Lock()
		first := log.partials[0]
		finals := len(log.finals)
		log.mu.Unlock()
		if first != "spoken ans" {
			t.Errorf("partial = %q, want interim transcript", first)
		}
		if finals != 1 {
			t.Errorf("finals = %d, want exactly one after stop", finals)
		}
	})

	t.Run("previews end when the activation stops", func(t *testing.T) {
		capture := &fakePartialCapture{
			fakeCapture: fakeCapture{clip: []byte("wav")},
			snapshot:    []byte("wav-so-far"),
		}
		log := &eventLog{}
		r := NewRecognizer(capture, &fakeTranscriber{text: "x"}, log.events(), nil)
		r.partialInterval = time.Millisecond

		ctx := context.Background()
		r.Start(ctx)
		r.Stop(ctx)

		settled := log.partialCount()
		time.Sleep(20 * time.Millisecond)
		if got := log.partialCount(); got != settled {
			t.Errorf("partials = %d after stop, want stable %d", got, settled)
		}
	})

	t.Run("interim transcription failures stay silent", func(t *testing.T) {
		// No clip on stop, so the only transcription attempts are interim.
		capture := &fakePartialCapture{snapshot: []byte("wav-so-far")}
		log := &eventLog{}
		r := NewRecognizer(capture, &fakeTranscriber{err: errors.New("decode failure")}, log.events(), nil)
		r.partialInterval = time.Millisecond

		ctx := context.Background()
		r.Start(ctx)
		time.Sleep(10 * time.Millisecond)
		r.Stop(ctx)

		if got := log.errCount(); got != 0 {
			t.Errorf("errs = %d, want interim failures dropped", got)
		}
		if log.partialCount() != 0 {
			t.Error("failed interim passes must not produce previews")
		}
	})

	t.Run("capture without snapshots never previews", func(t *testing.T) {
		capture := &fakeCapture{clip: []byte("wav")}
		log := &eventLog{}
		r := NewRecognizer(capture, &fakeTranscriber{text: "x"}, log.events(), nil)
		r.partialInterval = time.Millisecond

		ctx := context.Background()
		r.Start(ctx)
		time.Sleep(10 * time.Millisecond)
		r.Stop(ctx)

		if log.partialCount() != 0 {
			t.Errorf("partials = %d, want none without snapshot support", log.partialCount())
		}
	})
}

func TestRecognizerErrorTaxonomy(t *testing.T) {
	t.Run("permission denial disables and surfaces", func(t *testing.T) {
		capture := &fakeCapture{startErr: &domain.PermissionError{Device: "microphone", Err: errors.New("denied")}}
		log := &eventLog{}
		r := NewRecognizer(capture, &fakeTranscriber{}, log.events(), nil)

		if err := r.Start(context.Background()); err == nil {
			t.Fatal("Start() should fail on permission denial")
		}
		if !r.Disabled() {
			t.Error("recognizer should be disabled after permission denial")
		}
		if len(log.errs) != 1 || !domain.IsPermissionError(log.errs[0]) {
			t.Errorf("errs = %v, want surfaced permission error", log.errs)
		}

		// Disabled means further starts do nothing until reset.
		if err := r.Start(context.Background()); err != nil {
			t.Errorf("Start() while disabled = %v, want silent no-op", err)
		}
		if r.Listening() {
			t.Error("disabled recognizer must not listen")
		}

		r.Reset()
		if r.Disabled() {
			t.Error("Reset() should re-enable capture")
		}
	})

	t.Run("network error is dropped silently", func(t *testing.T) {
		capture := &fakeCapture{clip: []byte("wav")}
		log := &eventLog{}
		netErr := &net.OpError{Op: "dial", Err: errors.New("connection refused")}
		r := NewRecognizer(capture, &fakeTranscriber{err: netErr}, log.events(), nil)

		ctx := context.Background()
		r.Start(ctx)
		r.Stop(ctx)

		if len(log.errs) != 0 {
			t.Errorf("errs = %v, want transient network error dropped", log.errs)
		}
		if r.Disabled() {
			t.Error("network error must not disable the recognizer")
		}
	})

	t.Run("transport-level collaborator failure is dropped", func(t *testing.T) {
		capture := &fakeCapture{clip: []byte("wav")}
		log := &eventLog{}
		r := NewRecognizer(capture, &fakeTranscriber{err: &domain.CollaboratorError{Call: "transcribe", StatusCode: 0, Err: errors.New("dial tcp")}}, log.events(), nil)

		ctx := context.Background()
		r.Start(ctx)
		r.Stop(ctx)

		if len(log.errs) != 0 {
			t.Errorf("errs = %v, want transport failure dropped", log.errs)
		}
	})

	t.Run("other errors surface generically", func(t *testing.T) {
		capture := &fakeCapture{clip: []byte("wav")}
		log := &eventLog{}
		r := NewRecognizer(capture, &fakeTranscriber{err: errors.New("decode failure")}, log.events(), nil)

		ctx := context.Background()
		r.Start(ctx)
		r.Stop(ctx)

		if len(log.errs) != 1 {
			t.Fatalf("errs = %v, want one surfaced error", log.errs)
		}
		if domain.IsPermissionError(log.errs[0]) {
			t.Error("generic error must not be a permission error")
		}
		if r.Disabled() {
			t.Error("generic error must not disable the recognizer")
		}
	})
}

func TestRecognizerRestartable(t *testing.T) {
	capture := &fakeCapture{clip: []byte("wav")}
	log := &eventLog{}
	r := NewRecognizer(capture, &fakeTranscriber{text: "again"}, log.events(), nil)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if err := r.Start(ctx); err != nil {
			t.Fatalf("Start() #%d error = %v", i, err)
		}
		r.Stop(ctx)
	}
	if len(log.finals) != 3 {
		t.Errorf("finals = %d, want 3 (one per activation)", len(log.finals))
	}
}
