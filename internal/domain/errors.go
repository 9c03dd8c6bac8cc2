package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors recovered locally, before any network call is made.
var (
	// ErrEmptyInput is returned when a submission trims to nothing.
	// It blocks the turn without touching the gate or the network.
	ErrEmptyInput = errors.New("input is empty")

	// ErrGateBusy is returned when a turn is already in flight.
	ErrGateBusy = errors.New("a turn is already in progress")
)

// CollaboratorError wraps any failed call to the interview backend.
// The turn that triggered it degrades to a fallback message; the session
// stays active and the gate still releases.
type CollaboratorError struct {
	Call       string
	StatusCode int
	Err        error
}

func (e *CollaboratorError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("collaborator %s failed (status %d): %v", e.Call, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("collaborator %s failed: %v", e.Call, e.Err)
}

func (e *CollaboratorError) Unwrap() error { return e.Err }

// IsCollaboratorError reports whether err is a collaborator failure.
func IsCollaboratorError(err error) bool {
	var ce *CollaboratorError
	return errors.As(err, &ce)
}

// PlaybackError is returned when every playback tier has been exhausted.
// Individual tier failures cascade silently; only total exhaustion is
// surfaced, and even then the gate is released.
type PlaybackError struct {
	// TierErrors holds the failure of each attempted tier, in attempt order.
	TierErrors []error
}

func (e *PlaybackError) Error() string {
	return fmt.Sprintf("all %d playback tiers failed: %v", len(e.TierErrors), errors.Join(e.TierErrors...))
}

func (e *PlaybackError) Unwrap() error { return errors.Join(e.TierErrors...) }

// PermissionError reports that a capture device was denied.
// The affected control is disabled and a persistent banner is surfaced.
type PermissionError struct {
	Device string // "microphone" or "camera"
	Err    error
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("%s access denied: %v", e.Device, e.Err)
}

func (e *PermissionError) Unwrap() error { return e.Err }

// IsPermissionError reports whether err is a device permission denial.
func IsPermissionError(err error) bool {
	var pe *PermissionError
	return errors.As(err, &pe)
}
