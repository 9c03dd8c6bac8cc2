// Package turn drives one full interview exchange: answer in, question out,
// narration played, under a single mutual-exclusion gate.
package turn

import "sync"

// Gate is the busy signal preventing overlapping turns. It is acquired
// before any operation that must not overlap with another, and released
// only when the entire turn (network leg and playback leg) has concluded.
type Gate struct {
	mu   sync.Mutex
	busy bool
}

// TryAcquire marks the gate busy. It returns false when a turn is already
// in flight.
func (g *Gate) TryAcquire() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.busy {
		return false
	}
	g.busy = true
	return true
}

// Busy reports whether a turn is in flight.
func (g *Gate) Busy() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.busy
}

// release clears the gate. Only the orchestrator's settle path calls this;
// no other code may touch it.
func (g *Gate) release() {
	g.mu.Lock()
	g.busy = false
	g.mu.Unlock()
}
