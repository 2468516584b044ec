package gate

import (
	"sync"
	"time"
)

// Status is a point-in-time snapshot of the gate and its counters.
type Status struct {
	Busy            bool
	CancelRequested bool
	TotalSent       int64
	SentToday       int64
}

// Gate is a single-flight guard around the send pipeline. At most one
// send owns the gate at a time; concurrent callers are rejected, not
// queued. Cancellation is a flag the owner polls at checkpoints.
type Gate struct {
	mu              sync.Mutex
	busy            bool
	cancelRequested bool
	totalSent       int64
	sentToday       int64
	day             string

	now func() time.Time
}

// New constructs an idle gate with zeroed counters.
func New() *Gate {
	return &Gate{now: time.Now}
}

// TryAcquire claims the gate if it is free. It returns true when the
// caller now owns the gate and must call Release on every exit path.
func (g *Gate) TryAcquire() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.busy {
		return false
	}
	g.busy = true
	g.cancelRequested = false
	return true
}

// RequestCancel flags the in-flight send for cooperative cancellation.
// It returns false when no send is in flight.
func (g *Gate) RequestCancel() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.busy {
		return false
	}
	g.cancelRequested = true
	return true
}

// CancelRequested reports whether cancellation has been requested for
// the in-flight send.
func (g *Gate) CancelRequested() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.cancelRequested
}

// Release frees the gate and clears any pending cancellation request.
// Must be called exactly once per successful TryAcquire.
func (g *Gate) Release() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.busy = false
	g.cancelRequested = false
}

// RecordSent increments the counters for one delivered email and
// returns the new lifetime total.
func (g *Gate) RecordSent() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.rollDayLocked()
	g.totalSent++
	g.sentToday++
	return g.totalSent
}

// Snapshot returns the current gate state and counters.
func (g *Gate) Snapshot() Status {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.rollDayLocked()
	return Status{
		Busy:            g.busy,
		CancelRequested: g.cancelRequested,
		TotalSent:       g.totalSent,
		SentToday:       g.sentToday,
	}
}

// rollDayLocked resets the daily counter when the calendar day changes.
// Caller must hold g.mu.
func (g *Gate) rollDayLocked() {
	day := g.now().Format("2006-01-02")
	if day != g.day {
		g.day = day
		g.sentToday = 0
	}
}
