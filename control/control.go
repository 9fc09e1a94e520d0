// control.go — Run-state flags and activity management for worker fibers
// ============================================================================
// SCHEDULER CONTROL STATE
// ============================================================================
//
// Control provides the lightweight signaling a job system's worker loops
// poll every iteration: a shutdown flag and an activity ("hot") flag with
// nanosecond-precision cooldown. Submitters mark the system hot when they
// enqueue; workers stay in their aggressive polling mode while the flag
// holds and fall back to paced spinning once the hot window lapses.
//
// The state is a value embedded in each scheduler instance rather than
// process globals, so independent systems — and tests — do not share
// flags. All fields are atomics; there are no locks on these paths.

package control

import (
	"sync/atomic"
	"time"

	"main/constants"
)

// State carries the coordination flags for one scheduler instance.
// The zero value is a running, idle system.
type State struct {
	stop    atomic.Uint32 // 1 = initiate shutdown
	hot     atomic.Uint32 // 1 = jobs recently enqueued, keep spinning
	lastHot atomic.Int64  // ns timestamp of the last activity signal
}

// SignalActivity marks the system as active and stamps the time, keeping
// workers in their hot polling mode. Called by submitters on enqueue.
//
//go:nosplit
//go:inline
func (s *State) SignalActivity() {
	s.hot.Store(1)
	s.lastHot.Store(time.Now().UnixNano())
}

// PollCooldown clears the hot flag once the hot window has elapsed with no
// further activity. Workers call it inline from their idle loop.
//
//go:nosplit
//go:inline
func (s *State) PollCooldown() {
	if s.hot.Load() == 1 && time.Now().UnixNano()-s.lastHot.Load() > constants.HotWindowNs {
		s.hot.Store(0)
	}
}

// Hot reports whether workers should keep polling aggressively.
//
//go:nosplit
//go:inline
func (s *State) Hot() bool {
	return s.hot.Load() == 1
}

// Shutdown raises the stop flag. Worker loops observe it at the top of
// each iteration and exit.
//
//go:nosplit
//go:inline
func (s *State) Shutdown() {
	s.stop.Store(1)
}

// ShuttingDown reports whether shutdown has been initiated.
//
//go:nosplit
//go:inline
func (s *State) ShuttingDown() bool {
	return s.stop.Load() == 1
}
