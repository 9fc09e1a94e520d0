// ============================================================================
// STACKFUL COROUTINE PRIMITIVE
// ============================================================================
//
// A Fiber is an independently schedulable execution context with its own
// stack, switched by explicit handoff. Each fiber is backed by a goroutine
// parked on an unbuffered channel: a switch sends the per-thread slot block
// to the target and blocks the caller on its own channel, so exactly one
// fiber of a chain runs at any moment — the same control transfer the
// runtime's coroutine switch performs, expressed with channel rendezvous.
//
// Because a fiber carries a full goroutine stack, a half-finished job can
// park mid-call and resume later on whichever worker thread switches into
// it. State that must survive a switch cannot live on either stack; it
// travels in the Thread slot block handed from fiber to fiber.

package fiber

// Thread is the per-worker-thread slot block. It is created once per
// worker OS thread and handed to whichever fiber currently runs on that
// thread; a switch passes it to the incoming fiber.
//
// The two transfer slots compensate for the fact that a context switch
// crosses from one fiber's stack to another's: information that must
// outlive the switch cannot live on either stack alone.
type Thread struct {
	// Core is the CPU core this worker thread is pinned to.
	Core int

	// Current is the fiber presently executing with this slot block.
	Current *Fiber

	// UnlockAfterSwitch, when non-nil, is run by the incoming fiber at the
	// top of its loop. The outgoing fiber installs it so its record lock is
	// released only after the switch is architecturally complete.
	UnlockAfterSwitch func()

	// ReturnToPool carries the handle of a fiber that switched into a
	// resumed waiter; the waiter pushes it back to the idle pool.
	ReturnToPool *Fiber
}

// Fiber is an opaque handle to a stackful coroutine.
type Fiber struct {
	park chan *Thread
}

// New creates a fiber whose goroutine waits for its first switch-in, then
// runs entry with the received slot block. A nil slot block delivered
// before the first switch-in destroys the fiber without running entry.
func New(entry func(self *Fiber, t *Thread)) *Fiber {
	f := &Fiber{park: make(chan *Thread)}
	go func() {
		t := <-f.park
		if t == nil {
			return
		}
		entry(f, t)
	}()
	return f
}

// ConvertThread turns the calling goroutine into a fiber. The goroutine
// keeps executing; the returned handle lets it park in Switch and be
// resumed like any created fiber.
func ConvertThread() *Fiber {
	return &Fiber{park: make(chan *Thread)}
}

// Switch transfers execution to the target fiber, handing it the slot
// block, and parks the caller. It returns when some fiber later switches
// back into the caller, yielding the slot block received at that resume.
// A nil return means the fiber was destroyed while parked; the caller must
// unwind without touching scheduler state.
func (f *Fiber) Switch(to *Fiber, t *Thread) *Thread {
	to.park <- t
	return <-f.park
}

// Destroy releases a parked fiber. Only fibers idling in a pool may be
// destroyed: the target's goroutine observes the nil slot block and
// returns. Destroying a running fiber or one suspended on a wait list is
// a programming error.
func (f *Fiber) Destroy() {
	f.park <- nil
}
