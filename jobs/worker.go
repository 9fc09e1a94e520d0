// ============================================================================
// WORKER LOOP, WAIT PROTOCOL AND COMPLETION HANDOFF
// ============================================================================
//
// The scheduler core: the protocol by which a fiber that must wait on a
// counter releases its worker thread, the job that drives the counter to
// zero resumes the waiter, and the two events race safely — no lost
// wakeups, no double resumes, no deadlock — even when the counter hits
// zero between the waiter's check and its context switch.
//
// The rendezvous hinges on two pieces of state:
//
//   - usedFiber: a record on the waiter's stack whose spin lock is held
//     from before the wait-list insert until after the waiter's switch has
//     architecturally completed. A completer that claims the waiter spins
//     on this lock, so it can never switch into a fiber that is still
//     executing. The waiter cannot release the lock itself — that would
//     reopen the race ahead of the switch instruction — so the release is
//     delegated to the fiber that replaces it on the thread, through the
//     token's unlock-after-switch slot.
//
//   - The thread token's return-to-pool slot: a completer that switches
//     into a waiter leaves its own handle there, and the resumed waiter
//     recycles it into the idle pool. Information spanning a switch cannot
//     live on either fiber's stack.

package jobs

import (
	"main/constants"
	"main/fiber"
	"main/spinlock"
)

// usedFiber pins a waiting fiber down across its switch-away window. It is
// stack-allocated in WaitForCounter; its lifetime is the call frame. The
// lock is not mutual exclusion over data — it is a one-shot barrier that
// holds would-be resumers off until the waiter has vacated its thread.
type usedFiber struct {
	fiber *fiber.Fiber
	lock  spinlock.SpinLock
}

// Worker is the execution context handed to every job body. It identifies
// the running fiber and carries the thread token; it is valid only for the
// duration of the job call.
type Worker struct {
	sys  *System
	self *fiber.Fiber
	t    *fiber.Thread
}

// System returns the scheduler this worker belongs to, for submitting
// nested batches from inside a job.
func (w *Worker) System() *System {
	return w.sys
}

// Core returns the CPU core of the thread currently running this fiber.
// The value can change across a WaitForCounter call: a resumed waiter
// continues on whichever thread its completer ran on.
func (w *Worker) Core() int {
	return w.t.Core
}

// workerLoop is the top-level body every fiber runs when it is not
// executing a user job. It exits when shutdown is observed (releasing the
// thread token) or when the fiber is destroyed while idling in the pool.
func (s *System) workerLoop(w *Worker) {
	miss := 0
	for {
		// A fiber that just switched in may owe the previous fiber its
		// record-lock release; that fiber is only safely parked once the
		// switch into us completed, which is now.
		if unlock := w.t.UnlockAfterSwitch; unlock != nil {
			w.t.UnlockAfterSwitch = nil
			unlock()
		}

		if s.run.ShuttingDown() {
			s.loops.Done()
			return
		}

		job, ok := s.jobQueue.Pop()
		if !ok {
			// Idle: stay hot while jobs are flowing, otherwise pace the
			// spin with the relax hint after the miss budget runs out.
			s.run.PollCooldown()
			if s.run.Hot() {
				continue
			}
			if miss++; miss >= constants.SpinBudget {
				miss = 0
				spinlock.Pause()
			}
			continue
		}
		miss = 0

		if !s.runJob(w, job) {
			return // destroyed while parked in the pool
		}
	}
}

// runJob executes one job and, when its decrement lands the counter on
// zero, performs the completion handoff. Returns false only when this
// fiber was destroyed while parked in the idle pool, in which case the
// loop must unwind without touching scheduler state.
func (s *System) runJob(w *Worker, job JobDecl) bool {
	job.Fn(w, job.Arg)

	c := job.counter
	if c.decrement() != 0 {
		return true
	}

	// This was the batch's last job; if a fiber is parked on the counter,
	// resuming it is this fiber's responsibility.
	s.waitLock.Lock()
	rec, ok := s.waitList[c]
	if !ok {
		// Nobody is waiting yet, or the waiter saw the zero and rescinded
		// itself. Either way the waiter's own re-check covers this batch.
		s.waitLock.Unlock()
		return true
	}
	delete(s.waitList, c)
	// The list lock must drop before the record lock: the waiter may be
	// inside its re-check right now, holding the record lock and waiting
	// for the list lock.
	s.waitLock.Unlock()

	// Barrier: spin until the waiter has switched off its thread. Lock
	// and release; there is no data behind this lock.
	rec.lock.Lock()
	rec.lock.Unlock()

	waiter := rec.fiber
	w.t.ReturnToPool = w.self
	w.t.Current = waiter
	t := w.self.Switch(waiter, w.t)
	if t == nil {
		return false
	}

	// Running again: a waiter pulled this fiber from the idle pool and
	// switched into it. The return-to-pool slot is only ever populated
	// for resumed waiters, and this fiber came back as a worker.
	if t.ReturnToPool != nil {
		panic("jobs: handoff fiber resumed with a pending pool return")
	}
	w.t = t
	return true
}

// WaitForCounter blocks the calling fiber until c reaches zero. The
// worker thread is released to run other jobs in the meantime. Must be
// called from within a job; at most one fiber may wait on a given counter
// at a time.
func (w *Worker) WaitForCounter(c *Counter) {
	if c == nil {
		panic("jobs: wait on nil counter")
	}
	s := w.sys

	// Fast path: every decrement already landed. No record has been
	// published for this wait, so no completer can be spinning on one;
	// return without touching the wait list or the fiber pool.
	if c.n.Load() == 0 {
		return
	}

	// Publish the wait. The record lock is held from before the insert
	// until the replacement fiber runs the unlock-after-switch slot, so a
	// completer that claims the entry cannot switch into this fiber while
	// it is still running here.
	rec := usedFiber{fiber: w.self}
	rec.lock.Lock()

	s.waitLock.Lock()
	s.waitList[c] = &rec
	s.waitLock.Unlock()

	if c.n.Load() == 0 {
		// The batch drained between the two checks. Two cases:
		//   1. The last completer has not visited the wait list: the entry
		//      is still ours. Rescind it and continue; the wait was
		//      unnecessary.
		//   2. The completer already claimed the entry and is spinning on
		//      the record lock. Fall through and vacate this thread as
		//      fast as possible so it can proceed.
		s.waitLock.Lock()
		if _, present := s.waitList[c]; present {
			delete(s.waitList, c)
			s.waitLock.Unlock()
			rec.lock.Unlock()
			return
		}
		s.waitLock.Unlock()
	}

	// Hand this thread to a fresh fiber. Pool exhaustion means the
	// configuration cannot cover the program's wait depth — fatal.
	fresh, ok := s.fiberPool.Pop()
	if !ok {
		panic("jobs: fiber pool exhausted; raise NumFibers")
	}
	w.t.Current = fresh
	w.t.UnlockAfterSwitch = rec.lock.Unlock

	t := w.self.Switch(fresh, w.t)
	if t == nil {
		panic("jobs: fiber destroyed while suspended on a wait")
	}

	// Resumed by the completer that drove c to zero. It parked itself
	// behind the return-to-pool slot; recycle its handle and continue the
	// interrupted job on this — possibly different — thread.
	if t.ReturnToPool == nil {
		panic("jobs: waiter resumed without a pool return")
	}
	s.fiberPool.Push(t.ReturnToPool)
	t.ReturnToPool = nil
	w.t = t
}
