// ─────────────────────────────────────────────────────────────────────────────
// [Filename]: constants.go — Scheduler-wide tunables
//
// Purpose:
//   - Defines the default sizing of the fiber pool, job queue and stacks.
//   - Defines the spin-wait pacing shared by worker loops.
//
// Notes:
//   - Defaults mirror a general-purpose workstation profile: one worker
//     thread per core, a fiber pool deep enough for heavily recursive
//     fork/join trees, and a job queue sized for burst submission.
//
// ⚠️ No runtime logic here — all values must be compile-time resolvable
// ─────────────────────────────────────────────────────────────────────────────

package constants

// ───────────────────────────── Pool sizing ─────────────────────────────

const (
	// DefaultNumFibers is the size of the idle fiber pool. Every blocked
	// wait consumes one pool fiber until the waiter resumes, so the pool
	// bounds the maximum outstanding wait depth. 512 comfortably covers
	// recursive fork/join trees such as a depth-13 Fibonacci.
	DefaultNumFibers = 512

	// DefaultFiberStackSize is the stack reservation per fiber. Stacks
	// here grow on demand, so the value is advisory: it is validated and
	// recorded for configuration parity with hosts whose fiber primitive
	// commits the reservation up front.
	DefaultFiberStackSize = 512 << 10 // 512 KiB

	// DefaultQueueSize bounds the pending job queue. Overflow is a fatal
	// programming error, so the queue must cover the widest batch any
	// submitter fires plus concurrent batches from other fibers.
	DefaultQueueSize = 1024
)

// ───────────────────────────── Spin pacing ──────────────────────────────

const (
	// SpinBudget is the number of failed queue polls an idle worker
	// tolerates before emitting a CPU relax hint. Balances wake-up latency
	// against power draw on shared cores.
	SpinBudget = 224

	// HotWindowNs keeps workers in aggressive polling mode for this long
	// after the last enqueue, assuming more jobs are likely to follow.
	HotWindowNs = int64(5e9) // 5 s
)

// ───────────────────────────── Cache layout ─────────────────────────────

const (
	// CacheLine is the assumed coherence granule. Hot cursors and locks
	// are padded to this size to prevent false sharing.
	CacheLine = 64
)
