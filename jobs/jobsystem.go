// ============================================================================
// FIBER JOB SYSTEM - SUBMISSION SURFACE AND LIFECYCLE
// ============================================================================
//
// An in-process work scheduler that multiplexes a bounded pool of stackful
// fibers onto a fixed set of core-pinned worker threads and synchronizes
// them through shared atomic counters. Application code expresses fork/join
// parallelism by submitting N independent jobs against a counter and then
// blocking the calling fiber — not its thread — until the counter drains.
//
// Data flow:
//   - RunJobs stores the batch size into the counter, then enqueues one
//     descriptor per job on the bounded MPMC job queue.
//   - Worker fibers pop descriptors, run them, and decrement the counter;
//     the decrement that reaches zero resumes the parked waiter directly
//     (completion handoff), with no re-enqueue and no thread consumed per
//     outstanding wait.
//   - A fiber that must wait releases its worker thread to a fresh fiber
//     pulled from the idle pool.
//
// Error model: every failure here is a programming error — queue overflow,
// pool exhaustion, nil submissions — and panics. There is no recovery
// surface; jobs themselves have no structured failure path.

package jobs

import (
	"runtime"
	"sync"
	"sync/atomic"

	"main/constants"
	"main/control"
	"main/debug"
	"main/fiber"
	"main/ringbuf"
	"main/spinlock"
	"main/utils"
)

// Counter is a fork/join synchronization point. The submitter owns the
// storage and must keep it live until WaitForCounter returns; the
// counter's address is its identity on the wait list. A counter may be
// reused for a fresh batch once a wait on it has returned.
type Counter struct {
	n atomic.Uint32
}

// Load returns the number of jobs in the current batch that have not yet
// completed.
func (c *Counter) Load() uint32 {
	return c.n.Load()
}

// decrement records one completed job and returns the remaining count.
// Exactly one caller per batch observes zero.
func (c *Counter) decrement() uint32 {
	return c.n.Add(^uint32(0))
}

// JobDecl describes one unit of work. Descriptors are copied by value into
// the job queue; the counter reference is installed by RunJobs.
type JobDecl struct {
	// Fn is the job body. The Worker handle is valid only for the duration
	// of the call and is the job's doorway to WaitForCounter and to
	// submitting nested batches.
	Fn func(w *Worker, arg any)

	// Arg is handed to Fn unchanged.
	Arg any

	counter *Counter
}

// Args sizes a System. Zero fields take the package defaults.
type Args struct {
	NumThreads     int // worker OS threads, pinned to cores [0, NumThreads)
	NumFibers      int // idle fiber pool depth; bounds outstanding waits
	FiberStackSize int // advisory per-fiber stack reservation
	QueueSize      int // pending job queue capacity
}

// System is one scheduler instance. Typically process-wide, but nothing
// here is global: independent systems coexist.
type System struct {
	fiberPool *ringbuf.Ring[*fiber.Fiber]
	jobQueue  *ringbuf.Ring[JobDecl]

	// waitList maps a counter's identity to the single fiber blocked on
	// it. At most one waiter per counter; a second concurrent waiter is a
	// documented precondition violation.
	waitLock spinlock.SpinLock
	waitList map[*Counter]*usedFiber

	run   control.State
	loops sync.WaitGroup // worker loops still holding a thread token

	numThreads int
	numFibers  int
	stackSize  int
}

// New starts a scheduler: NumThreads pinned worker threads, each converted
// to a fiber running the worker loop, plus NumFibers idle fibers in the
// pool.
func New(args Args) *System {
	if args.NumThreads <= 0 {
		args.NumThreads = runtime.NumCPU()
	}
	if args.NumFibers <= 0 {
		args.NumFibers = constants.DefaultNumFibers
	}
	if args.FiberStackSize <= 0 {
		args.FiberStackSize = constants.DefaultFiberStackSize
	}
	if args.QueueSize <= 0 {
		args.QueueSize = constants.DefaultQueueSize
	}

	s := &System{
		// One extra slot each: the rings distinguish full from empty by
		// sacrificing a slot, and the pool must hold every fiber at once.
		fiberPool:  ringbuf.New[*fiber.Fiber](args.NumFibers + 1),
		jobQueue:   ringbuf.New[JobDecl](args.QueueSize + 1),
		waitList:   make(map[*Counter]*usedFiber, args.NumThreads),
		numThreads: args.NumThreads,
		numFibers:  args.NumFibers,
		stackSize:  args.FiberStackSize,
	}

	// The pool must be full before any worker can pop a job: a job that
	// waits immediately would otherwise find the pool mid-population.
	for i := 0; i < args.NumFibers; i++ {
		s.fiberPool.Push(fiber.New(s.fiberEntry))
	}
	s.loops.Add(args.NumThreads)
	for i := 0; i < args.NumThreads; i++ {
		go s.threadEntry(i)
	}

	debug.DropMessage("JOBS", "system up: "+utils.Itoa(args.NumThreads)+" threads, "+utils.Itoa(args.NumFibers)+" fibers")
	return s
}

// RunJobs submits a batch against c and returns immediately; it never
// switches fibers and may be called from jobs or from plain goroutines.
// The counter must be zero or otherwise safely reusable (no outstanding
// waiter). The batch size is stored before the first descriptor becomes
// visible, so no worker can complete a job and drive the counter below
// zero.
func (s *System) RunJobs(batch []JobDecl, c *Counter) {
	if c == nil {
		panic("jobs: RunJobs with nil counter")
	}
	c.n.Store(uint32(len(batch)))
	for i := range batch {
		if batch[i].Fn == nil {
			panic("jobs: job without a function")
		}
		batch[i].counter = c
		s.jobQueue.Push(batch[i])
	}
	if len(batch) != 0 {
		s.run.SignalActivity()
	}
}

// Shutdown signals the workers to exit, joins their loops, and releases
// the idle fiber pool. Outstanding waits must be drained first: a fiber
// still parked on the wait list at shutdown is a caller bug and is leaked.
// Must not be called from within a job.
func (s *System) Shutdown() {
	s.run.Shutdown()
	s.loops.Wait()

	released := 0
	for {
		f, ok := s.fiberPool.Pop()
		if !ok {
			break
		}
		f.Destroy()
		released++
	}
	debug.DropMessage("JOBS", "shutdown: released "+utils.Itoa(released)+" idle fibers")
}

// IdleFibers reports the current fiber pool depth. Exact only while the
// system is quiescent; used for conservation checks and diagnostics.
func (s *System) IdleFibers() int {
	return s.fiberPool.Len()
}

// threadEntry is the OS-thread bootstrap: pin, convert the thread to a
// fiber, and enter the worker loop.
func (s *System) threadEntry(core int) {
	fiber.PinCurrentThread(core)
	self := fiber.ConvertThread()
	w := &Worker{sys: s, self: self, t: &fiber.Thread{Core: core, Current: self}}
	s.workerLoop(w)
}

// fiberEntry is the first activation of a pool fiber: it arrives with the
// thread token of whichever waiter switched into it.
func (s *System) fiberEntry(self *fiber.Fiber, t *fiber.Thread) {
	s.workerLoop(&Worker{sys: s, self: self, t: t})
}
