// ════════════════════════════════════════════════════════════════════════════════════════════════
// CPU Relaxation - AMD64 Architecture
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Project: Fiber Job System
// Component: x86-64 Spin-Wait Optimization
//
// Description:
//   Platform-specific implementation for x86-64 processors using the PAUSE instruction.
//   Improves power efficiency and performance in hyperthreaded environments during
//   busy-wait loops by providing hints to the CPU pipeline.
//
// ════════════════════════════════════════════════════════════════════════════════════════════════

//go:build amd64 && !noasm && cgo

package spinlock

/*
#ifdef __x86_64__
static inline void cpu_pause() {
    __asm__ __volatile__("pause" ::: "memory");
}
#else
#error "This file requires x86-64 architecture"
#endif
*/
import "C"

// Pause emits the x86-64 PAUSE instruction. It hints to the processor that
// the calling thread is in a spin-wait loop, delaying the next instruction
// while letting sibling hyperthreads make progress.
//
//go:nosplit
//go:inline
func Pause() {
	C.cpu_pause()
}
