// ════════════════════════════════════════════════════════════════════════════════════════════════
// CPU Relaxation - ARM64 Architecture
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Project: Fiber Job System
// Component: ARM64 Spin-Wait Optimization
//
// Description:
//   Platform-specific implementation for ARM64 processors using the YIELD instruction.
//   Improves power efficiency in multi-core environments during busy-wait loops by
//   providing hints to the CPU pipeline.
//
// ════════════════════════════════════════════════════════════════════════════════════════════════

//go:build arm64 && !noasm && cgo

package spinlock

/*
#ifdef __aarch64__
static inline void cpu_yield() {
    __asm__ __volatile__("yield" ::: "memory");
}
#else
#error "This file requires ARM64 architecture"
#endif
*/
import "C"

// Pause emits the ARM64 YIELD instruction, hinting to the core that the
// calling thread is spin-waiting.
//
//go:nosplit
//go:inline
func Pause() {
	C.cpu_yield()
}
