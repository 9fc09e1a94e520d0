// ════════════════════════════════════════════════════════════════════════════════════════════════
// CPU Relaxation - Fallback Implementation
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Project: Fiber Job System
// Component: Cross-Platform Compatibility Layer
//
// Description:
//   Fallback for architectures without a dedicated spin-wait instruction, and for
//   builds with assembly disabled (noasm tag) or cgo disabled (!cgo). Keeps the same API across
//   all targets; the spinning loop simply runs without a pipeline hint.
//
// ════════════════════════════════════════════════════════════════════════════════════════════════

//go:build (!amd64 && !arm64) || noasm || !cgo

package spinlock

// Pause is a no-op on targets without a spin-wait hint. The empty body
// inlines to nothing.
//
//go:nosplit
//go:inline
func Pause() {
}
