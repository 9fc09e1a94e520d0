// ─────────────────────────────────────────────────────────────────────────────
// [Filename]: debug.go — cold-path diagnostic logging helper (zero-alloc)
//
// Purpose:
//   - Logs infrequent events without introducing heap pressure.
//   - Used only in cold paths: startup phases, shutdown, fatal context.
//
// Notes:
//   - Avoids fmt.Sprintf to minimize footprint and latency.
//   - Messages are assembled by plain concatenation and written straight
//     to stderr through utils.PrintWarning.
//
// ⚠️ Never invoke in hot loops — use only for lifecycle diagnostics.
// ─────────────────────────────────────────────────────────────────────────────

package debug

import "main/utils"

// DropError logs an error with a short routing prefix. A nil err prints
// the prefix alone, which keeps tagged traces usable from call sites that
// may or may not carry an error.
//
//go:nosplit
//go:inline
func DropError(prefix string, err error) {
	if err != nil {
		utils.PrintWarning(prefix + ": " + err.Error() + "\n")
	} else {
		utils.PrintWarning(prefix + "\n")
	}
}

// DropMessage logs a prefixed diagnostic message. Used for lifecycle
// events: startup phases, worker pool sizing, shutdown progress.
//
//go:nosplit
//go:inline
func DropMessage(prefix, message string) {
	utils.PrintWarning(prefix + ": " + message + "\n")
}
