// pin.go — worker thread pinning.

package fiber

import "runtime"

// PinCurrentThread wires the calling goroutine to its OS thread and binds
// that thread to the given CPU core. Worker threads call this once at
// startup so fibers run with stable cache and NUMA locality. A rejected
// affinity mask is fatal.
func PinCurrentThread(core int) {
	runtime.LockOSThread()
	setAffinity(core)
}
