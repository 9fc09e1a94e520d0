// setaffinity_linux.go - Linux CPU affinity via sched_setaffinity(2)

//go:build linux

package fiber

import (
	"golang.org/x/sys/unix"

	"main/utils"
)

// setAffinity pins the current thread to the specified CPU core. The
// scheduler treats a rejected mask as a fatal configuration error: a
// worker that silently floats between cores would defeat the pinned
// design.
func setAffinity(core int) {
	var set unix.CPUSet
	set.Zero()
	set.Set(core)
	if err := unix.SchedSetaffinity(0, &set); err != nil {
		panic("fiber: sched_setaffinity(" + utils.Itoa(core) + "): " + err.Error())
	}
}
