// setaffinity_stub.go - no-op affinity for platforms without
// sched_setaffinity. Worker threads still lock to an OS thread; core
// placement is left to the kernel scheduler.

//go:build !linux

package fiber

func setAffinity(core int) {
	_ = core
}
