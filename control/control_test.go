package control

import "testing"

// TestZeroValueIsRunningIdle confirms a fresh State reports neither
// shutdown nor activity.
func TestZeroValueIsRunningIdle(t *testing.T) {
	var s State
	if s.ShuttingDown() {
		t.Fatal("zero State reports shutting down")
	}
	if s.Hot() {
		t.Fatal("zero State reports hot")
	}
}

// TestSignalActivitySetsHot verifies the hot flag latches and survives an
// immediate cooldown poll (the hot window is seconds long).
func TestSignalActivitySetsHot(t *testing.T) {
	var s State
	s.SignalActivity()
	if !s.Hot() {
		t.Fatal("Hot() = false right after SignalActivity")
	}
	s.PollCooldown()
	if !s.Hot() {
		t.Fatal("PollCooldown cleared the flag inside the hot window")
	}
}

// TestShutdownLatches verifies the stop flag is one-way and visible.
func TestShutdownLatches(t *testing.T) {
	var s State
	s.Shutdown()
	if !s.ShuttingDown() {
		t.Fatal("ShuttingDown() = false after Shutdown")
	}
}

// TestInstancesIndependent checks that two systems' flags do not bleed
// into each other.
func TestInstancesIndependent(t *testing.T) {
	var a, b State
	a.Shutdown()
	a.SignalActivity()
	if b.ShuttingDown() || b.Hot() {
		t.Fatal("flags leaked between State instances")
	}
}
