package fiber

import (
	"testing"
	"time"
)

// TestSwitchRoundTrip converts the test goroutine into a fiber, switches
// to a created fiber and back, and checks the slot block travels through
// both transfers as the same object.
func TestSwitchRoundTrip(t *testing.T) {
	self := ConvertThread()
	tok := &Thread{Core: 3}

	var sawCore int
	peer := New(func(f *Fiber, tk *Thread) {
		sawCore = tk.Core
		tk.Core = 9
		tk.Current = self
		f.Switch(self, tk)
	})

	tok.Current = peer
	back := self.Switch(peer, tok)

	if sawCore != 3 {
		t.Fatalf("peer saw Core = %d, want 3", sawCore)
	}
	if back != tok {
		t.Fatal("resume must return the same slot block that was handed off")
	}
	if back.Core != 9 {
		t.Fatalf("Core = %d after round trip, want 9", back.Core)
	}
}

// TestUnlockAfterSwitchSlot verifies a deferred action installed by the
// outgoing fiber is visible to the incoming one.
func TestUnlockAfterSwitchSlot(t *testing.T) {
	self := ConvertThread()
	fired := false

	peer := New(func(f *Fiber, tk *Thread) {
		if tk.UnlockAfterSwitch != nil {
			tk.UnlockAfterSwitch()
			tk.UnlockAfterSwitch = nil
		}
		f.Switch(self, tk)
	})

	tok := &Thread{Current: peer, UnlockAfterSwitch: func() { fired = true }}
	back := self.Switch(peer, tok)

	if !fired {
		t.Fatal("incoming fiber did not run the unlock-after-switch slot")
	}
	if back.UnlockAfterSwitch != nil {
		t.Fatal("slot must be cleared after it runs")
	}
}

// TestDestroyBeforeFirstRun releases a fiber that was never switched into;
// its entry must not run.
func TestDestroyBeforeFirstRun(t *testing.T) {
	ran := make(chan struct{})
	f := New(func(*Fiber, *Thread) { close(ran) })
	f.Destroy()

	select {
	case <-ran:
		t.Fatal("entry ran on a destroyed fiber")
	case <-time.After(20 * time.Millisecond):
	}
}

// TestDestroyParkedFiber releases a fiber parked mid-Switch; the nil slot
// block tells it to unwind.
func TestDestroyParkedFiber(t *testing.T) {
	self := ConvertThread()
	exited := make(chan struct{})

	peer := New(func(f *Fiber, tk *Thread) {
		tk = f.Switch(self, tk) // park after handing control back
		if tk != nil {
			t.Error("destroyed fiber resumed with a live slot block")
		}
		close(exited)
	})

	self.Switch(peer, &Thread{Current: peer})
	peer.Destroy()

	select {
	case <-exited:
	case <-time.After(time.Second):
		t.Fatal("destroyed fiber did not unwind")
	}
}
