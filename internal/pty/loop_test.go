package pty

import (
	"testing"
	"time"

	headlessterm "github.com/danielgatis/go-vtengine"
)

// TestLoopEchoesChildOutput spawns `cat`, writes a line through the
// loop, and checks it lands in the terminal's grid after being echoed
// straight back by the child.
func TestLoopEchoesChildOutput(t *testing.T) {
	term := headlessterm.New(headlessterm.WithSize(5, 40))

	l, err := Spawn("/bin/cat", nil, Size{Rows: 5, Cols: 40}, term)
	if err != nil {
		t.Skipf("pty unavailable in this environment: %v", err)
	}

	go l.Run()
	defer l.Shutdown()

	l.Write([]byte("hello\n"))

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if term.LineContent(0) != "" {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}

	if got := term.LineContent(0); got == "" {
		t.Error("expected echoed input to appear in the terminal grid")
	}
}

// TestLoopForcesWakeupAfterSyncDeadline starts a synchronized update (DEC
// mode 2026) with no matching end sequence and checks the loop still
// forces a wakeup once the sync deadline passes, instead of stalling
// forever waiting for an end-sync that never arrives.
func TestLoopForcesWakeupAfterSyncDeadline(t *testing.T) {
	events := make(headlessterm.ChannelEventListener, 16)
	term := headlessterm.New(headlessterm.WithSize(5, 40), headlessterm.WithEventListener(events))

	l, err := Spawn("/bin/cat", nil, Size{Rows: 5, Cols: 40}, term)
	if err != nil {
		t.Skipf("pty unavailable in this environment: %v", err)
	}
	go l.Run()
	defer l.Shutdown()

	l.Write([]byte("\x1b[?2026h"))

	deadline := time.Now().Add(2 * syncUpdateDeadline)
	sawWakeup := false
	for time.Now().Before(deadline) {
		select {
		case e := <-events:
			if e.Type == headlessterm.EventWakeup {
				sawWakeup = true
			}
		case <-time.After(syncUpdateDeadline):
		}
		if sawWakeup {
			break
		}
	}

	if !sawWakeup {
		t.Error("expected a forced wakeup once the sync deadline elapsed")
	}
	if !term.HasMode(headlessterm.ModeSync) {
		t.Error("expected sync mode to still be active; the deadline forces a wakeup, not an exit")
	}
}

func TestLoopZeroLengthWriteIsNoop(t *testing.T) {
	term := headlessterm.New(headlessterm.WithSize(5, 40))
	l, err := Spawn("/bin/cat", nil, Size{Rows: 5, Cols: 40}, term)
	if err != nil {
		t.Skipf("pty unavailable in this environment: %v", err)
	}
	go l.Run()
	defer l.Shutdown()

	// Should not block or panic.
	l.Write(nil)
}
