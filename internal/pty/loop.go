// Package pty drives a child process's pseudoterminal on a dedicated
// goroutine: it feeds bytes read from the master side into a Terminal's
// parser, and drains a queue of writes (keyboard input, resize acks)
// back out to the child. It is the Go equivalent of Alacritty's
// mio-based EventLoop, built on creack/pty and a plain goroutine + poll
// instead of an OS-level readiness multiplexer, since a headless core
// has no reason to share a poll instance with a GUI event loop.
package pty

import (
	"errors"
	"io"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/creack/pty"
	"golang.org/x/sys/unix"

	headlessterm "github.com/danielgatis/go-vtengine"
)

// readBufferSize bounds a single read from the PTY master before control
// returns to the caller to let a pending write or resize proceed.
const readBufferSize = 0x10000

// syncUpdateDeadline bounds how long a synchronized-output update (DEC
// mode 2026) can withhold wakeups before the loop forces one anyway,
// matching the interval real terminals use to protect against an
// application that sets the mode and never clears it.
const syncUpdateDeadline = 150 * time.Millisecond

// syncTimer identifies this Loop's synchronized-output deadline timer.
// A Loop owns its Scheduler exclusively, so any fixed owner string is
// safe — no other caller can collide with it.
var syncTimer = headlessterm.TimerID{Topic: headlessterm.TopicSyncTimeout, Owner: "pty-loop"}

// Size mirrors the PTY's notion of character and pixel dimensions.
type Size struct {
	Rows, Cols       uint16
	PixelW, PixelH uint16
}

// Loop owns a PTY master/child pair and pumps bytes between it and a
// Terminal. Create one with Spawn, then call Run in its own goroutine.
type Loop struct {
	master *os.File
	cmd    *exec.Cmd
	term   *headlessterm.Terminal

	writeMu   sync.Mutex
	writeList [][]byte

	resize chan Size
	input  chan []byte
	done   chan struct{}
	closed chan struct{}

	scheduler *headlessterm.Scheduler
}

// Spawn starts command under a new PTY of the given size and returns a
// Loop ready to run. The Terminal should already be sized to match.
func Spawn(name string, args []string, size Size, term *headlessterm.Terminal) (*Loop, error) {
	c := exec.Command(name, args...)
	master, err := pty.StartWithSize(c, &pty.Winsize{
		Rows: size.Rows, Cols: size.Cols, X: size.PixelW, Y: size.PixelH,
	})
	if err != nil {
		return nil, err
	}

	l := &Loop{
		master: master,
		cmd:    c,
		term:   term,
		resize: make(chan Size, 4),
		input:  make(chan []byte, 64),
		done:   make(chan struct{}),
		closed: make(chan struct{}),
	}
	l.scheduler = headlessterm.NewScheduler(term.EventListener())
	return l, nil
}

// Write queues bytes to be written to the PTY; matches the teacher's
// Notifier.notify — a zero-length write is a silent no-op rather than
// hanging the child.
func (l *Loop) Write(data []byte) {
	if len(data) == 0 {
		return
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	select {
	case l.input <- cp:
	case <-l.closed:
	}
}

// Resize queues a PTY resize; the actual ioctl happens on Loop's own
// goroutine to avoid racing a concurrent read/write.
func (l *Loop) Resize(size Size) {
	select {
	case l.resize <- size:
	case <-l.closed:
	}
}

// Shutdown requests the loop stop and the child be terminated.
func (l *Loop) Shutdown() {
	close(l.done)
}

// Run pumps PTY I/O until Shutdown is called or the child exits. It
// blocks, so call it from its own goroutine. On exit it sends the terminal
// a ChildExitEvent carrying the child's exit code, nil if it couldn't be
// determined.
func (l *Loop) Run() {
	defer close(l.closed)
	defer l.master.Close()

	readErrs := make(chan error, 1)
	readCh := make(chan []byte, 16)
	go l.readLoop(readCh, readErrs)

	ticker := time.NewTicker(16 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-l.done:
			if l.cmd.Process != nil {
				_ = l.cmd.Process.Kill()
			}
			l.drainExit()
			return

		case err := <-readErrs:
			if err != nil && !errors.Is(err, io.EOF) {
				l.term.Logger().Warn("pty read failed", "error", err)
				l.term.SendEvent(headlessterm.Event{Type: headlessterm.EventExit})
			}
			l.drainExit()
			return

		case chunk := <-readCh:
			l.term.Write(chunk)
			if l.term.HasMode(headlessterm.ModeSync) {
				// Withhold the wakeup while a synchronized update is in
				// progress; arm (or leave armed) a deadline so a stuck
				// application doesn't stall the display indefinitely.
				if !l.scheduler.Scheduled(syncTimer) {
					l.scheduler.Schedule(headlessterm.WakeupEvent(), syncUpdateDeadline, false, syncTimer)
				}
				continue
			}
			l.scheduler.Unschedule(syncTimer)
			l.term.SendEvent(headlessterm.WakeupEvent())

		case data := <-l.input:
			l.queueWrite(data)
			l.flushWrites()

		case size := <-l.resize:
			_ = pty.Setsize(l.master, &pty.Winsize{
				Rows: size.Rows, Cols: size.Cols, X: size.PixelW, Y: size.PixelH,
			})

		case <-ticker.C:
			l.scheduler.Update()
			l.flushWrites()
		}
	}
}

func (l *Loop) readLoop(out chan<- []byte, errs chan<- error) {
	buf := make([]byte, readBufferSize)
	for {
		n, err := l.master.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			select {
			case out <- chunk:
			case <-l.closed:
				return
			}
		}
		if err != nil {
			errs <- err
			return
		}
	}
}

func (l *Loop) queueWrite(data []byte) {
	l.writeMu.Lock()
	l.writeList = append(l.writeList, data)
	l.writeMu.Unlock()
}

func (l *Loop) flushWrites() {
	l.writeMu.Lock()
	pending := l.writeList
	l.writeList = nil
	l.writeMu.Unlock()

	for _, chunk := range pending {
		if _, err := l.master.Write(chunk); err != nil {
			return
		}
	}
}

func (l *Loop) drainExit() {
	_ = l.cmd.Wait()
	var code *int
	if state := l.cmd.ProcessState; state != nil {
		c := state.ExitCode()
		code = &c
	}
	l.term.SendEvent(headlessterm.ChildExitEvent(code))
}

// pollReadable reports whether fd has data to read, waiting at most
// timeout for it to become readable.
func pollReadable(fd int, timeout time.Duration) (bool, error) {
	fds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
	n, err := unix.Poll(fds, int(timeout.Milliseconds()))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
