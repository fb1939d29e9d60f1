package headlessterm

import (
	"sync"
	"time"
)

// Topic names a recurring or one-shot timer purpose.
type Topic int

const (
	TopicSelectionScrolling Topic = iota
	TopicDelayedSearch
	TopicBlinkCursor
	TopicBlinkTimeout
	TopicFrame
	// TopicSyncTimeout bounds a synchronized-output update (DEC mode
	// 2026): if the application never sends the end-sync sequence, this
	// fires a forced wakeup so the display doesn't stall indefinitely.
	TopicSyncTimeout
)

// TimerID uniquely identifies a scheduled timer. Owner disambiguates
// multiple independent timer sources (e.g. more than one Terminal)
// sharing a Scheduler; the teacher's original scoped this by window ID,
// a headless core has no window so a caller-supplied string stands in.
type TimerID struct {
	Topic Topic
	Owner string
}

// Timer is a single scheduled event, returned from Unschedule for
// inspection by callers that need to know what they cancelled.
type Timer struct {
	Deadline time.Time
	Event    Event
	ID       TimerID

	interval time.Duration
	repeat   bool
}

// Scheduler tracks pending timers and dispatches their events to an
// EventListener once their deadline has passed. Timers are kept sorted
// by deadline in a plain slice, matching the teacher's VecDeque-backed
// insertion-sort approach; a real timer wheel isn't worth the
// complexity at the handful of concurrent timers a terminal core runs.
type Scheduler struct {
	mu       sync.Mutex
	timers   []*Timer
	listener EventListener
}

// NewScheduler creates a scheduler that dispatches fired timers to listener.
func NewScheduler(listener EventListener) *Scheduler {
	if listener == nil {
		listener = NoopEventListener{}
	}
	return &Scheduler{listener: listener}
}

// Update fires every timer whose deadline has passed, sending its event
// to the listener and re-scheduling it if it repeats. It returns the
// deadline of the next pending timer, if any, so a caller's own poll
// loop (e.g. internal/pty's select) knows how long it may safely block.
func (s *Scheduler) Update() (next time.Time, ok bool) {
	now := time.Now()

	var fired []*Timer
	s.mu.Lock()
	for len(s.timers) > 0 && !s.timers[0].Deadline.After(now) {
		fired = append(fired, s.timers[0])
		s.timers = s.timers[1:]
	}
	s.mu.Unlock()

	for _, t := range fired {
		if t.repeat {
			s.Schedule(t.Event, t.interval, true, t.ID)
		}
		s.listener.Send(t.Event)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.timers) == 0 {
		return time.Time{}, false
	}
	return s.timers[0].Deadline, true
}

// Schedule arranges for event to be sent after interval, optionally
// repeating every interval thereafter. Scheduling the same id again
// replaces any existing timer for it.
func (s *Scheduler) Schedule(event Event, interval time.Duration, repeat bool, id TimerID) {
	deadline := time.Now().Add(interval)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.removeLocked(id)

	index := len(s.timers)
	for i, t := range s.timers {
		if t.Deadline.After(deadline) {
			index = i
			break
		}
	}

	timer := &Timer{Deadline: deadline, Event: event, ID: id, repeat: repeat}
	if repeat {
		timer.interval = interval
	}

	s.timers = append(s.timers, nil)
	copy(s.timers[index+1:], s.timers[index:])
	s.timers[index] = timer
}

// Unschedule cancels a pending timer, returning it if one was found.
func (s *Scheduler) Unschedule(id TimerID) (*Timer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeLocked(id)
}

func (s *Scheduler) removeLocked(id TimerID) (*Timer, bool) {
	for i, t := range s.timers {
		if t.ID == id {
			s.timers = append(s.timers[:i], s.timers[i+1:]...)
			return t, true
		}
	}
	return nil, false
}

// Scheduled reports whether a timer with id is currently pending.
func (s *Scheduler) Scheduled(id TimerID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.timers {
		if t.ID == id {
			return true
		}
	}
	return false
}

// UnscheduleOwner removes every timer belonging to owner, matching the
// teacher's unschedule_window cleanup hook for a closed window — here
// called when a Terminal using this scheduler is torn down.
func (s *Scheduler) UnscheduleOwner(owner string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.timers[:0]
	for _, t := range s.timers {
		if t.ID.Owner != owner {
			kept = append(kept, t)
		}
	}
	s.timers = kept
}
