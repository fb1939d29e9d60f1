package headlessterm

import (
	"testing"
	"time"
)

type recordingListener struct {
	events []Event
}

func (r *recordingListener) Send(e Event) {
	r.events = append(r.events, e)
}

func TestSchedulerFiresAfterDeadline(t *testing.T) {
	l := &recordingListener{}
	s := NewScheduler(l)

	id := TimerID{Topic: TopicBlinkCursor, Owner: "term-1"}
	s.Schedule(Event{Type: EventBell}, 5*time.Millisecond, false, id)

	if !s.Scheduled(id) {
		t.Fatal("expected timer to be scheduled")
	}

	time.Sleep(10 * time.Millisecond)
	s.Update()

	if len(l.events) != 1 || l.events[0].Type != EventBell {
		t.Fatalf("expected one Bell event, got %+v", l.events)
	}
	if s.Scheduled(id) {
		t.Fatal("non-repeating timer should be gone after firing")
	}
}

func TestSchedulerRepeatingTimerReschedules(t *testing.T) {
	l := &recordingListener{}
	s := NewScheduler(l)

	id := TimerID{Topic: TopicBlinkCursor, Owner: "term-1"}
	s.Schedule(Event{Type: EventCursorBlinkingChange}, 2*time.Millisecond, true, id)

	time.Sleep(5 * time.Millisecond)
	s.Update()

	if !s.Scheduled(id) {
		t.Fatal("repeating timer should reschedule itself")
	}
	if len(l.events) != 1 {
		t.Fatalf("expected exactly one fire per Update call, got %d", len(l.events))
	}
}

func TestSchedulerUnschedule(t *testing.T) {
	s := NewScheduler(nil)
	id := TimerID{Topic: TopicDelayedSearch, Owner: "a"}
	s.Schedule(Event{Type: EventBell}, time.Hour, false, id)

	timer, ok := s.Unschedule(id)
	if !ok || timer == nil {
		t.Fatal("expected to find and cancel the timer")
	}
	if s.Scheduled(id) {
		t.Fatal("timer should no longer be scheduled")
	}
}

func TestSchedulerUnscheduleOwner(t *testing.T) {
	s := NewScheduler(nil)
	a := TimerID{Topic: TopicFrame, Owner: "a"}
	b := TimerID{Topic: TopicFrame, Owner: "b"}
	s.Schedule(Event{Type: EventBell}, time.Hour, false, a)
	s.Schedule(Event{Type: EventBell}, time.Hour, false, b)

	s.UnscheduleOwner("a")

	if s.Scheduled(a) {
		t.Fatal("owner a's timer should be removed")
	}
	if !s.Scheduled(b) {
		t.Fatal("owner b's timer should remain")
	}
}

func TestSchedulerRescheduleSameIDReplaces(t *testing.T) {
	s := NewScheduler(nil)
	id := TimerID{Topic: TopicBlinkTimeout, Owner: "a"}
	s.Schedule(Event{Type: EventBell}, time.Hour, false, id)
	s.Schedule(Event{Type: EventTitle, Title: "second"}, time.Hour, false, id)

	timer, ok := s.Unschedule(id)
	if !ok {
		t.Fatal("expected timer to be present")
	}
	if timer.Event.Type != EventTitle || timer.Event.Title != "second" {
		t.Fatalf("expected the later Schedule call to replace the first, got %+v", timer.Event)
	}
}
