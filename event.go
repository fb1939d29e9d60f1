package headlessterm

// ClipboardKind selects which clipboard buffer an Event concerns.
type ClipboardKind byte

const (
	ClipboardKindClipboard ClipboardKind = 'c'
	ClipboardKindPrimary   ClipboardKind = 'p'
)

// EventType discriminates the Event sum type's payload.
type EventType int

const (
	EventWakeup EventType = iota
	EventTitle
	EventResetTitle
	EventClipboardStore
	EventClipboardLoad
	EventExit
	EventCursorBlinkingChange
	EventBell
	EventColorRequest
	EventPtyWrite
	EventChildExit
	EventTextAreaSizeRequest
)

// Event is the narrow channel internal/pty, vicursor.go, and scheduler.go
// use to talk back to whatever owns the terminal, instead of depending
// directly on the wider per-feature provider interfaces. It mirrors
// Alacritty's event::Event enum, collapsed to what a headless core needs.
type Event struct {
	Type EventType

	Title         string
	ClipboardKind ClipboardKind
	ClipboardData string
	ColorIndex    int
	PtyData       []byte
	ChildExit     *int
}

// WakeupEvent requests a redraw/poll without carrying other data.
func WakeupEvent() Event { return Event{Type: EventWakeup} }

// TitleEvent reports a new window title.
func TitleEvent(title string) Event { return Event{Type: EventTitle, Title: title} }

// ResetTitleEvent requests the title be reset to its default.
func ResetTitleEvent() Event { return Event{Type: EventResetTitle} }

// ClipboardStoreEvent asks the listener to persist data to a clipboard.
func ClipboardStoreEvent(kind ClipboardKind, data string) Event {
	return Event{Type: EventClipboardStore, ClipboardKind: kind, ClipboardData: data}
}

// ClipboardLoadEvent asks the listener to read from a clipboard; the
// listener is expected to reply by writing an OSC 52 response itself.
func ClipboardLoadEvent(kind ClipboardKind) Event {
	return Event{Type: EventClipboardLoad, ClipboardKind: kind}
}

// ExitEvent signals the terminal session should be torn down.
func ExitEvent() Event { return Event{Type: EventExit} }

// CursorBlinkingChangeEvent reports that the cursor's blink state should
// flip, driven by scheduler.go's BlinkCursor timer.
func CursorBlinkingChangeEvent() Event { return Event{Type: EventCursorBlinkingChange} }

// BellEvent reports a BEL (0x07) was received.
func BellEvent() Event { return Event{Type: EventBell} }

// ColorRequestEvent asks for the current value of a dynamic color (OSC 4/10-19).
func ColorRequestEvent(index int) Event { return Event{Type: EventColorRequest, ColorIndex: index} }

// PtyWriteEvent carries bytes that should be written back to the PTY
// (e.g. a DSR/DA response or a clipboard-load OSC 52 reply).
func PtyWriteEvent(data []byte) Event { return Event{Type: EventPtyWrite, PtyData: data} }

// ChildExitEvent reports the child process exited, with its status code
// when known.
func ChildExitEvent(status *int) Event { return Event{Type: EventChildExit, ChildExit: status} }

// TextAreaSizeRequestEvent asks the listener for the current pixel
// dimensions of the rendering surface, needed to answer some escape
// sequences (e.g. the XTWINOPS pixel-size reports).
func TextAreaSizeRequestEvent() Event { return Event{Type: EventTextAreaSizeRequest} }

// EventListener is the narrow sink internal/pty, vicursor.go, and
// scheduler.go depend on. Anything that can receive an Event qualifies;
// Terminal itself never implements this directly — callers adapt their
// own listener, or use ProviderEventListener to fan a generic Event out
// to the existing per-feature providers.
type EventListener interface {
	Send(Event)
}

// NoopEventListener discards every event.
type NoopEventListener struct{}

func (NoopEventListener) Send(Event) {}

var _ EventListener = NoopEventListener{}

// ChannelEventListener sends events to a buffered channel, for callers
// that prefer to drain events from their own goroutine loop instead of
// reacting inline.
type ChannelEventListener chan Event

func (c ChannelEventListener) Send(e Event) {
	select {
	case c <- e:
	default:
	}
}

var _ EventListener = ChannelEventListener(nil)

// ProviderEventListener fans a generic Event out to whichever concrete
// provider is registered on a Terminal, so code written against the
// wide provider interfaces keeps working unchanged while newer
// components (internal/pty, vicursor.go, scheduler.go) depend only on
// the narrow EventListener interface.
type ProviderEventListener struct {
	Bell       BellProvider
	Title      TitleProvider
	Clipboard  ClipboardProvider
	Response   ResponseProvider
	OnExit     func()
	OnBlink    func()
	OnChildExit func(*int)
	OnColorReq func(index int) (response []byte)
}

func (p *ProviderEventListener) Send(e Event) {
	switch e.Type {
	case EventBell:
		if p.Bell != nil {
			p.Bell.Ring()
		}
	case EventTitle:
		if p.Title != nil {
			p.Title.SetTitle(e.Title)
		}
	case EventResetTitle:
		if p.Title != nil {
			p.Title.SetTitle("")
		}
	case EventClipboardStore:
		if p.Clipboard != nil {
			p.Clipboard.Write(byte(e.ClipboardKind), []byte(e.ClipboardData))
		}
	case EventClipboardLoad:
		if p.Clipboard != nil && p.Response != nil {
			data := p.Clipboard.Read(byte(e.ClipboardKind))
			_, _ = p.Response.Write([]byte(data))
		}
	case EventPtyWrite:
		if p.Response != nil {
			_, _ = p.Response.Write(e.PtyData)
		}
	case EventExit:
		if p.OnExit != nil {
			p.OnExit()
		}
	case EventCursorBlinkingChange:
		if p.OnBlink != nil {
			p.OnBlink()
		}
	case EventChildExit:
		if p.OnChildExit != nil {
			p.OnChildExit(e.ChildExit)
		}
	case EventColorRequest:
		if p.OnColorReq != nil && p.Response != nil {
			if resp := p.OnColorReq(e.ColorIndex); resp != nil {
				_, _ = p.Response.Write(resp)
			}
		}
	}
}

var _ EventListener = (*ProviderEventListener)(nil)
