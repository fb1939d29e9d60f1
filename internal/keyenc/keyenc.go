// Package keyenc turns a key press plus modifier state into the escape
// sequence a terminal application expects, covering the plain
// terminfo/DEC-application-cursor encodings and the Kitty keyboard
// protocol's extended CSI-u form. It is a pure function of
// (key, modifiers, mode) -> bytes. charmbracelet/x/ansi's named cursor
// helpers cover the unmodified legacy arrow keys; the modified and
// Kitty-protocol forms build on the same CSI prefix directly, since
// that library has no generic arbitrary-parameter CSI builder.
package keyenc

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// csi is the Control Sequence Introducer, matching the prefix
// charmbracelet/x/ansi's named helpers (ansi.CUU, ansi.CUP, ...) emit.
const csi = "\x1b["

// Mod is a bitmask of held modifier keys, using the xterm/kitty
// encoding where the wire value is Mod+1.
type Mod uint8

const (
	ModShift Mod = 1 << iota
	ModAlt
	ModCtrl
	ModSuper
)

// EventType distinguishes a Kitty-protocol key press, repeat, or release.
type EventType int

const (
	EventPress EventType = 1 + iota
	EventRepeat
	EventRelease
)

// KittyFlags mirrors the Kitty keyboard protocol's progressive
// enhancement bits (CSI > flags u).
type KittyFlags uint8

const (
	KittyDisambiguate KittyFlags = 1 << iota
	KittyReportEvents
	KittyReportAlternateKeys
	KittyReportAllAsEscape
	KittyReportAssociatedText
)

// Key identifies a single keyboard key, either a printable rune or one
// of the named keys below.
type Key struct {
	Rune  rune // 0 for a Named key
	Named NamedKey
}

// NamedKey enumerates non-printable keys the encoder recognizes.
type NamedKey int

const (
	KeyNone NamedKey = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyInsert
	KeyDelete
	KeyTab
	KeyEnter
	KeyBackspace
	KeyEscape
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
)

// kittyCode is the numeric key code the Kitty protocol uses for a named
// key in its CSI-u encoding (functional key table in the Kitty spec).
var kittyCode = map[NamedKey]int{
	KeyUp: 57352, KeyDown: 57353, KeyLeft: 57354, KeyRight: 57355,
	KeyHome: 57356, KeyEnd: 57357, KeyPageUp: 57358, KeyPageDown: 57359,
	KeyInsert: 57360, KeyDelete: 57361,
	KeyF1: 57364, KeyF2: 57365, KeyF3: 57366, KeyF4: 57367,
	KeyF5: 57368, KeyF6: 57369, KeyF7: 57370, KeyF8: 57371,
	KeyF9: 57372, KeyF10: 57373, KeyF11: 57374, KeyF12: 57375,
}

// legacyFinal is the CSI final byte for terminfo-style cursor/editing
// keys (CSI <final> for unmodified, CSI 1 ; mods <final> when modified).
var legacyFinal = map[NamedKey]byte{
	KeyUp: 'A', KeyDown: 'B', KeyRight: 'C', KeyLeft: 'D',
	KeyHome: 'H', KeyEnd: 'F',
}

// tildeCode is the CSI <code> ~ parameter for editing keys that have no
// single final letter.
var tildeCode = map[NamedKey]int{
	KeyInsert: 2, KeyDelete: 3, KeyPageUp: 5, KeyPageDown: 6,
	KeyF5: 15, KeyF6: 17, KeyF7: 18, KeyF8: 19, KeyF9: 20, KeyF10: 21,
	KeyF11: 23, KeyF12: 24,
}

// Mode carries the subset of terminal mode state the encoder needs.
type Mode struct {
	ApplicationCursor bool // DECCKM: arrows use SS3 instead of CSI
	KittyFlags        KittyFlags
}

// Encode returns the bytes to send to the child for a key event. event
// is only meaningful when Kitty event reporting is enabled; pass
// EventPress otherwise.
func Encode(key Key, mods Mod, event EventType, mode Mode) []byte {
	if mode.KittyFlags&(KittyDisambiguate|KittyReportAllAsEscape) != 0 {
		if b, ok := encodeKitty(key, mods, event, mode); ok {
			return b
		}
	}
	return encodeLegacy(key, mods, mode)
}

func encodeLegacy(key Key, mods Mod, mode Mode) []byte {
	if key.Named == KeyNone {
		return encodeLegacyRune(key.Rune, mods)
	}

	switch key.Named {
	case KeyTab:
		return []byte{'\t'}
	case KeyEnter:
		return []byte{'\r'}
	case KeyBackspace:
		return []byte{0x7f}
	case KeyEscape:
		return []byte{0x1b}
	}

	if final, ok := legacyFinal[key.Named]; ok {
		if mods == 0 {
			if mode.ApplicationCursor && isCursorKey(key.Named) {
				return []byte(fmt.Sprintf("\x1bO%c", final))
			}
			return []byte(legacyCursorSeq(key.Named))
		}
		return []byte(fmt.Sprintf("%s1;%d%c", csi, int(mods)+1, final))
	}

	if code, ok := tildeCode[key.Named]; ok {
		if mods == 0 {
			return []byte(fmt.Sprintf("%s%d~", csi, code))
		}
		return []byte(fmt.Sprintf("%s%d;%d~", csi, code, int(mods)+1))
	}

	if f, ok := functionKeyFinal(key.Named); ok {
		if mods == 0 {
			return []byte(fmt.Sprintf("\x1bO%c", f))
		}
		return []byte(fmt.Sprintf("%s1;%d%c", csi, int(mods)+1, f))
	}

	return nil
}

// legacyCursorSeq returns the unmodified terminfo cursor/home/end
// sequence, reusing charmbracelet/x/ansi's named builders rather than
// hand-formatting the same CSI final bytes legacyFinal already names.
func legacyCursorSeq(k NamedKey) string {
	switch k {
	case KeyUp:
		return ansi.CursorUp(1)
	case KeyDown:
		return ansi.CursorDown(1)
	case KeyRight:
		return ansi.CursorForward(1)
	case KeyLeft:
		return ansi.CursorBackward(1)
	case KeyHome:
		return ansi.CursorHomePosition
	case KeyEnd:
		return fmt.Sprintf("%sF", csi)
	}
	return ""
}

func isCursorKey(k NamedKey) bool {
	return k == KeyUp || k == KeyDown || k == KeyLeft || k == KeyRight
}

// functionKeyFinal covers F1-F4, which use SS3 final letters P-S rather
// than the tilde form the rest of the F-row uses.
func functionKeyFinal(k NamedKey) (byte, bool) {
	switch k {
	case KeyF1:
		return 'P', true
	case KeyF2:
		return 'Q', true
	case KeyF3:
		return 'R', true
	case KeyF4:
		return 'S', true
	}
	return 0, false
}

func encodeLegacyRune(r rune, mods Mod) []byte {
	var b []byte
	if mods&ModCtrl != 0 && r >= '@' && r <= '~' {
		b = []byte{byte(r) & 0x1f}
	} else {
		b = []byte(string(r))
	}
	// Alt-sends-escape: prepend ESC to the encoded rune (of any length)
	// when Alt is held.
	if mods&ModAlt != 0 {
		b = append([]byte{0x1b}, b...)
	}
	return b
}

// encodeKitty builds the Kitty protocol's CSI number ; mods [: event] u
// form (no associated-text field is emitted). ok is false for a plain printable rune with no
// modifiers and no named key, which the legacy path already encodes
// identically and more portably.
func encodeKitty(key Key, mods Mod, event EventType, mode Mode) ([]byte, bool) {
	var codepoint int
	switch {
	case key.Named != KeyNone:
		code, ok := kittyCode[key.Named]
		if !ok {
			return nil, false
		}
		codepoint = code
	case key.Rune != 0:
		codepoint = int(key.Rune)
	default:
		return nil, false
	}

	if mods == 0 && event == EventPress && key.Named == KeyNone &&
		mode.KittyFlags&KittyReportAllAsEscape == 0 {
		return nil, false
	}

	var params []string
	params = append(params, fmt.Sprintf("%d", codepoint))

	modField := fmt.Sprintf("%d", int(mods)+1)
	if mode.KittyFlags&KittyReportEvents != 0 && event != EventPress {
		modField = fmt.Sprintf("%s:%d", modField, int(event))
	}
	params = append(params, modField)

	seq := fmt.Sprintf("%s%su", csi, strings.Join(params, ";"))
	return []byte(seq), true
}
