package keyenc

import (
	"bytes"
	"testing"
)

func TestEncodeControlCharacters(t *testing.T) {
	cases := []struct {
		key  Key
		want []byte
	}{
		{Key{Named: KeyTab}, []byte{'\t'}},
		{Key{Named: KeyEnter}, []byte{'\r'}},
		{Key{Named: KeyBackspace}, []byte{0x7f}},
		{Key{Named: KeyEscape}, []byte{0x1b}},
	}
	for _, c := range cases {
		got := Encode(c.key, 0, EventPress, Mode{})
		if !bytes.Equal(got, c.want) {
			t.Errorf("key %+v: got %q want %q", c.key, got, c.want)
		}
	}
}

func TestEncodeCtrlLettersAreStripped(t *testing.T) {
	got := Encode(Key{Rune: 'c'}, ModCtrl, EventPress, Mode{})
	if len(got) != 1 || got[0] != 0x03 {
		t.Errorf("ctrl-c: got %q want \\x03", got)
	}
}

func TestEncodeAltPrependsEscape(t *testing.T) {
	got := Encode(Key{Rune: 'x'}, ModAlt, EventPress, Mode{})
	want := []byte{0x1b, 'x'}
	if !bytes.Equal(got, want) {
		t.Errorf("alt-x: got %q want %q", got, want)
	}
}

func TestEncodeArrowApplicationCursor(t *testing.T) {
	got := Encode(Key{Named: KeyUp}, 0, EventPress, Mode{ApplicationCursor: true})
	if string(got) != "\x1bOA" {
		t.Errorf("application-cursor up: got %q want \\x1bOA", got)
	}
}

func TestEncodeArrowModified(t *testing.T) {
	got := Encode(Key{Named: KeyUp}, ModShift, EventPress, Mode{})
	if string(got) != "\x1b[1;2A" {
		t.Errorf("shift-up: got %q want \\x1b[1;2A", got)
	}
}

func TestEncodeTildeKey(t *testing.T) {
	got := Encode(Key{Named: KeyDelete}, 0, EventPress, Mode{})
	if string(got) != "\x1b[3~" {
		t.Errorf("delete: got %q want \\x1b[3~", got)
	}
}

func TestEncodeKittyPlainRuneFallsBackToLegacy(t *testing.T) {
	mode := Mode{KittyFlags: KittyDisambiguate}
	got := Encode(Key{Rune: 'a'}, 0, EventPress, mode)
	if string(got) != "a" {
		t.Errorf("plain rune under kitty disambiguate: got %q want \"a\"", got)
	}
}

func TestEncodeKittyNamedKeyUsesCSIu(t *testing.T) {
	mode := Mode{KittyFlags: KittyDisambiguate}
	got := Encode(Key{Named: KeyUp}, 0, EventPress, mode)
	if string(got) != "\x1b[57352;1u" {
		t.Errorf("kitty up: got %q want \\x1b[57352;1u", got)
	}
}

func TestEncodeKittyReportsEventType(t *testing.T) {
	mode := Mode{KittyFlags: KittyDisambiguate | KittyReportEvents}
	got := Encode(Key{Named: KeyUp}, ModShift, EventRelease, mode)
	if string(got) != "\x1b[57352;2:3u" {
		t.Errorf("kitty shift-up release: got %q want \\x1b[57352;2:3u", got)
	}
}

func TestEncodeKittyReportAllAsEscapeCoversPlainRune(t *testing.T) {
	mode := Mode{KittyFlags: KittyReportAllAsEscape}
	got := Encode(Key{Rune: 'a'}, 0, EventPress, mode)
	if string(got) != "\x1b[97;1u" {
		t.Errorf("kitty report-all plain a: got %q want \\x1b[97;1u", got)
	}
}
