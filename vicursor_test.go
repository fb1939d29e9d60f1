package headlessterm

import "testing"

func TestViCursorMotionBasic(t *testing.T) {
	term := New(WithSize(5, 20))
	term.Write([]byte("hello world\r\n"))

	c := NewViCursor(NewPoint(0, 0))

	c = c.Motion(term, MotionRight)
	if c.Point.Column != 1 {
		t.Fatalf("expected column 1 after MotionRight, got %d", c.Point.Column)
	}

	c = c.Motion(term, MotionEnd)
	if int(c.Point.Column) != term.Cols()-1 {
		t.Fatalf("expected MotionEnd to land on the last column, got %d", c.Point.Column)
	}

	c = c.Motion(term, MotionStart)
	if c.Point.Column != 0 {
		t.Fatalf("expected MotionStart to land on column 0, got %d", c.Point.Column)
	}
}

func TestViCursorMotionUpAtTopScrolls(t *testing.T) {
	term := New(WithSize(5, 20))
	for i := 0; i < 20; i++ {
		term.Write([]byte("line\r\n"))
	}

	c := NewViCursor(NewPoint(0, 0))
	before := term.activeBuffer.DisplayOffset()
	c = c.Motion(term, MotionUp)
	after := term.activeBuffer.DisplayOffset()

	if after == before {
		t.Fatal("expected MotionUp at the top row to scroll the display")
	}
	if c.Point.Line != 0 {
		t.Fatalf("cursor should stay on visual row 0 while the display scrolls, got %d", c.Point.Line)
	}
}

func TestViCursorWordMotion(t *testing.T) {
	term := New(WithSize(5, 40))
	term.Write([]byte("foo bar baz"))

	c := NewViCursor(NewPoint(0, 0))
	c = c.Motion(term, MotionWordRight)
	if c.Point.Column == 0 {
		t.Fatal("expected MotionWordRight to advance past the first word")
	}
}
