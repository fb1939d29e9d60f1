package headlessterm

// Motion enumerates the keyboard-driven cursor movements ViCursor
// supports, mirroring vi's navigation model over the grid.
type Motion int

const (
	MotionUp Motion = iota
	MotionDown
	MotionLeft
	MotionRight
	MotionStart
	MotionEnd
	MotionHigh
	MotionMiddle
	MotionLow
	MotionSemanticLeft
	MotionSemanticRight
	MotionSemanticLeftEnd
	MotionSemanticRightEnd
	MotionWordLeft
	MotionWordRight
	MotionWordLeftEnd
	MotionWordRightEnd
	MotionBracket
)

// ViCursor tracks a keyboard-navigable position independent of the
// write cursor, in visible (viewport-relative) coordinates. Motion
// returns a new ViCursor rather than mutating in place, mirroring the
// teacher corpus's value-semantics cursor types.
type ViCursor struct {
	Point Point
}

// NewViCursor creates a cursor at the given visible point.
func NewViCursor(p Point) ViCursor {
	return ViCursor{Point: p}
}

// vicursorDims adapts a Terminal to the Dimensions interface point.go's
// absolute-point arithmetic needs.
type vicursorDims struct{ t *Terminal }

func (d vicursorDims) Cols() Column     { return Column(d.t.activeBuffer.Cols()) }
func (d vicursorDims) ScreenLines() int { return d.t.activeBuffer.Rows() }
func (d vicursorDims) HistorySize() int { return d.t.activeBuffer.HistorySize() }
func (d vicursorDims) TotalLines() int  { return d.t.activeBuffer.TotalLines() }

// Motion applies a single motion against term's current grid,
// returning the resulting cursor. term's display may scroll as a side
// effect (Up/Down at the viewport edge, and any motion landing outside
// the current viewport), dispatching a Wakeup event through term's
// registered EventListener.
func (c ViCursor) Motion(term *Terminal, m Motion) ViCursor {
	term.mu.Lock()
	defer term.mu.Unlock()

	lines := term.activeBuffer.Rows()
	cols := Column(term.activeBuffer.Cols())

	switch m {
	case MotionUp:
		if c.Point.Line == 0 {
			term.scrollDisplayLocked(1)
		} else {
			c.Point.Line--
		}
	case MotionDown:
		if int(c.Point.Line) >= lines-1 {
			term.scrollDisplayLocked(-1)
		} else {
			c.Point.Line++
		}
	case MotionLeft:
		c.Point = expandWide(term, c.Point, true)
		if c.Point.Column > 0 {
			c.Point.Column--
		}
	case MotionRight:
		c.Point = expandWide(term, c.Point, false)
		if c.Point.Column+1 < cols {
			c.Point.Column++
		} else {
			c.Point.Column = cols - 1
		}
	case MotionStart:
		c.Point.Column = 0
	case MotionEnd:
		c.Point.Column = cols - 1
	case MotionHigh:
		c.Point = NewPoint(0, 0)
	case MotionMiddle:
		c.Point = NewPoint(Line((lines-1)/2), 0)
	case MotionLow:
		c.Point = NewPoint(Line(lines-1), 0)
	case MotionSemanticLeft:
		c.Point = semanticMove(term, c.Point, true, true)
	case MotionSemanticRight:
		c.Point = semanticMove(term, c.Point, false, true)
	case MotionSemanticLeftEnd:
		c.Point = semanticMove(term, c.Point, true, false)
	case MotionSemanticRightEnd:
		c.Point = semanticMove(term, c.Point, false, false)
	case MotionWordLeft:
		c.Point = wordMove(term, c.Point, true, true)
	case MotionWordRight:
		c.Point = wordMove(term, c.Point, false, true)
	case MotionWordLeftEnd:
		c.Point = wordMove(term, c.Point, true, false)
	case MotionWordRightEnd:
		c.Point = wordMove(term, c.Point, false, false)
	case MotionBracket:
		abs := ToAbsPoint(c.Point, term.activeBuffer.DisplayOffset(), lines)
		if matched, ok := term.bracketSearchLocked(abs); ok {
			scrollIntoViewLocked(term, matched)
			if vis, ok := ToVisiblePoint(matched, term.activeBuffer.DisplayOffset(), lines); ok {
				c.Point = vis
			}
		}
	}

	return c
}

func cellAtVisibleLocked(term *Terminal, p Point) *Cell {
	return term.activeBuffer.Cell(int(p.Line), int(p.Column))
}

// expandWide jumps to the leading cell of a wide character so motions
// never land on its spacer half.
func expandWide(term *Terminal, p Point, left bool) Point {
	c := cellAtVisibleLocked(term, p)
	if c == nil {
		return p
	}
	if c.HasFlag(CellFlagWideChar) && !left {
		p.Column++
		return p
	}
	if c.HasFlag(CellFlagWideCharSpacer) && left && p.Column > 0 {
		prev := cellAtVisibleLocked(term, NewPoint(p.Line, p.Column-1))
		if prev != nil && prev.HasFlag(CellFlagWideChar) {
			p.Column--
		}
	}
	return p
}

func isSpaceAbs(term *Terminal, p AbsPoint) bool {
	c := term.activeBuffer.CellAbs(p.Line, p.Column)
	return c != nil && c.Char == ' ' && !c.HasFlag(CellFlagWideCharSpacer)
}

func isBoundaryAbs(term *Terminal, p AbsPoint, left bool) bool {
	cols := Column(term.activeBuffer.Cols())
	total := term.activeBuffer.TotalLines()
	if !left {
		return p.Line == 0 && p.Column+1 >= cols
	}
	return p.Line+1 >= total && p.Column == 0
}

func advanceAbs(term *Terminal, p AbsPoint, left bool) AbsPoint {
	dims := vicursorDims{t: term}
	if left {
		return p.SubAbsolute(dims, OldBoundaryClamp, 1)
	}
	return p.AddAbsolute(dims, OldBoundaryClamp, 1)
}

func scrollIntoViewLocked(term *Terminal, p AbsPoint) {
	offset := term.activeBuffer.DisplayOffset()
	lines := term.activeBuffer.Rows()

	if p.Line >= offset+lines {
		delta := p.Line - (offset + lines - 1)
		term.scrollDisplayLocked(-delta)
	} else if p.Line < offset {
		delta := offset - p.Line
		term.scrollDisplayLocked(delta)
	}
}

func semanticMove(term *Terminal, point Point, left, start bool) Point {
	lines := term.activeBuffer.Rows()
	offset := term.activeBuffer.DisplayOffset()

	point = expandWide(term, point, left)
	buf := ToAbsPoint(point, offset, lines)

	semantic := func(p AbsPoint) AbsPoint {
		c := term.activeBuffer.CellAbs(p.Line, p.Column)
		if c != nil && term.isSemanticSeparator(c.Char) && !c.HasFlag(CellFlagWideCharSpacer) {
			return p
		}
		if left {
			return term.semanticSearchLeftLocked(p)
		}
		return term.semanticSearchRightLocked(p)
	}

	if !isBoundaryAbs(term, buf, left) && left != start {
		buf = semantic(buf)
	}

	cur := advanceAbs(term, buf, left)
	for !isBoundaryAbs(term, buf, left) && isSpaceAbs(term, cur) {
		buf = cur
		cur = advanceAbs(term, buf, left)
	}

	if !isBoundaryAbs(term, buf, left) {
		buf = advanceAbs(term, buf, left)
	}

	if !isBoundaryAbs(term, buf, left) && left == start {
		buf = semantic(buf)
	}

	scrollIntoViewLocked(term, buf)
	offset = term.activeBuffer.DisplayOffset()
	if vis, ok := ToVisiblePoint(buf, offset, lines); ok {
		return vis
	}
	return Point{}
}

func wordMove(term *Terminal, point Point, left, start bool) Point {
	lines := term.activeBuffer.Rows()
	offset := term.activeBuffer.DisplayOffset()

	point = expandWide(term, point, left)
	buf := ToAbsPoint(point, offset, lines)

	if left == start {
		cur := advanceAbs(term, buf, left)
		for !isBoundaryAbs(term, buf, left) && isSpaceAbs(term, cur) {
			buf = cur
			cur = advanceAbs(term, buf, left)
		}

		cur = advanceAbs(term, buf, left)
		for !isBoundaryAbs(term, buf, left) && !isSpaceAbs(term, cur) {
			buf = cur
			cur = advanceAbs(term, buf, left)
		}
	} else {
		for !isBoundaryAbs(term, buf, left) && !isSpaceAbs(term, buf) {
			buf = advanceAbs(term, buf, left)
		}
		for !isBoundaryAbs(term, buf, left) && isSpaceAbs(term, buf) {
			buf = advanceAbs(term, buf, left)
		}
	}

	scrollIntoViewLocked(term, buf)
	offset = term.activeBuffer.DisplayOffset()
	if vis, ok := ToVisiblePoint(buf, offset, lines); ok {
		return vis
	}
	return Point{}
}
