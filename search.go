package headlessterm

import "strings"

var bracketPairs = map[rune]rune{
	'(': ')', '[': ']', '{': '}',
}
var bracketPairsReverse = map[rune]rune{
	')': '(', ']': '[', '}': '{',
}

// TotalLines implements selectionSearcher: the active buffer's entire
// resident span (visible + scrollback).
func (t *Terminal) TotalLines() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.activeBuffer.TotalLines()
}

func (t *Terminal) isSemanticSeparator(c rune) bool {
	if c == 0 || c == ' ' {
		return true
	}
	return strings.ContainsRune(t.semanticEscapeChars, c)
}

// cellRuneAbs returns the display character at an absolute point, or 0
// if the cell is empty/out of range.
func (t *Terminal) cellRuneAbs(p AbsPoint) rune {
	c := t.activeBuffer.CellAbs(p.Line, p.Column)
	if c == nil || c.IsEmpty() {
		return 0
	}
	return c.Char
}

// SemanticSearchLeft expands a point to the left (toward lower columns,
// wrapping to the previous row following WRAPLINE) until a semantic
// separator or the buffer edge is reached.
func (t *Terminal) SemanticSearchLeft(p AbsPoint) AbsPoint {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.semanticSearchLeftLocked(p)
}

// semanticSearchLeftLocked is SemanticSearchLeft without acquiring the
// lock, for callers (vicursor.go) that already hold it.
func (t *Terminal) semanticSearchLeftLocked(p AbsPoint) AbsPoint {
	cols := Column(t.activeBuffer.Cols())
	total := t.activeBuffer.TotalLines()

	startSep := t.isSemanticSeparator(t.cellRuneAbs(p))
	cur := p
	for {
		next, ok := t.stepLeft(cur, cols, total)
		if !ok {
			break
		}
		sep := t.isSemanticSeparator(t.cellRuneAbs(next))
		if sep != startSep {
			break
		}
		cur = next
	}
	return cur
}

// SemanticSearchRight is the mirror of SemanticSearchLeft.
func (t *Terminal) SemanticSearchRight(p AbsPoint) AbsPoint {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.semanticSearchRightLocked(p)
}

func (t *Terminal) semanticSearchRightLocked(p AbsPoint) AbsPoint {
	cols := Column(t.activeBuffer.Cols())

	startSep := t.isSemanticSeparator(t.cellRuneAbs(p))
	cur := p
	for {
		next, ok := t.stepRight(cur, cols)
		if !ok {
			break
		}
		sep := t.isSemanticSeparator(t.cellRuneAbs(next))
		if sep != startSep {
			break
		}
		cur = next
	}
	return cur
}

func (t *Terminal) stepLeft(p AbsPoint, cols Column, total int) (AbsPoint, bool) {
	if p.Column > 0 {
		return NewAbsPoint(p.Line, p.Column-1), true
	}
	if p.Line+1 >= total {
		return p, false
	}
	prevLine := p.Line + 1
	row := t.activeBuffer.RowAbs(prevLine)
	if row == nil {
		return p, false
	}
	last := row.Last()
	if last == nil || !last.HasFlag(CellFlagWrapline) {
		return p, false
	}
	return NewAbsPoint(prevLine, cols-1), true
}

func (t *Terminal) stepRight(p AbsPoint, cols Column) (AbsPoint, bool) {
	row := t.activeBuffer.RowAbs(p.Line)
	if row != nil {
		last := row.Last()
		if p.Column == cols-1 {
			if last != nil && last.HasFlag(CellFlagWrapline) && p.Line > 0 {
				return NewAbsPoint(p.Line-1, 0), true
			}
			return p, false
		}
	}
	if p.Line <= 0 && p.Column >= cols-1 {
		return p, false
	}
	return NewAbsPoint(p.Line, p.Column+1), true
}

// LineSearchLeft expands to the start of the logical (wrap-joined) line
// containing p.
func (t *Terminal) LineSearchLeft(p AbsPoint) AbsPoint {
	t.mu.RLock()
	defer t.mu.RUnlock()

	total := t.activeBuffer.TotalLines()
	for {
		if p.Line+1 >= total {
			return NewAbsPoint(p.Line, 0)
		}
		row := t.activeBuffer.RowAbs(p.Line + 1)
		if row == nil {
			return NewAbsPoint(p.Line, 0)
		}
		last := row.Last()
		if last == nil || !last.HasFlag(CellFlagWrapline) {
			return NewAbsPoint(p.Line, 0)
		}
		p.Line++
	}
}

// LineSearchRight expands to the end of the logical (wrap-joined) line
// containing p.
func (t *Terminal) LineSearchRight(p AbsPoint) AbsPoint {
	t.mu.RLock()
	defer t.mu.RUnlock()

	cols := Column(t.activeBuffer.Cols())
	for {
		row := t.activeBuffer.RowAbs(p.Line)
		if row == nil {
			return NewAbsPoint(p.Line, cols-1)
		}
		last := row.Last()
		if last == nil || !last.HasFlag(CellFlagWrapline) || p.Line == 0 {
			return NewAbsPoint(p.Line, cols-1)
		}
		p.Line--
	}
}

// BracketSearch looks outward from p for the matching bracket,
// respecting nesting, scanning forward for an opener and backward for a
// closer. ok is false if p isn't on a bracket or no match is found.
func (t *Terminal) BracketSearch(p AbsPoint) (AbsPoint, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.bracketSearchLocked(p)
}

func (t *Terminal) bracketSearchLocked(p AbsPoint) (AbsPoint, bool) {
	c := t.cellRuneAbs(p)
	cols := Column(t.activeBuffer.Cols())
	total := t.activeBuffer.TotalLines()

	if closer, ok := bracketPairs[c]; ok {
		return t.bracketScan(p, c, closer, cols, total, true)
	}
	if opener, ok := bracketPairsReverse[c]; ok {
		return t.bracketScan(p, c, opener, cols, total, false)
	}
	return AbsPoint{}, false
}

func (t *Terminal) bracketScan(start AbsPoint, open, match rune, cols Column, total int, forward bool) (AbsPoint, bool) {
	depth := 0
	cur := start
	for {
		var next AbsPoint
		var ok bool
		if forward {
			next, ok = t.stepRight(cur, cols)
		} else {
			next, ok = t.stepLeft(cur, cols, total)
		}
		if !ok {
			return AbsPoint{}, false
		}
		cur = next

		c := t.cellRuneAbs(cur)
		switch {
		case c == open:
			depth++
		case c == match:
			if depth == 0 {
				return cur, true
			}
			depth--
		}
	}
}

// --- Rich selection wiring (C6) ---

// BeginTextSelection starts a rich (simple/block/semantic/lines)
// selection at an absolute buffer point.
func (t *Terminal) BeginTextSelection(kind SelectionType, point AbsPoint, side Side) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.textSelection = NewTextSelection(kind, point, side)
}

// UpdateTextSelection moves the live end of the in-progress selection.
func (t *Terminal) UpdateTextSelection(point AbsPoint, side Side) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.textSelection != nil {
		t.textSelection.Update(point, side)
	}
}

// ClearTextSelection drops the rich selection.
func (t *Terminal) ClearTextSelection() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.textSelection = nil
}

// TextSelectionRange returns the current rich selection in normalized
// grid coordinates, ok=false if there is none or it's out of buffer.
func (t *Terminal) TextSelectionRange() (SelectionRange, bool) {
	t.mu.RLock()
	sel := t.textSelection
	t.mu.RUnlock()
	if sel == nil {
		return SelectionRange{}, false
	}
	return sel.ToRange(t)
}

// RotateTextSelection adjusts the selection for a scroll of delta lines
// within the given absolute-line region, clearing it if the rotation
// would invert or fully evict it.
func (t *Terminal) RotateTextSelection(regionBottom, regionTop, delta int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.textSelection == nil {
		return
	}
	total := t.activeBuffer.TotalLines()
	if rotated := t.textSelection.Rotate(total, regionBottom, regionTop, delta); rotated != nil {
		t.textSelection = rotated
	} else {
		t.textSelection = nil
	}
}
