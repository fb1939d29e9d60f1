package headlessterm

// Side identifies which half of a cell an anchor point refers to, so a
// selection boundary can fall between two cells rather than only ever
// landing on one.
type Side int

const (
	SideLeft Side = iota
	SideRight
)

// anchor is a point paired with the cell-side it anchors to.
type anchor struct {
	point AbsPoint
	side  Side
}

func newAnchor(point AbsPoint, side Side) anchor {
	return anchor{point: point, side: side}
}

// SelectionType distinguishes the four selection shapes a terminal supports.
type SelectionType int

const (
	SelectionSimple SelectionType = iota
	SelectionBlock
	SelectionSemantic
	SelectionLines
)

// SelectionRange is a normalized, start<=end selection ready for rendering
// or text extraction.
type SelectionRange struct {
	Start   AbsPoint
	End     AbsPoint
	IsBlock bool
}

// Contains reports whether (col, line) falls inside the range.
func (r SelectionRange) Contains(col Column, line int) bool {
	if line > r.Start.Line || line < r.End.Line {
		return false
	}
	startOK := r.Start.Column <= col || (r.Start.Line != line && !r.IsBlock)
	endOK := r.End.Column >= col || (r.End.Line != line && !r.IsBlock)
	return startOK && endOK
}

// TextSelection tracks a text selection in progress, in the four modes
// Alacritty supports: a precise cell-range Simple selection, a
// rectangular Block selection, a Semantic selection that snaps to word
// or bracket boundaries, and a whole-Lines selection. This sits
// alongside the terminal's simpler rectangular Selection/SetSelection
// API, which remains the quick path for callers that only need a plain
// start/end span; TextSelection is for front ends that want double- and
// triple-click semantics and scroll-aware rotation.
type TextSelection struct {
	Type   SelectionType
	region [2]anchor // [0]=start, [1]=end, in input order (not yet canonicalized)
}

// NewTextSelection begins a selection of the given kind anchored at point.
func NewTextSelection(kind SelectionType, point AbsPoint, side Side) *TextSelection {
	a := newAnchor(point, side)
	return &TextSelection{Type: kind, region: [2]anchor{a, a}}
}

// Update moves the live end of the selection to a new point.
func (s *TextSelection) Update(point AbsPoint, side Side) {
	s.region[1] = newAnchor(point, side)
}

func pointsNeedSwap(start, end AbsPoint) bool {
	if start.Line != end.Line {
		return start.Line < end.Line
	}
	return start.Column > end.Column
}

func (s *TextSelection) ordered() (start, end anchor) {
	start, end = s.region[0], s.region[1]
	if pointsNeedSwap(start.point, end.point) {
		start, end = end, start
	}
	return start, end
}

// IsEmpty reports whether the selection currently spans zero cells.
func (s *TextSelection) IsEmpty() bool {
	switch s.Type {
	case SelectionSimple:
		start, end := s.ordered()
		if start == end {
			return true
		}
		return start.side == SideRight && end.side == SideLeft &&
			start.point.Line == end.point.Line && start.point.Column+1 == end.point.Column
	case SelectionBlock:
		start, end := s.region[0], s.region[1]
		if start.point.Column == end.point.Column && start.side == end.side {
			return true
		}
		if start.point.Column+1 == end.point.Column && start.side == SideRight && end.side == SideLeft {
			return true
		}
		if end.point.Column+1 == start.point.Column && start.side == SideLeft && end.side == SideRight {
			return true
		}
		return false
	default: // Semantic, Lines
		return false
	}
}

// IncludeAll widens the selection's anchor sides so every touched cell
// counts as selected, used when the caller wants to select-all.
func (s *TextSelection) IncludeAll() {
	start, end := s.region[0].point, s.region[1].point
	var startSide, endSide Side
	switch {
	case s.Type == SelectionBlock && (start.Column > end.Column ||
		(start.Column == end.Column && start.Line < end.Line)):
		startSide, endSide = SideRight, SideLeft
	case s.Type == SelectionBlock:
		startSide, endSide = SideLeft, SideRight
	case pointsNeedSwap(start, end):
		startSide, endSide = SideRight, SideLeft
	default:
		startSide, endSide = SideLeft, SideRight
	}
	s.region[0].side = startSide
	s.region[1].side = endSide
}

// IntersectsRange reports whether any selected line falls within
// [lo, hi] (inclusive), used to decide whether a scroll or clear needs
// to invalidate the selection.
func (s *TextSelection) IntersectsRange(lo, hi int) bool {
	start, end := s.region[0].point.Line, s.region[1].point.Line
	if start < end {
		start, end = end, start
	}
	return lo <= start && hi >= end
}

// Rotate adjusts the selection for a scroll of delta lines within
// [regionBottom, regionTop) (regionBottom is the smaller absolute line,
// i.e. the newer edge). Returns nil if the rotation would invert or
// scroll the selection entirely out of view.
func (s *TextSelection) Rotate(totalLines int, regionBottom, regionTop, delta int) *TextSelection {
	start, end := &s.region[0], &s.region[1]
	if pointsNeedSwap(start.point, end.point) {
		start, end = end, start
	}

	if (start.point.Line < regionTop || regionTop == totalLines) && start.point.Line >= regionBottom {
		start.point.Line = satAddInt(start.point.Line, delta)

		if start.point.Line < regionBottom && end.point.Line >= regionBottom {
			return nil
		}

		if start.point.Line >= regionTop && regionTop != totalLines {
			if s.Type != SelectionBlock {
				start.point.Column = 0
				start.side = SideLeft
			}
			start.point.Line = regionTop - 1
		}
	}

	if (end.point.Line < regionTop || regionTop == totalLines) && end.point.Line >= regionBottom {
		end.point.Line = satAddInt(end.point.Line, delta)

		if end.point.Line > start.point.Line {
			return nil
		}

		if end.point.Line < regionBottom {
			if s.Type != SelectionBlock {
				end.point.Column = 0
				end.side = SideRight
			}
			end.point.Line = regionBottom
		}
	}

	return s
}

func satAddInt(v, delta int) int {
	r := v + delta
	if r < 0 {
		return 0
	}
	return r
}

// selectionSearcher is the minimal surface TextSelection.ToRange needs
// from a terminal to expand Semantic and Lines selections; Terminal
// satisfies it via search.go.
type selectionSearcher interface {
	Cols() int
	TotalLines() int
	BracketSearch(p AbsPoint) (AbsPoint, bool)
	SemanticSearchLeft(p AbsPoint) AbsPoint
	SemanticSearchRight(p AbsPoint) AbsPoint
	LineSearchLeft(p AbsPoint) AbsPoint
	LineSearchRight(p AbsPoint) AbsPoint
}

// ToRange converts the selection to normalized grid coordinates, ready
// for highlighting or text extraction, expanding Semantic/Lines
// selections and clamping to the buffer's current extent. Returns false
// if the selection has scrolled entirely out of the buffer.
func (s *TextSelection) ToRange(term selectionSearcher) (SelectionRange, bool) {
	start, end := s.region[0], s.region[1]
	if pointsNeedSwap(start.point, end.point) {
		start, end = end, start
	}

	lines := term.TotalLines()
	if start.point.Line >= lines {
		if end.point.Line >= lines {
			return SelectionRange{}, false
		}
		if s.Type != SelectionBlock {
			start.side = SideLeft
			start.point.Column = 0
		}
		start.point.Line = lines - 1
	}

	switch s.Type {
	case SelectionSimple:
		return s.rangeSimple(start, end, Column(term.Cols()))
	case SelectionBlock:
		return s.rangeBlock(start, end)
	case SelectionSemantic:
		return rangeSemantic(term, start.point, end.point)
	case SelectionLines:
		return rangeLines(term, start.point, end.point)
	}
	return SelectionRange{}, false
}

func (s *TextSelection) rangeSimple(start, end anchor, numCols Column) (SelectionRange, bool) {
	if s.IsEmpty() {
		return SelectionRange{}, false
	}

	if end.side == SideLeft && start.point != end.point {
		if end.point.Column == 0 {
			end.point.Column = numCols - 1
			end.point.Line++
		} else {
			end.point.Column--
		}
	}

	if start.side == SideRight && start.point != end.point {
		start.point.Column++
		if start.point.Column == numCols {
			start.point = NewAbsPoint(satSub(start.point.Line, 1), 0)
		}
	}

	return SelectionRange{Start: start.point, End: end.point, IsBlock: false}, true
}

func (s *TextSelection) rangeBlock(start, end anchor) (SelectionRange, bool) {
	if s.IsEmpty() {
		return SelectionRange{}, false
	}

	if start.point.Column > end.point.Column {
		start.side, end.side = end.side, start.side
		start.point.Column, end.point.Column = end.point.Column, start.point.Column
	}

	if end.side == SideLeft && start.point != end.point && end.point.Column > 0 {
		end.point.Column--
	}
	if start.side == SideRight && start.point != end.point {
		start.point.Column++
	}

	return SelectionRange{Start: start.point, End: end.point, IsBlock: true}, true
}

func rangeSemantic(term selectionSearcher, start, end AbsPoint) (SelectionRange, bool) {
	if start == end {
		if matching, ok := term.BracketSearch(start); ok {
			if (matching.Line == start.Line && matching.Column < start.Column) || matching.Line > start.Line {
				start = matching
			} else {
				end = matching
			}
			return SelectionRange{Start: start, End: end, IsBlock: false}, true
		}
	}

	start = term.SemanticSearchLeft(start)
	end = term.SemanticSearchRight(end)
	return SelectionRange{Start: start, End: end, IsBlock: false}, true
}

func rangeLines(term selectionSearcher, start, end AbsPoint) (SelectionRange, bool) {
	start = term.LineSearchLeft(start)
	end = term.LineSearchRight(end)
	return SelectionRange{Start: start, End: end, IsBlock: false}, true
}
