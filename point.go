package headlessterm

import "fmt"

// Column is a zero-based, unsigned cell offset within a row.
type Column int

// Line is a signed row offset. Zero is the top of the visible viewport;
// negative values reach up into scrollback.
type Line int

// Boundary controls how Point arithmetic clamps or wraps at grid edges.
type Boundary int

const (
	// BoundaryCursor restricts movement to the cursor's range of motion,
	// equal to the viewport when not scrolled into history.
	BoundaryCursor Boundary = iota
	// BoundaryGrid spans from the topmost scrollback line to the bottom
	// of the viewport.
	BoundaryGrid
	// BoundaryNone wraps modulo the total number of lines (torus semantics).
	BoundaryNone
)

// Dimensions is supplied by callers performing Point arithmetic so that
// point.go stays independent of the concrete Grid type.
type Dimensions interface {
	Cols() Column
	ScreenLines() int
	HistorySize() int
	TotalLines() int
}

// Point identifies a cell by (line, column). Line is buffer-relative: 0 is
// the top row of the visible viewport, negative lines reach into scrollback.
type Point struct {
	Line   Line
	Column Column
}

func NewPoint(line Line, col Column) Point {
	return Point{Line: line, Column: col}
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.Line, p.Column)
}

// Add advances rhs cells forward, wrapping across row boundaries at cols
// wide, then clamps per boundary.
func (p Point) Add(d Dimensions, boundary Boundary, rhs int) Point {
	cols := int(d.Cols())
	p.Line += Line((rhs + int(p.Column)) / cols)
	p.Column = Column((int(p.Column) + rhs) % cols)
	return p.GridClamp(d, boundary)
}

// Sub is the symmetric inverse of Add.
func (p Point) Sub(d Dimensions, boundary Boundary, rhs int) Point {
	cols := int(d.Cols())
	lineChanges := satSub(rhs+cols-1, int(p.Column)) / cols
	p.Line -= Line(lineChanges)
	p.Column = Column((cols + int(p.Column) - rhs%cols) % cols)
	return p.GridClamp(d, boundary)
}

// GridClamp clamps a point to the given boundary policy.
func (p Point) GridClamp(d Dimensions, boundary Boundary) Point {
	topmost := Line(-d.HistorySize())
	bottommost := Line(d.ScreenLines() - 1)

	switch boundary {
	case BoundaryCursor:
		if p.Line < 0 {
			return NewPoint(0, 0)
		}
		if p.Line > bottommost {
			return NewPoint(bottommost, d.Cols()-1)
		}
	case BoundaryGrid:
		if p.Line < topmost {
			return NewPoint(topmost, 0)
		}
		if p.Line > bottommost {
			return NewPoint(bottommost, d.Cols()-1)
		}
	case BoundaryNone:
		p.Line = p.Line.GridClamp(d, boundary)
	}

	return p
}

// Less reports whether p sorts before other using natural (line, column)
// visible-coordinate order.
func (p Point) Less(other Point) bool {
	if p.Line != other.Line {
		return p.Line < other.Line
	}
	return p.Column < other.Column
}

func (p Point) LessEq(other Point) bool {
	return p == other || p.Less(other)
}

// AbsPoint identifies a cell using an absolute (unsigned) buffer line index,
// counted up from the bottom of the terminal (0 = bottommost row). Ordering
// on AbsPoint is the buffer-relative inverse of Point's: a smaller line is
// visually *lower* on screen, so comparisons are reversed relative to Point.
type AbsPoint struct {
	Line   int
	Column Column
}

func NewAbsPoint(line int, col Column) AbsPoint {
	return AbsPoint{Line: line, Column: col}
}

// Less reports whether p sorts before other in buffer (not visible) order:
// larger absolute line is "earlier" since line 0 is the bottom of the buffer.
func (p AbsPoint) Less(other AbsPoint) bool {
	if p.Line != other.Line {
		return p.Line > other.Line
	}
	return p.Column < other.Column
}

func (p AbsPoint) LessEq(other AbsPoint) bool {
	return p == other || p.Less(other)
}

// OldBoundary controls AddAbsolute/SubAbsolute overflow behavior.
type OldBoundary int

const (
	OldBoundaryClamp OldBoundary = iota
	OldBoundaryWrap
)

func (p AbsPoint) SubAbsolute(d Dimensions, boundary OldBoundary, rhs int) AbsPoint {
	totalLines := d.TotalLines()
	numCols := int(d.Cols())

	p.Line += satSub(rhs+numCols-1, int(p.Column)) / numCols
	p.Column = Column((numCols + int(p.Column) - rhs%numCols) % numCols)

	if p.Line >= totalLines {
		switch boundary {
		case OldBoundaryClamp:
			return NewAbsPoint(totalLines-1, 0)
		case OldBoundaryWrap:
			return NewAbsPoint(p.Line-totalLines, p.Column)
		}
	}
	return p
}

func (p AbsPoint) AddAbsolute(d Dimensions, boundary OldBoundary, rhs int) AbsPoint {
	numCols := int(d.Cols())
	lineDelta := (rhs + int(p.Column)) / numCols

	if p.Line >= lineDelta {
		p.Line -= lineDelta
		p.Column = Column((int(p.Column) + rhs) % numCols)
		return p
	}

	switch boundary {
	case OldBoundaryWrap:
		col := Column((int(p.Column) + rhs) % numCols)
		line := d.TotalLines() + p.Line - lineDelta
		return NewAbsPoint(line, col)
	default:
		return NewAbsPoint(0, d.Cols()-1)
	}
}

// ToAbsPoint converts a visible/grid-relative Point into an absolute
// buffer point, given the current display offset and screen height.
func ToAbsPoint(p Point, displayOffset, screenLines int) AbsPoint {
	line := screenLines - int(p.Line) - 1 + displayOffset
	return NewAbsPoint(line, p.Column)
}

// ToVisiblePoint is the inverse of ToAbsPoint; ok is false when the
// absolute line falls outside the current viewport.
func ToVisiblePoint(p AbsPoint, displayOffset, screenLines int) (Point, bool) {
	line := screenLines - (p.Line - displayOffset) - 1
	if line < 0 || line >= screenLines {
		return Point{}, false
	}
	return NewPoint(Line(line), p.Column), true
}

// GridClamp clamps a Line to the given boundary policy.
func (l Line) GridClamp(d Dimensions, boundary Boundary) Line {
	switch boundary {
	case BoundaryCursor:
		maxLine := Line(d.ScreenLines() - 1)
		return clampLine(l, 0, maxLine)
	case BoundaryGrid:
		maxLine := Line(d.ScreenLines() - 1)
		minLine := Line(-d.HistorySize())
		return clampLine(l, minLine, maxLine)
	case BoundaryNone:
		screenLines := Line(d.ScreenLines())
		totalLines := Line(d.TotalLines())
		if l >= screenLines {
			historySize := Line(d.HistorySize())
			extra := mod(int(l-screenLines), int(totalLines))
			return -historySize + Line(extra)
		}
		extra := mod(int(l-screenLines+1), int(totalLines))
		return Line(extra) + screenLines - 1
	}
	return l
}

func clampLine(l, lo, hi Line) Line {
	if l < lo {
		return lo
	}
	if l > hi {
		return hi
	}
	return l
}

func satSub(a, b int) int {
	if a < b {
		return 0
	}
	return a - b
}

func mod(a, n int) int {
	m := a % n
	if m < 0 {
		m += n
	}
	return m
}
