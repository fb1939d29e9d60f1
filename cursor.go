package headlessterm

// CursorStyle determines how the cursor is rendered.
type CursorStyle int

const (
	CursorStyleBlinkingBlock CursorStyle = iota
	CursorStyleSteadyBlock
	CursorStyleBlinkingUnderline
	CursorStyleSteadyUnderline
	CursorStyleBlinkingBar
	CursorStyleSteadyBar
)

// Cursor tracks the current position and rendering style (0-based coordinates).
type Cursor struct {
	Row     int
	Col     int
	Style   CursorStyle
	Visible bool
}

// NewCursor creates a cursor at (0, 0) with blinking block style, visible.
func NewCursor() *Cursor {
	return &Cursor{
		Row:     0,
		Col:     0,
		Style:   CursorStyleBlinkingBlock,
		Visible: true,
	}
}

// AbsPoint converts the cursor's visible-row/column position to an
// absolute buffer point (line 0 = bottommost resident row), given the
// viewport's row count and current scrollback display offset. This is
// the inverse of SetFromAbsPoint, used when a resize needs to track the
// cursor's logical position across a reflow that may move content
// between rows.
func (c Cursor) AbsPoint(rows, displayOffset int) AbsPoint {
	return NewAbsPoint(displayOffset+(rows-1-c.Row), Column(c.Col))
}

// SetFromAbsPoint re-homes the cursor's Row/Col from an absolute buffer
// point for a viewport of the given row count and display offset.
func (c *Cursor) SetFromAbsPoint(p AbsPoint, rows, displayOffset int) {
	c.Row = (rows - 1) - (p.Line - displayOffset)
	c.Col = int(p.Column)
}

// SavedCursor stores cursor position, cell attributes, and charset state for restoration.
// Used when switching between primary and alternate screens.
type SavedCursor struct {
	Row            int
	Col            int
	Attrs          CellTemplate
	OriginMode     bool
	CharsetIndex   int
	Charsets       [4]Charset
}

// CellTemplate defines default attributes applied to newly written characters.
// Modified by SGR (Select Graphic Rendition) escape sequences.
type CellTemplate struct {
	Cell
}

// NewCellTemplate creates a template with default attributes (default colors, no flags).
func NewCellTemplate() CellTemplate {
	return CellTemplate{
		Cell: NewCell(),
	}
}

// Charset selects the character encoding variant.
type Charset int

const (
	CharsetASCII Charset = iota
	CharsetLineDrawing
)

// CharsetIndex selects one of four character set slots (G0-G3).
type CharsetIndex int

const (
	CharsetIndexG0 CharsetIndex = iota
	CharsetIndexG1
	CharsetIndexG2
	CharsetIndexG3
)
