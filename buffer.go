package headlessterm

// ringHistoryCap bounds how many scrolled-off rows stay resident inside the
// ring buffer itself (fast path for rotate/reflow/selection). Every row
// that scrolls off a full-grid scroll is also mirrored to the pluggable
// ScrollbackProvider at that moment, which may keep arbitrarily more
// history (e.g. spilled to disk); rows beyond the cap are dropped from
// the ring, oldest first.
const ringHistoryCap = 2000

// Buffer is a reflow-capable terminal grid: a ring buffer of rows giving
// O(1) scrolling, a display offset for viewing scrollback, and a resize
// algorithm that reflows wrapped lines across width changes. Despite the
// name (kept for compatibility with the rest of the package) this is the
// Grid of the engine: cells are never memmove'd on scroll, only the ring's
// zero offset moves.
type Buffer struct {
	storage       *rowStorage
	rows          int
	cols          int
	displayOffset int
	reflow        bool
	tabStop       []bool
	scrollback    ScrollbackProvider
	hasDirty      bool
}

// NewBuffer creates a buffer with the given dimensions and no external
// scrollback sink (ring-internal history still applies).
func NewBuffer(rows, cols int) *Buffer {
	return NewBufferWithStorage(rows, cols, NoopScrollback{})
}

// NewBufferWithStorage creates a buffer with custom scrollback storage.
// Tab stops are initialized every 8 columns.
func NewBufferWithStorage(rows, cols int, storage ScrollbackProvider) *Buffer {
	b := &Buffer{
		storage:    newRowStorage(rows, Column(cols)),
		rows:       rows,
		cols:       cols,
		reflow:     true,
		tabStop:    make([]bool, cols),
		scrollback: storage,
	}

	for i := 0; i < cols; i += 8 {
		b.tabStop[i] = true
	}

	return b
}

// SetReflow toggles whether Resize reflows wrapped lines (true, the
// default) or clips/extends rows in place (false) — used for the
// alternate screen, which Alacritty also resizes without reflow.
func (b *Buffer) SetReflow(reflow bool) { b.reflow = reflow }

func (b *Buffer) Rows() int { return b.rows }
func (b *Buffer) Cols() int { return b.cols }

// historyLen is how many rows beyond the visible window are currently
// resident in the ring.
func (b *Buffer) historyLen() int {
	return b.storage.Len() - b.rows
}

// logicalIndex maps a visible row (0 = top of the current viewport,
// honoring displayOffset) to a ring-storage logical index (0 = bottommost
// stored row).
func (b *Buffer) logicalIndex(row int) int {
	return b.displayOffset + (b.rows - 1 - row)
}

func (b *Buffer) rowAt(row int) *Row {
	idx := b.logicalIndex(row)
	if idx < 0 || idx >= b.storage.Len() {
		return nil
	}
	return b.storage.Get(idx)
}

// TotalLines returns the number of rows currently resident in the ring,
// visible and scrollback combined — the span AbsPoint addresses.
func (b *Buffer) TotalLines() int { return b.storage.Len() }

// HistorySize returns how many rows are resident in scrollback beyond
// the visible viewport.
func (b *Buffer) HistorySize() int { return b.historyLen() }

// RowAbs returns the row at an absolute ring index, where 0 is the
// bottommost (newest) row of the whole buffer and larger indices reach
// further back into scrollback — the same convention AbsPoint.Line
// uses, independent of the current display offset. Returns nil if line
// is out of range.
func (b *Buffer) RowAbs(line int) *Row {
	if line < 0 || line >= b.storage.Len() {
		return nil
	}
	return b.storage.Get(line)
}

// CellAbs returns a pointer to the cell at an absolute (line, column),
// nil if out of range.
func (b *Buffer) CellAbs(line int, col Column) *Cell {
	r := b.RowAbs(line)
	if r == nil {
		return nil
	}
	return r.CellPtr(col)
}

// Cell returns a pointer to the cell at (row, col), nil if out of bounds.
func (b *Buffer) Cell(row, col int) *Cell {
	if row < 0 || row >= b.rows || col < 0 || col >= b.cols {
		return nil
	}
	r := b.rowAt(row)
	if r == nil {
		return nil
	}
	return r.CellPtr(Column(col))
}

// SetCell replaces the cell at (row, col) and marks it dirty.
func (b *Buffer) SetCell(row, col int, cell Cell) {
	if row < 0 || row >= b.rows || col < 0 || col >= b.cols {
		return
	}
	r := b.rowAt(row)
	if r == nil {
		return
	}
	cell.MarkDirty()
	r.SetCell(Column(col), cell)
	b.hasDirty = true
}

func (b *Buffer) MarkDirty(row, col int) {
	c := b.Cell(row, col)
	if c == nil {
		return
	}
	c.MarkDirty()
	b.hasDirty = true
}

func (b *Buffer) HasDirty() bool { return b.hasDirty }

func (b *Buffer) DirtyCells() []Position {
	var positions []Position
	for row := 0; row < b.rows; row++ {
		r := b.rowAt(row)
		if r == nil {
			continue
		}
		cells := r.Cells()
		for col := 0; col < b.cols && col < len(cells); col++ {
			if cells[col].IsDirty() {
				positions = append(positions, Position{Row: row, Col: col})
			}
		}
	}
	return positions
}

func (b *Buffer) ClearAllDirty() {
	for row := 0; row < b.rows; row++ {
		r := b.rowAt(row)
		if r == nil {
			continue
		}
		cells := r.Cells()
		for col := range cells {
			cells[col].ClearDirty()
		}
	}
	b.hasDirty = false
}

func (b *Buffer) ClearRow(row int) {
	b.ClearRowRange(row, 0, b.cols)
}

func (b *Buffer) ClearRowRange(row, startCol, endCol int) {
	if row < 0 || row >= b.rows {
		return
	}
	if startCol < 0 {
		startCol = 0
	}
	if endCol > b.cols {
		endCol = b.cols
	}
	r := b.rowAt(row)
	if r == nil {
		return
	}
	for col := startCol; col < endCol; col++ {
		fresh := NewCell()
		fresh.MarkDirty()
		r.SetCell(Column(col), fresh)
	}
	b.hasDirty = true
}

func (b *Buffer) ClearAll() {
	for row := 0; row < b.rows; row++ {
		b.ClearRow(row)
	}
}

// pushHistory sends a row's cells to the external scrollback sink.
func (b *Buffer) pushHistory(r *Row) {
	if b.scrollback == nil || b.scrollback.MaxLines() <= 0 {
		return
	}
	b.scrollback.Push(append([]Cell(nil), r.Cells()...))
}

// setRowAt installs r as the row at visible screen row `row`, honoring
// displayOffset the same way rowAt reads it.
func (b *Buffer) setRowAt(row int, r *Row) {
	idx := b.logicalIndex(row)
	if idx < 0 || idx >= b.storage.Len() {
		return
	}
	b.storage.Set(idx, r)
}

// ScrollUp shifts content up by n within [top, bottom): rows above the
// region are unaffected, the top n rows of the region are discarded
// (mirrored to the external ScrollbackProvider first when the region is
// the whole grid), and n blank rows appear at the bottom of the region.
// A full-grid scroll rotates the ring in O(1) instead of shifting cells.
func (b *Buffer) ScrollUp(top, bottom, n int) {
	if n <= 0 || top >= bottom {
		return
	}
	if top < 0 {
		top = 0
	}
	if bottom > b.rows {
		bottom = b.rows
	}
	if n > bottom-top {
		n = bottom - top
	}

	if top == 0 && bottom == b.rows {
		for i := 0; i < n; i++ {
			b.pushHistory(b.rowAt(i))
		}

		b.storage.Initialize(n, Column(b.cols))
		b.storage.Rotate(-n)
		if extra := b.historyLen() - ringHistoryCap; extra > 0 {
			b.storage.shrinkLines(extra)
		}

		for r := b.rows - n; r < b.rows; r++ {
			row := b.rowAt(r)
			row.Reset(NewCell())
			markRowDirty(row)
		}
		b.displayOffset = 0
	} else {
		rows := make([]*Row, bottom-top)
		for i := range rows {
			rows[i] = b.rowAt(top + i)
		}
		for i := 0; i < bottom-top-n; i++ {
			b.setRowAt(top+i, rows[i+n])
			markRowDirty(rows[i+n])
		}
		for i := bottom - top - n; i < bottom-top; i++ {
			fresh := NewRow(Column(b.cols))
			markRowDirty(fresh)
			b.setRowAt(top+i, fresh)
		}
	}
	b.hasDirty = true
}

// ScrollDown shifts content down by n within [top, bottom): the bottom n
// rows of the region are discarded and n blank rows appear at the top,
// pulling rows back from the ring's resident history when available for
// a full-grid scroll.
func (b *Buffer) ScrollDown(top, bottom, n int) {
	if n <= 0 || top >= bottom {
		return
	}
	if top < 0 {
		top = 0
	}
	if bottom > b.rows {
		bottom = b.rows
	}
	if n > bottom-top {
		n = bottom - top
	}

	if top == 0 && bottom == b.rows {
		avail := b.historyLen()
		pulled := n
		if pulled > avail {
			pulled = avail
		}

		b.storage.Rotate(n)

		for r := 0; r < n-pulled; r++ {
			row := b.rowAt(r)
			row.Reset(NewCell())
			markRowDirty(row)
		}
	} else {
		rows := make([]*Row, bottom-top)
		for i := range rows {
			rows[i] = b.rowAt(top + i)
		}
		for i := bottom - top - 1; i >= n; i-- {
			b.setRowAt(top+i, rows[i-n])
			markRowDirty(rows[i-n])
		}
		for i := 0; i < n; i++ {
			fresh := NewRow(Column(b.cols))
			markRowDirty(fresh)
			b.setRowAt(top+i, fresh)
		}
	}
	b.hasDirty = true
}

func markRowDirty(r *Row) {
	cells := r.Cells()
	for i := range cells {
		cells[i].MarkDirty()
	}
}

func (b *Buffer) InsertLines(row, n, bottom int) {
	if row < 0 || row >= bottom || n <= 0 {
		return
	}
	b.ScrollDown(row, bottom, n)
}

func (b *Buffer) DeleteLines(row, n, bottom int) {
	if row < 0 || row >= bottom || n <= 0 {
		return
	}
	b.ScrollUp(row, bottom, n)
}

func (b *Buffer) InsertBlanks(row, col, n int) {
	if row < 0 || row >= b.rows || col < 0 || col >= b.cols || n <= 0 {
		return
	}
	r := b.rowAt(row)
	if r == nil {
		return
	}
	for c := b.cols - 1; c >= col+n; c-- {
		moved := r.Cell(Column(c - n))
		moved.MarkDirty()
		r.SetCell(Column(c), moved)
	}
	for c := col; c < col+n && c < b.cols; c++ {
		fresh := NewCell()
		fresh.MarkDirty()
		r.SetCell(Column(c), fresh)
	}
	b.hasDirty = true
}

func (b *Buffer) DeleteChars(row, col, n int) {
	if row < 0 || row >= b.rows || col < 0 || col >= b.cols || n <= 0 {
		return
	}
	r := b.rowAt(row)
	if r == nil {
		return
	}
	for c := col; c < b.cols-n; c++ {
		moved := r.Cell(Column(c + n))
		moved.MarkDirty()
		r.SetCell(Column(c), moved)
	}
	for c := b.cols - n; c < b.cols; c++ {
		if c >= 0 {
			fresh := NewCell()
			fresh.MarkDirty()
			r.SetCell(Column(c), fresh)
		}
	}
	b.hasDirty = true
}

func (b *Buffer) SetTabStop(col int) {
	if col >= 0 && col < b.cols {
		b.tabStop[col] = true
	}
}

func (b *Buffer) ClearTabStop(col int) {
	if col >= 0 && col < b.cols {
		b.tabStop[col] = false
	}
}

func (b *Buffer) ClearAllTabStops() {
	for i := range b.tabStop {
		b.tabStop[i] = false
	}
}

func (b *Buffer) NextTabStop(col int) int {
	for c := col + 1; c < b.cols; c++ {
		if b.tabStop[c] {
			return c
		}
	}
	return b.cols - 1
}

func (b *Buffer) PrevTabStop(col int) int {
	for c := col - 1; c >= 0; c-- {
		if b.tabStop[c] {
			return c
		}
	}
	return 0
}

func (b *Buffer) FillWithE() {
	for row := 0; row < b.rows; row++ {
		r := b.rowAt(row)
		if r == nil {
			continue
		}
		for col := 0; col < b.cols; col++ {
			fresh := NewCell()
			fresh.Char = 'E'
			fresh.MarkDirty()
			r.SetCell(Column(col), fresh)
		}
	}
	b.hasDirty = true
}

func (b *Buffer) ScrollbackLen() int {
	if b.scrollback == nil {
		return 0
	}
	return b.scrollback.Len()
}

func (b *Buffer) ScrollbackLine(index int) []Cell {
	if b.scrollback == nil {
		return nil
	}
	return b.scrollback.Line(index)
}

func (b *Buffer) ClearScrollback() {
	if b.scrollback != nil {
		b.scrollback.Clear()
	}
	b.storage.shrinkLines(b.historyLen())
	b.displayOffset = 0
}

func (b *Buffer) SetMaxScrollback(max int) {
	if b.scrollback != nil {
		b.scrollback.SetMaxLines(max)
	}
}

func (b *Buffer) MaxScrollback() int {
	if b.scrollback == nil {
		return 0
	}
	return b.scrollback.MaxLines()
}

func (b *Buffer) SetScrollbackProvider(storage ScrollbackProvider) {
	b.scrollback = storage
}

func (b *Buffer) ScrollbackProvider() ScrollbackProvider {
	return b.scrollback
}

// DisplayOffset returns how many lines the viewport is currently scrolled
// back from the bottom (0 = latest).
func (b *Buffer) DisplayOffset() int { return b.displayOffset }

// ScrollDisplay moves the viewport by delta lines (positive = further into
// history), clamped to [0, history available in the ring].
func (b *Buffer) ScrollDisplay(delta int) {
	next := b.displayOffset + delta
	if next < 0 {
		next = 0
	}
	if max := b.historyLen(); next > max {
		next = max
	}
	b.displayOffset = next
}

// LineContent returns the text content of a line, trimming trailing spaces.
func (b *Buffer) LineContent(row int) string {
	if row < 0 || row >= b.rows {
		return ""
	}
	r := b.rowAt(row)
	if r == nil {
		return ""
	}
	return cellsText(r.Cells())
}

// --- Auto Resize ---

// GrowRows appends n blank rows below the current bottom row, preserving
// every existing row's number (used by autoResize mode when the cursor
// runs past the bottom instead of scrolling). Unlike a reflowed resize
// growing taller, nothing here is pulled from scrollback: these rows are
// genuinely new and below anything previously on screen.
func (b *Buffer) GrowRows(n int) {
	if n <= 0 {
		return
	}
	b.storage.Initialize(n, Column(b.cols))
	b.storage.Rotate(-n)
	b.rows += n
	b.storage.SyncVisibleLines(b.rows)
	b.hasDirty = true
}

func (b *Buffer) GrowCols(row, minCols int) {
	if row < 0 || row >= b.rows {
		return
	}
	r := b.rowAt(row)
	if r == nil || minCols <= r.Len() {
		return
	}
	r.Grow(Column(minCols))
	if minCols > b.cols {
		b.cols = minCols
		newTabStop := make([]bool, minCols)
		copy(newTabStop, b.tabStop)
		for i := len(b.tabStop); i < minCols; i += 8 {
			newTabStop[i] = true
		}
		b.tabStop = newTabStop
	}
	b.hasDirty = true
}

// --- Wrapped Line Tracking ---
//
// Wrap state lives on the row's own last cell (CellFlagWrapline) rather
// than a parallel []bool, so it automatically travels with the row
// through rotate/reflow.

func (b *Buffer) IsWrapped(row int) bool {
	r := b.rowAt(row)
	if r == nil {
		return false
	}
	last := r.Last()
	return last != nil && last.HasFlag(CellFlagWrapline)
}

func (b *Buffer) SetWrapped(row int, wrapped bool) {
	r := b.rowAt(row)
	if r == nil {
		return
	}
	last := r.LastMut()
	if last == nil {
		return
	}
	if wrapped {
		last.SetFlag(CellFlagWrapline)
	} else {
		last.ClearFlag(CellFlagWrapline)
	}
}

// Position identifies a cell location in the terminal grid (0-based).
type Position struct {
	Row int
	Col int
}

func (p Position) Before(other Position) bool {
	if p.Row < other.Row {
		return true
	}
	if p.Row == other.Row && p.Col < other.Col {
		return true
	}
	return false
}

func (p Position) Equal(other Position) bool {
	return p.Row == other.Row && p.Col == other.Col
}
