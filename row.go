package headlessterm

// Row is an ordered sequence of cells plus an occupancy watermark: the
// largest 1-based index written into since the last Reset. Reset only
// rewrites cells [0:occ] and then zeroes occ, so clearing a mostly-empty
// row after a small write stays cheap.
type Row struct {
	inner []Cell
	occ   int
}

// NewRow allocates a row of the given width, filled with space cells.
func NewRow(cols Column) *Row {
	inner := make([]Cell, cols)
	for i := range inner {
		inner[i] = NewCell()
	}
	return &Row{inner: inner}
}

// RowFromCells wraps an existing cell slice as a row with the given
// occupancy watermark, without copying.
func RowFromCells(cells []Cell, occ int) *Row {
	return &Row{inner: cells, occ: occ}
}

func (r *Row) Len() int { return len(r.inner) }

// Grow extends the row to the given width with space cells, leaving
// existing content untouched. No-op if already wide enough.
func (r *Row) Grow(cols Column) {
	if len(r.inner) >= int(cols) {
		return
	}
	for len(r.inner) < int(cols) {
		r.inner = append(r.inner, NewCell())
	}
}

// Shrink truncates the row to cols cells and returns any non-empty cells
// from the removed tail (trimmed of trailing empty cells), or nil if the
// row was already narrow enough or the tail was entirely empty.
func (r *Row) Shrink(cols Column) []Cell {
	if len(r.inner) <= int(cols) {
		return nil
	}

	tail := append([]Cell(nil), r.inner[cols:]...)
	r.inner = r.inner[:cols]

	last := -1
	for i := len(tail) - 1; i >= 0; i-- {
		if !tail[i].IsEmpty() {
			last = i
			break
		}
	}
	tail = tail[:last+1]

	if r.occ > int(cols) {
		r.occ = int(cols)
	}

	if len(tail) == 0 {
		return nil
	}
	return tail
}

// cellDiscriminant is the part of a cell's appearance that determines
// whether a reset to a new template must dirty the entire row (matching
// Alacritty's ResetDiscriminant, which keys off the background color).
func cellDiscriminant(c Cell) any {
	return resolveDefaultColor(c.Bg, false)
}

// Reset rewrites cells [0:occ] to the template cell and zeroes occ. If the
// template's background differs from the row's last cell, the whole row
// is dirtied first so stale background color never lingers off-screen.
func (r *Row) Reset(template Cell) {
	if len(r.inner) == 0 {
		return
	}

	n := len(r.inner)
	if cellDiscriminant(r.inner[n-1]) != cellDiscriminant(template) {
		r.occ = n
	}

	for i := 0; i < r.occ && i < n; i++ {
		r.inner[i] = template
		r.inner[i].MarkDirty()
	}
	r.occ = 0
}

func (r *Row) Last() *Cell {
	if len(r.inner) == 0 {
		return nil
	}
	return &r.inner[len(r.inner)-1]
}

// LastMut returns the last cell for mutation, marking the whole row occupied.
func (r *Row) LastMut() *Cell {
	if len(r.inner) == 0 {
		return nil
	}
	r.occ = len(r.inner)
	return &r.inner[len(r.inner)-1]
}

// Append adds cells to the end of the row, bumping occ.
func (r *Row) Append(cells []Cell) {
	r.occ += len(cells)
	r.inner = append(r.inner, cells...)
}

// AppendFront prepends cells to the row, bumping occ.
func (r *Row) AppendFront(cells []Cell) {
	r.occ += len(cells)
	r.inner = append(append([]Cell(nil), cells...), r.inner...)
}

// IsClear reports whether every cell in the row is empty.
func (r *Row) IsClear() bool {
	for i := range r.inner {
		if !r.inner[i].IsEmpty() {
			return false
		}
	}
	return true
}

// FrontSplitOff splits the row at "at", keeping [0:at) in place and
// returning [at:) as a new slice.
func (r *Row) FrontSplitOff(at int) []Cell {
	if r.occ > at {
		r.occ -= at
	} else {
		r.occ = 0
	}

	tail := append([]Cell(nil), r.inner[at:]...)
	r.inner = append([]Cell(nil), r.inner[:at]...)
	return tail
}

func (r *Row) Cell(col Column) Cell {
	return r.inner[col]
}

// SetCell writes a cell at col, bumping occ to include it.
func (r *Row) SetCell(col Column, c Cell) {
	if int(col)+1 > r.occ {
		r.occ = int(col) + 1
	}
	r.inner[col] = c
}

// CellPtr returns a pointer for in-place mutation, bumping occ.
func (r *Row) CellPtr(col Column) *Cell {
	if int(col)+1 > r.occ {
		r.occ = int(col) + 1
	}
	return &r.inner[col]
}

// Slice returns the backing cells for range [from, to). Read-only use;
// callers that mutate must go through SetCell/CellPtr to keep occ correct.
func (r *Row) Slice(from, to Column) []Cell {
	return r.inner[from:to]
}

// MarkRangeDirty bumps occ to cover [0, to) without touching cell contents;
// used by callers writing directly into a slice obtained from Slice.
func (r *Row) MarkRangeDirty(to Column) {
	if int(to) > r.occ {
		r.occ = int(to)
	}
}

// Cells exposes the full backing slice (read path for rendering/search).
func (r *Row) Cells() []Cell {
	return r.inner
}
