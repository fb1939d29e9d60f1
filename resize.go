package headlessterm

// Resize changes the grid's dimensions, reflowing wrapped lines across
// column changes when reflow is enabled (see SetReflow). cursorLine/cursorCol
// give the cursor's current absolute buffer position (line 0 is the
// bottommost resident row, matching AbsPoint/RowAbs); Resize returns where
// that same logical position landed after any reflow, so callers can
// re-home the cursor instead of only clamping its stale row/column into the
// new bounds.
func (b *Buffer) Resize(rows, cols int, cursorLine int, cursorCol Column) (newCursorLine int, newCursorCol Column) {
	newCursorLine, newCursorCol = cursorLine, cursorCol

	if cols != b.cols && cols > 0 {
		if b.reflow {
			newCursorLine, newCursorCol = b.reflowCols(Column(cols), newCursorLine, newCursorCol)
		} else {
			b.clipCols(Column(cols))
			if newCursorCol >= Column(cols) {
				newCursorCol = Column(cols) - 1
			}
		}
		b.cols = cols
		b.resizeTabStops(cols)
	}

	if rows != b.rows && rows > 0 {
		if rows > b.rows {
			b.GrowRowsReflow(rows - b.rows)
		} else {
			b.ShrinkRows(b.rows - rows)
		}
		if last := b.storage.Len() - 1; newCursorLine > last {
			newCursorLine = last
		}
	}

	return newCursorLine, newCursorCol
}

// resizeTabStops rebuilds the tab stop table for a new width, preserving
// stops within the overlap and defaulting new columns to every 8th stop.
func (b *Buffer) resizeTabStops(cols int) {
	next := make([]bool, cols)
	copy(next, b.tabStop)
	for i := len(b.tabStop); i < cols; i += 8 {
		next[i] = true
	}
	b.tabStop = next
}

// clipCols grows or truncates every resident row in place without
// reflowing wrapped lines — used for the alternate screen, matching
// Alacritty's non-reflowing resize of the inactive grid.
func (b *Buffer) clipCols(cols Column) {
	for i := 0; i < b.storage.Len(); i++ {
		row := b.storage.Get(i)
		if int(cols) > row.Len() {
			row.Grow(cols)
		} else {
			row.Shrink(cols)
		}
	}
}

// GrowRowsReflow increases the visible window by n rows, each new row a
// blank template row; rows are not pulled back from the ring's resident
// history or from the ScrollbackProvider. Always returns n.
func (b *Buffer) GrowRowsReflow(n int) int {
	if n <= 0 {
		return 0
	}
	template := func() *Row { return NewRow(Column(b.cols)) }
	b.storage.GrowVisibleLines(b.rows+n, template)
	b.rows += n
	b.hasDirty = true
	return n
}

// ShrinkRows decreases the visible window by n rows. The rows that fall
// out of view remain resident in the ring as scrollback (up to its
// history cap) rather than being discarded.
func (b *Buffer) ShrinkRows(n int) int {
	if n <= 0 || n >= b.rows {
		return 0
	}
	b.storage.ShrinkVisibleLines(b.rows - n)
	b.rows -= n
	b.hasDirty = true
	return n
}

// reflowCols rewraps every paragraph of wrapped lines in the ring to fit
// the new width, splitting lines that no longer fit and rejoining lines
// that now do. Operates on the whole ring (visible rows and resident
// scrollback) so history reflows consistently with the viewport, the way
// Alacritty's grid resize does. trackLine/trackCol name a cell's absolute
// position before the rewrap (typically the cursor); reflowCols follows
// that same cell through the rewrap (porting Alacritty resize.rs's
// cursor_buffer_line tracking) and returns its new absolute position.
func (b *Buffer) reflowCols(cols Column, trackLine int, trackCol Column) (newLine int, newCol Column) {
	newLine, newCol = trackLine, trackCol

	length := b.storage.Len()
	if length == 0 {
		return newLine, newCol
	}

	// Gather rows oldest-first (chronological order); storage.Get(0) is
	// the newest/bottommost row, so walk downward from the oldest index.
	chronological := make([]*Row, length)
	for i := 0; i < length; i++ {
		chronological[i] = b.storage.Get(length - 1 - i)
	}

	trackRow := length - 1 - trackLine
	wantTrack := trackRow >= 0 && trackRow < length

	paragraphs, trackParagraph, paraOffset, tracking := splitParagraphsTracking(chronological, trackRow, trackCol, wantTrack)

	var rebuilt []*Row
	found := false
	var foundRow int
	var foundCol Column
	for pi, p := range paragraphs {
		isTarget := tracking && pi == trackParagraph
		rr, tr, tc, ok := rewrapParagraph(p, cols, paraOffset, isTarget)
		if isTarget && ok {
			foundRow = len(rebuilt) + tr
			foundCol = tc
			found = true
		}
		rebuilt = append(rebuilt, rr...)
	}

	if len(rebuilt) == 0 {
		rebuilt = []*Row{NewRow(cols)}
	}

	// rebuilt is oldest-first; storage wants newest-first (index 0 is
	// bottommost), so reverse before installing.
	newestFirst := make([]*Row, len(rebuilt))
	for i, r := range rebuilt {
		newestFirst[len(rebuilt)-1-i] = r
	}

	visible := b.rows
	pad := 0
	if len(newestFirst) < visible {
		pad = visible - len(newestFirst)
		padRows := make([]*Row, pad)
		for i := range padRows {
			padRows[i] = NewRow(cols)
		}
		newestFirst = append(padRows, newestFirst...)
	}

	b.storage.ReplaceInner(newestFirst)
	b.storage.visibleLines = visible
	if b.displayOffset > b.historyLen() {
		b.displayOffset = b.historyLen()
	}
	b.hasDirty = true

	if found {
		newLine = pad + (len(rebuilt) - 1 - foundRow)
		newCol = foundCol
		if newCol >= cols {
			newCol = cols - 1
		}
	}

	return newLine, newCol
}

// splitParagraphsTracking groups consecutive wrap-linked rows
// (chronological order) into paragraphs: a maximal run of rows where
// every row but the last carries CellFlagWrapline. When wantTrack is set,
// it also reports which paragraph contains chronological row trackRow and
// the flattened cell offset within that paragraph corresponding to
// (trackRow, trackCol).
func splitParagraphsTracking(rows []*Row, trackRow int, trackCol Column, wantTrack bool) (paragraphs [][]Cell, trackParagraph, paraOffset int, tracked bool) {
	trackParagraph = -1
	var current []Cell
	paraIdx := 0

	for i, r := range rows {
		if wantTrack && i == trackRow {
			trackParagraph = paraIdx
			paraOffset = len(current) + int(trackCol)
			tracked = true
		}
		current = append(current, r.Cells()...)
		last := r.Last()
		if last == nil || !last.HasFlag(CellFlagWrapline) {
			paragraphs = append(paragraphs, current)
			current = nil
			paraIdx++
		}
	}
	if len(current) > 0 {
		paragraphs = append(paragraphs, current)
	}
	return paragraphs, trackParagraph, paraOffset, tracked
}

// rewrapParagraph re-chops a flat run of cells (already assembled from
// one or more old-width rows) into new-width rows, marking every row but
// the last as wrapped. Trailing empty cells are trimmed before rewrapping
// so blank tail content doesn't force extra rows. A wide character that
// would otherwise land in the final column of a row is pushed to the
// start of the next row instead, with a blank left in its place.
//
// When track is true, trackOffset names a cell offset into the
// pre-rewrap (pre-trim) cells slice; rewrapParagraph reports which
// produced row and column that offset landed on, clamping it to just
// past the last surviving content cell if trimming removed it.
func rewrapParagraph(cells []Cell, cols Column, trackOffset int, track bool) (result []*Row, trackedRow int, trackedCol Column, found bool) {
	end := len(cells)
	for end > 0 && cells[end-1].IsEmpty() {
		end--
	}
	cells = cells[:end]

	if track && trackOffset > len(cells) {
		trackOffset = len(cells)
	}

	if len(cells) == 0 {
		r := NewRow(cols)
		if track {
			trackedRow, trackedCol, found = 0, 0, true
		}
		return []*Row{r}, trackedRow, trackedCol, found
	}

	var rows []*Row
	i := 0
	lastWidth := 0
	for i < len(cells) {
		remaining := len(cells) - i
		width := int(cols)
		if remaining < width {
			width = remaining
		}

		// Don't split a wide char across the row boundary.
		if width == int(cols) && i+width-1 < len(cells) && cells[i+width-1].IsWide() {
			width--
		}
		if width == 0 {
			width = 1
		}

		if track && !found && trackOffset >= i && trackOffset < i+width {
			trackedRow = len(rows)
			trackedCol = Column(trackOffset - i)
			found = true
		}

		chunk := append([]Cell(nil), cells[i:i+width]...)
		lastWidth = width
		i += width

		row := RowFromCells(padCells(chunk, cols), int(cols))
		if i < len(cells) {
			last := row.LastMut()
			last.SetFlag(CellFlagWrapline)
		}
		rows = append(rows, row)
	}

	if track && !found {
		trackedRow = len(rows) - 1
		trackedCol = Column(lastWidth)
		found = true
	}

	return rows, trackedRow, trackedCol, found
}

func padCells(cells []Cell, cols Column) []Cell {
	if len(cells) >= int(cols) {
		return cells
	}
	out := make([]Cell, cols)
	copy(out, cells)
	for i := len(cells); i < int(cols); i++ {
		out[i] = NewCell()
	}
	return out
}
