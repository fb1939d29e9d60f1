package headlessterm

// maxStorageCacheSize is the soft cap on buffered scrollback rows kept in
// inner's backing array once they fall out of use, so repeated grow/shrink
// around the same size doesn't thrash allocations.
const maxStorageCacheSize = 1000

// rowStorage is a ring buffer of rows. Rotation (scrolling) is an O(1)
// modular update to zero rather than a memmove, matching Alacritty's
// Storage<T>. Index and IndexMut map logical indices through
// (zero+i) mod len(inner); only zero moves on rotate.
type rowStorage struct {
	inner        []*Row
	zero         int
	visibleLines int
	length       int
}

// newRowStorage allocates storage pre-filled with visibleLines copies of a
// fresh row; scrollback is grown lazily as content scrolls off.
func newRowStorage(visibleLines int, cols Column) *rowStorage {
	inner := make([]*Row, visibleLines)
	for i := range inner {
		inner[i] = NewRow(cols)
	}
	return &rowStorage{inner: inner, zero: 0, visibleLines: visibleLines, length: visibleLines}
}

func (s *rowStorage) Len() int { return s.length }

func (s *rowStorage) computeIndex(requested int) int {
	if requested >= s.length {
		panic("rowStorage: index out of range")
	}
	zeroed := s.zero + requested
	if zeroed >= len(s.inner) {
		return zeroed - len(s.inner)
	}
	return zeroed
}

// Get returns the row at logical index i, counting up from the bottom of
// the ring (i=0 is the bottommost stored row).
func (s *rowStorage) Get(i int) *Row { return s.inner[s.computeIndex(i)] }

func (s *rowStorage) Set(i int, r *Row) { s.inner[s.computeIndex(i)] = r }

// Line indexes by visible Line, where 0 is the top of the viewport and
// visibleLines-1 is the bottom.
func (s *rowStorage) Line(l Line) *Row {
	i := s.visibleLines - 1 - int(l)
	return s.Get(i)
}

func (s *rowStorage) SetLine(l Line, r *Row) {
	i := s.visibleLines - 1 - int(l)
	s.Set(i, r)
}

// GrowVisibleLines increases the number of visible lines, pulling from
// slack capacity or allocating new template rows as needed.
func (s *rowStorage) GrowVisibleLines(next int, template func() *Row) {
	growage := next - s.visibleLines
	s.growLines(growage, template)
	s.visibleLines = next
}

func (s *rowStorage) growLines(growage int, template func() *Row) {
	newGrowage := 0
	if growage > len(s.inner)-s.length {
		newGrowage = growage - (len(s.inner) - s.length)

		startBuffer := append([]*Row(nil), s.inner[s.zero:]...)
		head := append([]*Row(nil), s.inner[:s.zero]...)

		newLines := make([]*Row, newGrowage)
		for i := range newLines {
			newLines[i] = template()
		}

		rebuilt := append(head, newLines...)
		rebuilt = append(rebuilt, startBuffer...)
		s.inner = rebuilt
	}

	s.zero += newGrowage
	s.length += growage
}

// ShrinkVisibleLines decreases the number of visible lines, hiding
// bottommost rows into scrollback.
func (s *rowStorage) ShrinkVisibleLines(next int) {
	shrinkage := s.visibleLines - next
	s.shrinkLines(shrinkage)
	s.visibleLines = next
}

func (s *rowStorage) shrinkLines(shrinkage int) {
	s.length -= shrinkage
	if len(s.inner) > s.length+maxStorageCacheSize {
		s.Truncate()
	}
}

// Truncate drops the invisible slack from inner, re-basing zero to 0.
func (s *rowStorage) Truncate() {
	rotated := make([]*Row, len(s.inner))
	for i := range s.inner {
		rotated[i] = s.inner[(s.zero+i)%len(s.inner)]
	}
	s.inner = rotated[:s.length]
	s.zero = 0
}

// Initialize proactively grows inner by at least maxStorageCacheSize so
// callers planning ahead (e.g. scrollback push) don't repeatedly reallocate.
func (s *rowStorage) Initialize(additional int, cols Column) {
	if s.length+additional > len(s.inner) {
		reallocSize := additional
		if reallocSize < maxStorageCacheSize {
			reallocSize = maxStorageCacheSize
		}

		newRows := make([]*Row, reallocSize)
		for i := range newRows {
			newRows[i] = NewRow(cols)
		}

		head := append([]*Row(nil), s.inner[:s.zero]...)
		tail := append([]*Row(nil), s.inner[s.zero:]...)
		rebuilt := append(head, newRows...)
		rebuilt = append(rebuilt, tail...)
		s.inner = rebuilt
		s.zero += reallocSize
	}

	s.length += additional
}

// Rotate shifts the ring by count (mod len(inner)); positive count scrolls
// history up, exposing newer lines at the bottom.
func (s *rowStorage) Rotate(count int) {
	n := len(s.inner)
	s.zero = ((s.zero+count)%n + n) % n
}

// RotateUp is a specialized, always-positive Rotate.
func (s *rowStorage) RotateUp(count int) {
	s.zero = (s.zero + count) % len(s.inner)
}

// ReplaceInner swaps in a fresh backing slice, resetting zero to 0.
func (s *rowStorage) ReplaceInner(rows []*Row) {
	s.length = len(rows)
	s.inner = rows
	s.zero = 0
}

// TakeAll empties storage, returning the rows in logical (bottom-up-storage)
// physical order after truncation.
func (s *rowStorage) TakeAll() []*Row {
	s.Truncate()
	buf := s.inner
	s.inner = nil
	s.zero = 0
	s.length = 0
	return buf
}

// SyncVisibleLines sets visibleLines directly, for callers (like a
// non-reflowing row append) that manage the ring's zero/length bookkeeping
// themselves instead of going through GrowVisibleLines/ShrinkVisibleLines.
func (s *rowStorage) SyncVisibleLines(n int) { s.visibleLines = n }

// SwapLines exchanges two rows addressed by visible Line.
func (s *rowStorage) SwapLines(a, b Line) {
	n := len(s.inner)
	offset := n + s.zero + s.visibleLines - 1
	ai := mod(offset-int(a), n)
	bi := mod(offset-int(b), n)
	s.inner[ai], s.inner[bi] = s.inner[bi], s.inner[ai]
}
