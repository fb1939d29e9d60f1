package headlessterm

import "image/color"

// CellFlags is a bitmask of cell rendering attributes.
type CellFlags uint16

const (
	CellFlagBold CellFlags = 1 << iota
	CellFlagDim
	CellFlagItalic
	CellFlagUnderline
	CellFlagDoubleUnderline
	CellFlagCurlyUnderline
	CellFlagDottedUnderline
	CellFlagDashedUnderline
	CellFlagBlinkSlow
	CellFlagBlinkFast
	CellFlagReverse
	CellFlagHidden
	CellFlagStrike
	CellFlagWideChar
	CellFlagWideCharSpacer
	CellFlagWrapline
	CellFlagLeadingWideCharSpacer
	CellFlagDirty
)

// underlineFlags is every flag representing an active underline style;
// at most one is ever set at a time.
const underlineFlags = CellFlagUnderline | CellFlagDoubleUnderline | CellFlagCurlyUnderline |
	CellFlagDottedUnderline | CellFlagDashedUnderline

// Cell stores the character, colors, and formatting attributes for one grid position.
// Wide characters (2 columns) use a spacer cell in the second position. Rarely-used
// attachments (combining codepoints, an underline color override, a hyperlink) live
// in a lazily allocated, copy-on-write Extra so the common cell stays small.
type Cell struct {
	Char  rune
	Fg    color.Color
	Bg    color.Color
	Flags CellFlags
	Extra *CellExtra
	Image *CellImage // Image reference, nil if no image
}

// CellExtra holds attachments a cell only rarely carries.
type CellExtra struct {
	Zerowidth      []rune
	UnderlineColor color.Color
	Hyperlink      *Hyperlink
}

func (e *CellExtra) isDefault() bool {
	return e == nil || (len(e.Zerowidth) == 0 && e.UnderlineColor == nil && e.Hyperlink == nil)
}

// Hyperlink associates a cell with a clickable link (OSC 8).
type Hyperlink struct {
	ID  string
	URI string
}

// NewCell creates a cell initialized with space character and default colors.
func NewCell() Cell {
	return Cell{
		Char: ' ',
		Fg:   &NamedColor{Name: NamedColorForeground},
		Bg:   &NamedColor{Name: NamedColorBackground},
	}
}

// Reset clears all attributes and sets the cell to default state (space character, default colors).
func (c *Cell) Reset() {
	c.Char = ' '
	c.Fg = &NamedColor{Name: NamedColorForeground}
	c.Bg = &NamedColor{Name: NamedColorBackground}
	c.Flags = 0
	c.Extra = nil
	c.Image = nil
}

// HasFlag returns true if the specified flag is set.
func (c *Cell) HasFlag(flag CellFlags) bool {
	return c.Flags&flag != 0
}

// SetFlag enables the specified flag without affecting others.
func (c *Cell) SetFlag(flag CellFlags) {
	c.Flags |= flag
}

// ClearFlag disables the specified flag without affecting others.
func (c *Cell) ClearFlag(flag CellFlags) {
	c.Flags &^= flag
}

// IsDirty returns true if the cell was modified since the last ClearDirty call.
func (c *Cell) IsDirty() bool {
	return c.HasFlag(CellFlagDirty)
}

// MarkDirty marks the cell as modified for dirty tracking.
func (c *Cell) MarkDirty() {
	c.SetFlag(CellFlagDirty)
}

// ClearDirty resets the dirty tracking flag.
func (c *Cell) ClearDirty() {
	c.ClearFlag(CellFlagDirty)
}

// IsWide returns true if this cell contains a wide character (CJK, emoji, etc.) that occupies 2 columns.
func (c *Cell) IsWide() bool {
	return c.HasFlag(CellFlagWideChar)
}

// IsWideSpacer returns true if this is the second cell of a wide character (should be skipped during rendering).
func (c *Cell) IsWideSpacer() bool {
	return c.HasFlag(CellFlagWideCharSpacer)
}

// Copy returns a shallow copy of the cell; Extra is shared by reference
// until one of the copies mutates it, at which point that copy clones it.
func (c *Cell) Copy() Cell {
	return Cell{
		Char:  c.Char,
		Fg:    c.Fg,
		Bg:    c.Bg,
		Flags: c.Flags,
		Extra: c.Extra,
		Image: c.Image,
	}
}

// HasImage returns true if this cell has an image reference.
func (c *Cell) HasImage() bool {
	return c.Image != nil
}

// cloneExtra returns a private, mutable Extra for this cell, cloning the
// shared one (if any) so sibling cells that copied the same pointer are
// unaffected.
func (c *Cell) cloneExtra() *CellExtra {
	if c.Extra == nil {
		c.Extra = &CellExtra{}
	} else {
		clone := *c.Extra
		clone.Zerowidth = append([]rune(nil), c.Extra.Zerowidth...)
		c.Extra = &clone
	}
	return c.Extra
}

// dropExtraIfDefault releases Extra once it carries no attachments, so an
// all-default cell never pays for the allocation.
func (c *Cell) dropExtraIfDefault() {
	if c.Extra.isDefault() {
		c.Extra = nil
	}
}

// Zerowidth returns the combining code points attached to this cell, if any.
func (c *Cell) Zerowidth() []rune {
	if c.Extra == nil {
		return nil
	}
	return c.Extra.Zerowidth
}

// PushZerowidth appends a combining code point to this cell rather than
// advancing the cursor, creating Extra lazily.
func (c *Cell) PushZerowidth(r rune) {
	e := c.cloneExtra()
	e.Zerowidth = append(e.Zerowidth, r)
}

// GetUnderlineColor returns the underline color override, or nil when the
// underline uses the foreground color.
func (c *Cell) GetUnderlineColor() color.Color {
	if c.Extra == nil {
		return nil
	}
	return c.Extra.UnderlineColor
}

// SetUnderlineColor sets (or clears, with nil) the underline color override.
func (c *Cell) SetUnderlineColor(col color.Color) {
	if col == nil {
		if c.Extra != nil {
			c.Extra.UnderlineColor = nil
			c.dropExtraIfDefault()
		}
		return
	}
	c.cloneExtra().UnderlineColor = col
}

// GetHyperlink returns the hyperlink attached to this cell, if any.
func (c *Cell) GetHyperlink() *Hyperlink {
	if c.Extra == nil {
		return nil
	}
	return c.Extra.Hyperlink
}

// SetHyperlink attaches (or clears, with nil) a hyperlink.
func (c *Cell) SetHyperlink(h *Hyperlink) {
	if h == nil {
		if c.Extra != nil {
			c.Extra.Hyperlink = nil
			c.dropExtraIfDefault()
		}
		return
	}
	c.cloneExtra().Hyperlink = h
}

// ClearWide removes WIDE_CHAR and any zerowidth combiners, resetting the
// character to a space. Used when a wide char is displaced by reflow/erase.
func (c *Cell) ClearWide() {
	c.ClearFlag(CellFlagWideChar)
	c.Char = ' '
	if c.Extra != nil {
		c.Extra.Zerowidth = nil
		c.dropExtraIfDefault()
	}
}

// IsEmpty reports whether the cell has no visible content: a blank
// character, default colors, none of the "meaningful" flags, and no
// zerowidth combiners. Used by Row.Shrink/IsClear and reflow to decide
// whether a cell must be preserved across a resize.
func (c *Cell) IsEmpty() bool {
	if c.Char != ' ' && c.Char != '\t' {
		return false
	}
	if c.HasFlag(CellFlagReverse | underlineFlags | CellFlagStrike | CellFlagWrapline |
		CellFlagWideCharSpacer | CellFlagLeadingWideCharSpacer) {
		return false
	}
	if fg, ok := c.Fg.(*NamedColor); c.Fg != nil && (!ok || fg.Name != NamedColorForeground) {
		return false
	}
	if bg, ok := c.Bg.(*NamedColor); c.Bg != nil && (!ok || bg.Name != NamedColorBackground) {
		return false
	}
	if len(c.Zerowidth()) != 0 {
		return false
	}
	return true
}

// FastEq is a cheap equality check used by reflow/dedup paths that only
// care about visible content, not dirty-tracking flags.
func (c Cell) FastEq(other Cell) bool {
	return c.Char == other.Char && c.Flags&^CellFlagDirty == other.Flags&^CellFlagDirty
}

// cellsText renders a run of cells as text, trimming trailing blanks and
// skipping the spacer half of wide characters. Shared by Buffer.LineContent
// and any caller that needs to stringify an arbitrary cell slice rather
// than a whole resident row (e.g. a scrollback line outside the ring).
func cellsText(cells []Cell) string {
	lastNonSpace := -1
	for col := len(cells) - 1; col >= 0; col-- {
		if cells[col].Char != ' ' && cells[col].Char != 0 && !cells[col].IsWideSpacer() {
			lastNonSpace = col
			break
		}
	}
	if lastNonSpace < 0 {
		return ""
	}

	runes := make([]rune, 0, lastNonSpace+1)
	for col := 0; col <= lastNonSpace; col++ {
		if cells[col].IsWideSpacer() {
			continue
		}
		if cells[col].Char == 0 {
			runes = append(runes, ' ')
		} else {
			runes = append(runes, cells[col].Char)
		}
	}
	return string(runes)
}
