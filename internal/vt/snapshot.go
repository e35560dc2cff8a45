package vt

// Snapshot is a point-in-time copy of everything a renderer needs. It
// shares no mutable state with the terminal; reading it while the
// terminal keeps feeding is safe.
type Snapshot struct {
	Cols int
	Rows int

	// Lines is the visible grid, top to bottom.
	Lines []Line

	CursorX       int
	CursorY       int
	CursorVisible bool
	CursorStyle   CursorStyle
	CursorBlink   bool
	// CursorStyleSet reports that the child chose a shape explicitly;
	// until then a renderer may apply its own default.
	CursorStyleSet bool

	Modes      ModeSet
	Title      string
	WorkingDir string

	// DefaultFG/DefaultBG are OSC 10/11 overrides; Kind is ColorDefault
	// when the child never set them.
	DefaultFG Color
	DefaultBG Color

	// Palette holds OSC 4 overrides by index.
	Palette map[uint8]Color

	// HistoryLen is the scrollback depth at snapshot time.
	HistoryLen int
}

// Cell returns the cell at (x, y), or a blank cell when out of bounds.
func (s *Snapshot) Cell(x, y int) Cell {
	if y < 0 || y >= len(s.Lines) || x < 0 || x >= len(s.Lines[y].Cells) {
		return blankCell(DefaultColor)
	}
	return s.Lines[y].Cells[x]
}

// Snapshot copies the visible screen and the state a renderer consumes.
func (t *Terminal) Snapshot() *Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()

	g := t.grid()
	lines := make([]Line, g.height)
	for y, l := range g.lines {
		lines[y] = *l.copyLine()
	}

	var palette map[uint8]Color
	if len(t.palette) > 0 {
		palette = make(map[uint8]Color, len(t.palette))
		for i, c := range t.palette {
			palette[i] = c
		}
	}

	return &Snapshot{
		Cols:           t.width,
		Rows:           t.height,
		Lines:          lines,
		CursorX:        t.cursor.X,
		CursorY:        t.cursor.Y,
		CursorVisible:  t.modes.Has(ModeCursorVisible),
		CursorStyle:    t.cursor.Style,
		CursorBlink:    t.cursor.Blink,
		CursorStyleSet: t.cursor.StyleSet,
		Modes:          t.modes,
		Title:          t.title,
		WorkingDir:     t.workDir,
		DefaultFG:      t.fgColor,
		DefaultBG:      t.bgColor,
		Palette:        palette,
		HistoryLen:     t.history.len(),
	}
}
