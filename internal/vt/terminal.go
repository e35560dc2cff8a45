package vt

import (
	"fmt"
	"sync"
)

// Options configures a Terminal.
type Options struct {
	// Cols is the initial column count. Defaults to 80.
	Cols int
	// Rows is the initial row count. Defaults to 24.
	Rows int
	// HistoryLimit is the maximum number of scrollback lines. 0 selects
	// the default of 10000; negative disables scrollback.
	HistoryLimit int
}

// DefaultHistoryLimit is the scrollback bound used when Options leaves it
// unset.
const DefaultHistoryLimit = 10000

// Terminal is an in-memory terminal: it consumes the raw byte stream a
// child process writes to its pty and maintains the grid of styled cells,
// cursor, and mode state a renderer needs to paint the screen. It owns
// every piece of mutable emulation state; collaborators only ever see
// copies.
//
// Feed never fails. Malformed, truncated, or hostile input degrades to
// discarded sequences or replacement glyphs, and the terminal remains
// usable.
type Terminal struct {
	mu     sync.RWMutex
	parser *Parser

	primary   *grid
	alternate *grid
	history   *history

	width  int
	height int

	cursor   Cursor
	saved    [2]SavedCursor
	modes    ModeSet
	tabs     *tabStops
	charsets charsetState

	// Scroll region bounds, inclusive.
	scrollTop    int
	scrollBottom int

	title     string
	workDir   string
	clipboard []byte

	// OSC 4/10/11 overrides. Unset entries resolve to the renderer's
	// stock palette and defaults.
	palette map[uint8]Color
	fgColor Color
	bgColor Color

	// Bytes queued for the child process (query responses), drained by
	// the host.
	out []byte

	bells     int
	discarded int
}

// New creates a terminal with the given options.
func New(opts Options) *Terminal {
	cols := opts.Cols
	if cols < 1 {
		cols = 80
	}
	rows := opts.Rows
	if rows < 1 {
		rows = 24
	}
	limit := opts.HistoryLimit
	switch {
	case limit == 0:
		limit = DefaultHistoryLimit
	case limit < 0:
		limit = 0
	}

	return &Terminal{
		parser:       NewParser(),
		primary:      newGrid(cols, rows),
		alternate:    newGrid(cols, rows),
		history:      newHistory(limit),
		width:        cols,
		height:       rows,
		modes:        defaultModes,
		tabs:         newTabStops(cols),
		scrollBottom: rows - 1,
		palette:      make(map[uint8]Color),
	}
}

// grid returns the active screen.
func (t *Terminal) grid() *grid {
	if t.modes.Has(ModeAltScreen) {
		return t.alternate
	}
	return t.primary
}

// savedSlot returns the save-cursor slot of the active screen.
func (t *Terminal) savedSlot() *SavedCursor {
	if t.modes.Has(ModeAltScreen) {
		return &t.saved[1]
	}
	return &t.saved[0]
}

// Feed interprets a chunk of child output. Sequences split across chunks
// resume where they left off; events apply in exact byte order. Feed is
// not reentrant.
func (t *Terminal) Feed(p []byte) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, b := range p {
		for _, ev := range t.parser.Advance(b) {
			t.apply(ev)
		}
	}
}

// Resize sets the screen dimensions, truncating or padding both screens.
// Rows and cols are clamped to at least 1. Content that no longer fits is
// dropped; there is no reflow.
func (t *Terminal) Resize(rows, cols int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if rows < 1 {
		rows = 1
	}
	if cols < 1 {
		cols = 1
	}
	if rows == t.height && cols == t.width {
		return
	}

	t.primary.resize(cols, rows)
	t.alternate.resize(cols, rows)
	t.tabs.resize(cols)
	t.width = cols
	t.height = rows

	if t.scrollTop >= rows {
		t.scrollTop = 0
	}
	if t.scrollBottom >= rows {
		t.scrollBottom = rows - 1
	}
	if t.scrollTop >= t.scrollBottom {
		t.scrollTop = 0
		t.scrollBottom = rows - 1
	}

	t.cursor.X = clamp(t.cursor.X, 0, cols-1)
	t.cursor.Y = clamp(t.cursor.Y, 0, rows-1)
	for i := range t.saved {
		t.saved[i].X = clamp(t.saved[i].X, 0, cols-1)
		t.saved[i].Y = clamp(t.saved[i].Y, 0, rows-1)
	}
}

// Size returns the current dimensions.
func (t *Terminal) Size() (rows, cols int) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.height, t.width
}

// CursorPos returns the cursor column and row.
func (t *Terminal) CursorPos() (x, y int) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.cursor.X, t.cursor.Y
}

// CursorVisible reports whether the cursor should be painted.
func (t *Terminal) CursorVisible() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.modes.Has(ModeCursorVisible)
}

// CursorStyle returns the requested cursor shape and whether it blinks.
func (t *Terminal) CursorStyle() (CursorStyle, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.cursor.Style, t.cursor.Blink
}

// Mode reports whether a mode is set.
func (t *Terminal) Mode(m Mode) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.modes.Has(m)
}

// Modes returns the full mode set.
func (t *Terminal) Modes() ModeSet {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.modes
}

// Title returns the window title set by the child, or "".
func (t *Terminal) Title() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.title
}

// WorkingDir returns the directory the child last reported, or "".
func (t *Terminal) WorkingDir() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.workDir
}

// Cell returns the cell at (x, y) on the active screen.
func (t *Terminal) Cell(x, y int) Cell {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.grid().cell(x, y)
}

// Line returns a copy of row y on the active screen, or nil when out of
// bounds.
func (t *Terminal) Line(y int) []Cell {
	t.mu.RLock()
	defer t.mu.RUnlock()
	l := t.grid().line(y)
	if l == nil {
		return nil
	}
	cells := make([]Cell, len(l.Cells))
	copy(cells, l.Cells)
	return cells
}

// HistoryLen returns the number of scrollback lines retained.
func (t *Terminal) HistoryLen() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.history.len()
}

// HistoryLine returns a copy of scrollback line i, oldest first, or nil
// when out of range. Lines keep the width they had when they scrolled
// off.
func (t *Terminal) HistoryLine(i int) []Cell {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.history.line(i)
}

// PaletteColor resolves a palette index through any OSC 4 override,
// falling back to the stock rendition.
func (t *Terminal) PaletteColor(index uint8) Color {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if c, ok := t.palette[index]; ok {
		return c
	}
	r, g, b := paletteRGB(index)
	return RGBColor(r, g, b)
}

// Clipboard returns the last OSC 52 clipboard payload.
func (t *Terminal) Clipboard() []byte {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]byte, len(t.clipboard))
	copy(out, t.clipboard)
	return out
}

// TakeOutput drains the bytes the emulator queued for the child process
// (status reports, query replies). The host must write them to the pty.
func (t *Terminal) TakeOutput() []byte {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := t.out
	t.out = nil
	return out
}

// TakeBell drains the bell counter.
func (t *Terminal) TakeBell() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := t.bells
	t.bells = 0
	return n
}

// Discarded returns how many sequences were consumed without effect:
// malformed input, unknown finals, unrecognized OSC identifiers.
func (t *Terminal) Discarded() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.discarded
}

// replyf queues a response for the child process.
func (t *Terminal) replyf(format string, args ...any) {
	t.out = fmt.Appendf(t.out, format, args...)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
