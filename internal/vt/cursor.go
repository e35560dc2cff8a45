package vt

// CursorStyle is the cursor shape requested by DECSCUSR.
type CursorStyle int

const (
	CursorBlock CursorStyle = iota
	CursorUnderline
	CursorBar
)

// Cursor is the insertion point: position, pending style, shape, and the
// last printed rune (for the repeat sequence).
type Cursor struct {
	X, Y  int
	Pen   Pen
	Style CursorStyle
	Blink bool
	// StyleSet records that the child picked an explicit shape, letting a
	// renderer fall back to its own default until then.
	StyleSet bool
	LastRune rune
}

// SavedCursor is the save/restore-cursor slot. Each screen keeps its own.
type SavedCursor struct {
	X, Y     int
	Pen      Pen
	Origin   bool
	Charsets charsetState
}
