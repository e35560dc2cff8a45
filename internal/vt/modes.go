package vt

// Mode is one terminal mode bit.
type Mode uint32

const (
	// ModeAutoWrap moves the cursor to the next line after the last column
	// (DECAWM). Default on.
	ModeAutoWrap Mode = 1 << iota
	// ModeOrigin makes cursor addressing relative to the scrolling region
	// (DECOM).
	ModeOrigin
	// ModeInsert shifts existing cells right on write instead of
	// overwriting (IRM).
	ModeInsert
	// ModeCursorVisible shows the cursor (DECTCEM). Default on.
	ModeCursorVisible
	// ModeAppCursor switches arrow keys to application reports (DECCKM).
	ModeAppCursor
	// ModeAppKeypad switches the numeric keypad to application reports
	// (DECKPAM/DECKPNM).
	ModeAppKeypad
	// ModeBracketedPaste asks the host to bracket pasted text.
	ModeBracketedPaste
	// ModeAltScreen selects the alternate screen.
	ModeAltScreen
	// ModeReverseVideo renders the whole screen with default colors
	// swapped (DECSCNM).
	ModeReverseVideo
	// ModeNewline makes line feed imply carriage return (LNM).
	ModeNewline
	// ModeFocusReport asks the host to report focus in/out.
	ModeFocusReport
	// Mouse tracking modes are recorded for host query; this core never
	// encodes mouse input itself.
	ModeMouseButton
	ModeMouseDrag
	ModeMouseMotion
	ModeMouseSGR
)

// ModeSet is the current set of terminal modes.
type ModeSet uint32

// defaultModes is the state after power-on or full reset.
const defaultModes = ModeSet(ModeAutoWrap | ModeCursorVisible)

// Has returns true if the mode is set.
func (m ModeSet) Has(mode Mode) bool {
	return uint32(m)&uint32(mode) != 0
}

func (m *ModeSet) set(mode Mode) {
	*m = ModeSet(uint32(*m) | uint32(mode))
}

func (m *ModeSet) clear(mode Mode) {
	*m = ModeSet(uint32(*m) &^ uint32(mode))
}

func (m *ModeSet) put(mode Mode, on bool) {
	if on {
		m.set(mode)
	} else {
		m.clear(mode)
	}
}
