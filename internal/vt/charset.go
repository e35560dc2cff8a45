package vt

// Charset is a character set designated into G0 or G1.
type Charset uint8

const (
	// CharsetASCII passes runes through unchanged.
	CharsetASCII Charset = iota
	// CharsetLineDrawing is DEC Special Graphics: 0x60-0x7E map to box
	// drawing and symbol runes.
	CharsetLineDrawing
)

// charsetState holds the G0/G1 designations and which one shift-in/out
// selected.
type charsetState struct {
	g      [2]Charset
	active uint8
}

// designate assigns a charset to slot 0 (G0) or 1 (G1) from the final
// byte of an ESC ( / ESC ) sequence. Unrecognized designators select
// ASCII.
func (cs *charsetState) designate(slot int, final byte) {
	if slot < 0 || slot > 1 {
		return
	}
	switch final {
	case '0':
		cs.g[slot] = CharsetLineDrawing
	default:
		cs.g[slot] = CharsetASCII
	}
}

// mapRune translates a rune through the active charset.
func (cs charsetState) mapRune(r rune) rune {
	if cs.g[cs.active] != CharsetLineDrawing {
		return r
	}
	if r < 0x60 || r > 0x7E {
		return r
	}
	return lineDrawing[r-0x60]
}

// lineDrawing maps 0x60-0x7E per the DEC Special Graphics set.
var lineDrawing = [31]rune{
	'◆', '▒', '␉', '␌', '␍', '␊', '°', '±',
	'␤', '␋', '┘', '┐', '┌', '└', '┼', '⎺',
	'⎻', '─', '⎼', '⎽', '├', '┤', '┴', '┬',
	'│', '≤', '≥', 'π', '≠', '£', '·',
}
