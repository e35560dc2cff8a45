package vt

import (
	"github.com/mattn/go-runewidth"
)

// AttrMask is a bit set of text attributes.
type AttrMask uint16

const (
	AttrNone      AttrMask = 0
	AttrBold      AttrMask = 1 << 0
	AttrDim       AttrMask = 1 << 1
	AttrItalic    AttrMask = 1 << 2
	AttrUnderline AttrMask = 1 << 3
	AttrBlink     AttrMask = 1 << 4
	AttrInverse   AttrMask = 1 << 5
	AttrHidden    AttrMask = 1 << 6
	AttrStrike    AttrMask = 1 << 7
)

// Has returns true if the attribute is set.
func (a AttrMask) Has(attr AttrMask) bool {
	return a&attr != 0
}

// Cell is a single character cell. A wide glyph occupies two adjacent
// cells: the first holds the rune with Width 2, the second is a
// continuation placeholder with Width 0 and Rune 0. Zero-width combining
// marks attach to the base glyph's Combining slice.
type Cell struct {
	Rune      rune
	Combining []rune
	FG        Color
	BG        Color
	Attrs     AttrMask
	Width     int8 // 1 normal, 2 wide, 0 continuation
	Link      string
}

// Continuation reports whether the cell is the trailing half of a wide
// glyph.
func (c Cell) Continuation() bool {
	return c.Width == 0
}

// blankCell returns an erased cell carrying the given background.
func blankCell(bg Color) Cell {
	return Cell{Rune: ' ', Width: 1, BG: bg}
}

// Pen is the pending style applied to subsequently written cells.
type Pen struct {
	FG    Color
	BG    Color
	Attrs AttrMask
	Link  string
}

// cell stamps the pen onto a rune of the given width.
func (p Pen) cell(r rune, width int8) Cell {
	return Cell{Rune: r, FG: p.FG, BG: p.BG, Attrs: p.Attrs, Width: width, Link: p.Link}
}

// Combining-mark capacity per cell; further marks on the same base glyph
// are dropped.
const maxCombining = 4

// runeWidth returns the display width class of a rune: 0 for combining
// marks, 2 for wide glyphs, 1 otherwise.
func runeWidth(r rune) int {
	w := runewidth.RuneWidth(r)
	if w < 0 {
		return 0
	}
	if w > 2 {
		return 2
	}
	return w
}
