package vt

// handleSGR applies a select-graphic-rendition parameter list to the pen.
// An empty list means reset. Extended color forms (38/48 with ;5;n or
// ;2;r;g;b) consume their arguments; truncated forms consume what is
// present and change nothing.
func (t *Terminal) handleSGR(params []int) {
	if len(params) == 0 {
		t.cursor.Pen.FG = DefaultColor
		t.cursor.Pen.BG = DefaultColor
		t.cursor.Pen.Attrs = AttrNone
		return
	}

	pen := &t.cursor.Pen
	for i := 0; i < len(params); i++ {
		switch p := params[i]; {
		case p == 0:
			pen.FG = DefaultColor
			pen.BG = DefaultColor
			pen.Attrs = AttrNone
		case p == 1:
			pen.Attrs |= AttrBold
		case p == 2:
			pen.Attrs |= AttrDim
		case p == 3:
			pen.Attrs |= AttrItalic
		case p == 4:
			pen.Attrs |= AttrUnderline
		case p == 5 || p == 6:
			pen.Attrs |= AttrBlink
		case p == 7:
			pen.Attrs |= AttrInverse
		case p == 8:
			pen.Attrs |= AttrHidden
		case p == 9:
			pen.Attrs |= AttrStrike
		case p == 21: // double underline, rendered as underline
			pen.Attrs |= AttrUnderline
		case p == 22:
			pen.Attrs &^= AttrBold | AttrDim
		case p == 23:
			pen.Attrs &^= AttrItalic
		case p == 24:
			pen.Attrs &^= AttrUnderline
		case p == 25:
			pen.Attrs &^= AttrBlink
		case p == 27:
			pen.Attrs &^= AttrInverse
		case p == 28:
			pen.Attrs &^= AttrHidden
		case p == 29:
			pen.Attrs &^= AttrStrike
		case p >= 30 && p <= 37:
			pen.FG = IndexedColor(uint8(p - 30))
		case p == 38:
			var c Color
			var ok bool
			i, c, ok = parseSGRColor(params, i)
			if ok {
				pen.FG = c
			}
		case p == 39:
			pen.FG = DefaultColor
		case p >= 40 && p <= 47:
			pen.BG = IndexedColor(uint8(p - 40))
		case p == 48:
			var c Color
			var ok bool
			i, c, ok = parseSGRColor(params, i)
			if ok {
				pen.BG = c
			}
		case p == 49:
			pen.BG = DefaultColor
		case p >= 90 && p <= 97:
			pen.FG = IndexedColor(uint8(p - 90 + 8))
		case p >= 100 && p <= 107:
			pen.BG = IndexedColor(uint8(p - 100 + 8))
		default:
			t.discarded++
		}
	}
}

// parseSGRColor reads the extended color arguments following a 38 or 48
// at index i. It returns the index of the last argument consumed, so the
// caller's loop continues after the color form.
func parseSGRColor(params []int, i int) (int, Color, bool) {
	if i+1 >= len(params) {
		return i, Color{}, false
	}
	switch params[i+1] {
	case 5: // indexed
		if i+2 >= len(params) {
			return i + 1, Color{}, false
		}
		idx := params[i+2]
		if idx < 0 {
			idx = 0
		} else if idx > 255 {
			idx = 255
		}
		return i + 2, IndexedColor(uint8(idx)), true
	case 2: // direct RGB
		if i+4 >= len(params) {
			return len(params) - 1, Color{}, false
		}
		r := clampChannel(params[i+2])
		g := clampChannel(params[i+3])
		b := clampChannel(params[i+4])
		return i + 4, RGBColor(r, g, b), true
	default:
		return i + 1, Color{}, false
	}
}

// clampChannel clamps a parameter to the 0-255 channel range.
func clampChannel(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
