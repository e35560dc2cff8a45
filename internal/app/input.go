package app

import (
	"fmt"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/termstorm/internal/vt"
)

// encodeKey translates a key event into the byte sequence a terminal
// sends, honoring the cursor-key mode the child selected. Returns nil for
// keys that have no terminal encoding.
func encodeKey(ev *tcell.EventKey, modes vt.ModeSet) []byte {
	mod := xtermMod(ev.Modifiers())
	appCursor := modes.Has(vt.ModeAppCursor)

	switch ev.Key() {
	case tcell.KeyRune:
		var buf []byte
		if ev.Modifiers()&tcell.ModAlt != 0 {
			buf = append(buf, 0x1b)
		}
		return utf8.AppendRune(buf, ev.Rune())

	case tcell.KeyUp:
		return cursorKey('A', appCursor, mod)
	case tcell.KeyDown:
		return cursorKey('B', appCursor, mod)
	case tcell.KeyRight:
		return cursorKey('C', appCursor, mod)
	case tcell.KeyLeft:
		return cursorKey('D', appCursor, mod)
	case tcell.KeyHome:
		return cursorKey('H', appCursor, mod)
	case tcell.KeyEnd:
		return cursorKey('F', appCursor, mod)

	case tcell.KeyInsert:
		return tildeKey(2, mod)
	case tcell.KeyDelete:
		return tildeKey(3, mod)
	case tcell.KeyPgUp:
		return tildeKey(5, mod)
	case tcell.KeyPgDn:
		return tildeKey(6, mod)

	case tcell.KeyF1:
		return fnKey('P', mod)
	case tcell.KeyF2:
		return fnKey('Q', mod)
	case tcell.KeyF3:
		return fnKey('R', mod)
	case tcell.KeyF4:
		return fnKey('S', mod)
	case tcell.KeyF5:
		return tildeKey(15, mod)
	case tcell.KeyF6:
		return tildeKey(17, mod)
	case tcell.KeyF7:
		return tildeKey(18, mod)
	case tcell.KeyF8:
		return tildeKey(19, mod)
	case tcell.KeyF9:
		return tildeKey(20, mod)
	case tcell.KeyF10:
		return tildeKey(21, mod)
	case tcell.KeyF11:
		return tildeKey(23, mod)
	case tcell.KeyF12:
		return tildeKey(24, mod)

	case tcell.KeyBacktab:
		return []byte{0x1b, '[', 'Z'}

	default:
		// Control keys carry their byte value directly (Enter is 0x0d,
		// Tab 0x09, Escape 0x1b, the Ctrl chords 0x01-0x1a, DEL 0x7f).
		if k := ev.Key(); k >= 0 && k < 0x80 {
			if ev.Modifiers()&tcell.ModAlt != 0 {
				return []byte{0x1b, byte(k)}
			}
			return []byte{byte(k)}
		}
		return nil
	}
}

// cursorKey encodes an arrow or Home/End key: CSI by default, SS3 when the
// child selected application cursor keys, CSI 1;mod when modified.
func cursorKey(letter byte, appCursor bool, mod int) []byte {
	if mod > 1 {
		return fmt.Appendf(nil, "\x1b[1;%d%c", mod, letter)
	}
	if appCursor {
		return []byte{0x1b, 'O', letter}
	}
	return []byte{0x1b, '[', letter}
}

// tildeKey encodes the CSI n ~ editing and function keys.
func tildeKey(n, mod int) []byte {
	if mod > 1 {
		return fmt.Appendf(nil, "\x1b[%d;%d~", n, mod)
	}
	return fmt.Appendf(nil, "\x1b[%d~", n)
}

// fnKey encodes F1-F4, which use SS3 letters unmodified.
func fnKey(letter byte, mod int) []byte {
	if mod > 1 {
		return fmt.Appendf(nil, "\x1b[1;%d%c", mod, letter)
	}
	return []byte{0x1b, 'O', letter}
}

// xtermMod converts a modifier mask to the xterm parameter encoding:
// 1 plus shift=1, alt=2, ctrl=4, meta=8.
func xtermMod(m tcell.ModMask) int {
	mod := 1
	if m&tcell.ModShift != 0 {
		mod += 1
	}
	if m&tcell.ModAlt != 0 {
		mod += 2
	}
	if m&tcell.ModCtrl != 0 {
		mod += 4
	}
	if m&tcell.ModMeta != 0 {
		mod += 8
	}
	return mod
}

// encodePaste brackets a paste when the child asked for it. Outside
// bracketed paste mode the pasted text flows through as plain key events
// and the markers are omitted.
func encodePaste(start, bracketed bool) []byte {
	if !bracketed {
		return nil
	}
	if start {
		return []byte("\x1b[200~")
	}
	return []byte("\x1b[201~")
}

// encodeFocus reports a focus change when the child enabled focus events.
func encodeFocus(focused, wanted bool) []byte {
	if !wanted {
		return nil
	}
	if focused {
		return []byte("\x1b[I")
	}
	return []byte("\x1b[O")
}
