package vt

// handleCSI executes a completed control sequence. Unknown final bytes
// and private markers are consumed without effect, keeping the dispatcher
// synchronized with the byte stream.
func (t *Terminal) handleCSI(ev Event) {
	if ev.Private != 0 && ev.Private != '?' {
		// ">" and "=" variants (secondary DA and friends) are discarded.
		t.discarded++
		return
	}
	if len(ev.Intermediates) > 0 {
		t.handleCSIIntermediate(ev)
		return
	}
	if ev.Private == '?' {
		t.handlePrivateCSI(ev)
		return
	}

	switch ev.Final {
	case 'A': // CUU
		t.moveCursorRel(0, -ev.Param(0, 1))
	case 'B': // CUD
		t.moveCursorRel(0, ev.Param(0, 1))
	case 'C': // CUF
		t.moveCursorRel(ev.Param(0, 1), 0)
	case 'D': // CUB
		t.moveCursorRel(-ev.Param(0, 1), 0)
	case 'E': // CNL
		t.moveCursorRel(0, ev.Param(0, 1))
		t.cursor.X = 0
	case 'F': // CPL
		t.moveCursorRel(0, -ev.Param(0, 1))
		t.cursor.X = 0
	case 'G', '`': // CHA, HPA
		t.setCursorCol(ev.Param(0, 1) - 1)
	case 'H', 'f': // CUP, HVP
		t.moveCursorAbs(ev.Param(1, 1)-1, ev.Param(0, 1)-1)
	case 'I': // CHT
		t.tabForward(ev.Param(0, 1))
	case 'J': // ED
		t.eraseDisplay(ev.Param(0, 0))
	case 'K': // EL
		t.eraseLine(ev.Param(0, 0))
	case 'L': // IL
		t.insertLines(ev.Param(0, 1))
	case 'M': // DL
		t.deleteLines(ev.Param(0, 1))
	case 'P': // DCH
		t.deleteCells(ev.Param(0, 1))
	case 'S': // SU
		t.scrollUp(ev.Param(0, 1))
	case 'T': // SD
		t.scrollDown(ev.Param(0, 1))
	case 'X': // ECH
		t.eraseCells(ev.Param(0, 1))
	case 'Z': // CBT
		t.tabBackward(ev.Param(0, 1))
	case '@': // ICH
		t.insertCells(ev.Param(0, 1))
	case 'a': // HPR
		t.moveCursorRel(ev.Param(0, 1), 0)
	case 'b': // REP
		t.repeatLast(ev.Param(0, 1))
	case 'c': // DA
		if ev.Param(0, 0) == 0 {
			t.replyf("\x1b[?6c")
		}
	case 'd': // VPA
		t.setCursorRow(ev.Param(0, 1) - 1)
	case 'e': // VPR
		t.moveCursorRel(0, ev.Param(0, 1))
	case 'g': // TBC
		switch ev.Param(0, 0) {
		case 0:
			t.tabs.clearAt(t.cursor.X)
		case 3:
			t.tabs.clearAll()
		}
	case 'h': // SM
		t.setAnsiModes(ev.Params, true)
	case 'l': // RM
		t.setAnsiModes(ev.Params, false)
	case 'm': // SGR
		t.handleSGR(ev.Params)
	case 'n': // DSR
		t.deviceStatus(ev.Param(0, 0))
	case 'r': // DECSTBM
		t.setScrollRegion(ev.Param(0, 1)-1, ev.Param(1, t.height)-1)
	case 's': // SCOSC
		t.saveCursor()
	case 'u': // SCORC
		t.restoreCursor()
	default:
		t.discarded++
	}
}

// handleCSIIntermediate covers the intermediate-byte forms; only the
// cursor style selector is recognized.
func (t *Terminal) handleCSIIntermediate(ev Event) {
	if ev.Intermediates[0] == ' ' && ev.Final == 'q' { // DECSCUSR
		t.setCursorStyle(ev.Param(0, 1))
		return
	}
	t.discarded++
}

// setCursorStyle applies a DECSCUSR selector: odd values blink, even are
// steady; 0 and 1 both mean the default blinking block and return shape
// choice to the renderer.
func (t *Terminal) setCursorStyle(n int) {
	switch n {
	case 0, 1:
		t.cursor.Style = CursorBlock
		t.cursor.Blink = true
		t.cursor.StyleSet = false
		return
	case 2:
		t.cursor.Style = CursorBlock
		t.cursor.Blink = false
	case 3:
		t.cursor.Style = CursorUnderline
		t.cursor.Blink = true
	case 4:
		t.cursor.Style = CursorUnderline
		t.cursor.Blink = false
	case 5:
		t.cursor.Style = CursorBar
		t.cursor.Blink = true
	case 6:
		t.cursor.Style = CursorBar
		t.cursor.Blink = false
	default:
		t.discarded++
		return
	}
	t.cursor.StyleSet = true
}

// repeatLast re-prints the last graphic character n times (REP). Ignored
// when no printable has been written yet.
func (t *Terminal) repeatLast(n int) {
	if t.cursor.LastRune == 0 {
		return
	}
	if n > t.width*t.height {
		n = t.width * t.height
	}
	r := t.cursor.LastRune
	for i := 0; i < n; i++ {
		t.writeRune(r)
	}
}

// deviceStatus answers DSR queries: 5 reports operating status, 6 the
// cursor position (origin-relative when origin mode is set).
func (t *Terminal) deviceStatus(n int) {
	switch n {
	case 5:
		t.replyf("\x1b[0n")
	case 6:
		row := t.cursor.Y
		if t.modes.Has(ModeOrigin) {
			row -= t.scrollTop
		}
		t.replyf("\x1b[%d;%dR", row+1, t.cursor.X+1)
	default:
		t.discarded++
	}
}

// setAnsiModes applies SM/RM without a private marker.
func (t *Terminal) setAnsiModes(params []int, on bool) {
	for _, p := range params {
		switch p {
		case 4: // IRM
			t.modes.put(ModeInsert, on)
		case 20: // LNM
			t.modes.put(ModeNewline, on)
		default:
			t.discarded++
		}
	}
}

// handlePrivateCSI covers the DEC private sequences: currently only the
// ?-prefixed SM/RM mode switches have effects.
func (t *Terminal) handlePrivateCSI(ev Event) {
	switch ev.Final {
	case 'h':
		t.setPrivateModes(ev.Params, true)
	case 'l':
		t.setPrivateModes(ev.Params, false)
	default:
		t.discarded++
	}
}

// setPrivateModes applies DEC private set/reset-mode parameters.
func (t *Terminal) setPrivateModes(params []int, on bool) {
	for _, p := range params {
		switch p {
		case 1: // DECCKM
			t.modes.put(ModeAppCursor, on)
		case 5: // DECSCNM
			t.modes.put(ModeReverseVideo, on)
		case 6: // DECOM
			t.modes.put(ModeOrigin, on)
			t.moveCursorAbs(0, 0)
		case 7: // DECAWM
			t.modes.put(ModeAutoWrap, on)
		case 12: // cursor blink
			t.cursor.Blink = on
		case 25: // DECTCEM
			t.modes.put(ModeCursorVisible, on)
		case 47: // alternate screen
			if on {
				t.enterAlt(false)
			} else {
				t.leaveAlt(false)
			}
		case 1000:
			t.modes.put(ModeMouseButton, on)
		case 1002:
			t.modes.put(ModeMouseDrag, on)
		case 1003:
			t.modes.put(ModeMouseMotion, on)
		case 1004:
			t.modes.put(ModeFocusReport, on)
		case 1006:
			t.modes.put(ModeMouseSGR, on)
		case 1047: // alternate screen, cleared on the way out
			if on {
				t.enterAlt(false)
			} else {
				t.leaveAlt(true)
			}
		case 1048:
			if on {
				t.saveCursor()
			} else {
				t.restoreCursor()
			}
		case 1049: // save cursor + alternate screen, cleared on entry
			if on {
				t.saveCursor()
				t.enterAlt(true)
			} else {
				t.leaveAlt(false)
				t.restoreCursor()
			}
		case 2004:
			t.modes.put(ModeBracketedPaste, on)
		default:
			t.discarded++
		}
	}
}
