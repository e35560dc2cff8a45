package vt

// apply routes one parsed event to its handler. Every event kind has
// exactly one handler; nothing here can fail.
func (t *Terminal) apply(ev Event) {
	switch ev.Kind {
	case EventText:
		t.writeRune(ev.Rune)
	case EventControl:
		t.handleControl(ev.Byte)
	case EventEsc:
		t.handleEsc(ev)
	case EventCSI:
		t.handleCSI(ev)
	case EventOSC:
		t.handleOSC(ev.Payload)
	case EventDCS:
		// Device control strings (SIXEL, DECRQSS, ...) are consumed whole
		// and discarded.
		t.discarded++
	case EventInvalid:
		t.discarded++
	}
}

// handleControl executes a C0 control byte.
func (t *Terminal) handleControl(b byte) {
	switch b {
	case 0x07: // BEL
		t.bells++
	case 0x08: // BS
		if t.cursor.X > 0 {
			t.cursor.X--
		}
	case 0x09: // HT
		t.tabForward(1)
	case 0x0A, 0x0B, 0x0C: // LF, VT, FF
		t.lineFeed()
		if t.modes.Has(ModeNewline) {
			t.cursor.X = 0
		}
	case 0x0D: // CR
		t.cursor.X = 0
	case 0x0E: // SO, select G1
		t.charsets.active = 1
	case 0x0F: // SI, select G0
		t.charsets.active = 0
	default:
		// NUL, ENQ, and the rest are ignored.
	}
}

// handleEsc executes a completed ESC sequence.
func (t *Terminal) handleEsc(ev Event) {
	if len(ev.Intermediates) > 0 {
		t.handleEscIntermediate(ev)
		return
	}

	switch ev.Final {
	case '7': // DECSC
		t.saveCursor()
	case '8': // DECRC
		t.restoreCursor()
	case 'D': // IND
		t.lineFeed()
	case 'E': // NEL
		t.cursor.X = 0
		t.lineFeed()
	case 'M': // RI
		t.reverseLineFeed()
	case 'H': // HTS
		t.tabs.set(t.cursor.X)
	case 'c': // RIS
		t.reset()
	case '=': // DECKPAM
		t.modes.set(ModeAppKeypad)
	case '>': // DECKPNM
		t.modes.clear(ModeAppKeypad)
	case 'Z': // DECID
		t.replyf("\x1b[?6c")
	case '\\': // ST terminating a string sequence
	default:
		t.discarded++
	}
}

// handleEscIntermediate executes ESC sequences with intermediates:
// charset designation and the alignment test.
func (t *Terminal) handleEscIntermediate(ev Event) {
	switch ev.Intermediates[0] {
	case '(':
		t.charsets.designate(0, ev.Final)
	case ')':
		t.charsets.designate(1, ev.Final)
	case '#':
		if ev.Final == '8' { // DECALN
			t.alignmentFill()
		} else {
			t.discarded++
		}
	default:
		t.discarded++
	}
}
