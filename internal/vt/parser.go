package vt

// Parser is the byte classifier: it consumes raw terminal output one byte
// at a time and emits parsed events. It is a character-code-driven state
// machine; sequences split across arbitrary chunk boundaries resume
// correctly because all partial-sequence state lives here.
type Parser struct {
	state parserState

	params   []int
	inter    []byte
	private  byte
	ignore   bool // sequence is malformed or over limits, emit Invalid at the final byte
	overflow bool // parameter list hit its cap, excess parameters are dropped

	str      []byte // OSC or DCS string payload
	dcsFinal byte

	// UTF-8 decoding state
	utf8Buf   [4]byte
	utf8Len   int // expected length of current sequence
	utf8Count int // bytes collected so far

	evs [2]Event
	n   int
}

type parserState int

const (
	stateGround parserState = iota
	stateEscape
	stateEscapeInter
	stateCSI
	stateCSIParam
	stateCSIInter
	stateOSC
	stateDCS
	stateDCSPassthrough
)

// NewParser creates a parser in the ground state.
func NewParser() *Parser {
	return &Parser{
		params: make([]int, 0, maxParams),
		inter:  make([]byte, 0, maxIntermed),
		str:    make([]byte, 0, 256),
	}
}

// Advance feeds one byte and returns the events it completed: usually none
// or one, two when an interrupted UTF-8 sequence degrades to a replacement
// glyph and the interrupting byte itself has an effect. The returned slice
// and any slice fields inside the events are valid until the next call.
func (p *Parser) Advance(b byte) []Event {
	p.n = 0
	p.processByte(b)
	return p.evs[:p.n]
}

func (p *Parser) emit(ev Event) {
	if p.n < len(p.evs) {
		p.evs[p.n] = ev
		p.n++
	}
}

func (p *Parser) processByte(b byte) {
	switch p.state {
	case stateGround:
		p.processGround(b)
	case stateEscape:
		p.processEscape(b)
	case stateEscapeInter:
		p.processEscapeInter(b)
	case stateCSI:
		p.processCSI(b)
	case stateCSIParam:
		p.processCSIParam(b)
	case stateCSIInter:
		p.processCSIInter(b)
	case stateOSC:
		p.processOSC(b)
	case stateDCS:
		p.processDCS(b)
	case stateDCSPassthrough:
		p.processDCSPassthrough(b)
	}
}

// startSequence resets the accumulators for a fresh escape sequence.
func (p *Parser) startSequence() {
	p.state = stateEscape
	p.params = p.params[:0]
	p.inter = p.inter[:0]
	p.private = 0
	p.ignore = false
	p.overflow = false
}

func (p *Parser) processGround(b byte) {
	// Continue a pending multi-byte UTF-8 sequence first.
	if p.utf8Len > 0 {
		p.processUTF8Continuation(b)
		return
	}

	switch {
	case b == 0x1B: // ESC
		p.startSequence()
	case b < 0x20: // C0 control
		p.emit(Event{Kind: EventControl, Byte: b})
	case b < 0x7F: // printable ASCII
		p.emit(Event{Kind: EventText, Rune: rune(b)})
	case b == 0x7F: // DEL
		// Ignore.
	case b >= 0xC0 && b < 0xE0: // 2-byte UTF-8 start
		p.utf8Buf[0] = b
		p.utf8Len = 2
		p.utf8Count = 1
	case b >= 0xE0 && b < 0xF0: // 3-byte UTF-8 start
		p.utf8Buf[0] = b
		p.utf8Len = 3
		p.utf8Count = 1
	case b >= 0xF0 && b < 0xF8: // 4-byte UTF-8 start
		p.utf8Buf[0] = b
		p.utf8Len = 4
		p.utf8Count = 1
	default:
		// Stray continuation byte or invalid lead (0x80-0xBF, 0xF8-0xFF).
		p.emit(Event{Kind: EventText, Rune: '�'})
	}
}

// processUTF8Continuation handles continuation bytes of a multi-byte UTF-8
// sequence. An invalid continuation degrades the partial sequence to a
// replacement glyph and reprocesses the byte, so controls and escapes
// arriving mid-rune still take effect.
func (p *Parser) processUTF8Continuation(b byte) {
	if b < 0x80 || b >= 0xC0 {
		p.utf8Len = 0
		p.utf8Count = 0
		p.emit(Event{Kind: EventText, Rune: '�'})
		p.processGround(b)
		return
	}

	p.utf8Buf[p.utf8Count] = b
	p.utf8Count++

	if p.utf8Count == p.utf8Len {
		r := p.decodeUTF8()
		p.utf8Len = 0
		p.utf8Count = 0
		p.emit(Event{Kind: EventText, Rune: r})
	}
}

// decodeUTF8 decodes the collected bytes, rejecting overlong encodings,
// surrogates and out-of-range values.
func (p *Parser) decodeUTF8() rune {
	switch p.utf8Len {
	case 2:
		r := rune(p.utf8Buf[0]&0x1F)<<6 |
			rune(p.utf8Buf[1]&0x3F)
		if r < 0x80 {
			return '�'
		}
		return r
	case 3:
		r := rune(p.utf8Buf[0]&0x0F)<<12 |
			rune(p.utf8Buf[1]&0x3F)<<6 |
			rune(p.utf8Buf[2]&0x3F)
		if r < 0x800 || (r >= 0xD800 && r <= 0xDFFF) {
			return '�'
		}
		return r
	case 4:
		r := rune(p.utf8Buf[0]&0x07)<<18 |
			rune(p.utf8Buf[1]&0x3F)<<12 |
			rune(p.utf8Buf[2]&0x3F)<<6 |
			rune(p.utf8Buf[3]&0x3F)
		if r < 0x10000 || r > 0x10FFFF {
			return '�'
		}
		return r
	default:
		return '�'
	}
}

// handleSequenceControl gives C0 bytes their meaning inside ESC/CSI
// accumulation: CAN and SUB abort the sequence, ESC restarts recognition,
// and remaining controls execute without disturbing the sequence.
// It reports whether the byte was consumed.
func (p *Parser) handleSequenceControl(b byte) bool {
	switch {
	case b == 0x18 || b == 0x1A: // CAN, SUB
		p.state = stateGround
		return true
	case b == 0x1B: // ESC
		p.startSequence()
		return true
	case b < 0x20:
		p.emit(Event{Kind: EventControl, Byte: b})
		return true
	}
	return false
}

func (p *Parser) processEscape(b byte) {
	if p.handleSequenceControl(b) {
		return
	}
	switch {
	case b == '[':
		p.state = stateCSI
	case b == ']':
		p.state = stateOSC
		p.str = p.str[:0]
	case b == 'P':
		p.state = stateDCS
		p.str = p.str[:0]
	case b >= 0x20 && b <= 0x2F: // intermediate
		p.inter = append(p.inter, b)
		p.state = stateEscapeInter
	case b >= 0x30 && b <= 0x7E: // final
		p.emit(Event{Kind: EventEsc, Intermediates: p.inter, Final: b})
		p.state = stateGround
	default:
		// DEL or a byte outside the escape grammar.
		p.emit(Event{Kind: EventInvalid})
		p.state = stateGround
	}
}

func (p *Parser) processEscapeInter(b byte) {
	if p.handleSequenceControl(b) {
		return
	}
	switch {
	case b >= 0x20 && b <= 0x2F:
		if len(p.inter) < maxIntermed {
			p.inter = append(p.inter, b)
		} else {
			p.ignore = true
		}
	case b >= 0x30 && b <= 0x7E:
		if p.ignore {
			p.emit(Event{Kind: EventInvalid})
		} else {
			p.emit(Event{Kind: EventEsc, Intermediates: p.inter, Final: b})
		}
		p.state = stateGround
	default:
		p.emit(Event{Kind: EventInvalid})
		p.state = stateGround
	}
}

func (p *Parser) processCSI(b byte) {
	if p.handleSequenceControl(b) {
		return
	}
	switch {
	case b >= '0' && b <= '9':
		p.params = append(p.params, int(b-'0'))
		p.state = stateCSIParam
	case b == ';' || b == ':':
		// Leading separator: an empty first parameter, then the slot the
		// next digits accumulate into.
		p.params = append(p.params, 0, 0)
		p.state = stateCSIParam
	case b >= 0x3C && b <= 0x3F: // private marker
		if p.private != 0 {
			p.ignore = true
		}
		p.private = b
	case b >= 0x20 && b <= 0x2F: // intermediate
		p.inter = append(p.inter, b)
		p.state = stateCSIInter
	case b >= 0x40 && b <= 0x7E: // final
		p.emitCSI(b)
	case b == 0x7F:
		// Ignore.
	default:
		// High byte inside a control sequence: drop the sequence and
		// reprocess so following text is not swallowed.
		p.emit(Event{Kind: EventInvalid})
		p.state = stateGround
		p.processGround(b)
	}
}

func (p *Parser) processCSIParam(b byte) {
	if p.handleSequenceControl(b) {
		return
	}
	switch {
	case b >= '0' && b <= '9':
		if p.overflow {
			return
		}
		if len(p.params) == 0 {
			p.params = append(p.params, 0)
		}
		i := len(p.params) - 1
		v := p.params[i]*10 + int(b-'0')
		if v > maxParamValue {
			v = maxParamValue
		}
		p.params[i] = v
	case b == ';' || b == ':':
		if len(p.params) < maxParams {
			p.params = append(p.params, 0)
		} else {
			p.overflow = true
		}
	case b >= 0x3C && b <= 0x3F:
		// Private marker after parameters is malformed.
		p.ignore = true
	case b >= 0x20 && b <= 0x2F:
		p.inter = append(p.inter, b)
		p.state = stateCSIInter
	case b >= 0x40 && b <= 0x7E:
		p.emitCSI(b)
	case b == 0x7F:
		// Ignore.
	default:
		p.emit(Event{Kind: EventInvalid})
		p.state = stateGround
		p.processGround(b)
	}
}

func (p *Parser) processCSIInter(b byte) {
	if p.handleSequenceControl(b) {
		return
	}
	switch {
	case b >= 0x20 && b <= 0x2F:
		if len(p.inter) < maxIntermed {
			p.inter = append(p.inter, b)
		} else {
			p.ignore = true
		}
	case b >= 0x30 && b <= 0x3F:
		// Parameter byte after an intermediate is malformed.
		p.ignore = true
	case b >= 0x40 && b <= 0x7E:
		p.emitCSI(b)
	case b == 0x7F:
		// Ignore.
	default:
		p.emit(Event{Kind: EventInvalid})
		p.state = stateGround
		p.processGround(b)
	}
}

func (p *Parser) emitCSI(final byte) {
	if p.ignore {
		p.emit(Event{Kind: EventInvalid})
	} else {
		p.emit(Event{
			Kind:          EventCSI,
			Params:        p.params,
			Intermediates: p.inter,
			Private:       p.private,
			Final:         final,
		})
	}
	p.state = stateGround
}

func (p *Parser) processOSC(b byte) {
	switch {
	case b == 0x07: // BEL terminates
		p.emit(Event{Kind: EventOSC, Payload: p.str})
		p.state = stateGround
	case b == 0x18 || b == 0x1A: // CAN, SUB abort
		p.state = stateGround
	case b == 0x1B:
		// ESC commits the string; a following '\' (the ST terminator) is
		// absorbed by the escape state, anything else starts a sequence.
		p.emit(Event{Kind: EventOSC, Payload: p.str})
		p.startSequence()
	case b < 0x20:
		// Other controls inside a string are dropped.
	default:
		if len(p.str) < maxStringLen {
			p.str = append(p.str, b)
		}
	}
}

func (p *Parser) processDCS(b byte) {
	if p.handleSequenceControl(b) {
		return
	}
	switch {
	case b >= '0' && b <= '9':
		if p.overflow {
			return
		}
		if len(p.params) == 0 {
			p.params = append(p.params, 0)
		}
		i := len(p.params) - 1
		v := p.params[i]*10 + int(b-'0')
		if v > maxParamValue {
			v = maxParamValue
		}
		p.params[i] = v
	case b == ';' || b == ':':
		if len(p.params) == 0 {
			p.params = append(p.params, 0)
		}
		if len(p.params) < maxParams {
			p.params = append(p.params, 0)
		} else {
			p.overflow = true
		}
	case b >= 0x3C && b <= 0x3F:
		p.private = b
	case b >= 0x20 && b <= 0x2F:
		p.inter = append(p.inter, b)
	case b >= 0x40 && b <= 0x7E:
		p.dcsFinal = b
		p.state = stateDCSPassthrough
	default:
		p.emit(Event{Kind: EventInvalid})
		p.state = stateGround
	}
}

func (p *Parser) processDCSPassthrough(b byte) {
	switch {
	case b == 0x18 || b == 0x1A:
		p.state = stateGround
	case b == 0x1B:
		p.emit(Event{
			Kind:          EventDCS,
			Params:        p.params,
			Intermediates: p.inter,
			Private:       p.private,
			Final:         p.dcsFinal,
			Payload:       p.str,
		})
		p.startSequence()
	default:
		if len(p.str) < maxStringLen {
			p.str = append(p.str, b)
		}
	}
}
