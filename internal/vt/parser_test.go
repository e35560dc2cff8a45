package vt

import (
	"strings"
	"testing"
)

// collect feeds input byte by byte and returns copies of every event, since
// the slices inside an Event are only valid until the next Advance.
func collect(p *Parser, input string) []Event {
	var out []Event
	for i := 0; i < len(input); i++ {
		for _, ev := range p.Advance(input[i]) {
			c := ev
			c.Params = append([]int(nil), ev.Params...)
			c.Intermediates = append([]byte(nil), ev.Intermediates...)
			c.Payload = append([]byte(nil), ev.Payload...)
			out = append(out, c)
		}
	}
	return out
}

func TestParserPlainText(t *testing.T) {
	p := NewParser()

	evs := collect(p, "Hi")

	if len(evs) != 2 {
		t.Fatalf("expected 2 events, got %d", len(evs))
	}
	if evs[0].Kind != EventText || evs[0].Rune != 'H' {
		t.Errorf("expected text 'H', got %v %q", evs[0].Kind, evs[0].Rune)
	}
	if evs[1].Kind != EventText || evs[1].Rune != 'i' {
		t.Errorf("expected text 'i', got %v %q", evs[1].Kind, evs[1].Rune)
	}
}

func TestParserControlBytes(t *testing.T) {
	p := NewParser()

	evs := collect(p, "\r\n\x07")

	if len(evs) != 3 {
		t.Fatalf("expected 3 events, got %d", len(evs))
	}
	for i, want := range []byte{0x0D, 0x0A, 0x07} {
		if evs[i].Kind != EventControl || evs[i].Byte != want {
			t.Errorf("event %d: expected control 0x%02X, got %v 0x%02X", i, want, evs[i].Kind, evs[i].Byte)
		}
	}
}

func TestParserDELIgnored(t *testing.T) {
	p := NewParser()

	evs := collect(p, "A\x7fB")

	if len(evs) != 2 {
		t.Fatalf("expected DEL to produce no event, got %d events", len(evs))
	}
}

func TestParserCSIBasic(t *testing.T) {
	p := NewParser()

	evs := collect(p, "\x1b[2;3H")

	if len(evs) != 1 {
		t.Fatalf("expected 1 event, got %d", len(evs))
	}
	ev := evs[0]
	if ev.Kind != EventCSI || ev.Final != 'H' {
		t.Fatalf("expected CSI 'H', got %v %q", ev.Kind, ev.Final)
	}
	if len(ev.Params) != 2 || ev.Params[0] != 2 || ev.Params[1] != 3 {
		t.Errorf("expected params [2 3], got %v", ev.Params)
	}
}

func TestParserCSINoParams(t *testing.T) {
	p := NewParser()

	evs := collect(p, "\x1b[H")

	if len(evs) != 1 || evs[0].Kind != EventCSI {
		t.Fatalf("expected 1 CSI event, got %v", evs)
	}
	if len(evs[0].Params) != 0 {
		t.Errorf("expected no params, got %v", evs[0].Params)
	}
	if evs[0].Param(0, 1) != 1 || evs[0].Param(1, 1) != 1 {
		t.Error("expected missing params to read as their defaults")
	}
}

func TestParserCSIEmptyFirstParam(t *testing.T) {
	p := NewParser()

	// Leading separator: the first parameter is empty, not absorbed into
	// the second.
	evs := collect(p, "\x1b[;5H")

	if len(evs) != 1 {
		t.Fatalf("expected 1 event, got %d", len(evs))
	}
	ev := evs[0]
	if len(ev.Params) != 2 || ev.Params[0] != 0 || ev.Params[1] != 5 {
		t.Errorf("expected params [0 5], got %v", ev.Params)
	}
}

func TestParserCSIEmptyMiddleParam(t *testing.T) {
	p := NewParser()

	evs := collect(p, "\x1b[1;;3m")

	if len(evs) != 1 {
		t.Fatalf("expected 1 event, got %d", len(evs))
	}
	ev := evs[0]
	if len(ev.Params) != 3 || ev.Params[0] != 1 || ev.Params[1] != 0 || ev.Params[2] != 3 {
		t.Errorf("expected params [1 0 3], got %v", ev.Params)
	}
}

func TestParserCSIColonSeparator(t *testing.T) {
	p := NewParser()

	// Colon sub-parameters are treated like semicolons so colon-form SGR
	// colors still parse.
	evs := collect(p, "\x1b[38:5:196m")

	if len(evs) != 1 {
		t.Fatalf("expected 1 event, got %d", len(evs))
	}
	ev := evs[0]
	if len(ev.Params) != 3 || ev.Params[0] != 38 || ev.Params[1] != 5 || ev.Params[2] != 196 {
		t.Errorf("expected params [38 5 196], got %v", ev.Params)
	}
}

func TestParserCSIPrivateMarker(t *testing.T) {
	p := NewParser()

	evs := collect(p, "\x1b[?25h")

	if len(evs) != 1 {
		t.Fatalf("expected 1 event, got %d", len(evs))
	}
	ev := evs[0]
	if ev.Private != '?' || ev.Final != 'h' {
		t.Errorf("expected private '?' final 'h', got %q %q", ev.Private, ev.Final)
	}
	if len(ev.Params) != 1 || ev.Params[0] != 25 {
		t.Errorf("expected params [25], got %v", ev.Params)
	}
}

func TestParserCSIIntermediate(t *testing.T) {
	p := NewParser()

	evs := collect(p, "\x1b[2 q")

	if len(evs) != 1 {
		t.Fatalf("expected 1 event, got %d", len(evs))
	}
	ev := evs[0]
	if len(ev.Intermediates) != 1 || ev.Intermediates[0] != ' ' {
		t.Errorf("expected intermediate ' ', got %v", ev.Intermediates)
	}
	if ev.Final != 'q' || ev.Param(0, 0) != 2 {
		t.Errorf("expected final 'q' param 2, got %q %v", ev.Final, ev.Params)
	}
}

func TestParserCSIParamAfterIntermediate(t *testing.T) {
	p := NewParser()

	// A digit after an intermediate byte is malformed; the sequence is
	// consumed and reported invalid.
	evs := collect(p, "\x1b[1 2q")

	if len(evs) != 1 || evs[0].Kind != EventInvalid {
		t.Fatalf("expected 1 invalid event, got %v", evs)
	}
}

func TestParserParamSaturation(t *testing.T) {
	p := NewParser()

	evs := collect(p, "\x1b[99999999999A")

	if len(evs) != 1 {
		t.Fatalf("expected 1 event, got %d", len(evs))
	}
	if evs[0].Params[0] != 65535 {
		t.Errorf("expected param to saturate at 65535, got %d", evs[0].Params[0])
	}
}

func TestParserParamOverflow(t *testing.T) {
	p := NewParser()

	// 20 parameters: the 17th and beyond are dropped, the sequence still
	// dispatches.
	var b strings.Builder
	b.WriteString("\x1b[")
	for i := 1; i <= 20; i++ {
		if i > 1 {
			b.WriteByte(';')
		}
		b.WriteString("7")
	}
	b.WriteByte('m')

	evs := collect(p, b.String())

	if len(evs) != 1 || evs[0].Kind != EventCSI {
		t.Fatalf("expected 1 CSI event, got %v", evs)
	}
	if len(evs[0].Params) != 16 {
		t.Errorf("expected 16 params, got %d", len(evs[0].Params))
	}
	for i, v := range evs[0].Params {
		if v != 7 {
			t.Errorf("param %d: expected 7, got %d", i, v)
		}
	}
}

func TestParserCancelAborts(t *testing.T) {
	p := NewParser()

	evs := collect(p, "\x1b[31\x18A")

	// CAN silently drops the sequence; the 'A' prints.
	if len(evs) != 1 || evs[0].Kind != EventText || evs[0].Rune != 'A' {
		t.Fatalf("expected only text 'A', got %v", evs)
	}
}

func TestParserSubAborts(t *testing.T) {
	p := NewParser()

	evs := collect(p, "\x1b]0;title\x1aB")

	if len(evs) != 1 || evs[0].Kind != EventText || evs[0].Rune != 'B' {
		t.Fatalf("expected only text 'B', got %v", evs)
	}
}

func TestParserEscRestarts(t *testing.T) {
	p := NewParser()

	// ESC mid-sequence abandons it and starts over.
	evs := collect(p, "\x1b[12\x1b[3mX")

	if len(evs) != 2 {
		t.Fatalf("expected 2 events, got %d", len(evs))
	}
	if evs[0].Kind != EventCSI || evs[0].Final != 'm' || evs[0].Params[0] != 3 {
		t.Errorf("expected CSI 'm' [3], got %v %q %v", evs[0].Kind, evs[0].Final, evs[0].Params)
	}
	if evs[1].Kind != EventText || evs[1].Rune != 'X' {
		t.Errorf("expected text 'X', got %v", evs[1])
	}
}

func TestParserControlInsideCSI(t *testing.T) {
	p := NewParser()

	// C0 controls execute mid-sequence without disturbing it.
	evs := collect(p, "\x1b[1\n;2H")

	if len(evs) != 2 {
		t.Fatalf("expected 2 events, got %d", len(evs))
	}
	if evs[0].Kind != EventControl || evs[0].Byte != 0x0A {
		t.Errorf("expected LF control first, got %v", evs[0])
	}
	ev := evs[1]
	if ev.Kind != EventCSI || len(ev.Params) != 2 || ev.Params[0] != 1 || ev.Params[1] != 2 {
		t.Errorf("expected CSI [1 2], got %v %v", ev.Kind, ev.Params)
	}
}

func TestParserEscSequence(t *testing.T) {
	p := NewParser()

	evs := collect(p, "\x1bM")

	if len(evs) != 1 || evs[0].Kind != EventEsc || evs[0].Final != 'M' {
		t.Fatalf("expected ESC 'M', got %v", evs)
	}
}

func TestParserEscIntermediate(t *testing.T) {
	p := NewParser()

	evs := collect(p, "\x1b(0")

	if len(evs) != 1 {
		t.Fatalf("expected 1 event, got %d", len(evs))
	}
	ev := evs[0]
	if ev.Kind != EventEsc || ev.Final != '0' {
		t.Errorf("expected ESC final '0', got %v %q", ev.Kind, ev.Final)
	}
	if len(ev.Intermediates) != 1 || ev.Intermediates[0] != '(' {
		t.Errorf("expected intermediate '(', got %v", ev.Intermediates)
	}
}

func TestParserOSCBel(t *testing.T) {
	p := NewParser()

	evs := collect(p, "\x1b]0;hello\x07")

	if len(evs) != 1 || evs[0].Kind != EventOSC {
		t.Fatalf("expected 1 OSC event, got %v", evs)
	}
	if string(evs[0].Payload) != "0;hello" {
		t.Errorf("expected payload '0;hello', got %q", evs[0].Payload)
	}
}

func TestParserOSCStringTerminator(t *testing.T) {
	p := NewParser()

	evs := collect(p, "\x1b]2;title\x1b\\X")

	if len(evs) != 3 {
		t.Fatalf("expected 3 events, got %d", len(evs))
	}
	if evs[0].Kind != EventOSC || string(evs[0].Payload) != "2;title" {
		t.Errorf("expected OSC '2;title', got %v %q", evs[0].Kind, evs[0].Payload)
	}
	// The string commits at the ESC; the backslash arrives as its own
	// (no-effect) escape sequence and the X prints.
	if evs[1].Kind != EventEsc || evs[1].Final != '\\' {
		t.Errorf("expected ESC backslash, got %v", evs[1])
	}
	if evs[2].Kind != EventText || evs[2].Rune != 'X' {
		t.Errorf("expected text 'X' after terminator, got %v", evs[2])
	}
}

func TestParserOSCDropsEmbeddedControls(t *testing.T) {
	p := NewParser()

	evs := collect(p, "\x1b]0;a\tb\x07")

	if len(evs) != 1 || string(evs[0].Payload) != "0;ab" {
		t.Fatalf("expected controls dropped from payload, got %v", evs)
	}
}

func TestParserOSCPayloadCapped(t *testing.T) {
	p := NewParser()

	evs := collect(p, "\x1b]0;"+strings.Repeat("x", maxStringLen+100)+"\x07")

	if len(evs) != 1 {
		t.Fatalf("expected 1 event, got %d", len(evs))
	}
	if len(evs[0].Payload) != maxStringLen {
		t.Errorf("expected payload capped at %d bytes, got %d", maxStringLen, len(evs[0].Payload))
	}
}

func TestParserDCS(t *testing.T) {
	p := NewParser()

	evs := collect(p, "\x1bP1;2qpayload\x1b\\")

	if len(evs) != 2 {
		t.Fatalf("expected 2 events, got %d", len(evs))
	}
	if evs[1].Kind != EventEsc || evs[1].Final != '\\' {
		t.Errorf("expected trailing ESC backslash, got %v", evs[1])
	}
	ev := evs[0]
	if ev.Kind != EventDCS || ev.Final != 'q' {
		t.Errorf("expected DCS final 'q', got %v %q", ev.Kind, ev.Final)
	}
	if len(ev.Params) != 2 || ev.Params[0] != 1 || ev.Params[1] != 2 {
		t.Errorf("expected params [1 2], got %v", ev.Params)
	}
	if string(ev.Payload) != "payload" {
		t.Errorf("expected payload 'payload', got %q", ev.Payload)
	}
}

func TestParserDCSCancelled(t *testing.T) {
	p := NewParser()

	evs := collect(p, "\x1bPqdata\x18Z")

	if len(evs) != 1 || evs[0].Kind != EventText || evs[0].Rune != 'Z' {
		t.Fatalf("expected cancelled DCS to vanish, got %v", evs)
	}
}

func TestParserUTF8TwoByte(t *testing.T) {
	p := NewParser()

	evs := collect(p, "é")

	if len(evs) != 1 || evs[0].Rune != 'é' {
		t.Fatalf("expected 'é', got %v", evs)
	}
}

func TestParserUTF8ThreeByte(t *testing.T) {
	p := NewParser()

	evs := collect(p, "€")

	if len(evs) != 1 || evs[0].Rune != '€' {
		t.Fatalf("expected '€', got %v", evs)
	}
}

func TestParserUTF8FourByte(t *testing.T) {
	p := NewParser()

	evs := collect(p, "😀")

	if len(evs) != 1 || evs[0].Rune != '😀' {
		t.Fatalf("expected emoji, got %v", evs)
	}
}

func TestParserUTF8Overlong(t *testing.T) {
	p := NewParser()

	// 0xC0 0x80 is an overlong encoding of NUL.
	evs := collect(p, "\xc0\x80")

	if len(evs) != 1 || evs[0].Rune != '�' {
		t.Fatalf("expected replacement rune, got %v", evs)
	}
}

func TestParserUTF8Surrogate(t *testing.T) {
	p := NewParser()

	// 0xED 0xA0 0x80 encodes the surrogate U+D800.
	evs := collect(p, "\xed\xa0\x80")

	if len(evs) != 1 || evs[0].Rune != '�' {
		t.Fatalf("expected replacement rune, got %v", evs)
	}
}

func TestParserUTF8StrayContinuation(t *testing.T) {
	p := NewParser()

	evs := collect(p, "\x80A")

	if len(evs) != 2 {
		t.Fatalf("expected 2 events, got %d", len(evs))
	}
	if evs[0].Rune != '�' {
		t.Errorf("expected replacement rune, got %q", evs[0].Rune)
	}
	if evs[1].Rune != 'A' {
		t.Errorf("expected 'A', got %q", evs[1].Rune)
	}
}

func TestParserUTF8InterruptedByASCII(t *testing.T) {
	p := NewParser()

	// A lead byte followed by ASCII: the partial rune degrades to a
	// replacement and the ASCII character still prints.
	evs := collect(p, "\xc3A")

	if len(evs) != 2 {
		t.Fatalf("expected 2 events, got %d", len(evs))
	}
	if evs[0].Rune != '�' || evs[1].Rune != 'A' {
		t.Errorf("expected replacement then 'A', got %q %q", evs[0].Rune, evs[1].Rune)
	}
}

func TestParserUTF8InterruptedByEscape(t *testing.T) {
	p := NewParser()

	evs := collect(p, "\xe2\x82\x1bM")

	if len(evs) != 2 {
		t.Fatalf("expected 2 events, got %d", len(evs))
	}
	if evs[0].Kind != EventText || evs[0].Rune != '�' {
		t.Errorf("expected replacement rune, got %v", evs[0])
	}
	if evs[1].Kind != EventEsc || evs[1].Final != 'M' {
		t.Errorf("expected ESC 'M' to still execute, got %v", evs[1])
	}
}

func TestParserHighByteInsideCSI(t *testing.T) {
	p := NewParser()

	// A high byte cannot appear inside a control sequence; the sequence is
	// dropped and the byte reinterpreted, so following text survives.
	evs := collect(p, "\x1b[3\xc3\xa9X")

	if len(evs) != 3 {
		t.Fatalf("expected 3 events, got %d", len(evs))
	}
	if evs[0].Kind != EventInvalid {
		t.Errorf("expected invalid event first, got %v", evs[0])
	}
	if evs[1].Kind != EventText || evs[1].Rune != 'é' {
		t.Errorf("expected 'é', got %v", evs[1])
	}
	if evs[2].Kind != EventText || evs[2].Rune != 'X' {
		t.Errorf("expected 'X', got %v", evs[2])
	}
}

func TestParserSplitAcrossCalls(t *testing.T) {
	whole := NewParser()
	want := collect(whole, "\x1b[38;2;10;20;30m")

	// The same sequence in two fragments must produce the same events.
	split := NewParser()
	var got []Event
	got = append(got, collect(split, "\x1b[38;2;1")...)
	got = append(got, collect(split, "0;20;30m")...)

	if len(got) != len(want) {
		t.Fatalf("expected %d events, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i].Kind != want[i].Kind || got[i].Final != want[i].Final {
			t.Errorf("event %d differs: %v vs %v", i, got[i], want[i])
		}
		if len(got[i].Params) != len(want[i].Params) {
			t.Fatalf("event %d: param count %d vs %d", i, len(got[i].Params), len(want[i].Params))
		}
		for j := range want[i].Params {
			if got[i].Params[j] != want[i].Params[j] {
				t.Errorf("event %d param %d: %d vs %d", i, j, got[i].Params[j], want[i].Params[j])
			}
		}
	}
}

func TestParserTruncatedCSIThenText(t *testing.T) {
	p := NewParser()

	// "h" terminates the dangling sequence (it is a valid final byte);
	// everything after it prints normally.
	evs := collect(p, "\x1b[38;hello")

	if len(evs) != 5 {
		t.Fatalf("expected 5 events, got %d", len(evs))
	}
	if evs[0].Kind != EventCSI || evs[0].Final != 'h' {
		t.Errorf("expected CSI terminated by 'h', got %v", evs[0])
	}
	for i, r := range "ello" {
		ev := evs[i+1]
		if ev.Kind != EventText || ev.Rune != r {
			t.Errorf("expected text %q, got %v", r, ev)
		}
	}
}

func TestParserEventKindString(t *testing.T) {
	tests := []struct {
		kind     EventKind
		expected string
	}{
		{EventText, "Text"},
		{EventControl, "Control"},
		{EventEsc, "Esc"},
		{EventCSI, "CSI"},
		{EventOSC, "OSC"},
		{EventDCS, "DCS"},
		{EventInvalid, "Invalid"},
		{EventKind(99), "Unknown"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.expected {
			t.Errorf("EventKind(%d).String() = %q, expected %q", tt.kind, got, tt.expected)
		}
	}
}
