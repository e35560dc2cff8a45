package vt

// EventKind identifies the kind of a parsed event.
type EventKind uint8

const (
	// EventText is a decoded printable character.
	EventText EventKind = iota
	// EventControl is a C0 control byte (0x00-0x1F).
	EventControl
	// EventEsc is a completed ESC sequence (intermediates + final byte).
	EventEsc
	// EventCSI is a completed control sequence (params, intermediates, final).
	EventCSI
	// EventOSC is a completed operating system command string.
	EventOSC
	// EventDCS is a completed device control string.
	EventDCS
	// EventInvalid is a malformed sequence, consumed and reported for discard.
	EventInvalid
)

// String returns the kind name for diagnostics.
func (k EventKind) String() string {
	switch k {
	case EventText:
		return "Text"
	case EventControl:
		return "Control"
	case EventEsc:
		return "Esc"
	case EventCSI:
		return "CSI"
	case EventOSC:
		return "OSC"
	case EventDCS:
		return "DCS"
	case EventInvalid:
		return "Invalid"
	default:
		return "Unknown"
	}
}

// Event is one parsed unit of terminal input. Which fields are meaningful
// depends on Kind: Rune for Text, Byte for Control, Params/Intermediates/
// Final for CSI and DCS, Intermediates/Final for Esc, Payload for OSC and
// DCS. Slice fields alias the parser's internal buffers and are only valid
// until the next Advance call; callers that retain them must copy.
type Event struct {
	Kind          EventKind
	Rune          rune
	Byte          byte
	Params        []int
	Intermediates []byte
	Private       byte // '?', '>', '<' or '=' marker after CSI, 0 if none
	Final         byte
	Payload       []byte
}

// Param returns the parameter at index, or def when the parameter is
// absent or zero (zero means "use the default" throughout the CSI set).
func (e Event) Param(index, def int) int {
	if index < len(e.Params) && e.Params[index] > 0 {
		return e.Params[index]
	}
	return def
}

// Accumulator bounds. Input beyond these limits is dropped or truncated
// rather than rejected, keeping the parser total over arbitrary input.
const (
	maxParams     = 16
	maxParamValue = 65535
	maxIntermed   = 2
	maxStringLen  = 4096
)
