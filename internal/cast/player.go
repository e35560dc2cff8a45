package cast

import (
	"bufio"
	"fmt"
	"io"
	"time"

	"github.com/tidwall/gjson"
)

// Event is one timed entry from a recording.
type Event struct {
	// Time is the event's absolute offset in the recording.
	Time time.Duration

	// Delay is how long to wait before applying this event, with the
	// player's speed factor and idle clamp already applied.
	Delay time.Duration

	// Kind is the event type: 'o' for output, 'r' for resize. Other
	// kinds from the format (input, markers) are passed through for the
	// caller to skip.
	Kind byte

	// Data is the payload: raw output bytes for 'o', "COLSxROWS" for 'r'.
	Data string
}

// Player reads an asciicast v2 stream event by event.
type Player struct {
	scanner *bufio.Scanner
	header  Header

	// Speed divides delays between events. Values <= 0 mean 1.
	Speed float64

	// MaxIdle caps the recorded delay between events before the speed
	// factor applies. Zero means no cap.
	MaxIdle time.Duration

	prev time.Duration
}

// NewPlayer reads and validates the header line.
func NewPlayer(r io.Reader) (*Player, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)

	if !scanner.Scan() {
		return nil, fmt.Errorf("%w: empty stream", ErrBadHeader)
	}
	line := scanner.Text()
	if !gjson.Valid(line) {
		return nil, fmt.Errorf("%w: not JSON", ErrBadHeader)
	}
	doc := gjson.Parse(line)
	if doc.Get("version").Int() != 2 {
		return nil, fmt.Errorf("%w: version %s", ErrBadHeader, doc.Get("version").Raw)
	}

	return &Player{
		scanner: scanner,
		header: Header{
			Width:  int(doc.Get("width").Int()),
			Height: int(doc.Get("height").Int()),
			Term:   doc.Get("env.TERM").String(),
		},
	}, nil
}

// Header returns the recording's header.
func (p *Player) Header() Header {
	return p.header
}

// Next returns the next event, or io.EOF at the end of the stream.
func (p *Player) Next() (Event, error) {
	for {
		if !p.scanner.Scan() {
			if err := p.scanner.Err(); err != nil {
				return Event{}, fmt.Errorf("reading cast: %w", err)
			}
			return Event{}, io.EOF
		}
		line := p.scanner.Text()
		if line == "" {
			continue
		}
		return p.parseEvent(line)
	}
}

func (p *Player) parseEvent(line string) (Event, error) {
	if !gjson.Valid(line) {
		return Event{}, fmt.Errorf("%w: not JSON: %.40q", ErrBadEvent, line)
	}
	doc := gjson.Parse(line)
	if !doc.IsArray() {
		return Event{}, fmt.Errorf("%w: not an array: %.40q", ErrBadEvent, line)
	}
	parts := doc.Array()
	if len(parts) < 3 || parts[0].Type != gjson.Number ||
		parts[1].Type != gjson.String || parts[2].Type != gjson.String {
		return Event{}, fmt.Errorf("%w: %.40q", ErrBadEvent, line)
	}
	kind := parts[1].String()
	if len(kind) != 1 {
		return Event{}, fmt.Errorf("%w: event type %q", ErrBadEvent, kind)
	}

	at := time.Duration(parts[0].Float() * float64(time.Second))
	delay := at - p.prev
	if delay < 0 {
		delay = 0
	}
	p.prev = at

	if p.MaxIdle > 0 && delay > p.MaxIdle {
		delay = p.MaxIdle
	}
	if p.Speed > 0 {
		delay = time.Duration(float64(delay) / p.Speed)
	}

	return Event{
		Time:  at,
		Delay: delay,
		Kind:  kind[0],
		Data:  parts[2].String(),
	}, nil
}

// ParseSize splits a resize event payload into its dimensions.
func ParseSize(data string) (cols, rows int, err error) {
	if _, err := fmt.Sscanf(data, "%dx%d", &cols, &rows); err != nil {
		return 0, 0, fmt.Errorf("%w: size %q", ErrBadEvent, data)
	}
	return cols, rows, nil
}
