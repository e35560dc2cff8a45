package cast

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/tidwall/sjson"
)

// Header describes the recorded terminal.
type Header struct {
	// Width and Height are the terminal dimensions in cells.
	Width  int
	Height int

	// Term is recorded in the header's env block.
	Term string
}

// Recorder writes an asciicast v2 stream: a JSON header line followed by
// one JSON array per event. It is safe for concurrent use; the session
// read loop and the UI thread both write to it.
type Recorder struct {
	mu    sync.Mutex
	w     io.Writer
	start time.Time
	now   func() time.Time
}

// NewRecorder writes the header and returns a recorder whose event clock
// starts now.
func NewRecorder(w io.Writer, h Header) (*Recorder, error) {
	r := &Recorder{
		w:   w,
		now: time.Now,
	}
	r.start = r.now()
	if err := r.writeHeader(h); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Recorder) writeHeader(h Header) error {
	line, _ := sjson.Set("", "version", 2)
	line, _ = sjson.Set(line, "width", h.Width)
	line, _ = sjson.Set(line, "height", h.Height)
	line, _ = sjson.Set(line, "timestamp", r.start.Unix())
	if h.Term != "" {
		line, _ = sjson.Set(line, "env.TERM", h.Term)
	}
	return r.writeLine(line)
}

// Output records bytes the child wrote. Invalid UTF-8 is replaced so the
// line stays valid JSON.
func (r *Recorder) Output(data []byte) error {
	return r.event("o", strings.ToValidUTF8(string(data), "�"))
}

// Resize records a terminal size change.
func (r *Recorder) Resize(cols, rows int) error {
	return r.event("r", fmt.Sprintf("%dx%d", cols, rows))
}

func (r *Recorder) event(kind, data string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	elapsed := r.now().Sub(r.start).Seconds()
	line, _ := sjson.Set("[]", "-1", elapsed)
	line, _ = sjson.Set(line, "-1", kind)
	line, _ = sjson.Set(line, "-1", data)
	return r.writeLine(line)
}

func (r *Recorder) writeLine(line string) error {
	if _, err := io.WriteString(r.w, line+"\n"); err != nil {
		return fmt.Errorf("writing cast: %w", err)
	}
	return nil
}
