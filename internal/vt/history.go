package vt

// history is the bounded scrollback store. Lines evicted off the top of
// the primary screen land here; the oldest are dropped beyond the limit.
// Stored lines keep the width they had when evicted.
type history struct {
	lines []*Line
	limit int
}

func newHistory(limit int) *history {
	if limit < 0 {
		limit = 0
	}
	return &history{limit: limit}
}

// push takes ownership of evicted lines, trimming the oldest past the
// limit.
func (h *history) push(lines []*Line) {
	if h.limit == 0 || len(lines) == 0 {
		return
	}
	h.lines = append(h.lines, lines...)
	if excess := len(h.lines) - h.limit; excess > 0 {
		h.lines = append(h.lines[:0], h.lines[excess:]...)
	}
}

// len returns the number of retained lines.
func (h *history) len() int {
	return len(h.lines)
}

// line returns a copy of the retained line at index i (0 is the oldest),
// or nil when out of range.
func (h *history) line(i int) []Cell {
	if i < 0 || i >= len(h.lines) {
		return nil
	}
	cells := make([]Cell, len(h.lines[i].Cells))
	copy(cells, h.lines[i].Cells)
	return cells
}

// clear drops all retained lines.
func (h *history) clear() {
	h.lines = nil
}
