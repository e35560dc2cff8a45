package vt

// tabInterval is the default tab stop spacing.
const tabInterval = 8

// tabStops tracks the set of horizontal tab stops.
type tabStops struct {
	stops []bool
}

func newTabStops(cols int) *tabStops {
	t := &tabStops{}
	t.resize(cols)
	return t
}

// resize grows or shrinks the stop table; new columns get the default
// every-8 stops, existing custom stops are preserved.
func (t *tabStops) resize(cols int) {
	if cols < 0 {
		cols = 0
	}
	old := len(t.stops)
	if cols <= old {
		t.stops = t.stops[:cols]
		return
	}
	stops := make([]bool, cols)
	copy(stops, t.stops)
	for i := old; i < cols; i++ {
		stops[i] = i%tabInterval == 0
	}
	t.stops = stops
}

// set places a stop at the column.
func (t *tabStops) set(col int) {
	if col >= 0 && col < len(t.stops) {
		t.stops[col] = true
	}
}

// clearAt removes the stop at the column.
func (t *tabStops) clearAt(col int) {
	if col >= 0 && col < len(t.stops) {
		t.stops[col] = false
	}
}

// clearAll removes every stop.
func (t *tabStops) clearAll() {
	for i := range t.stops {
		t.stops[i] = false
	}
}

// next returns the first stop after col, or the last column when none
// remains.
func (t *tabStops) next(col int) int {
	for i := col + 1; i < len(t.stops); i++ {
		if t.stops[i] {
			return i
		}
	}
	if len(t.stops) == 0 {
		return 0
	}
	return len(t.stops) - 1
}

// prev returns the last stop before col, or column 0 when none remains.
func (t *tabStops) prev(col int) int {
	if col > len(t.stops) {
		col = len(t.stops)
	}
	for i := col - 1; i > 0; i-- {
		if t.stops[i] {
			return i
		}
	}
	return 0
}
