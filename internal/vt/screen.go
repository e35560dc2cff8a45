package vt

// The methods in this file mutate the active screen. They are the
// primitives the dispatcher drives; all run under the terminal lock.

// writeRune places one printable rune at the cursor, honoring charset
// mapping, insert mode, wide glyphs, and autowrap. Autowrap is immediate:
// a write that fills the last column moves the cursor to the start of the
// next line, so writing exactly width printables always ends at column 0
// of the following row.
func (t *Terminal) writeRune(r rune) {
	r = t.charsets.mapRune(r)
	w := runeWidth(r)
	if w == 0 {
		t.attachCombining(r)
		return
	}

	// A wide glyph that cannot fit in the remaining columns wraps first,
	// or overwrites the last two columns when autowrap is off.
	if w == 2 && t.cursor.X+2 > t.width {
		if t.modes.Has(ModeAutoWrap) && t.width >= 2 {
			t.wrapCursor()
		} else {
			t.cursor.X = t.width - 2
			if t.cursor.X < 0 {
				t.cursor.X = 0
			}
		}
	}

	if t.modes.Has(ModeInsert) {
		t.insertCells(w)
	}

	t.clearWideAt(t.cursor.X, t.cursor.Y)
	if w == 2 {
		t.clearWideAt(t.cursor.X+1, t.cursor.Y)
	}

	g := t.grid()
	g.setCell(t.cursor.X, t.cursor.Y, t.cursor.Pen.cell(r, int8(w)))
	if w == 2 {
		g.setCell(t.cursor.X+1, t.cursor.Y, t.cursor.Pen.cell(0, 0))
	}

	t.cursor.X += w
	if t.cursor.X >= t.width {
		if t.modes.Has(ModeAutoWrap) {
			t.wrapCursor()
		} else {
			t.cursor.X = t.width - 1
		}
	}
	t.cursor.LastRune = r
}

// attachCombining appends a zero-width mark to the glyph left of the
// cursor. Marks with no base glyph on the row are dropped.
func (t *Terminal) attachCombining(r rune) {
	g := t.grid()
	x := t.cursor.X - 1
	if x < 0 {
		return
	}
	c := g.cell(x, t.cursor.Y)
	if c.Continuation() {
		x--
		if x < 0 {
			return
		}
		c = g.cell(x, t.cursor.Y)
	}
	if len(c.Combining) >= maxCombining {
		return
	}
	// Build a fresh slice so cells already handed out in snapshots never
	// observe the mutation.
	marks := make([]rune, len(c.Combining)+1)
	copy(marks, c.Combining)
	marks[len(c.Combining)] = r
	c.Combining = marks
	g.setCell(x, t.cursor.Y, c)
}

// clearWideAt blanks the partner half of any wide glyph overlapping
// (x, y), so overwrites never leave an orphaned base or continuation.
func (t *Terminal) clearWideAt(x, y int) {
	g := t.grid()
	c := g.cell(x, y)
	switch {
	case c.Width == 2:
		g.setCell(x+1, y, blankCell(c.BG))
	case c.Continuation():
		base := g.cell(x-1, y)
		g.setCell(x-1, y, blankCell(base.BG))
	}
}

// wrapCursor marks the current line wrapped and moves to the start of the
// next, scrolling at the region bottom.
func (t *Terminal) wrapCursor() {
	if l := t.grid().line(t.cursor.Y); l != nil {
		l.Wrapped = true
	}
	t.cursor.X = 0
	t.lineFeed()
}

// lineFeed moves down one row, scrolling when the cursor sits on the
// region's bottom line. Below the region it stops at the screen edge.
func (t *Terminal) lineFeed() {
	switch {
	case t.cursor.Y == t.scrollBottom:
		t.scrollUp(1)
	case t.cursor.Y < t.height-1:
		t.cursor.Y++
	}
}

// reverseLineFeed moves up one row, scrolling down at the region's top.
func (t *Terminal) reverseLineFeed() {
	switch {
	case t.cursor.Y == t.scrollTop:
		t.scrollDown(1)
	case t.cursor.Y > 0:
		t.cursor.Y--
	}
}

// fullHeightRegion reports whether the scroll region spans the screen.
func (t *Terminal) fullHeightRegion() bool {
	return t.scrollTop == 0 && t.scrollBottom == t.height-1
}

// scrollUp scrolls the region up. Lines leaving a full-height primary
// screen are retained in scrollback; the alternate screen never feeds it.
func (t *Terminal) scrollUp(n int) {
	evicted := t.grid().scrollUp(t.scrollTop, t.scrollBottom, n, t.cursor.Pen.BG)
	if t.fullHeightRegion() && !t.modes.Has(ModeAltScreen) {
		t.history.push(evicted)
	}
}

// scrollDown scrolls the region down.
func (t *Terminal) scrollDown(n int) {
	t.grid().scrollDown(t.scrollTop, t.scrollBottom, n, t.cursor.Pen.BG)
}

// insertLines blanks n rows at the cursor, pushing the rest of the region
// down. No effect outside the scroll region, and nothing enters
// scrollback.
func (t *Terminal) insertLines(n int) {
	if t.cursor.Y < t.scrollTop || t.cursor.Y > t.scrollBottom {
		return
	}
	t.grid().scrollDown(t.cursor.Y, t.scrollBottom, n, t.cursor.Pen.BG)
}

// deleteLines removes n rows at the cursor, pulling the rest of the
// region up.
func (t *Terminal) deleteLines(n int) {
	if t.cursor.Y < t.scrollTop || t.cursor.Y > t.scrollBottom {
		return
	}
	t.grid().scrollUp(t.cursor.Y, t.scrollBottom, n, t.cursor.Pen.BG)
}

// insertCells shifts the rest of the cursor's row right by n, dropping
// cells pushed past the edge.
func (t *Terminal) insertCells(n int) {
	l := t.grid().line(t.cursor.Y)
	if l == nil || n <= 0 || t.cursor.X >= t.width {
		return
	}
	if max := t.width - t.cursor.X; n > max {
		n = max
	}
	t.clearWideAt(t.cursor.X, t.cursor.Y)
	for x := t.width - 1; x >= t.cursor.X+n; x-- {
		l.Cells[x] = l.Cells[x-n]
	}
	for x := t.cursor.X; x < t.cursor.X+n; x++ {
		l.Cells[x] = blankCell(t.cursor.Pen.BG)
	}
	// A wide base shifted against the right edge loses its continuation,
	// and a continuation shifted away from its base becomes a blank.
	if last := l.Cells[t.width-1]; last.Width == 2 {
		l.Cells[t.width-1] = blankCell(last.BG)
	}
	if t.cursor.X+n < t.width {
		if first := l.Cells[t.cursor.X+n]; first.Continuation() {
			l.Cells[t.cursor.X+n] = blankCell(first.BG)
		}
	}
}

// deleteCells removes n cells at the cursor, shifting the remainder left
// and blank-filling the freed tail.
func (t *Terminal) deleteCells(n int) {
	l := t.grid().line(t.cursor.Y)
	if l == nil || n <= 0 || t.cursor.X >= t.width {
		return
	}
	if max := t.width - t.cursor.X; n > max {
		n = max
	}
	t.clearWideAt(t.cursor.X, t.cursor.Y)
	for x := t.cursor.X; x < t.width-n; x++ {
		l.Cells[x] = l.Cells[x+n]
	}
	for x := t.width - n; x < t.width; x++ {
		l.Cells[x] = blankCell(t.cursor.Pen.BG)
	}
	// The shift can pull an orphaned continuation onto the cursor.
	if c := l.Cells[t.cursor.X]; c.Continuation() {
		l.Cells[t.cursor.X] = blankCell(c.BG)
	}
}

// eraseCells blanks n cells starting at the cursor without shifting.
func (t *Terminal) eraseCells(n int) {
	if n <= 0 {
		return
	}
	t.clearCells(t.cursor.Y, t.cursor.X, t.cursor.X+n)
}

// clearCells blanks [from, to) on row y with the pen background, fixing
// wide glyphs cut at the edges.
func (t *Terminal) clearCells(y, from, to int) {
	l := t.grid().line(y)
	if l == nil {
		return
	}
	if to > t.width {
		to = t.width
	}
	if from < 0 {
		from = 0
	}
	if from >= to {
		return
	}
	t.clearWideAt(from, y)
	t.clearWideAt(to-1, y)
	l.clearRange(from, to, t.cursor.Pen.BG)
}

// eraseDisplay implements the ED variants: 0 cursor to end, 1 start to
// cursor, 2 whole screen, 3 scrollback.
func (t *Terminal) eraseDisplay(mode int) {
	g := t.grid()
	bg := t.cursor.Pen.BG
	switch mode {
	case 0:
		t.clearCells(t.cursor.Y, t.cursor.X, t.width)
		for y := t.cursor.Y + 1; y < t.height; y++ {
			g.lines[y].clear(bg)
		}
	case 1:
		for y := 0; y < t.cursor.Y; y++ {
			g.lines[y].clear(bg)
		}
		t.clearCells(t.cursor.Y, 0, t.cursor.X+1)
	case 2:
		g.clearAll(bg)
	case 3:
		t.history.clear()
	}
}

// eraseLine implements the EL variants: 0 cursor to end, 1 start to
// cursor, 2 whole line.
func (t *Terminal) eraseLine(mode int) {
	switch mode {
	case 0:
		t.clearCells(t.cursor.Y, t.cursor.X, t.width)
	case 1:
		t.clearCells(t.cursor.Y, 0, t.cursor.X+1)
	case 2:
		t.clearCells(t.cursor.Y, 0, t.width)
	}
}

// setCursorCol moves to an absolute column, row unchanged.
func (t *Terminal) setCursorCol(col int) {
	t.cursor.X = clamp(col, 0, t.width-1)
}

// setCursorRow moves to an absolute row, column unchanged. Origin mode
// offsets and confines the row to the scroll region.
func (t *Terminal) setCursorRow(row int) {
	top, bottom := 0, t.height-1
	if t.modes.Has(ModeOrigin) {
		top, bottom = t.scrollTop, t.scrollBottom
		row += top
	}
	t.cursor.Y = clamp(row, top, bottom)
}

// moveCursorAbs addresses (col, row) absolutely, origin-relative when
// origin mode is set.
func (t *Terminal) moveCursorAbs(col, row int) {
	t.setCursorCol(col)
	t.setCursorRow(row)
}

// moveCursorRel moves by a delta. Vertical movement is confined to the
// scroll region in origin mode and to the screen otherwise.
func (t *Terminal) moveCursorRel(dx, dy int) {
	top, bottom := 0, t.height-1
	if t.modes.Has(ModeOrigin) {
		top, bottom = t.scrollTop, t.scrollBottom
	}
	t.cursor.X = clamp(t.cursor.X+dx, 0, t.width-1)
	t.cursor.Y = clamp(t.cursor.Y+dy, top, bottom)
}

// setScrollRegion sets the scrolling region from 0-based inclusive bounds
// and homes the cursor. Degenerate bounds reset to the full screen.
func (t *Terminal) setScrollRegion(top, bottom int) {
	if top < 0 {
		top = 0
	}
	if bottom >= t.height {
		bottom = t.height - 1
	}
	if top >= bottom {
		top = 0
		bottom = t.height - 1
	}
	t.scrollTop = top
	t.scrollBottom = bottom
	t.moveCursorAbs(0, 0)
}

// tabForward advances n tab stops.
func (t *Terminal) tabForward(n int) {
	for i := 0; i < n; i++ {
		t.cursor.X = t.tabs.next(t.cursor.X)
	}
}

// tabBackward retreats n tab stops.
func (t *Terminal) tabBackward(n int) {
	for i := 0; i < n; i++ {
		t.cursor.X = t.tabs.prev(t.cursor.X)
	}
}

// saveCursor records position, pen, origin mode, and charsets into the
// active screen's slot.
func (t *Terminal) saveCursor() {
	*t.savedSlot() = SavedCursor{
		X:        t.cursor.X,
		Y:        t.cursor.Y,
		Pen:      t.cursor.Pen,
		Origin:   t.modes.Has(ModeOrigin),
		Charsets: t.charsets,
	}
}

// restoreCursor reinstates the saved slot, clamped to the current size.
// Without a prior save it restores the power-on state: home position,
// default pen.
func (t *Terminal) restoreCursor() {
	s := *t.savedSlot()
	t.cursor.X = clamp(s.X, 0, t.width-1)
	t.cursor.Y = clamp(s.Y, 0, t.height-1)
	t.cursor.Pen = s.Pen
	t.charsets = s.Charsets
	t.modes.put(ModeOrigin, s.Origin)
}

// enterAlt switches to the alternate screen.
func (t *Terminal) enterAlt(clear bool) {
	if t.modes.Has(ModeAltScreen) {
		return
	}
	t.modes.set(ModeAltScreen)
	if clear {
		t.alternate.clearAll(t.cursor.Pen.BG)
	}
}

// leaveAlt switches back to the primary screen, whose content is exactly
// as it was left.
func (t *Terminal) leaveAlt(clearAlt bool) {
	if !t.modes.Has(ModeAltScreen) {
		return
	}
	if clearAlt {
		t.alternate.clearAll(t.cursor.Pen.BG)
	}
	t.modes.clear(ModeAltScreen)
}

// alignmentFill covers the screen with 'E' cells and resets region and
// cursor (DECALN).
func (t *Terminal) alignmentFill() {
	t.scrollTop = 0
	t.scrollBottom = t.height - 1
	g := t.grid()
	for _, l := range g.lines {
		for x := range l.Cells {
			l.Cells[x] = Cell{Rune: 'E', Width: 1}
		}
		l.Wrapped = false
	}
	t.cursor.X = 0
	t.cursor.Y = 0
}

// reset restores the power-on state: cleared screens, default modes, pen,
// tab stops, and charsets. Scrollback, title, and working directory
// survive; an explicit ED 3 clears history.
func (t *Terminal) reset() {
	t.primary.clearAll(DefaultColor)
	t.alternate.clearAll(DefaultColor)
	t.cursor = Cursor{}
	t.saved = [2]SavedCursor{}
	t.modes = defaultModes
	t.charsets = charsetState{}
	t.tabs = newTabStops(t.width)
	t.scrollTop = 0
	t.scrollBottom = t.height - 1
	t.fgColor = Color{}
	t.bgColor = Color{}
	clear(t.palette)
}
