package vt

// Line is a single row of cells. Wrapped marks lines continued onto the
// next row by autowrap, so consumers can reassemble logical lines.
type Line struct {
	Cells   []Cell
	Wrapped bool
}

func newLine(width int, bg Color) *Line {
	cells := make([]Cell, width)
	for i := range cells {
		cells[i] = blankCell(bg)
	}
	return &Line{Cells: cells}
}

func (l *Line) clear(bg Color) {
	for i := range l.Cells {
		l.Cells[i] = blankCell(bg)
	}
	l.Wrapped = false
}

// clearRange blanks cells in [from, to).
func (l *Line) clearRange(from, to int, bg Color) {
	if from < 0 {
		from = 0
	}
	if to > len(l.Cells) {
		to = len(l.Cells)
	}
	for i := from; i < to; i++ {
		l.Cells[i] = blankCell(bg)
	}
}

// copyLine returns a deep copy.
func (l *Line) copyLine() *Line {
	cells := make([]Cell, len(l.Cells))
	copy(cells, l.Cells)
	return &Line{Cells: cells, Wrapped: l.Wrapped}
}

// grid is the cell storage for one screen: a fixed-size matrix with line
// operations. It holds no cursor, mode, or style state; callers pass the
// erasing background explicitly.
type grid struct {
	width  int
	height int
	lines  []*Line
}

func newGrid(width, height int) *grid {
	g := &grid{width: width, height: height, lines: make([]*Line, height)}
	for i := range g.lines {
		g.lines[i] = newLine(width, DefaultColor)
	}
	return g
}

// cell returns the cell at (x, y), or a blank cell when out of bounds.
func (g *grid) cell(x, y int) Cell {
	if x < 0 || x >= g.width || y < 0 || y >= g.height {
		return blankCell(DefaultColor)
	}
	return g.lines[y].Cells[x]
}

// setCell stores a cell at (x, y); out-of-bounds writes are dropped.
func (g *grid) setCell(x, y int, c Cell) {
	if x < 0 || x >= g.width || y < 0 || y >= g.height {
		return
	}
	g.lines[y].Cells[x] = c
}

// line returns the row at y, or nil when out of bounds.
func (g *grid) line(y int) *Line {
	if y < 0 || y >= g.height {
		return nil
	}
	return g.lines[y]
}

// scrollUp shifts lines up by n inside the inclusive region [top, bottom],
// filling vacated rows at the bottom with blanks. It returns the lines
// shifted out of the region so the caller can retain them.
func (g *grid) scrollUp(top, bottom, n int, bg Color) []*Line {
	top, bottom, n = g.clampRegion(top, bottom, n)
	if n == 0 {
		return nil
	}

	evicted := make([]*Line, n)
	copy(evicted, g.lines[top:top+n])

	for y := top; y <= bottom-n; y++ {
		g.lines[y] = g.lines[y+n]
	}
	for y := bottom - n + 1; y <= bottom; y++ {
		g.lines[y] = newLine(g.width, bg)
	}
	return evicted
}

// scrollDown shifts lines down by n inside [top, bottom], filling vacated
// rows at the top with blanks.
func (g *grid) scrollDown(top, bottom, n int, bg Color) {
	top, bottom, n = g.clampRegion(top, bottom, n)
	if n == 0 {
		return
	}

	for y := bottom; y >= top+n; y-- {
		g.lines[y] = g.lines[y-n]
	}
	for y := top; y < top+n; y++ {
		g.lines[y] = newLine(g.width, bg)
	}
}

func (g *grid) clampRegion(top, bottom, n int) (int, int, int) {
	if top < 0 {
		top = 0
	}
	if bottom >= g.height {
		bottom = g.height - 1
	}
	if n <= 0 || top > bottom {
		return top, bottom, 0
	}
	if size := bottom - top + 1; n > size {
		n = size
	}
	return top, bottom, n
}

// clearAll blanks the whole grid.
func (g *grid) clearAll(bg Color) {
	for _, l := range g.lines {
		l.clear(bg)
	}
}

// resize truncates or pads to the new dimensions. Upper-left content is
// preserved; rows and columns beyond the new bounds are dropped.
func (g *grid) resize(width, height int) {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	if width == g.width && height == g.height {
		return
	}

	lines := make([]*Line, height)
	for y := 0; y < height; y++ {
		lines[y] = newLine(width, DefaultColor)
		if y >= len(g.lines) {
			continue
		}
		old := g.lines[y]
		n := copy(lines[y].Cells, old.Cells)
		lines[y].Wrapped = old.Wrapped && n == len(old.Cells)
		// A wide glyph cut in half by the new width loses its base.
		if n > 0 && lines[y].Cells[n-1].Width == 2 {
			lines[y].Cells[n-1] = blankCell(lines[y].Cells[n-1].BG)
		}
	}

	g.lines = lines
	g.width = width
	g.height = height
}
