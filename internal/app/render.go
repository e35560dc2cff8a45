package app

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/dshills/termstorm/internal/vt"
)

// render draws the session onto the screen. With a scrollback offset the
// top of the viewport shows history lines and the cursor is hidden.
func (app *Application) render() {
	snap := app.sess.Snapshot()

	if app.scroll > snap.HistoryLen {
		app.scroll = snap.HistoryLen
	}
	scroll := app.scroll

	defFG, defBG := app.defaultColors(snap)
	base := tcell.StyleDefault.Foreground(defFG).Background(defBG)

	for y := 0; y < snap.Rows; y++ {
		var cells []vt.Cell
		if y < scroll {
			cells = app.sess.Term().HistoryLine(snap.HistoryLen - scroll + y)
		} else {
			cells = snap.Lines[y-scroll].Cells
		}
		app.drawRow(y, cells, snap, base, defFG, defBG)
	}

	if scroll > 0 {
		app.drawScrollIndicator(snap, scroll)
		app.screen.HideCursor()
	} else if snap.CursorVisible {
		style, blink := snap.CursorStyle, snap.CursorBlink
		if !snap.CursorStyleSet {
			// Until the child picks a shape, the configured one applies.
			style = configuredCursor(app.cfg.UI.CursorStyle)
			blink = app.cfg.UI.CursorBlink
		}
		app.screen.SetCursorStyle(cursorStyle(style, blink))
		app.screen.ShowCursor(snap.CursorX, snap.CursorY)
	} else {
		app.screen.HideCursor()
	}

	if snap.Title != app.lastTitle {
		app.lastTitle = snap.Title
		app.screen.SetTitle(snap.Title)
	}

	if n := app.bells.Swap(0); n > 0 && app.cfg.UI.Bell {
		app.screen.Beep()
	}

	app.screen.Show()
}

// drawRow paints one viewport row, padding short lines with the default
// background.
func (app *Application) drawRow(y int, cells []vt.Cell, snap *vt.Snapshot, base tcell.Style, defFG, defBG tcell.Color) {
	for x := 0; x < snap.Cols; x++ {
		if x >= len(cells) {
			app.screen.SetContent(x, y, ' ', nil, base)
			continue
		}
		c := cells[x]
		if c.Continuation() {
			// tcell shadows the second half of a wide glyph itself.
			continue
		}
		app.screen.SetContent(x, y, c.Rune, c.Combining, app.cellStyle(c, snap, defFG, defBG))
	}
}

// cellStyle resolves a cell's colors and attributes to a tcell style.
func (app *Application) cellStyle(c vt.Cell, snap *vt.Snapshot, defFG, defBG tcell.Color) tcell.Style {
	fg := app.resolveColor(c.FG, snap, defFG)
	bg := app.resolveColor(c.BG, snap, defBG)
	if c.Attrs.Has(vt.AttrHidden) {
		fg = bg
	}

	style := tcell.StyleDefault.Foreground(fg).Background(bg)
	if c.Attrs.Has(vt.AttrBold) {
		style = style.Bold(true)
	}
	if c.Attrs.Has(vt.AttrDim) {
		style = style.Dim(true)
	}
	if c.Attrs.Has(vt.AttrItalic) {
		style = style.Italic(true)
	}
	if c.Attrs.Has(vt.AttrUnderline) {
		style = style.Underline(true)
	}
	if c.Attrs.Has(vt.AttrBlink) {
		style = style.Blink(true)
	}
	if c.Attrs.Has(vt.AttrInverse) {
		style = style.Reverse(true)
	}
	if c.Attrs.Has(vt.AttrStrike) {
		style = style.StrikeThrough(true)
	}
	if c.Link != "" {
		style = style.Url(c.Link)
	}
	return style
}

// resolveColor maps a terminal color to tcell, applying OSC 4 palette
// overrides first, then the configured theme.
func (app *Application) resolveColor(c vt.Color, snap *vt.Snapshot, def tcell.Color) tcell.Color {
	switch c.Kind {
	case vt.ColorIndexed:
		if o, ok := snap.Palette[c.Index]; ok {
			return tcell.NewRGBColor(int32(o.R), int32(o.G), int32(o.B))
		}
		if app.theme != nil {
			if o, ok := app.theme.Palette[c.Index]; ok {
				return tcell.NewRGBColor(int32(o.R), int32(o.G), int32(o.B))
			}
		}
		return tcell.PaletteColor(int(c.Index))
	case vt.ColorRGB:
		return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
	default:
		return def
	}
}

// defaultColors resolves the default pair: OSC 10/11 overrides beat the
// theme, and reverse-video mode swaps the two.
func (app *Application) defaultColors(snap *vt.Snapshot) (fg, bg tcell.Color) {
	fg, bg = tcell.ColorDefault, tcell.ColorDefault
	if app.theme != nil {
		if app.theme.Foreground.Kind == vt.ColorRGB {
			c := app.theme.Foreground
			fg = tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
		}
		if app.theme.Background.Kind == vt.ColorRGB {
			c := app.theme.Background
			bg = tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
		}
	}
	if snap.DefaultFG.Kind != vt.ColorDefault {
		c := snap.DefaultFG
		fg = tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
	}
	if snap.DefaultBG.Kind != vt.ColorDefault {
		c := snap.DefaultBG
		bg = tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
	}
	if snap.Modes.Has(vt.ModeReverseVideo) {
		fg, bg = bg, fg
	}
	return fg, bg
}

// configuredCursor maps a cursor_style setting to the emulator shape.
func configuredCursor(name string) vt.CursorStyle {
	switch name {
	case "underline":
		return vt.CursorUnderline
	case "bar":
		return vt.CursorBar
	default:
		return vt.CursorBlock
	}
}

// cursorStyle maps the emulator's cursor shape and blink to tcell.
func cursorStyle(style vt.CursorStyle, blink bool) tcell.CursorStyle {
	switch style {
	case vt.CursorUnderline:
		if blink {
			return tcell.CursorStyleBlinkingUnderline
		}
		return tcell.CursorStyleSteadyUnderline
	case vt.CursorBar:
		if blink {
			return tcell.CursorStyleBlinkingBar
		}
		return tcell.CursorStyleSteadyBar
	default:
		if blink {
			return tcell.CursorStyleBlinkingBlock
		}
		return tcell.CursorStyleSteadyBlock
	}
}

// drawScrollIndicator overlays the scrollback position on the top row.
func (app *Application) drawScrollIndicator(snap *vt.Snapshot, scroll int) {
	label := fmt.Sprintf(" history %d/%d (End returns) ", scroll, snap.HistoryLen)
	style := tcell.StyleDefault.Reverse(true)
	x := snap.Cols - uniseg.StringWidth(label)
	if x < 0 {
		x = 0
	}
	drawText(app.screen, x, 0, style, label)
}

// drawText writes a string by grapheme cluster so combining marks stay
// attached and wide clusters advance two columns.
func drawText(s tcell.Screen, x, y int, style tcell.Style, text string) int {
	state := -1
	for text != "" {
		var cluster string
		var width int
		cluster, text, width, state = uniseg.FirstGraphemeClusterInString(text, state)
		if cluster == "" {
			break
		}
		runes := []rune(cluster)
		s.SetContent(x, y, runes[0], runes[1:], style)
		x += width
	}
	return x
}
