package app

import "github.com/gdamore/tcell/v2"

// handleScrollKey consumes keys that navigate the scrollback view and
// reports whether the key was handled. Shift+PageUp enters the view;
// once inside, paging and arrows move it, Home and End jump, and any
// other key drops back to the live screen and reaches the shell.
func (app *Application) handleScrollKey(ev *tcell.EventKey) bool {
	_, rows := app.screen.Size()
	page := rows - 1
	if page < 1 {
		page = 1
	}

	if app.scroll == 0 {
		if ev.Key() == tcell.KeyPgUp && ev.Modifiers()&tcell.ModShift != 0 {
			app.scrollBy(page)
			return true
		}
		return false
	}

	switch ev.Key() {
	case tcell.KeyPgUp:
		app.scrollBy(page)
	case tcell.KeyPgDn:
		app.scrollBy(-page)
	case tcell.KeyUp:
		app.scrollBy(1)
	case tcell.KeyDown:
		app.scrollBy(-1)
	case tcell.KeyHome:
		app.scroll = app.sess.Term().HistoryLen()
	case tcell.KeyEnd, tcell.KeyEscape:
		app.scroll = 0
	default:
		app.scroll = 0
		return false
	}
	return true
}

// scrollBy moves the view by n lines, clamped to the history bounds.
func (app *Application) scrollBy(n int) {
	app.scroll += n
	if max := app.sess.Term().HistoryLen(); app.scroll > max {
		app.scroll = max
	}
	if app.scroll < 0 {
		app.scroll = 0
	}
}
