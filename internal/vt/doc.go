// Package vt emulates a character-cell terminal. It consumes the raw
// byte stream a child process writes to its pseudoterminal and maintains
// the screen model a renderer needs: a grid of styled cells, cursor
// position and attributes, terminal modes, and scrollback.
//
// Key features:
//   - Streaming ANSI/VT parser: sequences split across reads resume
//     correctly, malformed input degrades instead of failing
//   - Primary and alternate screens with scrolling regions
//   - Bounded scrollback fed by lines scrolled off the primary screen
//   - SGR styling with 16/256-color and direct RGB forms
//   - Wide glyphs, combining marks, DEC line-drawing charsets
//   - OSC handling: title, palette, working directory, hyperlinks,
//     clipboard
//   - Query responses (cursor position, device attributes) queued for
//     the host to deliver to the child
//
// # Architecture
//
// Parser turns bytes into events (text, control, CSI, OSC, ESC, DCS).
// Terminal owns the parser and all screen state, applies each event in
// arrival order, and exposes read-only queries. Nothing escapes by
// reference: accessors copy, and Snapshot captures a consistent view for
// rendering.
//
// # Usage
//
//	term := vt.New(vt.Options{Cols: 80, Rows: 24})
//	term.Feed(output)                // bytes read from the pty
//	if resp := term.TakeOutput(); len(resp) > 0 {
//		pty.Write(resp)              // emulator replies, e.g. cursor reports
//	}
//	snap := term.Snapshot()
//	draw(snap)
//
// # Error Handling
//
// Feed never returns an error and never panics. The input is untrusted
// program output, so every malformed, truncated, or hostile sequence is
// consumed and discarded, at worst costing a rendering glitch that later
// correct input repairs.
//
// # Thread Safety
//
// All exported methods are safe for concurrent use; a single lock
// serializes Feed and Resize against queries. Feed itself is not
// reentrant, and bytes from one pty read should be fed in one call.
package vt
