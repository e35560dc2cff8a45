package vt

import (
	"encoding/base64"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Bounds for OSC-carried state.
const (
	maxTitleLen     = 512
	maxClipboardLen = 8192
)

// handleOSC executes a completed operating system command. Identifiers
// outside the handled set, and malformed payloads inside it, are consumed
// without effect.
func (t *Terminal) handleOSC(payload []byte) {
	data := string(payload)
	id, rest, _ := strings.Cut(data, ";")
	cmd, err := strconv.Atoi(id)
	if err != nil {
		t.discarded++
		return
	}

	switch cmd {
	case 0, 2: // icon name and window title / window title
		t.title = truncateUTF8(rest, maxTitleLen)
	case 1: // icon name only
	case 4:
		t.setPaletteColors(rest)
	case 7:
		t.setWorkingDir(rest)
	case 8:
		t.setHyperlink(rest)
	case 10:
		t.setDefaultColor(&t.fgColor, 10, rest)
	case 11:
		t.setDefaultColor(&t.bgColor, 11, rest)
	case 52:
		t.handleClipboard(rest)
	case 104:
		t.resetPaletteColors(rest)
	case 110:
		t.fgColor = Color{}
	case 111:
		t.bgColor = Color{}
	case 112: // reset cursor color: tracked nowhere, consumed silently
	default:
		t.discarded++
	}
}

// setPaletteColors applies OSC 4 index/spec pairs. A "?" spec queries the
// current value instead of setting one.
func (t *Terminal) setPaletteColors(args string) {
	parts := strings.Split(args, ";")
	for i := 0; i+1 < len(parts); i += 2 {
		idx, err := strconv.Atoi(parts[i])
		if err != nil || idx < 0 || idx > 255 {
			t.discarded++
			continue
		}
		spec := parts[i+1]
		if spec == "?" {
			c, ok := t.palette[uint8(idx)]
			if !ok {
				r, g, b := paletteRGB(uint8(idx))
				c = RGBColor(r, g, b)
			}
			t.replyf("\x1b]4;%d;%s\x07", idx, formatColorSpec(c.R, c.G, c.B))
			continue
		}
		if c, ok := parseColorSpec(spec); ok {
			t.palette[uint8(idx)] = c
		} else {
			t.discarded++
		}
	}
}

// resetPaletteColors undoes OSC 4 overrides: all of them, or the listed
// indices.
func (t *Terminal) resetPaletteColors(args string) {
	if strings.TrimSpace(args) == "" {
		clear(t.palette)
		return
	}
	for _, part := range strings.Split(args, ";") {
		if idx, err := strconv.Atoi(part); err == nil && idx >= 0 && idx <= 255 {
			delete(t.palette, uint8(idx))
		}
	}
}

// setDefaultColor handles OSC 10/11: set the default foreground or
// background, or report it for a "?" query.
func (t *Terminal) setDefaultColor(slot *Color, id int, spec string) {
	if spec == "?" {
		c := *slot
		if c.Kind != ColorRGB {
			// Never overridden: report the conventional white-on-black.
			if id == 10 {
				c = RGBColor(255, 255, 255)
			} else {
				c = RGBColor(0, 0, 0)
			}
		}
		t.replyf("\x1b]%d;%s\x07", id, formatColorSpec(c.R, c.G, c.B))
		return
	}
	if c, ok := parseColorSpec(spec); ok {
		*slot = c
	} else {
		t.discarded++
	}
}

// setWorkingDir records an OSC 7 working-directory report (a file:// URL
// by convention; other shapes are stored verbatim).
func (t *Terminal) setWorkingDir(raw string) {
	raw = truncateUTF8(raw, maxTitleLen)
	if u, err := url.Parse(raw); err == nil && u.Scheme == "file" && u.Path != "" {
		t.workDir = u.Path
		return
	}
	t.workDir = raw
}

// setHyperlink sets or clears the pen's OSC 8 hyperlink. The params field
// before the URI is not retained.
func (t *Terminal) setHyperlink(rest string) {
	_, uri, ok := strings.Cut(rest, ";")
	if !ok {
		t.discarded++
		return
	}
	t.cursor.Pen.Link = truncateUTF8(uri, maxTitleLen)
}

// handleClipboard implements OSC 52 set and query for the clipboard
// selections. Payloads are base64; oversized or undecodable ones are
// dropped.
func (t *Terminal) handleClipboard(rest string) {
	_, data, ok := strings.Cut(rest, ";")
	if !ok {
		t.discarded++
		return
	}
	if data == "?" {
		t.replyf("\x1b]52;c;%s\x07", base64.StdEncoding.EncodeToString(t.clipboard))
		return
	}
	if len(data) > base64.StdEncoding.EncodedLen(maxClipboardLen) {
		t.discarded++
		return
	}
	decoded, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		t.discarded++
		return
	}
	t.clipboard = decoded
}

// truncateUTF8 caps a string at n bytes without splitting a rune.
func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
