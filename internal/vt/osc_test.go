package vt

import (
	"strings"
	"testing"
)

func TestOSCTitleTruncated(t *testing.T) {
	term := New(Options{Cols: 10, Rows: 3})

	feed(term, "\x1b]0;"+strings.Repeat("a", maxTitleLen+50)+"\x07")

	if got := len(term.Title()); got != maxTitleLen {
		t.Errorf("expected title capped at %d bytes, got %d", maxTitleLen, got)
	}
}

func TestOSCTitleTruncationKeepsRunesWhole(t *testing.T) {
	term := New(Options{Cols: 10, Rows: 3})

	// Pad so a three-byte rune straddles the byte limit.
	pad := strings.Repeat("a", maxTitleLen-1)
	feed(term, "\x1b]0;"+pad+"€€\x07")

	title := term.Title()
	if len(title) > maxTitleLen {
		t.Fatalf("expected at most %d bytes, got %d", maxTitleLen, len(title))
	}
	if strings.ContainsRune(title, '�') || !strings.HasSuffix(title, "a") {
		t.Errorf("expected truncation on a rune boundary, got %q tail", title[len(title)-4:])
	}
}

func TestOSCWorkingDirPlainPath(t *testing.T) {
	term := New(Options{Cols: 10, Rows: 3})

	// Not a file URL: stored verbatim.
	feed(term, "\x1b]7;/var/tmp\x07")

	if got := term.WorkingDir(); got != "/var/tmp" {
		t.Errorf("expected verbatim path, got %q", got)
	}
}

func TestOSCPaletteQueryStockColor(t *testing.T) {
	term := New(Options{Cols: 10, Rows: 3})

	feed(term, "\x1b]4;1;?\x07")

	want := "\x1b]4;1;rgb:cdcd/0000/0000\x07"
	if got := string(term.TakeOutput()); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestOSCPaletteQueryOverride(t *testing.T) {
	term := New(Options{Cols: 10, Rows: 3})

	feed(term, "\x1b]4;7;#102030\x07\x1b]4;7;?\x07")

	want := "\x1b]4;7;rgb:1010/2020/3030\x07"
	if got := string(term.TakeOutput()); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestOSCPaletteMultiplePairs(t *testing.T) {
	term := New(Options{Cols: 10, Rows: 3})

	feed(term, "\x1b]4;1;#000000;2;#ffffff\x07")

	if c := term.PaletteColor(1); c != RGBColor(0, 0, 0) {
		t.Errorf("expected palette 1 black, got %+v", c)
	}
	if c := term.PaletteColor(2); c != RGBColor(255, 255, 255) {
		t.Errorf("expected palette 2 white, got %+v", c)
	}
}

func TestOSCPaletteResetAll(t *testing.T) {
	term := New(Options{Cols: 10, Rows: 3})

	feed(term, "\x1b]4;1;#010203;2;#040506\x07\x1b]104\x07")

	if c := term.PaletteColor(1); c == RGBColor(1, 2, 3) {
		t.Error("expected all overrides dropped")
	}
	if c := term.PaletteColor(2); c == RGBColor(4, 5, 6) {
		t.Error("expected all overrides dropped")
	}
}

func TestOSCDefaultForeground(t *testing.T) {
	term := New(Options{Cols: 10, Rows: 3})

	feed(term, "\x1b]10;#123456\x07")
	if got := term.Snapshot().DefaultFG; got != RGBColor(0x12, 0x34, 0x56) {
		t.Errorf("expected default foreground override, got %+v", got)
	}

	feed(term, "\x1b]10;?\x07")
	want := "\x1b]10;rgb:1212/3434/5656\x07"
	if got := string(term.TakeOutput()); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}

	feed(term, "\x1b]110\x07")
	if got := term.Snapshot().DefaultFG; got.Kind != ColorDefault {
		t.Errorf("expected override cleared, got %+v", got)
	}
}

func TestOSCDefaultBackgroundQueryUnset(t *testing.T) {
	term := New(Options{Cols: 10, Rows: 3})

	feed(term, "\x1b]11;?\x07")

	// Never overridden: the conventional black is reported.
	want := "\x1b]11;rgb:0000/0000/0000\x07"
	if got := string(term.TakeOutput()); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestOSCClipboardInvalidBase64(t *testing.T) {
	term := New(Options{Cols: 10, Rows: 3})

	feed(term, "\x1b]52;c;aGVsbG8=\x07\x1b]52;c;!!!!\x07")

	// The bad payload is dropped, the old content stays.
	if got := string(term.Clipboard()); got != "hello" {
		t.Errorf("expected clipboard unchanged, got %q", got)
	}
	if term.Discarded() == 0 {
		t.Error("expected bad payload counted as discarded")
	}
}

func TestOSCMalformedIdentifier(t *testing.T) {
	term := New(Options{Cols: 10, Rows: 3})

	feed(term, "\x1b]nope;x\x07ok")

	if got := rowText(term, 0); got != "ok" {
		t.Errorf("expected text after malformed OSC, got %q", got)
	}
	if term.Discarded() == 0 {
		t.Error("expected malformed OSC counted as discarded")
	}
}

func TestTruncateUTF8(t *testing.T) {
	tests := []struct {
		in       string
		n        int
		expected string
	}{
		{"hello", 10, "hello"},
		{"hello", 3, "hel"},
		{"héllo", 2, "h"}, // é is two bytes; cutting through it backs off
		{"€€", 4, "€"},
		{"", 5, ""},
	}

	for _, tt := range tests {
		if got := truncateUTF8(tt.in, tt.n); got != tt.expected {
			t.Errorf("truncateUTF8(%q, %d) = %q, expected %q", tt.in, tt.n, got, tt.expected)
		}
	}
}
