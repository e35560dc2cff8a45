package config

import (
	"fmt"
	"math"
	"strconv"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/dshills/termstorm/internal/vt"
)

// Theme is the resolved color scheme.
type Theme struct {
	// Foreground is the default text color; Kind is ColorDefault when the
	// host terminal's own default should be used.
	Foreground vt.Color

	// Background is the default background color.
	Background vt.Color

	// Palette overrides indexed colors.
	Palette map[uint8]vt.Color
}

// Resolve parses the theme's color strings into concrete colors.
func (t ThemeConfig) Resolve() (*Theme, error) {
	theme := &Theme{}

	if t.Foreground != "" {
		c, err := parseHex(t.Foreground)
		if err != nil {
			return nil, fmt.Errorf("theme fg: %w", err)
		}
		theme.Foreground = c
	}
	if t.Background != "" {
		c, err := parseHex(t.Background)
		if err != nil {
			return nil, fmt.Errorf("theme bg: %w", err)
		}
		theme.Background = c
	}

	if len(t.Palette) > 0 {
		theme.Palette = make(map[uint8]vt.Color, len(t.Palette))
		for key, val := range t.Palette {
			index, err := strconv.Atoi(key)
			if err != nil || index < 0 || index > 255 {
				return nil, fmt.Errorf("%w: palette index %q", ErrInvalidSetting, key)
			}
			c, err := parseHex(val)
			if err != nil {
				return nil, fmt.Errorf("theme palette[%s]: %w", key, err)
			}
			theme.Palette[uint8(index)] = c
		}
	}

	return theme, nil
}

// parseHex parses "#RRGGBB" (or the shorter "#RGB") into a color.
func parseHex(s string) (vt.Color, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return vt.Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	r, g, b := c.RGB255()
	return vt.RGBColor(r, g, b), nil
}

// Warnings returns non-fatal configuration issues worth logging, such as a
// theme whose foreground and background are too close to read.
func (c *Config) Warnings() []string {
	var warnings []string

	if c.Theme.Foreground != "" && c.Theme.Background != "" {
		fg, errFG := colorful.Hex(c.Theme.Foreground)
		bg, errBG := colorful.Hex(c.Theme.Background)
		if errFG == nil && errBG == nil {
			lf, _, _ := fg.Lab()
			lb, _, _ := bg.Lab()
			if math.Abs(lf-lb) < 0.2 {
				warnings = append(warnings, fmt.Sprintf(
					"theme fg %s and bg %s have nearly equal luminance; text may be unreadable",
					c.Theme.Foreground, c.Theme.Background))
			}
		}
	}

	if c.Terminal.Scrollback > 1000000 {
		warnings = append(warnings, fmt.Sprintf(
			"scrollback %d lines will hold a lot of memory", c.Terminal.Scrollback))
	}

	return warnings
}
