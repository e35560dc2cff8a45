package vt

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ColorKind discriminates the three color forms a cell can carry.
type ColorKind uint8

const (
	// ColorDefault defers to the renderer's default foreground/background.
	ColorDefault ColorKind = iota
	// ColorIndexed is a palette index 0-255.
	ColorIndexed
	// ColorRGB is a direct 24-bit color.
	ColorRGB
)

// Color is a terminal color: the default, a palette index, or direct RGB.
type Color struct {
	Kind    ColorKind
	Index   uint8
	R, G, B uint8
}

// DefaultColor resolves to the renderer's default for its position.
var DefaultColor = Color{}

// IndexedColor returns a palette color.
func IndexedColor(index uint8) Color {
	return Color{Kind: ColorIndexed, Index: index}
}

// RGBColor returns a direct color.
func RGBColor(r, g, b uint8) Color {
	return Color{Kind: ColorRGB, R: r, G: g, B: b}
}

// ansiRGB is the fallback RGB rendition of the 16 base colors, used when a
// palette value must be reported and no override is set.
var ansiRGB = [16][3]uint8{
	{0, 0, 0}, {205, 0, 0}, {0, 205, 0}, {205, 205, 0},
	{0, 0, 238}, {205, 0, 205}, {0, 205, 205}, {229, 229, 229},
	{127, 127, 127}, {255, 0, 0}, {0, 255, 0}, {255, 255, 0},
	{92, 92, 255}, {255, 0, 255}, {0, 255, 255}, {255, 255, 255},
}

// paletteRGB returns the stock RGB value of a 256-color palette index:
// the 16 base colors, the 6x6x6 cube, then the grayscale ramp.
func paletteRGB(index uint8) (r, g, b uint8) {
	if index < 16 {
		c := ansiRGB[index]
		return c[0], c[1], c[2]
	}
	if index < 232 {
		i := int(index) - 16
		return uint8((i / 36) * 51), uint8(((i / 6) % 6) * 51), uint8((i % 6) * 51)
	}
	gray := uint8((int(index)-232)*10 + 8)
	return gray, gray, gray
}

// parseColorSpec parses an OSC color specification. Accepted forms are
// "#RRGGBB" (and the other hex widths go-colorful understands) and
// X11 "rgb:RR/GG/BB" with 1-4 hex digits per channel.
func parseColorSpec(spec string) (Color, bool) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return Color{}, false
	}
	if strings.HasPrefix(spec, "#") {
		c, err := colorful.Hex(spec)
		if err != nil {
			return Color{}, false
		}
		r, g, b := c.RGB255()
		return RGBColor(r, g, b), true
	}
	if rest, ok := strings.CutPrefix(spec, "rgb:"); ok {
		parts := strings.Split(rest, "/")
		if len(parts) != 3 {
			return Color{}, false
		}
		var ch [3]uint8
		for i, part := range parts {
			v, ok := parseColorChannel(part)
			if !ok {
				return Color{}, false
			}
			ch[i] = v
		}
		return RGBColor(ch[0], ch[1], ch[2]), true
	}
	return Color{}, false
}

// parseColorChannel scales a 1-4 digit hex channel to 8 bits.
func parseColorChannel(s string) (uint8, bool) {
	if len(s) == 0 || len(s) > 4 {
		return 0, false
	}
	v, err := strconv.ParseUint(s, 16, 16)
	if err != nil {
		return 0, false
	}
	max := uint64(1)<<(4*len(s)) - 1
	return uint8(v * 255 / max), true
}

// formatColorSpec renders a color as the X11 16-bit form used in OSC query
// replies.
func formatColorSpec(r, g, b uint8) string {
	return fmt.Sprintf("rgb:%04x/%04x/%04x",
		uint16(r)*0x101, uint16(g)*0x101, uint16(b)*0x101)
}
