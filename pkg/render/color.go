package render

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// DefaultPalette returns the six lane colors used when none are configured.
func DefaultPalette() []color.NRGBA {
	return []color.NRGBA{
		{224, 108, 118, 0xff},
		{152, 195, 121, 0xff},
		{229, 192, 123, 0xff},
		{97, 175, 239, 0xff},
		{198, 120, 221, 0xff},
		{86, 182, 194, 0xff},
	}
}

// ParseColor parses "#rgb", "#rrggbb" or "#rrggbbaa". Colors without an
// alpha component are opaque.
func ParseColor(s string) (color.NRGBA, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	alpha := uint8(0xff)
	if len(s) == 9 {
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid color %q: bad alpha", s)
		}
		alpha = uint8(a)
		s = s[:7]
	}
	if len(s) != 4 && len(s) != 7 {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: want #rgb, #rrggbb or #rrggbbaa", s)
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: alpha}, nil
}

// ParsePalette parses a list of colors with [ParseColor].
func ParsePalette(ss []string) ([]color.NRGBA, error) {
	out := make([]color.NRGBA, len(ss))
	for i, s := range ss {
		c, err := ParseColor(s)
		if err != nil {
			return nil, err
		}
		out[i] = c
	}
	return out, nil
}

// FormatColor returns "#rrggbb", or "#rrggbbaa" for translucent colors.
func FormatColor(c color.NRGBA) string {
	if c.A == 0xff {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}
