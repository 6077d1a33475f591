package attributes

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"gonum.org/v1/plot/palette/brewer"
)

// maxBrewerColors is the size of the largest ColorBrewer palettes.
const maxBrewerColors = 12

// BrewerPalette returns n colors of the named ColorBrewer palette
// ("Set1", "Dark2", "Paired", ...). ColorBrewer has no palettes below three
// colors, so smaller requests are cut from the three-color variant.
// n <= 0 returns the largest variant of the palette.
func BrewerPalette(name string, n int) ([]color.Color, error) {
	if n <= 0 {
		for size := maxBrewerColors; size >= 3; size-- {
			if p, err := brewer.GetPalette(brewer.TypeAny, name, size); err == nil {
				return p.Colors(), nil
			}
		}
		return nil, fmt.Errorf("%w: %s", ErrUnknownPalette, name)
	}
	size := max(n, 3)
	p, err := brewer.GetPalette(brewer.TypeAny, name, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %s (%d colors): %v", ErrUnknownPalette, name, size, err)
	}
	colors := p.Colors()
	if n < len(colors) {
		colors = colors[:n]
	}
	return colors, nil
}

// Hex renders c as "#rrggbb", or "#rrggbbaa" when it is not opaque.
func Hex(c color.Color) string {
	if c == nil {
		return ""
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	if n.A == 0xff {
		return fmt.Sprintf("#%02x%02x%02x", n.R, n.G, n.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", n.R, n.G, n.B, n.A)
}

// ParseHex parses "#rgb", "#rrggbb" or "#rrggbbaa".
func ParseHex(s string) (color.NRGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) == 6 {
		h += "ff"
	}
	if len(h) != 8 {
		return color.NRGBA{}, fmt.Errorf("parse color %q: want #rgb, #rrggbb or #rrggbbaa", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	return color.NRGBA{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}, nil
}

// ParsePalette parses a list of hex colors.
func ParsePalette(values []string) ([]color.Color, error) {
	out := make([]color.Color, 0, len(values))
	for _, v := range values {
		c, err := ParseHex(v)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}
