package surface

import (
	"fmt"
	"strconv"
	"strings"
)

// Color is an RGB color.
type Color struct {
	R, G, B uint8
}

var (
	Black = Color{0, 0, 0}
	White = Color{255, 255, 255}
)

var namedColors = map[string]Color{
	"black":  Black,
	"white":  White,
	"red":    {255, 0, 0},
	"green":  {0, 128, 0},
	"blue":   {0, 0, 255},
	"gray":   {128, 128, 128},
	"grey":   {128, 128, 128},
	"silver": {192, 192, 192},
	"navy":   {0, 0, 128},
	"yellow": {255, 255, 0},
}

// String formats c as #rrggbb.
func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// MustParseColor is ParseColor for compile-time constants.
func MustParseColor(s string) Color {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

// ParseColor parses #RGB, #RRGGBB, rgb(r, g, b) and a few CSS color names.
func ParseColor(value string) (Color, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if strings.HasPrefix(v, "#") {
		if r, g, b, ok := parseHexColor(v); ok {
			return Color{r, g, b}, nil
		}
		return Color{}, fmt.Errorf("invalid hex color %q", value)
	}

	var r, g, b int
	if _, err := fmt.Sscanf(strings.ReplaceAll(v, " ", ""), "rgb(%d,%d,%d)", &r, &g, &b); err == nil {
		if r < 0 || r > 255 || g < 0 || g > 255 || b < 0 || b > 255 {
			return Color{}, fmt.Errorf("color component out of range in %q", value)
		}
		return Color{uint8(r), uint8(g), uint8(b)}, nil
	}

	if c, ok := namedColors[v]; ok {
		return c, nil
	}
	return Color{}, fmt.Errorf("unsupported color %q", value)
}

// parseHexColor parses #RRGGBB or #RGB into r,g,b
func parseHexColor(s string) (uint8, uint8, uint8, bool) {
	s = strings.TrimPrefix(s, "#")
	switch len(s) {
	case 3:
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	case 6:
	default:
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return uint8(v >> 16), uint8(v >> 8), uint8(v), true
}
