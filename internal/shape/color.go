package shape

import (
	"fmt"
	"strconv"
	"strings"
)

// Color is an RGB triple with 0-255 channels.
type Color [3]uint8

var (
	Black  = Color{0, 0, 0}
	White  = Color{255, 255, 255}
	Yellow = Color{255, 255, 128}
)

// Hex formats c as "#rrggbb", the value format of HTML color inputs.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2])
}

// Normalized returns the channels scaled to 0-1, as shaders expect.
func (c Color) Normalized() [3]float64 {
	return [3]float64{float64(c[0]) / 255, float64(c[1]) / 255, float64(c[2]) / 255}
}

// ParseHexColor parses "#rrggbb" (the leading '#' is optional).
func ParseHexColor(s string) (Color, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return Color{}, fmt.Errorf("parse color %q: want 6 hex digits", s)
	}
	var c Color
	for i := range c {
		v, err := strconv.ParseUint(s[i*2:i*2+2], 16, 8)
		if err != nil {
			return Color{}, fmt.Errorf("parse color %q: %w", s, err)
		}
		c[i] = uint8(v)
	}
	return c, nil
}

func uniform(c Color, n int) []Color {
	colors := make([]Color, n)
	for i := range colors {
		colors[i] = c
	}
	return colors
}
