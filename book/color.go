package book

import (
	"fmt"
	"image/color"
	"strings"
)

// Transparent is the sentinel fill/stroke value for "draw nothing".
const Transparent = "transparent"

// ParseColor parses a #rgb, #rrggbb or #rrggbbaa hex color. The second
// return value is false for empty strings and the "transparent" sentinel.
func ParseColor(s string) (color.RGBA, bool, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" || s == Transparent || s == "none" {
		return color.RGBA{}, false, nil
	}
	if !strings.HasPrefix(s, "#") {
		return color.RGBA{}, false, fmt.Errorf("book: invalid color %q", s)
	}
	hex := s[1:]
	var r, g, b, a uint8
	a = 0xff
	switch len(hex) {
	case 3:
		n, err := parseHexDigits(hex)
		if err != nil {
			return color.RGBA{}, false, fmt.Errorf("book: invalid color %q", s)
		}
		r = uint8(n>>8&0xf) * 0x11
		g = uint8(n>>4&0xf) * 0x11
		b = uint8(n&0xf) * 0x11
	case 6, 8:
		n, err := parseHexDigits(hex)
		if err != nil {
			return color.RGBA{}, false, fmt.Errorf("book: invalid color %q", s)
		}
		if len(hex) == 8 {
			a = uint8(n & 0xff)
			n >>= 8
		}
		r = uint8(n >> 16 & 0xff)
		g = uint8(n >> 8 & 0xff)
		b = uint8(n & 0xff)
	default:
		return color.RGBA{}, false, fmt.Errorf("book: invalid color %q", s)
	}
	return color.RGBA{R: r, G: g, B: b, A: a}, true, nil
}

func parseHexDigits(s string) (uint32, error) {
	var n uint32
	for _, c := range s {
		n <<= 4
		switch {
		case c >= '0' && c <= '9':
			n |= uint32(c - '0')
		case c >= 'a' && c <= 'f':
			n |= uint32(c-'a') + 10
		default:
			return 0, fmt.Errorf("invalid hex digit %q", c)
		}
	}
	return n, nil
}

// FormatColor renders c as a #rrggbb or #rrggbbaa hex string.
func FormatColor(c color.RGBA) string {
	if c.A != 0xff {
		return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
	}
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
