package ndlm

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strings"
)

// Color is an 8-bit per channel, non-premultiplied color.
type Color struct {
	R, G, B, A uint8
}

// Common colors used by themes.
var (
	Black       = RGB(0, 0, 0)
	White       = RGB(0xff, 0xff, 0xff)
	Yellow      = RGB(0xff, 0xff, 0)
	Red         = RGB(0xff, 0, 0)
	Gray        = RGB(0x80, 0x80, 0x80)
	Transparent = Color{}
)

// namedColors maps the tokens accepted by ParseColor.
var namedColors = map[string]Color{
	"black":       Black,
	"white":       White,
	"yellow":      Yellow,
	"red":         Red,
	"gray":        Gray,
	"grey":        Gray,
	"transparent": Transparent,
}

// RGB creates an opaque color.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, A: 0xff}
}

// Blend interpolates linearly between bg and fg, channel by channel:
// bg*(1-alpha) + fg*alpha. Alpha is clamped to [0, 1]; NaN counts as 0.
func Blend(bg, fg Color, alpha float64) Color {
	switch {
	case alpha >= 1:
		return fg
	case !(alpha > 0):
		return bg
	}
	return Color{
		R: lerp8(bg.R, fg.R, alpha),
		G: lerp8(bg.G, fg.G, alpha),
		B: lerp8(bg.B, fg.B, alpha),
		A: lerp8(bg.A, fg.A, alpha),
	}
}

// Blend returns Blend(c, fg, alpha).
func (c Color) Blend(fg Color, alpha float64) Color {
	return Blend(c, fg, alpha)
}

// lerp8 rounds to nearest; the result stays between a and b.
func lerp8(a, b uint8, t float64) uint8 {
	v := float64(a)*(1-t) + float64(b)*t
	return uint8(clamp255(math.Round(v)))
}

// clamp255 restricts a value to [0, 255] range.
func clamp255(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 255 {
		return 255
	}
	return x
}

// RGBA implements the color.Color interface.
func (c Color) RGBA() (r, g, b, a uint32) {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}.RGBA()
}

// String returns the color as #RRGGBB, or #RRGGBBAA when it is not opaque.
func (c Color) String() string {
	if c.A == 0xff {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// MarshalText implements encoding.TextMarshaler.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler using ParseColor.
func (c *Color) UnmarshalText(b []byte) error {
	v, err := ParseColor(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// ParseColor parses "#RRGGBB", "#RRGGBBAA" or one of the named tokens
// black, white, yellow, red, gray (grey) and transparent.
func ParseColor(s string) (Color, error) {
	in := strings.TrimSpace(s)
	if in == "" {
		return Color{}, &ParseError{What: "color", Input: s, Err: errors.New("empty")}
	}
	if in[0] != '#' {
		if c, ok := namedColors[strings.ToLower(in)]; ok {
			return c, nil
		}
		return Color{}, &ParseError{What: "color", Input: s, Err: errors.New("unknown color name")}
	}

	hex := in[1:]
	if len(hex) != 6 && len(hex) != 8 {
		return Color{}, &ParseError{What: "color", Input: s, Err: errors.New("want #RRGGBB or #RRGGBBAA")}
	}
	var ch [4]uint8
	ch[3] = 0xff
	for i := 0; i < len(hex)/2; i++ {
		hi, ok1 := hexDigit(hex[2*i])
		lo, ok2 := hexDigit(hex[2*i+1])
		if !ok1 || !ok2 {
			return Color{}, &ParseError{What: "color", Input: s, Err: fmt.Errorf("bad hex digit in %q", hex[2*i:2*i+2])}
		}
		ch[i] = hi<<4 | lo
	}
	return Color{R: ch[0], G: ch[1], B: ch[2], A: ch[3]}, nil
}

func hexDigit(c byte) (uint8, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
