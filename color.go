package weave

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// Color represents a resolved color with red, green, blue, and alpha
// components. Each component is in the range [0, 1].
type Color struct {
	R, G, B, A float64
}

// NRGBA converts the color to the standard library's non-premultiplied form.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{
		R: uint8(clamp255(c.R * 255)),
		G: uint8(clamp255(c.G * 255)),
		B: uint8(clamp255(c.B * 255)),
		A: uint8(clamp255(c.A * 255)),
	}
}

// Hex returns the canonical string form of the color: "#rrggbb" for opaque
// colors, "#rrggbbaa" otherwise.
func (c Color) Hex() string {
	n := c.NRGBA()
	if n.A == 255 {
		return fmt.Sprintf("#%02x%02x%02x", n.R, n.G, n.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", n.R, n.G, n.B, n.A)
}

// String implements fmt.Stringer using the canonical hex form.
func (c Color) String() string { return c.Hex() }

// RGB creates an opaque color from RGB components in [0, 1].
func RGB(r, g, b float64) Color {
	return Color{R: r, G: g, B: b, A: 1}
}

// FromColor converts a standard color.Color to a Color.
func FromColor(c color.Color) Color {
	r, g, b, a := c.RGBA()
	return Color{
		R: float64(r) / 65535,
		G: float64(g) / 65535,
		B: float64(b) / 65535,
		A: float64(a) / 65535,
	}
}

// Common colors.
var (
	Black = RGB(0, 0, 0)
	White = RGB(1, 1, 1)
	Red   = RGB(1, 0, 0)
	Green = RGB(0, 1, 0)
	Blue  = RGB(0, 0, 1)
)

// ResolveColor normalizes an arbitrary color descriptor into a Color.
// Supported forms:
//
//   - hex: "#rgb", "#rgba", "#rrggbb", "#rrggbbaa" (leading '#' optional)
//   - named: any SVG 1.1 color name ("red", "steelblue", ...)
//   - functional: "rgb(r, g, b)" and "rgba(r, g, b, a)" with channel values
//     in [0, 255] and alpha in [0, 1]
//
// An unparseable descriptor resolves to opaque black so that a single bad
// palette entry never aborts a render.
func ResolveColor(desc string) Color {
	s := strings.TrimSpace(desc)
	if s == "" {
		return Black
	}
	if s[0] == '#' {
		return hexColor(s[1:])
	}
	if i := strings.IndexByte(s, '('); i >= 0 && strings.HasSuffix(s, ")") {
		return funcColor(strings.ToLower(strings.TrimSpace(s[:i])), s[i+1:len(s)-1])
	}
	if c, ok := colornames.Map[strings.ToLower(s)]; ok {
		return FromColor(c)
	}
	// Bare hex without '#'.
	if isHexString(s) {
		return hexColor(s)
	}
	Logger().Debug("unparseable color descriptor", "desc", desc)
	return Black
}

// ResolvePalette resolves every descriptor of a palette once, so repeated
// per-cell lookups during a render reuse the cached values.
func ResolvePalette(descs []string) []Color {
	out := make([]Color, len(descs))
	for i, d := range descs {
		out[i] = ResolveColor(d)
	}
	return out
}

// hexColor parses a hex color body (no '#').
// Supports "rgb", "rgba", "rrggbb", and "rrggbbaa".
func hexColor(hex string) Color {
	var r, g, b, a uint32
	a = 255

	switch len(hex) {
	case 3: // rgb
		parseHex(hex[0:1], &r)
		parseHex(hex[1:2], &g)
		parseHex(hex[2:3], &b)
		r, g, b = r*17, g*17, b*17
	case 4: // rgba
		parseHex(hex[0:1], &r)
		parseHex(hex[1:2], &g)
		parseHex(hex[2:3], &b)
		parseHex(hex[3:4], &a)
		r, g, b, a = r*17, g*17, b*17, a*17
	case 6: // rrggbb
		parseHex(hex[0:2], &r)
		parseHex(hex[2:4], &g)
		parseHex(hex[4:6], &b)
	case 8: // rrggbbaa
		parseHex(hex[0:2], &r)
		parseHex(hex[2:4], &g)
		parseHex(hex[4:6], &b)
		parseHex(hex[6:8], &a)
	default:
		return Black
	}

	return Color{
		R: float64(r) / 255,
		G: float64(g) / 255,
		B: float64(b) / 255,
		A: float64(a) / 255,
	}
}

// funcColor parses the argument list of rgb(...) / rgba(...) notation.
func funcColor(fn, args string) Color {
	parts := strings.Split(args, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	switch fn {
	case "rgb":
		if len(parts) != 3 {
			return Black
		}
	case "rgba":
		if len(parts) != 4 {
			return Black
		}
	default:
		return Black
	}

	chans := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSuffix(p, "%"), 64)
		if err != nil {
			return Black
		}
		if strings.HasSuffix(p, "%") {
			v = v / 100 * 255
		}
		chans[i] = v
	}

	c := Color{
		R: clamp01(chans[0] / 255),
		G: clamp01(chans[1] / 255),
		B: clamp01(chans[2] / 255),
		A: 1,
	}
	if fn == "rgba" {
		// The alpha channel is already in [0, 1], not [0, 255].
		c.A = clamp01(chans[3])
	}
	return c
}

// parseHex accumulates hex digits into val, stopping at the first
// non-hex character.
func parseHex(s string, val *uint32) {
	*val = 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		*val *= 16
		switch {
		case '0' <= c && c <= '9':
			*val += uint32(c - '0')
		case 'a' <= c && c <= 'f':
			*val += uint32(c - 'a' + 10)
		case 'A' <= c && c <= 'F':
			*val += uint32(c - 'A' + 10)
		default:
			return
		}
	}
}

func isHexString(s string) bool {
	if n := len(s); n != 3 && n != 4 && n != 6 && n != 8 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		ok := ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
		if !ok {
			return false
		}
	}
	return true
}

// clamp255 restricts a value to the [0, 255] range.
func clamp255(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 255 {
		return 255
	}
	return x
}

// clamp01 restricts a value to the [0, 1] range.
func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
