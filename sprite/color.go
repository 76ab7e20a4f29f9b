package sprite

import (
	"image/color"

	"github.com/chewxy/math32"
)

// Color is a straight (non-premultiplied) linear RGBA color.
// Channels are nominally in [0,1] but may exceed that range after blending.
type Color struct {
	R, G, B, A float32
}

// Common colors.
var (
	Transparent = Color{}
	White       = Color{R: 1, G: 1, B: 1, A: 1}
	Black       = Color{A: 1}
)

// Mul returns the component-wise product of c and o.
func (c Color) Mul(o Color) Color {
	return Color{R: c.R * o.R, G: c.G * o.G, B: c.B * o.B, A: c.A * o.A}
}

// Scale returns c with every channel multiplied by s.
func (c Color) Scale(s float32) Color {
	return Color{R: c.R * s, G: c.G * s, B: c.B * s, A: c.A * s}
}

// Add returns the component-wise sum of c and o.
func (c Color) Add(o Color) Color {
	return Color{R: c.R + o.R, G: c.G + o.G, B: c.B + o.B, A: c.A + o.A}
}

// Clamp returns c with every channel clamped to [0,1].
func (c Color) Clamp() Color {
	return Color{R: clamp01(c.R), G: clamp01(c.G), B: clamp01(c.B), A: clamp01(c.A)}
}

// IsOpaque reports whether c is fully opaque.
func (c Color) IsOpaque() bool {
	return c.A == 1
}

// RGBA implements color.Color. The channels are clamped and premultiplied.
func (c Color) RGBA() (r, g, b, a uint32) {
	return c.NRGBA64().RGBA()
}

// NRGBA64 converts c to a clamped 16-bit straight-alpha color.
func (c Color) NRGBA64() color.NRGBA64 {
	c = c.Clamp()
	return color.NRGBA64{
		R: uint16(math32.Round(c.R * 0xffff)),
		G: uint16(math32.Round(c.G * 0xffff)),
		B: uint16(math32.Round(c.B * 0xffff)),
		A: uint16(math32.Round(c.A * 0xffff)),
	}
}

// ColorModel converts any color.Color to a Color.
var ColorModel color.Model = color.ModelFunc(colorModel)

func colorModel(c color.Color) color.Color {
	if sc, ok := c.(Color); ok {
		return sc
	}
	return FromColor(c)
}

// FromColor converts a standard library color into a straight-alpha Color.
func FromColor(c color.Color) Color {
	n := color.NRGBA64Model.Convert(c).(color.NRGBA64)
	return Color{
		R: float32(n.R) / 0xffff,
		G: float32(n.G) / 0xffff,
		B: float32(n.B) / 0xffff,
		A: float32(n.A) / 0xffff,
	}
}

func clamp01(v float32) float32 {
	return math32.Max(0, math32.Min(1, v))
}
