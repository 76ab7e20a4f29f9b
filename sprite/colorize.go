package sprite

// TintPolicy decides which pixels of a layer receive its tint.
type TintPolicy int

const (
	// TintVisible tints every pixel with non-zero alpha.
	// Used by the single-texture path.
	TintVisible TintPolicy = iota

	// TintMasked tints pixels with non-zero alpha and non-zero red.
	// The red channel acts as a grayscale mask: pixels with red == 0,
	// such as black outlines, keep their color. Used by the layered path.
	TintMasked
)

// String returns the policy name.
func (p TintPolicy) String() string {
	switch p {
	case TintVisible:
		return "visible"
	case TintMasked:
		return "masked"
	default:
		return "unknown"
	}
}

// Eligible reports whether c should be tinted under policy p.
func (p TintPolicy) Eligible(c Color) bool {
	if c.A == 0 {
		return false
	}
	if p == TintMasked && c.R == 0 {
		return false
	}
	return true
}

// Colorize applies tint to a single pixel.
// A pixel with red exactly 1 is treated as fully recolorable and becomes the
// tint; any other pixel is multiplied by the tint component-wise.
func Colorize(c, tint Color) Color {
	if c.R == 1 {
		return tint
	}
	return c.Mul(tint)
}

// ColorizeBuffer tints every eligible pixel of buf.
// If tint is nil, buf itself is returned. Otherwise a new buffer is
// allocated; buf is never modified.
func ColorizeBuffer(buf *PixelBuffer, tint *Color, policy TintPolicy) *PixelBuffer {
	if tint == nil {
		return buf
	}
	out := &PixelBuffer{
		Pix:  make([]Color, len(buf.Pix)),
		Rect: buf.Rect,
	}
	for i, c := range buf.Pix {
		if policy.Eligible(c) {
			c = Colorize(c, *tint)
		}
		out.Pix[i] = c
	}
	return out
}
