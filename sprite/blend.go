package sprite

// BlendFunc combines a partially transparent source pixel (0 < src.A < 1)
// with the destination pixel beneath it.
type BlendFunc func(dst, src Color) Color

// NormalBlend is the default over operator. The destination contribution is
// attenuated by its own alpha as well as by the source coverage, and the
// alpha channel follows the same rule:
//
//	out = dst * ((1 - src.A) * dst.A) + src * src.A
//
// Repeated semi-transparent layers therefore let alpha decay rather than
// accumulate toward 1.
func NormalBlend(dst, src Color) Color {
	destWeight := (1 - src.A) * dst.A
	return dst.Scale(destWeight).Add(src.Scale(src.A))
}

// PorterDuffOver is the standard straight-alpha over operator:
//
//	outA = src.A + dst.A * (1 - src.A)
//	outC = (src.C * src.A + dst.C * dst.A * (1 - src.A)) / outA
func PorterDuffOver(dst, src Color) Color {
	destWeight := dst.A * (1 - src.A)
	outA := src.A + destWeight
	if outA == 0 {
		return Transparent
	}
	c := src.Scale(src.A).Add(dst.Scale(destWeight)).Scale(1 / outA)
	c.A = outA
	return c
}

// BlendPixel composites src over dst.
// An opaque source overwrites dst, a fully transparent one leaves dst
// unchanged, and anything in between is combined with over.
func BlendPixel(dst, src Color, over BlendFunc) Color {
	switch {
	case src.A == 1:
		return src
	case src.A > 0 && src.A < 1:
		return over(dst, src)
	default:
		return dst
	}
}

// Blend composites layers onto canvas in ascending order and returns canvas.
// Every layer must have the canvas dimensions. A nil over uses NormalBlend.
// No clamping is applied.
func Blend(canvas *PixelBuffer, layers []*PixelBuffer, over BlendFunc) *PixelBuffer {
	return blendLayers(canvas, layers, over, DefaultParallelConfig())
}

func blendLayers(canvas *PixelBuffer, layers []*PixelBuffer, over BlendFunc, config ParallelConfig) *PixelBuffer {
	if over == nil {
		over = NormalBlend
	}
	width := canvas.Width()
	for _, layer := range layers {
		parallelFor(config, canvas.Height(), func(y int) {
			row := y * width
			dst := canvas.Pix[row : row+width]
			src := layer.Pix[row : row+width]
			for x := range dst {
				dst[x] = BlendPixel(dst[x], src[x], over)
			}
		})
	}
	return canvas
}
