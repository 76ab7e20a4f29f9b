package sprite

import (
	"image"
	"image/color"
)

// PixelSource is a random-access 2D pixel source supplied by the host.
// Coordinates are relative to the top-left corner of the source.
type PixelSource interface {
	// Width returns the number of columns.
	Width() int
	// Height returns the number of rows.
	Height() int
	// Pixel returns the straight-alpha color at (x, y).
	Pixel(x, y int) Color
	// Region returns a row-major copy of the w×h block whose top-left
	// corner is (x, y).
	Region(x, y, w, h int) []Color
}

// PixelBuffer is an owned, row-major RGBA float image.
// Row 0 is the top row. Rect.Min is always the origin.
type PixelBuffer struct {
	// Pix holds Width()*Height() straight-alpha pixels.
	Pix []Color
	// Rect is the buffer's bounds.
	Rect image.Rectangle
}

// NewPixelBuffer creates a fully transparent buffer of the given size.
func NewPixelBuffer(width, height int) *PixelBuffer {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &PixelBuffer{
		Pix:  make([]Color, width*height),
		Rect: image.Rect(0, 0, width, height),
	}
}

// NewUniformBuffer creates a buffer with every pixel set to c.
func NewUniformBuffer(width, height int, c Color) *PixelBuffer {
	buf := NewPixelBuffer(width, height)
	for i := range buf.Pix {
		buf.Pix[i] = c
	}
	return buf
}

// BufferFromSource reads an entire source into a new buffer.
// A *PixelBuffer is returned as is.
func BufferFromSource(src PixelSource) *PixelBuffer {
	if buf, ok := src.(*PixelBuffer); ok {
		return buf
	}
	w, h := src.Width(), src.Height()
	return &PixelBuffer{
		Pix:  src.Region(0, 0, w, h),
		Rect: image.Rect(0, 0, w, h),
	}
}

// Width returns the buffer width.
func (b *PixelBuffer) Width() int {
	return b.Rect.Dx()
}

// Height returns the buffer height.
func (b *PixelBuffer) Height() int {
	return b.Rect.Dy()
}

// PixOffset returns the index of pixel (x, y) in Pix.
func (b *PixelBuffer) PixOffset(x, y int) int {
	return y*b.Rect.Dx() + x
}

// Pixel returns the color at (x, y), or Transparent outside the bounds.
func (b *PixelBuffer) Pixel(x, y int) Color {
	if !(image.Point{x, y}.In(b.Rect)) {
		return Transparent
	}
	return b.Pix[b.PixOffset(x, y)]
}

// SetPixel sets the color at (x, y). Writes outside the bounds are ignored.
func (b *PixelBuffer) SetPixel(x, y int, c Color) {
	if !(image.Point{x, y}.In(b.Rect)) {
		return
	}
	b.Pix[b.PixOffset(x, y)] = c
}

// Region returns a row-major copy of the w×h block at (x, y).
// Pixels falling outside the buffer read as Transparent.
func (b *PixelBuffer) Region(x, y, w, h int) []Color {
	if w <= 0 || h <= 0 {
		return nil
	}
	out := make([]Color, w*h)
	r := image.Rect(x, y, x+w, y+h).Intersect(b.Rect)
	for py := r.Min.Y; py < r.Max.Y; py++ {
		src := b.Pix[b.PixOffset(r.Min.X, py):b.PixOffset(r.Max.X, py)]
		copy(out[(py-y)*w+(r.Min.X-x):], src)
	}
	return out
}

// SetRegion writes a row-major w×h block of pixels with its top-left corner
// at (x, y). The part of the block outside the buffer is dropped.
func (b *PixelBuffer) SetRegion(x, y, w, h int, pixels []Color) {
	if w <= 0 || h <= 0 || len(pixels) < w*h {
		return
	}
	r := image.Rect(x, y, x+w, y+h).Intersect(b.Rect)
	for py := r.Min.Y; py < r.Max.Y; py++ {
		src := pixels[(py-y)*w+(r.Min.X-x) : (py-y)*w+(r.Max.X-x)]
		copy(b.Pix[b.PixOffset(r.Min.X, py):], src)
	}
}

// Clone returns a deep copy of the buffer.
func (b *PixelBuffer) Clone() *PixelBuffer {
	out := &PixelBuffer{
		Pix:  make([]Color, len(b.Pix)),
		Rect: b.Rect,
	}
	copy(out.Pix, b.Pix)
	return out
}

// Clamped returns a copy with every channel clamped to [0,1].
func (b *PixelBuffer) Clamped() *PixelBuffer {
	out := NewPixelBuffer(b.Width(), b.Height())
	for i, c := range b.Pix {
		out.Pix[i] = c.Clamp()
	}
	return out
}

// SameSize reports whether b and src have identical dimensions.
func (b *PixelBuffer) SameSize(src PixelSource) bool {
	return b.Width() == src.Width() && b.Height() == src.Height()
}

// Bounds implements image.Image.
func (b *PixelBuffer) Bounds() image.Rectangle {
	return b.Rect
}

// ColorModel implements image.Image.
func (b *PixelBuffer) ColorModel() color.Model {
	return color.NRGBA64Model
}

// At implements image.Image. Channels are clamped to [0,1].
func (b *PixelBuffer) At(x, y int) color.Color {
	return b.Pixel(x, y).NRGBA64()
}
