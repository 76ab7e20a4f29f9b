package sprite

import "image"

// Layer is one input image plus an optional tint.
// A nil Tint leaves the layer's pixels untouched.
type Layer struct {
	Source PixelSource
	Tint   *Color
}

// Alignment describes how one axis of a source maps onto the canvas.
// The span [ReadOffset, ReadOffset+Length) of the source is written to
// [WriteOffset, WriteOffset+Length) of the canvas.
type Alignment struct {
	ReadOffset  int
	WriteOffset int
	Length      int
}

// AlignAxis centers a source axis of length src on a canvas axis of length
// canvas. A longer source is cropped, a shorter one is padded.
func AlignAxis(src, canvas int) Alignment {
	switch {
	case src > canvas:
		return Alignment{ReadOffset: (src - canvas) / 2, Length: canvas}
	case src < canvas:
		return Alignment{WriteOffset: (canvas - src) / 2, Length: src}
	default:
		return Alignment{Length: canvas}
	}
}

// Normalize resizes every layer to the dimensions of layers[0].
// Layers that already match are passed through; the others are center
// cropped and/or padded with transparent pixels.
//
// The returned buffers must be treated as read-only: a layer whose source is
// already a canvas-sized *PixelBuffer is returned without copying.
func Normalize(layers []Layer) ([]*PixelBuffer, error) {
	if len(layers) == 0 {
		return nil, ErrEmptyLayerSet
	}

	base := layers[0].Source
	width, height := base.Width(), base.Height()

	out := make([]*PixelBuffer, len(layers))
	for i, layer := range layers {
		src := layer.Source
		if i == 0 || (src.Width() == width && src.Height() == height) {
			out[i] = BufferFromSource(src)
			continue
		}
		out[i] = fitToCanvas(src, width, height)
	}
	return out, nil
}

// fitToCanvas center-crops or center-pads src to width×height.
func fitToCanvas(src PixelSource, width, height int) *PixelBuffer {
	ax := AlignAxis(src.Width(), width)
	ay := AlignAxis(src.Height(), height)

	region := src.Region(ax.ReadOffset, ay.ReadOffset, ax.Length, ay.Length)

	// Pure crop: the region already has canvas dimensions.
	if src.Width() >= width && src.Height() >= height {
		return &PixelBuffer{
			Pix:  region,
			Rect: image.Rect(0, 0, width, height),
		}
	}

	buf := NewPixelBuffer(width, height)
	buf.SetRegion(ax.WriteOffset, ay.WriteOffset, ax.Length, ay.Length, region)
	return buf
}
