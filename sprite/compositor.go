// Package sprite composites stacks of layered raster images into a single
// sprite image.
//
// A composite runs in three stages over one canvas sized to the first layer:
// layers are center cropped or padded to the canvas, optionally tinted, and
// blended bottom to top with a straight-alpha over operator. The result is
// exported as an Image carrying the pivot, wrap and filter metadata a host
// renderer needs.
//
// Example usage:
//
//	c := sprite.NewCompositor(nil)
//	img := c.MakeLayered(
//		[]sprite.PixelSource{body, outline},
//		[]sprite.Color{{R: 0.2, G: 0.4, B: 1, A: 1}},
//	)
package sprite

import (
	"errors"
	"log/slog"
)

// Compositing errors
var (
	ErrEmptyLayerSet = errors.New("sprite: no image layers")
)

// Options configures a Compositor.
type Options struct {
	// Logger receives diagnostics. Defaults to slog.Default().
	Logger *slog.Logger

	// Blend combines partially transparent pixels. Defaults to NormalBlend.
	Blend BlendFunc

	// Parallel controls row-parallel blending. The zero value is sequential.
	Parallel ParallelConfig

	// Placeholder is returned, copied, when there is nothing to composite.
	// Defaults to a 1×1 opaque white buffer.
	Placeholder *PixelBuffer
}

// Compositor builds sprite images from layers.
// It holds no per-call state and may be shared between goroutines.
type Compositor struct {
	logger      *slog.Logger
	blend       BlendFunc
	parallel    ParallelConfig
	placeholder *PixelBuffer
}

// NewCompositor creates a compositor. A nil opts uses the defaults.
func NewCompositor(opts *Options) *Compositor {
	c := &Compositor{
		logger:      slog.Default(),
		blend:       NormalBlend,
		parallel:    DefaultParallelConfig(),
		placeholder: NewUniformBuffer(1, 1, White),
	}
	if opts == nil {
		return c
	}
	if opts.Logger != nil {
		c.logger = opts.Logger
	}
	if opts.Blend != nil {
		c.blend = opts.Blend
	}
	if opts.Parallel != (ParallelConfig{}) {
		c.parallel = opts.Parallel
	}
	if opts.Placeholder != nil {
		c.placeholder = opts.Placeholder.Clone()
	}
	return c
}

var defaultCompositor = NewCompositor(nil)

// Make builds a single-color sprite from one texture using the default
// compositor.
func Make(texture PixelSource, tint Color) *Image {
	return defaultCompositor.Make(texture, tint)
}

// MakeLayered builds a sprite from a stack of textures using the default
// compositor.
func MakeLayered(textures []PixelSource, tints []Color) *Image {
	return defaultCompositor.MakeLayered(textures, tints)
}

// Make tints every visible pixel of texture and exports the result with
// point filtering.
func (c *Compositor) Make(texture PixelSource, tint Color) *Image {
	return Export(c.CreateSimpleTexture(texture, tint), FilterPoint)
}

// MakeLayered composites textures bottom to top, tinting layer i with
// tints[i] when present, and exports the result with smooth filtering.
// An empty stack is logged and yields the placeholder image.
func (c *Compositor) MakeLayered(textures []PixelSource, tints []Color) *Image {
	buf, err := c.CreateTexture(textures, tints)
	if err != nil {
		c.logger.Error("sprite: cannot composite texture stack", "err", err)
	}
	return Export(buf, FilterSmooth)
}

// MakeStack is MakeLayered for a stack where any layer may be left
// untinted by a nil Tint.
func (c *Compositor) MakeStack(layers []Layer) *Image {
	buf, err := c.Composite(layers)
	if err != nil {
		c.logger.Error("sprite: cannot composite texture stack", "err", err)
		buf = c.placeholder.Clone()
	}
	return Export(buf, FilterSmooth)
}

// CreateSimpleTexture returns a tinted copy of texture. Every pixel with
// non-zero alpha is tinted.
func (c *Compositor) CreateSimpleTexture(texture PixelSource, tint Color) *PixelBuffer {
	src := BufferFromSource(texture)
	return ColorizeBuffer(src, &tint, TintVisible)
}

// CreateTexture composites textures with their tints. Layers beyond the end
// of tints are not tinted.
//
// If textures is empty, CreateTexture returns a copy of the placeholder
// together with ErrEmptyLayerSet, so the result is always usable.
func (c *Compositor) CreateTexture(textures []PixelSource, tints []Color) (*PixelBuffer, error) {
	layers := make([]Layer, len(textures))
	for i, tex := range textures {
		layers[i].Source = tex
		if i < len(tints) {
			tint := tints[i]
			layers[i].Tint = &tint
		}
	}
	buf, err := c.Composite(layers)
	if err != nil {
		return c.placeholder.Clone(), err
	}
	return buf, nil
}

// Composite runs the full pipeline over layers: normalize, colorize with
// TintMasked, then blend onto a transparent canvas sized to layers[0].
func (c *Compositor) Composite(layers []Layer) (*PixelBuffer, error) {
	normalized, err := Normalize(layers)
	if err != nil {
		return nil, err
	}

	canvas := normalized[0]
	for i, layer := range layers {
		src := layer.Source
		if i > 0 && !canvas.SameSize(src) {
			c.logger.Debug("sprite: fitting layer to canvas",
				"layer", i,
				"width", src.Width(),
				"height", src.Height(),
				"canvasWidth", canvas.Width(),
				"canvasHeight", canvas.Height(),
				"alignX", AlignAxis(src.Width(), canvas.Width()),
				"alignY", AlignAxis(src.Height(), canvas.Height()),
			)
		}
		normalized[i] = ColorizeBuffer(normalized[i], layer.Tint, TintMasked)
	}

	out := NewPixelBuffer(canvas.Width(), canvas.Height())
	return blendLayers(out, normalized, c.blend, c.parallel), nil
}
