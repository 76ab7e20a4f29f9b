package spriteutil

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/anthonynsimon/bild/transform"
	xdraw "golang.org/x/image/draw"

	"github.com/mrjoshuak/go-spritemaker/exr"
	"github.com/mrjoshuak/go-spritemaker/exrmeta"
	"github.com/mrjoshuak/go-spritemaker/sprite"
)

// ===========================================
// PNG
// ===========================================

// PNGBuilder encodes sprites as 8-bit PNG. Values are clamped to [0, 1].
type PNGBuilder struct {
	W io.Writer
	// Scale is an integer upscale factor. Point-filtered sprites are scaled
	// with nearest neighbor sampling and smooth ones with linear sampling.
	Scale int
	// Compression is passed to the PNG encoder.
	Compression png.CompressionLevel
}

// Build implements sprite.ResourceBuilder.
func (b *PNGBuilder) Build(img *sprite.Image) error {
	var out image.Image = ToNRGBA(img.Buffer)
	if b.Scale > 1 {
		out = scale(out, b.Scale, img.Filter)
	}
	enc := png.Encoder{CompressionLevel: b.Compression}
	return enc.Encode(b.W, out)
}

// scale enlarges src by an integer factor. Point filtering replicates
// pixels exactly; smooth filtering interpolates linearly.
func scale(src image.Image, factor int, filter sprite.FilterMode) image.Image {
	b := src.Bounds()
	w, h := b.Dx()*factor, b.Dy()*factor
	if filter == sprite.FilterSmooth {
		return transform.Resize(src, w, h, transform.Linear)
	}
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), src, b, xdraw.Src, nil)
	return dst
}

// ToNRGBA converts buf to an 8-bit straight-alpha image.
func ToNRGBA(buf *sprite.PixelBuffer) *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, buf.Width(), buf.Height()))
	for i, c := range buf.Pix {
		n := c.NRGBA64()
		out.Pix[i*4+0] = uint8(n.R >> 8)
		out.Pix[i*4+1] = uint8(n.G >> 8)
		out.Pix[i*4+2] = uint8(n.B >> 8)
		out.Pix[i*4+3] = uint8(n.A >> 8)
	}
	return out
}

// ===========================================
// OpenEXR
// ===========================================

// EXRBuilder encodes sprites as OpenEXR without clamping. The pivot, wrap
// and filter metadata are stored as header attributes.
type EXRBuilder struct {
	W           io.Writer
	Compression exr.Compression
	PixelType   exr.PixelType

	// Owner and Comments are written when non-empty.
	Owner    string
	Comments string
}

// NewEXRBuilder returns a builder writing half-float pixels with ZIP
// compression.
func NewEXRBuilder(w io.Writer) *EXRBuilder {
	return &EXRBuilder{W: w, Compression: exr.CompressionZIP, PixelType: exr.PixelTypeHalf}
}

// Build implements sprite.ResourceBuilder.
func (b *EXRBuilder) Build(img *sprite.Image) error {
	h := exr.NewRGBAHeader(img.Width(), img.Height(), b.PixelType)
	h.SetCompression(b.Compression)

	wrap, err := wrapMode(img.Wrap)
	if err != nil {
		return err
	}
	if err := exrmeta.SetWrapModes(h, exrmeta.WrapModes{Horizontal: wrap, Vertical: wrap}); err != nil {
		return err
	}
	if err := exrmeta.SetPivot(h, exr.V2f{X: img.Pivot.X, Y: img.Pivot.Y}); err != nil {
		return err
	}
	if err := exrmeta.SetFilter(h, img.Filter.String()); err != nil {
		return err
	}
	if b.Owner != "" {
		if err := exrmeta.SetOwner(h, b.Owner); err != nil {
			return err
		}
	}
	if b.Comments != "" {
		if err := exrmeta.SetComments(h, b.Comments); err != nil {
			return err
		}
	}
	return exr.EncodeWithHeader(b.W, ToEXR(img.Buffer), h)
}

// wrapMode maps a sprite wrap mode to its EXR equivalent.
func wrapMode(w sprite.WrapMode) (exrmeta.WrapMode, error) {
	switch w {
	case sprite.WrapClamp:
		return exrmeta.WrapClamp, nil
	default:
		return 0, fmt.Errorf("spriteutil: no EXR wrap mode for %v", w)
	}
}

// ReadEXRSprite decodes an EXR written by EXRBuilder, restoring its
// metadata. Missing attributes fall back to Export's defaults.
func ReadEXRSprite(r io.Reader) (*sprite.Image, error) {
	data, h, err := exr.Decode(r)
	if err != nil {
		return nil, err
	}
	img := sprite.Export(FromEXR(data), sprite.FilterPoint)
	if p, ok := exrmeta.Pivot(h); ok {
		img.Pivot = sprite.Point{X: p.X, Y: p.Y}
	}
	if exrmeta.Filter(h) == sprite.FilterSmooth.String() {
		img.Filter = sprite.FilterSmooth
	}
	return img, nil
}

// ===========================================
// Files
// ===========================================

// WriteOptions configures WriteFile.
type WriteOptions struct {
	// Scale applies to PNG output.
	Scale int
	// Compression applies to EXR output. Defaults to ZIP.
	Compression *exr.Compression
	// Comments is stored in EXR output.
	Comments string
}

// WriteFile encodes img to path. A .exr extension selects EXRBuilder;
// .png or no extension selects PNGBuilder.
func WriteFile(path string, img *sprite.Image, opts *WriteOptions) error {
	if opts == nil {
		opts = &WriteOptions{}
	}
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".exr" && ext != ".png" && ext != "" {
		return fmt.Errorf("spriteutil: unsupported output format %q", ext)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	var b sprite.ResourceBuilder
	if ext == ".exr" {
		eb := NewEXRBuilder(f)
		if opts.Compression != nil {
			eb.Compression = *opts.Compression
		}
		eb.Comments = opts.Comments
		b = eb
	} else {
		b = &PNGBuilder{W: f, Scale: opts.Scale}
	}

	if err := b.Build(img); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}
