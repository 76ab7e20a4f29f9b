// Package spriteutil connects the sprite compositor to files on disk.
//
// It decodes layer images from PNG, JPEG, GIF, BMP, TIFF, WebP, JPEG 2000
// and OpenEXR files, parses tint colors, reads layer manifests, and
// provides ResourceBuilders that encode finished sprites as PNG or EXR.
//
// Example usage:
//
//	layers, _ := spriteutil.LoadLayers([]string{"body.png", "outline.png"})
//	img := sprite.MakeLayered(layers, nil)
//	_ = (&spriteutil.PNGBuilder{W: out}).Build(img)
package spriteutil

import (
	"bufio"
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mrjoshuak/go-jpeg2000"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/mrjoshuak/go-spritemaker/exr"
	"github.com/mrjoshuak/go-spritemaker/sprite"
)

// ===========================================
// Decoding
// ===========================================

var (
	jp2Signature = []byte{0x00, 0x00, 0x00, 0x0c, 'j', 'P', ' ', ' '}
	j2kSignature = []byte{0xff, 0x4f, 0xff, 0x51}
)

// Decode reads one layer image. The format is detected from the data.
func Decode(r io.Reader) (*sprite.PixelBuffer, error) {
	br := bufio.NewReader(r)
	head, _ := br.Peek(len(jp2Signature))

	var img image.Image
	var err error
	if bytes.HasPrefix(head, jp2Signature) || bytes.HasPrefix(head, j2kSignature) {
		img, err = jpeg2000.Decode(br)
	} else {
		img, _, err = image.Decode(br)
	}
	if err != nil {
		return nil, err
	}
	return FromImage(img), nil
}

// DecodeFile reads one layer image from path.
func DecodeFile(path string) (*sprite.PixelBuffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return buf, nil
}

// LoadLayers decodes every path, in order.
func LoadLayers(paths []string) ([]sprite.PixelSource, error) {
	layers := make([]sprite.PixelSource, 0, len(paths))
	for _, p := range paths {
		buf, err := DecodeFile(p)
		if err != nil {
			return nil, err
		}
		layers = append(layers, buf)
	}
	return layers, nil
}

// IsImageFile reports whether path has an extension Decode understands.
func IsImageFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff", ".webp",
		".jp2", ".j2k", ".j2c", ".jpx", ".exr":
		return true
	}
	return false
}

// ===========================================
// Conversion
// ===========================================

// FromImage converts img to a straight-alpha pixel buffer whose origin is
// the top-left corner of img.Bounds(). EXR images keep their float values.
func FromImage(img image.Image) *sprite.PixelBuffer {
	switch src := img.(type) {
	case *sprite.PixelBuffer:
		return src.Clone()
	case *exr.RGBAImage:
		return FromEXR(src)
	}

	b := img.Bounds()
	buf := sprite.NewPixelBuffer(b.Dx(), b.Dy())
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			buf.Pix[y*b.Dx()+x] = sprite.FromColor(img.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	return buf
}

// FromEXR converts an EXR image without clamping.
func FromEXR(img *exr.RGBAImage) *sprite.PixelBuffer {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	buf := sprite.NewPixelBuffer(w, h)
	for i := range buf.Pix {
		p := img.Pix[i*img.Stride : i*img.Stride+4]
		buf.Pix[i] = sprite.Color{R: p[0], G: p[1], B: p[2], A: p[3]}
	}
	return buf
}

// ToEXR converts buf to an EXR image without clamping.
func ToEXR(buf *sprite.PixelBuffer) *exr.RGBAImage {
	img := exr.NewRGBAImage(image.Rect(0, 0, buf.Width(), buf.Height()))
	for i, c := range buf.Pix {
		p := img.Pix[i*4 : i*4+4]
		p[0], p[1], p[2], p[3] = c.R, c.G, c.B, c.A
	}
	return img
}
