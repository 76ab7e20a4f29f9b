package exr

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"io"
	"math"
	"os"

	"github.com/mrjoshuak/go-spritemaker/compression"
	"github.com/mrjoshuak/go-spritemaker/half"
	"github.com/mrjoshuak/go-spritemaker/internal/xdr"
)

// maxImagePixels bounds the data window accepted by the decoder.
const maxImagePixels = 1 << 28

func init() {
	image.RegisterFormat("exr", "v/1\x01", decodeImage, decodeConfig)
}

// RGBAImage is a floating point image with straight (non-premultiplied)
// alpha.
type RGBAImage struct {
	// Pix holds the image's pixels in RGBA order. Values are linear and may
	// exceed [0, 1].
	Pix []float32
	// Stride is the number of Pix elements per pixel (always 4).
	Stride int
	// Rect is the image's bounds.
	Rect image.Rectangle
}

// NewRGBAImage creates a new RGBA image with the given bounds.
func NewRGBAImage(r image.Rectangle) *RGBAImage {
	w, h := r.Dx(), r.Dy()
	return &RGBAImage{
		Pix:    make([]float32, w*h*4),
		Stride: 4,
		Rect:   r,
	}
}

// Bounds returns the domain for which At can return non-zero color.
func (img *RGBAImage) Bounds() image.Rectangle {
	return img.Rect
}

// ColorModel returns the Image's color model.
func (img *RGBAImage) ColorModel() color.Model {
	return color.NRGBA64Model
}

// At returns the color of the pixel at (x, y), clamped to [0, 1].
func (img *RGBAImage) At(x, y int) color.Color {
	if !(image.Point{x, y}.In(img.Rect)) {
		return color.NRGBA64{}
	}
	i := img.PixOffset(x, y)
	return color.NRGBA64{
		R: to16(img.Pix[i+0]),
		G: to16(img.Pix[i+1]),
		B: to16(img.Pix[i+2]),
		A: to16(img.Pix[i+3]),
	}
}

// PixOffset returns the index of the first element of Pix for pixel (x, y).
func (img *RGBAImage) PixOffset(x, y int) int {
	return (y-img.Rect.Min.Y)*img.Rect.Dx()*img.Stride + (x-img.Rect.Min.X)*img.Stride
}

// SetRGBA sets the pixel at (x, y) to the given values.
func (img *RGBAImage) SetRGBA(x, y int, r, g, b, a float32) {
	if !(image.Point{x, y}.In(img.Rect)) {
		return
	}
	i := img.PixOffset(x, y)
	img.Pix[i+0] = r
	img.Pix[i+1] = g
	img.Pix[i+2] = b
	img.Pix[i+3] = a
}

// RGBA returns the RGBA values at (x, y).
func (img *RGBAImage) RGBA(x, y int) (r, g, b, a float32) {
	if !(image.Point{x, y}.In(img.Rect)) {
		return 0, 0, 0, 0
	}
	i := img.PixOffset(x, y)
	return img.Pix[i+0], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3]
}

func to16(v float32) uint16 {
	if !(v > 0) {
		return 0
	}
	if v >= 1 {
		return 0xffff
	}
	return uint16(v*0xffff + 0.5)
}

// component maps a channel name to its index in an RGBA pixel, or -1.
func component(name string) int {
	switch name {
	case "R":
		return 0
	case "G":
		return 1
	case "B":
		return 2
	case "A":
		return 3
	}
	return -1
}

// Encode writes img with half-float RGBA channels and ZIP compression.
func Encode(w io.Writer, img *RGBAImage) error {
	return EncodeWithHeader(w, img, nil)
}

// EncodeWithHeader writes img using h for the channel layout, compression
// and extra attributes. The data window of h must have the same size as
// img. A nil header behaves like Encode.
func EncodeWithHeader(w io.Writer, img *RGBAImage, h *Header) error {
	if img == nil {
		return fmt.Errorf("exr: nil image")
	}
	width, height := img.Rect.Dx(), img.Rect.Dy()
	if h == nil {
		h = NewRGBAHeader(width, height, PixelTypeHalf)
	}
	if err := h.Validate(); err != nil {
		return err
	}
	if h.Width() != width || h.Height() != height {
		return fmt.Errorf("%w: data window %dx%d does not match image %dx%d",
			ErrInvalidHeader, h.Width(), h.Height(), width, height)
	}

	lines := h.Compression().LinesPerChunk()
	chunks := h.ChunkCount()
	lineSize := width * h.Channels().BytesPerPixel()

	buf := xdr.NewBufferWriter(1024 + height*lineSize)
	writeHeader(buf, h)
	table := buf.Len()
	for i := 0; i < chunks; i++ {
		buf.WriteUint64(0)
	}

	minY := int(h.DataWindow().Min.Y)
	raw := make([]byte, lines*lineSize)
	for i := 0; i < chunks; i++ {
		row := i * lines
		n := min(lines, height-row)
		block := raw[:n*lineSize]
		packLines(block, img, h.Channels(), row, n)

		data, err := compressChunk(h.Compression(), block)
		if err != nil {
			return fmt.Errorf("exr: chunk %d: %w", i, err)
		}
		if err := buf.PutUint64At(table+8*i, uint64(buf.Len())); err != nil {
			return err
		}
		buf.WriteInt32(int32(minY + row))
		buf.WriteInt32(int32(len(data)))
		buf.WriteBytes(data)
	}

	_, err := w.Write(buf.Bytes())
	return err
}

// EncodeFile writes img to path with Encode.
func EncodeFile(path string, img *RGBAImage) error {
	return EncodeFileWithHeader(path, img, nil)
}

// EncodeFileWithHeader writes img to path with EncodeWithHeader.
func EncodeFileWithHeader(path string, img *RGBAImage, h *Header) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := EncodeWithHeader(f, img, h); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// packLines writes n scanlines of img starting at image row into dst,
// channel by channel in list order.
func packLines(dst []byte, img *RGBAImage, cl *ChannelList, row, n int) {
	width := img.Rect.Dx()
	off := 0
	for y := row; y < row+n; y++ {
		base := y * width * img.Stride
		for c := 0; c < cl.Len(); c++ {
			ch := cl.At(c)
			comp := component(ch.Name)
			for x := 0; x < width; x++ {
				var v float32
				if comp >= 0 {
					v = img.Pix[base+x*img.Stride+comp]
				}
				off += putSample(dst[off:], ch.Type, v)
			}
		}
	}
}

func putSample(dst []byte, pt PixelType, v float32) int {
	switch pt {
	case PixelTypeHalf:
		xdr.ByteOrder.PutUint16(dst, uint16(half.FromFloat32(v)))
		return 2
	case PixelTypeFloat:
		xdr.ByteOrder.PutUint32(dst, math.Float32bits(v))
		return 4
	default:
		var u uint32
		if v > 0 {
			u = uint32(min(float64(v), math.MaxUint32))
		}
		xdr.ByteOrder.PutUint32(dst, u)
		return 4
	}
}

func getSample(src []byte, pt PixelType) (float32, int) {
	switch pt {
	case PixelTypeHalf:
		return half.Half(xdr.ByteOrder.Uint16(src)).Float32(), 2
	case PixelTypeFloat:
		return math.Float32frombits(xdr.ByteOrder.Uint32(src)), 4
	default:
		return float32(xdr.ByteOrder.Uint32(src)), 4
	}
}

// compressChunk compresses one chunk. Data that does not shrink is stored
// uncompressed, which readers detect by its size.
func compressChunk(c Compression, raw []byte) ([]byte, error) {
	if c == CompressionNone {
		return raw, nil
	}
	out, err := compression.EncodeZIPBlock(raw)
	if err != nil {
		return nil, err
	}
	if len(out) >= len(raw) {
		return raw, nil
	}
	return out, nil
}

func decompressChunk(c Compression, data []byte, size int) ([]byte, error) {
	if len(data) == size {
		return data, nil
	}
	if c == CompressionNone {
		return nil, fmt.Errorf("%w: size %d, want %d", ErrInvalidChunk, len(data), size)
	}
	return compression.DecodeZIPBlock(data, size)
}

// Decode reads an OpenEXR image. Channels other than R, G, B and A are
// ignored; a missing A channel reads as fully opaque.
func Decode(r io.Reader) (*RGBAImage, *Header, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, err
	}
	return decodeBytes(data)
}

// DecodeFile reads an OpenEXR image from path.
func DecodeFile(path string) (*RGBAImage, *Header, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	img, h, err := decodeBytes(data)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, h, nil
}

// DecodeHeader reads only the header of an OpenEXR image.
func DecodeHeader(r io.Reader) (*Header, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return parseHeader(xdr.NewReader(data))
}

func parseHeader(rd *xdr.Reader) (*Header, error) {
	h, err := readHeader(rd)
	if err != nil {
		return nil, err
	}
	if err := h.Validate(); err != nil {
		return nil, err
	}
	if int64(h.Width())*int64(h.Height()) > maxImagePixels {
		return nil, fmt.Errorf("%w: %dx%d image is too large", ErrUnsupportedFormat, h.Width(), h.Height())
	}
	return h, nil
}

func decodeBytes(data []byte) (*RGBAImage, *Header, error) {
	rd := xdr.NewReader(data)
	h, err := parseHeader(rd)
	if err != nil {
		return nil, nil, err
	}

	chunks := h.ChunkCount()
	offsets := make([]uint64, chunks)
	for i := range offsets {
		if offsets[i], err = rd.ReadUint64(); err != nil {
			return nil, nil, fmt.Errorf("%w: offset table: %v", ErrInvalidChunk, err)
		}
	}

	img := NewRGBAImage(h.Bounds())
	if h.Channels().Get("A") == nil {
		for i := 3; i < len(img.Pix); i += 4 {
			img.Pix[i] = 1
		}
	}

	dw := h.DataWindow()
	lines := h.Compression().LinesPerChunk()
	lineSize := h.Width() * h.Channels().BytesPerPixel()
	for i, off := range offsets {
		if off == 0 || off >= uint64(len(data)) {
			return nil, nil, fmt.Errorf("%w: chunk %d offset %d", ErrInvalidChunk, i, off)
		}
		cr := xdr.NewReader(data[off:])
		y, err := cr.ReadInt32()
		if err != nil {
			return nil, nil, fmt.Errorf("%w: chunk %d: %v", ErrInvalidChunk, i, err)
		}
		size, err := cr.ReadInt32()
		if err != nil {
			return nil, nil, fmt.Errorf("%w: chunk %d: %v", ErrInvalidChunk, i, err)
		}
		if y < dw.Min.Y || y > dw.Max.Y || int(y-dw.Min.Y)%lines != 0 || size < 0 {
			return nil, nil, fmt.Errorf("%w: chunk %d at line %d", ErrInvalidChunk, i, y)
		}
		payload, err := cr.Next(int(size))
		if err != nil {
			return nil, nil, fmt.Errorf("%w: chunk %d: %v", ErrInvalidChunk, i, err)
		}

		row := int(y - dw.Min.Y)
		n := min(lines, h.Height()-row)
		raw, err := decompressChunk(h.Compression(), payload, n*lineSize)
		if err != nil {
			return nil, nil, fmt.Errorf("exr: chunk %d: %w", i, err)
		}
		unpackLines(img, raw, h.Channels(), row, n)
	}
	return img, h, nil
}

// unpackLines is the inverse of packLines.
func unpackLines(img *RGBAImage, src []byte, cl *ChannelList, row, n int) {
	width := img.Rect.Dx()
	off := 0
	for y := row; y < row+n; y++ {
		base := y * width * img.Stride
		for c := 0; c < cl.Len(); c++ {
			ch := cl.At(c)
			comp := component(ch.Name)
			for x := 0; x < width; x++ {
				v, sz := getSample(src[off:], ch.Type)
				off += sz
				if comp >= 0 {
					img.Pix[base+x*img.Stride+comp] = v
				}
			}
		}
	}
}

func decodeImage(r io.Reader) (image.Image, error) {
	img, _, err := Decode(r)
	if err != nil {
		return nil, err
	}
	return img, nil
}

func decodeConfig(r io.Reader) (image.Config, error) {
	h, err := DecodeHeader(r)
	if err != nil {
		return image.Config{}, err
	}
	return image.Config{ColorModel: color.NRGBA64Model, Width: h.Width(), Height: h.Height()}, nil
}

// Sniff reports whether data starts with the OpenEXR magic number.
func Sniff(data []byte) bool {
	return bytes.HasPrefix(data, []byte("v/1\x01"))
}
