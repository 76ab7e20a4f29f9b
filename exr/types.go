// Package exr reads and writes single-part scanline OpenEXR images with
// R, G, B and A channels.
//
// OpenEXR stores linear floating point pixels, which makes it a lossless
// interchange format for sprite layers and composites. This package covers
// the subset needed for that: HALF, FLOAT and UINT channels, and the NONE,
// ZIPS and ZIP compression methods. Tiled, deep and multi-part files are
// rejected with ErrUnsupportedFormat.
package exr

import (
	"errors"
	"fmt"
	"sort"

	"github.com/mrjoshuak/go-spritemaker/internal/xdr"
)

// File format errors
var (
	ErrInvalidFile          = errors.New("exr: not an OpenEXR file")
	ErrInvalidHeader        = errors.New("exr: invalid header")
	ErrUnsupportedFormat    = errors.New("exr: unsupported image format")
	ErrUnsupportedCompress  = errors.New("exr: unsupported compression")
	ErrInvalidChunk         = errors.New("exr: invalid chunk")
	ErrMissingRequiredAttr  = errors.New("exr: missing required attribute")
	ErrInvalidChannelLayout = errors.New("exr: invalid channel layout")
)

// MagicNumber is the first four bytes of every OpenEXR file.
const MagicNumber uint32 = 20000630

// Version field bits.
const (
	versionNumber    = 2
	versionFlagTiled = 0x200
	versionFlagLong  = 0x400
	versionFlagDeep  = 0x800
	versionFlagMulti = 0x1000
)

// V2i represents a 2D integer vector.
type V2i struct {
	X, Y int32
}

// V2f represents a 2D float vector.
type V2f struct {
	X, Y float32
}

// Box2i is an axis-aligned integer box. Both corners are inclusive.
type Box2i struct {
	Min, Max V2i
}

// Width returns the width of the box.
func (b Box2i) Width() int32 {
	return b.Max.X - b.Min.X + 1
}

// Height returns the height of the box.
func (b Box2i) Height() int32 {
	return b.Max.Y - b.Min.Y + 1
}

// IsEmpty reports whether the box contains no pixels.
func (b Box2i) IsEmpty() bool {
	return b.Max.X < b.Min.X || b.Max.Y < b.Min.Y
}

// Compression identifies the block compression method.
type Compression uint8

// Compression methods. Only None, ZIPS and ZIP are implemented.
const (
	CompressionNone  Compression = 0
	CompressionRLE   Compression = 1
	CompressionZIPS  Compression = 2
	CompressionZIP   Compression = 3
	CompressionPIZ   Compression = 4
	CompressionPXR24 Compression = 5
	CompressionB44   Compression = 6
	CompressionB44A  Compression = 7
	CompressionDWAA  Compression = 8
	CompressionDWAB  Compression = 9
)

var compressionNames = map[Compression]string{
	CompressionNone:  "none",
	CompressionRLE:   "rle",
	CompressionZIPS:  "zips",
	CompressionZIP:   "zip",
	CompressionPIZ:   "piz",
	CompressionPXR24: "pxr24",
	CompressionB44:   "b44",
	CompressionB44A:  "b44a",
	CompressionDWAA:  "dwaa",
	CompressionDWAB:  "dwab",
}

// String returns the lowercase method name.
func (c Compression) String() string {
	if name, ok := compressionNames[c]; ok {
		return name
	}
	return fmt.Sprintf("compression(%d)", uint8(c))
}

// ParseCompression parses a method name as returned by String.
func ParseCompression(s string) (Compression, error) {
	for c, name := range compressionNames {
		if name == s {
			return c, nil
		}
	}
	return 0, fmt.Errorf("exr: unknown compression %q", s)
}

// Supported reports whether this package can read and write c.
func (c Compression) Supported() bool {
	return c == CompressionNone || c == CompressionZIPS || c == CompressionZIP
}

// LinesPerChunk returns the number of scanlines stored in one chunk.
func (c Compression) LinesPerChunk() int {
	switch c {
	case CompressionZIP, CompressionPXR24:
		return 16
	case CompressionPIZ, CompressionB44, CompressionB44A, CompressionDWAA:
		return 32
	case CompressionDWAB:
		return 256
	default:
		return 1
	}
}

// PixelType is the storage type of a channel.
type PixelType int32

// Pixel types.
const (
	PixelTypeUint  PixelType = 0
	PixelTypeHalf  PixelType = 1
	PixelTypeFloat PixelType = 2
)

// Size returns the number of bytes per sample.
func (p PixelType) Size() int {
	if p == PixelTypeHalf {
		return 2
	}
	return 4
}

// String returns the type name.
func (p PixelType) String() string {
	switch p {
	case PixelTypeUint:
		return "uint"
	case PixelTypeHalf:
		return "half"
	case PixelTypeFloat:
		return "float"
	default:
		return fmt.Sprintf("pixeltype(%d)", int32(p))
	}
}

// LineOrder is the order in which scanline chunks are stored.
type LineOrder uint8

// Line orders.
const (
	LineOrderIncreasingY LineOrder = 0
	LineOrderDecreasingY LineOrder = 1
	LineOrderRandomY     LineOrder = 2
)

// Channel describes one image channel.
type Channel struct {
	Name      string
	Type      PixelType
	PLinear   bool
	XSampling int32
	YSampling int32
}

// ChannelList is a list of channels kept sorted by name, the order in which
// channel data is laid out inside a scanline.
type ChannelList struct {
	channels []Channel
}

// NewChannelList creates an empty channel list.
func NewChannelList() *ChannelList {
	return &ChannelList{}
}

// Add inserts ch, replacing any channel with the same name.
func (cl *ChannelList) Add(ch Channel) {
	for i := range cl.channels {
		if cl.channels[i].Name == ch.Name {
			cl.channels[i] = ch
			return
		}
	}
	cl.channels = append(cl.channels, ch)
	sort.Slice(cl.channels, func(i, j int) bool {
		return cl.channels[i].Name < cl.channels[j].Name
	})
}

// Len returns the number of channels.
func (cl *ChannelList) Len() int {
	return len(cl.channels)
}

// At returns the i-th channel in name order.
func (cl *ChannelList) At(i int) Channel {
	return cl.channels[i]
}

// Get returns the named channel, or nil.
func (cl *ChannelList) Get(name string) *Channel {
	for i := range cl.channels {
		if cl.channels[i].Name == name {
			return &cl.channels[i]
		}
	}
	return nil
}

// BytesPerPixel returns the size of one pixel across all channels.
func (cl *ChannelList) BytesPerPixel() int {
	n := 0
	for _, ch := range cl.channels {
		n += ch.Type.Size()
	}
	return n
}

func writeChannelList(w *xdr.BufferWriter, cl *ChannelList) {
	for _, ch := range cl.channels {
		w.WriteString(ch.Name)
		w.WriteInt32(int32(ch.Type))
		if ch.PLinear {
			w.WriteByte(1)
		} else {
			w.WriteByte(0)
		}
		w.WriteBytes([]byte{0, 0, 0})
		w.WriteInt32(ch.XSampling)
		w.WriteInt32(ch.YSampling)
	}
	w.WriteByte(0)
}

func readChannelList(r *xdr.Reader) (*ChannelList, error) {
	cl := NewChannelList()
	for {
		name, err := r.ReadString()
		if err != nil {
			return nil, err
		}
		if name == "" {
			return cl, nil
		}
		var ch Channel
		ch.Name = name
		pt, err := r.ReadInt32()
		if err != nil {
			return nil, err
		}
		ch.Type = PixelType(pt)
		flags, err := r.Next(4)
		if err != nil {
			return nil, err
		}
		ch.PLinear = flags[0] != 0
		if ch.XSampling, err = r.ReadInt32(); err != nil {
			return nil, err
		}
		if ch.YSampling, err = r.ReadInt32(); err != nil {
			return nil, err
		}
		cl.Add(ch)
	}
}

func writeBox2i(w *xdr.BufferWriter, b Box2i) {
	w.WriteInt32(b.Min.X)
	w.WriteInt32(b.Min.Y)
	w.WriteInt32(b.Max.X)
	w.WriteInt32(b.Max.Y)
}

func readBox2i(r *xdr.Reader) (Box2i, error) {
	var v [4]int32
	for i := range v {
		x, err := r.ReadInt32()
		if err != nil {
			return Box2i{}, err
		}
		v[i] = x
	}
	return Box2i{Min: V2i{v[0], v[1]}, Max: V2i{v[2], v[3]}}, nil
}

func writeV2f(w *xdr.BufferWriter, v V2f) {
	w.WriteFloat32(v.X)
	w.WriteFloat32(v.Y)
}

func readV2f(r *xdr.Reader) (V2f, error) {
	var v V2f
	var err error
	if v.X, err = r.ReadFloat32(); err != nil {
		return v, err
	}
	v.Y, err = r.ReadFloat32()
	return v, err
}
