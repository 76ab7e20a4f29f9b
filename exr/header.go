package exr

import (
	"fmt"
	"image"
	"sort"

	"github.com/mrjoshuak/go-spritemaker/internal/xdr"
)

// Attribute type names.
const (
	AttrTypeBox2i       = "box2i"
	AttrTypeChlist      = "chlist"
	AttrTypeCompression = "compression"
	AttrTypeFloat       = "float"
	AttrTypeLineOrder   = "lineOrder"
	AttrTypeString      = "string"
	AttrTypeV2f         = "v2f"
)

// Standard attribute names.
const (
	AttrChannels           = "channels"
	AttrCompression        = "compression"
	AttrDataWindow         = "dataWindow"
	AttrDisplayWindow      = "displayWindow"
	AttrLineOrder          = "lineOrder"
	AttrPixelAspectRatio   = "pixelAspectRatio"
	AttrScreenWindowCenter = "screenWindowCenter"
	AttrScreenWindowWidth  = "screenWindowWidth"
)

// Attribute is a header attribute that is not one of the required ones.
// Value holds the raw encoded bytes.
type Attribute struct {
	Name  string
	Type  string
	Value []byte
}

// Header describes a single-part scanline image.
type Header struct {
	channels           *ChannelList
	compression        Compression
	dataWindow         Box2i
	displayWindow      Box2i
	lineOrder          LineOrder
	pixelAspectRatio   float32
	screenWindowCenter V2f
	screenWindowWidth  float32

	attrs map[string]Attribute
}

// NewScanlineHeader returns a header for a width x height image with no
// channels and ZIP compression.
func NewScanlineHeader(width, height int) *Header {
	win := Box2i{Max: V2i{int32(width) - 1, int32(height) - 1}}
	return &Header{
		channels:          NewChannelList(),
		compression:       CompressionZIP,
		dataWindow:        win,
		displayWindow:     win,
		pixelAspectRatio:  1,
		screenWindowWidth: 1,
		attrs:             make(map[string]Attribute),
	}
}

// NewRGBAHeader returns a scanline header with R, G, B and A channels of
// type pt.
func NewRGBAHeader(width, height int, pt PixelType) *Header {
	h := NewScanlineHeader(width, height)
	for _, name := range []string{"R", "G", "B", "A"} {
		h.channels.Add(Channel{Name: name, Type: pt, XSampling: 1, YSampling: 1})
	}
	return h
}

// Channels returns the channel list.
func (h *Header) Channels() *ChannelList { return h.channels }

// SetChannels replaces the channel list.
func (h *Header) SetChannels(cl *ChannelList) { h.channels = cl }

// Compression returns the compression method.
func (h *Header) Compression() Compression { return h.compression }

// SetCompression sets the compression method.
func (h *Header) SetCompression(c Compression) { h.compression = c }

// LineOrder returns the chunk line order.
func (h *Header) LineOrder() LineOrder { return h.lineOrder }

// SetLineOrder sets the chunk line order.
func (h *Header) SetLineOrder(o LineOrder) { h.lineOrder = o }

func (h *Header) DataWindow() Box2i          { return h.dataWindow }
func (h *Header) DisplayWindow() Box2i       { return h.displayWindow }
func (h *Header) PixelAspectRatio() float32  { return h.pixelAspectRatio }
func (h *Header) ScreenWindowCenter() V2f    { return h.screenWindowCenter }
func (h *Header) ScreenWindowWidth() float32 { return h.screenWindowWidth }

// SetDataWindow sets the data window. The display window is left alone.
func (h *Header) SetDataWindow(b Box2i) { h.dataWindow = b }

// SetDisplayWindow sets the display window.
func (h *Header) SetDisplayWindow(b Box2i) { h.displayWindow = b }

// Width returns the data window width.
func (h *Header) Width() int { return int(h.dataWindow.Width()) }

// Height returns the data window height.
func (h *Header) Height() int { return int(h.dataWindow.Height()) }

// Bounds returns the data window as a half-open image rectangle.
func (h *Header) Bounds() image.Rectangle {
	dw := h.dataWindow
	return image.Rect(int(dw.Min.X), int(dw.Min.Y), int(dw.Max.X)+1, int(dw.Max.Y)+1)
}

// Attribute returns a non-required attribute by name.
func (h *Header) Attribute(name string) (Attribute, bool) {
	a, ok := h.attrs[name]
	return a, ok
}

// Attributes returns the non-required attributes sorted by name.
func (h *Header) Attributes() []Attribute {
	out := make([]Attribute, 0, len(h.attrs))
	for _, a := range h.attrs {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// SetAttribute stores a raw attribute. Required attribute names are
// rejected; use the typed setters for those.
func (h *Header) SetAttribute(a Attribute) error {
	if isRequired(a.Name) {
		return fmt.Errorf("exr: %q is a required attribute", a.Name)
	}
	if a.Name == "" || a.Type == "" {
		return fmt.Errorf("exr: attribute needs a name and a type")
	}
	if h.attrs == nil {
		h.attrs = make(map[string]Attribute)
	}
	h.attrs[a.Name] = a
	return nil
}

// SetStringAttribute stores a string attribute.
func (h *Header) SetStringAttribute(name, value string) error {
	return h.SetAttribute(Attribute{Name: name, Type: AttrTypeString, Value: []byte(value)})
}

// StringAttribute returns a string attribute.
func (h *Header) StringAttribute(name string) (string, bool) {
	a, ok := h.attrs[name]
	if !ok || a.Type != AttrTypeString {
		return "", false
	}
	return string(a.Value), true
}

// SetV2fAttribute stores a v2f attribute.
func (h *Header) SetV2fAttribute(name string, v V2f) error {
	w := xdr.NewBufferWriter(8)
	writeV2f(w, v)
	return h.SetAttribute(Attribute{Name: name, Type: AttrTypeV2f, Value: w.Bytes()})
}

// V2fAttribute returns a v2f attribute.
func (h *Header) V2fAttribute(name string) (V2f, bool) {
	a, ok := h.attrs[name]
	if !ok || a.Type != AttrTypeV2f {
		return V2f{}, false
	}
	v, err := readV2f(xdr.NewReader(a.Value))
	if err != nil {
		return V2f{}, false
	}
	return v, true
}

func isRequired(name string) bool {
	switch name {
	case AttrChannels, AttrCompression, AttrDataWindow, AttrDisplayWindow,
		AttrLineOrder, AttrPixelAspectRatio, AttrScreenWindowCenter, AttrScreenWindowWidth:
		return true
	}
	return false
}

// Validate checks that the header can be written by this package.
func (h *Header) Validate() error {
	if h.dataWindow.IsEmpty() || h.displayWindow.IsEmpty() {
		return fmt.Errorf("%w: empty window", ErrInvalidHeader)
	}
	if h.channels == nil || h.channels.Len() == 0 {
		return fmt.Errorf("%w: no channels", ErrInvalidChannelLayout)
	}
	for i := 0; i < h.channels.Len(); i++ {
		ch := h.channels.At(i)
		if ch.XSampling != 1 || ch.YSampling != 1 {
			return fmt.Errorf("%w: channel %s is subsampled", ErrUnsupportedFormat, ch.Name)
		}
		if ch.Type < PixelTypeUint || ch.Type > PixelTypeFloat {
			return fmt.Errorf("%w: channel %s has pixel type %v", ErrInvalidChannelLayout, ch.Name, ch.Type)
		}
	}
	if !h.compression.Supported() {
		return fmt.Errorf("%w: %v", ErrUnsupportedCompress, h.compression)
	}
	return nil
}

// ChunkCount returns the number of scanline chunks in the image.
func (h *Header) ChunkCount() int {
	lines := h.compression.LinesPerChunk()
	return (h.Height() + lines - 1) / lines
}

func writeAttr(w *xdr.BufferWriter, name, typ string, value []byte) {
	w.WriteString(name)
	w.WriteString(typ)
	w.WriteInt32(int32(len(value)))
	w.WriteBytes(value)
}

// writeHeader writes the magic number, version field and attributes.
func writeHeader(w *xdr.BufferWriter, h *Header) {
	w.WriteUint32(MagicNumber)
	w.WriteUint32(versionNumber)

	v := xdr.NewBufferWriter(64)
	writeChannelList(v, h.channels)
	writeAttr(w, AttrChannels, AttrTypeChlist, v.Bytes())

	writeAttr(w, AttrCompression, AttrTypeCompression, []byte{byte(h.compression)})

	v = xdr.NewBufferWriter(16)
	writeBox2i(v, h.dataWindow)
	writeAttr(w, AttrDataWindow, AttrTypeBox2i, v.Bytes())

	v = xdr.NewBufferWriter(16)
	writeBox2i(v, h.displayWindow)
	writeAttr(w, AttrDisplayWindow, AttrTypeBox2i, v.Bytes())

	writeAttr(w, AttrLineOrder, AttrTypeLineOrder, []byte{byte(h.lineOrder)})

	v = xdr.NewBufferWriter(4)
	v.WriteFloat32(h.pixelAspectRatio)
	writeAttr(w, AttrPixelAspectRatio, AttrTypeFloat, v.Bytes())

	v = xdr.NewBufferWriter(8)
	writeV2f(v, h.screenWindowCenter)
	writeAttr(w, AttrScreenWindowCenter, AttrTypeV2f, v.Bytes())

	v = xdr.NewBufferWriter(4)
	v.WriteFloat32(h.screenWindowWidth)
	writeAttr(w, AttrScreenWindowWidth, AttrTypeFloat, v.Bytes())

	for _, a := range h.Attributes() {
		writeAttr(w, a.Name, a.Type, a.Value)
	}
	w.WriteByte(0)
}

// readHeader parses the magic number, version field and attributes.
func readHeader(r *xdr.Reader) (*Header, error) {
	magic, err := r.ReadUint32()
	if err != nil || magic != MagicNumber {
		return nil, ErrInvalidFile
	}
	version, err := r.ReadUint32()
	if err != nil {
		return nil, ErrInvalidFile
	}
	if version&0xff != versionNumber {
		return nil, fmt.Errorf("%w: version %d", ErrUnsupportedFormat, version&0xff)
	}
	switch {
	case version&versionFlagMulti != 0:
		return nil, fmt.Errorf("%w: multi-part file", ErrUnsupportedFormat)
	case version&versionFlagDeep != 0:
		return nil, fmt.Errorf("%w: deep data", ErrUnsupportedFormat)
	case version&versionFlagTiled != 0:
		return nil, fmt.Errorf("%w: tiled image", ErrUnsupportedFormat)
	}

	h := &Header{attrs: make(map[string]Attribute)}
	seen := make(map[string]bool)
	for {
		name, err := r.ReadString()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidHeader, err)
		}
		if name == "" {
			break
		}
		typ, err := r.ReadString()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidHeader, err)
		}
		size, err := r.ReadInt32()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidHeader, err)
		}
		if size < 0 {
			return nil, fmt.Errorf("%w: attribute %s has negative size", ErrInvalidHeader, name)
		}
		value, err := r.Next(int(size))
		if err != nil {
			return nil, fmt.Errorf("%w: attribute %s: %v", ErrInvalidHeader, name, err)
		}
		if err := h.parseAttr(name, typ, value); err != nil {
			return nil, err
		}
		seen[name] = true
	}

	for _, name := range []string{AttrChannels, AttrCompression, AttrDataWindow, AttrDisplayWindow} {
		if !seen[name] {
			return nil, fmt.Errorf("%w: %s", ErrMissingRequiredAttr, name)
		}
	}
	if !seen[AttrPixelAspectRatio] {
		h.pixelAspectRatio = 1
	}
	if !seen[AttrScreenWindowWidth] {
		h.screenWindowWidth = 1
	}
	return h, nil
}

func (h *Header) parseAttr(name, typ string, value []byte) error {
	vr := xdr.NewReader(value)
	var err error
	switch name {
	case AttrChannels:
		h.channels, err = readChannelList(vr)
	case AttrCompression:
		if len(value) != 1 {
			err = xdr.ErrShortBuffer
			break
		}
		h.compression = Compression(value[0])
	case AttrDataWindow:
		h.dataWindow, err = readBox2i(vr)
	case AttrDisplayWindow:
		h.displayWindow, err = readBox2i(vr)
	case AttrLineOrder:
		if len(value) != 1 {
			err = xdr.ErrShortBuffer
			break
		}
		h.lineOrder = LineOrder(value[0])
	case AttrPixelAspectRatio:
		h.pixelAspectRatio, err = vr.ReadFloat32()
	case AttrScreenWindowCenter:
		h.screenWindowCenter, err = readV2f(vr)
	case AttrScreenWindowWidth:
		h.screenWindowWidth, err = vr.ReadFloat32()
	default:
		h.attrs[name] = Attribute{Name: name, Type: typ, Value: append([]byte(nil), value...)}
	}
	if err != nil {
		return fmt.Errorf("%w: attribute %s: %v", ErrInvalidHeader, name, err)
	}
	return nil
}
