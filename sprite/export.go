package sprite

// FilterMode selects how a host samples the exported image.
type FilterMode int

const (
	// FilterPoint samples the nearest texel.
	FilterPoint FilterMode = iota
	// FilterSmooth interpolates between texels.
	FilterSmooth
)

// String returns the filter name.
func (f FilterMode) String() string {
	switch f {
	case FilterPoint:
		return "point"
	case FilterSmooth:
		return "smooth"
	default:
		return "unknown"
	}
}

// WrapMode selects how a host samples outside the image.
type WrapMode int

const (
	// WrapClamp repeats the edge texels.
	WrapClamp WrapMode = iota
)

// String returns the wrap mode name.
func (w WrapMode) String() string {
	if w == WrapClamp {
		return "clamp"
	}
	return "unknown"
}

// Point is a position expressed as a fraction of the image size.
type Point struct {
	X, Y float32
}

// DefaultPivot is the center of the image.
var DefaultPivot = Point{X: 0.5, Y: 0.5}

// Image is a finished composite together with the metadata a host needs to
// turn it into a drawable resource.
type Image struct {
	Buffer *PixelBuffer
	Pivot  Point
	Wrap   WrapMode
	Filter FilterMode
}

// Width returns the image width.
func (img *Image) Width() int {
	return img.Buffer.Width()
}

// Height returns the image height.
func (img *Image) Height() int {
	return img.Buffer.Height()
}

// ResourceBuilder turns an exported Image into a host resource, such as a
// texture upload or an encoded file.
type ResourceBuilder interface {
	Build(img *Image) error
}

// Export wraps buf with a centered pivot, clamped wrapping and the given
// filter mode. The buffer is not copied or clamped.
func Export(buf *PixelBuffer, filter FilterMode) *Image {
	return &Image{
		Buffer: buf,
		Pivot:  DefaultPivot,
		Wrap:   WrapClamp,
		Filter: filter,
	}
}
