// Package exrmeta provides typed accessors for the OpenEXR header attributes
// that describe how a sprite texture is sampled and where it came from.
//
// All functions operate on *exr.Header.
//
// Example usage:
//
//	h := exr.NewRGBAHeader(64, 64, exr.PixelTypeHalf)
//	exrmeta.SetWrapModes(h, exrmeta.WrapModes{Horizontal: exrmeta.WrapClamp, Vertical: exrmeta.WrapClamp})
//	exrmeta.SetPivot(h, exr.V2f{X: 0.5, Y: 0.5})
//	exrmeta.SetOwner(h, "Studio XYZ")
package exrmeta

import (
	"strings"

	"github.com/mrjoshuak/go-spritemaker/exr"
)

// Attribute names
const (
	// Production metadata
	AttrOwner    = "owner"
	AttrComments = "comments"
	AttrCapDate  = "capDate"

	// Texture sampling
	AttrWrapModes = "wrapmodes"
	AttrPivot     = "pivot"
	AttrFilter    = "filter"
)

// ===========================================
// Wrap Modes
// ===========================================

// WrapMode specifies texture wrapping behavior.
type WrapMode uint8

const (
	WrapClamp  WrapMode = 0 // Clamp to edge
	WrapRepeat WrapMode = 1 // Tile/repeat
	WrapBlack  WrapMode = 2 // Black outside bounds
	WrapMirror WrapMode = 3 // Mirror at edges
)

var wrapModeNames = []string{"clamp", "periodic", "black", "mirror"}

// String returns the name used in the wrapmodes attribute.
func (w WrapMode) String() string {
	if int(w) < len(wrapModeNames) {
		return wrapModeNames[w]
	}
	return "unknown"
}

// WrapModes specifies horizontal and vertical wrap modes.
type WrapModes struct {
	Horizontal WrapMode
	Vertical   WrapMode
}

// SetWrapModes sets the texture wrap modes.
// They are stored as the string "horizontal,vertical".
func SetWrapModes(h *exr.Header, w WrapModes) error {
	return h.SetStringAttribute(AttrWrapModes, w.Horizontal.String()+","+w.Vertical.String())
}

// GetWrapModes returns the texture wrap modes.
// Returns nil if not set or not parseable.
func GetWrapModes(h *exr.Header) *WrapModes {
	s, ok := h.StringAttribute(AttrWrapModes)
	if !ok {
		return nil
	}
	return parseWrapModes(s)
}

func parseWrapModes(s string) *WrapModes {
	hName, vName, ok := strings.Cut(s, ",")
	if !ok {
		return nil
	}
	hMode, hOK := parseWrapMode(hName)
	vMode, vOK := parseWrapMode(vName)
	if !hOK || !vOK {
		return nil
	}
	return &WrapModes{Horizontal: hMode, Vertical: vMode}
}

func parseWrapMode(s string) (WrapMode, bool) {
	for i, name := range wrapModeNames {
		if name == s {
			return WrapMode(i), true
		}
	}
	return 0, false
}

// ===========================================
// Sampling
// ===========================================

// SetPivot sets the pivot, as a fraction of the image size.
func SetPivot(h *exr.Header, p exr.V2f) error {
	return h.SetV2fAttribute(AttrPivot, p)
}

// Pivot returns the pivot and whether it was set.
func Pivot(h *exr.Header) (exr.V2f, bool) {
	return h.V2fAttribute(AttrPivot)
}

// SetFilter sets the filter mode name, such as "point" or "smooth".
func SetFilter(h *exr.Header, filter string) error {
	return h.SetStringAttribute(AttrFilter, filter)
}

// Filter returns the filter mode name, or empty string if not set.
func Filter(h *exr.Header) string {
	return getString(h, AttrFilter)
}

// ===========================================
// Production Metadata
// ===========================================

// SetOwner sets the file owner/creator.
func SetOwner(h *exr.Header, owner string) error {
	return h.SetStringAttribute(AttrOwner, owner)
}

// Owner returns the file owner/creator, or empty string if not set.
func Owner(h *exr.Header) string {
	return getString(h, AttrOwner)
}

// SetComments sets the file comments.
func SetComments(h *exr.Header, comments string) error {
	return h.SetStringAttribute(AttrComments, comments)
}

// Comments returns the file comments, or empty string if not set.
func Comments(h *exr.Header) string {
	return getString(h, AttrComments)
}

// SetCapDate sets the creation date, formatted "YYYY:MM:DD hh:mm:ss".
func SetCapDate(h *exr.Header, date string) error {
	return h.SetStringAttribute(AttrCapDate, date)
}

// CapDate returns the creation date, or empty string if not set.
func CapDate(h *exr.Header) string {
	return getString(h, AttrCapDate)
}

func getString(h *exr.Header, name string) string {
	s, _ := h.StringAttribute(name)
	return s
}
