package spriteutil

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"

	"github.com/mrjoshuak/go-spritemaker/sprite"
)

// ParseTint parses a tint color. Accepted forms are:
//
//	#rgb, #rrggbb, #rrggbbaa   hex, alpha defaults to 1
//	r,g,b or r,g,b,a           floats, alpha defaults to 1
//	red, steelblue, ...        SVG 1.1 color keywords
func ParseTint(s string) (sprite.Color, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return sprite.Color{}, fmt.Errorf("spriteutil: empty tint")
	case strings.HasPrefix(s, "#"):
		return parseHexTint(s)
	case strings.Contains(s, ","):
		return parseFloatTint(s)
	}
	c, ok := colornames.Map[strings.ToLower(s)]
	if !ok {
		return sprite.Color{}, fmt.Errorf("spriteutil: unknown color name %q", s)
	}
	return sprite.FromColor(c), nil
}

// ParseOptionalTint is ParseTint, except that "" and "none" mean no tint.
func ParseOptionalTint(s string) (*sprite.Color, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "none") {
		return nil, nil
	}
	c, err := ParseTint(s)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func parseHexTint(s string) (sprite.Color, error) {
	alpha := float32(1)
	if len(s) == 9 {
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return sprite.Color{}, fmt.Errorf("spriteutil: invalid alpha in %q", s)
		}
		alpha = float32(a) / 255
		s = s[:7]
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return sprite.Color{}, fmt.Errorf("spriteutil: %w", err)
	}
	return sprite.Color{R: float32(c.R), G: float32(c.G), B: float32(c.B), A: alpha}, nil
}

func parseFloatTint(s string) (sprite.Color, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 && len(parts) != 4 {
		return sprite.Color{}, fmt.Errorf("spriteutil: tint %q needs 3 or 4 components", s)
	}
	v := [4]float32{3: 1}
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return sprite.Color{}, fmt.Errorf("spriteutil: tint %q: %w", s, err)
		}
		v[i] = float32(f)
	}
	return sprite.Color{R: v[0], G: v[1], B: v[2], A: v[3]}, nil
}
