package spriteutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/mrjoshuak/go-spritemaker/sprite"
)

// ErrUnknownManifestFormat is returned for manifest files that are neither
// TOML nor YAML.
var ErrUnknownManifestFormat = errors.New("spriteutil: manifest must be .toml, .yaml or .yml")

// Manifest describes one sprite: its layers from bottom to top, and how the
// result is written.
//
// A TOML manifest looks like:
//
//	output = "knight.png"
//	scale = 4
//
//	[[layers]]
//	path = "knight_body.png"
//	tint = "#3060ff"
//
//	[[layers]]
//	path = "knight_outline.png"
type Manifest struct {
	// Output is the destination file. Its extension selects the encoder.
	Output string `toml:"output" yaml:"output"`
	// Scale is an integer upscale factor for PNG output; 0 means 1.
	Scale int `toml:"scale" yaml:"scale"`
	// Single selects the single-texture path: one layer, every visible
	// pixel tinted, point filtering.
	Single bool `toml:"single" yaml:"single"`
	// Compression names the EXR compression method.
	Compression string `toml:"compression" yaml:"compression"`
	// Layers are listed bottom to top.
	Layers []ManifestLayer `toml:"layers" yaml:"layers"`

	dir string
}

// ManifestLayer is one layer entry.
type ManifestLayer struct {
	Path string `toml:"path" yaml:"path"`
	// Tint is parsed with ParseOptionalTint.
	Tint string `toml:"tint" yaml:"tint"`
}

// LoadManifest reads a TOML or YAML manifest, chosen by file extension.
// Relative paths inside it resolve against the manifest's directory.
func LoadManifest(path string) (*Manifest, error) {
	var m Manifest
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		md, err := toml.DecodeFile(path, &m)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
		}
	case ".yaml", ".yml":
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		dec := yaml.NewDecoder(f)
		dec.KnownFields(true)
		if err := dec.Decode(&m); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("%s: %w", path, ErrUnknownManifestFormat)
	}

	m.dir = filepath.Dir(path)
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &m, nil
}

// Validate checks the manifest for structural errors. An empty layer list
// is allowed and composites to the placeholder image.
func (m *Manifest) Validate() error {
	if m.Scale < 0 {
		return fmt.Errorf("scale must not be negative, got %d", m.Scale)
	}
	if m.Single && len(m.Layers) != 1 {
		return fmt.Errorf("single sprite needs exactly one layer, got %d", len(m.Layers))
	}
	for i, l := range m.Layers {
		if l.Path == "" {
			return fmt.Errorf("layer %d has no path", i)
		}
		if _, err := ParseOptionalTint(l.Tint); err != nil {
			return fmt.Errorf("layer %d: %w", i, err)
		}
	}
	return nil
}

// Resolve returns p relative to the manifest's directory.
func (m *Manifest) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) || m.dir == "" {
		return p
	}
	return filepath.Join(m.dir, p)
}

// OutputPath returns the resolved output path.
func (m *Manifest) OutputPath() string {
	return m.Resolve(m.Output)
}

// LoadLayers loads every layer image and its tint.
func (m *Manifest) LoadLayers() ([]sprite.Layer, error) {
	layers := make([]sprite.Layer, len(m.Layers))
	for i, l := range m.Layers {
		buf, err := DecodeFile(m.Resolve(l.Path))
		if err != nil {
			return nil, err
		}
		tint, err := ParseOptionalTint(l.Tint)
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}
		layers[i] = sprite.Layer{Source: buf, Tint: tint}
	}
	return layers, nil
}

// Build loads the layers and composites them with c.
func (m *Manifest) Build(c *sprite.Compositor) (*sprite.Image, error) {
	layers, err := m.LoadLayers()
	if err != nil {
		return nil, err
	}
	return MakeSprite(c, layers, m.Single), nil
}

// MakeSprite runs the single-texture path when single is set and the
// layered path otherwise. An untinted single texture is exported as is.
func MakeSprite(c *sprite.Compositor, layers []sprite.Layer, single bool) *sprite.Image {
	if single && len(layers) == 1 {
		l := layers[0]
		if l.Tint == nil {
			return sprite.Export(sprite.BufferFromSource(l.Source), sprite.FilterPoint)
		}
		return c.Make(l.Source, *l.Tint)
	}
	return c.MakeStack(layers)
}
