// spritemaker composites layered sprite images.
//
// Layers are given bottom to top. Every layer is centered on the first
// one, cropped or padded to its size, optionally tinted, and blended onto
// the canvas. The result is written as PNG or OpenEXR depending on the
// output extension.
//
// Usage:
//
//	spritemaker [options] layer [layer ...]
//	spritemaker [options] -manifest sprite.toml
//
// Options:
//
//	-o <file>       output file (.png or .exr) - default: sprite.png
//	-tint <color>   tint for the next layer; repeat per layer, "none" skips
//	-single         tint every visible pixel of a single layer, point filtered
//	-scale <n>      integer upscale factor for PNG output
//	-c <type>       EXR compression (none, zips, zip) - default: zip
//	-blend <op>     blend operator (normal, over) - default: normal
//	-j <n>          blend worker count, -1 for one per CPU
//	-manifest <f>   read layers and output settings from a TOML or YAML file
//	-v              verbose output
//	-version        show version information
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/mrjoshuak/go-spritemaker/exr"
	"github.com/mrjoshuak/go-spritemaker/sprite"
	"github.com/mrjoshuak/go-spritemaker/spriteutil"
)

const version = "1.0.0"

var errUsage = errors.New("usage")

// tintList collects repeated -tint flags.
type tintList []*sprite.Color

func (t *tintList) String() string {
	parts := make([]string, len(*t))
	for i, c := range *t {
		if c == nil {
			parts[i] = "none"
		} else {
			parts[i] = fmt.Sprintf("%g,%g,%g,%g", c.R, c.G, c.B, c.A)
		}
	}
	return strings.Join(parts, " ")
}

func (t *tintList) Set(s string) error {
	c, err := spriteutil.ParseOptionalTint(s)
	if err != nil {
		return err
	}
	*t = append(*t, c)
	return nil
}

type config struct {
	output      string
	tints       tintList
	single      bool
	scale       int
	compression string
	blend       string
	workers     int
	manifest    string
	verbose     bool
	layers      []string

	// explicit holds the names of flags given on the command line.
	explicit map[string]bool
}

func main() {
	err := run(os.Args[1:], os.Stdout, os.Stderr)
	switch {
	case err == nil:
	case errors.Is(err, errUsage):
		os.Exit(2)
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("spritemaker", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var cfg config
	fs.StringVar(&cfg.output, "o", "sprite.png", "output file (.png or .exr)")
	fs.Var(&cfg.tints, "tint", "tint for the next layer; repeat per layer, \"none\" skips")
	fs.BoolVar(&cfg.single, "single", false, "tint every visible pixel of a single layer, point filtered")
	fs.IntVar(&cfg.scale, "scale", 0, "integer upscale factor for PNG output")
	fs.StringVar(&cfg.compression, "c", "zip", "EXR compression (none, zips, zip)")
	fs.StringVar(&cfg.blend, "blend", "normal", "blend operator (normal, over)")
	fs.IntVar(&cfg.workers, "j", 0, "blend worker count, -1 for one per CPU")
	fs.StringVar(&cfg.manifest, "manifest", "", "read layers and output settings from a TOML or YAML file")
	fs.BoolVar(&cfg.verbose, "v", false, "verbose output")
	showVersion := fs.Bool("version", false, "show version information")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: spritemaker [options] layer [layer ...]\n")
		fmt.Fprintf(stderr, "       spritemaker [options] -manifest sprite.toml\n\n")
		fmt.Fprintf(stderr, "Composite layered sprite images, bottom to top.\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return errUsage
	}

	if *showVersion {
		fmt.Fprintf(stdout, "spritemaker version %s\n", version)
		return nil
	}

	cfg.explicit = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { cfg.explicit[f.Name] = true })
	cfg.layers = fs.Args()
	if cfg.manifest == "" && len(cfg.layers) == 0 {
		fs.Usage()
		return errUsage
	}
	if cfg.manifest != "" && len(cfg.layers) > 0 {
		return fmt.Errorf("layers cannot be given together with -manifest")
	}

	level := slog.LevelWarn
	if cfg.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	return makeSprite(&cfg, logger)
}

func makeSprite(cfg *config, logger *slog.Logger) error {
	var blend sprite.BlendFunc
	switch cfg.blend {
	case "normal":
		blend = sprite.NormalBlend
	case "over":
		blend = sprite.PorterDuffOver
	default:
		return fmt.Errorf("invalid blend operator: %s (valid options are normal, over)", cfg.blend)
	}

	compression, err := exr.ParseCompression(cfg.compression)
	if err != nil || !compression.Supported() {
		return fmt.Errorf("invalid compression type: %s (valid options are none, zips, zip)", cfg.compression)
	}

	c := sprite.NewCompositor(&sprite.Options{
		Logger:   logger,
		Blend:    blend,
		Parallel: sprite.ParallelConfig{NumWorkers: cfg.workers, GrainSize: 16},
	})

	var layers []sprite.Layer
	output, scale, single := cfg.output, cfg.scale, cfg.single
	if cfg.manifest != "" {
		m, err := spriteutil.LoadManifest(cfg.manifest)
		if err != nil {
			return err
		}
		if layers, err = m.LoadLayers(); err != nil {
			return err
		}
		// Command line flags win over manifest settings.
		if m.Output != "" && !cfg.explicit["o"] {
			output = m.OutputPath()
		}
		if m.Scale > 0 && !cfg.explicit["scale"] {
			scale = m.Scale
		}
		if m.Compression != "" && !cfg.explicit["c"] {
			if compression, err = exr.ParseCompression(m.Compression); err != nil || !compression.Supported() {
				return fmt.Errorf("%s: invalid compression type: %s", cfg.manifest, m.Compression)
			}
		}
		single = single || m.Single
		if len(cfg.tints) > len(layers) {
			return fmt.Errorf("%d tints given for %d layers", len(cfg.tints), len(layers))
		}
		for i, tint := range cfg.tints {
			layers[i].Tint = tint
		}
	} else {
		if len(cfg.tints) > len(cfg.layers) {
			return fmt.Errorf("%d tints given for %d layers", len(cfg.tints), len(cfg.layers))
		}
		for i, path := range cfg.layers {
			logger.Debug("reading layer", "layer", i, "path", path)
			buf, err := spriteutil.DecodeFile(path)
			if err != nil {
				return err
			}
			l := sprite.Layer{Source: buf}
			if i < len(cfg.tints) {
				l.Tint = cfg.tints[i]
			}
			layers = append(layers, l)
		}
	}

	if single && len(layers) != 1 {
		return fmt.Errorf("-single needs exactly one layer, got %d", len(layers))
	}

	img := spriteutil.MakeSprite(c, layers, single)
	logger.Debug("writing sprite",
		"path", output,
		"width", img.Width(),
		"height", img.Height(),
		"filter", img.Filter.String(),
	)
	return spriteutil.WriteFile(output, img, &spriteutil.WriteOptions{
		Scale:       scale,
		Compression: &compression,
		Comments:    "spritemaker " + version,
	})
}
