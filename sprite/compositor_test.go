package sprite

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func newTestCompositor(logs *bytes.Buffer) *Compositor {
	return NewCompositor(&Options{
		Logger: slog.New(slog.NewTextHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug})),
	})
}

func TestMakeLayeredBaseOnly(t *testing.T) {
	red := Color{R: 1, A: 1}
	base := NewUniformBuffer(4, 4, red)

	img := NewCompositor(nil).MakeLayered([]PixelSource{base}, nil)

	if img.Width() != 4 || img.Height() != 4 {
		t.Fatalf("size = %dx%d, want 4x4", img.Width(), img.Height())
	}
	for i, c := range img.Buffer.Pix {
		if c != red {
			t.Fatalf("pixel %d = %+v, want %+v", i, c, red)
		}
	}
	if img.Filter != FilterSmooth {
		t.Errorf("filter = %v, want smooth", img.Filter)
	}
	if img.Pivot != (Point{X: 0.5, Y: 0.5}) {
		t.Errorf("pivot = %+v, want (0.5, 0.5)", img.Pivot)
	}
	if img.Wrap != WrapClamp {
		t.Errorf("wrap = %v, want clamp", img.Wrap)
	}
}

func TestMakeLayeredWhiteTintedBlue(t *testing.T) {
	blue := Color{B: 1, A: 1}
	base := NewUniformBuffer(4, 4, White)

	img := NewCompositor(nil).MakeLayered([]PixelSource{base}, []Color{blue})

	for i, c := range img.Buffer.Pix {
		if c != blue {
			t.Fatalf("pixel %d = %+v, want %+v", i, c, blue)
		}
	}
	if base.Pix[0] != White {
		t.Error("input layer was modified")
	}
}

func TestMakeLayeredCenteredOverlay(t *testing.T) {
	baseColor := Color{R: 0.2, G: 0.4, B: 0.6, A: 1}
	base := NewUniformBuffer(4, 4, baseColor)
	overlay := NewUniformBuffer(2, 2, Color{R: 1, G: 1, B: 1, A: 0.5})

	normalized, err := Normalize([]Layer{{Source: base}, {Source: overlay}})
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			border := x == 0 || x == 3 || y == 0 || y == 3
			if a := normalized[1].Pixel(x, y).A; border && a != 0 {
				t.Errorf("padding pixel (%d,%d) alpha = %v, want 0", x, y, a)
			}
		}
	}

	img := NewCompositor(nil).MakeLayered([]PixelSource{base, overlay}, nil)

	// dest * ((1 - 0.5) * 1) + src * 0.5
	center := Color{
		R: 0.2*0.5 + 0.5,
		G: 0.4*0.5 + 0.5,
		B: 0.6*0.5 + 0.5,
		A: 1*0.5 + 0.5*0.5,
	}
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			got := img.Buffer.Pixel(x, y)
			want := baseColor
			if x >= 1 && x <= 2 && y >= 1 && y <= 2 {
				want = center
			}
			if !colorsEqual(got, want) {
				t.Errorf("pixel (%d,%d) = %+v, want %+v", x, y, got, want)
			}
		}
	}
}

func TestTintEligibilityDiffersByPath(t *testing.T) {
	// Visible, but red is zero: tinted by Make, left alone by MakeLayered.
	px := Color{R: 0, G: 0.5, B: 0.5, A: 1}
	tint := Color{R: 0.5, G: 0.5, B: 0.5, A: 1}
	tex := NewUniformBuffer(1, 1, px)
	c := NewCompositor(nil)

	single := c.Make(tex, tint)
	want := Color{R: 0, G: 0.25, B: 0.25, A: 1}
	if !colorsEqual(single.Buffer.Pix[0], want) {
		t.Errorf("Make pixel = %+v, want %+v", single.Buffer.Pix[0], want)
	}
	if single.Filter != FilterPoint {
		t.Errorf("Make filter = %v, want point", single.Filter)
	}

	layered := c.MakeLayered([]PixelSource{tex}, []Color{tint})
	if layered.Buffer.Pix[0] != px {
		t.Errorf("MakeLayered pixel = %+v, want untinted %+v", layered.Buffer.Pix[0], px)
	}
}

func TestMakeKeepsTransparentPixels(t *testing.T) {
	tex := NewPixelBuffer(2, 1)
	tex.Pix[0] = Color{R: 1, G: 1, B: 1, A: 0}
	tex.Pix[1] = White
	tint := Color{G: 1, A: 1}

	img := Make(tex, tint)
	if img.Buffer.Pix[0] != tex.Pix[0] {
		t.Errorf("transparent pixel = %+v, want untouched", img.Buffer.Pix[0])
	}
	if img.Buffer.Pix[1] != tint {
		t.Errorf("white pixel = %+v, want %+v", img.Buffer.Pix[1], tint)
	}
}

func TestFewerTintsThanLayers(t *testing.T) {
	base := NewUniformBuffer(2, 2, White)
	top := NewUniformBuffer(2, 2, Color{R: 1, G: 1, B: 1, A: 0.5})
	tint := Color{R: 0.5, A: 1}

	buf, err := NewCompositor(nil).CreateTexture([]PixelSource{base, top}, []Color{tint})
	if err != nil {
		t.Fatalf("CreateTexture failed: %v", err)
	}

	// Untinted white at half alpha over the tinted base.
	want := NormalBlend(tint, top.Pix[0])
	if !colorsEqual(buf.Pix[0], want) {
		t.Errorf("pixel = %+v, want %+v", buf.Pix[0], want)
	}
}

func TestEmptyLayerSet(t *testing.T) {
	t.Run("CreateTexture", func(t *testing.T) {
		c := NewCompositor(nil)
		buf, err := c.CreateTexture(nil, nil)
		if !errors.Is(err, ErrEmptyLayerSet) {
			t.Errorf("error = %v, want %v", err, ErrEmptyLayerSet)
		}
		if buf == nil || buf.Width() != 1 || buf.Height() != 1 || buf.Pix[0] != White {
			t.Errorf("placeholder = %+v, want 1x1 white", buf)
		}
	})

	t.Run("MakeLayeredLogs", func(t *testing.T) {
		var logs bytes.Buffer
		img := newTestCompositor(&logs).MakeLayered(nil, []Color{White})

		if img == nil || img.Buffer == nil {
			t.Fatal("MakeLayered returned nil for empty input")
		}
		if img.Buffer.Pix[0] != White {
			t.Errorf("placeholder pixel = %+v, want white", img.Buffer.Pix[0])
		}
		out := logs.String()
		if !strings.Contains(out, "level=ERROR") || !strings.Contains(out, ErrEmptyLayerSet.Error()) {
			t.Errorf("expected an error diagnostic, got %q", out)
		}
	})

	t.Run("CustomPlaceholder", func(t *testing.T) {
		magenta := Color{R: 1, B: 1, A: 1}
		placeholder := NewUniformBuffer(2, 2, magenta)
		c := NewCompositor(&Options{Placeholder: placeholder})

		a, _ := c.CreateTexture(nil, nil)
		a.Pix[0] = Transparent
		b, _ := c.CreateTexture(nil, nil)

		if b.Width() != 2 || b.Pix[0] != magenta {
			t.Errorf("placeholder = %+v, want 2x2 magenta", b)
		}
		if placeholder.Pix[0] != magenta {
			t.Error("caller's placeholder was modified")
		}
	})
}

func TestCompositeLogsFitting(t *testing.T) {
	var logs bytes.Buffer
	c := newTestCompositor(&logs)

	_, err := c.Composite([]Layer{
		{Source: NewUniformBuffer(4, 4, White)},
		{Source: NewUniformBuffer(2, 6, White)},
	})
	if err != nil {
		t.Fatalf("Composite failed: %v", err)
	}
	if !strings.Contains(logs.String(), "layer=1") {
		t.Errorf("expected a debug entry for layer 1, got %q", logs.String())
	}
}

func TestCompositeWithPorterDuff(t *testing.T) {
	c := NewCompositor(&Options{Blend: PorterDuffOver})
	buf, err := c.Composite([]Layer{
		{Source: NewUniformBuffer(1, 1, Color{B: 1, A: 1})},
		{Source: NewUniformBuffer(1, 1, Color{R: 1, A: 0.5})},
	})
	if err != nil {
		t.Fatalf("Composite failed: %v", err)
	}
	want := Color{R: 0.5, B: 0.5, A: 1}
	if !colorsEqual(buf.Pix[0], want) {
		t.Errorf("pixel = %+v, want %+v", buf.Pix[0], want)
	}
}

func TestCompositeIsStateless(t *testing.T) {
	c := NewCompositor(&Options{Parallel: ParallelConfig{NumWorkers: 2, GrainSize: 1}})
	layers := []Layer{
		{Source: NewUniformBuffer(8, 8, Color{R: 0.5, G: 0.5, B: 0.5, A: 1})},
		{Source: NewUniformBuffer(4, 4, Color{R: 1, G: 1, B: 1, A: 0.5})},
	}

	first, err := c.Composite(layers)
	if err != nil {
		t.Fatalf("Composite failed: %v", err)
	}
	second, err := c.Composite(layers)
	if err != nil {
		t.Fatalf("Composite failed: %v", err)
	}
	if first == second {
		t.Fatal("calls should not share an output buffer")
	}
	for i := range first.Pix {
		if first.Pix[i] != second.Pix[i] {
			t.Fatalf("pixel %d differs between calls", i)
		}
	}
}

func TestMakeStackSkipsUntintedLayers(t *testing.T) {
	tint := Color{G: 1, A: 1}
	img := NewCompositor(nil).MakeStack([]Layer{
		{Source: NewUniformBuffer(2, 2, White)},
		{Source: NewUniformBuffer(2, 2, Color{R: 0.5, G: 0.5, B: 0.5, A: 0.5}), Tint: &tint},
	})
	want := NormalBlend(White, Color{G: 0.5, A: 0.5})
	if !colorsEqual(img.Buffer.Pix[0], want) {
		t.Errorf("pixel = %+v, want %+v", img.Buffer.Pix[0], want)
	}
	if img.Filter != FilterSmooth {
		t.Errorf("filter = %v, want smooth", img.Filter)
	}

	var logs bytes.Buffer
	empty := newTestCompositor(&logs).MakeStack(nil)
	if empty.Buffer.Pix[0] != White || !strings.Contains(logs.String(), "level=ERROR") {
		t.Errorf("empty stack: pixel %+v, logs %q", empty.Buffer.Pix[0], logs.String())
	}
}
