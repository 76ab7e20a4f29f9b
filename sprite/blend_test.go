package sprite

import (
	"math/rand"
	"testing"
)

func TestBlendPixel(t *testing.T) {
	dst := Color{R: 0.2, G: 0.4, B: 0.6, A: 0.8}

	t.Run("OpaqueOverwrites", func(t *testing.T) {
		src := Color{R: 0.9, G: 0.1, B: 0.3, A: 1}
		for _, d := range []Color{dst, Transparent, White, {R: 5, G: -1, B: 2, A: 3}} {
			if got := BlendPixel(d, src, NormalBlend); got != src {
				t.Errorf("BlendPixel(%+v, opaque) = %+v, want %+v", d, got, src)
			}
		}
	})

	t.Run("ZeroAlphaIsNoOp", func(t *testing.T) {
		src := Color{R: 1, G: 1, B: 1, A: 0}
		if got := BlendPixel(dst, src, NormalBlend); got != dst {
			t.Errorf("BlendPixel(dst, transparent) = %+v, want %+v", got, dst)
		}
	})

	t.Run("NegativeAlphaIsNoOp", func(t *testing.T) {
		src := Color{R: 1, A: -0.5}
		if got := BlendPixel(dst, src, NormalBlend); got != dst {
			t.Errorf("BlendPixel(dst, negative alpha) = %+v, want %+v", got, dst)
		}
	})

	t.Run("SemiTransparentUsesOver", func(t *testing.T) {
		src := Color{R: 1, G: 1, B: 1, A: 0.5}
		called := false
		over := func(d, s Color) Color {
			called = true
			return NormalBlend(d, s)
		}
		BlendPixel(dst, src, over)
		if !called {
			t.Error("over was not called for a semi-transparent source")
		}
	})
}

func TestNormalBlend(t *testing.T) {
	t.Run("AttenuatedOver", func(t *testing.T) {
		dst := Color{R: 0.2, G: 0.4, B: 0.6, A: 0.8}
		src := Color{R: 1, G: 0.5, B: 0, A: 0.25}

		got := NormalBlend(dst, src)

		// dest weight = (1 - 0.25) * 0.8 = 0.6
		want := Color{
			R: 0.2*0.6 + 1*0.25,
			G: 0.4*0.6 + 0.5*0.25,
			B: 0.6*0.6 + 0*0.25,
			A: 0.8*0.6 + 0.25*0.25,
		}
		if !colorsEqual(got, want) {
			t.Errorf("NormalBlend = %+v, want %+v", got, want)
		}
	})

	t.Run("AlphaDecays", func(t *testing.T) {
		c := White
		src := Color{R: 1, G: 1, B: 1, A: 0.5}
		for i := 0; i < 8; i++ {
			c = NormalBlend(c, src)
		}
		if c.A >= 0.5 {
			t.Errorf("alpha after repeated blends = %v, expected decay below 0.5", c.A)
		}
	})
}

func TestPorterDuffOver(t *testing.T) {
	t.Run("OverOpaque", func(t *testing.T) {
		dst := Color{R: 0, G: 0, B: 1, A: 1}
		src := Color{R: 1, G: 0, B: 0, A: 0.5}
		got := PorterDuffOver(dst, src)
		want := Color{R: 0.5, G: 0, B: 0.5, A: 1}
		if !colorsEqual(got, want) {
			t.Errorf("PorterDuffOver = %+v, want %+v", got, want)
		}
	})

	t.Run("OverTransparent", func(t *testing.T) {
		src := Color{R: 0.3, G: 0.6, B: 0.9, A: 0.5}
		got := PorterDuffOver(Transparent, src)
		if !colorsEqual(got, src) {
			t.Errorf("PorterDuffOver(transparent, src) = %+v, want %+v", got, src)
		}
	})

	t.Run("AlphaAccumulates", func(t *testing.T) {
		c := Transparent
		src := Color{R: 1, G: 1, B: 1, A: 0.5}
		for i := 0; i < 8; i++ {
			c = PorterDuffOver(c, src)
		}
		if c.A < 0.99 {
			t.Errorf("alpha after repeated blends = %v, expected close to 1", c.A)
		}
	})
}

func TestBlendOrder(t *testing.T) {
	red := NewUniformBuffer(2, 2, Color{R: 1, A: 1})
	halfBlue := NewUniformBuffer(2, 2, Color{B: 1, A: 0.5})

	a := Blend(NewPixelBuffer(2, 2), []*PixelBuffer{red, halfBlue}, nil)
	b := Blend(NewPixelBuffer(2, 2), []*PixelBuffer{halfBlue, red}, nil)

	if colorsEqual(a.Pix[0], b.Pix[0]) {
		t.Errorf("layer order should matter: both produced %+v", a.Pix[0])
	}
	if b.Pix[0] != (Color{R: 1, A: 1}) {
		t.Errorf("opaque top layer should win, got %+v", b.Pix[0])
	}
	want := Color{R: 0.5, B: 0.5, A: 0.75}
	if !colorsEqual(a.Pix[0], want) {
		t.Errorf("blue over red = %+v, want %+v", a.Pix[0], want)
	}
}

func TestBlendParallelMatchesSequential(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	const w, h = 37, 53

	layers := make([]*PixelBuffer, 4)
	for i := range layers {
		layers[i] = NewPixelBuffer(w, h)
		for j := range layers[i].Pix {
			layers[i].Pix[j] = Color{
				R: rng.Float32(),
				G: rng.Float32(),
				B: rng.Float32(),
				A: []float32{0, 0.25, 0.5, 1}[rng.Intn(4)],
			}
		}
	}

	seq := Blend(NewPixelBuffer(w, h), layers, NormalBlend)
	par := blendLayers(NewPixelBuffer(w, h), layers, NormalBlend, ParallelConfig{NumWorkers: 4, GrainSize: 1})

	for i := range seq.Pix {
		if seq.Pix[i] != par.Pix[i] {
			t.Fatalf("pixel %d: sequential %+v, parallel %+v", i, seq.Pix[i], par.Pix[i])
		}
	}
}
