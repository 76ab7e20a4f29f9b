package half

import (
	"math"
	"testing"
)

func TestFromFloat32(t *testing.T) {
	tests := []struct {
		name string
		in   float32
		want Half
	}{
		{"Zero", 0, 0x0000},
		{"NegZero", float32(math.Copysign(0, -1)), 0x8000},
		{"One", 1, 0x3c00},
		{"Half", 0.5, 0x3800},
		{"MinusTwo", -2, 0xc000},
		{"Max", 65504, Max},
		{"RoundsToInf", 65520, Inf},
		{"Overflow", 1e10, Inf},
		{"PosInf", float32(math.Inf(1)), Inf},
		{"NegInf", float32(math.Inf(-1)), NegInf},
		{"SmallestSubnormal", 1.0 / (1 << 24), 0x0001},
		{"SmallestNormal", 1.0 / (1 << 14), 0x0400},
		{"Underflow", 1e-10, 0x0000},
		{"TieToEvenDown", 1 + 1.0/(1<<11), 0x3c00},
		{"TieToEvenUp", 1 + 3.0/(1<<11), 0x3c02},
		{"Epsilon", 1.0 / (1 << 10), Epsilon},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FromFloat32(tt.in); got != tt.want {
				t.Errorf("FromFloat32(%v) = 0x%04x, want 0x%04x", tt.in, uint16(got), uint16(tt.want))
			}
		})
	}
}

func TestNaN(t *testing.T) {
	h := FromFloat32(float32(math.NaN()))
	if !h.IsNaN() {
		t.Errorf("FromFloat32(NaN) = 0x%04x, not a NaN", uint16(h))
	}
	if !math.IsNaN(float64(NaN.Float32())) {
		t.Error("NaN.Float32() is not a NaN")
	}
	if !Inf.IsInf() || !NegInf.IsInf() || Max.IsInf() {
		t.Error("IsInf mismatch")
	}
}

func TestRoundTripAllValues(t *testing.T) {
	for i := 0; i <= 0xffff; i++ {
		h := Half(i)
		if h.IsNaN() {
			continue
		}
		if got := FromFloat32(h.Float32()); got != h {
			t.Fatalf("round trip 0x%04x -> %v -> 0x%04x", i, h.Float32(), uint16(got))
		}
	}
}

func TestFloat32(t *testing.T) {
	if v := Half(0x3c00).Float32(); v != 1 {
		t.Errorf("0x3c00 = %v, want 1", v)
	}
	if v := Half(0x0001).Float32(); v != 1.0/(1<<24) {
		t.Errorf("0x0001 = %v, want 2^-24", v)
	}
	if v := Half(0x8001).Float32(); v != -1.0/(1<<24) {
		t.Errorf("0x8001 = %v, want -2^-24", v)
	}
	if v := Max.Float32(); v != 65504 {
		t.Errorf("Max = %v, want 65504", v)
	}
}
