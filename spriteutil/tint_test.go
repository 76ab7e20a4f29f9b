package spriteutil

import (
	"testing"

	"github.com/mrjoshuak/go-spritemaker/sprite"
)

func TestParseTint(t *testing.T) {
	tests := []struct {
		in   string
		want sprite.Color
	}{
		{"#ff0000", sprite.Color{R: 1, A: 1}},
		{"#00F", sprite.Color{B: 1, A: 1}},
		{"#ffffff00", sprite.Color{R: 1, G: 1, B: 1, A: 0}},
		{"0.5,0.25,1", sprite.Color{R: 0.5, G: 0.25, B: 1, A: 1}},
		{" 1, 0, 0, 0.5 ", sprite.Color{R: 1, A: 0.5}},
		{"white", sprite.White},
		{"Black", sprite.Black},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTint(tt.in)
			if err != nil {
				t.Fatalf("ParseTint: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseTint(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseTintErrors(t *testing.T) {
	for _, in := range []string{"", "#12", "#gggggg", "#ffffffzz", "1,2", "1,2,3,4,5", "a,b,c", "notacolor"} {
		if _, err := ParseTint(in); err == nil {
			t.Errorf("ParseTint(%q) should fail", in)
		}
	}
}

func TestParseOptionalTint(t *testing.T) {
	for _, in := range []string{"", "none", "NONE", "  "} {
		got, err := ParseOptionalTint(in)
		if err != nil || got != nil {
			t.Errorf("ParseOptionalTint(%q) = %v, %v, want nil, nil", in, got, err)
		}
	}
	got, err := ParseOptionalTint("red")
	if err != nil || got == nil || *got != (sprite.Color{R: 1, A: 1}) {
		t.Errorf("ParseOptionalTint(red) = %v, %v", got, err)
	}
	if _, err := ParseOptionalTint("bogus"); err == nil {
		t.Error("invalid tint should fail")
	}
}
