package compression

import (
	"bytes"
	"errors"
	"math/rand"
	"testing"
)

func TestInterleave(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want []byte
	}{
		{"Empty", nil, nil},
		{"Single", []byte{1}, []byte{1}},
		{"Even", []byte{1, 2, 3, 4, 5, 6}, []byte{1, 3, 5, 2, 4, 6}},
		{"Odd", []byte{1, 2, 3, 4, 5}, []byte{1, 3, 5, 2, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Interleave(tt.in)
			if !bytes.Equal(got, tt.want) {
				t.Errorf("Interleave(%v) = %v, want %v", tt.in, got, tt.want)
			}
			if back := Deinterleave(got); !bytes.Equal(back, tt.in) {
				t.Errorf("Deinterleave(%v) = %v, want %v", got, back, tt.in)
			}
		})
	}
}

func TestPredictor(t *testing.T) {
	data := []byte{10, 12, 11, 11, 255, 0}
	PredictorEncode(data)

	want := []byte{10, 130, 127, 128, 116, 129}
	if !bytes.Equal(data, want) {
		t.Errorf("PredictorEncode = %v, want %v", data, want)
	}

	PredictorDecode(data)
	if !bytes.Equal(data, []byte{10, 12, 11, 11, 255, 0}) {
		t.Errorf("PredictorDecode = %v", data)
	}
}

func TestZIPBlockRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	sizes := []int{1, 2, 3, 31, 64, 4096, 65537}

	for _, size := range sizes {
		raw := make([]byte, size)
		for i := range raw {
			// Smooth data with some noise, like image scanlines.
			raw[i] = byte(i/7) + byte(rng.Intn(3))
		}

		for _, level := range []CompressionLevel{CompressionLevelDefault, CompressionLevelBestSpeed, CompressionLevelBestSize} {
			enc, err := EncodeZIPBlockLevel(raw, level)
			if err != nil {
				t.Fatalf("size %d level %d: encode failed: %v", size, level, err)
			}
			dec, err := DecodeZIPBlock(enc, size)
			if err != nil {
				t.Fatalf("size %d level %d: decode failed: %v", size, level, err)
			}
			if !bytes.Equal(dec, raw) {
				t.Fatalf("size %d level %d: round trip mismatch", size, level)
			}
		}
	}
}

func TestZIPCompressesUniformData(t *testing.T) {
	raw := bytes.Repeat([]byte{0x00, 0x3c}, 4096)
	enc, err := EncodeZIPBlock(raw)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if len(enc) >= len(raw)/10 {
		t.Errorf("uniform data compressed to %d of %d bytes", len(enc), len(raw))
	}
}

func TestZIPDecompressErrors(t *testing.T) {
	enc, err := ZIPCompress([]byte("scanline scanline scanline"))
	if err != nil {
		t.Fatalf("compress failed: %v", err)
	}

	t.Run("WrongSize", func(t *testing.T) {
		if _, err := ZIPDecompress(enc, 100); !errors.Is(err, ErrZIPCorrupted) {
			t.Errorf("short data error = %v, want %v", err, ErrZIPCorrupted)
		}
		if _, err := ZIPDecompress(enc, 5); !errors.Is(err, ErrZIPCorrupted) {
			t.Errorf("long data error = %v, want %v", err, ErrZIPCorrupted)
		}
	})

	t.Run("Garbage", func(t *testing.T) {
		if _, err := ZIPDecompress([]byte{1, 2, 3, 4}, 4); !errors.Is(err, ErrZIPCorrupted) {
			t.Errorf("garbage error = %v, want %v", err, ErrZIPCorrupted)
		}
	})

	t.Run("Empty", func(t *testing.T) {
		if _, err := ZIPDecompress(nil, 0); err != nil {
			t.Errorf("empty error = %v", err)
		}
		if _, err := ZIPDecompress(nil, 1); !errors.Is(err, ErrZIPCorrupted) {
			t.Errorf("empty with size error = %v", err)
		}
	})
}
