package compression

// Interleave reorders bytes by separating even and odd positions:
// [A0, A1, B0, B1, C0, C1] becomes [A0, B0, C0, A1, B1, C1].
// Grouping the low and high bytes of 16-bit words improves compression.
func Interleave(src []byte) []byte {
	n := len(src)
	if n == 0 {
		return nil
	}

	dst := make([]byte, n)
	half := (n + 1) / 2
	for i := 0; i < half; i++ {
		dst[i] = src[2*i]
	}
	for i := 0; i < n-half; i++ {
		dst[half+i] = src[2*i+1]
	}
	return dst
}

// Deinterleave reverses Interleave.
func Deinterleave(src []byte) []byte {
	n := len(src)
	if n == 0 {
		return nil
	}

	dst := make([]byte, n)
	half := (n + 1) / 2
	for i := 0; i < half; i++ {
		dst[i*2] = src[i]
	}
	for i := 0; i < n-half; i++ {
		dst[i*2+1] = src[half+i]
	}
	return dst
}

// PredictorEncode replaces every byte after the first, in place, with its
// difference from the previous byte plus 128.
func PredictorEncode(data []byte) {
	for i := len(data) - 1; i > 0; i-- {
		data[i] = data[i] - data[i-1] + 128
	}
}

// PredictorDecode reverses PredictorEncode in place.
func PredictorDecode(data []byte) {
	for i := 1; i < len(data); i++ {
		data[i] = data[i-1] + data[i] - 128
	}
}
