// Package half converts between float32 and IEEE 754 binary16
// half-precision values, the storage type of HALF channels in OpenEXR files.
package half

import "math"

// Half is an IEEE 754 binary16 value: 1 sign bit, 5 exponent bits
// (bias 15) and 10 mantissa bits.
type Half uint16

const (
	signMask     = 0x8000
	exponentMask = 0x7c00
	mantissaMask = 0x03ff

	// float32 exponent bias (127) minus half exponent bias (15)
	biasDelta = 112
)

// Special values.
const (
	Inf     Half = 0x7c00
	NegInf  Half = 0xfc00
	NaN     Half = 0x7e00
	Max     Half = 0x7bff // 65504
	Epsilon Half = 0x1400 // 2^-10
)

// FromFloat32 converts f to the nearest Half, rounding ties to even.
// Values too large for a half become infinity.
func FromFloat32(f float32) Half {
	bits := math.Float32bits(f)
	sign := uint16(bits>>16) & signMask
	exp := int32(bits>>23&0xff) - biasDelta
	mant := bits & 0x7fffff

	switch {
	case bits&0x7fffffff > 0x7f800000:
		return Half(sign | exponentMask | 0x200 | uint16(mant>>13))
	case exp >= 31:
		return Half(sign | exponentMask)
	case exp <= 0:
		if exp < -10 {
			return Half(sign)
		}
		// Subnormal half: restore the implicit bit and shift into place.
		mant |= 0x800000
		shift := uint32(14 - exp)
		h := mant >> shift
		rem := mant & (1<<shift - 1)
		halfway := uint32(1) << (shift - 1)
		if rem > halfway || (rem == halfway && h&1 == 1) {
			h++
		}
		return Half(sign | uint16(h))
	}

	h := uint32(exp)<<10 | mant>>13
	rem := mant & 0x1fff
	// A carry out of the mantissa correctly bumps the exponent, up to Inf.
	if rem > 0x1000 || (rem == 0x1000 && h&1 == 1) {
		h++
	}
	return Half(sign | uint16(h))
}

// Float32 converts h to a float32. The conversion is exact.
func (h Half) Float32() float32 {
	sign := uint32(h&signMask) << 16
	exp := uint32(h&exponentMask) >> 10
	mant := uint32(h & mantissaMask)

	switch exp {
	case 0:
		// Zero or subnormal: mant * 2^-24.
		f := float32(mant) / (1 << 24)
		if sign != 0 {
			f = -f
		}
		return f
	case 0x1f:
		return math.Float32frombits(sign | 0x7f800000 | mant<<13)
	}
	return math.Float32frombits(sign | (exp+biasDelta)<<23 | mant<<13)
}

// IsNaN reports whether h is a NaN.
func (h Half) IsNaN() bool {
	return h&exponentMask == exponentMask && h&mantissaMask != 0
}

// IsInf reports whether h is an infinity.
func (h Half) IsInf() bool {
	return h&^signMask == Inf
}
