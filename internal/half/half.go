// Package half converts between IEEE 754 binary16 ("half float") bit
// patterns and float64, shared by the reader and writer packages so the
// Float16 kind has exactly one conversion implementation.
package half

import "math"

// ToFloat64 decodes a binary16 bit pattern to a float64, preserving NaN,
// infinities, subnormals, and signed zero.
func ToFloat64(bits uint16) float64 {
	sign := uint32(bits>>15) & 0x1
	exp := uint32(bits>>10) & 0x1F
	frac := uint32(bits) & 0x3FF

	var f32bits uint32
	switch {
	case exp == 0 && frac == 0:
		f32bits = sign << 31
	case exp == 0x1F:
		f32bits = sign<<31 | 0xFF<<23 | frac<<13
	case exp == 0:
		// subnormal half -> normalize into float32
		e := 0
		for frac&0x400 == 0 {
			frac <<= 1
			e--
		}
		frac &= 0x3FF
		f32exp := uint32(127 - 15 + e + 1)
		f32bits = sign<<31 | f32exp<<23 | frac<<13
	default:
		f32exp := exp - 15 + 127
		f32bits = sign<<31 | f32exp<<23 | frac<<13
	}

	return float64(math.Float32frombits(f32bits))
}

// FromFloat64 encodes v as a binary16 bit pattern. Values outside the
// half-precision range saturate to +-Inf; NaN is preserved.
func FromFloat64(v float64) uint16 {
	f32 := float32(v)
	bits := math.Float32bits(f32)

	sign := uint16(bits>>16) & 0x8000
	exp := int32(bits>>23) & 0xFF
	frac := bits & 0x7FFFFF

	switch {
	case exp == 0xFF:
		if frac != 0 {
			return sign | 0x7E00 // NaN
		}

		return sign | 0x7C00 // +-Inf
	case exp == 0:
		return sign // subnormal float32 underflows to signed zero in half
	}

	halfExp := exp - 127 + 15
	switch {
	case halfExp >= 0x1F:
		return sign | 0x7C00 // overflow -> Inf
	case halfExp <= 0:
		return sign // underflow -> signed zero
	default:
		return sign | uint16(halfExp)<<10 | uint16(frac>>13)
	}
}
