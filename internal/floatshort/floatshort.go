// Package floatshort is the IEEE-754 float-to-shortest-CBOR-width
// reducer the encoder core consumes by interface (spec.md §6). It decides
// whether a float64 round-trips through a half- or single-precision
// representation without loss and, if so, returns the narrower width; the
// core never inlines this decision, so a caller that only ever encodes
// doubles can link it out.
//
// Grounded on the teacher's float32ToFloat16Bits/float16BitsToFloat32/
// WriteFloat cascade in argon-chat-cbor.go/writer.go, lifted into its own
// package.
package floatshort

import "math"

// Width mirrors cbor.ArgumentWidth's encoding (2, 4, or 8 extra bytes) so
// this package has no import-cycle dependency on the root package; the
// encoder core maps it back to cbor.ArgumentWidth at the call site.
type Width int

const (
	Width2 Width = 2
	Width4 Width = 4
	Width8 Width = 8
)

// Shortest picks the narrowest IEEE-754 width that represents v without
// loss and returns its big-endian bit pattern as a uint64 (zero-extended
// from the actual width). +/-Inf take half precision; NaN always takes
// single precision (Width4), never half.
func Shortest(v float64) (Width, uint64) {
	f32 := float32(v)
	if float64(f32) == v || math.IsNaN(v) {
		bits16 := float32ToFloat16Bits(f32)
		if float16BitsToFloat32(bits16) == f32 && !math.IsNaN(v) {
			return Width2, uint64(bits16)
		}
		return Width4, uint64(math.Float32bits(f32))
	}
	return Width8, math.Float64bits(v)
}

// float32ToFloat16Bits converts a float32 to IEEE-754 half-precision
// bits.
func float32ToFloat16Bits(f float32) uint16 {
	bits := math.Float32bits(f)
	sign := uint16((bits >> 16) & 0x8000)
	exp := int((bits >> 23) & 0xFF)
	frac := bits & 0x7FFFFF

	switch {
	case exp == 0:
		return sign
	case exp == 255:
		if frac == 0 {
			return sign | 0x7C00
		}
		return sign | 0x7C00 | uint16(frac>>13)
	case exp > 142:
		return sign | 0x7C00
	case exp < 113:
		// Below the half normal range: a half subnormal, truncated. Values
		// too small for it become zero; Shortest's round-trip check
		// rejects any value that loses bits here.
		return sign | uint16((frac|0x800000)>>uint(126-exp))
	default:
		exp16 := exp - 127 + 15
		frac16 := frac >> 13
		return sign | uint16(exp16<<10) | uint16(frac16)
	}
}

// float16BitsToFloat32 converts IEEE-754 half-precision bits to float32,
// used only to verify the round-trip above.
func float16BitsToFloat32(bits uint16) float32 {
	sign := uint32(bits&0x8000) << 16
	exp := int(bits>>10) & 0x1F
	frac := uint32(bits & 0x3FF)

	switch {
	case exp == 0:
		if frac == 0 {
			return math.Float32frombits(sign)
		}
		for frac&0x400 == 0 {
			frac <<= 1
			exp--
		}
		exp++
		frac &= 0x3FF
		fallthrough
	case exp < 31:
		exp32 := uint32(exp - 15 + 127)
		return math.Float32frombits(sign | (exp32 << 23) | (frac << 13))
	default:
		if frac == 0 {
			return math.Float32frombits(sign | 0x7F800000)
		}
		return math.Float32frombits(sign | 0x7F800000 | (frac << 13))
	}
}
