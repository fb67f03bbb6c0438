// Package cbor provides a CBOR (RFC 8949) encoder core for constrained
// environments: no dynamic allocation, a bounded per-call stack, and a
// caller-owned output buffer. Decoding, IEEE-754 float shortening, and the
// command-line harness live in sibling packages/commands and are consumed
// only through narrow interfaces; this package is the encoder alone.
package cbor

// MajorType is the 3-bit major type carried in the top bits of every CBOR
// initial byte.
type MajorType byte

const (
	// MajorTypePositiveInt is an unsigned integer (major type 0).
	MajorTypePositiveInt MajorType = 0
	// MajorTypeNegativeInt is a negative integer (major type 1).
	MajorTypeNegativeInt MajorType = 1
	// MajorTypeByteString is a byte string (major type 2).
	MajorTypeByteString MajorType = 2
	// MajorTypeTextString is a UTF-8 text string (major type 3).
	MajorTypeTextString MajorType = 3
	// MajorTypeArray is an array of data items (major type 4).
	MajorTypeArray MajorType = 4
	// MajorTypeMap is a map of key/value pairs (major type 5).
	MajorTypeMap MajorType = 5
	// MajorTypeTag is a semantic tag prefixing the next item (major type 6).
	MajorTypeTag MajorType = 6
	// MajorTypeSimple is a simple value or float (major type 7).
	MajorTypeSimple MajorType = 7

	// majorTypeRawPassThrough is an internal sentinel: append the payload
	// verbatim with no header, used to splice already-encoded CBOR.
	majorTypeRawPassThrough MajorType = 0xFF
)

// String implements fmt.Stringer for diagnostics and test failure output.
func (mt MajorType) String() string {
	switch mt {
	case MajorTypePositiveInt:
		return "PositiveInt"
	case MajorTypeNegativeInt:
		return "NegativeInt"
	case MajorTypeByteString:
		return "ByteString"
	case MajorTypeTextString:
		return "TextString"
	case MajorTypeArray:
		return "Array"
	case MajorTypeMap:
		return "Map"
	case MajorTypeTag:
		return "Tag"
	case MajorTypeSimple:
		return "Simple"
	case majorTypeRawPassThrough:
		return "RawPassThrough"
	default:
		return "Unknown"
	}
}

// ArgumentWidth selects how many extra bytes follow the initial byte to
// carry a header's argument.
type ArgumentWidth byte

const (
	// WidthDirect means the argument fits in the initial byte (0-23).
	WidthDirect ArgumentWidth = 0
	// Width1 means one extra byte follows.
	Width1 ArgumentWidth = 1
	// Width2 means two extra bytes follow.
	Width2 ArgumentWidth = 2
	// Width4 means four extra bytes follow.
	Width4 ArgumentWidth = 4
	// Width8 means eight extra bytes follow.
	Width8 ArgumentWidth = 8
)

// additional-info values for the initial byte, RFC 8949 §3.
const (
	infoDirectMax byte = 23
	info1Byte     byte = 24
	info2Byte     byte = 25
	info4Byte     byte = 26
	info8Byte     byte = 27
)

// widthFor returns the smallest ArgumentWidth able to hold v, the ladder
// used whenever a caller does not force a minimum width (spec.md P1).
func widthFor(v uint64) ArgumentWidth {
	switch {
	case v <= uint64(infoDirectMax):
		return WidthDirect
	case v <= 0xFF:
		return Width1
	case v <= 0xFFFF:
		return Width2
	case v <= 0xFFFFFFFF:
		return Width4
	default:
		return Width8
	}
}

// encodeInitialByte composes the initial byte from a major type and the
// low-five-bits additional-info value.
func encodeInitialByte(mt MajorType, info byte) byte {
	return byte(mt)<<5 | (info & 0x1F)
}
