package cbor

import "encoding/binary"

// emitHeader writes the initial byte plus any extra argument bytes for
// (major, argument) at offset at, using insertBytes so the call works
// identically whether at is the current end of the buffer (a normal
// append) or an earlier recorded offset (a back-patched container
// header). minWidth forces a wider encoding than the value alone would
// need — required for floats, where a half/float/double with a
// zero-valued bit pattern must still occupy its full width (spec.md
// §4.3).
//
// Grounded on the teacher's writeMinimalInitialByte/writeInitialByte
// cascade in writer.go, generalized to take an explicit insertion offset
// and an explicit minimum width.
func emitHeader(buf *outputBuffer, major MajorType, minWidth ArgumentWidth, argument uint64, at int) {
	width := widthFor(argument)
	if minWidth > width {
		width = minWidth
	}

	var header [9]byte
	switch width {
	case WidthDirect:
		header[0] = encodeInitialByte(major, byte(argument))
		buf.insertBytes(header[:1], at)
	case Width1:
		header[0] = encodeInitialByte(major, info1Byte)
		header[1] = byte(argument)
		buf.insertBytes(header[:2], at)
	case Width2:
		header[0] = encodeInitialByte(major, info2Byte)
		binary.BigEndian.PutUint16(header[1:3], uint16(argument))
		buf.insertBytes(header[:3], at)
	case Width4:
		header[0] = encodeInitialByte(major, info4Byte)
		binary.BigEndian.PutUint32(header[1:5], uint32(argument))
		buf.insertBytes(header[:5], at)
	default: // Width8
		header[0] = encodeInitialByte(major, info8Byte)
		binary.BigEndian.PutUint64(header[1:9], argument)
		buf.insertBytes(header[:9], at)
	}
}
