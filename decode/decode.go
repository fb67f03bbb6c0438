// Package decode is the decoder collaborator the encoder core (package
// cbor) references only by interface (spec.md §1, §6): it is not imported
// by the core, and the core does not import it. It exists in this repo so
// the encoder has something to round-trip against in tests and so
// cmd/cborcli has something to decode with.
//
// It only understands the subset of RFC 8949 this encoder ever emits:
// definite-length containers, minimum-length arguments, no indefinite-
// length chunks — the core's Non-goals (spec.md §1) are this decoder's
// scope too, so the indefinite-length branches of the teacher's reader
// are trimmed rather than carried as unreachable code.
//
// Grounded on argon-chat-cbor.go/reader.go's CborReader, trimmed to this
// narrower wire format.
package decode

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/embedc-cbor/cbor"
)

// Errors a Decoder can return.
var (
	ErrUnexpectedEndOfData = errors.New("decode: unexpected end of data")
	ErrInvalidMajorType    = errors.New("decode: invalid major type")
	ErrInvalidSimpleValue  = errors.New("decode: invalid simple value")
	ErrInvalidUTF8         = errors.New("decode: invalid UTF-8 in text string")
	ErrOverflow            = errors.New("decode: integer overflow")
	ErrInvalidState        = errors.New("decode: invalid decoder state for this operation")
	ErrNestingTooDeep      = errors.New("decode: maximum nesting depth exceeded")
	ErrNotAtEnd            = errors.New("decode: unexpected data after root value")
)

// TypeMismatchError reports that the decoder was asked to read a value of
// one State but the wire held another.
type TypeMismatchError struct {
	Expected State
	Actual   State
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("decode: expected %s but got %s", e.Expected, e.Actual)
}

// State is what kind of item the decoder is positioned on.
type State int

const (
	StateUndefined State = iota
	StateUnsignedInteger
	StateNegativeInteger
	StateByteString
	StateTextString
	StateStartArray
	StateEndArray
	StateStartMap
	StateEndMap
	StateTag
	StateSimpleValue
	StateHalfFloat
	StateSingleFloat
	StateDoubleFloat
	StateNull
	StateBoolean
	StateUndefinedValue
	StateFinished
)

func (s State) String() string {
	switch s {
	case StateUndefined:
		return "Undefined"
	case StateUnsignedInteger:
		return "UnsignedInteger"
	case StateNegativeInteger:
		return "NegativeInteger"
	case StateByteString:
		return "ByteString"
	case StateTextString:
		return "TextString"
	case StateStartArray:
		return "StartArray"
	case StateEndArray:
		return "EndArray"
	case StateStartMap:
		return "StartMap"
	case StateEndMap:
		return "EndMap"
	case StateTag:
		return "Tag"
	case StateSimpleValue:
		return "SimpleValue"
	case StateHalfFloat:
		return "HalfFloat"
	case StateSingleFloat:
		return "SingleFloat"
	case StateDoubleFloat:
		return "DoubleFloat"
	case StateNull:
		return "Null"
	case StateBoolean:
		return "Boolean"
	case StateUndefinedValue:
		return "Undefined"
	case StateFinished:
		return "Finished"
	default:
		return "Unknown"
	}
}

// nestingInfo tracks one open container during decode.
type nestingInfo struct {
	majorType      cbor.MajorType
	definiteLength int64
	itemsRead      int64
	isMap          bool
	keyRead        bool
}

// maxNestingDepth mirrors the encoder core's default; a decoder reading
// this encoder's own output never needs to go deeper.
const maxNestingDepth = cbor.MaxNestingDepth

// Decoder reads CBOR items back out of a byte slice produced by
// cbor.EncodeContext (or any other definite-length, minimum-length CBOR
// producer).
type Decoder struct {
	data          []byte
	offset        int
	nestingStack  [maxNestingDepth]nestingInfo
	depth         int
	maxDepth      int
	cachedState   State
	stateComputed bool
}

// Option configures a Decoder at construction, mirroring the encoder
// core's functional-options pattern.
type Option func(*Decoder)

// WithMaxNestingDepth bounds how many levels of the fixed nesting array
// this decoder will descend into before reporting ErrNestingTooDeep. It
// never changes the backing array's size (still maxNestingDepth, fixed) —
// only the runtime check in ReadStartArray/ReadStartMap.
func WithMaxNestingDepth(depth int) Option {
	return func(d *Decoder) {
		if depth > 0 && depth <= maxNestingDepth {
			d.maxDepth = depth
		}
	}
}

// New creates a Decoder over data.
func New(data []byte, opts ...Option) *Decoder {
	d := &Decoder{data: data, maxDepth: maxNestingDepth}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Reset rebinds the decoder to new data and clears all state.
func (d *Decoder) Reset(data []byte) {
	d.data = data
	d.offset = 0
	d.depth = 0
	d.stateComputed = false
}

// BytesRemaining returns how many bytes are left to decode.
func (d *Decoder) BytesRemaining() int {
	return len(d.data) - d.offset
}

// NestingDepth returns the current number of open containers.
func (d *Decoder) NestingDepth() int {
	return d.depth
}

func (d *Decoder) invalidateState() {
	d.stateComputed = false
}

// PeekState returns the current item's state without consuming it.
func (d *Decoder) PeekState() (State, error) {
	if d.stateComputed {
		return d.cachedState, nil
	}
	state, err := d.computeState()
	if err != nil {
		return StateUndefined, err
	}
	d.cachedState = state
	d.stateComputed = true
	return state, nil
}

func (d *Decoder) computeState() (State, error) {
	if d.depth > 0 {
		info := &d.nestingStack[d.depth-1]
		if info.itemsRead >= info.definiteLength {
			if info.isMap {
				return StateEndMap, nil
			}
			return StateEndArray, nil
		}
	}

	if d.offset >= len(d.data) {
		if d.depth > 0 {
			return StateUndefined, ErrUnexpectedEndOfData
		}
		return StateFinished, nil
	}

	mt, ai := decodeInitialByte(d.data[d.offset])
	switch mt {
	case cbor.MajorTypePositiveInt:
		return StateUnsignedInteger, nil
	case cbor.MajorTypeNegativeInt:
		return StateNegativeInteger, nil
	case cbor.MajorTypeByteString:
		return StateByteString, nil
	case cbor.MajorTypeTextString:
		return StateTextString, nil
	case cbor.MajorTypeArray:
		return StateStartArray, nil
	case cbor.MajorTypeMap:
		return StateStartMap, nil
	case cbor.MajorTypeTag:
		return StateTag, nil
	case cbor.MajorTypeSimple:
		switch ai {
		case 20, 21:
			return StateBoolean, nil
		case 22:
			return StateNull, nil
		case 23:
			return StateUndefinedValue, nil
		case 24:
			return StateSimpleValue, nil
		case 25:
			return StateHalfFloat, nil
		case 26:
			return StateSingleFloat, nil
		case 27:
			return StateDoubleFloat, nil
		default:
			if ai < 24 {
				return StateSimpleValue, nil
			}
			return StateUndefined, ErrInvalidSimpleValue
		}
	}
	return StateUndefined, ErrInvalidMajorType
}

// decodeInitialByte splits an initial byte into major type and additional
// info, the decode-side mirror of the encoder's encodeInitialByte.
func decodeInitialByte(b byte) (cbor.MajorType, byte) {
	return cbor.MajorType(b >> 5), b & 0x1F
}

func (d *Decoder) readArgument(mt cbor.MajorType) (uint64, error) {
	if d.offset >= len(d.data) {
		return 0, ErrUnexpectedEndOfData
	}
	actualMt, ai := decodeInitialByte(d.data[d.offset])
	if actualMt != mt {
		return 0, &TypeMismatchError{}
	}
	d.offset++

	switch {
	case ai < 24:
		return uint64(ai), nil
	case ai == 24:
		if d.offset >= len(d.data) {
			return 0, ErrUnexpectedEndOfData
		}
		v := d.data[d.offset]
		d.offset++
		return uint64(v), nil
	case ai == 25:
		if d.offset+2 > len(d.data) {
			return 0, ErrUnexpectedEndOfData
		}
		v := binary.BigEndian.Uint16(d.data[d.offset:])
		d.offset += 2
		return uint64(v), nil
	case ai == 26:
		if d.offset+4 > len(d.data) {
			return 0, ErrUnexpectedEndOfData
		}
		v := binary.BigEndian.Uint32(d.data[d.offset:])
		d.offset += 4
		return uint64(v), nil
	case ai == 27:
		if d.offset+8 > len(d.data) {
			return 0, ErrUnexpectedEndOfData
		}
		v := binary.BigEndian.Uint64(d.data[d.offset:])
		d.offset += 8
		return v, nil
	default:
		return 0, ErrInvalidMajorType
	}
}

func (d *Decoder) advanceContainer() {
	if d.depth == 0 {
		return
	}
	info := &d.nestingStack[d.depth-1]
	if info.isMap {
		if info.keyRead {
			info.keyRead = false
			info.itemsRead++
		} else {
			info.keyRead = true
		}
	} else {
		info.itemsRead++
	}
	d.invalidateState()
}

// ReadUint64 reads an unsigned integer.
func (d *Decoder) ReadUint64() (uint64, error) {
	state, err := d.PeekState()
	if err != nil {
		return 0, err
	}
	if state != StateUnsignedInteger {
		return 0, &TypeMismatchError{Expected: StateUnsignedInteger, Actual: state}
	}
	d.invalidateState()
	val, err := d.readArgument(cbor.MajorTypePositiveInt)
	if err != nil {
		return 0, err
	}
	d.advanceContainer()
	return val, nil
}

// ReadInt64 reads a signed integer, positive or negative.
func (d *Decoder) ReadInt64() (int64, error) {
	state, err := d.PeekState()
	if err != nil {
		return 0, err
	}
	d.invalidateState()

	switch state {
	case StateUnsignedInteger:
		val, err := d.readArgument(cbor.MajorTypePositiveInt)
		if err != nil {
			return 0, err
		}
		if val > math.MaxInt64 {
			return 0, ErrOverflow
		}
		d.advanceContainer()
		return int64(val), nil
	case StateNegativeInteger:
		val, err := d.readArgument(cbor.MajorTypeNegativeInt)
		if err != nil {
			return 0, err
		}
		if val > math.MaxInt64 {
			return 0, ErrOverflow
		}
		d.advanceContainer()
		return -1 - int64(val), nil
	default:
		return 0, &TypeMismatchError{Expected: StateUnsignedInteger, Actual: state}
	}
}

// ReadByteString reads a byte string.
func (d *Decoder) ReadByteString() ([]byte, error) {
	state, err := d.PeekState()
	if err != nil {
		return nil, err
	}
	if state != StateByteString {
		return nil, &TypeMismatchError{Expected: StateByteString, Actual: state}
	}
	d.invalidateState()
	length, err := d.readArgument(cbor.MajorTypeByteString)
	if err != nil {
		return nil, err
	}
	if d.offset+int(length) > len(d.data) {
		return nil, ErrUnexpectedEndOfData
	}
	result := make([]byte, length)
	copy(result, d.data[d.offset:d.offset+int(length)])
	d.offset += int(length)
	d.advanceContainer()
	return result, nil
}

// ReadTextString reads a UTF-8 text string.
func (d *Decoder) ReadTextString() (string, error) {
	state, err := d.PeekState()
	if err != nil {
		return "", err
	}
	if state != StateTextString {
		return "", &TypeMismatchError{Expected: StateTextString, Actual: state}
	}
	d.invalidateState()
	length, err := d.readArgument(cbor.MajorTypeTextString)
	if err != nil {
		return "", err
	}
	if d.offset+int(length) > len(d.data) {
		return "", ErrUnexpectedEndOfData
	}
	strBytes := d.data[d.offset : d.offset+int(length)]
	if !utf8.Valid(strBytes) {
		return "", ErrInvalidUTF8
	}
	result := string(strBytes)
	d.offset += int(length)
	d.advanceContainer()
	return result, nil
}

// ReadStartArray reads an array header and returns its declared length.
func (d *Decoder) ReadStartArray() (int, error) {
	state, err := d.PeekState()
	if err != nil {
		return 0, err
	}
	if state != StateStartArray {
		return 0, &TypeMismatchError{Expected: StateStartArray, Actual: state}
	}
	if d.depth >= d.maxDepth {
		return 0, ErrNestingTooDeep
	}
	d.invalidateState()
	length, err := d.readArgument(cbor.MajorTypeArray)
	if err != nil {
		return 0, err
	}
	d.nestingStack[d.depth] = nestingInfo{majorType: cbor.MajorTypeArray, definiteLength: int64(length)}
	d.depth++
	return int(length), nil
}

// ReadEndArray reads the end of an array.
func (d *Decoder) ReadEndArray() error {
	state, err := d.PeekState()
	if err != nil {
		return err
	}
	if state != StateEndArray {
		return &TypeMismatchError{Expected: StateEndArray, Actual: state}
	}
	if d.depth == 0 || d.nestingStack[d.depth-1].majorType != cbor.MajorTypeArray {
		return ErrInvalidState
	}
	d.depth--
	d.invalidateState()
	d.advanceContainer()
	return nil
}

// ReadStartMap reads a map header and returns its declared key/value pair
// count.
func (d *Decoder) ReadStartMap() (int, error) {
	state, err := d.PeekState()
	if err != nil {
		return 0, err
	}
	if state != StateStartMap {
		return 0, &TypeMismatchError{Expected: StateStartMap, Actual: state}
	}
	if d.depth >= d.maxDepth {
		return 0, ErrNestingTooDeep
	}
	d.invalidateState()
	length, err := d.readArgument(cbor.MajorTypeMap)
	if err != nil {
		return 0, err
	}
	d.nestingStack[d.depth] = nestingInfo{majorType: cbor.MajorTypeMap, definiteLength: int64(length), isMap: true}
	d.depth++
	return int(length), nil
}

// ReadEndMap reads the end of a map.
func (d *Decoder) ReadEndMap() error {
	state, err := d.PeekState()
	if err != nil {
		return err
	}
	if state != StateEndMap {
		return &TypeMismatchError{Expected: StateEndMap, Actual: state}
	}
	if d.depth == 0 || d.nestingStack[d.depth-1].majorType != cbor.MajorTypeMap {
		return ErrInvalidState
	}
	d.depth--
	d.invalidateState()
	d.advanceContainer()
	return nil
}

// ReadTag reads a semantic tag. It does not advance the enclosing
// container's item count — the tagged value that follows does that,
// mirroring the encoder's AddTag.
func (d *Decoder) ReadTag() (uint64, error) {
	state, err := d.PeekState()
	if err != nil {
		return 0, err
	}
	if state != StateTag {
		return 0, &TypeMismatchError{Expected: StateTag, Actual: state}
	}
	d.invalidateState()
	return d.readArgument(cbor.MajorTypeTag)
}

// ReadBoolean reads a boolean simple value.
func (d *Decoder) ReadBoolean() (bool, error) {
	state, err := d.PeekState()
	if err != nil {
		return false, err
	}
	if state != StateBoolean {
		return false, &TypeMismatchError{Expected: StateBoolean, Actual: state}
	}
	d.invalidateState()
	_, ai := decodeInitialByte(d.data[d.offset])
	d.offset++
	d.advanceContainer()
	return ai == 21, nil
}

// ReadNull consumes a null simple value.
func (d *Decoder) ReadNull() error {
	state, err := d.PeekState()
	if err != nil {
		return err
	}
	if state != StateNull {
		return &TypeMismatchError{Expected: StateNull, Actual: state}
	}
	d.invalidateState()
	d.offset++
	d.advanceContainer()
	return nil
}

// ReadUndefined consumes an undefined simple value.
func (d *Decoder) ReadUndefined() error {
	state, err := d.PeekState()
	if err != nil {
		return err
	}
	if state != StateUndefinedValue {
		return &TypeMismatchError{Expected: StateUndefinedValue, Actual: state}
	}
	d.invalidateState()
	d.offset++
	d.advanceContainer()
	return nil
}

// ReadSimpleValue reads a non-float major-type-7 simple value.
func (d *Decoder) ReadSimpleValue() (cbor.SimpleValue, error) {
	state, err := d.PeekState()
	if err != nil {
		return 0, err
	}
	switch state {
	case StateSimpleValue, StateBoolean, StateNull, StateUndefinedValue:
	default:
		return 0, &TypeMismatchError{Expected: StateSimpleValue, Actual: state}
	}
	d.invalidateState()
	_, ai := decodeInitialByte(d.data[d.offset])
	d.offset++
	var value cbor.SimpleValue
	if ai == 24 {
		if d.offset >= len(d.data) {
			return 0, ErrUnexpectedEndOfData
		}
		value = cbor.SimpleValue(d.data[d.offset])
		d.offset++
	} else {
		value = cbor.SimpleValue(ai)
	}
	d.advanceContainer()
	return value, nil
}

// ReadFloat16 reads a half-precision float, returned widened to float32.
func (d *Decoder) ReadFloat16() (float32, error) {
	state, err := d.PeekState()
	if err != nil {
		return 0, err
	}
	if state != StateHalfFloat {
		return 0, &TypeMismatchError{Expected: StateHalfFloat, Actual: state}
	}
	d.invalidateState()
	d.offset++
	if d.offset+2 > len(d.data) {
		return 0, ErrUnexpectedEndOfData
	}
	bits := binary.BigEndian.Uint16(d.data[d.offset:])
	d.offset += 2
	d.advanceContainer()
	return float16BitsToFloat32(bits), nil
}

// ReadFloat32 reads a single-precision float.
func (d *Decoder) ReadFloat32() (float32, error) {
	state, err := d.PeekState()
	if err != nil {
		return 0, err
	}
	if state != StateSingleFloat {
		return 0, &TypeMismatchError{Expected: StateSingleFloat, Actual: state}
	}
	d.invalidateState()
	d.offset++
	if d.offset+4 > len(d.data) {
		return 0, ErrUnexpectedEndOfData
	}
	bits := binary.BigEndian.Uint32(d.data[d.offset:])
	d.offset += 4
	d.advanceContainer()
	return math.Float32frombits(bits), nil
}

// ReadFloat64 reads a double-precision float.
func (d *Decoder) ReadFloat64() (float64, error) {
	state, err := d.PeekState()
	if err != nil {
		return 0, err
	}
	if state != StateDoubleFloat {
		return 0, &TypeMismatchError{Expected: StateDoubleFloat, Actual: state}
	}
	d.invalidateState()
	d.offset++
	if d.offset+8 > len(d.data) {
		return 0, ErrUnexpectedEndOfData
	}
	bits := binary.BigEndian.Uint64(d.data[d.offset:])
	d.offset += 8
	d.advanceContainer()
	return math.Float64frombits(bits), nil
}

// ReadFloat reads any width of float and widens it to float64.
func (d *Decoder) ReadFloat() (float64, error) {
	state, err := d.PeekState()
	if err != nil {
		return 0, err
	}
	switch state {
	case StateHalfFloat:
		f, err := d.ReadFloat16()
		return float64(f), err
	case StateSingleFloat:
		f, err := d.ReadFloat32()
		return float64(f), err
	case StateDoubleFloat:
		return d.ReadFloat64()
	default:
		return 0, &TypeMismatchError{Expected: StateDoubleFloat, Actual: state}
	}
}

// SkipValue skips the current value, recursing into arrays and maps.
func (d *Decoder) SkipValue() error {
	state, err := d.PeekState()
	if err != nil {
		return err
	}
	switch state {
	case StateUnsignedInteger:
		_, err = d.ReadUint64()
		return err
	case StateNegativeInteger:
		_, err = d.ReadInt64()
		return err
	case StateByteString:
		_, err = d.ReadByteString()
		return err
	case StateTextString:
		_, err = d.ReadTextString()
		return err
	case StateStartArray:
		return d.skipArray()
	case StateStartMap:
		return d.skipMap()
	case StateTag:
		if _, err := d.ReadTag(); err != nil {
			return err
		}
		return d.SkipValue()
	case StateBoolean:
		_, err = d.ReadBoolean()
		return err
	case StateNull:
		return d.ReadNull()
	case StateUndefinedValue:
		return d.ReadUndefined()
	case StateSimpleValue:
		_, err = d.ReadSimpleValue()
		return err
	case StateHalfFloat:
		_, err = d.ReadFloat16()
		return err
	case StateSingleFloat:
		_, err = d.ReadFloat32()
		return err
	case StateDoubleFloat:
		_, err = d.ReadFloat64()
		return err
	default:
		return ErrInvalidState
	}
}

func (d *Decoder) skipArray() error {
	length, err := d.ReadStartArray()
	if err != nil {
		return err
	}
	for i := 0; i < length; i++ {
		if err := d.SkipValue(); err != nil {
			return err
		}
	}
	return d.ReadEndArray()
}

func (d *Decoder) skipMap() error {
	length, err := d.ReadStartMap()
	if err != nil {
		return err
	}
	for i := 0; i < length; i++ {
		if err := d.SkipValue(); err != nil {
			return err
		}
		if err := d.SkipValue(); err != nil {
			return err
		}
	}
	return d.ReadEndMap()
}

// ReadEncodedValue reads one complete item (including nested children) as
// raw bytes without interpreting it — the decode-side counterpart to
// cbor.EncodeContext.AddRaw/WrapByteString.
func (d *Decoder) ReadEncodedValue() ([]byte, error) {
	start := d.offset
	if err := d.SkipValue(); err != nil {
		return nil, err
	}
	result := make([]byte, d.offset-start)
	copy(result, d.data[start:d.offset])
	return result, nil
}

// ExpectAtEnd returns ErrNotAtEnd if unconsumed bytes remain once the
// caller believes it has read the whole root value.
func (d *Decoder) ExpectAtEnd() error {
	if d.depth != 0 {
		return ErrInvalidState
	}
	if d.offset != len(d.data) {
		return ErrNotAtEnd
	}
	return nil
}

// float16BitsToFloat32 converts IEEE-754 half-precision bits to float32,
// the decode-side counterpart of internal/floatshort's encoder-side
// conversion.
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
