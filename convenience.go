package cbor

import (
	"math/big"
	"time"
)

// Well-known CBOR semantic tags used by the convenience helpers below
// (RFC 8949 §3.4).
const (
	TagDateTimeString    uint64 = 0
	TagUnixTime          uint64 = 1
	TagUnsignedBignum    uint64 = 2
	TagNegativeBignum    uint64 = 3
	TagURI               uint64 = 32
	TagEncodedCborData   uint64 = 24
	TagSelfDescribedCbor uint64 = 55799
)

// AddBigInt appends an arbitrary-precision integer. Values that fit in
// int64/uint64 are encoded directly as major type 0/1; larger magnitudes
// fall back to the bignum tags (2 or 3) wrapping a big-endian byte string,
// per RFC 8949 §3.4.3. This adds no new core state: it is pure
// composition over AddTag/AddBytes/AddInt/AddUint (spec.md §4.4).
func (c *EncodeContext) AddBigInt(v *big.Int) {
	if v == nil {
		c.AddNull()
		return
	}
	if v.IsInt64() {
		c.AddInt(v.Int64())
		return
	}
	if v.IsUint64() {
		c.AddUint(v.Uint64())
		return
	}

	var tag uint64
	abs := v
	if v.Sign() < 0 {
		tag = TagNegativeBignum
		abs = new(big.Int).Neg(v)
		abs.Sub(abs, big.NewInt(1))
	} else {
		tag = TagUnsignedBignum
	}
	c.AddTag(tag)
	c.AddBytes(MajorTypeByteString, abs.Bytes())
}

// AddDateTime appends an RFC 3339 date/time text string tagged 0.
func (c *EncodeContext) AddDateTime(t time.Time) {
	c.AddTag(TagDateTimeString)
	c.AddBytes(MajorTypeTextString, []byte(t.Format(time.RFC3339Nano)))
}

// AddUnixTime appends an epoch-based date/time tagged 1: an integer
// second count, or a float64 when sub-second precision is present.
func (c *EncodeContext) AddUnixTime(t time.Time) {
	c.AddTag(TagUnixTime)
	if t.Nanosecond() == 0 {
		c.AddInt(t.Unix())
		return
	}
	seconds := float64(t.Unix()) + float64(t.Nanosecond())/1e9
	width, bits := shortestFloat(seconds)
	c.AddSimpleOrFloat(width, bits)
}

// AddURI appends a URI text string tagged 32.
func (c *EncodeContext) AddURI(uri string) {
	c.AddTag(TagURI)
	c.AddBytes(MajorTypeTextString, []byte(uri))
}

// AddEncodedCBOR appends pre-encoded CBOR data tagged 24 (RFC 8949
// §3.4.5.1), framed as an ordinary byte string.
func (c *EncodeContext) AddEncodedCBOR(data []byte) {
	c.AddTag(TagEncodedCborData)
	c.AddBytes(MajorTypeByteString, data)
}

// AddSelfDescribed appends the self-described-CBOR tag (55799), a no-op
// marker some transports prefix a stream with.
func (c *EncodeContext) AddSelfDescribed() {
	c.AddTag(TagSelfDescribedCbor)
}

// AddRaw splices already-encoded CBOR bytes in verbatim, with no framing
// of its own. Used to embed a value produced by a different
// EncodeContext (or received over the wire) without re-parsing it.
func (c *EncodeContext) AddRaw(encoded []byte) {
	c.AddBytes(majorTypeRawPassThrough, encoded)
}

// WrapByteString opens a byte-string container, runs build against this
// same context to fill its payload with valid CBOR, and closes it,
// returning the wrapped region — the bstr-wrap technique used by COSE to
// hash an embedded CBOR value (spec.md §4.1, glossary "bstr-wrap").
func (c *EncodeContext) WrapByteString(build func(*EncodeContext)) []byte {
	c.OpenContainer(MajorTypeByteString)
	if build != nil {
		build(c)
	}
	return c.CloseContainer(MajorTypeByteString, true)
}
