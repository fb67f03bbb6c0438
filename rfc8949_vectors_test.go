package cbor

import (
	"math/big"
	"testing"
	"time"
)

// RFC 8949 Appendix A vectors, encode side. Grounded on the teacher's
// rfc8949_test.go (decode-side vectors over the same appendix); only the
// definite-length, minimum-length subset applies, since that is all this
// core ever emits.
func TestRFC8949AppendixEncode(t *testing.T) {
	tests := []struct {
		name  string
		hex   string
		build func(c *EncodeContext)
	}{
		{"0", "00", func(c *EncodeContext) { c.AddUint(0) }},
		{"1", "01", func(c *EncodeContext) { c.AddUint(1) }},
		{"10", "0a", func(c *EncodeContext) { c.AddUint(10) }},
		{"23", "17", func(c *EncodeContext) { c.AddUint(23) }},
		{"24", "1818", func(c *EncodeContext) { c.AddUint(24) }},
		{"25", "1819", func(c *EncodeContext) { c.AddUint(25) }},
		{"100", "1864", func(c *EncodeContext) { c.AddUint(100) }},
		{"1000", "1903e8", func(c *EncodeContext) { c.AddUint(1000) }},
		{"1000000", "1a000f4240", func(c *EncodeContext) { c.AddUint(1000000) }},
		{"1000000000000", "1b000000e8d4a51000", func(c *EncodeContext) { c.AddUint(1000000000000) }},
		{"-1", "20", func(c *EncodeContext) { c.AddInt(-1) }},
		{"-10", "29", func(c *EncodeContext) { c.AddInt(-10) }},
		{"-100", "3863", func(c *EncodeContext) { c.AddInt(-100) }},
		{"-1000", "3903e7", func(c *EncodeContext) { c.AddInt(-1000) }},
		{"empty_byte_string", "40", func(c *EncodeContext) { c.AddBytes(MajorTypeByteString, nil) }},
		{"h'01020304'", "4401020304", func(c *EncodeContext) {
			c.AddBytes(MajorTypeByteString, []byte{0x01, 0x02, 0x03, 0x04})
		}},
		{"empty_text_string", "60", func(c *EncodeContext) { c.AddBytes(MajorTypeTextString, nil) }},
		{"a", "6161", func(c *EncodeContext) { c.AddBytes(MajorTypeTextString, []byte("a")) }},
		{"IETF", "6449455446", func(c *EncodeContext) { c.AddBytes(MajorTypeTextString, []byte("IETF")) }},
		{"backslash_quote", "62225c", func(c *EncodeContext) { c.AddBytes(MajorTypeTextString, []byte("\"\\")) }},
		{"unicode_u", "62c3bc", func(c *EncodeContext) { c.AddBytes(MajorTypeTextString, []byte("ü")) }},
		{"empty_array", "80", func(c *EncodeContext) {
			c.OpenContainer(MajorTypeArray)
			c.CloseContainer(MajorTypeArray, false)
		}},
		{"[1, 2, 3]", "83010203", func(c *EncodeContext) {
			c.OpenContainer(MajorTypeArray)
			c.AddUint(1)
			c.AddUint(2)
			c.AddUint(3)
			c.CloseContainer(MajorTypeArray, false)
		}},
		{"[[1], [2, 3], [4, 5]]", "838101820203820405", func(c *EncodeContext) {
			c.OpenContainer(MajorTypeArray)
			c.OpenContainer(MajorTypeArray)
			c.AddUint(1)
			c.CloseContainer(MajorTypeArray, false)
			c.OpenContainer(MajorTypeArray)
			c.AddUint(2)
			c.AddUint(3)
			c.CloseContainer(MajorTypeArray, false)
			c.OpenContainer(MajorTypeArray)
			c.AddUint(4)
			c.AddUint(5)
			c.CloseContainer(MajorTypeArray, false)
			c.CloseContainer(MajorTypeArray, false)
		}},
		{"empty_map", "a0", func(c *EncodeContext) {
			c.OpenContainer(MajorTypeMap)
			c.CloseContainer(MajorTypeMap, false)
		}},
		{"{1: 2, 3: 4}", "a201020304", func(c *EncodeContext) {
			c.OpenContainer(MajorTypeMap)
			c.AddUint(1)
			c.AddUint(2)
			c.AddUint(3)
			c.AddUint(4)
			c.CloseContainer(MajorTypeMap, false)
		}},
		{"{'a': 1, 'b': [2, 3]}", "a26161016162820203", func(c *EncodeContext) {
			c.OpenContainer(MajorTypeMap)
			c.AddBytes(MajorTypeTextString, []byte("a"))
			c.AddUint(1)
			c.AddBytes(MajorTypeTextString, []byte("b"))
			c.OpenContainer(MajorTypeArray)
			c.AddUint(2)
			c.AddUint(3)
			c.CloseContainer(MajorTypeArray, false)
			c.CloseContainer(MajorTypeMap, false)
		}},
		{"false", "f4", func(c *EncodeContext) { c.AddBool(false) }},
		{"true", "f5", func(c *EncodeContext) { c.AddBool(true) }},
		{"null", "f6", func(c *EncodeContext) { c.AddNull() }},
		{"undefined", "f7", func(c *EncodeContext) { c.AddUndefined() }},
		{"simple(16)", "f0", func(c *EncodeContext) { c.AddSimpleValue(SimpleValue(16)) }},
		{"simple(255)", "f8ff", func(c *EncodeContext) { c.AddSimpleValue(SimpleValue(255)) }},
		{"0.0_half", "f90000", func(c *EncodeContext) { c.AddFloat(0.0) }},
		{"1.0_half", "f93c00", func(c *EncodeContext) { c.AddFloat(1.0) }},
		{"1.5_half", "f93e00", func(c *EncodeContext) { c.AddFloat(1.5) }},
		{"100000.0_single", "fa47c35000", func(c *EncodeContext) { c.AddFloat(100000.0) }},
		{"1.1_double", "fb3ff199999999999a", func(c *EncodeContext) { c.AddFloat(1.1) }},
		{"tag_0_datetime", "c074323031332d30332d32315432303a30343a30305a", func(c *EncodeContext) {
			tm, err := time.Parse(time.RFC3339Nano, "2013-03-21T20:04:00Z")
			if err != nil {
				t.Fatalf("time.Parse: %v", err)
			}
			c.AddDateTime(tm)
		}},
		{"tag_1_epoch", "c11a514b67b0", func(c *EncodeContext) {
			c.AddUnixTime(time.Unix(1363896240, 0).UTC())
		}},
		{"bignum_2^64", "c249010000000000000000", func(c *EncodeContext) {
			v := new(big.Int)
			v.SetString("18446744073709551616", 10)
			c.AddBigInt(v)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := make([]byte, 64)
			ctx := New(buf)
			tt.build(ctx)
			got, err := ctx.Finish()
			if err != nil {
				t.Fatalf("Finish failed: %v", err)
			}
			hexBytes(t, tt.hex, got)
		})
	}
}
