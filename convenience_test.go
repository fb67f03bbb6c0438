package cbor

import (
	"math/big"
	"testing"
	"time"
)

func TestAddBigIntSmallFastPaths(t *testing.T) {
	buf := make([]byte, 16)
	ctx := New(buf)
	ctx.AddBigInt(big.NewInt(10))
	got, err := ctx.Finish()
	if err != nil {
		t.Fatalf("Finish failed: %v", err)
	}
	hexBytes(t, "0a", got)
}

func TestAddBigIntNegativeSmallFastPath(t *testing.T) {
	buf := make([]byte, 16)
	ctx := New(buf)
	ctx.AddBigInt(big.NewInt(-1))
	got, err := ctx.Finish()
	if err != nil {
		t.Fatalf("Finish failed: %v", err)
	}
	hexBytes(t, "20", got)
}

func TestAddBigIntNil(t *testing.T) {
	buf := make([]byte, 16)
	ctx := New(buf)
	ctx.AddBigInt(nil)
	got, err := ctx.Finish()
	if err != nil {
		t.Fatalf("Finish failed: %v", err)
	}
	hexBytes(t, "f6", got)
}

func TestAddBigIntLargeNegative(t *testing.T) {
	buf := make([]byte, 32)
	ctx := New(buf)
	v := new(big.Int)
	v.SetString("-18446744073709551617", 10) // -(2^64 + 1)
	ctx.AddBigInt(v)
	got, err := ctx.Finish()
	if err != nil {
		t.Fatalf("Finish failed: %v", err)
	}
	// tag 3 (negative bignum) + byte string of the magnitude minus one: 2^64
	hexBytes(t, "c349010000000000000000", got)
}

func TestAddDateTime(t *testing.T) {
	buf := make([]byte, 64)
	ctx := New(buf)
	tm, err := time.Parse(time.RFC3339Nano, "2013-03-21T20:04:00Z")
	if err != nil {
		t.Fatalf("time.Parse: %v", err)
	}
	ctx.AddDateTime(tm)
	got, err := ctx.Finish()
	if err != nil {
		t.Fatalf("Finish failed: %v", err)
	}
	hexBytes(t, "c074323031332d30332d32315432303a30343a30305a", got)
}

func TestAddUnixTimeWholeSeconds(t *testing.T) {
	buf := make([]byte, 16)
	ctx := New(buf)
	ctx.AddUnixTime(time.Unix(1363896240, 0).UTC())
	got, err := ctx.Finish()
	if err != nil {
		t.Fatalf("Finish failed: %v", err)
	}
	hexBytes(t, "c11a514b67b0", got)
}

func TestAddUnixTimeSubSecond(t *testing.T) {
	buf := make([]byte, 16)
	ctx := New(buf)
	ctx.AddUnixTime(time.Unix(1363896240, 500000000).UTC())
	got, err := ctx.Finish()
	if err != nil {
		t.Fatalf("Finish failed: %v", err)
	}
	if got[0] != 0xC1 {
		t.Fatalf("missing tag 1 prefix: %x", got)
	}
	major, _ := decodeInitialByteForTest(got[1])
	if major != MajorTypeSimple {
		t.Fatalf("expected a float for sub-second unix time, got major %v", major)
	}
}

func TestAddURI(t *testing.T) {
	buf := make([]byte, 64)
	ctx := New(buf)
	ctx.AddURI("http://www.example.com")
	got, err := ctx.Finish()
	if err != nil {
		t.Fatalf("Finish failed: %v", err)
	}
	want := "d82076687474703a2f2f7777772e6578616d706c652e636f6d"
	hexBytes(t, want, got)
}

func TestAddEncodedCBOR(t *testing.T) {
	buf := make([]byte, 16)
	ctx := New(buf)
	ctx.AddEncodedCBOR([]byte{0x01})
	got, err := ctx.Finish()
	if err != nil {
		t.Fatalf("Finish failed: %v", err)
	}
	hexBytes(t, "d8184101", got)
}

func TestAddSelfDescribed(t *testing.T) {
	buf := make([]byte, 16)
	ctx := New(buf)
	ctx.AddSelfDescribed()
	ctx.AddUint(1)
	got, err := ctx.Finish()
	if err != nil {
		t.Fatalf("Finish failed: %v", err)
	}
	hexBytes(t, "d9d9f701", got)
}

func TestAddRaw(t *testing.T) {
	buf := make([]byte, 16)
	ctx := New(buf)
	ctx.OpenContainer(MajorTypeArray)
	ctx.AddRaw([]byte{0x01, 0x02})
	ctx.AddUint(3)
	ctx.CloseContainer(MajorTypeArray, false)

	got, err := ctx.Finish()
	if err != nil {
		t.Fatalf("Finish failed: %v", err)
	}
	// One AddRaw call is one child, regardless of how many CBOR items its
	// payload packs in, so this array has two children (the raw splice
	// plus the uint), not three.
	hexBytes(t, "82010203", got)
}

// decodeInitialByteForTest is a minimal local peek, avoiding an import
// cycle with the decode package (which imports this one).
func decodeInitialByteForTest(b byte) (MajorType, byte) {
	return MajorType(b >> 5), b & 0x1F
}
