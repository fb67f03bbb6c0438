package main

import (
	"fmt"
	"math/rand"

	"github.com/embedc-cbor/cbor"
	"github.com/embedc-cbor/cbor/decode"
)

// mismatch describes one failed round trip found during a fuzz sweep.
type mismatch struct {
	iteration int
	detail    string
}

// runFuzzSweep generates n random scalar sequences, encodes each, decodes
// it back, and reports any that don't round-trip. It backs the fuzz
// subcommand's bulk check (spec.md §6).
func runFuzzSweep(n int, seed int64, report func(done, total int)) []mismatch {
	rng := rand.New(rand.NewSource(seed))
	var failures []mismatch

	for i := 0; i < n; i++ {
		values := randomUints(rng, 1+rng.Intn(8))

		buf := make([]byte, 4096)
		ctx := cbor.New(buf)
		ctx.OpenContainer(cbor.MajorTypeArray)
		for _, v := range values {
			ctx.AddUint(v)
		}
		ctx.CloseContainer(cbor.MajorTypeArray, false)

		out, err := ctx.Finish()
		if err != nil {
			failures = append(failures, mismatch{i, fmt.Sprintf("encode failed: %v", err)})
			if report != nil {
				report(i+1, n)
			}
			continue
		}

		d := decode.New(out)
		count, err := d.ReadStartArray()
		if err != nil || count != len(values) {
			failures = append(failures, mismatch{i, fmt.Sprintf("array length mismatch: got %d, want %d (err %v)", count, len(values), err)})
			if report != nil {
				report(i+1, n)
			}
			continue
		}
		for j, want := range values {
			got, err := d.ReadUint64()
			if err != nil || got != want {
				failures = append(failures, mismatch{i, fmt.Sprintf("item %d: got %d, want %d (err %v)", j, got, want, err)})
				break
			}
		}
		if err := d.ReadEndArray(); err != nil {
			failures = append(failures, mismatch{i, fmt.Sprintf("ReadEndArray failed: %v", err)})
		}

		if report != nil {
			report(i+1, n)
		}
	}
	return failures
}

func randomUints(rng *rand.Rand, n int) []uint64 {
	out := make([]uint64, n)
	for i := range out {
		switch rng.Intn(4) {
		case 0:
			out[i] = uint64(rng.Intn(24))
		case 1:
			out[i] = uint64(rng.Intn(256))
		case 2:
			out[i] = uint64(rng.Intn(1 << 20))
		default:
			out[i] = rng.Uint64()
		}
	}
	return out
}
