package cbor

import (
	"math"

	"github.com/embedc-cbor/cbor/internal/floatshort"
)

// AddFloat appends a float64 using the narrowest IEEE-754 width
// (half/single/double) that represents it without loss, delegating the
// width choice to the floatshort collaborator (spec.md §6) and then
// driving the same AddSimpleOrFloat primitive a caller who already knows
// the width would use directly.
func (c *EncodeContext) AddFloat(v float64) {
	width, bits := shortestFloat(v)
	c.AddSimpleOrFloat(width, bits)
}

// AddFloat16, AddFloat32, AddFloat64 force a specific width regardless of
// whether a narrower one would round-trip, for callers that need a fixed
// wire shape (e.g. a schema pinning a field to double precision).
func (c *EncodeContext) AddFloat16(bits uint16) {
	c.AddSimpleOrFloat(Width2, uint64(bits))
}

func (c *EncodeContext) AddFloat32(v float32) {
	c.AddSimpleOrFloat(Width4, uint64(math.Float32bits(v)))
}

func (c *EncodeContext) AddFloat64(v float64) {
	c.AddSimpleOrFloat(Width8, math.Float64bits(v))
}

// shortestFloat adapts the floatshort collaborator's Width to this
// package's ArgumentWidth.
func shortestFloat(v float64) (ArgumentWidth, uint64) {
	w, bits := floatshort.Shortest(v)
	switch w {
	case floatshort.Width2:
		return Width2, bits
	case floatshort.Width4:
		return Width4, bits
	default:
		return Width8, bits
	}
}
