package cbor

import "math"

// maxAddressableLength is the spec's 2^32-1 ceiling on total buffer size
// and single-payload size (spec.md §3, §7).
const maxAddressableLength = math.MaxUint32

// EncodeContext is the core encoder: a caller-owned output buffer, a
// bounded nesting stack, and a sticky error. Every operation is a no-op
// once an error has been latched; callers check the error only once, at
// Finish, instead of after every call (spec.md §4.4, §7).
//
// Grounded method-for-method on the teacher's CborWriter in writer.go,
// restructured from append-only/length-known-up-front encoding to
// insert-with-slide/back-patched encoding (spec.md §9).
type EncodeContext struct {
	output  outputBuffer
	nesting nestingStack
	err     *EncodeError
}

// Option configures an EncodeContext at construction, mirroring the
// teacher's WriterOption functional-options pattern.
type Option func(*EncodeContext)

// WithMaxNestingDepth bounds how many levels of the fixed nesting array
// are usable. It never changes the backing array's size (still
// MaxNestingDepth, fixed, no allocation) — only the runtime check in
// OpenContainer.
func WithMaxNestingDepth(depth int) Option {
	return func(c *EncodeContext) {
		if depth > 0 && depth <= MaxNestingDepth {
			c.nesting.maxDepth = depth
		}
	}
}

// New creates an EncodeContext writing into buffer. The context is
// poisoned immediately with CodeBufferTooLarge if buffer is too large to
// address with the core's 32-bit length bound.
func New(buffer []byte, opts ...Option) *EncodeContext {
	c := &EncodeContext{}
	c.output.init(buffer)
	c.nesting.init(MaxNestingDepth)
	if len(buffer) > maxAddressableLength {
		c.poison(CodeBufferTooLarge)
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Reset rebinds the context to a new backing buffer and clears all state,
// so one EncodeContext value can be reused across many encodes without
// ever allocating a new one.
func (c *EncodeContext) Reset(buffer []byte) {
	c.output.init(buffer)
	c.nesting.init(c.nesting.maxDepth)
	c.err = nil
	if len(buffer) > maxAddressableLength {
		c.poison(CodeBufferTooLarge)
	}
}

// poisoned reports whether the context has already latched an error.
func (c *EncodeContext) poisoned() bool {
	return c.err != nil
}

// poison latches code as the context's first error, if none is latched
// yet. Later errors never overwrite the first one (spec.md §7).
func (c *EncodeContext) poison(code ErrorCode) {
	if c.err == nil {
		c.err = newEncodeError(code, c.output.endPosition())
	}
}

// Len returns the number of bytes written so far. Meaningless once the
// context is poisoned.
func (c *EncodeContext) Len() int {
	return c.output.endPosition()
}

// NestingDepth returns the current number of open containers.
func (c *EncodeContext) NestingDepth() int {
	return c.nesting.cursor
}

// AddUint appends an unsigned integer (major type 0).
func (c *EncodeContext) AddUint(v uint64) {
	if c.poisoned() {
		return
	}
	emitHeader(&c.output, MajorTypePositiveInt, WidthDirect, v, c.output.endPosition())
	c.bumpChild(1)
}

// AddInt appends a signed integer, using major type 0 for non-negative
// values and major type 1 (one's-complement absolute value, spec.md P6)
// for negative ones.
func (c *EncodeContext) AddInt(v int64) {
	if c.poisoned() {
		return
	}
	if v < 0 {
		arg := uint64(-(v + 1))
		emitHeader(&c.output, MajorTypeNegativeInt, WidthDirect, arg, c.output.endPosition())
	} else {
		emitHeader(&c.output, MajorTypePositiveInt, WidthDirect, uint64(v), c.output.endPosition())
	}
	c.bumpChild(1)
}

// AddBytes appends a byte string, text string, or (major ==
// RawPassThrough) already-encoded CBOR spliced in verbatim with no
// framing of its own.
func (c *EncodeContext) AddBytes(major MajorType, payload []byte) {
	if c.poisoned() {
		return
	}
	if uint64(len(payload)) >= maxAddressableLength {
		c.poison(CodeBufferTooLarge)
		return
	}
	if major != majorTypeRawPassThrough {
		emitHeader(&c.output, major, WidthDirect, uint64(len(payload)), c.output.endPosition())
	}
	c.output.appendBytes(payload)
	c.bumpChild(1)
}

// AddTag appends a semantic tag (major type 6). A tag is a prefix on the
// next item, not an item itself: it deliberately does not bump the
// enclosing frame's child count. Callers must follow it with exactly one
// item; this is not enforced (spec.md §9).
func (c *EncodeContext) AddTag(tag uint64) {
	if c.poisoned() {
		return
	}
	emitHeader(&c.output, MajorTypeTag, WidthDirect, tag, c.output.endPosition())
}

// AddSimpleOrFloat appends a simple value or IEEE-754 float (major type
// 7). width forces the encoded width even when rawBits happens to fit a
// narrower one, which is how a zero-payload half/float/double still
// serializes at its true width. The float-to-shortest reduction that
// picks width and rawBits is an external collaborator (internal/
// floatshort in this repo).
func (c *EncodeContext) AddSimpleOrFloat(width ArgumentWidth, rawBits uint64) {
	if c.poisoned() {
		return
	}
	emitHeader(&c.output, MajorTypeSimple, width, rawBits, c.output.endPosition())
	c.bumpChild(1)
}

// bumpChild increments the enclosing frame's child count, poisoning the
// context with CodeArrayTooLong if that would overflow the item-count
// ceiling. Bytes for the item itself have already been written by the
// time this runs, matching the order spec.md §4.4 gives for every scalar
// op (emit header, then increment) — the sticky-error model means those
// bytes simply never reach a successful Finish.
func (c *EncodeContext) bumpChild(by uint16) {
	if code := c.nesting.increment(by); code != CodeSuccess {
		c.poison(code)
	}
}

// OpenContainer begins an Array, Map, or ByteString-wrap container. The
// container counts as one item in the enclosing frame (increment happens
// before push), so on NestingTooDeep the enclosing frame has already been
// bumped — acceptable because the error is sticky and the context is
// poisoned from this point on (spec.md §4.4).
func (c *EncodeContext) OpenContainer(major MajorType) {
	if c.poisoned() {
		return
	}
	c.bumpChild(1)
	if c.poisoned() {
		return
	}
	if code := c.nesting.push(major, uint32(c.output.endPosition())); code != CodeSuccess {
		c.poison(code)
	}
}

// CloseContainer ends the most recently opened container, back-patching
// its header at the offset recorded by OpenContainer. When wantView is
// true it also returns a view of the inserted header plus payload (a
// bstr-wrap caller uses this to get the encoded bytes of what it just
// closed); that view is a sub-slice of the caller's own backing array and
// is invalidated by any later operation on this context (spec.md §9).
func (c *EncodeContext) CloseContainer(major MajorType, wantView bool) []byte {
	if c.poisoned() {
		return nil
	}
	if !c.nesting.isNested() {
		c.poison(CodeTooManyCloses)
		return nil
	}
	if c.nesting.currentMajorType() != major {
		c.poison(CodeCloseMismatch)
		return nil
	}

	start := int(c.nesting.currentStartOffset())
	endBefore := c.output.endPosition()
	payloadLen := endBefore - start

	var arg uint64
	if major == MajorTypeByteString {
		arg = uint64(payloadLen)
	} else {
		arg = c.nesting.countForHeader()
	}

	emitHeader(&c.output, major, WidthDirect, arg, start)
	if c.poisoned() {
		return nil
	}

	var view []byte
	if wantView {
		view = c.output.backing[start:c.output.endPosition()]
	}
	c.nesting.pop()
	return view
}

// Finish validates that encoding completed cleanly and returns the
// produced bytes. Error precedence: a latched encoder error wins over a
// still-open container, which wins over a buffer-full condition detected
// only here (spec.md §4.4; the alternative "buffer-full always wins" order
// is also RFC-compliant and documented there as an implementation choice —
// this repo picks latched-error-first).
func (c *EncodeContext) Finish() ([]byte, error) {
	if c.poisoned() {
		return nil, c.err
	}
	if c.nesting.isNested() {
		return nil, newEncodeError(CodeArrayOrMapStillOpen, c.output.endPosition())
	}
	if c.output.hasOverflowed() {
		return nil, newEncodeError(CodeBufferTooSmall, c.output.endPosition())
	}
	return c.output.snapshot(), nil
}

// FinishSize is Finish but returns only the length, for callers that
// already hold the buffer and just need to know how much of it is valid.
func (c *EncodeContext) FinishSize() (int, error) {
	if _, err := c.Finish(); err != nil {
		return 0, err
	}
	return c.output.endPosition(), nil
}
