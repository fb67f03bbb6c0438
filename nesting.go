package cbor

// MaxNestingDepth is the default cap on open container frames, matching
// the constrained-environment recommendation in spec.md §3.
const MaxNestingDepth = 15

// maxItemsInFrame is the item-count ceiling a single frame's child count
// may reach before ArrayTooLong is latched (spec.md §4.2, §7).
const maxItemsInFrame = 65535

// nestingFrame records one open container: where its payload started in
// the output buffer, how many children it has accepted so far, and what
// kind of container it is. ByteString appears here too because bstr-wrap
// reuses the open/close machinery to emit a byte string whose payload is
// itself valid CBOR (spec.md §3).
type nestingFrame struct {
	majorType   MajorType
	startOffset uint32
	childCount  uint16
}

// nestingStack is a fixed-capacity array of nestingFrame plus a sentinel
// bottom frame (slot 0, an implicit never-emitted Array) that lets
// top-level items share the same "increment enclosing count" code path as
// nested ones. Grounded on the teacher's nestingInfo/[]nestingInfo, but
// converted from a growable slice to a fixed array (no allocation) per
// spec.md §3/§9.
type nestingStack struct {
	frames   [MaxNestingDepth + 1]nestingFrame
	cursor   int
	maxDepth int
}

func (s *nestingStack) init(maxDepth int) {
	if maxDepth <= 0 || maxDepth > MaxNestingDepth {
		maxDepth = MaxNestingDepth
	}
	s.maxDepth = maxDepth
	s.cursor = 0
	s.frames[0] = nestingFrame{majorType: MajorTypeArray}
}

func (s *nestingStack) isNested() bool {
	return s.cursor > 0
}

func (s *nestingStack) currentMajorType() MajorType {
	return s.frames[s.cursor].majorType
}

func (s *nestingStack) currentStartOffset() uint32 {
	return s.frames[s.cursor].startOffset
}

func (s *nestingStack) currentChildCount() uint16 {
	return s.frames[s.cursor].childCount
}

// push opens a new frame. It fails with CodeNestingTooDeep when the stack
// is already at maxDepth.
func (s *nestingStack) push(mt MajorType, startOffset uint32) ErrorCode {
	if s.cursor >= s.maxDepth {
		return CodeNestingTooDeep
	}
	s.cursor++
	s.frames[s.cursor] = nestingFrame{majorType: mt, startOffset: startOffset}
	return CodeSuccess
}

// pop closes the current frame. Callers must check isNested() first; pop
// never retreats below the sentinel.
func (s *nestingStack) pop() {
	if s.cursor > 0 {
		s.cursor--
	}
}

// increment adds by to the current frame's child count, failing with
// CodeArrayTooLong if the count would reach maxItemsInFrame.
func (s *nestingStack) increment(by uint16) ErrorCode {
	f := &s.frames[s.cursor]
	if uint32(f.childCount)+uint32(by) >= maxItemsInFrame {
		return CodeArrayTooLong
	}
	f.childCount += by
	return CodeSuccess
}

// countForHeader returns the number CBOR wants in the container header:
// the raw child count for Array, half of it for Map (keys+values). For
// ByteString it also returns the raw child count, which callers ignore in
// favour of the payload byte length.
func (s *nestingStack) countForHeader() uint64 {
	f := &s.frames[s.cursor]
	switch f.majorType {
	case MajorTypeMap:
		return uint64(f.childCount) / 2
	default:
		return uint64(f.childCount)
	}
}
