package cbor

import "testing"

func TestNestingStackSentinelFrame(t *testing.T) {
	var s nestingStack
	s.init(0) // clamps to MaxNestingDepth
	if s.maxDepth != MaxNestingDepth {
		t.Fatalf("maxDepth = %d, want %d", s.maxDepth, MaxNestingDepth)
	}
	if s.isNested() {
		t.Fatal("fresh stack should not be nested")
	}
	if s.currentMajorType() != MajorTypeArray {
		t.Fatalf("sentinel major type = %v, want Array", s.currentMajorType())
	}
}

func TestNestingStackPushPop(t *testing.T) {
	var s nestingStack
	s.init(MaxNestingDepth)

	if code := s.push(MajorTypeMap, 5); code != CodeSuccess {
		t.Fatalf("push failed: %v", code)
	}
	if !s.isNested() {
		t.Fatal("expected nested after push")
	}
	if s.currentMajorType() != MajorTypeMap {
		t.Fatalf("currentMajorType = %v, want Map", s.currentMajorType())
	}
	if s.currentStartOffset() != 5 {
		t.Fatalf("currentStartOffset = %d, want 5", s.currentStartOffset())
	}

	s.pop()
	if s.isNested() {
		t.Fatal("expected sentinel after pop")
	}
}

func TestNestingStackDepthLimit(t *testing.T) {
	var s nestingStack
	s.init(2)

	if code := s.push(MajorTypeArray, 0); code != CodeSuccess {
		t.Fatalf("push 1 failed: %v", code)
	}
	if code := s.push(MajorTypeArray, 0); code != CodeSuccess {
		t.Fatalf("push 2 failed: %v", code)
	}
	if code := s.push(MajorTypeArray, 0); code != CodeNestingTooDeep {
		t.Fatalf("push 3 = %v, want CodeNestingTooDeep", code)
	}
}

func TestNestingStackIncrement(t *testing.T) {
	var s nestingStack
	s.init(MaxNestingDepth)
	s.push(MajorTypeArray, 0)

	if code := s.increment(3); code != CodeSuccess {
		t.Fatalf("increment failed: %v", code)
	}
	if s.currentChildCount() != 3 {
		t.Fatalf("childCount = %d, want 3", s.currentChildCount())
	}
}

func TestNestingStackArrayTooLong(t *testing.T) {
	var s nestingStack
	s.init(MaxNestingDepth)
	s.push(MajorTypeArray, 0)
	s.frames[s.cursor].childCount = maxItemsInFrame - 1

	if code := s.increment(1); code != CodeArrayTooLong {
		t.Fatalf("increment at boundary = %v, want CodeArrayTooLong", code)
	}
}

func TestNestingStackCountForHeader(t *testing.T) {
	var s nestingStack
	s.init(MaxNestingDepth)

	s.push(MajorTypeMap, 0)
	s.increment(4) // two key/value pairs
	if got := s.countForHeader(); got != 2 {
		t.Fatalf("map countForHeader = %d, want 2", got)
	}
	s.pop()

	s.push(MajorTypeArray, 0)
	s.increment(4)
	if got := s.countForHeader(); got != 4 {
		t.Fatalf("array countForHeader = %d, want 4", got)
	}
}
