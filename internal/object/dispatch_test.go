package object

import "testing"

func TestHashNormalizesZeroToOne(t *testing.T) {
	zeroHashType := NewType("zero_hash")
	zeroHashType.Slots.Hash = func(Object) (uint64, *Exception) { return 0, nil }
	obj := newInstance(zeroHashType)

	h, exc := Hash(obj)
	if exc != nil {
		t.Fatalf("unexpected error: %v", exc)
	}
	if h != 1 {
		t.Errorf("got %d, want 1 (0 is the unset sentinel, spec §9)", h)
	}
}

func TestHashUnhashableTypeRaisesTypeError(t *testing.T) {
	t2 := NewType("unhashable")
	obj := newInstance(t2)
	_, exc := Hash(obj)
	if exc == nil || !exc.Type().IsSubtype(TypeErrorType) {
		t.Fatalf("expected a TypeError, got %v", exc)
	}
}

func TestTruthyFallsBackToLen(t *testing.T) {
	seqType := NewType("seq")
	seqType.Slots.Len = func(Object) (int, *Exception) { return 0, nil }
	empty := newInstance(seqType)
	truthy, exc := Truthy(empty)
	if exc != nil {
		t.Fatalf("unexpected error: %v", exc)
	}
	if truthy {
		t.Error("an empty len-bearing object should be falsy")
	}
}

func TestTruthyDefaultsTrueWithNoSlots(t *testing.T) {
	plain := NewType("plain")
	obj := newInstance(plain)
	truthy, exc := Truthy(obj)
	if exc != nil {
		t.Fatalf("unexpected error: %v", exc)
	}
	if !truthy {
		t.Error("a type with no truthy/len slot should be truthy by default")
	}
}

func TestStrFallsBackToRepr(t *testing.T) {
	reprOnly := NewType("repr_only")
	reprOnly.Slots.Repr = func(Object) string { return "reprd" }
	obj := newInstance(reprOnly)
	if got := Str(obj); got != "reprd" {
		t.Errorf("got %q, want %q", got, "reprd")
	}
}

func TestEqualsSamePointerShortCircuits(t *testing.T) {
	plain := NewType("plain2")
	obj := newInstance(plain)
	eq, exc := Equals(obj, obj)
	if exc != nil {
		t.Fatalf("unexpected error: %v", exc)
	}
	if !eq {
		t.Error("an object must equal itself even with no eq slot")
	}
}

func TestExceptionIsOutOfIter(t *testing.T) {
	e := NewOutOfIterError()
	if !e.IsOutOfIter() {
		t.Error("NewOutOfIterError should report true for IsOutOfIter")
	}
	other := NewTypeError("nope")
	if other.IsOutOfIter() {
		t.Error("a TypeError must not report true for IsOutOfIter")
	}
}

func TestExceptionErrorFormatsTypeAndMessage(t *testing.T) {
	e := NewMathError("division by zero")
	want := "MathError: division by zero"
	if got := e.Error(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestNewSyntaxErrorCapturesOneFrame(t *testing.T) {
	e := NewSyntaxError("bad token", "f.vl", 3, 5)
	if len(e.Stack) != 1 {
		t.Fatalf("got %d frames, want 1", len(e.Stack))
	}
	f := e.Stack[0]
	if f.File != "f.vl" || f.Line != 3 || f.Column != 5 {
		t.Errorf("got %+v, want file f.vl line 3 col 5", f)
	}
}
