package types

import (
	"testing"

	"vellum/internal/object"
)

func TestListPushGrowsAndPreservesOrder(t *testing.T) {
	l := NewList()
	for i := 0; i < 10; i++ {
		l.Push(NewInt(int64(i)))
	}
	if len(l.Elems) != 10 {
		t.Fatalf("got %d elements, want 10", len(l.Elems))
	}
	for i := 0; i < 10; i++ {
		if v, _ := l.Elems[i].(*Int).Int64(); v != int64(i) {
			t.Errorf("position %d: got %d, want %d", i, v, i)
		}
	}
}

func TestListPopDecReturnsLastElement(t *testing.T) {
	l := NewList(NewInt(1), NewInt(2), NewInt(3))
	v, ok := l.PopDec()
	if !ok {
		t.Fatal("expected a value")
	}
	if got, _ := v.(*Int).Int64(); got != 3 {
		t.Errorf("got %d, want 3", got)
	}
	if len(l.Elems) != 2 {
		t.Errorf("got %d remaining elements, want 2", len(l.Elems))
	}
}

func TestListGetItemNegativeIndex(t *testing.T) {
	l := NewList(NewInt(10), NewInt(20), NewInt(30))
	v, exc := ListType.Slots.GetItem(l, NewInt(-1))
	if exc != nil {
		t.Fatalf("unexpected error: %v", exc)
	}
	if got, _ := v.(*Int).Int64(); got != 30 {
		t.Errorf("got %d, want 30", got)
	}
}

func TestListAddConcatenates(t *testing.T) {
	a := NewList(NewInt(1))
	b := NewList(NewInt(2), NewInt(3))
	r, exc := ListType.Slots.Add(a, b)
	if exc != nil {
		t.Fatalf("unexpected error: %v", exc)
	}
	combined := r.(*List)
	if len(combined.Elems) != 3 {
		t.Fatalf("got %d elements, want 3", len(combined.Elems))
	}
}

func TestTupleIsImmutableAndFixed(t *testing.T) {
	tup := NewTuple(NewInt(1), NewInt(2))
	if tup.Type().Slots.SetItem != nil {
		t.Error("tuple must not support item assignment")
	}
	if len(tup.Elems) != 2 {
		t.Errorf("got %d elements, want 2", len(tup.Elems))
	}
}

func TestEmptyTupleIsSingleton(t *testing.T) {
	a := NewTuple()
	b := NewTuple()
	if a != b {
		t.Error("the empty tuple should be the immortal shared singleton")
	}
}

func TestTupleReprShowsTrailingCommaForSingleton(t *testing.T) {
	tup := NewTuple(NewInt(1))
	if got := object.Repr(tup); got != "(1,)" {
		t.Errorf("got %q, want %q", got, "(1,)")
	}
}

func TestRangeZeroStepIsConstructionError(t *testing.T) {
	_, exc := NewRange(0, 10, 0)
	if exc == nil {
		t.Fatal("expected an error for a zero step")
	}
}

func TestRangeLenSignAware(t *testing.T) {
	r, _ := NewRange(1, 11, 1)
	if r.Len() != 10 {
		t.Errorf("range(1,11): got len %d, want 10", r.Len())
	}
	empty, _ := NewRange(10, 1, 1)
	if empty.Len() != 0 {
		t.Errorf("a positive-step range with stop <= start should have len 0, got %d", empty.Len())
	}
	desc, _ := NewRange(5, 0, -1)
	if desc.Len() != 5 {
		t.Errorf("range(5,0,-1): got len %d, want 5", desc.Len())
	}
}

func TestRangeIterYieldsExpectedSequence(t *testing.T) {
	r, _ := NewRange(1, 4, 1)
	it, exc := RangeType.Slots.Iter(r)
	if exc != nil {
		t.Fatalf("unexpected error: %v", exc)
	}
	var got []int64
	for {
		v, exc := it.Type().Slots.Next(it)
		if exc != nil {
			if exc.IsOutOfIter() {
				break
			}
			t.Fatalf("unexpected error: %v", exc)
		}
		n, _ := v.(*Int).Int64()
		got = append(got, n)
	}
	want := []int64{1, 2, 3}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: got %d, want %d", i, got[i], want[i])
		}
	}
}
