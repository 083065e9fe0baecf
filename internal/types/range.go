package types

import (
	"vellum/internal/object"
)

// RangeType backs the lazy start/stop/step sequence (spec §3.3).
var RangeType = object.NewType("range")

type Range struct {
	object.Header
	Start, Stop, Step int64
}

// NewRange validates step != 0 (spec §4.2 "a zero step is a construction
// error, not a runtime one") and constructs a Range.
func NewRange(start, stop, step int64) (*Range, *object.Exception) {
	if step == 0 {
		return nil, object.NewArgError("range step must not be zero")
	}
	r := &Range{Start: start, Stop: stop, Step: step}
	r.Header = object.NewHeader(RangeType)
	return r, nil
}

// Len computes the element count sign-aware, per spec §4.2: zero when
// the direction of step disagrees with stop relative to start.
func (r *Range) Len() int {
	if r.Step > 0 {
		if r.Stop <= r.Start {
			return 0
		}
		return int((r.Stop - r.Start + r.Step - 1) / r.Step)
	}
	if r.Start <= r.Stop {
		return 0
	}
	return int((r.Start - r.Stop - r.Step - 1) / -r.Step)
}

func init() {
	RangeType.Slots.Len = func(o object.Object) (int, *object.Exception) {
		return o.(*Range).Len(), nil
	}
	RangeType.Slots.GetItem = func(self, key object.Object) (object.Object, *object.Exception) {
		r := self.(*Range)
		idxObj, ok := key.(*Int)
		if !ok {
			return nil, object.NewTypeError("range indices must be integers")
		}
		idx64, fits := idxObj.Int64()
		if !fits {
			return nil, object.NewKeyError("index out of range")
		}
		idx, ok := normalizeIndex(int(idx64), r.Len())
		if !ok {
			return nil, object.NewKeyError("range index out of range")
		}
		return NewInt(r.Start + int64(idx)*r.Step), nil
	}
	RangeType.Slots.Eq = func(ao, bo object.Object) (bool, *object.Exception) {
		a, aok := ao.(*Range)
		b, bok := bo.(*Range)
		if !aok || !bok {
			return false, nil
		}
		if a.Len() == 0 && b.Len() == 0 {
			return true, nil
		}
		return a.Start == b.Start && a.Stop == b.Stop && a.Step == b.Step, nil
	}
	RangeType.Slots.Ne = func(a, b object.Object) (bool, *object.Exception) {
		eq, exc := RangeType.Slots.Eq(a, b)
		return !eq, exc
	}
	RangeType.Slots.Truthy = func(o object.Object) (bool, *object.Exception) {
		return o.(*Range).Len() != 0, nil
	}
	RangeType.Slots.Str = func(o object.Object) string { return rangeRepr(o.(*Range)) }
	RangeType.Slots.Repr = RangeType.Slots.Str
	RangeType.Slots.Iter = func(self object.Object) (object.Object, *object.Exception) {
		r := self.(*Range)
		it := &rangeIter{cur: r.Start, stop: r.Stop, step: r.Step}
		it.Header = object.NewHeader(rangeIterType)
		return it, nil
	}
}

func rangeRepr(r *Range) string {
	return "range(" + NewInt(r.Start).String() + ", " + NewInt(r.Stop).String() + ", " + NewInt(r.Step).String() + ")"
}

type rangeIter struct {
	object.Header
	cur, stop, step int64
}

var rangeIterType = object.NewType("range_iterator")

func init() {
	rangeIterType.Slots.Next = func(self object.Object) (object.Object, *object.Exception) {
		it := self.(*rangeIter)
		if it.step > 0 && it.cur >= it.stop {
			return nil, object.NewOutOfIterError()
		}
		if it.step < 0 && it.cur <= it.stop {
			return nil, object.NewOutOfIterError()
		}
		v := NewInt(it.cur)
		it.cur += it.step
		return v, nil
	}
}
