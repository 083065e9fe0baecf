package types

import (
	"strings"

	"vellum/internal/object"
)

// TupleType backs the immutable ordered sequence fixed at construction
// (spec §3.3).
var TupleType = object.NewType("tuple")

type Tuple struct {
	object.Header
	Elems []object.Object
}

var emptyTuple = func() *Tuple {
	t := &Tuple{}
	t.Header = object.NewHeader(TupleType)
	t.Header.MarkImmortal()
	return t
}()

// NewTuple constructs a tuple from elems, taking ownership (retaining
// each, per the "every container owns strong references" rule, spec
// §3.1). The empty tuple is the immortal singleton `(,)`.
func NewTuple(elems ...object.Object) *Tuple {
	if len(elems) == 0 {
		return emptyTuple
	}
	for _, e := range elems {
		object.Retain(e)
	}
	t := &Tuple{Elems: elems}
	t.Header = object.NewHeader(TupleType)
	return t
}

func init() {
	TupleType.Slots.Len = func(o object.Object) (int, *object.Exception) {
		return len(o.(*Tuple).Elems), nil
	}
	TupleType.Slots.GetItem = func(self, key object.Object) (object.Object, *object.Exception) {
		t := self.(*Tuple)
		idx, exc := indexFromKey(key, len(t.Elems))
		if exc != nil {
			return nil, exc
		}
		return t.Elems[idx], nil
	}
	TupleType.Slots.Eq = func(ao, bo object.Object) (bool, *object.Exception) {
		a, aok := ao.(*Tuple)
		b, bok := bo.(*Tuple)
		if !aok || !bok || len(a.Elems) != len(b.Elems) {
			return false, nil
		}
		for i := range a.Elems {
			eq, exc := object.Equals(a.Elems[i], b.Elems[i])
			if exc != nil {
				return false, exc
			}
			if !eq {
				return false, nil
			}
		}
		return true, nil
	}
	TupleType.Slots.Ne = func(a, b object.Object) (bool, *object.Exception) {
		eq, exc := TupleType.Slots.Eq(a, b)
		return !eq, exc
	}
	TupleType.Slots.Hash = func(o object.Object) (uint64, *object.Exception) {
		t := o.(*Tuple)
		var h uint64 = 14695981039346656037
		for _, e := range t.Elems {
			eh, exc := object.Hash(e)
			if exc != nil {
				return 0, exc
			}
			h ^= eh
			h *= 1099511628211
		}
		return h, nil
	}
	TupleType.Slots.Truthy = func(o object.Object) (bool, *object.Exception) {
		return len(o.(*Tuple).Elems) != 0, nil
	}
	TupleType.Slots.Str = func(o object.Object) string { return tupleRepr(o.(*Tuple)) }
	TupleType.Slots.Repr = TupleType.Slots.Str
	TupleType.Slots.Iter = func(self object.Object) (object.Object, *object.Exception) {
		return newSeqIter(self.(*Tuple).Elems), nil
	}
}

func tupleRepr(t *Tuple) string {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = object.Repr(e)
	}
	if len(parts) == 1 {
		return "(" + parts[0] + ",)"
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// indexFromKey validates key is an Int and normalizes negative indices
// (spec's container section plus the SPEC_FULL negative-indexing
// supplement).
func indexFromKey(key object.Object, length int) (int, *object.Exception) {
	idxObj, ok := key.(*Int)
	if !ok {
		return 0, object.NewTypeError("indices must be integers")
	}
	idx64, fits := idxObj.Int64()
	if !fits {
		return 0, object.NewKeyError("index out of range")
	}
	idx, ok := normalizeIndex(int(idx64), length)
	if !ok {
		return 0, object.NewKeyError("index out of range")
	}
	return idx, nil
}

// seqIter is a shared iterator implementation for Tuple and List,
// snapshotting the backing slice at MAKE_ITER time.
type seqIter struct {
	object.Header
	elems []object.Object
	pos   int
}

var seqIterType = object.NewType("seq_iterator")

func newSeqIter(elems []object.Object) *seqIter {
	it := &seqIter{elems: elems}
	it.Header = object.NewHeader(seqIterType)
	return it
}

func init() {
	seqIterType.Slots.Next = func(self object.Object) (object.Object, *object.Exception) {
		it := self.(*seqIter)
		if it.pos >= len(it.elems) {
			return nil, object.NewOutOfIterError()
		}
		v := it.elems[it.pos]
		it.pos++
		return object.Retain(v), nil
	}
}
