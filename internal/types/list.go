package types

import (
	"strings"

	"vellum/internal/object"
)

// ListType backs the mutable ordered sequence (spec §3.3).
var ListType = object.NewType("list")

type List struct {
	object.Header
	Elems []object.Object
}

// NewList constructs a list, taking ownership of elems.
func NewList(elems ...object.Object) *List {
	for _, e := range elems {
		object.Retain(e)
	}
	l := &List{Elems: elems}
	l.Header = object.NewHeader(ListType)
	return l
}

// Push appends a value, retaining it, with geometric growth (≥1.25×)
// for amortized O(1) append (spec §4.2).
func (l *List) Push(v object.Object) {
	object.Retain(v)
	if len(l.Elems) == cap(l.Elems) {
		newCap := cap(l.Elems)*5/4 + 1
		grown := make([]object.Object, len(l.Elems), newCap)
		copy(grown, l.Elems)
		l.Elems = grown
	}
	l.Elems = append(l.Elems, v)
}

// PopDec pops the last element and releases the list's reference to it,
// for when the VM discards the popped value (spec §4.2 "distinguished
// so the VM can avoid spurious increment/decrement traffic").
func (l *List) PopDec() (object.Object, bool) {
	v, ok := l.pop()
	if ok {
		object.Release(v)
	}
	return v, ok
}

// PopOwner pops the last element and transfers the list's reference to
// the caller without an extra retain/release round trip.
func (l *List) PopOwner() (object.Object, bool) {
	return l.pop()
}

func (l *List) pop() (object.Object, bool) {
	if len(l.Elems) == 0 {
		return nil, false
	}
	n := len(l.Elems) - 1
	v := l.Elems[n]
	l.Elems[n] = nil
	l.Elems = l.Elems[:n]
	return v, true
}

// Clear releases every held reference and empties the list.
func (l *List) Clear() {
	for _, e := range l.Elems {
		object.Release(e)
	}
	l.Elems = l.Elems[:0]
}

func init() {
	ListType.Slots.Free = func(self object.Object) {
		self.(*List).Clear()
	}
	ListType.Slots.Len = func(o object.Object) (int, *object.Exception) {
		return len(o.(*List).Elems), nil
	}
	ListType.Slots.GetItem = func(self, key object.Object) (object.Object, *object.Exception) {
		l := self.(*List)
		idx, exc := indexFromKey(key, len(l.Elems))
		if exc != nil {
			return nil, exc
		}
		return l.Elems[idx], nil
	}
	ListType.Slots.SetItem = func(self object.Object, key, val object.Object) *object.Exception {
		l := self.(*List)
		idx, exc := indexFromKey(key, len(l.Elems))
		if exc != nil {
			return exc
		}
		object.Retain(val)
		object.Release(l.Elems[idx])
		l.Elems[idx] = val
		return nil
	}
	ListType.Slots.Add = func(ao, bo object.Object) (object.Object, *object.Exception) {
		a, aok := ao.(*List)
		b, bok := bo.(*List)
		if !aok || !bok {
			return nil, object.NewTypeError("can only concatenate list with list")
		}
		combined := make([]object.Object, 0, len(a.Elems)+len(b.Elems))
		combined = append(combined, a.Elems...)
		combined = append(combined, b.Elems...)
		return NewList(combined...), nil
	}
	ListType.Slots.Eq = func(ao, bo object.Object) (bool, *object.Exception) {
		a, aok := ao.(*List)
		b, bok := bo.(*List)
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
	ListType.Slots.Ne = func(a, b object.Object) (bool, *object.Exception) {
		eq, exc := ListType.Slots.Eq(a, b)
		return !eq, exc
	}
	ListType.Slots.Truthy = func(o object.Object) (bool, *object.Exception) {
		return len(o.(*List).Elems) != 0, nil
	}
	ListType.Slots.Str = func(o object.Object) string { return listRepr(o.(*List)) }
	ListType.Slots.Repr = ListType.Slots.Str
	ListType.Slots.Iter = func(self object.Object) (object.Object, *object.Exception) {
		return newSeqIter(self.(*List).Elems), nil
	}
}

func listRepr(l *List) string {
	parts := make([]string, len(l.Elems))
	for i, e := range l.Elems {
		parts[i] = object.Repr(e)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
