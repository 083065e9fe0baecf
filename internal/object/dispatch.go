package object

// Partial (pfunc) wraps another callable plus a set of pre-bound leading
// positional arguments (spec §3.5, §4.1). Attribute access on an
// instance that resolves to a callable yields a Partial bound to the
// instance ("self").
type Partial struct {
	Header
	Callee Object
	Bound  []Object
}

var partialType = NewType("pfunc")

func NewPartial(callee Object, bound ...Object) *Partial {
	p := &Partial{Callee: callee, Bound: bound}
	p.Header = NewHeader(partialType)
	return p
}

func PartialType() *Type { return partialType }

// isCallable reports whether o's type defines the call slot, or o is
// itself a Partial/Type (both are always callable).
func isCallable(o Object) bool {
	switch o.(type) {
	case *Partial, *Type:
		return true
	}
	return o.Type().Slots.Call != nil
}

// GetAttr implements attribute resolution (spec §4.1): if type(obj)
// defines getattr, invoke it; else walk type(obj)'s MRO. A callable
// result is returned bound to obj via a Partial; anything else is
// returned as-is. Failure raises AttrError.
func GetAttr(obj Object, name string) (Object, *Exception) {
	t := obj.Type()
	if t.Slots.GetAttr != nil {
		return t.Slots.GetAttr(obj, name)
	}
	v, ok := t.LookupAttr(name)
	if !ok {
		return nil, NewAttrError("no attribute '" + name + "' on type '" + t.Name + "'")
	}
	if isCallable(v) {
		return NewPartial(v, obj), nil
	}
	return v, nil
}

// SetAttr implements attribute assignment, dispatching through the
// type's setattr slot when present.
func SetAttr(obj Object, name string, val Object) *Exception {
	t := obj.Type()
	if t.Slots.SetAttr != nil {
		return t.Slots.SetAttr(obj, name, val)
	}
	return NewAttrError("type '" + t.Name + "' does not support attribute assignment")
}

// Equals reports object equality (spec §4.1): same pointer, identical
// small-integer encoding (delegated to the types package via the
// smallIntEq hook, set by package types at init to avoid an import
// cycle), or type.eq agreement.
var smallIntEq func(a, b Object) (bool, bool) // (equal, bothSmallInts)

// RegisterSmallIntEquality lets package types install its small-integer
// fast-path comparison without object importing types.
func RegisterSmallIntEquality(f func(a, b Object) (bool, bool)) {
	smallIntEq = f
}

func Equals(a, b Object) (bool, *Exception) {
	if a == b {
		return true, nil
	}
	if smallIntEq != nil {
		if eq, both := smallIntEq(a, b); both {
			return eq, nil
		}
	}
	t := a.Type()
	if t.Slots.Eq != nil {
		return t.Slots.Eq(a, b)
	}
	return false, nil
}

// Hash computes an object's hash via its type's hash slot. Absence of a
// hash slot makes the object unhashable (spec §3.2, §4.1). The result is
// normalized so it is never zero ("unset" sentinel, spec §3.3/§9).
func Hash(o Object) (uint64, *Exception) {
	t := o.Type()
	if t.Slots.Hash == nil {
		return 0, NewTypeError("unhashable type: '" + t.Name + "'")
	}
	h, exc := t.Slots.Hash(o)
	if exc != nil {
		return 0, exc
	}
	if h == 0 {
		h = 1
	}
	return h, nil
}

// Len dispatches to the type's len slot (spec §4.1).
func Len(o Object) (int, *Exception) {
	t := o.Type()
	if t.Slots.Len == nil {
		return 0, NewTypeError("object of type '" + t.Name + "' has no len()")
	}
	return t.Slots.Len(o)
}

// Truthy implements truthiness (spec §4.1): true/false singletons decide
// directly (via Slots.Truthy), numerics via Slots.Truthy, containers via
// Slots.Len (nonempty); otherwise dispatch to the type (a type without
// any applicable slot is truthy).
func Truthy(o Object) (bool, *Exception) {
	t := o.Type()
	if t.Slots.Truthy != nil {
		return t.Slots.Truthy(o)
	}
	if t.Slots.Len != nil {
		n, exc := t.Slots.Len(o)
		if exc != nil {
			return false, exc
		}
		return n != 0, nil
	}
	return true, nil
}

// Str dispatches to the type's str slot, falling back to repr, falling
// back to the generic "<Type @ addr>" form (Header.String).
func Str(o Object) string {
	t := o.Type()
	if t.Slots.Str != nil {
		return t.Slots.Str(o)
	}
	if t.Slots.Repr != nil {
		return t.Slots.Repr(o)
	}
	return o.Header().String()
}

// Repr dispatches to the type's repr slot, falling back to Str.
func Repr(o Object) string {
	t := o.Type()
	if t.Slots.Repr != nil {
		return t.Slots.Repr(o)
	}
	return Str(o)
}
