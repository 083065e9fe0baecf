package object

import (
	"golang.org/x/exp/slices"
)

// Slots is the operator-slot table a type descriptor carries (spec
// §3.2). Each entry is a direct handle the VM dispatches on for a hot
// path; a nil slot means "undefined for this type".
type Slots struct {
	New    func(t *Type, args []Object) (Object, *Exception)
	Init   func(self Object, args []Object) *Exception
	Free   func(self Object)
	Str    func(self Object) string
	Repr   func(self Object) string
	Hash   func(self Object) (uint64, *Exception)
	Len    func(self Object) (int, *Exception)
	GetAttr func(self Object, name string) (Object, *Exception)
	SetAttr func(self Object, name string, val Object) *Exception
	GetItem func(self Object, key Object) (Object, *Exception)
	SetItem func(self Object, key, val Object) *Exception
	Call   func(self Object, args []Object) (Object, *Exception)
	Iter   func(self Object) (Object, *Exception)
	Next   func(self Object) (Object, *Exception)
	// Truthy is an internal extension to the slot table (not one of the
	// spec's VM dispatch opcodes) backing the truthiness rule in §4.1.
	Truthy func(self Object) (bool, *Exception)

	Add, Sub, Mul, Div, Mod, Pow              func(a, b Object) (Object, *Exception)
	BinOr, BinAnd, BinXor, LShift, RShift     func(a, b Object) (Object, *Exception)
	Cmp                                       func(a, b Object) (int, *Exception)
	Lt, Le, Gt, Ge, Eq, Ne                    func(a, b Object) (bool, *Exception)
	Neg, Sqig, Not, Abs                       func(a Object) (Object, *Exception)
}

// Type is itself an Object of type `type`; it carries a name, its
// parent types, an attribute table, and the operator-slot table.
type Type struct {
	Header
	Name    string
	Parents []*Type
	Attrs   map[string]Object
	Slots   Slots
}

var typeType = &Type{Name: "type"}

func init() {
	typeType.Header = NewHeader(typeType)
	typeType.Header.MarkImmortal()
}

// TypeType returns the metaclass: the type of every Type value.
func TypeType() *Type { return typeType }

// NewType constructs a type descriptor with the given name and parents.
func NewType(name string, parents ...*Type) *Type {
	t := &Type{
		Name:    name,
		Parents: parents,
		Attrs:   make(map[string]Object),
	}
	t.Header = NewHeader(typeType)
	return t
}

func (t *Type) Type() *Type { return typeType }

// IsSubtype reports whether t is a subtype of other: t == other, or any
// parent of t transitively is other (spec §3.2).
func (t *Type) IsSubtype(other *Type) bool {
	if t == other {
		return true
	}
	for _, p := range t.Parents {
		if p.IsSubtype(other) {
			return true
		}
	}
	return false
}

// MRO computes the method-resolution order: depth-first, left-to-right
// over parents, each type visited once. Used by attribute resolution.
func (t *Type) MRO() []*Type {
	var order []*Type
	var walk func(*Type)
	walk = func(cur *Type) {
		if slices.Contains(order, cur) {
			return
		}
		order = append(order, cur)
		for _, p := range cur.Parents {
			walk(p)
		}
	}
	walk(t)
	return order
}

// LookupAttr searches t's MRO for name, returning the raw attribute
// value (not yet bound to an instance).
func (t *Type) LookupAttr(name string) (Object, bool) {
	for _, cur := range t.MRO() {
		if v, ok := cur.Attrs[name]; ok {
			return v, true
		}
	}
	return nil, false
}
