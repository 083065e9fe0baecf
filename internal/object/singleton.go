package object

// None, Bool and the small-integer cache are the process-wide immortal
// singletons named in spec §3.1. Bool's type lives here (it is just two
// instances of it); Int's cache lives in package types, which is free to
// use NewType/immortal headers the same way.

var NoneType = NewType("NoneType")

type noneObject struct{ Header }

var noneSingleton = func() *noneObject {
	n := &noneObject{}
	n.Header = NewHeader(NoneType)
	n.Header.MarkImmortal()
	return n
}()

// None returns the sole instance of NoneType.
func None() Object { return noneSingleton }

var BoolType = NewType("bool")

type boolObject struct {
	Header
	Value bool
}

var (
	trueSingleton  = newBool(true)
	falseSingleton = newBool(false)
)

func newBool(v bool) *boolObject {
	b := &boolObject{Value: v}
	b.Header = NewHeader(BoolType)
	b.Header.MarkImmortal()
	return b
}

// True and False return the two immortal bool singletons.
func True() Object  { return trueSingleton }
func False() Object { return falseSingleton }

// Bool returns True() or False() for a native bool.
func Bool(v bool) Object {
	if v {
		return trueSingleton
	}
	return falseSingleton
}

// AsBool unwraps a bool object's native value; ok is false if o isn't a
// bool.
func AsBool(o Object) (v bool, ok bool) {
	b, ok := o.(*boolObject)
	if !ok {
		return false, false
	}
	return b.Value, true
}

func init() {
	NoneType.Slots.Str = func(self Object) string { return "none" }
	NoneType.Slots.Repr = func(self Object) string { return "none" }
	NoneType.Slots.Eq = func(a, b Object) (bool, *Exception) { return a == b, nil }
	NoneType.Slots.Truthy = func(self Object) (bool, *Exception) { return false, nil }

	BoolType.Slots.Str = func(self Object) string {
		if self.(*boolObject).Value {
			return "true"
		}
		return "false"
	}
	BoolType.Slots.Repr = BoolType.Slots.Str
	BoolType.Slots.Eq = func(a, b Object) (bool, *Exception) {
		bb, ok := b.(*boolObject)
		if !ok {
			return false, nil
		}
		return a.(*boolObject).Value == bb.Value, nil
	}
	BoolType.Slots.Hash = func(self Object) (uint64, *Exception) {
		if self.(*boolObject).Value {
			return 1, nil
		}
		return 2, nil
	}
	BoolType.Slots.Truthy = func(self Object) (bool, *Exception) {
		return self.(*boolObject).Value, nil
	}
}
