package vm

import (
	"fmt"

	"vellum/internal/bytecode"
	"vellum/internal/object"
)

// KFuncType backs user-defined bytecode functions (spec §3.5 "kfunc").
var KFuncType = object.NewType("kfunc")

// KFunc contains a code reference, its parameter names, and a closure
// list: an ordered sequence of captured local-scope dictionaries.
// NEW_FUNC copies the template pushed from the constant pool so that
// each materialization gets its own closure list; ADD_CLOSURE then
// appends the defining frame's locals to that copy (spec §4.6).
type KFunc struct {
	object.Header
	Name     string
	Params   []string
	Code     *bytecode.Code
	Closures []*Locals
}

// NewKFunc constructs a template kfunc with no captured closures; it is
// this value that lives in the constant pool and gets copied by
// NEW_FUNC at each materialization.
func NewKFunc(name string, params []string, code *bytecode.Code) *KFunc {
	k := &KFunc{Name: name, Params: params, Code: code}
	k.Header = object.NewHeader(KFuncType)
	return k
}

// Clone copies the template so ADD_CLOSURE can attach this particular
// materialization's captured locals without mutating the pooled
// template other call sites will also copy.
func (k *KFunc) Clone() *KFunc {
	clone := &KFunc{Name: k.Name, Params: k.Params, Code: k.Code}
	clone.Header = object.NewHeader(KFuncType)
	clone.Closures = append([]*Locals(nil), k.Closures...)
	for _, l := range clone.Closures {
		l.Retain()
	}
	return clone
}

func init() {
	KFuncType.Slots.Str = func(o object.Object) string {
		k := o.(*KFunc)
		return fmt.Sprintf("<kfunc %s/%d>", k.Name, len(k.Params))
	}
	KFuncType.Slots.Repr = KFuncType.Slots.Str
	KFuncType.Slots.Truthy = func(object.Object) (bool, *object.Exception) { return true, nil }
}

// CFuncType backs native-implemented functions (spec §3.5 "cfunc").
var CFuncType = object.NewType("cfunc")

// NativeFn is the Go shape of a cfunc body: it receives the thread (for
// raising exceptions that need a call-stack snapshot) and its
// arguments, returning a value or an exception.
type NativeFn func(th *Thread, args []object.Object) (object.Object, *object.Exception)

// CFunc wraps a native function with the signature string used in
// error reports (spec §3.5).
type CFunc struct {
	object.Header
	Name      string
	Signature string
	Fn        NativeFn
}

// NewCFunc constructs a cfunc value.
func NewCFunc(name, signature string, fn NativeFn) *CFunc {
	c := &CFunc{Name: name, Signature: signature, Fn: fn}
	c.Header = object.NewHeader(CFuncType)
	c.Header.MarkImmortal()
	return c
}

func init() {
	CFuncType.Slots.Str = func(o object.Object) string {
		c := o.(*CFunc)
		return fmt.Sprintf("<cfunc %s%s>", c.Name, c.Signature)
	}
	CFuncType.Slots.Repr = CFuncType.Slots.Str
	CFuncType.Slots.Truthy = func(object.Object) (bool, *object.Exception) { return true, nil }
}
