package vm

import (
	"fmt"
	"strings"

	"vellum/internal/format"
	"vellum/internal/object"
	"vellum/internal/types"
)

// RegisterBuiltins installs the small set of native functions every
// vellum program can call without an explicit import: module loading
// (`__import__`, the lowering target for `import name`), call-stack
// introspection (SPEC_FULL's `callstack()`, recovered from kscript's
// traceback accessor), and the handful of container/printing
// primitives a program needs since the grammar itself has no literal
// syntax for calling into them (spec §4.8 "native functions", C8).
func RegisterBuiltins(in *Interp) {
	reg := func(name, sig string, fn NativeFn) {
		in.Globals.Set(name, NewCFunc(name, sig, fn))
	}
	reg("__import__", "(name)", builtinImport)
	reg("callstack", "()", builtinCallstack)
	reg("len", "(x)", builtinLen)
	reg("str", "(x)", builtinStr)
	reg("repr", "(x)", builtinRepr)
	reg("type", "(x)", builtinType)
	reg("print", "(*args)", builtinPrint)
	reg("sum", "(iterable)", builtinSum)
	reg("range", "(*args)", builtinRange)
	reg("inspect", "(x)", builtinInspect)
	reg("abs", "(x)", builtinAbs)
}

func builtinImport(th *Thread, args []object.Object) (object.Object, *object.Exception) {
	if len(args) != 1 {
		return nil, object.NewArgError("__import__ expects 1 argument")
	}
	name, ok := args[0].(*types.Str)
	if !ok {
		return nil, object.NewTypeError("__import__ expects a str")
	}
	return th.interp.Import(name.Value)
}

// builtinCallstack surfaces the live frame stack as a list of
// human-readable descriptors (SPEC_FULL "call-stack introspection
// builtin"), the same walk Exception raising snapshots (spec §4.3,
// §7), but reachable from ordinary code instead of only the top-level
// exception printer.
func builtinCallstack(th *Thread, args []object.Object) (object.Object, *object.Exception) {
	if len(args) != 0 {
		return nil, object.NewArgError("callstack expects no arguments")
	}
	frames := th.snapshotFrames()
	elems := make([]object.Object, len(frames))
	for i, f := range frames {
		elems[i] = types.NewStr(f.String())
	}
	return types.NewList(elems...), nil
}

func builtinLen(th *Thread, args []object.Object) (object.Object, *object.Exception) {
	if len(args) != 1 {
		return nil, object.NewArgError("len expects 1 argument")
	}
	n, exc := object.Len(args[0])
	if exc != nil {
		return nil, exc
	}
	return types.NewInt(int64(n)), nil
}

func builtinStr(th *Thread, args []object.Object) (object.Object, *object.Exception) {
	if len(args) != 1 {
		return nil, object.NewArgError("str expects 1 argument")
	}
	return types.NewStr(object.Str(args[0])), nil
}

func builtinRepr(th *Thread, args []object.Object) (object.Object, *object.Exception) {
	if len(args) != 1 {
		return nil, object.NewArgError("repr expects 1 argument")
	}
	return types.NewStr(object.Repr(args[0])), nil
}

func builtinType(th *Thread, args []object.Object) (object.Object, *object.Exception) {
	if len(args) != 1 {
		return nil, object.NewArgError("type expects 1 argument")
	}
	return args[0].Type(), nil
}

func builtinPrint(th *Thread, args []object.Object) (object.Object, *object.Exception) {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = object.Str(a)
	}
	fmt.Println(strings.Join(parts, " "))
	return object.None(), nil
}

// builtinSum walks any iterable, adding its elements through the
// operator-slot table the same way BOP_ADD would (spec §3.2), starting
// from integer zero.
func builtinSum(th *Thread, args []object.Object) (object.Object, *object.Exception) {
	if len(args) != 1 {
		return nil, object.NewArgError("sum expects 1 argument")
	}
	v := args[0]
	t := v.Type()
	if t.Slots.Iter == nil {
		return nil, object.NewTypeError("'" + t.Name + "' object is not iterable")
	}
	it, exc := t.Slots.Iter(v)
	if exc != nil {
		return nil, exc
	}
	var total object.Object = types.NewInt(0)
	for {
		val, exc := it.Type().Slots.Next(it)
		if exc != nil {
			if exc.IsOutOfIter() {
				break
			}
			return nil, exc
		}
		add := total.Type().Slots.Add
		if add == nil {
			return nil, object.NewTypeError("unsupported operand type(s) for '+': '" + total.Type().Name + "' and '" + val.Type().Name + "'")
		}
		total, exc = add(total, val)
		if exc != nil {
			return nil, exc
		}
	}
	return total, nil
}

// builtinRange constructs a range value from 1-3 int arguments,
// matching the `range(stop)` / `range(start, stop)` /
// `range(start, stop, step)` shapes spec.md's container section
// implies by naming `range` alongside list/tuple/dict/str.
func builtinRange(th *Thread, args []object.Object) (object.Object, *object.Exception) {
	asInt := func(o object.Object) (int64, *object.Exception) {
		i, ok := o.(*types.Int)
		if !ok {
			return 0, object.NewTypeError("range expects int arguments")
		}
		v, fits := i.Int64()
		if !fits {
			return 0, object.NewMathError("range bound too large")
		}
		return v, nil
	}
	var start, stop, step int64 = 0, 0, 1
	var exc *object.Exception
	switch len(args) {
	case 1:
		stop, exc = asInt(args[0])
	case 2:
		start, exc = asInt(args[0])
		if exc == nil {
			stop, exc = asInt(args[1])
		}
	case 3:
		start, exc = asInt(args[0])
		if exc == nil {
			stop, exc = asInt(args[1])
		}
		if exc == nil {
			step, exc = asInt(args[2])
		}
	default:
		return nil, object.NewArgError("range expects 1 to 3 arguments")
	}
	if exc != nil {
		return nil, exc
	}
	return types.NewRange(start, stop, step)
}

// builtinAbs dispatches through the `abs` operator slot (spec §3.2),
// the one unary slot the bytecode table has no dedicated UOP_* for.
func builtinAbs(th *Thread, args []object.Object) (object.Object, *object.Exception) {
	if len(args) != 1 {
		return nil, object.NewArgError("abs expects 1 argument")
	}
	t := args[0].Type()
	if t.Slots.Abs == nil {
		return nil, object.NewTypeError("bad operand type for abs(): '" + t.Name + "'")
	}
	return t.Slots.Abs(args[0])
}

// builtinInspect renders x via the C9 formatter's `%o` specifier: a
// non-recursive "type, address, refcount" descriptor (spec §4.9), the
// object-inspection counterpart to str/repr for debugging refcount and
// identity rather than value.
func builtinInspect(th *Thread, args []object.Object) (object.Object, *object.Exception) {
	if len(args) != 1 {
		return nil, object.NewArgError("inspect expects 1 argument")
	}
	s, err := format.Sprintf("%o", args[0])
	if err != nil {
		return nil, object.NewInternalError(err.Error())
	}
	return types.NewStr(s), nil
}
