package vm

import (
	"vellum/internal/bytecode"
	"vellum/internal/object"
	"vellum/internal/types"
)

// dispatch runs the single instruction loop for frame until it returns
// or raises past the frame, suspending on the thread's schedule along
// the way and then continuing (spec §4.7, §5). Instruction decode
// mutates the operand stack and/or
// program counter.
func (in *Interp) dispatch(th *Thread, frame *Frame) (object.Object, *object.Exception) {
	code := frame.Code
	instrCount := 0
	for {
		if frame.PC >= len(code.Bytes) {
			return object.None(), nil
		}
		op := bytecode.Op(code.Bytes[frame.PC])
		var operand int32
		if op.HasOperand() {
			operand = code.ReadOperand(frame.PC)
		}
		next := frame.PC + 1
		if op.HasOperand() {
			next += 4
		}

		instrCount++
		if in.Config.SuspendEvery > 0 && instrCount%in.Config.SuspendEvery == 0 {
			in.gil.Suspend()
		}

		switch op {
		case bytecode.NOOP:
			frame.PC = next

		case bytecode.PUSH:
			th.Push(object.Retain(code.Constants[operand]))
			frame.PC = next

		case bytecode.DUP:
			th.Push(object.Retain(th.Peek()))
			frame.PC = next

		case bytecode.POPU:
			object.Release(th.Pop())
			frame.PC = next

		case bytecode.LIST:
			elems := th.PopN(int(operand))
			l := types.NewList(elems...)
			for _, e := range elems {
				object.Release(e)
			}
			th.Push(l)
			frame.PC = next

		case bytecode.TUPLE:
			elems := th.PopN(int(operand))
			t := types.NewTuple(elems...)
			for _, e := range elems {
				object.Release(e)
			}
			th.Push(t)
			frame.PC = next

		case bytecode.GETITEM:
			idx := th.Pop()
			obj := th.Pop()
			t := obj.Type()
			var v object.Object
			var exc *object.Exception
			if t.Slots.GetItem == nil {
				exc = object.NewTypeError("'" + t.Name + "' object is not subscriptable")
			} else {
				v, exc = t.Slots.GetItem(obj, idx)
			}
			object.Release(obj)
			object.Release(idx)
			if exc != nil {
				if handled := in.handleRaise(th, frame, exc); handled {
					continue
				}
				return nil, exc
			}
			th.Push(v)
			frame.PC = next

		case bytecode.SETITEM:
			val := th.Pop()
			idx := th.Pop()
			obj := th.Pop()
			t := obj.Type()
			var exc *object.Exception
			if t.Slots.SetItem == nil {
				exc = object.NewTypeError("object does not support item assignment")
			} else {
				exc = t.Slots.SetItem(obj, idx, val)
			}
			object.Release(obj)
			object.Release(idx)
			if exc != nil {
				object.Release(val)
				if handled := in.handleRaise(th, frame, exc); handled {
					continue
				}
				return nil, exc
			}
			th.Push(val)
			frame.PC = next

		case bytecode.CALL:
			n := int(operand)
			args := th.PopN(n - 1)
			callee := th.Pop()
			result, exc := in.Call(th, callee, args)
			object.Release(callee)
			for _, a := range args {
				object.Release(a)
			}
			if exc != nil {
				if handled := in.handleRaise(th, frame, exc); handled {
					continue
				}
				return nil, exc
			}
			th.Push(result)
			frame.PC = next

		case bytecode.RET:
			v := th.Pop()
			return v, nil

		case bytecode.THROW:
			v := th.Pop()
			exc := valueToException(v)
			if handled := in.handleRaise(th, frame, exc); handled {
				continue
			}
			return nil, exc

		case bytecode.ASSERT:
			cond := th.Pop()
			msg := th.Pop()
			truthy, texc := object.Truthy(cond)
			object.Release(cond)
			if texc == nil && !truthy {
				message := "assertion failed"
				if msg != object.None() {
					message = object.Str(msg)
				}
				texc = object.NewAssertError(message)
			}
			object.Release(msg)
			if texc != nil {
				if handled := in.handleRaise(th, frame, texc); handled {
					continue
				}
				return nil, texc
			}
			frame.PC = next

		case bytecode.JMP:
			frame.PC = frame.PC + int(operand)

		case bytecode.JMPT:
			v := th.Pop()
			truthy, exc := object.Truthy(v)
			object.Release(v)
			if exc != nil {
				if handled := in.handleRaise(th, frame, exc); handled {
					continue
				}
				return nil, exc
			}
			if truthy {
				frame.PC = frame.PC + int(operand)
			} else {
				frame.PC = next
			}

		case bytecode.JMPF:
			v := th.Pop()
			truthy, exc := object.Truthy(v)
			object.Release(v)
			if exc != nil {
				if handled := in.handleRaise(th, frame, exc); handled {
					continue
				}
				return nil, exc
			}
			if !truthy {
				frame.PC = frame.PC + int(operand)
			} else {
				frame.PC = next
			}

		case bytecode.TRY_START:
			frame.Handlers = append(frame.Handlers, handler{PC: frame.PC + int(operand), StackDepth: len(th.Stack)})
			frame.PC = next

		case bytecode.TRY_END:
			frame.Handlers = frame.Handlers[:len(frame.Handlers)-1]
			frame.PC = frame.PC + int(operand)

		case bytecode.LOAD:
			name := code.Constants[operand].(*types.Str).Value
			v, ok := in.resolveName(th, frame, name)
			if !ok {
				exc := object.NewInternalError("Use of undeclared variable " + name)
				if handled := in.handleRaise(th, frame, exc); handled {
					continue
				}
				return nil, exc
			}
			th.Push(object.Retain(v))
			frame.PC = next

		case bytecode.STORE:
			name := code.Constants[operand].(*types.Str).Value
			frame.Locals.Set(name, th.Peek())
			frame.PC = next

		case bytecode.LOAD_ATTR:
			name := code.Constants[operand].(*types.Str).Value
			obj := th.Pop()
			v, exc := object.GetAttr(obj, name)
			object.Release(obj)
			if exc != nil {
				if handled := in.handleRaise(th, frame, exc); handled {
					continue
				}
				return nil, exc
			}
			th.Push(v)
			frame.PC = next

		case bytecode.STORE_ATTR:
			name := code.Constants[operand].(*types.Str).Value
			val := th.Peek()
			obj := th.Stack[len(th.Stack)-2]
			exc := object.SetAttr(obj, name, val)
			if exc != nil {
				if handled := in.handleRaise(th, frame, exc); handled {
					continue
				}
				return nil, exc
			}
			th.Stack[len(th.Stack)-2] = val
			th.Stack = th.Stack[:len(th.Stack)-1]
			frame.PC = next

		case bytecode.NEW_FUNC:
			tmpl := th.Pop().(*KFunc)
			th.Push(tmpl.Clone())
			frame.PC = next

		case bytecode.ADD_CLOSURE:
			// Capture the enclosing frame's locals, plus (transitively)
			// whatever closures the enclosing function itself carries,
			// nearest scope first, so a function nested more than one
			// level deep can still resolve an outer-outer variable
			// (spec §3.5, §4.6).
			kf := th.Peek().(*KFunc)
			kf.Closures = append(kf.Closures, frame.Locals.Retain())
			if enclosing, ok := frame.Callee.(*KFunc); ok {
				for _, cl := range enclosing.Closures {
					kf.Closures = append(kf.Closures, cl.Retain())
				}
			}
			frame.PC = next

		case bytecode.MAKE_ITER:
			v := th.Pop()
			t := v.Type()
			var it object.Object
			var exc *object.Exception
			if t.Slots.Iter == nil {
				exc = object.NewTypeError("'" + t.Name + "' object is not iterable")
			} else {
				it, exc = t.Slots.Iter(v)
			}
			object.Release(v)
			if exc != nil {
				if handled := in.handleRaise(th, frame, exc); handled {
					continue
				}
				return nil, exc
			}
			th.Push(it)
			frame.PC = next

		case bytecode.ITER_NEXT:
			it := th.Peek()
			t := it.Type()
			val, exc := t.Slots.Next(it)
			if exc != nil {
				if exc.IsOutOfIter() {
					object.Release(th.Pop())
					frame.PC = frame.PC + int(operand)
					continue
				}
				if handled := in.handleRaise(th, frame, exc); handled {
					continue
				}
				return nil, exc
			}
			th.Push(val)
			frame.PC = next

		case bytecode.NOT:
			v := th.Pop()
			truthy, exc := object.Truthy(v)
			object.Release(v)
			if exc != nil {
				if handled := in.handleRaise(th, frame, exc); handled {
					continue
				}
				return nil, exc
			}
			th.Push(object.Bool(!truthy))
			frame.PC = next

		case bytecode.TRUTHY:
			v := th.Pop()
			truthy, exc := object.Truthy(v)
			object.Release(v)
			if exc != nil {
				if handled := in.handleRaise(th, frame, exc); handled {
					continue
				}
				return nil, exc
			}
			th.Push(object.Bool(truthy))
			frame.PC = next

		case bytecode.UOP_NEG, bytecode.UOP_BIN_NOT:
			v := th.Pop()
			t := v.Type()
			var slot func(object.Object) (object.Object, *object.Exception)
			if op == bytecode.UOP_NEG {
				slot = t.Slots.Neg
			} else {
				slot = t.Slots.Sqig
			}
			if slot == nil {
				object.Release(v)
				exc := object.NewTypeError("unsupported operand type for unary operator")
				if handled := in.handleRaise(th, frame, exc); handled {
					continue
				}
				return nil, exc
			}
			result, exc := slot(v)
			object.Release(v)
			if exc != nil {
				if handled := in.handleRaise(th, frame, exc); handled {
					continue
				}
				return nil, exc
			}
			th.Push(result)
			frame.PC = next

		default:
			result, exc := in.dispatchBinOp(op, th)
			if exc != nil {
				if handled := in.handleRaise(th, frame, exc); handled {
					continue
				}
				return nil, exc
			}
			th.Push(result)
			frame.PC = next
		}
	}
}

// handleRaise pops handlers down to this frame's current try-scope; if
// one exists, control jumps to its offset and the exception object is
// pushed on the operand stack (spec §4.7). An exception passes through
// here in every frame it unwinds through; the call-stack snapshot is
// attached only the first time, at the frame where it surfaces (spec §4.3
// "raising ... stores a snapshot of frames on the current thread").
func (in *Interp) handleRaise(th *Thread, frame *Frame, exc *object.Exception) bool {
	if exc.Stack == nil {
		exc.WithStack(th.snapshotFrames())
	}
	if len(frame.Handlers) == 0 {
		return false
	}
	h := frame.Handlers[len(frame.Handlers)-1]
	frame.Handlers = frame.Handlers[:len(frame.Handlers)-1]
	th.TruncateTo(h.StackDepth)
	frame.PC = h.PC
	th.Push(exc)
	return true
}

func valueToException(v object.Object) *object.Exception {
	if exc, ok := v.(*object.Exception); ok {
		return exc
	}
	return object.NewInternalError(object.Str(v))
}

// resolveName implements LOAD's three-tier search: the current frame's
// own locals, then the enclosing function's captured closures
// innermost-to-outermost (Closures is built nearest-scope-first by
// ADD_CLOSURE), then globals (spec §4.6 LOAD, §3.5 kfunc closures).
func (in *Interp) resolveName(th *Thread, frame *Frame, name string) (object.Object, bool) {
	if v, ok := frame.Locals.Get(name); ok {
		return v, true
	}
	if kf, ok := frame.Callee.(*KFunc); ok {
		for _, cl := range kf.Closures {
			if v, ok := cl.Get(name); ok {
				return v, true
			}
		}
	}
	return in.Globals.Get(name)
}

// dispatchBinOp runs the binary arithmetic/comparison opcodes, popping
// the right operand then the left (they were pushed left-then-right),
// dispatching through the operator slot table (spec §3.2, §4.6).
func (in *Interp) dispatchBinOp(op bytecode.Op, th *Thread) (object.Object, *object.Exception) {
	right := th.Pop()
	left := th.Pop()
	defer object.Release(right)
	defer object.Release(left)

	t := left.Type()
	switch op {
	case bytecode.BOP_ADD:
		return callBin(t.Slots.Add, left, right, "+")
	case bytecode.BOP_SUB:
		return callBin(t.Slots.Sub, left, right, "-")
	case bytecode.BOP_MUL:
		return callBin(t.Slots.Mul, left, right, "*")
	case bytecode.BOP_DIV:
		return callBin(t.Slots.Div, left, right, "/")
	case bytecode.BOP_MOD:
		return callBin(t.Slots.Mod, left, right, "%")
	case bytecode.BOP_POW:
		return callBin(t.Slots.Pow, left, right, "**")
	case bytecode.BOP_BIN_OR:
		return callBin(t.Slots.BinOr, left, right, "|")
	case bytecode.BOP_BIN_AND:
		return callBin(t.Slots.BinAnd, left, right, "&")
	case bytecode.BOP_BIN_XOR:
		return callBin(t.Slots.BinXor, left, right, "^")
	case bytecode.BOP_LSHIFT:
		return callBin(t.Slots.LShift, left, right, "<<")
	case bytecode.BOP_RSHIFT:
		return callBin(t.Slots.RShift, left, right, ">>")
	case bytecode.BOP_EQ:
		eq, exc := object.Equals(left, right)
		return boolOrErr(eq, exc)
	case bytecode.BOP_NE:
		eq, exc := object.Equals(left, right)
		if exc != nil {
			return nil, exc
		}
		return object.Bool(!eq), nil
	case bytecode.BOP_LT:
		return callCmp(t.Slots.Lt, left, right, "<")
	case bytecode.BOP_LE:
		return callCmp(t.Slots.Le, left, right, "<=")
	case bytecode.BOP_GT:
		return callCmp(t.Slots.Gt, left, right, ">")
	case bytecode.BOP_GE:
		return callCmp(t.Slots.Ge, left, right, ">=")
	case bytecode.BOP_CMP:
		if t.Slots.Cmp == nil {
			return nil, object.NewTypeError("unsupported operand type(s) for '<=>': '" + left.Type().Name + "' and '" + right.Type().Name + "'")
		}
		c, exc := t.Slots.Cmp(left, right)
		if exc != nil {
			return nil, exc
		}
		return types.NewInt(int64(c)), nil
	}
	return nil, object.NewInternalError("unimplemented opcode " + op.String())
}

func callBin(slot func(a, b object.Object) (object.Object, *object.Exception), left, right object.Object, sym string) (object.Object, *object.Exception) {
	if slot == nil {
		return nil, object.NewTypeError("unsupported operand type(s) for '" + sym + "': '" + left.Type().Name + "' and '" + right.Type().Name + "'")
	}
	return slot(left, right)
}

func callCmp(slot func(a, b object.Object) (bool, *object.Exception), left, right object.Object, sym string) (object.Object, *object.Exception) {
	if slot == nil {
		return nil, object.NewTypeError("unsupported operand type(s) for '" + sym + "': '" + left.Type().Name + "' and '" + right.Type().Name + "'")
	}
	v, exc := slot(left, right)
	return boolOrErr(v, exc)
}

func boolOrErr(v bool, exc *object.Exception) (object.Object, *object.Exception) {
	if exc != nil {
		return nil, exc
	}
	return object.Bool(v), nil
}
