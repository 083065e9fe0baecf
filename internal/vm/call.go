package vm

import (
	"fmt"

	"vellum/internal/bytecode"
	"vellum/internal/object"
)

// Call is the uniform call entry point (spec §4.8 C8): invoking any
// object with an argument array. It dispatches among native functions,
// bytecode functions, bare code objects, type construction, and
// fallback to `type.call`.
func (in *Interp) Call(th *Thread, callee object.Object, args []object.Object) (object.Object, *object.Exception) {
	switch fn := callee.(type) {
	case *CFunc:
		return fn.Fn(th, args)
	case *object.Partial:
		full := make([]object.Object, 0, len(fn.Bound)+len(args))
		full = append(full, fn.Bound...)
		full = append(full, args...)
		return in.Call(th, fn.Callee, full)
	case *KFunc:
		return in.callKFunc(th, fn, args)
	case *object.Type:
		return in.construct(th, fn, args)
	default:
		t := callee.Type()
		if t.Slots.Call == nil {
			return nil, object.NewTypeError(fmt.Sprintf("'%s' object is not callable", t.Name))
		}
		full := make([]object.Object, 0, len(args)+1)
		full = append(full, callee)
		full = append(full, args...)
		return t.Slots.Call(callee, full)
	}
}

// callKFunc verifies arity, pushes a new frame with a fresh locals
// dictionary populated with parameter bindings, executes the code, and
// pops the frame (spec §4.8).
func (in *Interp) callKFunc(th *Thread, fn *KFunc, args []object.Object) (object.Object, *object.Exception) {
	if len(args) != len(fn.Params) {
		return nil, object.NewArgError(fmt.Sprintf("%s expects %d argument(s), got %d", fn.Name, len(fn.Params), len(args)))
	}
	locals := NewLocals()
	for i, p := range fn.Params {
		locals.Set(p, args[i])
	}
	return in.runCode(th, fn.Code, locals, fn)
}

// construct implements calling a type: `new`, then `init` with the
// correct type substitution for subclass constructors (spec §4.1,
// §4.8).
func (in *Interp) construct(th *Thread, t *object.Type, args []object.Object) (object.Object, *object.Exception) {
	if t.Slots.New == nil {
		return nil, object.NewTypeError(fmt.Sprintf("cannot instantiate '%s'", t.Name))
	}
	inst, exc := t.Slots.New(t, args)
	if exc != nil {
		return nil, exc
	}
	if t.Slots.Init != nil {
		if exc := t.Slots.Init(inst, args); exc != nil {
			return nil, exc
		}
	}
	return inst, nil
}

// runCode pushes a frame for code (with locals, or a fresh one if
// locals is nil, and no parameter bindings — "run with provided or new
// locals and no parameters", spec §4.8), executes the dispatch loop,
// and pops the frame on return.
func (in *Interp) runCode(th *Thread, code *bytecode.Code, locals *Locals, callee interface{}) (object.Object, *object.Exception) {
	if len(th.Frames) >= in.Config.MaxFrames {
		return nil, object.NewInternalError("maximum call depth exceeded")
	}
	if locals == nil {
		locals = NewLocals()
	}
	frame := &Frame{Callee: callee, Code: code, Locals: locals, StackBase: len(th.Stack)}
	th.Frames = append(th.Frames, frame)
	result, exc := in.dispatch(th, frame)
	if exc != nil {
		// No handler in frame caught it (handleRaise already truncated
		// to a handler's depth on any catch); the operands this frame
		// pushed since it started must not leak into the caller's own
		// operand stack (spec §4.7, §3.1 ownership).
		th.TruncateTo(frame.StackBase)
	}
	th.Frames = th.Frames[:len(th.Frames)-1]
	frame.Locals.Release()
	return result, exc
}

// ExecIsolated runs code against locals instead of Interp.Globals, for
// the composition root's module loader: an imported script's top-level
// names must land in their own namespace (so the importer sees them as
// `name.attr` via Module, not merged into its own globals), while still
// falling back to Globals for builtins through the usual resolveName
// chain (spec §4.10).
func (in *Interp) ExecIsolated(th *Thread, code *bytecode.Code, locals *Locals) (object.Object, *object.Exception) {
	return in.runCode(th, code, locals, nil)
}

// Exec runs top-level module/script code, for the CLI's "run
// file"/"run expression" entries (spec §6); module loading uses
// ExecIsolated instead (spec §4.10). The top-level frame's locals ARE Interp.Globals (not a
// throwaway scope), so a name bound at module scope is visible from any
// nested function once its own locals and closures miss, without those
// functions needing an explicit capture of the module frame.
func (in *Interp) Exec(th *Thread, code *bytecode.Code) (object.Object, *object.Exception) {
	return in.runCode(th, code, in.Globals.Retain(), nil)
}
