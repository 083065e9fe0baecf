package vm

import (
	"sync/atomic"

	"github.com/google/uuid"
	"vellum/internal/bytecode"
	"vellum/internal/object"
)

// Locals is a frame's name-keyed variable dictionary, shared (via
// reference counting) between the frame that owns it and every closure
// that captured it, since ADD_CLOSURE appends the defining frame's
// locals by reference rather than by copy (spec §3.5, §4.6).
type Locals struct {
	vars     map[string]object.Object
	refcount int32
}

// NewLocals constructs an empty, singly-owned locals dictionary.
func NewLocals() *Locals {
	return &Locals{vars: make(map[string]object.Object), refcount: 1}
}

// Retain increments the locals' own refcount (distinct from the
// refcounts of the values it holds) and returns itself for chaining.
func (l *Locals) Retain() *Locals {
	atomic.AddInt32(&l.refcount, 1)
	return l
}

// Release decrements the locals' refcount, releasing every held value
// once it reaches zero.
func (l *Locals) Release() {
	if atomic.AddInt32(&l.refcount, -1) == 0 {
		for _, v := range l.vars {
			object.Release(v)
		}
	}
}

// Get looks up name in this scope only (no parent chain: name
// resolution across locals/closures/globals is the VM's job, §4.7).
func (l *Locals) Get(name string) (object.Object, bool) {
	v, ok := l.vars[name]
	return v, ok
}

// Set stores val under name, retaining it and releasing whatever was
// previously bound (spec §3.1 ownership: "functions that store [a
// reference] must increment").
func (l *Locals) Set(name string, val object.Object) {
	object.Retain(val)
	if old, ok := l.vars[name]; ok {
		object.Release(old)
	}
	l.vars[name] = val
}

// handler is one entry on a frame's TRY_START/TRY_END-maintained
// handler stack: the bytecode offset to jump to on raise, and the
// operand-stack depth to truncate back to first (spec §4.7: operands
// pushed since the matching TRY_START must not leak past a catch).
type handler struct {
	PC         int
	StackDepth int
}

// Frame is one in-progress invocation: its locals, program counter, and
// callee pointer (spec GLOSSARY "Frame"), plus the handler stack
// TRY_START/TRY_END maintain and the base offset into the thread's
// shared operand stack.
type Frame struct {
	Callee    interface{} // *KFunc for a function call, nil for top-level/module code
	Code      *bytecode.Code
	Locals    *Locals
	PC        int
	StackBase int
	Handlers  []handler
}

// Thread owns a name, a shared operand stack, a stack of call frames,
// at most one current exception, and the captured call-stack snapshot
// from the last raise (spec §3.6).
type Thread struct {
	Name       string
	Stack      []object.Object
	Frames     []*Frame
	Exception  *object.Exception
	CallStack  []object.Frame
	interp     *Interp
}

// NewThread constructs a thread, defaulting its name to a fresh UUID
// when name is empty (concrete use of google/uuid per SPEC_FULL DOMAIN
// STACK, mirroring the teacher's worker-naming convention).
func NewThread(interp *Interp, name string) *Thread {
	if name == "" {
		name = "thread-" + uuid.NewString()
	}
	return &Thread{Name: name, interp: interp}
}

// Push/Pop/Peek manage the shared operand stack.
func (t *Thread) Push(v object.Object) { t.Stack = append(t.Stack, v) }

func (t *Thread) Pop() object.Object {
	n := len(t.Stack) - 1
	v := t.Stack[n]
	t.Stack = t.Stack[:n]
	return v
}

func (t *Thread) Peek() object.Object { return t.Stack[len(t.Stack)-1] }

func (t *Thread) PopN(n int) []object.Object {
	start := len(t.Stack) - n
	vs := append([]object.Object(nil), t.Stack[start:]...)
	t.Stack = t.Stack[:start]
	return vs
}

// TruncateTo pops and releases every operand above depth. Used to
// unwind the shared operand stack to a handler's recorded depth before
// a catch runs, and to a frame's StackBase before an unhandled raise
// propagates to the caller (spec §4.7, §3.1 ownership).
func (t *Thread) TruncateTo(depth int) {
	for len(t.Stack) > depth {
		object.Release(t.Pop())
	}
}

// snapshotFrames walks the current frame stack into the flat
// []object.Frame form an Exception carries, innermost first (spec §4.3
// "raising ... stores ... a snapshot of frames on the current thread").
func (t *Thread) snapshotFrames() []object.Frame {
	var frames []object.Frame
	for i := len(t.Frames) - 1; i >= 0; i-- {
		f := t.Frames[i]
		name := "<module>"
		if kf, ok := f.Callee.(*KFunc); ok {
			name = kf.Name
		}
		var file string
		var line, col int
		if f.Code != nil {
			pos := f.Code.PositionAt(f.PC)
			file, line, col = pos.File, pos.Line, pos.Column
		}
		frames = append(frames, object.Frame{FuncName: name, File: file, Line: line, Column: col})
	}
	return frames
}
