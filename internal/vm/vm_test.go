package vm_test

import (
	"testing"

	"vellum/internal/bytecode"
	"vellum/internal/compiler"
	"vellum/internal/lexer"
	"vellum/internal/object"
	"vellum/internal/parser"
	"vellum/internal/types"
	"vellum/internal/vm"
)

// compile runs the same lex -> parse -> compile pipeline the CLI uses,
// so these tests exercise the whole front end, not just dispatch.
func compile(t *testing.T, src string) *bytecode.Code {
	t.Helper()
	sc := lexer.NewScanner(src, "<test>")
	toks, err := sc.ScanTokens()
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	blk, perr := parser.New(toks, src).ParseProgram()
	if perr != nil {
		t.Fatalf("parse error: %v", perr)
	}
	code, cerr := compiler.CompileModule(blk, "<test>")
	if cerr != nil {
		t.Fatalf("compile error: %v", cerr)
	}
	return code
}

func run(t *testing.T, src string) (object.Object, *object.Exception) {
	t.Helper()
	in := vm.New(vm.DefaultConfig())
	vm.RegisterBuiltins(in)
	code := compile(t, src)
	th := vm.NewThread(in, "main")
	var result object.Object
	var exc *object.Exception
	in.EnterInterpreter(func() {
		result, exc = in.Exec(th, code)
	})
	return result, exc
}

func TestArithmeticPrecedence(t *testing.T) {
	r, exc := run(t, "ret 1 + 2 * 3")
	if exc != nil {
		t.Fatalf("unexpected error: %v", exc)
	}
	if n, _ := r.(*types.Int).Int64(); n != 7 {
		t.Errorf("got %d, want 7", n)
	}
}

func TestDictRoundTripThroughSource(t *testing.T) {
	r, exc := run(t, `
d = {"a": 1, "b": 2}
ret d["a"] + d["b"]
`)
	if exc != nil {
		t.Fatalf("unexpected error: %v", exc)
	}
	if n, _ := r.(*types.Int).Int64(); n != 3 {
		t.Errorf("got %d, want 3", n)
	}
}

func TestClosureCapturesEnclosingVariable(t *testing.T) {
	r, exc := run(t, `
func make(n) {
    func inner() {
        ret n
    }
    ret inner
}
f = make(41)
ret f() + 1
`)
	if exc != nil {
		t.Fatalf("unexpected error: %v", exc)
	}
	if n, _ := r.(*types.Int).Int64(); n != 42 {
		t.Errorf("got %d, want 42", n)
	}
}

func TestNestedClosureCapturesTransitively(t *testing.T) {
	r, exc := run(t, `
func outer(a) {
    func middle(b) {
        func inner(c) {
            ret a + b + c
        }
        ret inner
    }
    ret middle
}
f = outer(1)(2)
ret f(3)
`)
	if exc != nil {
		t.Fatalf("unexpected error: %v", exc)
	}
	if n, _ := r.(*types.Int).Int64(); n != 6 {
		t.Errorf("got %d, want 6", n)
	}
}

func TestTryCatchRecoversFromException(t *testing.T) {
	r, exc := run(t, `
try {
    throw 1 / 0
} catch e {
    ret "ok"
}
`)
	if exc != nil {
		t.Fatalf("unexpected error: %v", exc)
	}
	if r.(*types.Str).Value != "ok" {
		t.Errorf("got %q, want %q", r.(*types.Str).Value, "ok")
	}
}

func TestUncaughtExceptionPropagatesToCaller(t *testing.T) {
	_, exc := run(t, `ret 1 / 0`)
	if exc == nil {
		t.Fatal("expected division by zero to raise")
	}
	if !exc.Type().IsSubtype(object.MathErrorType) {
		t.Errorf("got %v, want a MathError", exc.Type())
	}
}

func TestIteratorProtocolSumsRange(t *testing.T) {
	r, exc := run(t, `
total = 0
for x in range(1, 11) {
    total = total + x
}
ret total
`)
	if exc != nil {
		t.Fatalf("unexpected error: %v", exc)
	}
	if n, _ := r.(*types.Int).Int64(); n != 55 {
		t.Errorf("got %d, want 55", n)
	}
}

func TestAbsBuiltinDispatchesThroughOperatorSlot(t *testing.T) {
	r, exc := run(t, "ret abs(-5) + abs(3)")
	if exc != nil {
		t.Fatalf("unexpected error: %v", exc)
	}
	if n, _ := r.(*types.Int).Int64(); n != 8 {
		t.Errorf("got %d, want 8", n)
	}
}

// A caught exception must not leave the operands pushed since the
// matching TRY_START on the shared stack: each loop iteration raises
// mid-subexpression (an undeclared-variable load after `x` is already
// pushed), and the catch must truncate back to the try's entry depth
// rather than stranding `x` under the exception value.
func TestTryCatchDoesNotLeakOperandStackAcrossIterations(t *testing.T) {
	in := vm.New(vm.DefaultConfig())
	vm.RegisterBuiltins(in)
	code := compile(t, `
x = 0
for i in range(0, 1000) {
    try {
        x = x + undefined_var
    } catch e {
    }
}
ret x
`)
	th := vm.NewThread(in, "main")
	var result object.Object
	var exc *object.Exception
	in.EnterInterpreter(func() {
		result, exc = in.Exec(th, code)
	})
	if exc != nil {
		t.Fatalf("unexpected error: %v", exc)
	}
	if n, _ := result.(*types.Int).Int64(); n != 0 {
		t.Errorf("got %d, want 0 (every iteration's assignment failed)", n)
	}
	if len(th.Stack) != 0 {
		t.Errorf("operand stack leaked %d entries across try/catch iterations", len(th.Stack))
	}
}

func TestBoolArithmeticBehavesAsZeroOrOne(t *testing.T) {
	r, exc := run(t, "ret true + 1 + (1 + true) + sum([true, false, true])")
	if exc != nil {
		t.Fatalf("unexpected error: %v", exc)
	}
	if n, _ := r.(*types.Int).Int64(); n != 6 {
		t.Errorf("got %d, want 6 (true+1=2, 1+true=2, sum([true,false,true])=2, total 6)", n)
	}
}

func TestShiftOperators(t *testing.T) {
	r, exc := run(t, "ret (1 << 4) + (64 >> 2)")
	if exc != nil {
		t.Fatalf("unexpected error: %v", exc)
	}
	if n, _ := r.(*types.Int).Int64(); n != 32 {
		t.Errorf("got %d, want 32", n)
	}
}

func TestBigIntegerPowerIsExact(t *testing.T) {
	r, exc := run(t, "ret 2 ** 100")
	if exc != nil {
		t.Fatalf("unexpected error: %v", exc)
	}
	got := r.(*types.Int)
	want := types.NewInt(1)
	for i := 0; i < 100; i++ {
		want = mustInt(types.IntType.Slots.Mul(want, types.NewInt(2)))
	}
	eq, _ := types.IntType.Slots.Eq(got, want)
	if !eq {
		t.Errorf("2**100 mismatch: got %s", got.AsBig())
	}
}

func mustInt(o object.Object, exc *object.Exception) *types.Int {
	if exc != nil {
		panic(exc)
	}
	return o.(*types.Int)
}

func TestDeepRecursionWithinLimitCompletes(t *testing.T) {
	r, exc := run(t, `
func countdown(n) {
    if n <= 0 {
        ret 0
    }
    ret countdown(n - 1)
}
ret countdown(1000)
`)
	if exc != nil {
		t.Fatalf("unexpected error: %v", exc)
	}
	if n, _ := r.(*types.Int).Int64(); n != 0 {
		t.Errorf("got %d, want 0", n)
	}
}

func TestExcessiveRecursionRaisesInternalErrorCleanly(t *testing.T) {
	in := vm.New(vm.Config{SuspendEvery: 64, MaxFrames: 50})
	vm.RegisterBuiltins(in)
	code := compile(t, `
func recurse(n) {
    ret recurse(n + 1)
}
ret recurse(0)
`)
	th := vm.NewThread(in, "main")
	var exc *object.Exception
	in.EnterInterpreter(func() {
		_, exc = in.Exec(th, code)
	})
	if exc == nil {
		t.Fatal("expected exceeding MaxFrames to raise")
	}
	if !exc.Type().IsSubtype(object.InternalErrorType) {
		t.Errorf("got %v, want an InternalError", exc.Type())
	}
}
