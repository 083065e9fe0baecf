// Package compiler lowers the parser's AST into bytecode.Code (spec
// §4.6, component C6): one Code buffer per module or function body, a
// deduplicated constant pool, and an instruction stream the VM's single
// dispatch loop executes directly. The compiler does no static scope
// resolution of its own — LOAD/STORE carry names, and the VM's
// locals/closures/globals search (spec §4.7) resolves them at run time
// — so compiling a nested function literal is just compiling its body
// into a fresh Code and wrapping it in a kfunc template.
package compiler

import (
	"math/big"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"vellum/internal/bytecode"
	"vellum/internal/object"
	"vellum/internal/parser"
	"vellum/internal/types"
	"vellum/internal/vm"
)

// compiler holds the Code buffer currently being emitted into. Nested
// function literals push a fresh compiler (sharing only the file name)
// for the duration of their body and pop back to the enclosing one.
type compiler struct {
	code *bytecode.Code
	file string
}

// CompileModule compiles a whole parsed program into a single Code
// buffer suitable for Interp.Exec (spec §4.8 "top-level module code").
func CompileModule(block *parser.Block, file string) (code *bytecode.Code, err error) {
	c := &compiler{code: bytecode.NewCode("<module>"), file: file}
	defer func() {
		if r := recover(); r != nil {
			if ce, ok := r.(compileError); ok {
				err = ce.err
				return
			}
			panic(r)
		}
	}()
	c.compileBlock(block)
	return c.code, nil
}

// compileError is panicked by fail and recovered at the CompileModule
// boundary, so deeply nested Visit methods (which must satisfy
// interface{}-returning Accept signatures) don't need to thread a Go
// error back up through every call site.
type compileError struct{ err error }

func (c *compiler) fail(format string, args ...interface{}) {
	panic(compileError{errors.Errorf(format, args...)})
}

func (c *compiler) emit(op bytecode.Op, operand int32) int {
	return c.code.Emit(op, operand, 0, 0, c.file)
}

func (c *compiler) here() int { return c.code.Here() }

// patchJumpTo back-patches the operand of the jump/try instruction at
// pc so it targets target. Every offset-bearing opcode (JMP, JMPT,
// JMPF, TRY_START, TRY_END, ITER_NEXT) computes its destination as
// "this instruction's own pc + operand" (spec §4.6), so the operand is
// target-pc regardless of which of those opcodes pc refers to.
func (c *compiler) patchJumpTo(pc, target int) {
	c.code.PatchOperand(pc, int32(target-pc))
}

func (c *compiler) patchJumpHere(pc int) { c.patchJumpTo(pc, c.here()) }

func (c *compiler) constStr(s string) int32 {
	return int32(c.code.AddConstant(types.NewStr(s), "str:"+s))
}

// constObj interns o under key. Pass a nil key for values that must
// never be deduplicated (kfunc templates: each occurrence needs a
// distinct template for NEW_FUNC to clone).
func (c *compiler) constObj(o object.Object, key interface{}) int32 {
	return int32(c.code.AddConstant(o, key))
}

// nameOperand returns the constant-pool index of name as a string
// constant, for use as the operand of LOAD/STORE/LOAD_ATTR/STORE_ATTR —
// every name-bearing opcode indexes the constant pool for a *types.Str
// (spec §4.6).
func (c *compiler) nameOperand(name string) int32 { return c.constStr(name) }

func (c *compiler) compileBlock(b *parser.Block) {
	for _, s := range b.Stmts {
		s.Accept(c)
	}
}

// compileFunc compiles a function literal's body into its own Code and
// constructs the kfunc template the enclosing code's NEW_FUNC clones.
func (c *compiler) compileFunc(fn *parser.FuncExpr) *vm.KFunc {
	name := fn.Name
	if name == "" {
		name = "<anonymous>"
	}
	inner := &compiler{code: bytecode.NewCode(name), file: c.file}
	inner.compileBlock(fn.Body)
	return vm.NewKFunc(name, append([]string(nil), fn.Params...), inner.code)
}

// parseIntLiteral turns a scanned int lexeme (decimal or `0x` hex,
// optionally `L`-suffixed) into a types.Int constant, promoting to big
// automatically on overflow even when the `L` suffix is absent (spec
// §3.3 "transparent promotion"). The `L` suffix only skips the int64
// fast path: the value still goes through types.NewBigInt, which stores
// any value that fits int64 in the small form, so `5L` is not kept as a
// big integer.
func parseIntLiteral(raw string, forceBig bool) (*types.Int, error) {
	text := raw
	if forceBig {
		text = strings.TrimSuffix(text, "L")
	}
	base := 10
	if strings.HasPrefix(text, "0x") || strings.HasPrefix(text, "0X") {
		base = 16
		text = text[2:]
	}
	if !forceBig {
		if v, err := strconv.ParseInt(text, base, 64); err == nil {
			return types.NewInt(v), nil
		}
	}
	bi, ok := new(big.Int).SetString(text, base)
	if !ok {
		return nil, errors.Errorf("malformed integer literal %q", raw)
	}
	return types.NewBigInt(bi), nil
}

func parseFloatLiteral(raw string) (*types.Float, error) {
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, errors.Wrapf(err, "malformed float literal %q", raw)
	}
	return types.NewFloat(f), nil
}

func parseComplexLiteral(raw string) (*types.Complex, error) {
	text := strings.TrimSuffix(raw, "i")
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, errors.Wrapf(err, "malformed imaginary literal %q", raw)
	}
	return types.NewComplex(complex(0, f)), nil
}
