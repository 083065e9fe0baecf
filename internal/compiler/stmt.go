package compiler

import (
	"vellum/internal/bytecode"
	"vellum/internal/object"
	"vellum/internal/parser"
)

func (c *compiler) VisitExprStmt(s *parser.ExprStmt) interface{} {
	c.compile(s.Expr)
	c.emit(bytecode.POPU, 0)
	return nil
}

func (c *compiler) VisitBlock(s *parser.Block) interface{} {
	c.compileBlock(s)
	return nil
}

// VisitIf lowers `if c1 b1 [elif c2 b2]... [else be]` as a chain of
// JMPF-guarded bodies, each ending in a JMP past the remaining chain
// (spec §4.6 "standard if/elif/else via JMPF/JMP").
func (c *compiler) VisitIf(s *parser.IfStmt) interface{} {
	var ends []int
	for i, cond := range s.Conds {
		c.compile(cond)
		skip := c.emit(bytecode.JMPF, 0)
		c.compileBlock(s.Bodies[i])
		ends = append(ends, c.emit(bytecode.JMP, 0))
		c.patchJumpHere(skip)
	}
	if s.Else != nil {
		c.compileBlock(s.Else)
	}
	for _, end := range ends {
		c.patchJumpHere(end)
	}
	return nil
}

// VisitWhile lowers `while cond body [else elseBody]`: elseBody runs
// when the loop exits because cond went false, not via ret/throw (spec
// §4.5 WhileStmt).
func (c *compiler) VisitWhile(s *parser.WhileStmt) interface{} {
	start := c.here()
	c.compile(s.Cond)
	exit := c.emit(bytecode.JMPF, 0)
	c.compileBlock(s.Body)
	back := c.emit(bytecode.JMP, 0)
	c.patchJumpTo(back, start)
	c.patchJumpHere(exit)
	if s.ElseBody != nil {
		c.compileBlock(s.ElseBody)
	}
	return nil
}

// VisitFor lowers `for name in iter body` to MAKE_ITER/ITER_NEXT per
// spec §4.6: evaluate the iterable, make an iterator, and loop pulling
// values until ITER_NEXT signals exhaustion (OutOfIterError, absorbed
// silently by the VM). STORE leaves the pulled value on the stack, so a
// POPU follows it before the body runs at a clean stack depth.
func (c *compiler) VisitFor(s *parser.ForStmt) interface{} {
	c.compile(s.Iter)
	c.emit(bytecode.MAKE_ITER, 0)
	start := c.here()
	exit := c.emit(bytecode.ITER_NEXT, 0)
	c.emit(bytecode.STORE, c.nameOperand(s.Name))
	c.emit(bytecode.POPU, 0)
	c.compileBlock(s.Body)
	back := c.emit(bytecode.JMP, 0)
	c.patchJumpTo(back, start)
	c.patchJumpHere(exit)
	return nil
}

// VisitTry lowers `try body [catch [name] handler]`. With no catch
// clause the body runs unguarded (nothing installs a handler to run).
// Otherwise TRY_START installs the handler entry, TRY_END pops it and
// skips past the handler on normal completion, and the handler itself
// starts by consuming the exception object handleRaise pushed (spec
// §4.3, §4.6, §4.7).
func (c *compiler) VisitTry(s *parser.TryStmt) interface{} {
	if s.Handler == nil {
		c.compileBlock(s.Body)
		return nil
	}
	start := c.emit(bytecode.TRY_START, 0)
	c.compileBlock(s.Body)
	end := c.emit(bytecode.TRY_END, 0)
	c.patchJumpHere(start)
	if s.CatchName != "" {
		c.emit(bytecode.STORE, c.nameOperand(s.CatchName))
	}
	c.emit(bytecode.POPU, 0)
	c.compileBlock(s.Handler)
	c.patchJumpHere(end)
	return nil
}

func (c *compiler) VisitThrow(s *parser.ThrowStmt) interface{} {
	c.compile(s.Value)
	c.emit(bytecode.THROW, 0)
	return nil
}

// VisitAssert lowers `assert cond[, msg]`. The ASSERT opcode pops cond
// first, then msg (dispatch.go: `cond := th.Pop(); msg := th.Pop()`), so
// msg must be pushed before cond regardless of their order in the
// source (spec §4.6, SPEC_FULL "assert with an optional message").
func (c *compiler) VisitAssert(s *parser.AssertStmt) interface{} {
	if s.Msg != nil {
		c.compile(s.Msg)
	} else {
		c.emit(bytecode.PUSH, c.constObj(object.None(), "lit:none"))
	}
	c.compile(s.Cond)
	c.emit(bytecode.ASSERT, 0)
	return nil
}

func (c *compiler) VisitRet(s *parser.RetStmt) interface{} {
	if s.Value != nil {
		c.compile(s.Value)
	} else {
		c.emit(bytecode.PUSH, c.constObj(object.None(), "lit:none"))
	}
	c.emit(bytecode.RET, 0)
	return nil
}

func (c *compiler) VisitFuncDecl(s *parser.FuncDecl) interface{} {
	c.emitFuncLiteral(s.Func)
	c.emit(bytecode.STORE, c.nameOperand(s.Func.Name))
	c.emit(bytecode.POPU, 0)
	return nil
}

// VisitImport lowers `import name` to `name = __import__("name")`
// (recovered from kscript's import opcode), where
// `__import__` is a cfunc the composition root installs into globals
// that forwards to Interp.Import.
func (c *compiler) VisitImport(s *parser.ImportStmt) interface{} {
	c.emit(bytecode.LOAD, c.nameOperand("__import__"))
	c.emit(bytecode.PUSH, c.constStr(s.Name))
	c.emit(bytecode.CALL, 2)
	c.emit(bytecode.STORE, c.nameOperand(s.Name))
	c.emit(bytecode.POPU, 0)
	return nil
}
