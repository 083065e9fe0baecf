package compiler

import (
	"vellum/internal/bytecode"
	"vellum/internal/object"
	"vellum/internal/parser"
)

// compile is a small convenience wrapper so statement code doesn't need
// to spell out the Accept dance at every call site.
func (c *compiler) compile(e parser.Expr) { e.Accept(c) }

func (c *compiler) VisitLiteral(l *parser.Literal) interface{} {
	switch l.Kind {
	case parser.LitTrue:
		c.emit(bytecode.PUSH, c.constObj(object.True(), "lit:true"))
	case parser.LitFalse:
		c.emit(bytecode.PUSH, c.constObj(object.False(), "lit:false"))
	case parser.LitNone:
		c.emit(bytecode.PUSH, c.constObj(object.None(), "lit:none"))
	case parser.LitInt:
		v, err := parseIntLiteral(l.Raw, l.IsBig)
		if err != nil {
			c.fail("%s", err)
		}
		c.emit(bytecode.PUSH, c.constObj(v, "lit:int:"+l.Raw))
	case parser.LitFloat:
		v, err := parseFloatLiteral(l.Raw)
		if err != nil {
			c.fail("%s", err)
		}
		c.emit(bytecode.PUSH, c.constObj(v, "lit:float:"+l.Raw))
	case parser.LitComplex:
		v, err := parseComplexLiteral(l.Raw)
		if err != nil {
			c.fail("%s", err)
		}
		c.emit(bytecode.PUSH, c.constObj(v, "lit:complex:"+l.Raw))
	case parser.LitString:
		c.emit(bytecode.PUSH, c.constStr(l.String))
	default:
		c.fail("unknown literal kind %d", l.Kind)
	}
	return nil
}

func (c *compiler) VisitVariable(e *parser.Variable) interface{} {
	c.emit(bytecode.LOAD, c.nameOperand(e.Name))
	return nil
}

func (c *compiler) VisitAttr(e *parser.Attr) interface{} {
	c.compile(e.Object)
	c.emit(bytecode.LOAD_ATTR, c.nameOperand(e.Name))
	return nil
}

func (c *compiler) VisitTuple(e *parser.TupleExpr) interface{} {
	for _, el := range e.Elems {
		c.compile(el)
	}
	c.emit(bytecode.TUPLE, int32(len(e.Elems)))
	return nil
}

func (c *compiler) VisitList(e *parser.ListExpr) interface{} {
	for _, el := range e.Elems {
		c.compile(el)
	}
	c.emit(bytecode.LIST, int32(len(e.Elems)))
	return nil
}

// VisitCall pushes the callee, then each argument, then CALL with an
// operand of argc+1 — dispatch.go's CALL pops `operand-1` args before
// popping the callee beneath them (spec §4.8).
func (c *compiler) VisitCall(e *parser.CallExpr) interface{} {
	c.compile(e.Callee)
	for _, a := range e.Args {
		c.compile(a)
	}
	c.emit(bytecode.CALL, int32(len(e.Args)+1))
	return nil
}

func (c *compiler) VisitSubscript(e *parser.SubscriptExpr) interface{} {
	c.compile(e.Object)
	c.compile(e.Index)
	c.emit(bytecode.GETITEM, 2)
	return nil
}

func (c *compiler) VisitUnary(e *parser.UnaryExpr) interface{} {
	c.compile(e.Operand)
	switch e.Operator {
	case "-":
		c.emit(bytecode.UOP_NEG, 0)
	case "~":
		c.emit(bytecode.UOP_BIN_NOT, 0)
	case "!":
		c.emit(bytecode.NOT, 0)
	default:
		c.fail("unknown unary operator %q", e.Operator)
	}
	return nil
}

func (c *compiler) VisitBinary(e *parser.BinaryExpr) interface{} {
	switch e.Operator {
	case "=":
		c.compileAssign(e.Left, e.Right)
	case "&&":
		c.compileShortCircuit(e.Left, e.Right, bytecode.JMPF)
	case "||":
		c.compileShortCircuit(e.Left, e.Right, bytecode.JMPT)
	default:
		op, ok := bytecode.BinOp(e.Operator)
		if !ok {
			c.fail("unknown binary operator %q", e.Operator)
		}
		c.compile(e.Left)
		c.compile(e.Right)
		c.emit(op, 0)
	}
	return nil
}

// compileShortCircuit lowers `a && b`/`a || b` without a dedicated
// opcode: evaluate a, duplicate it, and test the duplicate. If the test
// decides the result (false for `&&`, true for `||`), the original `a`
// left on the stack by DUP is the expression's value; otherwise it is
// discarded and `b` is evaluated in its place.
func (c *compiler) compileShortCircuit(left, right parser.Expr, testOp bytecode.Op) {
	c.compile(left)
	c.emit(bytecode.DUP, 0)
	jmp := c.emit(testOp, 0)
	c.emit(bytecode.POPU, 0)
	c.compile(right)
	c.patchJumpHere(jmp)
}

// compileAssign lowers `target = value` for every lvalue shape the
// grammar allows. STORE/STORE_ATTR/SETITEM all leave the assigned value
// on the stack (spec §4.6), so assignment is usable as an expression
// (`a = b = 1`).
func (c *compiler) compileAssign(target, value parser.Expr) {
	switch t := target.(type) {
	case *parser.Variable:
		c.compile(value)
		c.emit(bytecode.STORE, c.nameOperand(t.Name))
	case *parser.Attr:
		c.compile(t.Object)
		c.compile(value)
		c.emit(bytecode.STORE_ATTR, c.nameOperand(t.Name))
	case *parser.SubscriptExpr:
		c.compile(t.Object)
		c.compile(t.Index)
		c.compile(value)
		c.emit(bytecode.SETITEM, 3)
	default:
		c.fail("invalid assignment target")
	}
}

func (c *compiler) VisitFunc(e *parser.FuncExpr) interface{} {
	c.emitFuncLiteral(e)
	return nil
}

// emitFuncLiteral compiles fn's body into its own Code, pools the
// resulting kfunc template (never deduplicated — each materialization
// needs a distinct clone), and leaves the closed-over clone on the
// stack (spec §4.6 NEW_FUNC/ADD_CLOSURE).
func (c *compiler) emitFuncLiteral(fn *parser.FuncExpr) {
	kf := c.compileFunc(fn)
	c.emit(bytecode.PUSH, c.constObj(kf, nil))
	c.emit(bytecode.NEW_FUNC, 0)
	c.emit(bytecode.ADD_CLOSURE, 0)
}
