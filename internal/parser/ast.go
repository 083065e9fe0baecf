package parser

// Expr is any expression-shaped AST node (spec §4.5).
type Expr interface {
	Accept(visitor ExprVisitor) interface{}
}

// LiteralKind tags what a Literal actually holds.
type LiteralKind int

const (
	LitTrue LiteralKind = iota
	LitFalse
	LitNone
	LitInt
	LitFloat
	LitComplex
	LitString
)

// Literal is a constant node: true, false, none, int, float, complex, or
// string (spec §4.5). Raw carries the scanned lexeme for numeric kinds
// so the code generator can parse it with full control over big-int
// promotion; String holds the already-unescaped string body.
type Literal struct {
	Kind   LiteralKind
	Raw    string
	String string
	IsBig  bool
}

func (l *Literal) Accept(v ExprVisitor) interface{} { return v.VisitLiteral(l) }

// Variable is a bare name reference.
type Variable struct {
	Name string
}

func (v *Variable) Accept(vis ExprVisitor) interface{} { return vis.VisitVariable(v) }

// Attr is `object.name`.
type Attr struct {
	Object Expr
	Name   string
}

func (a *Attr) Accept(v ExprVisitor) interface{} { return v.VisitAttr(a) }

// TupleExpr is `(a, b, ...)`, including the empty tuple `(,)`.
type TupleExpr struct {
	Elems []Expr
}

func (t *TupleExpr) Accept(v ExprVisitor) interface{} { return v.VisitTuple(t) }

// ListExpr is `[a, b, ...]`.
type ListExpr struct {
	Elems []Expr
}

func (l *ListExpr) Accept(v ExprVisitor) interface{} { return v.VisitList(l) }

// CallExpr is `callee(args...)`.
type CallExpr struct {
	Callee Expr
	Args   []Expr
}

func (c *CallExpr) Accept(v ExprVisitor) interface{} { return v.VisitCall(c) }

// SubscriptExpr is `object[index]`.
type SubscriptExpr struct {
	Object Expr
	Index  Expr
}

func (s *SubscriptExpr) Accept(v ExprVisitor) interface{} { return v.VisitSubscript(s) }

// BinaryExpr is any two-operand operator, including assignment (`=`),
// which the shunting-yard table treats as the lowest-precedence,
// right-associative operator (spec §4.5).
type BinaryExpr struct {
	Left     Expr
	Operator string
	Right    Expr
}

func (b *BinaryExpr) Accept(v ExprVisitor) interface{} { return v.VisitBinary(b) }

// UnaryExpr is a prefix operator: `-x`, `!x`, `~x`.
type UnaryExpr struct {
	Operator string
	Operand  Expr
}

func (u *UnaryExpr) Accept(v ExprVisitor) interface{} { return v.VisitUnary(u) }

// FuncExpr is a function literal: `func [name](params) body`. Name is
// empty for anonymous function expressions.
type FuncExpr struct {
	Name   string
	Params []string
	Body   *Block
}

func (f *FuncExpr) Accept(v ExprVisitor) interface{} { return v.VisitFunc(f) }

// ExprVisitor dispatches over every expression node kind.
type ExprVisitor interface {
	VisitLiteral(e *Literal) interface{}
	VisitVariable(e *Variable) interface{}
	VisitAttr(e *Attr) interface{}
	VisitTuple(e *TupleExpr) interface{}
	VisitList(e *ListExpr) interface{}
	VisitCall(e *CallExpr) interface{}
	VisitSubscript(e *SubscriptExpr) interface{}
	VisitBinary(e *BinaryExpr) interface{}
	VisitUnary(e *UnaryExpr) interface{}
	VisitFunc(e *FuncExpr) interface{}
}
