package parser

// Stmt is any statement-shaped AST node (spec §4.5).
type Stmt interface {
	Accept(visitor StmtVisitor) interface{}
}

// ExprStmt wraps a bare expression evaluated for effect.
type ExprStmt struct {
	Expr Expr
}

func (s *ExprStmt) Accept(v StmtVisitor) interface{} { return v.VisitExprStmt(s) }

// Block is an ordered list of statements (spec §4.5).
type Block struct {
	Stmts []Stmt
}

func (b *Block) Accept(v StmtVisitor) interface{} { return v.VisitBlock(b) }

// IfStmt is `if cond body [elif cond body]... [else body]`. Elifs are
// represented as a parallel (Conds, Bodies) pair; Else is nil when
// absent.
type IfStmt struct {
	Conds  []Expr
	Bodies []*Block
	Else   *Block
}

func (s *IfStmt) Accept(v StmtVisitor) interface{} { return v.VisitIf(s) }

// WhileStmt is `while cond body [else elseBody]`. ElseBody runs when the
// loop exits normally (condition false) rather than via an explicit
// `ret`/exception; it is nil when absent.
type WhileStmt struct {
	Cond     Expr
	Body     *Block
	ElseBody *Block
}

func (s *WhileStmt) Accept(v StmtVisitor) interface{} { return v.VisitWhile(s) }

// ForStmt is `for name in iter body`.
type ForStmt struct {
	Name string
	Iter Expr
	Body *Block
}

func (s *ForStmt) Accept(v StmtVisitor) interface{} { return v.VisitFor(s) }

// TryStmt is `try body [catch [name] handler]`. CatchName is empty when
// the caught value is discarded.
type TryStmt struct {
	Body      *Block
	CatchName string
	Handler   *Block
}

func (s *TryStmt) Accept(v StmtVisitor) interface{} { return v.VisitTry(s) }

// ThrowStmt is `throw value`.
type ThrowStmt struct {
	Value Expr
}

func (s *ThrowStmt) Accept(v StmtVisitor) interface{} { return v.VisitThrow(s) }

// AssertStmt is `assert cond[, msg]` (SPEC_FULL supplement recovered
// from kscript's assert opcode). Msg is nil when omitted.
type AssertStmt struct {
	Cond Expr
	Msg  Expr
}

func (s *AssertStmt) Accept(v StmtVisitor) interface{} { return v.VisitAssert(s) }

// RetStmt is `ret [value]`. Value is nil for a bare `ret`.
type RetStmt struct {
	Value Expr
}

func (s *RetStmt) Accept(v StmtVisitor) interface{} { return v.VisitRet(s) }

// FuncDecl is a named top-level/nested function definition.
type FuncDecl struct {
	Func *FuncExpr
}

func (s *FuncDecl) Accept(v StmtVisitor) interface{} { return v.VisitFuncDecl(s) }

// ImportStmt is `import name`.
type ImportStmt struct {
	Name string
}

func (s *ImportStmt) Accept(v StmtVisitor) interface{} { return v.VisitImport(s) }

// StmtVisitor dispatches over every statement node kind.
type StmtVisitor interface {
	VisitExprStmt(s *ExprStmt) interface{}
	VisitBlock(s *Block) interface{}
	VisitIf(s *IfStmt) interface{}
	VisitWhile(s *WhileStmt) interface{}
	VisitFor(s *ForStmt) interface{}
	VisitTry(s *TryStmt) interface{}
	VisitThrow(s *ThrowStmt) interface{}
	VisitAssert(s *AssertStmt) interface{}
	VisitRet(s *RetStmt) interface{}
	VisitFuncDecl(s *FuncDecl) interface{}
	VisitImport(s *ImportStmt) interface{}
}
