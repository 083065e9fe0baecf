package parser

import (
	"testing"

	"github.com/kr/pretty"

	"vellum/internal/lexer"
)

func parseExprSrc(t *testing.T, src string) Expr {
	t.Helper()
	toks, lexErr := lexer.NewScanner(src, "<test>").ScanTokens()
	if lexErr != nil {
		t.Fatalf("lex error: %v", lexErr)
	}
	p := New(toks, src)
	e, err := p.parseExpr()
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return e
}

// 1 + 2 * 3 must parse as ADD(1, MUL(2, 3)): multiplication binds
// tighter than addition, so the right child of the top-level '+' is the
// '*' subtree rather than the other way around.
func TestParsePrecedence(t *testing.T) {
	got := parseExprSrc(t, "1 + 2 * 3")
	bin, ok := got.(*BinaryExpr)
	if !ok || bin.Operator != "+" {
		t.Fatalf("got %# v, want top-level '+'", pretty.Formatter(got))
	}
	left, ok := bin.Left.(*Literal)
	if !ok || left.Raw != "1" {
		t.Fatalf("left operand: got %# v, want literal 1", pretty.Formatter(bin.Left))
	}
	right, ok := bin.Right.(*BinaryExpr)
	if !ok || right.Operator != "*" {
		t.Fatalf("right operand: got %# v, want '*' subtree", pretty.Formatter(bin.Right))
	}
}

// '**' is right-associative: 2 ** 3 ** 2 parses as POW(2, POW(3, 2)).
func TestParsePowerIsRightAssociative(t *testing.T) {
	got := parseExprSrc(t, "2 ** 3 ** 2")
	bin, ok := got.(*BinaryExpr)
	if !ok || bin.Operator != "**" {
		t.Fatalf("got %# v", pretty.Formatter(got))
	}
	if _, ok := bin.Left.(*Literal); !ok {
		t.Fatalf("left operand should be the literal 2, got %# v", pretty.Formatter(bin.Left))
	}
	if inner, ok := bin.Right.(*BinaryExpr); !ok || inner.Operator != "**" {
		t.Fatalf("right operand should be a nested '**', got %# v", pretty.Formatter(bin.Right))
	}
}

// '=' is the lowest-precedence, right-associative operator, so a bare
// assignment expression is a BinaryExpr with operator "=".
func TestParseAssignIsLowestPrecedence(t *testing.T) {
	got := parseExprSrc(t, "x = 1 + 2")
	bin, ok := got.(*BinaryExpr)
	if !ok || bin.Operator != "=" {
		t.Fatalf("got %# v, want top-level '='", pretty.Formatter(got))
	}
	if _, ok := bin.Right.(*BinaryExpr); !ok {
		t.Fatalf("rhs should be the unreduced '+' subtree, got %# v", pretty.Formatter(bin.Right))
	}
}

// A parenthesized single expression is just that expression: "(1+2)"
// must not become a one-element tuple.
func TestParseGroupIsNotATuple(t *testing.T) {
	got := parseExprSrc(t, "(1 + 2)")
	if _, ok := got.(*BinaryExpr); !ok {
		t.Fatalf("got %# v, want the bare '+' expression unwrapped from its parens", pretty.Formatter(got))
	}
}

// A trailing comma inside parens makes a tuple, even with one element:
// "(1,)" is a one-element tuple, and "(,)" is the empty tuple.
func TestParseTupleRequiresComma(t *testing.T) {
	one := parseExprSrc(t, "(1,)")
	tup, ok := one.(*TupleExpr)
	if !ok || len(tup.Elems) != 1 {
		t.Fatalf("got %# v, want a one-element tuple", pretty.Formatter(one))
	}

	empty := parseExprSrc(t, "(,)")
	etup, ok := empty.(*TupleExpr)
	if !ok || len(etup.Elems) != 0 {
		t.Fatalf("got %# v, want the empty tuple", pretty.Formatter(empty))
	}
}

func TestParseMultiElementTuple(t *testing.T) {
	got := parseExprSrc(t, "(1, 2, 3)")
	tup, ok := got.(*TupleExpr)
	if !ok || len(tup.Elems) != 3 {
		t.Fatalf("got %# v, want a 3-element tuple", pretty.Formatter(got))
	}
}

func TestParseCallAndSubscriptChain(t *testing.T) {
	got := parseExprSrc(t, "f(1, 2)[0]")
	sub, ok := got.(*SubscriptExpr)
	if !ok {
		t.Fatalf("got %# v, want a subscript at the top", pretty.Formatter(got))
	}
	call, ok := sub.Object.(*CallExpr)
	if !ok || len(call.Args) != 2 {
		t.Fatalf("got %# v, want a 2-arg call underneath the subscript", pretty.Formatter(sub.Object))
	}
}

func TestParseAttrChain(t *testing.T) {
	got := parseExprSrc(t, "a.b.c")
	outer, ok := got.(*Attr)
	if !ok || outer.Name != "c" {
		t.Fatalf("got %# v", pretty.Formatter(got))
	}
	inner, ok := outer.Object.(*Attr)
	if !ok || inner.Name != "b" {
		t.Fatalf("got %# v", pretty.Formatter(outer.Object))
	}
}

func TestParseUnaryBindsTighterThanBinary(t *testing.T) {
	got := parseExprSrc(t, "-1 + 2")
	bin, ok := got.(*BinaryExpr)
	if !ok || bin.Operator != "+" {
		t.Fatalf("got %# v", pretty.Formatter(got))
	}
	if _, ok := bin.Left.(*UnaryExpr); !ok {
		t.Fatalf("left operand should be the negation, got %# v", pretty.Formatter(bin.Left))
	}
}

// assert's optional comma-separated message (SPEC_FULL's supplement)
// must be distinguished from the bare form.
func TestParseAssertWithAndWithoutMessage(t *testing.T) {
	prog, err := parseProgram(t, "assert x\nassert y, \"boom\"")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if len(prog.Stmts) != 2 {
		t.Fatalf("got %d statements, want 2", len(prog.Stmts))
	}
	bare := prog.Stmts[0].(*AssertStmt)
	if bare.Msg != nil {
		t.Errorf("bare assert should have a nil Msg, got %# v", pretty.Formatter(bare.Msg))
	}
	withMsg := prog.Stmts[1].(*AssertStmt)
	if withMsg.Msg == nil {
		t.Errorf("assert with a comma-separated message should have a non-nil Msg")
	}
}

func parseProgram(t *testing.T, src string) (*Block, error) {
	t.Helper()
	toks, lexErr := lexer.NewScanner(src, "<test>").ScanTokens()
	if lexErr != nil {
		t.Fatalf("lex error: %v", lexErr)
	}
	return New(toks, src).ParseProgram()
}

func TestParseTryCatchWithAndWithoutBindingName(t *testing.T) {
	prog, err := parseProgram(t, "try { throw 1 } catch e { ret e }")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	try := prog.Stmts[0].(*TryStmt)
	if try.CatchName != "e" {
		t.Errorf("got CatchName %q, want %q", try.CatchName, "e")
	}

	prog2, err := parseProgram(t, "try { throw 1 } catch { ret 0 }")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	try2 := prog2.Stmts[0].(*TryStmt)
	if try2.CatchName != "" {
		t.Errorf("got CatchName %q, want empty for a discarded binding", try2.CatchName)
	}
}
