package object

import "fmt"

// Frame describes one in-progress call for the purpose of an exception's
// captured call-stack snapshot (spec §3.6, §4.3). It intentionally does
// not reference the VM's live call-frame struct (package vm) to avoid an
// import cycle; the VM fills one of these in at raise time from its own
// frame stack.
type Frame struct {
	FuncName string
	File     string
	Line     int
	Column   int
}

func (f Frame) String() string {
	if f.File == "" {
		return fmt.Sprintf("  in %s", f.FuncName)
	}
	return fmt.Sprintf("  in %s (%s:%d:%d)", f.FuncName, f.File, f.Line, f.Column)
}

// Error subtypes named by spec §4.3. ErrorType is the root; every
// concrete subtype below IsSubtype(ErrorType).
var (
	ErrorType        = NewType("Error")
	SyntaxErrorType  = NewType("SyntaxError", ErrorType)
	MathErrorType    = NewType("MathError", ErrorType)
	TypeErrorType    = NewType("TypeError", ErrorType)
	AttrErrorType    = NewType("AttrError", ErrorType)
	KeyErrorType     = NewType("KeyError", ErrorType)
	OpErrorType      = NewType("OpError", ErrorType)
	ArgErrorType     = NewType("ArgError", ErrorType)
	InternalErrorType = NewType("InternalError", ErrorType)
	AssertErrorType  = NewType("AssertError", ErrorType)
	OutOfIterErrorType = NewType("OutOfIterError", ErrorType)
	IOErrorType      = NewType("IOError", ErrorType)
)

// Exception is an ordinary object whose type is a subtype of Error
// (spec §4.3). It is what a THROW instruction pushes into the current
// thread and what TRY_START/TRY_END catch.
type Exception struct {
	Header
	Message string
	Value   Object // the raw thrown value, when it isn't built via New*Error
	Stack   []Frame
	Source  string // formatted source excerpt, for syntax errors
}

func newException(t *Type, msg string) *Exception {
	e := &Exception{Message: msg}
	e.Header = NewHeader(t)
	return e
}

func NewSyntaxError(msg, file string, line, col int) *Exception {
	e := newException(SyntaxErrorType, msg)
	e.Stack = []Frame{{FuncName: "<parse>", File: file, Line: line, Column: col}}
	return e
}

func NewMathError(msg string) *Exception     { return newException(MathErrorType, msg) }
func NewTypeError(msg string) *Exception     { return newException(TypeErrorType, msg) }
func NewAttrError(msg string) *Exception     { return newException(AttrErrorType, msg) }
func NewKeyError(msg string) *Exception      { return newException(KeyErrorType, msg) }
func NewOpError(msg string) *Exception       { return newException(OpErrorType, msg) }
func NewArgError(msg string) *Exception      { return newException(ArgErrorType, msg) }
func NewInternalError(msg string) *Exception { return newException(InternalErrorType, msg) }
func NewAssertError(msg string) *Exception   { return newException(AssertErrorType, msg) }
func NewOutOfIterError() *Exception          { return newException(OutOfIterErrorType, "iterator exhausted") }
func NewIOError(msg string) *Exception       { return newException(IOErrorType, msg) }

// WithSource attaches a rendered source excerpt, mirroring the syntax
// error diagnostics described in spec §4.5.
func (e *Exception) WithSource(src string) *Exception {
	e.Source = src
	return e
}

// WithStack replaces the captured call-stack snapshot.
func (e *Exception) WithStack(stack []Frame) *Exception {
	e.Stack = stack
	return e
}

func (e *Exception) Error() string {
	return fmt.Sprintf("%s: %s", e.Type().Name, e.Message)
}

// IsOutOfIter reports whether e is the sentinel used as a control-flow
// signal by the iterator protocol (spec §4.3, §4.6 ITER_NEXT).
func (e *Exception) IsOutOfIter() bool {
	return e != nil && e.Type().IsSubtype(OutOfIterErrorType)
}
