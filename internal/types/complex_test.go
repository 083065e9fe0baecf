package types

import (
	"testing"

	"vellum/internal/object"
)

func TestComplexArithmetic(t *testing.T) {
	a := NewComplex(complex(1, 2))
	b := NewComplex(complex(3, -1))
	r, exc := ComplexType.Slots.Add(a, b)
	if exc != nil {
		t.Fatalf("unexpected error: %v", exc)
	}
	if r.(*Complex).Value != complex(4, 1) {
		t.Errorf("got %v, want 4+1i", r.(*Complex).Value)
	}
}

func TestComplexDivByZeroRaisesMathError(t *testing.T) {
	_, exc := ComplexType.Slots.Div(NewComplex(complex(1, 0)), NewComplex(0))
	if exc == nil || !exc.Type().IsSubtype(object.MathErrorType) {
		t.Fatalf("expected a MathError, got %v", exc)
	}
}

func TestComplexPromotesFromIntAndFloat(t *testing.T) {
	r, exc := ComplexType.Slots.Add(NewComplex(complex(1, 1)), NewInt(2))
	if exc != nil {
		t.Fatalf("unexpected error: %v", exc)
	}
	if r.(*Complex).Value != complex(3, 1) {
		t.Errorf("got %v, want 3+1i", r.(*Complex).Value)
	}
	r, exc = ComplexType.Slots.Add(NewComplex(complex(1, 1)), NewFloat(0.5))
	if exc != nil {
		t.Fatalf("unexpected error: %v", exc)
	}
	if r.(*Complex).Value != complex(1.5, 1) {
		t.Errorf("got %v, want 1.5+1i", r.(*Complex).Value)
	}
}

func TestComplexEqRejectsNonNumeric(t *testing.T) {
	eq, exc := ComplexType.Slots.Eq(NewComplex(complex(1, 0)), NewStr("x"))
	if exc != nil {
		t.Fatalf("unexpected error: %v", exc)
	}
	if eq {
		t.Error("a complex should never equal a string")
	}
}

func TestComplexStrFormatsZeroRealPart(t *testing.T) {
	got := ComplexType.Slots.Str(NewComplex(complex(0, 2)))
	if got != "2i" {
		t.Errorf("got %q, want %q", got, "2i")
	}
}

func TestComplexStrFormatsNegativeImaginaryPart(t *testing.T) {
	got := ComplexType.Slots.Str(NewComplex(complex(1, -2)))
	if got != "(1-2i)" {
		t.Errorf("got %q, want %q", got, "(1-2i)")
	}
}

func TestComplexStrFormatsPositiveImaginaryPart(t *testing.T) {
	got := ComplexType.Slots.Str(NewComplex(complex(1, 2)))
	if got != "(1+2i)" {
		t.Errorf("got %q, want %q", got, "(1+2i)")
	}
}

func TestComplexAbsIsModulus(t *testing.T) {
	r, exc := ComplexType.Slots.Abs(NewComplex(complex(3, 4)))
	if exc != nil {
		t.Fatalf("unexpected error: %v", exc)
	}
	if r.(*Float).Value != 5 {
		t.Errorf("|3+4i|: got %v, want 5", r.(*Float).Value)
	}
}
