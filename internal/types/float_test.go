package types

import (
	"math"
	"testing"

	"vellum/internal/object"
)

func TestFloatArithmetic(t *testing.T) {
	a, b := NewFloat(3.5), NewFloat(1.5)
	if r, _ := FloatType.Slots.Add(a, b); r.(*Float).Value != 5 {
		t.Errorf("3.5+1.5: got %v, want 5", r.(*Float).Value)
	}
	if r, _ := FloatType.Slots.Sub(a, b); r.(*Float).Value != 2 {
		t.Errorf("3.5-1.5: got %v, want 2", r.(*Float).Value)
	}
	if r, _ := FloatType.Slots.Mul(a, b); r.(*Float).Value != 5.25 {
		t.Errorf("3.5*1.5: got %v, want 5.25", r.(*Float).Value)
	}
}

func TestFloatDivByZeroRaisesMathError(t *testing.T) {
	_, exc := FloatType.Slots.Div(NewFloat(1), NewFloat(0))
	if exc == nil || !exc.Type().IsSubtype(object.MathErrorType) {
		t.Fatalf("expected a MathError, got %v", exc)
	}
}

func TestFloatModByZeroRaisesMathError(t *testing.T) {
	_, exc := FloatType.Slots.Mod(NewFloat(1), NewFloat(0))
	if exc == nil || !exc.Type().IsSubtype(object.MathErrorType) {
		t.Fatalf("expected a MathError, got %v", exc)
	}
}

func TestFloatModNormalizesToDivisorSign(t *testing.T) {
	r, exc := FloatType.Slots.Mod(NewFloat(-1), NewFloat(3))
	if exc != nil {
		t.Fatalf("unexpected error: %v", exc)
	}
	if r.(*Float).Value != 2 {
		t.Errorf("-1 mod 3: got %v, want 2", r.(*Float).Value)
	}
}

func TestFloatCmpOrdering(t *testing.T) {
	lt, _ := FloatType.Slots.Lt(NewFloat(1), NewFloat(2))
	if !lt {
		t.Error("1 < 2 should be true")
	}
	ge, _ := FloatType.Slots.Ge(NewFloat(2), NewFloat(2))
	if !ge {
		t.Error("2 >= 2 should be true")
	}
}

func TestFloatPromotesFromInt(t *testing.T) {
	r, exc := FloatType.Slots.Add(NewFloat(1.5), NewInt(2))
	if exc != nil {
		t.Fatalf("unexpected error: %v", exc)
	}
	if r.(*Float).Value != 3.5 {
		t.Errorf("1.5+2: got %v, want 3.5", r.(*Float).Value)
	}
}

func TestFloatEqRejectsNonNumeric(t *testing.T) {
	eq, exc := FloatType.Slots.Eq(NewFloat(1), NewStr("1"))
	if exc != nil {
		t.Fatalf("unexpected error: %v", exc)
	}
	if eq {
		t.Error("a float should never equal a string")
	}
}

func TestFloatHashMatchesBitPattern(t *testing.T) {
	f := NewFloat(3.25)
	h, exc := FloatType.Slots.Hash(f)
	if exc != nil {
		t.Fatalf("unexpected error: %v", exc)
	}
	if h != math.Float64bits(3.25) {
		t.Errorf("got %d, want %d", h, math.Float64bits(3.25))
	}
}

func TestFloatTruthy(t *testing.T) {
	truthy, _ := FloatType.Slots.Truthy(NewFloat(0))
	if truthy {
		t.Error("0.0 should be falsy")
	}
	truthy, _ = FloatType.Slots.Truthy(NewFloat(0.1))
	if !truthy {
		t.Error("0.1 should be truthy")
	}
}

func TestFloatStrFormatsWithoutTrailingZeros(t *testing.T) {
	if got := FloatType.Slots.Str(NewFloat(2)); got != "2" {
		t.Errorf("got %q, want %q", got, "2")
	}
}
