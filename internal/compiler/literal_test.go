package compiler

import (
	"math/big"
	"testing"
)

func TestParseIntLiteralDecimal(t *testing.T) {
	i, err := parseIntLiteral("42", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v, _ := i.Int64(); v != 42 {
		t.Errorf("got %d, want 42", v)
	}
}

func TestParseIntLiteralHex(t *testing.T) {
	i, err := parseIntLiteral("0xFF", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v, _ := i.Int64(); v != 255 {
		t.Errorf("got %d, want 255", v)
	}
}

func TestParseIntLiteralAutoPromotesOnOverflow(t *testing.T) {
	// One past MaxInt64: must silently promote to big without the L
	// suffix forcing it.
	i, err := parseIntLiteral("9223372036854775808", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := new(big.Int)
	want.SetString("9223372036854775808", 10)
	if i.AsBig().Cmp(want) != 0 {
		t.Errorf("got %s, want %s", i.AsBig(), want)
	}
}

func TestParseIntLiteralLSuffixForcesBig(t *testing.T) {
	i, err := parseIntLiteral("5L", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v, _ := i.Int64(); v != 5 {
		t.Errorf("got %d, want 5", v)
	}
}

func TestParseIntLiteralMalformedErrors(t *testing.T) {
	_, err := parseIntLiteral("12x4", false)
	if err == nil {
		t.Fatal("expected an error for a malformed integer literal")
	}
}

func TestParseFloatLiteral(t *testing.T) {
	f, err := parseFloatLiteral("3.25")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Value != 3.25 {
		t.Errorf("got %v, want 3.25", f.Value)
	}
}

func TestParseFloatLiteralMalformedErrors(t *testing.T) {
	_, err := parseFloatLiteral("3.2.5")
	if err == nil {
		t.Fatal("expected an error for a malformed float literal")
	}
}

func TestParseComplexLiteralStripsImaginarySuffix(t *testing.T) {
	c, err := parseComplexLiteral("2.5i")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if real(c.Value) != 0 || imag(c.Value) != 2.5 {
		t.Errorf("got %v, want 0+2.5i", c.Value)
	}
}
