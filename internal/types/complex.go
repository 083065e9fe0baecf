package types

import (
	"fmt"
	"math"
	"math/cmplx"

	"vellum/internal/object"
)

// ComplexType backs two-binary64-component complex values (spec §3.3).
var ComplexType = object.NewType("complex")

type Complex struct {
	object.Header
	Value complex128
}

func NewComplex(v complex128) *Complex {
	c := &Complex{Value: v}
	c.Header = object.NewHeader(ComplexType)
	return c
}

func asComplex(o object.Object) (complex128, bool) {
	switch v := o.(type) {
	case *Complex:
		return v.Value, true
	case *Float:
		return complex(v.Value, 0), true
	case *Int:
		if n, ok := v.Int64(); ok {
			return complex(float64(n), 0), true
		}
	}
	return 0, false
}

func init() {
	ComplexType.Slots.Add = complexBinOp(func(a, b complex128) complex128 { return a + b })
	ComplexType.Slots.Sub = complexBinOp(func(a, b complex128) complex128 { return a - b })
	ComplexType.Slots.Mul = complexBinOp(func(a, b complex128) complex128 { return a * b })
	ComplexType.Slots.Div = func(ao, bo object.Object) (object.Object, *object.Exception) {
		a, b, ok := complexOperands(ao, bo)
		if !ok {
			return nil, object.NewTypeError("unsupported operand type for /")
		}
		if b == 0 {
			return nil, object.NewMathError("division by zero")
		}
		return NewComplex(a / b), nil
	}
	ComplexType.Slots.Pow = func(ao, bo object.Object) (object.Object, *object.Exception) {
		a, b, ok := complexOperands(ao, bo)
		if !ok {
			return nil, object.NewTypeError("unsupported operand type for **")
		}
		return NewComplex(cmplx.Pow(a, b)), nil
	}
	ComplexType.Slots.Neg = func(ao object.Object) (object.Object, *object.Exception) {
		return NewComplex(-ao.(*Complex).Value), nil
	}
	ComplexType.Slots.Abs = func(ao object.Object) (object.Object, *object.Exception) {
		return NewFloat(cmplx.Abs(ao.(*Complex).Value)), nil
	}
	ComplexType.Slots.Eq = func(ao, bo object.Object) (bool, *object.Exception) {
		a, b, ok := complexOperands(ao, bo)
		if !ok {
			return false, nil
		}
		return a == b, nil
	}
	ComplexType.Slots.Ne = func(ao, bo object.Object) (bool, *object.Exception) {
		eq, _ := ComplexType.Slots.Eq(ao, bo)
		return !eq, nil
	}
	ComplexType.Slots.Str = func(o object.Object) string {
		v := o.(*Complex).Value
		if real(v) == 0 {
			return fmt.Sprintf("%gi", imag(v))
		}
		if imag(v) >= 0 || math.IsNaN(imag(v)) {
			return fmt.Sprintf("(%g+%gi)", real(v), imag(v))
		}
		return fmt.Sprintf("(%g%gi)", real(v), imag(v))
	}
	ComplexType.Slots.Repr = ComplexType.Slots.Str
	ComplexType.Slots.Hash = func(o object.Object) (uint64, *object.Exception) {
		v := o.(*Complex).Value
		return math.Float64bits(real(v)) ^ math.Float64bits(imag(v)), nil
	}
	ComplexType.Slots.Truthy = func(o object.Object) (bool, *object.Exception) {
		return o.(*Complex).Value != 0, nil
	}
}

func complexOperands(a, b object.Object) (complex128, complex128, bool) {
	av, aok := asComplex(a)
	bv, bok := asComplex(b)
	return av, bv, aok && bok
}

func complexBinOp(f func(a, b complex128) complex128) func(a, b object.Object) (object.Object, *object.Exception) {
	return func(ao, bo object.Object) (object.Object, *object.Exception) {
		a, b, ok := complexOperands(ao, bo)
		if !ok {
			return nil, object.NewTypeError("unsupported operand type for complex operation")
		}
		return NewComplex(f(a, b)), nil
	}
}
