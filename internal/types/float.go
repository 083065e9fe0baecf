package types

import (
	"math"
	"math/big"
	"strconv"

	"vellum/internal/object"
)

// FloatType backs IEEE-754 binary64 values (spec §3.3).
var FloatType = object.NewType("float")

type Float struct {
	object.Header
	Value float64
}

func NewFloat(v float64) *Float {
	f := &Float{Value: v}
	f.Header = object.NewHeader(FloatType)
	return f
}

func init() {
	FloatType.Slots.Add = floatBinOp(func(a, b float64) float64 { return a + b })
	FloatType.Slots.Sub = floatBinOp(func(a, b float64) float64 { return a - b })
	FloatType.Slots.Mul = floatBinOp(func(a, b float64) float64 { return a * b })
	FloatType.Slots.Div = func(ao, bo object.Object) (object.Object, *object.Exception) {
		a, b, ok := floatOperands(ao, bo)
		if !ok {
			return nil, object.NewTypeError("unsupported operand type for /")
		}
		if b == 0 {
			return nil, object.NewMathError("division by zero")
		}
		return NewFloat(a / b), nil
	}
	FloatType.Slots.Mod = func(ao, bo object.Object) (object.Object, *object.Exception) {
		a, b, ok := floatOperands(ao, bo)
		if !ok {
			return nil, object.NewTypeError("unsupported operand type for %")
		}
		if b == 0 {
			return nil, object.NewMathError("modulo by zero")
		}
		r := math.Mod(a, b)
		if r != 0 && (r < 0) != (b < 0) {
			r += b
		}
		return NewFloat(r), nil
	}
	FloatType.Slots.Pow = func(ao, bo object.Object) (object.Object, *object.Exception) {
		a, b, ok := floatOperands(ao, bo)
		if !ok {
			return nil, object.NewTypeError("unsupported operand type for **")
		}
		return NewFloat(math.Pow(a, b)), nil
	}
	FloatType.Slots.Neg = func(ao object.Object) (object.Object, *object.Exception) {
		return NewFloat(-ao.(*Float).Value), nil
	}
	FloatType.Slots.Abs = func(ao object.Object) (object.Object, *object.Exception) {
		return NewFloat(math.Abs(ao.(*Float).Value)), nil
	}
	FloatType.Slots.Cmp = func(ao, bo object.Object) (int, *object.Exception) {
		a, b, ok := floatOperands(ao, bo)
		if !ok {
			return 0, object.NewTypeError("cannot compare float with non-numeric")
		}
		switch {
		case a < b:
			return -1, nil
		case a > b:
			return 1, nil
		default:
			return 0, nil
		}
	}
	FloatType.Slots.Eq = func(ao, bo object.Object) (bool, *object.Exception) {
		a, b, ok := floatOperands(ao, bo)
		if !ok {
			return false, nil
		}
		return a == b, nil
	}
	FloatType.Slots.Ne = func(ao, bo object.Object) (bool, *object.Exception) {
		eq, _ := FloatType.Slots.Eq(ao, bo)
		return !eq, nil
	}
	FloatType.Slots.Lt = floatCmpBool(func(c int) bool { return c < 0 })
	FloatType.Slots.Le = floatCmpBool(func(c int) bool { return c <= 0 })
	FloatType.Slots.Gt = floatCmpBool(func(c int) bool { return c > 0 })
	FloatType.Slots.Ge = floatCmpBool(func(c int) bool { return c >= 0 })

	FloatType.Slots.Str = func(o object.Object) string {
		return strconv.FormatFloat(o.(*Float).Value, 'g', -1, 64)
	}
	FloatType.Slots.Repr = FloatType.Slots.Str
	FloatType.Slots.Hash = func(o object.Object) (uint64, *object.Exception) {
		return math.Float64bits(o.(*Float).Value), nil
	}
	FloatType.Slots.Truthy = func(o object.Object) (bool, *object.Exception) {
		return o.(*Float).Value != 0, nil
	}
}

// floatOperands coerces a (float, float|int) pair to native float64s,
// the numeric-tower promotion the VM's BOP_* dispatch relies on.
func floatOperands(a, b object.Object) (float64, float64, bool) {
	af, aok := asFloat64(a)
	bf, bok := asFloat64(b)
	return af, bf, aok && bok
}

func asFloat64(o object.Object) (float64, bool) {
	switch v := o.(type) {
	case *Float:
		return v.Value, true
	case *Int:
		if n, ok := v.Int64(); ok {
			return float64(n), true
		}
		f, _ := new(big.Float).SetInt(v.AsBig()).Float64()
		return f, true
	}
	return 0, false
}

func floatBinOp(f func(a, b float64) float64) func(a, b object.Object) (object.Object, *object.Exception) {
	return func(ao, bo object.Object) (object.Object, *object.Exception) {
		a, b, ok := floatOperands(ao, bo)
		if !ok {
			return nil, object.NewTypeError("unsupported operand type for float operation")
		}
		return NewFloat(f(a, b)), nil
	}
}

func floatCmpBool(pred func(int) bool) func(a, b object.Object) (bool, *object.Exception) {
	return func(a, b object.Object) (bool, *object.Exception) {
		c, exc := FloatType.Slots.Cmp(a, b)
		if exc != nil {
			return false, exc
		}
		return pred(c), nil
	}
}
