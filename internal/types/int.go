// Package types implements the built-in container and numeric types
// whose semantics the bytecode presumes (spec §3.3, component C2):
// tuple, list, dict, string, int (small+big), float, complex, bool,
// none and range. bool and none live in package object since they are
// process-wide singletons tied directly into the type kernel; everything
// else lives here.
package types

import (
	"math/big"

	"github.com/remyoudompheng/bigfft"
	"vellum/internal/object"
)

// IntType is the type descriptor shared by every int value, whether
// stored as a native int64 or promoted to arbitrary precision.
var IntType = object.NewType("int")

// smallIntCacheLo/Hi bound the immortal small-integer singleton range
// (spec §3.1: "small integers in a fixed range, e.g. [-256, 256]").
const (
	smallIntCacheLo = -256
	smallIntCacheHi = 256
	// bigfftThreshold is the operand bit length above which big
	// multiplication is routed through bigfft's FFT-based multiply
	// instead of math/big's schoolbook/Karatsuba path (see SPEC_FULL's
	// DOMAIN STACK section).
	bigfftThreshold = 4096
)

// Int is either a 64-bit signed fast path or an arbitrary-precision
// integer; operations transparently promote on overflow (spec §3.3).
type Int struct {
	object.Header
	small   int64
	big     *big.Int // nil unless the value has been promoted
	isSmall bool
}

var smallIntCache [smallIntCacheHi - smallIntCacheLo + 1]*Int

func init() {
	for i := range smallIntCache {
		v := &Int{small: int64(i + smallIntCacheLo), isSmall: true}
		v.Header = object.NewHeader(IntType)
		v.Header.MarkImmortal()
		smallIntCache[i] = v
	}
	registerIntSlots()
	object.RegisterSmallIntEquality(func(a, b object.Object) (equal, bothSmall bool) {
		ai, aok := a.(*Int)
		bi, bok := b.(*Int)
		if !aok || !bok {
			return false, false
		}
		if ai.isSmall && bi.isSmall {
			return ai.small == bi.small, true
		}
		return false, false
	})
}

// NewInt returns an owned Int, sharing the immortal singleton when v
// falls in the small-int cache range (spec §3.1).
func NewInt(v int64) *Int {
	if v >= smallIntCacheLo && v <= smallIntCacheHi {
		return smallIntCache[v-smallIntCacheLo]
	}
	n := &Int{small: v, isSmall: true}
	n.Header = object.NewHeader(IntType)
	return n
}

// NewBigInt constructs an Int from an arbitrary-precision value,
// normalizing back to the 64-bit fast path when it fits (spec §8:
// "arithmetic results compare equal regardless of which form each
// operand used").
func NewBigInt(v *big.Int) *Int {
	if v.IsInt64() {
		return NewInt(v.Int64())
	}
	n := &Int{big: new(big.Int).Set(v)}
	n.Header = object.NewHeader(IntType)
	return n
}

// AsBig returns i's value as a *big.Int regardless of which form it is
// stored in, without mutating i.
func (i *Int) AsBig() *big.Int {
	if i.isSmall {
		return big.NewInt(i.small)
	}
	return i.big
}

// Int64 returns i's value as an int64 and whether it fits.
func (i *Int) Int64() (int64, bool) {
	if i.isSmall {
		return i.small, true
	}
	if i.big.IsInt64() {
		return i.big.Int64(), true
	}
	return 0, false
}

// asInt coerces o to *Int, treating bool as 0/1 (spec §3.3: "arithmetic
// with bool behaves as 0/1"). Every int operator slot routes through
// this instead of a bare type assertion so bool operands participate
// directly, and the same functions are reused as BoolType's own
// arithmetic slots below.
func asInt(o object.Object) (*Int, bool) {
	if i, ok := o.(*Int); ok {
		return i, true
	}
	if b, ok := object.AsBool(o); ok {
		if b {
			return NewInt(1), true
		}
		return NewInt(0), true
	}
	return nil, false
}

func (i *Int) String() string {
	if i.isSmall {
		return big.NewInt(i.small).String()
	}
	return i.big.String()
}

func intBinOp(
	fast func(a, b int64) (int64, bool),
	slow func(a, b *big.Int) *big.Int,
) func(a, b object.Object) (object.Object, *object.Exception) {
	return func(ao, bo object.Object) (object.Object, *object.Exception) {
		a, aok := asInt(ao)
		b, bok := asInt(bo)
		if !aok || !bok {
			return nil, object.NewTypeError("unsupported operand type for int operation")
		}
		if a.isSmall && b.isSmall {
			if r, ok := fast(a.small, b.small); ok {
				return NewInt(r), nil
			}
		}
		return NewBigInt(slow(a.AsBig(), b.AsBig())), nil
	}
}

func registerIntSlots() {
	IntType.Slots.Add = intBinOp(addFast, func(a, b *big.Int) *big.Int {
		return new(big.Int).Add(a, b)
	})
	IntType.Slots.Sub = intBinOp(subFast, func(a, b *big.Int) *big.Int {
		return new(big.Int).Sub(a, b)
	})
	IntType.Slots.Mul = intBinOp(mulFast, mulBig)
	IntType.Slots.BinOr = intBinOp(
		func(a, b int64) (int64, bool) { return a | b, true },
		func(a, b *big.Int) *big.Int { return new(big.Int).Or(a, b) },
	)
	IntType.Slots.BinAnd = intBinOp(
		func(a, b int64) (int64, bool) { return a & b, true },
		func(a, b *big.Int) *big.Int { return new(big.Int).And(a, b) },
	)
	IntType.Slots.BinXor = intBinOp(
		func(a, b int64) (int64, bool) { return a ^ b, true },
		func(a, b *big.Int) *big.Int { return new(big.Int).Xor(a, b) },
	)

	IntType.Slots.Div = intDiv
	IntType.Slots.Mod = intMod
	IntType.Slots.Pow = intPow
	IntType.Slots.LShift = intShift(true)
	IntType.Slots.RShift = intShift(false)

	IntType.Slots.Neg = func(ao object.Object) (object.Object, *object.Exception) {
		a := ao.(*Int)
		if a.isSmall && a.small != (-1<<63) {
			return NewInt(-a.small), nil
		}
		return NewBigInt(new(big.Int).Neg(a.AsBig())), nil
	}
	IntType.Slots.Abs = func(ao object.Object) (object.Object, *object.Exception) {
		a := ao.(*Int)
		if a.isSmall && a.small != (-1<<63) {
			if a.small < 0 {
				return NewInt(-a.small), nil
			}
			return a, nil
		}
		return NewBigInt(new(big.Int).Abs(a.AsBig())), nil
	}
	IntType.Slots.Sqig = func(ao object.Object) (object.Object, *object.Exception) {
		a := ao.(*Int)
		if a.isSmall {
			return NewInt(^a.small), nil
		}
		return NewBigInt(new(big.Int).Not(a.AsBig())), nil
	}

	IntType.Slots.Cmp = func(ao, bo object.Object) (int, *object.Exception) {
		a, aok := asInt(ao)
		b, bok := asInt(bo)
		if !aok || !bok {
			return 0, object.NewTypeError("cannot compare int with non-int")
		}
		if a.isSmall && b.isSmall {
			switch {
			case a.small < b.small:
				return -1, nil
			case a.small > b.small:
				return 1, nil
			default:
				return 0, nil
			}
		}
		return a.AsBig().Cmp(b.AsBig()), nil
	}
	IntType.Slots.Eq = func(ao, bo object.Object) (bool, *object.Exception) {
		c, exc := IntType.Slots.Cmp(ao, bo)
		if exc != nil {
			return false, nil
		}
		return c == 0, nil
	}
	IntType.Slots.Ne = func(ao, bo object.Object) (bool, *object.Exception) {
		eq, _ := IntType.Slots.Eq(ao, bo)
		return !eq, nil
	}
	IntType.Slots.Lt = cmpBool(func(c int) bool { return c < 0 })
	IntType.Slots.Le = cmpBool(func(c int) bool { return c <= 0 })
	IntType.Slots.Gt = cmpBool(func(c int) bool { return c > 0 })
	IntType.Slots.Ge = cmpBool(func(c int) bool { return c >= 0 })

	IntType.Slots.Str = func(o object.Object) string { return o.(*Int).String() }
	IntType.Slots.Repr = IntType.Slots.Str
	IntType.Slots.Hash = func(o object.Object) (uint64, *object.Exception) {
		i := o.(*Int)
		if v, ok := i.Int64(); ok {
			return uint64(v), nil
		}
		return uint64(i.big.Uint64()), nil
	}
	IntType.Slots.Truthy = func(o object.Object) (bool, *object.Exception) {
		i := o.(*Int)
		if i.isSmall {
			return i.small != 0, nil
		}
		return i.big.Sign() != 0, nil
	}

	registerBoolArithSlots()
}

// registerBoolArithSlots gives bool the same numeric operator slots as
// int, each already coercing a bool operand to 0/1 via asInt (spec
// §3.3: "arithmetic with bool behaves as 0/1"). Without this, dispatch
// keyed on a bool *left* operand's type (e.g. `true + 1`) would find no
// Add slot at all, since BoolType otherwise only defines Str/Repr/Eq/
// Hash/Truthy. Eq/Hash/Truthy/Str/Repr stay bool-specific (set in
// object.singleton.go's init) and are deliberately left untouched here.
func registerBoolArithSlots() {
	bt := &object.BoolType.Slots
	bt.Add, bt.Sub, bt.Mul = IntType.Slots.Add, IntType.Slots.Sub, IntType.Slots.Mul
	bt.Div, bt.Mod, bt.Pow = IntType.Slots.Div, IntType.Slots.Mod, IntType.Slots.Pow
	bt.BinOr, bt.BinAnd, bt.BinXor = IntType.Slots.BinOr, IntType.Slots.BinAnd, IntType.Slots.BinXor
	bt.LShift, bt.RShift = IntType.Slots.LShift, IntType.Slots.RShift
	bt.Cmp, bt.Lt, bt.Le, bt.Gt, bt.Ge = IntType.Slots.Cmp, IntType.Slots.Lt, IntType.Slots.Le, IntType.Slots.Gt, IntType.Slots.Ge
}

func cmpBool(pred func(int) bool) func(a, b object.Object) (bool, *object.Exception) {
	return func(a, b object.Object) (bool, *object.Exception) {
		c, exc := IntType.Slots.Cmp(a, b)
		if exc != nil {
			return false, exc
		}
		return pred(c), nil
	}
}

func addFast(a, b int64) (int64, bool) {
	r := a + b
	if (r > a) == (b > 0) {
		return r, true
	}
	return 0, false
}

func subFast(a, b int64) (int64, bool) {
	r := a - b
	if (r < a) == (b > 0) {
		return r, true
	}
	return 0, false
}

func mulFast(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	r := a * b
	if r/b == a && !(a == -1 && b == (-1<<63)) {
		return r, true
	}
	return 0, false
}

// mulBig multiplies two big.Int values, routing through bigfft's
// FFT-based multiplication once both operands are large enough that the
// asymptotically faster algorithm wins (see SPEC_FULL DOMAIN STACK).
func mulBig(a, b *big.Int) *big.Int {
	if a.BitLen() > bigfftThreshold && b.BitLen() > bigfftThreshold {
		return bigfft.Mul(a, b)
	}
	return new(big.Int).Mul(a, b)
}

func intDiv(ao, bo object.Object) (object.Object, *object.Exception) {
	a, aok := asInt(ao)
	b, bok := asInt(bo)
	if !aok || !bok {
		return nil, object.NewTypeError("unsupported operand type for /")
	}
	if a.isSmall && b.isSmall {
		if b.small == 0 {
			return nil, object.NewMathError("division by zero")
		}
		q := a.small / b.small
		r := a.small % b.small
		if r != 0 && (r < 0) != (b.small < 0) {
			q--
		}
		return NewInt(q), nil
	}
	bb := b.AsBig()
	if bb.Sign() == 0 {
		return nil, object.NewMathError("division by zero")
	}
	q := new(big.Int)
	m := new(big.Int)
	q.DivMod(a.AsBig(), bb, m)
	if bb.Sign() < 0 && m.Sign() != 0 {
		q.Sub(q, big.NewInt(1))
	}
	return NewBigInt(q), nil
}

// intMod normalizes to non-negative when the divisor is positive (spec
// §4.2).
func intMod(ao, bo object.Object) (object.Object, *object.Exception) {
	a, aok := asInt(ao)
	b, bok := asInt(bo)
	if !aok || !bok {
		return nil, object.NewTypeError("unsupported operand type for %")
	}
	if a.isSmall && b.isSmall {
		if b.small == 0 {
			return nil, object.NewMathError("modulo by zero")
		}
		r := a.small % b.small
		if r != 0 && (r < 0) != (b.small < 0) {
			r += b.small
		}
		return NewInt(r), nil
	}
	bb := b.AsBig()
	if bb.Sign() == 0 {
		return nil, object.NewMathError("modulo by zero")
	}
	m := new(big.Int).Mod(a.AsBig(), bb)
	if m.Sign() != 0 && bb.Sign() < 0 {
		m.Add(m, bb)
	}
	return NewBigInt(m), nil
}

// intPow implements pow(base, exp) per spec §4.2: requires an exponent
// that fits the native word for big bases; negative exponents with
// integer base and non-unit result yield 0.
func intPow(ao, bo object.Object) (object.Object, *object.Exception) {
	a, aok := asInt(ao)
	b, bok := asInt(bo)
	if !aok || !bok {
		return nil, object.NewTypeError("unsupported operand type for **")
	}
	exp, fits := b.Int64()
	if !fits {
		return nil, object.NewMathError("exponent too large")
	}
	if exp < 0 {
		base, _ := a.Int64()
		if base == 1 {
			return NewInt(1), nil
		}
		if base == -1 {
			if exp%2 == 0 {
				return NewInt(1), nil
			}
			return NewInt(-1), nil
		}
		return NewInt(0), nil
	}
	r := new(big.Int).Exp(a.AsBig(), big.NewInt(exp), nil)
	return NewBigInt(r), nil
}

func intShift(left bool) func(a, b object.Object) (object.Object, *object.Exception) {
	return func(ao, bo object.Object) (object.Object, *object.Exception) {
		a, aok := asInt(ao)
		b, bok := asInt(bo)
		if !aok || !bok {
			return nil, object.NewTypeError("unsupported operand type for shift")
		}
		shift, fits := b.Int64()
		if !fits || shift < 0 {
			return nil, object.NewMathError("invalid shift amount")
		}
		r := new(big.Int)
		if left {
			r.Lsh(a.AsBig(), uint(shift))
		} else {
			r.Rsh(a.AsBig(), uint(shift))
		}
		return NewBigInt(r), nil
	}
}
