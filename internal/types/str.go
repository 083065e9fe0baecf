package types

import (
	"strings"

	"github.com/dchest/siphash"
	"vellum/internal/object"
)

// StrType backs immutable byte-sequence strings with precomputed hash
// (spec §3.3).
var StrType = object.NewType("str")

// siphash key: fixed, process-wide. The spec only requires the hash be
// a deterministic function of the bytes (§8); a fixed key keeps repeated
// runs and snapshot tests reproducible, unlike a randomized-at-startup
// key.
const (
	siphashK0 = 0x5345_4e54_5241_5f30
	siphashK1 = 0x7665_6c6c_756d_5f31
)

type Str struct {
	object.Header
	Value string
	hash  uint64
}

var oneCharCache [256]*Str

func init() {
	for b := 0; b < 256; b++ {
		s := &Str{Value: string([]byte{byte(b)})}
		s.Header = object.NewHeader(StrType)
		s.Header.MarkImmortal()
		s.hash = computeStrHash(s.Value)
		oneCharCache[b] = s
	}
	registerStrSlots()
}

// NewStr constructs a Str, hashing the bytes via SipHash-2-4 (spec §3.3
// "construction hashes the bytes via a stable non-cryptographic hash").
// One-character strings made of a single byte share the immortal cache
// (spec §3.1).
func NewStr(v string) *Str {
	if len(v) == 1 {
		return oneCharCache[v[0]]
	}
	s := &Str{Value: v}
	s.Header = object.NewHeader(StrType)
	s.hash = computeStrHash(v)
	return s
}

func computeStrHash(v string) uint64 {
	h := siphash.Hash(siphashK0, siphashK1, []byte(v))
	if h == 0 {
		// zero is reserved as the "unset" sentinel (spec §3.3, §9).
		h = 1
	}
	return h
}

// Hash returns the cached hash value.
func (s *Str) Hash() uint64 { return s.hash }

func registerStrSlots() {
	StrType.Slots.Hash = func(o object.Object) (uint64, *object.Exception) {
		return o.(*Str).hash, nil
	}
	StrType.Slots.Eq = func(ao, bo object.Object) (bool, *object.Exception) {
		a, aok := ao.(*Str)
		b, bok := bo.(*Str)
		if !aok || !bok {
			return false, nil
		}
		return a.hash == b.hash && a.Value == b.Value, nil
	}
	StrType.Slots.Ne = func(a, b object.Object) (bool, *object.Exception) {
		eq, _ := StrType.Slots.Eq(a, b)
		return !eq, nil
	}
	StrType.Slots.Cmp = func(ao, bo object.Object) (int, *object.Exception) {
		a, aok := ao.(*Str)
		b, bok := bo.(*Str)
		if !aok || !bok {
			return 0, object.NewTypeError("cannot compare str with non-str")
		}
		return strings.Compare(a.Value, b.Value), nil
	}
	StrType.Slots.Lt = strCmpBool(func(c int) bool { return c < 0 })
	StrType.Slots.Le = strCmpBool(func(c int) bool { return c <= 0 })
	StrType.Slots.Gt = strCmpBool(func(c int) bool { return c > 0 })
	StrType.Slots.Ge = strCmpBool(func(c int) bool { return c >= 0 })
	StrType.Slots.Len = func(o object.Object) (int, *object.Exception) {
		return len(o.(*Str).Value), nil
	}
	StrType.Slots.Add = func(ao, bo object.Object) (object.Object, *object.Exception) {
		a, aok := ao.(*Str)
		b, bok := bo.(*Str)
		if !aok || !bok {
			return nil, object.NewTypeError("can only concatenate str with str")
		}
		return NewStr(a.Value + b.Value), nil
	}
	StrType.Slots.Mod = formatModSlot
	StrType.Slots.Str = func(o object.Object) string { return o.(*Str).Value }
	StrType.Slots.Repr = func(o object.Object) string { return "'" + o.(*Str).Value + "'" }
	StrType.Slots.GetItem = strGetItem
	StrType.Slots.Iter = func(o object.Object) (object.Object, *object.Exception) {
		return newStrIter(o.(*Str)), nil
	}
}

func strCmpBool(pred func(int) bool) func(a, b object.Object) (bool, *object.Exception) {
	return func(a, b object.Object) (bool, *object.Exception) {
		c, exc := StrType.Slots.Cmp(a, b)
		if exc != nil {
			return false, exc
		}
		return pred(c), nil
	}
}

// normalizeIndex applies the negative-indexing convention recovered
// from kscript (SPEC_FULL "SUPPLEMENTED FEATURES"): a negative index
// counts back from the end.
func normalizeIndex(idx, length int) (int, bool) {
	if idx < 0 {
		idx += length
	}
	if idx < 0 || idx >= length {
		return 0, false
	}
	return idx, true
}

func strGetItem(self object.Object, key object.Object) (object.Object, *object.Exception) {
	s := self.(*Str)
	idxObj, ok := key.(*Int)
	if !ok {
		return nil, object.NewTypeError("str indices must be integers")
	}
	idx64, fits := idxObj.Int64()
	if !fits {
		return nil, object.NewKeyError("string index out of range")
	}
	idx, ok := normalizeIndex(int(idx64), len(s.Value))
	if !ok {
		return nil, object.NewKeyError("string index out of range")
	}
	return NewStr(s.Value[idx : idx+1]), nil
}

// strIter is the iterator object MAKE_ITER produces for a Str (spec
// §3.3 range iterator and §4.7 iterator protocol apply analogously).
type strIter struct {
	object.Header
	s   *Str
	pos int
}

var strIterType = object.NewType("str_iterator")

func newStrIter(s *Str) *strIter {
	it := &strIter{s: s}
	it.Header = object.NewHeader(strIterType)
	return it
}

func init() {
	strIterType.Slots.Next = func(self object.Object) (object.Object, *object.Exception) {
		it := self.(*strIter)
		if it.pos >= len(it.s.Value) {
			return nil, object.NewOutOfIterError()
		}
		c := it.s.Value[it.pos : it.pos+1]
		it.pos++
		return NewStr(c), nil
	}
}
