package types

import (
	"strings"

	"modernc.org/mathutil"
	"vellum/internal/object"
)

// DictType backs the open-addressed hash table keyed by hashable
// objects (spec §3.3, §4.2).
var DictType = object.NewType("dict")

// bucketState distinguishes the three states a bucket can be in; a
// Dict's buckets slice holds indices into entries plus this state so
// linear probing can tell "empty" from "was occupied, now deleted"
// (the tombstone, spec GLOSSARY).
type bucketState byte

const (
	bucketEmpty bucketState = iota
	bucketTombstone
	bucketOccupied
)

type bucket struct {
	state bucketState
	entry int // index into Dict.entries, valid only when state == bucketOccupied
}

type dictEntry struct {
	hash uint64 // 0 means this slot was deleted and zeroed (spec §4.2)
	key  object.Object
	val  object.Object
}

// Dict is the open-addressed table described in spec §3.3: buckets
// index into a packed entries array; a bucket is empty, a tombstone, or
// occupied; entries hold (hash, key, val); load factor is kept below
// ~0.4 by resizing to the next prime ≥ 4× the requested capacity.
type Dict struct {
	object.Header
	buckets []bucket
	entries []dictEntry
	// There is no separate insertion-order index: entries itself is
	// append-only within a generation and only compacted on resize, so
	// entries IS the insertion order (spec §4.2
	// "iteration yields pairs in entry-insertion order, skipping
	// deleted slots").
	occupied   int
	tombstones int
}

const dictLoadThreshold = 0.4

// NewDict constructs an empty dict with a small initial capacity.
func NewDict() *Dict {
	d := &Dict{}
	d.Header = object.NewHeader(DictType)
	d.buckets = make([]bucket, initialDictCapacity)
	return d
}

const initialDictCapacity = 11 // prime

// NewDictFromPairs validates the pair count is even (spec §4.2) and
// builds a dict from a flat key/value slice.
func NewDictFromPairs(pairs []object.Object) (*Dict, *object.Exception) {
	if len(pairs)%2 != 0 {
		return nil, object.NewArgError("dict construction requires an even number of elements")
	}
	d := NewDict()
	for i := 0; i < len(pairs); i += 2 {
		if exc := d.Set(pairs[i], pairs[i+1]); exc != nil {
			return nil, exc
		}
	}
	return d, nil
}

// probe finds the bucket for key, returning (bucketIndex, entryIndex,
// found). It probes bucket, bucket+1, bucket+2, ... modulo capacity,
// normalizing the candidate index before comparing it against the
// start so wraparound can't cause the "probed everything" check to
// misfire the way spec §9 flags as a latent bug in the source this
// spec was distilled from ("bi != bi_orig after updating bi = bi_orig +
// tries without modulo before the compare"). Here every candidate is
// reduced mod capacity before use or comparison.
func (d *Dict) probe(key object.Object, hash uint64) (bucketIdx int, entryIdx int, found bool, firstFree int) {
	cap := len(d.buckets)
	start := int(hash % uint64(cap))
	firstFree = -1
	for tries := 0; tries < cap; tries++ {
		bi := (start + tries) % cap
		b := d.buckets[bi]
		switch b.state {
		case bucketEmpty:
			if firstFree < 0 {
				firstFree = bi
			}
			return bi, -1, false, firstFree
		case bucketTombstone:
			if firstFree < 0 {
				firstFree = bi
			}
		case bucketOccupied:
			e := d.entries[b.entry]
			if e.hash == hash {
				eq, _ := object.Equals(e.key, key)
				if eq {
					return bi, b.entry, true, firstFree
				}
			}
		}
	}
	return -1, -1, false, firstFree
}

// Get looks up key, returning (value, found, error). Unhashable keys
// raise TypeError via object.Hash.
func (d *Dict) Get(key object.Object) (object.Object, bool, *object.Exception) {
	h, exc := object.Hash(key)
	if exc != nil {
		return nil, false, exc
	}
	_, ei, found, _ := d.probe(key, h)
	if !found {
		return nil, false, nil
	}
	return d.entries[ei].val, true, nil
}

// Set inserts or replaces key's value, releasing the old value's
// reference on replacement (spec §4.2).
func (d *Dict) Set(key, val object.Object) *object.Exception {
	h, exc := object.Hash(key)
	if exc != nil {
		return exc
	}
	d.maybeResize()
	bi, ei, found, firstFree := d.probe(key, h)
	if found {
		object.Retain(val)
		object.Release(d.entries[ei].val)
		d.entries[ei].val = val
		return nil
	}
	object.Retain(key)
	object.Retain(val)
	d.entries = append(d.entries, dictEntry{hash: h, key: key, val: val})
	newIdx := len(d.entries) - 1
	target := bi
	if firstFree >= 0 {
		target = firstFree
	}
	if d.buckets[target].state == bucketTombstone {
		d.tombstones--
	}
	d.buckets[target] = bucket{state: bucketOccupied, entry: newIdx}
	d.occupied++
	return nil
}

// Delete removes key if present, zeroing the entry and leaving a
// tombstone on the bucket (spec §3.3, §4.2).
func (d *Dict) Delete(key object.Object) (bool, *object.Exception) {
	h, exc := object.Hash(key)
	if exc != nil {
		return false, exc
	}
	bi, ei, found, _ := d.probe(key, h)
	if !found {
		return false, nil
	}
	object.Release(d.entries[ei].key)
	object.Release(d.entries[ei].val)
	d.entries[ei] = dictEntry{}
	d.buckets[bi] = bucket{state: bucketTombstone}
	d.occupied--
	d.tombstones++
	return true, nil
}

// Len returns the number of live (non-tombstoned) entries.
func (d *Dict) Len() int { return d.occupied }

// Each calls f for every live entry in insertion order (spec §4.2),
// stopping early if f returns false.
func (d *Dict) Each(f func(key, val object.Object) bool) {
	// Entries are append-only except for zeroing on delete, so walking
	// d.entries directly yields insertion order while skipping deleted
	// slots (hash == 0 marks a zeroed, deleted entry).
	for i := range d.entries {
		e := d.entries[i]
		if e.hash == 0 && e.key == nil {
			continue
		}
		if !f(e.key, e.val) {
			return
		}
	}
}

// maybeResize grows the table when (occupied+tombstones) pushes the
// load factor at or above the threshold. The new capacity is the next
// prime ≥ 4x the number of live entries (spec §3.3/§4.2), computed via
// mathutil.NextPrimeUint64 (see SPEC_FULL DOMAIN STACK).
func (d *Dict) maybeResize() {
	cap := len(d.buckets)
	if cap == 0 {
		cap = initialDictCapacity
		d.buckets = make([]bucket, cap)
		return
	}
	load := float64(d.occupied+d.tombstones) / float64(cap)
	if load < dictLoadThreshold {
		return
	}
	requested := d.occupied + 1
	newCapU, ok := mathutil.NextPrimeUint64(uint64(requested * 4))
	newCap := int(newCapU)
	if !ok || newCap <= cap {
		newCap = nextOddCandidate(cap*2 + 1)
	}
	d.rehash(newCap)
}

// nextOddCandidate is the fallback used only if mathutil.NextPrimeUint64 ever
// fails to produce a usable capacity; it is not expected to run in
// practice but keeps resize total.
func nextOddCandidate(n int) int {
	if n%2 == 0 {
		n++
	}
	return n
}

// rehash compacts the entries array (dropping tombstones) into a fresh
// bucket table of the given capacity (spec §4.2 "a resize compacts the
// entries array").
func (d *Dict) rehash(newCap int) {
	old := d.entries
	d.entries = make([]dictEntry, 0, d.occupied)
	d.buckets = make([]bucket, newCap)
	d.occupied = 0
	d.tombstones = 0
	for _, e := range old {
		if e.hash == 0 && e.key == nil {
			continue
		}
		bi, _, _, firstFree := d.probe(e.key, e.hash)
		target := bi
		if firstFree >= 0 {
			target = firstFree
		}
		d.entries = append(d.entries, e)
		d.buckets[target] = bucket{state: bucketOccupied, entry: len(d.entries) - 1}
		d.occupied++
	}
}

func init() {
	DictType.Slots.Free = func(self object.Object) {
		d := self.(*Dict)
		for _, e := range d.entries {
			if e.hash == 0 && e.key == nil {
				continue
			}
			object.Release(e.key)
			object.Release(e.val)
		}
	}
	DictType.Slots.Len = func(o object.Object) (int, *object.Exception) {
		return o.(*Dict).Len(), nil
	}
	DictType.Slots.GetItem = func(self, key object.Object) (object.Object, *object.Exception) {
		v, found, exc := self.(*Dict).Get(key)
		if exc != nil {
			return nil, exc
		}
		if !found {
			return nil, object.NewKeyError("key not found: " + object.Repr(key))
		}
		return v, nil
	}
	DictType.Slots.SetItem = func(self object.Object, key, val object.Object) *object.Exception {
		return self.(*Dict).Set(key, val)
	}
	DictType.Slots.Truthy = func(o object.Object) (bool, *object.Exception) {
		return o.(*Dict).Len() != 0, nil
	}
	DictType.Slots.Eq = func(ao, bo object.Object) (bool, *object.Exception) {
		a, aok := ao.(*Dict)
		b, bok := bo.(*Dict)
		if !aok || !bok || a.Len() != b.Len() {
			return false, nil
		}
		equal := true
		var exc *object.Exception
		a.Each(func(k, v object.Object) bool {
			bv, found, e := b.Get(k)
			if e != nil {
				exc = e
				return false
			}
			if !found {
				equal = false
				return false
			}
			eq, e := object.Equals(v, bv)
			if e != nil {
				exc = e
				return false
			}
			if !eq {
				equal = false
				return false
			}
			return true
		})
		if exc != nil {
			return false, exc
		}
		return equal, nil
	}
	DictType.Slots.Ne = func(a, b object.Object) (bool, *object.Exception) {
		eq, exc := DictType.Slots.Eq(a, b)
		return !eq, exc
	}
	DictType.Slots.Str = func(o object.Object) string { return dictRepr(o.(*Dict)) }
	DictType.Slots.Repr = DictType.Slots.Str
	DictType.Slots.Iter = func(self object.Object) (object.Object, *object.Exception) {
		d := self.(*Dict)
		var pairs []object.Object
		d.Each(func(k, v object.Object) bool {
			pairs = append(pairs, NewTuple(k, v))
			return true
		})
		return newSeqIter(pairs), nil
	}
}

func dictRepr(d *Dict) string {
	var parts []string
	d.Each(func(k, v object.Object) bool {
		parts = append(parts, object.Repr(k)+": "+object.Repr(v))
		return true
	})
	return "{" + strings.Join(parts, ", ") + "}"
}
