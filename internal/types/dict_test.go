package types

import (
	"testing"

	"vellum/internal/object"
)

func TestDictSetGetRoundTrip(t *testing.T) {
	d := NewDict()
	k := NewStr("key")
	v := NewInt(7)
	if exc := d.Set(k, v); exc != nil {
		t.Fatalf("unexpected error: %v", exc)
	}
	got, found, exc := d.Get(k)
	if exc != nil {
		t.Fatalf("unexpected error: %v", exc)
	}
	if !found {
		t.Fatal("expected key to be found")
	}
	if got != v {
		t.Error("got a different object back than was stored")
	}
}

func TestDictSetReplacesExistingKey(t *testing.T) {
	d := NewDict()
	k := NewStr("key")
	d.Set(k, NewInt(1))
	d.Set(k, NewInt(2))
	if d.Len() != 1 {
		t.Fatalf("got len %d, want 1 (replace, not insert)", d.Len())
	}
	v, _, _ := d.Get(k)
	if got, _ := v.(*Int).Int64(); got != 2 {
		t.Errorf("got %d, want 2", got)
	}
}

// Deleting a key must not resurrect it as a false positive for a
// different key that happens to probe through the same tombstoned
// bucket (spec §9's flagged probe-termination bug).
func TestDictDeleteLeavesNoGhostEntry(t *testing.T) {
	d := NewDict()
	a, b := NewStr("a"), NewStr("b")
	d.Set(a, NewInt(1))
	d.Set(b, NewInt(2))
	deleted, exc := d.Delete(a)
	if exc != nil {
		t.Fatalf("unexpected error: %v", exc)
	}
	if !deleted {
		t.Fatal("expected delete to report true")
	}
	if _, found, _ := d.Get(a); found {
		t.Error("deleted key must no longer be found")
	}
	if v, found, _ := d.Get(b); !found || v.(*Int) != NewInt(2) {
		t.Error("a surviving key must still resolve correctly after a neighbor tombstone")
	}
	if d.Len() != 1 {
		t.Errorf("got len %d, want 1", d.Len())
	}
}

func TestDictIterationIsInsertionOrder(t *testing.T) {
	d := NewDict()
	keys := []string{"z", "a", "m"}
	for i, k := range keys {
		d.Set(NewStr(k), NewInt(int64(i)))
	}
	var seen []string
	d.Each(func(k, v object.Object) bool {
		seen = append(seen, k.(*Str).Value)
		return true
	})
	for i, k := range keys {
		if seen[i] != k {
			t.Errorf("position %d: got %q, want %q (insertion order %v)", i, seen[i], k, keys)
		}
	}
}

func TestDictGrowsAcrossManyInserts(t *testing.T) {
	d := NewDict()
	const n = 500
	for i := 0; i < n; i++ {
		d.Set(NewInt(int64(i)), NewInt(int64(i*2)))
	}
	if d.Len() != n {
		t.Fatalf("got len %d, want %d", d.Len(), n)
	}
	for i := 0; i < n; i++ {
		v, found, exc := d.Get(NewInt(int64(i)))
		if exc != nil {
			t.Fatalf("unexpected error at %d: %v", i, exc)
		}
		if !found {
			t.Fatalf("key %d not found after resize", i)
		}
		if got, _ := v.(*Int).Int64(); got != int64(i*2) {
			t.Errorf("key %d: got %d, want %d", i, got, i*2)
		}
	}
}

func TestNewDictFromPairsRejectsOddCount(t *testing.T) {
	_, exc := NewDictFromPairs([]object.Object{NewStr("a")})
	if exc == nil {
		t.Fatal("expected an error for an odd number of elements")
	}
}

func TestNewDictFromPairsBuildsEntries(t *testing.T) {
	d, exc := NewDictFromPairs([]object.Object{NewStr("a"), NewInt(1), NewStr("b"), NewInt(2)})
	if exc != nil {
		t.Fatalf("unexpected error: %v", exc)
	}
	if d.Len() != 2 {
		t.Fatalf("got len %d, want 2", d.Len())
	}
}
