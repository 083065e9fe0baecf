package module

import (
	"sync"
	"sync/atomic"
	"testing"

	"vellum/internal/object"
)

type fakeModule struct {
	object.Header
}

var fakeModuleType = object.NewType("fake_module")

func newFakeModule() *fakeModule {
	m := &fakeModule{}
	m.Header = object.NewHeader(fakeModuleType)
	return m
}

func TestRegistryCachesByName(t *testing.T) {
	var calls int32
	r := NewRegistry(func(name string) (object.Object, *object.Exception) {
		atomic.AddInt32(&calls, 1)
		return object.Object(newFakeModule()), nil
	})

	a, exc := r.Load("foo")
	if exc != nil {
		t.Fatalf("unexpected error: %v", exc)
	}
	b, exc := r.Load("foo")
	if exc != nil {
		t.Fatalf("unexpected error: %v", exc)
	}
	if a != b {
		t.Error("a second load of the same name should return the cached instance")
	}
	if calls != 1 {
		t.Errorf("got %d loader calls, want 1", calls)
	}
}

func TestRegistryCollapsesConcurrentLoadsOfSameName(t *testing.T) {
	var calls int32
	release := make(chan struct{})
	r := NewRegistry(func(name string) (object.Object, *object.Exception) {
		atomic.AddInt32(&calls, 1)
		<-release
		return object.Object(newFakeModule()), nil
	})

	const n = 20
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			r.Load("shared")
		}()
	}
	close(release)
	wg.Wait()

	if calls != 1 {
		t.Errorf("got %d loader invocations for concurrent requests of the same name, want 1", calls)
	}
}

func TestRegistryLoaderFailureSurfacesAsException(t *testing.T) {
	wantExc := object.NewIOError("not found")
	r := NewRegistry(func(name string) (object.Object, *object.Exception) {
		return nil, wantExc
	})
	_, exc := r.Load("missing")
	if exc != wantExc {
		t.Errorf("got %v, want the loader's own exception propagated unchanged", exc)
	}
}

func TestRegistryDoesNotCacheAFailedLoad(t *testing.T) {
	var calls int32
	r := NewRegistry(func(name string) (object.Object, *object.Exception) {
		n := atomic.AddInt32(&calls, 1)
		if n == 1 {
			return nil, object.NewIOError("transient")
		}
		return object.Object(newFakeModule()), nil
	})
	if _, exc := r.Load("retry"); exc == nil {
		t.Fatal("expected the first load to fail")
	}
	if _, exc := r.Load("retry"); exc != nil {
		t.Fatalf("expected the second load to succeed, got %v", exc)
	}
	if calls != 2 {
		t.Errorf("got %d loader calls, want 2 (failed loads must not be cached)", calls)
	}
}
