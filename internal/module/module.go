// Package module implements the import registry (spec §4.10): loading a
// module by name, caching the result, and collapsing concurrent
// requests for the same name into a single load. It has no dependency
// on the lexer/parser/compiler/vm packages — the loader that actually
// knows how to turn a name into a module object is handed in by the
// composition root, keeping this package at the bottom of the import
// graph.
package module

import (
	"sync"

	"golang.org/x/sync/singleflight"

	"vellum/internal/object"
)

// Loader resolves a module name to its value, or fails with an
// exception (spec §4.10: "the loader's contract is (name) -> module
// object or failure"). The composition root builds the concrete
// closure (lex, parse, compile, execute) and wires it in via
// vm.Interp.SetModuleLoader.
type Loader func(name string) (object.Object, *object.Exception)

// Registry caches loaded modules by name and ensures each name is
// loaded at most once even under concurrent import from multiple
// threads, mirroring the teacher's module cache but backed by
// singleflight instead of a bespoke in-flight map (spec §4.10 "importing
// the same name twice returns the same cached module object").
type Registry struct {
	load  Loader
	mu    sync.RWMutex
	cache map[string]object.Object
	group singleflight.Group
}

// NewRegistry constructs a Registry around loader.
func NewRegistry(loader Loader) *Registry {
	return &Registry{
		load:  loader,
		cache: make(map[string]object.Object),
	}
}

// Load returns the cached module for name, loading it (and caching the
// result) on first request. Concurrent Load calls for the same name
// share one underlying load via singleflight.
func (r *Registry) Load(name string) (object.Object, *object.Exception) {
	r.mu.RLock()
	if v, ok := r.cache[name]; ok {
		r.mu.RUnlock()
		return v, nil
	}
	r.mu.RUnlock()

	result, err, _ := r.group.Do(name, func() (interface{}, error) {
		// A load that finished after the check above has already cached
		// the module; don't call the loader a second time.
		r.mu.RLock()
		cached, ok := r.cache[name]
		r.mu.RUnlock()
		if ok {
			return cached, nil
		}
		v, exc := r.load(name)
		if exc != nil {
			return nil, exc
		}
		r.mu.Lock()
		r.cache[name] = v
		r.mu.Unlock()
		return v, nil
	})
	if err != nil {
		return nil, err.(*object.Exception)
	}
	return result.(object.Object), nil
}
