package vm

import (
	"runtime"
	"sync"
)

// gilLock is the single global interpreter lock serializing access to
// object state across OS threads (spec §5: "parallel native threads,
// cooperatively serialized by a single global lock"). Only the holder
// may touch object state, container contents, frame stacks, and the
// current-thread accessor.
type gilLock struct {
	mu sync.Mutex
}

func (g *gilLock) Acquire() { g.mu.Lock() }
func (g *gilLock) Release() { g.mu.Unlock() }

// Suspend releases and immediately re-acquires the lock, giving the Go
// scheduler a chance to run another goroutine holding a blocked
// acquire (spec §5 "voluntarily releases and re-acquires the lock on a
// schedule ... to admit other threads").
func (g *gilLock) Suspend() {
	g.mu.Unlock()
	runtime.Gosched()
	g.mu.Lock()
}

// EnterInterpreter acquires the lock for the duration of fn, releasing
// it even on panic. This is the "builder pattern (enter/leave the
// interpreter)" spec §9 prefers over ambient thread-local singletons.
func (in *Interp) EnterInterpreter(fn func()) {
	in.gil.Acquire()
	defer in.gil.Release()
	fn()
}

// ReleaseForBlockingCall is called by native functions that perform
// blocking I/O or sleep, so other threads can run while this one waits
// (spec §5). Callers must call the returned func before touching any
// object again.
func (in *Interp) ReleaseForBlockingCall() (reacquire func()) {
	in.gil.Release()
	return in.gil.Acquire
}
