package vm

import (
	"vellum/internal/module"
	"vellum/internal/object"
)

// Config tunes an Interp's scheduling and safety limits (spec §5,
// §8 "deeply-nested calls ... either complete or raise a dedicated
// error").
type Config struct {
	// SuspendEvery is how many dispatched instructions a thread runs
	// before voluntarily releasing and re-acquiring the interpreter
	// lock, admitting other threads (spec §5 "on a schedule").
	SuspendEvery int
	// MaxFrames bounds call depth; exceeding it raises InternalError
	// rather than corrupting the frame stack (spec §8 boundary case).
	MaxFrames int
}

// DefaultConfig matches the values the reference scenarios in spec §8
// exercise (1000+ frames must either complete or raise cleanly).
func DefaultConfig() Config {
	return Config{SuspendEvery: 64, MaxFrames: 8192}
}

// Interp is the process-wide context object spec §9 calls for ("expose
// [the module registry and globals] through a single process-wide
// context object created at init and torn down at shutdown; avoid
// hidden static pointers").
type Interp struct {
	Config  Config
	Globals *Locals
	Modules *module.Registry
	gil     gilLock
}

// New constructs an Interp with fresh globals and no module loader
// wired yet; call SetModuleLoader once the embedding collaborator (the
// CLI, spec §6) has a compiler/VM pair ready to satisfy imports.
func New(cfg Config) *Interp {
	return &Interp{Config: cfg, Globals: NewLocals()}
}

// SetModuleLoader wires the module registry's collaborator loader
// (spec §4.10 "the loader's contract is (name) -> module object or
// failure"). Kept separate from New to avoid a compiler/vm import
// cycle: the loader closure is built by the composition root (cmd),
// which can see both the compiler and this package.
func (in *Interp) SetModuleLoader(loader module.Loader) {
	in.Modules = module.NewRegistry(loader)
}

// Import resolves a module by name through the registry, raising
// InternalError if no loader has been wired.
func (in *Interp) Import(name string) (object.Object, *object.Exception) {
	if in.Modules == nil {
		return nil, object.NewInternalError("no module loader configured")
	}
	return in.Modules.Load(name)
}
