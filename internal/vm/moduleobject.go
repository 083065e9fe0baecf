package vm

import "vellum/internal/object"

// ModuleType backs the value `import name` binds: a thin attribute
// namespace over the locals the imported script ran with (spec
// §4.10/C10).
var ModuleType = object.NewType("module")

// Module wraps the top-level locals of an executed script so its
// bindings are reachable as `name.attr` from the importer, the same
// attribute path any other object exposes (spec §4.1 GetAttr).
type Module struct {
	object.Header
	Name   string
	Locals *Locals
}

// NewModule wraps locals (already executed to completion) as the
// module value the registry caches under name.
func NewModule(name string, locals *Locals) *Module {
	m := &Module{Name: name, Locals: locals}
	m.Header = object.NewHeader(ModuleType)
	return m
}

func init() {
	ModuleType.Slots.GetAttr = func(self object.Object, name string) (object.Object, *object.Exception) {
		m := self.(*Module)
		if v, ok := m.Locals.Get(name); ok {
			return object.Retain(v), nil
		}
		return nil, object.NewAttrError("module '" + m.Name + "' has no attribute '" + name + "'")
	}
	ModuleType.Slots.Str = func(o object.Object) string {
		return "<module '" + o.(*Module).Name + "'>"
	}
	ModuleType.Slots.Repr = ModuleType.Slots.Str
	ModuleType.Slots.Truthy = func(object.Object) (bool, *object.Exception) { return true, nil }
	ModuleType.Slots.Free = func(self object.Object) {
		self.(*Module).Locals.Release()
	}
}
