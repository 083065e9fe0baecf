package types

import (
	"vellum/internal/format"
	"vellum/internal/object"
)

// formatModSlot backs `str % tuple`, the sugar recovered from kscript's
// fmt.c and folded into SPEC_FULL as the concrete consumer of C9's
// "format string plus an argument tuple" behavior. Only %s is
// recognized, per spec §4.9; each occurrence consumes the next element
// of the tuple, stringified via object.Str so it works uniformly over
// any value, not just Str arguments. Delegates to internal/format so
// both the object-level sugar and the native diagnostic formatter
// share one specifier table.
func formatModSlot(ao, bo object.Object) (object.Object, *object.Exception) {
	a, ok := ao.(*Str)
	if !ok {
		return nil, object.NewTypeError("% requires a str left operand")
	}
	tup, ok := bo.(*Tuple)
	if !ok {
		return nil, object.NewTypeError("% requires a tuple of arguments")
	}
	args := make([]interface{}, len(tup.Elems))
	for i, el := range tup.Elems {
		args[i] = object.Str(el)
	}
	out, err := format.Sprintf(a.Value, args...)
	if err != nil {
		return nil, object.NewArgError(err.Error())
	}
	return NewStr(out), nil
}
