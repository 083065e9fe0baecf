// Package format implements the printf-style formatter (C9): the
// specifier set spec.md §4.9 names for native diagnostic output (`%i`,
// `%l`, `%p`, `%f`/`%+f`, `%c`, `%s`, `%o`, `%S`, `%R`, `%T`), distinct
// from the object-level `str % tuple` sugar that internal/types'
// BOP_MOD dispatches to (SPEC_FULL, "folded into internal/format's
// object-level formatter as the concrete consumer"). This package
// backs that sugar's single recognized specifier too, so both paths
// share one specifier table.
package format

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"vellum/internal/object"
)

// Sprintf renders format against args, consuming one argument per
// specifier in order. Unlike fmt.Sprintf, width/repeat counts are
// pulled from the argument stream itself when a specifier uses `*`
// (spec §4.9 "%c, optionally repeated via *"; "%s, NUL-terminated or
// length-prefixed via *s"), matching kscript's single combined
// argument list rather than Go's separate verb/width split.
func Sprintf(format string, args ...interface{}) (string, error) {
	var out strings.Builder
	ai := 0
	next := func() (interface{}, error) {
		if ai >= len(args) {
			return nil, fmt.Errorf("format: not enough arguments for %q", format)
		}
		v := args[ai]
		ai++
		return v, nil
	}
	for i := 0; i < len(format); i++ {
		ch := format[i]
		if ch != '%' || i+1 >= len(format) {
			out.WriteByte(ch)
			continue
		}
		i++
		star := false
		if format[i] == '*' {
			star = true
			i++
			if i >= len(format) {
				return "", fmt.Errorf("format: dangling '*' in %q", format)
			}
		}
		switch format[i] {
		case '%':
			out.WriteByte('%')
		case 'i':
			v, err := next()
			if err != nil {
				return "", err
			}
			n, err := asInt64(v)
			if err != nil {
				return "", err
			}
			out.WriteString(strconv.FormatInt(int64(int32(n)), 10))
		case 'l':
			v, err := next()
			if err != nil {
				return "", err
			}
			n, err := asInt64(v)
			if err != nil {
				return "", err
			}
			out.WriteString(strconv.FormatInt(n, 10))
		case 'p':
			v, err := next()
			if err != nil {
				return "", err
			}
			out.WriteString(fmt.Sprintf("%p", v))
		case 'f':
			v, err := next()
			if err != nil {
				return "", err
			}
			f, err := asFloat64(v)
			if err != nil {
				return "", err
			}
			out.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
		case '+':
			i++
			if i >= len(format) || format[i] != 'f' {
				return "", fmt.Errorf("format: '%%+' must be followed by 'f' in %q", format)
			}
			v, err := next()
			if err != nil {
				return "", err
			}
			f, err := asFloat64(v)
			if err != nil {
				return "", err
			}
			out.WriteString(fmt.Sprintf("%+s", strconv.FormatFloat(f, 'g', -1, 64)))
		case 'c':
			v, err := next()
			if err != nil {
				return "", err
			}
			n, err := asInt64(v)
			if err != nil {
				return "", err
			}
			count := 1
			if star {
				cv, err := next()
				if err != nil {
					return "", err
				}
				c, err := asInt64(cv)
				if err != nil {
					return "", err
				}
				count = int(c)
			}
			out.WriteString(strings.Repeat(string(rune(n)), count))
		case 's':
			v, err := next()
			if err != nil {
				return "", err
			}
			s, err := asString(v)
			if err != nil {
				return "", err
			}
			if star {
				lv, err := next()
				if err != nil {
					return "", err
				}
				n, err := asInt64(lv)
				if err != nil {
					return "", err
				}
				if int(n) < len(s) {
					s = s[:n]
				}
			}
			out.WriteString(s)
		case 'o':
			v, err := next()
			if err != nil {
				return "", err
			}
			o, ok := v.(object.Object)
			if !ok {
				return "", fmt.Errorf("format: %%o requires an object, got %T", v)
			}
			out.WriteString(inspectObject(o))
		case 'S':
			v, err := next()
			if err != nil {
				return "", err
			}
			o, ok := v.(object.Object)
			if !ok {
				return "", fmt.Errorf("format: %%S requires an object, got %T", v)
			}
			out.WriteString(object.Str(o))
		case 'R':
			v, err := next()
			if err != nil {
				return "", err
			}
			o, ok := v.(object.Object)
			if !ok {
				return "", fmt.Errorf("format: %%R requires an object, got %T", v)
			}
			out.WriteString(object.Repr(o))
		case 'T':
			v, err := next()
			if err != nil {
				return "", err
			}
			o, ok := v.(object.Object)
			if !ok {
				return "", fmt.Errorf("format: %%T requires an object, got %T", v)
			}
			out.WriteString(o.Type().Name)
		default:
			return "", fmt.Errorf("format: unknown specifier '%%%c' in %q", format[i], format)
		}
	}
	return out.String(), nil
}

// inspectObject renders a single object non-recursively as
// `<'Type' obj @ addr, refs=N>` (spec §4.9 "inspect any object
// non-recursively as `<'Type' obj @ addr>`"), humanizing the refcount
// with go-humanize the way the teacher's forensic dumps humanize large
// counters (SPEC_FULL, go-humanize wiring note).
func inspectObject(o object.Object) string {
	refs := o.Header().Refcount()
	return fmt.Sprintf("<'%s' obj @ %p, refs=%s>", o.Type().Name, o, humanize.Comma(refs))
}

func asInt64(v interface{}) (int64, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	case uint:
		return int64(n), nil
	case uint64:
		return int64(n), nil
	default:
		return 0, fmt.Errorf("format: expected an integer argument, got %T", v)
	}
}

func asFloat64(v interface{}) (float64, error) {
	switch f := v.(type) {
	case float32:
		return float64(f), nil
	case float64:
		return f, nil
	default:
		return 0, fmt.Errorf("format: expected a float argument, got %T", v)
	}
}

func asString(v interface{}) (string, error) {
	switch s := v.(type) {
	case string:
		return s, nil
	case []byte:
		return string(s), nil
	default:
		return "", fmt.Errorf("format: expected a string argument, got %T", v)
	}
}
