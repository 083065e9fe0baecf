// Package errors wraps Go-level internal faults — failures in the
// runtime's own plumbing, like a module file that can't be read or
// read back corrupt — distinctly from *object.Exception, which is the
// value that actually flows through bytecode raise/catch (spec §4.3).
// A Go-level fault only becomes a language-level one at the boundary
// where a collaborator (the module loader, the CLI) converts it into
// an *object.Exception; until then it keeps its pkg/errors stack trace
// intact across package boundaries.
package errors

import "github.com/pkg/errors"

// Wrap attaches msg as context to err, preserving any stack trace err
// already carries.
func Wrap(err error, msg string) error { return errors.Wrap(err, msg) }

// Wrapf is Wrap with a formatted message.
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New constructs a stack-carrying error from a message.
func New(msg string) error { return errors.New(msg) }

// Cause unwraps err to the innermost wrapped error.
func Cause(err error) error { return errors.Cause(err) }
