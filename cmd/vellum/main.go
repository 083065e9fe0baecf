// Command vellum is the process-surface collaborator (spec §6): it
// turns a source file or an inline expression into bytecode and runs it
// on a fresh Interp, printing an uncaught exception's message and call
// stack to stderr. This binary owns the only OS-facing concerns in the
// tree (file I/O, terminal detection); the core packages never import
// "os".
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kr/text"
	"github.com/mattn/go-isatty"

	"vellum/internal/bytecode"
	"vellum/internal/compiler"
	vellumerrors "vellum/internal/errors"
	"vellum/internal/lexer"
	"vellum/internal/module"
	"vellum/internal/object"
	"vellum/internal/parser"
	"vellum/internal/vm"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: vellum <file> | vellum -e <expr>")
		os.Exit(2)
	}
	if os.Args[1] == "-e" {
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "vellum -e expects an expression argument")
			os.Exit(2)
		}
		run(os.Args[2], "<expr>", ".")
		return
	}
	path := os.Args[1]
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	run(string(src), path, filepath.Dir(path))
}

// run compiles and executes src, rooting module imports at searchDir.
func run(src, file, searchDir string) {
	in := vm.New(vm.DefaultConfig())
	vm.RegisterBuiltins(in)
	in.SetModuleLoader(newLoader(in, searchDir))

	code, cerr := compileSource(src, file)
	if cerr != nil {
		printDiagnostic(cerr.Error())
		os.Exit(1)
	}

	th := vm.NewThread(in, "main")
	var exc *object.Exception
	in.EnterInterpreter(func() {
		_, exc = in.Exec(th, code)
	})
	if exc != nil {
		th.Exception = exc
		th.CallStack = exc.Stack
		printException(exc)
		os.Exit(1)
	}
}

// compileSource runs the lex -> parse -> compile pipeline a single
// source unit goes through, shared by the top-level script and every
// imported module.
func compileSource(src, file string) (*bytecode.Code, error) {
	sc := lexer.NewScanner(src, file)
	tokens, lexErr := sc.ScanTokens()
	if lexErr != nil {
		return nil, lexErr
	}
	blk, perr := parser.New(tokens, src).ParseProgram()
	if perr != nil {
		return nil, perr
	}
	return compiler.CompileModule(blk, file)
}

// newLoader builds the module.Loader the registry calls on first
// import of a given name: resolve `name.vl` under dir, compile it, and
// execute it against its own isolated locals so its bindings surface
// as `name.attr` rather than merging into the importer's scope (spec
// §4.10).
func newLoader(in *vm.Interp, dir string) module.Loader {
	return func(name string) (object.Object, *object.Exception) {
		path := filepath.Join(dir, name+".vl")
		src, err := os.ReadFile(path)
		if err != nil {
			goErr := vellumerrors.Wrapf(err, "loading module %q", name)
			return nil, object.NewIOError(goErr.Error())
		}
		code, cerr := compileSource(string(src), path)
		if cerr != nil {
			return nil, object.NewSyntaxError(cerr.Error(), path, 0, 0)
		}
		locals := vm.NewLocals().Retain()
		th := vm.NewThread(in, "")
		if _, exc := in.ExecIsolated(th, code, locals); exc != nil {
			return nil, exc
		}
		return vm.NewModule(name, locals), nil
	}
}

func printDiagnostic(msg string) {
	fmt.Fprintln(os.Stderr, colorize(msg))
}

// printException renders an uncaught exception's message followed by
// its captured call stack, indented with kr/text the way a wrapped
// multi-frame trace needs to be set off from the headline message
// (SPEC_FULL: "indents wrapped multi-line call-stack traces").
func printException(exc *object.Exception) {
	msg := exc.Error()
	if len(exc.Stack) > 0 {
		var b strings.Builder
		for _, f := range exc.Stack {
			fmt.Fprintln(&b, f.String())
		}
		msg += "\n" + text.Indent(b.String(), "  ")
	}
	fmt.Fprintln(os.Stderr, colorize(msg))
}

func colorize(msg string) string {
	if !isatty.IsTerminal(os.Stderr.Fd()) {
		return msg
	}
	return "\x1b[31m" + msg + "\x1b[0m"
}
