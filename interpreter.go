// interpreter.go — public surface of the ints interpreter.
//
// An Interpreter owns the top-level scope, the set of use-resolved
// files, and the I/O seams the builtins go through. The engine itself
// (statement and expression walking) lives in interpreter_exec.go; the
// builtins live in builtin_core.go and builtin_io.go.
//
// Program shape: the root pass processes function definitions and use
// directives in textual order (use directives re-enter the loader,
// each file at most once), then the entry file's top-level bindings
// and calls run in textual order. If the top-level scope then binds
// main to a function, the driver synthesises main(argc, argv).
package ints

import (
	"io"
	"os"
)

// Interpreter evaluates parsed ints programs. The zero value is not
// usable; construct with NewInterpreter.
type Interpreter struct {
	global *Scope
	loaded map[string]bool

	// I/O seams, overridable for embedding and tests.
	Stdout   io.Writer
	Stdin    io.Reader
	ReadFile func(path string) ([]byte, error)
	Getchar  func() (byte, error)
	Clear    func(out io.Writer) error
}

// NewInterpreter returns an interpreter wired to the real process
// environment.
func NewInterpreter() *Interpreter {
	ip := &Interpreter{
		global:   NewScope(nil),
		loaded:   map[string]bool{},
		Stdout:   os.Stdout,
		Stdin:    os.Stdin,
		ReadFile: os.ReadFile,
		Clear:    clearTerminal,
	}
	ip.Getchar = func() (byte, error) { return getcharRaw(ip.Stdin) }
	return ip
}

// Global exposes the top-level scope (the REPL evaluates into it).
func (ip *Interpreter) Global() *Scope { return ip.global }

// RunFile loads filename, resolves its use graph, executes the entry
// file's top-level statements, and calls main if bound. args are the
// program arguments after the source path.
func (ip *Interpreter) RunFile(filename string, args []string) error {
	if err := ip.loadFile(filename, true); err != nil {
		return err
	}
	return ip.callMainIfPresent(args)
}

// EvalSource parses and executes one source fragment against the
// persistent top-level scope. Definitions, bindings, and calls all
// take effect; main is not invoked.
func (ip *Interpreter) EvalSource(src string) error {
	root, err := Parse(src)
	if err != nil {
		return WrapErrorWithSource(err, src)
	}
	if err := ip.processDefinitions(root); err != nil {
		return err
	}
	return ip.runTopLevel(root)
}

// loadFile lexes, parses, and processes one file. Only the entry file
// executes top-level bindings and calls; imported files contribute
// definitions and nested uses.
func (ip *Interpreter) loadFile(filename string, entry bool) error {
	src, err := ip.ReadFile(filename)
	if err != nil {
		return runtimeErrorf("failed to open file: %s", filename)
	}
	root, err := Parse(string(src))
	if err != nil {
		return WrapErrorWithSource(err, string(src))
	}
	if err := ip.processDefinitions(root); err != nil {
		return err
	}
	if entry {
		return ip.runTopLevel(root)
	}
	return nil
}

// processDefinitions walks the root once, defining functions and
// resolving use directives in textual order.
func (ip *Interpreter) processDefinitions(root *Root) error {
	for _, item := range root.Items {
		switch v := item.(type) {
		case *FunctionDefinition:
			ip.global.DefineFunction(v.Name, v)
		case *Use:
			if err := ip.resolveUse(v); err != nil {
				return err
			}
		}
	}
	return nil
}

// runTopLevel executes the entry file's top-level bindings and calls
// in textual order.
func (ip *Interpreter) runTopLevel(root *Root) error {
	for _, item := range root.Items {
		switch v := item.(type) {
		case *VariableDeclaration:
			if err := ip.evalDeclaration(v, ip.global); err != nil {
				return err
			}
		case *VariableAssignment:
			if err := ip.evalAssignment(v, ip.global); err != nil {
				return err
			}
		case *FunctionCall:
			if _, err := ip.callFunction(v, ip.global); err != nil {
				return err
			}
		}
	}
	return nil
}

// resolveUse decodes the directive's payload to a filename and loads
// it unless already loaded. Standard headers and paths resolve the
// same way after parsing.
func (ip *Interpreter) resolveUse(use *Use) error {
	payload, err := ip.evalArrayNode(use.Payload, ip.global)
	if err != nil {
		return err
	}
	filename := string(payload.Bytes())
	if ip.loaded[filename] {
		return nil
	}
	ip.loaded[filename] = true
	return ip.loadFile(filename, false)
}

// callMainIfPresent synthesises main(argc, argv): argc is a length-1
// array with the program argument count; argv is the flat
// length-prefixed encoding of the arguments.
func (ip *Interpreter) callMainIfPresent(args []string) error {
	if _, ok := ip.global.Function("main"); !ok {
		return nil
	}
	argv := []int{}
	for _, arg := range args {
		argv = append(argv, len(arg))
		argv = append(argv, stringToInts(arg)...)
	}
	call := &FunctionCall{
		Name: "main",
		Args: []*Expression{
			{Primary: &ArrayNode{Kind: ArrayInts, Ints: []int{len(args)}}},
			{Primary: &ArrayNode{Kind: ArrayInts, Ints: argv}},
		},
	}
	_, err := ip.callFunction(call, ip.global)
	return err
}
