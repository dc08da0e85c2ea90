// builtin_core.go — print, range, and exit.
//
// Builtins receive their already-evaluated arguments; each validates
// its own arity and shapes. User-defined functions shadow builtins of
// the same name.
package ints

// builtinImpl is the native implementation of one builtin function.
type builtinImpl func(ip *Interpreter, args []Value) (Value, error)

var builtins = map[string]builtinImpl{
	"print":   builtinPrint,
	"range":   builtinRange,
	"exit":    builtinExit,
	"read":    builtinRead,
	"getchar": builtinGetchar,
	"clear":   builtinClear,
}

// builtinPrint writes the bytes of its argument (each element mod 256)
// to the interpreter's stdout and returns an empty value.
func builtinPrint(ip *Interpreter, args []Value) (Value, error) {
	if len(args) != 1 {
		return Value{}, runtimeErrorf("function print expected 1 argument but received %d", len(args))
	}
	if _, err := ip.Stdout.Write(args[0].Bytes()); err != nil {
		return Value{}, runtimeErrorf("print failed: %v", err)
	}
	return EmptyValue(), nil
}

// builtinRange returns [0, 1, ..., n-1] for a length-1 non-negative
// argument.
func builtinRange(ip *Interpreter, args []Value) (Value, error) {
	if len(args) != 1 {
		return Value{}, runtimeErrorf("function range expected 1 argument but received %d", len(args))
	}
	arg := args[0]
	if arg.Size() != 1 {
		return Value{}, runtimeErrorf(
			"function range expected 1 argument with size [1] but received [%d]", arg.Size())
	}
	n := arg.At(0)
	if n < 0 {
		return Value{}, runtimeErrorf(
			"function range expected 1 non-negative argument with size [1] but received the value %s", arg)
	}
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return NewFixedValue(out), nil
}

// builtinExit terminates the program with the argument's first element
// as the exit status. The *ExitError unwinds every frame; the driver
// turns it into the process status.
func builtinExit(ip *Interpreter, args []Value) (Value, error) {
	if len(args) != 1 {
		return Value{}, runtimeErrorf("function exit expected 1 argument but received %d", len(args))
	}
	if args[0].Size() < 1 {
		return Value{}, runtimeErrorf("function exit expected an argument with at least 1 element")
	}
	return Value{}, &ExitError{Code: args[0].At(0)}
}
