// builtin_io.go — read, getchar, and clear.
//
// getchar needs the terminal in raw mode (no echo, no line buffering),
// which golang.org/x/term provides portably. When stdin is not a
// terminal (tests, pipes), a single byte is read from the
// interpreter's Stdin instead.
package ints

import (
	"io"
	"os"
	"os/exec"
	"runtime"
	"syscall"

	"golang.org/x/term"
)

// builtinRead returns the contents of the byte-encoded filename as a
// byte-integer array.
func builtinRead(ip *Interpreter, args []Value) (Value, error) {
	if len(args) != 1 {
		return Value{}, runtimeErrorf("function read expected 1 argument but received %d", len(args))
	}
	path := string(args[0].Bytes())
	data, err := ip.ReadFile(path)
	if err != nil {
		return Value{}, runtimeErrorf("failed to open file: %s", path)
	}
	out := make([]int, len(data))
	for i, b := range data {
		out[i] = int(b)
	}
	return NewFixedValue(out), nil
}

// builtinGetchar reads one byte from the terminal and returns it as a
// length-1 array.
func builtinGetchar(ip *Interpreter, args []Value) (Value, error) {
	if len(args) != 0 {
		return Value{}, runtimeErrorf("function getchar expected 0 arguments but received %d", len(args))
	}
	ch, err := ip.Getchar()
	if err != nil {
		return Value{}, runtimeErrorf("getchar failed: %v", err)
	}
	return NewFixedValue([]int{int(ch)}), nil
}

// getcharRaw reads a single byte with the terminal in raw mode,
// restoring the previous state before returning. Ctrl+C raises SIGINT
// as it would under canonical input.
func getcharRaw(fallback io.Reader) (byte, error) {
	fd := int(os.Stdin.Fd())
	buf := make([]byte, 1)
	if term.IsTerminal(fd) {
		old, err := term.MakeRaw(fd)
		if err != nil {
			return 0, err
		}
		_, readErr := os.Stdin.Read(buf)
		_ = term.Restore(fd, old)
		if readErr != nil {
			return 0, readErr
		}
	} else {
		if _, err := io.ReadFull(fallback, buf); err != nil {
			return 0, err
		}
	}
	if buf[0] == 3 { // Ctrl+C
		p, err := os.FindProcess(os.Getpid())
		if err == nil {
			_ = p.Signal(syscall.SIGINT)
		}
	}
	return buf[0], nil
}

// builtinClear clears the terminal.
func builtinClear(ip *Interpreter, args []Value) (Value, error) {
	if len(args) != 0 {
		return Value{}, runtimeErrorf("function clear expected 0 arguments but received %d", len(args))
	}
	if err := ip.Clear(ip.Stdout); err != nil {
		return Value{}, runtimeErrorf("clear failed: %v", err)
	}
	return EmptyValue(), nil
}

// clearTerminal invokes the platform clear command.
func clearTerminal(out io.Writer) error {
	var cmd *exec.Cmd
	if runtime.GOOS == "windows" {
		cmd = exec.Command("cmd", "/c", "cls")
	} else {
		cmd = exec.Command("clear")
	}
	cmd.Stdout = out
	return cmd.Run()
}
