// errors.go — error kinds and caret-snippet rendering.
//
// The lexer produces *LexError with a 1-based line/column (and
// *UnexpectedEOFError for an unterminated string literal), the parser
// produces *UnexpectedTokenError / *UnexpectedEOFError carrying the
// grammar context it was parsing (a malformed expression with a
// missing or dangling operand is reported as a plain error), and the
// evaluator produces *RuntimeError.
// WrapErrorWithSource upgrades positioned errors into a readable
// snippet with a caret under the offending column; everything else
// passes through unchanged.
package ints

import (
	"fmt"
	"strings"
)

// LexError is a tokenization failure at a source position.
type LexError struct {
	Line int
	Col  int
	Msg  string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lexical error at %d:%d: %s", e.Line, e.Col, e.Msg)
}

// UnexpectedTokenError reports a token the grammar cannot accept.
// Where names the construct being parsed when the token appeared.
type UnexpectedTokenError struct {
	Where    string
	Got      string
	Expected string
}

func (e *UnexpectedTokenError) Error() string {
	return fmt.Sprintf("unexpected token %s in %s, expected %s", e.Got, e.Where, e.Expected)
}

// UnexpectedEOFError reports source that ended mid-construct.
type UnexpectedEOFError struct {
	Where    string
	Expected string
}

func (e *UnexpectedEOFError) Error() string {
	return fmt.Sprintf("unexpected end of file in %s, expected %s", e.Where, e.Expected)
}

// ExitError unwinds an exit(code) call out of the interpreter; the
// driver maps it to the process exit status.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit with status %d", e.Code)
}

// RuntimeError is any failure raised during evaluation.
type RuntimeError struct {
	Msg string
}

func (e *RuntimeError) Error() string { return e.Msg }

func runtimeErrorf(format string, args ...any) *RuntimeError {
	return &RuntimeError{Msg: fmt.Sprintf(format, args...)}
}

// WrapErrorWithSource returns err augmented with a caret-annotated
// snippet of src when err carries a source position (currently
// *LexError). Other errors are returned unchanged.
func WrapErrorWithSource(err error, src string) error {
	if e, ok := err.(*LexError); ok {
		return fmt.Errorf("%s", prettySnippet(src, "lexical error", e.Line, e.Col, e.Msg))
	}
	return err
}

// prettySnippet builds a snippet with a header and a caret. It shows at
// most one previous and one next line when available. Coordinates are
// 1-based; line is clamped to the source bounds, col is only raised to
// at least 1 (it is not capped at the line's length).
func prettySnippet(src, header string, line, col int, msg string) string {
	lines := strings.Split(src, "\n")
	if line < 1 {
		line = 1
	}
	if col < 1 {
		col = 1
	}
	if len(lines) == 0 {
		lines = []string{""}
	}
	if line > len(lines) {
		line = len(lines)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s at %d:%d: %s\n\n", header, line, col, msg)
	if line > 1 {
		fmt.Fprintf(&b, "%4d | %s\n", line-1, lines[line-2])
	}
	fmt.Fprintf(&b, "%4d | %s\n", line, lines[line-1])
	fmt.Fprintf(&b, "     | %s^\n", strings.Repeat(" ", col-1))
	if line < len(lines) {
		fmt.Fprintf(&b, "%4d | %s\n", line+1, lines[line])
	}
	return b.String()
}
