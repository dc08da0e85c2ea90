package ints

import (
	"errors"
	"strings"
	"testing"
)

func parseExprSrc(t *testing.T, src string) *Expression {
	t.Helper()
	tokens, err := Tokenize(src)
	if err != nil {
		t.Fatalf("Tokenize error: %v", err)
	}
	p := &parser{toks: tokens}
	expr, err := p.parseExpression()
	if err != nil {
		t.Fatalf("parseExpression(%s) error: %v", src, err)
	}
	return expr
}

func mustParse(t *testing.T, src string) *Root {
	t.Helper()
	root, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse error: %v\nsource:\n%s", err, src)
	}
	return root
}

func asArith(t *testing.T, e *Expression) *Arithmetic {
	t.Helper()
	a, ok := e.Primary.(*Arithmetic)
	if !ok {
		t.Fatalf("want Arithmetic primary, got %T (%s)", e.Primary, e)
	}
	return a
}

func Test_Parser_Expression_Precedence(t *testing.T) {
	// [1]+[2]*[3] is + of [1] and * of [2] and [3]
	e := parseExprSrc(t, "[1]+[2]*[3]")
	add := asArith(t, e)
	if add.Op != OpAdd {
		t.Fatalf("root op: want +, got %v", add.Op)
	}
	mul := asArith(t, add.Right)
	if mul.Op != OpMul {
		t.Fatalf("right op: want *, got %v", mul.Op)
	}
	if got := e.String(); got != "([1] + ([2] * [3]))" {
		t.Fatalf("tree shape: %s", got)
	}
}

func Test_Parser_Expression_Parenthesisation(t *testing.T) {
	e := parseExprSrc(t, "([1]+[2])*[3]")
	mul := asArith(t, e)
	if mul.Op != OpMul {
		t.Fatalf("root op: want *, got %v", mul.Op)
	}
	if got := e.String(); got != "(([1] + [2]) * [3])" {
		t.Fatalf("tree shape: %s", got)
	}
}

func Test_Parser_Expression_LeftAssociative(t *testing.T) {
	e := parseExprSrc(t, "[1]-[2]+[3]")
	if got := e.String(); got != "(([1] - [2]) + [3])" {
		t.Fatalf("tree shape: %s", got)
	}
}

func Test_Parser_Postfix_BindsTighterThanArithmetic(t *testing.T) {
	// a[0]+b parses as (a[0])+b, not a[0+b]
	e := parseExprSrc(t, "a[0]+b")
	add := asArith(t, e)
	left, ok := add.Left.Primary.(*ArrayNode)
	if !ok || left.Kind != ArrayRef || left.Ref != "a" {
		t.Fatalf("left primary: want ref a, got %v", add.Left)
	}
	if len(add.Left.Postfix) != 1 {
		t.Fatalf("want 1 postfix op on a, got %d", len(add.Left.Postfix))
	}
	right, ok := add.Right.Primary.(*ArrayNode)
	if !ok || right.Ref != "b" {
		t.Fatalf("right primary: want ref b, got %v", add.Right)
	}
}

func Test_Parser_RangeSugar_IntIndex(t *testing.T) {
	// a[2] is sugar for a[2:3]
	e := parseExprSrc(t, "a[2]")
	r, ok := e.Postfix[0].(*ArrayRange)
	if !ok {
		t.Fatalf("want ArrayRange, got %T", e.Postfix[0])
	}
	if r.Start == nil || r.Start.Lit == nil || *r.Start.Lit != 2 {
		t.Fatalf("start: want 2, got %s", r.Start)
	}
	if r.End == nil || r.End.Lit == nil || *r.End.Lit != 3 {
		t.Fatalf("end: want 3, got %s", r.End)
	}
}

func Test_Parser_RangeSugar_ExpressionIndex(t *testing.T) {
	// a[i] with an expression index desugars to a[i : i+[1]]
	e := parseExprSrc(t, "a[i]")
	r := e.Postfix[0].(*ArrayRange)
	if r.Start == nil || r.Start.Expr == nil {
		t.Fatalf("start: want expression, got %s", r.Start)
	}
	if r.End == nil || r.End.Expr == nil {
		t.Fatalf("end: want expression, got %s", r.End)
	}
	if got := r.End.Expr.String(); got != "(i + [1])" {
		t.Fatalf("end expression: want (i + [1]), got %s", got)
	}
}

func Test_Parser_Range_OpenBounds(t *testing.T) {
	cases := []struct {
		src        string
		start, end bool // bound present
	}{
		{"a[:]", false, false},
		{"a[1:]", true, false},
		{"a[:2]", false, true},
		{"a[1:2]", true, true},
	}
	for _, c := range cases {
		e := parseExprSrc(t, c.src)
		r := e.Postfix[0].(*ArrayRange)
		if (r.Start != nil) != c.start || (r.End != nil) != c.end {
			t.Fatalf("%s: bounds presence start=%v end=%v", c.src, r.Start != nil, r.End != nil)
		}
	}
}

func Test_Parser_MethodChain(t *testing.T) {
	e := parseExprSrc(t, "a.append([1]).size()")
	if len(e.Postfix) != 2 {
		t.Fatalf("want 2 postfix ops, got %d", len(e.Postfix))
	}
	m1 := e.Postfix[0].(*MethodCall)
	m2 := e.Postfix[1].(*MethodCall)
	if m1.Name != "append" || len(m1.Args) != 1 || m2.Name != "size" || len(m2.Args) != 0 {
		t.Fatalf("method chain: %s", e)
	}
}

func Test_Parser_StringLiteral_IsByteArray(t *testing.T) {
	e := parseExprSrc(t, `"hi"`)
	n := e.Primary.(*ArrayNode)
	if n.Kind != ArrayInts || len(n.Ints) != 2 || n.Ints[0] != 'h' || n.Ints[1] != 'i' {
		t.Fatalf("string literal payload: %v", n.Ints)
	}
}

func Test_Parser_Expression_IntLiteralOutsideArray(t *testing.T) {
	tokens, err := Tokenize("1+[2]")
	if err != nil {
		t.Fatalf("Tokenize error: %v", err)
	}
	p := &parser{toks: tokens}
	if _, err := p.parseExpression(); err == nil {
		t.Fatalf("expected error for bare int literal in expression")
	}
}

func Test_Parser_NegativeLiteralPitfall(t *testing.T) {
	// x-1 lexes as IDENT(x), INT_LIT(-1), and a bare int literal can
	// never appear in an expression: subtraction needs a wrapped
	// operand, as in x - [1].
	tokens, err := Tokenize("x-1")
	if err != nil {
		t.Fatalf("Tokenize error: %v", err)
	}
	p := &parser{toks: tokens}
	if _, err := p.parseExpression(); err == nil {
		t.Fatalf("x-1 must not parse as subtraction")
	}
	e := parseExprSrc(t, "x - [1]")
	if asArith(t, e).Op != OpSub {
		t.Fatalf("x - [1] must parse as subtraction")
	}
}

func Test_Parser_Expression_UnclosedParen(t *testing.T) {
	// A ')' at depth zero merely ends the expression (calls rely on
	// that), but an unclosed '(' is an error, as is an empty group.
	for _, src := range []string{"([1]+[2]", "()"} {
		tokens, err := Tokenize(src)
		if err != nil {
			t.Fatalf("Tokenize error: %v", err)
		}
		p := &parser{toks: tokens}
		if _, err := p.parseExpression(); err == nil {
			t.Fatalf("%s: expected parse error", src)
		}
	}
}

func Test_Parser_Postfix_OnParenthesizedGroup(t *testing.T) {
	e := parseExprSrc(t, "(x+y).append([10])")
	if _, ok := e.Primary.(*Arithmetic); !ok {
		t.Fatalf("want Arithmetic primary, got %T", e.Primary)
	}
	if len(e.Postfix) != 1 {
		t.Fatalf("want the method bound to the group, got %d postfix ops", len(e.Postfix))
	}
	if m := e.Postfix[0].(*MethodCall); m.Name != "append" {
		t.Fatalf("postfix: %s", m)
	}
}

func Test_Parser_FunctionDefinition_Descriptors(t *testing.T) {
	root := mustParse(t, `fn f(a: [5], b: [+], c: [5+], d: []) -> [1] { return [0]; }`)
	fn := root.Items[0].(*FunctionDefinition)
	if fn.Name != "f" || len(fn.Params) != 4 {
		t.Fatalf("definition: %s", fn)
	}
	cases := []struct {
		size *int
		grow bool
	}{
		{intp(5), false}, {nil, true}, {intp(5), true}, {nil, false},
	}
	for i, want := range cases {
		d := fn.Params[i].Descriptor
		if (d.Size == nil) != (want.size == nil) || d.CanGrow != want.grow {
			t.Fatalf("param %d descriptor: got %s", i, d)
		}
		if d.Size != nil && *d.Size != *want.size {
			t.Fatalf("param %d size: got %d", i, *d.Size)
		}
	}
	if fn.Output.Size == nil || *fn.Output.Size != 1 {
		t.Fatalf("output descriptor: %s", fn.Output)
	}
}

func intp(n int) *int { return &n }

func Test_Parser_If_ElseIf_Else(t *testing.T) {
	root := mustParse(t, `
fn f(n: [1]) -> [1] {
    if n < [0] { return [0]; }
    else if n == [0] { return [1]; }
    else { return [2]; }
}`)
	fn := root.Items[0].(*FunctionDefinition)
	ifStmt := fn.Body.Statements[0].(*If)
	if ifStmt.ElseIf == nil {
		t.Fatalf("missing else-if branch")
	}
	if ifStmt.ElseIf.Else == nil {
		t.Fatalf("missing else branch on the chained if")
	}
	cmp := ifStmt.Cond.(*IfCompare)
	if cmp.Op != CmpLT {
		t.Fatalf("first condition op: %v", cmp.Op)
	}
	if ifStmt.ElseIf.Cond.(*IfCompare).Op != CmpEQ {
		t.Fatalf("second condition op")
	}
}

func Test_Parser_ComparisonOperators(t *testing.T) {
	ops := []struct {
		src  string
		want CompareOp
	}{
		{"==", CmpEQ}, {"!=", CmpNE}, {"<", CmpLT}, {"<=", CmpLE}, {">", CmpGT}, {">=", CmpGE},
	}
	for _, c := range ops {
		root := mustParse(t, "fn f(a: [1]) -> [] { if a "+c.src+" [1] { } }")
		cond := root.Items[0].(*FunctionDefinition).Body.Statements[0].(*If).Cond.(*IfCompare)
		if cond.Op != c.want {
			t.Fatalf("%s: want %v, got %v", c.src, c.want, cond.Op)
		}
	}
}

func Test_Parser_IfDeclaration_Condition(t *testing.T) {
	root := mustParse(t, `fn f(a: [+]) -> [] { if let b: [2] = a { print(b); } }`)
	cond := root.Items[0].(*FunctionDefinition).Body.Statements[0].(*If).Cond
	decl, ok := cond.(*IfDeclaration)
	if !ok {
		t.Fatalf("want IfDeclaration, got %T", cond)
	}
	if decl.Decl.Name != "b" || decl.Decl.Init == nil {
		t.Fatalf("declaration condition: %s", decl.Decl)
	}
}

func Test_Parser_While_And_For(t *testing.T) {
	root := mustParse(t, `
fn f(n: [1]) -> [] {
    while n < [5] { n = n + [1]; }
    for e : range(n) { print(e); }
}`)
	body := root.Items[0].(*FunctionDefinition).Body
	if _, ok := body.Statements[0].(*While); !ok {
		t.Fatalf("want While, got %T", body.Statements[0])
	}
	loop, ok := body.Statements[1].(*ForLoop)
	if !ok {
		t.Fatalf("want ForLoop, got %T", body.Statements[1])
	}
	if loop.Element != "e" {
		t.Fatalf("for element: %s", loop.Element)
	}
}

func Test_Parser_Use_Forms(t *testing.T) {
	root := mustParse(t, "use <io>\nuse \"lib.ints\"\n")
	u1 := root.Items[0].(*Use)
	u2 := root.Items[1].(*Use)
	if u1.Kind != UseStandardHeader || string(valueBytes(u1.Payload.Ints)) != "io" {
		t.Fatalf("standard header use: %s", u1)
	}
	if u2.Kind != UsePath || string(valueBytes(u2.Payload.Ints)) != "lib.ints" {
		t.Fatalf("path use: %s", u2)
	}
}

func valueBytes(ints []int) []byte {
	out := make([]byte, len(ints))
	for i, v := range ints {
		out[i] = byte(v)
	}
	return out
}

func Test_Parser_Root_StatementsRequireSemicolon(t *testing.T) {
	_, err := Parse("let x: [1] = [1]")
	var eof *UnexpectedEOFError
	if !errors.As(err, &eof) {
		t.Fatalf("want UnexpectedEOFError for missing semicolon, got %v", err)
	}
}

func Test_Parser_Root_RejectsNonIdentifier(t *testing.T) {
	_, err := Parse("[1];")
	var tok *UnexpectedTokenError
	if !errors.As(err, &tok) {
		t.Fatalf("want UnexpectedTokenError, got %v", err)
	}
	if !strings.Contains(tok.Error(), "let, use, or fn") {
		t.Fatalf("error should name the root alternatives: %v", tok)
	}
}

func Test_Parser_ArrayLiteral_NegativeAndEmpty(t *testing.T) {
	e := parseExprSrc(t, "[-1, 2, -3]")
	n := e.Primary.(*ArrayNode)
	if len(n.Ints) != 3 || n.Ints[0] != -1 || n.Ints[2] != -3 {
		t.Fatalf("literal payload: %v", n.Ints)
	}
	e = parseExprSrc(t, "[]")
	if n := e.Primary.(*ArrayNode); len(n.Ints) != 0 {
		t.Fatalf("empty literal payload: %v", n.Ints)
	}
}

func Test_Parser_CallPayload_InExpression(t *testing.T) {
	// A trailing ';' stops the expression; a call must not sit at EOF.
	e := parseExprSrc(t, "f([1]) + g();")
	add := asArith(t, e)
	left := add.Left.Primary.(*ArrayNode)
	if left.Kind != ArrayCall || left.Call.Name != "f" || len(left.Call.Args) != 1 {
		t.Fatalf("left call payload: %s", add.Left)
	}
	right := add.Right.Primary.(*ArrayNode)
	if right.Kind != ArrayCall || right.Call.Name != "g" || len(right.Call.Args) != 0 {
		t.Fatalf("right call payload: %s", add.Right)
	}
}

func Test_Parser_Roundtrip_String(t *testing.T) {
	src := `fn fact(n: [1]) -> [1] { if n <= [1] { return [1]; } return fact(n - [1]) * n; }`
	root := mustParse(t, src)
	// The printed tree must re-parse to the same shape.
	again := mustParse(t, root.String())
	if root.String() != again.String() {
		t.Fatalf("stringification is not stable:\n%s\n%s", root.String(), again.String())
	}
}
