// interpreter_exec.go — the statement and expression tree walker.
//
// Statement evaluation threads a *Value return signal: nil means
// normal completion, non-nil means a return statement is unwinding to
// the nearest call frame. Every error is an explicit error return;
// there is no panic-based control flow.
package ints

// evalBody runs statements in order until one produces a return
// signal.
func (ip *Interpreter) evalBody(body *Body, sc *Scope) (*Value, error) {
	for _, stmt := range body.Statements {
		ret, err := ip.evalStatement(stmt, sc)
		if err != nil {
			return nil, err
		}
		if ret != nil {
			return ret, nil
		}
	}
	return nil, nil
}

func (ip *Interpreter) evalStatement(stmt Statement, sc *Scope) (*Value, error) {
	switch v := stmt.(type) {
	case *VariableDeclaration:
		return nil, ip.evalDeclaration(v, sc)
	case *VariableAssignment:
		return nil, ip.evalAssignment(v, sc)
	case *FunctionCall:
		_, err := ip.callFunction(v, sc)
		return nil, err
	case *Return:
		result, err := ip.evalExpression(v.Value, sc)
		if err != nil {
			return nil, err
		}
		return &result, nil
	case *If:
		ret, _, err := ip.evalIf(v, sc)
		return ret, err
	case *While:
		return ip.evalWhile(v, sc)
	case *ForLoop:
		return ip.evalFor(v, sc)
	default:
		return nil, runtimeErrorf("unhandled statement kind")
	}
}

// ---- declarations and assignment ----

func (ip *Interpreter) evalDeclaration(decl *VariableDeclaration, sc *Scope) error {
	var init *Value
	if decl.Init != nil {
		v, err := ip.evalExpression(decl.Init, sc)
		if err != nil {
			return err
		}
		init = &v
	}
	value, err := FromDescriptor(decl.Descriptor, init)
	if err != nil {
		return err
	}
	sc.DefineValue(decl.Name, value)
	return nil
}

func (ip *Interpreter) evalAssignment(assign *VariableAssignment, sc *Scope) error {
	value, err := ip.evalExpression(assign.Value, sc)
	if err != nil {
		return err
	}
	return sc.Assign(assign.Name, value)
}

// ---- control flow ----

func (ip *Interpreter) evalCondition(cond Condition, sc *Scope) (bool, error) {
	switch c := cond.(type) {
	case *IfCompare:
		left, err := ip.evalExpression(c.Left, sc)
		if err != nil {
			return false, err
		}
		right, err := ip.evalExpression(c.Right, sc)
		if err != nil {
			return false, err
		}
		return left.Compare(c.Op, right), nil
	case *IfDeclaration:
		return ip.evalIfDeclaration(c, sc)
	default:
		return false, runtimeErrorf("unhandled condition kind")
	}
}

// evalIfDeclaration performs a declaration used as a test. Without an
// initialiser the declaration always succeeds. With one, the test
// passes when the declared size matches the initialiser's length, or
// when the initialiser is longer and the descriptor can grow (an
// absent size counts as smaller than any length); only then is the
// binding introduced.
func (ip *Interpreter) evalIfDeclaration(c *IfDeclaration, sc *Scope) (bool, error) {
	decl := c.Decl
	if decl.Init == nil {
		return true, ip.evalDeclaration(decl, sc)
	}
	init, err := ip.evalExpression(decl.Init, sc)
	if err != nil {
		return false, err
	}
	desc := decl.Descriptor
	n := init.Size()
	sizeMatches := desc.Size != nil && *desc.Size == n
	sizeBelow := desc.Size == nil || *desc.Size < n
	if sizeMatches || (sizeBelow && desc.CanGrow) {
		value, err := FromDescriptor(desc, &init)
		if err != nil {
			return false, err
		}
		sc.DefineValue(decl.Name, value)
		return true, nil
	}
	return false, nil
}

// evalIf evaluates an if chain. The bool reports whether any branch
// ran, which lets nested else-if chains fall through to an outer else.
func (ip *Interpreter) evalIf(node *If, parent *Scope) (*Value, bool, error) {
	sc := NewScope(parent)
	ok, err := ip.evalCondition(node.Cond, sc)
	if err != nil {
		return nil, false, err
	}
	if ok {
		ret, err := ip.evalBody(node.Then, sc)
		return ret, true, err
	}
	if node.ElseIf != nil {
		ret, handled, err := ip.evalIf(node.ElseIf, sc)
		if err != nil || handled {
			return ret, handled, err
		}
	}
	if node.Else != nil {
		ret, err := ip.evalBody(node.Else, sc)
		return ret, true, err
	}
	return nil, false, nil
}

// evalWhile runs the condition and body in a fresh child scope each
// iteration, so an if-declaration condition rebinds cleanly every
// time around.
func (ip *Interpreter) evalWhile(node *While, parent *Scope) (*Value, error) {
	for {
		sc := NewScope(parent)
		ok, err := ip.evalCondition(node.Cond, sc)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, nil
		}
		ret, err := ip.evalBody(node.Body, sc)
		if err != nil {
			return nil, err
		}
		if ret != nil {
			return ret, nil
		}
	}
}

// evalFor evaluates the iterable once, then binds each element as a
// fresh length-1 value in a fresh child scope.
func (ip *Interpreter) evalFor(node *ForLoop, parent *Scope) (*Value, error) {
	iterable, err := ip.evalExpression(node.Iterable, parent)
	if err != nil {
		return nil, err
	}
	for i := 0; i < iterable.Size(); i++ {
		sc := NewScope(parent)
		sc.DefineValue(node.Element, NewFixedValue([]int{iterable.At(i)}))
		ret, err := ip.evalBody(node.Body, sc)
		if err != nil {
			return nil, err
		}
		if ret != nil {
			return ret, nil
		}
	}
	return nil, nil
}

// ---- expressions ----

func (ip *Interpreter) evalExpression(expr *Expression, sc *Scope) (Value, error) {
	var value Value
	var err error
	switch p := expr.Primary.(type) {
	case *Arithmetic:
		value, err = ip.evalArithmetic(p, sc)
	case *ArrayNode:
		value, err = ip.evalArrayNode(p, sc)
	default:
		err = runtimeErrorf("unhandled expression primary")
	}
	if err != nil {
		return Value{}, err
	}
	return ip.applyPostfix(value, expr.Postfix, sc)
}

func (ip *Interpreter) evalArithmetic(node *Arithmetic, sc *Scope) (Value, error) {
	left, err := ip.evalExpression(node.Left, sc)
	if err != nil {
		return Value{}, err
	}
	right, err := ip.evalExpression(node.Right, sc)
	if err != nil {
		return Value{}, err
	}
	return left.arith(right, node.Op)
}

func (ip *Interpreter) evalArrayNode(node *ArrayNode, sc *Scope) (Value, error) {
	switch node.Kind {
	case ArrayInts:
		return NewFixedValue(node.Ints), nil
	case ArrayRef:
		v, err := sc.Value(node.Ref)
		if err != nil {
			return Value{}, err
		}
		// Reads snapshot the binding; a later assignment to the name
		// must not mutate a value already captured (e.g. a for-loop
		// iterable).
		return Value{elems: cloneInts(v.elems), minimum: v.minimum, growable: v.growable}, nil
	case ArrayCall:
		return ip.callFunction(node.Call, sc)
	default:
		return Value{}, runtimeErrorf("unhandled array payload kind")
	}
}

// applyPostfix threads the value through the range and method chain
// left-to-right.
func (ip *Interpreter) applyPostfix(value Value, ops []PostfixOp, sc *Scope) (Value, error) {
	var err error
	for _, op := range ops {
		switch v := op.(type) {
		case *ArrayRange:
			value, err = ip.applyRange(value, v, sc)
		case *MethodCall:
			value, err = ip.applyMethod(value, v, sc)
		}
		if err != nil {
			return Value{}, err
		}
	}
	return value, nil
}

// rangeBound resolves one bound. Expression bounds must evaluate to a
// single non-negative element.
func (ip *Interpreter) rangeBound(bound *RangeBound, def int, sc *Scope) (int, error) {
	if bound == nil {
		return def, nil
	}
	if bound.Lit != nil {
		return *bound.Lit, nil
	}
	v, err := ip.evalExpression(bound.Expr, sc)
	if err != nil {
		return 0, err
	}
	if v.Size() != 1 || v.At(0) < 0 {
		return 0, runtimeErrorf(
			"array bound must be an integer or evaluate to an array with 1 non-negative value")
	}
	return v.At(0), nil
}

func (ip *Interpreter) applyRange(value Value, r *ArrayRange, sc *Scope) (Value, error) {
	start, err := ip.rangeBound(r.Start, 0, sc)
	if err != nil {
		return Value{}, err
	}
	end, err := ip.rangeBound(r.End, value.Size(), sc)
	if err != nil {
		return Value{}, err
	}
	return value.Slice(start, end)
}

func (ip *Interpreter) applyMethod(value Value, method *MethodCall, sc *Scope) (Value, error) {
	args, err := ip.evalExpressions(method.Args, sc)
	if err != nil {
		return Value{}, err
	}
	switch method.Name {
	case "append":
		if len(args) != 1 {
			return Value{}, runtimeErrorf("append expects 1 argument but received %d", len(args))
		}
		return value.Append(args[0]), nil
	case "sqrt":
		if len(args) != 0 {
			return Value{}, runtimeErrorf("sqrt expects 0 arguments but received %d", len(args))
		}
		return value.Sqrt()
	case "size":
		if len(args) != 0 {
			return Value{}, runtimeErrorf("size expects 0 arguments but received %d", len(args))
		}
		return NewFixedValue([]int{value.Size()}), nil
	default:
		return Value{}, runtimeErrorf("unknown method %s", method.Name)
	}
}

func (ip *Interpreter) evalExpressions(exprs []*Expression, sc *Scope) ([]Value, error) {
	out := make([]Value, 0, len(exprs))
	for _, e := range exprs {
		v, err := ip.evalExpression(e, sc)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// ---- calls ----

// callFunction resolves a call: a scope binding to a function wins,
// then the builtins. A name bound to a value is not callable.
func (ip *Interpreter) callFunction(call *FunctionCall, sc *Scope) (Value, error) {
	if b, ok := sc.lookup(call.Name); ok {
		if b.fn == nil {
			return Value{}, runtimeErrorf("%s must be defined as a function", call.Name)
		}
		return ip.callUserFunction(b.fn, call, sc)
	}
	if builtin, ok := builtins[call.Name]; ok {
		args, err := ip.evalExpressions(call.Args, sc)
		if err != nil {
			return Value{}, err
		}
		return builtin(ip, args)
	}
	return Value{}, runtimeErrorf("undefined function '%s'", call.Name)
}

// callUserFunction evaluates arguments in the caller's scope, then
// runs the body in a fresh frame parented on the top-level scope
// (functions are only defined at the root, so their enclosing scope is
// always the top level).
func (ip *Interpreter) callUserFunction(fn *FunctionDefinition, call *FunctionCall, caller *Scope) (Value, error) {
	args, err := ip.evalExpressions(call.Args, caller)
	if err != nil {
		return Value{}, err
	}
	if len(args) != len(fn.Params) {
		return Value{}, runtimeErrorf("function %s expected %d argument(s) but received %d",
			fn.Name, len(fn.Params), len(args))
	}
	frame := NewScope(ip.global)
	for i, param := range fn.Params {
		bound, err := FromDescriptor(param.Descriptor, &args[i])
		if err != nil {
			return Value{}, err
		}
		frame.DefineValue(param.Name, bound)
	}
	ret, err := ip.evalBody(fn.Body, frame)
	if err != nil {
		return Value{}, err
	}
	if ret != nil {
		return *ret, nil
	}
	return EmptyValue(), nil
}
