// scope.go — lexically nested name bindings.
//
// A Scope maps names to values or function definitions and holds a
// non-owning reference to its parent. Scopes are created per call
// frame, per if/while body, per for iteration, and once at the top
// level; Go's garbage collector handles the lifetime, so the chain
// stays cycle-free by construction (children point up, never down).
package ints

// binding is a value slot or a function-reference slot; exactly one
// field is set.
type binding struct {
	value *Value
	fn    *FunctionDefinition
}

type Scope struct {
	parent   *Scope
	bindings map[string]binding
}

// NewScope creates a scope whose lookups fall through to parent.
// parent may be nil for the top level.
func NewScope(parent *Scope) *Scope {
	return &Scope{parent: parent, bindings: map[string]binding{}}
}

// lookup finds the nearest binding for name, walking outward.
func (s *Scope) lookup(name string) (binding, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if b, ok := cur.bindings[name]; ok {
			return b, true
		}
	}
	return binding{}, false
}

// DefineValue introduces a value binding in this scope, shadowing any
// outer binding of the same name.
func (s *Scope) DefineValue(name string, v Value) {
	s.bindings[name] = binding{value: &v}
}

// DefineFunction introduces a function binding in this scope.
func (s *Scope) DefineFunction(name string, fn *FunctionDefinition) {
	s.bindings[name] = binding{fn: fn}
}

// Value resolves name to an array value. Names bound to functions are
// not values.
func (s *Scope) Value(name string) (*Value, error) {
	b, ok := s.lookup(name)
	if !ok {
		return nil, runtimeErrorf("undefined variable: %s", name)
	}
	if b.value == nil {
		return nil, runtimeErrorf("cannot use %s as an array, as it is defined as a function", name)
	}
	return b.value, nil
}

// Function resolves name to a function definition if one is bound
// anywhere in the chain.
func (s *Scope) Function(name string) (*FunctionDefinition, bool) {
	b, ok := s.lookup(name)
	if !ok || b.fn == nil {
		return nil, false
	}
	return b.fn, true
}

// Assign writes source into the nearest existing binding for name
// under the value assignment rules.
func (s *Scope) Assign(name string, source Value) error {
	for cur := s; cur != nil; cur = cur.parent {
		if b, ok := cur.bindings[name]; ok {
			if b.value == nil {
				return runtimeErrorf("cannot assign to %s, as it is defined as a function", name)
			}
			return b.value.Assign(source)
		}
	}
	return runtimeErrorf("%s has not been defined", name)
}
