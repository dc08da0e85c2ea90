// value.go — the ints runtime value model.
//
// Every value is an array of machine integers with a declared minimum
// length. Fixed storage is exactly its minimum long and cannot change
// length; growable storage is at least its minimum long and may extend
// on assignment. Arithmetic and comparison are element-wise over
// equal-length operands.
package ints

import (
	"math"
	"strconv"
	"strings"
)

// Value is an integer-array runtime value.
type Value struct {
	elems    []int
	minimum  int
	growable bool
}

// NewFixedValue builds a fixed value owning a copy of elems; the
// minimum is the length.
func NewFixedValue(elems []int) Value {
	return Value{elems: cloneInts(elems), minimum: len(elems)}
}

// NewGrowableValue builds an empty growable value with the given
// declared minimum and reserved capacity.
func NewGrowableValue(minimum, capacity int) Value {
	return Value{elems: make([]int, 0, capacity), minimum: minimum, growable: true}
}

// EmptyValue is the zero-length fixed value returned by functions that
// do not hit a return statement.
func EmptyValue() Value { return Value{} }

func cloneInts(xs []int) []int {
	out := make([]int, len(xs))
	copy(out, xs)
	return out
}

// Size is the current element count.
func (v Value) Size() int { return len(v.elems) }

// Minimum is the declared minimum length.
func (v Value) Minimum() int { return v.minimum }

// Growable reports whether the storage may extend on assignment.
func (v Value) Growable() bool { return v.growable }

// At returns element i.
func (v Value) At(i int) int { return v.elems[i] }

// Elems returns a copy of the storage.
func (v Value) Elems() []int { return cloneInts(v.elems) }

// Bytes renders the value as raw bytes, each element taken mod 256.
// This is the wire form used by print and by use-path decoding.
func (v Value) Bytes() []byte {
	out := make([]byte, len(v.elems))
	for i, e := range v.elems {
		out[i] = byte(e)
	}
	return out
}

func (v Value) String() string {
	parts := make([]string, len(v.elems))
	for i, e := range v.elems {
		parts[i] = strconv.Itoa(e)
	}
	return "[ " + strings.Join(parts, ", ") + " ]"
}

// FromDescriptor constructs a freshly-sized value from a descriptor
// and an optional initial value.
func FromDescriptor(desc ArrayDescriptor, init *Value) (Value, error) {
	if desc.CanGrow {
		capacity := 0
		minimum := 0
		if desc.Size != nil {
			capacity = *desc.Size
			minimum = *desc.Size
		}
		result := NewGrowableValue(minimum, capacity)
		if init != nil {
			if err := result.Assign(*init); err != nil {
				return Value{}, err
			}
		}
		return result, nil
	}
	if desc.Size != nil {
		result := Value{elems: make([]int, *desc.Size), minimum: *desc.Size}
		if init != nil {
			if err := result.Assign(*init); err != nil {
				return Value{}, err
			}
		}
		return result, nil
	}
	if init == nil {
		return Value{}, runtimeErrorf("static array cannot be defined without a value")
	}
	return NewFixedValue(init.elems), nil
}

// Assign copies source into v under the storage rules: a growable
// target requires its minimum not exceed the source length and takes
// the source's length; a fixed target requires the lengths to match
// exactly.
func (v *Value) Assign(source Value) error {
	if v.growable {
		if v.minimum > source.Size() {
			return runtimeErrorf(
				"cannot set value: destination minimum (%d) is larger than the source's length (%d)",
				v.minimum, source.Size())
		}
		v.elems = append(v.elems[:0], source.elems...)
		return nil
	}
	if len(v.elems) != source.Size() {
		return runtimeErrorf(
			"cannot set value: destination length (%d) is not equal to the source's length (%d)",
			len(v.elems), source.Size())
	}
	copy(v.elems, source.elems)
	return nil
}

// Append returns the concatenation of v and other as a fresh fixed
// value.
func (v Value) Append(other Value) Value {
	out := make([]int, 0, len(v.elems)+len(other.elems))
	out = append(out, v.elems...)
	out = append(out, other.elems...)
	return Value{elems: out, minimum: len(out)}
}

// Sqrt returns a value of the same length with each element replaced
// by the integer truncation of its real square root.
func (v Value) Sqrt() (Value, error) {
	out := make([]int, len(v.elems))
	for i, e := range v.elems {
		if e < 0 {
			return Value{}, runtimeErrorf("cannot take the square root of negative value %d", e)
		}
		out[i] = int(math.Sqrt(float64(e)))
	}
	return Value{elems: out, minimum: len(out)}, nil
}

// Slice returns value[start:end] as a fresh fixed value. Bounds must
// satisfy start <= end <= Size.
func (v Value) Slice(start, end int) (Value, error) {
	if end < start {
		return Value{}, runtimeErrorf(
			"array range upper bound must be greater than or equal to the lower bound")
	}
	if end > len(v.elems) {
		return Value{}, runtimeErrorf(
			"array range bounds must not exceed the length of the array")
	}
	return NewFixedValue(v.elems[start:end]), nil
}

func (v Value) sameSize(other Value) bool { return len(v.elems) == len(other.elems) }

func (v Value) arith(other Value, op ArithOp) (Value, error) {
	if !v.sameSize(other) {
		return Value{}, runtimeErrorf("cannot %s arrays with different sizes (%d and %d)",
			arithVerb(op), len(v.elems), len(other.elems))
	}
	out := make([]int, len(v.elems))
	for i := range v.elems {
		a, b := v.elems[i], other.elems[i]
		switch op {
		case OpAdd:
			out[i] = a + b
		case OpSub:
			out[i] = a - b
		case OpMul:
			out[i] = a * b
		case OpDiv:
			if b == 0 {
				return Value{}, runtimeErrorf("division by zero at index %d", i)
			}
			out[i] = a / b
		}
	}
	return Value{elems: out, minimum: len(out)}, nil
}

func arithVerb(op ArithOp) string {
	switch op {
	case OpAdd:
		return "add"
	case OpSub:
		return "subtract"
	case OpMul:
		return "multiply"
	default:
		return "divide"
	}
}

// Add returns the element-wise sum; operand lengths must match.
func (v Value) Add(other Value) (Value, error) { return v.arith(other, OpAdd) }

// Sub returns the element-wise difference; operand lengths must match.
func (v Value) Sub(other Value) (Value, error) { return v.arith(other, OpSub) }

// Mul returns the element-wise product; operand lengths must match.
func (v Value) Mul(other Value) (Value, error) { return v.arith(other, OpMul) }

// Div returns the element-wise quotient truncated toward zero; operand
// lengths must match and no divisor may be zero.
func (v Value) Div(other Value) (Value, error) { return v.arith(other, OpDiv) }

func (v Value) equal(other Value) bool {
	if !v.sameSize(other) {
		return false
	}
	for i := range v.elems {
		if v.elems[i] != other.elems[i] {
			return false
		}
	}
	return true
}

// Compare evaluates v op other. Equality is element-wise; the ordering
// operators hold only when the relation holds at every index. Values
// of different lengths are unequal: != is true and every other
// operator is false.
func (v Value) Compare(op CompareOp, other Value) bool {
	if op == CmpEQ {
		return v.equal(other)
	}
	if op == CmpNE {
		return !v.equal(other)
	}
	if !v.sameSize(other) {
		return false
	}
	for i := range v.elems {
		a, b := v.elems[i], other.elems[i]
		var ok bool
		switch op {
		case CmpLT:
			ok = a < b
		case CmpLE:
			ok = a <= b
		case CmpGT:
			ok = a > b
		case CmpGE:
			ok = a >= b
		}
		if !ok {
			return false
		}
	}
	return true
}
