// File: eval.go
// Role: Three-valued (0, 1, X) evaluation of gate operators.
// Soundness:
//   - A determined result is returned only when every concretization of the
//     X inputs yields that same result; otherwise the result is X.

package netlist

// Value is a ternary logic value.
type Value uint8

const (
	// X is the unknown (or don't-care) value.
	X Value = iota
	// Zero is logic 0.
	Zero
	// One is logic 1.
	One
)

// String implements fmt.Stringer.
func (v Value) String() string {
	switch v {
	case Zero:
		return "0"
	case One:
		return "1"
	}
	return "x"
}

// Not returns the ternary complement.
func (v Value) Not() Value {
	switch v {
	case Zero:
		return One
	case One:
		return Zero
	}
	return X
}

// Bool converts a Boolean into a ternary value.
func Bool(b bool) Value {
	if b {
		return One
	}
	return Zero
}

// Evaluator computes a node's output from the ternary values of its fanins,
// given in fanin order.
type Evaluator interface {
	Eval(n *Network, id ID, ins []Value) Value
}

// TernaryEvaluator evaluates gates by their Op. Non-gate nodes pass their
// first input through (X when they have none).
type TernaryEvaluator struct{}

// Eval implements Evaluator.
func (TernaryEvaluator) Eval(n *Network, id ID, ins []Value) Value {
	if n.Kind(id) != KindGate {
		if len(ins) == 0 {
			return X
		}
		return ins[0]
	}
	return Eval(n.Op(id), ins)
}

// Eval applies op to ternary inputs.
// Controlling values dominate: a single 0 forces AND to 0 and a single 1
// forces OR to 1 regardless of X on the other inputs.
// Complexity: O(len(ins)).
func Eval(op Op, ins []Value) Value {
	switch op {
	case OpConst0:
		return Zero
	case OpConst1:
		return One
	case OpBuf:
		return first(ins)
	case OpNot:
		return first(ins).Not()
	case OpAnd:
		return evalAnd(ins)
	case OpNand:
		return evalAnd(ins).Not()
	case OpOr:
		return evalOr(ins)
	case OpNor:
		return evalOr(ins).Not()
	case OpXor:
		return evalXor(ins)
	case OpXnor:
		return evalXor(ins).Not()
	}
	return X
}

func first(ins []Value) Value {
	if len(ins) == 0 {
		return X
	}
	return ins[0]
}

func evalAnd(ins []Value) Value {
	out := One
	for _, v := range ins {
		switch v {
		case Zero:
			return Zero
		case X:
			out = X
		}
	}
	return out
}

func evalOr(ins []Value) Value {
	out := Zero
	for _, v := range ins {
		switch v {
		case One:
			return One
		case X:
			out = X
		}
	}
	return out
}

func evalXor(ins []Value) Value {
	parity := false
	for _, v := range ins {
		switch v {
		case X:
			return X
		case One:
			parity = !parity
		}
	}
	return Bool(parity)
}
