// File: types.go
// Role: Node identifiers, node kinds, gate operators, latch init values and the
//       Network container with its construction options and sentinel errors.
// Concurrency:
//   - A Network is not safe for concurrent mutation. Whoever holds a *Network
//     (for example a retiming session) owns exclusive access to it.

package netlist

import "github.com/pkg/errors"

// Sentinel errors for netlist operations.
var (
	// ErrNodeNotFound indicates an operation referenced a non-existent or deleted node.
	ErrNodeNotFound = errors.New("netlist: node not found")

	// ErrHasFanouts indicates DeleteNode was called on a node that still drives others.
	ErrHasFanouts = errors.New("netlist: node still has fanouts")

	// ErrFaninNotFound indicates PatchFanin/RemoveFanin referenced a missing fanin edge.
	ErrFaninNotFound = errors.New("netlist: fanin not found")

	// ErrNotLatch indicates a latch-only operation was applied to another kind of node.
	ErrNotLatch = errors.New("netlist: node is not a latch")

	// ErrCombLoop indicates a combinational cycle (a cycle not broken by a latch).
	ErrCombLoop = errors.New("netlist: combinational loop")

	// ErrInconsistent indicates a structural check failure; wrapped with details.
	ErrInconsistent = errors.New("netlist: inconsistent network")
)

// ID addresses a node inside its Network. IDs are dense, start at 1 and are
// never reused while the network lives; Renumber and Restrash compact them.
type ID int

// Nil is the zero ID; it never names a node.
const Nil ID = 0

// Kind classifies a node.
type Kind uint8

const (
	// KindNone marks a deleted slot.
	KindNone Kind = iota
	// KindPI is a primary input: no fanins.
	KindPI
	// KindPO is a primary output: exactly one fanin, no fanouts.
	KindPO
	// KindLatch is a clocked storage element bracketed by a BoxIn/BoxOut pair.
	KindLatch
	// KindGate is a combinational node evaluated with its Op.
	KindGate
	// KindBoxIn is the latch-boundary marker feeding a latch.
	KindBoxIn
	// KindBoxOut is the latch-boundary marker driven by a latch.
	KindBoxOut
	// KindBlackBox is an opaque box; retiming refuses networks containing one.
	KindBlackBox
)

var kindNames = [...]string{"none", "pi", "po", "latch", "gate", "bi", "bo", "box"}

// String implements fmt.Stringer.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Op is the Boolean function of a KindGate node.
type Op uint8

const (
	OpNone Op = iota
	OpConst0
	OpConst1
	OpBuf
	OpNot
	OpAnd
	OpOr
	OpNand
	OpNor
	OpXor
	OpXnor
)

var opNames = [...]string{"none", "const0", "const1", "buf", "not", "and", "or", "nand", "nor", "xor", "xnor"}

// String implements fmt.Stringer.
func (o Op) String() string {
	if int(o) < len(opNames) {
		return opNames[o]
	}
	return "unknown"
}

// ParseOp converts a lowercase operator name back into an Op.
func ParseOp(s string) (Op, bool) {
	for i, name := range opNames {
		if i > 0 && name == s {
			return Op(i), true
		}
	}
	return OpNone, false
}

// Arity returns the admissible fanin count range of the operator.
// max < 0 means unbounded.
func (o Op) Arity() (min, max int) {
	switch o {
	case OpConst0, OpConst1:
		return 0, 0
	case OpBuf, OpNot:
		return 1, 1
	case OpAnd, OpOr, OpNand, OpNor, OpXor, OpXnor:
		return 1, -1
	default:
		return 0, -1
	}
}

// Commutative reports whether fanin order is irrelevant for the operator.
func (o Op) Commutative() bool {
	switch o {
	case OpAnd, OpOr, OpNand, OpNor, OpXor, OpXnor:
		return true
	}
	return false
}

// Init is the reset value of a latch.
type Init uint8

const (
	// InitNone means no value has been assigned yet.
	InitNone Init = iota
	// InitZero resets the latch to 0.
	InitZero
	// InitOne resets the latch to 1.
	InitOne
	// InitDC means the reset value is a don't-care.
	InitDC
)

var initNames = [...]string{"none", "0", "1", "x"}

// String implements fmt.Stringer.
func (i Init) String() string {
	if int(i) < len(initNames) {
		return initNames[i]
	}
	return "?"
}

// Care reports whether the init value is a determined 0 or 1.
func (i Init) Care() bool { return i == InitZero || i == InitOne }

// Value returns the ternary simulation value of an init.
func (i Init) Value() Value {
	switch i {
	case InitZero:
		return Zero
	case InitOne:
		return One
	}
	return X
}

// InitOf converts a ternary value into a latch init (X becomes don't-care).
func InitOf(v Value) Init {
	switch v {
	case Zero:
		return InitZero
	case One:
		return InitOne
	}
	return InitDC
}

type node struct {
	kind    Kind
	op      Op
	init    Init
	name    string
	fanins  []ID
	fanouts []ID
}

// Network is an arena of nodes addressed by ID with ordered fanin lists and
// unordered fanout lists. Latches are always bracketed BoxIn -> Latch -> BoxOut
// once the network has been built with AddLatch.
type Network struct {
	name   string
	hashed bool

	nodes   []*node // nodes[id]; nodes[0] and deleted slots are nil
	pis     []ID    // creation order
	pos     []ID    // creation order
	latches []ID    // creation order
	live    int
}

// Option configures a Network at construction time.
type Option func(n *Network)

// WithName sets the network name.
func WithName(name string) Option {
	return func(n *Network) { n.name = name }
}

// WithHashing marks the network as structurally hashed: Restrash merges
// gates with identical operator and fanins.
func WithHashing() Option {
	return func(n *Network) { n.hashed = true }
}

// New creates an empty Network.
// Complexity: O(1).
func New(opts ...Option) *Network {
	n := &Network{nodes: make([]*node, 1, 64)}
	for _, opt := range opts {
		opt(n)
	}

	return n
}

// Name returns the network name.
func (n *Network) Name() string { return n.name }

// Hashed reports whether the network is structurally hashed.
func (n *Network) Hashed() bool { return n.hashed }
