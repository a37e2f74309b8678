// File: methods_nodes.go
// Role: Node lifecycle (create/delete), kind-based enumeration and accessors.
// Determinism:
//   - Nodes() enumerates live IDs in ascending order.
//   - PIs(), POs() and Latches() enumerate in creation (or renumbered) order.

package netlist

import (
	"github.com/pkg/errors"
)

func (n *Network) lookup(id ID) (*node, error) {
	if id <= Nil || int(id) >= len(n.nodes) || n.nodes[id] == nil {
		return nil, errors.Wrapf(ErrNodeNotFound, "id %d", id)
	}
	return n.nodes[id], nil
}

// must resolves id or panics; accessors use it because a dangling ID is a
// programming error on the caller side.
func (n *Network) must(id ID) *node {
	nd, err := n.lookup(id)
	if err != nil {
		panic(err)
	}
	return nd
}

// Has reports whether id names a live node.
func (n *Network) Has(id ID) bool {
	_, err := n.lookup(id)
	return err == nil
}

// Size returns one past the largest ID ever allocated. Use it to size side
// tables indexed by ID.
func (n *Network) Size() int { return len(n.nodes) }

// NumNodes returns the number of live nodes.
func (n *Network) NumNodes() int { return n.live }

// NumLatches returns the number of latches.
func (n *Network) NumLatches() int { return len(n.latches) }

// Kind returns the kind of a node.
func (n *Network) Kind(id ID) Kind { return n.must(id).kind }

// Op returns the gate operator of a node (OpNone for non-gates).
func (n *Network) Op(id ID) Op { return n.must(id).op }

// NodeName returns the optional user name of a node.
func (n *Network) NodeName(id ID) string { return n.must(id).name }

// SetNodeName assigns a user name to a node.
func (n *Network) SetNodeName(id ID, name string) { n.must(id).name = name }

// IsPI reports whether id is a primary input.
func (n *Network) IsPI(id ID) bool { return n.must(id).kind == KindPI }

// IsPO reports whether id is a primary output.
func (n *Network) IsPO(id ID) bool { return n.must(id).kind == KindPO }

// IsLatch reports whether id is a latch.
func (n *Network) IsLatch(id ID) bool { return n.must(id).kind == KindLatch }

// IsGate reports whether id is a combinational gate.
func (n *Network) IsGate(id ID) bool { return n.must(id).kind == KindGate }

// IsBoxIn reports whether id is a latch-boundary input marker.
func (n *Network) IsBoxIn(id ID) bool { return n.must(id).kind == KindBoxIn }

// IsBoxOut reports whether id is a latch-boundary output marker.
func (n *Network) IsBoxOut(id ID) bool { return n.must(id).kind == KindBoxOut }

// IsConst reports whether id is a constant-generating gate.
func (n *Network) IsConst(id ID) bool {
	nd := n.must(id)
	return nd.kind == KindGate && (nd.op == OpConst0 || nd.op == OpConst1)
}

// Delay returns the unit delay of a node: 1 for gates with at least one
// fanin, 0 for everything else (constants, boundary markers, I/O).
func (n *Network) Delay(id ID) int {
	nd := n.must(id)
	if nd.kind == KindGate && len(nd.fanins) > 0 {
		return 1
	}
	return 0
}

// Fanins returns the ordered fanin list. The slice must not be modified.
func (n *Network) Fanins(id ID) []ID { return n.must(id).fanins }

// Fanouts returns the fanout list. The slice must not be modified and is
// invalidated by any mutation; copy it before editing the network.
func (n *Network) Fanouts(id ID) []ID { return n.must(id).fanouts }

// NumFanins returns the number of fanin edges.
func (n *Network) NumFanins(id ID) int { return len(n.must(id).fanins) }

// NumFanouts returns the number of fanout edges.
func (n *Network) NumFanouts(id ID) int { return len(n.must(id).fanouts) }

// Fanin0 returns the first fanin or Nil.
func (n *Network) Fanin0(id ID) ID {
	if f := n.must(id).fanins; len(f) > 0 {
		return f[0]
	}
	return Nil
}

// Fanout0 returns the first fanout or Nil.
func (n *Network) Fanout0(id ID) ID {
	if f := n.must(id).fanouts; len(f) > 0 {
		return f[0]
	}
	return Nil
}

// LatchInit returns the reset value of a latch.
func (n *Network) LatchInit(id ID) Init { return n.must(id).init }

// SetLatchInit assigns the reset value of a latch.
func (n *Network) SetLatchInit(id ID, v Init) error {
	nd, err := n.lookup(id)
	if err != nil {
		return err
	}
	if nd.kind != KindLatch {
		return errors.Wrapf(ErrNotLatch, "id %d is %s", id, nd.kind)
	}
	nd.init = v
	return nil
}

// PIs returns the primary inputs in creation order.
func (n *Network) PIs() []ID { return append([]ID(nil), n.pis...) }

// POs returns the primary outputs in creation order.
func (n *Network) POs() []ID { return append([]ID(nil), n.pos...) }

// Latches returns the latches in creation order.
func (n *Network) Latches() []ID { return append([]ID(nil), n.latches...) }

// Nodes returns every live node ID in ascending order. The result is a
// snapshot, so the network may be edited while ranging over it.
func (n *Network) Nodes() []ID {
	out := make([]ID, 0, n.live)
	for i := 1; i < len(n.nodes); i++ {
		if n.nodes[i] != nil {
			out = append(out, ID(i))
		}
	}
	return out
}

// Gates returns every combinational gate in ascending ID order.
func (n *Network) Gates() []ID {
	out := make([]ID, 0, n.live)
	for i := 1; i < len(n.nodes); i++ {
		if nd := n.nodes[i]; nd != nil && nd.kind == KindGate {
			out = append(out, ID(i))
		}
	}
	return out
}

// HasOnlyLatchBoxes reports whether the network is free of opaque boxes.
func (n *Network) HasOnlyLatchBoxes() bool {
	for _, nd := range n.nodes {
		if nd != nil && nd.kind == KindBlackBox {
			return false
		}
	}
	return true
}

// CreateNode allocates a detached node of the given kind. Gate operators are
// set with op; other kinds ignore it.
// Complexity: amortized O(1).
func (n *Network) CreateNode(kind Kind, op Op) ID {
	nd := &node{kind: kind}
	if kind == KindGate {
		nd.op = op
	}
	id := ID(len(n.nodes))
	n.nodes = append(n.nodes, nd)
	n.live++
	switch kind {
	case KindPI:
		n.pis = append(n.pis, id)
	case KindPO:
		n.pos = append(n.pos, id)
	case KindLatch:
		n.latches = append(n.latches, id)
	}

	return id
}

// AddPI creates a named primary input.
func (n *Network) AddPI(name string) ID {
	id := n.CreateNode(KindPI, OpNone)
	n.nodes[id].name = name
	return id
}

// AddPO creates a named primary output driven by driver.
func (n *Network) AddPO(name string, driver ID) (ID, error) {
	if _, err := n.lookup(driver); err != nil {
		return Nil, err
	}
	id := n.CreateNode(KindPO, OpNone)
	n.nodes[id].name = name
	n.AddFanin(id, driver)

	return id, nil
}

// AddGate creates a gate computing op over fanins.
func (n *Network) AddGate(op Op, fanins ...ID) (ID, error) {
	for _, f := range fanins {
		if _, err := n.lookup(f); err != nil {
			return Nil, err
		}
	}
	id := n.CreateNode(KindGate, op)
	for _, f := range fanins {
		n.AddFanin(id, f)
	}

	return id, nil
}

// AddLatch creates the canonical BoxIn -> Latch -> BoxOut bracket with the
// given reset value and returns the latch. The BoxIn has no driver yet; use
// ConnectLatch. Other nodes read the latch through LatchOutput.
func (n *Network) AddLatch(init Init) ID {
	bi := n.CreateNode(KindBoxIn, OpNone)
	l := n.CreateNode(KindLatch, OpNone)
	bo := n.CreateNode(KindBoxOut, OpNone)
	n.nodes[l].init = init
	n.AddFanin(l, bi)
	n.AddFanin(bo, l)

	return l
}

// LatchOutput returns the BoxOut marker driven by latch l, or Nil.
func (n *Network) LatchOutput(l ID) ID {
	if out := n.Fanout0(l); out != Nil && n.Kind(out) == KindBoxOut {
		return out
	}
	return Nil
}

// LatchInput returns the BoxIn marker feeding latch l, or Nil.
func (n *Network) LatchInput(l ID) ID {
	if in := n.Fanin0(l); in != Nil && n.Kind(in) == KindBoxIn {
		return in
	}
	return Nil
}

// ConnectLatch makes driver the data input of latch l (through its BoxIn).
func (n *Network) ConnectLatch(l, driver ID) error {
	nd, err := n.lookup(l)
	if err != nil {
		return err
	}
	if nd.kind != KindLatch {
		return errors.Wrapf(ErrNotLatch, "id %d is %s", l, nd.kind)
	}
	if _, err = n.lookup(driver); err != nil {
		return err
	}
	bi := n.LatchInput(l)
	if bi == Nil {
		return errors.Wrapf(ErrInconsistent, "latch %d has no box input", l)
	}
	n.RemoveFanins(bi)
	n.AddFanin(bi, driver)

	return nil
}

// DeleteNode removes a node. The node must have no fanouts; its fanin edges
// are removed first.
func (n *Network) DeleteNode(id ID) error {
	nd, err := n.lookup(id)
	if err != nil {
		return err
	}
	if len(nd.fanouts) > 0 {
		return errors.Wrapf(ErrHasFanouts, "id %d (%s) drives %d nodes", id, nd.kind, len(nd.fanouts))
	}
	n.RemoveFanins(id)
	switch nd.kind {
	case KindPI:
		n.pis = removeOne(n.pis, id)
	case KindPO:
		n.pos = removeOne(n.pos, id)
	case KindLatch:
		n.latches = removeOne(n.latches, id)
	}
	n.nodes[id] = nil
	n.live--

	return nil
}
