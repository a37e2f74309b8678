// File: check.go
// Role: Network-wide structural consistency check.

package netlist

import "github.com/pkg/errors"

// Check verifies the structural invariants of the network:
//   - every fanin edge has a matching fanout edge and vice versa;
//   - PIs have no fanins, POs have one fanin and no fanouts;
//   - each latch is bracketed BoxIn -> Latch -> BoxOut, a BoxIn has at most
//     one driver and a BoxOut is read only through its latch;
//   - gate fanin counts respect their operator arity;
//   - there is no combinational loop.
//
// The first violation is returned wrapped in ErrInconsistent (or ErrCombLoop).
// Complexity: O(V + E·d).
func (n *Network) Check() error {
	for i := 1; i < len(n.nodes); i++ {
		nd := n.nodes[i]
		if nd == nil {
			continue
		}
		id := ID(i)
		if err := n.checkEdges(id, nd); err != nil {
			return err
		}
		if err := n.checkKind(id, nd); err != nil {
			return err
		}
	}
	for _, list := range [][]ID{n.pis, n.pos, n.latches} {
		for _, id := range list {
			if !n.Has(id) {
				return errors.Wrapf(ErrInconsistent, "stale id %d in kind list", id)
			}
		}
	}
	_, err := n.TopoOrder()

	return err
}

func (n *Network) checkEdges(id ID, nd *node) error {
	for _, f := range nd.fanins {
		fn, err := n.lookup(f)
		if err != nil {
			return errors.Wrapf(ErrInconsistent, "node %d reads deleted node %d", id, f)
		}
		if count(fn.fanouts, id) != count(nd.fanins, f) {
			return errors.Wrapf(ErrInconsistent, "edge %d -> %d is one-sided", f, id)
		}
	}
	for _, o := range nd.fanouts {
		on, err := n.lookup(o)
		if err != nil {
			return errors.Wrapf(ErrInconsistent, "node %d drives deleted node %d", id, o)
		}
		if count(on.fanins, id) != count(nd.fanouts, o) {
			return errors.Wrapf(ErrInconsistent, "edge %d -> %d is one-sided", id, o)
		}
	}
	return nil
}

func (n *Network) checkKind(id ID, nd *node) error {
	switch nd.kind {
	case KindPI:
		if len(nd.fanins) != 0 {
			return errors.Wrapf(ErrInconsistent, "pi %d has fanins", id)
		}
	case KindPO:
		if len(nd.fanins) != 1 || len(nd.fanouts) != 0 {
			return errors.Wrapf(ErrInconsistent, "po %d has %d fanins and %d fanouts", id, len(nd.fanins), len(nd.fanouts))
		}
	case KindLatch:
		if len(nd.fanins) != 1 || n.nodes[nd.fanins[0]].kind != KindBoxIn {
			return errors.Wrapf(ErrInconsistent, "latch %d is not fed by a box input", id)
		}
		if len(nd.fanouts) != 1 || n.nodes[nd.fanouts[0]].kind != KindBoxOut {
			return errors.Wrapf(ErrInconsistent, "latch %d does not drive a box output", id)
		}
	case KindBoxIn:
		if len(nd.fanins) > 1 {
			return errors.Wrapf(ErrInconsistent, "box input %d has %d drivers", id, len(nd.fanins))
		}
		if len(nd.fanouts) != 1 || n.nodes[nd.fanouts[0]].kind != KindLatch {
			return errors.Wrapf(ErrInconsistent, "box input %d does not feed exactly one latch", id)
		}
	case KindBoxOut:
		if len(nd.fanins) != 1 || n.nodes[nd.fanins[0]].kind != KindLatch {
			return errors.Wrapf(ErrInconsistent, "box output %d is not driven by a latch", id)
		}
	case KindGate:
		lo, hi := nd.op.Arity()
		if k := len(nd.fanins); k < lo || (hi >= 0 && k > hi) {
			return errors.Wrapf(ErrInconsistent, "gate %d (%s) has %d fanins", id, nd.op, k)
		}
	}
	return nil
}

func count(list []ID, id ID) int {
	c := 0
	for _, x := range list {
		if x == id {
			c++
		}
	}
	return c
}
