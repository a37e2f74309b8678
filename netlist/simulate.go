// File: simulate.go
// Role: Cycle-accurate ternary simulation.

package netlist

import "github.com/pkg/errors"

// Simulate runs the network for len(inputs) clock cycles. inputs[t] holds one
// value per PI in PIs() order; the result holds one value per PO in POs()
// order for every cycle. Latches start at their init value (X for
// don't-care or unassigned). A nil ev uses TernaryEvaluator.
//
// Steps per cycle:
//  1. Latch outputs present the current state.
//  2. Evaluate all nodes in topological order.
//  3. Sample POs, then load every latch from its data input.
//
// Complexity: O(cycles · (V + E)).
func (n *Network) Simulate(ev Evaluator, inputs [][]Value) ([][]Value, error) {
	if ev == nil {
		ev = TernaryEvaluator{}
	}
	order, err := n.TopoOrder()
	if err != nil {
		return nil, err
	}
	val := make([]Value, len(n.nodes))
	state := make(map[ID]Value, len(n.latches))
	for _, l := range n.latches {
		state[l] = n.nodes[l].init.Value()
	}

	out := make([][]Value, 0, len(inputs))
	ins := make([]Value, 0, 4)
	for t, vec := range inputs {
		if len(vec) != len(n.pis) {
			return nil, errors.Errorf("netlist: cycle %d has %d inputs, want %d", t, len(vec), len(n.pis))
		}
		for i, pi := range n.pis {
			val[pi] = vec[i]
		}
		for _, id := range order {
			nd := n.nodes[id]
			switch nd.kind {
			case KindPI:
				continue
			case KindLatch:
				val[id] = state[id]
				continue
			}
			ins = ins[:0]
			for _, f := range nd.fanins {
				ins = append(ins, val[f])
			}
			val[id] = ev.Eval(n, id, ins)
		}
		row := make([]Value, len(n.pos))
		for i, po := range n.pos {
			row[i] = val[po]
		}
		out = append(out, row)
		for _, l := range n.latches {
			if fi := n.nodes[l].fanins; len(fi) > 0 {
				state[l] = val[fi[0]]
			} else {
				state[l] = X
			}
		}
	}

	return out, nil
}
