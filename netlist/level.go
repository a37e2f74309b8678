// File: level.go
// Role: Longest combinational path lengths under the unit-delay model.

package netlist

// Level returns the longest combinational path length of the network: the
// largest number of gates (see Delay) on any path that starts at a PI or a
// latch output and ends anywhere before the next latch.
// Complexity: O(V + E).
func (n *Network) Level() (int, error) {
	order, err := n.TopoOrder()
	if err != nil {
		return 0, err
	}
	lvl := make([]int, len(n.nodes))
	best := 0
	for _, id := range order {
		nd := n.nodes[id]
		if nd.kind == KindLatch {
			continue
		}
		l := 0
		for _, f := range nd.fanins {
			if n.nodes[f].kind != KindLatch && lvl[f] > l {
				l = lvl[f]
			}
		}
		lvl[id] = l + n.Delay(id)
		if lvl[id] > best {
			best = lvl[id]
		}
	}

	return best, nil
}

// LevelReverse returns the same quantity measured from the outputs: the
// largest number of gates between any node and the next PO or latch input.
// On an unchanged network it equals Level.
// Complexity: O(V + E).
func (n *Network) LevelReverse() (int, error) {
	order, err := n.TopoOrder()
	if err != nil {
		return 0, err
	}
	lvl := make([]int, len(n.nodes))
	best := 0
	for i := len(order) - 1; i >= 0; i-- {
		id := order[i]
		nd := n.nodes[id]
		if nd.kind == KindLatch {
			continue
		}
		l := 0
		for _, o := range nd.fanouts {
			if n.nodes[o].kind != KindLatch && lvl[o] > l {
				l = lvl[o]
			}
		}
		lvl[id] = l + n.Delay(id)
		if lvl[id] > best {
			best = lvl[id]
		}
	}

	return best, nil
}
