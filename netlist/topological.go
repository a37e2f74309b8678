// File: topological.go
// Role: Combinational topological order, ID renumbering and structural
//       re-hashing.
// Determinism:
//   - TopoOrder roots the traversal at POs, then latches, then every other
//     node in ascending ID order, so the order is stable for a given network.

package netlist

import (
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const (
	white = iota
	gray
	black
)

// topoSorter holds DFS state for one TopoOrder call.
type topoSorter struct {
	n     *Network
	color []uint8
	order []ID
}

// TopoOrder returns every live node so that each node follows all of its
// fanins. Latch fanin edges are ignored (a latch starts a new combinational
// frame), so the order exists iff the network has no combinational loop.
//
// Steps:
//  1. Colour all nodes white.
//  2. DFS over fanins from POs, latches and then the remaining nodes.
//  3. Append a node once all its fanins are finished (post-order).
//
// Returns ErrCombLoop wrapped with the node that closes the cycle.
// Complexity: O(V + E) time, O(V) memory.
func (n *Network) TopoOrder() ([]ID, error) {
	ts := &topoSorter{n: n, color: make([]uint8, len(n.nodes)), order: make([]ID, 0, n.live)}
	roots := make([]ID, 0, n.live)
	roots = append(roots, n.pos...)
	roots = append(roots, n.latches...)
	roots = append(roots, n.Nodes()...)
	for _, id := range roots {
		if ts.color[id] == white {
			if err := ts.visit(id); err != nil {
				return nil, err
			}
		}
	}

	return ts.order, nil
}

func (ts *topoSorter) visit(id ID) error {
	ts.color[id] = gray
	nd := ts.n.nodes[id]
	if nd.kind != KindLatch {
		for _, f := range nd.fanins {
			switch ts.color[f] {
			case gray:
				return errors.Wrapf(ErrCombLoop, "through node %d (%s)", f, ts.n.nodes[f].kind)
			case white:
				if err := ts.visit(f); err != nil {
					return err
				}
			}
		}
	}
	ts.color[id] = black
	ts.order = append(ts.order, id)

	return nil
}

// Renumber compacts IDs so that they follow a topological order, and returns
// the translation table remap[old] = new (Nil for slots that were empty).
// Side tables keyed by ID must be rebuilt or translated with the result.
// Complexity: O(V + E).
func (n *Network) Renumber() ([]ID, error) {
	order, err := n.TopoOrder()
	if err != nil {
		return nil, err
	}
	remap := make([]ID, len(n.nodes))
	nodes := make([]*node, 1, len(order)+1)
	for _, old := range order {
		remap[old] = ID(len(nodes))
		nodes = append(nodes, n.nodes[old])
	}
	for _, nd := range nodes[1:] {
		for i, f := range nd.fanins {
			nd.fanins[i] = remap[f]
		}
		for i, f := range nd.fanouts {
			nd.fanouts[i] = remap[f]
		}
	}
	translate := func(list []ID) {
		for i, id := range list {
			list[i] = remap[id]
		}
	}
	translate(n.pis)
	translate(n.pos)
	translate(n.latches)
	n.nodes = nodes

	return remap, nil
}

// Restrash merges gates that compute the same operator over the same fanins,
// deletes gates that drive nothing, and renumbers the result. The returned
// table maps every old ID to its new ID; a merged gate maps to the survivor
// and a deleted gate maps to Nil.
//
// Steps:
//  1. Walk gates in topological order, hashing (op, fanins); commutative
//     operators hash their fanins sorted.
//  2. Redirect fanouts of a duplicate onto the first gate with the same key.
//  3. Sweep dangling gates.
//  4. Renumber and compose the translation.
//
// Complexity: O((V + E) log d) for the fanin sorts.
func (n *Network) Restrash() ([]ID, error) {
	order, err := n.TopoOrder()
	if err != nil {
		return nil, err
	}
	rep := make([]ID, len(n.nodes))
	for i := range rep {
		rep[i] = ID(i)
	}
	table := make(map[string]ID)
	for _, id := range order {
		nd := n.nodes[id]
		if nd == nil || nd.kind != KindGate {
			continue
		}
		key := hashKey(nd)
		if prev, ok := table[key]; ok {
			if err = n.TransferFanout(id, prev); err != nil {
				return nil, err
			}
			rep[id] = prev
			continue
		}
		table[key] = id
	}
	n.sweepDangling()

	remap, err := n.Renumber()
	if err != nil {
		return nil, err
	}
	out := make([]ID, len(rep))
	for old := range rep {
		out[old] = remap[rep[old]]
	}

	return out, nil
}

func hashKey(nd *node) string {
	fanins := append([]ID(nil), nd.fanins...)
	if nd.op.Commutative() {
		sort.Slice(fanins, func(i, j int) bool { return fanins[i] < fanins[j] })
	}
	var b strings.Builder
	b.WriteString(nd.op.String())
	for _, f := range fanins {
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(int(f)))
	}
	return b.String()
}

// sweepDangling deletes gates without fanouts until none remain.
func (n *Network) sweepDangling() {
	stack := n.Gates()
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		nd := n.nodes[id]
		if nd == nil || nd.kind != KindGate || len(nd.fanouts) > 0 {
			continue
		}
		fanins := append([]ID(nil), nd.fanins...)
		_ = n.DeleteNode(id)
		stack = append(stack, fanins...)
	}
}
