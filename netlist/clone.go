// File: clone.go
// Role: Deep duplication of a Network.
// Determinism:
//   - Dup preserves every ID, so side tables indexed by ID stay valid on the copy.

package netlist

// Dup returns a deep copy of the network: configuration, nodes, names, latch
// init values and edge order. Node IDs are identical in the copy.
// Complexity: O(V + E).
func (n *Network) Dup() *Network {
	c := &Network{
		name:    n.name,
		hashed:  n.hashed,
		nodes:   make([]*node, len(n.nodes)),
		pis:     append([]ID(nil), n.pis...),
		pos:     append([]ID(nil), n.pos...),
		latches: append([]ID(nil), n.latches...),
		live:    n.live,
	}
	for i, nd := range n.nodes {
		if nd == nil {
			continue
		}
		c.nodes[i] = &node{
			kind:    nd.kind,
			op:      nd.op,
			init:    nd.init,
			name:    nd.name,
			fanins:  append([]ID(nil), nd.fanins...),
			fanouts: append([]ID(nil), nd.fanouts...),
		}
	}

	return c
}
