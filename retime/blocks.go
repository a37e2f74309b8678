// File: blocks.go
// Role: Marks the nodes latches may never cross in the current direction.

package retime

import (
	"github.com/katalvlaran/fretime/flow"
	"github.com/katalvlaran/fretime/netlist"
)

// markBlocks sets Blocked on every non-latch node in the combinational cone
// of the PIs (forward) or of the POs (backward). The cone stops at latches
// and at the opposite boundary. Backward with BlockConst, constant gates are
// blocked as well.
//
// Steps:
//  1. Pre-mark the frontier: POs and latches (forward), PIs and latches
//     (backward).
//  2. Walk fanouts from every PI (forward) or fanins from every PO
//     (backward), marking what is reached.
//  3. Copy the marks of non-latch nodes into the labels.
//
// Complexity: O(V + E).
func (s *session) markBlocks() {
	n, fwd := s.ntk, s.dir == flow.Forward
	seen := make([]bool, n.Size())
	var roots []netlist.ID
	if fwd {
		for _, po := range n.POs() {
			seen[po] = true
		}
		roots = n.PIs()
	} else {
		for _, pi := range n.PIs() {
			seen[pi] = true
		}
		roots = n.POs()
	}
	for _, l := range n.Latches() {
		seen[l] = true
	}

	var walk func(id netlist.ID)
	walk = func(id netlist.ID) {
		if seen[id] {
			return
		}
		seen[id] = true
		next := n.Fanins(id)
		if fwd {
			next = n.Fanouts(id)
		}
		for _, w := range next {
			walk(w)
		}
	}
	for _, r := range roots {
		seen[r] = false
		walk(r)
	}

	for _, id := range n.Nodes() {
		if n.IsLatch(id) {
			continue
		}
		if seen[id] || (!fwd && s.opts.BlockConst && n.IsConst(id)) {
			s.st.At(id).Blocked = true
		}
	}
}
