// File: lags.go
// Role: Lag bookkeeping after a cut.

package retime

import (
	"fmt"

	"github.com/katalvlaran/fretime/flow"
	"github.com/katalvlaran/fretime/netlist"
)

// updateLags walks the region each new latch was moved across and adjusts
// the lag of every gate in it by one: -1 forward, +1 backward. The walk
// runs from the new latches towards the old box outputs, which it never
// crosses. One visited set is shared by all latches so a gate moves once
// per cut.
// Complexity: O(V + E).
func (s *session) updateLags() {
	n := s.ntk
	seen := make([]bool, n.Size())
	fwd := s.dir == flow.Forward
	delta := 1
	if fwd {
		delta = -1
	}

	var walk func(id netlist.ID)
	walk = func(id netlist.ID) {
		if n.IsBoxOut(id) || seen[id] {
			return
		}
		seen[id] = true
		if n.IsPI(id) || n.IsPO(id) || n.IsLatch(id) {
			panic(fmt.Sprintf("retime: invariant: lag walk reached %s %d", n.Kind(id), id))
		}
		if n.IsGate(id) {
			s.st.AddLag(id, delta)
		}
		next := n.Fanouts(id)
		if fwd {
			next = n.Fanins(id)
		}
		for _, w := range next {
			walk(w)
		}
	}

	for _, l := range n.Latches() {
		next := n.Fanouts(l)
		if fwd {
			next = n.Fanins(l)
		}
		for _, w := range next {
			walk(w)
		}
	}
}
