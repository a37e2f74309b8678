// File: init_forward.go
// Role: Reset values of latches moved forward, by ternary simulation.

package retime

import (
	"fmt"

	"github.com/katalvlaran/fretime/netlist"
)

// updateForwardInit evaluates the driver of every latch placed by the
// current cut, reading detached box outputs as the reset value of their old
// latch. Unknown values become don't-care.
// Complexity: O(V + E).
func (s *session) updateForwardInit() {
	n := s.ntk
	memo := make(map[netlist.ID]netlist.Value)

	var eval func(id netlist.ID) netlist.Value
	eval = func(id netlist.ID) netlist.Value {
		if v, ok := memo[id]; ok {
			return v
		}
		var v netlist.Value
		switch {
		case n.IsBoxOut(id):
			v = s.st.At(id).Init.Value()
		case n.IsPI(id), n.IsLatch(id):
			panic(fmt.Sprintf("retime: invariant: forward init reached %s %d", n.Kind(id), id))
		default:
			ins := make([]netlist.Value, 0, n.NumFanins(id))
			for _, f := range n.Fanins(id) {
				ins = append(ins, eval(f))
			}
			v = s.opts.Evaluator.Eval(n, id, ins)
		}
		memo[id] = v

		return v
	}

	for _, l := range n.Latches() {
		must(n.SetLatchInit(l, netlist.InitOf(eval(n.Fanin0(l)))))
	}
}
