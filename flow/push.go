// File: push.go
// Role: Max-flow entry point and min-cut extraction.

package flow

import "github.com/katalvlaran/fretime/netlist"

// Result reports the flow found by one PushFlows call.
type Result struct {
	// Fast is the flow found by the distance-label search.
	Fast int
	// Total is the maximum flow (the minimum cut size).
	Total int
	// Gap is set when the fast search stopped on an emptied histogram bucket.
	Gap bool
}

// PushFlows computes a maximum flow from the latches to the sinks of cfg
// over the current labels, then leaves the Visit marks of the
// source-reachable vertices set, OnFlow on nodes carrying flow and Pred on
// the nodes that received it.
//
// Steps:
//  1. Build the split-node residual graph (see residual.go).
//  2. Run the fast distance-label search until it stalls.
//  3. Run the plain search to completion; it also marks reachability.
//  4. Copy flow state into the labels.
//
// Flow state from earlier calls is not reused; call Store.ResetFlows first.
// Complexity: O(V² · E) worst case.
func PushFlows(n *netlist.Network, st *Store, cfg Config) Result {
	g := newGraph(n, st, cfg)
	fast := g.fast()
	res := Result{Fast: fast, Gap: g.gap}
	res.Total = g.plain(fast)
	g.finalize()

	return res
}

// MarkCut sets Cut on every non-latch node whose R half is source-reachable
// while its E half is not, and returns their number. It reads the marks left
// by PushFlows.
// Complexity: O(V).
func MarkCut(n *netlist.Network, st *Store) int {
	cut := 0
	for _, id := range n.Nodes() {
		if n.IsLatch(id) {
			continue
		}
		l := st.At(id)
		l.Cut = l.Visit == VisitedR
		if l.Cut {
			cut++
		}
	}

	return cut
}
