// File: plain.go
// Role: Exhaustive augmenting-path search; its final failing round leaves
//       the residual reachability from the sources in the visit marks.

package flow

// plainPath is a depth-first search for an augmenting path from v. Visit
// marks persist until the caller clears them, so each vertex is expanded at
// most once per round.
func (g *graph) plainPath(v int) bool {
	if v == g.sink {
		return true
	}
	if g.visited(v) {
		return false
	}
	g.mark(v)
	for _, a := range g.adj[v] {
		if g.arcs[a].residual() <= 0 {
			continue
		}
		if g.plainPath(int(g.arcs[a].to)) {
			g.push(a)
			return true
		}
	}

	return false
}

// plain completes the max-flow left by fast.
//
// Steps:
//  1. Clear visit marks and try every source, repeating a source while it
//     keeps finding paths (marks are cleared after each success).
//  2. Stop after a round without any success; that round's marks are the
//     source-reachable set of the final residual graph.
//
// Complexity: O(F · (V + E)) where F is the flow found here.
func (g *graph) plain(flow int) int {
	for {
		found := false
		g.st.ClearVisits()
		for _, s := range g.sources {
			for g.plainPath(s) {
				flow++
				g.bound(flow)
				found = true
				g.st.ClearVisits()
			}
		}
		if !found {
			return flow
		}
	}
}
