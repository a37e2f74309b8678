// File: fast.go
// Role: Distance-label augmenting-path search with gap termination.

package flow

// preorder assigns exact sink distances by a reverse BFS from the sink and
// fills the label histogram. Vertices that cannot reach the sink get maxDist.
// Complexity: O(V + E).
func (g *graph) preorder() {
	g.hist = make([]int, g.maxDist+1)
	g.gap = false
	seen := make([]bool, len(g.adj))
	seen[g.sink] = true
	queue := []int{g.sink}
	for i := 0; i < len(queue); i++ {
		w := queue[i]
		dw := g.dist(w)
		for _, a := range g.adj[w] {
			v := int(g.arcs[a].to)
			if seen[v] || g.arcs[a^1].residual() <= 0 {
				continue
			}
			seen[v] = true
			g.setDist(v, dw+1)
			g.hist[dw+1]++
			queue = append(queue, v)
		}
	}
	for v := 2; v < g.sink; v++ {
		if !seen[v] {
			g.setDist(v, g.maxDist)
		}
	}
}

// relabel raises dist(v) to 1 + the smallest label reachable through a
// residual arc, keeping the histogram current. An emptied bucket proves no
// further augmenting path exists along the labels and sets gap.
func (g *graph) relabel(v int) {
	best := g.maxDist
	for _, a := range g.adj[v] {
		if g.arcs[a].residual() <= 0 {
			continue
		}
		if d := g.dist(int(g.arcs[a].to)) + 1; d < best {
			best = d
		}
	}
	old := g.dist(v)
	if old < g.maxDist {
		g.hist[old]--
		if g.hist[old] == 0 {
			g.gap = true
		}
	}
	if best < g.maxDist {
		g.hist[best]++
	}
	g.setDist(v, best)
}

// fastPath looks for one augmenting path from v along admissible arcs
// (dist drops by exactly one) and pushes a unit of flow along it.
// The visit mark of v is held only while v is on the search path.
func (g *graph) fastPath(v int) bool {
	if v == g.sink {
		return true
	}
	defer g.hold(v)()
	dv := g.dist(v)
	for _, a := range g.adj[v] {
		if g.gap {
			return false
		}
		to := int(g.arcs[a].to)
		if g.arcs[a].residual() <= 0 || g.visited(to) || g.dist(to) != dv-1 {
			continue
		}
		if g.fastPath(to) {
			g.push(a)
			return true
		}
	}
	g.relabel(v)

	return false
}

// fast runs augmentations from the sources with the smallest label until
// every source is cut off or a histogram bucket empties.
//
// Steps:
//  1. Label every vertex with its exact distance to the sink.
//  2. Pick the minimal source label; try one augmentation from each source
//     holding it.
//  3. Repeat until the minimum reaches maxDist or a gap appears.
//
// Complexity: O(V² · E) worst case; near-linear on typical netlists.
func (g *graph) fast() int {
	g.preorder()
	flow := 0
	for !g.gap {
		best := g.maxDist
		for _, s := range g.sources {
			if d := g.dist(s); d > 0 && d < best {
				best = d
			}
		}
		if best >= g.maxDist {
			break
		}
		for _, s := range g.sources {
			if g.gap {
				break
			}
			if g.dist(s) == best && g.fastPath(s) {
				flow++
				g.bound(flow)
			}
		}
	}

	return flow
}

// bound panics once flow exceeds the number of unit arcs, which can only
// happen through an unbounded source-to-sink path.
func (g *graph) bound(flow int) {
	if flow > g.units {
		panic("flow: invariant: augmenting path without a unit-capacity arc")
	}
}
