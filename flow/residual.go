// File: residual.go
// Role: Split-node residual graph built over a netlist for one flow problem.
// Model:
//   - Node u owns vertices R(u)=2u and E(u)=2u+1 joined by a unit-capacity
//     through arc R->E and an unbounded E->R arc.
//   - Latch L is a source at E(L); its R half is the sink T.
//   - Forward: E(L)->R(BoxOut), E(u)->R(w) per fanout w, R(w)->R(u) per
//     non-latch fanin u, R(u)->R(v) per timing arc; sinks are R halves.
//   - Backward: E(L)->R(BoxIn), E(w)->R(u) per fanin u, E(u)->E(w) per
//     non-latch fanout w, E(u)->E(v) per timing arc; sinks are E halves.
//   - Every arc is stored with its zero-capacity twin at index a^1.

package flow

import (
	"math"

	"github.com/katalvlaran/fretime/netlist"
)

// unbounded is the capacity of every arc other than a through arc.
const unbounded = math.MaxInt32 / 2

// Config describes one flow problem.
type Config struct {
	// Direction selects the retiming direction.
	Direction Direction
	// Conservative makes nodes marked Conservative act as sinks.
	Conservative bool
	// Timing holds exact timing arcs: Timing[u] lists nodes that must be
	// retimed whenever u is.
	Timing map[netlist.ID][]netlist.ID
}

// IsSink reports whether a non-latch node with label l terminates flow.
func (c Config) IsSink(l *Label) bool {
	if l.Blocked || (c.Conservative && l.Conservative) {
		return true
	}
	return c.Direction == Backward && l.Bias
}

type arc struct {
	to   int32
	cap  int32
	flow int32
}

func (a *arc) residual() int32 { return a.cap - a.flow }

// graph is the residual network of one PushFlows call.
type graph struct {
	n   *netlist.Network
	st  *Store
	cfg Config

	arcs    []arc
	adj     [][]int32
	through []int32 // through[id] = index of R->E arc, -1 if none
	sources []int
	sink    int
	maxDist int
	units   int

	hist []int
	gap  bool
}

func vertex(id netlist.ID, h Half) int { return 2*int(id) + int(h) }

func nodeOf(v int) netlist.ID { return netlist.ID(v / 2) }

func halfOf(v int) Half { return Half(v & 1) }

// newGraph builds the residual network for the current labels.
// Complexity: O(V + E + timing arcs).
func newGraph(n *netlist.Network, st *Store, cfg Config) *graph {
	size := n.Size()
	st.grow(netlist.ID(size - 1))
	g := &graph{
		n:       n,
		st:      st,
		cfg:     cfg,
		adj:     make([][]int32, 2*size+1),
		through: make([]int32, size),
		sink:    2 * size,
	}
	g.maxDist = len(g.adj)
	for i := range g.through {
		g.through[i] = -1
	}
	for _, id := range n.Nodes() {
		if n.IsLatch(id) {
			g.addLatch(id)
			continue
		}
		if cfg.Direction == Forward {
			g.addForward(id)
		} else {
			g.addBackward(id)
		}
	}

	return g
}

func (g *graph) addArc(from, to int, capacity int32) int32 {
	idx := int32(len(g.arcs))
	g.arcs = append(g.arcs, arc{to: int32(to), cap: capacity}, arc{to: int32(from)})
	g.adj[from] = append(g.adj[from], idx)
	g.adj[to] = append(g.adj[to], idx+1)
	return idx
}

func (g *graph) sinkNode(id netlist.ID) bool { return g.cfg.IsSink(g.st.At(id)) }

// target resolves the vertex an arc into half h of id must point at.
func (g *graph) target(id netlist.ID, h Half) int {
	if g.n.IsLatch(id) {
		return g.sink
	}
	if g.cfg.Direction == Forward && h == HalfR && g.sinkNode(id) {
		return g.sink
	}
	if g.cfg.Direction == Backward && h == HalfE && g.sinkNode(id) {
		return g.sink
	}
	return vertex(id, h)
}

func (g *graph) addLatch(l netlist.ID) {
	src := vertex(l, HalfE)
	g.sources = append(g.sources, src)
	var next []netlist.ID
	if g.cfg.Direction == Forward {
		next = g.n.Fanouts(l)
	} else {
		next = g.n.Fanins(l)
	}
	for _, w := range next {
		g.addArc(src, g.target(w, HalfR), unbounded)
	}
}

func (g *graph) addForward(u netlist.ID) {
	if g.sinkNode(u) {
		return
	}
	r, e := vertex(u, HalfR), vertex(u, HalfE)
	g.through[u] = g.addArc(r, e, 1)
	g.units++
	g.addArc(e, r, unbounded)
	for _, w := range g.n.Fanouts(u) {
		g.addArc(e, g.target(w, HalfR), unbounded)
	}
	for _, x := range g.n.Fanins(u) {
		if !g.n.IsLatch(x) {
			g.addArc(r, g.target(x, HalfR), unbounded)
		}
	}
	for _, v := range g.cfg.Timing[u] {
		if g.n.Has(v) {
			g.addArc(r, g.target(v, HalfR), unbounded)
		}
	}
}

func (g *graph) addBackward(u netlist.ID) {
	r := vertex(u, HalfR)
	if g.sinkNode(u) {
		g.through[u] = g.addArc(r, g.sink, 1)
		g.units++
		return
	}
	e := vertex(u, HalfE)
	g.through[u] = g.addArc(r, e, 1)
	g.units++
	g.addArc(e, r, unbounded)
	for _, x := range g.n.Fanins(u) {
		g.addArc(e, g.target(x, HalfR), unbounded)
	}
	for _, w := range g.n.Fanouts(u) {
		if !g.n.IsLatch(w) {
			g.addArc(e, g.target(w, HalfE), unbounded)
		}
	}
	for _, v := range g.cfg.Timing[u] {
		if g.n.Has(v) {
			g.addArc(e, g.target(v, HalfE), unbounded)
		}
	}
}

// dist returns the distance label of vertex v.
func (g *graph) dist(v int) int {
	if v == g.sink {
		return 0
	}
	l := g.st.At(nodeOf(v))
	if halfOf(v) == HalfR {
		return l.DistR
	}
	return l.DistE
}

func (g *graph) setDist(v, d int) {
	l := g.st.At(nodeOf(v))
	if halfOf(v) == HalfR {
		l.DistR = d
	} else {
		l.DistE = d
	}
}

func (g *graph) visited(v int) bool {
	if v == g.sink {
		return false
	}
	return g.st.At(nodeOf(v)).Visit.Has(halfOf(v))
}

func (g *graph) mark(v int) {
	l := g.st.At(nodeOf(v))
	l.Visit = l.Visit.With(halfOf(v))
}

// hold marks v as on the current search path and returns the release.
func (g *graph) hold(v int) func() {
	g.mark(v)
	return func() {
		l := g.st.At(nodeOf(v))
		l.Visit = l.Visit.Without(halfOf(v))
	}
}

func (g *graph) push(a int32) {
	g.arcs[a].flow++
	g.arcs[a^1].flow--
}

// finalize copies the flow state of through arcs into the labels.
func (g *graph) finalize() {
	for id, a := range g.through {
		if a < 0 {
			continue
		}
		l := g.st.At(netlist.ID(id))
		l.OnFlow = g.arcs[a].flow > 0
	}
	for v := range g.adj {
		for _, a := range g.adj[v] {
			if a&1 == 1 || g.arcs[a].flow <= 0 {
				continue
			}
			to := int(g.arcs[a].to)
			if to == g.sink || halfOf(to) != HalfR || nodeOf(to) == nodeOf(v) {
				continue
			}
			g.st.At(nodeOf(to)).Pred = nodeOf(v)
		}
	}
}
