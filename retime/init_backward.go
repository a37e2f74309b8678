// File: init_backward.go
// Role: Reset values of latches moved backward, by SAT over an init network.
// Model:
//   - The init network has one PI per current latch and a single PO that is
//     1 exactly when the PIs reproduce the reset values the original latches
//     had when the backward pass started.
//   - After each cut, the PI of every detached latch is replaced by a copy
//     of the logic that now computes that latch's value from the new
//     latches' PIs. A model of the final network is a valid reset state.
//   - Copied gates remember the node and lag they came from so a conflict
//     can be traced back to the retimed network.

package retime

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/katalvlaran/fretime/netlist"
)

// InitNode pins a retimed-network node at the lag it had when it caused an
// initial-state conflict.
type InitNode struct {
	Node netlist.ID
	Lag  int
}

// InitConstraint records one conflict. While active, backward retiming
// treats the listed nodes and their fanin cones as sinks whenever one more
// step would bring them to the recorded lag.
type InitConstraint struct {
	Nodes []InitNode
}

func (c InitConstraint) equal(o InitConstraint) bool {
	if len(c.Nodes) != len(o.Nodes) {
		return false
	}
	for i := range c.Nodes {
		if c.Nodes[i] != o.Nodes[i] {
			return false
		}
	}
	return true
}

// setupBackwardInit builds the init network for the latches present at the
// start of a backward attempt.
// Complexity: O(latches).
func (s *session) setupBackwardInit() {
	in := netlist.New(netlist.WithName(s.ntk.Name() + "_init"))
	s.initNet = in
	s.initOrig = make(map[netlist.ID]InitNode)
	s.latchIn = make(map[netlist.ID]netlist.ID)

	var terms []netlist.ID
	for _, l := range s.ntk.Latches() {
		pi := in.AddPI(fmt.Sprintf("l%d", l))
		s.latchIn[l] = pi
		switch s.ntk.LatchInit(l) {
		case netlist.InitOne:
			terms = append(terms, pi)
		case netlist.InitZero:
			inv, _ := in.AddGate(netlist.OpNot, pi)
			terms = append(terms, inv)
		}
	}
	var out netlist.ID
	if len(terms) == 0 {
		out, _ = in.AddGate(netlist.OpConst1)
	} else {
		out, _ = in.AddGate(netlist.OpAnd, terms...)
	}
	_, _ = in.AddPO("ok", out)
}

// updateBackwardInit rewrites the init network after a backward cut.
//
// Steps:
//  1. Give every latch a fresh PI.
//  2. For each detached box output, copy the logic between it and the new
//     latches and let the copy stand for the old latch's PI.
//
// Complexity: O(size of the moved region) per cut.
func (s *session) updateBackwardInit() {
	n, in := s.ntk, s.initNet
	for _, l := range n.Latches() {
		s.latchIn[l] = in.AddPI(fmt.Sprintf("l%d", l))
	}

	copied := make(map[netlist.ID]netlist.ID)
	var cp func(id netlist.ID) netlist.ID
	cp = func(id netlist.ID) netlist.ID {
		if c, ok := copied[id]; ok {
			return c
		}
		var c netlist.ID
		switch {
		case n.IsLatch(id):
			c = s.latchIn[id]
		case n.IsGate(id), n.IsBoxIn(id):
			ins := make([]netlist.ID, 0, n.NumFanins(id))
			for _, f := range n.Fanins(id) {
				ins = append(ins, cp(f))
			}
			op := n.Op(id)
			if n.IsBoxIn(id) {
				op = netlist.OpBuf
			}
			var err error
			if c, err = in.AddGate(op, ins...); err != nil {
				panic(fmt.Sprintf("retime: invariant: %v", err))
			}
			s.initOrig[c] = InitNode{Node: id, Lag: s.st.Lag(id)}
		default:
			panic(fmt.Sprintf("retime: invariant: backward init reached %s %d", n.Kind(id), id))
		}
		copied[id] = c

		return c
	}

	for _, bo := range n.Nodes() {
		if !n.IsBoxOut(bo) {
			continue
		}
		lab := s.st.At(bo)
		if !lab.CrossBoundary || lab.InitObj == netlist.Nil || !in.Has(lab.InitObj) {
			continue
		}
		repl := cp(n.Fanin0(bo))
		must(in.TransferFanout(lab.InitObj, repl))
		must(in.DeleteNode(lab.InitObj))
		lab.InitObj = netlist.Nil
	}
}

// solveBackwardInit asks the solver for a reset state. On success every
// latch gets the value of its PI, or don't-care when the PI is unused.
func (s *session) solveBackwardInit() (bool, error) {
	model, ok, err := s.opts.Solver.Solve(s.initNet)
	if err != nil {
		return false, errors.Wrap(err, "retime: backward init")
	}
	if !ok {
		return false, nil
	}
	for _, l := range s.ntk.Latches() {
		pi, has := s.latchIn[l]
		v := netlist.InitDC
		if has && s.initNet.Has(pi) && s.initNet.NumFanouts(pi) > 0 {
			v = netlist.InitOf(netlist.Bool(model[pi]))
		}
		must(s.ntk.SetLatchInit(l, v))
	}

	return true, nil
}

// constrainInit localizes an unsatisfiable init network to one gate.
//
// Steps:
//  1. Order the init gates topologically.
//  2. Binary-search the smallest prefix whose outputs, once cut loose into
//     free inputs, make the network satisfiable. The last gate of that
//     prefix is where the conflict becomes visible.
//  3. Map it back to the retimed node it was copied from, falling back to
//     the nearest mapped gate in its fanin cone that still exists in the
//     pre-backward network.
//
// Complexity: O(log G) solver calls on copies of the init network.
func (s *session) constrainInit() (InitConstraint, bool, error) {
	in := s.initNet
	order, err := in.TopoOrder()
	if err != nil {
		return InitConstraint{}, false, errors.Wrap(err, "retime: init network")
	}
	var gates []netlist.ID
	for _, id := range order {
		if in.IsGate(id) {
			gates = append(gates, id)
		}
	}

	probe := func(m int) (bool, error) {
		d := in.Dup()
		for _, g := range gates[:m] {
			if err := d.TransferFanout(g, d.AddPI("")); err != nil {
				return false, err
			}
		}
		_, ok, err := s.opts.Solver.Solve(d)
		return ok, err
	}

	lo, hi := 0, len(gates)
	if ok, err := probe(hi); err != nil || !ok {
		return InitConstraint{}, false, err
	}
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		ok, err := probe(mid)
		if err != nil {
			return InitConstraint{}, false, err
		}
		if ok {
			hi = mid
		} else {
			lo = mid
		}
	}
	if hi == 0 {
		return InitConstraint{}, false, nil
	}

	node, ok := s.traceConflict(gates[hi-1])
	if !ok {
		return InitConstraint{}, false, nil
	}

	return InitConstraint{Nodes: []InitNode{node}}, true, nil
}

// traceConflict maps an init gate to a node of the pre-backward network.
func (s *session) traceConflict(g netlist.ID) (InitNode, bool) {
	seen := make(map[netlist.ID]bool)
	queue := []netlist.ID{g}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if seen[id] {
			continue
		}
		seen[id] = true
		if ref, ok := s.initOrig[id]; ok && s.snapshot.Has(ref.Node) && !s.snapshot.IsLatch(ref.Node) {
			return ref, true
		}
		queue = append(queue, s.initNet.Fanins(id)...)
	}

	return InitNode{}, false
}

// addInitBias marks the nodes of every active constraint, together with
// their fanin cones, as sinks for the coming backward iteration when one
// more step would bring them to the conflicting lag.
func (s *session) addInitBias() {
	n := s.ntk
	var mark func(id netlist.ID)
	mark = func(id netlist.ID) {
		l := s.st.At(id)
		if l.Bias || n.IsPI(id) || n.IsLatch(id) {
			return
		}
		l.Bias = true
		for _, f := range n.Fanins(id) {
			mark(f)
		}
	}
	for _, c := range s.constraints {
		for _, cn := range c.Nodes {
			if n.Has(cn.Node) && s.st.Lag(cn.Node)+1 >= cn.Lag {
				mark(cn.Node)
			}
		}
	}
}

// removeInitBias clears every Bias mark.
func (s *session) removeInitBias() {
	for _, id := range s.ntk.Nodes() {
		s.st.At(id).Bias = false
	}
}

// clearInit makes every latch don't-care.
func (s *session) clearInit() {
	for _, l := range s.ntk.Latches() {
		must(s.ntk.SetLatchInit(l, netlist.InitDC))
	}
}
