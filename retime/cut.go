// File: cut.go
// Role: Moves the latches of a network onto the min-cut found by PushFlows
//       and restores the BoxIn -> Latch -> BoxOut bracket afterwards.

package retime

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/katalvlaran/fretime/flow"
	"github.com/katalvlaran/fretime/netlist"
)

// implementCut relocates every latch onto the current cut and returns the
// number of cut nodes, which is the new latch count.
//
// Steps:
//  1. Mark the cut, then detach every latch: its BoxOut reads the BoxIn
//     directly and remembers the latch's reset value; the latch object goes
//     to a free pool.
//  2. For every cut node u take a latch from the pool, drive it with u and
//     make every fanout of u across the cut read the latch instead.
//  3. Optionally verify that cut nodes carry flow and path latencies, then
//     delete unused latches.
//  4. Update lags and reset values, then repair the latch brackets.
//
// Complexity: O(V + E) plus the init update.
func (s *session) implementCut() int {
	n, st := s.ntk, s.st
	cut := flow.MarkCut(n, st)
	latches := n.Latches()
	boxIns := make([]netlist.ID, 0, len(latches))
	free := make([]netlist.ID, 0, len(latches))
	for _, l := range latches {
		bi, bo := n.LatchInput(l), n.LatchOutput(l)
		if bi == netlist.Nil || bo == netlist.Nil {
			panic(fmt.Sprintf("retime: invariant: latch %d is not bracketed", l))
		}
		s.saveInit(l, bo)
		st.At(bo).CrossBoundary = true
		must(n.PatchFanin(bo, l, bi))
		n.RemoveFanins(l)
		boxIns = append(boxIns, bi)
		free = append(free, l)
	}

	unmoved := 0
	for _, u := range n.Nodes() {
		lab := st.At(u)
		if n.IsLatch(u) || !lab.Cut {
			continue
		}
		if s.opts.Check && (!lab.OnFlow || lab.Pred == netlist.Nil) {
			panic(fmt.Sprintf("retime: invariant: cut node %d carries no flow", u))
		}
		if (s.dir == flow.Forward && n.IsBoxOut(u)) || (s.dir == flow.Backward && n.IsBoxIn(u)) {
			unmoved++
		}
		var across []netlist.ID
		for _, w := range n.Fanouts(u) {
			if s.acrossCut(w) {
				across = append(across, w)
			}
		}
		if len(across) == 0 || len(free) == 0 {
			panic(fmt.Sprintf("retime: invariant: cut node %d has %d fanouts across, %d free latches", u, len(across), len(free)))
		}
		reg := free[len(free)-1]
		free = free[:len(free)-1]
		n.AddFanin(reg, u)
		for _, w := range across {
			must(n.PatchFanin(w, u, reg))
		}
	}

	if s.opts.Check {
		if err := VerifyPathLatencies(n, s.dir); err != nil {
			panic(fmt.Sprintf("retime: invariant: %v", err))
		}
	}
	for _, l := range free {
		must(n.DeleteNode(l))
	}

	s.updateLags()
	if s.opts.ComputeInit {
		if s.dir == flow.Forward {
			s.updateForwardInit()
		} else {
			s.updateBackwardInit()
		}
	}
	s.fixLatchBoxes(boxIns)

	s.log.WithFields(logrus.Fields{
		"pass":    s.dir.String(),
		"iter":    s.iter,
		"cut":     cut,
		"unmoved": unmoved,
	}).Info("cut implemented")

	return cut
}

// acrossCut reports whether fanout w of a cut node must read the new latch.
// Moving forward those are nodes outside the moved region, sinks, detached
// box outputs and latches; moving backward the region itself and detached
// box outputs.
func (s *session) acrossCut(w netlist.ID) bool {
	l := s.st.At(w)
	if l.CrossBoundary {
		return true
	}
	if s.dir == flow.Forward {
		return !l.Visit.Has(flow.HalfR) || s.cfg.IsSink(l) || s.ntk.IsLatch(w)
	}
	return l.Visit.Has(flow.HalfE)
}

// saveInit parks the reset state of latch l on its box output.
func (s *session) saveInit(l, bo netlist.ID) {
	if !s.opts.ComputeInit {
		return
	}
	lab := s.st.At(bo)
	lab.Init = s.ntk.LatchInit(l)
	if s.dir == flow.Backward {
		lab.InitObj = s.latchIn[l]
	}
}

// fixLatchBoxes restores a BoxIn and a BoxOut around every latch.
//
// Steps:
//  1. For each old BoxIn: if it still feeds its old BoxOut the pair is
//     empty, so the BoxOut's readers go straight to the BoxIn's driver and
//     both markers are freed. A BoxIn feeding a latch stays.
//  2. Give every latch lacking a BoxOut (or BoxIn) one, reusing freed
//     markers before creating new ones.
//  3. Delete markers left unused.
//
// Complexity: O(V + E).
func (s *session) fixLatchBoxes(boxIns []netlist.ID) {
	n := s.ntk
	var freeIn, freeOut []netlist.ID
	for _, bi := range boxIns {
		out := n.Fanout0(bi)
		if n.NumFanouts(bi) != 1 {
			panic(fmt.Sprintf("retime: invariant: box input %d has %d fanouts", bi, n.NumFanouts(bi)))
		}
		if n.IsLatch(out) {
			continue
		}
		if !n.IsBoxOut(out) {
			panic(fmt.Sprintf("retime: invariant: box input %d feeds %s %d", bi, n.Kind(out), out))
		}
		n.RemoveFanins(out)
		must(n.TransferFanout(out, n.Fanin0(bi)))
		n.RemoveFanins(bi)
		freeIn = append(freeIn, bi)
		freeOut = append(freeOut, out)
	}

	take := func(pool *[]netlist.ID, kind netlist.Kind) netlist.ID {
		if k := len(*pool); k > 0 {
			id := (*pool)[k-1]
			*pool = (*pool)[:k-1]
			return id
		}
		return n.CreateNode(kind, netlist.OpNone)
	}

	for _, l := range n.Latches() {
		if !(n.NumFanouts(l) == 1 && n.IsBoxOut(n.Fanout0(l))) {
			bo := take(&freeOut, netlist.KindBoxOut)
			must(n.TransferFanout(l, bo))
			n.AddFanin(bo, l)
		}
		if in := n.Fanin0(l); !n.IsBoxIn(in) {
			bi := take(&freeIn, netlist.KindBoxIn)
			n.AddFanin(bi, in)
			n.RemoveFanins(l)
			n.AddFanin(l, bi)
		}
	}

	for _, id := range append(freeIn, freeOut...) {
		must(n.DeleteNode(id))
	}
}

// must panics on errors that only a broken internal invariant can cause.
func must(err error) {
	if err != nil {
		panic(fmt.Sprintf("retime: invariant: %v", err))
	}
}
