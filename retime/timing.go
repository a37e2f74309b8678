// File: timing.go
// Role: Delay-constrained retiming: conservative marks, exact timing arcs and
//       the refinement loop between them.
// Model:
//   - Unit delay: gates with fanins cost 1, everything else 0.
//   - Moving a latch across u joins the combinational path through u with
//     the path on the far side of the old latch. Conservative marks assume
//     the worst such path; exact arcs name the nodes that must move with u.

package retime

import (
	"math"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/katalvlaran/fretime/flow"
	"github.com/katalvlaran/fretime/netlist"
)

const negInf = math.MinInt32

// flows runs one max-flow problem with the session's timing arcs.
func (s *session) flows(conservative bool) flow.Result {
	s.cfg = flow.Config{Direction: s.dir, Conservative: conservative, Timing: s.timing}
	res := flow.PushFlows(s.ntk, s.st, s.cfg)
	s.log.WithFields(logrus.Fields{
		"pass":         s.dir.String(),
		"iter":         s.iter,
		"conservative": conservative,
		"fast":         res.Fast,
		"total":        res.Total,
		"gap":          res.Gap,
	}).Info("flow computed")

	return res
}

// pushWithTiming computes the flow for the current iteration, refining the
// conservative marks into exact arcs while they over-constrain the cut.
// The flow state left behind belongs to the last over-constrained problem.
// With ConservativeOnly the marks are used as they are.
func (s *session) pushWithTiming() error {
	s.timing = make(map[netlist.ID][]netlist.ID)
	if err := s.constrainConservative(); err != nil {
		return err
	}
	if s.opts.ConservativeOnly {
		s.flows(true)
		return nil
	}
	for s.refineConstraints() {
		s.subIter++
	}

	return nil
}

// constrainConservative marks every node whose worst combined path exceeds
// MaxDelay.
//
// Steps:
//  1. Compute arrival times (forward) or departure times (backward) of the
//     current network, restarting at latches.
//  2. Seed each old latch's far marker with the time on its near side and
//     propagate again; nodes whose time exceeds MaxDelay are marked.
//
// Complexity: O(V + E).
func (s *session) constrainConservative() error {
	n := s.ntk
	order, err := n.TopoOrder()
	if err != nil {
		return errors.Wrap(err, "retime: conservative timing")
	}
	if s.dir == flow.Backward {
		for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
			order[i], order[j] = order[j], order[i]
		}
	}
	next := n.Fanins
	if s.dir == flow.Backward {
		next = n.Fanouts
	}
	worst := func(t []int, id netlist.ID) int {
		m := 0
		for _, x := range next(id) {
			if !n.IsLatch(x) && t[x] > m {
				m = t[x]
			}
		}
		return m
	}

	base := make([]int, n.Size())
	for _, id := range order {
		if !n.IsLatch(id) {
			base[id] = worst(base, id) + n.Delay(id)
		}
	}

	t := make([]int, n.Size())
	marked := 0
	for _, id := range order {
		switch {
		case n.IsLatch(id):
			continue
		case s.dir == flow.Forward && n.IsPI(id), s.dir == flow.Backward && n.IsPO(id):
			t[id] = negInf
			continue
		case s.dir == flow.Forward && n.IsBoxOut(id):
			t[id] = base[n.Fanin0(n.Fanin0(id))]
		case s.dir == flow.Backward && n.IsBoxIn(id):
			t[id] = base[n.Fanout0(n.Fanout0(id))]
		default:
			m := negInf
			for _, x := range next(id) {
				if !n.IsLatch(x) && t[x] > m {
					m = t[x]
				}
			}
			if m > negInf {
				m += n.Delay(id)
			}
			t[id] = m
		}
		if t[id] > s.opts.MaxDelay {
			s.st.At(id).Conservative = true
			marked++
		}
	}
	s.log.WithFields(logrus.Fields{
		"pass":   s.dir.String(),
		"iter":   s.iter,
		"marked": marked,
	}).Info("conservative timing marks")

	return nil
}

// refineConstraints solves the under- and over-constrained problems and
// replaces the conservative mark of every node that only the former moves
// with exact arcs. It reports whether anything changed.
// Complexity: two PushFlows calls plus the exact walks.
func (s *session) refineConstraints() bool {
	n, st := s.ntk, s.st
	st.ResetFlows()
	s.flows(false)
	under := make([]bool, n.Size())
	for _, id := range n.Nodes() {
		if !n.IsLatch(id) && st.At(id).Retimed(s.dir) {
			under[id] = true
		}
	}

	st.ResetFlows()
	s.flows(true)
	added := 0
	for _, id := range n.Nodes() {
		l := st.At(id)
		if under[id] && l.Conservative && !l.Retimed(s.dir) {
			l.Conservative = false
			s.constrainExact(id)
			added++
		}
	}
	s.result.ExactUpgrades += added
	s.log.WithFields(logrus.Fields{
		"pass":     s.dir.String(),
		"iter":     s.iter,
		"round":    s.subIter,
		"upgrades": added,
		"arcs":     len(s.timing),
	}).Info("timing constraints refined")

	return added > 0
}

// constrainExact adds a timing arc from u to the first gate past the nearest
// old latch at which the joined path exceeds MaxDelay. Only one latch is
// crossed; walks stop at PIs, POs and a second latch.
// Complexity: O(V + E) per node thanks to the best-depth memo.
func (s *session) constrainExact(u netlist.ID) {
	n := s.ntk
	fwd := s.dir == flow.Forward
	next := n.Fanouts
	if fwd {
		next = n.Fanins
	}
	type key struct {
		id      netlist.ID
		crossed bool
	}
	best := make(map[key]int)

	var walk func(v netlist.ID, d int, crossed bool)
	walk = func(v netlist.ID, d int, crossed bool) {
		k := key{v, crossed}
		if b, ok := best[k]; ok && b >= d {
			return
		}
		best[k] = d
		for _, x := range next(v) {
			switch {
			case n.IsLatch(x):
				if crossed {
					continue
				}
				far := n.Fanout0(x)
				if fwd {
					far = n.Fanin0(x)
				}
				if far != netlist.Nil {
					walk(far, d, true)
				}
			case n.IsPI(x), n.IsPO(x):
				continue
			default:
				dx := d + n.Delay(x)
				if crossed && n.IsGate(x) && dx > s.opts.MaxDelay {
					s.addTiming(u, x)
					continue
				}
				walk(x, dx, crossed)
			}
		}
	}
	walk(u, n.Delay(u), false)
}

func (s *session) addTiming(u, v netlist.ID) {
	for _, x := range s.timing[u] {
		if x == v {
			return
		}
	}
	s.timing[u] = append(s.timing[u], v)
}
