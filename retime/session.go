// File: session.go
// Role: Minimum-register retiming entry point and pass orchestration.
// Lifecycle:
//   - Preconditions are checked before the network is touched.
//   - Forward pass, optional restrash, backward pass with init retries,
//     final restrash. Each pass repeats flow, cut and repair until the latch
//     count stops changing or MaxIterations is reached.

package retime

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/katalvlaran/fretime/flow"
	"github.com/katalvlaran/fretime/netlist"
)

// Result summarizes a retiming session.
type Result struct {
	InitialLatches, FinalLatches int
	InitialLevel, FinalLevel     int

	ForwardIterations  int
	BackwardIterations int
	// TimingRounds counts refinement rounds that upgraded at least one node.
	TimingRounds int
	// ExactUpgrades counts conservative marks replaced by exact arcs.
	ExactUpgrades int
	// InitConstraints counts recorded initial-state conflicts.
	InitConstraints int
	// Constraints lists the recorded conflicts. Node IDs refer to the network
	// as it was when the backward pass started.
	Constraints []InitConstraint

	// Degraded is set when the backward reset state could not be computed
	// and every latch was made don't-care.
	Degraded bool
	// Reverted is set when the backward pass was undone because its reset
	// state stayed unsatisfiable.
	Reverted bool

	// Lags holds the accumulated lag of every node, indexed by ID in the
	// returned network.
	Lags []int
}

type session struct {
	opts Options
	log  logrus.FieldLogger

	ntk *netlist.Network
	st  *flow.Store
	dir flow.Direction
	cfg flow.Config

	timing  map[netlist.ID][]netlist.ID
	iter    int
	subIter int

	snapshot    *netlist.Network
	initNet     *netlist.Network
	initOrig    map[netlist.ID]InitNode
	latchIn     map[netlist.ID]netlist.ID
	constraints []InitConstraint

	result Result
}

// MinRegRetime moves the latches of n to minimize their number while
// keeping its cycle-accurate behavior, optionally under a delay bound.
// n is edited in place and may be replaced by a copy during backward
// retries; always use the returned network. On a precondition error n is
// returned untouched.
//
// Steps:
//  1. Reject networks with opaque boxes or a delay bound below their level.
//  2. Give undriven latch inputs a constant-0 driver.
//  3. Run the forward pass, restrash if the network is hashed.
//  4. Run the backward pass, solving and if needed constraining the
//     initial state.
//  5. Restrash again and report.
//
// Complexity: iterations × (max-flow + O(V + E)), plus the SAT queries.
func MinRegRetime(n *netlist.Network, opts ...Option) (*netlist.Network, Result, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.MaxInitConstraints <= 0 {
		o.MaxInitConstraints = o.MaxIterations
	}
	if o.Solver == nil {
		o.Solver = DefaultOptions().Solver
	}
	if o.Evaluator == nil {
		o.Evaluator = netlist.TernaryEvaluator{}
	}

	s := &session{opts: o, log: o.logger(), ntk: n}
	if err := s.prepare(); err != nil {
		return n, Result{}, err
	}
	if err := s.run(); err != nil {
		return s.ntk, s.result, err
	}

	return s.ntk, s.result, nil
}

// prepare checks the preconditions and records the starting statistics.
func (s *session) prepare() error {
	n := s.ntk
	if !n.HasOnlyLatchBoxes() {
		return ErrOpaqueBox
	}
	if err := n.Check(); err != nil {
		return errors.Wrap(err, "retime: input network")
	}
	level, err := n.Level()
	if err != nil {
		return errors.Wrap(err, "retime: input network")
	}
	if s.opts.MaxDelay > 0 && s.opts.MaxDelay < level {
		return errors.Wrapf(ErrDelayTooSmall, "max delay %d, level %d", s.opts.MaxDelay, level)
	}
	s.result.InitialLatches = n.NumLatches()
	s.result.InitialLevel = level

	for _, l := range n.Latches() {
		bi := n.LatchInput(l)
		if n.NumFanins(bi) == 0 {
			c, _ := n.AddGate(netlist.OpConst0)
			n.AddFanin(bi, c)
		}
	}
	s.st = flow.NewStore(n.Size())

	return nil
}

func (s *session) run() error {
	s.log.WithFields(logrus.Fields{
		"latches":   s.result.InitialLatches,
		"depth":     s.result.InitialLevel,
		"max_delay": s.opts.MaxDelay,
		"direction": s.opts.Direction.String(),
	}).Info("retiming started")

	if s.opts.Direction != BackwardOnly {
		s.dir = flow.Forward
		if err := s.pass(); err != nil {
			return err
		}
		s.result.ForwardIterations = s.iter
		if err := s.restrash(); err != nil {
			return err
		}
		s.logInitState()
	}
	if s.opts.Direction != ForwardOnly {
		if err := s.backward(); err != nil {
			return err
		}
		s.logInitState()
	}
	if !s.opts.ComputeInit {
		s.clearInit()
	}
	if err := s.restrash(); err != nil {
		return err
	}

	level, err := s.ntk.Level()
	if err != nil {
		return errors.Wrap(err, "retime: result network")
	}
	s.result.FinalLatches = s.ntk.NumLatches()
	s.result.FinalLevel = level
	s.result.TimingRounds = s.subIter
	lags := s.st.Lags()
	if len(lags) > s.ntk.Size() {
		lags = lags[:s.ntk.Size()]
	}
	s.result.Lags = lags

	s.log.WithFields(logrus.Fields{
		"latches":  s.result.FinalLatches,
		"depth":    s.result.FinalLevel,
		"forward":  s.result.ForwardIterations,
		"backward": s.result.BackwardIterations,
	}).Info("retiming finished")

	return nil
}

// pass repeats flow, cut and repair in the current direction until the
// latch count stops changing.
func (s *session) pass() error {
	s.iter = 0
	for s.iter < s.opts.MaxIterations {
		last := s.ntk.NumLatches()
		s.st.Reset()
		if s.dir == flow.Backward {
			s.addInitBias()
		}
		s.markBlocks()
		if s.opts.MaxDelay > 0 {
			if err := s.pushWithTiming(); err != nil {
				return err
			}
		} else {
			s.flows(false)
		}
		if s.dir == flow.Backward {
			s.removeInitBias()
		}
		cut := s.implementCut()
		s.iter++
		if cut == last {
			break
		}
	}

	return nil
}

// backward runs the backward pass, retrying from the pre-backward network
// with a new init constraint each time the reset state is unsatisfiable.
func (s *session) backward() error {
	s.dir = flow.Backward
	s.snapshot = s.ntk.Dup()
	lags := s.st.Lags()
	s.constraints = nil

	for attempt := 0; ; attempt++ {
		if attempt > 0 {
			s.ntk = s.snapshot.Dup()
			s.st.RestoreLags(lags)
		}
		if s.opts.ComputeInit {
			s.setupBackwardInit()
		}
		if err := s.pass(); err != nil {
			return err
		}
		s.result.BackwardIterations += s.iter
		if !s.opts.ComputeInit {
			return nil
		}

		ok, err := s.solveBackwardInit()
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		if !s.opts.GuaranteeInit {
			s.log.Warn("backward reset state is unsatisfiable; latches set to don't-care")
			s.clearInit()
			s.result.Degraded = true
			return nil
		}

		c, found, err := s.constrainInit()
		if err != nil {
			return err
		}
		if !found || s.knownConstraint(c) || len(s.constraints) >= s.opts.MaxInitConstraints {
			s.log.WithField("constraints", len(s.constraints)).
				Warn("backward reset state stays unsatisfiable; backward retiming undone")
			s.ntk = s.snapshot.Dup()
			s.st.RestoreLags(lags)
			s.result.Reverted = true
			return nil
		}
		s.constraints = append(s.constraints, c)
		s.result.InitConstraints = len(s.constraints)
		s.result.Constraints = append([]InitConstraint(nil), s.constraints...)
		s.log.WithFields(logrus.Fields{
			"node": c.Nodes[0].Node,
			"lag":  c.Nodes[0].Lag,
		}).Info("init conflict recorded; retrying backward pass")
	}
}

// logInitState reports how many latches hold each reset value.
func (s *session) logInitState() {
	var zero, one, dc int
	for _, l := range s.ntk.Latches() {
		switch s.ntk.LatchInit(l) {
		case netlist.InitZero:
			zero++
		case netlist.InitOne:
			one++
		default:
			dc++
		}
	}
	s.log.WithFields(logrus.Fields{
		"pass":    s.dir.String(),
		"latches": zero + one + dc,
		"zero":    zero,
		"one":     one,
		"dc":      dc,
	}).Info("init state")
}

func (s *session) knownConstraint(c InitConstraint) bool {
	for _, x := range s.constraints {
		if x.equal(c) {
			return true
		}
	}
	return false
}

// restrash merges duplicate gates of a hashed network and remaps the lags.
func (s *session) restrash() error {
	if !s.ntk.Hashed() {
		return nil
	}
	remap, err := s.ntk.Restrash()
	if err != nil {
		return errors.Wrap(err, "retime: restrash")
	}
	s.st.Remap(remap, s.ntk.Size())

	return nil
}
