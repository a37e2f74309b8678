// File: options.go
// Role: Session configuration and functional options.

package retime

import (
	"github.com/sirupsen/logrus"

	"github.com/katalvlaran/fretime/netlist"
	"github.com/katalvlaran/fretime/sat"
)

// Direction selects which retiming passes a session runs.
type Direction uint8

const (
	// Both runs the forward pass, then the backward pass.
	Both Direction = iota
	// ForwardOnly skips the backward pass.
	ForwardOnly
	// BackwardOnly skips the forward pass.
	BackwardOnly
)

// String implements fmt.Stringer.
func (d Direction) String() string {
	switch d {
	case ForwardOnly:
		return "forward"
	case BackwardOnly:
		return "backward"
	}
	return "both"
}

// Options configures a retiming session.
type Options struct {
	// Verbose raises the default logger to Info.
	Verbose bool
	// MaxDelay bounds the combinational path length; 0 disables timing.
	MaxDelay int
	// ConservativeOnly skips the exact refinement under MaxDelay: every node
	// failing the approximate bound stays a sink. Faster, possibly more
	// latches.
	ConservativeOnly bool
	// Direction selects the passes to run.
	Direction Direction
	// MaxIterations bounds the iterations of each pass (and of init retries).
	MaxIterations int
	// ComputeInit derives reset values for moved latches; when false every
	// latch ends up don't-care.
	ComputeInit bool
	// GuaranteeInit retries the backward pass with conflict constraints
	// instead of giving up on an unsatisfiable reset state.
	GuaranteeInit bool
	// BlockConst keeps latches from moving backward past constant gates.
	BlockConst bool
	// MaxInitConstraints bounds the number of recorded init conflicts;
	// 0 means MaxIterations.
	MaxInitConstraints int
	// Check runs the path-latency verifier after every cut and panics on a
	// violation.
	Check bool

	// Solver answers the backward initial-state queries.
	Solver sat.Solver
	// Evaluator is the ternary simulator used by the forward init update.
	Evaluator netlist.Evaluator
	// Logger receives progress and warnings.
	Logger logrus.FieldLogger
}

// Option mutates Options.
type Option func(o *Options)

// DefaultOptions returns the settings used when no option is given: both
// passes, unbounded delay, 999 iterations, init computation on without the
// guarantee, the gini solver and the ternary evaluator.
func DefaultOptions() Options {
	return Options{
		Direction:     Both,
		MaxIterations: 999,
		ComputeInit:   true,
		Solver:        sat.NewGini(),
		Evaluator:     netlist.TernaryEvaluator{},
	}
}

// WithVerbose toggles Info-level progress logging on the default logger.
func WithVerbose(v bool) Option {
	return func(o *Options) { o.Verbose = v }
}

// WithMaxDelay sets the delay bound; 0 disables delay-constrained retiming.
func WithMaxDelay(d int) Option {
	return func(o *Options) { o.MaxDelay = d }
}

// WithConservativeOnly toggles the fast conservative timing mode.
func WithConservativeOnly(on bool) Option {
	return func(o *Options) { o.ConservativeOnly = on }
}

// WithDirection selects the passes to run.
func WithDirection(d Direction) Option {
	return func(o *Options) { o.Direction = d }
}

// WithMaxIterations bounds the iterations of each pass. Non-positive values
// are ignored.
func WithMaxIterations(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.MaxIterations = n
		}
	}
}

// WithInitState toggles reset-value computation.
func WithInitState(on bool) Option {
	return func(o *Options) { o.ComputeInit = on }
}

// WithGuaranteeInit toggles conflict-driven retries of the backward pass.
func WithGuaranteeInit(on bool) Option {
	return func(o *Options) { o.GuaranteeInit = on }
}

// WithBlockConst keeps constant gates out of the backward-moved region.
func WithBlockConst(on bool) Option {
	return func(o *Options) { o.BlockConst = on }
}

// WithMaxInitConstraints bounds the recorded init conflicts.
func WithMaxInitConstraints(n int) Option {
	return func(o *Options) { o.MaxInitConstraints = n }
}

// WithCheck enables the path-latency verifier after every cut.
func WithCheck(on bool) Option {
	return func(o *Options) { o.Check = on }
}

// WithSolver replaces the SAT backend.
func WithSolver(s sat.Solver) Option {
	return func(o *Options) { o.Solver = s }
}

// WithEvaluator replaces the ternary simulator.
func WithEvaluator(e netlist.Evaluator) Option {
	return func(o *Options) { o.Evaluator = e }
}

// WithLogger routes session logging to l.
func WithLogger(l logrus.FieldLogger) Option {
	return func(o *Options) { o.Logger = l }
}

// logger returns the configured logger or a stderr logger at Warn (Info
// when verbose).
func (o *Options) logger() logrus.FieldLogger {
	if o.Logger != nil {
		return o.Logger
	}
	l := logrus.New()
	l.SetLevel(logrus.WarnLevel)
	if o.Verbose {
		l.SetLevel(logrus.InfoLevel)
	}
	return l
}
