// Package fretime is a minimum-register retiming engine for gate-level
// sequential netlists.
//
// Retiming moves latches across combinational gates without changing what the
// circuit computes cycle by cycle. fretime looks for the placement with the
// fewest latches by solving a sequence of maximum-flow / minimum-cut problems,
// first moving latches forward (towards the outputs), then backward (towards
// the inputs), optionally under a bound on the longest combinational path.
// Moved latches get reset values that keep the circuit equivalent from the
// first cycle: by ternary simulation going forward and by SAT going backward.
//
// Everything is organized under these subpackages:
//
//	netlist/  Network arena: PIs, POs, gates, latches and their BoxIn/BoxOut
//	          brackets, edge editing, Dup, Restrash, Simulate
//	flow/     split-node residual graph, fast and plain augmenting paths,
//	          min-cut extraction and the per-node label store
//	retime/   MinRegRetime: forward and backward passes, cut implementation,
//	          delay constraints, initial-state computation
//	sat/      the Solver interface and its gini-backed implementation
//	netfile/  YAML netlist reader and writer
//	cmd/      the fretime command line tool
//
// Quick ASCII example:
//
//	           ┌─ L ─ y0
//	a ─┐       │
//	   AND ────┼─ L ─ y1        ==>   a ─┐
//	b ─┘       │                         AND ─ L ─┬─ y0
//	           └─ L ─ y2                 b ─┘     ├─ y1
//	                                              └─ y2
//
//	three latches loading the same gate collapse into one in front of it.
//
//	go install github.com/katalvlaran/fretime/cmd/fretime@latest
package fretime
