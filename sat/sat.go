// File: sat.go
// Role: The satisfiability capability used by initial-state solving.

package sat

import (
	"github.com/pkg/errors"

	"github.com/katalvlaran/fretime/netlist"
)

// Sentinel errors for SAT queries.
var (
	// ErrNotSingleOutput indicates the query network does not have exactly one PO.
	ErrNotSingleOutput = errors.New("sat: network must have exactly one output")

	// ErrSequential indicates the query network contains latches.
	ErrSequential = errors.New("sat: network must be combinational")

	// ErrUnsupported indicates a node kind or operator the encoder cannot express.
	ErrUnsupported = errors.New("sat: unsupported node")
)

// Assignment maps every PI of a query network to a Boolean value.
type Assignment map[netlist.ID]bool

// Solver decides whether the single output of a combinational network can
// be driven to 1. On success it returns an assignment to the PIs; ok is
// false when the output is unsatisfiable.
type Solver interface {
	Solve(n *netlist.Network) (a Assignment, ok bool, err error)
}

// validate checks the shape of a query network.
func validate(n *netlist.Network) error {
	if len(n.POs()) != 1 {
		return errors.Wrapf(ErrNotSingleOutput, "got %d", len(n.POs()))
	}
	if n.NumLatches() != 0 {
		return errors.Wrapf(ErrSequential, "got %d latches", n.NumLatches())
	}
	return nil
}
