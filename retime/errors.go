// File: errors.go
// Role: Sentinel errors and the path-latency violation report.

package retime

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/katalvlaran/fretime/netlist"
)

// Sentinel errors returned before the network is modified.
var (
	// ErrOpaqueBox indicates a box other than a latch bracket.
	ErrOpaqueBox = errors.New("retime: network contains non-latch boxes")

	// ErrDelayTooSmall indicates a delay bound below the current logic depth.
	ErrDelayTooSmall = errors.New("retime: max delay is below the current logic level")

	// ErrLatencyViolation indicates a cut that changed some path's latch count.
	ErrLatencyViolation = errors.New("retime: path latency violated")
)

// PathLatencyError describes the first path-latency violation found.
type PathLatencyError struct {
	// Start is the box output or PI the offending paths leave from.
	Start netlist.ID
	// ToOutput is set when the paths end at POs rather than box outputs.
	ToOutput bool
	// Latches lists the latch counts seen (2 stands for "two or more").
	Latches []int
}

// Error implements error.
func (e *PathLatencyError) Error() string {
	if e.Latches == nil {
		return fmt.Sprintf("%v: node %d lies on a cycle without box outputs", ErrLatencyViolation, e.Start)
	}
	end := "box outputs"
	if e.ToOutput {
		end = "outputs"
	}
	return fmt.Sprintf("%v: paths from node %d to %s carry %v latches", ErrLatencyViolation, e.Start, end, e.Latches)
}

// Unwrap lets errors.Is match ErrLatencyViolation.
func (e *PathLatencyError) Unwrap() error { return ErrLatencyViolation }
