package retime_test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/fretime/flow"
	"github.com/katalvlaran/fretime/netlist"
	"github.com/katalvlaran/fretime/retime"
)

// detached builds a -> BI -> BO, the shape of an old latch in the middle of
// a cut, followed by k fresh latches, a NOT and a PO.
func detached(t *testing.T, k int) *netlist.Network {
	n := netlist.New()
	a := n.AddPI("a")
	bi := n.CreateNode(netlist.KindBoxIn, netlist.OpNone)
	bo := n.CreateNode(netlist.KindBoxOut, netlist.OpNone)
	n.AddFanin(bi, a)
	n.AddFanin(bo, bi)
	sig := bo
	for i := 0; i < k; i++ {
		l := n.CreateNode(netlist.KindLatch, netlist.OpNone)
		n.AddFanin(l, sig)
		sig = l
	}
	inv, err := n.AddGate(netlist.OpNot, sig)
	require.NoError(t, err)
	_, err = n.AddPO("y", inv)
	require.NoError(t, err)
	return n
}

func TestVerifyPathLatencies(t *testing.T) {
	require.NoError(t, retime.VerifyPathLatencies(detached(t, 1), flow.Forward))

	err := retime.VerifyPathLatencies(detached(t, 0), flow.Forward)
	require.ErrorIs(t, err, retime.ErrLatencyViolation)
	var pe *retime.PathLatencyError
	require.True(t, errors.As(err, &pe))
	require.True(t, pe.ToOutput)
	require.Equal(t, []int{0}, pe.Latches)

	err = retime.VerifyPathLatencies(detached(t, 2), flow.Forward)
	require.True(t, errors.As(err, &pe))
	require.Equal(t, []int{2}, pe.Latches)

	// Backward, a PI reaching a box output without a latch is a violation.
	err = retime.VerifyPathLatencies(detached(t, 0), flow.Backward)
	require.True(t, errors.As(err, &pe))
	require.False(t, pe.ToOutput)
	require.Equal(t, []int{0}, pe.Latches)
}
