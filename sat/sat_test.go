package sat_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/fretime/netlist"
	"github.com/katalvlaran/fretime/sat"
)

// eval checks an assignment by simulating the query network for one cycle.
func eval(t *testing.T, n *netlist.Network, a sat.Assignment) netlist.Value {
	t.Helper()
	vec := make([]netlist.Value, 0, len(n.PIs()))
	for _, pi := range n.PIs() {
		vec = append(vec, netlist.Bool(a[pi]))
	}
	out, err := n.Simulate(nil, [][]netlist.Value{vec})
	require.NoError(t, err)
	return out[0][0]
}

func TestGiniFindsModel(t *testing.T) {
	// (a XOR b) AND NOT c AND (a OR c)
	n := netlist.New()
	a, b, c := n.AddPI("a"), n.AddPI("b"), n.AddPI("c")
	x, _ := n.AddGate(netlist.OpXor, a, b)
	nc, _ := n.AddGate(netlist.OpNot, c)
	o, _ := n.AddGate(netlist.OpOr, a, c)
	g, _ := n.AddGate(netlist.OpAnd, x, nc, o)
	_, _ = n.AddPO("ok", g)

	model, ok, err := sat.NewGini().Solve(n)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, model, 3)
	require.True(t, model[a])
	require.False(t, model[b])
	require.False(t, model[c])
	require.Equal(t, netlist.One, eval(t, n, model))
}

func TestGiniContradiction(t *testing.T) {
	// p AND NOT p through a shared buffer.
	n := netlist.New()
	p := n.AddPI("p")
	buf, _ := n.AddGate(netlist.OpBuf, p)
	inv, _ := n.AddGate(netlist.OpNot, buf)
	g, _ := n.AddGate(netlist.OpAnd, buf, inv)
	_, _ = n.AddPO("ok", g)

	_, ok, err := sat.NewGini().Solve(n)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestGiniNandXnor(t *testing.T) {
	n := netlist.New()
	a, b := n.AddPI("a"), n.AddPI("b")
	nd, _ := n.AddGate(netlist.OpNand, a, b)
	xn, _ := n.AddGate(netlist.OpXnor, a, b)
	g, _ := n.AddGate(netlist.OpAnd, nd, xn)
	_, _ = n.AddPO("ok", g)

	model, ok, err := sat.NewGini().Solve(n)
	require.NoError(t, err)
	require.True(t, ok)
	require.False(t, model[a])
	require.False(t, model[b])
}

func TestGiniConstantOutputs(t *testing.T) {
	n := netlist.New()
	free := n.AddPI("free")
	one, _ := n.AddGate(netlist.OpConst1)
	_, _ = n.AddPO("ok", one)
	model, ok, err := sat.NewGini().Solve(n)
	require.NoError(t, err)
	require.True(t, ok)
	require.Contains(t, model, free)

	m := netlist.New()
	zero, _ := m.AddGate(netlist.OpConst0)
	_, _ = m.AddPO("ok", zero)
	_, ok, err = sat.NewGini().Solve(m)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestGiniRejectsBadShape(t *testing.T) {
	n := netlist.New()
	a := n.AddPI("a")
	_, _ = n.AddPO("y1", a)
	_, _ = n.AddPO("y2", a)
	_, _, err := sat.NewGini().Solve(n)
	require.ErrorIs(t, err, sat.ErrNotSingleOutput)

	m := netlist.New()
	l := m.AddLatch(netlist.InitZero)
	require.NoError(t, m.ConnectLatch(l, m.AddPI("d")))
	_, _ = m.AddPO("q", m.LatchOutput(l))
	_, _, err = sat.NewGini().Solve(m)
	require.ErrorIs(t, err, sat.ErrSequential)
}
