package netlist_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/katalvlaran/fretime/netlist"
)

// NetworkSuite exercises construction, editing and whole-network operations.
type NetworkSuite struct {
	suite.Suite
}

func TestNetworkSuite(t *testing.T) {
	suite.Run(t, new(NetworkSuite))
}

// pipeline builds PI a -> AND(a, b) -> latch -> NOT -> PO.
func pipeline(t *testing.T) (*netlist.Network, map[string]netlist.ID) {
	t.Helper()
	n := netlist.New(netlist.WithName("pipe"))
	a := n.AddPI("a")
	b := n.AddPI("b")
	g, err := n.AddGate(netlist.OpAnd, a, b)
	require.NoError(t, err)
	l := n.AddLatch(netlist.InitOne)
	require.NoError(t, n.ConnectLatch(l, g))
	inv, err := n.AddGate(netlist.OpNot, n.LatchOutput(l))
	require.NoError(t, err)
	po, err := n.AddPO("y", inv)
	require.NoError(t, err)

	return n, map[string]netlist.ID{"a": a, "b": b, "g": g, "l": l, "inv": inv, "y": po}
}

func (s *NetworkSuite) TestLatchBracket() {
	n, ids := pipeline(s.T())
	l := ids["l"]
	bi, bo := n.LatchInput(l), n.LatchOutput(l)
	require.True(s.T(), n.IsBoxIn(bi))
	require.True(s.T(), n.IsBoxOut(bo))
	require.Equal(s.T(), ids["g"], n.Fanin0(bi))
	require.Equal(s.T(), netlist.InitOne, n.LatchInit(l))
	require.Equal(s.T(), 1, n.NumLatches())
	require.NoError(s.T(), n.Check())
}

func (s *NetworkSuite) TestDeleteNodeWithFanouts() {
	n, ids := pipeline(s.T())
	err := n.DeleteNode(ids["g"])
	require.ErrorIs(s.T(), err, netlist.ErrHasFanouts)

	err = n.DeleteNode(netlist.ID(999))
	require.ErrorIs(s.T(), err, netlist.ErrNodeNotFound)
}

func (s *NetworkSuite) TestPatchAndTransfer() {
	n, ids := pipeline(s.T())
	c := n.AddPI("c")

	require.NoError(s.T(), n.PatchFanin(ids["g"], ids["b"], c))
	require.Empty(s.T(), cmp.Diff([]netlist.ID{ids["a"], c}, n.Fanins(ids["g"])))
	require.Zero(s.T(), n.NumFanouts(ids["b"]))
	require.Equal(s.T(), 1, n.NumFanouts(c))

	err := n.PatchFanin(ids["g"], ids["b"], c)
	require.ErrorIs(s.T(), err, netlist.ErrFaninNotFound)

	buf, err := n.AddGate(netlist.OpBuf, ids["a"])
	require.NoError(s.T(), err)
	require.NoError(s.T(), n.TransferFanout(ids["a"], c))
	require.Zero(s.T(), n.NumFanouts(ids["a"]))
	require.Equal(s.T(), c, n.Fanin0(buf))
	require.NoError(s.T(), n.DeleteNode(buf))
	require.NoError(s.T(), n.Check())
}

func (s *NetworkSuite) TestParallelEdges() {
	n := netlist.New()
	a := n.AddPI("a")
	g, err := n.AddGate(netlist.OpAnd, a, a)
	require.NoError(s.T(), err)
	_, err = n.AddPO("y", g)
	require.NoError(s.T(), err)
	require.Equal(s.T(), 2, n.NumFanouts(a))

	require.NoError(s.T(), n.RemoveFanin(g, a))
	require.Equal(s.T(), 1, n.NumFanouts(a))
	require.NoError(s.T(), n.Check())
}

func (s *NetworkSuite) TestTopoOrderRespectsFanins() {
	n, _ := pipeline(s.T())
	order, err := n.TopoOrder()
	require.NoError(s.T(), err)
	require.Len(s.T(), order, n.NumNodes())

	pos := make(map[netlist.ID]int, len(order))
	for i, id := range order {
		pos[id] = i
	}
	for _, id := range order {
		if n.IsLatch(id) {
			continue
		}
		for _, f := range n.Fanins(id) {
			require.Less(s.T(), pos[f], pos[id], "fanin %d must precede %d", f, id)
		}
	}
}

func (s *NetworkSuite) TestCombLoopDetected() {
	n := netlist.New()
	a := n.AddPI("a")
	g1, _ := n.AddGate(netlist.OpAnd, a)
	g2, _ := n.AddGate(netlist.OpNot, g1)
	n.AddFanin(g1, g2)

	_, err := n.TopoOrder()
	require.ErrorIs(s.T(), err, netlist.ErrCombLoop)
	require.Error(s.T(), n.Check())
}

func (s *NetworkSuite) TestLoopThroughLatchIsFine() {
	n := netlist.New()
	a := n.AddPI("a")
	l := n.AddLatch(netlist.InitZero)
	g, _ := n.AddGate(netlist.OpXor, a, n.LatchOutput(l))
	require.NoError(s.T(), n.ConnectLatch(l, g))
	_, _ = n.AddPO("y", g)

	require.NoError(s.T(), n.Check())
}

func (s *NetworkSuite) TestDupIsIndependent() {
	n, ids := pipeline(s.T())
	c := n.Dup()
	require.Equal(s.T(), n.NumNodes(), c.NumNodes())
	require.Empty(s.T(), cmp.Diff(n.Fanins(ids["g"]), c.Fanins(ids["g"])))

	x := c.AddPI("x")
	require.NoError(s.T(), c.PatchFanin(ids["g"], ids["a"], x))
	require.Equal(s.T(), ids["a"], n.Fanin0(ids["g"]))
	require.False(s.T(), n.Has(x))
}

func (s *NetworkSuite) TestRenumberKeepsStructure() {
	n, ids := pipeline(s.T())
	extra := n.AddPI("dead")
	require.NoError(s.T(), n.DeleteNode(extra))

	before, err := n.Simulate(nil, [][]netlist.Value{{netlist.One, netlist.One}, {netlist.One, netlist.Zero}})
	require.NoError(s.T(), err)

	remap, err := n.Renumber()
	require.NoError(s.T(), err)
	require.Equal(s.T(), netlist.Nil, remap[extra])
	require.Equal(s.T(), n.NumNodes()+1, n.Size())
	require.True(s.T(), n.IsLatch(remap[ids["l"]]))
	require.NoError(s.T(), n.Check())

	after, err := n.Simulate(nil, [][]netlist.Value{{netlist.One, netlist.One}, {netlist.One, netlist.Zero}})
	require.NoError(s.T(), err)
	require.Empty(s.T(), cmp.Diff(before, after))
}

func (s *NetworkSuite) TestRestrashMergesCommutedGates() {
	n := netlist.New(netlist.WithHashing())
	a := n.AddPI("a")
	b := n.AddPI("b")
	g1, _ := n.AddGate(netlist.OpAnd, a, b)
	g2, _ := n.AddGate(netlist.OpAnd, b, a)
	o, _ := n.AddGate(netlist.OpXor, g1, g2)
	dead, _ := n.AddGate(netlist.OpOr, a, b)
	_, _ = n.AddPO("y", o)

	remap, err := n.Restrash()
	require.NoError(s.T(), err)
	require.Equal(s.T(), remap[g1], remap[g2])
	require.Equal(s.T(), netlist.Nil, remap[dead])
	require.Len(s.T(), n.Gates(), 2)
	require.Equal(s.T(), []netlist.ID{remap[g1], remap[g1]}, n.Fanins(remap[o]))
	require.NoError(s.T(), n.Check())
}

func (s *NetworkSuite) TestLevel() {
	n, _ := pipeline(s.T())
	lvl, err := n.Level()
	require.NoError(s.T(), err)
	require.Equal(s.T(), 1, lvl)

	rev, err := n.LevelReverse()
	require.NoError(s.T(), err)
	require.Equal(s.T(), 1, rev)
}

func (s *NetworkSuite) TestSimulateDelaysByOneCycle() {
	n, _ := pipeline(s.T())
	in := [][]netlist.Value{
		{netlist.One, netlist.One},
		{netlist.Zero, netlist.One},
		{netlist.One, netlist.One},
	}
	out, err := n.Simulate(nil, in)
	require.NoError(s.T(), err)
	// y(t) = NOT(a(t-1) AND b(t-1)), y(0) = NOT(init 1).
	want := [][]netlist.Value{{netlist.Zero}, {netlist.Zero}, {netlist.One}}
	require.Empty(s.T(), cmp.Diff(want, out))

	_, err = n.Simulate(nil, [][]netlist.Value{{netlist.One}})
	require.Error(s.T(), err)
}

func TestEvalIsSound(t *testing.T) {
	vals := []netlist.Value{netlist.Zero, netlist.One, netlist.X}
	ops := []netlist.Op{
		netlist.OpAnd, netlist.OpOr, netlist.OpNand, netlist.OpNor,
		netlist.OpXor, netlist.OpXnor, netlist.OpBuf, netlist.OpNot,
	}
	concretize := func(v netlist.Value) []netlist.Value {
		if v == netlist.X {
			return []netlist.Value{netlist.Zero, netlist.One}
		}
		return []netlist.Value{v}
	}
	for _, op := range ops {
		for _, x := range vals {
			for _, y := range vals {
				ins := []netlist.Value{x, y}
				if _, hi := op.Arity(); hi == 1 {
					ins = ins[:1]
				}
				got := netlist.Eval(op, ins)

				seen := map[netlist.Value]bool{}
				for _, cx := range concretize(ins[0]) {
					if len(ins) == 1 {
						seen[netlist.Eval(op, []netlist.Value{cx})] = true
						continue
					}
					for _, cy := range concretize(ins[1]) {
						seen[netlist.Eval(op, []netlist.Value{cx, cy})] = true
					}
				}
				if got != netlist.X {
					require.Len(t, seen, 1, "%s%v claims %s", op, ins, got)
					require.True(t, seen[got], "%s%v claims %s", op, ins, got)
				} else {
					require.Len(t, seen, 2, "%s%v is needlessly X", op, ins)
				}
			}
		}
	}
}

func TestAndControllingZero(t *testing.T) {
	require.Equal(t, netlist.Zero, netlist.Eval(netlist.OpAnd, []netlist.Value{netlist.X, netlist.Zero}))
	require.Equal(t, netlist.One, netlist.Eval(netlist.OpOr, []netlist.Value{netlist.One, netlist.X}))
	require.Equal(t, netlist.X, netlist.Eval(netlist.OpAnd, []netlist.Value{netlist.X, netlist.One}))
	require.Equal(t, netlist.InitDC, netlist.InitOf(netlist.X))
	require.Equal(t, netlist.Zero, netlist.InitZero.Value())
}
