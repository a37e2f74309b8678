package flow_test

import (
	"math/rand"
	"testing"

	"github.com/katalvlaran/fretime/flow"
	"github.com/katalvlaran/fretime/netlist"
)

// buildRandomNetlist constructs a sequential netlist with the given number of
// latches and gates; every gate reads two random earlier signals.
func buildRandomNetlist(latches, gates int, seed int64) *netlist.Network {
	r := rand.New(rand.NewSource(seed))
	n := netlist.New()
	pool := []netlist.ID{n.AddPI("a"), n.AddPI("b")}
	ls := make([]netlist.ID, latches)
	for i := range ls {
		ls[i] = n.AddLatch(netlist.InitZero)
		pool = append(pool, n.LatchOutput(ls[i]))
	}
	for i := 0; i < gates; i++ {
		g, _ := n.AddGate(netlist.OpAnd, pool[r.Intn(len(pool))], pool[r.Intn(len(pool))])
		pool = append(pool, g)
	}
	for _, l := range ls {
		_ = n.ConnectLatch(l, pool[2+r.Intn(len(pool)-2)])
	}
	_, _ = n.AddPO("y", pool[len(pool)-1])
	return n
}

// BenchmarkPushFlows measures one forward and one backward flow problem on
// netlists of increasing size.
func BenchmarkPushFlows(b *testing.B) {
	cases := []struct {
		name           string
		latches, gates int
	}{
		{"Small", 50, 500},
		{"Medium", 200, 4000},
		{"Large", 1000, 20000},
	}
	for _, tc := range cases {
		n := buildRandomNetlist(tc.latches, tc.gates, 42)
		for _, dir := range []flow.Direction{flow.Forward, flow.Backward} {
			b.Run(tc.name+"/"+dir.String(), func(b *testing.B) {
				st := flow.NewStore(n.Size())
				b.ResetTimer()
				for i := 0; i < b.N; i++ {
					st.ResetFlows()
					flow.PushFlows(n, st, flow.Config{Direction: dir})
				}
			})
		}
	}
}
