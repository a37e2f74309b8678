package netlist_test

import (
	"fmt"

	"github.com/katalvlaran/fretime/netlist"
)

// ExampleNetwork builds a one-latch toggle and simulates three cycles.
func ExampleNetwork() {
	n := netlist.New(netlist.WithName("toggle"))
	en := n.AddPI("en")
	l := n.AddLatch(netlist.InitZero)
	q := n.LatchOutput(l)
	next, _ := n.AddGate(netlist.OpXor, en, q)
	_ = n.ConnectLatch(l, next)
	_, _ = n.AddPO("q", q)

	out, _ := n.Simulate(nil, [][]netlist.Value{{netlist.One}, {netlist.One}, {netlist.Zero}})
	for t, row := range out {
		if t > 0 {
			fmt.Print(" ")
		}
		fmt.Print(row[0])
	}
	fmt.Println()
	fmt.Println("check:", n.Check())

	// Output:
	// 0 1 0
	// check: <nil>
}
