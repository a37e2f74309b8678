package retime_test

import (
	"fmt"

	"github.com/katalvlaran/fretime/netlist"
	"github.com/katalvlaran/fretime/retime"
)

// ExampleMinRegRetime merges the three latches loading one AND gate into a
// single latch in front of their shared fanout.
func ExampleMinRegRetime() {
	n := netlist.New(netlist.WithName("fanout3"))
	a, b := n.AddPI("a"), n.AddPI("b")
	g, _ := n.AddGate(netlist.OpAnd, a, b)
	for _, name := range []string{"y0", "y1", "y2"} {
		l := n.AddLatch(netlist.InitZero)
		_ = n.ConnectLatch(l, g)
		_, _ = n.AddPO(name, n.LatchOutput(l))
	}

	out, res, err := retime.MinRegRetime(n)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println("latches:", res.InitialLatches, "->", res.FinalLatches)
	fmt.Println("init:", out.LatchInit(out.Latches()[0]))
	// Output:
	// latches: 3 -> 1
	// init: 0
}
