// File: verify.go
// Role: Path-latency verifier run between latch insertion and box repair.
// Model:
//   - While a cut is being implemented every old latch is detached and its
//     BoxOut reads the BoxIn directly, so BoxOuts and POs are path ends.
//   - For each start the verifier collects the set of latch counts (0, 1 or
//     2+) over all paths to BoxOuts and to POs; nodes without fanouts that
//     are not POs end no path and impose nothing.

package retime

import (
	"github.com/katalvlaran/fretime/flow"
	"github.com/katalvlaran/fretime/netlist"
)

// countMask is a bit set over latch counts: bit 0 = none, bit 1 = one,
// bit 2 = two or more.
type countMask uint8

func (m countMask) shift() countMask {
	out := (m & 1) << 1
	if m&(2|4) != 0 {
		out |= 4
	}
	return out
}

func (m countMask) counts() []int {
	var out []int
	for i := 0; i < 3; i++ {
		if m&(1<<i) != 0 {
			out = append(out, i)
		}
	}
	return out
}

type latency struct {
	toBox, toPO countMask
}

type verifier struct {
	n     *netlist.Network
	memo  map[netlist.ID]latency
	state map[netlist.ID]bool // true while on the DFS stack
}

// VerifyPathLatencies checks the latch counts of a network in the middle of
// a cut. Moving forward every path leaving a BoxOut must carry exactly one
// latch to the next BoxOut or PO. Moving backward the same holds towards
// BoxOuts, paths from BoxOuts to POs carry none, and paths from PIs carry one
// latch to BoxOuts and none to POs.
// Complexity: O(V + E).
func VerifyPathLatencies(n *netlist.Network, dir flow.Direction) error {
	v := &verifier{n: n, memo: make(map[netlist.ID]latency), state: make(map[netlist.ID]bool)}
	for _, id := range n.Nodes() {
		start := n.IsBoxOut(id) || (dir == flow.Backward && n.IsPI(id))
		if !start {
			continue
		}
		lat, err := v.from(id)
		if err != nil {
			return err
		}
		wantPO := countMask(2)
		if dir == flow.Backward {
			wantPO = 1
		}
		if lat.toBox&^2 != 0 {
			return &PathLatencyError{Start: id, Latches: lat.toBox.counts()}
		}
		if lat.toPO&^wantPO != 0 {
			return &PathLatencyError{Start: id, ToOutput: true, Latches: lat.toPO.counts()}
		}
	}

	return nil
}

// from collects the latch counts over paths leaving id, counting id itself
// when it is a latch.
func (v *verifier) from(id netlist.ID) (latency, error) {
	if lat, ok := v.memo[id]; ok {
		return lat, nil
	}
	if v.state[id] {
		return latency{}, &PathLatencyError{Start: id}
	}
	v.state[id] = true
	self := countMask(1)
	if v.n.IsLatch(id) {
		self = 2
	}
	var lat latency
	for _, w := range v.n.Fanouts(id) {
		switch {
		case v.n.IsBoxOut(w):
			lat.toBox |= self
		case v.n.IsPO(w):
			lat.toPO |= self
		default:
			sub, err := v.from(w)
			if err != nil {
				return latency{}, err
			}
			if self == 2 {
				sub.toBox, sub.toPO = sub.toBox.shift(), sub.toPO.shift()
			}
			lat.toBox |= sub.toBox
			lat.toPO |= sub.toPO
		}
	}
	delete(v.state, id)
	v.memo[id] = lat

	return lat, nil
}
