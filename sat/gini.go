// File: gini.go
// Role: Solver backed by github.com/go-air/gini with Tseitin encoding via
//       gini/logic.

package sat

import (
	"github.com/go-air/gini"
	"github.com/go-air/gini/logic"
	"github.com/go-air/gini/z"
	"github.com/pkg/errors"

	"github.com/katalvlaran/fretime/netlist"
)

// Gini is the default Solver. The zero value is ready to use; each Solve
// call builds a fresh circuit and solver.
type Gini struct{}

// NewGini returns a gini-backed Solver.
func NewGini() *Gini { return &Gini{} }

// Solve implements Solver.
//
// Steps:
//  1. Encode nodes in topological order into a logic.C circuit; PIs become
//     circuit inputs, gates become AND/OR/XOR structures over their fanins.
//  2. Emit the circuit as CNF, pin the constant-true literal and assert the
//     output literal.
//  3. Solve and read back the input values.
//
// Complexity: encoding O(V + E); solving is exponential in the worst case.
func (*Gini) Solve(n *netlist.Network) (Assignment, bool, error) {
	if err := validate(n); err != nil {
		return nil, false, err
	}
	order, err := n.TopoOrder()
	if err != nil {
		return nil, false, err
	}

	c := logic.NewC()
	lit := make([]z.Lit, n.Size())
	ins := make([]z.Lit, 0, 4)
	for _, id := range order {
		ins = ins[:0]
		for _, f := range n.Fanins(id) {
			ins = append(ins, lit[f])
		}
		switch n.Kind(id) {
		case netlist.KindPI:
			lit[id] = c.Lit()
		case netlist.KindPO, netlist.KindBoxIn, netlist.KindBoxOut:
			if len(ins) != 1 {
				return nil, false, errors.Wrapf(ErrUnsupported, "node %d (%s) has %d fanins", id, n.Kind(id), len(ins))
			}
			lit[id] = ins[0]
		case netlist.KindGate:
			l, err := encode(c, n.Op(id), ins)
			if err != nil {
				return nil, false, errors.Wrapf(err, "node %d", id)
			}
			lit[id] = l
		default:
			return nil, false, errors.Wrapf(ErrUnsupported, "node %d is %s", id, n.Kind(id))
		}
	}

	out := lit[n.POs()[0]]
	if out == c.F {
		return nil, false, nil
	}
	g := gini.New()
	c.ToCnf(g)
	g.Add(c.T)
	g.Add(0)
	g.Add(out)
	g.Add(0)
	if g.Solve() != 1 {
		return nil, false, nil
	}

	a := make(Assignment, len(n.PIs()))
	for _, pi := range n.PIs() {
		m := lit[pi]
		a[pi] = m.Var() <= g.MaxVar() && g.Value(m)
	}

	return a, true, nil
}

// encode builds the literal of a gate over its fanin literals.
func encode(c *logic.C, op netlist.Op, ins []z.Lit) (z.Lit, error) {
	switch op {
	case netlist.OpConst0:
		return c.F, nil
	case netlist.OpConst1:
		return c.T, nil
	case netlist.OpBuf:
		if len(ins) == 1 {
			return ins[0], nil
		}
	case netlist.OpNot:
		if len(ins) == 1 {
			return ins[0].Not(), nil
		}
	case netlist.OpAnd:
		return c.Ands(ins...), nil
	case netlist.OpNand:
		return c.Ands(ins...).Not(), nil
	case netlist.OpOr:
		return c.Ors(ins...), nil
	case netlist.OpNor:
		return c.Ors(ins...).Not(), nil
	case netlist.OpXor, netlist.OpXnor:
		x := c.F
		for _, m := range ins {
			x = c.Xor(x, m)
		}
		if op == netlist.OpXnor {
			x = x.Not()
		}
		return x, nil
	}

	return z.LitNull, errors.Wrapf(ErrUnsupported, "operator %s over %d inputs", op, len(ins))
}
