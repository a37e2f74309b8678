// File: netfile.go
// Role: YAML document model and conversion to and from netlist.Network.

package netfile

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/fretime/netlist"
)

// Sentinel errors for malformed documents.
var (
	// ErrDuplicateName indicates two signals share a name.
	ErrDuplicateName = errors.New("netfile: duplicate signal name")

	// ErrUnknownSignal indicates a reference to an undefined signal.
	ErrUnknownSignal = errors.New("netfile: unknown signal")

	// ErrUnknownOp indicates an operator name netlist does not know.
	ErrUnknownOp = errors.New("netfile: unknown operator")

	// ErrBadInit indicates an init value other than 0, 1, x or empty.
	ErrBadInit = errors.New("netfile: bad init value")

	// ErrArity indicates a gate with a fanin count its operator rejects.
	ErrArity = errors.New("netfile: bad fanin count")
)

// File is the YAML document.
type File struct {
	Name    string   `yaml:"name,omitempty"`
	Hashed  bool     `yaml:"hashed,omitempty"`
	Inputs  []string `yaml:"inputs"`
	Gates   []Gate   `yaml:"gates,omitempty"`
	Latches []Latch  `yaml:"latches,omitempty"`
	Outputs []Output `yaml:"outputs"`
}

// Gate is one combinational node.
type Gate struct {
	Name   string   `yaml:"name"`
	Op     string   `yaml:"op"`
	Fanins []string `yaml:"fanins,omitempty,flow"`
}

// Latch is one register; Next names its data input.
type Latch struct {
	Name string `yaml:"name"`
	Init string `yaml:"init,omitempty"`
	Next string `yaml:"next,omitempty"`
}

// Output is one primary output.
type Output struct {
	Name string `yaml:"name"`
	From string `yaml:"from"`
}

// ParseInit converts a document init value.
func ParseInit(s string) (netlist.Init, error) {
	switch s {
	case "", "none":
		return netlist.InitNone, nil
	case "0":
		return netlist.InitZero, nil
	case "1":
		return netlist.InitOne, nil
	case "x", "X", "dc":
		return netlist.InitDC, nil
	}
	return netlist.InitNone, errors.Wrapf(ErrBadInit, "%q", s)
}

func formatInit(v netlist.Init) string {
	if v == netlist.InitNone {
		return ""
	}
	return v.String()
}

// Decode reads one document from r and builds its network.
func Decode(r io.Reader) (*netlist.Network, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var f File
	if err := dec.Decode(&f); err != nil {
		return nil, errors.Wrap(err, "netfile: decode")
	}
	return Build(&f)
}

// ReadFile decodes the document at path.
func ReadFile(path string) (*netlist.Network, error) {
	fd, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "netfile")
	}
	defer fd.Close()

	n, err := Decode(fd)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	return n, nil
}

// Build creates the network described by f.
//
// Steps:
//  1. Create inputs, latches and gates, registering each signal name.
//  2. Wire gate fanins, latch data inputs and outputs by name.
//  3. Run the structural check, which also rejects combinational loops.
//
// Complexity: O(V + E).
func Build(f *File) (*netlist.Network, error) {
	opts := []netlist.Option{netlist.WithName(f.Name)}
	if f.Hashed {
		opts = append(opts, netlist.WithHashing())
	}
	n := netlist.New(opts...)
	sig := make(map[string]netlist.ID)
	define := func(name string, id netlist.ID) error {
		if name == "" {
			return errors.Wrap(ErrUnknownSignal, "empty name")
		}
		if _, dup := sig[name]; dup {
			return errors.Wrapf(ErrDuplicateName, "%q", name)
		}
		sig[name] = id
		return nil
	}
	lookup := func(name, user string) (netlist.ID, error) {
		id, ok := sig[name]
		if !ok {
			return netlist.Nil, errors.Wrapf(ErrUnknownSignal, "%q used by %q", name, user)
		}
		return id, nil
	}

	for _, name := range f.Inputs {
		if err := define(name, n.AddPI(name)); err != nil {
			return nil, err
		}
	}
	latches := make([]netlist.ID, len(f.Latches))
	for i, l := range f.Latches {
		init, err := ParseInit(l.Init)
		if err != nil {
			return nil, errors.Wrapf(err, "latch %q", l.Name)
		}
		latches[i] = n.AddLatch(init)
		n.SetNodeName(latches[i], l.Name)
		if err = define(l.Name, n.LatchOutput(latches[i])); err != nil {
			return nil, err
		}
	}
	gates := make([]netlist.ID, len(f.Gates))
	for i, g := range f.Gates {
		op, ok := netlist.ParseOp(g.Op)
		if !ok {
			return nil, errors.Wrapf(ErrUnknownOp, "%q on gate %q", g.Op, g.Name)
		}
		lo, hi := op.Arity()
		if len(g.Fanins) < lo || (hi >= 0 && len(g.Fanins) > hi) {
			return nil, errors.Wrapf(ErrArity, "gate %q: %s with %d fanins", g.Name, op, len(g.Fanins))
		}
		gates[i] = n.CreateNode(netlist.KindGate, op)
		n.SetNodeName(gates[i], g.Name)
		if err := define(g.Name, gates[i]); err != nil {
			return nil, err
		}
	}

	for i, g := range f.Gates {
		for _, name := range g.Fanins {
			id, err := lookup(name, g.Name)
			if err != nil {
				return nil, err
			}
			n.AddFanin(gates[i], id)
		}
	}
	for i, l := range f.Latches {
		if l.Next == "" {
			continue
		}
		id, err := lookup(l.Next, l.Name)
		if err != nil {
			return nil, err
		}
		if err = n.ConnectLatch(latches[i], id); err != nil {
			return nil, err
		}
	}
	for _, o := range f.Outputs {
		id, err := lookup(o.From, o.Name)
		if err != nil {
			return nil, err
		}
		if _, err = n.AddPO(o.Name, id); err != nil {
			return nil, err
		}
	}

	if err := n.Check(); err != nil {
		return nil, errors.Wrap(err, "netfile")
	}
	return n, nil
}

// Describe converts a network with bracketed latches into a document.
// Unnamed or clashing signals get generated names; gates are listed in
// topological order.
// Complexity: O(V + E).
func Describe(n *netlist.Network) (*File, error) {
	order, err := n.TopoOrder()
	if err != nil {
		return nil, errors.Wrap(err, "netfile")
	}

	names := make(map[netlist.ID]string)
	used := make(map[string]bool)
	assign := func(id netlist.ID, prefix string) {
		name := n.NodeName(id)
		if name == "" || used[name] {
			name = fmt.Sprintf("%s%d", prefix, id)
			for used[name] {
				name += "_"
			}
		}
		used[name] = true
		names[id] = name
	}
	for _, id := range n.PIs() {
		assign(id, "i")
	}
	for _, id := range n.Latches() {
		assign(id, "l")
	}
	for _, id := range order {
		if n.IsGate(id) {
			assign(id, "g")
		}
	}

	signal := func(id netlist.ID) (string, error) {
		if id != netlist.Nil && n.IsBoxOut(id) {
			id = n.Fanin0(id)
		}
		name, ok := names[id]
		if !ok {
			return "", errors.Wrapf(netlist.ErrInconsistent, "node %d cannot be named as a signal", id)
		}
		return name, nil
	}

	f := &File{Name: n.Name(), Hashed: n.Hashed(), Inputs: []string{}, Outputs: []Output{}}
	for _, id := range n.PIs() {
		f.Inputs = append(f.Inputs, names[id])
	}
	for _, id := range order {
		if !n.IsGate(id) {
			continue
		}
		g := Gate{Name: names[id], Op: n.Op(id).String()}
		for _, fi := range n.Fanins(id) {
			s, err := signal(fi)
			if err != nil {
				return nil, err
			}
			g.Fanins = append(g.Fanins, s)
		}
		f.Gates = append(f.Gates, g)
	}
	for _, id := range n.Latches() {
		bi := n.LatchInput(id)
		if bi == netlist.Nil || n.LatchOutput(id) == netlist.Nil {
			return nil, errors.Wrapf(netlist.ErrInconsistent, "latch %d is not bracketed", id)
		}
		l := Latch{Name: names[id], Init: formatInit(n.LatchInit(id))}
		if d := n.Fanin0(bi); d != netlist.Nil {
			if l.Next, err = signal(d); err != nil {
				return nil, err
			}
		}
		f.Latches = append(f.Latches, l)
	}
	for _, id := range n.POs() {
		s, err := signal(n.Fanin0(id))
		if err != nil {
			return nil, err
		}
		f.Outputs = append(f.Outputs, Output{Name: n.NodeName(id), From: s})
	}

	return f, nil
}

// Encode writes n to w as one document.
func Encode(w io.Writer, n *netlist.Network) error {
	f, err := Describe(n)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err = enc.Encode(f); err != nil {
		return errors.Wrap(err, "netfile: encode")
	}
	return enc.Close()
}

// WriteFile encodes n into the file at path, replacing it.
func WriteFile(path string, n *netlist.Network) error {
	fd, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "netfile")
	}
	if err = Encode(fd, n); err != nil {
		fd.Close()
		return err
	}
	return fd.Close()
}
