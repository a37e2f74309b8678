package netfile_test

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/fretime/netfile"
	"github.com/katalvlaran/fretime/netlist"
)

const toggle = `
name: toggle
inputs: [en]
gates:
  - {name: next, op: xor, fanins: [en, q]}
latches:
  - {name: q, init: "0", next: next}
outputs:
  - {name: out, from: q}
`

func TestDecodeBuildsNetwork(t *testing.T) {
	n, err := netfile.Decode(strings.NewReader(toggle))
	require.NoError(t, err)
	require.Equal(t, "toggle", n.Name())
	require.Len(t, n.PIs(), 1)
	require.Len(t, n.POs(), 1)
	require.Equal(t, 1, n.NumLatches())
	require.Equal(t, netlist.InitZero, n.LatchInit(n.Latches()[0]))

	out, err := n.Simulate(nil, [][]netlist.Value{{netlist.One}, {netlist.One}, {netlist.Zero}})
	require.NoError(t, err)
	require.Equal(t, [][]netlist.Value{{netlist.Zero}, {netlist.One}, {netlist.Zero}}, out)
}

func TestEncodeKeepsDocument(t *testing.T) {
	n, err := netfile.Decode(strings.NewReader(toggle))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, netfile.Encode(&buf, n))
	back, err := netfile.Decode(&buf)
	require.NoError(t, err)

	want, err := netfile.Describe(n)
	require.NoError(t, err)
	got, err := netfile.Describe(back)
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("document changed (-want +got):\n%s", diff)
	}
	require.Equal(t, []netfile.Gate{{Name: "next", Op: "xor", Fanins: []string{"en", "q"}}}, got.Gates)
}

func TestDescribeNamesAnonymousSignals(t *testing.T) {
	n := netlist.New()
	a := n.AddPI("")
	l := n.AddLatch(netlist.InitDC)
	require.NoError(t, n.ConnectLatch(l, a))
	g, err := n.AddGate(netlist.OpNot, n.LatchOutput(l))
	require.NoError(t, err)
	_, err = n.AddPO("y", g)
	require.NoError(t, err)

	f, err := netfile.Describe(n)
	require.NoError(t, err)
	require.Equal(t, []string{"i1"}, f.Inputs)
	require.Equal(t, "x", f.Latches[0].Init)
	require.Equal(t, "i1", f.Latches[0].Next)
	require.Equal(t, []string{f.Latches[0].Name}, f.Gates[0].Fanins)
	require.Equal(t, f.Gates[0].Name, f.Outputs[0].From)
}

func TestFileRoundTrip(t *testing.T) {
	n, err := netfile.Decode(strings.NewReader(toggle))
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "toggle.yaml")
	require.NoError(t, netfile.WriteFile(path, n))
	back, err := netfile.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, n.NumNodes(), back.NumNodes())
}

func TestDecodeErrors(t *testing.T) {
	for name, tc := range map[string]struct {
		doc  string
		want error
	}{
		"duplicate": {
			doc:  "inputs: [a, a]\noutputs: []\n",
			want: netfile.ErrDuplicateName,
		},
		"unknown signal": {
			doc:  "inputs: [a]\noutputs: [{name: y, from: b}]\n",
			want: netfile.ErrUnknownSignal,
		},
		"unknown op": {
			doc:  "inputs: [a]\ngates: [{name: g, op: mux, fanins: [a]}]\noutputs: []\n",
			want: netfile.ErrUnknownOp,
		},
		"arity": {
			doc:  "inputs: [a, b]\ngates: [{name: g, op: not, fanins: [a, b]}]\noutputs: []\n",
			want: netfile.ErrArity,
		},
		"init": {
			doc:  "inputs: [a]\nlatches: [{name: q, init: \"2\", next: a}]\noutputs: []\n",
			want: netfile.ErrBadInit,
		},
		"loop": {
			doc:  "inputs: [a]\ngates: [{name: g, op: and, fanins: [a, h]}, {name: h, op: not, fanins: [g]}]\noutputs: []\n",
			want: netlist.ErrCombLoop,
		},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := netfile.Decode(strings.NewReader(tc.doc))
			require.ErrorIs(t, err, tc.want)
		})
	}

	_, err := netfile.Decode(strings.NewReader("inputs: [a]\nwires: []\n"))
	require.Error(t, err, "unknown fields are rejected")
}
