package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/fretime/netfile"
)

const fanout3 = `
name: fanout3
inputs: [a, b]
gates:
  - {name: g, op: and, fanins: [a, b]}
latches:
  - {name: q0, init: "0", next: g}
  - {name: q1, init: "0", next: g}
  - {name: q2, init: "0", next: g}
outputs:
  - {name: y0, from: q0}
  - {name: y1, from: q1}
  - {name: y2, from: q2}
`

func execute(t *testing.T, args ...string) (string, error) {
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRetimeToFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.yaml")
	require.NoError(t, os.WriteFile(in, []byte(fanout3), 0o644))
	dst := filepath.Join(dir, "out.yaml")

	stdout, err := execute(t, in, "-o", dst, "--check")
	require.NoError(t, err)
	require.Equal(t, "latches: 3 -> 1\n", stdout)

	n, err := netfile.ReadFile(dst)
	require.NoError(t, err)
	require.Equal(t, 1, n.NumLatches())
}

func TestRetimeToStdout(t *testing.T) {
	in := filepath.Join(t.TempDir(), "in.yaml")
	require.NoError(t, os.WriteFile(in, []byte(fanout3), 0o644))

	stdout, err := execute(t, in, "--direction", "forward")
	require.NoError(t, err)
	n, err := netfile.Decode(strings.NewReader(stdout))
	require.NoError(t, err)
	require.Equal(t, 3, n.NumLatches(), "forward alone cannot merge fanout latches")
}

func TestFastConservativeFlag(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.yaml")
	require.NoError(t, os.WriteFile(in, []byte(fanout3), 0o644))

	stdout, err := execute(t, in, "-o", filepath.Join(dir, "out.yaml"), "--max-delay", "1", "--fast-conservative", "--check")
	require.NoError(t, err)
	require.Equal(t, "latches: 3 -> 1\n", stdout)
}

func TestBadInvocations(t *testing.T) {
	_, err := execute(t)
	require.Error(t, err)

	in := filepath.Join(t.TempDir(), "in.yaml")
	require.NoError(t, os.WriteFile(in, []byte(fanout3), 0o644))
	_, err = execute(t, in, "--direction", "sideways")
	require.Error(t, err)

	_, err = execute(t, filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
