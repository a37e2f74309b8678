// Package netfile reads and writes netlists as YAML documents.
//
// A document names every signal. Inputs and gates are named directly; a
// latch's name is the name of its output. Gates may reference signals
// defined later in the file, so the gate list need not be sorted:
//
//	name: fanout3
//	inputs: [a, b]
//	gates:
//	  - {name: g, op: and, fanins: [a, b]}
//	latches:
//	  - {name: q0, init: "0", next: g}
//	outputs:
//	  - {name: y0, from: q0}
//
// Operators use the lowercase names of netlist.Op; init values are "0", "1",
// "x" (don't-care) or empty (unassigned).
package netfile
