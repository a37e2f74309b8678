// Package netlist provides an arena-backed, gate-level sequential circuit
// graph: the host representation that the retiming engine edits in place.
//
// A Network N = (V, E) stores nodes addressed by dense integer IDs:
//
//   - PI / PO             primary inputs and outputs
//   - Gate                combinational node with an Op (AND, OR, XOR, NOT, …)
//   - Latch               clocked storage element with an Init value
//   - BoxIn / BoxOut      markers bracketing every latch: BoxIn -> Latch -> BoxOut
//
// Each node keeps an ordered fanin list and an unordered fanout list; the two
// are always kept symmetric by the edge editing methods (AddFanin,
// RemoveFanin, RemoveFanins, PatchFanin, TransferFanout).
//
// Whole-network operations:
//
//   - Dup          deep copy preserving IDs
//   - TopoOrder    combinational topological order (latches cut the frames)
//   - Renumber     topological ID compaction returning an old->new table
//   - Restrash     structural hash-consing, dangling sweep and renumbering
//   - Check        structural consistency check
//   - Level        longest combinational path (unit delay per gate)
//   - Simulate     cycle-accurate ternary (0/1/X) simulation
//
// Ternary evaluation (Eval, TernaryEvaluator) is sound: a determined value is
// produced only when every concretization of the X inputs agrees.
//
// Concurrency: a Network is not safe for concurrent mutation.
package netlist
