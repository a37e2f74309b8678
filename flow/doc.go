// Package flow computes the maximum flow and minimum cut that decide where
// the latches of a netlist move in one retiming step.
//
// Every non-latch node is split into two vertices, R (reached) and E (exit),
// joined by a unit-capacity arc, so a cut counts nodes and each cut node
// receives one latch. Latches are the sources; blocked nodes, latches reached
// again and, depending on the problem, conservatively timed or biased nodes
// are the sinks.
//
// The algorithms offered are:
//
//   - Fast search
//
//   - Method: exact sink distances by reverse BFS, then augmenting paths
//     along arcs that lower the distance by one, relabeling on dead ends.
//
//   - Stops as soon as a distance bucket empties (no path can remain along
//     the labels) or every source is cut off.
//
//   - Plain search
//
//   - Method: depth-first augmenting paths with persistent visit marks.
//
//   - Completes the flow left by the fast search; its last, failing round
//     leaves the source-reachable set in the labels, which is the cut.
//
// # Labels
//
// Store keeps one Label per node ID plus the node's lag. PushFlows reads the
// constraint marks (Blocked, Conservative, Bias) and writes the search state
// (distances, Visit, OnFlow, Pred). MarkCut then flags every node whose R
// half is reachable while its E half is not.
//
// # Complexity
//
//   - Time:   O(V² · E) worst case; near-linear on typical netlists.
//   - Memory: O(V + E) for the residual graph.
//
// A PushFlows call owns the store for its duration; the package keeps no
// global state.
package flow
