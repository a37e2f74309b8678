// Package sat exposes the Boolean satisfiability capability needed by
// initial-state solving: given a combinational netlist with one output,
// find an assignment to its primary inputs that drives the output to 1, or
// report that none exists.
//
// Solver is the capability; Gini is the default implementation, encoding the
// netlist through gini's logic.C circuit (structural hashing plus Tseitin
// CNF) and solving it with the gini CDCL solver.
package sat
