// File: store.go
// Role: Per-node flow labels (distance labels, visit state, flow and cut
//       marks, constraint marks, init bookkeeping) and lag counters.
// Lifecycle:
//   - Reset clears every label but keeps lags; ResetFlows clears only the
//     search state and keeps Blocked, Conservative, Bias, CrossBoundary, Init.
//   - Remap must be called whenever node IDs are renumbered.

package flow

import "github.com/katalvlaran/fretime/netlist"

// Direction selects which way latches move.
type Direction uint8

const (
	// Forward moves latches from gate inputs to gate outputs.
	Forward Direction = iota
	// Backward moves latches from gate outputs to gate inputs.
	Backward
)

// String implements fmt.Stringer.
func (d Direction) String() string {
	if d == Backward {
		return "backward"
	}
	return "forward"
}

// Half names one of the two flow vertices a node is split into.
type Half uint8

const (
	// HalfR is the vertex where flow enters a node.
	HalfR Half = iota
	// HalfE is the vertex flow leaves a node from.
	HalfE
)

// Visit records which halves of a node the current search has reached.
type Visit uint8

const (
	NotVisited Visit = iota
	VisitedR
	VisitedE
	VisitedBoth
)

// Has reports whether half h is marked.
func (v Visit) Has(h Half) bool {
	if h == HalfR {
		return v == VisitedR || v == VisitedBoth
	}
	return v == VisitedE || v == VisitedBoth
}

// With returns v with half h marked.
func (v Visit) With(h Half) Visit {
	if h == HalfR {
		return v | VisitedR
	}
	return v | VisitedE
}

// Without returns v with half h cleared.
func (v Visit) Without(h Half) Visit {
	if h == HalfR {
		return v &^ VisitedR
	}
	return v &^ VisitedE
}

// Label is the flow record of one node.
type Label struct {
	// DistR and DistE are the distance labels of the two halves; 0 is unset.
	DistR, DistE int
	// Visit is the search state of the two halves.
	Visit Visit
	// OnFlow is set when the node's own unit capacity carries flow.
	OnFlow bool
	// Pred is the node that supplies the flow entering this node (Nil if none).
	Pred netlist.ID

	// Cut marks a node lying on the extracted min-cut.
	Cut bool
	// Blocked nodes are sinks: latches may not cross them.
	Blocked bool
	// Conservative nodes fail the approximate timing bound.
	Conservative bool
	// Bias nodes are sinks because of a recorded init-state conflict.
	Bias bool
	// CrossBoundary marks a box output whose latch was detached this cut.
	CrossBoundary bool

	// Init is the reset value carried by a detached latch's box output.
	Init netlist.Init
	// InitObj is the init-network input that stood for that latch.
	InitObj netlist.ID
}

// Retimed reports whether the last search placed the node inside the moved
// region: its R half is reachable when moving forward, its E half when
// moving backward.
func (l *Label) Retimed(d Direction) bool {
	if d == Forward {
		return l.Visit.Has(HalfR)
	}
	return l.Visit.Has(HalfE)
}

// Store owns the labels and lags of one retiming session, indexed by node ID.
type Store struct {
	labels []Label
	lags   []int
}

// NewStore allocates zeroed labels for IDs below size.
func NewStore(size int) *Store {
	return &Store{labels: make([]Label, size), lags: make([]int, size)}
}

// Len returns the number of addressable IDs.
func (s *Store) Len() int { return len(s.labels) }

// grow extends the tables so id is addressable; nodes created after the
// store was sized start with zero labels and zero lag.
func (s *Store) grow(id netlist.ID) {
	if int(id) < len(s.labels) && int(id) < len(s.lags) {
		return
	}
	size := int(id) + 1
	if size < 2*len(s.labels) {
		size = 2 * len(s.labels)
	}
	if size < len(s.lags) {
		size = len(s.lags)
	}
	labels := make([]Label, size)
	copy(labels, s.labels)
	lags := make([]int, size)
	copy(lags, s.lags)
	s.labels, s.lags = labels, lags
}

// At returns the label of id, growing the store when needed.
func (s *Store) At(id netlist.ID) *Label {
	s.grow(id)
	return &s.labels[id]
}

// Reset clears every label. Lags are kept.
func (s *Store) Reset() {
	for i := range s.labels {
		s.labels[i] = Label{}
	}
}

// ResetFlows clears distances, visits, flow and cut marks only.
func (s *Store) ResetFlows() {
	for i := range s.labels {
		l := &s.labels[i]
		l.DistR, l.DistE = 0, 0
		l.Visit = NotVisited
		l.OnFlow = false
		l.Pred = netlist.Nil
		l.Cut = false
	}
}

// ClearVisits resets the visit state of every node.
func (s *Store) ClearVisits() {
	for i := range s.labels {
		s.labels[i].Visit = NotVisited
	}
}

// Lag returns the accumulated lag of id.
func (s *Store) Lag(id netlist.ID) int {
	if int(id) >= len(s.lags) {
		return 0
	}
	return s.lags[id]
}

// SetLag overwrites the lag of id.
func (s *Store) SetLag(id netlist.ID, lag int) {
	s.grow(id)
	s.lags[id] = lag
}

// AddLag adds delta to the lag of id.
func (s *Store) AddLag(id netlist.ID, delta int) {
	s.grow(id)
	s.lags[id] += delta
}

// Lags returns a copy of the lag table.
func (s *Store) Lags() []int { return append([]int(nil), s.lags...) }

// RestoreLags replaces the lag table with a copy taken by Lags.
func (s *Store) RestoreLags(lags []int) {
	s.lags = append(s.lags[:0], lags...)
	if len(s.lags) < len(s.labels) {
		s.lags = append(s.lags, make([]int, len(s.labels)-len(s.lags))...)
	}
}

// Remap reallocates the store for a renumbered network of the given size.
// Labels are zeroed; lags follow remap[old] = new and nodes mapped to Nil
// drop their lag.
func (s *Store) Remap(remap []netlist.ID, size int) {
	lags := make([]int, size)
	for old, nw := range remap {
		if nw != netlist.Nil && old < len(s.lags) && int(nw) < size {
			lags[nw] = s.lags[old]
		}
	}
	s.labels = make([]Label, size)
	s.lags = lags
}
