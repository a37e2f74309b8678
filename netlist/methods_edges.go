// File: methods_edges.go
// Role: Fanin/fanout edge editing.
// Invariant:
//   - For every edge u -> v, u appears in v.fanins exactly as many times as v
//     appears in u.fanouts (parallel edges are allowed, e.g. AND(a, a)).

package netlist

import "github.com/pkg/errors"

// AddFanin appends fanin to the ordered fanin list of obj.
// Both nodes must exist; a dangling ID panics.
// Complexity: O(1) amortized.
func (n *Network) AddFanin(obj, fanin ID) {
	o := n.must(obj)
	f := n.must(fanin)
	o.fanins = append(o.fanins, fanin)
	f.fanouts = append(f.fanouts, obj)
}

// RemoveFanins disconnects every fanin edge of obj.
// Complexity: O(sum of fanin fanout degrees).
func (n *Network) RemoveFanins(obj ID) {
	o := n.must(obj)
	for _, f := range o.fanins {
		fn := n.must(f)
		fn.fanouts = removeOne(fn.fanouts, obj)
	}
	o.fanins = nil
}

// RemoveFanin disconnects one occurrence of the edge fanin -> obj.
func (n *Network) RemoveFanin(obj, fanin ID) error {
	o, err := n.lookup(obj)
	if err != nil {
		return err
	}
	for i, f := range o.fanins {
		if f == fanin {
			o.fanins = append(o.fanins[:i], o.fanins[i+1:]...)
			fn := n.must(fanin)
			fn.fanouts = removeOne(fn.fanouts, obj)
			return nil
		}
	}

	return errors.Wrapf(ErrFaninNotFound, "%d -> %d", fanin, obj)
}

// PatchFanin redirects the first occurrence of edge old -> obj so that it
// reads from repl instead, keeping its position in the fanin list.
// Complexity: O(deg).
func (n *Network) PatchFanin(obj, old, repl ID) error {
	o, err := n.lookup(obj)
	if err != nil {
		return err
	}
	r, err := n.lookup(repl)
	if err != nil {
		return err
	}
	for i, f := range o.fanins {
		if f != old {
			continue
		}
		o.fanins[i] = repl
		on := n.must(old)
		on.fanouts = removeOne(on.fanouts, obj)
		r.fanouts = append(r.fanouts, obj)
		return nil
	}

	return errors.Wrapf(ErrFaninNotFound, "%d -> %d", old, obj)
}

// TransferFanout moves every fanout edge of from onto to.
// Complexity: O(fanouts * fanin degree).
func (n *Network) TransferFanout(from, to ID) error {
	if from == to {
		return nil
	}
	f, err := n.lookup(from)
	if err != nil {
		return err
	}
	if _, err = n.lookup(to); err != nil {
		return err
	}
	outs := append([]ID(nil), f.fanouts...)
	for _, o := range outs {
		if err = n.PatchFanin(o, from, to); err != nil {
			return err
		}
	}

	return nil
}

func removeOne(list []ID, id ID) []ID {
	for i, x := range list {
		if x == id {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}
