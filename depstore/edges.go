package depstore

import (
	"github.com/affinelab/polysched/internal/arena"
	"github.com/affinelab/polysched/irgraph"
)

// HasMeta reports whether any of flags is set on e.
func (e *Edge) HasMeta(flags uint8) bool { return e.Meta&flags != 0 }

// SetMeta ORs flags into e.Meta.
func (e *Edge) SetMeta(flags uint8) { e.Meta |= flags }

// ClearMeta ANDs flags out of e.Meta.
func (e *Edge) ClearMeta(flags uint8) { e.Meta &^= flags }

// setLevel packs depth and the prevents-reorder bit into one of e's two
// sat_level slots.
func setLevel(slot *uint8, depth int, preventsReorder bool) {
	v := uint8(depth) & satLevelMask
	if preventsReorder {
		v |= satPreventsReorder
	}
	*slot = v
}

// SetSatLevelLP marks e satisfied by the LP schedule at the given loop
// depth (sat_level = 2*depth, spec §4.4 "sat_level encoding").
func (e *Edge) SetSatLevelLP(depth int, preventsReorder bool) {
	setLevel(&e.SatLevel[0], 2*depth, preventsReorder)
}

// SetSatLevelParallel marks e satisfied by parallelism at the given loop
// depth (sat_level = 2*depth+1).
func (e *Edge) SetSatLevelParallel(depth int, preventsReorder bool) {
	setLevel(&e.SatLevel[0], 2*depth+1, preventsReorder)
}

// StashSatLevel copies the current sat_level into the previous slot,
// before a schedule attempt that may need to be rolled back.
func (e *Edge) StashSatLevel() { e.SatLevel[1] = e.SatLevel[0] }

// RestoreSatLevel rolls e.SatLevel[0] back to the stashed value.
func (e *Edge) RestoreSatLevel() { e.SatLevel[0] = e.SatLevel[1] }

// Satisfied reports whether e's current sat_level is no longer the
// "still active" sentinel.
func (e *Edge) Satisfied() bool { return e.SatLevel[0] != SatUnset }

// Depth extracts the loop depth packed into sat_level.
func (e *Edge) Depth() int { return int(e.SatLevel[0]&satLevelMask) / 2 }

// PreventsReorder reports whether e's current sat_level carries the
// "prevents reordering" high bit.
func (e *Edge) PreventsReorder() bool { return e.SatLevel[0]&satPreventsReorder != 0 }

// InputEdges walks the outgoing chain rooted at addr, in head-to-tail
// order (most recently added first).
func (s *Store) InputEdges(addr irgraph.Ref) []arena.ID {
	a := s.g.Addr(addr)
	if a == nil {
		return nil
	}
	var out []arena.ID
	for id := a.EdgeOut; id != arena.Invalid; {
		out = append(out, id)
		id = s.edges.At(id).NextOut
	}
	return out
}

// OutputEdges walks the incoming chain rooted at addr.
func (s *Store) OutputEdges(addr irgraph.Ref) []arena.ID {
	a := s.g.Addr(addr)
	if a == nil {
		return nil
	}
	var out []arena.ID
	for id := a.EdgeIn; id != arena.Invalid; {
		out = append(out, id)
		id = s.edges.At(id).NextIn
	}
	return out
}

// OutputEdgesAtDepth filters OutputEdges to those whose current sat_level
// was satisfied at exactly depth.
func (s *Store) OutputEdgesAtDepth(addr irgraph.Ref, depth int) []arena.ID {
	var out []arena.ID
	for _, id := range s.OutputEdges(addr) {
		e := s.Edge(id)
		if e.SatLevel[0] != SatUnset && e.Depth() == depth {
			out = append(out, id)
		}
	}
	return out
}

// UnhoistableOutputs reports the subset of addr's incoming edges that are
// still active (unsatisfied) — these pin addr to its current position and
// block it from being hoisted out of its enclosing loop.
func (s *Store) UnhoistableOutputs(addr irgraph.Ref) []arena.ID {
	var out []arena.ID
	for _, id := range s.OutputEdges(addr) {
		if s.Edge(id).SatLevel[0] == SatUnset {
			out = append(out, id)
		}
	}
	return out
}

// dependsOnLoop reports whether any row of a's IndexMatrix has a nonzero
// coefficient in the column for loop depth k.
func dependsOnLoop(a *irgraph.Addr, k int) bool {
	if a.IndexMatrix == nil || k < 0 || k >= a.IndexMatrix.Cols() {
		return false
	}
	for r := 0; r < a.IndexMatrix.Rows(); r++ {
		if a.IndexMatrix.At(r, k) != 0 {
			return true
		}
	}
	return false
}

// deeperNonZeroColumn reports whether a's IndexMatrix has a nonzero entry
// in any column strictly deeper than k.
func deeperNonZeroColumn(a *irgraph.Addr, k int) bool {
	if a.IndexMatrix == nil {
		return false
	}
	for c := k + 1; c < a.IndexMatrix.Cols(); c++ {
		for r := 0; r < a.IndexMatrix.Rows(); r++ {
			if a.IndexMatrix.At(r, c) != 0 {
				return true
			}
		}
	}
	return false
}

// DeterminePeelDepth finds the shallowest loop depth k at which exactly
// one of e's two endpoints depends on loop k while the other still
// varies at some deeper depth — the condition under which peeling the
// first iteration of loop k splits e into a satisfiable steady-state
// dependence (spec §4.4 "determine_peel_depth"). It returns NoPeel if no
// such depth exists.
func (s *Store) DeterminePeelDepth(id arena.ID) uint8 {
	e := s.Edge(id)
	if e == nil {
		return NoPeel
	}
	in, out := s.g.Addr(e.Input), s.g.Addr(e.Output)
	if in == nil || out == nil {
		return NoPeel
	}
	maxDepth := in.CurrentDepth
	if out.CurrentDepth < maxDepth {
		maxDepth = out.CurrentDepth
	}
	for k := 0; k < maxDepth; k++ {
		inDeps, outDeps := dependsOnLoop(in, k), dependsOnLoop(out, k)
		if inDeps == outDeps {
			continue
		}
		if inDeps && deeperNonZeroColumn(out, k) {
			return uint8(k)
		}
		if outDeps && deeperNonZeroColumn(in, k) {
			return uint8(k)
		}
	}
	return NoPeel
}

// Reload duplicates every edge incident on orig onto clone, pointing the
// duplicate's Input/Output at clone in place of orig. The cloned load
// shares orig's Array/Loop/IndexMatrix/OffsetOmega/OffsetSymbols/
// FusionOmega (it is the same affine access, just re-issued as a second
// load), so the dependence polyhedra and Farkas simplices are reused
// unchanged rather than recomputed (spec §4.5 "reload").
func (s *Store) Reload(orig, clone irgraph.Ref) error {
	if s.g.Addr(clone) == nil {
		return ErrNotAStore
	}
	for _, id := range s.OutputEdges(orig) {
		e := *s.Edge(id)
		e.Output = clone
		if _, err := s.addEdge(e); err != nil {
			return err
		}
	}
	for _, id := range s.InputEdges(orig) {
		e := *s.Edge(id)
		e.Input = clone
		if _, err := s.addEdge(e); err != nil {
			return err
		}
	}
	return nil
}
