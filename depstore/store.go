package depstore

import (
	"github.com/affinelab/polysched/deppoly"
	"github.com/affinelab/polysched/internal/arena"
	"github.com/affinelab/polysched/irgraph"
	"github.com/affinelab/polysched/symbolic"
)

// addEdge allocates e and splices it at the head of its Input's outgoing
// chain and its Output's incoming chain, an O(1) intrusive-list insertion.
func (s *Store) addEdge(e Edge) (arena.ID, error) {
	id, err := s.edges.AllocValue(e)
	if err != nil {
		return arena.Invalid, err
	}
	slot := s.edges.At(id)

	if in := s.g.Addr(e.Input); in != nil {
		slot.PrevOut = arena.Invalid
		slot.NextOut = in.EdgeOut
		if in.EdgeOut != arena.Invalid {
			s.edges.At(in.EdgeOut).PrevOut = id
		}
		in.EdgeOut = id
	}
	if out := s.g.Addr(e.Output); out != nil {
		slot.PrevIn = arena.Invalid
		slot.NextIn = out.EdgeIn
		if out.EdgeIn != arena.Invalid {
			s.edges.At(out.EdgeIn).PrevIn = id
		}
		out.EdgeIn = id
	}
	return id, nil
}

// RemoveEdge unlinks edge id from its incoming and/or outgoing chain,
// patching the owning Addr's EdgeIn/EdgeOut head if id was the head (spec
// §4.4 remove_edge).
func (s *Store) RemoveEdge(id arena.ID, unlinkIn, unlinkOut bool) error {
	e := s.Edge(id)
	if e == nil {
		return ErrUnknownEdge
	}
	if unlinkOut {
		if e.PrevOut != arena.Invalid {
			s.edges.At(e.PrevOut).NextOut = e.NextOut
		} else if in := s.g.Addr(e.Input); in != nil {
			in.EdgeOut = e.NextOut
		}
		if e.NextOut != arena.Invalid {
			s.edges.At(e.NextOut).PrevOut = e.PrevOut
		}
		e.PrevOut, e.NextOut = arena.Invalid, arena.Invalid
	}
	if unlinkIn {
		if e.PrevIn != arena.Invalid {
			s.edges.At(e.PrevIn).NextIn = e.NextIn
		} else if out := s.g.Addr(e.Output); out != nil {
			out.EdgeIn = e.NextIn
		}
		if e.NextIn != arena.Invalid {
			s.edges.At(e.NextIn).PrevIn = e.PrevIn
		}
		e.PrevIn, e.NextIn = arena.Invalid, arena.Invalid
	}
	return nil
}

// CheckDirection decides whether the access carrying xFusion happens
// before the one carrying yFusion: the first differing entry in the
// shared prefix decides lexicographically; if one is a strict prefix of
// the other, the deeper instruction's first extra entry breaks the tie —
// negative meaning "before", non-negative meaning "after" (spec §4.4
// check_direction).
func CheckDirection(xFusion, yFusion []int64) bool {
	n := len(xFusion)
	if len(yFusion) < n {
		n = len(yFusion)
	}
	for i := 0; i < n; i++ {
		if xFusion[i] != yFusion[i] {
			return xFusion[i] < yFusion[i]
		}
	}
	switch {
	case len(xFusion) > n:
		return xFusion[n] < 0
	case len(yFusion) > n:
		return yFusion[n] >= 0
	default:
		return true
	}
}

// addOrdered records a single forward edge for a zero-time-dimension
// dependence.
func (s *Store) addOrdered(input, output irgraph.Ref, inputIsX bool, dp *deppoly.DepPoly, sat, bnd *symbolic.Simplex) (arena.ID, error) {
	return s.addEdge(Edge{
		Input: input, Output: output,
		DepPoly:     dp,
		Sat:         sat,
		Bnd:         bnd,
		InputIsX:    inputIsX,
		RevTimeEdge: arena.Invalid,
		SatLevel:    [2]uint8{SatUnset, SatUnset},
		Meta:        MetaForward,
		Peel:        NoPeel,
	})
}

// timeCheck records the forward edge plus one reverse-time edge per time
// dimension, chained together via RevTimeEdge (spec §4.4 check, scenario
// "Forward-then-backward dependence").
func (s *Store) timeCheck(input, output irgraph.Ref, inputIsX bool, dp *deppoly.DepPoly, sat, bnd *symbolic.Simplex) (arena.ID, error) {
	fwd, err := s.addOrdered(input, output, inputIsX, dp, sat, bnd)
	if err != nil {
		return arena.Invalid, err
	}
	prev := fwd
	for t := 0; t < dp.TimeDim; t++ {
		rev, err := s.addEdge(Edge{
			Input: output, Output: input,
			DepPoly:     dp,
			Sat:         sat,
			Bnd:         bnd,
			InputIsX:    !inputIsX,
			RevTimeEdge: arena.Invalid,
			SatLevel:    [2]uint8{SatUnset, SatUnset},
			Meta:        MetaReverseTime,
			Peel:        NoPeel,
		})
		if err != nil {
			return arena.Invalid, err
		}
		s.edges.At(prev).RevTimeEdge = rev
		prev = rev
	}
	return fwd, nil
}

// sameAccessIndex reports whether a and b reach the same array element
// through bit-identical index coefficients, constant offsets, and dynamic
// symbol coefficients — the condition that makes a dependence between
// them a scalar reduction candidate rather than a general array carry.
func sameAccessIndex(a, b *irgraph.Addr) bool {
	if a.Array != b.Array {
		return false
	}
	if len(a.OffsetOmega) != len(b.OffsetOmega) {
		return false
	}
	for i := range a.OffsetOmega {
		if a.OffsetOmega[i] != b.OffsetOmega[i] {
			return false
		}
	}
	if a.IndexMatrix == nil || b.IndexMatrix == nil {
		return a.IndexMatrix == b.IndexMatrix
	}
	if a.IndexMatrix.Rows() != b.IndexMatrix.Rows() || a.IndexMatrix.Cols() != b.IndexMatrix.Cols() {
		return false
	}
	for r := 0; r < a.IndexMatrix.Rows(); r++ {
		for c := 0; c < a.IndexMatrix.Cols(); c++ {
			if a.IndexMatrix.At(r, c) != b.IndexMatrix.At(r, c) {
				return false
			}
		}
	}
	if a.OffsetSymbols == nil || b.OffsetSymbols == nil {
		return a.OffsetSymbols == b.OffsetSymbols
	}
	if a.OffsetSymbols.Rows() != b.OffsetSymbols.Rows() || a.OffsetSymbols.Cols() != b.OffsetSymbols.Cols() {
		return false
	}
	for r := 0; r < a.OffsetSymbols.Rows(); r++ {
		for c := 0; c < a.OffsetSymbols.Cols(); c++ {
			if a.OffsetSymbols.At(r, c) != b.OffsetSymbols.At(r, c) {
				return false
			}
		}
	}
	return true
}

// Check builds the dependence polyhedron between x and y, derives
// direction, and records either a single ordered edge or a forward edge
// plus its reverse-time chain. It returns arena.Invalid with a nil error
// when the two accesses address disjoint arrays (spec §4.4 check). An
// edge between two accesses reaching the same element is additionally
// flagged MetaRegisterEligible: reconstruct's Φ-pair pass only turns a
// same-index load/store pair into an accumulator once the loop carrying
// it is satisfied, never a dependence that still spans distinct array
// elements.
func (s *Store) Check(x, y irgraph.Ref) (arena.ID, error) {
	xAddr, yAddr := s.g.Addr(x), s.g.Addr(y)
	dp, err := deppoly.Dependence(xAddr, yAddr)
	if err != nil {
		return arena.Invalid, err
	}
	if dp == nil {
		return arena.Invalid, nil
	}
	sat, bnd, err := deppoly.FarkasPair(dp)
	if err != nil {
		return arena.Invalid, err
	}

	input, output, inputIsX := x, y, true
	if !CheckDirection(xAddr.FusionOmega, yAddr.FusionOmega) {
		input, output, inputIsX = y, x, false
	}

	var id arena.ID
	if dp.TimeDim == 0 {
		id, err = s.addOrdered(input, output, inputIsX, dp, sat, bnd)
	} else {
		id, err = s.timeCheck(input, output, inputIsX, dp, sat, bnd)
	}
	if err != nil {
		return arena.Invalid, err
	}
	if sameAccessIndex(xAddr, yAddr) {
		s.Edge(id).SetMeta(MetaRegisterEligible)
	}
	return id, nil
}
