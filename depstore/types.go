package depstore

import (
	"github.com/affinelab/polysched/deppoly"
	"github.com/affinelab/polysched/internal/arena"
	"github.com/affinelab/polysched/irgraph"
	"github.com/affinelab/polysched/symbolic"
)

// Meta bit flags (spec §3 "Dependence edge ... meta : u8 bitfield").
const (
	MetaForward uint8 = 1 << iota
	MetaReverseTime
	MetaFreeOfDeeperDeps
	MetaReassociable
	MetaNotReassociable
	MetaConditionallyIndependent
	MetaRegisterEligible
)

// SatUnset is the sat_level sentinel meaning "still active".
const SatUnset uint8 = 255

// NoPeel is the peel sentinel meaning "not peelable".
const NoPeel uint8 = 255

const (
	satPreventsReorder uint8 = 0x80
	satLevelMask       uint8 = 0x7f
)

// Edge is one directed dependence, spec §3 "Dependence edge (inside
// Dependencies)".
type Edge struct {
	Input, Output irgraph.Ref // semantic source/sink

	DepPoly *deppoly.DepPoly
	Sat     *symbolic.Simplex
	Bnd     *symbolic.Simplex

	// InputIsX reports whether Input is the DepPoly's "x" side (deppoly.
	// Dependence's first argument) rather than its "y" side — Check may have
	// swapped Input/Output relative to that call's argument order to match
	// happens-before direction, but DepPoly.DimX/DimY always refer to the
	// original argument order.
	InputIsX bool

	NextOut, PrevOut arena.ID // chain on Input's outgoing edges
	NextIn, PrevIn   arena.ID // chain on Output's incoming edges

	RevTimeEdge arena.ID // paired reverse-time edge, Invalid if none

	// SatLevel[0] is current, SatLevel[1] the previously stashed value.
	// & satPreventsReorder marks "prevents reordering"; & satLevelMask is
	// 2*d for the depth d that satisfied it, SatUnset meaning still active.
	SatLevel [2]uint8

	Meta uint8
	Peel uint8 // NoPeel, or the loop index to peel on
}

// Store is the SoA dependency-edge table over one irgraph.Graph.
type Store struct {
	edges *arena.Arena[Edge]
	g     *irgraph.Graph
}

// NewStore creates an empty Store bound to g.
func NewStore(g *irgraph.Graph) *Store {
	return &Store{edges: arena.New[Edge](64, 0), g: g}
}

// Edge returns the edge payload for id, or nil if id does not name a live
// edge.
func (s *Store) Edge(id arena.ID) *Edge {
	if !s.edges.Valid(id) {
		return nil
	}
	return s.edges.At(id)
}

// Len returns the number of edges ever allocated into s, live or dropped —
// callers that need to enumerate every edge id (the host-facing "edge-id ->
// satisfying loop level" vector) range over 0..Len()-1 and check Edge(id)
// for nil.
func (s *Store) Len() int {
	return s.edges.Len()
}
