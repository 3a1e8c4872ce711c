package schedule

import (
	"github.com/affinelab/polysched/affine"
	"github.com/affinelab/polysched/depstore"
	"github.com/affinelab/polysched/internal/arena"
	"github.com/affinelab/polysched/internal/imatrix"
	"github.com/affinelab/polysched/irgraph"
)

// Result classifies the outcome of solving one schedule depth (spec §4.6).
type Result int

const (
	Failure Result = iota
	Dependent
	Independent
)

// combine merges two depth results the way optimize's "r & n" step does:
// Failure dominates, then Dependent, then Independent.
func combine(a, b Result) Result {
	if a == Failure || b == Failure {
		return Failure
	}
	if a == Dependent || b == Dependent {
		return Dependent
	}
	return Independent
}

// ScheduledNode is one vertex of the final access graph: a store and its
// chain of loads, carrying the schedule matrix the LP recursion fills in
// one row per depth (spec §3 "ScheduledNode").
type ScheduledNode struct {
	Store    irgraph.Ref  // the rooting store
	Loads    []irgraph.Ref // the chain of loads feeding the store
	LoopNest *affine.Loop  // deepest enclosing loop

	NumLoops int
	Rank     int // outer Φ rows already fixed

	Phi         *imatrix.Dense // n x n schedule matrix, rows outer -> inner
	FusionOmega []int64        // length n+1
	OffsetOmega []int64        // length n
	Offsets     []int64        // canonical shift vector, shift_omega's output

	// Tarjan bookkeeping (spec "index, low_link, on_stack, visited").
	index, lowLink int
	onStack        bool
	visited        bool

	// List links (spec "next, component, original_next"): the active-graph
	// chain, the current SCC partition, and the original topological order,
	// all expressed as arena.ID so they stay intrusive per spec §9.
	Next         arena.ID
	Component    arena.ID
	OriginalNext arena.ID
}

// Graph owns the arena of ScheduledNodes plus the dependency store and IR
// graph they reference, mirroring irgraph.Graph's one-struct-per-pass
// ownership model.
type Graph struct {
	nodes   *arena.Arena[ScheduledNode]
	deps    *depstore.Store
	ir      *irgraph.Graph
	ownerOf map[irgraph.Ref]arena.ID // Addr -> the ScheduledNode it belongs to

	head arena.ID // head of the active-node chain

	cost CostModel // InstructionCost seam, spec §6; defaults to UnitCostModel
}

// NewGraph creates an empty scheduling Graph bound to deps/ir, with the
// trivial UnitCostModel as its cost seam until SetCostModel is called.
func NewGraph(deps *depstore.Store, ir *irgraph.Graph) *Graph {
	return &Graph{
		nodes:   arena.New[ScheduledNode](32, 0),
		deps:    deps,
		ir:      ir,
		ownerOf: make(map[irgraph.Ref]arena.ID),
		head:    arena.Invalid,
		cost:    UnitCostModel{},
	}
}

// Node returns the ScheduledNode payload for id, or nil.
func (g *Graph) Node(id arena.ID) *ScheduledNode {
	if !g.nodes.Valid(id) {
		return nil
	}
	return g.nodes.At(id)
}

// stashEntry is one saved (node, Φ) pair for LP rollback (spec §9
// "Stash/pop").
type stashEntry struct {
	node arena.ID
	phi  *imatrix.Dense
	fo   []int64
	oo   []int64
	rank int
}

// edgeStash is one saved (edge, sat_levels) pair for LP rollback.
type edgeStash struct {
	edge arena.ID
	sat  [2]uint8
}
