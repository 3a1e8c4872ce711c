package engine

import (
	"github.com/affinelab/polysched/affine"
	"github.com/affinelab/polysched/irgraph"
	"github.com/affinelab/polysched/schedule"
)

// TargetQuery is the host's cost-model collaborator (spec §6 "Target
// query"): memory/arithmetic/compare-select/cast/intrinsic cost plus the
// two target-shape facts schedule.CostModel's tie-break ultimately scores
// against. Cost modeling proper stays out of scope (spec §1 Non-goal) —
// this interface is only the seam InstructionCost.cxx names.
type TargetQuery interface {
	MemoryOpCost(ref irgraph.Ref) int64
	ArithmeticOpCost(ref irgraph.Ref) int64
	CmpSelCost(ref irgraph.Ref) int64
	CastCost(ref irgraph.Ref) int64
	IntrinsicCost(ref irgraph.Ref) int64
	HasFMA() bool
	VectorRegisterBitWidth() int
}

// BackedgeQuery is the host's SCEV-shaped collaborator (spec §6 "Symbolic
// backedge-count evaluation"): given a source-loop handle, return either
// an affine expression in outer loops and symbolic constants, or
// affine.TripCountExpr{Valid: false} ("CouldNotCompute").
type BackedgeQuery interface {
	TripCount(sourceLoop interface{}) affine.TripCountExpr
}

// AliasQuery is the host's pointer-aliasing collaborator (spec §6
// "Pointer-aliasing"), consumed by reconstruct.EliminateTemporaries via
// the NonEscaping marker Optimize stamps from it before scheduling.
type AliasQuery interface {
	IsNonEscapingLocalObject(array *irgraph.ArrayRef) bool
	IsRemovableAlloc(array *irgraph.ArrayRef) bool
}

// costAdapter adapts a host TargetQuery to schedule.CostModel, costing an
// Addr by MemoryOpCost and any other ref by ArithmeticOpCost — the two
// cases schedule.Graph.groupCost ever asks about (store/load Addrs).
type costAdapter struct {
	q TargetQuery
}

func (c costAdapter) Cost(g *irgraph.Graph, ref irgraph.Ref) int64 {
	if ref.Kind == irgraph.KindAddr {
		return c.q.MemoryOpCost(ref)
	}
	return c.q.ArithmeticOpCost(ref)
}

// asCostModel wraps q as a schedule.CostModel, or nil if q is nil (callers
// fall back to schedule's own UnitCostModel default).
func asCostModel(q TargetQuery) schedule.CostModel {
	if q == nil {
		return nil
	}
	return costAdapter{q: q}
}
