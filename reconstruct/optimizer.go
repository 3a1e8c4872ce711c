package reconstruct

import (
	"github.com/affinelab/polysched/depstore"
	"github.com/affinelab/polysched/irgraph"
)

// sameIndex reports whether a and b access the same array through
// bit-identical index coefficients, offsets, and symbol coefficients —
// the "same-block same-index Addr" test spec §4.7's pruning pass needs.
func sameIndex(a, b *irgraph.Addr) bool {
	if a.Array != b.Array || a.Dropped || b.Dropped {
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

// replaceOperand rewrites every Compute in universe that references
// oldRef as an operand to reference newRef instead. Addr carries no
// use-list of its own (only Compute does, spec §3 "Users.cxx"), so a
// dropped load's consumers are found by scanning the universe once per
// drop rather than via a reverse index.
func replaceOperand(g *irgraph.Graph, universe []irgraph.Ref, oldRef, newRef irgraph.Ref) {
	for _, r := range universe {
		c := g.Compute(r)
		if c == nil {
			continue
		}
		for i, op := range c.Operands {
			if op == oldRef {
				c.Operands[i] = newRef
			}
		}
	}
}

// PruneRedundantAddresses walks each address's outgoing dependency chain
// (already topologically sorted) and collapses matching same-index pairs:
// a store feeding a same-index load forwards its stored value and drops
// the load; two same-index stores drop the earlier, dead one; two
// same-index loads are CSE'd onto the earlier one (spec §4.7 pass 1).
func PruneRedundantAddresses(g *irgraph.Graph, deps *depstore.Store, universe []irgraph.Ref, addrs []irgraph.Ref) {
	for _, ref := range addrs {
		a := g.Addr(ref)
		if a == nil || a.Dropped {
			continue
		}
		for _, eid := range deps.InputEdges(ref) {
			e := deps.Edge(eid)
			other := g.Addr(e.Output)
			if other == nil || other.Dropped || !sameIndex(a, other) {
				continue
			}
			switch {
			case a.IsStore && !other.IsStore:
				replaceOperand(g, universe, e.Output, a.Stored)
				other.Dropped = true
			case a.IsStore && other.IsStore:
				a.Dropped = true
			case !a.IsStore && !other.IsStore:
				replaceOperand(g, universe, e.Output, ref)
				other.Dropped = true
			}
		}
	}
}

// EliminateTemporaries drops each store to a provably non-escaping array
// once no remaining (non-dropped) address is the output of one of its
// dependency edges (spec §4.7 pass 2). Loads from such an array are not
// dropped.
func EliminateTemporaries(g *irgraph.Graph, deps *depstore.Store, addrs []irgraph.Ref) {
	for _, ref := range addrs {
		a := g.Addr(ref)
		if a == nil || a.Dropped || a.Array == nil || !a.Array.NonEscaping {
			continue
		}
		if !a.IsStore {
			continue
		}
		hasLiveReader := false
		for _, eid := range deps.InputEdges(ref) {
			e := deps.Edge(eid)
			reader := g.Addr(e.Output)
			if reader != nil && !reader.Dropped {
				hasLiveReader = true
				break
			}
		}
		if !hasLiveReader {
			a.Dropped = true
		}
	}
}

// Position records an instruction's place in the final topological order:
// TopIdx is its index within the whole sorted universe, BlkIdx its index
// within its immediate LoopIR block (spec §4.7 pass 3).
type Position struct {
	TopIdx int
	BlkIdx int
}

// PositionAndLegality assigns positions to every instruction in
// topological order and classifies each Phi node with classifyReassociable
// (spec §4.7 pass 3). It stamps no Legality record; StampLoopLegality does
// that per loop level.
func PositionAndLegality(g *irgraph.Graph, deps *depstore.Store, sorted []irgraph.Ref) map[irgraph.Ref]Position {
	positions := make(map[irgraph.Ref]Position, len(sorted))
	blockIdx := make(map[irgraph.Ref]int)

	for i, ref := range sorted {
		base, err := g.Base(ref)
		if err != nil {
			continue
		}
		blk := blockIdx[base.Parent]
		positions[ref] = Position{TopIdx: i, BlkIdx: blk}
		blockIdx[base.Parent] = blk + 1

		if p := g.Phi(ref); p != nil {
			classifyReassociable(g, p)
		}
	}
	return positions
}

// classifyReassociable sets p.Reassociable when p's Operand1 is a Compute
// carrying a valid ReductionDst marker, and p.NotReassociable otherwise.
// Only Operand1 itself is inspected; the operand chain behind it is not
// scanned.
func classifyReassociable(g *irgraph.Graph, p *irgraph.Phi) {
	c := g.Compute(p.Operand1)
	if c == nil {
		p.NotReassociable = true
		return
	}
	if c.ReductionDst.Valid() {
		p.Reassociable = true
		return
	}
	p.NotReassociable = true
}

// StampLoopLegality computes loopRef's Legality record from the
// dependency edges satisfied at depth and the peel depth
// DeterminePeelDepth reports for each of them, one PeelFlag bit per peel
// axis (spec §4.7 pass 3, §3 Legality).
func StampLoopLegality(g *irgraph.Graph, deps *depstore.Store, loopRef irgraph.Ref, addrs []irgraph.Ref, depth int) {
	loop := g.LoopIR(loopRef)
	if loop == nil {
		return
	}
	legality := irgraph.Legality{Reorderable: true}
	for _, ref := range addrs {
		for _, eid := range deps.OutputEdgesAtDepth(ref, depth) {
			loop.SatisfiedEdges = append(loop.SatisfiedEdges, int32(eid))
			e := deps.Edge(eid)
			if e.PreventsReorder() {
				legality.Reorderable = false
			}
			if p := deps.DeterminePeelDepth(eid); p != depstore.NoPeel {
				legality.PeelFlag |= uint32(1) << p
			}
			if e.HasMeta(depstore.MetaReassociable) {
				legality.OrderedReductionCount++
			}
		}
	}
	loop.Legality = legality
}
