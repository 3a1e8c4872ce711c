package reconstruct

import (
	"github.com/affinelab/polysched/depstore"
	"github.com/affinelab/polysched/irgraph"
)

// InsertReductionPhis marks loopRef's depth-independent children
// hoistable in front of it (ApplyHoistMask) and, for every hoisted load
// still carrying a register-eligible dependence on a same-index store
// left inside loopRef, synthesizes the accumulator/join Φ pair that
// thread the store's per-iteration value through the loop the way a
// hand-rotated reduction would (original_source mod/IR/Cache.cxx
// createPhiPair, invoked from mod/Optimize/IRGraph.cxx
// visitLoopDependent when a hoisted load's output edge still targets a
// store). The new Phi refs are returned so callers can fold them into
// the universe before re-sorting.
func InsertReductionPhis(g *irgraph.Graph, deps *depstore.Store, loopRef irgraph.Ref, depth int, items, universe []irgraph.Ref) []irgraph.Ref {
	ApplyHoistMask(g, items, depth)

	var created []irgraph.Ref
	for _, ref := range items {
		a := g.Addr(ref)
		if a == nil || a.IsStore || a.HoistMask&irgraph.HoistFront == 0 {
			continue
		}
		for _, eid := range deps.OutputEdgesAtDepth(ref, depth) {
			e := deps.Edge(eid)
			if !e.HasMeta(depstore.MetaRegisterEligible) {
				continue
			}
			store := g.Addr(e.Input)
			if store == nil || !store.IsStore || !store.Stored.Valid() {
				continue
			}
			v := store.Stored
			if g.Compute(v) == nil {
				continue
			}
			accum, join := createPhiPair(g, universe, ref, v, loopRef, depth)
			created = append(created, accum, join)
		}
	}
	return created
}

// createPhiPair builds the Φ pair for load (hoisted in front of loopRef,
// at bit depth) and v (the Compute a same-index store inside loopRef
// stows each iteration): phi_accu sits inside loopRef, prepended as its
// new first child, merging load with v; phi_join sits one level
// shallower, spliced immediately after loopRef, merging the same pair
// for the value the loop produces as a whole. load's users still inside
// loopRef move onto phi_accu (its users outside loopRef stay on load,
// which was already hoisted in front); v's users outside loopRef move
// onto phi_join (its users still inside — the next iteration's own
// accumulation — stay on v), mirroring createPhiPair's in-loop/
// out-of-loop user partition (original_source mod/IR/Cache.cxx).
func createPhiPair(g *irgraph.Graph, universe []irgraph.Ref, load, v, loopRef irgraph.Ref, depth int) (accum, join irgraph.Ref) {
	mask := uint32(1) << uint(depth)
	inLoop := func(ref irgraph.Ref) bool {
		base, err := g.Base(ref)
		return err == nil && base.LoopDeps&mask != 0
	}

	accum = g.NewPhi()
	ap := g.Phi(accum)
	ap.Flavor = irgraph.PhiAccum
	ap.Operand0, ap.Operand1 = load, v

	join = g.NewPhi()
	jp := g.Phi(join)
	jp.Flavor = irgraph.PhiJoin
	jp.Operand0, jp.Operand1 = load, v

	prependChild(g, loopRef, accum)
	insertAfterLoop(g, loopRef, join)

	for _, r := range universe {
		c := g.Compute(r)
		if c == nil || !inLoop(r) {
			continue
		}
		for i, op := range c.Operands {
			if op == load {
				c.Operands[i] = accum
			}
		}
	}

	if vc := g.Compute(v); vc != nil {
		var keep []irgraph.Ref
		for _, user := range vc.Users {
			if inLoop(user) {
				keep = append(keep, user)
				continue
			}
			if uc := g.Compute(user); uc != nil {
				for i, op := range uc.Operands {
					if op == v {
						uc.Operands[i] = join
					}
				}
			}
		}
		vc.Users = keep
		vc.AddUser(accum)
		vc.AddUser(join)
	}

	return accum, join
}

// prependChild splices childRef onto parentRef's Child/Last chain as its
// new head, the way createPhiPair places phi_accu ahead of a loop's
// existing body (original_source mod/IR/Cache.cxx
// "phi_accu->setNext(L->getChild())->setParent(L)").
func prependChild(g *irgraph.Graph, parentRef, childRef irgraph.Ref) error {
	parent := g.LoopIR(parentRef)
	if parent == nil {
		return ErrNotALoopIR
	}
	childBase, err := g.Base(childRef)
	if err != nil {
		return err
	}
	childBase.Parent = parentRef
	old := parent.Child
	childBase.Prev, childBase.Next = irgraph.NilRef, old
	if old.Valid() {
		if oldBase, err := g.Base(old); err == nil {
			oldBase.Prev = childRef
		}
	} else {
		parent.Last = childRef
	}
	parent.Child = childRef
	return nil
}

// insertAfterLoop splices ref in as loopRef's next sibling, one level
// shallower than loopRef's body — where phi_join's merged value becomes
// available once the loop it closes has run.
func insertAfterLoop(g *irgraph.Graph, loopRef, ref irgraph.Ref) error {
	loopBase, err := g.Base(loopRef)
	if err != nil {
		return err
	}
	refBase, err := g.Base(ref)
	if err != nil {
		return err
	}
	refBase.Parent = loopBase.Parent
	if err := g.InsertSiblingAfter(loopRef, ref); err != nil {
		return err
	}
	if parent := g.LoopIR(loopBase.Parent); parent != nil && parent.Last == loopRef {
		parent.Last = ref
	}
	return nil
}
