package irgraph

import "github.com/affinelab/polysched/internal/arena"

// Graph owns the five per-kind arenas that back every node allocated
// during one pass. It is created fresh per invocation and dropped as a
// unit afterward (spec §5 "the arena is exclusively owned by the invoking
// thread for the duration of the pass").
type Graph struct {
	addrs     *arena.Arena[Addr]
	computes  *arena.Arena[Compute]
	phis      *arena.Arena[Phi]
	loops     *arena.Arena[LoopIR]
	constants *arena.Arena[Constant]
}

// NewGraph creates an empty Graph with modest initial arena capacities.
func NewGraph() *Graph {
	return &Graph{
		addrs:     arena.New[Addr](64, 0),
		computes:  arena.New[Compute](64, 0),
		phis:      arena.New[Phi](16, 0),
		loops:     arena.New[LoopIR](16, 0),
		constants: arena.New[Constant](16, 0),
	}
}

// NewAddr allocates a zero-valued Addr and returns its Ref.
func (g *Graph) NewAddr() Ref {
	id, slot, _ := g.addrs.Alloc()
	slot.EdgeIn, slot.EdgeOut = arena.Invalid, arena.Invalid
	slot.NextLoad, slot.PrevLoad = NilRef, NilRef
	slot.Parent, slot.Prev, slot.Next = NilRef, NilRef, NilRef
	return Ref{Kind: KindAddr, ID: id}
}

// NewCompute allocates a zero-valued Compute and returns its Ref.
func (g *Graph) NewCompute() Ref {
	id, slot, _ := g.computes.Alloc()
	slot.Parent, slot.Prev, slot.Next = NilRef, NilRef, NilRef
	slot.ReductionDst = NilRef
	return Ref{Kind: KindCompute, ID: id}
}

// NewPhi allocates a zero-valued Phi and returns its Ref.
func (g *Graph) NewPhi() Ref {
	id, slot, _ := g.phis.Alloc()
	slot.Parent, slot.Prev, slot.Next = NilRef, NilRef, NilRef
	slot.Operand0, slot.Operand1 = NilRef, NilRef
	return Ref{Kind: KindPhi, ID: id}
}

// NewLoopIR allocates a zero-valued LoopIR and returns its Ref.
func (g *Graph) NewLoopIR() Ref {
	id, slot, _ := g.loops.Alloc()
	slot.Parent, slot.Prev, slot.Next = NilRef, NilRef, NilRef
	slot.Child, slot.Last = NilRef, NilRef
	return Ref{Kind: KindLoopIR, ID: id}
}

// NewConstant allocates a Constant with the given value and returns its Ref.
func (g *Graph) NewConstant(v int64) Ref {
	id, slot, _ := g.constants.Alloc()
	slot.Value = v
	slot.Parent, slot.Prev, slot.Next = NilRef, NilRef, NilRef
	return Ref{Kind: KindConstant, ID: id}
}

// Addr returns the Addr payload for ref, or nil if ref is not a KindAddr Ref.
func (g *Graph) Addr(ref Ref) *Addr {
	if ref.Kind != KindAddr {
		return nil
	}
	return g.addrs.At(ref.ID)
}

// Compute returns the Compute payload for ref, or nil.
func (g *Graph) Compute(ref Ref) *Compute {
	if ref.Kind != KindCompute {
		return nil
	}
	return g.computes.At(ref.ID)
}

// Phi returns the Phi payload for ref, or nil.
func (g *Graph) Phi(ref Ref) *Phi {
	if ref.Kind != KindPhi {
		return nil
	}
	return g.phis.At(ref.ID)
}

// LoopIR returns the LoopIR payload for ref, or nil.
func (g *Graph) LoopIR(ref Ref) *LoopIR {
	if ref.Kind != KindLoopIR {
		return nil
	}
	return g.loops.At(ref.ID)
}

// Constant returns the Constant payload for ref, or nil.
func (g *Graph) Constant(ref Ref) *Constant {
	if ref.Kind != KindConstant {
		return nil
	}
	return g.constants.At(ref.ID)
}

// Base dispatches on ref.Kind to return the common Base header shared by
// every node kind — the one-switch dispatch the design notes call for
// instead of a virtual-method hierarchy.
func (g *Graph) Base(ref Ref) (*Base, error) {
	switch ref.Kind {
	case KindAddr:
		if a := g.Addr(ref); a != nil {
			return &a.Base, nil
		}
	case KindCompute:
		if c := g.Compute(ref); c != nil {
			return &c.Base, nil
		}
	case KindPhi:
		if p := g.Phi(ref); p != nil {
			return &p.Base, nil
		}
	case KindLoopIR:
		if l := g.LoopIR(ref); l != nil {
			return &l.Base, nil
		}
	case KindConstant:
		if c := g.Constant(ref); c != nil {
			return &c.Base, nil
		}
	default:
		return nil, ErrUnknownKind
	}
	return nil, ErrUnknownKind
}

// InsertSiblingAfter splices newNode into the sibling chain right after
// anchor, an O(1) intrusive-list operation (design notes: sibling chains
// must support O(1) insertion/removal of the current element).
func (g *Graph) InsertSiblingAfter(anchor, newNode Ref) error {
	ab, err := g.Base(anchor)
	if err != nil {
		return err
	}
	nb, err := g.Base(newNode)
	if err != nil {
		return err
	}
	next := ab.Next
	nb.Prev, nb.Next = anchor, next
	ab.Next = newNode
	if next.Valid() {
		if nextBase, err := g.Base(next); err == nil {
			nextBase.Prev = newNode
		}
	}
	return nil
}

// RemoveSibling unlinks ref from its sibling chain in O(1), patching its
// neighbors' Prev/Next.
func (g *Graph) RemoveSibling(ref Ref) error {
	b, err := g.Base(ref)
	if err != nil {
		return err
	}
	if b.Prev.Valid() {
		if prevBase, err := g.Base(b.Prev); err == nil {
			prevBase.Next = b.Next
		}
	}
	if b.Next.Valid() {
		if nextBase, err := g.Base(b.Next); err == nil {
			nextBase.Prev = b.Prev
		}
	}
	b.Prev, b.Next = NilRef, NilRef
	return nil
}
