package schedule

import (
	"github.com/affinelab/polysched/internal/arena"
	"github.com/affinelab/polysched/irgraph"
)

// AddScheduledNode allocates a ScheduledNode rooted at store and walks its
// stored-value operand tree collecting the loads it reads: a load already
// attached to another node is duplicated via depstore.Reload (the original
// transitively crossed a code-motion boundary and needs its own copy here)
// rather than shared, matching add_scheduled_node's reload-on-conflict rule
// (spec §4.5). The deepest loop nest among store and its loads becomes the
// node's LoopNest.
func (g *Graph) AddScheduledNode(store irgraph.Ref) (arena.ID, error) {
	storeAddr := g.ir.Addr(store)
	if storeAddr == nil {
		return arena.Invalid, ErrUnknownNode
	}

	id, slot, err := g.nodes.Alloc()
	if err != nil {
		return arena.Invalid, err
	}
	slot.Store = store
	slot.LoopNest = storeAddr.Loop
	slot.NumLoops = storeAddr.CurrentDepth
	slot.Next, slot.Component, slot.OriginalNext = arena.Invalid, arena.Invalid, arena.Invalid
	g.ownerOf[store] = id

	if storeAddr.Stored.Valid() {
		if err := g.collectLoads(id, storeAddr.Stored); err != nil {
			return arena.Invalid, err
		}
	}

	slot = g.nodes.At(id) // re-fetch: collectLoads may have grown the arena
	n := slot.NumLoops
	phi, err := newZeroMatrix(n)
	if err != nil {
		return arena.Invalid, err
	}
	slot.Phi = phi
	slot.FusionOmega = make([]int64, n+1)
	slot.OffsetOmega = make([]int64, n)
	slot.Offsets = make([]int64, n)

	slot.Next = g.head
	g.head = id
	return id, nil
}

// collectLoads recursively descends operand trees rooted at ref, attaching
// every load Addr it reaches to node and widening node's loop depth to the
// deepest one found.
func (g *Graph) collectLoads(node arena.ID, ref irgraph.Ref) error {
	switch ref.Kind {
	case irgraph.KindAddr:
		return g.attachLoad(node, ref)
	case irgraph.KindCompute:
		c := g.ir.Compute(ref)
		if c == nil {
			return nil
		}
		for _, operand := range c.Operands {
			if err := g.collectLoads(node, operand); err != nil {
				return err
			}
		}
		return nil
	case irgraph.KindPhi:
		p := g.ir.Phi(ref)
		if p == nil {
			return nil
		}
		if err := g.collectLoads(node, p.Operand0); err != nil {
			return err
		}
		return g.collectLoads(node, p.Operand1)
	default:
		return nil // Constant and unrecognized kinds carry no loads
	}
}

// attachLoad links load onto node's load chain, duplicating load first via
// depstore.Reload if it is already attached elsewhere (PrevLoad valid marks
// a prior attachment).
func (g *Graph) attachLoad(node arena.ID, load irgraph.Ref) error {
	addr := g.ir.Addr(load)
	if addr == nil || addr.IsStore {
		return nil
	}

	target := load
	if addr.PrevLoad.Valid() || addr.NextLoad.Valid() {
		clone := g.ir.NewAddr()
		cloneAddr := g.ir.Addr(clone)
		*cloneAddr = *addr
		cloneAddr.PrevLoad, cloneAddr.NextLoad = irgraph.NilRef, irgraph.NilRef
		if err := g.deps.Reload(load, clone); err != nil {
			return err
		}
		target = clone
		addr = cloneAddr
	}

	n := g.Node(node)
	n.NumLoops = maxInt(n.NumLoops, addr.CurrentDepth)
	n.Loads = append(n.Loads, target)
	g.ownerOf[target] = node
	return nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
