package reconstruct

import (
	"github.com/affinelab/polysched/depstore"
	"github.com/affinelab/polysched/internal/arena"
	"github.com/affinelab/polysched/irgraph"
	"github.com/affinelab/polysched/schedule"
)

// IROptimizer drives the three post-scheduling passes over one
// materialized LoopIR tree (spec §4.7 "IROptimizer runs three
// post-scheduling passes").
type IROptimizer struct {
	g    *irgraph.Graph
	deps *depstore.Store
	sg   *schedule.Graph
}

// NewIROptimizer binds an IROptimizer to the graph, dependency store, and
// scheduled-node graph it will reconstruct from.
func NewIROptimizer(g *irgraph.Graph, deps *depstore.Store, sg *schedule.Graph) *IROptimizer {
	return &IROptimizer{g: g, deps: deps, sg: sg}
}

// Optimize builds the LoopTree from nodes, materializes it into LoopIR,
// and runs the prune/eliminate/position-and-legality passes, returning
// the root LoopIR ref plus each surviving instruction's final Position.
func (o *IROptimizer) Optimize(nodes []arena.ID) (irgraph.Ref, map[irgraph.Ref]Position, error) {
	tree, err := Build(o.sg, o.g, nodes)
	if err != nil {
		return irgraph.NilRef, nil, err
	}
	root, err := tree.Materialize()
	if err != nil {
		return irgraph.NilRef, nil, err
	}

	universe := o.collectChildren(root)
	created := o.insertReductionPhis(root, 0, universe)
	universe = append(universe, created...)
	addrs := filterAddrs(o.g, universe)

	PruneRedundantAddresses(o.g, o.deps, universe, addrs)
	EliminateTemporaries(o.g, o.deps, addrs)

	live := dropDropped(o.g, universe)
	sorted := TopologicalSort(o.g, live)
	positions := PositionAndLegality(o.g, o.deps, sorted)

	o.stampLegality(root, 0, filterAddrs(o.g, live))
	return root, positions, nil
}

// collectChildren walks ref's Child/Next sibling chain, recursing into
// nested LoopIR levels, and returns every leaf instruction ref it finds.
func (o *IROptimizer) collectChildren(ref irgraph.Ref) []irgraph.Ref {
	loop := o.g.LoopIR(ref)
	if loop == nil {
		return nil
	}
	var out []irgraph.Ref
	for cur := loop.Child; cur.Valid(); {
		base, err := o.g.Base(cur)
		if err != nil {
			break
		}
		if cur.Kind == irgraph.KindLoopIR {
			out = append(out, o.collectChildren(cur)...)
		} else {
			out = append(out, cur)
		}
		cur = base.Next
	}
	return out
}

// insertReductionPhis recurses through ref's nested LoopIR levels,
// synthesizing the accumulator/join Φ pair for each hoisted load that
// still carries a register-eligible dependence on a same-index store at
// that level (InsertReductionPhis), and returns every new Phi ref
// created anywhere in the tree so Optimize can fold them into universe.
func (o *IROptimizer) insertReductionPhis(ref irgraph.Ref, depth int, universe []irgraph.Ref) []irgraph.Ref {
	loop := o.g.LoopIR(ref)
	if loop == nil {
		return nil
	}
	var items []irgraph.Ref
	for cur := loop.Child; cur.Valid(); {
		base, err := o.g.Base(cur)
		if err != nil {
			break
		}
		items = append(items, cur)
		cur = base.Next
	}

	created := InsertReductionPhis(o.g, o.deps, ref, depth, items, universe)

	for cur := loop.Child; cur.Valid(); {
		base, err := o.g.Base(cur)
		if err != nil {
			break
		}
		if cur.Kind == irgraph.KindLoopIR {
			created = append(created, o.insertReductionPhis(cur, depth+1, universe)...)
		}
		cur = base.Next
	}
	return created
}

// stampLegality re-walks ref's sibling chain and stamps each nested
// LoopIR's Legality at its own depth, recursing top-down.
func (o *IROptimizer) stampLegality(ref irgraph.Ref, depth int, addrs []irgraph.Ref) {
	loop := o.g.LoopIR(ref)
	if loop == nil {
		return
	}
	StampLoopLegality(o.g, o.deps, ref, addrs, depth)
	for cur := loop.Child; cur.Valid(); {
		base, err := o.g.Base(cur)
		if err != nil {
			break
		}
		if cur.Kind == irgraph.KindLoopIR {
			o.stampLegality(cur, depth+1, addrs)
		}
		cur = base.Next
	}
}

func filterAddrs(g *irgraph.Graph, refs []irgraph.Ref) []irgraph.Ref {
	var out []irgraph.Ref
	for _, r := range refs {
		if r.Kind == irgraph.KindAddr {
			out = append(out, r)
		}
	}
	return out
}

func dropDropped(g *irgraph.Graph, refs []irgraph.Ref) []irgraph.Ref {
	var out []irgraph.Ref
	for _, r := range refs {
		if a := g.Addr(r); a != nil && a.Dropped {
			continue
		}
		out = append(out, r)
	}
	return out
}

