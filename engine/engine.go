package engine

import (
	"github.com/affinelab/polysched/deppoly"
	"github.com/affinelab/polysched/depstore"
	"github.com/affinelab/polysched/internal/arena"
	"github.com/affinelab/polysched/irgraph"
	"github.com/affinelab/polysched/reconstruct"
	"github.com/affinelab/polysched/schedule"
)

// Result is engine.Optimize's return value: the single output spec §6
// "External Interfaces" names — a root Loop-IR node, a vector mapping
// each original edge id to the loop level that satisfied it, and each
// reconstructed loop's Legality record (carried inline on the LoopIR
// nodes reconstruct.IROptimizer already stamped; EdgeLevels is the
// standalone vector the host indexes directly by edge id).
type Result struct {
	Root       irgraph.Ref
	EdgeLevels []int // index i is depstore edge id i; -1 means never satisfied
	Positions  map[irgraph.Ref]reconstruct.Position

	// EraseCandidates lists arrays every one of whose addrs was dropped by
	// temporary elimination and that the host's AliasQuery approved for
	// removal (spec §8 Scenario 6 "added to the host's erase-candidate set").
	EraseCandidates []*irgraph.ArrayRef
}

// Optimize is the single call a host makes per function/region (spec §6).
// addrs is every Addr reference in the region, in program order — Optimize
// derives dependencies by checking every same-array pair via depstore.Check
// (a no-op for disjoint arrays, spec §4.4). roots is the subset of addrs
// that are stores rooting one ScheduledNode apiece (spec §4.5
// add_scheduled_node); each root's load chain is discovered by walking its
// stored-value operand tree, so roots' loads need not also appear in addrs
// (though they may).
//
// o configures the call (NewOptions(...) applied over the zero-configuration
// default); a nil o behaves like NewOptions().
//
// A construction or scheduling failure on one root is reported via a
// Remark and that root is left out of the returned tree entirely (spec §7
// "the affected region is left untransformed") rather than failing
// Optimize as a whole.
func Optimize(g *irgraph.Graph, deps *depstore.Store, addrs, roots []irgraph.Ref, o *Options) (Result, error) {
	if len(roots) == 0 {
		return Result{}, ErrNoRoots
	}
	if o == nil {
		o = defaultOptions()
	}

	if o.nullSpaceBasis != nil {
		deppoly.SetNullSpaceOverride(o.nullSpaceBasis)
		defer deppoly.ClearNullSpaceOverride()
	}

	applyAliasQuery(g, addrs, o.alias)

	for i := 0; i < len(addrs); i++ {
		for j := i + 1; j < len(addrs); j++ {
			if _, err := deps.Check(addrs[i], addrs[j]); err != nil {
				return Result{}, err
			}
		}
	}

	sg := schedule.NewGraph(deps, g)
	sg.SetCostModel(asCostModel(o.target))

	var nodeIDs []arena.ID
	maxDepth := 0
	for i, root := range roots {
		addr := g.Addr(root)
		if addr == nil || !addr.IsStore {
			return Result{}, ErrUnknownRoot
		}
		id, err := sg.AddScheduledNode(root)
		if err != nil {
			o.remark(Remark{Kind: RemarkBarrier, Root: i, Detail: err.Error()})
			continue
		}
		nodeIDs = append(nodeIDs, id)
		if n := sg.Node(id); n != nil && n.NumLoops > maxDepth {
			maxDepth = n.NumLoops
		}
	}
	if o.maxSCCDepth > 0 && o.maxSCCDepth < maxDepth {
		maxDepth = o.maxSCCDepth
	}
	if len(nodeIDs) == 0 {
		return Result{}, ErrNoRoots
	}

	if _, err := sg.Optimize(nodeIDs, 0, maxDepth); err != nil {
		return Result{}, err
	}
	for _, id := range nodeIDs {
		if err := sg.ShiftOmega(id); err != nil {
			return Result{}, err
		}
	}

	opt := reconstruct.NewIROptimizer(g, deps, sg)
	root, positions, err := opt.Optimize(nodeIDs)
	if err != nil {
		o.remark(Remark{Kind: RemarkBarrier, Detail: err.Error()})
		return Result{}, err
	}
	o.remark(Remark{Kind: RemarkScheduled})

	return Result{
		Root:            root,
		EdgeLevels:      edgeLevels(deps),
		Positions:       positions,
		EraseCandidates: eraseCandidates(g, addrs, o.alias),
	}, nil
}

// eraseCandidates finds every array reachable from addrs whose addrs are
// now all dropped and that the host's AliasQuery approves removing.
func eraseCandidates(g *irgraph.Graph, addrs []irgraph.Ref, alias AliasQuery) []*irgraph.ArrayRef {
	if alias == nil {
		return nil
	}
	liveArray := make(map[*irgraph.ArrayRef]bool)
	seenArray := make(map[*irgraph.ArrayRef]bool)
	for _, ref := range addrs {
		a := g.Addr(ref)
		if a == nil || a.Array == nil {
			continue
		}
		seenArray[a.Array] = true
		if !a.Dropped {
			liveArray[a.Array] = true
		}
	}
	var out []*irgraph.ArrayRef
	for arr := range seenArray {
		if !liveArray[arr] && alias.IsRemovableAlloc(arr) {
			out = append(out, arr)
		}
	}
	return out
}

// applyAliasQuery stamps ArrayRef.NonEscaping from the host's AliasQuery
// for every distinct array reachable from addrs, once per array.
func applyAliasQuery(g *irgraph.Graph, addrs []irgraph.Ref, alias AliasQuery) {
	if alias == nil {
		return
	}
	seen := make(map[*irgraph.ArrayRef]bool)
	for _, ref := range addrs {
		a := g.Addr(ref)
		if a == nil || a.Array == nil || seen[a.Array] {
			continue
		}
		seen[a.Array] = true
		a.Array.NonEscaping = alias.IsNonEscapingLocalObject(a.Array)
	}
}

// edgeLevels builds the edge-id -> satisfying-loop-level vector spec §6
// names as Optimize's second output, -1 for edges that never satisfied
// (should not happen for a fully solved schedule, but is not itself a
// failure — spec §7 only requires sentinel values, not panics).
func edgeLevels(deps *depstore.Store) []int {
	out := make([]int, deps.Len())
	for i := range out {
		e := deps.Edge(arena.ID(i))
		if e == nil || !e.Satisfied() {
			out[i] = -1
			continue
		}
		out[i] = e.Depth()
	}
	return out
}
