package schedule

import (
	"github.com/affinelab/polysched/internal/arena"
)

// Optimize recursively assigns one schedule dimension at a time, splitting
// the graph into strongly-connected components when a dimension cannot be
// solved as a whole (spec §4.6 optimize).
func (g *Graph) Optimize(nodes []arena.ID, depth, maxDepth int) (Result, error) {
	if depth >= maxDepth {
		return Independent, nil
	}

	r, err := g.solveGraph(nodes, depth, false)
	if err != nil {
		return Failure, err
	}
	if r != Failure {
		n, err := g.Optimize(nodes, depth+1, maxDepth)
		if err != nil {
			return Failure, err
		}
		if n != Failure {
			if r == Dependent && n == Dependent {
				return g.optimizeSatDep(nodes, depth, maxDepth)
			}
			return combine(r, n), nil
		}
	}
	return g.breakGraph(nodes, depth, maxDepth)
}

// solveGraph searches for a depth-th schedule row for every node in nodes
// that still needs one: searchPhiRows tries independent unit rows per node
// (smallest axis first, backtracking across nodes), accepting only a
// combination that keeps every still-active edge among nodes non-negative
// (Δφ ≥ 0) — spec §4.6's omni-simplex independence search, not the
// declared-order identity alone. On success, the rows are committed
// (node.Rank advances) and any edge that is also strictly satisfied
// (bounding slack driven to zero, deppoly.BoundSlackZero) is retired via
// SetSatLevelLP, optionally requiring satisfyDeps to retire even
// non-strict ties preventing reorder.
func (g *Graph) solveGraph(nodes []arena.ID, depth int, satisfyDeps bool) (Result, error) {
	edges := g.activeEdgesAmong(nodes)

	var needsRow []arena.ID
	anyDim := false
	for _, id := range nodes {
		n := g.Node(id)
		if n == nil {
			continue
		}
		if depth < n.NumLoops {
			anyDim = true
		}
		if depth >= n.Rank && depth < n.NumLoops {
			needsRow = append(needsRow, id)
		}
	}
	if !anyDim {
		return Independent, nil
	}

	trial, ok, err := g.searchPhiRows(needsRow, edges, depth)
	if err != nil {
		return Failure, err
	}
	if !ok {
		return Failure, nil
	}

	result := Independent
	var satisfied []arena.ID
	for _, eid := range edges {
		e := g.deps.Edge(eid)
		_, strict, err := g.checkEdge(e, depth, trial)
		if err != nil {
			return Failure, err
		}
		if strict || satisfyDeps {
			satisfied = append(satisfied, eid)
		} else {
			result = Dependent
		}
	}

	for _, id := range needsRow {
		g.commitRow(id, depth, trial[id])
	}
	for _, eid := range satisfied {
		g.deps.Edge(eid).SetSatLevelLP(depth, false)
	}
	return result, nil
}

// commitRow writes row — the schedule row searchPhiRows found legal for
// every active edge — into node's Phi matrix at depth and advances Rank,
// once depth is within its loop count.
func (g *Graph) commitRow(id arena.ID, depth int, row []int64) {
	n := g.Node(id)
	if n == nil || depth >= n.NumLoops || depth < n.Rank {
		return
	}
	for k := 0; k < n.Phi.Cols(); k++ {
		v := int64(0)
		if k < len(row) {
			v = row[k]
		}
		n.Phi.Set(depth, k, v)
	}
	n.Rank = depth + 1
}

// breakGraph splits nodes into strongly-connected components over the
// still-active subgraph, marks edges crossing components as satisfied in
// parallel (their order is fixed by the partition itself, not by a Φ
// row), then solves each component independently from depth onward,
// greedily re-fusing topologically adjacent components back together when
// that does not reintroduce a cycle (spec §4.6 break_graph / try_fuse).
func (g *Graph) breakGraph(nodes []arena.ID, depth, maxDepth int) (Result, error) {
	sccs := g.TarjanSCC(nodes)
	if len(sccs) <= 1 {
		return Failure, nil
	}

	sccOf := make(map[arena.ID]int, len(nodes))
	for i, scc := range sccs {
		for _, id := range scc {
			sccOf[id] = i
		}
	}
	for _, eid := range g.activeEdgesAmong(nodes) {
		e := g.deps.Edge(eid)
		if sccOf[g.ownerOf[e.Input]] != sccOf[g.ownerOf[e.Output]] {
			e.SetSatLevelParallel(depth, false)
		}
	}

	groups := make([][]arena.ID, len(sccs))
	copy(groups, sccs)
	g.sortGroupsByCost(groups)
	result := Dependent

	for i := 1; i < len(groups); {
		fused, r, err := g.tryFuse(groups[i-1], groups[i], depth, maxDepth)
		if err != nil {
			return Failure, err
		}
		if fused {
			groups[i-1] = append(groups[i-1], groups[i]...)
			groups = append(groups[:i], groups[i+1:]...)
			result = combine(result, r)
			continue
		}
		i++
	}

	fusionCounter := int64(0)
	for _, group := range groups {
		r, err := g.Optimize(group, depth, maxDepth)
		if err != nil {
			return Failure, err
		}
		if r == Failure {
			return Failure, nil
		}
		result = combine(result, r)
		for _, id := range group {
			n := g.Node(id)
			if depth < len(n.FusionOmega) {
				n.FusionOmega[depth] = fusionCounter
			}
		}
		fusionCounter++
	}
	return result, nil
}

// optimizeSatDep re-solves depth with satisfyDeps set, eagerly retiring
// every still-active edge among nodes so deeper depths see a smaller
// active set, restoring the previous schedule on failure (spec §4.6
// "when both halves remain dependent, retry satisfying all deps").
func (g *Graph) optimizeSatDep(nodes []arena.ID, depth, maxDepth int) (Result, error) {
	nodeStash := g.stashNodes(nodes)
	edges := g.activeEdgesAmong(nodes)
	edgeStash := g.stashEdges(edges)

	r, err := g.solveGraph(nodes, depth, true)
	if err != nil {
		g.restoreNodes(nodeStash)
		g.restoreEdges(edgeStash)
		return Failure, err
	}
	if r == Failure {
		g.restoreNodes(nodeStash)
		g.restoreEdges(edgeStash)
		return g.breakGraph(nodes, depth, maxDepth)
	}

	n, err := g.Optimize(nodes, depth+1, maxDepth)
	if err != nil || n == Failure {
		g.restoreNodes(nodeStash)
		g.restoreEdges(edgeStash)
		if err != nil {
			return Failure, err
		}
		return g.breakGraph(nodes, depth, maxDepth)
	}
	return combine(r, n), nil
}

// tryFuse attempts to solve a and b as a single combined group from depth
// onward, restoring both groups' schedules and sat levels on failure.
func (g *Graph) tryFuse(a, b []arena.ID, depth, maxDepth int) (bool, Result, error) {
	merged := append(append([]arena.ID{}, a...), b...)
	nodeStash := g.stashNodes(merged)
	edges := g.activeEdgesAmong(merged)
	edgeStash := g.stashEdges(edges)

	r, err := g.Optimize(merged, depth, maxDepth)
	if err != nil || r == Failure {
		g.restoreNodes(nodeStash)
		g.restoreEdges(edgeStash)
		return false, Failure, err
	}
	return true, r, nil
}

func (g *Graph) stashNodes(ids []arena.ID) []stashEntry {
	out := make([]stashEntry, 0, len(ids))
	for _, id := range ids {
		n := g.Node(id)
		if n == nil {
			continue
		}
		out = append(out, stashEntry{
			node: id,
			phi:  cloneMatrix(n.Phi),
			fo:   cloneInts(n.FusionOmega),
			oo:   cloneInts(n.OffsetOmega),
			rank: n.Rank,
		})
	}
	return out
}

func (g *Graph) restoreNodes(stash []stashEntry) {
	for _, s := range stash {
		n := g.Node(s.node)
		if n == nil {
			continue
		}
		n.Phi = s.phi
		n.FusionOmega = s.fo
		n.OffsetOmega = s.oo
		n.Rank = s.rank
	}
}

func (g *Graph) stashEdges(ids []arena.ID) []edgeStash {
	out := make([]edgeStash, 0, len(ids))
	for _, id := range ids {
		e := g.deps.Edge(id)
		if e == nil {
			continue
		}
		e.StashSatLevel()
		out = append(out, edgeStash{edge: id, sat: e.SatLevel})
	}
	return out
}

func (g *Graph) restoreEdges(stash []edgeStash) {
	for _, s := range stash {
		e := g.deps.Edge(s.edge)
		if e == nil {
			continue
		}
		e.SatLevel = [2]uint8{s.sat[1], s.sat[1]}
	}
}
