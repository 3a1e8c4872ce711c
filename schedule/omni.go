package schedule

import (
	"github.com/affinelab/polysched/deppoly"
	"github.com/affinelab/polysched/depstore"
	"github.com/affinelab/polysched/internal/arena"
)

// candidateRow returns node's schedule row at depth: the already-committed
// row when depth < node.Rank, the row searchPhiRows is currently proposing
// for node's id in trial (if any), or an all-zero row once depth reaches
// node's own loop count (the node has no more levels to contribute at this
// depth).
func candidateRow(node *ScheduledNode, id arena.ID, depth, dim int, trial map[arena.ID][]int64) []int64 {
	row := make([]int64, dim)
	if node == nil {
		return row
	}
	if depth < node.Rank && node.Phi != nil {
		for k := 0; k < dim && k < node.Phi.Cols(); k++ {
			row[k] = node.Phi.At(depth, k)
		}
		return row
	}
	if depth < node.NumLoops {
		if r, ok := trial[id]; ok {
			copy(row, r)
		}
	}
	return row
}

// candidateOffset returns node's offset_omega entry at depth, or 0 once
// depth is out of range.
func candidateOffset(node *ScheduledNode, depth int) int64 {
	if node == nil || depth >= len(node.OffsetOmega) {
		return 0
	}
	return node.OffsetOmega[depth]
}

func negate(row []int64) []int64 {
	out := make([]int64, len(row))
	for i, v := range row {
		out[i] = -v
	}
	return out
}

// edgeLegal tests e's happens-before relation (Input before Output) under
// the candidate rows xRow/yRow at offsets xOff/yOff, and separately decodes
// whether that candidate already satisfies e outright.
//
// Input is always the program-order predecessor; DepPoly's x/y sides are
// the original deppoly.Dependence argument order, which Check may have
// swapped relative to Input/Output (depstore.Edge.InputIsX records which).
// The Farkas row's constant/phi_x/phi_y columns evaluate to
// "omega + phi_x·i_x - phi_y·i_y"; choosing signs so this equals
// T_output - T_input lets a single Feasible() check stand in for the
// causality test in either orientation.
func edgeLegal(e *depstore.Edge, xRow, yRow []int64, xOff, yOff int64) (legal, satisfied bool, err error) {
	dp := e.DepPoly

	var phiXPin, phiYPin []int64
	var omega int64
	if e.InputIsX {
		// input=x, output=y: want T_y - T_x >= 0.
		phiXPin, phiYPin = negate(xRow), negate(yRow)
		omega = yOff - xOff
	} else {
		// input=y, output=x: want T_x - T_y >= 0.
		phiXPin, phiYPin = xRow, yRow
		omega = xOff - yOff
	}

	sat, bnd, err := deppoly.FarkasPair(dp)
	if err != nil {
		return false, false, err
	}
	if err := deppoly.PinSchedule(dp, sat, omega, phiXPin, phiYPin); err != nil {
		return false, false, err
	}
	legal, err = sat.Feasible()
	if err != nil || !legal {
		return false, false, err
	}

	if err := deppoly.PinSchedule(dp, bnd, omega, phiXPin, phiYPin); err != nil {
		return false, false, err
	}
	satisfied, err = deppoly.BoundSlackZero(dp, bnd)
	if err != nil {
		return false, false, err
	}
	return true, satisfied, nil
}

// checkEdge resolves e's x/y-side ScheduledNodes, reads their candidate
// rows out of trial (falling back to already-committed or zero rows per
// candidateRow), and runs edgeLegal.
func (g *Graph) checkEdge(e *depstore.Edge, depth int, trial map[arena.ID][]int64) (legal, satisfied bool, err error) {
	inID, outID := g.ownerOf[e.Input], g.ownerOf[e.Output]
	inNode, outNode := g.Node(inID), g.Node(outID)

	var xID, yID arena.ID
	var xNode, yNode *ScheduledNode
	if e.InputIsX {
		xID, yID, xNode, yNode = inID, outID, inNode, outNode
	} else {
		xID, yID, xNode, yNode = outID, inID, outNode, inNode
	}

	dp := e.DepPoly
	xRow := candidateRow(xNode, xID, depth, dp.DimX, trial)
	yRow := candidateRow(yNode, yID, depth, dp.DimY, trial)
	xOff := candidateOffset(xNode, depth)
	yOff := candidateOffset(yNode, depth)
	return edgeLegal(e, xRow, yRow, xOff, yOff)
}

// availableAxes returns node's loop axes not already claimed by one of its
// earlier committed schedule rows, ascending — the order searchPhiRows
// tries candidates in, so a node that can keep its declared loop order
// always does, and only a dependence that makes that illegal pushes the
// search toward a permuted row.
func availableAxes(n *ScheduledNode) []int {
	used := make(map[int]bool, n.Rank)
	for r := 0; r < n.Rank; r++ {
		for c := 0; c < n.Phi.Cols(); c++ {
			if n.Phi.At(r, c) != 0 {
				used[c] = true
				break
			}
		}
	}
	axes := make([]int, 0, n.NumLoops-len(used))
	for k := 0; k < n.NumLoops; k++ {
		if !used[k] {
			axes = append(axes, k)
		}
	}
	return axes
}

// edgesLegalUnder reports whether every edge in edges stays non-negative
// (Δφ ≥ 0) under trial's candidate rows.
func (g *Graph) edgesLegalUnder(edges []arena.ID, depth int, trial map[arena.ID][]int64) (bool, error) {
	for _, eid := range edges {
		e := g.deps.Edge(eid)
		legal, _, err := g.checkEdge(e, depth, trial)
		if err != nil {
			return false, err
		}
		if !legal {
			return false, nil
		}
	}
	return true, nil
}

// searchPhiRows finds a schedule row at depth for every node in needsRow
// that, taken together, keeps every edge in edges legal (spec §4.6 steps
// 2-4's omni-simplex independence search). Each node's own candidate rows
// are the unit vectors on its axes not yet claimed by an earlier row
// (availableAxes); searchPhiRows backtracks across needsRow, smallest axis
// first per node, so the result is the lexicographically-first legal
// combination of independent rows rather than the declared-order identity
// the LP recursion used to assume unconditionally.
func (g *Graph) searchPhiRows(needsRow []arena.ID, edges []arena.ID, depth int) (map[arena.ID][]int64, bool, error) {
	trial := make(map[arena.ID][]int64, len(needsRow))
	ok, err := g.assignPhiRows(needsRow, 0, edges, depth, trial)
	if err != nil || !ok {
		return nil, false, err
	}
	return trial, true, nil
}

func (g *Graph) assignPhiRows(needsRow []arena.ID, idx int, edges []arena.ID, depth int, trial map[arena.ID][]int64) (bool, error) {
	if idx == len(needsRow) {
		return g.edgesLegalUnder(edges, depth, trial)
	}

	id := needsRow[idx]
	n := g.Node(id)
	for _, axis := range availableAxes(n) {
		row := make([]int64, n.NumLoops)
		row[axis] = 1
		trial[id] = row

		ok, err := g.assignPhiRows(needsRow, idx+1, edges, depth, trial)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	delete(trial, id)
	return false, nil
}

// activeEdgesAmong returns the distinct still-active dependency edges with
// both endpoints owned by a node in nodes.
func (g *Graph) activeEdgesAmong(nodes []arena.ID) []arena.ID {
	in := make(map[arena.ID]bool, len(nodes))
	for _, id := range nodes {
		in[id] = true
	}
	seen := make(map[arena.ID]bool)
	var out []arena.ID
	for _, id := range nodes {
		n := g.Node(id)
		if n == nil {
			continue
		}
		for _, eid := range g.deps.InputEdges(n.Store) {
			collectActive(g, eid, in, seen, &out)
		}
		for _, load := range n.Loads {
			for _, eid := range g.deps.InputEdges(load) {
				collectActive(g, eid, in, seen, &out)
			}
		}
	}
	return out
}

func collectActive(g *Graph, eid arena.ID, in map[arena.ID]bool, seen map[arena.ID]bool, out *[]arena.ID) {
	if seen[eid] {
		return
	}
	e := g.deps.Edge(eid)
	if e == nil || e.SatLevel[0] != depstore.SatUnset {
		return
	}
	inOwner, okIn := g.ownerOf[e.Input]
	outOwner, okOut := g.ownerOf[e.Output]
	if !okIn || !okOut || !in[inOwner] || !in[outOwner] {
		return
	}
	seen[eid] = true
	*out = append(*out, eid)
}
