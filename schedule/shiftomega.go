package schedule

import "github.com/affinelab/polysched/internal/arena"

// ShiftOmega canonicalizes node's offset_omega vector once its Φ rows are
// finalized: for each decided depth, it finds the largest constant c that
// can be subtracted from OffsetOmega[d] while every still-incident edge
// stays legal (Δφ ≥ 0), and applies it. This keeps offsets at the smallest
// values that still satisfy every dependence, the way a hand-written
// schedule would start counting from zero rather than from whatever
// arbitrary constant the LP happened to settle on (spec §4.5 shift_omega).
func (g *Graph) ShiftOmega(node arena.ID) error {
	n := g.Node(node)
	if n == nil {
		return ErrUnknownNode
	}
	if n.Offsets == nil {
		n.Offsets = make([]int64, n.NumLoops)
	}

	edges := g.activeIncidentEdges(node)
	for d := 0; d < n.Rank; d++ {
		shift, err := g.maxLegalShift(node, edges, d)
		if err != nil {
			return err
		}
		n.OffsetOmega[d] -= shift
		n.Offsets[d] += shift
	}
	return nil
}

// activeIncidentEdges returns the still-active edges touching node's store
// or any of its loads, regardless of whether the other endpoint is also in
// node's own group (unlike activeEdgesAmong, which requires both ends in a
// given node set).
func (g *Graph) activeIncidentEdges(node arena.ID) []arena.ID {
	n := g.Node(node)
	if n == nil {
		return nil
	}
	seen := make(map[arena.ID]bool)
	var out []arena.ID
	add := func(ids []arena.ID) {
		for _, id := range ids {
			e := g.deps.Edge(id)
			if e == nil || e.Satisfied() {
				continue
			}
			if seen[id] {
				continue
			}
			seen[id] = true
			out = append(out, id)
		}
	}
	add(g.deps.InputEdges(n.Store))
	add(g.deps.OutputEdges(n.Store))
	for _, load := range n.Loads {
		add(g.deps.InputEdges(load))
		add(g.deps.OutputEdges(load))
	}
	return out
}

// maxLegalShift finds the largest c >= 0 such that reducing node's
// OffsetOmega[depth] by c keeps every edge in edges legal at depth,
// probing downward from the current offset by binary-searching the sign
// change (Δφ is affine in the shift, so feasibility is monotone in c).
func (g *Graph) maxLegalShift(node arena.ID, edges []arena.ID, depth int) (int64, error) {
	n := g.Node(node)
	if depth >= len(n.OffsetOmega) {
		return 0, nil
	}

	legalAt := func(c int64) (bool, error) {
		orig := n.OffsetOmega[depth]
		n.OffsetOmega[depth] = orig - c
		defer func() { n.OffsetOmega[depth] = orig }()
		for _, eid := range edges {
			e := g.deps.Edge(eid)
			legal, _, err := g.checkEdge(e, depth, nil)
			if err != nil {
				return false, err
			}
			if !legal {
				return false, nil
			}
		}
		return true, nil
	}

	lo, hi := int64(0), n.OffsetOmega[depth]
	if hi <= 0 {
		return 0, nil
	}
	best := int64(0)
	for lo <= hi {
		mid := lo + (hi-lo)/2
		ok, err := legalAt(mid)
		if err != nil {
			return 0, err
		}
		if ok {
			best = mid
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	return best, nil
}
