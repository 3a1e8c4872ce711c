package reconstruct

import "github.com/affinelab/polysched/irgraph"

// TopologicalSort orders items so that every Compute appears before the
// users recorded in its Users list, walked via the two-visit-bit DFS
// pattern of algorithms/dfs.go (visited here collapses the hoist-behind
// and main-sort passes spec §4.7 describes into a single pass: a ref is
// pushed to the front of the result only once every user already in the
// working set has been placed, which keeps producers ahead of consumers).
func TopologicalSort(g *irgraph.Graph, items []irgraph.Ref) []irgraph.Ref {
	inSet := make(map[irgraph.Ref]bool, len(items))
	for _, r := range items {
		inSet[r] = true
	}

	visited := make(map[irgraph.Ref]bool, len(items))
	var result []irgraph.Ref
	var visit func(r irgraph.Ref)
	visit = func(r irgraph.Ref) {
		if visited[r] {
			return
		}
		visited[r] = true
		if c := g.Compute(r); c != nil {
			for _, u := range c.Users {
				if inSet[u] {
					visit(u)
				}
			}
		}
		result = append([]irgraph.Ref{r}, result...)
	}
	for _, r := range items {
		visit(r)
	}
	return result
}

// ApplyHoistMask walks a LoopIR level's sorted children and marks each
// Addr whose LoopDeps bit for bit is clear as hoistable in front of the
// loop — it does not depend on this level's induction variable, so a
// valid schedule may execute it once rather than per iteration (spec §4.7
// step 4, §3 HoistMask).
func ApplyHoistMask(g *irgraph.Graph, items []irgraph.Ref, bit int) {
	mask := uint32(1) << uint(bit)
	for _, r := range items {
		a := g.Addr(r)
		if a == nil {
			continue
		}
		if a.LoopDeps&mask == 0 {
			a.HoistMask |= irgraph.HoistFront
		}
	}
}
