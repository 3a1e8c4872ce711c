package schedule

import (
	"github.com/affinelab/polysched/depstore"
	"github.com/affinelab/polysched/internal/arena"
	"github.com/affinelab/polysched/irgraph"
)

// activeSuccessors returns the distinct ScheduledNodes reachable from id
// via still-active (sat_level unset) dependency edges rooted at id's
// store or loads, skipping self-successors.
func (g *Graph) activeSuccessors(id arena.ID) []arena.ID {
	n := g.Node(id)
	if n == nil {
		return nil
	}
	seen := map[arena.ID]bool{id: true}
	var out []arena.ID
	refs := append([]irgraph.Ref{n.Store}, n.Loads...)
	for _, ref := range refs {
		for _, eid := range g.deps.InputEdges(ref) {
			e := g.deps.Edge(eid)
			if e == nil || e.SatLevel[0] != depstore.SatUnset {
				continue
			}
			owner, ok := g.ownerOf[e.Output]
			if !ok || seen[owner] {
				continue
			}
			seen[owner] = true
			out = append(out, owner)
		}
	}
	return out
}

// tarjanState is the scratch bookkeeping for one Tarjan run, kept outside
// the Graph so concurrent test runs never share mutable index counters.
type tarjanState struct {
	g        *Graph
	counter  int
	stack    []arena.ID
	onStack  map[arena.ID]bool
	index    map[arena.ID]int
	lowLink  map[arena.ID]int
	sccs     [][]arena.ID
}

// TarjanSCC partitions nodes into strongly-connected components over the
// subgraph of currently active dependency edges (spec §4.6 "break_graph
// ... Run Tarjan SCC on the subgraph of still-active edges"). Components
// are returned in reverse-topological order, as Tarjan naturally produces.
func (g *Graph) TarjanSCC(nodes []arena.ID) [][]arena.ID {
	st := &tarjanState{
		g:       g,
		onStack: make(map[arena.ID]bool, len(nodes)),
		index:   make(map[arena.ID]int, len(nodes)),
		lowLink: make(map[arena.ID]int, len(nodes)),
	}
	for _, id := range nodes {
		if _, visited := st.index[id]; !visited {
			st.strongConnect(id)
		}
	}
	return st.sccs
}

func (st *tarjanState) strongConnect(v arena.ID) {
	st.index[v] = st.counter
	st.lowLink[v] = st.counter
	st.counter++
	st.stack = append(st.stack, v)
	st.onStack[v] = true

	for _, w := range st.g.activeSuccessors(v) {
		if _, visited := st.index[w]; !visited {
			st.strongConnect(w)
			if st.lowLink[w] < st.lowLink[v] {
				st.lowLink[v] = st.lowLink[w]
			}
		} else if st.onStack[w] {
			if st.index[w] < st.lowLink[v] {
				st.lowLink[v] = st.index[w]
			}
		}
	}

	if st.lowLink[v] == st.index[v] {
		var component []arena.ID
		for {
			n := len(st.stack) - 1
			w := st.stack[n]
			st.stack = st.stack[:n]
			st.onStack[w] = false
			component = append(component, w)
			if w == v {
				break
			}
		}
		st.sccs = append(st.sccs, component)
	}
}
