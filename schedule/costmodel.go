package schedule

import (
	"sort"

	"github.com/affinelab/polysched/internal/arena"
	"github.com/affinelab/polysched/irgraph"
)

// CostModel is the host-supplied seam for "InstructionCost"-style ranking
// (spec §6 target query: memory_op_cost, arithmetic_op_cost, ...). Cost
// modeling proper is out of scope; CostModel only lets breakGraph prefer
// trying the cheaper of two equally-legal fusion candidates first.
type CostModel interface {
	// Cost estimates the cost of computing ref (an Addr or Compute).
	Cost(g *irgraph.Graph, ref irgraph.Ref) int64
}

// UnitCostModel assigns every ref a cost of 1, the trivial fallback used
// when the host supplies no CostModel (spec §6's InstructionCost seam,
// unimplemented cost proper).
type UnitCostModel struct{}

// Cost always returns 1.
func (UnitCostModel) Cost(*irgraph.Graph, irgraph.Ref) int64 { return 1 }

// groupCost sums Cost over a group's store and loads, used only to order
// breakGraph's fusion attempts (spec "InstructionCost ... ties between
// equally-legal fusions are broken by summed cost").
func (g *Graph) groupCost(group []arena.ID) int64 {
	var total int64
	for _, id := range group {
		n := g.Node(id)
		if n == nil {
			continue
		}
		total += g.cost.Cost(g.ir, n.Store)
		for _, load := range n.Loads {
			total += g.cost.Cost(g.ir, load)
		}
	}
	return total
}

// SetCostModel installs model as g's cost seam. A nil model resets g to
// UnitCostModel.
func (g *Graph) SetCostModel(model CostModel) {
	if model == nil {
		model = UnitCostModel{}
	}
	g.cost = model
}

// sortGroupsByCost stable-sorts groups ascending by groupCost, so the
// fusion loop in breakGraph tries the cheapest component first when
// multiple components are otherwise equally eligible to fuse.
func (g *Graph) sortGroupsByCost(groups [][]arena.ID) {
	sort.SliceStable(groups, func(i, j int) bool {
		return g.groupCost(groups[i]) < g.groupCost(groups[j])
	})
}
