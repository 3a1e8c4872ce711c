package reconstruct

import (
	"github.com/affinelab/polysched/internal/arena"
	"github.com/affinelab/polysched/irgraph"
	"github.com/affinelab/polysched/schedule"
)

// TreeNode is one level of the fusion_omega prefix tree: the omega value
// that reaches it, its children keyed by the next omega, and — once this
// is a leaf level reached by one or more ScheduledNodes — the node ids
// attached there plus the materialized LoopIR ref.
type TreeNode struct {
	Omega    int64
	Parent   *TreeNode
	Children map[int64]*TreeNode
	Order    []int64 // child omegas in first-seen order, for stable iteration

	Nodes  []arena.ID // ScheduledNode ids whose fusion_omega prefix ends here
	LoopIR irgraph.Ref
}

func newTreeNode(omega int64, parent *TreeNode) *TreeNode {
	return &TreeNode{Omega: omega, Parent: parent, Children: make(map[int64]*TreeNode)}
}

func (t *TreeNode) child(omega int64) *TreeNode {
	c, ok := t.Children[omega]
	if !ok {
		c = newTreeNode(omega, t)
		t.Children[omega] = c
		t.Order = append(t.Order, omega)
	}
	return c
}

// LoopTree is the scratch prefix tree spec §4.7 builds from the solved
// ScheduledNode list before topological sorting and LoopIR materialization.
type LoopTree struct {
	Root *TreeNode
	sg   *schedule.Graph
	ir   *irgraph.Graph
}
