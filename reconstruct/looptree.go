package reconstruct

import (
	"github.com/affinelab/polysched/internal/arena"
	"github.com/affinelab/polysched/irgraph"
	"github.com/affinelab/polysched/schedule"
)

// Build indexes nodes by their fusion_omega prefix, outer to inner,
// rotating each node's loop nest into the solved schedule's basis along
// the way (spec §4.7 "Loop rotation is applied here").
func Build(sg *schedule.Graph, ir *irgraph.Graph, nodes []arena.ID) (*LoopTree, error) {
	t := &LoopTree{Root: newTreeNode(0, nil), sg: sg, ir: ir}
	for _, id := range nodes {
		n := sg.Node(id)
		if n == nil {
			return nil, ErrUnknownNode
		}
		if err := rotateNode(n); err != nil {
			return nil, err
		}
		cur := t.Root
		for _, omega := range n.FusionOmega {
			cur = cur.child(omega)
		}
		cur.Nodes = append(cur.Nodes, id)
	}
	return t, nil
}

// rotateNode applies node.Phi to node's loop nest and offset_omega so
// later passes compare indices in the solved schedule's basis rather than
// the original program's. Phi is a 0/1 permutation matrix (omni.go's
// searchPhiRows assigns each node one unit-vector row per axis), and a
// permutation matrix's inverse is its transpose, not itself, once more
// than one axis can swap — Rotate needs that inverse to map old loop
// coordinates into the new basis, so rotateNode passes Phi^T rather than
// Phi.
func rotateNode(n *schedule.ScheduledNode) error {
	if n.LoopNest == nil || n.Phi == nil {
		return nil
	}
	rotated, err := n.LoopNest.Rotate(n.Phi.Transpose(), n.OffsetOmega)
	if err != nil {
		return err
	}
	n.LoopNest = rotated
	return nil
}

// Materialize walks the prefix tree depth-first, allocating one LoopIR
// node per internal level and attaching each leaf's stores/loads as
// sibling children, returning the root LoopIR ref (spec §4.7, §3 "Loop-IR
// node").
func (t *LoopTree) Materialize() (irgraph.Ref, error) {
	root := t.ir.NewLoopIR()
	if err := t.materializeLevel(t.Root, root); err != nil {
		return irgraph.NilRef, err
	}
	return root, nil
}

func (t *LoopTree) materializeLevel(node *TreeNode, ref irgraph.Ref) error {
	node.LoopIR = ref
	loopIR := t.ir.LoopIR(ref)
	if n := representativeNode(node, t.sg); n != nil {
		loopIR.AffineLoop = n.LoopNest
	}

	for _, id := range node.Nodes {
		n := t.sg.Node(id)
		if n == nil {
			continue
		}
		if err := t.appendChild(ref, n.Store); err != nil {
			return err
		}
		for _, load := range n.Loads {
			if err := t.appendChild(ref, load); err != nil {
				return err
			}
		}
	}

	for _, omega := range node.Order {
		child := node.Children[omega]
		childRef := t.ir.NewLoopIR()
		if err := t.appendChild(ref, childRef); err != nil {
			return err
		}
		if err := t.materializeLevel(child, childRef); err != nil {
			return err
		}
	}
	return nil
}

// appendChild splices childRef onto parentRef's Child/Last sibling chain
// and sets its Parent, mirroring irgraph.Graph.InsertSiblingAfter's O(1)
// splice but for "append at tail" rather than "insert after an anchor".
func (t *LoopTree) appendChild(parentRef, childRef irgraph.Ref) error {
	parent := t.ir.LoopIR(parentRef)
	if parent == nil {
		return ErrNotALoopIR
	}
	childBase, err := t.ir.Base(childRef)
	if err != nil {
		return err
	}
	childBase.Parent = parentRef

	if !parent.Child.Valid() {
		parent.Child = childRef
		parent.Last = childRef
		return nil
	}
	if err := t.ir.InsertSiblingAfter(parent.Last, childRef); err != nil {
		return err
	}
	parent.Last = childRef
	return nil
}

func representativeNode(node *TreeNode, sg *schedule.Graph) *schedule.ScheduledNode {
	if len(node.Nodes) > 0 {
		return sg.Node(node.Nodes[0])
	}
	for _, omega := range node.Order {
		if n := representativeNode(node.Children[omega], sg); n != nil {
			return n
		}
	}
	return nil
}
