package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/affinelab/polysched/affine"
	"github.com/affinelab/polysched/depstore"
	"github.com/affinelab/polysched/internal/arena"
	"github.com/affinelab/polysched/internal/imatrix"
	"github.com/affinelab/polysched/irgraph"
)

func boundedLoop(t *testing.T, numLoops int) *affine.Loop {
	t.Helper()
	a, err := imatrix.NewDense(0, 1+numLoops)
	require.NoError(t, err)
	l, err := affine.NewLoop(numLoops, nil, a, true)
	require.NoError(t, err)
	return l
}

func storeAt(t *testing.T, g *irgraph.Graph, arr *irgraph.ArrayRef, loop *affine.Loop, index [][]int64, offset, fusionOmega []int64) irgraph.Ref {
	t.Helper()
	ref := g.NewAddr()
	a := g.Addr(ref)
	dim := len(index)
	idx, err := imatrix.NewDense(dim, loop.NumLoops)
	require.NoError(t, err)
	for r, row := range index {
		for c, v := range row {
			idx.Set(r, c, v)
		}
	}
	offSyms, err := imatrix.NewDense(dim, len(loop.DynSyms))
	require.NoError(t, err)
	a.Array = arr
	a.Loop = loop
	a.IndexMatrix = idx
	a.OffsetOmega = offset
	a.OffsetSymbols = offSyms
	a.FusionOmega = fusionOmega
	a.CurrentDepth = loop.NumLoops
	a.IsStore = true
	a.Stored = irgraph.NilRef
	return ref
}

func TestAddScheduledNode_InitializesZeroSchedule(t *testing.T) {
	g := irgraph.NewGraph()
	deps := depstore.NewStore(g)
	loop := boundedLoop(t, 2)
	store := storeAt(t, g, &irgraph.ArrayRef{Name: "A"}, loop, [][]int64{{1, 0}}, []int64{0}, []int64{0, 0})

	sg := NewGraph(deps, g)
	id, err := sg.AddScheduledNode(store)
	require.NoError(t, err)

	n := sg.Node(id)
	require.NotNil(t, n)
	assert.Equal(t, 2, n.NumLoops)
	assert.Equal(t, 0, n.Rank)
	assert.Equal(t, 2, n.Phi.Rows())
	assert.Len(t, n.FusionOmega, 3)
	assert.Len(t, n.OffsetOmega, 2)
}

func TestOptimize_DisjointArraysAreIndependent(t *testing.T) {
	g := irgraph.NewGraph()
	deps := depstore.NewStore(g)
	loop := boundedLoop(t, 1)
	x := storeAt(t, g, &irgraph.ArrayRef{Name: "A"}, loop, [][]int64{{1}}, []int64{0}, []int64{0})
	y := storeAt(t, g, &irgraph.ArrayRef{Name: "B"}, loop, [][]int64{{1}}, []int64{0}, []int64{1})

	_, err := deps.Check(x, y)
	require.NoError(t, err)

	sg := NewGraph(deps, g)
	idX, err := sg.AddScheduledNode(x)
	require.NoError(t, err)
	idY, err := sg.AddScheduledNode(y)
	require.NoError(t, err)

	r, err := sg.Optimize([]arena.ID{idX, idY}, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, Independent, r)
}

func loadAt(t *testing.T, g *irgraph.Graph, arr *irgraph.ArrayRef, loop *affine.Loop, index [][]int64, offset, fusionOmega []int64) irgraph.Ref {
	t.Helper()
	ref := g.NewAddr()
	a := g.Addr(ref)
	dim := len(index)
	idx, err := imatrix.NewDense(dim, loop.NumLoops)
	require.NoError(t, err)
	for r, row := range index {
		for c, v := range row {
			idx.Set(r, c, v)
		}
	}
	offSyms, err := imatrix.NewDense(dim, len(loop.DynSyms))
	require.NoError(t, err)
	a.Array = arr
	a.Loop = loop
	a.IndexMatrix = idx
	a.OffsetOmega = offset
	a.OffsetSymbols = offSyms
	a.FusionOmega = fusionOmega
	a.CurrentDepth = loop.NumLoops
	return ref
}

// TestOptimize_MutualTransposedDependenceForcesAxisSwap builds two nodes
// with a genuine 2-cycle: X stores into A along its own axis 1 and Y reads
// A along its axis 0, while Y stores into B along its axis 0 and X reads B
// along its axis 1. Both edges run in opposite node directions, so
// TarjanSCC reports one component and breakGraph's decompose-and-mark-
// parallel fallback (which would let any acyclic pair "succeed" regardless
// of Φ legality) cannot apply — solveGraph's omni-simplex search has to
// find a real row assignment. Declared-order identity is illegal for both
// edges (X's axis-0 domain row alone makes it infeasible), so a legal
// depth-0 assignment only exists by moving X onto axis 1, swapping it
// relative to Y.
func TestOptimize_MutualTransposedDependenceForcesAxisSwap(t *testing.T) {
	g := irgraph.NewGraph()
	deps := depstore.NewStore(g)
	loop := boundedLoop(t, 2)
	arrA := &irgraph.ArrayRef{Name: "A", DimSizes: []irgraph.SizeExpr{{Const: 1024}}}
	arrB := &irgraph.ArrayRef{Name: "B", DimSizes: []irgraph.SizeExpr{{Const: 1024}}}

	xStoreA := storeAt(t, g, arrA, loop, [][]int64{{0, 1}}, []int64{0}, []int64{0, 0})
	yLoadA := loadAt(t, g, arrA, loop, [][]int64{{1, 0}}, []int64{0}, []int64{1, 0})

	yStoreB := storeAt(t, g, arrB, loop, [][]int64{{1, 0}}, []int64{0}, []int64{0, 0})
	xLoadB := loadAt(t, g, arrB, loop, [][]int64{{0, 1}}, []int64{0}, []int64{1, 0})

	e1, err := deps.Check(xStoreA, yLoadA)
	require.NoError(t, err)
	require.NotEqual(t, arena.Invalid, e1)

	e2, err := deps.Check(yStoreB, xLoadB)
	require.NoError(t, err)
	require.NotEqual(t, arena.Invalid, e2)

	sg := NewGraph(deps, g)
	idX, err := sg.AddScheduledNode(xStoreA)
	require.NoError(t, err)
	idY, err := sg.AddScheduledNode(yStoreB)
	require.NoError(t, err)

	nx := sg.Node(idX)
	nx.Loads = append(nx.Loads, xLoadB)
	sg.ownerOf[xLoadB] = idX

	ny := sg.Node(idY)
	ny.Loads = append(ny.Loads, yLoadA)
	sg.ownerOf[yLoadA] = idY

	sccs := sg.TarjanSCC([]arena.ID{idX, idY})
	require.Len(t, sccs, 1)

	r, err := sg.Optimize([]arena.ID{idX, idY}, 0, 2)
	require.NoError(t, err)
	assert.NotEqual(t, Failure, r)

	assert.True(t, deps.Edge(e1).Satisfied())
	assert.True(t, deps.Edge(e2).Satisfied())

	assert.Equal(t, int64(0), nx.Phi.At(0, 0))
	assert.Equal(t, int64(1), nx.Phi.At(0, 1))
	assert.Equal(t, int64(1), nx.Phi.At(1, 0))
	assert.Equal(t, int64(0), nx.Phi.At(1, 1))

	assert.Equal(t, int64(1), ny.Phi.At(0, 0))
	assert.Equal(t, int64(0), ny.Phi.At(0, 1))
	assert.Equal(t, int64(0), ny.Phi.At(1, 0))
	assert.Equal(t, int64(1), ny.Phi.At(1, 1))
}

func TestOptimize_OrderedAccessesBecomeSatisfied(t *testing.T) {
	g := irgraph.NewGraph()
	deps := depstore.NewStore(g)
	loop := boundedLoop(t, 1)
	arr := &irgraph.ArrayRef{Name: "A"}
	x := storeAt(t, g, arr, loop, [][]int64{{1}}, []int64{0}, []int64{0})
	y := storeAt(t, g, arr, loop, [][]int64{{1}}, []int64{1}, []int64{1})

	eid, err := deps.Check(x, y)
	require.NoError(t, err)
	require.NotEqual(t, arena.Invalid, eid)

	sg := NewGraph(deps, g)
	idX, err := sg.AddScheduledNode(x)
	require.NoError(t, err)
	idY, err := sg.AddScheduledNode(y)
	require.NoError(t, err)

	r, err := sg.Optimize([]arena.ID{idX, idY}, 0, 1)
	require.NoError(t, err)
	assert.NotEqual(t, Failure, r)
	assert.True(t, deps.Edge(eid).Satisfied())
}

func TestTarjanSCC_SplitsUnrelatedNodes(t *testing.T) {
	g := irgraph.NewGraph()
	deps := depstore.NewStore(g)
	loop := boundedLoop(t, 1)
	x := storeAt(t, g, &irgraph.ArrayRef{Name: "A"}, loop, [][]int64{{1}}, []int64{0}, []int64{0})
	y := storeAt(t, g, &irgraph.ArrayRef{Name: "B"}, loop, [][]int64{{1}}, []int64{0}, []int64{1})

	sg := NewGraph(deps, g)
	idX, err := sg.AddScheduledNode(x)
	require.NoError(t, err)
	idY, err := sg.AddScheduledNode(y)
	require.NoError(t, err)

	sccs := sg.TarjanSCC([]arena.ID{idX, idY})
	assert.Len(t, sccs, 2)
}

func TestShiftOmega_PullsOffsetDownToZeroWithNoConstraints(t *testing.T) {
	g := irgraph.NewGraph()
	deps := depstore.NewStore(g)
	loop := boundedLoop(t, 1)
	x := storeAt(t, g, &irgraph.ArrayRef{Name: "A"}, loop, [][]int64{{1}}, []int64{0}, []int64{0})

	sg := NewGraph(deps, g)
	id, err := sg.AddScheduledNode(x)
	require.NoError(t, err)

	n := sg.Node(id)
	n.OffsetOmega[0] = 5
	n.Rank = 1

	require.NoError(t, sg.ShiftOmega(id))
	assert.Equal(t, int64(0), n.OffsetOmega[0])
	assert.Equal(t, int64(5), n.Offsets[0])
}

func TestGraph_Node_UnknownIDReturnsNil(t *testing.T) {
	g := irgraph.NewGraph()
	deps := depstore.NewStore(g)
	sg := NewGraph(deps, g)
	assert.Nil(t, sg.Node(arena.Invalid))
}
