package depstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/affinelab/polysched/affine"
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

func addrAt(t *testing.T, g *irgraph.Graph, arr *irgraph.ArrayRef, loop *affine.Loop, index [][]int64, offset, fusionOmega []int64, currentDepth int) irgraph.Ref {
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
	a.CurrentDepth = currentDepth
	return ref
}

func TestCheckDirection_LexicographicPrefix(t *testing.T) {
	assert.True(t, CheckDirection([]int64{0, 1}, []int64{0, 2}))
	assert.False(t, CheckDirection([]int64{0, 2}, []int64{0, 1}))
}

func TestCheckDirection_PrefixTieBreaksOnDeeperSign(t *testing.T) {
	assert.False(t, CheckDirection([]int64{0}, []int64{0, -1}))
	assert.True(t, CheckDirection([]int64{0}, []int64{0, 1}))
}

func TestStore_Check_DisjointArraysNoEdge(t *testing.T) {
	g := irgraph.NewGraph()
	s := NewStore(g)
	loop := boundedLoop(t, 1)
	x := addrAt(t, g, &irgraph.ArrayRef{Name: "A"}, loop, [][]int64{{1}}, []int64{0}, []int64{0}, 1)
	y := addrAt(t, g, &irgraph.ArrayRef{Name: "B"}, loop, [][]int64{{1}}, []int64{0}, []int64{0}, 1)

	id, err := s.Check(x, y)
	require.NoError(t, err)
	assert.Equal(t, arena.Invalid, id)
}

func TestStore_Check_OrdersByFusionOmegaAndLinksChains(t *testing.T) {
	g := irgraph.NewGraph()
	s := NewStore(g)
	arr := &irgraph.ArrayRef{Name: "A"}
	loop := boundedLoop(t, 1)
	// y comes first in program order (fusion_omega 0 < 1), so input should
	// resolve to y and output to x regardless of call argument order.
	x := addrAt(t, g, arr, loop, [][]int64{{1}}, []int64{0}, []int64{1}, 1)
	y := addrAt(t, g, arr, loop, [][]int64{{1}}, []int64{0}, []int64{0}, 1)

	id, err := s.Check(x, y)
	require.NoError(t, err)
	require.NotEqual(t, arena.Invalid, id)

	e := s.Edge(id)
	assert.Equal(t, y, e.Input)
	assert.Equal(t, x, e.Output)
	assert.True(t, e.HasMeta(MetaForward))

	assert.Equal(t, []arena.ID{id}, s.InputEdges(y))
	assert.Equal(t, []arena.ID{id}, s.OutputEdges(x))
}

func TestStore_Check_TimeDimensionChainsReverseEdge(t *testing.T) {
	g := irgraph.NewGraph()
	s := NewStore(g)
	arr := &irgraph.ArrayRef{Name: "A"}
	loop := boundedLoop(t, 2)
	x := addrAt(t, g, arr, loop, [][]int64{{1, 0}}, []int64{0}, []int64{0, 0}, 2)
	y := addrAt(t, g, arr, loop, [][]int64{{1, 0}}, []int64{0}, []int64{0, 0}, 2)

	id, err := s.Check(x, y)
	require.NoError(t, err)
	require.NotEqual(t, arena.Invalid, id)

	fwd := s.Edge(id)
	require.NotEqual(t, arena.Invalid, fwd.RevTimeEdge)
	rev := s.Edge(fwd.RevTimeEdge)
	assert.True(t, rev.HasMeta(MetaReverseTime))
	assert.Equal(t, fwd.Output, rev.Input)
	assert.Equal(t, fwd.Input, rev.Output)
}

func TestStore_RemoveEdge_PatchesHeadAndNeighbors(t *testing.T) {
	g := irgraph.NewGraph()
	s := NewStore(g)
	arr := &irgraph.ArrayRef{Name: "A"}
	loop := boundedLoop(t, 1)
	x := addrAt(t, g, arr, loop, [][]int64{{1}}, []int64{0}, []int64{1}, 1)
	y := addrAt(t, g, arr, loop, [][]int64{{1}}, []int64{0}, []int64{0}, 1)

	id, err := s.Check(x, y)
	require.NoError(t, err)

	require.NoError(t, s.RemoveEdge(id, true, true))
	assert.Nil(t, s.OutputEdges(x))
	assert.Nil(t, s.InputEdges(y))
}

func TestStore_RemoveEdge_UnknownIDErrors(t *testing.T) {
	g := irgraph.NewGraph()
	s := NewStore(g)
	err := s.RemoveEdge(arena.Invalid, true, true)
	assert.ErrorIs(t, err, ErrUnknownEdge)
}

func TestEdge_SatLevelLPAndParallelEncoding(t *testing.T) {
	var e Edge
	e.SatLevel = [2]uint8{SatUnset, SatUnset}

	e.SetSatLevelLP(3, false)
	assert.Equal(t, 3, e.Depth())
	assert.False(t, e.PreventsReorder())
	assert.True(t, e.Satisfied())

	e.SetSatLevelParallel(2, true)
	assert.Equal(t, 2, e.Depth())
	assert.True(t, e.PreventsReorder())

	e.StashSatLevel()
	e.SetSatLevelLP(5, false)
	assert.Equal(t, 5, e.Depth())
	e.RestoreSatLevel()
	assert.Equal(t, 2, e.Depth())
}

func TestStore_DeterminePeelDepth_FindsShallowestSplit(t *testing.T) {
	g := irgraph.NewGraph()
	s := NewStore(g)
	arr := &irgraph.ArrayRef{Name: "A"}
	loop := boundedLoop(t, 2)
	// x depends only on loop 0; y depends only on loop 1 (deeper than 0).
	x := addrAt(t, g, arr, loop, [][]int64{{1, 0}}, []int64{0}, []int64{0, 0}, 2)
	y := addrAt(t, g, arr, loop, [][]int64{{0, 1}}, []int64{0}, []int64{0, 0}, 2)

	id, err := s.Check(x, y)
	require.NoError(t, err)
	require.NotEqual(t, arena.Invalid, id)

	assert.Equal(t, uint8(0), s.DeterminePeelDepth(id))
}

func TestStore_Reload_DuplicatesEdgesOntoClone(t *testing.T) {
	g := irgraph.NewGraph()
	s := NewStore(g)
	arr := &irgraph.ArrayRef{Name: "A"}
	loop := boundedLoop(t, 1)
	x := addrAt(t, g, arr, loop, [][]int64{{1}}, []int64{0}, []int64{1}, 1)
	y := addrAt(t, g, arr, loop, [][]int64{{1}}, []int64{0}, []int64{0}, 1)

	_, err := s.Check(x, y)
	require.NoError(t, err)

	clone := g.NewAddr()
	require.NoError(t, s.Reload(y, clone))

	assert.Len(t, s.InputEdges(clone), 1)
	cloneEdge := s.Edge(s.InputEdges(clone)[0])
	assert.Equal(t, clone, cloneEdge.Input)
	assert.Equal(t, x, cloneEdge.Output)
}

func TestStore_Reload_UnknownCloneErrors(t *testing.T) {
	g := irgraph.NewGraph()
	s := NewStore(g)
	err := s.Reload(irgraph.NilRef, irgraph.Ref{})
	assert.ErrorIs(t, err, ErrNotAStore)
}
