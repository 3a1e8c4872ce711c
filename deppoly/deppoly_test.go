package deppoly

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/affinelab/polysched/affine"
	"github.com/affinelab/polysched/internal/imatrix"
	"github.com/affinelab/polysched/irgraph"
)

func boundedLoop(t *testing.T, numLoops int) *affine.Loop {
	t.Helper()
	cols := 1 + numLoops
	a, err := imatrix.NewDense(0, cols)
	require.NoError(t, err)
	l, err := affine.NewLoop(numLoops, nil, a, true)
	require.NoError(t, err)
	return l
}

func newAddr(t *testing.T, arr *irgraph.ArrayRef, loop *affine.Loop, index [][]int64, offset []int64, fusionOmega []int64) *irgraph.Addr {
	t.Helper()
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
	return &irgraph.Addr{
		Array:         arr,
		Loop:          loop,
		IndexMatrix:   idx,
		OffsetOmega:   offset,
		OffsetSymbols: offSyms,
		FusionOmega:   fusionOmega,
	}
}

func TestDependence_DisjointArraysReturnsNil(t *testing.T) {
	loop := boundedLoop(t, 1)
	x := newAddr(t, &irgraph.ArrayRef{Name: "A"}, loop, [][]int64{{1}}, []int64{0}, []int64{0})
	y := newAddr(t, &irgraph.ArrayRef{Name: "B"}, loop, [][]int64{{1}}, []int64{0}, []int64{0})

	dp, err := Dependence(x, y)
	require.NoError(t, err)
	assert.Nil(t, dp)
}

func TestDependence_SameElementDifferentOffset_NoTimeDim(t *testing.T) {
	arr := &irgraph.ArrayRef{Name: "A"}
	loop := boundedLoop(t, 1)
	x := newAddr(t, arr, loop, [][]int64{{1}}, []int64{0}, []int64{0})
	y := newAddr(t, arr, loop, [][]int64{{1}}, []int64{1}, []int64{0})

	dp, err := Dependence(x, y)
	require.NoError(t, err)
	require.NotNil(t, dp)
	assert.Equal(t, 0, dp.TimeDim)
	assert.Equal(t, 1, dp.DimX)
	assert.Equal(t, 1, dp.DimY)
	assert.Equal(t, 1, dp.E.Rows())
	assert.Equal(t, int64(-1), dp.E.At(0, 0))
}

func TestDependence_ReuseAlongOrthogonalLoop_HasTimeDim(t *testing.T) {
	arr := &irgraph.ArrayRef{Name: "A"}
	loop := boundedLoop(t, 2) // i, j
	// Access A[i]: only loop 0 (i) appears in the index.
	x := newAddr(t, arr, loop, [][]int64{{1, 0}}, []int64{0}, []int64{0, 0})
	y := newAddr(t, arr, loop, [][]int64{{1, 0}}, []int64{0}, []int64{0, 0})

	dp, err := Dependence(x, y)
	require.NoError(t, err)
	require.NotNil(t, dp)
	assert.Equal(t, 1, dp.TimeDim)
	require.Len(t, dp.NullSteps, 1)
	assert.Equal(t, int64(1), dp.NullSteps[0])
}

func TestFarkasPair_BuildsBothSimplices(t *testing.T) {
	arr := &irgraph.ArrayRef{Name: "A"}
	loop := boundedLoop(t, 1)
	x := newAddr(t, arr, loop, [][]int64{{1}}, []int64{0}, []int64{0})
	y := newAddr(t, arr, loop, [][]int64{{1}}, []int64{1}, []int64{0})

	dp, err := Dependence(x, y)
	require.NoError(t, err)

	sat, bnd, err := FarkasPair(dp)
	require.NoError(t, err)
	require.NotNil(t, sat)
	require.NotNil(t, bnd)
	assert.Greater(t, bnd.NumVars(), sat.NumVars())
}

func TestCheckSat_SamePhiMakesPolyhedronEmpty(t *testing.T) {
	arr := &irgraph.ArrayRef{Name: "A"}
	loop := boundedLoop(t, 1)
	x := newAddr(t, arr, loop, [][]int64{{1}}, []int64{0}, []int64{0})
	y := newAddr(t, arr, loop, [][]int64{{1}}, []int64{1}, []int64{0})

	dp, err := Dependence(x, y)
	require.NoError(t, err)

	// x_phi = y_phi = identity, offsets 0: combined with E's x-y=1
	// equality this forces i_x == i_y while also requiring i_x - i_y == 1,
	// an unsatisfiable pair of equalities.
	empty, err := CheckSat(dp, []int64{1}, 0, []int64{1}, 0)
	require.NoError(t, err)
	assert.True(t, empty)
}

func TestPinSchedule_IdentityRowIsLegalOnAscendingOffsets(t *testing.T) {
	arr := &irgraph.ArrayRef{Name: "A"}
	loop := boundedLoop(t, 1)
	x := newAddr(t, arr, loop, [][]int64{{1}}, []int64{0}, []int64{0})
	y := newAddr(t, arr, loop, [][]int64{{1}}, []int64{1}, []int64{0})

	dp, err := Dependence(x, y)
	require.NoError(t, err)

	sat, _, err := FarkasPair(dp)
	require.NoError(t, err)

	// phi_x = phi_y = identity, omega = -1: omega + i_x - i_y is exactly
	// the existing i_x - i_y - 1 = 0 equality, so the pinned system stays
	// feasible.
	require.NoError(t, PinSchedule(dp, sat, -1, []int64{1}, []int64{1}))
	feasible, err := sat.Feasible()
	require.NoError(t, err)
	assert.True(t, feasible)
}

func TestPinSchedule_WrongDimensionErrors(t *testing.T) {
	arr := &irgraph.ArrayRef{Name: "A"}
	loop := boundedLoop(t, 1)
	x := newAddr(t, arr, loop, [][]int64{{1}}, []int64{0}, []int64{0})
	y := newAddr(t, arr, loop, [][]int64{{1}}, []int64{1}, []int64{0})

	dp, err := Dependence(x, y)
	require.NoError(t, err)
	sat, _, err := FarkasPair(dp)
	require.NoError(t, err)

	err = PinSchedule(dp, sat, 0, []int64{1, 2}, []int64{1})
	assert.ErrorIs(t, err, ErrScheduleDimMismatch)
}

func TestCheckSat_DifferentPhiRemainsFeasible(t *testing.T) {
	arr := &irgraph.ArrayRef{Name: "A"}
	loop := boundedLoop(t, 1)
	x := newAddr(t, arr, loop, [][]int64{{1}}, []int64{0}, []int64{0})
	y := newAddr(t, arr, loop, [][]int64{{1}}, []int64{1}, []int64{0})

	dp, err := Dependence(x, y)
	require.NoError(t, err)

	// x_phi.i_x == y_phi.i_y + 1 matches E's existing i_x - i_y == 1, so the
	// polyhedron stays feasible.
	empty, err := CheckSat(dp, []int64{1}, 0, []int64{1}, 1)
	require.NoError(t, err)
	assert.False(t, empty)
}
