package affine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/affinelab/polysched/internal/imatrix"
	"github.com/affinelab/polysched/symbolic"
)

func newBoundedLoop(t *testing.T, lo, hi int64) *Loop {
	t.Helper()
	// 0 <= i <= hi-1, no dyn syms, not non-negative (explicit rows).
	a, err := imatrix.NewDense(2, 2)
	require.NoError(t, err)
	a.Set(0, 0, -lo)
	a.Set(0, 1, 1) // i - lo >= 0
	a.Set(1, 0, hi-1)
	a.Set(1, 1, -1) // hi-1-i >= 0
	l, err := NewLoop(1, nil, a, false)
	require.NoError(t, err)
	return l
}

func TestLoop_TripCountExact(t *testing.T) {
	l := newBoundedLoop(t, 0, 10)
	exact, val := l.TripCount(0)
	assert.True(t, exact)
	assert.Equal(t, int64(10), val)
}

func TestLoop_TripCountNonNegativeImplicitLower(t *testing.T) {
	a, err := imatrix.NewDense(1, 2)
	require.NoError(t, err)
	a.Set(0, 0, 4)
	a.Set(0, 1, -1) // 4 - i >= 0, i.e. i <= 4
	l, err := NewLoop(1, nil, a, true)
	require.NoError(t, err)

	exact, val := l.TripCount(0)
	assert.True(t, exact)
	assert.Equal(t, int64(5), val) // i in [0,4]
}

func TestLoop_TripCountInexactWithSymbol(t *testing.T) {
	n := symbolic.NewScalar("N")
	a, err := imatrix.NewDense(2, 3)
	require.NoError(t, err)
	// col layout [1,N,i]
	a.Set(0, 1, 1) // N >= 0
	a.Set(1, 1, -1)
	a.Set(1, 2, 1) // i - N - 1 >= 0 => i >= N+1, a symbolic lower bound on i
	a.Set(1, 0, -1)
	l, err := NewLoop(1, []*symbolic.Scalar{n}, a, false)
	require.NoError(t, err)

	exact, val := l.TripCount(0)
	assert.False(t, exact)
	assert.Equal(t, int64(DynLoopEst), val)
}

func TestLoop_PruneBounds_RemovesDominatedRow(t *testing.T) {
	a, err := imatrix.NewDense(3, 2)
	require.NoError(t, err)
	a.Set(0, 0, 0)
	a.Set(0, 1, 1) // i >= 0
	a.Set(1, 0, 3)
	a.Set(1, 1, 1) // i >= -3, dominated by row 0
	a.Set(2, 0, 9)
	a.Set(2, 1, -1) // i <= 9
	l, err := NewLoop(1, nil, a, false)
	require.NoError(t, err)

	require.NoError(t, l.PruneBounds())
	assert.Equal(t, 2, l.A.Rows())
}

func TestLoop_RemoveOuterMost_Idempotent(t *testing.T) {
	a, err := imatrix.NewDense(0, 3)
	require.NoError(t, err)
	l, err := NewLoop(2, nil, a, true)
	require.NoError(t, err)

	once, err := l.RemoveOuterMost(1)
	require.NoError(t, err)
	assert.Equal(t, 1, once.NumLoops)
	assert.Len(t, once.DynSyms, 1)

	twice, err := once.RemoveOuterMost(1)
	require.NoError(t, err)
	assert.Equal(t, once.NumLoops, twice.NumLoops)
	assert.Len(t, twice.DynSyms, 1)
}

func TestLoop_RemoveLoop_DropsColumn(t *testing.T) {
	l := newBoundedLoop(t, 0, 10)
	out, err := l.RemoveLoop(0)
	require.NoError(t, err)
	assert.Equal(t, 0, out.NumLoops)
	assert.Equal(t, 1, out.A.Cols())
}

func TestLoop_Rotate_SwapPreservesNonNegativeWhenRNonNegative(t *testing.T) {
	// swap i and j via permutation matrix; both rows non-negative.
	a, err := imatrix.NewDense(0, 3)
	require.NoError(t, err)
	l, err := NewLoop(2, nil, a, true)
	require.NoError(t, err)

	r, err := imatrix.NewDense(2, 2)
	require.NoError(t, err)
	r.Set(0, 1, 1)
	r.Set(1, 0, 1)

	rotated, err := l.Rotate(r, []int64{0, 0})
	require.NoError(t, err)
	assert.True(t, rotated.NonNegative)
}

func TestLoop_Rotate_NegativeRClearsNonNegative(t *testing.T) {
	a, err := imatrix.NewDense(0, 2)
	require.NoError(t, err)
	l, err := NewLoop(1, nil, a, true)
	require.NoError(t, err)

	r, err := imatrix.NewDense(1, 1)
	require.NoError(t, err)
	r.Set(0, 0, -1)

	rotated, err := l.Rotate(r, []int64{0})
	require.NoError(t, err)
	assert.False(t, rotated.NonNegative)
	assert.Equal(t, 1, rotated.A.Rows()) // materialized i>=0 row carried through
}

func TestConstruct_RejectsNonAffineSuffix(t *testing.T) {
	exprs := []TripCountExpr{
		{Valid: true, Const: 10},
		{Valid: false},
		{Valid: true, Const: 5},
	}
	l, reject, err := Construct(exprs, nil, true)
	require.NoError(t, err)
	assert.Equal(t, 1, l.NumLoops)
	assert.Equal(t, 2, reject)
}

func TestConstruct_AllAffine(t *testing.T) {
	exprs := []TripCountExpr{{Valid: true, Const: 4}, {Valid: true, Const: 8}}
	l, reject, err := Construct(exprs, nil, true)
	require.NoError(t, err)
	assert.Equal(t, 0, reject)
	assert.Equal(t, 2, l.NumLoops)

	exact, val := l.TripCount(0)
	assert.True(t, exact)
	assert.Equal(t, int64(4), val)
}
