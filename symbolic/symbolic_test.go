package symbolic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/affinelab/polysched/internal/imatrix"
)

func rowsToDense(t *testing.T, rows [][]int64) *imatrix.Dense {
	t.Helper()
	cols := len(rows[0])
	m, err := imatrix.NewDense(len(rows), cols)
	require.NoError(t, err)
	for r, row := range rows {
		for c, v := range row {
			m.Set(r, c, v)
		}
	}
	return m
}

func TestSimplex_FeasibleBox(t *testing.T) {
	s := NewSimplex(1)
	require.NoError(t, s.AddGE([]int64{1}, 0))
	require.NoError(t, s.AddGE([]int64{-1}, -5))
	ok, err := s.Feasible()
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSimplex_Infeasible(t *testing.T) {
	s := NewSimplex(1)
	require.NoError(t, s.AddGE([]int64{1}, 5))
	require.NoError(t, s.AddGE([]int64{-1}, 1)) // x <= -1, contradicts x >= 5
	ok, err := s.Feasible()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSimplex_Minimize(t *testing.T) {
	// minimize x+y subject to x>=1, y>=2
	s := NewSimplex(2)
	require.NoError(t, s.AddGE([]int64{1, 0}, 1))
	require.NoError(t, s.AddGE([]int64{0, 1}, 2))
	_, ok, val, err := s.Minimize([]int64{1, 1})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(3), val.Num().Int64())
	assert.Equal(t, int64(1), val.Denom().Int64())
}

func TestComparator_IsEmpty(t *testing.T) {
	// Polyhedron over [1, x]: x>=0 and -x-1>=0 (x<=-1) is empty.
	A := rowsToDense(t, [][]int64{{0, 1}, {-1, -1}})
	cmp := NewComparator(Polyhedron{A: A})
	empty, err := cmp.IsEmpty()
	require.NoError(t, err)
	assert.True(t, empty)
}

func TestComparator_IsNotEmpty(t *testing.T) {
	// 0 <= x <= 5 is non-empty.
	A := rowsToDense(t, [][]int64{{0, 1}, {5, -1}})
	cmp := NewComparator(Polyhedron{A: A})
	empty, err := cmp.IsEmpty()
	require.NoError(t, err)
	assert.False(t, empty)
}

func TestComparator_IsGreaterEqualZero(t *testing.T) {
	// On 0 <= x <= 5, the row "x >= 0" trivially holds everywhere.
	A := rowsToDense(t, [][]int64{{0, 1}, {5, -1}})
	cmp := NewComparator(Polyhedron{A: A})
	holds, err := cmp.IsGreaterEqualZero([]int64{0, 1})
	require.NoError(t, err)
	assert.True(t, holds)

	// "x >= 6" does not hold everywhere (fails at x=0).
	holds, err = cmp.IsGreaterEqualZero([]int64{-6, 1})
	require.NoError(t, err)
	assert.False(t, holds)
}

func TestComparator_IsRowImplied(t *testing.T) {
	// Rows: x>=0, x>=-3 (dominated by the first), x<=5.
	A := rowsToDense(t, [][]int64{{0, 1}, {3, 1}, {5, -1}})
	cmp := NewComparator(Polyhedron{A: A})

	implied, err := cmp.IsRowImplied(A, 1)
	require.NoError(t, err)
	assert.True(t, implied, "x>=-3 should be implied by x>=0")

	implied, err = cmp.IsRowImplied(A, 0)
	require.NoError(t, err)
	assert.False(t, implied, "x>=0 is not implied by x>=-3 and x<=5 alone")
}
