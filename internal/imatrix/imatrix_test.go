package imatrix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGcdLcm(t *testing.T) {
	assert.Equal(t, int64(6), Gcd(12, 18))
	assert.Equal(t, int64(6), Gcd(-12, 18))
	assert.Equal(t, int64(12), Gcd(0, 12))
	assert.Equal(t, int64(36), Lcm(12, 18))
	assert.Equal(t, int64(0), Lcm(0, 5))
}

func TestExtendedGcd(t *testing.T) {
	a, b := int64(240), int64(46)
	g, x, y := ExtendedGcd(a, b)
	assert.Equal(t, Gcd(a, b), g)
	assert.Equal(t, g, a*x+b*y)
}

func TestDense_SetAtRoundTrip(t *testing.T) {
	m, err := NewDense(2, 3)
	require.NoError(t, err)
	m.Set(0, 0, 1)
	m.Set(1, 2, -4)
	assert.Equal(t, int64(1), m.At(0, 0))
	assert.Equal(t, int64(-4), m.At(1, 2))
	assert.Equal(t, int64(0), m.At(0, 1))
}

func TestDense_AppendRowsAndDiag(t *testing.T) {
	a, _ := NewDense(1, 2)
	a.Set(0, 0, 1)
	a.Set(0, 1, 2)
	b, _ := NewDense(1, 2)
	b.Set(0, 0, 3)
	b.Set(0, 1, 4)

	stacked, err := a.AppendRows(b)
	require.NoError(t, err)
	assert.Equal(t, 2, stacked.Rows())
	assert.Equal(t, int64(3), stacked.At(1, 0))

	diag := Diag(a, b)
	assert.Equal(t, 2, diag.Rows())
	assert.Equal(t, 4, diag.Cols())
	assert.Equal(t, int64(0), diag.At(0, 2))
	assert.Equal(t, int64(3), diag.At(1, 2))
}

func TestDense_DropColumn(t *testing.T) {
	m, _ := NewDense(1, 3)
	m.Set(0, 0, 1)
	m.Set(0, 1, 2)
	m.Set(0, 2, 3)
	out, err := m.DropColumn(1)
	require.NoError(t, err)
	assert.Equal(t, 2, out.Cols())
	assert.Equal(t, int64(1), out.At(0, 0))
	assert.Equal(t, int64(3), out.At(0, 1))
}

func TestDense_RowGCDNormalize(t *testing.T) {
	m, _ := NewDense(1, 3)
	m.Set(0, 0, 4)
	m.Set(0, 1, 6)
	m.Set(0, 2, 8)
	m.RowGCDNormalize(0)
	assert.Equal(t, []int64{2, 3, 4}, m.Row(0))
}

// matVec multiplies m (rows x cols) by the column vector v (length cols).
func matVec(m *Dense, v []int64) []int64 {
	out := make([]int64, m.rows)
	for r := 0; r < m.rows; r++ {
		var sum int64
		for c := 0; c < m.cols; c++ {
			sum += m.At(r, c) * v[c]
		}
		out[r] = sum
	}
	return out
}

func TestHNF_PreservesProduct(t *testing.T) {
	m, _ := NewDense(2, 3)
	m.Set(0, 0, 2)
	m.Set(0, 1, 4)
	m.Set(0, 2, 6)
	m.Set(1, 0, 1)
	m.Set(1, 1, 0)
	m.Set(1, 2, 3)

	H, U := HNF(m)
	require.Equal(t, m.Rows(), H.Rows())
	require.Equal(t, m.Cols(), H.Cols())

	// m * U must equal H column by column.
	for c := 0; c < U.Cols(); c++ {
		col := make([]int64, U.Cols())
		col[c] = 1
		uCol := matVec(U, col)
		got := matVec(m, uCol)
		for r := 0; r < H.Rows(); r++ {
			assert.Equal(t, H.At(r, c), got[r], "column %d row %d", c, r)
		}
	}
}

func TestNullSpaceBasis_AnnihilatesMatrix(t *testing.T) {
	// Rank-1 matrix: rows are multiples of [1,2,3]; null space has rank 2.
	m, _ := NewDense(2, 3)
	m.Set(0, 0, 1)
	m.Set(0, 1, 2)
	m.Set(0, 2, 3)
	m.Set(1, 0, 2)
	m.Set(1, 1, 4)
	m.Set(1, 2, 6)

	basis, err := NullSpaceBasis(m)
	require.NoError(t, err)
	assert.Equal(t, 2, basis.Cols())

	for c := 0; c < basis.Cols(); c++ {
		v := make([]int64, basis.Cols())
		v[c] = 1
		vec := matVec(basis, v)
		got := matVec(m, vec)
		for _, g := range got {
			assert.Equal(t, int64(0), g)
		}
	}
}

func TestFourierMotzkinEliminate(t *testing.T) {
	// Constraints on [1, x, y]: x >= 0, y >= 0, 5 - x - y >= 0.
	// Eliminating x (col 1) should leave y >= 0 and 5 - y >= 0 (from the
	// pos/neg pair) plus the untouched y >= 0 row, i.e. y in [0,5].
	A, _ := NewDense(3, 3)
	A.Set(0, 0, 0)
	A.Set(0, 1, 1)
	A.Set(0, 2, 0) // x >= 0
	A.Set(1, 0, 0)
	A.Set(1, 1, 0)
	A.Set(1, 2, 1) // y >= 0
	A.Set(2, 0, 5)
	A.Set(2, 1, -1)
	A.Set(2, 2, -1) // 5 - x - y >= 0

	out, err := FourierMotzkinEliminate(A, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, out.Cols()) // column 1 (x) dropped
	assert.Equal(t, 2, out.Rows()) // 1 zero-coefficient row + 1 pos/neg pair

	// Every retained row must still hold at (x implied eliminated) y=0 and y=5
	// i.e. represent y>=0 and 5-y>=0 in some order/scaling.
	foundYGE0, foundUpper := false, false
	for r := 0; r < out.Rows(); r++ {
		c0, c1 := out.At(r, 0), out.At(r, 1)
		if c0 == 0 && c1 > 0 {
			foundYGE0 = true
		}
		if c0 > 0 && c1 < 0 {
			foundUpper = true
		}
	}
	assert.True(t, foundYGE0)
	assert.True(t, foundUpper)
}
