package schedule

import "github.com/affinelab/polysched/internal/imatrix"

// newZeroMatrix allocates an n x n zero matrix, used for a fresh
// ScheduledNode's Φ before any depth has been solved.
func newZeroMatrix(n int) (*imatrix.Dense, error) {
	return imatrix.NewDense(n, n)
}

// cloneMatrix deep-copies m for stash/pop, returning nil unchanged.
func cloneMatrix(m *imatrix.Dense) *imatrix.Dense {
	if m == nil {
		return nil
	}
	return m.Clone()
}

func cloneInts(v []int64) []int64 {
	if v == nil {
		return nil
	}
	out := make([]int64, len(v))
	copy(out, v)
	return out
}
