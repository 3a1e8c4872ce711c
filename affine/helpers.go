package affine

import "github.com/affinelab/polysched/internal/imatrix"

// rowsToDense assembles a Dense matrix of the given column width from a
// slice of row vectors (each already that width).
func rowsToDense(rows [][]int64, cols int) (*imatrix.Dense, error) {
	m, err := imatrix.NewDense(len(rows), cols)
	if err != nil {
		return nil, err
	}
	for r, row := range rows {
		for c, v := range row {
			m.Set(r, c, v)
		}
	}
	return m, nil
}
