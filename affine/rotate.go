package affine

import "github.com/affinelab/polysched/internal/imatrix"

// Rotate returns a new Loop whose constraint matrix expresses the same
// polyhedron in terms of new loop variables j related to the old ones by
// i = R*j + offset, i.e. A' = A * [I 0; 0 R] with the constant column
// absorbing R's offset contribution (spec §4.2).
//
// Non-negativity is preserved only when R is elementwise >= 0 (matching
// spec exactly); otherwise the implicit ik >= 0 rows are materialized
// before the transform and NonNegative is cleared on the result, since
// those rows are now explicit members of A like any other.
func (l *Loop) Rotate(r *imatrix.Dense, offset []int64) (*Loop, error) {
	n := l.NumLoops
	if r.Rows() != n || r.Cols() != n || len(offset) != n {
		return nil, ErrDimensionMismatch
	}

	base := l
	keepNonNeg := l.NonNegative && elementwiseNonNegative(r)
	if l.NonNegative && !keepNonNeg {
		base = l.materializeNonNegativeRows()
	}

	next, err := transformLoopColumns(base.A, base.symCols(), r, offset)
	if err != nil {
		return nil, err
	}
	return &Loop{
		NumLoops:     n,
		DynSyms:      base.DynSyms,
		A:            next,
		NonNegative:  keepNonNeg,
		origNumLoops: base.origNumLoops,
	}, nil
}

func elementwiseNonNegative(m *imatrix.Dense) bool {
	for r := 0; r < m.Rows(); r++ {
		for c := 0; c < m.Cols(); c++ {
			if m.At(r, c) < 0 {
				return false
			}
		}
	}
	return true
}

// materializeNonNegativeRows returns a copy of l with an explicit ik >= 0
// row appended for every loop variable, and NonNegative cleared.
func (l *Loop) materializeNonNegativeRows() *Loop {
	a := l.A
	for k := 0; k < l.NumLoops; k++ {
		row := make([]int64, l.Cols())
		row[l.loopCol(k)] = 1
		a, _ = a.AppendRow(row) // shape is always correct here, error impossible
	}
	return &Loop{NumLoops: l.NumLoops, DynSyms: l.DynSyms, A: a, NonNegative: false, origNumLoops: l.origNumLoops}
}

// transformLoopColumns rewrites each row's loop-variable coefficients b
// (length n) and constant term a0 into a0' = a0 + b.offset and
// b' = b * r (row-vector times matrix), leaving the constant and
// dynamic-symbol columns' positions unchanged in shape.
func transformLoopColumns(a *imatrix.Dense, symCols int, r *imatrix.Dense, offset []int64) (*imatrix.Dense, error) {
	n := r.Rows()
	out, err := imatrix.NewDense(a.Rows(), a.Cols())
	if err != nil {
		return nil, err
	}
	loopColStart := 1 + symCols
	for row := 0; row < a.Rows(); row++ {
		src := a.Row(row)
		for c := 0; c < loopColStart; c++ {
			out.Set(row, c, src[c])
		}
		var constDelta int64
		for k := 0; k < n; k++ {
			constDelta += src[loopColStart+k] * offset[k]
		}
		out.Set(row, 0, src[0]+constDelta)
		for m := 0; m < n; m++ {
			var acc int64
			for k := 0; k < n; k++ {
				acc += src[loopColStart+k] * r.At(k, m)
			}
			out.Set(row, loopColStart+m, acc)
		}
	}
	return out, nil
}
