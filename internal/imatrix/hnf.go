package imatrix

// HNF reduces m to column-style Hermite normal form via unimodular column
// operations, returning (H, U) with m * U == H and U unimodular (built as
// a product of elementary swap/negate/combine column ops, each of
// determinant +-1). This is the integer analogue of the teacher corpus's
// Doolittle LU decomposition (matrix/ops/lu.go): instead of eliminating
// below the diagonal with rational row multiples, it eliminates across a
// row with integer column combinations chosen via the extended Euclidean
// algorithm, so every intermediate value stays an exact integer.
//
// Complexity: O(rows * cols^2) column operations in the worst case, each
// O(rows); no pivoting degeneracy beyond all-zero rows, which are simply
// skipped (they contribute no pivot).
func HNF(m *Dense) (H *Dense, U *Dense) {
	H = m.Clone()
	U = Identity(m.cols)

	pivotCol := 0
	for row := 0; row < H.rows && pivotCol < H.cols; row++ {
		reduceRowToSingleNonzero(H, U, row, pivotCol)

		nz := -1
		for c := pivotCol; c < H.cols; c++ {
			if H.At(row, c) != 0 {
				nz = c
				break
			}
		}
		if nz == -1 {
			continue // this row has no pivot in the remaining columns
		}
		if nz != pivotCol {
			swapColumns(H, pivotCol, nz)
			swapColumns(U, pivotCol, nz)
		}
		if H.At(row, pivotCol) < 0 {
			negateColumn(H, pivotCol)
			negateColumn(U, pivotCol)
		}
		pivotCol++
	}
	return H, U
}

// reduceRowToSingleNonzero repeatedly combines pairs of nonzero columns in
// [fromCol, cols) at the given row via their Bezout coefficients until at
// most one nonzero entry remains in that range. Each combination is a
// unimodular 2x2 column operation applied identically to H and U.
func reduceRowToSingleNonzero(H, U *Dense, row, fromCol int) {
	for {
		c1, c2 := -1, -1
		for c := fromCol; c < H.cols; c++ {
			if H.At(row, c) != 0 {
				if c1 == -1 {
					c1 = c
				} else {
					c2 = c
					break
				}
			}
		}
		if c2 == -1 {
			return
		}
		a, b := H.At(row, c1), H.At(row, c2)
		g, x, y := ExtendedGcd(a, b)
		p, q := -b/g, a/g // det([[x,y],[p,q]]) == (x*a+y*b)/g == 1
		applyColumnOp2(H, c1, c2, x, y, p, q)
		applyColumnOp2(U, c1, c2, x, y, p, q)
	}
}

// applyColumnOp2 replaces column c1 with a*c1+b*c2 and column c2 with
// p*c1+q*c2, reading both operands' old values before writing either.
func applyColumnOp2(M *Dense, c1, c2 int, a, b, p, q int64) {
	for r := 0; r < M.rows; r++ {
		v1, v2 := M.At(r, c1), M.At(r, c2)
		M.Set(r, c1, a*v1+b*v2)
		M.Set(r, c2, p*v1+q*v2)
	}
}

func swapColumns(M *Dense, c1, c2 int) {
	if c1 == c2 {
		return
	}
	for r := 0; r < M.rows; r++ {
		v1, v2 := M.At(r, c1), M.At(r, c2)
		M.Set(r, c1, v2)
		M.Set(r, c2, v1)
	}
}

func negateColumn(M *Dense, c int) {
	for r := 0; r < M.rows; r++ {
		M.Set(r, c, -M.At(r, c))
	}
}

// ColIsZero reports whether every entry of column c is zero.
func (m *Dense) ColIsZero(c int) bool {
	for r := 0; r < m.rows; r++ {
		if m.At(r, c) != 0 {
			return false
		}
	}
	return true
}
