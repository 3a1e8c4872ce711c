package imatrix

// NullSpaceBasis returns a basis for the right null space of m (the set of
// integer vectors v with m*v == 0), one basis vector per column.
//
// Grounded on HNF: if m*U == H (HNF's defining identity) then for any
// column j with H[:,j] all zero, m*U[:,j] == 0, so U's zero-image columns
// are exactly a null-space basis. This is the same "combine two accesses'
// shared index columns, extract the directions along which both keep
// hitting the same element" computation DepPoly.dependence uses to build
// its time dimension (spec §4.3): the shared index matrix plays the role
// of m here.
func NullSpaceBasis(m *Dense) (*Dense, error) {
	H, U := HNF(m)

	var basisCols []int
	for c := 0; c < H.cols; c++ {
		if H.ColIsZero(c) {
			basisCols = append(basisCols, c)
		}
	}

	out, err := NewDense(U.rows, len(basisCols))
	if err != nil {
		return nil, err
	}
	for j, c := range basisCols {
		for r := 0; r < U.rows; r++ {
			out.Set(r, j, U.At(r, c))
		}
	}
	return out, nil
}

// FourierMotzkinEliminate projects the polyhedron {x : A*x >= 0} onto the
// subspace with column col removed, returning the inequality matrix of the
// projection. Rows with a zero coefficient in col carry over unchanged;
// every positive/negative pair is combined (scaled to their LCM so col
// cancels exactly) into one new row. Used by Loop.remove_loop (spec §4.2).
//
// Complexity: O(pos*neg) new rows in the worst case — the classical
// Fourier-Motzkin blowup — which is why the spec reserves it for
// intentional, infrequent loop removal rather than routine use.
func FourierMotzkinEliminate(A *Dense, col int) (*Dense, error) {
	if col < 0 || col >= A.cols {
		return nil, ErrIndexOutOfBounds
	}

	var zero, pos, neg []int
	for r := 0; r < A.rows; r++ {
		switch v := A.At(r, col); {
		case v == 0:
			zero = append(zero, r)
		case v > 0:
			pos = append(pos, r)
		default:
			neg = append(neg, r)
		}
	}

	combined, err := NewDense(len(zero)+len(pos)*len(neg), A.cols)
	if err != nil {
		return nil, err
	}
	idx := 0
	for _, r := range zero {
		for c := 0; c < A.cols; c++ {
			combined.Set(idx, c, A.At(r, c))
		}
		idx++
	}
	for _, rp := range pos {
		cp := A.At(rp, col)
		for _, rn := range neg {
			cn := -A.At(rn, col) // positive magnitude of the negative row's coefficient
			l := Lcm(cp, cn)
			scaleP, scaleN := l/cp, l/cn
			for c := 0; c < A.cols; c++ {
				combined.Set(idx, c, scaleP*A.At(rp, c)+scaleN*A.At(rn, c))
			}
			idx++
		}
	}

	return combined.DropColumn(col)
}
