package affine

import (
	"fmt"

	"github.com/affinelab/polysched/internal/imatrix"
	"github.com/affinelab/polysched/symbolic"
)

// NewLoop builds a Loop directly from a constraint matrix, used by callers
// that already have an affine description (e.g. tests, or a Rotate/peel
// result). A's column count must equal 1+len(dynSyms)+numLoops.
func NewLoop(numLoops int, dynSyms []*symbolic.Scalar, a *imatrix.Dense, nonNegative bool) (*Loop, error) {
	if numLoops < 0 || numLoops > MaxSupportedDepth {
		return nil, ErrDepthExceedsLimit
	}
	want := 1 + len(dynSyms) + numLoops
	if a != nil && a.Cols() != want {
		return nil, ErrDimensionMismatch
	}
	if a == nil {
		var err error
		a, err = imatrix.NewDense(0, want)
		if err != nil {
			return nil, err
		}
	}
	return &Loop{NumLoops: numLoops, DynSyms: dynSyms, A: a, NonNegative: nonNegative, origNumLoops: numLoops}, nil
}

// comparator builds the symbolic.Comparator for this loop's polyhedron,
// marking the loop-variable columns non-negative when NonNegative is set.
func (l *Loop) comparator() *symbolic.Comparator {
	p := symbolic.Polyhedron{A: l.A}
	if l.NonNegative {
		return symbolic.NewNonNegativeComparator(p, 1+l.symCols())
	}
	return symbolic.NewComparator(p)
}

// PruneBounds repeatedly removes any inequality row implied by the rest of
// A (together with the implicit ik >= 0 rows, if NonNegative), then
// normalizes every surviving row by its GCD (spec §4.2).
func (l *Loop) PruneBounds() error {
	for {
		cmp := l.comparator()
		removed := -1
		for r := 0; r < l.A.Rows(); r++ {
			implied, err := cmp.IsRowImplied(l.A, r)
			if err != nil {
				return err
			}
			if implied {
				removed = r
				break
			}
		}
		if removed < 0 {
			break
		}
		next, err := l.A.DropRow(removed)
		if err != nil {
			return err
		}
		l.A = next
	}
	for r := 0; r < l.A.Rows(); r++ {
		l.A.RowGCDNormalize(r)
	}
	return nil
}

// TripCount returns (exact, value) for loop variable `depth` (0 =
// outermost). It is exact only when exactly one lower and one upper bound
// reference depth's column and no other loop-variable column and no
// dynamic-symbol column; otherwise it reports DynLoopEst, per spec §4.2.
func (l *Loop) TripCount(depth int) (bool, int64) {
	if depth < 0 || depth >= l.NumLoops {
		return false, DynLoopEst
	}
	col := l.loopCol(depth)

	var lowerConst, upperConst int64
	lowerFound, upperFound := false, false
	ambiguous := false

	for r := 0; r < l.A.Rows(); r++ {
		row := l.A.Row(r)
		coeff := row[col]
		if coeff == 0 {
			continue
		}
		pure := true
		for c := 1; c < len(row); c++ {
			if c == col {
				continue
			}
			if row[c] != 0 {
				pure = false
				break
			}
		}
		if !pure {
			continue // bound mixes in other loops/symbols: not exact
		}
		switch {
		case coeff > 0:
			// coeff*i + const >= 0  =>  i >= -const/coeff
			if coeff != 1 {
				ambiguous = true
				continue
			}
			if lowerFound {
				ambiguous = true
				continue
			}
			lowerFound = true
			lowerConst = -row[0]
		case coeff < 0:
			// const - i >= 0 (coeff == -1)  =>  i <= const
			if coeff != -1 {
				ambiguous = true
				continue
			}
			if upperFound {
				ambiguous = true
				continue
			}
			upperFound = true
			upperConst = row[0]
		}
	}
	if l.NonNegative && !lowerFound {
		lowerFound, lowerConst = true, 0
	}
	if ambiguous || !lowerFound || !upperFound {
		return false, DynLoopEst
	}
	return true, upperConst - lowerConst + 1
}

// RemoveLoop eliminates loop variable v via Fourier-Motzkin elimination
// (spec §4.2), shrinking NumLoops by one. Loop variables after v shift down
// by one index, matching their column's new position.
func (l *Loop) RemoveLoop(v int) (*Loop, error) {
	if v < 0 || v >= l.NumLoops {
		return nil, ErrLoopIndexOutOfRange
	}
	col := l.loopCol(v)

	a := l.A
	if l.NonNegative {
		// Non-negativity of v is implicit; Fourier-Motzkin needs it as an
		// explicit row to correctly fold it into the projected system.
		row := make([]int64, l.Cols())
		row[col] = 1
		var err error
		a, err = a.AppendRow(row)
		if err != nil {
			return nil, err
		}
	}
	next, err := imatrix.FourierMotzkinEliminate(a, col)
	if err != nil {
		return nil, err
	}
	return &Loop{
		NumLoops:     l.NumLoops - 1,
		DynSyms:      l.DynSyms,
		A:            next,
		NonNegative:  l.NonNegative,
		origNumLoops: l.origNumLoops,
	}, nil
}

// RemoveOuterMost converts the k outermost loops (counted from the Loop's
// originally constructed depth, not its current depth) into dynamic
// symbols. Because symbol columns sit immediately to the left of loop-var
// columns, this is a pure reclassification: the backing matrix is shared
// unchanged, only NumLoops shrinks and DynSyms grows. Calling
// RemoveOuterMost(k) a second time with the same or smaller k is a no-op,
// satisfying spec §8's peel-idempotence property.
func (l *Loop) RemoveOuterMost(k int) (*Loop, error) {
	if k < 0 {
		return nil, ErrLoopIndexOutOfRange
	}
	alreadyPeeled := l.origNumLoops - l.NumLoops
	if alreadyPeeled < 0 {
		alreadyPeeled = 0
	}
	delta := k - alreadyPeeled
	if delta <= 0 {
		return l, nil
	}
	if delta > l.NumLoops {
		delta = l.NumLoops
	}

	newSyms := make([]*symbolic.Scalar, len(l.DynSyms)+delta)
	copy(newSyms, l.DynSyms)
	for i := 0; i < delta; i++ {
		newSyms[len(l.DynSyms)+i] = symbolic.NewScalar(fmt.Sprintf("peeled#%d", alreadyPeeled+i))
	}
	return &Loop{
		NumLoops:     l.NumLoops - delta,
		DynSyms:      newSyms,
		A:            l.A,
		NonNegative:  l.NonNegative,
		origNumLoops: l.origNumLoops,
	}, nil
}

// ZeroExtraItersUponExtending reports whether extending this loop's range
// to match other's costs zero additional iterations. extendLower names
// which bound would be extended; the result does not depend on it. The
// answer is true when both loops already
// have the same exact trip count, or when either bound is already
// symbolic (no cost model can price an unknown trip-count delta, so the
// LP conservatively treats it as free rather than as a blocking cost).
func (l *Loop) ZeroExtraItersUponExtending(other *Loop, extendLower bool) bool {
	_ = extendLower
	lExact, lVal := l.TripCount(l.NumLoops - 1)
	oExact, oVal := other.TripCount(other.NumLoops - 1)
	if !lExact || !oExact {
		return true
	}
	return lVal == oVal
}
