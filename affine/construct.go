package affine

import "github.com/affinelab/polysched/symbolic"

// TripCountExpr is the affine trip-count expression the out-of-scope SCEV
// collaborator hands back for one source loop level (spec §6 "Symbolic
// backedge-count evaluation"): either an affine combination of dynamic
// symbols plus a constant, or Valid == false ("CouldNotCompute").
type TripCountExpr struct {
	Valid     bool
	Const     int64
	SymCoeffs map[*symbolic.Scalar]int64
}

// Construct builds a Loop from a sequence of per-level trip-count
// expressions, outer to inner, over the symbol set dynSyms (spec §4.2
// construct). Expressions are consumed left to right; the first Valid ==
// false entry stops construction there — a deeper loop's bound may well
// reference an outer induction variable the caller couldn't yet resolve,
// so nothing past that point can be trusted to be affine either. The
// returned rejectDepth is how many trailing levels the caller must treat
// as not affinely represented and fall back on (spec: "returns the maximum
// depth the caller must reject").
func Construct(exprs []TripCountExpr, dynSyms []*symbolic.Scalar, nonNegative bool) (loop *Loop, rejectDepth int, err error) {
	accepted := len(exprs)
	for i, e := range exprs {
		if !e.Valid {
			accepted = i
			break
		}
	}
	if accepted > MaxSupportedDepth {
		accepted = MaxSupportedDepth
	}
	rejectDepth = len(exprs) - accepted

	cols := 1 + len(dynSyms) + accepted
	symIndex := make(map[*symbolic.Scalar]int, len(dynSyms))
	for i, s := range dynSyms {
		symIndex[s] = 1 + i
	}

	var rows [][]int64
	for depth := 0; depth < accepted; depth++ {
		e := exprs[depth]
		loopCol := 1 + len(dynSyms) + depth

		if !nonNegative {
			lower := make([]int64, cols) // ik >= 0; implicit when nonNegative, explicit otherwise
			lower[loopCol] = 1
			rows = append(rows, lower)
		}

		// tripCount - 1 - ik >= 0, i.e. ik <= tripCount-1
		upper := make([]int64, cols)
		upper[0] = e.Const - 1
		for s, coeff := range e.SymCoeffs {
			if idx, ok := symIndex[s]; ok {
				upper[idx] += coeff
			}
		}
		upper[loopCol] = -1
		rows = append(rows, upper)
	}

	a, buildErr := rowsToDense(rows, cols)
	if buildErr != nil {
		return nil, rejectDepth, buildErr
	}
	loop, err = NewLoop(accepted, dynSyms, a, nonNegative)
	return loop, rejectDepth, err
}
