package deppoly

import "github.com/affinelab/polysched/symbolic"

// farkasLayout assigns column ranges for the Farkas multiplier blocks
// shared by both the sat and bnd simplex: lambda (one nonneg column per
// A-inequality, two per E-equality to cover its arbitrary sign), then
// omega, phi_x, phi_y, each split into a (pos, neg) column pair since
// symbolic.Simplex models free variables as the difference of two
// nonnegative ones (spec §4.3 "Variable order: [lambda, omega, phi_x,
// phi_y, w, u]").
type farkasLayout struct {
	lambdaA   int // numA columns, one per A row
	muStart   int // 2*numE columns, (pos,neg) per E row
	omega     int // 2 columns
	phiX      int // 2*DimX columns
	phiY      int // 2*DimY columns
	w         int // 1 column, bnd only
	u         int // 2*TimeDim columns, bnd only
	total     int
	numA      int
	numE      int
}

func newFarkasLayout(d *DepPoly, withBound bool) farkasLayout {
	l := farkasLayout{numA: d.A.Rows(), numE: d.E.Rows()}
	l.lambdaA = 0
	l.muStart = l.lambdaA + l.numA
	l.omega = l.muStart + 2*l.numE
	l.phiX = l.omega + 2
	l.phiY = l.phiX + 2*d.DimX
	next := l.phiY + 2*d.DimY
	if withBound {
		l.w = next
		next++
		l.u = next
		next += 2 * d.TimeDim
	}
	l.total = next
	return l
}

// buildRow constructs the equality row for DepPoly column col: lambda.A +
// mu.E - target(col) = 0, where target is omega at col 0, phi_x at an
// x-loop column, -phi_y at a y-loop column, u at a time column (bnd only),
// and 0 elsewhere (the schedule does not depend on dynamic symbols). withW
// additionally subtracts the bounding slack from the col-0 equation.
func (l farkasLayout) buildRow(d *DepPoly, col int, withW bool) []int64 {
	row := make([]int64, l.total)
	for i := 0; i < l.numA; i++ {
		row[l.lambdaA+i] = d.A.At(i, col)
	}
	for j := 0; j < l.numE; j++ {
		v := d.E.At(j, col)
		row[l.muStart+2*j] = v
		row[l.muStart+2*j+1] = -v
	}

	switch {
	case col == 0:
		row[l.omega] -= 1
		row[l.omega+1] += 1
		if withW {
			row[l.w] -= 1
		}
	case col >= 1 && col < 1+d.NumDynSym():
		// no symbol-dependent schedule term
	case col >= d.xLoopCol(0) && col < d.xLoopCol(0)+d.DimX:
		k := col - d.xLoopCol(0)
		row[l.phiX+2*k] -= 1
		row[l.phiX+2*k+1] += 1
	case col >= d.yLoopCol(0) && col < d.yLoopCol(0)+d.DimY:
		k := col - d.yLoopCol(0)
		row[l.phiY+2*k] += 1
		row[l.phiY+2*k+1] -= 1
	default: // time column
		if withW {
			t := col - d.timeCol(0)
			row[l.u+2*t] -= 1
			row[l.u+2*t+1] += 1
		}
	}
	return row
}

// FarkasPair builds the sat and bnd simplices the scheduler's LP uses to
// test whether a candidate (omega, phi_x, phi_y) respects this
// dependence: sat enforces lambda.A + mu.E = delta_phi exactly, bnd adds a
// nonnegative slack w and per-time-dimension multipliers u to bound the
// worst-case schedule difference (spec §4.3).
func FarkasPair(d *DepPoly) (sat, bnd *symbolic.Simplex, err error) {
	satLayout := newFarkasLayout(d, false)
	sat = symbolic.NewSimplex(satLayout.total)
	for col := 0; col < d.Cols(); col++ {
		if err := sat.AddEQ(satLayout.buildRow(d, col, false), 0); err != nil {
			return nil, nil, err
		}
	}

	bndLayout := newFarkasLayout(d, true)
	bnd = symbolic.NewSimplex(bndLayout.total)
	for col := 0; col < d.Cols(); col++ {
		if err := bnd.AddEQ(bndLayout.buildRow(d, col, true), 0); err != nil {
			return nil, nil, err
		}
	}

	return sat, bnd, nil
}

// BoundSlackZero runs lex-min on bnd — a Farkas simplex FarkasPair built and
// PinSchedule already pinned to a candidate schedule — minimizing the
// bounding slack w first and, once w is pinned at its optimum, the
// per-time-dimension multipliers u as a tie-break. It reports whether w
// reached exactly zero: spec §4.6 step 6's "deactivate_satisfied_edges
// marks each edge whose bounding-variable slack went to zero as satisfied
// at this depth." w landing above zero means the candidate still only
// bounds the dependence rather than closing it, so the edge stays active
// for a deeper loop level to satisfy.
func BoundSlackZero(d *DepPoly, bnd *symbolic.Simplex) (bool, error) {
	layout := newFarkasLayout(d, true)
	n := bnd.NumVars()

	wObj := make([]int64, n)
	wObj[layout.w] = 1

	uObj := make([]int64, n)
	for k := 0; k < 2*d.TimeDim; k++ {
		uObj[layout.u+k] = 1
	}

	sol, ok, err := bnd.LexMinimize([][]int64{wObj, uObj})
	if err != nil || !ok {
		return false, err
	}
	return sol[layout.w].Sign() == 0, nil
}

// PinSchedule fixes a Farkas simplex's free omega/phi_x/phi_y variables
// (each modeled internally as a pos/neg column pair, per the "free variable
// = difference of two nonnegatives" convention) to a concrete candidate
// partial schedule, turning the generic "some schedule exists" feasibility
// system into a legality test for that one candidate. The omega/phi_x/
// phi_y column offsets are identical in the sat and bnd layouts (bnd only
// appends w/u after phi_y), so the same offsets apply to either simplex —
// callers pass whichever of FarkasPair's two results they are testing
// (spec §4.6 "omni-simplex ... copying each edge's sat/bnd Farkas
// matrices and adding Φ/ω contributions").
func PinSchedule(d *DepPoly, s *symbolic.Simplex, omega int64, phiX, phiY []int64) error {
	if len(phiX) != d.DimX || len(phiY) != d.DimY {
		return ErrScheduleDimMismatch
	}
	layout := newFarkasLayout(d, false)
	n := s.NumVars()

	pin := func(posCol int, v int64) error {
		row := make([]int64, n)
		row[posCol] = 1
		row[posCol+1] = -1
		return s.AddEQ(row, v)
	}

	if err := pin(layout.omega, omega); err != nil {
		return err
	}
	for k, v := range phiX {
		if err := pin(layout.phiX+2*k, v); err != nil {
			return err
		}
	}
	for k, v := range phiY {
		if err := pin(layout.phiY+2*k, v); err != nil {
			return err
		}
	}
	return nil
}
