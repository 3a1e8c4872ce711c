package symbolic

import "math/big"

// rowKind distinguishes an equality row from a >= inequality row when the
// Simplex builds its standard-form tableau.
type rowKind int

const (
	eqKind rowKind = iota
	geKind
)

type rowSpec struct {
	coeffs []*big.Rat
	rhs    *big.Rat
	kind   rowKind
}

// Simplex is a two-phase rational simplex solver over the standard form
// "all structural variables >= 0". Callers model a free variable as the
// difference of two nonnegative ones before adding it.
//
// This is the Farkas pair the spec calls sat_simplex/bnd_simplex: DepPoly
// builds one Simplex per side of the Farkas duality (§4.3), and the
// Comparator builds one per emptiness query. Both reuse this single
// exact-arithmetic engine rather than reimplementing pivoting, mirroring how the teacher corpus's matrix/ops package is
// shared by every higher-level algorithm that needs linear algebra.
type Simplex struct {
	numVars int // count of structural (non-slack, non-artificial) variables
	rows    []rowSpec
}

// NewSimplex creates a Simplex over numVars structural variables, each
// implicitly constrained to be >= 0.
func NewSimplex(numVars int) *Simplex {
	return &Simplex{numVars: numVars}
}

// NumVars returns the number of structural variables.
func (s *Simplex) NumVars() int { return s.numVars }

func toRats(coeffs []int64) []*big.Rat {
	out := make([]*big.Rat, len(coeffs))
	for i, c := range coeffs {
		out[i] = big.NewRat(c, 1)
	}
	return out
}

// AddEQ adds the constraint coeffs.x == rhs.
func (s *Simplex) AddEQ(coeffs []int64, rhs int64) error {
	if len(coeffs) != s.numVars {
		return ErrDimensionMismatch
	}
	s.rows = append(s.rows, rowSpec{coeffs: toRats(coeffs), rhs: big.NewRat(rhs, 1), kind: eqKind})
	return nil
}

// AddGE adds the constraint coeffs.x >= rhs.
func (s *Simplex) AddGE(coeffs []int64, rhs int64) error {
	if len(coeffs) != s.numVars {
		return ErrDimensionMismatch
	}
	s.rows = append(s.rows, rowSpec{coeffs: toRats(coeffs), rhs: big.NewRat(rhs, 1), kind: geKind})
	return nil
}

// tableau is the shared mutable state of a simplex run: m+1 rows (the last
// being the running reduced-cost row) by n+1 columns (the last holding the
// right-hand side), plus which structural/slack/artificial column is basic
// in each constraint row.
type tableau struct {
	rows  [][]*big.Rat // rows[m] is the cost row
	basis []int
	m, n  int // m constraint rows, n variable columns (rhs is separate)
}

// build lowers the accumulated row specs into standard form: one surplus
// column per GE row, one artificial column per row (every row, including
// EQ, gets an artificial so the all-artificial-basic start is always
// feasible for phase 1).
func (s *Simplex) build() *tableau {
	m := len(s.rows)
	numSurplus := 0
	surplusCol := make([]int, m)
	for i, r := range s.rows {
		if r.kind == geKind {
			surplusCol[i] = s.numVars + numSurplus
			numSurplus++
		} else {
			surplusCol[i] = -1
		}
	}
	n := s.numVars + numSurplus + m // + one artificial per row

	rows := make([][]*big.Rat, m+1)
	basis := make([]int, m)
	for i, r := range s.rows {
		row := make([]*big.Rat, n+1)
		for j := range row {
			row[j] = new(big.Rat)
		}
		for j, c := range r.coeffs {
			row[j].Set(c)
		}
		if r.kind == geKind {
			row[surplusCol[i]].SetInt64(-1)
		}
		row[n] = new(big.Rat).Set(r.rhs)

		if row[n].Sign() < 0 {
			for j := range row {
				row[j].Neg(row[j])
			}
		}
		artCol := s.numVars + numSurplus + i
		row[artCol].SetInt64(1)
		basis[i] = artCol
		rows[i] = row
	}
	rows[m] = make([]*big.Rat, n+1)
	for j := range rows[m] {
		rows[m][j] = new(big.Rat)
	}
	return &tableau{rows: rows, basis: basis, m: m, n: n}
}

// setCost installs cost (length n, big.Rat) into the cost row expressed in
// reduced-cost form: cost_row[j] = cost[j] - sum_i cost[basis[i]]*rows[i][j].
func (t *tableau) setCost(cost []*big.Rat) {
	costRow := t.rows[t.m]
	for j := 0; j <= t.n; j++ {
		costRow[j].SetInt64(0)
	}
	for j := 0; j < t.n; j++ {
		costRow[j].Set(cost[j])
	}
	for i := 0; i < t.m; i++ {
		bc := cost[t.basis[i]]
		if bc.Sign() == 0 {
			continue
		}
		row := t.rows[i]
		for j := 0; j <= t.n; j++ {
			tmp := new(big.Rat).Mul(bc, row[j])
			costRow[j].Sub(costRow[j], tmp)
		}
	}
}

// pivot performs a Gauss-Jordan elimination making column col the basic
// variable of row pr.
func (t *tableau) pivot(pr, col int) {
	piv := t.rows[pr][col]
	row := t.rows[pr]
	for j := 0; j <= t.n; j++ {
		row[j].Quo(row[j], piv)
	}
	for i := 0; i <= t.m; i++ {
		if i == pr {
			continue
		}
		factor := t.rows[i][col]
		if factor.Sign() == 0 {
			continue
		}
		other := t.rows[i]
		for j := 0; j <= t.n; j++ {
			tmp := new(big.Rat).Mul(factor, row[j])
			other[j].Sub(other[j], tmp)
		}
	}
	t.basis[pr] = col
}

// run executes primal simplex with Bland's rule (lowest-index entering and
// leaving variable) until no column has a negative reduced cost, i.e. the
// current basis is optimal for a minimization objective. allowedCols
// restricts which columns are eligible to enter (used in phase 2 to bar
// artificial columns from re-entering the basis).
func (t *tableau) run(allowedCols func(int) bool) {
	const maxIters = 10000 // generous bound; Bland's rule guarantees termination well under this for these problem sizes
	costRow := t.rows[t.m]
	for iter := 0; iter < maxIters; iter++ {
		enter := -1
		for j := 0; j < t.n; j++ {
			if allowedCols != nil && !allowedCols(j) {
				continue
			}
			if costRow[j].Sign() < 0 {
				enter = j
				break // Bland's rule: lowest index
			}
		}
		if enter == -1 {
			return // optimal
		}

		leave := -1
		var bestRatio *big.Rat
		for i := 0; i < t.m; i++ {
			a := t.rows[i][enter]
			if a.Sign() <= 0 {
				continue
			}
			ratio := new(big.Rat).Quo(t.rows[i][t.n], a)
			if bestRatio == nil || ratio.Cmp(bestRatio) < 0 ||
				(ratio.Cmp(bestRatio) == 0 && (leave == -1 || t.basis[i] < t.basis[leave])) {
				bestRatio = ratio
				leave = i
			}
		}
		if leave == -1 {
			return // unbounded; caller's problem shape should prevent this
		}
		t.pivot(leave, enter)
	}
}

func (t *tableau) objective() *big.Rat {
	return new(big.Rat).Neg(t.rows[t.m][t.n])
}

// solve runs phase 1 (drive artificial variables to zero) followed, if
// feasible, by phase 2 minimizing objective (a length-numVars cost vector;
// nil means "feasibility only"). It returns the structural-variable
// solution, whether the problem was feasible, and any error.
func (s *Simplex) solve(objective []*big.Rat) ([]*big.Rat, bool, error) {
	if len(s.rows) == 0 {
		// No constraints at all: trivially feasible at the origin.
		sol := make([]*big.Rat, s.numVars)
		for i := range sol {
			sol[i] = new(big.Rat)
		}
		return sol, true, nil
	}

	t := s.build()
	artStart := t.n - t.m

	phase1Cost := make([]*big.Rat, t.n)
	for j := 0; j < t.n; j++ {
		if j >= artStart {
			phase1Cost[j] = big.NewRat(1, 1)
		} else {
			phase1Cost[j] = new(big.Rat)
		}
	}
	t.setCost(phase1Cost)
	t.run(nil)

	if t.objective().Sign() != 0 {
		return nil, false, nil // infeasible
	}

	// Pivot out any artificial still basic at value 0, if a non-artificial
	// column offers a nonzero pivot entry in that row.
	for i := 0; i < t.m; i++ {
		if t.basis[i] < artStart {
			continue
		}
		for j := 0; j < artStart; j++ {
			if t.rows[i][j].Sign() != 0 {
				t.pivot(i, j)
				break
			}
		}
	}

	notArtificial := func(col int) bool { return col < artStart }

	if objective != nil {
		phase2Cost := make([]*big.Rat, t.n)
		for j := 0; j < t.n; j++ {
			if j < s.numVars {
				phase2Cost[j] = objective[j]
			} else {
				phase2Cost[j] = new(big.Rat)
			}
		}
		t.setCost(phase2Cost)
		t.run(notArtificial)
	}

	sol := make([]*big.Rat, s.numVars)
	for j := range sol {
		sol[j] = new(big.Rat)
	}
	for i := 0; i < t.m; i++ {
		if t.basis[i] < s.numVars {
			sol[t.basis[i]].Set(t.rows[i][t.n])
		}
	}
	return sol, true, nil
}

// Feasible reports whether the accumulated constraints admit any solution.
func (s *Simplex) Feasible() (bool, error) {
	_, ok, err := s.solve(nil)
	return ok, err
}

// Minimize finds a feasible solution minimizing the linear objective
// (length numVars). Returns the solution, whether the problem was
// feasible at all, and the objective's optimal value when feasible.
func (s *Simplex) Minimize(objective []int64) ([]*big.Rat, bool, *big.Rat, error) {
	if len(objective) != s.numVars {
		return nil, false, nil, ErrDimensionMismatch
	}
	sol, ok, err := s.solve(toRats(objective))
	if err != nil || !ok {
		return nil, ok, nil, err
	}
	val := new(big.Rat)
	for j, c := range objective {
		if c == 0 {
			continue
		}
		tmp := new(big.Rat).Mul(big.NewRat(c, 1), sol[j])
		val.Add(val, tmp)
	}
	return sol, true, val, nil
}

// LexMinimize minimizes a sequence of objectives lexicographically: the
// first objective is minimized outright, then the second is minimized
// subject to the first staying at its optimum, and so on.
// deppoly.BoundSlackZero uses it to minimize the bounding slack w first
// and the time-dimension multipliers u second.
func (s *Simplex) LexMinimize(objectives [][]int64) ([]*big.Rat, bool, error) {
	clone := s.clone()
	var sol []*big.Rat
	for _, obj := range objectives {
		var err error
		var ok bool
		var val *big.Rat
		sol, ok, val, err = clone.Minimize(obj)
		if err != nil {
			return nil, false, err
		}
		if !ok {
			return nil, false, nil
		}
		// Pin this objective at its optimum before minimizing the next one.
		rhs := val.Num().Int64() // objectives in this module are always integral-valued at optimality
		if val.IsInt() {
			if err := clone.AddEQ(obj, rhs); err != nil {
				return nil, false, err
			}
		} else {
			num, den := val.Num().Int64(), val.Denom().Int64()
			scaled := make([]int64, len(obj))
			for i, c := range obj {
				scaled[i] = c * den
			}
			if err := clone.AddEQ(scaled, num); err != nil {
				return nil, false, err
			}
		}
	}
	return sol, true, nil
}

func (s *Simplex) clone() *Simplex {
	out := &Simplex{numVars: s.numVars, rows: make([]rowSpec, len(s.rows))}
	for i, r := range s.rows {
		coeffs := make([]*big.Rat, len(r.coeffs))
		for j, c := range r.coeffs {
			coeffs[j] = new(big.Rat).Set(c)
		}
		out.rows[i] = rowSpec{coeffs: coeffs, rhs: new(big.Rat).Set(r.rhs), kind: r.kind}
	}
	return out
}
