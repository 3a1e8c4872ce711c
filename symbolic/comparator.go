package symbolic

import "github.com/affinelab/polysched/internal/imatrix"

// Comparator answers emptiness and affine-expression-sign questions about a
// Polyhedron, via the Farkas-dual feasibility reduction described in
// spec §4.1.
//
// nonNegFrom marks the first column (after the constant column 0) whose
// variable is already known to be >= 0 — the implicit i_k >= 0 rows a
// non-negative affine.Loop never materializes. Columns before nonNegFrom
// (dynamic symbols, and loop variables in a loop that isn't flagged
// non-negative) are treated as free and represented internally as the
// difference of two non-negative simplex variables. Pass nonNegFrom ==
// p.Cols() for the fully general comparator.
type Comparator struct {
	p         Polyhedron
	nonNegFrom int
}

// NewComparator returns the general comparator: no column is assumed
// non-negative beyond what p's own rows encode.
func NewComparator(p Polyhedron) *Comparator {
	return &Comparator{p: p, nonNegFrom: p.Cols()}
}

// NewNonNegativeComparator returns a comparator that treats every column
// from nonNegFrom onward as implicitly >= 0, matching a Loop built with
// NonNegative == true (spec §4.2).
func NewNonNegativeComparator(p Polyhedron, nonNegFrom int) *Comparator {
	return &Comparator{p: p, nonNegFrom: nonNegFrom}
}

// varMap records, for each original polyhedron column (excluding the
// constant column 0), which simplex variable(s) represent it.
type varMap struct {
	pos []int // simplex column for the non-negative (or positive-part) variable
	neg []int // simplex column for the negative part, or -1 if the column is already non-negative
	n   int   // total simplex variables allocated
}

func (c *Comparator) buildVarMap() varMap {
	cols := c.p.Cols()
	vm := varMap{pos: make([]int, cols), neg: make([]int, cols)}
	next := 0
	for j := 1; j < cols; j++ {
		vm.pos[j] = next
		next++
		if j >= c.nonNegFrom {
			vm.neg[j] = -1
		} else {
			vm.neg[j] = next
			next++
		}
	}
	vm.n = next
	return vm
}

// lower translates one polyhedron row (length cols, column 0 the constant)
// into a simplex-variable coefficient vector plus the constant moved to
// the right-hand side: row . z >= 0  <=>  simplexCoeffs . x >= -row[0].
func (vm varMap) lower(row []int64) (coeffs []int64, rhs int64) {
	coeffs = make([]int64, vm.n)
	for j := 1; j < len(row); j++ {
		v := row[j]
		if v == 0 {
			continue
		}
		coeffs[vm.pos[j]] += v
		if vm.neg[j] >= 0 {
			coeffs[vm.neg[j]] -= v
		}
	}
	return coeffs, -row[0]
}

func (c *Comparator) buildSimplex() (*Simplex, varMap) {
	vm := c.buildVarMap()
	s := NewSimplex(vm.n)
	if c.p.A != nil {
		for r := 0; r < c.p.A.Rows(); r++ {
			coeffs, rhs := vm.lower(c.p.A.Row(r))
			_ = s.AddGE(coeffs, rhs)
		}
	}
	if c.p.E != nil {
		for r := 0; r < c.p.E.Rows(); r++ {
			coeffs, rhs := vm.lower(c.p.E.Row(r))
			_ = s.AddEQ(coeffs, rhs)
		}
	}
	return s, vm
}

// IsEmpty reports whether the polyhedron admits no integer point (modeled,
// as is standard for this Farkas-dual test, via its rational relaxation:
// a polyhedron with no rational point certainly has no integer point, and
// every polyhedron this module constructs is either integral or used only
// for a feasibility check where the rational relaxation is exact).
func (c *Comparator) IsEmpty() (bool, error) {
	s, _ := c.buildSimplex()
	feasible, err := s.Feasible()
	if err != nil {
		return false, err
	}
	return !feasible, nil
}

// IsGreaterEqualZero reports whether v.x >= 0 holds for every x in the
// polyhedron, where v is a row over the same columns as the polyhedron
// (index 0 the constant part of the affine expression being tested).
//
// Implemented as the Farkas dual: v.x >= 0 holds everywhere on P iff P
// intersected with {v.x <= -1} is empty (coefficients here are always
// integral, so "v.x < 0" and "v.x <= -1" coincide).
func (c *Comparator) IsGreaterEqualZero(v []int64) (bool, error) {
	s, vm := c.buildSimplex()
	negCoeffs, rhs := vm.lower(v)
	for i := range negCoeffs {
		negCoeffs[i] = -negCoeffs[i]
	}
	if err := s.AddGE(negCoeffs, -rhs+1); err != nil {
		return false, err
	}
	feasible, err := s.Feasible()
	if err != nil {
		return false, err
	}
	return !feasible, nil
}

// IsRowImplied reports whether polyhedron row `row` is implied by the rest
// of A (every other row of A, plus all of E) — i.e. whether dropping it
// would change nothing. Used by affine.Loop.PruneBounds to remove
// dominated rows (spec §4.2).
func (c *Comparator) IsRowImplied(all *imatrix.Dense, row int) (bool, error) {
	rest := Polyhedron{E: c.p.E}
	var restA *imatrix.Dense
	for r := 0; r < all.Rows(); r++ {
		if r == row {
			continue
		}
		rowVals := all.Row(r)
		m, err := imatrix.NewDense(1, all.Cols())
		if err != nil {
			return false, err
		}
		for j, v := range rowVals {
			m.Set(0, j, v)
		}
		if restA == nil {
			restA = m
		} else {
			restA, err = restA.AppendRows(m)
			if err != nil {
				return false, err
			}
		}
	}
	rest.A = restA
	sub := &Comparator{p: rest, nonNegFrom: c.nonNegFrom}
	return sub.IsGreaterEqualZero(all.Row(row))
}
