package deppoly

import (
	"github.com/affinelab/polysched/internal/imatrix"
	"github.com/affinelab/polysched/symbolic"
)

// DepPoly is the dependence polyhedron between two accesses x (DimX loops)
// and y (DimY loops), over columns [1, dyn_syms, x-loops, y-loops, time]
// (spec §3 "DepPoly").
type DepPoly struct {
	DynSyms []*symbolic.Scalar
	DimX    int
	DimY    int
	TimeDim int

	// NullSteps holds the squared L2 norm of each time dimension's
	// null-space basis vector, one per TimeDim.
	NullSteps []int64

	A *imatrix.Dense // inequalities, spec's "A"
	E *imatrix.Dense // equalities, spec's "E"
}

// NumDynSym returns the number of dynamic-symbol columns.
func (d *DepPoly) NumDynSym() int { return len(d.DynSyms) }

// Cols returns the total column count: 1 + NumDynSym + DimX + DimY + TimeDim.
func (d *DepPoly) Cols() int { return 1 + d.NumDynSym() + d.DimX + d.DimY + d.TimeDim }

// xLoopCol returns the column index of x's loop variable k (0 = outermost).
func (d *DepPoly) xLoopCol(k int) int { return 1 + d.NumDynSym() + k }

// yLoopCol returns the column index of y's loop variable k.
func (d *DepPoly) yLoopCol(k int) int { return 1 + d.NumDynSym() + d.DimX + k }

// timeCol returns the column index of time dimension t.
func (d *DepPoly) timeCol(t int) int { return 1 + d.NumDynSym() + d.DimX + d.DimY + t }
