package affine

import (
	"github.com/affinelab/polysched/internal/imatrix"
	"github.com/affinelab/polysched/symbolic"
)

// MaxSupportedDepth bounds how many loop levels any Addr/Loop may carry,
// matching spec §3's Addr invariant
// "natural_depth <= current_depth <= max_depth <= MAX_SUPPORTED_DEPTH (15)".
const MaxSupportedDepth = 15

// DynLoopEst is the placeholder trip count TripCount reports when a loop's
// exact bound cannot be determined (spec §4.2).
const DynLoopEst = 1024

// Loop is the affine iteration-space polyhedron for a single nest, spec §3.
type Loop struct {
	// NumLoops is the depth of this nest.
	NumLoops int

	// DynSyms is the ordered list of symbolic scalars appearing in the
	// bounds. Peeling appends to this list; identity is by pointer, never
	// by position, since RemoveOuterMost must stay idempotent against the
	// originally recorded depth, not the current slice length.
	DynSyms []*symbolic.Scalar

	// A holds inequality rows over [1, DynSyms..., loop vars...]:
	// a0 + sum aj*sj + sum bk*ik >= 0.
	A *imatrix.Dense

	// NonNegative, when true, means each ik >= 0 is implicit and was never
	// materialized as an explicit row of A.
	NonNegative bool

	// origNumLoops remembers the depth this Loop was first built with, so
	// repeated RemoveOuterMost calls with the same k are idempotent (spec
	// §8 "Peel idempotence").
	origNumLoops int
}

// symCols returns the number of dynamic-symbol columns (excluding the
// constant column).
func (l *Loop) symCols() int { return len(l.DynSyms) }

// loopCol returns the column index of loop variable k (0 = outermost).
func (l *Loop) loopCol(k int) int { return 1 + l.symCols() + k }

// Cols returns A's column count: 1 + len(DynSyms) + NumLoops.
func (l *Loop) Cols() int { return 1 + l.symCols() + l.NumLoops }
