package symbolic

import "github.com/affinelab/polysched/internal/imatrix"

// Scalar is an opaque, loop-invariant integer-valued symbol distinguished
// only by pointer identity (spec §3 "Symbolic scalar"). It is used as a
// column index into the affine matrices that reference dynamic symbols
// (trip counts expressed in terms of outer, not-yet-peeled loops, for
// instance).
type Scalar struct {
	// Name is a debug label only; Scalar identity is the pointer itself,
	// never the name, matching spec's "pointer identity" requirement.
	Name string
}

// NewScalar allocates a fresh Scalar with the given debug label.
func NewScalar(name string) *Scalar {
	return &Scalar{Name: name}
}

// Polyhedron is the constraint system {x : A*z >= 0, E*z == 0} over the
// shared column vector z. A and E may be nil to mean "no such constraints".
// Both matrices, when present, must have the same column count.
type Polyhedron struct {
	A *imatrix.Dense // inequalities, rows: a0 + sum aj*sj + sum bk*ik >= 0
	E *imatrix.Dense // equalities
}

// Cols returns the shared column count of the polyhedron, or 0 if both A
// and E are nil.
func (p Polyhedron) Cols() int {
	if p.A != nil {
		return p.A.Cols()
	}
	if p.E != nil {
		return p.E.Cols()
	}
	return 0
}
