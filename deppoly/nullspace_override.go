package deppoly

import "github.com/affinelab/polysched/internal/imatrix"

// NullSpaceBasisFn overrides timeDimension's call into
// imatrix.NullSpaceBasis — a host-supplied seam for precomputed or
// algorithm-specific null-space bases (spec §6/engine.WithNullSpaceBasis).
// A false second return falls back to the internal computation.
type NullSpaceBasisFn func(m *imatrix.Dense) (basis *imatrix.Dense, ok bool)

// nullSpaceOverride is set for the duration of one engine.Optimize call
// (spec §5: the whole pass is single-threaded cooperative, so a package
// global scoped by SetNullSpaceOverride/ClearNullSpaceOverride is safe —
// there is never a second concurrent pass to interfere with it).
var nullSpaceOverride NullSpaceBasisFn

// SetNullSpaceOverride installs fn as the null-space basis override used
// by every Dependence call until ClearNullSpaceOverride is called. A nil
// fn clears the override.
func SetNullSpaceOverride(fn NullSpaceBasisFn) {
	nullSpaceOverride = fn
}

// ClearNullSpaceOverride removes any installed override.
func ClearNullSpaceOverride() {
	nullSpaceOverride = nil
}

func computeNullSpaceBasis(m *imatrix.Dense) (*imatrix.Dense, error) {
	if nullSpaceOverride != nil {
		if basis, ok := nullSpaceOverride(m); ok {
			return basis, nil
		}
	}
	return imatrix.NullSpaceBasis(m)
}
