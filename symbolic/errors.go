package symbolic

import "errors"

// ErrDimensionMismatch indicates a vector/matrix argument does not match
// the polyhedron's column count.
var ErrDimensionMismatch = errors.New("symbolic: dimension mismatch")

// ErrUnbounded names an objective that is unbounded below on the feasible
// region. No function in this package returns it: when the ratio test
// finds no leaving row, the simplex stops pivoting and the solution at the
// basis reached so far is returned.
var ErrUnbounded = errors.New("symbolic: objective unbounded")
