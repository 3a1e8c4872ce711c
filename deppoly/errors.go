package deppoly

import "errors"

// ErrArrayDimMismatch indicates two accesses to the same array disagree on
// dimensionality — a malformed Addr pair, not an expected runtime outcome.
var ErrArrayDimMismatch = errors.New("deppoly: array dimension mismatch")

// ErrMissingLoop indicates an Addr was passed to Dependence without its
// enclosing Loop populated.
var ErrMissingLoop = errors.New("deppoly: addr has no enclosing loop")

// ErrScheduleDimMismatch indicates a candidate phi_x/phi_y vector passed to
// PinSchedule does not match the dependence polyhedron's DimX/DimY.
var ErrScheduleDimMismatch = errors.New("deppoly: schedule vector dimension mismatch")
