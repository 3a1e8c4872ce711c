package imatrix

import "errors"

// ErrInvalidDimensions indicates that requested matrix dimensions are negative.
var ErrInvalidDimensions = errors.New("imatrix: dimensions must be >= 0")

// ErrIndexOutOfBounds indicates that a row or column index is outside valid range.
var ErrIndexOutOfBounds = errors.New("imatrix: index out of bounds")

// ErrDimensionMismatch indicates incompatible dimensions between operands.
var ErrDimensionMismatch = errors.New("imatrix: dimension mismatch")

// ErrNotSquare signals that a square matrix was required but the input wasn't.
var ErrNotSquare = errors.New("imatrix: matrix is not square")
