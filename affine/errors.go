package affine

import "errors"

// ErrDimensionMismatch indicates a Rotate/RemoveLoop argument does not
// match the Loop's current shape.
var ErrDimensionMismatch = errors.New("affine: dimension mismatch")

// ErrLoopIndexOutOfRange indicates RemoveLoop or TripCount was asked about
// a loop index outside [0, NumLoops).
var ErrLoopIndexOutOfRange = errors.New("affine: loop index out of range")

// ErrDepthExceedsLimit indicates a Loop would exceed MaxSupportedDepth.
var ErrDepthExceedsLimit = errors.New("affine: depth exceeds MaxSupportedDepth")
