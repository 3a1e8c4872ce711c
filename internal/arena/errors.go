package arena

import "errors"

// ErrInvalidCheckpoint indicates a Rollback was given a Checkpoint that did
// not originate from this Arena, or that rolls forward instead of back.
var ErrInvalidCheckpoint = errors.New("arena: checkpoint does not belong to this arena or is stale")

// ErrCapacityExceeded indicates Alloc would push the backing slice past the
// arena's configured hard cap (zero cap means unbounded).
var ErrCapacityExceeded = errors.New("arena: capacity exceeded")
