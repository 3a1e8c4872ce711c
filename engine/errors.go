package engine

import "errors"

// ErrNoRoots indicates Optimize was called with an empty root list —
// there is nothing to schedule.
var ErrNoRoots = errors.New("engine: no store roots given")

// ErrUnknownRoot indicates a root irgraph.Ref does not name a live store
// Addr in the supplied graph.
var ErrUnknownRoot = errors.New("engine: root is not a store Addr")
