package depstore

import "errors"

// ErrUnknownEdge indicates an arena.ID does not name a live edge.
var ErrUnknownEdge = errors.New("depstore: unknown edge id")

// ErrNotAStore indicates Reload was given a clone Ref that does not name
// an Addr.
var ErrNotAStore = errors.New("depstore: reload clone is not an addr")
