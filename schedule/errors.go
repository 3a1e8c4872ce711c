package schedule

import "errors"

// ErrUnknownNode indicates an arena.ID does not name a live ScheduledNode.
var ErrUnknownNode = errors.New("schedule: unknown node id")

// ErrZeroSchedule indicates a decoded Φ row came out entirely zero, which
// spec §4.6 forbids ("all decoded Φ rows must be nonzero").
var ErrZeroSchedule = errors.New("schedule: decoded phi row is all zero")
