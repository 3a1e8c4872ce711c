package irgraph

import "errors"

// ErrUnknownKind traps on a Ref carrying a Kind outside the closed universe
// {Addr, Compute, Phi, LoopIR, Constant} — a programming error, not an
// expected runtime condition, matching spec §7 ("invariant violations
// trap").
var ErrUnknownKind = errors.New("irgraph: unknown node kind")

// ErrWrongKind indicates a typed accessor (Graph.Addr, Graph.Compute, ...)
// was called with a Ref of a different Kind.
var ErrWrongKind = errors.New("irgraph: ref kind mismatch")
