// Package engine is the single host-facing entry point: Optimize wires
// irgraph, depstore, schedule, and reconstruct together into the one call
// a host compiler makes per function/region (spec §6 "External
// Interfaces"). It exposes no wire protocol, file format, or CLI — only
// a small set of language-neutral handles: host query interfaces for cost
// modeling, backedge counting, and pointer aliasing (all out of scope as
// functionality, but present as narrow seams, spec §1/§6), a functional-
// options Options type in the style of core.GraphOption / builder.Option,
// and an optional Remark callback mirroring the original's
// RemarkAnalysis collaborator.
//
// Error handling follows spec §7's taxonomy of sentinel values rather than
// panics: a failed polyhedron construction yields a reject depth and the
// engine proceeds on the inner affinely-representable subset; an
// unsupported opcode or invalid address is treated as a full barrier,
// leaving that root's region untransformed. Nothing in normal operation
// panics; only closed-universe invariant violations deeper in irgraph/
// schedule do, and those indicate a bug rather than a malformed input.
package engine
