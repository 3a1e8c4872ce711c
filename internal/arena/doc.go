// Package arena implements a bump allocator with checkpoint/rollback and
// nested scopes.
//
// Every object the polyhedral scheduling core creates — loops, accesses,
// dependence polyhedra, IR nodes, scheduled-node graphs — is allocated from
// an Arena and referenced afterwards by integer index, never by owning
// pointer. Graphs built this way are free to contain cycles (a Phi's
// operand may flow, through a chain of Compute nodes, back into the Phi
// itself) because nothing is ever individually freed: the whole Arena is
// released at once when the enclosing pass returns.
//
// Scopes nest: Checkpoint captures the current bump offset, and Rollback
// resets the offset back to it, invalidating and zeroing everything
// allocated since. Callers that speculatively try a transformation — the
// scheduler's stash/pop-on-failure recursion described in the design notes
// — use a Checkpoint/Rollback pair instead of cloning state by hand.
package arena
