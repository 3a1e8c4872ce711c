// Package depstore is the dependency-edge table: a structure-of-arrays
// graph of directed, possibly reverse-time, dependence edges with
// per-loop-level satisfaction bits (spec §4.4).
//
// Edges live in a single internal/arena.Arena[Edge], matching the corpus's
// "everything the scheduler touches is bump-allocated for the pass" model
// (spec §3 "Ownership model"). Each Addr holds the head of its own
// incoming and outgoing edge chains (irgraph.Addr.EdgeIn/EdgeOut); edges
// are linked and unlinked from those chains the same way
// irgraph.Graph.InsertSiblingAfter/RemoveSibling splice the sibling list,
// generalized from a single chain per node to two (in, out) per Addr —
// the structural idea core.Graph's map-of-maps adjacency chains exist to
// support, here made intrusive and O(1) to unlink.
package depstore
