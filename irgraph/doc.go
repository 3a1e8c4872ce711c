// Package irgraph is the typed IR node hierarchy the scheduler and
// reconstruction passes operate on: Addr (load/store), Compute
// (arithmetic/call/op), Phi (two-input merge), LoopIR (a level of the
// reconstructed nest), and Constant, spec §3/§9.
//
// The IR graph is cyclic — a Phi's operand may, through a chain of Compute
// nodes, flow back into the Phi itself — so nodes are never owned by
// pointer. Every node lives in one of five arena.Arena instances (one per
// concrete kind) owned by a Graph, and is referenced afterward by Ref, a
// small (Kind, arena.ID) tagged handle. Dispatch on Ref.Kind is a single
// switch, matching the "closed universe, no user extension" design note:
// Addr/Compute/Phi/LoopIR/Constant are the only kinds that will ever exist.
//
// Sibling order (Base.Prev/Next), the enclosing-loop link (Base.Parent),
// and per-node depth/loop-dependence bitmask (Base.Depth/Base.LoopDeps) are
// common to every kind and factored into the embedded Base struct, the
// same "typed hierarchy with a shared intrusive-list header" shape the
// teacher corpus uses for core.Vertex/core.Edge (map-of-maps adjacency
// generalized here to arena indices instead of string IDs).
package irgraph
