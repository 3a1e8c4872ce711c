// Package reconstruct turns a solved ScheduledNode list back into a
// nested loop IR: LoopTree indexes the nodes by their fusion_omega prefix
// into a tree of loop levels, TopologicalSort orders each level's
// instructions so every value precedes its users (hoisting out of a loop
// is recorded separately, in each Addr's HoistMask via ApplyHoistMask),
// and IROptimizer runs the post-scheduling cleanup passes
// (redundant-address pruning, dead temporary elimination,
// position/legality stamping) over the result.
//
// The walk follows algorithms/dfs.go's depth-first order with a single
// visited set, one pass serving as both the hoist-behind and main-sort
// orderings; CSE's "forward stored value, drop load"
// rewrite follows core/methods_clone.go's structural-copy-then-patch
// shape.
package reconstruct
