// Package schedule is the ILP-driven loop scheduler: it partitions the
// access graph into ScheduledNode vertices, then recursively solves one
// affine schedule dimension (Φ/ω) per depth, splitting the graph
// into strongly-connected components and greedily re-fusing them when a
// depth cannot be solved as a whole. A depth's candidate rows are unit
// vectors on each node's not-yet-used loop axes, tried by backtracking
// search and checked one edge at a time against each active dependency
// edge's Farkas pair; no combined simplex over all edges is built, and
// rows other than unit vectors are not tried.
//
// ScheduledNode itself follows the corpus's plain-struct-plus-arena-handle
// convention (irgraph.Graph, depstore.Store); Tarjan's algorithm is a
// two-visit-bit depth-first search in the style of algorithms/dfs.go,
// generalized from a single visited bit to the index/low-link/on-stack
// triple SCC decomposition needs. The "build, solve, deactivate satisfied
// edges, retry on failure under SCC split" recursive shape follows
// flow/dinic.go's layered-graph solve/retry loop.
package schedule
