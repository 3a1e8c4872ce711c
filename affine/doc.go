// Package affine implements Loop, the per-loop iteration polyhedron with
// dynamic symbols described in spec §3/§4.2: construction from a source
// loop's trip-count expression, rotation by a unimodular matrix, peeling
// of outer loops into dynamic symbols, Fourier-Motzkin removal of an inner
// loop, redundant-bound pruning via the symbolic comparator, and trip-count
// queries.
//
// Column layout. A Loop's constraint matrix A has columns
// [1, dyn_syms..., loop_vars...] (outer to inner); every row reads
// a0 + sum(aj*sj) + sum(bk*ik) >= 0. When NonNegative is true each ik >= 0
// is implicit and never materialized as an explicit row — Rotate is the
// one operation that can force those rows into existence, per spec §4.2.
package affine
