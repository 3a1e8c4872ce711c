// Package deppoly builds the dependence polyhedron between a pair of array
// accesses — the intersection of their two iteration-space polyhedra plus
// the equalities coupling their array-index expressions — and the Farkas
// pair the scheduler's LP uses to test legality of a candidate schedule
// (spec §4.3).
//
// Grounded on internal/imatrix's Hermite-normal-form null-space extraction
// (deppoly's time-dimension detection is the same "combine two access'
// shared index columns, extract the directions that leave both unchanged"
// computation NullSpaceBasis already performs) and on symbolic.Simplex for
// the Farkas-dual feasibility system, reusing the same exact-rational
// two-phase solver the comparator builds on rather than a second LP engine.
package deppoly
