// Package symbolic implements the symbolic comparator: given a polyhedron
// {x : A*z >= 0, E*z == 0} over a column vector z = [1, dyn_syms..., x...],
// answer "does v.x >= 0 hold everywhere on the polyhedron?" and "is the
// polyhedron empty?".
//
// The comparator decides v.x >= 0 on {A*z>=0, E*z==0} by testing whether
// the polyhedron intersected with {v.x <= -1} is empty; by the Farkas
// lemma that is the same question as whether v == lambda^T*A + mu^T*E for
// some lambda >= 0 and mu unrestricted in sign. Each emptiness test is a
// linear feasibility problem, solved here with an exact two-phase simplex
// over rational numbers (package's own Simplex type, also used by
// deppoly's Farkas pairs — spec designates DepPoly.farkas_pair as the
// constructor of exactly this type).
//
// Two comparator variants are kept, matching spec §4.1: an
// "always-nonnegative" comparator for loops whose induction variables have
// an implicit i_k >= 0 (so those rows never need to be materialized), and
// a general comparator with no such assumption.
package symbolic
