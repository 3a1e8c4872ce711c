// Package imatrix provides the integer-matrix primitives the polyhedral
// core is built on: dense row-major matrices over int64, GCD/LCM, Hermite
// normal form via unimodular column operations, null-space extraction, and
// Fourier-Motzkin variable elimination.
//
// Spec classifies these as an "external" collaborator — something the
// surrounding compiler infrastructure is expected to already provide — but
// nothing upstream of this module supplies it, so it is implemented here in
// the same Stage-commented style as the teacher corpus's matrix/ops
// package, translated from float64 to exact int64 arithmetic (polyhedra
// need exact integer coefficients, not floating-point approximations).
package imatrix
