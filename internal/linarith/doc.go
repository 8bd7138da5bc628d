// Package linarith decides linear arithmetic over an ordered field.
//
// Given hypotheses of the form t < 0, t <= 0 or t = 0, where t is a linear
// combination of atoms with exact rational coefficients, the prover looks
// for a certificate that the hypotheses are jointly unsatisfiable: positive
// multipliers whose weighted sum of the hypotheses is a false comparison
// between constants, such as 0 < 0.
//
// The search is Fourier-Motzkin elimination. Every derived comparison
// carries its derivation, so a contradiction can be flattened into
// multipliers over the inputs and replayed by the caller.
//
// Supported term shapes:
//   - numerals (exact rationals), addition, subtraction, negation
//   - multiplication where one side is constant
//   - division by a non-zero constant
//   - anything else is an opaque atom; identical atoms share an id
//
// Out of scope (the hypothesis is dropped):
//   - products of two unknowns
//   - disequalities
package linarith
