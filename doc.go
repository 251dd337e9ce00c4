// Package zeratul provides a polynomial commitment scheme over binary
// extension fields: a prover commits to a large coefficient vector and
// produces a succinct proof that the recursive fold chain over the
// commitment is consistent; a verifier checks the proof without the vector.
//
// The scheme combines:
//   - GF(2^k) arithmetic with tiered carryless-multiply backends (binfield)
//   - an authenticated hash tree with deduplicated batch openings (merkle)
//   - a systematic additive-FFT Reed-Solomon encoder (reedsolomon)
//   - a Fiat-Shamir transcript with two hash backends (fiatshamir)
//   - the recursive commit/fold/query protocol engine (ligerito)
//
// Entry points are ligerito.Prove and ligerito.Verify, with proofs
// serialized through the io.WriterTo / io.ReaderFrom interfaces.
package zeratul

import "github.com/rotkonetworks/zeratul-sub005/ligerito"

// SupportedSizes lists the polynomial size exponents with hardcoded
// protocol configurations.
func SupportedSizes() []int {
	return ligerito.SupportedSizes()
}
