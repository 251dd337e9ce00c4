package ligerito

import (
	"fmt"
	"math/bits"

	"github.com/rotkonetworks/zeratul-sub005/merkle"
)

// Verify parses proof bytes and checks them against the config for the
// given size. It is total: any input, including adversarial bytes, yields
// a boolean and a classifying error, never a panic.
func Verify(size int, proofBytes []byte, opts ...Option) (bool, error) {
	proof, err := ParseProof(proofBytes)
	if err != nil {
		return false, err
	}
	return VerifyProof(size, proof, opts...)
}

// VerifyProof checks a parsed proof. The verifier is strictly
// single-threaded so it behaves identically in constrained sandboxes.
func VerifyProof(size int, proof *Proof, opts ...Option) (ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			ok, err = false, fmt.Errorf("%w: internal failure: %v", ErrMalformedProof, r)
		}
	}()

	o := newOptions(opts...)
	if int(proof.ConfigSize) != size {
		return false, fmt.Errorf("%w: proof carries size tag %d, verifier expects %d",
			ErrConfigMismatch, proof.ConfigSize, size)
	}
	if proof.TranscriptTag != o.transcriptTag {
		return false, fmt.Errorf("%w: proof carries transcript backend %d, verifier expects %d",
			ErrConfigMismatch, proof.TranscriptTag, o.transcriptTag)
	}

	cfg, err := NewVerifierConfig(size)
	if err != nil {
		return false, err
	}
	if err := validateShape(cfg, proof); err != nil {
		return false, err
	}

	tr, err := newTranscript(o.transcriptTag, size)
	if err != nil {
		return false, err
	}

	tr.bindRoot(proof.InitialRoot)
	r0 := tr.challengeElems("fold", cfg.InitialK)
	tr.bindRoot(proof.RecursiveRoots[0])

	initialBlockLen := (1 << cfg.InitialLogDim) * InvRate
	queries := tr.challengeIndices("query", initialBlockLen, NumQueries)
	alpha := tr.challengeElem("batch")

	if !verifyOpening(proof.InitialRoot, initialBlockLen, &proof.InitialOpening, queries) {
		return false, fmt.Errorf("%w: initial commitment", ErrCommitmentMismatch)
	}

	sum, bAcc, err := accumulateOpening(cfg.initialCode, proof.InitialOpening.Rows, queries, alpha, lagrangeBasis(r0), false)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrMalformedProof, err)
	}
	tr.bindElems("sum", sum)

	roundIdx := 0
	for i := 0; i < cfg.Steps; i++ {
		blockLen := (1 << cfg.LogDims[i]) * InvRate

		rs := make([]Elem, cfg.Ks[i])
		for rnd := 0; rnd < cfg.Ks[i]; rnd++ {
			c := proof.SumcheckRounds[roundIdx]
			roundIdx++
			// The round polynomial must satisfy g(0)+g(1) == claimed sum.
			if c[1].Add(c[2]) != sum {
				return false, fmt.Errorf("%w: sumcheck round %d", ErrConsistencyFailure, roundIdx)
			}
			tr.bindElems("sumcheck", c[0], c[1], c[2])
			r := tr.challengeElem("round")
			bAcc = foldHigh(bAcc, r)
			sum = evalQuad(c, r)
			rs[rnd] = r
		}
		basis := lagrangeBasis(rs)

		if i == cfg.Steps-1 {
			tr.bindElems("final", proof.FinalYr...)
			finalQueries := tr.challengeIndices("query", blockLen, NumQueries)

			lastRoot := proof.RecursiveRoots[cfg.Steps-1]
			if !verifyOpening(lastRoot, blockLen, &proof.FinalOpening, finalQueries) {
				return false, fmt.Errorf("%w: final commitment", ErrCommitmentMismatch)
			}

			// Each opened row, collapsed by the final fold challenges,
			// must match the claimed final message at that codeword
			// position.
			for t, q := range finalQueries {
				lrow, lerr := cfg.codes[i].LagrangeRow(q)
				if lerr != nil {
					return false, fmt.Errorf("%w: %v", ErrMalformedProof, lerr)
				}
				if dot(proof.FinalOpening.Rows[t], basis) != dot(proof.FinalYr, lrow) {
					return false, fmt.Errorf("%w: code consistency at query %d", ErrConsistencyFailure, q)
				}
			}

			if dot(proof.FinalYr, bAcc) != sum {
				return false, fmt.Errorf("%w: final sumcheck claim", ErrConsistencyFailure)
			}
			break
		}

		tr.bindRoot(proof.RecursiveRoots[i+1])
		stepQueries := tr.challengeIndices("query", blockLen, NumQueries)
		stepAlpha := tr.challengeElem("batch")

		if !verifyOpening(proof.RecursiveRoots[i], blockLen, &proof.RecursiveOpenings[i], stepQueries) {
			return false, fmt.Errorf("%w: level %d commitment", ErrCommitmentMismatch, i+1)
		}

		sigma, bNew, err := accumulateOpening(cfg.codes[i], proof.RecursiveOpenings[i].Rows, stepQueries, stepAlpha, basis, false)
		if err != nil {
			return false, fmt.Errorf("%w: %v", ErrMalformedProof, err)
		}
		tr.bindElems("glue", sum.Add(sigma))
		beta := tr.challengeElem("beta")
		addScaled(bAcc, beta, bNew)
		sum = sum.Add(beta.Mul(sigma))
	}

	return true, nil
}

// validateShape checks the parsed proof's structure against the config
// before any cryptographic work.
func validateShape(cfg *VerifierConfig, proof *Proof) error {
	fail := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrMalformedProof, fmt.Sprintf(format, args...))
	}

	if len(proof.RecursiveRoots) != cfg.Steps {
		return fail("have %d recursive roots, want %d", len(proof.RecursiveRoots), cfg.Steps)
	}
	if len(proof.RecursiveOpenings) != cfg.Steps-1 {
		return fail("have %d recursive openings, want %d", len(proof.RecursiveOpenings), cfg.Steps-1)
	}

	totalRounds := 0
	for _, k := range cfg.Ks {
		totalRounds += k
	}
	if len(proof.SumcheckRounds) != totalRounds {
		return fail("have %d sumcheck rounds, want %d", len(proof.SumcheckRounds), totalRounds)
	}

	last := cfg.Steps - 1
	if len(proof.FinalYr) != 1<<cfg.LogDims[last] {
		return fail("final evaluation has %d entries, want %d", len(proof.FinalYr), 1<<cfg.LogDims[last])
	}

	if err := validateOpeningShape(&proof.InitialOpening, 1<<cfg.InitialK); err != nil {
		return fail("initial opening: %v", err)
	}
	for i := range proof.RecursiveOpenings {
		if err := validateOpeningShape(&proof.RecursiveOpenings[i], 1<<cfg.Ks[i]); err != nil {
			return fail("level %d opening: %v", i+1, err)
		}
	}
	if err := validateOpeningShape(&proof.FinalOpening, 1<<cfg.Ks[last]); err != nil {
		return fail("final opening: %v", err)
	}
	return nil
}

func validateOpeningShape(o *Opening, width int) error {
	if len(o.Rows) != NumQueries {
		return fmt.Errorf("%d rows, want %d", len(o.Rows), NumQueries)
	}
	for _, row := range o.Rows {
		if len(row) != width {
			return fmt.Errorf("row width %d, want %d", len(row), width)
		}
	}
	return nil
}

func verifyOpening(root merkle.Hash, blockLen int, o *Opening, indices []int) bool {
	leaves := make([][]byte, len(o.Rows))
	for t, row := range o.Rows {
		leaves[t] = rowBytes(row)
	}
	depth := bits.TrailingZeros(uint(blockLen))
	return merkle.VerifyBatch(root, depth, leaves, indices, &merkle.BatchProof{Siblings: o.Siblings})
}
