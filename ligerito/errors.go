package ligerito

import "errors"

// Failure taxonomy. Verify never panics: every failure mode, including
// adversarial proof bytes, maps to a false result wrapping one of these.
var (
	// ErrMalformedProof marks truncated or unparseable proof bytes, or a
	// parsed structure whose shape does not fit the config.
	ErrMalformedProof = errors.New("malformed proof")
	// ErrConfigMismatch marks a size-tag or transcript-backend
	// disagreement between prove and verify.
	ErrConfigMismatch = errors.New("config mismatch")
	// ErrCommitmentMismatch marks a hash-tree opening that failed against
	// its committed root.
	ErrCommitmentMismatch = errors.New("commitment mismatch")
	// ErrConsistencyFailure marks a sumcheck round or fold/code relation
	// that does not hold for the opened values.
	ErrConsistencyFailure = errors.New("consistency failure")
	// ErrInvalidInput marks prover input whose length does not match the
	// declared config size.
	ErrInvalidInput = errors.New("invalid input")
)
