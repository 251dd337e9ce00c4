package ligerito

import (
	"fmt"
	"math/bits"
	"sort"

	"github.com/rotkonetworks/zeratul-sub005/binfield"
	"github.com/rotkonetworks/zeratul-sub005/reedsolomon"
)

// Elem is the protocol field. The whole reduction runs over GF(2^128);
// 32-bit input coefficients are lifted once at the entry points.
type Elem = binfield.Elem128

// Elem32 is the input coefficient field.
type Elem32 = binfield.Elem32

// Every supported size shares the code rate and spot-check count. These are
// externally tuned constants; changing either breaks compatibility between
// independently built provers and verifiers.
const (
	// InvRate is the inverse code rate: a column of m symbols encodes to
	// 4m symbols.
	InvRate = 4
	// NumQueries is the number of random spot-check rows opened per
	// commitment.
	NumQueries = 148
)

// configSpec is one row of the hardcoded per-size table. dims[i] are the
// (rows, cols) of the matrix committed at recursion level i+1; the level-0
// matrix uses initialDims. ks[i] is the number of sumcheck folds at step i.
type configSpec struct {
	steps       int
	initialDims [2]int
	initialK    int
	dims        [][2]int
	ks          []int
}

var configTable = map[int]configSpec{
	12: {
		steps:       1,
		initialDims: [2]int{1 << 8, 1 << 4},
		initialK:    4,
		dims:        [][2]int{{1 << 6, 1 << 2}},
		ks:          []int{2},
	},
	16: {
		steps:       1,
		initialDims: [2]int{1 << 12, 1 << 4},
		initialK:    4,
		dims:        [][2]int{{1 << 8, 1 << 4}},
		ks:          []int{4},
	},
	20: {
		steps:       1,
		initialDims: [2]int{1 << 14, 1 << 6},
		initialK:    6,
		dims:        [][2]int{{1 << 10, 1 << 4}},
		ks:          []int{4},
	},
	24: {
		steps:       2,
		initialDims: [2]int{1 << 18, 1 << 6},
		initialK:    6,
		dims:        [][2]int{{1 << 14, 1 << 4}, {1 << 10, 1 << 4}},
		ks:          []int{4, 4},
	},
	28: {
		steps:       4,
		initialDims: [2]int{1 << 22, 1 << 6},
		initialK:    6,
		dims:        [][2]int{{1 << 19, 1 << 3}, {1 << 16, 1 << 3}, {1 << 13, 1 << 3}, {1 << 10, 1 << 3}},
		ks:          []int{3, 3, 3, 3},
	},
	30: {
		steps:       3,
		initialDims: [2]int{1 << 23, 1 << 7},
		initialK:    7,
		dims:        [][2]int{{1 << 19, 1 << 4}, {1 << 15, 1 << 4}, {1 << 11, 1 << 4}},
		ks:          []int{4, 4, 4},
	},
}

// SupportedSizes lists the size exponents with a hardcoded config.
func SupportedSizes() []int {
	sizes := make([]int, 0, len(configTable))
	for s := range configTable {
		sizes = append(sizes, s)
	}
	sort.Ints(sizes)
	return sizes
}

// ProverConfig carries the per-size constants plus the precomputed codes
// for every recursion level. Constructed once, read-only afterwards.
type ProverConfig struct {
	Size        int
	Steps       int
	InitialDims [2]int
	InitialK    int
	Dims        [][2]int
	Ks          []int

	initialCode *reedsolomon.Code[Elem]
	codes       []*reedsolomon.Code[Elem]
}

// VerifierConfig mirrors ProverConfig with the log-scale dimensions the
// verifier needs, plus the same codes for Lagrange row reconstruction.
type VerifierConfig struct {
	Size          int
	Steps         int
	InitialLogDim int
	InitialK      int
	LogDims       []int
	Ks            []int

	initialCode *reedsolomon.Code[Elem]
	codes       []*reedsolomon.Code[Elem]
}

func buildCodes(spec configSpec) (*reedsolomon.Code[Elem], []*reedsolomon.Code[Elem], error) {
	initialCode, err := reedsolomon.New[Elem](spec.initialDims[0], spec.initialDims[0]*InvRate)
	if err != nil {
		return nil, nil, err
	}
	codes := make([]*reedsolomon.Code[Elem], len(spec.dims))
	for i, d := range spec.dims {
		codes[i], err = reedsolomon.New[Elem](d[0], d[0]*InvRate)
		if err != nil {
			return nil, nil, err
		}
	}
	return initialCode, codes, nil
}

// NewProverConfig returns the hardcoded prover config for a supported size.
func NewProverConfig(size int) (*ProverConfig, error) {
	spec, ok := configTable[size]
	if !ok {
		return nil, fmt.Errorf("%w: no config for size %d (supported: %v)", ErrConfigMismatch, size, SupportedSizes())
	}
	initialCode, codes, err := buildCodes(spec)
	if err != nil {
		return nil, err
	}
	return &ProverConfig{
		Size:        size,
		Steps:       spec.steps,
		InitialDims: spec.initialDims,
		InitialK:    spec.initialK,
		Dims:        spec.dims,
		Ks:          spec.ks,
		initialCode: initialCode,
		codes:       codes,
	}, nil
}

// NewVerifierConfig returns the hardcoded verifier config for a supported size.
func NewVerifierConfig(size int) (*VerifierConfig, error) {
	spec, ok := configTable[size]
	if !ok {
		return nil, fmt.Errorf("%w: no config for size %d (supported: %v)", ErrConfigMismatch, size, SupportedSizes())
	}
	initialCode, codes, err := buildCodes(spec)
	if err != nil {
		return nil, err
	}
	logDims := make([]int, len(spec.dims))
	for i, d := range spec.dims {
		logDims[i] = bits.TrailingZeros(uint(d[0]))
	}
	return &VerifierConfig{
		Size:          size,
		Steps:         spec.steps,
		InitialLogDim: bits.TrailingZeros(uint(spec.initialDims[0])),
		InitialK:      spec.initialK,
		LogDims:       logDims,
		Ks:            spec.ks,
		initialCode:   initialCode,
		codes:         codes,
	}, nil
}

// PolynomialSize returns the coefficient count for a size exponent.
func PolynomialSize(size int) int { return 1 << size }
