// Package reedsolomon implements a systematic Reed-Solomon encoder over
// binary extension fields, built on an additive FFT whose evaluation domain
// is an affine subspace of the field.
//
// Encoding is linear over XOR and systematic: the first MessageLen symbols
// of a codeword equal the message. The encoder is prover-side only; the
// verifier never encodes or decodes, it only reconstructs single rows of
// the encoding matrix via LagrangeRow.
package reedsolomon

import (
	"fmt"
	"math/bits"

	"github.com/rotkonetworks/zeratul-sub005/binfield"
)

// Code is a fixed-rate systematic code with precomputed FFT twiddles.
type Code[T binfield.Elem[T]] struct {
	msgLen   int
	blockLen int

	msgTwiddles   []T // twiddle tree for the message-length transform
	blockTwiddles []T // twiddle tree for the block-length transform
}

// New constructs a code mapping msgLen symbols to blockLen symbols.
// Both must be powers of two with msgLen < blockLen.
func New[T binfield.Elem[T]](msgLen, blockLen int) (*Code[T], error) {
	if msgLen <= 0 || msgLen&(msgLen-1) != 0 {
		return nil, fmt.Errorf("message length %d is not a power of two", msgLen)
	}
	if blockLen <= msgLen || blockLen&(blockLen-1) != 0 {
		return nil, fmt.Errorf("block length %d must be a power of two above %d", blockLen, msgLen)
	}

	var beta T
	return &Code[T]{
		msgLen:        msgLen,
		blockLen:      blockLen,
		msgTwiddles:   computeTwiddles(bits.TrailingZeros(uint(msgLen)), beta),
		blockTwiddles: computeTwiddles(bits.TrailingZeros(uint(blockLen)), beta),
	}, nil
}

// MessageLen returns the message length in symbols.
func (c *Code[T]) MessageLen() int { return c.msgLen }

// BlockLen returns the codeword length in symbols.
func (c *Code[T]) BlockLen() int { return c.blockLen }

// Encode maps a message to its codeword: interpolate the message over the
// small domain, zero-extend the coefficients, evaluate over the big domain.
func (c *Code[T]) Encode(msg []T) ([]T, error) {
	if len(msg) != c.msgLen {
		return nil, fmt.Errorf("message length %d, want %d", len(msg), c.msgLen)
	}
	out := make([]T, c.blockLen)
	copy(out, msg)
	if c.msgLen > 1 {
		ifft(out[:c.msgLen], c.msgTwiddles, 1)
	}
	fftParallel(out, c.blockTwiddles, 1)
	return out, nil
}

// LagrangeRow returns row q of the encoding matrix: the vector r such that
// Encode(x)[q] equals the dot product of r and x for every message x. It is
// computed through the transposed transform network, so it is bit-exact
// with Encode, and it runs single-threaded.
func (c *Code[T]) LagrangeRow(q int) ([]T, error) {
	if q < 0 || q >= c.blockLen {
		return nil, fmt.Errorf("row index %d out of range [0,%d)", q, c.blockLen)
	}
	y := make([]T, c.blockLen)
	y[q] = binfield.One[T]()
	fftT(y, c.blockTwiddles, 1)
	y = y[:c.msgLen]
	if c.msgLen > 1 {
		ifftT(y, c.msgTwiddles, 1)
	}
	return y, nil
}
