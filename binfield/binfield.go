// Package binfield implements arithmetic over the binary extension fields
// GF(2^16), GF(2^32), GF(2^64) and GF(2^128).
//
// Elements are polynomials over GF(2) reduced modulo a fixed irreducible
// polynomial per width. Addition is bitwise XOR; multiplication is a
// carryless polynomial multiply followed by reduction. Two multiplication
// backends exist (see Tier); both produce bit-identical results for all
// inputs, so independently built binaries agree regardless of the host CPU.
package binfield

// Elem is the constraint satisfied by every field element type in this
// package. The zero value of an implementing type is the additive identity.
//
// FromBits and FromBytes construct new elements and ignore their receiver;
// they exist so generic code can build elements without reflection.
type Elem[T any] interface {
	comparable

	Add(T) T
	Mul(T) T
	Square() T
	Inv() T
	IsZero() bool

	// ByteLen returns the fixed serialized size in bytes.
	ByteLen() int
	// AppendBytes appends the little-endian encoding to buf.
	AppendBytes(buf []byte) []byte
	// FromBytes decodes a little-endian encoding of ByteLen bytes.
	FromBytes(b []byte) T
	// FromBits returns the element whose polynomial coefficients are the
	// bits of v (bit i is the coefficient of x^i).
	FromBits(v uint64) T
}

// Zero returns the additive identity of T.
func Zero[T Elem[T]]() T {
	var z T
	return z
}

// One returns the multiplicative identity of T.
func One[T Elem[T]]() T {
	var z T
	return z.FromBits(1)
}

// invChain computes a^(2^k - 2) = a^(-1) in GF(2^k) via the addition chain
// 2^k - 2 = 2^1 + 2^2 + ... + 2^(k-1). Returns zero for a == 0.
func invChain[T Elem[T]](a T, k int) T {
	var z T
	if a == z {
		return z
	}
	res := z.FromBits(1)
	s := a
	for i := 1; i < k; i++ {
		s = s.Square()
		res = res.Mul(s)
	}
	return res
}
