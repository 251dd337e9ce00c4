package binfield

import "encoding/binary"

// Irreducible polynomials, stored without their leading x^k term:
//
//	GF(2^16):  x^16 + x^5 + x^3 + x^2 + 1
//	GF(2^32):  x^32 + x^15 + x^9 + x^7 + x^4 + x^3 + 1
//	GF(2^64):  x^64 + x^4 + x^3 + x + 1
//	GF(2^128): x^128 + x^7 + x^2 + x + 1
const (
	modLow16  = 0x2d
	modLow32  = 0x8299
	modLow64  = 0x1b
	modLow128 = 0x87
)

// Elem16 is an element of GF(2^16).
type Elem16 uint16

// Elem32 is an element of GF(2^32).
type Elem32 uint32

// Elem64 is an element of GF(2^64).
type Elem64 uint64

// Elem128 is an element of GF(2^128), split into 64-bit limbs.
// Lo holds the coefficients of x^0..x^63, Hi those of x^64..x^127.
type Elem128 struct {
	Lo, Hi uint64
}

func reduce16(p uint64) uint16 {
	for p>>16 != 0 {
		h := p >> 16
		p = p&0xffff ^ h ^ h<<2 ^ h<<3 ^ h<<5
	}
	return uint16(p)
}

func reduce32(p uint64) uint32 {
	for p>>32 != 0 {
		h := p >> 32
		p = p&0xffffffff ^ h ^ h<<3 ^ h<<4 ^ h<<7 ^ h<<9 ^ h<<15
	}
	return uint32(p)
}

func reduce64(hi, lo uint64) uint64 {
	// Fold the high limb through x^64 = x^4 + x^3 + x + 1, then fold the
	// (at most 4-bit) overflow of that product once more.
	ov := hi>>63 ^ hi>>61 ^ hi>>60
	lo ^= hi ^ hi<<1 ^ hi<<3 ^ hi<<4
	lo ^= ov ^ ov<<1 ^ ov<<3 ^ ov<<4
	return lo
}

// Elem16

func (a Elem16) Add(b Elem16) Elem16 { return a ^ b }

func (a Elem16) Mul(b Elem16) Elem16 {
	_, lo := clmul64(uint64(a), uint64(b))
	return Elem16(reduce16(lo))
}

func (a Elem16) Square() Elem16 { return a.Mul(a) }
func (a Elem16) Inv() Elem16 { return invChain(a, 16) }
func (a Elem16) IsZero() bool { return a == 0 }
func (Elem16) ByteLen() int { return 2 }
func (Elem16) FromBits(v uint64) Elem16 { return Elem16(v) }
func (a Elem16) AppendBytes(buf []byte) []byte {
	return binary.LittleEndian.AppendUint16(buf, uint16(a))
}
func (Elem16) FromBytes(b []byte) Elem16 {
	return Elem16(binary.LittleEndian.Uint16(b))
}

// Elem32

func (a Elem32) Add(b Elem32) Elem32 { return a ^ b }

func (a Elem32) Mul(b Elem32) Elem32 {
	_, lo := clmul64(uint64(a), uint64(b))
	return Elem32(reduce32(lo))
}

func (a Elem32) Square() Elem32 { return a.Mul(a) }
func (a Elem32) Inv() Elem32 { return invChain(a, 32) }
func (a Elem32) IsZero() bool { return a == 0 }
func (Elem32) ByteLen() int { return 4 }
func (Elem32) FromBits(v uint64) Elem32 { return Elem32(v) }
func (a Elem32) AppendBytes(buf []byte) []byte {
	return binary.LittleEndian.AppendUint32(buf, uint32(a))
}
func (Elem32) FromBytes(b []byte) Elem32 {
	return Elem32(binary.LittleEndian.Uint32(b))
}

// Elem64

func (a Elem64) Add(b Elem64) Elem64 { return a ^ b }

func (a Elem64) Mul(b Elem64) Elem64 {
	hi, lo := clmul64(uint64(a), uint64(b))
	return Elem64(reduce64(hi, lo))
}

func (a Elem64) Square() Elem64 { return a.Mul(a) }
func (a Elem64) Inv() Elem64 { return invChain(a, 64) }
func (a Elem64) IsZero() bool { return a == 0 }
func (Elem64) ByteLen() int { return 8 }
func (Elem64) FromBits(v uint64) Elem64 { return Elem64(v) }
func (a Elem64) AppendBytes(buf []byte) []byte {
	return binary.LittleEndian.AppendUint64(buf, uint64(a))
}
func (Elem64) FromBytes(b []byte) Elem64 {
	return Elem64(binary.LittleEndian.Uint64(b))
}

// Elem128

func (a Elem128) Add(b Elem128) Elem128 {
	return Elem128{Lo: a.Lo ^ b.Lo, Hi: a.Hi ^ b.Hi}
}

func (a Elem128) Mul(b Elem128) Elem128 {
	// Schoolbook 128x128 carryless multiply into four 64-bit limbs.
	h0, l0 := clmul64(a.Lo, b.Lo)
	h1, l1 := clmul64(a.Lo, b.Hi)
	h2, l2 := clmul64(a.Hi, b.Lo)
	h3, l3 := clmul64(a.Hi, b.Hi)

	p0 := l0
	p1 := h0 ^ l1 ^ l2
	p2 := h1 ^ h2 ^ l3
	p3 := h3

	// Fold the top limbs through x^128 = x^7 + x^2 + x + 1.
	ov := p3>>63 ^ p3>>62 ^ p3>>57
	p2 ^= ov
	p1 ^= p3 ^ p3<<1 ^ p3<<2 ^ p3<<7

	ov = p2>>63 ^ p2>>62 ^ p2>>57
	p1 ^= ov
	p0 ^= p2 ^ p2<<1 ^ p2<<2 ^ p2<<7

	return Elem128{Lo: p0, Hi: p1}
}

func (a Elem128) Square() Elem128 { return a.Mul(a) }
func (a Elem128) Inv() Elem128 { return invChain(a, 128) }
func (a Elem128) IsZero() bool { return a == Elem128{} }
func (Elem128) ByteLen() int { return 16 }
func (Elem128) FromBits(v uint64) Elem128 { return Elem128{Lo: v} }
func (a Elem128) AppendBytes(buf []byte) []byte {
	buf = binary.LittleEndian.AppendUint64(buf, a.Lo)
	return binary.LittleEndian.AppendUint64(buf, a.Hi)
}
func (Elem128) FromBytes(b []byte) Elem128 {
	return Elem128{
		Lo: binary.LittleEndian.Uint64(b),
		Hi: binary.LittleEndian.Uint64(b[8:]),
	}
}
