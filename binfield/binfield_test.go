package binfield

import (
	"math/rand"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomElem[T Elem[T]](rnd *rand.Rand) T {
	var z T
	buf := make([]byte, z.ByteLen())
	rnd.Read(buf)
	return z.FromBytes(buf)
}

func fieldLaws[T Elem[T]](t *testing.T, name string) {
	t.Helper()

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)
	rnd := rand.New(rand.NewSource(42))

	genElem := gopter.Gen(func(p *gopter.GenParameters) *gopter.GenResult {
		return gopter.NewGenResult(randomElem[T](rnd), gopter.NoShrinker)
	})

	properties.Property(name+": a+a == 0", prop.ForAll(
		func(a T) bool { return a.Add(a) == Zero[T]() },
		genElem,
	))

	properties.Property(name+": a*1 == a", prop.ForAll(
		func(a T) bool { return a.Mul(One[T]()) == a },
		genElem,
	))

	properties.Property(name+": a*b == b*a", prop.ForAll(
		func(a, b T) bool { return a.Mul(b) == b.Mul(a) },
		genElem, genElem,
	))

	properties.Property(name+": (a*b)*c == a*(b*c)", prop.ForAll(
		func(a, b, c T) bool { return a.Mul(b).Mul(c) == a.Mul(b.Mul(c)) },
		genElem, genElem, genElem,
	))

	properties.Property(name+": (a+b)*c == a*c + b*c", prop.ForAll(
		func(a, b, c T) bool {
			return a.Add(b).Mul(c) == a.Mul(c).Add(b.Mul(c))
		},
		genElem, genElem, genElem,
	))

	properties.Property(name+": a*inv(a) == 1 for a != 0", prop.ForAll(
		func(a T) bool {
			if a.IsZero() {
				return true
			}
			return a.Mul(a.Inv()) == One[T]()
		},
		genElem,
	))

	properties.Property(name+": square matches self-multiply", prop.ForAll(
		func(a T) bool { return a.Square() == a.Mul(a) },
		genElem,
	))

	properties.TestingRun(t)
}

func TestFieldLaws16(t *testing.T) { fieldLaws[Elem16](t, "GF(2^16)") }
func TestFieldLaws32(t *testing.T) { fieldLaws[Elem32](t, "GF(2^32)") }
func TestFieldLaws64(t *testing.T) { fieldLaws[Elem64](t, "GF(2^64)") }
func TestFieldLaws128(t *testing.T) { fieldLaws[Elem128](t, "GF(2^128)") }

func crossTier[T Elem[T]](t *testing.T) {
	t.Helper()

	rnd := rand.New(rand.NewSource(1))
	prev := ActiveTier()
	defer ForceTier(prev)

	for i := 0; i < 2000; i++ {
		a := randomElem[T](rnd)
		b := randomElem[T](rnd)

		ForceTier(TierScalar)
		scalar := a.Mul(b)
		ForceTier(TierWindow)
		window := a.Mul(b)

		require.Equal(t, scalar, window, "tier outputs diverge for %v * %v", a, b)
	}
}

// Multiplication must be bit-identical across backends: independently built
// prover and verifier binaries may select different tiers and still have to
// agree on every product.
func TestTiersBitIdentical(t *testing.T) {
	t.Run("GF(2^16)", crossTier[Elem16])
	t.Run("GF(2^32)", crossTier[Elem32])
	t.Run("GF(2^64)", crossTier[Elem64])
	t.Run("GF(2^128)", crossTier[Elem128])
}

func TestTierSelectionStable(t *testing.T) {
	first := ActiveTier()
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, ActiveTier())
	}
	assert.Contains(t, []Tier{TierScalar, TierWindow}, first)
	assert.NotEqual(t, "unknown", first.String())
}

func bytesRoundTrip[T Elem[T]](t *testing.T) {
	t.Helper()
	rnd := rand.New(rand.NewSource(7))
	for i := 0; i < 100; i++ {
		a := randomElem[T](rnd)
		buf := a.AppendBytes(nil)
		require.Len(t, buf, a.ByteLen())
		require.Equal(t, a, a.FromBytes(buf))
	}
}

func TestBytesRoundTrip(t *testing.T) {
	t.Run("GF(2^16)", bytesRoundTrip[Elem16])
	t.Run("GF(2^32)", bytesRoundTrip[Elem32])
	t.Run("GF(2^64)", bytesRoundTrip[Elem64])
	t.Run("GF(2^128)", bytesRoundTrip[Elem128])
}

func TestFromBits(t *testing.T) {
	// x * x == x^2 in every width.
	x16 := Elem16(0).FromBits(2)
	assert.Equal(t, Elem16(0).FromBits(4), x16.Mul(x16))

	x128 := Elem128{}.FromBits(2)
	assert.Equal(t, Elem128{}.FromBits(4), x128.Mul(x128))

	// Inverse of zero stays zero, inverse of one is one.
	assert.True(t, Zero[Elem64]().Inv().IsZero())
	assert.Equal(t, One[Elem32](), One[Elem32]().Inv())
}

func TestReductionKnownValues(t *testing.T) {
	// x^15 * x == x^16 == x^5 + x^3 + x^2 + 1 in GF(2^16).
	a := Elem16(1 << 15)
	b := Elem16(2)
	assert.Equal(t, Elem16(modLow16), a.Mul(b))

	// Same shape one limb up: x^127 * x == x^128 == x^7 + x^2 + x + 1.
	c := Elem128{Hi: 1 << 63}
	d := Elem128{Lo: 2}
	assert.Equal(t, Elem128{Lo: modLow128}, c.Mul(d))

	// And for GF(2^64): x^63 * x == x^64 == x^4 + x^3 + x + 1.
	assert.Equal(t, Elem64(modLow64), Elem64(1<<63).Mul(Elem64(2)))
}
