package ligerito

import (
	"math/rand"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rotkonetworks/zeratul-sub005/fiatshamir"
)

func randomPoly(size int, seed int64) []Elem32 {
	rnd := rand.New(rand.NewSource(seed))
	poly := make([]Elem32, PolynomialSize(size))
	for i := range poly {
		poly[i] = Elem32(rnd.Uint32())
	}
	return poly
}

func proveAndVerify(t *testing.T, size int, poly []Elem32, opts ...Option) []byte {
	t.Helper()

	proof, err := Prove(size, poly, opts...)
	require.NoError(t, err)

	data, err := proof.Bytes()
	require.NoError(t, err)

	ok, err := Verify(size, data, opts...)
	require.NoError(t, err)
	require.True(t, ok)
	return data
}

func TestProveVerifySize12(t *testing.T) {
	size := 12
	n := PolynomialSize(size)

	zeros := make([]Elem32, n)
	ones := make([]Elem32, n)
	seq := make([]Elem32, n)
	for i := range ones {
		ones[i] = 1
		seq[i] = Elem32(i)
	}

	cases := map[string][]Elem32{
		"zeros":      zeros,
		"ones":       ones,
		"sequential": seq,
		"random":     randomPoly(size, 1),
	}
	for name, poly := range cases {
		t.Run(name, func(t *testing.T) {
			proveAndVerify(t, size, poly)
		})
	}
}

func TestProveVerifySize12Shake(t *testing.T) {
	proveAndVerify(t, 12, randomPoly(12, 2), WithTranscript(fiatshamir.TagSHAKE))
}

func TestProveVerifySize16(t *testing.T) {
	proveAndVerify(t, 16, randomPoly(16, 3))
}

func TestProveVerifyLargeSizes(t *testing.T) {
	if testing.Short() {
		t.Skip("large polynomial sizes take minutes")
	}
	for _, size := range []int{20, 24} {
		size := size
		t.Run(strconv.Itoa(size), func(t *testing.T) {
			proveAndVerify(t, size, randomPoly(size, int64(size)))
		})
	}
}

func TestProveDeterministic(t *testing.T) {
	poly := randomPoly(12, 4)

	a, err := Prove(12, poly)
	require.NoError(t, err)
	b, err := Prove(12, poly)
	require.NoError(t, err)

	da, err := a.Bytes()
	require.NoError(t, err)
	db, err := b.Bytes()
	require.NoError(t, err)
	assert.Equal(t, da, db)
}

func TestProveRejectsWrongLength(t *testing.T) {
	_, err := Prove(12, make([]Elem32, 17))
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = Prove(12, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestVerifyRejectsTamperedProof(t *testing.T) {
	data := proveAndVerify(t, 12, randomPoly(12, 5))

	// Flip a byte at positions spread across the proof: header, roots,
	// opened rows, sumcheck coefficients, and the tail.
	positions := []int{5, 6, 10, 40, 80, len(data) / 4, len(data) / 2, 3 * len(data) / 4, len(data) - 1}
	for _, pos := range positions {
		tampered := append([]byte{}, data...)
		tampered[pos] ^= 0x01
		ok, err := Verify(12, tampered)
		assert.False(t, ok, "flip at %d accepted", pos)
		assert.Error(t, err, "flip at %d gave no error", pos)
	}
}

func TestVerifyRejectsRootTamper(t *testing.T) {
	proof, err := Prove(12, randomPoly(12, 6))
	require.NoError(t, err)

	proof.InitialRoot[0] ^= 0x01
	ok, err := VerifyProof(12, proof)
	assert.False(t, ok)
	assert.Error(t, err)
}

func TestVerifyRejectsSizeMismatch(t *testing.T) {
	data := proveAndVerify(t, 12, randomPoly(12, 7))

	ok, err := Verify(16, data)
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrConfigMismatch)
}

func TestVerifyRejectsTranscriptMismatch(t *testing.T) {
	data := proveAndVerify(t, 12, randomPoly(12, 8))

	ok, err := Verify(12, data, WithTranscript(fiatshamir.TagSHAKE))
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrConfigMismatch)
}

func TestVerifyRejectsWrongPolynomialProof(t *testing.T) {
	// A valid proof for one polynomial must not verify when the final
	// message is swapped for another polynomial's.
	a, err := Prove(12, randomPoly(12, 9))
	require.NoError(t, err)
	b, err := Prove(12, randomPoly(12, 10))
	require.NoError(t, err)

	a.FinalYr = b.FinalYr
	ok, err := VerifyProof(12, a)
	assert.False(t, ok)
	assert.Error(t, err)
}

func TestVerifyNeverPanics(t *testing.T) {
	rnd := rand.New(rand.NewSource(11))
	for i := 0; i < 100; i++ {
		blob := make([]byte, rnd.Intn(4096))
		rnd.Read(blob)
		ok, err := Verify(12, blob)
		assert.False(t, ok)
		assert.Error(t, err)
	}
}

func TestVerifyRejectsShapeMutations(t *testing.T) {
	base := func() *Proof {
		p, err := Prove(12, randomPoly(12, 12))
		require.NoError(t, err)
		return p
	}

	t.Run("missing sumcheck round", func(t *testing.T) {
		p := base()
		p.SumcheckRounds = p.SumcheckRounds[:len(p.SumcheckRounds)-1]
		ok, err := VerifyProof(12, p)
		assert.False(t, ok)
		assert.ErrorIs(t, err, ErrMalformedProof)
	})

	t.Run("truncated final message", func(t *testing.T) {
		p := base()
		p.FinalYr = p.FinalYr[:len(p.FinalYr)-1]
		ok, err := VerifyProof(12, p)
		assert.False(t, ok)
		assert.ErrorIs(t, err, ErrMalformedProof)
	})

	t.Run("dropped opening row", func(t *testing.T) {
		p := base()
		p.InitialOpening.Rows = p.InitialOpening.Rows[:len(p.InitialOpening.Rows)-1]
		ok, err := VerifyProof(12, p)
		assert.False(t, ok)
		assert.ErrorIs(t, err, ErrMalformedProof)
	})

	t.Run("extra recursive root", func(t *testing.T) {
		p := base()
		p.RecursiveRoots = append(p.RecursiveRoots, p.RecursiveRoots[0])
		ok, err := VerifyProof(12, p)
		assert.False(t, ok)
		assert.ErrorIs(t, err, ErrMalformedProof)
	})
}

func TestProofBytesRoundTripEndToEnd(t *testing.T) {
	proof, err := Prove(12, randomPoly(12, 13))
	require.NoError(t, err)

	data, err := proof.Bytes()
	require.NoError(t, err)

	got, err := ParseProof(data)
	require.NoError(t, err)
	assert.Equal(t, proof, got)

	ok, err := VerifyProof(12, got)
	require.NoError(t, err)
	assert.True(t, ok)
}
