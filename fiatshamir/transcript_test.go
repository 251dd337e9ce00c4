package fiatshamir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDomain = "transcript-test/v1"

func TestDeterministicReplay(t *testing.T) {
	for _, tag := range []uint8{TagSHA256, TagSHAKE} {
		a, err := New(tag, []byte(testDomain))
		require.NoError(t, err)
		b, err := New(tag, []byte(testDomain))
		require.NoError(t, err)

		a.Bind("commit", []byte{1, 2, 3})
		b.Bind("commit", []byte{1, 2, 3})
		assert.Equal(t, a.Challenge("fold", 16), b.Challenge("fold", 16), "tag %d", tag)

		a.Bind("sum", []byte{9})
		b.Bind("sum", []byte{9})
		assert.Equal(t, a.Challenge("query", 64), b.Challenge("query", 64), "tag %d", tag)
	}
}

func TestBindOrderMatters(t *testing.T) {
	for _, tag := range []uint8{TagSHA256, TagSHAKE} {
		a, _ := New(tag, []byte(testDomain))
		b, _ := New(tag, []byte(testDomain))

		a.Bind("x", []byte{1})
		a.Bind("y", []byte{2})
		b.Bind("y", []byte{2})
		b.Bind("x", []byte{1})

		assert.NotEqual(t, a.Challenge("c", 16), b.Challenge("c", 16), "tag %d", tag)
	}
}

func TestBoundDataMatters(t *testing.T) {
	for _, tag := range []uint8{TagSHA256, TagSHAKE} {
		a, _ := New(tag, []byte(testDomain))
		b, _ := New(tag, []byte(testDomain))

		a.Bind("commit", []byte{1, 2, 3})
		b.Bind("commit", []byte{1, 2, 4})

		assert.NotEqual(t, a.Challenge("c", 16), b.Challenge("c", 16), "tag %d", tag)
	}
}

func TestSuccessiveChallengesDiffer(t *testing.T) {
	for _, tag := range []uint8{TagSHA256, TagSHAKE} {
		tr, _ := New(tag, []byte(testDomain))
		first := tr.Challenge("c", 16)
		second := tr.Challenge("c", 16)
		assert.NotEqual(t, first, second, "tag %d", tag)
	}
}

func TestBackendsDiverge(t *testing.T) {
	a := NewSHA256([]byte(testDomain))
	b := NewSHAKE([]byte(testDomain))
	a.Bind("commit", []byte{1})
	b.Bind("commit", []byte{1})
	assert.NotEqual(t, a.Challenge("c", 16), b.Challenge("c", 16))
}

func TestDomainSeparation(t *testing.T) {
	a := NewSHA256([]byte("domain-a"))
	b := NewSHA256([]byte("domain-b"))
	assert.NotEqual(t, a.Challenge("c", 16), b.Challenge("c", 16))
}

func TestTags(t *testing.T) {
	a, err := New(TagSHA256, []byte(testDomain))
	require.NoError(t, err)
	assert.Equal(t, TagSHA256, a.BackendTag())

	b, err := New(TagSHAKE, []byte(testDomain))
	require.NoError(t, err)
	assert.Equal(t, TagSHAKE, b.BackendTag())

	_, err = New(7, []byte(testDomain))
	assert.Error(t, err)
}

func TestLongChallenge(t *testing.T) {
	tr := NewSHA256([]byte(testDomain))
	out := tr.Challenge("wide", 100)
	assert.Len(t, out, 100)
}
