package ligerito

import (
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/rotkonetworks/zeratul-sub005/fiatshamir"
	"github.com/rotkonetworks/zeratul-sub005/merkle"
)

// protocolDomain separates this protocol's transcripts from any other use
// of the same hash backends.
const protocolDomain = "zeratul/ligerito/v1"

// transcript layers field-element and index derivation on the byte-level
// Fiat-Shamir backends. The config size is bound before any protocol data,
// so proofs for different sizes never share challenges.
type transcript struct {
	inner fiatshamir.Transcript
}

func newTranscript(tag uint8, size int) (*transcript, error) {
	inner, err := fiatshamir.New(tag, []byte(protocolDomain))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigMismatch, err)
	}
	inner.Bind("config", []byte{uint8(size)})
	return &transcript{inner: inner}, nil
}

func (t *transcript) bindRoot(root merkle.Hash) {
	t.inner.Bind("commit", root[:])
}

func (t *transcript) bindElems(label string, es ...Elem) {
	var buf []byte
	for _, e := range es {
		buf = e.AppendBytes(buf)
	}
	t.inner.Bind(label, buf)
}

// challengeElem interprets 16 challenge bytes, little-endian, as the
// polynomial bits of a field element.
func (t *transcript) challengeElem(label string) Elem {
	b := t.inner.Challenge(label, 16)
	return Elem{
		Lo: binary.LittleEndian.Uint64(b),
		Hi: binary.LittleEndian.Uint64(b[8:]),
	}
}

func (t *transcript) challengeElems(label string, n int) []Elem {
	out := make([]Elem, n)
	for i := range out {
		out[i] = t.challengeElem(label)
	}
	return out
}

// challengeIndices derives count distinct indices in [0, max), sorted
// ascending. Duplicates are redrawn, so both sides land on the same set.
func (t *transcript) challengeIndices(label string, max, count int) []int {
	if count > max {
		count = max
	}
	seen := make(map[int]struct{}, count)
	out := make([]int, 0, count)
	for len(out) < count {
		b := t.inner.Challenge(label, 8)
		q := int(binary.LittleEndian.Uint64(b) % uint64(max))
		if _, ok := seen[q]; ok {
			continue
		}
		seen[q] = struct{}{}
		out = append(out, q)
	}
	sort.Ints(out)
	return out
}
