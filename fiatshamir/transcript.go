// Package fiatshamir provides the stateful transcript used to replace the
// interactive verifier with hashing. Both parties must bind identical data
// under identical labels in identical order, or derived challenges diverge
// and verification fails closed.
//
// Two backends exist: a chained SHA-256 construction with no dependencies
// beyond the standard library, suitable for constrained builds, and a
// SHAKE-256 construction with a native extendable output. A proof produced
// under one backend does not verify under the other; the backend tag is
// part of the proof and mismatches are a configuration error.
package fiatshamir

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"

	"golang.org/x/crypto/sha3"
)

// Backend tags. The tag travels with the proof.
const (
	TagSHA256 uint8 = 0
	TagSHAKE  uint8 = 1
)

// Transcript accumulates bound data and derives challenges from it.
// Challenge output depends on every prior Bind and Challenge call.
type Transcript interface {
	// Bind absorbs labeled data into the state.
	Bind(label string, data []byte)
	// Challenge derives n bytes from the current state. The output is
	// folded back into the state, so successive challenges differ.
	Challenge(label string, n int) []byte
	// BackendTag identifies the backend for config-match checks.
	BackendTag() uint8
}

// New returns a transcript for the given backend tag, seeded with domain.
func New(tag uint8, domain []byte) (Transcript, error) {
	switch tag {
	case TagSHA256:
		return NewSHA256(domain), nil
	case TagSHAKE:
		return NewSHAKE(domain), nil
	default:
		return nil, fmt.Errorf("unknown transcript backend tag %d", tag)
	}
}

// frame serializes one labeled message unambiguously.
func frame(label string, data []byte) []byte {
	buf := make([]byte, 0, 1+len(label)+8+len(data))
	buf = append(buf, uint8(len(label)))
	buf = append(buf, label...)
	buf = binary.BigEndian.AppendUint64(buf, uint64(len(data)))
	buf = append(buf, data...)
	return buf
}

// SHA256Transcript chains a 32-byte state through SHA-256 compressions.
type SHA256Transcript struct {
	state [32]byte
	ctr   uint64
}

// NewSHA256 returns the default, stdlib-only transcript backend.
func NewSHA256(domain []byte) *SHA256Transcript {
	t := &SHA256Transcript{}
	t.Bind("domain", domain)
	return t
}

func (t *SHA256Transcript) Bind(label string, data []byte) {
	h := sha256.New()
	h.Write(t.state[:])
	h.Write(frame(label, data))
	h.Sum(t.state[:0])
}

func (t *SHA256Transcript) Challenge(label string, n int) []byte {
	out := make([]byte, 0, n+sha256.Size)
	for len(out) < n {
		h := sha256.New()
		h.Write(t.state[:])
		h.Write(frame(label, binary.BigEndian.AppendUint64(nil, t.ctr)))
		t.ctr++
		out = h.Sum(out)
	}
	out = out[:n]
	t.Bind("squeeze", out)
	return out
}

func (t *SHA256Transcript) BackendTag() uint8 { return TagSHA256 }

// ShakeTranscript chains a 64-byte state through SHAKE-256.
type ShakeTranscript struct {
	state [64]byte
	ctr   uint64
}

// NewSHAKE returns the SHAKE-256 transcript backend.
func NewSHAKE(domain []byte) *ShakeTranscript {
	t := &ShakeTranscript{}
	t.Bind("domain", domain)
	return t
}

func (t *ShakeTranscript) Bind(label string, data []byte) {
	sh := sha3.NewShake256()
	sh.Write(t.state[:])
	sh.Write(frame(label, data))
	sh.Read(t.state[:])
}

func (t *ShakeTranscript) Challenge(label string, n int) []byte {
	sh := sha3.NewShake256()
	sh.Write(t.state[:])
	sh.Write(frame(label, binary.BigEndian.AppendUint64(nil, t.ctr)))
	t.ctr++
	out := make([]byte, n)
	sh.Read(out)
	t.Bind("squeeze", out)
	return out
}

func (t *ShakeTranscript) BackendTag() uint8 { return TagSHAKE }
