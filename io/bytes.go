// Package io provides bounded binary read/write helpers shared by the proof
// serialization code. All length prefixes are big-endian, and every read takes
// an explicit upper bound so adversarial length fields cannot trigger huge
// allocations.
package io

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// WriteUint8 writes a single byte to the writer.
func WriteUint8(w io.Writer, v uint8) (int64, error) {
	n, err := w.Write([]byte{v})
	return int64(n), err
}

// ReadUint8 reads a single byte from the reader.
func ReadUint8(r io.Reader) (uint8, int64, error) {
	var buf [1]byte
	n, err := io.ReadFull(r, buf[:])
	return buf[0], int64(n), err
}

// WriteUint32 writes a big-endian uint32 to the writer.
func WriteUint32(w io.Writer, v uint32) (int64, error) {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], v)
	n, err := w.Write(buf[:])
	return int64(n), err
}

// ReadUint32 reads a big-endian uint32 from the reader.
func ReadUint32(r io.Reader) (uint32, int64, error) {
	var buf [4]byte
	n, err := io.ReadFull(r, buf[:])
	return binary.BigEndian.Uint32(buf[:]), int64(n), err
}

// WriteBytes writes a byte slice prefixed with its big-endian uint32 length.
func WriteBytes(w io.Writer, b []byte) (int64, error) {
	if uint64(len(b)) > math.MaxUint32 {
		return 0, fmt.Errorf("byte slice too long %d", len(b))
	}
	written, err := WriteUint32(w, uint32(len(b)))
	if err != nil {
		return written, err
	}
	n, err := w.Write(b)
	return written + int64(n), err
}

// ReadBytes reads a length-prefixed byte slice, rejecting lengths above max.
func ReadBytes(r io.Reader, max uint32) ([]byte, int64, error) {
	length, read, err := ReadUint32(r)
	if err != nil {
		return nil, read, err
	}
	if length > max {
		return nil, read, fmt.Errorf("declared length %d exceeds limit %d", length, max)
	}
	if length == 0 {
		return nil, read, nil
	}
	b := make([]byte, length)
	n, err := io.ReadFull(r, b)
	if err != nil {
		return nil, read + int64(n), err
	}
	return b, read + int64(n), nil
}
