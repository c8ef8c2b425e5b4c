// Copyright 2026 RGB Protocol
//
// Small-varint and fixed-width little-endian primitives

// Package strictenc implements the strict, deterministic binary encoding
// that every content-addressed entity in the engine is serialized with.
// decode(encode(x)) == x for all x, and encode is a pure function of x
// alone: fixed-width integers are little-endian, variable-length fields
// are length-prefixed with a small-varint, and maps are always emitted
// sorted by key. Content hashing depends on this being byte-exact across
// runs and platforms, so nothing here may be "permissive" on decode.
package strictenc

import (
	"encoding/binary"
	"fmt"
	"io"
)

// maxVarint bounds how large a single length prefix may declare itself,
// guarding decode against hostile/corrupt length fields before any
// allocation happens.
const maxVarint = 1 << 32

// WriteVarint writes n as a small-varint: 7 bits per byte, low-to-high,
// continuation bit set on every byte but the last.
func WriteVarint(w io.ByteWriter, n uint64) error {
	for n >= 0x80 {
		if err := w.WriteByte(byte(n) | 0x80); err != nil {
			return err
		}
		n >>= 7
	}
	return w.WriteByte(byte(n))
}

// ReadVarint reads a small-varint written by WriteVarint. It rejects
// encodings that are longer than necessary to represent a uint64 and
// encodings that overflow maxVarint, since a decoder that accepted either
// would no longer be a pure inverse of the encoder.
func ReadVarint(r io.ByteReader) (uint64, error) {
	var n uint64
	var shift uint
	for i := 0; ; i++ {
		if i > 9 {
			return 0, fmt.Errorf("strictenc: varint too long")
		}
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		n |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			break
		}
		shift += 7
	}
	if n >= maxVarint {
		return 0, fmt.Errorf("strictenc: varint %d exceeds maximum %d", n, maxVarint)
	}
	return n, nil
}

// PutUint16 / PutUint32 / PutUint64 append fixed-width little-endian
// integers.
func PutUint16(buf []byte, v uint16) []byte {
	var tmp [2]byte
	binary.LittleEndian.PutUint16(tmp[:], v)
	return append(buf, tmp[:]...)
}

func PutUint32(buf []byte, v uint32) []byte {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	return append(buf, tmp[:]...)
}

func PutUint64(buf []byte, v uint64) []byte {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	return append(buf, tmp[:]...)
}
